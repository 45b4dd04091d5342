// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/davidmoreno/marketrank/models"
)

// RefreshStats recomputes likes_received and likes_given for one user
// from the likes table and persists the result. It is a pure function
// of the ledger's current state: idempotent and safe to call
// redundantly, including as an operator repair action.
func (l *Ledger) RefreshStats(userID string) (models.UserStats, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := refreshStatsTx(tx, userID); err != nil {
		return models.UserStats{}, err
	}

	var stats models.UserStats
	err = tx.QueryRow(`
		SELECT user_id, likes_received, likes_given, rank, last_updated
		FROM user_stats WHERE user_id = $1
	`, userID).Scan(&stats.UserID, &stats.LikesReceived, &stats.LikesGiven, &stats.Rank, &stats.LastUpdated)
	if err != nil {
		return models.UserStats{}, fmt.Errorf("failed to read stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.UserStats{}, fmt.Errorf("failed to commit stats refresh: %w", err)
	}
	return stats, nil
}

// refreshStatsTx synchronizes one user's stats row with the likes
// table inside an open transaction. The row is created lazily the
// first time a user is referenced.
func refreshStatsTx(tx *sql.Tx, userID string) error {
	now := time.Now()

	res, err := tx.Exec(`
		UPDATE user_stats
		SET likes_received = (SELECT COUNT(*) FROM likes WHERE target_id = $1),
		    likes_given = (SELECT COUNT(*) FROM likes WHERE giver_id = $1),
		    last_updated = $2
		WHERE user_id = $1
	`, userID, now)
	if err != nil {
		return fmt.Errorf("failed to refresh stats: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		_, err = tx.Exec(`
			INSERT INTO user_stats (user_id, likes_received, likes_given, rank, last_updated)
			VALUES ($1,
				(SELECT COUNT(*) FROM likes WHERE target_id = $1),
				(SELECT COUNT(*) FROM likes WHERE giver_id = $1),
				NULL, $2)
		`, userID, now)
		if err != nil {
			return fmt.Errorf("failed to create stats row: %w", err)
		}
	}
	return nil
}
