// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"fmt"

	"github.com/davidmoreno/marketrank/metrics"
)

type rankedUser struct {
	userID        string
	likesReceived int
	rank          *int
}

// RecomputeAllRanks assigns standard competition ranks ("1224") over
// all users by likes received: tied users share a rank, and the next
// distinct count resumes at its 1-based position. Users with zero
// likes received are unranked (NULL), even when everyone has zero.
//
// Ordering within a tie group is likes_received desc, first_name asc,
// id asc - deterministic but irrelevant to the assigned rank.
// Idempotent; runs after every like mutation and on demand.
func (l *Ledger) RecomputeAllRanks() error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query(`
		SELECT us.user_id, us.likes_received
		FROM user_stats us
		JOIN users u ON u.id = us.user_id
		ORDER BY us.likes_received DESC, u.first_name ASC, u.id ASC
	`)
	if err != nil {
		return fmt.Errorf("failed to load stats: %w", err)
	}

	var users []rankedUser
	for rows.Next() {
		var u rankedUser
		if err := rows.Scan(&u.userID, &u.likesReceived); err != nil {
			rows.Close()
			return fmt.Errorf("failed to scan stats row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Close(); err != nil {
		return fmt.Errorf("failed to read stats rows: %w", err)
	}

	// Walk the sorted sequence: position is the 1-based ordinal, and
	// the rank only advances when the count drops below the previous
	// row's
	currentRank := 1
	previousLikes := -1
	for i := range users {
		position := i + 1
		if previousLikes >= 0 && users[i].likesReceived != previousLikes {
			currentRank = position
		}
		if users[i].likesReceived > 0 {
			r := currentRank
			users[i].rank = &r
		}
		previousLikes = users[i].likesReceived
	}

	for _, u := range users {
		if _, err := tx.Exec(`UPDATE user_stats SET rank = $1 WHERE user_id = $2`, u.rank, u.userID); err != nil {
			return fmt.Errorf("failed to write rank: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit ranks: %w", err)
	}

	metrics.RankRecomputes.Inc()
	return nil
}
