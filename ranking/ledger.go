// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package ranking

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidmoreno/marketrank/metrics"
	"github.com/davidmoreno/marketrank/models"
)

var (
	ErrSelfLike      = errors.New("cannot like yourself")
	ErrQuotaExceeded = errors.New("all available likes already used")
	ErrDuplicateLike = errors.New("user already liked")
	ErrLikeNotFound  = errors.New("like not found")
	ErrUserNotFound  = errors.New("user not found")
)

// Quota is the maximum number of outgoing likes per user
const Quota = 5

// Ledger owns the likes table. All like mutations go through it; on
// every successful mutation it refreshes the stats of both parties in
// the same transaction and then recomputes all ranks.
type Ledger struct {
	db     *sql.DB
	driver string
}

// NewLedger creates a Ledger. databaseType is "sqlite" or "postgres"
// and selects the giver-locking strategy for the create path.
func NewLedger(db *sql.DB, databaseType string) *Ledger {
	return &Ledger{db: db, driver: databaseType}
}

// CreateLike validates and persists a giver→target edge.
// Returns ErrSelfLike, ErrUserNotFound, ErrDuplicateLike, or
// ErrQuotaExceeded on rejection.
func (l *Ledger) CreateLike(giverID, targetID string) (models.Like, error) {
	if giverID == targetID {
		metrics.LikesRejected.WithLabelValues("self_like").Inc()
		return models.Like{}, ErrSelfLike
	}

	tx, err := l.db.Begin()
	if err != nil {
		return models.Like{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// The quota count and the insert must act as one atomic unit, or
	// two concurrent creates from the same giver could both observe
	// "4 of 5 used". SQLite serializes writers on its own; postgres
	// needs an advisory lock scoped to the giver.
	if l.driver == "postgres" {
		if _, err := tx.Exec(`SELECT pg_advisory_xact_lock(hashtext($1))`, giverID); err != nil {
			return models.Like{}, fmt.Errorf("failed to lock giver: %w", err)
		}
	}

	var targetExists bool
	err = tx.QueryRow(`SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)`, targetID).Scan(&targetExists)
	if err != nil {
		return models.Like{}, fmt.Errorf("failed to check target user: %w", err)
	}
	if !targetExists {
		return models.Like{}, ErrUserNotFound
	}

	var alreadyLiked bool
	err = tx.QueryRow(`
		SELECT EXISTS(SELECT 1 FROM likes WHERE giver_id = $1 AND target_id = $2)
	`, giverID, targetID).Scan(&alreadyLiked)
	if err != nil {
		return models.Like{}, fmt.Errorf("failed to check existing like: %w", err)
	}
	if alreadyLiked {
		metrics.LikesRejected.WithLabelValues("duplicate_like").Inc()
		return models.Like{}, ErrDuplicateLike
	}

	var given int
	err = tx.QueryRow(`SELECT COUNT(*) FROM likes WHERE giver_id = $1`, giverID).Scan(&given)
	if err != nil {
		return models.Like{}, fmt.Errorf("failed to count given likes: %w", err)
	}
	if given >= Quota {
		metrics.LikesRejected.WithLabelValues("quota_exceeded").Inc()
		return models.Like{}, ErrQuotaExceeded
	}

	like := models.Like{
		ID:        uuid.NewString(),
		GiverID:   giverID,
		TargetID:  targetID,
		CreatedAt: time.Now(),
	}
	_, err = tx.Exec(`
		INSERT INTO likes (id, giver_id, target_id, created_at)
		VALUES ($1, $2, $3, $4)
	`, like.ID, like.GiverID, like.TargetID, like.CreatedAt)
	if err != nil {
		// The UNIQUE (giver_id, target_id) constraint backstops the
		// pre-check under concurrency
		if isUniqueViolation(err) {
			metrics.LikesRejected.WithLabelValues("duplicate_like").Inc()
			return models.Like{}, ErrDuplicateLike
		}
		return models.Like{}, fmt.Errorf("failed to insert like: %w", err)
	}

	if err := refreshStatsTx(tx, giverID); err != nil {
		return models.Like{}, err
	}
	if err := refreshStatsTx(tx, targetID); err != nil {
		return models.Like{}, err
	}

	if err := tx.Commit(); err != nil {
		return models.Like{}, fmt.Errorf("failed to commit like: %w", err)
	}

	metrics.LikesAdded.Inc()

	// The like is committed; a failed recompute only leaves ranks
	// stale until the next one runs
	if err := l.RecomputeAllRanks(); err != nil {
		slog.Error("rank recompute failed after like", "error", err)
	}
	return like, nil
}

// DeleteLike removes the giver→target edge.
// Returns ErrLikeNotFound if no such edge exists.
func (l *Ledger) DeleteLike(giverID, targetID string) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		DELETE FROM likes WHERE giver_id = $1 AND target_id = $2
	`, giverID, targetID)
	if err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrLikeNotFound
	}

	if err := refreshStatsTx(tx, giverID); err != nil {
		return err
	}
	if err := refreshStatsTx(tx, targetID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	metrics.LikesRemoved.Inc()

	if err := l.RecomputeAllRanks(); err != nil {
		slog.Error("rank recompute failed after unlike", "error", err)
	}
	return nil
}

// DeleteLikeByID removes a like by primary key, but only if callerID
// is its giver. Likes owned by others report ErrLikeNotFound rather
// than confirming their existence.
func (l *Ledger) DeleteLikeByID(likeID, callerID string) error {
	tx, err := l.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var giverID, targetID string
	err = tx.QueryRow(`
		SELECT giver_id, target_id FROM likes WHERE id = $1
	`, likeID).Scan(&giverID, &targetID)
	if err == sql.ErrNoRows {
		return ErrLikeNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to query like: %w", err)
	}
	if giverID != callerID {
		return ErrLikeNotFound
	}

	if _, err := tx.Exec(`DELETE FROM likes WHERE id = $1`, likeID); err != nil {
		return fmt.Errorf("failed to delete like: %w", err)
	}

	if err := refreshStatsTx(tx, giverID); err != nil {
		return err
	}
	if err := refreshStatsTx(tx, targetID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	metrics.LikesRemoved.Inc()

	if err := l.RecomputeAllRanks(); err != nil {
		slog.Error("rank recompute failed after unlike", "error", err)
	}
	return nil
}

// ToggleLike removes the giver→target edge if it exists, otherwise
// creates it. Returns "added" or "removed".
func (l *Ledger) ToggleLike(giverID, targetID string) (string, error) {
	err := l.DeleteLike(giverID, targetID)
	switch {
	case err == nil:
		return "removed", nil
	case errors.Is(err, ErrLikeNotFound):
		if _, err := l.CreateLike(giverID, targetID); err != nil {
			return "", err
		}
		return "added", nil
	default:
		return "", err
	}
}

// ResetAll deletes every like, zeroes every stats row, and clears all
// ranks. Returns the number of likes deleted.
func (l *Ledger) ResetAll() (int64, error) {
	tx, err := l.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM likes`)
	if err != nil {
		return 0, fmt.Errorf("failed to delete likes: %w", err)
	}
	deleted, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read affected rows: %w", err)
	}

	_, err = tx.Exec(`
		UPDATE user_stats
		SET likes_received = 0, likes_given = 0, rank = NULL, last_updated = $1
	`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to reset stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit reset: %w", err)
	}
	return deleted, nil
}

// isUniqueViolation reports whether err is a unique-constraint error
// from either supported database engine
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
