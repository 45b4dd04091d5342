// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package setup

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/davidmoreno/marketrank/auth"
	"github.com/davidmoreno/marketrank/cliparse"
)

// Run bootstraps an empty database: it creates or promotes the initial
// admin and optionally mints a batch of invitations so the first real
// users can register. Safe to leave enabled across restarts.
func Run(conn *sql.DB, cfg cliparse.Config) error {
	adminID, created, err := EnsureAdmin(conn, cfg.SetupAdminEmail, cfg.SetupAdminPassword)
	if err != nil {
		return err
	}
	if created {
		slog.Info("initial admin created", "email", cfg.SetupAdminEmail)
	} else {
		slog.Info("initial admin already present", "email", cfg.SetupAdminEmail)
	}

	if cfg.SetupInvitations > 0 && created {
		codes, err := CreateInvitations(conn, adminID, cfg.SetupInvitations)
		if err != nil {
			return err
		}
		for _, code := range codes {
			slog.Info("setup invitation minted", "code", code)
		}
	}
	return nil
}

// EnsureAdmin makes sure a user with the given email exists and has
// admin rights. An existing user is promoted in place; a missing one
// is created with the given password. Reports whether a user was
// created.
func EnsureAdmin(conn *sql.DB, email, password string) (string, bool, error) {
	var userID string
	var isAdmin bool
	err := conn.QueryRow(`
		SELECT id, is_admin FROM users WHERE email = $1
	`, email).Scan(&userID, &isAdmin)

	if err == nil {
		if !isAdmin {
			if _, err := conn.Exec(`UPDATE users SET is_admin = TRUE WHERE id = $1`, userID); err != nil {
				return "", false, fmt.Errorf("failed to promote admin: %w", err)
			}
			slog.Info("existing user promoted to admin", "user_id", userID)
		}
		return userID, false, nil
	}
	if err != sql.ErrNoRows {
		return "", false, fmt.Errorf("failed to query admin: %w", err)
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return "", false, fmt.Errorf("failed to hash admin password: %w", err)
	}

	userID = uuid.NewString()
	now := time.Now()

	tx, err := conn.Begin()
	if err != nil {
		return "", false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, is_admin, created_at)
		VALUES ($1, $2, $3, 'Admin', 'User', TRUE, $4)
	`, userID, email, passwordHash, now)
	if err != nil {
		return "", false, fmt.Errorf("failed to create admin: %w", err)
	}
	_, err = tx.Exec(`
		INSERT INTO user_stats (user_id, likes_received, likes_given, rank, last_updated)
		VALUES ($1, 0, 0, NULL, $2)
	`, userID, now)
	if err != nil {
		return "", false, fmt.Errorf("failed to create admin stats: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("failed to commit admin: %w", err)
	}
	return userID, true, nil
}

// CreateInvitations mints count open invitations attributed to the
// given admin and returns their codes.
func CreateInvitations(conn *sql.DB, createdBy string, count int) ([]string, error) {
	codes := make([]string, 0, count)
	now := time.Now()

	for i := 0; i < count; i++ {
		code, err := auth.GenerateInvitationCode()
		if err != nil {
			return nil, err
		}
		_, err = conn.Exec(`
			INSERT INTO invitations (id, code, used, created_by, created_at)
			VALUES ($1, $2, FALSE, $3, $4)
		`, uuid.NewString(), code, createdBy, now)
		if err != nil {
			return nil, fmt.Errorf("failed to create setup invitation: %w", err)
		}
		codes = append(codes, code)
	}
	return codes, nil
}
