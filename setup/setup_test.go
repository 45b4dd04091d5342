// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package setup

import (
	"testing"

	"github.com/davidmoreno/marketrank/auth"
	"github.com/davidmoreno/marketrank/testutil"
)

func TestEnsureAdminCreates(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	userID, created, err := EnsureAdmin(conn, "admin@example.com", "changeme123")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if !created {
		t.Error("Expected a new admin to be created")
	}

	var isAdmin bool
	var passwordHash string
	err = conn.QueryRow(`SELECT is_admin, password_hash FROM users WHERE id = $1`, userID).Scan(&isAdmin, &passwordHash)
	if err != nil {
		t.Fatalf("Failed to read admin: %v", err)
	}
	if !isAdmin {
		t.Error("Expected is_admin TRUE")
	}
	if err := auth.CheckPassword(passwordHash, "changeme123"); err != nil {
		t.Error("Expected the setup password to verify")
	}

	// The admin participates in ranking like everyone else
	var statsCount int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM user_stats WHERE user_id = $1`, userID).Scan(&statsCount); err != nil {
		t.Fatalf("Failed to read stats: %v", err)
	}
	if statsCount != 1 {
		t.Error("Expected an eager stats row for the admin")
	}
}

func TestEnsureAdminIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	first, created, err := EnsureAdmin(conn, "admin@example.com", "changeme123")
	if err != nil || !created {
		t.Fatalf("First EnsureAdmin failed: created=%v err=%v", created, err)
	}

	second, created, err := EnsureAdmin(conn, "admin@example.com", "changeme123")
	if err != nil {
		t.Fatalf("Second EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("Expected no new admin on the second run")
	}
	if second != first {
		t.Errorf("Expected the same admin id, got %s and %s", first, second)
	}

	var count int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count); err != nil {
		t.Fatalf("Failed to count users: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 user, got %d", count)
	}
}

func TestEnsureAdminPromotesExisting(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	userID := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")

	promoted, created, err := EnsureAdmin(conn, "alice@example.com", "irrelevant123")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}
	if created {
		t.Error("Expected promotion, not creation")
	}
	if promoted != userID {
		t.Errorf("Expected existing user id %s, got %s", userID, promoted)
	}

	var isAdmin bool
	if err := conn.QueryRow(`SELECT is_admin FROM users WHERE id = $1`, userID).Scan(&isAdmin); err != nil {
		t.Fatalf("Failed to read user: %v", err)
	}
	if !isAdmin {
		t.Error("Expected the existing user promoted to admin")
	}
}

func TestCreateInvitations(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	adminID, _, err := EnsureAdmin(conn, "admin@example.com", "changeme123")
	if err != nil {
		t.Fatalf("EnsureAdmin failed: %v", err)
	}

	codes, err := CreateInvitations(conn, adminID, 5)
	if err != nil {
		t.Fatalf("CreateInvitations failed: %v", err)
	}
	if len(codes) != 5 {
		t.Fatalf("Expected 5 codes, got %d", len(codes))
	}

	var unused int
	err = conn.QueryRow(`
		SELECT COUNT(*) FROM invitations WHERE created_by = $1 AND used = FALSE
	`, adminID).Scan(&unused)
	if err != nil {
		t.Fatalf("Failed to count invitations: %v", err)
	}
	if unused != 5 {
		t.Errorf("Expected 5 unused invitations, got %d", unused)
	}
}

func TestRunBootstrapsEmptyDatabase(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()

	cfg := testutil.GetTestConfig()
	cfg.SetupAdminEmail = "admin@example.com"
	cfg.SetupAdminPassword = "changeme123"
	cfg.SetupInvitations = 3

	if err := Run(conn, cfg); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var admins, invitations int
	if err := conn.QueryRow(`SELECT COUNT(*) FROM users WHERE is_admin = TRUE`).Scan(&admins); err != nil {
		t.Fatalf("Failed to count admins: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM invitations`).Scan(&invitations); err != nil {
		t.Fatalf("Failed to count invitations: %v", err)
	}
	if admins != 1 {
		t.Errorf("Expected 1 admin, got %d", admins)
	}
	if invitations != 3 {
		t.Errorf("Expected 3 invitations, got %d", invitations)
	}

	// A restart with the same settings changes nothing
	if err := Run(conn, cfg); err != nil {
		t.Fatalf("Second Run failed: %v", err)
	}
	if err := conn.QueryRow(`SELECT COUNT(*) FROM invitations`).Scan(&invitations); err != nil {
		t.Fatalf("Failed to count invitations: %v", err)
	}
	if invitations != 3 {
		t.Errorf("Expected invitations untouched on restart, got %d", invitations)
	}
}
