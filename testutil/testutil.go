// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/davidmoreno/marketrank/auth"
	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/db"
)

// SetupTestDB creates a fresh in-memory SQLite database with the full
// schema. Each call gets its own database; it lives as long as the
// returned handle.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	// A named in-memory database with shared cache so the pool's
	// connections all see the same data; one connection at a time
	// keeps SQLite's writer locking out of the tests' way
	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8000,
		DatabaseURL:  ":memory:",
		DatabaseType: "sqlite",
		JWTSecret:    "test-jwt-secret",
	}
}

// CreateTestUser inserts a user plus their empty stats row and
// returns the user ID. The password hash is a placeholder; use the
// register endpoint when a test needs a working login.
func CreateTestUser(t *testing.T, conn *sql.DB, firstName, lastName, email string) string {
	t.Helper()

	userID := uuid.NewString()
	now := time.Now()

	_, err := conn.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, is_admin, created_at)
		VALUES ($1, $2, 'x', $3, $4, FALSE, $5)
	`, userID, email, firstName, lastName, now)
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	_, err = conn.Exec(`
		INSERT INTO user_stats (user_id, likes_received, likes_given, rank, last_updated)
		VALUES ($1, 0, 0, NULL, $2)
	`, userID, now)
	if err != nil {
		t.Fatalf("Failed to create test user stats: %v", err)
	}

	return userID
}

// CreateTestAdmin inserts an admin user and returns the user ID
func CreateTestAdmin(t *testing.T, conn *sql.DB, email string) string {
	t.Helper()

	userID := CreateTestUser(t, conn, "Admin", "User", email)
	if _, err := conn.Exec(`UPDATE users SET is_admin = TRUE WHERE id = $1`, userID); err != nil {
		t.Fatalf("Failed to promote test admin: %v", err)
	}
	return userID
}

// CreateTestInvitation inserts an unused invitation and returns its code
func CreateTestInvitation(t *testing.T, conn *sql.DB, createdBy string, email *string) string {
	t.Helper()

	code, err := auth.GenerateInvitationCode()
	if err != nil {
		t.Fatalf("Failed to generate invitation code: %v", err)
	}
	_, err = conn.Exec(`
		INSERT INTO invitations (id, code, email, used, created_by, created_at)
		VALUES ($1, $2, $3, FALSE, $4, $5)
	`, uuid.NewString(), code, email, createdBy, time.Now())
	if err != nil {
		t.Fatalf("Failed to create test invitation: %v", err)
	}

	return code
}

// AuthHeader returns an Authorization header value for the given user
func AuthHeader(t *testing.T, cfg cliparse.Config, userID string, isAdmin bool) string {
	t.Helper()

	token, err := auth.GenerateToken(userID, isAdmin, cfg.JWTSecret)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return "Bearer " + token
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
