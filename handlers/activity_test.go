// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
	"github.com/davidmoreno/marketrank/testutil"
)

func TestActivityFeed(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	ledger := ranking.NewLedger(conn, cfg.DatabaseType)
	handler := NewActivityHandler(conn, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /activity", authedFunc(cfg, handler.Feed))

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	bob := testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")
	carol := testutil.CreateTestUser(t, conn, "Carol", "White", "carol@example.com")

	// alice gives one, receives one; one more edge exists globally
	for _, pair := range [][2]string{{alice, bob}, {bob, alice}, {carol, bob}} {
		if _, err := ledger.CreateLike(pair[0], pair[1]); err != nil {
			t.Fatalf("Seed like failed: %v", err)
		}
	}

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/activity", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ActivityResponse
	testutil.AssertJSON(t, w, &resp)

	if len(resp.RecentReceived) != 1 {
		t.Fatalf("Expected 1 received entry, got %d", len(resp.RecentReceived))
	}
	if resp.RecentReceived[0].From == nil || resp.RecentReceived[0].From.ID != bob {
		t.Error("Expected received entry from bob")
	}
	if resp.RecentReceived[0].TimeAgo == "" {
		t.Error("Expected a humanized timestamp")
	}

	if len(resp.RecentGiven) != 1 {
		t.Fatalf("Expected 1 given entry, got %d", len(resp.RecentGiven))
	}
	if resp.RecentGiven[0].To == nil || resp.RecentGiven[0].To.ID != bob {
		t.Error("Expected given entry to bob")
	}

	if len(resp.RecentActivity) != 3 {
		t.Errorf("Expected 3 global entries, got %d", len(resp.RecentActivity))
	}
	for _, e := range resp.RecentActivity {
		if e.From == nil || e.To == nil {
			t.Error("Expected both parties in global entries")
		}
	}
}

func TestActivityFeedEmpty(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	handler := NewActivityHandler(conn, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /activity", authedFunc(cfg, handler.Feed))

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("GET", "/activity", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.ActivityResponse
	testutil.AssertJSON(t, w, &resp)
	if len(resp.RecentReceived) != 0 || len(resp.RecentGiven) != 0 || len(resp.RecentActivity) != 0 {
		t.Error("Expected empty feeds for a fresh community")
	}
}
