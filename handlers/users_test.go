// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
	"github.com/davidmoreno/marketrank/testutil"
)

func usersMux(conn *sql.DB, cfg cliparse.Config) *http.ServeMux {
	handler := NewUserHandler(conn, cfg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /marketers", authedFunc(cfg, handler.ListMarketers))
	mux.HandleFunc("GET /marketers/{id}", authedFunc(cfg, handler.GetMarketer))
	mux.HandleFunc("GET /user/stats", authedFunc(cfg, handler.GetMyStats))
	mux.HandleFunc("GET /profile", authedFunc(cfg, handler.GetProfile))
	mux.HandleFunc("PATCH /profile", authedFunc(cfg, handler.UpdateProfile))
	mux.HandleFunc("GET /search", authedFunc(cfg, handler.Search))
	return mux
}

func TestListMarketers(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)
	ledger := ranking.NewLedger(conn, cfg.DatabaseType)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	bob := testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")
	carol := testutil.CreateTestUser(t, conn, "Carol", "White", "carol@example.com")

	// bob gets two likes, carol one; order is bob, carol, alice
	if _, err := ledger.CreateLike(alice, bob); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}
	if _, err := ledger.CreateLike(carol, bob); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}
	if _, err := ledger.CreateLike(alice, carol); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/marketers", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.MarketersResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalMarketers != 3 {
		t.Fatalf("Expected 3 marketers, got %d", resp.TotalMarketers)
	}
	if resp.Results[0].ID != bob {
		t.Errorf("Expected bob first, got '%s'", resp.Results[0].FullName)
	}
	if resp.Results[1].ID != carol {
		t.Errorf("Expected carol second, got '%s'", resp.Results[1].FullName)
	}

	// Caller summary reflects alice's two given likes
	if resp.UserStats.LikesGiven != 2 {
		t.Errorf("Expected caller likes_given 2, got %d", resp.UserStats.LikesGiven)
	}
	if resp.UserStats.RemainingLikes != ranking.Quota-2 {
		t.Errorf("Expected caller remaining %d, got %d", ranking.Quota-2, resp.UserStats.RemainingLikes)
	}
}

func TestListMarketersSearchFilter(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/marketers?search=alice", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.MarketersResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.TotalMarketers != 1 {
		t.Fatalf("Expected 1 match, got %d", resp.TotalMarketers)
	}
	if resp.Results[0].ID != alice {
		t.Errorf("Expected alice, got '%s'", resp.Results[0].FullName)
	}
}

func TestGetMarketer(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)
	ledger := ranking.NewLedger(conn, cfg.DatabaseType)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	bob := testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")

	if _, err := ledger.CreateLike(alice, bob); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/marketers/"+bob, nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.UserDetailResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.User.ID != bob {
		t.Errorf("Expected bob's profile, got '%s'", resp.User.ID)
	}
	if resp.User.LikesReceived != 1 {
		t.Errorf("Expected 1 like received, got %d", resp.User.LikesReceived)
	}
	if len(resp.ReceivedLikes) != 1 {
		t.Fatalf("Expected 1 received edge, got %d", len(resp.ReceivedLikes))
	}
	if resp.ReceivedLikes[0].UserID != alice {
		t.Errorf("Expected received edge from alice, got '%s'", resp.ReceivedLikes[0].Name)
	}
}

func TestGetMarketerNotFound(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("GET", "/marketers/no-such-user", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusNotFound)
}

func TestGetMyStats(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)
	ledger := ranking.NewLedger(conn, cfg.DatabaseType)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	bob := testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")

	if _, err := ledger.CreateLike(alice, bob); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}
	if _, err := ledger.CreateLike(bob, alice); err != nil {
		t.Fatalf("Seed like failed: %v", err)
	}

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/user/stats", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.UserStatsDetail
	testutil.AssertJSON(t, w, &resp)
	if resp.LikesGiven != 1 || resp.LikesReceived != 1 {
		t.Errorf("Expected stats 1/1, got %d/%d", resp.LikesGiven, resp.LikesReceived)
	}
	if resp.Rank == nil {
		t.Error("Expected a rank for a user with likes")
	}
	if len(resp.GivenLikesDetails) != 1 || len(resp.ReceivedLikesDetails) != 1 {
		t.Errorf("Expected 1 edge each way, got %d/%d",
			len(resp.GivenLikesDetails), len(resp.ReceivedLikesDetails))
	}
}

func TestGetProfile(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("GET", "/profile", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.UserProfile
	testutil.AssertJSON(t, w, &resp)
	if resp.ID != alice {
		t.Errorf("Expected the caller's profile, got '%s'", resp.ID)
	}
	if resp.FullName != "Alice Smith" {
		t.Errorf("Expected 'Alice Smith', got '%s'", resp.FullName)
	}
	if resp.RemainingLikes != ranking.Quota {
		t.Errorf("Expected %d remaining likes, got %d", ranking.Quota, resp.RemainingLikes)
	}
}

func strPtr(s string) *string { return &s }

func TestUpdateProfile(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("PATCH", "/profile", models.UpdateProfileRequest{
		FirstName: strPtr("Alicia"),
		Bio:       strPtr("Growth marketer"),
	}, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.UserProfile
	testutil.AssertJSON(t, w, &resp)
	if resp.FirstName != "Alicia" {
		t.Errorf("Expected first name updated, got '%s'", resp.FirstName)
	}
	// Omitted fields keep their value
	if resp.LastName != "Smith" {
		t.Errorf("Expected last name untouched, got '%s'", resp.LastName)
	}
	if resp.Bio == nil || *resp.Bio != "Growth marketer" {
		t.Error("Expected bio updated")
	}

	var firstName string
	if err := conn.QueryRow(`SELECT first_name FROM users WHERE id = $1`, alice).Scan(&firstName); err != nil {
		t.Fatalf("Failed to read user: %v", err)
	}
	if firstName != "Alicia" {
		t.Errorf("Expected persisted first name 'Alicia', got '%s'", firstName)
	}
}

func TestUpdateProfileEmptyName(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("PATCH", "/profile", models.UpdateProfileRequest{
		FirstName: strPtr("  "),
	}, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}

func TestSearchEndpoint(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	testutil.CreateTestUser(t, conn, "Bob", "Jones", "bob@example.com")

	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}
	req := testutil.MakeRequest("GET", "/search?q=jones", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)
	var resp models.SearchResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Count != 1 {
		t.Fatalf("Expected 1 match, got %d", resp.Count)
	}
	if resp.Results[0].FullName != "Bob Jones" {
		t.Errorf("Expected 'Bob Jones', got '%s'", resp.Results[0].FullName)
	}
}

func TestSearchQueryTooShort(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	defer conn.Close()
	cfg := testutil.GetTestConfig()
	mux := usersMux(conn, cfg)

	alice := testutil.CreateTestUser(t, conn, "Alice", "Smith", "alice@example.com")
	headers := map[string]string{"Authorization": testutil.AuthHeader(t, cfg, alice, false)}

	req := testutil.MakeRequest("GET", "/search?q=a", nil, headers)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)

	testutil.AssertStatus(t, w, http.StatusBadRequest)
}
