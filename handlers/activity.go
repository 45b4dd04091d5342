// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
)

type ActivityHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewActivityHandler(db *sql.DB, cfg cliparse.Config) *ActivityHandler {
	return &ActivityHandler{db: db, cfg: cfg}
}

// Feed handles GET /activity
// Returns the caller's recent received and given likes plus the most
// recent likes across the whole community.
func (h *ActivityHandler) Feed(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	received, err := h.recentLikes(`
		SELECT l.id, g.id, g.first_name, g.last_name, t.id, t.first_name, t.last_name, l.created_at
		FROM likes l
		JOIN users g ON g.id = l.giver_id
		JOIN users t ON t.id = l.target_id
		WHERE l.target_id = $1
		ORDER BY l.created_at DESC LIMIT 10
	`, true, false, claims.UserID)
	if err != nil {
		slog.Error("failed to query received activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	given, err := h.recentLikes(`
		SELECT l.id, g.id, g.first_name, g.last_name, t.id, t.first_name, t.last_name, l.created_at
		FROM likes l
		JOIN users g ON g.id = l.giver_id
		JOIN users t ON t.id = l.target_id
		WHERE l.giver_id = $1
		ORDER BY l.created_at DESC LIMIT 10
	`, false, true, claims.UserID)
	if err != nil {
		slog.Error("failed to query given activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	global, err := h.recentLikes(`
		SELECT l.id, g.id, g.first_name, g.last_name, t.id, t.first_name, t.last_name, l.created_at
		FROM likes l
		JOIN users g ON g.id = l.giver_id
		JOIN users t ON t.id = l.target_id
		ORDER BY l.created_at DESC LIMIT 20
	`, true, true)
	if err != nil {
		slog.Error("failed to query global activity", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.ActivityResponse{
		RecentReceived: received,
		RecentGiven:    given,
		RecentActivity: global,
	})
}

// recentLikes runs an activity query; includeFrom/includeTo control
// which side of the edge appears in the entries
func (h *ActivityHandler) recentLikes(query string, includeFrom, includeTo bool, args ...interface{}) ([]models.ActivityEntry, error) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.ActivityEntry{}
	for rows.Next() {
		var e models.ActivityEntry
		var giver, target models.ActivityUser
		var gFirst, gLast, tFirst, tLast string
		if err := rows.Scan(&e.LikeID, &giver.ID, &gFirst, &gLast, &target.ID, &tFirst, &tLast, &e.CreatedAt); err != nil {
			return nil, err
		}
		giver.Name = gFirst + " " + gLast
		target.Name = tFirst + " " + tLast
		if includeFrom {
			e.From = &giver
		}
		if includeTo {
			e.To = &target
		}
		e.TimeAgo = humanize.Time(e.CreatedAt)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
