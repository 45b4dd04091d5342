// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
)

type RankingHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *ranking.Ledger
}

func NewRankingHandler(db *sql.DB, cfg cliparse.Config, ledger *ranking.Ledger) *RankingHandler {
	return &RankingHandler{db: db, cfg: cfg, ledger: ledger}
}

// GetRanking handles GET /ranking?limit=N
// Returns users with likes_received > 0 in rank order. Unranked users
// never appear here.
func (h *RankingHandler) GetRanking(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "limit must be a positive integer")
			return
		}
		limit = n
	}

	rows, err := h.db.Query(`
		SELECT us.user_id, u.first_name, u.last_name, us.likes_received, us.rank
		FROM user_stats us
		JOIN users u ON u.id = us.user_id
		WHERE us.likes_received > 0
		ORDER BY us.rank ASC, u.first_name ASC, u.id ASC
		LIMIT $1
	`, limit)
	if err != nil {
		slog.Error("failed to query ranking", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	entries := []models.RankingEntry{}
	for rows.Next() {
		var e models.RankingEntry
		var firstName, lastName string
		var rank sql.NullInt64
		if err := rows.Scan(&e.UserID, &firstName, &lastName, &e.LikesCount, &rank); err != nil {
			slog.Error("failed to scan ranking row", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		e.FullName = firstName + " " + lastName
		e.Rank = int(rank.Int64)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read ranking rows", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.RankingResponse{
		Ranking:     entries,
		TotalRanked: len(entries),
	})
}

// UpdateRankings handles POST /rankings/update
// Forces a full rank recompute; safe to call at any time.
func (h *RankingHandler) UpdateRankings(w http.ResponseWriter, r *http.Request) {
	if err := h.ledger.RecomputeAllRanks(); err != nil {
		slog.Error("failed to recompute ranks", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to update rankings")
		return
	}

	slog.Info("rankings recomputed")

	middleware.JSONResponse(w, http.StatusOK, map[string]string{
		"message": "Rankings updated successfully",
	})
}
