// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
)

type LikeHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *ranking.Ledger
}

func NewLikeHandler(db *sql.DB, cfg cliparse.Config, ledger *ranking.Ledger) *LikeHandler {
	return &LikeHandler{db: db, cfg: cfg, ledger: ledger}
}

// Toggle handles POST /likes/toggle
// Creates the like if absent, removes it if present.
func (h *LikeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req models.ToggleLikeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}
	if req.TargetUserID == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "target_user_id is required")
		return
	}

	action, err := h.ledger.ToggleLike(claims.UserID, req.TargetUserID)
	if err != nil {
		writeLedgerError(w, err)
		return
	}

	var given int
	err = h.db.QueryRow(`
		SELECT likes_given FROM user_stats WHERE user_id = $1
	`, claims.UserID).Scan(&given)
	if err != nil {
		slog.Error("failed to read giver stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var targetLikes int
	err = h.db.QueryRow(`
		SELECT likes_received FROM user_stats WHERE user_id = $1
	`, req.TargetUserID).Scan(&targetLikes)
	if err != nil {
		slog.Error("failed to read target stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	message := "Like sent successfully"
	if action == "removed" {
		message = "Like removed successfully"
	}

	slog.Info("like toggled", "giver_id", claims.UserID, "target_id", req.TargetUserID, "action", action)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleLikeResponse{
		Action:           action,
		Message:          message,
		RemainingLikes:   remainingLikes(given),
		TargetLikesCount: targetLikes,
	})
}

// Delete handles DELETE /likes/{id}
// Removes a like the caller owns; 404 if not found or not owned.
func (h *LikeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	likeID := r.PathValue("id")
	if likeID == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "like id is required")
		return
	}

	if err := h.ledger.DeleteLikeByID(likeID, claims.UserID); err != nil {
		writeLedgerError(w, err)
		return
	}

	var given int
	err := h.db.QueryRow(`
		SELECT likes_given FROM user_stats WHERE user_id = $1
	`, claims.UserID).Scan(&given)
	if err != nil {
		slog.Error("failed to read giver stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("like deleted", "like_id", likeID, "giver_id", claims.UserID)

	middleware.JSONResponse(w, http.StatusOK, models.DeleteLikeResponse{
		Message:        "Like removed successfully",
		RemainingLikes: remainingLikes(given),
	})
}

// MyLikes handles GET /likes/my-likes
// Lists the caller's outgoing likes with target details.
func (h *LikeHandler) MyLikes(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	likes, err := likeDetails(h.db, claims.UserID, false)
	if err != nil {
		slog.Error("failed to query likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MyLikesResponse{
		Likes:     likes,
		Total:     len(likes),
		Remaining: remainingLikes(len(likes)),
	})
}

// writeLedgerError translates ranking sentinel errors into structured
// API errors; anything else is a persistence failure and surfaces as 500
func writeLedgerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ranking.ErrSelfLike):
		middleware.KindResponse(w, http.StatusBadRequest, models.KindSelfLike, "You cannot like yourself")
	case errors.Is(err, ranking.ErrQuotaExceeded):
		middleware.KindResponse(w, http.StatusBadRequest, models.KindQuota, "You have used all your available likes")
	case errors.Is(err, ranking.ErrDuplicateLike):
		middleware.KindResponse(w, http.StatusBadRequest, models.KindDuplicate, "You have already liked this user")
	case errors.Is(err, ranking.ErrUserNotFound):
		middleware.KindResponse(w, http.StatusNotFound, models.KindNotFound, "User not found")
	case errors.Is(err, ranking.ErrLikeNotFound):
		middleware.KindResponse(w, http.StatusNotFound, models.KindNotFound, "Like not found")
	default:
		slog.Error("ledger operation failed", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
	}
}

// remainingLikes clamps the quota remainder at zero
func remainingLikes(given int) int {
	if given >= ranking.Quota {
		return 0
	}
	return ranking.Quota - given
}

// likeDetails loads the caller's edges joined with the counterpart
// user: received=false lists outgoing likes (joined on target),
// received=true lists incoming likes (joined on giver)
func likeDetails(db *sql.DB, userID string, received bool) ([]models.LikeDetail, error) {
	query := `
		SELECT l.id, u.id, u.first_name, u.last_name, u.email, l.created_at
		FROM likes l
		JOIN users u ON u.id = l.target_id
		WHERE l.giver_id = $1
		ORDER BY l.created_at DESC
	`
	if received {
		query = `
			SELECT l.id, u.id, u.first_name, u.last_name, u.email, l.created_at
			FROM likes l
			JOIN users u ON u.id = l.giver_id
			WHERE l.target_id = $1
			ORDER BY l.created_at DESC
		`
	}

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	details := []models.LikeDetail{}
	for rows.Next() {
		var d models.LikeDetail
		var firstName, lastName string
		if err := rows.Scan(&d.LikeID, &d.UserID, &firstName, &lastName, &d.Email, &d.CreatedAt); err != nil {
			return nil, err
		}
		d.Name = firstName + " " + lastName
		details = append(details, d)
	}
	return details, rows.Err()
}
