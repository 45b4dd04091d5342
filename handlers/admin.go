// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/davidmoreno/marketrank/auth"
	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
)

const defaultInvitationDays = 30

type AdminHandler struct {
	db     *sql.DB
	cfg    cliparse.Config
	ledger *ranking.Ledger
}

func NewAdminHandler(db *sql.DB, cfg cliparse.Config, ledger *ranking.Ledger) *AdminHandler {
	return &AdminHandler{db: db, cfg: cfg, ledger: ledger}
}

// CreateInvitation handles POST /admin/invitations
func (h *AdminHandler) CreateInvitation(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req models.CreateInvitationRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}

	var email *string
	if req.Email != "" {
		email = &req.Email
	}
	inv, err := h.insertInvitation(claims.UserID, email, req.ExpiresDays)
	if err != nil {
		slog.Error("failed to create invitation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invitation")
		return
	}

	slog.Info("invitation created", "invitation_id", inv.ID, "created_by", claims.UserID)

	middleware.JSONResponse(w, http.StatusCreated, models.InvitationsResponse{
		Invitations: []models.Invitation{inv},
		Count:       1,
		Message:     "Invitation created successfully",
	})
}

// BulkInvitations handles POST /admin/invitations/bulk
func (h *AdminHandler) BulkInvitations(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req models.BulkInvitationsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}
	if req.Count < 1 || req.Count > 100 {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "count must be between 1 and 100")
		return
	}

	invitations := make([]models.Invitation, 0, req.Count)
	for i := 0; i < req.Count; i++ {
		var email *string
		if i < len(req.Emails) && req.Emails[i] != "" {
			email = &req.Emails[i]
		}
		inv, err := h.insertInvitation(claims.UserID, email, req.ExpiresDays)
		if err != nil {
			slog.Error("failed to create invitation", "error", err, "index", i)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create invitations")
			return
		}
		invitations = append(invitations, inv)
	}

	slog.Info("invitations created", "count", len(invitations), "created_by", claims.UserID)

	middleware.JSONResponse(w, http.StatusCreated, models.InvitationsResponse{
		Invitations: invitations,
		Count:       len(invitations),
		Message:     "Invitations created successfully",
	})
}

// ListInvitations handles GET /admin/invitations
// Returns every invitation, newest first.
func (h *AdminHandler) ListInvitations(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`
		SELECT id, code, email, used, used_by, created_by, created_at, used_at, expires_at
		FROM invitations
		ORDER BY created_at DESC, code ASC
	`)
	if err != nil {
		slog.Error("failed to query invitations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.Code, &inv.Email, &inv.Used, &inv.UsedBy,
			&inv.CreatedBy, &inv.CreatedAt, &inv.UsedAt, &inv.ExpiresAt); err != nil {
			slog.Error("failed to scan invitation", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		invitations = append(invitations, inv)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read invitations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.InvitationsResponse{
		Invitations: invitations,
		Count:       len(invitations),
	})
}

// Stats handles GET /admin/stats
func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	var resp models.AdminStatsResponse

	counts := []struct {
		query string
		dest  *int
	}{
		{`SELECT COUNT(*) FROM users`, &resp.TotalUsers},
		{`SELECT COUNT(*) FROM likes`, &resp.TotalLikes},
		{`SELECT COUNT(*) FROM invitations`, &resp.TotalInvitations},
		{`SELECT COUNT(*) FROM invitations WHERE used = TRUE`, &resp.UsedInvitations},
	}
	for _, c := range counts {
		if err := h.db.QueryRow(c.query).Scan(c.dest); err != nil {
			slog.Error("failed to query admin stats", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}
	resp.UnusedInvitations = resp.TotalInvitations - resp.UsedInvitations

	givers, err := scanProfiles(h.db, profileColumns+`
		WHERE us.likes_given > 0
		ORDER BY us.likes_given DESC, u.first_name ASC, u.id ASC LIMIT 5`)
	if err != nil {
		slog.Error("failed to query active givers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	resp.MostActiveGivers = givers

	popular, err := scanProfiles(h.db, profileColumns+`
		WHERE us.likes_received > 0
		ORDER BY us.likes_received DESC, u.first_name ASC, u.id ASC LIMIT 5`)
	if err != nil {
		slog.Error("failed to query popular users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	resp.MostPopular = popular

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// ResetLikes handles POST /admin/likes/reset
// Deletes every like, zeroes all stats, clears all ranks. Requires an
// explicit confirmation flag.
func (h *AdminHandler) ResetLikes(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req models.ResetLikesRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}
	if !req.Confirm {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Must confirm the action by sending confirm: true")
		return
	}

	deleted, err := h.ledger.ResetAll()
	if err != nil {
		slog.Error("failed to reset likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to reset likes")
		return
	}

	slog.Info("all likes reset", "deleted", deleted, "admin_id", claims.UserID)

	middleware.JSONResponse(w, http.StatusOK, models.ResetLikesResponse{
		Message:      "All likes deleted successfully",
		DeletedLikes: deleted,
	})
}

// insertInvitation creates one invitation, retrying on the
// astronomically unlikely code collision
func (h *AdminHandler) insertInvitation(createdBy string, email *string, expiresDays int) (models.Invitation, error) {
	if expiresDays <= 0 {
		expiresDays = defaultInvitationDays
	}
	now := time.Now()
	expiresAt := now.Add(time.Duration(expiresDays) * 24 * time.Hour)

	var lastErr error
	for attempt := 0; attempt < 5; attempt++ {
		code, err := auth.GenerateInvitationCode()
		if err != nil {
			return models.Invitation{}, err
		}

		inv := models.Invitation{
			ID:        uuid.NewString(),
			Code:      code,
			Email:     email,
			CreatedBy: createdBy,
			CreatedAt: now,
			ExpiresAt: &expiresAt,
		}
		_, err = h.db.Exec(`
			INSERT INTO invitations (id, code, email, used, created_by, created_at, expires_at)
			VALUES ($1, $2, $3, FALSE, $4, $5, $6)
		`, inv.ID, inv.Code, inv.Email, inv.CreatedBy, inv.CreatedAt, inv.ExpiresAt)
		if err == nil {
			return inv, nil
		}
		if !isConstraintViolation(err) {
			return models.Invitation{}, err
		}
		lastErr = err
	}
	return models.Invitation{}, lastErr
}
