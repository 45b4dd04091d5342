// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/davidmoreno/marketrank/auth"
	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
	"github.com/davidmoreno/marketrank/ranking"
)

type AuthHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewAuthHandler(db *sql.DB, cfg cliparse.Config) *AuthHandler {
	return &AuthHandler{db: db, cfg: cfg}
}

// Register handles POST /auth/register
// Consumes an invitation code and creates the user plus their empty
// stats row in one transaction; a used code can never register twice.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}

	if req.InvitationCode == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "invitation_code is required")
		return
	}
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "a valid email is required")
		return
	}
	if len(req.Password) < 8 {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "password must be at least 8 characters")
		return
	}
	if req.FirstName == "" || req.LastName == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "first_name and last_name are required")
		return
	}

	passwordHash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var invitationID string
	var used bool
	var boundEmail sql.NullString
	var expiresAt sql.NullTime
	err = tx.QueryRow(`
		SELECT id, used, email, expires_at FROM invitations WHERE code = $1
	`, req.InvitationCode).Scan(&invitationID, &used, &boundEmail, &expiresAt)

	if err == sql.ErrNoRows {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invitation code does not exist")
		return
	}
	if err != nil {
		slog.Error("failed to query invitation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if used {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invitation code has already been used")
		return
	}
	if expiresAt.Valid && expiresAt.Time.Before(time.Now()) {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invitation code has expired")
		return
	}
	if boundEmail.Valid && boundEmail.String != "" && !strings.EqualFold(boundEmail.String, req.Email) {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invitation code is reserved for a different email")
		return
	}

	userID := uuid.NewString()
	now := time.Now()

	var bio *string
	if req.Bio != "" {
		bio = &req.Bio
	}
	_, err = tx.Exec(`
		INSERT INTO users (id, email, password_hash, first_name, last_name, bio, is_admin, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7)
	`, userID, req.Email, passwordHash, req.FirstName, req.LastName, bio, now)

	if err != nil {
		if isConstraintViolation(err) {
			middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Email already registered")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	// Every user gets a stats row eagerly so ranking sees the whole
	// population
	_, err = tx.Exec(`
		INSERT INTO user_stats (user_id, likes_received, likes_given, rank, last_updated)
		VALUES ($1, 0, 0, NULL, $2)
	`, userID, now)
	if err != nil {
		slog.Error("failed to insert user stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	// The used=FALSE guard makes two concurrent registrations with
	// the same code resolve deterministically: one wins, one rolls back
	res, err := tx.Exec(`
		UPDATE invitations SET used = TRUE, used_by = $1, used_at = $2
		WHERE id = $3 AND used = FALSE
	`, userID, now, invitationID)
	if err != nil {
		slog.Error("failed to consume invitation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invitation code has already been used")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit registration", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	token, err := auth.GenerateToken(userID, false, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register")
		return
	}

	slog.Info("user registered", "user_id", userID, "invitation_id", invitationID)

	middleware.JSONResponse(w, http.StatusCreated, models.AuthResponse{
		User: models.UserProfile{
			ID:             userID,
			Email:          req.Email,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			FullName:       req.FirstName + " " + req.LastName,
			Bio:            bio,
			RemainingLikes: ranking.Quota,
		},
		AccessToken: token,
		Message:     "User registered successfully",
	})
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}
	if req.Email == "" || req.Password == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "email and password are required")
		return
	}

	var userID, passwordHash string
	var isAdmin bool
	err := h.db.QueryRow(`
		SELECT id, password_hash, is_admin FROM users WHERE email = $1
	`, req.Email).Scan(&userID, &passwordHash, &isAdmin)

	if err == sql.ErrNoRows {
		middleware.KindResponse(w, http.StatusUnauthorized, models.KindUnauthorized, "Invalid email or password")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(passwordHash, req.Password); err != nil {
		middleware.KindResponse(w, http.StatusUnauthorized, models.KindUnauthorized, "Invalid email or password")
		return
	}

	profile, err := loadProfile(h.db, userID)
	if err != nil {
		slog.Error("failed to load profile", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	token, err := auth.GenerateToken(userID, isAdmin, h.cfg.JWTSecret)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", userID)

	middleware.JSONResponse(w, http.StatusOK, models.AuthResponse{
		User:        profile,
		AccessToken: token,
		Message:     "Login successful",
	})
}

// ValidateInvitation handles GET /auth/validate-invitation?code=X
// Checks validity without consuming the code.
func (h *AuthHandler) ValidateInvitation(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "code is required")
		return
	}

	var used bool
	var boundEmail sql.NullString
	var expiresAt sql.NullTime
	err := h.db.QueryRow(`
		SELECT used, email, expires_at FROM invitations WHERE code = $1
	`, code).Scan(&used, &boundEmail, &expiresAt)

	if err == sql.ErrNoRows {
		middleware.JSONResponse(w, http.StatusOK, models.ValidateInvitationResponse{
			Valid:   false,
			Message: "Invitation code does not exist",
		})
		return
	}
	if err != nil {
		slog.Error("failed to query invitation", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	resp := models.ValidateInvitationResponse{Valid: true, Message: "Code is valid"}
	switch {
	case used:
		resp.Valid = false
		resp.Message = "Invitation code has already been used"
	case expiresAt.Valid && expiresAt.Time.Before(time.Now()):
		resp.Valid = false
		resp.Message = "Invitation code has expired"
	default:
		if boundEmail.Valid && boundEmail.String != "" {
			resp.Email = &boundEmail.String
		}
	}

	middleware.JSONResponse(w, http.StatusOK, resp)
}

// isConstraintViolation reports whether err is a unique-constraint
// error from either supported database engine
func isConstraintViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key")
}
