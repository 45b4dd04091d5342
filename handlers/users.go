// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strings"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

const profileColumns = `
	SELECT u.id, u.email, u.first_name, u.last_name, u.bio,
	       us.likes_received, us.likes_given, us.rank
	FROM users u
	JOIN user_stats us ON us.user_id = u.id
`

const searchFilter = `LOWER(u.first_name || ' ' || u.last_name || ' ' || u.email || ' ' || COALESCE(u.bio, '')) LIKE $1`

// ListMarketers handles GET /marketers
// Lists all members with their counters, ordered by likes received,
// plus the caller's own stats summary. Optional ?search= filter.
func (h *UserHandler) ListMarketers(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	query := profileColumns
	var args []interface{}
	if search := strings.TrimSpace(r.URL.Query().Get("search")); search != "" {
		query += " WHERE " + searchFilter
		args = append(args, "%"+strings.ToLower(search)+"%")
	}
	query += " ORDER BY us.likes_received DESC, u.first_name ASC, u.id ASC"

	profiles, err := scanProfiles(h.db, query, args...)
	if err != nil {
		slog.Error("failed to query marketers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	var summary models.StatsSummary
	var given int
	err = h.db.QueryRow(`
		SELECT likes_given, likes_received FROM user_stats WHERE user_id = $1
	`, claims.UserID).Scan(&given, &summary.LikesReceived)
	if err != nil {
		slog.Error("failed to query caller stats", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	summary.LikesGiven = given
	summary.RemainingLikes = remainingLikes(given)

	middleware.JSONResponse(w, http.StatusOK, models.MarketersResponse{
		Results:        profiles,
		TotalMarketers: len(profiles),
		UserStats:      summary,
	})
}

// GetMarketer handles GET /marketers/{id}
// Returns one member with their given and received like edges.
func (h *UserHandler) GetMarketer(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("id")
	if userID == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "user id is required")
		return
	}

	profile, err := loadProfile(h.db, userID)
	if err == sql.ErrNoRows {
		middleware.KindResponse(w, http.StatusNotFound, models.KindNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	given, err := likeDetails(h.db, userID, false)
	if err != nil {
		slog.Error("failed to query given likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	received, err := likeDetails(h.db, userID, true)
	if err != nil {
		slog.Error("failed to query received likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserDetailResponse{
		User:          profile,
		GivenLikes:    given,
		ReceivedLikes: received,
	})
}

// GetMyStats handles GET /user/stats
// Returns the caller's counters, rank, and detailed edge lists.
func (h *UserHandler) GetMyStats(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	profile, err := loadProfile(h.db, claims.UserID)
	if err != nil {
		slog.Error("failed to query caller profile", "error", err, "user_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	given, err := likeDetails(h.db, claims.UserID, false)
	if err != nil {
		slog.Error("failed to query given likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	received, err := likeDetails(h.db, claims.UserID, true)
	if err != nil {
		slog.Error("failed to query received likes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.UserStatsDetail{
		LikesGiven:           profile.LikesGiven,
		LikesReceived:        profile.LikesReceived,
		RemainingLikes:       profile.RemainingLikes,
		Rank:                 profile.Rank,
		GivenLikesDetails:    given,
		ReceivedLikesDetails: received,
	})
}

// GetProfile handles GET /profile
func (h *UserHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	profile, err := loadProfile(h.db, claims.UserID)
	if err != nil {
		slog.Error("failed to query caller profile", "error", err, "user_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /profile
// Applies a partial update to the caller's name and bio; omitted
// fields keep their current value.
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req models.UpdateProfileRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Invalid JSON")
		return
	}
	if req.FirstName != nil && strings.TrimSpace(*req.FirstName) == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "first_name cannot be empty")
		return
	}
	if req.LastName != nil && strings.TrimSpace(*req.LastName) == "" {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "last_name cannot be empty")
		return
	}

	current, err := loadProfile(h.db, claims.UserID)
	if err != nil {
		slog.Error("failed to query caller profile", "error", err, "user_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	firstName := current.FirstName
	lastName := current.LastName
	bio := current.Bio
	if req.FirstName != nil {
		firstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		lastName = strings.TrimSpace(*req.LastName)
	}
	if req.Bio != nil {
		bio = req.Bio
	}

	_, err = h.db.Exec(`
		UPDATE users SET first_name = $1, last_name = $2, bio = $3 WHERE id = $4
	`, firstName, lastName, bio, claims.UserID)
	if err != nil {
		slog.Error("failed to update profile", "error", err, "user_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("profile updated", "user_id", claims.UserID)

	profile, err := loadProfile(h.db, claims.UserID)
	if err != nil {
		slog.Error("failed to reload profile", "error", err, "user_id", claims.UserID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, profile)
}

// Search handles GET /search?q=
func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if len(query) < 2 {
		middleware.KindResponse(w, http.StatusBadRequest, models.KindValidation, "Search query must be at least 2 characters")
		return
	}

	sqlQuery := profileColumns +
		" WHERE " + searchFilter +
		" ORDER BY us.likes_received DESC, u.first_name ASC, u.id ASC LIMIT 20"

	profiles, err := scanProfiles(h.db, sqlQuery, "%"+strings.ToLower(query)+"%")
	if err != nil {
		slog.Error("failed to search marketers", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SearchResponse{
		Results: profiles,
		Query:   query,
		Count:   len(profiles),
	})
}

// loadProfile reads one user's profile projection.
// Returns sql.ErrNoRows for unknown users.
func loadProfile(db *sql.DB, userID string) (models.UserProfile, error) {
	var p models.UserProfile
	err := db.QueryRow(profileColumns+" WHERE u.id = $1", userID).Scan(
		&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Bio,
		&p.LikesReceived, &p.LikesGiven, &p.Rank,
	)
	if err != nil {
		return models.UserProfile{}, err
	}
	p.FullName = p.FirstName + " " + p.LastName
	p.RemainingLikes = remainingLikes(p.LikesGiven)
	return p, nil
}

// scanProfiles runs a profileColumns query and builds the projections
func scanProfiles(db *sql.DB, query string, args ...interface{}) ([]models.UserProfile, error) {
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	profiles := []models.UserProfile{}
	for rows.Next() {
		var p models.UserProfile
		if err := rows.Scan(
			&p.ID, &p.Email, &p.FirstName, &p.LastName, &p.Bio,
			&p.LikesReceived, &p.LikesGiven, &p.Rank,
		); err != nil {
			return nil, err
		}
		p.FullName = p.FirstName + " " + p.LastName
		p.RemainingLikes = remainingLikes(p.LikesGiven)
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}
