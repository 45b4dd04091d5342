// Copyright (c) 2025 David Moreno.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/davidmoreno/marketrank/cliparse"
	"github.com/davidmoreno/marketrank/handlers"
	"github.com/davidmoreno/marketrank/metrics"
	"github.com/davidmoreno/marketrank/middleware"
	"github.com/davidmoreno/marketrank/ranking"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) http.Handler {
	mux := http.NewServeMux()

	ledger := ranking.NewLedger(db, cfg.DatabaseType)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	likeHandler := handlers.NewLikeHandler(db, cfg, ledger)
	userHandler := handlers.NewUserHandler(db, cfg)
	rankingHandler := handlers.NewRankingHandler(db, cfg, ledger)
	activityHandler := handlers.NewActivityHandler(db, cfg)
	adminHandler := handlers.NewAdminHandler(db, cfg, ledger)

	secret := cfg.JWTSecret
	authed := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAuth(secret, h))
	}
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.RequireAdmin(secret, h))
	}

	// Health check and metrics
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	mux.Handle("GET /metrics", metrics.Handler())

	// Authentication (public)
	mux.HandleFunc("POST /auth/register", middleware.WithLogging(authHandler.Register))
	mux.HandleFunc("POST /auth/login", middleware.WithLogging(authHandler.Login))
	mux.HandleFunc("GET /auth/validate-invitation", middleware.WithLogging(authHandler.ValidateInvitation))

	// Members
	mux.HandleFunc("GET /marketers", authed(userHandler.ListMarketers))
	mux.HandleFunc("GET /marketers/{id}", authed(userHandler.GetMarketer))
	mux.HandleFunc("GET /user/stats", authed(userHandler.GetMyStats))
	mux.HandleFunc("GET /profile", authed(userHandler.GetProfile))
	mux.HandleFunc("PATCH /profile", authed(userHandler.UpdateProfile))
	mux.HandleFunc("GET /search", authed(userHandler.Search))

	// Likes
	mux.HandleFunc("POST /likes/toggle", authed(likeHandler.Toggle))
	mux.HandleFunc("DELETE /likes/{id}", authed(likeHandler.Delete))
	mux.HandleFunc("GET /likes/my-likes", authed(likeHandler.MyLikes))

	// Ranking
	mux.HandleFunc("GET /ranking", authed(rankingHandler.GetRanking))
	mux.HandleFunc("POST /rankings/update", authed(rankingHandler.UpdateRankings))

	// Activity
	mux.HandleFunc("GET /activity", authed(activityHandler.Feed))

	// Admin operations
	mux.HandleFunc("POST /admin/invitations", admin(adminHandler.CreateInvitation))
	mux.HandleFunc("GET /admin/invitations", admin(adminHandler.ListInvitations))
	mux.HandleFunc("POST /admin/invitations/bulk", admin(adminHandler.BulkInvitations))
	mux.HandleFunc("GET /admin/stats", admin(adminHandler.Stats))
	mux.HandleFunc("POST /admin/likes/reset", admin(adminHandler.ResetLikes))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("marketrank API v1"))
	})

	return middleware.CORS(mux)
}
