// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/awardnight/server/cliparse"
	"github.com/awardnight/server/handlers"
	"github.com/awardnight/server/middleware"
)

func NewRouter(db *sql.DB, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	meetingHandler := handlers.NewMeetingHandler(db, cfg)
	registryHandler := handlers.NewRegistryHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Category catalog (club-wide)
	mux.HandleFunc("POST /clubs/{id}/categories", middleware.WithLogging(categoryHandler.CreateCategory))
	mux.HandleFunc("GET /clubs/{id}/categories", middleware.WithLogging(categoryHandler.ListCategories))
	mux.HandleFunc("DELETE /categories/{id}", middleware.WithLogging(categoryHandler.DeactivateCategory))

	// Meeting lifecycle (officer operations)
	mux.HandleFunc("POST /meetings", middleware.WithLogging(meetingHandler.CreateMeeting))
	mux.HandleFunc("GET /meetings/{id}", middleware.WithLogging(meetingHandler.GetMeeting))
	mux.HandleFunc("PUT /meetings", middleware.WithLogging(meetingHandler.UpdateMeeting))
	mux.HandleFunc("POST /meetings/{id}/finalize", middleware.WithLogging(meetingHandler.FinalizeMeeting))

	// Ballot setup (officer operations, pre-voting)
	mux.HandleFunc("POST /meetings/{id}/categories", middleware.WithLogging(registryHandler.ToggleCategory))
	mux.HandleFunc("POST /meetings/{id}/nominations/batch", middleware.WithLogging(registryHandler.ReplaceNominations))
	mux.HandleFunc("POST /meetings/{id}/guests", middleware.WithLogging(registryHandler.HandleGuests))

	// Voting operations
	mux.HandleFunc("GET /meetings/{id}/ballot", middleware.WithLogging(registryHandler.GetBallot))
	mux.HandleFunc("POST /votes", middleware.WithLogging(voteHandler.CastVote))
	mux.HandleFunc("GET /votes", middleware.WithLogging(voteHandler.GetVoteCounts))

	// Results retrieval
	mux.HandleFunc("GET /results", middleware.WithLogging(resultsHandler.GetResults))
	mux.HandleFunc("POST /meetings/{id}/results/freeze", middleware.WithLogging(resultsHandler.FreezeResults))
	mux.HandleFunc("GET /meetings/{id}/preview", middleware.WithLogging(resultsHandler.GetMeetingPreview))
	mux.HandleFunc("GET /clubs/{id}/stats", middleware.WithLogging(resultsHandler.ClubStats))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("awardnight API v1"))
	})

	return mux
}
