// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Awardnight API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg)

# Endpoints

Health:

	GET /health

Category catalog (list is open to active members, the rest officer-only):

	POST   /clubs/{id}/categories - Create category
	GET    /clubs/{id}/categories - List active categories
	DELETE /categories/{id}       - Deactivate category

Meeting lifecycle (officer, requires X-Member-ID):

	POST /meetings               - Create meeting (draft)
	GET  /meetings/{id}          - Get meeting details
	PUT  /meetings               - Open or close voting
	POST /meetings/{id}/finalize - Finalize (terminal)

Ballot setup (officer, draft meetings only):

	POST /meetings/{id}/categories        - Toggle category enablement
	POST /meetings/{id}/nominations/batch - Replace nomination roster
	POST /meetings/{id}/guests            - Add/remove guest nominees

Voting (active members):

	GET  /meetings/{id}/ballot - Read the ballot
	POST /votes                - Cast a vote
	GET  /votes                - Live tally (officer-only)

Results:

	POST /meetings/{id}/results/freeze - Snapshot standings (officer)
	GET  /results                      - Results (voting closed only)
	GET  /meetings/{id}/preview        - Compact preview data
	GET  /clubs/{id}/stats             - Finalized-meeting history

# Handler Initialization

The router creates handler instances with dependency injection:

	categoryHandler := handlers.NewCategoryHandler(db, cfg)
	meetingHandler := handlers.NewMeetingHandler(db, cfg)
	registryHandler := handlers.NewRegistryHandler(db, cfg)
	voteHandler := handlers.NewVoteHandler(db, cfg)
	resultsHandler := handlers.NewResultsHandler(db, cfg)

All handlers receive the database connection and configuration.
*/
package router
