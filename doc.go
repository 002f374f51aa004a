// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Awardnight API server.

Awardnight runs club meeting elections: officers set up voting
categories and nominees for a meeting, members cast one vote per
category during a timed voting window, and results are tallied and
frozen when the meeting is finalized.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	DATABASE_URL=postgres://... FINGERPRINT_SALT=... go run main.go

Or with flags:

	go run main.go -p 4270 -d "postgres://..." -fingerprint-salt "..."

A .env file in the working directory is loaded if present.

# Configuration

Required settings:

  - DATABASE_URL (-d): Database connection string
  - FINGERPRINT_SALT (-fingerprint-salt): Secret for anonymous voter hashing

Optional settings:

  - PORT (-p): Server port (default: 4270)
  - DATABASE_TYPE (-t): "postgres" (default) or "sqlite"
  - OPERATOR_KEY (-operator-key): Enables force-closing voting via X-Operator-Key

# Architecture

The server uses a handler-based architecture with dependency injection:

  - handlers: HTTP request handlers (categories, meetings, ballots, votes, results)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - models: Request/response types
  - auth: ID generation, fingerprint hashing, operator key checks
  - db: Schema creation and constraint error translation
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
