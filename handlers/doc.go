// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Awardnight API.

# Handler Types

Each handler is a struct with database and config dependencies:

  - CategoryHandler: Club-wide category catalog (create, list, deactivate)
  - MeetingHandler: Meeting lifecycle (create, open, close, finalize)
  - RegistryHandler: Per-meeting ballot setup (categories, nominations, guests)
  - VoteHandler: Vote casting and the live tally
  - ResultsHandler: Results, freezing, previews, and club stats

Handlers are created via constructor functions that accept *sql.DB and Config:

	voteHandler := handlers.NewVoteHandler(db, cfg)

# Meeting Lifecycle

Meetings progress through: draft → voting_open → voting_closed → finalized

	POST /meetings                → CreateMeeting (draft)
	PUT  /meetings                → UpdateMeeting (open/close voting)
	POST /meetings/{id}/finalize  → FinalizeMeeting (terminal)

Officer operations require the caller (X-Member-ID) to hold the admin
or officer role in the meeting's club. Closing voting alternatively
accepts the X-Operator-Key header for out-of-band force-close.

# Voting Flow

Members read their ballot and cast at most one vote per category:

	GET  /meetings/{id}/ballot → GetBallot
	POST /votes                → CastVote

CastVote relies on the UNIQUE (meeting_id, category_id, voter_key)
constraint for its exactly-once guarantee; the pre-insert existence
check is a fast path only. For anonymous-voting meetings the voter key
is a salted fingerprint hash (auth.HashFingerprint) instead of the
member ID.

# Result Aggregation

Tallying is implemented in tally.go:

	results, err := handlers.ComputeResults(db, meetingID)

Nominees in each category are ordered by vote count descending, then
display name, then nominee key, so ties break deterministically.
FreezeResults snapshots these standings into vote_result rows.
*/
package handlers
