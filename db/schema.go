// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
//
// The SQL is kept portable across PostgreSQL and SQLite: no database-side
// timestamp defaults (all timestamps are written by the application), and
// only constraint syntax both engines support.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Clubs (tenant boundary)
CREATE TABLE IF NOT EXISTS club (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL
);

-- Members
CREATE TABLE IF NOT EXISTS member (
    id TEXT PRIMARY KEY,
    club_id TEXT NOT NULL REFERENCES club(id) ON DELETE CASCADE,
    display_name TEXT NOT NULL,
    role TEXT NOT NULL DEFAULT 'member' CHECK (role IN ('admin', 'officer', 'member')),
    status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'active', 'rejected')),
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_member_club_id ON member(club_id);

-- Category catalog (club-scoped, soft-deleted via is_active)
CREATE TABLE IF NOT EXISTS voting_category (
    id TEXT PRIMARY KEY,
    club_id TEXT NOT NULL REFERENCES club(id) ON DELETE CASCADE,
    name TEXT NOT NULL,
    description TEXT,
    display_order INTEGER NOT NULL DEFAULT 0,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_voting_category_club_id ON voting_category(club_id);

-- Meetings
CREATE TABLE IF NOT EXISTS meeting (
    id TEXT PRIMARY KEY,
    club_id TEXT NOT NULL REFERENCES club(id) ON DELETE CASCADE,
    title TEXT NOT NULL,
    meeting_date TIMESTAMP NOT NULL,
    is_voting_open BOOLEAN NOT NULL DEFAULT FALSE,
    voting_start_time TIMESTAMP,
    voting_end_time TIMESTAMP,
    is_finalized BOOLEAN NOT NULL DEFAULT FALSE,
    finalized_at TIMESTAMP,
    anonymous_voting BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meeting_club_id ON meeting(club_id);

-- Per-meeting category enablement. Row present = enabled.
CREATE TABLE IF NOT EXISTS meeting_category (
    meeting_id TEXT NOT NULL REFERENCES meeting(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES voting_category(id) ON DELETE CASCADE,
    enabled_at TIMESTAMP NOT NULL,
    PRIMARY KEY (meeting_id, category_id)
);

-- Free-text guest nominees, scoped to one (meeting, category).
-- The primary key doubles as the case-sensitive duplicate guard,
-- and the cascade clears the guest list when a category is disabled.
CREATE TABLE IF NOT EXISTS guest_nominee (
    meeting_id TEXT NOT NULL,
    category_id TEXT NOT NULL,
    name TEXT NOT NULL,
    added_at TIMESTAMP NOT NULL,
    PRIMARY KEY (meeting_id, category_id, name),
    FOREIGN KEY (meeting_id, category_id)
        REFERENCES meeting_category(meeting_id, category_id) ON DELETE CASCADE
);

-- Member nominations
CREATE TABLE IF NOT EXISTS nomination (
    meeting_id TEXT NOT NULL REFERENCES meeting(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES voting_category(id) ON DELETE CASCADE,
    member_id TEXT NOT NULL REFERENCES member(id) ON DELETE CASCADE,
    created_at TIMESTAMP NOT NULL,
    PRIMARY KEY (meeting_id, category_id, member_id)
);

CREATE INDEX IF NOT EXISTS idx_nomination_meeting_id ON nomination(meeting_id);

-- Vote ledger. The UNIQUE constraint on (meeting_id, category_id,
-- voter_key) is the authoritative one-vote-per-voter-per-category guard.
CREATE TABLE IF NOT EXISTS vote (
    id TEXT PRIMARY KEY,
    meeting_id TEXT NOT NULL REFERENCES meeting(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES voting_category(id) ON DELETE CASCADE,
    voter_key TEXT NOT NULL,
    voter_id TEXT REFERENCES member(id),
    nominee_id TEXT REFERENCES member(id),
    guest_name TEXT,
    cast_at TIMESTAMP NOT NULL,
    UNIQUE (meeting_id, category_id, voter_key),
    CHECK ((nominee_id IS NULL) <> (guest_name IS NULL))
);

CREATE INDEX IF NOT EXISTS idx_vote_meeting_id ON vote(meeting_id);
CREATE INDEX IF NOT EXISTS idx_vote_meeting_category ON vote(meeting_id, category_id);

-- Frozen result snapshots, upserted by the explicit freeze step
CREATE TABLE IF NOT EXISTS vote_result (
    meeting_id TEXT NOT NULL REFERENCES meeting(id) ON DELETE CASCADE,
    category_id TEXT NOT NULL REFERENCES voting_category(id) ON DELETE CASCADE,
    winner_member_id TEXT,
    winner_guest_name TEXT,
    is_guest_winner BOOLEAN NOT NULL DEFAULT FALSE,
    vote_count INTEGER NOT NULL,
    total_votes INTEGER NOT NULL,
    calculated_at TIMESTAMP NOT NULL,
    PRIMARY KEY (meeting_id, category_id)
);
`
