// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles database schema creation and storage error translation.

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and
indexes. The SQL is portable across PostgreSQL (lib/pq) and SQLite
(modernc.org/sqlite); all timestamps are written by the application so
no NOW() defaults appear in the schema.

# Tables

The schema includes:

  - club: tenant boundary
  - member: club memberships with role and approval status
  - voting_category: club-level category catalog (soft delete)
  - meeting: election events and lifecycle flags
  - meeting_category: per-meeting category enablement (row = enabled)
  - guest_nominee: free-text guest names per (meeting, category)
  - nomination: member eligibility triples
  - vote: the append-only vote ledger
  - vote_result: frozen per-category result snapshots

# Relationships

	club 1──* member
	club 1──* voting_category
	club 1──* meeting
	meeting *──* voting_category (via meeting_category)
	meeting_category 1──* guest_nominee
	meeting 1──* nomination
	meeting 1──* vote
	meeting 1──* vote_result

All foreign keys use ON DELETE CASCADE; disabling a category removes its
enablement row and cascades away its guest list.

# Constraints

Correctness-critical constraints:

  - vote UNIQUE (meeting_id, category_id, voter_key): exactly-once voting
  - vote CHECK: exactly one of nominee_id / guest_name is set
  - nomination PRIMARY KEY (meeting_id, category_id, member_id)
  - meeting_category PRIMARY KEY (meeting_id, category_id)
  - guest_nominee PRIMARY KEY (meeting_id, category_id, name)

# Error Translation

IsUniqueViolation recognizes unique-constraint violations from both
drivers (pq error code 23505, SQLite "UNIQUE constraint failed"), so
handlers can turn the losing side of a concurrent insert into a clean
duplicate error.
*/
package db
