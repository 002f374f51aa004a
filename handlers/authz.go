// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

// callerID returns the member identity the upstream auth layer resolved
// for this request. The core never reads ambient session state; identity
// always arrives explicitly on the request.
func callerID(r *http.Request) string {
	return r.Header.Get("X-Member-ID")
}

// getMember loads a member row. sql.ErrNoRows passes through.
func getMember(db *sql.DB, memberID string) (models.Member, error) {
	var m models.Member
	err := db.QueryRow(`
		SELECT id, club_id, display_name, role, status, is_active, created_at
		FROM member
		WHERE id = $1
	`, memberID).Scan(&m.ID, &m.ClubID, &m.DisplayName, &m.Role, &m.Status, &m.IsActive, &m.CreatedAt)
	return m, err
}

// getMeeting loads a meeting row. sql.ErrNoRows passes through.
func getMeeting(db *sql.DB, meetingID string) (models.Meeting, error) {
	var m models.Meeting
	err := db.QueryRow(`
		SELECT id, club_id, title, meeting_date, is_voting_open, voting_start_time,
		       voting_end_time, is_finalized, finalized_at, anonymous_voting, created_at
		FROM meeting
		WHERE id = $1
	`, meetingID).Scan(
		&m.ID, &m.ClubID, &m.Title, &m.Date, &m.IsVotingOpen, &m.VotingStartTime,
		&m.VotingEndTime, &m.IsFinalized, &m.FinalizedAt, &m.AnonymousVoting, &m.CreatedAt,
	)
	return m, err
}

func isOfficer(m models.Member) bool {
	return m.Role == models.RoleAdmin || m.Role == models.RoleOfficer
}

func isActiveMember(m models.Member) bool {
	return m.IsActive && m.Status == models.MembershipActive
}

// requireOfficer resolves the caller and checks for an active admin or
// officer membership in the given club. On failure the error response
// has already been written and ok is false.
func requireOfficer(w http.ResponseWriter, r *http.Request, db *sql.DB, clubID string) (models.Member, bool) {
	id := callerID(r)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-ID header required")
		return models.Member{}, false
	}

	m, err := getMember(db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Caller is not a club member")
		return models.Member{}, false
	}
	if err != nil {
		slog.Error("failed to query caller member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, false
	}

	if m.ClubID != clubID || !isActiveMember(m) || !isOfficer(m) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Admin or officer role required")
		return models.Member{}, false
	}

	return m, true
}

// requireActiveMember resolves the caller and checks for active
// membership in the given club, any role.
func requireActiveMember(w http.ResponseWriter, r *http.Request, db *sql.DB, clubID string) (models.Member, bool) {
	id := callerID(r)
	if id == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-ID header required")
		return models.Member{}, false
	}

	m, err := getMember(db, id)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Caller is not a club member")
		return models.Member{}, false
	}
	if err != nil {
		slog.Error("failed to query caller member", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Member{}, false
	}

	if m.ClubID != clubID || !isActiveMember(m) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Active club membership required")
		return models.Member{}, false
	}

	return m, true
}
