// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/awardnight/server/auth"
	"github.com/awardnight/server/cliparse"
	"github.com/awardnight/server/db"
	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

type VoteHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewVoteHandler(database *sql.DB, cfg cliparse.Config) *VoteHandler {
	return &VoteHandler{db: database, cfg: cfg}
}

// CastVote handles POST /votes
//
// Validation short-circuits on the first failure, in this order:
// meeting exists, voting open, voting window, category valid and
// enabled, voter is an active member of the meeting's club, nominee is
// eligible, no prior vote. The existence check on the prior vote is an
// early exit only; the UNIQUE constraint on (meeting_id, category_id,
// voter_key) is the authoritative duplicate guard, so of two racing
// submissions exactly one insert succeeds and the loser gets the same
// duplicate error.
func (h *VoteHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	memberID := callerID(r)
	if memberID == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Member-ID header required")
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.MeetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meetingId is required")
		return
	}
	if req.CategoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "categoryId is required")
		return
	}
	if (req.NomineeID == "") == (req.GuestName == "") {
		middleware.ErrorResponse(w, http.StatusBadRequest, "exactly one of nomineeId or guestName is required")
		return
	}

	// Meeting exists
	meeting, err := getMeeting(h.db, req.MeetingID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		slog.Error("failed to query meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Voting open
	if !meeting.IsVotingOpen {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voting is not open for this meeting")
		return
	}

	// Voting window, when configured
	now := time.Now()
	if meeting.VotingStartTime != nil && now.Before(*meeting.VotingStartTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voting has not started yet")
		return
	}
	if meeting.VotingEndTime != nil && now.After(*meeting.VotingEndTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Voting has already ended")
		return
	}

	// Category exists, is active, and is on this meeting's ballot
	category, err := getCategory(h.db, req.CategoryID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid category")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if category.ClubID != meeting.ClubID || !category.IsActive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid category")
		return
	}

	var enabled bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM meeting_category
			WHERE meeting_id = $1 AND category_id = $2
		)
	`, req.MeetingID, req.CategoryID).Scan(&enabled)
	if err != nil {
		slog.Error("failed to check enablement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !enabled {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category is not enabled for this meeting")
		return
	}

	// Voter is an active member of the meeting's club
	voter, err := getMember(h.db, memberID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusForbidden, "Caller is not a club member")
		return
	}
	if err != nil {
		slog.Error("failed to query voter", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if voter.ClubID != meeting.ClubID || !isActiveMember(voter) {
		middleware.ErrorResponse(w, http.StatusForbidden, "Active club membership required to vote")
		return
	}

	// Nominee is on the ballot for this category
	eligible, err := h.nomineeEligible(req)
	if err != nil {
		slog.Error("failed to check nominee eligibility", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !eligible {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Nominee is not eligible in this category")
		return
	}

	// Ledger key: member ID, or a salted fingerprint hash for
	// anonymous-voting meetings.
	voterKey := voter.ID
	var voterID *string
	if meeting.AnonymousVoting {
		fingerprint := r.Header.Get("X-Voter-Fingerprint")
		if fingerprint == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "X-Voter-Fingerprint header required for this meeting")
			return
		}
		voterKey = auth.HashFingerprint(fingerprint, h.cfg.FingerprintSalt)
	} else {
		voterID = &voter.ID
	}

	// Early duplicate exit; the constraint below remains authoritative.
	var exists bool
	err = h.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM vote
			WHERE meeting_id = $1 AND category_id = $2 AND voter_key = $3
		)
	`, req.MeetingID, req.CategoryID, voterKey).Scan(&exists)
	if err != nil {
		slog.Error("failed to check existing vote", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if exists {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Vote already cast in this category")
		return
	}

	var nomineeID, guestName *string
	if req.NomineeID != "" {
		nomineeID = &req.NomineeID
	} else {
		guestName = &req.GuestName
	}

	vote := models.Vote{
		ID:         uuid.NewString(),
		MeetingID:  req.MeetingID,
		CategoryID: req.CategoryID,
		VoterKey:   voterKey,
		VoterID:    voterID,
		NomineeID:  nomineeID,
		GuestName:  guestName,
		CastAt:     now,
	}

	_, err = h.db.Exec(`
		INSERT INTO vote (id, meeting_id, category_id, voter_key, voter_id, nominee_id, guest_name, cast_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, vote.ID, vote.MeetingID, vote.CategoryID, vote.VoterKey, vote.VoterID,
		vote.NomineeID, vote.GuestName, vote.CastAt)

	if err != nil {
		if db.IsUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Vote already cast in this category")
			return
		}
		slog.Error("failed to insert vote", "error", err, "meeting_id", req.MeetingID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	slog.Info("vote cast", "meeting_id", req.MeetingID, "category_id", req.CategoryID, "vote_id", vote.ID)

	middleware.JSONResponse(w, http.StatusCreated, vote)
}

// nomineeEligible checks the chosen nominee against the nomination
// roster or guest list for the category.
func (h *VoteHandler) nomineeEligible(req models.CastVoteRequest) (bool, error) {
	var eligible bool
	var err error

	if req.NomineeID != "" {
		err = h.db.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM nomination
				WHERE meeting_id = $1 AND category_id = $2 AND member_id = $3
			)
		`, req.MeetingID, req.CategoryID, req.NomineeID).Scan(&eligible)
	} else {
		err = h.db.QueryRow(`
			SELECT EXISTS(
				SELECT 1 FROM guest_nominee
				WHERE meeting_id = $1 AND category_id = $2 AND name = $3
			)
		`, req.MeetingID, req.CategoryID, req.GuestName).Scan(&eligible)
	}

	return eligible, err
}

// GetVoteCounts handles GET /votes?meetingId=
// Live tally for admins and officers: the same aggregation as the
// final results, available while voting is still open.
func (h *VoteHandler) GetVoteCounts(w http.ResponseWriter, r *http.Request) {
	meetingID := r.URL.Query().Get("meetingId")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meetingId query parameter is required")
		return
	}

	meeting, err := getMeeting(h.db, meetingID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		slog.Error("failed to query meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if _, ok := requireOfficer(w, r, h.db, meeting.ClubID); !ok {
		return
	}

	results, err := ComputeResults(h.db, meetingID)
	if err != nil {
		slog.Error("failed to compute live tally", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute tally")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeetingResultsResponse{
		Meeting: meeting,
		Results: results,
	})
}
