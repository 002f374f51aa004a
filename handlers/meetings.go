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
	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

type MeetingHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewMeetingHandler(db *sql.DB, cfg cliparse.Config) *MeetingHandler {
	return &MeetingHandler{db: db, cfg: cfg}
}

// CreateMeeting handles POST /meetings
// Meetings are created in the draft state: voting closed, not finalized.
func (h *MeetingHandler) CreateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.CreateMeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.ClubID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "clubId is required")
		return
	}
	if req.Title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Date.IsZero() {
		middleware.ErrorResponse(w, http.StatusBadRequest, "date is required")
		return
	}
	if req.VotingStartTime != nil && req.VotingEndTime != nil && !req.VotingEndTime.After(*req.VotingStartTime) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "votingEndTime must be after votingStartTime")
		return
	}

	caller, ok := requireOfficer(w, r, h.db, req.ClubID)
	if !ok {
		return
	}

	meetingID := uuid.NewString()
	now := time.Now()

	_, err := h.db.Exec(`
		INSERT INTO meeting (id, club_id, title, meeting_date, is_voting_open,
		                     voting_start_time, voting_end_time, is_finalized,
		                     anonymous_voting, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, FALSE, $7, $8)
	`, meetingID, req.ClubID, req.Title, req.Date, req.VotingStartTime, req.VotingEndTime,
		req.AnonymousVoting, now)

	if err != nil {
		slog.Error("failed to insert meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create meeting")
		return
	}

	slog.Info("meeting created", "meeting_id", meetingID, "club_id", req.ClubID, "created_by", caller.ID)

	meeting, err := getMeeting(h.db, meetingID)
	if err != nil {
		slog.Error("failed to reload meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, meeting)
}

// GetMeeting handles GET /meetings/{id}
func (h *MeetingHandler) GetMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
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

	if _, ok := requireActiveMember(w, r, h.db, meeting.ClubID); !ok {
		return
	}

	middleware.JSONResponse(w, http.StatusOK, meeting)
}

// UpdateMeeting handles PUT /meetings
// The only mutable field is isVotingOpen: true opens the vote ledger to
// writes, false closes it. Opening a finalized meeting always fails.
// A platform operator may force-close with the X-Operator-Key header,
// bypassing the club-role check.
func (h *MeetingHandler) UpdateMeeting(w http.ResponseWriter, r *http.Request) {
	var req models.UpdateMeetingRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id is required")
		return
	}

	meeting, err := getMeeting(h.db, req.ID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Meeting not found")
		return
	}
	if err != nil {
		slog.Error("failed to query meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Operator force-close: same guards and effects as a regular close,
	// different authorization tier. Opening always needs a club role.
	operatorKey := r.Header.Get("X-Operator-Key")
	forceClose := !req.IsVotingOpen && operatorKey != "" &&
		auth.ValidateOperatorKey(operatorKey, h.cfg.OperatorKey) == nil

	if !forceClose {
		if _, ok := requireOfficer(w, r, h.db, meeting.ClubID); !ok {
			return
		}
	}

	if req.IsVotingOpen {
		if meeting.IsFinalized {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Meeting is already finalized")
			return
		}

		// The is_finalized predicate keeps the guard atomic against a
		// concurrent finalize. Reopening clears the close stamp in
		// voting_end_time so a reopened meeting admits votes again;
		// the next close stamps it fresh.
		res, err := h.db.Exec(`
			UPDATE meeting
			SET is_voting_open = TRUE, voting_end_time = NULL
			WHERE id = $1 AND is_finalized = FALSE
		`, meeting.ID)
		if err != nil {
			slog.Error("failed to open voting", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open voting")
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Meeting is already finalized")
			return
		}

		slog.Info("voting opened", "meeting_id", meeting.ID)
	} else {
		if !meeting.IsVotingOpen {
			middleware.ErrorResponse(w, http.StatusConflict, "Voting is not open")
			return
		}

		res, err := h.db.Exec(`
			UPDATE meeting
			SET is_voting_open = FALSE, voting_end_time = $1
			WHERE id = $2 AND is_voting_open = TRUE
		`, time.Now(), meeting.ID)
		if err != nil {
			slog.Error("failed to close voting", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to close voting")
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			middleware.ErrorResponse(w, http.StatusConflict, "Voting is not open")
			return
		}

		slog.Info("voting closed", "meeting_id", meeting.ID, "forced", forceClose)
	}

	updated, err := getMeeting(h.db, meeting.ID)
	if err != nil {
		slog.Error("failed to reload meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}

// FinalizeMeeting handles POST /meetings/{id}/finalize
// The terminal transition: results lock, voting force-closes, and the
// meeting can never reopen. Applied as a single atomic row update so a
// reader never observes is_finalized without is_voting_open=FALSE.
func (h *MeetingHandler) FinalizeMeeting(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
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

	res, err := h.db.Exec(`
		UPDATE meeting
		SET is_finalized = TRUE, finalized_at = $1, is_voting_open = FALSE
		WHERE id = $2 AND is_finalized = FALSE
	`, time.Now(), meetingID)
	if err != nil {
		slog.Error("failed to finalize meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to finalize meeting")
		return
	}
	if n, _ := res.RowsAffected(); n == 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Meeting is already finalized")
		return
	}

	slog.Info("meeting finalized", "meeting_id", meetingID)

	updated, err := getMeeting(h.db, meetingID)
	if err != nil {
		slog.Error("failed to reload meeting", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, updated)
}
