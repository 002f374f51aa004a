// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/awardnight/server/cliparse"
	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

type ResultsHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewResultsHandler(database *sql.DB, cfg cliparse.Config) *ResultsHandler {
	return &ResultsHandler{db: database, cfg: cfg}
}

// GetResults handles GET /results?meetingId=
// Standings are withheld while voting is open; any active member can
// read them once the meeting has closed.
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
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

	if _, ok := requireActiveMember(w, r, h.db, meeting.ClubID); !ok {
		return
	}

	if meeting.IsVotingOpen {
		middleware.ErrorResponse(w, http.StatusForbidden, "Results are not available while voting is open")
		return
	}

	results, err := ComputeResults(h.db, meetingID)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "meeting_id", meetingID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.MeetingResultsResponse{
		Meeting: meeting,
		Results: results,
	})
}

// FreezeResults handles POST /meetings/{id}/results/freeze
// Snapshots the current standings into vote_result rows, one per
// enabled category. Re-freezing overwrites the previous snapshot, so
// the operation is idempotent for an unchanged ledger.
func (h *ResultsHandler) FreezeResults(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")

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

	if meeting.IsVotingOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot freeze results while voting is open")
		return
	}

	results, err := ComputeResults(h.db, meetingID)
	if err != nil {
		slog.Error("failed to compute results", "error", err, "meeting_id", meetingID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
		return
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	now := time.Now()
	frozen := []models.VoteResult{}
	for _, result := range results {
		row := models.VoteResult{
			MeetingID:    meetingID,
			CategoryID:   result.CategoryID,
			TotalVotes:   result.TotalVotes,
			CalculatedAt: now,
		}
		if result.Winner != nil {
			row.IsGuestWinner = result.Winner.IsGuest
			row.VoteCount = result.Winner.VoteCount
			if result.Winner.IsGuest {
				name := result.Winner.GuestName
				row.WinnerGuestName = &name
			} else {
				id := result.Winner.MemberID
				row.WinnerMemberID = &id
			}
		}

		_, err = tx.Exec(`
			INSERT INTO vote_result (meeting_id, category_id, winner_member_id, winner_guest_name, is_guest_winner, vote_count, total_votes, calculated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (meeting_id, category_id) DO UPDATE SET
				winner_member_id = EXCLUDED.winner_member_id,
				winner_guest_name = EXCLUDED.winner_guest_name,
				is_guest_winner = EXCLUDED.is_guest_winner,
				vote_count = EXCLUDED.vote_count,
				total_votes = EXCLUDED.total_votes,
				calculated_at = EXCLUDED.calculated_at
		`, row.MeetingID, row.CategoryID, row.WinnerMemberID, row.WinnerGuestName,
			row.IsGuestWinner, row.VoteCount, row.TotalVotes, row.CalculatedAt)
		if err != nil {
			slog.Error("failed to freeze category result", "error", err, "category_id", result.CategoryID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to freeze results")
			return
		}

		frozen = append(frozen, row)
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit frozen results", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to freeze results")
		return
	}

	slog.Info("results frozen", "meeting_id", meetingID, "categories", len(frozen))

	middleware.JSONResponse(w, http.StatusOK, map[string]any{
		"meetingId": meetingID,
		"results":   frozen,
	})
}

// ClubStats handles GET /clubs/{id}/stats
// Aggregated results across every finalized meeting of the club.
func (h *ResultsHandler) ClubStats(w http.ResponseWriter, r *http.Request) {
	clubID := r.PathValue("id")

	if _, ok := requireActiveMember(w, r, h.db, clubID); !ok {
		return
	}

	rows, err := h.db.Query(`
		SELECT id, club_id, title, meeting_date, is_voting_open, voting_start_time, voting_end_time,
		       is_finalized, finalized_at, anonymous_voting, created_at
		FROM meeting
		WHERE club_id = $1 AND is_finalized = TRUE
		ORDER BY meeting_date DESC, id
	`, clubID)
	if err != nil {
		slog.Error("failed to query finalized meetings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	meetings := []models.Meeting{}
	for rows.Next() {
		var m models.Meeting
		err := rows.Scan(&m.ID, &m.ClubID, &m.Title, &m.Date, &m.IsVotingOpen,
			&m.VotingStartTime, &m.VotingEndTime, &m.IsFinalized, &m.FinalizedAt,
			&m.AnonymousVoting, &m.CreatedAt)
		if err != nil {
			slog.Error("failed to scan meeting", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to read meetings", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	stats := models.ClubStatsResponse{ClubID: clubID, Meetings: []models.MeetingResultsResponse{}}
	for _, m := range meetings {
		results, err := ComputeResults(h.db, m.ID)
		if err != nil {
			slog.Error("failed to compute results", "error", err, "meeting_id", m.ID)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to compute results")
			return
		}
		stats.Meetings = append(stats.Meetings, models.MeetingResultsResponse{Meeting: m, Results: results})
	}

	middleware.JSONResponse(w, http.StatusOK, stats)
}

// GetMeetingPreview handles GET /meetings/{id}/preview
// A lightweight summary card: state, relative date labels, and counts.
func (h *ResultsHandler) GetMeetingPreview(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")

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

	preview := models.MeetingPreviewResponse{
		Title:     meeting.Title,
		State:     meeting.State(),
		DateLabel: humanize.Time(meeting.Date),
	}
	if meeting.FinalizedAt != nil {
		preview.FinalizedLabel = "finalized " + humanize.Time(*meeting.FinalizedAt)
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM meeting_category WHERE meeting_id = $1
	`, meetingID).Scan(&preview.EnabledCategories)
	if err != nil {
		slog.Error("failed to count enabled categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	err = h.db.QueryRow(`
		SELECT COUNT(*) FROM vote WHERE meeting_id = $1
	`, meetingID).Scan(&preview.VoteCount)
	if err != nil {
		slog.Error("failed to count votes", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, preview)
}
