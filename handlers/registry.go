// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/awardnight/server/cliparse"
	"github.com/awardnight/server/db"
	"github.com/awardnight/server/middleware"
	"github.com/awardnight/server/models"
)

type RegistryHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewRegistryHandler(database *sql.DB, cfg cliparse.Config) *RegistryHandler {
	return &RegistryHandler{db: database, cfg: cfg}
}

// guardRegistryMutable rejects registry mutations while voting is open
// or after finalization, so nomination changes can never invalidate
// in-flight ballots. Writes the error response and returns false when
// the meeting must not change.
func guardRegistryMutable(w http.ResponseWriter, meeting models.Meeting) bool {
	if meeting.IsFinalized {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Meeting is already finalized")
		return false
	}
	if meeting.IsVotingOpen {
		middleware.ErrorResponse(w, http.StatusConflict, "Cannot modify nominations while voting is open")
		return false
	}
	return true
}

// ToggleCategory handles POST /meetings/{id}/categories
// Idempotent toggle: an existing enablement row is removed (disable),
// a missing one is created (enable). Disabling cascades the guest list
// away, so a re-enabled category starts with no guests.
func (h *RegistryHandler) ToggleCategory(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
		return
	}

	var req models.ToggleCategoryRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CategoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "categoryId is required")
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
	if !guardRegistryMutable(w, meeting) {
		return
	}

	category, err := getCategory(h.db, req.CategoryID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if category.ClubID != meeting.ClubID || !category.IsActive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category is not available for this club")
		return
	}

	res, err := h.db.Exec(`
		DELETE FROM meeting_category WHERE meeting_id = $1 AND category_id = $2
	`, meetingID, req.CategoryID)
	if err != nil {
		slog.Error("failed to delete enablement", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle category")
		return
	}

	deleted, _ := res.RowsAffected()
	enabled := false

	if deleted == 0 {
		_, err = h.db.Exec(`
			INSERT INTO meeting_category (meeting_id, category_id, enabled_at)
			VALUES ($1, $2, $3)
		`, meetingID, req.CategoryID, time.Now())

		if err != nil && !db.IsUniqueViolation(err) {
			slog.Error("failed to insert enablement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to toggle category")
			return
		}
		// A unique violation means a concurrent toggle enabled it first;
		// either way the category now reads enabled.
		enabled = true
	}

	slog.Info("category toggled", "meeting_id", meetingID, "category_id", req.CategoryID, "enabled", enabled)

	middleware.JSONResponse(w, http.StatusOK, models.ToggleCategoryResponse{
		CategoryID: req.CategoryID,
		Enabled:    enabled,
	})
}

// ReplaceNominations handles POST /meetings/{id}/nominations/batch
// Full replace: delete-all then insert the given set, in one
// transaction so readers observe either the old set or the new set,
// never a partial one. Duplicate (category, member) pairs in the batch
// are skipped.
func (h *RegistryHandler) ReplaceNominations(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
		return
	}

	var req models.ReplaceNominationsRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
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
	if !guardRegistryMutable(w, meeting) {
		return
	}

	// Validate every entry against the club before touching the table.
	for _, n := range req.Nominations {
		if n.CategoryID == "" || n.MemberID == "" {
			middleware.ErrorResponse(w, http.StatusBadRequest, "categoryId and memberId are required for every nomination")
			return
		}

		category, err := getCategory(h.db, n.CategoryID)
		if err == sql.ErrNoRows || (err == nil && (category.ClubID != meeting.ClubID || !category.IsActive)) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid category: "+n.CategoryID)
			return
		}
		if err != nil {
			slog.Error("failed to query category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}

		member, err := getMember(h.db, n.MemberID)
		if err == sql.ErrNoRows || (err == nil && (member.ClubID != meeting.ClubID || !isActiveMember(member))) {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid member: "+n.MemberID)
			return
		}
		if err != nil {
			slog.Error("failed to query member", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
	}

	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	_, err = tx.Exec(`DELETE FROM nomination WHERE meeting_id = $1`, meetingID)
	if err != nil {
		slog.Error("failed to clear nominations", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to replace nominations")
		return
	}

	now := time.Now()
	seen := make(map[models.NominationEntry]bool)
	inserted := 0

	for _, n := range req.Nominations {
		if seen[n] {
			continue
		}
		seen[n] = true

		_, err = tx.Exec(`
			INSERT INTO nomination (meeting_id, category_id, member_id, created_at)
			VALUES ($1, $2, $3, $4)
		`, meetingID, n.CategoryID, n.MemberID, now)
		if err != nil {
			slog.Error("failed to insert nomination", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to replace nominations")
			return
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to replace nominations")
		return
	}

	slog.Info("nominations replaced", "meeting_id", meetingID, "count", inserted)

	middleware.JSONResponse(w, http.StatusOK, map[string]int{"nominations": inserted})
}

// HandleGuests handles POST /meetings/{id}/guests
// Adds or removes a free-text guest nominee on a (meeting, category).
// Adding to a not-yet-enabled category enables it implicitly. Duplicate
// names (case-sensitive exact match) are rejected by the guest_nominee
// primary key.
func (h *RegistryHandler) HandleGuests(w http.ResponseWriter, r *http.Request) {
	meetingID := r.PathValue("id")
	if meetingID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "meeting id is required")
		return
	}

	var req models.GuestRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.CategoryID == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "categoryId is required")
		return
	}
	if req.GuestName == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "guestName is required")
		return
	}
	if req.Action != models.GuestActionAdd && req.Action != models.GuestActionRemove {
		middleware.ErrorResponse(w, http.StatusBadRequest, "action must be add or remove")
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
	if !guardRegistryMutable(w, meeting) {
		return
	}

	category, err := getCategory(h.db, req.CategoryID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Category not found")
		return
	}
	if err != nil {
		slog.Error("failed to query category", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if category.ClubID != meeting.ClubID || !category.IsActive {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Category is not available for this club")
		return
	}

	switch req.Action {
	case models.GuestActionAdd:
		// Adding a guest implies the category is wanted on the ballot.
		_, err = h.db.Exec(`
			INSERT INTO meeting_category (meeting_id, category_id, enabled_at)
			VALUES ($1, $2, $3)
		`, meetingID, req.CategoryID, time.Now())
		if err != nil && !db.IsUniqueViolation(err) {
			slog.Error("failed to ensure enablement", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add guest")
			return
		}

		_, err = h.db.Exec(`
			INSERT INTO guest_nominee (meeting_id, category_id, name, added_at)
			VALUES ($1, $2, $3, $4)
		`, meetingID, req.CategoryID, req.GuestName, time.Now())
		if err != nil {
			if db.IsUniqueViolation(err) {
				middleware.ErrorResponse(w, http.StatusBadRequest, "Guest name already exists in this category")
				return
			}
			slog.Error("failed to insert guest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to add guest")
			return
		}

		slog.Info("guest added", "meeting_id", meetingID, "category_id", req.CategoryID)

	case models.GuestActionRemove:
		res, err := h.db.Exec(`
			DELETE FROM guest_nominee
			WHERE meeting_id = $1 AND category_id = $2 AND name = $3
		`, meetingID, req.CategoryID, req.GuestName)
		if err != nil {
			slog.Error("failed to delete guest", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to remove guest")
			return
		}
		if n, _ := res.RowsAffected(); n == 0 {
			middleware.ErrorResponse(w, http.StatusNotFound, "Guest name not found in this category")
			return
		}

		slog.Info("guest removed", "meeting_id", meetingID, "category_id", req.CategoryID)
	}

	guests, err := listGuests(h.db, meetingID, req.CategoryID)
	if err != nil {
		slog.Error("failed to list guests", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.GuestResponse{
		CategoryID: req.CategoryID,
		Guests:     guests,
	})
}

// GetBallot handles GET /meetings/{id}/ballot
// Returns every enabled category with its eligible nominees: nominated
// members (resolved display names) plus listed guests.
func (h *RegistryHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
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

	rows, err := h.db.Query(`
		SELECT mc.category_id, vc.name
		FROM meeting_category mc
		JOIN voting_category vc ON mc.category_id = vc.id
		WHERE mc.meeting_id = $1 AND vc.is_active = TRUE
		ORDER BY vc.display_order, vc.name, vc.id
	`, meetingID)
	if err != nil {
		slog.Error("failed to query enabled categories", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	categories := []models.BallotCategory{}
	for rows.Next() {
		var bc models.BallotCategory
		if err := rows.Scan(&bc.CategoryID, &bc.CategoryName); err != nil {
			slog.Error("failed to scan category", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		categories = append(categories, bc)
	}

	for i := range categories {
		nominees, err := listEligibleNominees(h.db, meetingID, categories[i].CategoryID)
		if err != nil {
			slog.Error("failed to list nominees", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		categories[i].Nominees = nominees
	}

	middleware.JSONResponse(w, http.StatusOK, models.BallotResponse{
		MeetingID:  meetingID,
		Categories: categories,
	})
}

// listEligibleNominees returns the union of nominated members and guest
// names for one (meeting, category), members first, each group ordered
// by name.
func listEligibleNominees(database *sql.DB, meetingID, categoryID string) ([]models.BallotNominee, error) {
	nominees := []models.BallotNominee{}

	rows, err := database.Query(`
		SELECT n.member_id, m.display_name
		FROM nomination n
		JOIN member m ON n.member_id = m.id
		WHERE n.meeting_id = $1 AND n.category_id = $2
		ORDER BY m.display_name, n.member_id
	`, meetingID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var n models.BallotNominee
		if err := rows.Scan(&n.MemberID, &n.DisplayName); err != nil {
			return nil, err
		}
		nominees = append(nominees, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	guests, err := listGuests(database, meetingID, categoryID)
	if err != nil {
		return nil, err
	}
	for _, name := range guests {
		nominees = append(nominees, models.BallotNominee{
			GuestName:   name,
			DisplayName: name,
			IsGuest:     true,
		})
	}

	return nominees, nil
}

// listGuests returns the guest names for one (meeting, category),
// ordered by name.
func listGuests(database *sql.DB, meetingID, categoryID string) ([]string, error) {
	rows, err := database.Query(`
		SELECT name FROM guest_nominee
		WHERE meeting_id = $1 AND category_id = $2
		ORDER BY name
	`, meetingID, categoryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	guests := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		guests = append(guests, name)
	}
	return guests, rows.Err()
}
