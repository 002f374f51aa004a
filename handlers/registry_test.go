// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/awardnight/server/models"
	"github.com/awardnight/server/testutil"
)

func TestToggleCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRegistryHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	officerID := testutil.CreateTestMember(t, db, clubID, "Olivia Officer", "officer", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	toggle := func(meetingID, categoryID string) *httptest.ResponseRecorder {
		body := models.ToggleCategoryRequest{CategoryID: categoryID}
		req := testutil.MakeRequest("POST", "/meetings/"+meetingID+"/categories", body, map[string]string{"X-Member-ID": officerID})
		req.SetPathValue("id", meetingID)
		w := httptest.NewRecorder()
		handler.ToggleCategory(w, req)
		return w
	}

	t.Run("toggle enables then disables", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		w := toggle(meetingID, categoryID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.ToggleCategoryResponse
		testutil.AssertJSON(t, w, &resp)
		if !resp.Enabled {
			t.Error("First toggle should enable")
		}

		w = toggle(meetingID, categoryID)
		testutil.AssertStatus(t, w, http.StatusOK)

		testutil.AssertJSON(t, w, &resp)
		if resp.Enabled {
			t.Error("Second toggle should disable")
		}
	})

	t.Run("disable clears guest list", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.AddTestGuest(t, db, meetingID, categoryID, "Jordan From Accounting")

		// Disable, then re-enable
		toggle(meetingID, categoryID)
		toggle(meetingID, categoryID)

		var count int
		err := db.QueryRow(`
			SELECT COUNT(*) FROM guest_nominee WHERE meeting_id = $1 AND category_id = $2
		`, meetingID, categoryID).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to count guests: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected guest list cleared after disable, found %d guests", count)
		}
	})

	t.Run("rejected while voting open", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")

		w := toggle(meetingID, categoryID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("rejected when finalized", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "finalized")

		w := toggle(meetingID, categoryID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("inactive category rejected", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		inactiveID := testutil.CreateTestCategory(t, db, clubID, "Retired", 9)
		if _, err := db.Exec(`UPDATE voting_category SET is_active = FALSE WHERE id = $1`, inactiveID); err != nil {
			t.Fatalf("Failed to deactivate category: %v", err)
		}

		w := toggle(meetingID, inactiveID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("category from another club rejected", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		otherClubID := testutil.CreateTestClub(t, db)
		foreignID := testutil.CreateTestCategory(t, db, otherClubID, "Foreign Category", 1)

		w := toggle(meetingID, foreignID)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestReplaceNominations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRegistryHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	officerID := testutil.CreateTestMember(t, db, clubID, "Olivia Officer", "officer", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	bobID := testutil.CreateTestMember(t, db, clubID, "Bob", "member", "active")
	pendingID := testutil.CreateTestMember(t, db, clubID, "Pending Pat", "member", "pending")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	replace := func(meetingID string, entries []models.NominationEntry) *httptest.ResponseRecorder {
		body := models.ReplaceNominationsRequest{Nominations: entries}
		req := testutil.MakeRequest("POST", "/meetings/"+meetingID+"/nominations/batch", body, map[string]string{"X-Member-ID": officerID})
		req.SetPathValue("id", meetingID)
		w := httptest.NewRecorder()
		handler.ReplaceNominations(w, req)
		return w
	}

	countNominations := func(meetingID string) int {
		var count int
		if err := db.QueryRow(`SELECT COUNT(*) FROM nomination WHERE meeting_id = $1`, meetingID).Scan(&count); err != nil {
			t.Fatalf("Failed to count nominations: %v", err)
		}
		return count
	}

	t.Run("replace swaps the full roster", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.AddTestNomination(t, db, meetingID, categoryID, aliceID)

		w := replace(meetingID, []models.NominationEntry{
			{CategoryID: categoryID, MemberID: bobID},
		})
		testutil.AssertStatus(t, w, http.StatusOK)

		if got := countNominations(meetingID); got != 1 {
			t.Fatalf("Expected 1 nomination after replace, got %d", got)
		}

		var memberID string
		if err := db.QueryRow(`SELECT member_id FROM nomination WHERE meeting_id = $1`, meetingID).Scan(&memberID); err != nil {
			t.Fatalf("Failed to query nomination: %v", err)
		}
		if memberID != bobID {
			t.Errorf("Expected roster replaced with %s, got %s", bobID, memberID)
		}
	})

	t.Run("duplicate entries collapse", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		w := replace(meetingID, []models.NominationEntry{
			{CategoryID: categoryID, MemberID: aliceID},
			{CategoryID: categoryID, MemberID: aliceID},
			{CategoryID: categoryID, MemberID: bobID},
		})
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp map[string]int
		testutil.AssertJSON(t, w, &resp)
		if resp["nominations"] != 2 {
			t.Errorf("Expected 2 inserted nominations, got %d", resp["nominations"])
		}
	})

	t.Run("empty batch clears all", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.AddTestNomination(t, db, meetingID, categoryID, aliceID)

		w := replace(meetingID, []models.NominationEntry{})
		testutil.AssertStatus(t, w, http.StatusOK)

		if got := countNominations(meetingID); got != 0 {
			t.Errorf("Expected 0 nominations, got %d", got)
		}
	})

	t.Run("invalid entry leaves roster untouched", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.AddTestNomination(t, db, meetingID, categoryID, aliceID)

		w := replace(meetingID, []models.NominationEntry{
			{CategoryID: categoryID, MemberID: pendingID},
		})
		testutil.AssertStatus(t, w, http.StatusBadRequest)

		if got := countNominations(meetingID); got != 1 {
			t.Errorf("Expected roster untouched with 1 nomination, got %d", got)
		}
	})

	t.Run("rejected while voting open", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")

		w := replace(meetingID, []models.NominationEntry{
			{CategoryID: categoryID, MemberID: aliceID},
		})
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestHandleGuests(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRegistryHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	officerID := testutil.CreateTestMember(t, db, clubID, "Olivia Officer", "officer", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	guests := func(meetingID, name, action string) *httptest.ResponseRecorder {
		body := models.GuestRequest{CategoryID: categoryID, GuestName: name, Action: action}
		req := testutil.MakeRequest("POST", "/meetings/"+meetingID+"/guests", body, map[string]string{"X-Member-ID": officerID})
		req.SetPathValue("id", meetingID)
		w := httptest.NewRecorder()
		handler.HandleGuests(w, req)
		return w
	}

	t.Run("add enables category implicitly", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		w := guests(meetingID, "Jordan From Accounting", "add")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.GuestResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Guests) != 1 || resp.Guests[0] != "Jordan From Accounting" {
			t.Errorf("Expected guest list [Jordan From Accounting], got %v", resp.Guests)
		}

		var enabled bool
		err := db.QueryRow(`
			SELECT EXISTS(SELECT 1 FROM meeting_category WHERE meeting_id = $1 AND category_id = $2)
		`, meetingID, categoryID).Scan(&enabled)
		if err != nil {
			t.Fatalf("Failed to check enablement: %v", err)
		}
		if !enabled {
			t.Error("Adding a guest should enable the category")
		}
	})

	t.Run("duplicate name rejected", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		guests(meetingID, "Jordan", "add")
		w := guests(meetingID, "Jordan", "add")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("name match is case-sensitive", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		guests(meetingID, "Jordan", "add")
		w := guests(meetingID, "jordan", "add")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.GuestResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Guests) != 2 {
			t.Errorf("Expected 2 guests (case-sensitive), got %v", resp.Guests)
		}
	})

	t.Run("remove", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		guests(meetingID, "Jordan", "add")
		w := guests(meetingID, "Jordan", "remove")
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.GuestResponse
		testutil.AssertJSON(t, w, &resp)
		if len(resp.Guests) != 0 {
			t.Errorf("Expected empty guest list, got %v", resp.Guests)
		}
	})

	t.Run("remove unknown name", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)

		w := guests(meetingID, "Nobody", "remove")
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("invalid action", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "draft")

		w := guests(meetingID, "Jordan", "upsert")
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejected while voting open", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")

		w := guests(meetingID, "Jordan", "add")
		testutil.AssertStatus(t, w, http.StatusConflict)
	})
}

func TestGetBallot(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewRegistryHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	memberID := testutil.CreateTestMember(t, db, clubID, "Milo Member", "member", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	bobID := testutil.CreateTestMember(t, db, clubID, "Bob", "member", "active")

	speakerID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)
	evaluatorID := testutil.CreateTestCategory(t, db, clubID, "Best Evaluator", 2)
	testutil.CreateTestCategory(t, db, clubID, "Not Enabled", 3)

	meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")
	testutil.EnableTestCategory(t, db, meetingID, speakerID)
	testutil.EnableTestCategory(t, db, meetingID, evaluatorID)
	testutil.AddTestNomination(t, db, meetingID, speakerID, bobID)
	testutil.AddTestNomination(t, db, meetingID, speakerID, aliceID)
	testutil.AddTestGuest(t, db, meetingID, speakerID, "Zara Guest")

	req := testutil.MakeRequest("GET", "/meetings/"+meetingID+"/ballot", nil, map[string]string{"X-Member-ID": memberID})
	req.SetPathValue("id", meetingID)
	w := httptest.NewRecorder()

	handler.GetBallot(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var ballot models.BallotResponse
	testutil.AssertJSON(t, w, &ballot)

	if len(ballot.Categories) != 2 {
		t.Fatalf("Expected 2 enabled categories, got %d", len(ballot.Categories))
	}
	if ballot.Categories[0].CategoryID != speakerID {
		t.Errorf("Expected Best Speaker first by display order")
	}

	speaker := ballot.Categories[0]
	if len(speaker.Nominees) != 3 {
		t.Fatalf("Expected 3 nominees (2 members + 1 guest), got %d", len(speaker.Nominees))
	}
	// Members sorted by display name, then guests
	if speaker.Nominees[0].DisplayName != "Alice" || speaker.Nominees[1].DisplayName != "Bob" {
		t.Errorf("Expected members ordered Alice, Bob; got %q, %q",
			speaker.Nominees[0].DisplayName, speaker.Nominees[1].DisplayName)
	}
	if !speaker.Nominees[2].IsGuest || speaker.Nominees[2].GuestName != "Zara Guest" {
		t.Errorf("Expected guest Zara Guest last, got %+v", speaker.Nominees[2])
	}

	evaluator := ballot.Categories[1]
	if len(evaluator.Nominees) != 0 {
		t.Errorf("Expected empty nominee list for Best Evaluator, got %d", len(evaluator.Nominees))
	}
}
