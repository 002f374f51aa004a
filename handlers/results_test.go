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

func TestGetResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	memberID := testutil.CreateTestMember(t, db, clubID, "Milo Member", "member", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	getResults := func(meetingID, caller string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("GET", "/results?meetingId="+meetingID, nil, map[string]string{"X-Member-ID": caller})
		w := httptest.NewRecorder()
		handler.GetResults(w, req)
		return w
	}

	t.Run("withheld while voting open", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")

		w := getResults(meetingID, memberID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("member reads closed results", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_closed")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-1", aliceID, "")

		w := getResults(meetingID, memberID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var resp models.MeetingResultsResponse
		testutil.AssertJSON(t, w, &resp)
		if resp.Meeting.ID != meetingID {
			t.Errorf("Expected meeting %s in response", meetingID)
		}
		if len(resp.Results) != 1 || resp.Results[0].TotalVotes != 1 {
			t.Errorf("Expected 1 category with 1 vote, got %+v", resp.Results)
		}
	})

	t.Run("meeting not found", func(t *testing.T) {
		w := getResults("nonexistent", memberID)
		testutil.AssertStatus(t, w, http.StatusNotFound)
	})

	t.Run("missing meetingId", func(t *testing.T) {
		req := testutil.MakeRequest("GET", "/results", nil, map[string]string{"X-Member-ID": memberID})
		w := httptest.NewRecorder()
		handler.GetResults(w, req)
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})
}

func TestFreezeResults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	officerID := testutil.CreateTestMember(t, db, clubID, "Olivia Officer", "officer", "active")
	memberID := testutil.CreateTestMember(t, db, clubID, "Milo Member", "member", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	bobID := testutil.CreateTestMember(t, db, clubID, "Bob", "member", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	freeze := func(meetingID, caller string) *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/meetings/"+meetingID+"/results/freeze", nil, map[string]string{"X-Member-ID": caller})
		req.SetPathValue("id", meetingID)
		w := httptest.NewRecorder()
		handler.FreezeResults(w, req)
		return w
	}

	t.Run("rejected while voting open", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_open")

		w := freeze(meetingID, officerID)
		testutil.AssertStatus(t, w, http.StatusConflict)
	})

	t.Run("member cannot freeze", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_closed")

		w := freeze(meetingID, memberID)
		testutil.AssertStatus(t, w, http.StatusForbidden)
	})

	t.Run("freeze snapshots winner per category", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_closed")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-1", aliceID, "")
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-2", aliceID, "")
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-3", bobID, "")

		w := freeze(meetingID, officerID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var winnerID string
		var voteCount, totalVotes int
		err := db.QueryRow(`
			SELECT winner_member_id, vote_count, total_votes
			FROM vote_result
			WHERE meeting_id = $1 AND category_id = $2
		`, meetingID, categoryID).Scan(&winnerID, &voteCount, &totalVotes)
		if err != nil {
			t.Fatalf("Failed to query frozen result: %v", err)
		}
		if winnerID != aliceID || voteCount != 2 || totalVotes != 3 {
			t.Errorf("Expected Alice with 2/3 votes, got %s with %d/%d", winnerID, voteCount, totalVotes)
		}

		// Re-freeze after another vote overwrites the snapshot
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-4", bobID, "")
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-5", bobID, "")

		w = freeze(meetingID, officerID)
		testutil.AssertStatus(t, w, http.StatusOK)

		err = db.QueryRow(`
			SELECT winner_member_id, vote_count, total_votes
			FROM vote_result
			WHERE meeting_id = $1 AND category_id = $2
		`, meetingID, categoryID).Scan(&winnerID, &voteCount, &totalVotes)
		if err != nil {
			t.Fatalf("Failed to query frozen result: %v", err)
		}
		if winnerID != bobID || voteCount != 3 || totalVotes != 5 {
			t.Errorf("Expected Bob with 3/5 votes after re-freeze, got %s with %d/%d", winnerID, voteCount, totalVotes)
		}

		// Still exactly one snapshot row per category
		var rows int
		if err := db.QueryRow(`SELECT COUNT(*) FROM vote_result WHERE meeting_id = $1`, meetingID).Scan(&rows); err != nil {
			t.Fatalf("Failed to count snapshot rows: %v", err)
		}
		if rows != 1 {
			t.Errorf("Expected 1 snapshot row, got %d", rows)
		}
	})

	t.Run("guest winner freezes by name", func(t *testing.T) {
		meetingID := testutil.CreateTestMeeting(t, db, clubID, "voting_closed")
		testutil.EnableTestCategory(t, db, meetingID, categoryID)
		testutil.AddTestGuest(t, db, meetingID, categoryID, "Jordan")
		testutil.CastTestVote(t, db, meetingID, categoryID, "voter-1", "", "Jordan")

		w := freeze(meetingID, officerID)
		testutil.AssertStatus(t, w, http.StatusOK)

		var guestName string
		var isGuestWinner bool
		err := db.QueryRow(`
			SELECT winner_guest_name, is_guest_winner
			FROM vote_result
			WHERE meeting_id = $1 AND category_id = $2
		`, meetingID, categoryID).Scan(&guestName, &isGuestWinner)
		if err != nil {
			t.Fatalf("Failed to query frozen result: %v", err)
		}
		if guestName != "Jordan" || !isGuestWinner {
			t.Errorf("Expected guest winner Jordan, got %q (guest=%v)", guestName, isGuestWinner)
		}
	})
}

func TestClubStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	memberID := testutil.CreateTestMember(t, db, clubID, "Milo Member", "member", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	finalizedID := testutil.CreateTestMeeting(t, db, clubID, "finalized")
	testutil.EnableTestCategory(t, db, finalizedID, categoryID)
	testutil.CastTestVote(t, db, finalizedID, categoryID, "voter-1", aliceID, "")

	// Draft and open meetings stay out of the stats
	testutil.CreateTestMeeting(t, db, clubID, "draft")
	testutil.CreateTestMeeting(t, db, clubID, "voting_open")

	req := testutil.MakeRequest("GET", "/clubs/"+clubID+"/stats", nil, map[string]string{"X-Member-ID": memberID})
	req.SetPathValue("id", clubID)
	w := httptest.NewRecorder()

	handler.ClubStats(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var stats models.ClubStatsResponse
	testutil.AssertJSON(t, w, &stats)

	if stats.ClubID != clubID {
		t.Errorf("Expected club %s, got %s", clubID, stats.ClubID)
	}
	if len(stats.Meetings) != 1 {
		t.Fatalf("Expected 1 finalized meeting, got %d", len(stats.Meetings))
	}
	if stats.Meetings[0].Meeting.ID != finalizedID {
		t.Errorf("Expected finalized meeting %s", finalizedID)
	}
	if len(stats.Meetings[0].Results) != 1 || stats.Meetings[0].Results[0].TotalVotes != 1 {
		t.Errorf("Expected 1 category with 1 vote, got %+v", stats.Meetings[0].Results)
	}
}

func TestGetMeetingPreview(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer db.Close()

	cfg := testutil.GetTestConfig()
	handler := NewResultsHandler(db, cfg)

	clubID := testutil.CreateTestClub(t, db)
	memberID := testutil.CreateTestMember(t, db, clubID, "Milo Member", "member", "active")
	aliceID := testutil.CreateTestMember(t, db, clubID, "Alice", "member", "active")
	categoryID := testutil.CreateTestCategory(t, db, clubID, "Best Speaker", 1)

	meetingID := testutil.CreateTestMeeting(t, db, clubID, "finalized")
	testutil.EnableTestCategory(t, db, meetingID, categoryID)
	testutil.CastTestVote(t, db, meetingID, categoryID, "voter-1", aliceID, "")
	testutil.CastTestVote(t, db, meetingID, categoryID, "voter-2", aliceID, "")

	req := testutil.MakeRequest("GET", "/meetings/"+meetingID+"/preview", nil, map[string]string{"X-Member-ID": memberID})
	req.SetPathValue("id", meetingID)
	w := httptest.NewRecorder()

	handler.GetMeetingPreview(w, req)

	testutil.AssertStatus(t, w, http.StatusOK)

	var preview models.MeetingPreviewResponse
	testutil.AssertJSON(t, w, &preview)

	if preview.Title != "Test Meeting" {
		t.Errorf("Expected title Test Meeting, got %q", preview.Title)
	}
	if preview.State != models.StateFinalized {
		t.Errorf("Expected finalized state, got %s", preview.State)
	}
	if preview.DateLabel == "" {
		t.Error("Expected a humanized date label")
	}
	if preview.FinalizedLabel == "" {
		t.Error("Expected a finalized label")
	}
	if preview.EnabledCategories != 1 {
		t.Errorf("Expected 1 enabled category, got %d", preview.EnabledCategories)
	}
	if preview.VoteCount != 2 {
		t.Errorf("Expected 2 votes, got %d", preview.VoteCount)
	}
}
