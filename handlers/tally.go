// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"sort"

	"github.com/awardnight/server/models"
)

// ComputeResults aggregates the vote ledger for a meeting into
// per-category standings. Every enabled category appears in the output,
// in display order, with zero-vote categories carrying an empty nominee
// list and no winner.
//
// Nominees are ordered by vote count descending, then display name
// ascending, then nominee key ascending. The ordering is total, so the
// winner (the first entry) is deterministic even under ties.
func ComputeResults(database *sql.DB, meetingID string) ([]models.CategoryResult, error) {
	rows, err := database.Query(`
		SELECT vc.id, vc.name
		FROM meeting_category mc
		JOIN voting_category vc ON vc.id = mc.category_id
		WHERE mc.meeting_id = $1 AND vc.is_active = TRUE
		ORDER BY vc.display_order, vc.name, vc.id
	`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []models.CategoryResult{}
	for rows.Next() {
		var result models.CategoryResult
		if err := rows.Scan(&result.CategoryID, &result.CategoryName); err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range results {
		if err := tallyCategory(database, meetingID, &results[i]); err != nil {
			return nil, err
		}
	}

	return results, nil
}

func tallyCategory(database *sql.DB, meetingID string, result *models.CategoryResult) error {
	rows, err := database.Query(`
		SELECT v.nominee_id, v.guest_name, m.display_name
		FROM vote v
		LEFT JOIN member m ON m.id = v.nominee_id
		WHERE v.meeting_id = $1 AND v.category_id = $2
	`, meetingID, result.CategoryID)
	if err != nil {
		return err
	}
	defer rows.Close()

	// Keyed by "m:<member id>" or "g:<guest name>" so a member and a
	// guest can never collide.
	tallies := make(map[string]*models.NomineeTally)
	keys := []string{}

	for rows.Next() {
		var nomineeID, guestName, displayName *string
		if err := rows.Scan(&nomineeID, &guestName, &displayName); err != nil {
			return err
		}

		var key string
		var tally models.NomineeTally
		if nomineeID != nil {
			key = "m:" + *nomineeID
			tally.MemberID = *nomineeID
			if displayName != nil {
				tally.DisplayName = *displayName
			}
		} else {
			key = "g:" + *guestName
			tally.GuestName = *guestName
			tally.DisplayName = *guestName
			tally.IsGuest = true
		}

		if existing, ok := tallies[key]; ok {
			existing.VoteCount++
		} else {
			tally.VoteCount = 1
			tallies[key] = &tally
			keys = append(keys, key)
		}
		result.TotalVotes++
	}
	if err := rows.Err(); err != nil {
		return err
	}

	sort.Slice(keys, func(i, j int) bool {
		a, b := tallies[keys[i]], tallies[keys[j]]
		if a.VoteCount != b.VoteCount {
			return a.VoteCount > b.VoteCount
		}
		if a.DisplayName != b.DisplayName {
			return a.DisplayName < b.DisplayName
		}
		return keys[i] < keys[j]
	})

	result.Nominees = []models.NomineeTally{}
	for _, key := range keys {
		result.Nominees = append(result.Nominees, *tallies[key])
	}

	if len(result.Nominees) > 0 {
		winner := result.Nominees[0]
		result.Winner = &winner
		result.IsGuestWinner = winner.IsGuest
	}

	return nil
}
