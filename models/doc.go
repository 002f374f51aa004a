// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateCategoryRequest: name, description, displayOrder
  - CreateMeetingRequest: clubId, title, date, voting window, anonymousVoting
  - UpdateMeetingRequest: id, isVotingOpen
  - ToggleCategoryRequest: categoryId
  - ReplaceNominationsRequest: nominations ([{categoryId, memberId}])
  - GuestRequest: categoryId, guestName, action (add|remove)
  - CastVoteRequest: meetingId, categoryId, nomineeId | guestName

# Response Types

Types for JSON responses:

  - ToggleCategoryResponse: categoryId, enabled
  - GuestResponse: categoryId, guests
  - BallotResponse: per-category eligible nominees
  - MeetingResultsResponse: meeting plus per-category results
  - ClubStatsResponse: finalized-meeting results for a whole club
  - MeetingPreviewResponse: compact summary with humanized labels
  - ErrorResponse: error, message

# Domain Types

Internal data structures:

  - Club: tenant boundary
  - Member: membership in one club (role, status, active flag)
  - VotingCategory: club-level catalog entry (soft-deletable)
  - Meeting: election event and lifecycle flags
  - Nomination: (meeting, category, member) eligibility triple
  - Vote: immutable ballot entry, keyed for exactly-once voting
  - NomineeTally / CategoryResult: tally output
  - VoteResult: frozen per-category result snapshot

# Constants

Member roles:

	RoleAdmin   = "admin"
	RoleOfficer = "officer"
	RoleMember  = "member"

Membership status:

	MembershipPending  = "pending"
	MembershipActive   = "active"
	MembershipRejected = "rejected"

Meeting lifecycle states (derived via Meeting.State):

	StateDraft        = "draft"
	StateVotingOpen   = "voting_open"
	StateVotingClosed = "voting_closed"
	StateFinalized    = "finalized"
*/
package models
