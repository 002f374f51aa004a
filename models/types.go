package models

import "time"

// Member roles
const (
	RoleAdmin   = "admin"
	RoleOfficer = "officer"
	RoleMember  = "member"
)

// Membership status constants
const (
	MembershipPending  = "pending"
	MembershipActive   = "active"
	MembershipRejected = "rejected"
)

// Meeting lifecycle states (derived, see Meeting.State)
const (
	StateDraft        = "draft"
	StateVotingOpen   = "voting_open"
	StateVotingClosed = "voting_closed"
	StateFinalized    = "finalized"
)

// Guest list actions
const (
	GuestActionAdd    = "add"
	GuestActionRemove = "remove"
)

// Request types

type CreateCategoryRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	DisplayOrder int    `json:"displayOrder"`
}

type CreateMeetingRequest struct {
	ClubID          string     `json:"clubId"`
	Title           string     `json:"title"`
	Date            time.Time  `json:"date"`
	VotingStartTime *time.Time `json:"votingStartTime,omitempty"`
	VotingEndTime   *time.Time `json:"votingEndTime,omitempty"`
	AnonymousVoting bool       `json:"anonymousVoting"`
}

type UpdateMeetingRequest struct {
	ID           string `json:"id"`
	IsVotingOpen bool   `json:"isVotingOpen"`
}

type ToggleCategoryRequest struct {
	CategoryID string `json:"categoryId"`
}

type NominationEntry struct {
	CategoryID string `json:"categoryId"`
	MemberID   string `json:"memberId"`
}

type ReplaceNominationsRequest struct {
	Nominations []NominationEntry `json:"nominations"`
}

type GuestRequest struct {
	CategoryID string `json:"categoryId"`
	GuestName  string `json:"guestName"`
	Action     string `json:"action"`
}

type CastVoteRequest struct {
	MeetingID  string `json:"meetingId"`
	CategoryID string `json:"categoryId"`
	NomineeID  string `json:"nomineeId,omitempty"`
	GuestName  string `json:"guestName,omitempty"`
}

// Response types

type ToggleCategoryResponse struct {
	CategoryID string `json:"categoryId"`
	Enabled    bool   `json:"enabled"`
}

type GuestResponse struct {
	CategoryID string   `json:"categoryId"`
	Guests     []string `json:"guests"`
}

type BallotNominee struct {
	MemberID    string `json:"memberId,omitempty"`
	GuestName   string `json:"guestName,omitempty"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
}

type BallotCategory struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Nominees     []BallotNominee `json:"nominees"`
}

type BallotResponse struct {
	MeetingID  string           `json:"meetingId"`
	Categories []BallotCategory `json:"categories"`
}

type MeetingPreviewResponse struct {
	Title             string `json:"title"`
	State             string `json:"state"`
	DateLabel         string `json:"dateLabel"`
	FinalizedLabel    string `json:"finalizedLabel,omitempty"`
	EnabledCategories int    `json:"enabledCategories"`
	VoteCount         int    `json:"voteCount"`
}

type MeetingResultsResponse struct {
	Meeting Meeting          `json:"meeting"`
	Results []CategoryResult `json:"results"`
}

type ClubStatsResponse struct {
	ClubID   string                   `json:"clubId"`
	Meetings []MeetingResultsResponse `json:"meetings"`
}

// Domain types

type Club struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type Member struct {
	ID          string    `json:"id"`
	ClubID      string    `json:"clubId"`
	DisplayName string    `json:"displayName"`
	Role        string    `json:"role"`
	Status      string    `json:"status"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

type VotingCategory struct {
	ID           string    `json:"id"`
	ClubID       string    `json:"clubId"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	DisplayOrder int       `json:"displayOrder"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Meeting struct {
	ID              string     `json:"id"`
	ClubID          string     `json:"clubId"`
	Title           string     `json:"title"`
	Date            time.Time  `json:"date"`
	IsVotingOpen    bool       `json:"isVotingOpen"`
	VotingStartTime *time.Time `json:"votingStartTime,omitempty"`
	VotingEndTime   *time.Time `json:"votingEndTime,omitempty"`
	IsFinalized     bool       `json:"isFinalized"`
	FinalizedAt     *time.Time `json:"finalizedAt,omitempty"`
	AnonymousVoting bool       `json:"anonymousVoting"`
	CreatedAt       time.Time  `json:"createdAt"`
}

// State derives the lifecycle state from the stored flags. A meeting
// that was opened and closed again is told apart from a draft by its
// voting_end_time stamp.
func (m Meeting) State() string {
	switch {
	case m.IsFinalized:
		return StateFinalized
	case m.IsVotingOpen:
		return StateVotingOpen
	case m.VotingEndTime != nil:
		return StateVotingClosed
	default:
		return StateDraft
	}
}

type Nomination struct {
	MeetingID  string    `json:"meetingId"`
	CategoryID string    `json:"categoryId"`
	MemberID   string    `json:"memberId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type Vote struct {
	ID         string    `json:"id"`
	MeetingID  string    `json:"meetingId"`
	CategoryID string    `json:"categoryId"`
	VoterKey   string    `json:"-"` // Never expose in JSON
	VoterID    *string   `json:"-"` // Never expose in JSON
	NomineeID  *string   `json:"nomineeId,omitempty"`
	GuestName  *string   `json:"guestName,omitempty"`
	CastAt     time.Time `json:"castAt"`
}

// Tally types

type NomineeTally struct {
	MemberID    string `json:"memberId,omitempty"`
	GuestName   string `json:"guestName,omitempty"`
	DisplayName string `json:"displayName"`
	IsGuest     bool   `json:"isGuest"`
	VoteCount   int    `json:"voteCount"`
}

type CategoryResult struct {
	CategoryID    string         `json:"categoryId"`
	CategoryName  string         `json:"categoryName"`
	TotalVotes    int            `json:"totalVotes"`
	Nominees      []NomineeTally `json:"nominees"`
	Winner        *NomineeTally  `json:"winner,omitempty"`
	IsGuestWinner bool           `json:"isGuestWinner"`
}

type VoteResult struct {
	MeetingID       string    `json:"meetingId"`
	CategoryID      string    `json:"categoryId"`
	WinnerMemberID  *string   `json:"winnerMemberId,omitempty"`
	WinnerGuestName *string   `json:"winnerGuestName,omitempty"`
	IsGuestWinner   bool      `json:"isGuestWinner"`
	VoteCount       int       `json:"voteCount"`
	TotalVotes      int       `json:"totalVotes"`
	CalculatedAt    time.Time `json:"calculatedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
