package types

import "time"

type AccessOutcome string

const (
	OutcomeGranted AccessOutcome = "granted"
	OutcomeDenied  AccessOutcome = "denied"
	OutcomePending AccessOutcome = "pending"
)

func (o AccessOutcome) Valid() bool {
	switch o {
	case OutcomeGranted, OutcomeDenied, OutcomePending:
		return true
	}
	return false
}

// Sentinel values recorded for attempts that matched no member.
const (
	UnknownMemberID   = "0"
	UnknownMemberName = "Unknown"
	UnknownTier       = "-"
)

// AccessLogEntry is one verification attempt. Member name and tier are
// denormalized so entries can be listed without a join.
type AccessLogEntry struct {
	ID         string        `json:"id"`
	MemberID   string        `json:"member_id"`
	MemberName string        `json:"member_name"`
	Tier       string        `json:"tier"`
	Timestamp  time.Time     `json:"timestamp"`
	Outcome    AccessOutcome `json:"status"`
	Confidence float64       `json:"confidence"`
	PhotoURL   string        `json:"photo_url"`
}

// GrantedEntry builds the log entry for a successful match.
func GrantedEntry(id string, m Member, confidence float64, at time.Time) AccessLogEntry {
	return AccessLogEntry{
		ID:         id,
		MemberID:   m.ID,
		MemberName: m.Name,
		Tier:       string(m.Tier),
		Timestamp:  at.UTC(),
		Outcome:    OutcomeGranted,
		Confidence: confidence,
		PhotoURL:   m.PhotoURL,
	}
}

// DeniedEntry builds the log entry for an attempt with no match.
func DeniedEntry(id string, confidence float64, at time.Time) AccessLogEntry {
	return AccessLogEntry{
		ID:         id,
		MemberID:   UnknownMemberID,
		MemberName: UnknownMemberName,
		Tier:       UnknownTier,
		Timestamp:  at.UTC(),
		Outcome:    OutcomeDenied,
		Confidence: confidence,
	}
}
