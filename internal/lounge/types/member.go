package types

import (
	"fmt"
	"strings"
	"time"
)

type Tier string

const (
	TierPlatinum Tier = "Platinum"
	TierGold     Tier = "Gold"
	TierSilver   Tier = "Silver"
)

// Tiers lists every tier, highest entitlement first.
var Tiers = []Tier{TierPlatinum, TierGold, TierSilver}

func (t Tier) Valid() bool {
	switch t {
	case TierPlatinum, TierGold, TierSilver:
		return true
	}
	return false
}

// ParseTier accepts a tier name in any letter case.
func ParseTier(s string) (Tier, error) {
	s = strings.TrimSpace(s)
	for _, t := range Tiers {
		if strings.EqualFold(s, string(t)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTier, s)
}

type MemberStatus string

const (
	StatusActive    MemberStatus = "active"
	StatusExpired   MemberStatus = "expired"
	StatusSuspended MemberStatus = "suspended"
)

func (s MemberStatus) Valid() bool {
	switch s {
	case StatusActive, StatusExpired, StatusSuspended:
		return true
	}
	return false
}

// DateLayout is the layout of Member.MemberSince.
const DateLayout = "2006-01-02"

type Member struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	Email          string       `json:"email"`
	Tier           Tier         `json:"tier"`
	MemberSince    string       `json:"member_since"`
	Flights        int          `json:"flights"`
	PhotoURL       string       `json:"photo_url"`
	PassportNumber string       `json:"passport_number"`
	Nationality    string       `json:"nationality"`
	LastAccess     *time.Time   `json:"last_access,omitempty"`
	Status         MemberStatus `json:"status"`
}

// MemberPatch carries the fields an update may change. Nil fields are left
// untouched.
type MemberPatch struct {
	LastAccess *time.Time `json:"last_access,omitempty"`
}

func (p MemberPatch) Empty() bool { return p.LastAccess == nil }

// Apply returns m with the patch applied. The ID is never changed.
func (p MemberPatch) Apply(m Member) Member {
	if p.LastAccess != nil {
		t := p.LastAccess.UTC()
		m.LastAccess = &t
	}
	return m
}
