// Package fixture holds the demo roster and access log. Callers own the
// returned values; nothing here is shared package state.
package fixture

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

//go:embed seed.yaml
var seedYAML []byte

type Fixture struct {
	Members   []types.Member
	AccessLog []types.AccessLogEntry
}

type fileMember struct {
	ID             string `yaml:"id"`
	Name           string `yaml:"name"`
	Email          string `yaml:"email"`
	Tier           string `yaml:"tier"`
	MemberSince    string `yaml:"member_since"`
	Flights        int    `yaml:"flights"`
	PhotoURL       string `yaml:"photo_url"`
	PassportNumber string `yaml:"passport_number"`
	Nationality    string `yaml:"nationality"`
	LastAccess     string `yaml:"last_access"`
	Status         string `yaml:"status"`
}

type fileEntry struct {
	ID         string  `yaml:"id"`
	MemberID   string  `yaml:"member_id"`
	MemberName string  `yaml:"member_name"`
	Tier       string  `yaml:"tier"`
	Timestamp  string  `yaml:"timestamp"`
	Status     string  `yaml:"status"`
	Confidence float64 `yaml:"confidence"`
	PhotoURL   string  `yaml:"photo_url"`
}

type file struct {
	Members   []fileMember `yaml:"members"`
	AccessLog []fileEntry  `yaml:"access_log"`
}

// Default returns a fresh copy of the embedded demo data.
func Default() (Fixture, error) {
	return Parse(seedYAML)
}

// MustDefault is Default for tests and static wiring.
func MustDefault() Fixture {
	f, err := Default()
	if err != nil {
		panic("fixture: embedded seed.yaml: " + err.Error())
	}
	return f
}

// Parse decodes fixture YAML and checks every enumerated field.
func Parse(b []byte) (Fixture, error) {
	var raw file
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Fixture{}, fmt.Errorf("fixture: decode: %w", err)
	}

	var out Fixture
	photos := make(map[string]string, len(raw.Members))
	for i, fm := range raw.Members {
		m, err := fm.member()
		if err != nil {
			return Fixture{}, fmt.Errorf("fixture: member %d: %w", i, err)
		}
		photos[m.ID] = m.PhotoURL
		out.Members = append(out.Members, m)
	}

	for i, fe := range raw.AccessLog {
		e, err := fe.entry()
		if err != nil {
			return Fixture{}, fmt.Errorf("fixture: access_log %d: %w", i, err)
		}
		if e.PhotoURL == "" {
			e.PhotoURL = photos[e.MemberID]
		}
		out.AccessLog = append(out.AccessLog, e)
	}
	return out, nil
}

func (fm fileMember) member() (types.Member, error) {
	if strings.TrimSpace(fm.ID) == "" {
		return types.Member{}, fmt.Errorf("id is required")
	}
	tier, err := types.ParseTier(fm.Tier)
	if err != nil {
		return types.Member{}, err
	}
	status := types.MemberStatus(fm.Status)
	if status == "" {
		status = types.StatusActive
	}
	if !status.Valid() {
		return types.Member{}, fmt.Errorf("invalid status %q", fm.Status)
	}
	if _, err := time.Parse(types.DateLayout, fm.MemberSince); err != nil {
		return types.Member{}, fmt.Errorf("member_since: %w", err)
	}

	m := types.Member{
		ID:             fm.ID,
		Name:           fm.Name,
		Email:          fm.Email,
		Tier:           tier,
		MemberSince:    fm.MemberSince,
		Flights:        fm.Flights,
		PhotoURL:       fm.PhotoURL,
		PassportNumber: fm.PassportNumber,
		Nationality:    fm.Nationality,
		Status:         status,
	}
	if fm.LastAccess != "" {
		t, err := parseStamp(fm.LastAccess)
		if err != nil {
			return types.Member{}, fmt.Errorf("last_access: %w", err)
		}
		m.LastAccess = &t
	}
	return m, nil
}

func (fe fileEntry) entry() (types.AccessLogEntry, error) {
	outcome := types.AccessOutcome(fe.Status)
	if !outcome.Valid() {
		return types.AccessLogEntry{}, fmt.Errorf("invalid status %q", fe.Status)
	}
	if fe.Confidence < 0 || fe.Confidence > 100 {
		return types.AccessLogEntry{}, fmt.Errorf("confidence %.1f out of range", fe.Confidence)
	}
	ts, err := parseStamp(fe.Timestamp)
	if err != nil {
		return types.AccessLogEntry{}, fmt.Errorf("timestamp: %w", err)
	}
	return types.AccessLogEntry{
		ID:         fe.ID,
		MemberID:   fe.MemberID,
		MemberName: fe.MemberName,
		Tier:       fe.Tier,
		Timestamp:  ts,
		Outcome:    outcome,
		Confidence: fe.Confidence,
		PhotoURL:   fe.PhotoURL,
	}, nil
}

// parseStamp reads the "YYYY-MM-DD HH:MM[:SS]" stamps used in the seed,
// interpreted as UTC, and falls back to RFC 3339.
func parseStamp(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02 15:04", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
