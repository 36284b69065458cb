package fixture_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandonDHaskell/loungegate/internal/lounge/fixture"
	"github.com/BrandonDHaskell/loungegate/internal/lounge/types"
)

func TestDefault_LoadsRosterAndLog(t *testing.T) {
	f, err := fixture.Default()
	require.NoError(t, err)

	require.Len(t, f.Members, 6)
	require.Len(t, f.AccessLog, 5)

	assert.Equal(t, "Alexandra Chen", f.Members[0].Name)
	assert.Equal(t, types.TierPlatinum, f.Members[0].Tier)
	require.NotNil(t, f.Members[0].LastAccess)
	assert.Equal(t, 8, f.Members[0].LastAccess.Hour())
	assert.Nil(t, f.Members[4].LastAccess)
	assert.Equal(t, types.StatusExpired, f.Members[5].Status)
}

func TestDefault_LogPhotoDefaultsToMemberPortrait(t *testing.T) {
	f := fixture.MustDefault()

	assert.Equal(t, f.Members[0].PhotoURL, f.AccessLog[0].PhotoURL)

	unknown := f.AccessLog[2]
	assert.Equal(t, types.UnknownMemberName, unknown.MemberName)
	assert.Equal(t, types.OutcomeDenied, unknown.Outcome)
	assert.Empty(t, unknown.PhotoURL)
}

func TestDefault_ReturnsIndependentCopies(t *testing.T) {
	a := fixture.MustDefault()
	b := fixture.MustDefault()

	a.Members[0].Name = "changed"
	assert.Equal(t, "Alexandra Chen", b.Members[0].Name)
}

func TestParse_RejectsBadTier(t *testing.T) {
	_, err := fixture.Parse([]byte(`
members:
  - id: "9"
    name: X
    email: x@example.com
    tier: Bronze
    member_since: "2024-01-01"
`))
	require.ErrorIs(t, err, types.ErrInvalidTier)
}

func TestParse_RejectsOutOfRangeConfidence(t *testing.T) {
	_, err := fixture.Parse([]byte(`
access_log:
  - { id: x, member_id: "0", member_name: Unknown, tier: "-", timestamp: "2026-01-01 00:00:00", status: denied, confidence: 120 }
`))
	require.Error(t, err)
}
