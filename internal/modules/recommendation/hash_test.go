package recommendation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

func TestFingerprint_Deterministic(t *testing.T) {
	prefs := domain.DefaultPreferences()

	a := Fingerprint("user-1", []string{"p1", "p2", "p3"}, usage.ProfileSeasonal, prefs)
	b := Fingerprint("user-1", []string{"p1", "p2", "p3"}, usage.ProfileSeasonal, prefs)

	assert.Equal(t, a, b)
	assert.Len(t, a, 8)
}

func TestFingerprint_PlanOrderIrrelevant(t *testing.T) {
	prefs := domain.DefaultPreferences()

	a := Fingerprint("user-1", []string{"p1", "p2", "p3"}, usage.ProfileSeasonal, prefs)
	b := Fingerprint("user-1", []string{"p3", "p1", "p2"}, usage.ProfileSeasonal, prefs)

	assert.Equal(t, a, b)
}

func TestFingerprint_SensitiveToInputs(t *testing.T) {
	prefs := domain.DefaultPreferences()
	base := Fingerprint("user-1", []string{"p1", "p2"}, usage.ProfileSeasonal, prefs)

	assert.NotEqual(t, base, Fingerprint("user-2", []string{"p1", "p2"}, usage.ProfileSeasonal, prefs))
	assert.NotEqual(t, base, Fingerprint("user-1", []string{"p1"}, usage.ProfileSeasonal, prefs))
	assert.NotEqual(t, base, Fingerprint("user-1", []string{"p1", "p2"}, usage.ProfileBaseline, prefs))

	shifted := domain.UserPreferences{CostWeight: 50, FlexibilityWeight: 10, RenewableWeight: 20, RatingWeight: 20}
	assert.NotEqual(t, base, Fingerprint("user-1", []string{"p1", "p2"}, usage.ProfileSeasonal, shifted))
}
