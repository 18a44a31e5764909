package recommendation

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/wattadvisor/wattadvisor/internal/domain"
	"github.com/wattadvisor/wattadvisor/internal/modules/usage"
)

// Fingerprint derives a short deterministic cache key from everything
// that can change a recommendation: the user, the candidate plan set,
// the profile classification, and the preference weights. Plan order
// does not matter.
func Fingerprint(userID string, planIDs []string, profileType usage.ProfileType, prefs domain.UserPreferences) string {
	ids := make([]string, len(planIDs))
	copy(ids, planIDs)
	sort.Strings(ids)

	payload := fmt.Sprintf("%s|%s|%s|%d:%d:%d:%d",
		userID,
		strings.Join(ids, ","),
		profileType,
		prefs.CostWeight, prefs.FlexibilityWeight, prefs.RenewableWeight, prefs.RatingWeight)

	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])[:8]
}
