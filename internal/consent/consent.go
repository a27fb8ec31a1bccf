// Package consent reads the ad-storage consent signal carried by an event.
package consent

import "github.com/PratikDhanave/braze-track-service/internal/value"

const (
	stateKey = "consent_state"
	gcsKey   = "x-ga-gcs"
)

// Granted reports whether the event may be sent. When consent is not
// required it is always true. Otherwise a consent_state object wins; the
// fallback is the x-ga-gcs string (e.g. "G110"), whose third character is
// '1' when ad storage is granted.
func Granted(event map[string]any, required bool) bool {
	if !required {
		return true
	}

	if state := event[stateKey]; value.Truthy(state) {
		obj, ok := state.(map[string]any)
		if !ok {
			return false
		}
		return value.Truthy(obj["ad_storage"])
	}

	gcs, _ := event[gcsKey].(string)
	return len(gcs) > 2 && gcs[2] == '1'
}
