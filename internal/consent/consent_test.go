package consent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGranted(t *testing.T) {
	cases := []struct {
		name     string
		event    map[string]any
		required bool
		want     bool
	}{
		{"not required", map[string]any{"x-ga-gcs": "G100"}, false, true},
		{"consent state granted", map[string]any{"consent_state": map[string]any{"ad_storage": true}}, true, true},
		{"consent state denied", map[string]any{"consent_state": map[string]any{"ad_storage": false}}, true, false},
		{"consent state wins over gcs", map[string]any{"consent_state": map[string]any{}, "x-ga-gcs": "G111"}, true, false},
		{"gcs granted", map[string]any{"x-ga-gcs": "G110"}, true, true},
		{"gcs denied", map[string]any{"x-ga-gcs": "G101"}, true, false},
		{"gcs too short", map[string]any{"x-ga-gcs": "G1"}, true, false},
		{"no signal", map[string]any{}, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Granted(tc.event, tc.required))
		})
	}
}
