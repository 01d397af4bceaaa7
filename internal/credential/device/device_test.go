package device

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayName(t *testing.T) {
	tests := []struct {
		name      string
		userAgent string
		contains  []string
	}{
		{
			name:      "chrome on linux desktop",
			userAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
			contains:  []string{"Chrome", " on ", "Linux"},
		},
		{
			name:      "safari on iphone uses the platform",
			userAgent: "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
			contains:  []string{" on ", "iPhone"},
		},
		{
			name:      "curl still gets a formatted name",
			userAgent: "curl/8.5.0",
			contains:  []string{" on "},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := DisplayName(tc.userAgent)
			for _, want := range tc.contains {
				assert.Contains(t, got, want)
			}
			assert.Equal(t, strings.TrimSpace(got), got)
			assert.NotContains(t, got, "  ")
		})
	}
}

func TestDisplayNameEmpty(t *testing.T) {
	assert.Equal(t, "Unknown Device", DisplayName(""))
	assert.Equal(t, "Unknown Device", DisplayName("   "))
}
