// Package device names the browser a request came from so notifications can
// say where a reset was requested.
package device

import (
	"strings"

	"github.com/mssola/useragent"
)

// DisplayName returns "Browser on OS" (e.g. "Chrome on Linux"), or the
// platform for mobile agents ("Safari on iPhone").
func DisplayName(userAgent string) string {
	if strings.TrimSpace(userAgent) == "" {
		return "Unknown Device"
	}

	ua := useragent.New(userAgent)
	browser, _ := ua.Browser()
	os := ua.OS()

	if ua.Mobile() {
		if platform := ua.Platform(); platform != "" {
			return strings.TrimSpace(browser + " on " + platform)
		}
	}

	if browser == "" {
		browser = "Unknown Browser"
	}
	if os == "" {
		os = "Unknown OS"
	}
	return strings.TrimSpace(browser + " on " + os)
}
