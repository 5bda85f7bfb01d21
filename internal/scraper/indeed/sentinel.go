package indeed

import (
	"fmt"
	"strings"
)

// Block/captcha signatures. URL fragments cover Indeed's own redirect
// targets; title fragments cover the Cloudflare interstitials that serve the
// block page in place.
var (
	blockedURLFragments = []string{
		"showcaptcha",
		"blocked",
	}

	blockedTitleFragments = []string{
		"just a moment",
		"attention required",
		"verify you are a human",
	}
)

// CheckBlocked inspects the post-navigation URL and page title for known
// block signatures. A hit short-circuits the location's pipeline; there is no
// retry or fingerprint rotation once detection fires.
func CheckBlocked(currentURL, pageTitle string) (string, bool) {
	loweredURL := strings.ToLower(currentURL)
	for _, fragment := range blockedURLFragments {
		if strings.Contains(loweredURL, fragment) {
			return fmt.Sprintf("bot detection triggered: URL contains %q", fragment), true
		}
	}

	loweredTitle := strings.ToLower(pageTitle)
	for _, fragment := range blockedTitleFragments {
		if strings.Contains(loweredTitle, fragment) {
			return fmt.Sprintf("bot detection triggered: page title contains %q", fragment), true
		}
	}

	return "", false
}
