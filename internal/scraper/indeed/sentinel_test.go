package indeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckBlocked(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		title   string
		blocked bool
	}{
		{
			name:    "clean results page",
			url:     "https://www.indeed.com/jobs?q=engineer&l=London",
			title:   "Engineer Jobs in London | Indeed.com",
			blocked: false,
		},
		{
			name:    "captcha redirect",
			url:     "https://www.indeed.com/showcaptcha?redirect=...",
			title:   "Indeed",
			blocked: true,
		},
		{
			name:    "blocked fragment in URL",
			url:     "https://www.indeed.com/blocked",
			title:   "",
			blocked: true,
		},
		{
			name:    "cloudflare interstitial title",
			url:     "https://fr.indeed.com/jobs?q=dev",
			title:   "Just a moment...",
			blocked: true,
		},
		{
			name:    "attention required title",
			url:     "https://www.indeed.com/jobs",
			title:   "Attention Required! | Cloudflare",
			blocked: true,
		},
		{
			name:    "human verification title",
			url:     "https://www.indeed.com/jobs",
			title:   "Please Verify You Are A Human",
			blocked: true,
		},
		{
			name:    "fragment matching is case-insensitive",
			url:     "https://www.indeed.com/ShowCaptcha",
			title:   "",
			blocked: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, blocked := CheckBlocked(tt.url, tt.title)
			assert.Equal(t, tt.blocked, blocked)
			if blocked {
				assert.NotEmpty(t, reason)
			} else {
				assert.Empty(t, reason)
			}
		})
	}
}
