package runner

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"jobwatch/internal/logging"
	"jobwatch/internal/logging/types"
	"jobwatch/pkg/utils"
)

// Pacer spaces requests out between locations: a per-domain token bucket
// keeps the sustained rate under the configured ceiling, and a bounded
// randomized jitter on top avoids a fixed request-interval signature.
type Pacer struct {
	requestsPerMinute int
	minDelay          time.Duration
	maxDelay          time.Duration
	limiters          map[string]*rate.Limiter
	mu                sync.Mutex
	logger            types.Logger
}

// NewPacer creates a pacer. requestsPerMinute <= 0 disables the token
// bucket; only the jitter delay applies.
func NewPacer(requestsPerMinute int, minDelay, maxDelay time.Duration) *Pacer {
	return &Pacer{
		requestsPerMinute: requestsPerMinute,
		minDelay:          minDelay,
		maxDelay:          maxDelay,
		limiters:          make(map[string]*rate.Limiter),
		logger:            logging.GetGlobalLogger(),
	}
}

// Wait blocks until the next request to the domain is due: the randomized
// inter-location delay first, then the domain's rate limiter.
func (p *Pacer) Wait(ctx context.Context, domain string) error {
	waited, err := utils.RandomSleep(ctx, p.minDelay, p.maxDelay)
	if err != nil {
		return err
	}

	p.logger.Debug("Inter-location delay elapsed", map[string]interface{}{
		"domain": domain,
		"waited": utils.FormatDuration(waited),
	})

	if p.requestsPerMinute <= 0 {
		return nil
	}
	return p.domainLimiter(domain).Wait(ctx)
}

func (p *Pacer) domainLimiter(domain string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	domain = strings.ToLower(domain)
	limiter, exists := p.limiters[domain]
	if !exists {
		limiter = rate.NewLimiter(rate.Limit(float64(p.requestsPerMinute)/60.0), 1)
		p.limiters[domain] = limiter
	}
	return limiter
}
