package ai

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// RateLimited throttles calls to the wrapped Generator.
type RateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// NewRateLimited allows requestsPerMinute calls per minute with the given burst.
// A non-positive rate returns next unchanged.
func NewRateLimited(next Generator, requestsPerMinute float64, burst int) Generator {
	if requestsPerMinute <= 0 {
		return next
	}
	if burst < 1 {
		burst = 1
	}

	limit := rate.Every(time.Duration(float64(time.Minute) / requestsPerMinute))
	return &RateLimited{next: next, limiter: rate.NewLimiter(limit, burst)}
}

func (r *RateLimited) GenerateContent(ctx context.Context, system, message string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", &CollaboratorFailure{Kind: FailureRateLimited, Op: "wait for rate limiter", Err: err}
	}
	return r.next.GenerateContent(ctx, system, message)
}

func (r *RateLimited) Model() string { return r.next.Model() }
