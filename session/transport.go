package session

import (
	"fmt"
	"net/http"
	"time"

	cbackoff "github.com/cenkalti/backoff"

	"github.com/kauanbdsi/instagram-botter/utils"
)

// retryStatuses are the response codes the connection-level layer treats as
// retryable, matching the status_forcelist of the original session setup.
var retryStatuses = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// retryTransport is an http.RoundTripper that transparently retries transport
// errors and retryable status codes before the caller ever sees a result.
// It is the inner of the two retry layers; the application-level loop in
// SafeRequest sits above it and never observes these retries except as
// latency.
type retryTransport struct {
	base    http.RoundTripper
	retries int
	factor  float64
	logger  *utils.Logger
}

// newRetryTransport wraps base with up to retries automatic retries, spaced by
// a factor*2^n schedule (no randomization; the jittered backoff belongs to
// the application-level layer).
func newRetryTransport(base http.RoundTripper, retries int, factor float64, logger *utils.Logger) *retryTransport {
	return &retryTransport{
		base:    base,
		retries: retries,
		factor:  factor,
		logger:  logger,
	}
}

// retryableStatusError signals a retryable response inside the backoff
// operation so it can be told apart from transport errors in logs.
type retryableStatusError struct {
	status int
}

func (e *retryableStatusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.status)
}

// RoundTrip implements http.RoundTripper.
//
// Requests with a non-replayable body are passed through without retries: a
// consumed body cannot be resent, and silently retrying it would corrupt the
// request. Bodyless requests (the normal case here) and requests with GetBody
// set are retried. A retry count of zero disables the layer entirely.
func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.retries <= 0 || (req.Body != nil && req.GetBody == nil) {
		return t.base.RoundTrip(req)
	}

	schedule := cbackoff.NewExponentialBackOff()
	schedule.InitialInterval = time.Duration(t.factor * float64(time.Second))
	schedule.Multiplier = 2
	schedule.RandomizationFactor = 0
	schedule.MaxInterval = 2 * time.Minute
	schedule.MaxElapsedTime = 0 // attempt count, not wall clock, bounds the loop

	var resp *http.Response
	attempt := 0

	operation := func() error {
		attempt++
		attemptReq := req
		if req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return cbackoff.Permanent(err)
			}
			attemptReq = req.Clone(req.Context())
			attemptReq.Body = body
		}

		var err error
		resp, err = t.base.RoundTrip(attemptReq)
		if err != nil {
			return err
		}
		if retryStatuses[resp.StatusCode] && attempt <= t.retries {
			// Another attempt remains: discard this response and retry.
			status := resp.StatusCode
			resp.Body.Close()
			resp = nil
			return &retryableStatusError{status: status}
		}
		// Either a non-retryable status, or retries are exhausted. Hand the
		// response to the caller as-is; the application-level layer decides
		// what a surviving 429 means.
		return nil
	}

	notify := func(err error, wait time.Duration) {
		entry := utils.LogEntry{
			Message: "Transport retry",
			Method:  req.Method,
			Target:  req.URL.String(),
			Error:   err.Error(),
			Extra:   map[string]interface{}{"wait": wait.String()},
		}
		if statusErr, ok := err.(*retryableStatusError); ok {
			entry.StatusCode = statusErr.status
		}
		t.logger.Debug(entry)
	}

	err := cbackoff.RetryNotify(operation, cbackoff.WithMaxRetries(schedule, uint64(t.retries)), notify)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
