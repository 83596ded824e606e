package session

import (
	"context"
	"io"
	"net/http"

	"github.com/kauanbdsi/instagram-botter/utils"
)

// SafeRequest issues one HTTP request with application-level retries.
//
// Any received response whose status is not a rate-limit signal is returned
// immediately, whatever the status code; interpreting it is the caller's job.
// A 429 or 420 response is treated as a semantic rate-limit signal: the
// response is discarded, a backoff with base 2.0 is applied, and the request
// is retried. A transport-level error (after the transport's own inner
// retries) is backed off with base 1.0 and retried likewise.
//
// When the maximum attempt count is exhausted without a non-rate-limited
// response, SafeRequest logs an error and returns nil. It never returns an
// error; absence of a response is the only failure signal, and callers must
// treat nil as "no result".
//
// The caller owns the body of a returned non-nil response.
func (s *Session) SafeRequest(ctx context.Context, method, targetURL string) *http.Response {
	attempt := 0
	for attempt < s.maxAttempts {
		req, err := http.NewRequestWithContext(ctx, method, targetURL, nil)
		if err != nil {
			// A malformed URL will not get better on retry.
			s.logger.Error(utils.LogEntry{
				Message: "Failed to build request",
				RunID:   s.runID, Method: method, Target: targetURL,
				Proxy: s.proxyStr, Error: err.Error(),
			})
			return nil
		}
		s.applyHeaders(req)

		resp, err := s.client.Do(req)
		if err != nil {
			s.logger.Warn(utils.LogEntry{
				Message: "Request error, backing off",
				RunID:   s.runID, Method: method, Target: targetURL,
				Attempt: attempt + 1, Proxy: s.proxyStr, Error: err.Error(),
				Outcome: "transport_error",
			})
			s.sleeper.Sleep(transportErrBackoffBase, attempt)
			attempt++
			continue
		}

		s.logger.Debug(utils.LogEntry{
			Message: "Request completed",
			RunID:   s.runID, Method: method, Target: targetURL,
			Attempt: attempt + 1, StatusCode: resp.StatusCode, Proxy: s.proxyStr,
		})

		if resp.StatusCode == statusRateLimited || resp.StatusCode == statusEnhanceYourCalm {
			s.logger.Warn(utils.LogEntry{
				Message: "Rate limited, backing off",
				RunID:   s.runID, Method: method, Target: targetURL,
				Attempt: attempt + 1, StatusCode: resp.StatusCode, Proxy: s.proxyStr,
				Outcome: "rate_limited",
			})
			drain(resp)
			s.sleeper.Sleep(rateLimitBackoffBase, attempt)
			attempt++
			continue
		}

		return resp
	}

	s.logger.Error(utils.LogEntry{
		Message: "Max attempts reached",
		RunID:   s.runID, Method: method, Target: targetURL,
		Attempt: s.maxAttempts, Proxy: s.proxyStr, Outcome: "exhausted",
	})
	return nil
}

// drain discards and closes a response body so the underlying connection can
// be reused by the pool.
func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
