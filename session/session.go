// Package session provides the shared, long-lived HTTP session used by all
// concurrent action handlers. A Session bundles a connection-pooled
// http.Client with default headers and two independent retry layers:
//
//   - a connection-level layer inside the transport, which transparently
//     retries transport errors and 429/500/502/503/504 responses with a
//     factor*2^n schedule (see retryTransport);
//   - an application-level layer (Session.SafeRequest), which reacts to
//     semantic rate-limit signals (429/420) with a larger backoff base and to
//     transport failures with a smaller one, bounded by a maximum attempt
//     count.
//
// The two layers stack: each SafeRequest attempt may itself be retried by the
// transport before the outer loop ever sees a result.
package session

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/kauanbdsi/instagram-botter/backoff"
	"github.com/kauanbdsi/instagram-botter/config"
	"github.com/kauanbdsi/instagram-botter/proxy"
	"github.com/kauanbdsi/instagram-botter/utils"
)

// Timeouts applied to every request attempt. These mirror a split
// connect/read timeout: dialing is bounded separately from waiting for the
// response headers.
const (
	connectTimeout = 10 * time.Second
	readTimeout    = 30 * time.Second
)

// Rate-limit status codes the application-level retry loop reacts to.
// 420 is the legacy "Enhance Your Calm" status some platforms still emit.
const (
	statusRateLimited       = http.StatusTooManyRequests
	statusEnhanceYourCalm   = 420
	rateLimitBackoffBase    = 2.0
	transportErrBackoffBase = 1.0
)

// Session is the one resource shared read-only across all concurrent tasks.
// The underlying http.Client (and its connection pool) is safe for concurrent
// use, which is what makes the whole dispatcher model sound.
type Session struct {
	client      *http.Client
	headers     map[string]string
	userAgent   string
	maxAttempts int
	sleeper     *backoff.Sleeper
	logger      *utils.Logger
	runID       string
	proxyStr    string
}

// Option customizes a Session at construction time.
type Option func(*Session)

// WithSleeper replaces the backoff sleeper, letting tests run without real delays.
func WithSleeper(s *backoff.Sleeper) Option {
	return func(sess *Session) { sess.sleeper = s }
}

// WithRunID attaches a run identifier carried into every log entry.
func WithRunID(id string) Option {
	return func(sess *Session) { sess.runID = id }
}

// New constructs a Session from the given configuration.
//
// proxyURL may be nil, in which case no proxy is used. A non-nil proxyURL is
// applied identically to HTTP and HTTPS traffic. The connection-level retry
// policy (cfg.HTTPRetries, cfg.BackoffFactor) is installed on the transport;
// the application-level policy (cfg.MaxAttempts, cfg.Jitter) drives
// SafeRequest.
func New(cfg *config.Config, logger *utils.Logger, proxyURL *url.URL, opts ...Option) *Session {
	base := &http.Transport{
		Proxy: proxy.Func(proxyURL),
		DialContext: (&net.Dialer{
			Timeout: connectTimeout,
		}).DialContext,
		ResponseHeaderTimeout: readTimeout,
		MaxIdleConnsPerHost:   16,
	}

	transport := newRetryTransport(base, cfg.HTTPRetries, cfg.BackoffFactor, logger)

	sess := &Session{
		client:      &http.Client{Transport: transport},
		headers:     cfg.DefaultHeaders,
		userAgent:   cfg.UserAgent,
		maxAttempts: cfg.MaxAttempts,
		sleeper:     backoff.NewSleeper(cfg.Jitter, nil),
		logger:      logger,
	}
	if proxyURL != nil {
		sess.proxyStr = proxyURL.Redacted()
	}

	for _, opt := range opts {
		opt(sess)
	}
	return sess
}

// applyHeaders sets the session's default headers on an outgoing request.
func (s *Session) applyHeaders(req *http.Request) {
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	for key, value := range s.headers {
		if key != "User-Agent" { // UserAgent from config wins; avoid setting twice.
			req.Header.Set(key, value)
		}
	}
}
