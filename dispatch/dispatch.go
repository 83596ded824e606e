// Package dispatch partitions a target list into concurrency-sized chunks and
// runs an action handler over each chunk with a bounded worker pool. Chunks
// run strictly one after another with a randomized pause in between; only
// targets inside the same chunk ever run concurrently.
package dispatch

import (
	"context"
	"math/rand"
	"runtime/debug"
	"time"

	"github.com/kauanbdsi/instagram-botter/actions"
	"github.com/kauanbdsi/instagram-botter/session"
	"github.com/kauanbdsi/instagram-botter/utils"
)

// Inter-chunk sleep range, in seconds. The pause between chunks is drawn
// uniformly from this range.
const (
	ChunkSleepMin = 2.0
	ChunkSleepMax = 6.0
)

// Outcome is the result of running one action against one target.
// Every submitted target produces exactly one Outcome, including targets
// whose handler panicked (those are recorded as failed, not dropped).
type Outcome struct {
	Target string
	OK     bool
}

// Progress is invoked once per completed task, in completion order, with the
// running done count and the overall total. It is called from the dispatcher
// goroutine, never concurrently with itself.
type Progress func(done, total int, outcome Outcome)

// Dispatcher runs batches of action handlers against a shared session.
type Dispatcher struct {
	sess        *session.Session
	logger      *utils.Logger
	concurrency int
	dryRun      bool
	progress    Progress
	sleep       func(time.Duration)
	rng         *rand.Rand
}

// Option customizes a Dispatcher at construction time.
type Option func(*Dispatcher)

// WithProgress registers a per-completion progress callback.
func WithProgress(p Progress) Option {
	return func(d *Dispatcher) { d.progress = p }
}

// WithSleep replaces the inter-chunk sleep function, letting tests run
// without real delays.
func WithSleep(sleep func(time.Duration)) Option {
	return func(d *Dispatcher) { d.sleep = sleep }
}

// New creates a Dispatcher. concurrency is both the worker pool size and the
// chunk size; values below 1 are raised to 1.
func New(sess *session.Session, logger *utils.Logger, concurrency int, dryRun bool, opts ...Option) *Dispatcher {
	if concurrency < 1 {
		concurrency = 1
	}
	d := &Dispatcher{
		sess:        sess,
		logger:      logger,
		concurrency: concurrency,
		dryRun:      dryRun,
		sleep:       time.Sleep,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Run executes handler over every target and returns one Outcome per target.
// Outcomes are collected in completion order, not submission order.
//
// Targets are processed in chunks of the configured concurrency. Within a
// chunk each target gets its own worker goroutine; the next chunk is not
// started until every task of the current chunk has finished and the
// inter-chunk pause has elapsed. The final chunk is not followed by a pause.
func (d *Dispatcher) Run(ctx context.Context, targets []string, actionName string, handler actions.Handler) []Outcome {
	outcomes := make([]Outcome, 0, len(targets))
	total := len(targets)

	for start := 0; start < len(targets); start += d.concurrency {
		end := start + d.concurrency
		if end > len(targets) {
			end = len(targets)
		}
		chunk := targets[start:end]

		d.logger.Debug(utils.LogEntry{
			Message: "Dispatching chunk",
			Action:  actionName,
			Extra:   map[string]interface{}{"chunk_size": len(chunk), "offset": start},
		})

		results := make(chan Outcome, len(chunk))
		for _, target := range chunk {
			go func(target string) {
				results <- Outcome{Target: target, OK: d.runOne(ctx, actionName, handler, target)}
			}(target)
		}

		// Collect as tasks complete, so progress reflects completion order
		// rather than submission order.
		for i := 0; i < len(chunk); i++ {
			outcome := <-results
			outcomes = append(outcomes, outcome)
			if d.progress != nil {
				d.progress(len(outcomes), total, outcome)
			}
		}

		if end < len(targets) {
			pause := time.Duration((ChunkSleepMin + d.rng.Float64()*(ChunkSleepMax-ChunkSleepMin)) * float64(time.Second))
			d.logger.Debug(utils.LogEntry{
				Message: "Sleeping between chunks",
				Extra:   map[string]interface{}{"pause": pause.String()},
			})
			d.sleep(pause)
		}
	}

	return outcomes
}

// runOne executes a single handler invocation, converting a panic into a
// logged failure. Dropping the outcome instead would break the one-outcome-
// per-target accounting that progress reporting relies on.
func (d *Dispatcher) runOne(ctx context.Context, actionName string, handler actions.Handler, target string) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error(utils.LogEntry{
				Message: "Task panicked",
				Action:  actionName,
				Target:  target,
				Outcome: "panic",
				Extra: map[string]interface{}{
					"panic": r,
					"stack": string(debug.Stack()),
				},
			})
			ok = false
		}
	}()
	return handler(ctx, d.sess, d.logger, target, d.dryRun)
}
