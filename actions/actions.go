// Package actions contains the thin handlers that turn one target into one
// boolean outcome. Handlers never return errors: every failure mode, from a
// non-2xx status to an exhausted retry loop, collapses into false.
package actions

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kauanbdsi/instagram-botter/session"
	"github.com/kauanbdsi/instagram-botter/utils"
)

// Known action names accepted on the command line.
const (
	ActionLike   = "like"
	ActionFollow = "follow"
)

// Handler performs a single action against a single target and reports
// whether it succeeded. In dry-run mode a handler performs no network calls
// and succeeds unconditionally.
type Handler func(ctx context.Context, sess *session.Session, logger *utils.Logger, target string, dryRun bool) bool

// ForName resolves an action name to its handler.
func ForName(name string) (Handler, error) {
	switch name {
	case ActionLike:
		return LikePost, nil
	case ActionFollow:
		return FollowUser, nil
	default:
		return nil, fmt.Errorf("unknown action %q", name)
	}
}

// LikePost likes the post identified by target, used directly as the request
// URL. The real like endpoint (CSRF token, payload, etc.) is not implemented;
// the request is a bare POST against the target.
func LikePost(ctx context.Context, sess *session.Session, logger *utils.Logger, target string, dryRun bool) bool {
	return perform(ctx, sess, logger, ActionLike, target, dryRun)
}

// FollowUser follows the user identified by target (a URL or ID used directly
// as the request URL). As with LikePost, the real endpoint logic is a
// placeholder.
func FollowUser(ctx context.Context, sess *session.Session, logger *utils.Logger, target string, dryRun bool) bool {
	return perform(ctx, sess, logger, ActionFollow, target, dryRun)
}

func perform(ctx context.Context, sess *session.Session, logger *utils.Logger, action, target string, dryRun bool) bool {
	logger.Info(utils.LogEntry{Message: "Running action", Action: action, Target: target})

	if dryRun {
		logger.Info(utils.LogEntry{
			Message: "Dry run, simulating action",
			Action:  action, Target: target, Outcome: "simulated",
		})
		return true
	}

	resp := sess.SafeRequest(ctx, http.MethodPost, target)
	if resp == nil {
		logger.Warn(utils.LogEntry{
			Message: "Action failed: no response",
			Action:  action, Target: target, Outcome: "failed",
		})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		logger.Info(utils.LogEntry{
			Message: "Action succeeded",
			Action:  action, Target: target, StatusCode: resp.StatusCode, Outcome: "ok",
		})
		return true
	}

	logger.Warn(utils.LogEntry{
		Message: "Action failed",
		Action:  action, Target: target, StatusCode: resp.StatusCode, Outcome: "failed",
	})
	return false
}
