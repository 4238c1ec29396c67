package guard

import (
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"github.com/remediarr/remediarr/core/config"
	"github.com/remediarr/remediarr/internal/model"
)

// DenyReason explains why the guard dropped an event.
type DenyReason string

const (
	DenyEventKind     DenyReason = "event_kind"
	DenyIssueResolved DenyReason = "issue_resolved"
	DenyOwnComment    DenyReason = "own_comment"
	DenyDuplicate     DenyReason = "duplicate"
)

// Verdict is the guard's decision for one event.
type Verdict struct {
	Allowed bool
	Reason  DenyReason
}

func allow() Verdict {
	return Verdict{Allowed: true}
}

func deny(reason DenyReason) Verdict {
	return Verdict{Reason: reason}
}

// Guard suppresses feedback loops and duplicate deliveries. It holds the
// only mutable state in the pipeline: an in-process TTL cache of recently
// acted-on issues. State is process local and empty on restart.
type Guard struct {
	botUsername string
	dedup       *ttlcache.Cache[string, struct{}]
}

func New(ttl time.Duration, botUsername string) *Guard {
	cache := ttlcache.New(
		ttlcache.WithTTL[string, struct{}](ttl),
		ttlcache.WithDisableTouchOnHit[string, struct{}](),
	)
	go cache.Start()

	return &Guard{
		botUsername: botUsername,
		dedup:       cache,
	}
}

// Stop halts the cache's expiration loop.
func (g *Guard) Stop() {
	g.dedup.Stop()
}

// Check decides whether an event proceeds to classification. The duplicate
// check is check-and-insert in one step, so two concurrent deliveries of
// the same issue cannot both pass.
func (g *Guard) Check(event model.IssueEvent) Verdict {
	switch event.Kind {
	case model.EventIssueReported, model.EventIssueCommented:
	default:
		return deny(DenyEventKind)
	}

	if event.IssueStatus == model.IssueStatusResolved || event.IssueStatus == model.IssueStatusClosed {
		return deny(DenyIssueResolved)
	}

	if event.Kind == model.EventIssueCommented && g.isOwnComment(event) {
		return deny(DenyOwnComment)
	}

	key := dedupKey(event)
	_, loaded := g.dedup.GetOrSet(key, struct{}{})
	if loaded {
		return deny(DenyDuplicate)
	}

	return allow()
}

// isOwnComment recognizes the service's own feedback comments, either by
// the marker prefix or by the configured bot account name.
func (g *Guard) isOwnComment(event model.IssueEvent) bool {
	if strings.HasPrefix(strings.TrimSpace(event.CommentText), config.BotPrefix) {
		return true
	}
	if g.botUsername != "" && strings.EqualFold(event.CommentedBy, g.botUsername) {
		return true
	}
	return false
}

func dedupKey(event model.IssueEvent) string {
	return fmt.Sprintf("%d:%s", event.IssueID, event.MediaKind)
}
