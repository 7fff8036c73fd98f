package inline

import (
	"context"
	"errors"

	"github.com/hyperjump/filebot/internal/models"
	"github.com/hyperjump/filebot/pkg/utils"
	"go.uber.org/zap"
)

// ErrNotMember is returned by a MembershipChecker when the user is not in the chat.
var ErrNotMember = errors.New("user is not a member of the chat")

// MembershipChecker looks up a user's status in a chat.
type MembershipChecker interface {
	MemberStatus(ctx context.Context, chatID, userID int64) (models.MemberStatus, error)
}

// Subscription is the outcome of an access check.
type Subscription int

const (
	Subscribed Subscription = iota
	NotSubscribed
	// LookupFailed means the membership lookup itself failed; it denies access like NotSubscribed.
	LookupFailed
)

// String returns the metric label for s.
func (s Subscription) String() string {
	switch s {
	case Subscribed:
		return "subscribed"
	case NotSubscribed:
		return "not_subscribed"
	case LookupFailed:
		return "error"
	default:
		return "unknown"
	}
}

// AccessDecision is the result of one access check. It is never cached.
type AccessDecision struct {
	Subscription Subscription
	Status       models.MemberStatus
	Err          error
}

// Allowed reports whether the user may receive results.
func (d AccessDecision) Allowed() bool {
	return d.Subscription == Subscribed
}

// AccessGate requires users to be subscribed to a channel before they get results.
// A nil *AccessGate allows everyone without any lookup.
type AccessGate struct {
	channelID int64
	members   MembershipChecker
	logger    *zap.Logger
}

// NewAccessGate returns a gate for channelID, or nil when channelID is zero (no requirement).
func NewAccessGate(channelID int64, members MembershipChecker, logger *zap.Logger) *AccessGate {
	if channelID == 0 {
		return nil
	}
	return &AccessGate{
		channelID: channelID,
		members:   members,
		logger:    utils.OrNop(logger),
	}
}

// Check looks up userID in the required channel. Kicked users and non-members are
// not subscribed; lookup errors are logged and deny access.
func (g *AccessGate) Check(ctx context.Context, userID int64) AccessDecision {
	if g == nil {
		return AccessDecision{Subscription: Subscribed}
	}
	status, err := g.members.MemberStatus(ctx, g.channelID, userID)
	var d AccessDecision
	switch {
	case errors.Is(err, ErrNotMember):
		d = AccessDecision{Subscription: NotSubscribed, Err: err}
	case err != nil:
		g.logger.Warn("membership lookup failed",
			zap.Int64("channel_id", g.channelID),
			zap.Int64("user_id", userID),
			zap.Error(err),
		)
		d = AccessDecision{Subscription: LookupFailed, Err: err}
	case status == models.MemberStatusKicked:
		d = AccessDecision{Subscription: NotSubscribed, Status: status}
	default:
		d = AccessDecision{Subscription: Subscribed, Status: status}
	}
	membershipLookups.WithLabelValues(d.Subscription.String()).Inc()
	return d
}

// IsSubscribed reports whether userID passes the gate.
func (g *AccessGate) IsSubscribed(ctx context.Context, userID int64) bool {
	return g.Check(ctx, userID).Allowed()
}
