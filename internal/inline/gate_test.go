package inline

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/hyperjump/filebot/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAccessGate_noChannelIsNil(t *testing.T) {
	assert.Nil(t, NewAccessGate(0, &fakeMembers{}, nil))
}

func TestAccessGate_nilAllowsWithoutLookup(t *testing.T) {
	var g *AccessGate
	d := g.Check(context.Background(), 42)
	assert.True(t, d.Allowed())
	assert.Equal(t, Subscribed, d.Subscription)
}

func TestAccessGate_Check(t *testing.T) {
	lookupErr := errors.New("telegram: timeout")
	tests := []struct {
		name    string
		status  models.MemberStatus
		err     error
		want    Subscription
		allowed bool
	}{
		{"member", models.MemberStatusMember, nil, Subscribed, true},
		{"administrator", models.MemberStatusAdministrator, nil, Subscribed, true},
		{"creator", models.MemberStatusCreator, nil, Subscribed, true},
		{"restricted", models.MemberStatusRestricted, nil, Subscribed, true},
		{"kicked", models.MemberStatusKicked, nil, NotSubscribed, false},
		{"not a member", "", ErrNotMember, NotSubscribed, false},
		{"wrapped not a member", "", fmt.Errorf("get chat member: %w", ErrNotMember), NotSubscribed, false},
		{"other error", "", lookupErr, LookupFailed, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			members := &fakeMembers{status: tt.status, err: tt.err}
			g := NewAccessGate(-1001234, members, nil)
			require.NotNil(t, g)

			d := g.Check(context.Background(), 42)
			assert.Equal(t, tt.want, d.Subscription)
			assert.Equal(t, tt.allowed, d.Allowed())
			assert.Equal(t, tt.allowed, g.IsSubscribed(context.Background(), 42))
			if tt.err != nil {
				assert.ErrorIs(t, d.Err, tt.err)
			}
			assert.Equal(t, 2, members.calls, "every check performs a fresh lookup")
		})
	}
}

func TestSubscription_String(t *testing.T) {
	assert.Equal(t, "subscribed", Subscribed.String())
	assert.Equal(t, "not_subscribed", NotSubscribed.String())
	assert.Equal(t, "error", LookupFailed.String())
}
