package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fineart/internal/domain/profiles"
)

var alice = profiles.Profile{ID: "p-1", Email: "alice@example.com", Role: profiles.RoleAdmin}

func TestIssueVerify(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)

	token, claims, err := iss.Issue(alice)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)

	got, err := iss.Verify(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "p-1", got.UID)
	assert.Equal(t, profiles.RoleAdmin, got.Role)
}

func TestVerify_Codes(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, nil)
	token, _, err := iss.Issue(alice)
	require.NoError(t, err)

	_, err = iss.Verify(context.Background(), "")
	assert.Equal(t, CodeTokenMissing, CodeOf(err))

	_, err = NewIssuer("other", time.Hour, nil).Verify(context.Background(), token)
	assert.Equal(t, CodeTokenInvalid, CodeOf(err))

	_, err = iss.Verify(context.Background(), "a.b.c")
	assert.Equal(t, CodeTokenInvalid, CodeOf(err))

	expired := NewIssuer("secret", time.Hour, nil)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.Issue(alice)
	require.NoError(t, err)
	_, err = iss.Verify(context.Background(), old)
	assert.Equal(t, CodeTokenExpired, CodeOf(err))
}

func TestRevoke(t *testing.T) {
	iss := NewIssuer("secret", time.Hour, NewMemoryRevocations())
	token, _, err := iss.Issue(alice)
	require.NoError(t, err)

	claims, err := iss.Verify(context.Background(), token)
	require.NoError(t, err)
	require.NoError(t, iss.Revoke(context.Background(), claims))

	_, err = iss.Verify(context.Background(), token)
	assert.Equal(t, CodeTokenRevoked, CodeOf(err))
}

func TestRevokeProfile(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 500_000_000, time.UTC)
	clock := func() time.Time { return now }
	rev := NewMemoryRevocations()
	rev.now = clock
	iss := NewIssuer("secret", time.Hour, rev)
	iss.now = clock

	old, _, err := iss.Issue(alice)
	require.NoError(t, err)
	other, _, err := iss.Issue(profiles.Profile{ID: "p-2", Email: "bob@example.com", Role: profiles.RoleUser})
	require.NoError(t, err)

	now = now.Add(200 * time.Millisecond)
	require.NoError(t, iss.RevokeProfile(ctx, alice.ID))

	_, err = iss.Verify(ctx, old)
	assert.Equal(t, CodeTokenRevoked, CodeOf(err))
	_, err = iss.Verify(ctx, other)
	assert.NoError(t, err)

	now = now.Add(2 * time.Second)
	fresh, _, err := iss.Issue(alice)
	require.NoError(t, err)
	_, err = iss.Verify(ctx, fresh)
	assert.NoError(t, err)
}

func TestMemoryRevocations_Expire(t *testing.T) {
	m := NewMemoryRevocations()
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Revoke(context.Background(), "jti", now.Add(time.Minute)))
	revoked, _ := m.IsRevoked(context.Background(), "jti")
	assert.True(t, revoked)

	now = now.Add(2 * time.Minute)
	revoked, _ = m.IsRevoked(context.Background(), "jti")
	assert.False(t, revoked)
}

func TestHint_Unverified(t *testing.T) {
	token, _, err := NewIssuer("someone-elses-secret", time.Hour, nil).Issue(alice)
	require.NoError(t, err)

	h, ok := Hint(token)
	require.True(t, ok)
	assert.Equal(t, HintInfo{UID: "p-1", Email: "alice@example.com", Role: profiles.RoleAdmin}, h)

	_, ok = Hint("not-a-token")
	assert.False(t, ok)
}

func TestMessages(t *testing.T) {
	for _, c := range []Code{
		CodeInvalidCredentials, CodeEmailTaken, CodeWeakPassword, CodeInvalidEmail,
		CodeTokenExpired, CodeTokenInvalid, CodeTokenRevoked, CodeOAuthFailed, CodeAccountUsesGoogle,
	} {
		assert.NotEqual(t, Message(CodeUnknown), Message(c), c)
	}
	assert.Equal(t, Message(CodeUnknown), Message("Invalid login credentials"))
	assert.Equal(t, 409, HTTPStatus(CodeEmailTaken))
	assert.Equal(t, 401, HTTPStatus(CodeTokenExpired))
}

func TestCodeOf(t *testing.T) {
	cause := errors.New("bcrypt mismatch")
	err := Fail(CodeInvalidCredentials, cause)
	assert.Equal(t, CodeInvalidCredentials, CodeOf(err))
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, CodeUnknown, CodeOf(errors.New("plain")))
}

type recordingRelay struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingRelay) Publish(_ context.Context, e Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func TestBroker(t *testing.T) {
	b := NewBroker(nil)
	relay := &recordingRelay{}
	b.SetRelay(relay)

	var got []EventType
	unsubscribe := b.Subscribe(func(e Event) { got = append(got, e.Type) })

	b.Publish(context.Background(), Event{Type: EventLogin, ProfileID: "p-1"})
	unsubscribe()
	unsubscribe()
	b.Publish(context.Background(), Event{Type: EventLogout, ProfileID: "p-1"})

	assert.Equal(t, []EventType{EventLogin}, got)
	assert.Len(t, relay.events, 2)
	assert.False(t, relay.events[0].At.IsZero())
}
