package server

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func testTokenSource() oauth2.TokenSource {
	return oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test-token"})
}

func TestSessionCreateAndGet(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	id := m.Create("alice@example.com", testTokenSource())
	require.NotEmpty(t, id)

	session, ok := m.Get(id)
	require.True(t, ok)
	assert.Equal(t, "alice@example.com", session.Email)
	assert.Equal(t, id, session.ID)
	assert.NotNil(t, session.TokenSource)
}

func TestSessionGetUnknown(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	_, ok := m.Get("nonexistent")
	assert.False(t, ok)
}

func TestSessionExpiry(t *testing.T) {
	m := NewSessionManagerWithLogger(10*time.Millisecond, slog.Default())
	defer m.Stop()

	id := m.Create("alice@example.com", testTokenSource())
	time.Sleep(25 * time.Millisecond)

	_, ok := m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestSessionActivityRefresh(t *testing.T) {
	m := NewSessionManagerWithLogger(50*time.Millisecond, slog.Default())
	defer m.Stop()

	id := m.Create("alice@example.com", testTokenSource())

	// Keep touching the session more often than the TTL.
	for i := 0; i < 4; i++ {
		time.Sleep(20 * time.Millisecond)
		_, ok := m.Get(id)
		require.True(t, ok)
	}
}

func TestSessionRemove(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	id := m.Create("alice@example.com", testTokenSource())
	m.Remove(id)

	_, ok := m.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Count())
}

func TestSessionCountCallback(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	var deltas []int
	m.SetCountCallback(func(delta int) { deltas = append(deltas, delta) })

	id := m.Create("alice@example.com", testTokenSource())
	m.Remove(id)
	m.Remove(id) // second removal must not fire the callback again

	assert.Equal(t, []int{1, -1}, deltas)
}

func TestStateConsumeOnce(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	state := m.NewState()
	assert.True(t, m.ConsumeState(state))
	assert.False(t, m.ConsumeState(state))
}

func TestStateUnknown(t *testing.T) {
	m := NewSessionManager()
	defer m.Stop()

	assert.False(t, m.ConsumeState("made-up-state"))
}
