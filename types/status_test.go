package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStatusHandleDefaultsToUnknown(t *testing.T) {
	handle := NewAuthSignatureStatusHandle()
	assert.Equal(t, AuthSignatureUnknown, handle.Get())
}

func TestStatusHandleSetAndReset(t *testing.T) {
	handle := NewAuthSignatureStatusHandle()
	handle.Set(AuthSignatureAuthenticated)
	assert.Equal(t, AuthSignatureAuthenticated, handle.Get())

	handle.Reset()
	assert.Equal(t, AuthSignatureUnknown, handle.Get())
}

func TestStatusHandleSubscribeLastValueWins(t *testing.T) {
	handle := NewAuthSignatureStatusHandle()
	updates, cancel := handle.Subscribe()
	defer cancel()

	// a slow subscriber only ever sees the latest value
	handle.Set(AuthSignatureAuthenticated)
	handle.Set(AuthSignatureUnauthenticated)

	select {
	case status := <-updates:
		assert.Equal(t, AuthSignatureUnauthenticated, status)
	case <-time.After(2 * time.Second):
		t.Fatal("expected a status update")
	}
}

func TestStatusHandleDeduplicates(t *testing.T) {
	handle := NewAuthSignatureStatusHandle()
	handle.Set(AuthSignatureAuthenticated)

	updates, cancel := handle.Subscribe()
	defer cancel()

	// setting the current value again emits nothing
	handle.Set(AuthSignatureAuthenticated)
	select {
	case status := <-updates:
		t.Fatalf("expected no update for an unchanged status, got %s", status.String())
	case <-time.After(100 * time.Millisecond):
	}
}

func TestStatusHandleCancelledSubscriptionStops(t *testing.T) {
	handle := NewAuthSignatureStatusHandle()
	updates, cancel := handle.Subscribe()
	cancel()

	handle.Set(AuthSignatureAuthenticated)
	select {
	case <-updates:
		t.Fatal("cancelled subscription must not receive updates")
	case <-time.After(100 * time.Millisecond):
	}
}
