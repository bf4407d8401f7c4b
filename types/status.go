package types

import "sync"

// AuthSignatureStatus reflects whether the most recent full re-authentication
// accepted or rejected the app's signing key. It is read by an availability
// detection layer outside this core.
type AuthSignatureStatus int

const (
	AuthSignatureUnknown AuthSignatureStatus = iota
	AuthSignatureAuthenticated
	AuthSignatureUnauthenticated
)

func (s AuthSignatureStatus) String() string {
	switch s {
	case AuthSignatureAuthenticated:
		return "authenticated"
	case AuthSignatureUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}

// AuthSignatureStatusHandle is an explicitly injected shared status cell,
// created at session start and reset on sign-out. Subscribers get the latest
// value only; intermediate values may be dropped.
type AuthSignatureStatusHandle struct {
	mu     sync.Mutex
	status AuthSignatureStatus
	subs   []chan AuthSignatureStatus
}

func NewAuthSignatureStatusHandle() *AuthSignatureStatusHandle {
	return &AuthSignatureStatusHandle{status: AuthSignatureUnknown}
}

func (h *AuthSignatureStatusHandle) Get() AuthSignatureStatus {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status
}

func (h *AuthSignatureStatusHandle) Set(status AuthSignatureStatus) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.status == status {
		return
	}
	h.status = status
	for _, sub := range h.subs {
		// drop the stale value if the subscriber hasn't consumed it yet
		select {
		case <-sub:
		default:
		}
		select {
		case sub <- status:
		default:
		}
	}
}

// Subscribe returns a channel carrying status updates and a cancel function.
// The channel holds at most one buffered value (last-value-wins).
func (h *AuthSignatureStatusHandle) Subscribe() (<-chan AuthSignatureStatus, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan AuthSignatureStatus, 1)
	h.subs = append(h.subs, ch)
	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		for i, sub := range h.subs {
			if sub == ch {
				h.subs = append(h.subs[:i], h.subs[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

// Reset returns the handle to the unknown state (sign-out).
func (h *AuthSignatureStatusHandle) Reset() {
	h.Set(AuthSignatureUnknown)
}
