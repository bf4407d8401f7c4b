package services

import (
	"context"
	"sync"

	"github.com/fxamacker/cbor/v2"
	"github.com/go-kit/log/level"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/repository"
	"github.com/walletkit/go-wallet-auth/types"
)

const rotationAttemptKey = "rotation_attempt/state"

// RotationAttemptStore is the durable record of an in-progress key rotation
// attempt. The single persisted row is the sole source of truth for resuming
// the rotation protocol after a process restart; in-memory state is never
// trusted as authoritative.
//
// Change notification is a last-value-wins, non-blocking broadcast: a late
// subscriber that misses an emission re-reads current state on its next
// check, it never misses a logical update.
type RotationAttemptStore struct {
	store repository.Store

	mu      sync.Mutex
	signals []chan struct{}
}

func NewRotationAttemptStore(store repository.Store) *RotationAttemptStore {
	return &RotationAttemptStore{store: store}
}

// Get reads the persisted state; an absent row is NoAttempt.
func (rs *RotationAttemptStore) Get(ctx context.Context) (types.RotationAttemptState, error) {
	encoded, err := rs.store.Get(ctx, rotationAttemptKey)
	if err != nil {
		if err == types.ErrNotFound {
			return types.RotationAttemptState{Kind: types.RotationNoAttempt}, nil
		}
		return types.RotationAttemptState{}, err
	}
	var state types.RotationAttemptState
	if uErr := cbor.Unmarshal(encoded, &state); uErr != nil {
		return types.RotationAttemptState{}, uErr
	}
	return state, nil
}

// SetProposal records that a rotation has been recommended. A KeysWritten
// record is never downgraded back to a proposal.
func (rs *RotationAttemptStore) SetProposal(ctx context.Context) error {
	current, err := rs.Get(ctx)
	if err != nil {
		return err
	}
	if current.Kind == types.RotationKeysWritten {
		return nil
	}
	return rs.write(ctx, types.RotationAttemptState{Kind: types.RotationProposalWritten})
}

// SetKeysWritten durably records a generated key set. The single-row layout
// makes this clear any prior proposal in the same write.
func (rs *RotationAttemptStore) SetKeysWritten(ctx context.Context, keySet types.AuthKeySet) error {
	return rs.write(ctx, types.RotationAttemptState{Kind: types.RotationKeysWritten, KeySet: &keySet})
}

func (rs *RotationAttemptStore) Clear(ctx context.Context) error {
	if err := rs.store.Delete(ctx, rotationAttemptKey); err != nil {
		return err
	}
	metrics.PendingRotationAttempt.Set(0)
	rs.notify()
	return nil
}

func (rs *RotationAttemptStore) write(ctx context.Context, state types.RotationAttemptState) error {
	encoded, err := cbor.Marshal(state)
	if err != nil {
		return err
	}
	if pErr := rs.store.Put(ctx, rotationAttemptKey, encoded); pErr != nil {
		return pErr
	}
	metrics.PendingRotationAttempt.Set(1)
	rs.notify()
	return nil
}

// Subscribe returns an at-most-one-buffered change signal and a cancel
// function. The signal only says "something changed"; subscribers re-read.
func (rs *RotationAttemptStore) Subscribe() (<-chan struct{}, func()) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	ch := make(chan struct{}, 1)
	rs.signals = append(rs.signals, ch)
	cancel := func() {
		rs.mu.Lock()
		defer rs.mu.Unlock()
		for i, sig := range rs.signals {
			if sig == ch {
				rs.signals = append(rs.signals[:i], rs.signals[i+1:]...)
				break
			}
		}
	}
	return ch, cancel
}

func (rs *RotationAttemptStore) notify() {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	for _, sig := range rs.signals {
		select {
		case sig <- struct{}{}:
		default:
		}
	}
}

// Observe emits the current state immediately and again on every change,
// deduplicated against the previously emitted value. The channel closes when
// ctx is done.
func (rs *RotationAttemptStore) Observe(ctx context.Context) <-chan types.RotationAttemptState {
	out := make(chan types.RotationAttemptState, 8)
	signal, cancel := rs.Subscribe()
	go func() {
		defer close(out)
		defer cancel()
		var last *types.RotationAttemptState
		for {
			state, err := rs.Get(ctx)
			if err != nil {
				level.Warn(global.Logger).Log("msg", "failed to read rotation attempt state", "err", err.Error())
			} else if last == nil || !state.Equal(*last) {
				select {
				case out <- state:
				case <-ctx.Done():
					return
				}
				snapshot := state
				last = &snapshot
			}
			select {
			case <-ctx.Done():
				return
			case <-signal:
			}
		}
	}()
	return out
}
