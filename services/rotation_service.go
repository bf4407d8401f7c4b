package services

import (
	"context"
	"sync"

	"github.com/go-kit/log/level"
	"github.com/go-playground/validator/v10"
	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/types"
)

// KeyRotationService orchestrates the end-to-end auth key rotation protocol:
// durably record the new keys, submit them, validate them by authenticating,
// fall back to probing the old keys on rejection, and finalize by persisting
// the rotated keybox, re-endorsing trusted contacts and uploading a
// best-effort cloud backup.
//
// Every step is resumable from the durable attempt record, so stopping
// mid-protocol and later calling Resume is the cancellation model; no
// explicit cancellation token is threaded through beyond ctx.
type KeyRotationService struct {
	attempts      *RotationAttemptStore
	auth          *AuthService
	f8eClient     *f8e.Client
	keyboxService *KeyboxService
	endorsement   *EndorsementService
	backup        BackupUploader
	validate      *validator.Validate

	// one rotation protocol run at a time per account; two concurrent Start
	// calls would race on the durable key-set record otherwise
	locks sync.Map
}

func NewKeyRotationService(attempts *RotationAttemptStore, auth *AuthService, f8eClient *f8e.Client, keyboxService *KeyboxService, endorsement *EndorsementService, backup BackupUploader) *KeyRotationService {
	return &KeyRotationService{
		attempts:      attempts,
		auth:          auth,
		f8eClient:     f8eClient,
		keyboxService: keyboxService,
		endorsement:   endorsement,
		backup:        backup,
		validate:      validator.New(),
	}
}

func (krs *KeyRotationService) lockFor(accountID string) *sync.Mutex {
	actual, _ := krs.locks.LoadOrStore(accountID, &sync.Mutex{})
	return actual.(*sync.Mutex)
}

// RecommendKeyRotation records a rotation proposal (e.g. after restoring on a
// new device). A proposal never downgrades a KeysWritten attempt.
func (krs *KeyRotationService) RecommendKeyRotation(ctx context.Context) error {
	return krs.attempts.SetProposal(ctx)
}

// DismissProposedRotationAttempt clears a pending proposal. An attempt with
// durably written keys cannot be dismissed, only completed or resolved.
func (krs *KeyRotationService) DismissProposedRotationAttempt(ctx context.Context) error {
	state, err := krs.attempts.Get(ctx)
	if err != nil {
		return err
	}
	if state.Kind != types.RotationProposalWritten {
		return nil
	}
	return krs.attempts.Clear(ctx)
}

// PendingAttempt returns the external view of the durable attempt record,
// nil when no rotation is in progress.
func (krs *KeyRotationService) PendingAttempt(ctx context.Context) (*types.PendingAuthKeyRotationAttempt, error) {
	state, err := krs.attempts.Get(ctx)
	if err != nil {
		return nil, err
	}
	return state.Pending(), nil
}

// ObservePendingKeyRotationAttemptUntilNull emits the current pending attempt
// immediately, re-emits on every change (deduplicated), and terminates after
// emitting nil. Between checks it suspends on the store's change signal, so
// there is no busy polling.
func (krs *KeyRotationService) ObservePendingKeyRotationAttemptUntilNull(ctx context.Context) <-chan *types.PendingAuthKeyRotationAttempt {
	out := make(chan *types.PendingAuthKeyRotationAttempt, 8)
	signal, cancel := krs.attempts.Subscribe()
	go func() {
		defer close(out)
		defer cancel()
		var last *types.PendingAuthKeyRotationAttempt
		emitted := false
		for {
			state, err := krs.attempts.Get(ctx)
			if err != nil {
				level.Warn(global.Logger).Log("msg", "failed to read pending rotation attempt", "err", err.Error())
			} else {
				pending := state.Pending()
				if !emitted || !pending.Equal(last) {
					select {
					case out <- pending:
					case <-ctx.Done():
						return
					}
					last = pending
					emitted = true
				}
				if pending == nil {
					return
				}
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

// StartOrResumeAuthKeyRotation runs the rotation protocol for the account
// until a terminal classification is reached.
func (krs *KeyRotationService) StartOrResumeAuthKeyRotation(ctx context.Context, env types.F8eEnvironment, keybox *types.Keybox, req types.RotationRequest) types.RotationOutcome {
	mu := krs.lockFor(keybox.AccountID)
	mu.Lock()
	defer mu.Unlock()

	if req.Kind == types.RotationStart {
		if vErr := krs.validate.Struct(req); vErr != nil {
			return krs.unexpected(req, vErr)
		}
		// persist before contacting the server: a crash on either side of
		// the network call leaves a resumable record of keys that might
		// already be live server-side
		if sErr := krs.attempts.SetKeysWritten(ctx, req.KeySet); sErr != nil {
			return krs.unexpected(req, sErr)
		}
		input := &types.RotateKeysetInput{
			KeySet:                    req.KeySet,
			OldGlobalAuthPublicKey:    keybox.ActiveKeySet.GlobalAuthPublicKey,
			HardwareAuthPublicKey:     keybox.HardwareAuthPublicKey,
			HardwareSignedAccountID:   req.HardwareSignedAccountID,
			HardwareProofOfPossession: req.HardwareProofOfPossession,
		}
		if rErr := krs.f8eClient.RotateKeyset(ctx, env, keybox.AccountID, input); rErr != nil {
			// the synchronous response is not trusted either way; the next
			// step validates by authenticating with the new keys
			level.Warn(global.Logger).Log("msg", "keyset rotation submit failed, validating anyway", "accountId", keybox.AccountID, "err", rErr.Error())
		}
		req = req.ResumeRequest()
	}

	// another run may already have finalized this key set and cleared the
	// record; nothing is pending, so the attempt is resolved
	if keybox.ActiveKeySet.Equal(req.KeySet) {
		state, gErr := krs.attempts.Get(ctx)
		if gErr == nil && state.Kind == types.RotationNoAttempt {
			metrics.RotationOutcomeTotal.WithLabelValues(types.RotationOutcomeAcceptable.String()).Inc()
			return types.RotationOutcome{
				Kind:        types.RotationOutcomeAcceptable,
				Acknowledge: func() error { return nil },
			}
		}
	}

	newValid, probeErr := krs.probeKeySet(ctx, env, req.KeySet)
	if probeErr != nil {
		return krs.unexpected(req, probeErr)
	}
	if !newValid {
		return krs.classifyRejectedKeys(ctx, env, keybox, req)
	}
	return krs.finalize(ctx, env, keybox, req)
}

// probeKeySet authenticates with both keys of the set, each under its own
// scope; both must succeed for the set to count as valid. A key-invalid
// classification on either means "set invalid"; any other failure is
// transient and returned.
func (krs *KeyRotationService) probeKeySet(ctx context.Context, env types.F8eEnvironment, keySet types.AuthKeySet) (bool, *types.AuthError) {
	probes := []struct {
		key   string
		scope types.AuthTokenScope
	}{
		{keySet.GlobalAuthPublicKey, types.AuthTokenScopeGlobal},
		{keySet.RecoveryAuthPublicKey, types.AuthTokenScopeRecovery},
	}
	for _, probe := range probes {
		if _, aErr := krs.auth.AuthenticateWithKey(ctx, env, probe.key, probe.scope); aErr != nil {
			if aErr.KeyInvalid() {
				return false, nil
			}
			return false, aErr
		}
	}
	return true, nil
}

// classifyRejectedKeys distinguishes "server still honors the old keys but
// rejected the new ones" (account locked, terminal) from a transient failure.
func (krs *KeyRotationService) classifyRejectedKeys(ctx context.Context, env types.F8eEnvironment, keybox *types.Keybox, req types.RotationRequest) types.RotationOutcome {
	oldValid, probeErr := krs.probeKeySet(ctx, env, keybox.ActiveKeySet)
	if probeErr != nil {
		return krs.unexpected(req, probeErr)
	}
	if !oldValid {
		return krs.unexpected(req, nil)
	}

	// terminal business condition: the account cannot rotate right now, and
	// nothing further can safely be retried from this device without the
	// user's explicit acknowledgment
	if cErr := krs.attempts.Clear(ctx); cErr != nil {
		return krs.unexpected(req, cErr)
	}
	metrics.RotationOutcomeTotal.WithLabelValues(types.RotationOutcomeAccountLocked.String()).Inc()
	retry := req.ResumeRequest()
	return types.RotationOutcome{Kind: types.RotationOutcomeAccountLocked, Retry: &retry}
}

// finalize persists the rotated keybox, re-endorses trusted contacts,
// uploads a best-effort backup and clears the attempt record. None of the
// sub-steps are atomic together; each is idempotent so a failed finalize is
// retried as Resume.
func (krs *KeyRotationService) finalize(ctx context.Context, env types.F8eEnvironment, keybox *types.Keybox, req types.RotationRequest) types.RotationOutcome {
	rotated := *keybox
	rotated.ActiveKeySet = req.KeySet
	if sErr := krs.keyboxService.Save(ctx, &rotated); sErr != nil {
		return krs.unexpected(req, sErr)
	}

	if eErr := krs.endorsement.ReendorseTrustedContacts(ctx, env, keybox.AccountID, req.KeySet.GlobalAuthPublicKey); eErr != nil {
		return krs.unexpected(req, eErr)
	}

	if bErr := krs.backup.CreateAndUpload(ctx, &rotated); bErr != nil {
		if !bErr.Ignorable {
			return krs.unexpected(req, bErr)
		}
		level.Warn(global.Logger).Log("msg", "ignorable backup failure during rotation finalize", "accountId", keybox.AccountID, "err", bErr.Error())
	}

	if cErr := krs.attempts.Clear(ctx); cErr != nil {
		return krs.unexpected(req, cErr)
	}
	metrics.RotationOutcomeTotal.WithLabelValues(types.RotationOutcomeSuccess.String()).Inc()
	return types.RotationOutcome{
		Kind: types.RotationOutcomeSuccess,
		Acknowledge: func() error {
			// already cleared; acknowledging again is a no-op
			return krs.attempts.Clear(context.Background())
		},
	}
}

func (krs *KeyRotationService) unexpected(req types.RotationRequest, err error) types.RotationOutcome {
	if err != nil {
		level.Warn(global.Logger).Log("msg", "rotation attempt hit a transient failure", "err", err.Error())
	}
	metrics.RotationOutcomeTotal.WithLabelValues(types.RotationOutcomeUnexpected.String()).Inc()
	retry := req
	return types.RotationOutcome{Kind: types.RotationOutcomeUnexpected, Retry: &retry}
}
