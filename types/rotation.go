package types

// RotationAttemptKind is the persisted state of an in-progress auth key
// rotation. At most one non-NoAttempt record exists per account; a
// KeysWritten record replaces any prior ProposalWritten record.
type RotationAttemptKind int

const (
	RotationNoAttempt RotationAttemptKind = iota
	// a rotation has been recommended but no keys generated yet
	RotationProposalWritten
	// new keys were generated and durably recorded; the rotation may or may
	// not have reached the server
	RotationKeysWritten
)

// RotationAttemptState is the single durable row the rotation protocol is
// resumed from after a process restart. In-memory state is never trusted as
// authoritative.
type RotationAttemptState struct {
	Kind   RotationAttemptKind `json:"kind"`
	KeySet *AuthKeySet         `json:"keySet,omitempty"`
}

func (s RotationAttemptState) Equal(other RotationAttemptState) bool {
	if s.Kind != other.Kind {
		return false
	}
	if s.KeySet == nil || other.KeySet == nil {
		return s.KeySet == other.KeySet
	}
	return s.KeySet.Equal(*other.KeySet)
}

// PendingAttemptKind is the derived, read-only view of a rotation attempt
// for external observers.
type PendingAttemptKind int

const (
	PendingProposedAttempt PendingAttemptKind = iota
	PendingIncompleteAttempt
)

type PendingAuthKeyRotationAttempt struct {
	Kind   PendingAttemptKind `json:"kind"`
	KeySet *AuthKeySet        `json:"keySet,omitempty"`
}

func (p *PendingAuthKeyRotationAttempt) Equal(other *PendingAuthKeyRotationAttempt) bool {
	if p == nil || other == nil {
		return p == other
	}
	if p.Kind != other.Kind {
		return false
	}
	if p.KeySet == nil || other.KeySet == nil {
		return p.KeySet == other.KeySet
	}
	return p.KeySet.Equal(*other.KeySet)
}

// Pending derives the external view of the attempt state; nil when there is
// no attempt in progress.
func (s RotationAttemptState) Pending() *PendingAuthKeyRotationAttempt {
	switch s.Kind {
	case RotationProposalWritten:
		return &PendingAuthKeyRotationAttempt{Kind: PendingProposedAttempt}
	case RotationKeysWritten:
		return &PendingAuthKeyRotationAttempt{Kind: PendingIncompleteAttempt, KeySet: s.KeySet}
	default:
		return nil
	}
}

// RotationRequestKind distinguishes a fresh rotation from the resumption of
// a durably recorded one.
type RotationRequestKind int

const (
	RotationStart RotationRequestKind = iota
	RotationResume
)

// RotationRequest drives the rotation coordinator. Start carries the freshly
// generated key set together with the hardware proof of possession; Resume
// carries the key set read back from the durable attempt record.
type RotationRequest struct {
	Kind RotationRequestKind `json:"kind"`

	KeySet AuthKeySet `json:"keySet" validate:"required"`

	// Start only: signature proving control of the hardware key, and the
	// account id signed by the hardware key
	HardwareProofOfPossession string `json:"hardwareProofOfPossession,omitempty"`
	HardwareSignedAccountID   string `json:"hardwareSignedAccountId,omitempty"`
}

// ResumeRequest converts any request into the Resume that retries the same
// key set.
func (r RotationRequest) ResumeRequest() RotationRequest {
	return RotationRequest{Kind: RotationResume, KeySet: r.KeySet}
}

// RotationOutcomeKind is the terminal classification of one coordinator run.
type RotationOutcomeKind int

const (
	// the new keys are live and finalization completed
	RotationOutcomeSuccess RotationOutcomeKind = iota
	// the rotation is considered resolved even though this attempt failed
	RotationOutcomeAcceptable
	// transient failure; retry with the same request
	RotationOutcomeUnexpected
	// both new and old keys were rejected by the server for active use; a
	// terminal business condition, not a bug
	RotationOutcomeAccountLocked
)

func (k RotationOutcomeKind) String() string {
	switch k {
	case RotationOutcomeSuccess:
		return "success"
	case RotationOutcomeAcceptable:
		return "acceptable"
	case RotationOutcomeUnexpected:
		return "unexpected"
	case RotationOutcomeAccountLocked:
		return "account_locked"
	default:
		return "unknown"
	}
}

// RotationOutcome is the tagged result of StartOrResumeAuthKeyRotation.
// Success and Acceptable carry an Acknowledge callback the caller must invoke
// once the outcome was consumed; Unexpected and AccountLocked carry the
// request to retry with.
type RotationOutcome struct {
	Kind        RotationOutcomeKind
	Acknowledge func() error
	Retry       *RotationRequest
}
