package services

import (
	"context"
	"testing"
	"time"

	"github.com/walletkit/go-wallet-auth/types"
)

var testEnv = types.F8eEnvironment{Name: "test", BaseURL: "http://localhost:8787"}

func receivePending(t *testing.T, ch <-chan *types.PendingAuthKeyRotationAttempt) *types.PendingAuthKeyRotationAttempt {
	t.Helper()
	select {
	case pending := <-ch:
		return pending
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a pending attempt emission")
	}
	return nil
}

func receiveState(t *testing.T, ch <-chan types.RotationAttemptState) types.RotationAttemptState {
	t.Helper()
	select {
	case state := <-ch:
		return state
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a state emission")
	}
	return types.RotationAttemptState{}
}

// fakeBackup records uploads and fails with a fixed error when configured.
type fakeBackup struct {
	calls int
	fail  *types.BackupError
}

func (f *fakeBackup) CreateAndUpload(ctx context.Context, keybox *types.Keybox) *types.BackupError {
	f.calls++
	return f.fail
}
