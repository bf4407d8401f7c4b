package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/walletkit/go-wallet-auth/types"
)

func TestBackupNotProvisionedIsIgnorable(t *testing.T) {
	service := NewS3BackupService(nil, "", "passphrase")

	bErr := service.CreateAndUpload(context.Background(), testKeybox())
	assert.NotNil(t, bErr)
	assert.True(t, bErr.Ignorable)
}

func TestBackupWithoutBucketIsIgnorable(t *testing.T) {
	service := NewS3BackupService(types.NewEnvironment(), "", "passphrase")

	bErr := service.CreateAndUpload(context.Background(), testKeybox())
	assert.NotNil(t, bErr)
	assert.True(t, bErr.Ignorable)
}
