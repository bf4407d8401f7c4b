package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3Types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/fxamacker/cbor/v2"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/types"
	"github.com/walletkit/go-wallet-auth/util"
)

// BackupUploader creates and uploads a cloud backup of the account's key
// bundle. Failures distinguish an ignorable subset the rotation finalizer
// logs and swallows.
type BackupUploader interface {
	CreateAndUpload(ctx context.Context, keybox *types.Keybox) *types.BackupError
}

// keybox snapshot serialized into the backup object
type backupDocument struct {
	Version  int          `cbor:"version"`
	Keybox   types.Keybox `cbor:"keybox"`
	Created  int64        `cbor:"created"`
	Uploader string       `cbor:"uploader"`
}

// S3BackupService uploads sealed keybox snapshots to S3.
type S3BackupService struct {
	env        *types.Environment
	bucket     string
	passphrase string
}

func NewS3BackupService(env *types.Environment, bucket string, passphrase string) *S3BackupService {
	return &S3BackupService{env: env, bucket: bucket, passphrase: passphrase}
}

func (bs *S3BackupService) CreateAndUpload(ctx context.Context, keybox *types.Keybox) *types.BackupError {
	// a device without provisioned backup storage is not an error condition
	if bs.env == nil || bs.env.S3Uploader == nil || bs.bucket == "" {
		metrics.BackupUploadTotal.WithLabelValues("not_provisioned").Inc()
		return types.NewIgnorableBackupError(errors.New("backup storage not provisioned"))
	}

	document := backupDocument{
		Version:  1,
		Keybox:   *keybox,
		Created:  time.Now().UTC().UnixMilli(),
		Uploader: "go-wallet-auth/1.0.0",
	}
	plain, mErr := cbor.Marshal(&document)
	if mErr != nil {
		return types.NewFatalBackupError(mErr)
	}
	sealed, sErr := util.SealWithPassphrase(bs.passphrase, plain)
	if sErr != nil {
		return types.NewFatalBackupError(sErr)
	}

	objectKey := fmt.Sprintf("backups/%s/keybox.bin", keybox.AccountID)
	_, uErr := bs.env.S3Uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bs.bucket),
		Key:    aws.String(objectKey),
		Body:   bytes.NewReader(sealed),
	})
	if uErr != nil {
		var noBucket *s3Types.NoSuchBucket
		var apiErr *smithy.GenericAPIError
		if errors.As(uErr, &noBucket) {
			// bucket not created yet; the backup worker provisions it later
			global.Logger.Log("warning", "backup bucket does not exist", "bucket", bs.bucket)
			metrics.BackupUploadTotal.WithLabelValues("ignored").Inc()
			return types.NewIgnorableBackupError(uErr)
		}
		if errors.As(uErr, &apiErr) && apiErr.ErrorCode() == "NoSuchBucket" {
			global.Logger.Log("warning", "backup bucket does not exist", "bucket", bs.bucket)
			metrics.BackupUploadTotal.WithLabelValues("ignored").Inc()
			return types.NewIgnorableBackupError(uErr)
		}
		global.Logger.Log("error", "failed to upload keybox backup", "objectKey", objectKey, "err", uErr.Error())
		metrics.BackupUploadTotal.WithLabelValues("failed").Inc()
		return types.NewFatalBackupError(uErr)
	}
	metrics.BackupUploadTotal.WithLabelValues("success").Inc()
	return nil
}
