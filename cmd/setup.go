package main

import (
	"context"
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/walletkit/go-wallet-auth/f8e"
	"github.com/walletkit/go-wallet-auth/global"
	"github.com/walletkit/go-wallet-auth/metrics"
	"github.com/walletkit/go-wallet-auth/repository"
	"github.com/walletkit/go-wallet-auth/services"
	"github.com/walletkit/go-wallet-auth/types"
)

// application wires the full service graph from the loaded configuration
type application struct {
	env        *types.Environment
	signer     *services.KeyringSigner
	store      repository.Store
	auth       *services.AuthService
	tokenStore *services.TokenStoreService
	lifecycle  *services.TokenLifecycleService
	keybox     *services.KeyboxService
	rotation   *services.KeyRotationService
	status     *types.AuthSignatureStatusHandle
}

func buildApplication() (*application, error) {
	if err := global.LoadConfig(configFile); err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", configFile, err)
	}
	metrics.InitMetrics()

	env := types.NewEnvironment()
	if global.Conf.Backup.Bucket != "" {
		configS3Storage(&global.Conf, env)
	}

	store, sErr := repository.NewSecureFileStore(global.Conf.Storage.Path, global.Conf.Storage.Passphrase)
	if sErr != nil {
		return nil, sErr
	}

	signer := services.NewKeyringSigner()
	f8eClient := f8e.NewClient(false)
	status := types.NewAuthSignatureStatusHandle()

	auth := services.NewAuthService(f8eClient, signer)
	tokenStore := services.NewTokenStoreService(store)
	keybox := services.NewKeyboxService(store)
	lifecycle := services.NewTokenLifecycleService(tokenStore, auth, f8eClient, keybox, status, global.Conf.Mode)
	attempts := services.NewRotationAttemptStore(store)
	endorsement := services.NewEndorsementService(f8eClient, signer)
	backup := services.NewS3BackupService(env, global.Conf.Backup.Bucket, global.Conf.Backup.Passphrase)
	rotation := services.NewKeyRotationService(attempts, auth, f8eClient, keybox, endorsement, backup)

	return &application{
		env:        env,
		signer:     signer,
		store:      store,
		auth:       auth,
		tokenStore: tokenStore,
		lifecycle:  lifecycle,
		keybox:     keybox,
		rotation:   rotation,
		status:     status,
	}, nil
}

func configS3Storage(conf *global.Config, env *types.Environment) {
	creds := aws.NewCredentialsCache(credentials.NewStaticCredentialsProvider(conf.Backup.Key, conf.Backup.Secret, ""))
	awsConf, err := config.LoadDefaultConfig(context.TODO(), config.WithCredentialsProvider(creds), config.WithRegion(conf.Backup.Region))
	if err != nil {
		panic(err)
	}
	s3Client := s3.NewFromConfig(awsConf)
	env.S3Client = s3Client
	env.AddS3Uploader(manager.NewUploader(s3Client))
}

func resolveEnvironment(name string) (types.F8eEnvironment, error) {
	baseURL, ok := global.Conf.F8e.Environments[name]
	if !ok {
		return types.F8eEnvironment{}, fmt.Errorf("unknown f8e environment: %s", name)
	}
	return types.F8eEnvironment{Name: name, BaseURL: baseURL}, nil
}

type keyFile struct {
	Type       string `json:"type"`
	PublicKey  string `json:"publicKey"`
	PrivateKey string `json:"privateKey"`
}

// loadSigningKey reads a key file produced by the keys command and registers
// the private key with the signer; returns the base64 public key.
func loadSigningKey(app *application, path string) (string, error) {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var kf keyFile
	if uErr := json.Unmarshal(fileBytes, &kf); uErr != nil {
		return "", uErr
	}
	privateKeyBytes, dErr := base64.StdEncoding.DecodeString(kf.PrivateKey)
	if dErr != nil {
		return "", dErr
	}
	if len(privateKeyBytes) != ed25519.PrivateKeySize {
		return "", types.ErrBadRequest
	}
	return app.signer.AddKey(ed25519.PrivateKey(privateKeyBytes)), nil
}
