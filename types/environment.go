package types

import (
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/robfig/cron/v3"
)

type Environment struct {
	Cron       *cron.Cron
	S3Client   *s3.Client
	S3Uploader *manager.Uploader
}

func NewEnvironment() *Environment {
	cr := cron.New()
	return &Environment{
		Cron: cr,
	}
}

func (e *Environment) AddS3Uploader(uploader *manager.Uploader) {
	e.S3Uploader = uploader
}
