package global

import (
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Conf global config
var Conf Config

const (
	ModeDevelopment = "development"
	ModeTest        = "test"
	ModeProduction  = "production"
)

type Config struct {
	Mode    string        `yaml:"mode" validate:"required,oneof=development test production"`
	F8e     F8eConfig     `yaml:"f8e" validate:"required"`
	Storage StorageConfig `yaml:"storage" validate:"required"`
	Backup  BackupConfig  `yaml:"backup"`
	Refresh RefreshConfig `yaml:"refresh"`
}

type F8eConfig struct {
	// environment name -> base url (e.g. production -> https://api.wallet.example)
	Environments map[string]string `yaml:"environments" validate:"required,min=1"`
}

type StorageConfig struct {
	Path       string `yaml:"path" validate:"required"`
	Passphrase string `yaml:"passphrase" validate:"required"`
}

type BackupConfig struct {
	Bucket     string `yaml:"bucket"`
	Region     string `yaml:"region"`
	Key        string `yaml:"key"`
	Secret     string `yaml:"secret"`
	Passphrase string `yaml:"passphrase"`
}

type RefreshConfig struct {
	// cron spec for the proactive token refresh, e.g. "@every 15m"
	Cron string `yaml:"cron"`
	// tokens whose exp claim is further away than this many minutes are not refreshed
	MinTokenTTLMinutes int `yaml:"minTokenTTLMinutes"`
}

// LoadConfig reads and validates the yaml configuration into Conf
func LoadConfig(path string) error {
	fileBytes, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var conf Config
	if uErr := yaml.Unmarshal(fileBytes, &conf); uErr != nil {
		return uErr
	}
	validate := validator.New()
	if vErr := validate.Struct(conf); vErr != nil {
		return vErr
	}
	Conf = conf
	return nil
}
