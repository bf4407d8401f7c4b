package global

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "conf.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
mode: test
f8e:
  environments:
    production: https://api.wallet.example
    staging: https://api.staging.wallet.example
storage:
  path: /tmp/wallet-auth-store.bin
  passphrase: secret
refresh:
  cron: "@every 15m"
  minTokenTTLMinutes: 5
`)
	assert.NoError(t, LoadConfig(path))
	assert.Equal(t, ModeTest, Conf.Mode)
	assert.Equal(t, "https://api.wallet.example", Conf.F8e.Environments["production"])
	assert.Equal(t, 5, Conf.Refresh.MinTokenTTLMinutes)
}

func TestLoadConfigInvalidMode(t *testing.T) {
	path := writeConfig(t, `
mode: sandbox
f8e:
  environments:
    production: https://api.wallet.example
storage:
  path: /tmp/wallet-auth-store.bin
  passphrase: secret
`)
	assert.Error(t, LoadConfig(path))
}

func TestLoadConfigMissingStorage(t *testing.T) {
	path := writeConfig(t, `
mode: test
f8e:
  environments:
    production: https://api.wallet.example
`)
	assert.Error(t, LoadConfig(path))
}
