package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"radio-go/internal/config"
)

func writeConfig(c *qt.C, body string) string {
	dir := c.TempDir()
	path := filepath.Join(dir, "config.yaml")
	err := os.WriteFile(path, []byte(body), 0o600)
	c.Assert(err, qt.IsNil)
	return path
}

func TestLoadConfigFromFile(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	path := writeConfig(c, `
server:
  port: 8088
  request_timeout: 3s
database:
  path: `+filepath.Join(dir, "data", "radio.db")+`
jwt:
  secret_key: test-secret
seed:
  accounts:
    - username: root
      password: rootpw
      roles: [admin]
`)

	cfg, err := config.LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Server.Port, qt.Equals, 8088)
	c.Assert(cfg.Server.Host, qt.Equals, "0.0.0.0")
	c.Assert(cfg.Server.RequestTimeout, qt.Equals, 3*time.Second)
	c.Assert(cfg.Database.MaxOpenConns, qt.Equals, 1)
	c.Assert(cfg.Auth.BcryptCost, qt.Equals, 10)
	c.Assert(cfg.Auth.AllowInactiveLogin, qt.IsFalse)
	c.Assert(cfg.JWT.Algorithm, qt.Equals, "HS256")
	c.Assert(cfg.Seed.Accounts, qt.HasLen, 1)
	c.Assert(cfg.Seed.Accounts[0].Roles, qt.DeepEquals, []string{"admin"})
	c.Assert(cfg.Redis.Enabled(), qt.IsFalse)

	// 数据库目录会被自动创建
	_, err = os.Stat(filepath.Join(dir, "data"))
	c.Assert(err, qt.IsNil)
}

func TestLoadConfigDefaultsSeedAccounts(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	path := writeConfig(c, `
database:
  path: `+filepath.Join(dir, "radio.db")+`
jwt:
  secret_key: test-secret
`)

	cfg, err := config.LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Seed.Accounts, qt.DeepEquals, config.DefaultSeedAccounts())
	c.Assert(cfg.Seed.UsesDefaultPasswords(), qt.IsTrue)
}

func TestLoadConfigEnvOverride(t *testing.T) {
	c := qt.New(t)

	dir := c.TempDir()
	path := writeConfig(c, `
database:
  path: `+filepath.Join(dir, "radio.db")+`
jwt:
  secret_key: from-file
`)
	c.Setenv("RADIO_JWT_SECRET_KEY", "from-env")
	c.Setenv("RADIO_AUTH_ALLOW_INACTIVE_LOGIN", "true")
	c.Setenv("RADIO_SERVER_PORT", "9000")

	cfg, err := config.LoadConfig(path)
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.JWT.SecretKey, qt.Equals, "from-env")
	c.Assert(cfg.Auth.AllowInactiveLogin, qt.IsTrue)
	c.Assert(cfg.Server.Port, qt.Equals, 9000)
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing jwt secret",
			body: "server:\n  port: 8080\n",
		},
		{
			name: "invalid port",
			body: "server:\n  port: 70000\njwt:\n  secret_key: s\n",
		},
		{
			name: "invalid bcrypt cost",
			body: "jwt:\n  secret_key: s\nauth:\n  bcrypt_cost: 99\n",
		},
		{
			name: "seed account without password",
			body: "jwt:\n  secret_key: s\nseed:\n  accounts:\n    - username: x\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := qt.New(t)
			dir := c.TempDir()
			path := writeConfig(c, tt.body+"database:\n  path: "+filepath.Join(dir, "radio.db")+"\n")

			_, err := config.LoadConfig(path)
			c.Assert(err, qt.ErrorMatches, "配置验证失败: .*")
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	c := qt.New(t)

	_, err := config.LoadConfig(filepath.Join(c.TempDir(), "nope.yaml"))
	c.Assert(err, qt.ErrorMatches, "读取配置文件失败: .*")
}
