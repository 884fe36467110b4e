package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"PORT", "ALLOWED_ORIGIN", "AWS_REGION", "STATE_BACKEND", "SQLITE_PATH",
	"S3_BUCKET", "ASSET_PREFIX", "BEDROCK_ENABLED", "BEDROCK_MODEL_ID",
	"LOG_LEVEL", "LOG_DEV", "SESSION_TTL", "CATALOG_PATH", "RATE_LIMIT", "RATE_WINDOW",
}

// clearEnv は関連する環境変数を空にし、テスト後に復元する
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		wantPort    string
		wantBackend string
		wantOrigins []string
		wantTTL     time.Duration
	}{
		{
			name: "すべての環境変数が設定されている",
			envVars: map[string]string{
				"PORT":           "9090",
				"ALLOWED_ORIGIN": "http://localhost:5173, https://valentine.example.com",
				"STATE_BACKEND":  "SQLite",
				"SQLITE_PATH":    "/tmp/state.db",
				"SESSION_TTL":    "10m",
			},
			wantPort:    "9090",
			wantBackend: BackendSQLite,
			wantOrigins: []string{"http://localhost:5173", "https://valentine.example.com"},
			wantTTL:     10 * time.Minute,
		},
		{
			name:        "デフォルト値が使用される",
			envVars:     map[string]string{},
			wantPort:    "8080",
			wantBackend: BackendMemory,
			wantOrigins: []string{"http://localhost:5173"},
			wantTTL:     30 * time.Minute,
		},
		{
			name: "PORTのみカスタム",
			envVars: map[string]string{
				"PORT": "3000",
			},
			wantPort:    "3000",
			wantBackend: BackendMemory,
			wantOrigins: []string{"http://localhost:5173"},
			wantTTL:     30 * time.Minute,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			cfg, err := LoadConfig(nil, "")

			require.NoError(t, err)
			assert.Equal(t, tt.wantPort, cfg.Port)
			assert.Equal(t, tt.wantBackend, cfg.StateBackend)
			assert.Equal(t, tt.wantOrigins, cfg.AllowedOrigins)
			assert.Equal(t, tt.wantTTL, cfg.SessionTTL)
			assert.Equal(t, "ap-northeast-1", cfg.AWSRegion)
		})
	}
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "valentine.yaml")
	content := "port: \"7000\"\nbedrock_enabled: true\nrate_limit: 5\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	t.Setenv("RATE_LIMIT", "9")

	cfg, err := LoadConfig(nil, path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.True(t, cfg.BedrockEnabled)
	// 環境変数がファイルより優先される
	assert.Equal(t, 9, cfg.RateLimit)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(nil, filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_PreparedViper(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "valentine.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nlog_level: debug\n"), 0o644))

	v := viper.New()
	SetDefaults(v)
	// フラグ相当の明示的な値はファイルより優先される
	v.Set("port", "7100")

	cfg, err := LoadConfig(v, path)

	require.NoError(t, err)
	assert.Equal(t, "7100", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Port:         "8080",
			StateBackend: BackendMemory,
			SessionTTL:   time.Minute,
			RateLimit:    10,
			RateWindow:   time.Minute,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:    "正常な設定",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "無効なポート番号",
			mutate:  func(c *Config) { c.Port = "invalid" },
			wantErr: true,
		},
		{
			name:    "空のポート番号",
			mutate:  func(c *Config) { c.Port = "" },
			wantErr: true,
		},
		{
			name:    "未知のバックエンド",
			mutate:  func(c *Config) { c.StateBackend = "redis" },
			wantErr: true,
		},
		{
			name:    "sqliteでパス未指定",
			mutate:  func(c *Config) { c.StateBackend = BackendSQLite },
			wantErr: true,
		},
		{
			name: "sqliteでパス指定あり",
			mutate: func(c *Config) {
				c.StateBackend = BackendSQLite
				c.SQLitePath = "state.db"
			},
			wantErr: false,
		},
		{
			name:    "TTLがゼロ",
			mutate:  func(c *Config) { c.SessionTTL = 0 },
			wantErr: true,
		},
		{
			name:    "レート制限がゼロ",
			mutate:  func(c *Config) { c.RateLimit = 0 },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
