package sourceenv

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvSource_Load(t *testing.T) {
	tests := []struct {
		name     string
		opts     Options
		envVars  map[string]string
		expected map[string]any
	}{
		{
			name: "basic environment variables",
			opts: Options{Prefix: "TKLA_"},
			envVars: map[string]string{
				"TKLA_HOST": "localhost",
				"TKLA_PORT": "8080",
			},
			expected: map[string]any{
				"host": "localhost",
				"port": "8080",
			},
		},
		{
			name: "double underscore as level separator",
			opts: Options{Prefix: "TKLB_"},
			envVars: map[string]string{
				"TKLB_DATABASE__HOST": "db.example.com",
				"TKLB_DATABASE__PORT": "5432",
			},
			expected: map[string]any{
				"database": map[string]any{
					"host": "db.example.com",
					"port": "5432",
				},
			},
		},
		{
			name: "single underscore becomes hyphen",
			opts: Options{Prefix: "TKLC_"},
			envVars: map[string]string{
				"TKLC_DB_MAX_CONNECTIONS": "100",
				"TKLC_API__RATE_LIMIT":    "1000",
			},
			expected: map[string]any{
				"db-max-connections": "100",
				"api":                map[string]any{"rate-limit": "1000"},
			},
		},
		{
			name: "case-insensitive prefix",
			opts: Options{Prefix: "tkld_"},
			envVars: map[string]string{
				"TKLD_HOST": "example.com",
			},
			expected: map[string]any{
				"host": "example.com",
			},
		},
		{
			name: "case-sensitive prefix",
			opts: Options{Prefix: "tkle_", CaseSensitive: true},
			envVars: map[string]string{
				"TKLE_HOST": "ignored",
				"tkle_port": "9090",
			},
			expected: map[string]any{
				"port": "9090",
			},
		},
		{
			name: "prefix-only variable is skipped",
			opts: Options{Prefix: "TKLF_"},
			envVars: map[string]string{
				"TKLF_":     "skip",
				"TKLF_NAME": "svc",
			},
			expected: map[string]any{
				"name": "svc",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			root, err := New(tt.opts).Load(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.expected, root.Interface())
		})
	}
}

func TestEnvSource_KeysSorted(t *testing.T) {
	t.Setenv("TKLG_ZETA", "1")
	t.Setenv("TKLG_ALPHA", "2")
	t.Setenv("TKLG_MID__X", "3")

	root, err := New(Options{Prefix: "TKLG_"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zeta"}, root.Keys())
}

func TestEnvSource_ConflictSkipped(t *testing.T) {
	t.Setenv("TKLH_DB", "scalar")
	t.Setenv("TKLH_DB__HOST", "nested")

	root, err := New(Options{Prefix: "TKLH_"}).Load(context.Background())
	require.NoError(t, err)

	// "db" sorts first and wins; "db.host" cannot nest under a scalar
	assert.Equal(t, map[string]any{"db": "scalar"}, root.Interface())
}

func TestEnvSource_EmptyKeySegmentSkipped(t *testing.T) {
	t.Setenv("TKLI_A____B", "x")
	t.Setenv("TKLI_OK", "y")

	root, err := New(Options{Prefix: "TKLI_"}).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ok": "y"}, root.Interface())
}

func TestEnvSource_Name(t *testing.T) {
	assert.Equal(t, "env", New(Options{}).Name())
	assert.Equal(t, "env:APP_", New(Options{Prefix: "APP_"}).Name())
}
