package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"agent-staffing/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "staffing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"STAFFING_SERVICE_RATE", "STAFFING_TARGET_PROBABILITY", "STAFFING_MAX_SERVERS",
		"STAFFING_CLOSED_HOURS", "STAFFING_WEEKDAY", "LOG_LEVEL", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load("")
	require.NoError(t, err)
	assert.Equal(t, 15.0, cfg.ServiceRate)
	assert.Equal(t, 0.5, cfg.TargetProbability)
	assert.Equal(t, 500, cfg.MaxServers)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, cfg.ClosedHours)
	assert.Equal(t, time.Minute, cfg.WrapUp())
	assert.Equal(t, "Wednesday", cfg.Weekday)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
service_rate: 12
target_probability: 0.2
max_servers: 300
closed_hours: [0, 1, 2]
hourly_load: [6.75, 1.75, 0, 97.25]
capacity: 40
wrap_up_seconds: 30
weekday: Monday
log:
  level: debug
  format: json
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 12.0, cfg.ServiceRate)
	assert.Equal(t, 0.2, cfg.TargetProbability)
	assert.Equal(t, 300, cfg.MaxServers)
	assert.Equal(t, []int{0, 1, 2}, cfg.ClosedHours)
	assert.Equal(t, []float64{6.75, 1.75, 0, 97.25}, cfg.HourlyLoad)
	assert.Equal(t, 40, cfg.Capacity)
	assert.Equal(t, 30*time.Second, cfg.WrapUp())
	assert.Equal(t, "Monday", cfg.Weekday)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "service_rate: 12\ntarget_probability: 0.2\n")

	t.Setenv("STAFFING_SERVICE_RATE", "20")
	t.Setenv("STAFFING_CLOSED_HOURS", "none")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20.0, cfg.ServiceRate)
	assert.Equal(t, 0.2, cfg.TargetProbability)
	assert.Empty(t, cfg.ClosedHours)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_Errors(t *testing.T) {
	tests := map[string]struct {
		body     string
		env      map[string]string
		contains string
	}{
		"SchemaTargetOutOfRange": {
			body:     "target_probability: 1.5\n",
			contains: "schema",
		},
		"SchemaNegativeLoad": {
			body:     "hourly_load: [1, -2]\n",
			contains: "schema",
		},
		"SchemaBadLogFormat": {
			body:     "log:\n  format: xml\n",
			contains: "schema",
		},
		"SchemaClosedHour": {
			body:     "closed_hours: [24]\n",
			contains: "schema",
		},
		"EnvNotANumber": {
			env:      map[string]string{"STAFFING_SERVICE_RATE": "fast"},
			contains: "STAFFING_SERVICE_RATE",
		},
		"EnvTargetOutOfRange": {
			env:      map[string]string{"STAFFING_TARGET_PROBABILITY": "0"},
			contains: "target probability",
		},
		"EnvUnknownWeekday": {
			env:      map[string]string{"STAFFING_WEEKDAY": "Caturday"},
			contains: "unknown weekday",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.body != "" {
				path = writeConfig(t, tt.body)
			}

			cfg, err := config.Load(path)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	clearEnv(t)
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseHours(t *testing.T) {
	hours, err := config.ParseHours("0, 1,2 ,23")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 23}, hours)

	hours, err = config.ParseHours("NONE")
	require.NoError(t, err)
	assert.Empty(t, hours)

	_, err = config.ParseHours("1,x")
	assert.Error(t, err)
}

func TestParseLoads(t *testing.T) {
	loads, err := config.ParseLoads("6.75, 0,97.25")
	require.NoError(t, err)
	assert.Equal(t, []float64{6.75, 0, 97.25}, loads)

	_, err = config.ParseLoads("1,,2")
	assert.Error(t, err)
}

func TestLoad_BundledConfig(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load(filepath.Join("..", "staffing.example.yaml"))
	require.NoError(t, err)
	assert.Len(t, cfg.HourlyLoad, 24)
	assert.Equal(t, 97.25, cfg.HourlyLoad[8])
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, cfg.ClosedHours)
}
