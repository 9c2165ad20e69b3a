package client

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "client.yaml")
	contents := "callsign: N0CALL\npasscode: \"13023\"\nmode: igate\nhost: rotate.aprs2.net\nport: 14580\nfilter: \"r/42.0/-71.0/50\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "N0CALL", cfg.Callsign)
	assert.Equal(t, "13023", cfg.Passcode)
	assert.Equal(t, IGate, cfg.Mode)
	assert.Equal(t, "rotate.aprs2.net", cfg.Host)
	assert.Equal(t, 14580, cfg.Port)
	assert.Equal(t, 5, cfg.RetryTimes, "unset field keeps its default")
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig("/nonexistent/client.yaml")
	assert.Error(t, err)
}

func TestConfigFromArgs(t *testing.T) {
	cfg, err := ConfigFromArgs("tncd", []string{
		"--callsign=N0CALL",
		"--mode=igate",
		"--host=rotate.aprs2.net",
		"--port=14580",
		"--filter=r/42.0/-71.0/50",
	})
	require.NoError(t, err)

	assert.Equal(t, "N0CALL", cfg.Callsign)
	assert.Equal(t, Mode("igate"), cfg.Mode)
	assert.Equal(t, "rotate.aprs2.net", cfg.Host)
	assert.Equal(t, 14580, cfg.Port)
	assert.Equal(t, "r/42.0/-71.0/50", cfg.Filter)
}

func TestConfigNewClientAppliesFields(t *testing.T) {
	cfg := &Config{
		Callsign:   "N0CALL",
		Mode:       Fullfeed,
		Protocol:   TCP,
		Host:       "rotate.aprs2.net",
		Port:       14580,
		Filter:     "r/42.0/-71.0/50",
		RetryTimes: 3,
	}

	c := cfg.NewClient()
	assert.Equal(t, "N0CALL", c.Callsign())
	assert.Equal(t, "r/42.0/-71.0/50", c.Filter())
}
