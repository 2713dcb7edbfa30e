package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colorfulnotion/x86jit/cpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jit.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
use_avx: 2
production: true
vendor: amd
features: [avx2, bmi2]
capacity: 4096
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.UseAVX)
	assert.True(t, cfg.Production)
	assert.Equal(t, "amd", cfg.Vendor)
	assert.Equal(t, 4096, cfg.Capacity)
	assert.Equal(t, "info", cfg.LogLevel, "defaults survive")

	q, err := cfg.Query()
	require.NoError(t, err)
	assert.Equal(t, cpu.VendorAMD, q.Vendor())
	assert.True(t, q.Supports(cpu.AVX))
	assert.True(t, q.Supports(cpu.BMI2))
	assert.False(t, q.Supports(cpu.AVX512F))
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("use_avx: 9\n"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "use_avx")
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvUseAVX, "1")
	t.Setenv(EnvProduction, "true")
	t.Setenv(EnvVendor, "intel")
	t.Setenv(EnvFeatures, "sse4.2, popcnt")
	t.Setenv(EnvCapacity, "128")

	cfg, err := FromEnv(Default())
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.UseAVX)
	assert.True(t, cfg.Production)
	assert.Equal(t, "intel", cfg.Vendor)
	assert.Equal(t, []string{"sse4.2", "popcnt"}, cfg.Features)
	assert.Equal(t, 128, cfg.Capacity)

	t.Setenv(EnvVendor, "cyrix")
	_, err = FromEnv(Default())
	assert.Error(t, err)
}

func TestQueryAll(t *testing.T) {
	cfg := Default()
	cfg.Features = []string{"all"}
	q, err := cfg.Query()
	require.NoError(t, err)
	for _, f := range cpu.AllFeatures() {
		assert.True(t, q.Supports(f), f.String())
	}
}

func TestQueryHostByDefault(t *testing.T) {
	q, err := Default().Query()
	require.NoError(t, err)
	assert.Equal(t, cpu.VendorUnknown, q.Vendor())
}
