package gpuparticles

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 780, cfg.Window.Height)
	assert.Equal(t, "NoName", cfg.Window.Title)
	assert.Equal(t, BackendDevice, cfg.System.ParallelBackend)
	assert.Equal(t, core.DefaultSettings(), cfg.Particles)
	assert.Equal(t, mgl32.Vec4{0, 0, 0, 1}, cfg.Render.ClearColor)
	assert.NoError(t, cfg.validate())
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: Fountain
particles:
  count: 5000
  emit_at_once: 250
  emitter_position: [1, 2, 3]
system:
  parallel_backend: host
  workers: 3
  seed: 42
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Fountain", cfg.Window.Title)
	assert.Equal(t, 640, cfg.Window.Width, "unset keys keep defaults")
	assert.Equal(t, 5000, cfg.Particles.Count)
	assert.Equal(t, 250, cfg.Particles.EmitAtOnce)
	assert.Equal(t, mgl32.Vec3{1, 2, 3}, cfg.Particles.EmitterPosition)
	assert.Equal(t, float32(0.1), cfg.Particles.Period)
	assert.Equal(t, BackendHost, cfg.System.ParallelBackend)
	assert.Equal(t, 3, cfg.System.Workers)
	assert.Equal(t, uint32(42), cfg.System.Seed)
}

func TestLoadConfigShippedFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join("config", "particles.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 100000, cfg.Particles.Count)
	assert.Equal(t, BackendDevice, cfg.BackendName())
}

func TestLoadConfigEmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, ErrConfigNotFound)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"unknown key", "particles:\n  colour: 1\n", "colour"},
		{"bad backend", "system:\n  parallel_backend: cuda\n", `unknown parallel_backend "cuda"`},
		{"zero count", "particles:\n  count: 0\n", "particles.count must be positive"},
		{"zero emit", "particles:\n  emit_at_once: 0\n", "particles.emit_at_once must be positive"},
		{"malformed", "window: [\n", "parsing config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadConfig(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.NotErrorIs(t, err, ErrConfigNotFound)
			assert.True(t, strings.Contains(err.Error(), tt.want), err.Error())
			assert.Equal(t, DefaultConfig(), cfg)
		})
	}
}

func TestConfigBackendName(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "device", cfg.BackendName())

	cfg.System.ParallelBackend = BackendOpenCL
	assert.Equal(t, "opencl", cfg.BackendName())

	cfg.System.UseCPU = true
	assert.Equal(t, "cpu", cfg.BackendName())
}

func TestConfigCameraAndClearColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Camera.Position = mgl32.Vec3{4, 5, 6}
	cfg.Camera.Fov = 60
	cfg.Render.ClearColor = mgl32.Vec4{0.25, 0.5, 0.75, 1}

	cam := cfg.NewCamera()
	assert.Equal(t, mgl32.Vec3{4, 5, 6}, cam.Position)
	assert.Equal(t, float32(60), cam.Fov)
	assert.Equal(t, cfg.Camera.Near, cam.Near)

	assert.Equal(t, wgpu.Color{R: 0.25, G: 0.5, B: 0.75, A: 1}, cfg.ClearColor())
}

func TestConfigModule(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Window.Title = "given"
	app := NewAppBuilder().UseModule(ConfigModule{Config: &cfg}).Build()

	got, ok := Resource[Config](app)
	require.True(t, ok)
	assert.Same(t, &cfg, got)

	app = NewAppBuilder().UseModule(ConfigModule{Path: filepath.Join(t.TempDir(), "missing.yaml")}).Build()
	got, ok = Resource[Config](app)
	require.True(t, ok)
	assert.Equal(t, DefaultConfig(), *got)

	bad := writeConfig(t, "system:\n  parallel_backend: cuda\n")
	assert.Panics(t, func() {
		NewAppBuilder().UseModule(ConfigModule{Path: bad}).Build()
	})
}
