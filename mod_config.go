package gpuparticles

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/gpuparticles/particlert/rt/core"
	"github.com/go-gl/mathgl/mgl32"
	"gopkg.in/yaml.v3"
)

const (
	defaultWindowWidth  = 640
	defaultWindowHeight = 780
	defaultWindowTitle  = "NoName"
)

// Backend names accepted by system.parallel_backend.
const (
	BackendDevice = "device"
	BackendHost   = "host"
	BackendOpenCL = "opencl"
)

type Config struct {
	Window    WindowConfig  `yaml:"window"`
	Render    RenderConfig  `yaml:"render"`
	Camera    CameraConfig  `yaml:"camera"`
	Particles core.Settings `yaml:"particles"`
	System    SystemConfig  `yaml:"system"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	Fullscreen bool   `yaml:"fullscreen"`
}

type RenderConfig struct {
	ClearColor mgl32.Vec4 `yaml:"clear_color,flow"`
}

type CameraConfig struct {
	Position    mgl32.Vec3 `yaml:"position,flow"`
	Yaw         float32    `yaml:"yaw"`
	Pitch       float32    `yaml:"pitch"`
	Fov         float32    `yaml:"fov"`
	Speed       float32    `yaml:"speed"`
	Sensitivity float32    `yaml:"sensitivity"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
}

type SystemConfig struct {
	// UseCPU selects the in-place host kernel and ignores ParallelBackend.
	UseCPU          bool   `yaml:"use_cpu"`
	ParallelBackend string `yaml:"parallel_backend"`
	// Workers below 1 mean one per CPU.
	Workers int    `yaml:"workers"`
	Seed    uint32 `yaml:"seed"`
	Verify  bool   `yaml:"verify"`
	Debug   bool   `yaml:"debug"`
}

func DefaultConfig() Config {
	cam := core.NewCameraState()
	return Config{
		Window: WindowConfig{
			Width:  defaultWindowWidth,
			Height: defaultWindowHeight,
			Title:  defaultWindowTitle,
		},
		Render: RenderConfig{ClearColor: mgl32.Vec4{0, 0, 0, 1}},
		Camera: CameraConfig{
			Position:    cam.Position,
			Yaw:         cam.Yaw,
			Pitch:       cam.Pitch,
			Fov:         cam.Fov,
			Speed:       cam.Speed,
			Sensitivity: cam.Sensitivity,
			Near:        cam.Near,
			Far:         cam.Far,
		},
		Particles: core.DefaultSettings(),
		System: SystemConfig{
			ParallelBackend: BackendDevice,
		},
	}
}

// ErrConfigNotFound is returned together with the defaults when the file
// does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// LoadConfig reads a YAML file over the defaults. Unknown keys are an error.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := decodeConfig(bytes.NewReader(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return cfg.validate()
}

func (c *Config) validate() error {
	switch c.System.ParallelBackend {
	case BackendDevice, BackendHost, BackendOpenCL:
	default:
		return fmt.Errorf("unknown parallel_backend %q", c.System.ParallelBackend)
	}
	if c.Particles.Count <= 0 {
		return fmt.Errorf("particles.count must be positive, got %d", c.Particles.Count)
	}
	if c.Particles.EmitAtOnce <= 0 {
		return fmt.Errorf("particles.emit_at_once must be positive, got %d", c.Particles.EmitAtOnce)
	}
	return nil
}

// BackendName is the kernel the system will run.
func (c *Config) BackendName() string {
	if c.System.UseCPU {
		return "cpu"
	}
	return c.System.ParallelBackend
}

func (c *Config) NewCamera() *core.CameraState {
	return &core.CameraState{
		Position:    c.Camera.Position,
		Yaw:         c.Camera.Yaw,
		Pitch:       c.Camera.Pitch,
		Fov:         c.Camera.Fov,
		Near:        c.Camera.Near,
		Far:         c.Camera.Far,
		Speed:       c.Camera.Speed,
		Sensitivity: c.Camera.Sensitivity,
	}
}

func (c *Config) ClearColor() wgpu.Color {
	cc := c.Render.ClearColor
	return wgpu.Color{R: float64(cc[0]), G: float64(cc[1]), B: float64(cc[2]), A: float64(cc[3])}
}

// ConfigModule loads Path and adds the result as a *Config resource. A
// missing file falls back to defaults with a warning; a malformed one stops
// startup.
type ConfigModule struct {
	Path   string
	Config *Config
}

func (m ConfigModule) Install(app *App, cmd *Commands) {
	if m.Config != nil {
		cmd.AddResources(m.Config)
		return
	}
	cfg, err := LoadConfig(m.Path)
	switch {
	case errors.Is(err, ErrConfigNotFound):
		app.Logger().Warnf("%v, using defaults", err)
	case err != nil:
		app.Logger().Errorf("%v", err)
		panic(err)
	}
	cmd.AddResources(&cfg)
}
