package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	gpuparticles "github.com/gekko3d/gpuparticles"
)

var (
	configFlag   = flag.String("config", "config/particles.yaml", "path to the YAML configuration")
	headlessFlag = flag.Bool("headless", false, "simulate without a window and log slot statistics")
	ticksFlag    = flag.Int("ticks", 600, "number of ticks to simulate in headless mode")
	dtFlag       = flag.Float64("dt", 1.0/60.0, "fixed tick length in seconds for headless mode")
	reportFlag   = flag.Int("report-every", 60, "headless statistics interval in ticks (0 = only at the end)")
	backendFlag  = flag.String("backend", "", "override system.parallel_backend (device, host, opencl)")
	cpuFlag      = flag.Bool("cpu", false, "force the sequential host kernel")
	verifyFlag   = flag.Bool("verify", false, "compare every tick against the host stream kernel")
	debugFlag    = flag.Bool("debug", false, "enable debug logging")
)

func main() {
	flag.Parse()

	logger := gpuparticles.NewDefaultLogger("gpuparticles", *debugFlag)

	cfg, err := gpuparticles.LoadConfig(*configFlag)
	if err != nil {
		if !isNotFound(err) {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		logger.Warnf("%v, using defaults", err)
	}
	if *backendFlag != "" {
		cfg.System.ParallelBackend = *backendFlag
	}
	if *cpuFlag {
		cfg.System.UseCPU = true
	}
	if *verifyFlag {
		cfg.System.Verify = true
	}
	if cfg.System.Debug {
		logger.SetDebug(true)
	}

	builder := gpuparticles.NewAppBuilder().
		UseStates(gpuparticles.StateRunning, gpuparticles.StateStopped)

	if *headlessFlag {
		if *ticksFlag <= 0 || *dtFlag <= 0 {
			fmt.Fprintln(os.Stderr, "headless mode needs -ticks > 0 and -dt > 0")
			os.Exit(2)
		}
		builder.UseModule(
			gpuparticles.LoggingModule{Logger: logger},
			gpuparticles.ConfigModule{Config: &cfg},
			gpuparticles.TimeModule{FixedDt: time.Duration(*dtFlag * float64(time.Second))},
			gpuparticles.GpuModule{Headless: true},
			gpuparticles.ParticlesModule{Headless: true},
			gpuparticles.HeadlessModule{Ticks: *ticksFlag, ReportEvery: *reportFlag},
		)
	} else {
		builder.UseModule(
			gpuparticles.LoggingModule{Logger: logger},
			gpuparticles.ConfigModule{Config: &cfg},
			gpuparticles.TimeModule{},
			gpuparticles.NewPlatformWindow(cfg.Window),
			gpuparticles.InputModule{},
			gpuparticles.GpuModule{},
			gpuparticles.CameraModule{},
			gpuparticles.ParticlesModule{},
		)
	}

	builder.Build().Run()
}

func isNotFound(err error) bool {
	return errors.Is(err, gpuparticles.ErrConfigNotFound)
}
