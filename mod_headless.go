package gpuparticles

// HeadlessModule stops the app after Ticks simulation ticks and logs slot
// statistics every ReportEvery ticks and at the end.
type HeadlessModule struct {
	Ticks       int
	ReportEvery int
}

// HeadlessRun tracks progress of a headless run.
type HeadlessRun struct {
	Ticks       int
	ReportEvery int
	Done        bool
}

func (m HeadlessModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&HeadlessRun{Ticks: m.Ticks, ReportEvery: m.ReportEvery})
	app.UseSystem(
		System(headlessReportSystem).
			InStage(PostUpdate).
			RunAlways(),
	)
}

func headlessReportSystem(run *HeadlessRun, ps *ParticleSystem, prof *Profiler, cmd *Commands) {
	if run.Done {
		return
	}
	tick := int(ps.Ticks())
	last := run.Ticks > 0 && tick >= run.Ticks
	if !last && (run.ReportEvery <= 0 || tick == 0 || tick%run.ReportEvery != 0) {
		return
	}

	logger := cmd.Logger()
	stats, err := ps.Stats()
	if err != nil {
		logger.Errorf("reading particle state: %v", err)
		run.Done = true
		cmd.Stop()
		return
	}
	logger.Infof("tick %d kernel=%s emitted=%d %s %s", tick, ps.KernelName(), ps.Scheduler.Emitted, stats, prof)
	prof.Reset()

	if last {
		run.Done = true
		cmd.Stop()
	}
}
