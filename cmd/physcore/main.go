package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/physcore/internal/analysis"
	"github.com/san-kum/physcore/internal/automation"
	"github.com/san-kum/physcore/internal/config"
	"github.com/san-kum/physcore/internal/export"
	"github.com/san-kum/physcore/internal/kinematics"
	"github.com/san-kum/physcore/internal/logging"
	"github.com/san-kum/physcore/internal/metrics"
	"github.com/san-kum/physcore/internal/sim"
	"github.com/san-kum/physcore/internal/storage"
	"github.com/san-kum/physcore/internal/tui"
	"github.com/san-kum/physcore/internal/vecmath"
	"github.com/san-kum/physcore/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	dataDir   string
	logLevel  string
	logFormat string

	preset   string
	dt       float64
	duration float64
	mass     float64
	force    []float64
	torque   []float64
	noSave   bool

	x0      float64
	v0      float64
	accel   float64
	atTime  float64
	samples int

	columns []string
	width   int
	height  int

	svgOut string
	plane  string

	phaseX   string
	phaseY   string
	crossCol string
	crossLvl float64

	sweepParam  string
	sweepValues []float64
	sweepMetric string
)

var logger = zap.NewNop()

func main() {
	rootCmd := &cobra.Command{
		Use:           "physcore",
		Short:         "rigid body and kinematics sandbox",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			l, err := logging.New(logLevel, logFormat)
			if err != nil {
				return err
			}
			logger = l
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// no subcommand opens the preset browser
			return tui.Run(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".physcore", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", logging.FormatConsole, "log format (console, json)")

	runCmd := &cobra.Command{
		Use:   "run [scenario.yaml]",
		Short: "run a rigid body scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().Float64Var(&mass, "mass", config.DefaultMass, "body mass")
	runCmd.Flags().Float64SliceVar(&force, "force", nil, "constant force fx,fy,fz")
	runCmd.Flags().Float64SliceVar(&torque, "torque", nil, "constant torque tx,ty,tz")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	kinCmd := &cobra.Command{
		Use:   "kinematics",
		Short: "evaluate constant-acceleration motion",
		Args:  cobra.NoArgs,
		RunE:  runKinematics,
	}
	kinCmd.Flags().StringVar(&preset, "preset", "", "take x0, v0 and a from a preset")
	kinCmd.Flags().Float64Var(&x0, "x0", 0, "initial position")
	kinCmd.Flags().Float64Var(&v0, "v0", 0, "initial velocity")
	kinCmd.Flags().Float64Var(&accel, "a", 0, "acceleration")
	kinCmd.Flags().Float64Var(&atTime, "t", 1, "time to evaluate at")
	kinCmd.Flags().IntVar(&samples, "samples", 0, "print a table of this many samples over [0, t]")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot stored trajectory columns",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&columns, "columns", []string{"px", "py", "pz"}, "columns to plot ("+strings.Join(storage.Columns, ",")+")")
	plotCmd.Flags().IntVar(&width, "width", 70, "plot width")
	plotCmd.Flags().IntVar(&height, "height", 10, "plot height")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as JSON, or its path as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgOut, "svg", "", "write the trajectory as SVG to this file instead")
	exportCmd.Flags().StringVar(&plane, "plane", "xz", "projection plane for --svg (xy, xz, yz)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset scenarios",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	liveCmd := &cobra.Command{
		Use:   "live [preset]",
		Short: "step a preset live in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}

	compareCmd := &cobra.Command{
		Use:   "compare [preset...]",
		Short: "run several presets concurrently and compare",
		RunE:  comparePresets,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "phase portrait, level crossings and kinematics comparison",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&phaseX, "x", "pz", "phase portrait x column")
	analyzeCmd.Flags().StringVar(&phaseY, "y", "vz", "phase portrait y column")
	analyzeCmd.Flags().StringVar(&crossCol, "column", "pz", "column for crossings and kinematics comparison")
	analyzeCmd.Flags().Float64Var(&crossLvl, "level", 0, "crossing level")
	analyzeCmd.Flags().Float64Var(&x0, "x0", 0, "reference initial position")
	analyzeCmd.Flags().Float64Var(&v0, "v0", 0, "reference initial velocity")
	analyzeCmd.Flags().Float64Var(&accel, "a", 0, "reference acceleration; comparison runs when any of x0, v0, a is set")

	sweepCmd := &cobra.Command{
		Use:   "sweep [sweep.yaml]",
		Short: "rerun a scenario across values of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "preset to vary")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "dt", "parameter to vary ("+strings.Join(automation.Params(), ", ")+")")
	sweepCmd.Flags().Float64SliceVar(&sweepValues, "values", nil, "values to try")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "energy_drift", "metric to rank by, lowest first")

	rootCmd.AddCommand(runCmd, kinCmd, listCmd, plotCmd, exportCmd, presetsCmd, liveCmd, compareCmd, analyzeCmd, sweepCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		_ = logger.Sync()
		os.Exit(1)
	}
	_ = logger.Sync()
}

func loadScenario(cmd *cobra.Command, args []string) (*config.Config, error) {
	var sc *config.Config
	switch {
	case len(args) == 1:
		c, err := config.Load(args[0])
		if err != nil {
			return nil, fmt.Errorf("failed to load scenario: %w", err)
		}
		sc = c
	case preset != "":
		sc = config.GetPreset(preset)
		if sc == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	default:
		sc = config.DefaultConfig()
	}

	// flags override the file or preset
	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("mass") {
		sc.Body.Mass = mass
	}
	if cmd.Flags().Changed("force") {
		v, err := vec3Flag("force", force)
		if err != nil {
			return nil, err
		}
		sc.Force = v
	}
	if cmd.Flags().Changed("torque") {
		v, err := vec3Flag("torque", torque)
		if err != nil {
			return nil, err
		}
		sc.Torque = v
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return sc, nil
}

func vec3Flag(name string, vals []float64) ([3]float64, error) {
	if len(vals) != 3 {
		return [3]float64{}, fmt.Errorf("--%s needs 3 components, got %d", name, len(vals))
	}
	return [3]float64{vals[0], vals[1], vals[2]}, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}

	rb, cfg, err := sim.FromScenario(sc)
	if err != nil {
		return err
	}
	s := sim.New(rb, logger.With(zap.String("scenario", sc.Name)))
	for _, m := range metrics.Defaults() {
		s.AddMetric(m)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("running %s...\n", sc.Name)
	start := time.Now()
	result, err := s.Run(ctx, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	final := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final position: %s\n", fmtVec(final.Position))
	fmt.Printf("final velocity: %s\n", fmtVec(final.Velocity))
	fmt.Printf("final angular velocity: %s\n", fmtVec(final.AngularVelocity))
	fmt.Printf("final orientation: (%.6g, %.6g, %.6g, %.6g)\n",
		final.Orientation.W, final.Orientation.V[0], final.Orientation.V[1], final.Orientation.V[2])
	fmt.Println("\nmetrics:")
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	if noSave {
		return nil
	}

	fp, err := sc.Fingerprint()
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Scenario:    sc.Name,
		Fingerprint: fp,
		Dt:          sc.Dt,
		Duration:    sc.Duration,
		Mass:        sc.Body.Mass,
	}, result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func runKinematics(cmd *cobra.Command, args []string) error {
	k := kinematics.New(x0, v0, accel)
	if preset != "" {
		sc := config.GetPreset(preset)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		k = sc.KinematicsModel()
		if !cmd.Flags().Changed("t") {
			atTime = sc.Kinematics.Duration
		}
		if !cmd.Flags().Changed("samples") {
			samples = sc.Kinematics.Samples
		}
	}

	fmt.Printf("x0=%g v0=%g a=%g\n", k.InitialPosition(), k.InitialVelocity(), k.Acceleration())
	fmt.Printf("displacement(%g) = %.6g\n", atTime, k.Displacement(atTime))
	fmt.Printf("velocity(%g) = %.6g\n", atTime, k.Velocity(atTime))

	if samples <= 0 {
		return nil
	}

	times, pos, vel := k.Sample(atTime, samples)
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tPOSITION\tVELOCITY")
	for i := range times {
		fmt.Fprintf(w, "%.4f\t%.6g\t%.6g\n", times[i], pos[i], vel[i])
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tDURATION\tDT\tMASS\tSTEPS")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%.4fs\t%g\t%d\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Mass,
			run.Steps,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(runID)
	if err != nil {
		return err
	}

	out, err := viz.PlotTrajectory(traj, columns, width, height)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s  (%s)", meta.ID, meta.Scenario)))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("dt=%g duration=%g mass=%g steps=%d", meta.Dt, meta.Duration, meta.Mass, meta.Steps)))
	fmt.Println()
	fmt.Print(out)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if svgOut == "" {
		return st.ExportJSON(os.Stdout, args[0])
	}

	if len(plane) != 2 || !strings.Contains("xyz", plane[:1]) || !strings.Contains("xyz", plane[1:]) || plane[0] == plane[1] {
		return fmt.Errorf("invalid plane %q (want xy, xz or yz)", plane)
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	f, err := os.Create(svgOut)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := export.TrajectorySVG(f, traj, "p"+plane[:1], "p"+plane[1:], export.DefaultSVGOptions()); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return f.Close()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDT\tDURATION\tMASS\tFORCE\tTORQUE\tGRAVITY")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%v\t%v\t%v\n",
			name, p.Dt, p.Duration, p.Body.Mass, p.Force, p.Torque, p.Gravity)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	sc := config.GetPreset(args[0])
	if sc == nil {
		return fmt.Errorf("unknown preset: %s (available: %v)", args[0], config.ListPresets())
	}

	model, err := viz.NewModel(sc, logger)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}

func comparePresets(cmd *cobra.Command, args []string) error {
	names := args
	if len(names) == 0 {
		names = config.ListPresets()
	}

	jobs := make([]sim.Job, 0, len(names))
	for _, name := range names {
		sc := config.GetPreset(name)
		if sc == nil {
			return fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
		}
		rb, cfg, err := sim.FromScenario(sc)
		if err != nil {
			return err
		}
		s := sim.New(rb, logger.With(zap.String("scenario", name)))
		for _, m := range metrics.Defaults() {
			s.AddMetric(m)
		}
		jobs = append(jobs, sim.Job{Name: name, Sim: s, Config: cfg})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	results, err := sim.Ensemble(ctx, jobs)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SCENARIO\tSTEPS\tFINAL POSITION\tMAX SPEED\tPATH\tENERGY DRIFT")
	for i, res := range results {
		fmt.Fprintf(w, "%s\t%d\t%s\t%.4g\t%.4g\t%.3e\n",
			jobs[i].Name,
			res.StepsTaken,
			fmtVec(res.Final().Position),
			res.Metrics["max_speed"],
			res.Metrics["path_length"],
			res.Metrics["energy_drift"],
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d scenarios in %v\n", len(results), time.Since(start))
	return nil
}

func fmtVec(v vecmath.Vector3) string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", v[0], v[1], v[2])
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runSweep(cmd *cobra.Command, args []string) error {
	sw := &automation.Sweep{Preset: preset, Param: sweepParam, Values: sweepValues, Metric: sweepMetric}
	if len(args) == 1 {
		loaded, err := automation.LoadSweep(args[0])
		if err != nil {
			return err
		}
		sw = loaded
		if sw.Metric == "" {
			sw.Metric = sweepMetric
		}
	}
	if sw.Scenario == "" && sw.Preset == "" {
		return fmt.Errorf("sweep needs a preset or a scenario file")
	}
	if len(sw.Values) == 0 {
		return fmt.Errorf("sweep needs --values")
	}

	base, err := sw.Base()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := automation.Run(ctx, base, sw.Param, sw.Values, metrics.Defaults, logger)
	if err != nil {
		return err
	}

	fmt.Printf("sweeping %s over %s (%d values)\n\n", sw.Param, base.Name, len(points))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tSTEPS\tFINAL POSITION\t%s\n", strings.ToUpper(sw.Param), strings.ToUpper(sw.Metric))
	for _, p := range points {
		if p.Err != nil {
			fmt.Fprintf(w, "%g\t-\t-\terror: %v\n", p.Value, p.Err)
			continue
		}
		fmt.Fprintf(w, "%g\t%d\t%s\t%.6g\n", p.Value, p.Steps, fmtVec(p.Final.Position), p.Metrics[sw.Metric])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := automation.Best(points, sw.Metric); ok {
		fmt.Printf("\nbest %s: %g (%s=%.6g)\n", sw.Param, best.Value, sw.Metric, best.Metrics[sw.Metric])
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	traj, err := storage.New(dataDir).LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	portrait, err := analysis.NewPhasePortrait(traj, phaseX, phaseY)
	if err != nil {
		return err
	}
	fmt.Println(viz.Title.Render(fmt.Sprintf("%s vs %s", phaseY, phaseX)))
	fmt.Print(portrait.ASCII(60, 20))

	crossings, err := analysis.Crossings(traj, crossCol, crossLvl)
	if err != nil {
		return err
	}
	fmt.Printf("\n%s crosses %g: ", crossCol, crossLvl)
	if len(crossings) == 0 {
		fmt.Println("never")
	} else {
		strs := make([]string, len(crossings))
		for i, c := range crossings {
			strs[i] = fmt.Sprintf("t=%.4f", c)
		}
		fmt.Println(strings.Join(strs, ", "))
	}

	flags := cmd.Flags()
	if !flags.Changed("x0") && !flags.Changed("v0") && !flags.Changed("a") {
		return nil
	}
	d, err := analysis.CompareKinematics(traj, crossCol, kinematics.New(x0, v0, accel))
	if err != nil {
		return err
	}
	fmt.Printf("\ndeviation from x0=%g v0=%g a=%g over %d samples:\n", x0, v0, accel, d.Samples)
	fmt.Printf("  max: %.6g at t=%.4f\n", d.MaxAbs, d.AtTime)
	fmt.Printf("  rms: %.6g\n", d.RMS)
	return nil
}
