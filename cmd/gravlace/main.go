package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/gravlace/internal/analysis"
	"github.com/san-kum/gravlace/internal/config"
	"github.com/san-kum/gravlace/internal/driver"
	"github.com/san-kum/gravlace/internal/experiment"
	"github.com/san-kum/gravlace/internal/gravity"
	"github.com/san-kum/gravlace/internal/logging"
	"github.com/san-kum/gravlace/internal/metrics"
	"github.com/san-kum/gravlace/internal/orbit"
	"github.com/san-kum/gravlace/internal/storage"
	"github.com/san-kum/gravlace/internal/viz"
	"github.com/san-kum/gravlace/internal/vmath"
)

const defaultPreset = "earth-moon"

var (
	dataDir    string
	configFile string

	traceFile string
	noSave    bool

	outFile   string
	bodyName  string
	otherBody string
	axis      int

	sweep     []int
	reference int

	benchBodies []int
	benchTicks  int
	benchSeed   int64

	v = config.NewViper()
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "gravlace",
		Short: "newtonian n-body gravity simulator",
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.Run(viz.NewPicker())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".gravlace", "data directory")
	pf.StringVar(&configFile, "config", "", "YAML config file (overrides the preset argument)")
	pf.String("log-level", "", "trace, debug, info, warn or error")
	pf.Float64("g", 0, "gravitational constant")
	pf.Int("substeps", 0, "integrator substeps per tick")
	pf.Int("workers", 0, "force pass workers")
	pf.Float64("mass-epsilon", 0, "attractor mass threshold")
	pf.Float64("host-dt", 0, "host seconds per tick")
	pf.Int("ticks", 0, "ticks to run")
	pf.Int("record-every", 0, "record every Nth frame")
	bindFlags(v, pf)

	runCmd := &cobra.Command{
		Use:   "run [preset]",
		Short: "run a simulation and save its trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().StringVar(&traceFile, "trace", "", "stream every tick as JSON lines to this file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&axis, "axis", 0, "position component to plot (0=x, 1=y, 2=z)")
	plotCmd.Flags().StringVar(&bodyName, "body", "", "plot the separation of this body from --other")
	plotCmd.Flags().StringVar(&otherBody, "other", "", "second body for --body")
	plotCmd.Flags().StringVar(&outFile, "svg", "", "also draw the x-y orbits to this SVG file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a saved run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "spectral period and summary of a body's motion",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&bodyName, "body", "", "body to analyze")
	analyzeCmd.Flags().StringVar(&otherBody, "other", "", "analyze the separation from this body instead of a coordinate")
	analyzeCmd.Flags().IntVar(&axis, "axis", 0, "position component (0=x, 1=y, 2=z)")
	_ = analyzeCmd.MarkFlagRequired("body")

	inspectCmd := &cobra.Command{
		Use:   "inspect [preset]",
		Short: "step a simulation live in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspect,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets [name]",
		Short: "list presets, or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE:  showPresets,
	}

	convergeCmd := &cobra.Command{
		Use:   "converge [preset]",
		Short: "compare final positions across substep counts",
		Args:  cobra.MaximumNArgs(1),
		RunE:  converge,
	}
	convergeCmd.Flags().IntSliceVar(&sweep, "sweep", []int{1, 2, 4, 8, 16}, "substep counts to try")
	convergeCmd.Flags().IntVar(&reference, "reference", 256, "substep count of the reference run")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time the force pass on random clusters",
		RunE:  bench,
	}
	benchCmd.Flags().IntSliceVar(&benchBodies, "bodies", []int{16, 64, 256, 1024}, "cluster sizes")
	benchCmd.Flags().IntVar(&benchTicks, "bench-ticks", 20, "ticks per cluster")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "cluster seed")

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, analyzeCmd, inspectCmd, presetsCmd, convergeCmd, benchCmd)
	return rootCmd
}

// bindFlags maps the override flags onto their viper keys so that a flag
// wins over GRAVLACE_* and both win over the preset or file.
func bindFlags(v *viper.Viper, fs *pflag.FlagSet) {
	for key, flag := range map[string]string{
		config.KeyG:           "g",
		config.KeySubsteps:    "substeps",
		config.KeyWorkers:     "workers",
		config.KeyMassEpsilon: "mass-epsilon",
		config.KeyHostDt:      "host-dt",
		config.KeyTicks:       "ticks",
		config.KeyRecordEvery: "record-every",
		config.KeyLogLevel:    "log-level",
	} {
		_ = v.BindPFlag(key, fs.Lookup(flag))
	}
}

// resolveConfig picks --config, else the named preset, else the default
// preset, and applies environment and flag overrides.
func resolveConfig(args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		name := defaultPreset
		if len(args) > 0 {
			name = args[0]
		}
		cfg = config.GetPreset(name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", name, strings.Join(config.ListPresets(), ", "))
		}
	}

	config.Overlay(cfg, v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	if level == "" {
		level = v.GetString(config.KeyLogLevel)
	}
	if level == "" {
		level = config.DefaultLogLevel
	}
	return logging.NewLogger(level, os.Stderr)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	d, err := cfg.Build(logger)
	if err != nil {
		return err
	}
	pairs := addMetrics(d, cfg)

	var trace *storage.FrameLog
	if traceFile != "" {
		f, err := os.Create(traceFile)
		if err != nil {
			return err
		}
		defer f.Close()
		trace = storage.NewFrameLog(f)
		d.AddObserver(trace)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	result, runErr := d.Run(ctx, cfg.RunConfig())
	if result == nil {
		return runErr
	}
	if runErr != nil {
		logger.Warn("run stopped early", "err", runErr, "ticks", result.TicksTaken)
	}
	if trace != nil && trace.Err() != nil {
		logger.Error("trace incomplete", "file", traceFile, "frames", trace.Written(), "err", trace.Err())
	}

	fmt.Printf("%s: %d bodies, %d/%d ticks, %s simulated in %s\n",
		cfg.Name, len(result.Names), result.TicksTaken, cfg.Run.Ticks,
		formatSimTime(result.SimTime, cfg.Physics.G), time.Since(start).Round(time.Millisecond))
	fmt.Printf("  energy drift    %.3e\n", result.EnergyDrift)
	fmt.Printf("  momentum drift  %.3e\n", result.MomentumDrift)
	for _, name := range sortedKeys(result.Metrics) {
		fmt.Printf("  %-15s %.6g\n", name, result.Metrics[name])
	}
	if n := len(result.Frames); n > 0 {
		printOrbits(os.Stdout, cfg, pairs, result.Frames[n-1])
	}

	if !noSave {
		st := storage.New(dataDir)
		id, err := st.Save(storage.RunMetadata{
			Name:     cfg.Name,
			G:        cfg.Physics.G,
			Substeps: cfg.Physics.Substeps,
			HostDt:   cfg.Run.HostDt,
			SimDt:    cfg.SpaceScale().SimDelta(cfg.Run.HostDt),
			Ticks:    cfg.Run.Ticks,
		}, result)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", id)
	}
	return runErr
}

type orbitPair struct {
	parent, body string
	sep          *metrics.Separation
}

// addMetrics registers the drift maxima, each orbit pair's separation and an
// escape check at ten times the starting extent of the system.
func addMetrics(d *driver.Driver, cfg *config.Config) []orbitPair {
	d.AddMetric(metrics.NewEnergyDrift(cfg.Physics.G))
	d.AddMetric(metrics.NewMomentumDrift())

	var pairs []orbitPair
	for _, b := range cfg.Bodies {
		if b.Orbit != "" {
			p := orbitPair{parent: b.Orbit, body: b.Name, sep: metrics.NewSeparation(b.Orbit, b.Name)}
			d.AddMetric(p.sep)
			pairs = append(pairs, p)
		}
	}

	bodies := d.Frame().Gravity()
	com := gravity.CenterOfMass(bodies)
	extent := 0.0
	for _, b := range bodies {
		extent = math.Max(extent, b.Position.Distance(com))
	}
	if extent > 0 {
		d.AddMetric(metrics.NewBoundedness(10 * extent))
	}
	return pairs
}

// printOrbits reports each pair's sampled separation and the osculating
// elements of its relative state in the last frame.
func printOrbits(w io.Writer, cfg *config.Config, pairs []orbitPair, last driver.Frame) {
	unit := cfg.Params().DistanceUnit()
	g := cfg.Physics.G
	for _, p := range pairs {
		parent, ok := last.Body(p.parent)
		body, ok2 := last.Body(p.body)
		if !ok || !ok2 {
			continue
		}

		st := p.sep.Stats()
		fmt.Fprintf(w, "  %s about %s\n", p.body, p.parent)
		fmt.Fprintf(w, "    separation  %s .. %s (e ~ %.4f)\n",
			formatLength(st.Min, unit), formatLength(st.Max, unit), st.Eccentricity())

		mu := g * (parent.Mass + body.Mass)
		el := orbit.FromCartesian(orbit.State{
			Position: body.Position.Sub(parent.Position),
			Velocity: body.Velocity.Sub(parent.Velocity),
		}, mu)
		if el.SemiMajorAxis <= 0 || el.Eccentricity >= 1 {
			fmt.Fprintln(w, "    unbound")
			continue
		}
		period := el.Period(mu)
		fmt.Fprintf(w, "    a %s  e %.4f  i %.2f deg\n", formatLength(el.SemiMajorAxis, unit), el.Eccentricity, el.Inclination*vmath.Rad2Deg)
		fmt.Fprintf(w, "    periapsis %s  apoapsis %s\n", formatLength(el.PeriapsisDistance(), unit), formatLength(el.ApoapsisDistance(), unit))
		fmt.Fprintf(w, "    period %s (%.2f s on screen)\n", formatSimTime(period, g), cfg.SpaceScale().HostDelta(period))
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tBODIES\tTICKS\tSIM TIME\tENERGY DRIFT\tTIMESTAMP")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%.2e\t%s\n",
			r.ID, r.Name, len(r.Bodies), r.TicksTaken, formatSimTime(r.SimTime, r.G), r.EnergyDrift,
			r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	theme := viz.Themes[0]
	unit := gravity.Params{G: meta.G}.DistanceUnit()

	if outFile != "" {
		if err := writeOrbitsSVG(outFile, traj); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", outFile)
	}

	if bodyName != "" {
		if otherBody == "" {
			return errors.New("--body needs --other")
		}
		sep, err := traj.Separation(bodyName, otherBody)
		if err != nil {
			return err
		}
		fmt.Println(viz.Plot([]viz.Series{{Name: bodyName + "-" + otherBody, Values: sep}}, 80, 12,
			fmt.Sprintf("%s: separation%s", meta.ID, unitSuffix(unit)), theme))
		return nil
	}

	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis %d out of range", axis)
	}
	series := make([]viz.Series, 0, len(traj.Names))
	for _, name := range traj.Names {
		values, err := traj.Component(name, axis)
		if err != nil {
			return err
		}
		series = append(series, viz.Series{Name: name, Values: values})
	}
	fmt.Println(viz.Plot(series, 80, 12, fmt.Sprintf("%s: %c position%s", meta.ID, "xyz"[axis], unitSuffix(unit)), theme))
	return nil
}

func writeOrbitsSVG(path string, traj *storage.Trajectory) error {
	paths := make([]viz.Path, 0, len(traj.Names))
	for _, name := range traj.Names {
		x, err := traj.Component(name, 0)
		if err != nil {
			return err
		}
		y, err := traj.Component(name, 1)
		if err != nil {
			return err
		}
		paths = append(paths, viz.Path{Name: name, X: x, Y: y})
	}
	return os.WriteFile(path, []byte(viz.OrbitsSVG(paths, 800, 800)), 0644)
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if outFile != "" {
		f, err := os.Create(outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	return storage.ExportJSON(w, meta, traj)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	traj, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	if axis < 0 || axis > 2 {
		return fmt.Errorf("axis %d out of range", axis)
	}

	var (
		samples []float64
		label   string
	)
	if otherBody != "" {
		samples, err = traj.Separation(bodyName, otherBody)
		label = bodyName + "-" + otherBody + " separation"
	} else {
		samples, err = traj.Component(bodyName, axis)
		label = fmt.Sprintf("%s %c", bodyName, "xyz"[axis])
	}
	if err != nil {
		return err
	}

	n := uniformPrefix(traj.Times)
	if n < 2 {
		return fmt.Errorf("run %s has too few frames", args[0])
	}
	samples = samples[:n]
	interval := traj.Times[1] - traj.Times[0]

	stats := analysis.Summary(samples)
	fmt.Printf("%s over %d samples (%s apart)\n", label, stats.N, formatSimTime(interval, meta.G))
	fmt.Printf("  mean    %.6e\n", stats.Mean)
	fmt.Printf("  stddev  %.6e\n", stats.StdDev)
	fmt.Printf("  range   %.6e .. %.6e\n", stats.Min, stats.Max)
	if otherBody != "" {
		fmt.Printf("  eccentricity (estimate)  %.4f\n", stats.Eccentricity())
	}

	period, err := analysis.DominantPeriod(samples, interval)
	if err != nil {
		fmt.Printf("  period  n/a (%v)\n", err)
		return nil
	}
	fmt.Printf("  dominant period  %s\n", formatSimTime(period, meta.G))

	spectrum := analysis.PowerSpectrum(samples)
	if len(spectrum) > 1 {
		fmt.Println(viz.Plot([]viz.Series{{Name: "power", Values: spectrum[1:]}}, 80, 8, "power spectrum", viz.Themes[0]))
	}
	return nil
}

// uniformPrefix returns how many leading samples share the first sampling
// interval. The final recorded frame is off-grid when the tick count is not
// a multiple of the recording interval.
func uniformPrefix(times []float64) int {
	if len(times) < 2 {
		return len(times)
	}
	step := times[1] - times[0]
	for i := 2; i < len(times); i++ {
		if math.Abs(times[i]-times[i-1]-step) > 1e-6*math.Abs(step) {
			return i
		}
	}
	return len(times)
}

func inspect(cmd *cobra.Command, args []string) error {
	if len(args) == 0 && configFile == "" {
		return viz.Run(viz.NewPicker())
	}
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	// the alternate screen owns the terminal, so the driver logs nowhere
	d, err := cfg.Build(nil)
	if err != nil {
		return err
	}
	return viz.Run(viz.NewInspector(d, cfg.Run.HostDt, cfg.Name))
}

func showPresets(cmd *cobra.Command, args []string) error {
	if len(args) == 1 {
		cfg := config.GetPreset(args[0])
		if cfg == nil {
			return fmt.Errorf("unknown preset %q", args[0])
		}
		out, err := yaml.Marshal(cfg)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(out)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tBODIES\tG\tSUBSTEPS\tTICKS\tSIM TIME")
	for _, name := range config.ListPresets() {
		cfg := config.Presets[name]
		simTime := cfg.SpaceScale().SimDelta(cfg.Run.HostDt) * float64(cfg.Run.Ticks)
		fmt.Fprintf(w, "%s\t%d\t%g\t%d\t%d\t%s\n",
			name, len(cfg.Bodies), cfg.Physics.G, cfg.Physics.Substeps, cfg.Run.Ticks, formatSimTime(simTime, cfg.Physics.G))
	}
	return w.Flush()
}

func converge(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(args)
	if err != nil {
		return err
	}
	logger := newLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	points, err := experiment.New(cfg, logger).SubstepSweep(ctx, sweep, reference)
	if err != nil {
		return err
	}

	fmt.Printf("%s: final position error against %d substeps\n\n", cfg.Name, reference)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SUBSTEPS\tMAX ERROR%s\tRATIO\tENERGY DRIFT\tELAPSED\n", unitSuffix(cfg.Params().DistanceUnit()))
	for i, p := range points {
		ratio := "-"
		if i > 0 && p.MaxError > 0 {
			ratio = fmt.Sprintf("%.2f", points[i-1].MaxError/p.MaxError)
		}
		fmt.Fprintf(w, "%d\t%.4e\t%s\t%.3e\t%s\n",
			p.Substeps, p.MaxError, ratio, p.EnergyDrift, p.Elapsed.Round(time.Microsecond))
	}
	return w.Flush()
}

func bench(cmd *cobra.Command, args []string) error {
	params := gravity.DefaultParams()
	params.Workers = runtime.NumCPU()
	if v.IsSet(config.KeyWorkers) {
		params.Workers = v.GetInt(config.KeyWorkers)
	}
	if v.IsSet(config.KeySubsteps) {
		params.Substeps = v.GetInt(config.KeySubsteps)
	}

	points, err := experiment.Bench(params, benchBodies, benchTicks, benchSeed)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BODIES\tWORKERS\tPER TICK\tPAIRS/S")
	for _, p := range points {
		fmt.Fprintf(w, "%d\t%d\t%s\t%.3e\n", p.Bodies, p.Workers, p.PerTick, p.PairsPerSecond(params.Substeps))
	}
	return w.Flush()
}

// formatSimTime renders simulated time in the largest sensible unit when g
// is the SI constant; other systems of units get a bare number.
func formatSimTime(seconds, g float64) string {
	if g != gravity.G {
		return fmt.Sprintf("%.4g", seconds)
	}
	const (
		day  = 86400.0
		year = 365.25 * day
	)
	switch abs := math.Abs(seconds); {
	case abs >= year:
		return fmt.Sprintf("%.2f yr", seconds/year)
	case abs >= day:
		return fmt.Sprintf("%.2f d", seconds/day)
	default:
		return fmt.Sprintf("%.3g s", seconds)
	}
}

func formatLength(v float64, unit string) string {
	if unit == "" {
		return fmt.Sprintf("%.4g", v)
	}
	return fmt.Sprintf("%.4g %s", v, unit)
}

func unitSuffix(unit string) string {
	if unit == "" {
		return ""
	}
	return " (" + unit + ")"
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
