package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/sixdof/internal/automation"
	"github.com/san-kum/sixdof/internal/batch"
	"github.com/san-kum/sixdof/internal/body"
	"github.com/san-kum/sixdof/internal/config"
	"github.com/san-kum/sixdof/internal/export"
	"github.com/san-kum/sixdof/internal/joint"
	"github.com/san-kum/sixdof/internal/lcp"
	"github.com/san-kum/sixdof/internal/metrics"
	"github.com/san-kum/sixdof/internal/observability"
	"github.com/san-kum/sixdof/internal/optim"
	"github.com/san-kum/sixdof/internal/scenario"
	"github.com/san-kum/sixdof/internal/storage"
	"github.com/san-kum/sixdof/internal/viz"
)

var (
	appConfigFile string
	appCfg        *config.AppConfig

	jointFile string
	method    string
	trace     bool
	save      bool

	poseAxis  string
	poseValue float64

	sweepAxis string
	from      float64
	to        float64
	samples   int

	steps       int
	gravity     float64
	noIntegrate bool
	threshold   float64

	count   int
	column  string
	outPath string
	svgPath string

	withSamples bool

	tuneMetric string
	erpValues  []float64
	softValues []float64
	tuneTop    int
)

func main() {
	v := config.NewViper()

	rootCmd := &cobra.Command{
		Use:           "sixdof",
		Short:         "generic six degree of freedom joint lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadApp(v, appConfigFile)
			if err != nil {
				return err
			}
			appCfg = cfg
			observability.InitializeLogger(cfg.Logger)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			observability.Sync()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&appConfigFile, "config", "", "application config file (yaml)")
	pf.String("data", "data/runs", "run storage directory")
	pf.String("log-level", "info", "log level")
	pf.Float64("fps", 60, "solver frames per second")
	pf.Float64("erp", config.DefaultStopERP, "global error reduction parameter")
	pf.Int("iterations", 20, "solver iterations")
	mustBind(v.BindPFlag("data_dir", pf.Lookup("data")))
	mustBind(v.BindPFlag("logger.level", pf.Lookup("log-level")))
	mustBind(v.BindPFlag("solver.fps", pf.Lookup("fps")))
	mustBind(v.BindPFlag("solver.erp", pf.Lookup("erp")))
	mustBind(v.BindPFlag("solver.iterations", pf.Lookup("iterations")))

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list joint presets",
		RunE:  listPresets,
	}

	inspectCmd := &cobra.Command{
		Use:   "inspect [preset]",
		Short: "allocate and fill one joint and print its rows",
		Args:  cobra.MaximumNArgs(1),
		RunE:  inspectJoint,
	}
	addJointFlags(inspectCmd)
	addPoseFlags(inspectCmd)
	inspectCmd.Flags().BoolVar(&trace, "trace", false, "log joint internals at debug level")
	inspectCmd.Flags().StringVar(&svgPath, "svg", "", "write the joint wireframe as SVG")

	sweepCmd := &cobra.Command{
		Use:   "sweep [preset]",
		Short: "pose a joint along one axis and solve every sample",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addJointFlags(sweepCmd)
	addRunFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepAxis, "axis", "angular-z", "axis to sweep")
	sweepCmd.Flags().Float64Var(&from, "from", -1, "first value")
	sweepCmd.Flags().Float64Var(&to, "to", 1, "last value")
	sweepCmd.Flags().IntVar(&samples, "samples", 41, "number of samples")
	sweepCmd.Flags().StringVar(&svgPath, "svg", "", "write limit error against the swept value as SVG")

	settleCmd := &cobra.Command{
		Use:   "settle [preset]",
		Short: "step a joint over time",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSettle,
	}
	addJointFlags(settleCmd)
	addRunFlags(settleCmd)
	addPoseFlags(settleCmd)
	addSettleFlags(settleCmd)
	settleCmd.Flags().IntVar(&steps, "steps", 120, "number of steps")

	tuneCmd := &cobra.Command{
		Use:   "tune [preset]",
		Short: "grid search stop ERP and softness of the limited axes",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runTune,
	}
	addJointFlags(tuneCmd)
	tuneCmd.Flags().StringVar(&method, "method", string(scenario.MethodLCP), "solve method (lcp, sequential)")
	tuneCmd.Flags().Float64Var(&threshold, "threshold", 0.01, "limit error counted as stable")
	addPoseFlags(tuneCmd)
	addSettleFlags(tuneCmd)
	tuneCmd.Flags().IntVar(&steps, "steps", 120, "steps per trial")
	tuneCmd.Flags().StringVar(&tuneMetric, "metric", "final_error", "metric to minimize")
	tuneCmd.Flags().Float64SliceVar(&erpValues, "erp-values", []float64{0.1, 0.2, 0.4, 0.8}, "stop ERP candidates")
	tuneCmd.Flags().Float64SliceVar(&softValues, "softness-values", []float64{0.3, 0.5, 0.7, 1.0}, "softness candidates")
	tuneCmd.Flags().IntVar(&tuneTop, "top", 5, "trials to print")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "run a YAML script of sweeps and settles",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}

	watchCmd := &cobra.Command{
		Use:   "watch [preset]",
		Short: "step a joint with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWatch,
	}
	addJointFlags(watchCmd)
	addPoseFlags(watchCmd)
	addSettleFlags(watchCmd)
	watchCmd.Flags().StringVar(&method, "method", string(scenario.MethodLCP), "solve method (lcp, sequential)")

	batchCmd := &cobra.Command{
		Use:   "batch [preset]",
		Short: "allocate, fill and solve many copies of a joint in parallel",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runBatch,
	}
	addJointFlags(batchCmd)
	batchCmd.Flags().IntVar(&count, "count", 1000, "number of joints")
	batchCmd.Flags().Int("workers", 0, "worker goroutines (0 = GOMAXPROCS)")
	mustBind(v.BindPFlag("solver.workers", batchCmd.Flags().Lookup("workers")))

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "max_error", "samples.csv column to plot")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().BoolVar(&withSamples, "samples", false, "include the sample rows")

	exportConfigCmd := &cobra.Command{
		Use:   "export-config [preset]",
		Short: "write a preset as an editable joint file",
		Args:  cobra.ExactArgs(1),
		RunE:  exportConfig,
	}
	exportConfigCmd.Flags().StringVarP(&outPath, "out", "o", "joint.yaml", "output path")

	rootCmd.AddCommand(presetsCmd, inspectCmd, sweepCmd, settleCmd, tuneCmd, scriptCmd, watchCmd, batchCmd, listCmd, plotCmd, exportCmd, exportConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func mustBind(err error) {
	if err != nil {
		panic(err)
	}
}

func addJointFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&jointFile, "joint", "", "joint config file (yaml), overrides the preset")
}

func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&method, "method", string(scenario.MethodLCP), "solve method (lcp, sequential)")
	cmd.Flags().BoolVar(&save, "save", false, "store the run")
	cmd.Flags().Float64Var(&threshold, "threshold", 0.01, "limit error counted as stable")
}

func addPoseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&poseAxis, "pose-axis", "", "axis to offset body B along before running")
	cmd.Flags().Float64Var(&poseValue, "pose-value", 0, "offset for --pose-axis")
}

func addSettleFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&gravity, "gravity", 0, "gravity along -y")
	cmd.Flags().BoolVar(&noIntegrate, "no-integrate", false, "keep body poses fixed")
}

// loadJoint reads --joint, or the named preset, hinge by default.
func loadJoint(args []string) (*config.JointConfig, error) {
	if jointFile != "" {
		return config.Load(jointFile)
	}
	name := "hinge"
	if len(args) > 0 {
		name = args[0]
	}
	jc := config.GetPreset(name)
	if jc == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", name, config.ListPresets())
	}
	return jc, nil
}

func runConfig() (scenario.Config, error) {
	m, err := scenario.ParseMethod(method)
	if err != nil {
		return scenario.Config{}, err
	}
	return scenario.Config{
		Params:     appCfg.Solver.Params(),
		Iterations: appCfg.Solver.Iterations,
		Method:     m,
		Integrate:  !noIntegrate,
		Gravity:    mgl64.Vec3{0, -gravity, 0},
	}, nil
}

func newRunner(jc *config.JointConfig, cfg scenario.Config) (*scenario.Runner, error) {
	j, a, b, err := jc.Build()
	if err != nil {
		return nil, err
	}
	if trace {
		j.SetTracer(observability.NewJointTracer(observability.GetLogger(), jc.Name))
	}
	r, err := scenario.New(j, a, b, cfg, observability.GetLogger())
	if err != nil {
		return nil, err
	}
	if poseAxis != "" {
		ax, err := joint.ParseAxis(poseAxis)
		if err != nil {
			return nil, err
		}
		r.Pose(ax, poseValue)
	}
	return r, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tROWS\tFREE AXES")
	for _, name := range config.ListPresets() {
		j, _, _, err := config.GetPreset(name).Build()
		if err != nil {
			return err
		}
		a := j.Allocate()
		free := make([]string, 0, joint.NumAxes)
		for _, ax := range joint.Axes() {
			if j.Motor(ax).IsFree() {
				free = append(free, ax.String())
			}
		}
		fmt.Fprintf(w, "%s\t%d\t%s\n", name, a.Rows, strings.Join(free, " "))
	}
	return w.Flush()
}

func inspectJoint(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	method = string(scenario.MethodLCP)
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	r, err := newRunner(jc, cfg)
	if err != nil {
		return err
	}

	j := r.Joint()
	a := j.Allocate()
	rows := make([]joint.Row, a.Rows)
	if err := j.Fill(a, rows, 0, cfg.Params); err != nil {
		return err
	}

	g := a.Geometry
	fmt.Println(viz.Title.Render(jc.Name))
	fmt.Printf("angles %v  linear %v  singular %v\n", fmtVec(g.Angles), fmtVec(g.LinearDiff), g.Singular)
	fmt.Printf("rows %d  nub %d\n\n", a.Rows, a.Nub)
	fmt.Println(viz.AxisTable(j, a, viz.ThemeCyberpunk))
	if len(rows) > 0 {
		fmt.Println(viz.RowTable(rows, a.Order))
	}

	if svgPath != "" {
		canvas := viz.NewCanvas(60, 30)
		viz.Render(canvas, viz.JointWireframe(g, mgl64.Vec3{0.5, 0.5, 0.5}), viz.NewCamera())
		return writeSVG(svgPath, export.CanvasToSVG(canvas, 4, "#00ff00"))
	}
	return nil
}

func writeSVG(path, svg string) error {
	if svg == "" {
		return fmt.Errorf("nothing to draw")
	}
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Println("wrote " + strconv.Quote(path))
	return nil
}

func fmtVec(v mgl64.Vec3) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v[0], v[1], v[2])
}

func addMetrics(r *scenario.Runner) []string {
	names := make([]string, 0)
	for _, m := range metrics.Standard(threshold) {
		r.AddMetric(m)
		names = append(names, m.Name())
	}
	sort.Strings(names)
	return names
}

func runSweep(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	ax, err := joint.ParseAxis(sweepAxis)
	if err != nil {
		return err
	}
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	r, err := newRunner(jc, cfg)
	if err != nil {
		return err
	}
	names := addMetrics(r)

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := r.Sweep(ctx, ax, from, to, samples)
	if err != nil {
		return err
	}
	observability.GetLogger().Info("sweep finished",
		zap.String("joint", jc.Name),
		zap.Stringer("axis", ax),
		zap.Int("samples", res.Steps),
		zap.Duration("elapsed", time.Since(start)),
	)

	fmt.Println(viz.PlotMany([][]float64{
		res.Series(func(s *scenario.Sample) float64 { return s.MaxError() }),
		res.Series(func(s *scenario.Sample) float64 { return float64(len(s.Axes)) }),
	}, fmt.Sprintf("%s %s: limit error (green) and rows (yellow)", jc.Name, ax), 80, 12))
	fmt.Println()
	fmt.Println(viz.MetricsTable(names, res.Metrics))

	if svgPath != "" {
		xs := res.Series(func(s *scenario.Sample) float64 { return s.Coordinate })
		ys := res.Series(func(s *scenario.Sample) float64 { return s.MaxError() })
		if err := writeSVG(svgPath, export.SeriesToSVG(xs, ys, 800, 400, "#00ff00")); err != nil {
			return err
		}
	}

	if save {
		return saveRun(storage.RunMetadata{
			Kind: "sweep", Joint: jc.Name, Method: string(cfg.Method),
			FPS: cfg.Params.FPS, ERP: cfg.Params.ERP, CFM: cfg.Params.CFM, Iterations: cfg.Iterations,
			Axis: ax.String(), From: from, To: to,
		}, jc, res)
	}
	return nil
}

func runSettle(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	r, err := newRunner(jc, cfg)
	if err != nil {
		return err
	}
	names := addMetrics(r)
	if poseAxis != "" {
		ax, _ := joint.ParseAxis(poseAxis)
		osc := metrics.NewOscillation(ax, cfg.Params.FPS)
		r.AddMetric(osc)
		names = append(names, osc.Name())
		sort.Strings(names)
	}

	ctx, cancel := signalContext()
	defer cancel()

	res, err := r.Settle(ctx, steps)
	if err != nil {
		return err
	}
	observability.GetLogger().Info("settle finished",
		zap.String("joint", jc.Name),
		zap.Int("steps", res.Steps),
		zap.Float64("stability", res.Metrics["stability"]),
	)

	fmt.Println(viz.Plot(res.Series(func(s *scenario.Sample) float64 { return s.MaxError() }),
		fmt.Sprintf("%s: limit error over %d steps", jc.Name, res.Steps), 80, 10))
	fmt.Println(viz.Plot(res.Series(func(s *scenario.Sample) float64 { return s.KineticEnergy }),
		"kinetic energy", 80, 6))
	fmt.Println()
	fmt.Println(viz.MetricsTable(names, res.Metrics))

	if save {
		return saveRun(storage.RunMetadata{
			Kind: "settle", Joint: jc.Name, Method: string(cfg.Method),
			FPS: cfg.Params.FPS, ERP: cfg.Params.ERP, CFM: cfg.Params.CFM, Iterations: cfg.Iterations,
		}, jc, res)
	}
	return nil
}

func saveRun(meta storage.RunMetadata, jc *config.JointConfig, res *scenario.Result) error {
	st := storage.New(appCfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	id, err := st.Save(meta, jc, res)
	if err != nil {
		return err
	}
	observability.GetLogger().Info("run saved", zap.String("id", id), zap.String("dir", appCfg.DataDir))
	fmt.Printf("\nsaved run %s\n", id)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	r, err := newRunner(jc, cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewWatchModel(jc.Name, r), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runBatch(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}

	joints := make([]*joint.Joint, count)
	bodies := make([]*body.Body, 0, 2*count)
	for i := range joints {
		j, a, b, err := jc.Build()
		if err != nil {
			return err
		}
		joints[i] = j
		bodies = append(bodies, a, b)
	}

	opts := batch.DefaultOptions()
	opts.Workers = appCfg.Solver.Workers
	opts.Params = appCfg.Solver.Params()
	pool := batch.NewRowPool()

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	res, err := batch.Process(ctx, joints, opts, pool)
	if err != nil {
		return err
	}
	filled := time.Since(start)
	defer pool.Put(res.Rows)

	solver := lcp.New(lcp.Config{Iterations: appCfg.Solver.Iterations, Tolerance: lcp.DefaultConfig().Tolerance})
	out, err := solver.SolveBlocks(res.Blocks(joints))
	if err != nil {
		return err
	}
	solved := time.Since(start) - filled

	energy := 0.0
	for _, b := range bodies {
		energy += b.KineticEnergy()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "joints\t%d\n", len(joints))
	fmt.Fprintf(w, "rows\t%d\n", len(res.Rows))
	fmt.Fprintf(w, "nub\t%d\n", res.Nub)
	fmt.Fprintf(w, "fill\t%s\n", filled)
	fmt.Fprintf(w, "solve\t%s (%d iterations, max delta %.3g)\n", solved, out.Iterations, out.MaxDelta)
	fmt.Fprintf(w, "energy\t%.6g\n", energy)
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(appCfg.DataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tKIND\tJOINT\tTIME\tMETHOD\tSTEPS\tSTABILITY")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.3f\n",
			run.ID,
			run.Kind,
			run.Joint,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Method,
			run.Steps,
			run.Metrics["stability"],
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(appCfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	header, rows, err := st.LoadSamples(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}
	data, err := storage.Column(header, rows, column)
	if err != nil {
		return fmt.Errorf("%w (columns: %s)", err, strings.Join(header, ", "))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("joint: %s (%s)\n", meta.Joint, meta.Kind)
	fmt.Printf("samples: %d\n\n", len(rows))
	fmt.Println(viz.Plot(data, column, 80, 12))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	return storage.New(appCfg.DataDir).ExportJSON(os.Stdout, args[0], withSamples)
}

func exportConfig(cmd *cobra.Command, args []string) error {
	jc := config.GetPreset(args[0])
	if jc == nil {
		return fmt.Errorf("unknown preset: %s", args[0])
	}
	if err := config.Save(outPath, jc); err != nil {
		return err
	}
	fmt.Println("wrote " + strconv.Quote(outPath))
	return nil
}

// limitedAxes returns the axes of jc with a limit range.
func limitedAxes(jc *config.JointConfig) []joint.Axis {
	var out []joint.Axis
	for _, ax := range joint.Axes() {
		if ac := jc.Axis(ax); ac.Lower <= ac.Upper {
			out = append(out, ax)
		}
	}
	return out
}

func runTune(cmd *cobra.Command, args []string) error {
	jc, err := loadJoint(args)
	if err != nil {
		return err
	}
	cfg, err := runConfig()
	if err != nil {
		return err
	}
	axes := limitedAxes(jc)
	if len(axes) == 0 {
		return fmt.Errorf("%s has no limited axes to tune", jc.Name)
	}

	grid, err := optim.NewGridSearch([]string{"stop_erp", "softness"}, [][]float64{erpValues, softValues})
	if err != nil {
		return err
	}

	log := observability.GetLogger().Named("tune")
	eval := func(ctx context.Context, p map[string]float64) (map[string]float64, error) {
		trial := *jc
		for _, ax := range axes {
			ac := trial.Axis(ax)
			erp := p["stop_erp"]
			ac.StopERP = &erp
			ac.Softness = p["softness"]
		}
		r, err := newRunner(&trial, cfg)
		if err != nil {
			return nil, err
		}
		addMetrics(r)
		res, err := r.Settle(ctx, steps)
		if err != nil {
			return nil, err
		}
		log.Debug("trial",
			zap.Float64("stop_erp", p["stop_erp"]),
			zap.Float64("softness", p["softness"]),
			zap.Float64(tuneMetric, res.Metrics[tuneMetric]),
		)
		return res.Metrics, nil
	}

	ctx, cancel := signalContext()
	defer cancel()

	start := time.Now()
	best, trials, err := grid.Search(ctx, eval, tuneMetric)
	if err != nil {
		return err
	}
	log.Info("tune finished",
		zap.String("joint", jc.Name),
		zap.Int("trials", len(trials)),
		zap.Duration("elapsed", time.Since(start)),
	)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "STOP_ERP\tSOFTNESS\t%s\n", strings.ToUpper(tuneMetric))
	for i, t := range trials {
		if i >= tuneTop {
			break
		}
		if t.Err != nil {
			fmt.Fprintf(w, "%.3f\t%.3f\terror: %v\n", t.Params["stop_erp"], t.Params["softness"], t.Err)
			continue
		}
		fmt.Fprintf(w, "%.3f\t%.3f\t%.6g\n", t.Params["stop_erp"], t.Params["softness"], t.Score)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\nbest: stop_erp=%.3f softness=%.3f\n", best.Params["stop_erp"], best.Params["softness"])
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	script, err := automation.LoadScript(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.RunScript(ctx, script, appCfg.Solver, observability.GetLogger().Named("script"))
	for i, sr := range results {
		names := make([]string, 0, len(sr.Result.Metrics))
		for name := range sr.Result.Metrics {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Println(viz.Title.Render(fmt.Sprintf("%d. %s %s", i+1, sr.Step.Kind, sr.Joint.Name)))
		fmt.Println(viz.MetricsTable(names, sr.Result.Metrics))

		if !sr.Step.Save {
			continue
		}
		meta := storage.RunMetadata{
			Kind: sr.Step.Kind, Joint: sr.Joint.Name, Method: string(sr.Config.Method),
			FPS: sr.Config.Params.FPS, ERP: sr.Config.Params.ERP, CFM: sr.Config.Params.CFM, Iterations: sr.Config.Iterations,
		}
		if sr.Step.Kind == automation.KindSweep {
			meta.Axis, meta.From, meta.To = sr.Step.Axis, sr.Step.From, sr.Step.To
		}
		if serr := saveRun(meta, sr.Joint, sr.Result); serr != nil {
			return serr
		}
	}
	return err
}
