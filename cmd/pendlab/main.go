package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"pendlab/internal/analysis"
	"pendlab/internal/config"
	"pendlab/internal/dynamo"
	"pendlab/internal/export"
	"pendlab/internal/integrators"
	"pendlab/internal/sim"
	"pendlab/internal/storage"
	"pendlab/internal/viz"
)

var (
	dataDir    string
	duration   float64
	theta      float64
	omega      float64
	segments   int
	stepper    string
	configFile string
	preset     string
	record     bool
	csvPath    string
	jsonPath   string
	column     string
	body       int
	d0         float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "pendlab",
		Short: "pendulum simulation lab",
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", "runs", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [model]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().BoolVar(&record, "record", false, "record history and save the run")
	runCmd.Flags().StringVar(&csvPath, "csv", "", "write recorded series to a CSV file")
	runCmd.Flags().StringVar(&jsonPath, "json", "", "write recorded series to a JSON file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored series column",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "col", "total", "series column to plot")

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&body, "body", 0, "body index for the angle/velocity pair")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "print a stored series as CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportStoredCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "print a stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportStoredJSON,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis of a stored series column",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&column, "col", "theta0", "series column to analyze")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  lyapunovModel,
	}
	addModelFlags(lyapunovCmd)
	lyapunovCmd.Flags().Float64Var(&d0, "d0", 1e-8, "initial perturbation")

	compareCmd := &cobra.Command{
		Use:   "compare [model] [stepper1] [stepper2] ...",
		Short: "compare integrators on the same model",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareSteppers,
	}
	addModelFlags(compareCmd)

	liveCmd := &cobra.Command{
		Use:   "live [model]",
		Short: "interactive live view",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addModelFlags(liveCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets [model]",
		Short: "list presets for a model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			presets := config.ListPresets(args[0])
			if len(presets) == 0 {
				fmt.Printf("no presets for model: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", args[0])
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench [model]",
		Short: "measure stepping throughput",
		Args:  cobra.ExactArgs(1),
		RunE:  benchModel,
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCmd, exportCSVCmd,
		exportJSONCmd, analyzeCmd, lyapunovCmd, compareCmd, liveCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&duration, "time", 10.0, "simulated duration")
	cmd.Flags().Float64Var(&theta, "theta", 0.5, "initial angle")
	cmd.Flags().Float64Var(&omega, "omega", 0.0, "initial angular velocity")
	cmd.Flags().IntVar(&segments, "segments", 4, "segment count (chain)")
	cmd.Flags().StringVar(&stepper, "integrator", "rk4", "integrator (euler, rk4)")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig merges preset, config file and CLI flags for the named
// model. Precedence from lowest to highest: defaults, preset, config
// file, flags the user actually set.
func buildConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		*cfg = *p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	cfg.Model = model
	if cmd.Flags().Changed("time") {
		cfg.Duration = duration
	}
	if cfg.Duration <= 0 {
		cfg.Duration = config.DefaultDuration
	}
	if cmd.Flags().Changed("theta") {
		cfg.Models.Simple.InitialAngle = theta
		cfg.Models.Double.Theta1 = theta
		cfg.Models.Double.Theta2 = theta
		cfg.Models.Chain.InitialAngle = theta
	}
	if cmd.Flags().Changed("omega") {
		cfg.Models.Simple.InitialVelocity = omega
		cfg.Models.Double.Omega1 = omega
		cfg.Models.Chain.InitialVelocity = omega
	}
	if cmd.Flags().Changed("segments") {
		cfg.Models.Chain.Segments = segments
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = stepper
	}
	return cfg, nil
}

func newStepper(name string) (dynamo.Stepper, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4", "":
		return integrators.NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s (known: euler, rk4)", name)
	}
}

func buildSim(cmd *cobra.Command, model string) (*sim.Simulation, *config.Config, error) {
	cfg, err := buildConfig(cmd, model)
	if err != nil {
		return nil, nil, err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return nil, nil, err
	}
	st, err := newStepper(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(m, st)
	if err != nil {
		return nil, nil, err
	}
	return s, cfg, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	s, cfg, err := buildSim(cmd, args[0])
	if err != nil {
		return err
	}

	recording := record || csvPath != "" || jsonPath != ""
	s.SetRecording(recording)

	steps := int(cfg.Duration / s.FixedDt())
	fmt.Printf("running %s for %.1fs (%d steps at dt=%.5f)...\n",
		args[0], cfg.Duration, steps, s.FixedDt())

	start := time.Now()
	for i := 0; i < steps; i++ {
		s.Step(0)
		if !s.Healthy() {
			return fmt.Errorf("%w at t=%.3f", dynamo.ErrDiverged, s.Time())
		}
	}
	elapsed := time.Since(start)
	fmt.Printf("completed in %v\n", elapsed)

	if !recording {
		e := s.Energy()
		fmt.Printf("final energy: total=%.6f kinetic=%.6f potential=%.6f\n",
			e.Total, e.Kinetic, e.Potential)
		return nil
	}

	data := s.Export()
	if err := export.WriteSummary(os.Stdout, data); err != nil {
		return err
	}

	if csvPath != "" {
		if err := writeFileWith(csvPath, data, export.WriteCSV); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", csvPath)
	}
	if jsonPath != "" {
		if err := writeFileWith(jsonPath, data, export.WriteJSON); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", jsonPath)
	}

	if record {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		id, err := st.Save(data)
		if err != nil {
			return err
		}
		fmt.Printf("run id: %s\n", id)
	}
	return nil
}

func writeFileWith(path string, data *sim.ExportData, write func(w io.Writer, data *sim.ExportData) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f, data)
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
	fmt.Fprintln(w, "ID\tMODEL\tTIME\tBODIES\tSTEPS\tDT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%.5fs\n",
			run.ID,
			run.Model,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Steps,
			run.FixedDt,
		)
	}
	return w.Flush()
}

func seriesColumn(header []string, cols [][]float64, name string) ([]float64, error) {
	for i, h := range header {
		if h == name {
			return cols[i], nil
		}
	}
	return nil, fmt.Errorf("no column %q (available: %v)", name, header)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	header, cols, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, err := seriesColumn(header, cols, column)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\nmodel: %s\nsamples: %d\n\n", meta.ID, meta.Model, len(data))
	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s vs time", column)),
	)
	fmt.Println(graph)
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	header, cols, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	xData, err := seriesColumn(header, cols, fmt.Sprintf("theta%d", body))
	if err != nil {
		return err
	}
	yData, err := seriesColumn(header, cols, fmt.Sprintf("omega%d", body))
	if err != nil {
		return err
	}

	xMin, xMax := minMax(xData)
	yMin, yMax := minMax(yData)
	xRange, yRange := xMax-xMin, yMax-yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	const w, h = 40, 18
	canvas := viz.NewCanvas(w, h)
	for i := range xData {
		px := int(float64(w*2-1) * (xData[i] - xMin) / xRange)
		py := int(float64(h*4-1) * (1 - (yData[i]-yMin)/yRange))
		canvas.Set(px, py)
	}

	fmt.Printf("phase space: %s (body %d)\n", meta.ID, body)
	fmt.Printf("theta [%.2f, %.2f]  omega [%.2f, %.2f]\n\n", xMin, xMax, yMin, yMax)
	fmt.Print(canvas.String())
	return nil
}

func minMax(data []float64) (float64, float64) {
	lo, hi := data[0], data[0]
	for _, v := range data {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	return storage.WriteMetadata(os.Stdout, meta)
}

func exportStoredCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.CopySeries(os.Stdout, args[0])
}

func exportStoredJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.WriteRunJSON(os.Stdout, args[0])
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	header, cols, err := st.LoadSeries(args[0])
	if err != nil {
		return err
	}
	data, err := seriesColumn(header, cols, column)
	if err != nil {
		return err
	}

	fmt.Printf("frequency analysis: %s\nmodel: %s\ncolumn: %s\n\n", meta.ID, meta.Model, column)

	ps := analysis.PowerSpectrum(data)
	plotData := ps
	if len(plotData) > len(ps)/4 && len(ps) >= 8 {
		plotData = ps[:len(ps)/4]
	}
	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq := analysis.DominantFrequency(data, meta.FixedDt)
	fmt.Printf("dominant frequency: %.3f hz\n", freq)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func lyapunovModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}
	m, err := cfg.BuildModel()
	if err != nil {
		return err
	}

	fmt.Printf("estimating largest Lyapunov exponent for %s (%.1fs, d0=%.1e)...\n",
		args[0], cfg.Duration, d0)
	lambda := analysis.LargestLyapunov(m, cfg.Duration, d0)
	fmt.Printf("lambda: %.4f /s\n", lambda)
	if lambda > 0 {
		fmt.Printf("doubling time: %.2f s (chaotic)\n", 0.6931/lambda)
	} else {
		fmt.Println("no exponential divergence (regular)")
	}
	return nil
}

func compareSteppers(cmd *cobra.Command, args []string) error {
	model := args[0]
	names := args[1:]

	base, err := buildConfig(cmd, model)
	if err != nil {
		return err
	}
	fmt.Printf("comparing integrators for %s (%.1fs)\n\n", model, base.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tFINAL ANGLE\tENERGY DRIFT\tTIME")

	for _, name := range names {
		st, err := newStepper(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\t\t\n", name, err)
			continue
		}
		cfg, err := buildConfig(cmd, model)
		if err != nil {
			return err
		}
		m, err := cfg.BuildModel()
		if err != nil {
			return err
		}
		s, err := sim.New(m, st)
		if err != nil {
			return err
		}

		e0 := s.Energy().Total
		steps := int(cfg.Duration / s.FixedDt())

		start := time.Now()
		for i := 0; i < steps; i++ {
			s.Step(0)
		}
		elapsed := time.Since(start)

		drift := s.Energy().Total - e0
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%v\n", name, s.State()[0], drift, elapsed)
	}
	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	s, _, err := buildSim(cmd, args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	return viz.Run(s, st)
}

func benchModel(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args[0])
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}

	fmt.Printf("benchmarking %s\n\n", args[0])
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		m, err := cfg.BuildModel()
		if err != nil {
			return err
		}
		s, err := sim.New(m, nil)
		if err != nil {
			return err
		}

		steps := int(dur / s.FixedDt())
		start := time.Now()
		for i := 0; i < steps; i++ {
			s.Step(0)
		}
		elapsed := time.Since(start)

		fmt.Fprintf(w, "%.1fs\t%d\t%v\t%.0f\n",
			dur, steps, elapsed, float64(steps)/elapsed.Seconds())
	}
	return w.Flush()
}
