// Command isinglab runs Metropolis Monte Carlo sweeps of the 2-D Ising
// model and manages the stored results.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/san-kum/isinglab/internal/analysis"
	"github.com/san-kum/isinglab/internal/config"
	"github.com/san-kum/isinglab/internal/export"
	"github.com/san-kum/isinglab/internal/metrics"
	"github.com/san-kum/isinglab/internal/notify"
	"github.com/san-kum/isinglab/internal/report"
	"github.com/san-kum/isinglab/internal/sim"
	"github.com/san-kum/isinglab/internal/store"
	"github.com/san-kum/isinglab/internal/viz"
)

var (
	dataDir    string
	configFile string
	presetName string

	size          int
	coupling      float64
	boltzmann     float64
	field         float64
	tMin          float64
	tMax          float64
	tStep         float64
	equilibration int
	measurement   int
	flipsPerStep  int
	maxAttempts   int
	seed          int64
	absMag        bool
	resetPerT     bool

	svgPath    string
	mailTo     string
	outPath    string
	observable string
)

var logger = log.New(os.Stderr)

func main() {
	// SMTP credentials and overrides may live in a .env file next to the
	// binary; absence is fine.
	if err := godotenv.Load(); err != nil {
		logger.Debug("no .env file, using process environment")
	}

	rootCmd := &cobra.Command{
		Use:   "isinglab",
		Short: "Metropolis Monte Carlo lab for the 2-D Ising model",
		Long: `isinglab sweeps an Ising lattice across a temperature range and records
energy fluctuations, magnetization and susceptibility per temperature.
Run it without arguments for the interactive terminal interface.`,
		Run: func(cmd *cobra.Command, args []string) {
			if err := viz.RunInteractive(); err != nil {
				logger.Error("interactive mode failed", "err", err)
				os.Exit(1)
			}
		},
	}
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultOutputDir, "directory for stored runs")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a temperature sweep and store the results",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	sweepFlags(runCmd)
	runCmd.Flags().StringVar(&svgPath, "svg", "", "write the final lattice as SVG to this path")
	runCmd.Flags().StringVar(&mailTo, "notify", "", "email the report to this address")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "Watch a sweep evolve in the terminal",
		Args:  cobra.NoArgs,
		RunE:  liveSweep,
	}
	sweepFlags(liveCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "Plot observables of a stored run against temperature",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&observable, "observable", "all",
		"fluctuations, magnetization, susceptibility, energy or all")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "Summarize a stored run and locate the fluctuation peak",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "Print run metadata as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "Export the full dataset of a run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVar(&outPath, "out", "", "write to this file instead of stdout")

	exportXLSXCmd := &cobra.Command{
		Use:   "export-xlsx [run_id]",
		Short: "Export a run as an Excel workbook",
		Args:  cobra.ExactArgs(1),
		RunE:  exportXLSX,
	}
	exportXLSXCmd.Flags().StringVar(&outPath, "out", "", "workbook path (default <run_id>.xlsx)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "List the named parameter presets",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				if p == nil {
					continue
				}
				fmt.Printf("%-10s %dx%d lattice, T %.2f..%.2f step %.2f\n",
					name, p.Size, p.Size,
					p.Temperature.Min, p.Temperature.Max, p.Temperature.Step)
			}
		},
	}

	initConfigCmd := &cobra.Command{
		Use:   "init-config [path]",
		Short: "Write a config file with the reference parameters",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}

	rootCmd.AddCommand(runCmd, liveCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportJSONCmd, exportXLSXCmd, presetsCmd, initConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// sweepFlags registers the sweep parameter flags shared by run and live.
func sweepFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "named parameter preset")
	cmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	cmd.Flags().IntVar(&size, "size", config.DefaultSize, "lattice side length")
	cmd.Flags().Float64Var(&coupling, "coupling", config.DefaultCoupling, "exchange coupling J")
	cmd.Flags().Float64Var(&boltzmann, "boltzmann", config.DefaultBoltzmann, "Boltzmann constant k")
	cmd.Flags().Float64Var(&field, "field", 0, "external field h")
	cmd.Flags().Float64Var(&tMin, "t-min", config.DefaultTMin, "sweep start temperature")
	cmd.Flags().Float64Var(&tMax, "t-max", config.DefaultTMax, "sweep end temperature")
	cmd.Flags().Float64Var(&tStep, "t-step", config.DefaultTStep, "temperature increment")
	cmd.Flags().IntVar(&equilibration, "equilibration", config.DefaultEquilibrationSteps, "discarded steps per temperature")
	cmd.Flags().IntVar(&measurement, "measurement", config.DefaultMeasurementSteps, "measured steps per temperature")
	cmd.Flags().IntVar(&flipsPerStep, "flips", config.DefaultFlipsPerStep, "flip attempts per step")
	cmd.Flags().IntVar(&maxAttempts, "attempts", config.DefaultMaxFlipAttempts, "candidate sites per flip attempt")
	cmd.Flags().Int64Var(&seed, "seed", 0, "RNG seed (0 picks one from the clock)")
	cmd.Flags().BoolVar(&absMag, "abs", false, "accumulate |m| instead of signed m")
	cmd.Flags().BoolVar(&resetPerT, "reset-per-t", false, "rebuild the lattice at each temperature")
}

// resolveConfig layers preset, config file and explicitly set flags, in
// that order, over the reference defaults.
func resolveConfig(cmd *cobra.Command) (*config.Config, string, error) {
	cfg := config.DefaultConfig()
	name := "reference"
	if presetName != "" {
		p := config.GetPreset(presetName)
		if p == nil {
			return nil, "", fmt.Errorf("unknown preset %q (available: %s)",
				presetName, strings.Join(config.ListPresets(), ", "))
		}
		cfg, name = p, presetName
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, "", fmt.Errorf("load %s: %w", configFile, err)
		}
		cfg = loaded
		name = strings.TrimSuffix(filepath.Base(configFile), filepath.Ext(configFile))
	}

	f := cmd.Flags()
	if f.Changed("size") {
		cfg.Size = size
	}
	if f.Changed("coupling") {
		cfg.Coupling = coupling
	}
	if f.Changed("boltzmann") {
		cfg.Boltzmann = boltzmann
	}
	if f.Changed("field") {
		cfg.Field = field
	}
	if f.Changed("t-min") {
		cfg.Temperature.Min = tMin
	}
	if f.Changed("t-max") {
		cfg.Temperature.Max = tMax
	}
	if f.Changed("t-step") {
		cfg.Temperature.Step = tStep
	}
	if f.Changed("equilibration") {
		cfg.Steps.Equilibration = equilibration
	}
	if f.Changed("measurement") {
		cfg.Steps.Measurement = measurement
	}
	if f.Changed("flips") {
		cfg.Steps.FlipsPerStep = flipsPerStep
	}
	if f.Changed("attempts") {
		cfg.Steps.MaxFlipAttempts = maxAttempts
	}
	if f.Changed("abs") {
		cfg.AbsMagnetization = absMag
	}
	if f.Changed("reset-per-t") {
		cfg.ResetPerTemperature = resetPerT
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	// Resolve the seed here so the stored metadata can reproduce the run.
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	return cfg, name, nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	simCfg := cfg.ToSim()
	sweep, err := sim.New(simCfg)
	if err != nil {
		return err
	}

	if !cmd.Flags().Changed("data") && cfg.Output.Dir != "" {
		dataDir = cfg.Output.Dir
	}
	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("sweep started",
		"size", simCfg.Size,
		"t", fmt.Sprintf("%.2f..%.2f/%.2f", simCfg.TMin, simCfg.TMax, simCfg.TStep),
		"seed", simCfg.Seed)

	result, err := sweep.Run(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		logger.Warn("sweep interrupted, keeping partial results",
			"records", len(result.Records))
	}

	runID, err := st.Save(simCfg, result)
	if err != nil {
		return err
	}

	body := report.Render(simCfg, result)
	fmt.Println(body)
	if err := st.WriteText(runID, report.FileName("results", "txt"), body); err != nil {
		return err
	}
	if len(result.Anomalies) > 0 {
		logger.Warn("negative fluctuation values recorded", "count", len(result.Anomalies))
		if err := st.WriteText(runID, report.FileName("errors", "txt"), report.RenderAnomalies(result)); err != nil {
			return err
		}
	}

	if svgPath != "" {
		if err := export.SVG(svgPath, result.FinalSpins, simCfg.Size, 8); err != nil {
			return err
		}
		logger.Info("final lattice written", "path", svgPath)
	}

	if to := recipient(cmd, cfg); to != "" {
		// A failed mail should not discard an hours-long sweep, so it
		// only logs.
		mailer, err := notify.FromEnv()
		if err != nil {
			logger.Error("mail disabled", "err", err)
		} else if err := mailer.Send([]string{to}, "Simulation results", body); err != nil {
			logger.Error("mail failed", "err", err)
		} else {
			logger.Info("report mailed", "to", to)
		}
	}

	logger.Info("sweep finished",
		"run", runID,
		"records", len(result.Records),
		"flips", result.Flips,
		"elapsed", report.FormatElapsed(result.Elapsed))
	return nil
}

// recipient picks the report recipient: the --notify flag wins over the
// config file's notify block.
func recipient(cmd *cobra.Command, cfg *config.Config) string {
	if cmd.Flags().Changed("notify") {
		return mailTo
	}
	if cfg.Notify.Enabled {
		return cfg.Notify.To
	}
	return ""
}

func liveSweep(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(cfg.ToSim(), name)
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := store.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no stored runs yet")
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tWHEN\tLATTICE\tSWEEP\tRECORDS\tANOMALIES\tELAPSED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%.2f..%.2f\t%d\t%d\t%s\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.Size, r.Size,
			r.TMin, r.TMax, r.Records, r.Anomalies,
			report.FormatElapsed(time.Duration(r.ElapsedSeconds*float64(time.Second))))
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	records, err := store.New(dataDir).LoadRecords(args[0])
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("run %s has no records", args[0])
	}

	curves := []struct {
		name  string
		value analysis.Extractor
	}{
		{"fluctuations", analysis.Fluctuations},
		{"magnetization", analysis.Magnetization},
		{"susceptibility", analysis.Susceptibility},
		{"energy", func(r metrics.Record) float64 {
			if r.Samples == 0 {
				return 0
			}
			return r.SumEnergy / float64(r.Samples)
		}},
	}
	tLo := records[0].Temperature
	tHi := records[len(records)-1].Temperature
	for _, c := range curves {
		if observable != "all" && observable != c.name {
			continue
		}
		data := make([]float64, len(records))
		for i, r := range records {
			data[i] = c.value(r)
		}
		fmt.Printf("\n%s, T=%.2f..%.2f\n\n", c.name, tLo, tHi)
		fmt.Println(asciigraph.Plot(data, asciigraph.Height(10), asciigraph.Width(80)))
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, _, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	sum, err := analysis.Summarize(result.Records)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "temperatures\t%d\n", sum.Temperatures)
	fmt.Fprintf(w, "mean magnetization\t%.4f\n", sum.MeanMagnetization)
	fmt.Fprintf(w, "stddev magnetization\t%.4f\n", sum.StdDevMagnetization)
	fmt.Fprintf(w, "peak fluctuations\tT=%.3f\n", sum.PeakFluctuationsT)
	fmt.Fprintf(w, "peak susceptibility\tT=%.3f\n", sum.PeakSusceptibilityT)
	fmt.Fprintf(w, "anomalies\t%d\n", sum.Anomalies)
	if err := w.Flush(); err != nil {
		return err
	}

	// The Onsager point only applies to the dimensionless zero-field model.
	if meta.Coupling == 1 && meta.Boltzmann == 1 && meta.Field == 0 {
		fmt.Printf("\nexact critical temperature %.4f, fluctuation peak offset %+.4f\n",
			analysis.CriticalTemperature,
			sum.PeakFluctuationsT-analysis.CriticalTemperature)
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, err := store.New(dataDir).Load(args[0])
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	_, cfg, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if outPath != "" {
		if err := export.JSON(outPath, cfg, result); err != nil {
			return err
		}
		logger.Info("dataset written", "path", outPath)
		return nil
	}
	return export.JSONTo(os.Stdout, cfg, result)
}

func exportXLSX(cmd *cobra.Command, args []string) error {
	_, cfg, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = args[0] + ".xlsx"
	}
	if err := export.XLSX(path, cfg, result); err != nil {
		return err
	}
	logger.Info("workbook written", "path", path)
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "isinglab.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, config.DefaultConfig()); err != nil {
		return err
	}
	logger.Info("config written", "path", path)
	return nil
}

// loadRun rebuilds the sweep configuration and result of a stored run
// from its metadata and records. Final spins are not persisted, so the
// rebuilt result carries none.
func loadRun(runID string) (*store.RunMetadata, sim.Config, *sim.Result, error) {
	st := store.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, sim.Config{}, nil, err
	}
	records, err := st.LoadRecords(runID)
	if err != nil {
		return nil, sim.Config{}, nil, err
	}
	cfg := sim.Config{
		Size:                meta.Size,
		Coupling:            meta.Coupling,
		Boltzmann:           meta.Boltzmann,
		Field:               meta.Field,
		TMin:                meta.TMin,
		TMax:                meta.TMax,
		TStep:               meta.TStep,
		EquilibrationSteps:  meta.EquilibrationSteps,
		MeasurementSteps:    meta.MeasurementSteps,
		FlipsPerStep:        meta.FlipsPerStep,
		MaxFlipAttempts:     meta.MaxFlipAttempts,
		PreRunDiscardFlips:  meta.PreRunDiscardFlips,
		AbsMagnetization:    meta.AbsMagnetization,
		ResetPerTemperature: meta.ResetPerTemp,
		Seed:                meta.Seed,
	}
	result := &sim.Result{
		Records:   records,
		Flips:     meta.Flips,
		Exhausted: meta.Exhausted,
		Elapsed:   time.Duration(meta.ElapsedSeconds * float64(time.Second)),
	}
	for _, r := range records {
		if r.Anomalous() {
			result.Anomalies = append(result.Anomalies, metrics.AnomalyFor(r))
		}
	}
	return meta, cfg, result, nil
}
