package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"marinesim/internal/config"
	"marinesim/internal/experiment"
	"marinesim/internal/export"
	"marinesim/internal/gnc"
	"marinesim/internal/optim"
	"marinesim/internal/sim"
	"marinesim/internal/storage"
	"marinesim/internal/viz"
)

var (
	dataDir    string
	dt         float64
	duration   float64
	heading    float64
	speed      float64
	current    float64
	currentDir float64
	yaw0       float64
	mode       string
	bandwidth  float64
	damping    float64
	// Config file
	configFile string
	// Preset name
	preset string
	// Live view pacing
	stepsPerFrame int
	// Phase plot axes
	xAxis int
	yAxis int
	// SVG output
	svgOut string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "marinesim",
		Short: "marine craft heading-control simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".marinesim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [vehicle]",
		Short: "run a closed-loop simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase plot of two history columns",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	phaseCmd.Flags().IntVar(&xAxis, "x-axis", 5, "history column for x-axis")
	phaseCmd.Flags().IntVar(&yAxis, "y-axis", 11, "history column for y-axis")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export the north-east track as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgOut, "out", "track.svg", "output file")

	benchCmd := &cobra.Command{
		Use:   "bench [vehicle]",
		Short: "benchmark the simulation loop",
		Args:  cobra.ExactArgs(1),
		RunE:  benchVehicle,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [vehicle]",
		Short: "sweep autopilot bandwidth/damping candidates",
		Args:  cobra.ExactArgs(1),
		RunE:  tuneAutopilot,
	}
	addScenarioFlags(tuneCmd)

	liveCmd := &cobra.Command{
		Use:   "live [vehicle]",
		Short: "run with live terminal visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 10, "simulation steps per frame")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, p := range config.ListPresets() {
				fmt.Println(p)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, phaseCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, benchCmd, tuneCmd, liveCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "sample time [s]")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration [s]")
	cmd.Flags().Float64Var(&heading, "heading", -80, "desired heading [deg]")
	cmd.Flags().Float64Var(&speed, "speed", 28, "desired forward speed [m/s]")
	cmd.Flags().Float64Var(&current, "current", 10, "ambient current speed [m/s]")
	cmd.Flags().Float64Var(&currentDir, "current-dir", 0, "ambient current direction [deg]")
	cmd.Flags().Float64Var(&yaw0, "yaw0", 0, "initial yaw [deg]")
	cmd.Flags().StringVar(&mode, "mode", "headingAutopilot", "control mode (headingAutopilot|stepInput)")
	cmd.Flags().Float64Var(&bandwidth, "bandwidth", 0.5, "autopilot natural frequency [rad/s]")
	cmd.Flags().Float64Var(&damping, "damping", 1.0, "autopilot relative damping")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset scenario")
}

// buildScenario resolves preset, config file and flags in that order of
// increasing precedence: flags set explicitly on the command line always win.
func buildScenario(cmd *cobra.Command) (*config.Scenario, error) {
	sc := config.DefaultScenario()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		sc = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		sc = loaded
	}

	if cmd.Flags().Changed("dt") {
		sc.Dt = dt
	}
	if cmd.Flags().Changed("time") {
		sc.Duration = duration
	}
	if cmd.Flags().Changed("heading") {
		sc.Vehicle.HeadingDeg = heading
	}
	if cmd.Flags().Changed("speed") {
		sc.Vehicle.DesiredSpeed = speed
	}
	if cmd.Flags().Changed("current") {
		sc.Vehicle.CurrentSpeed = current
		sc.Vehicle.CurrentEnabled = current > 0
	}
	if cmd.Flags().Changed("current-dir") {
		sc.Vehicle.CurrentDirDeg = currentDir
	}
	if cmd.Flags().Changed("yaw0") {
		sc.InitState.YawDeg = yaw0
	}
	if cmd.Flags().Changed("mode") {
		sc.Vehicle.Mode = mode
	}
	if cmd.Flags().Changed("bandwidth") {
		sc.Autopilot.Bandwidth = bandwidth
	}
	if cmd.Flags().Changed("damping") {
		sc.Autopilot.Damping = damping
	}

	return sc, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	vehicleName := args[0]

	sc, err := buildScenario(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	veh, err := registry.GetVehicle(vehicleName, sc)
	if err != nil {
		return err
	}

	exp := experiment.New(veh, sc.SimSpec(), sc.EtaInit())
	if err := exp.Setup(registry.DefaultMetrics(sc)); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", vehicleName)
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(vehicleName, sc.Vehicle.Mode, sc.Dt, sc.Duration, result)
	if err != nil {
		return err
	}

	finalEta, _ := result.Final()
	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("samples: %d\n", result.Data.Len())
	fmt.Printf("final heading: %.2f deg\n", gnc.Ssa(finalEta[5])*gnc.R2D)
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}

	return nil
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
	fmt.Fprintln(w, "ID\tVEHICLE\tMODE\tTIME\tDURATION\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1fs\t%.3fs\n",
			run.ID,
			run.Vehicle,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
		)
	}

	return w.Flush()
}

var plotCaptions = map[int]string{
	0:  "north position [m]",
	1:  "east position [m]",
	5:  "yaw [rad]",
	6:  "surge velocity [m/s]",
	7:  "sway velocity [m/s]",
	11: "yaw rate [rad/s]",
	12: "commanded rudder [rad]",
	13: "actual rudder [rad]",
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("vehicle: %s (%s)\n", meta.Vehicle, meta.Mode)
	fmt.Printf("samples: %d\n\n", len(rows))

	for _, col := range []int{0, 1, 5, 6, 7, 11, 12, 13} {
		if col >= len(rows[0]) {
			continue
		}
		data := make([]float64, len(rows))
		for i := range rows {
			data[i] = rows[i][col]
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(plotCaptions[col]),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to plot")
	}
	if len(rows[0]) <= xAxis || len(rows[0]) <= yAxis {
		return fmt.Errorf("history has %d columns, axes %d/%d out of range", len(rows[0]), xAxis, yAxis)
	}

	fmt.Printf("phase plot: %s\n", meta.ID)
	fmt.Printf("x: column %d, y: column %d\n\n", xAxis, yAxis)

	xData := make([]float64, len(rows))
	yData := make([]float64, len(rows))
	for i := range rows {
		xData[i] = rows[i][xAxis]
		yData[i] = rows[i][yAxis]
	}

	xMin, xMax := bounds(xData)
	yMin, yMax := bounds(yData)
	xRange, yRange := xMax-xMin, yMax-yMin
	if xRange == 0 {
		xRange = 1
	}
	if yRange == 0 {
		yRange = 1
	}

	const width, height = 70, 20
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	for i := range xData {
		px := int(float64(width-1) * (xData[i] - xMin) / xRange)
		py := int(float64(height-1) * (yData[i] - yMin) / yRange)
		py = height - 1 - py
		if px >= 0 && px < width && py >= 0 && py < height {
			switch {
			case i < len(xData)/3:
				canvas[py][px] = '.'
			case i < 2*len(xData)/3:
				canvas[py][px] = 'o'
			default:
				canvas[py][px] = '*'
			}
		}
	}

	for i := range canvas {
		fmt.Println(string(canvas[i]))
	}
	fmt.Printf("\nx: [%.3f, %.3f]  y: [%.3f, %.3f]\n", xMin, xMax, yMin, yMax)
	fmt.Println("legend: . = early, o = middle, * = late")

	return nil
}

func bounds(data []float64) (float64, float64) {
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	f, err := os.Open(filepath.Join(dataDir, runID, "states.csv"))
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(os.Stdout, f)
	return err
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	return st.ExportJSON(os.Stdout, args[0])
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	rows, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}
	if len(rows) < 2 {
		return fmt.Errorf("no track to export")
	}

	svg := export.TrackToSVG(export.TrackFromHistory(rows), 800, 600, "#00ff88")
	if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func benchVehicle(cmd *cobra.Command, args []string) error {
	vehicleName := args[0]

	registry := experiment.NewRegistry()
	sc := config.GetPreset("calm")

	durations := []float64{60.0, 600.0, 1800.0}
	dts := []float64{0.01, 0.1}

	fmt.Printf("benchmarking %s\n\n", vehicleName)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, dur := range durations {
		for _, step := range dts {
			sc.Duration = dur
			sc.Dt = step

			veh, err := registry.GetVehicle(vehicleName, sc)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := sim.Simulate(context.Background(), veh, sc.EtaInit(), sc.SimSpec())
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			steps := result.Data.Len()
			stepsPerSec := float64(steps) / elapsed.Seconds()

			fmt.Fprintf(w, "%.0fs\t%.3fs\t%d\t%v\t%.0f\n",
				dur, step, steps, elapsed, stepsPerSec)
		}
	}

	return w.Flush()
}

func tuneAutopilot(cmd *cobra.Command, args []string) error {
	vehicleName := args[0]

	sc, err := buildScenario(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()

	tuner := &optim.Tuner{
		Bandwidths: []float64{0.5, 0.6, 0.8, 1.0},
		Dampings:   []float64{0.9, 1.0, 1.1},
		Metric:     "heading_rms",
	}

	build := func(cand optim.Candidate) (*experiment.Experiment, error) {
		trial := *sc
		trial.Autopilot.Bandwidth = cand.Bandwidth
		trial.Autopilot.Damping = cand.Damping

		veh, err := registry.GetVehicle(vehicleName, &trial)
		if err != nil {
			return nil, err
		}
		exp := experiment.New(veh, trial.SimSpec(), trial.EtaInit())
		if err := exp.Setup(registry.DefaultMetrics(&trial)); err != nil {
			return nil, err
		}
		return exp, nil
	}

	fmt.Printf("tuning %s autopilot (minimizing heading_rms)...\n\n", vehicleName)
	best, val, trials, err := tuner.Run(cmd.Context(), build)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "BANDWIDTH\tDAMPING\tHEADING_RMS")
	for _, tr := range trials {
		if tr.Err != nil {
			fmt.Fprintf(w, "%.2f\t%.2f\tfailed: %v\n", tr.Candidate.Bandwidth, tr.Candidate.Damping, tr.Err)
			continue
		}
		fmt.Fprintf(w, "%.2f\t%.2f\t%.6f\n", tr.Candidate.Bandwidth, tr.Candidate.Damping, tr.Value)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nbest: bandwidth %.2f, damping %.2f (heading_rms %.6f rad)\n",
		best.Bandwidth, best.Damping, val)
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	vehicleName := args[0]

	sc, err := buildScenario(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	veh, err := registry.GetVehicle(vehicleName, sc)
	if err != nil {
		return err
	}

	m := viz.NewModel(veh, sc.EtaInit(), sc.Dt, sc.Vehicle.HeadingDeg, stepsPerFrame)

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
