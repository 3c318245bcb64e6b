package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/membranelab/pervaporation/pkg/components"
	"github.com/membranelab/pervaporation/pkg/membrane"
	"github.com/membranelab/pervaporation/pkg/mixture"
	"github.com/membranelab/pervaporation/pkg/optimizer"
	"github.com/membranelab/pervaporation/pkg/pervaporation"
	"github.com/membranelab/pervaporation/pkg/server"
)

type simulateOpts struct {
	// data files
	componentsPath string
	mixturesPath   string
	membranePath   string
	mixtureName    string

	// run
	feedTemperature float64
	feedAmount      float64
	feedFraction    float64
	area            float64
	steps           int
	stepHours       float64
	precision       float64
	nonIsothermal   bool

	// permeate side
	permeatePressure    float64
	permeateTemperature float64

	// outputs
	pretty   bool
	csvPath  string
	jsonPath string
}

type fitOpts struct {
	component    int
	n, m         int
	zeroBoundary bool
}

func main() {
	root := &cobra.Command{
		Use:   "pervap",
		Short: "Batch pervaporation simulation and membrane characterisation",
		Long: `The pervap tool models pervaporation of binary mixtures through dense
membranes: it integrates batch separation runs (isothermal or with a
feed-side energy balance), fits composition/temperature permeance
functions from diffusion-curve measurements, and serves simulations
over a websocket endpoint.

Examples:
  pervap simulate --membrane conf/pervap_4101.yaml --mixture H2O_EtOH \
    --feed-temperature 368.15 --feed-fraction 0.1 --steps 50 --step-hours 0.2
  pervap fit measurements.csv --component 0 --zero-boundary
  pervap serve --config conf/server.ini`,
	}

	root.AddCommand(simulateCmd(), fitCmd(), serveCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	var o simulateOpts
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Integrate a batch separation run and print the trajectory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(o)
		},
	}

	cmd.Flags().StringVar(&o.componentsPath, "components", "conf/components.yaml", "component table (YAML)")
	cmd.Flags().StringVar(&o.mixturesPath, "mixtures", "conf/mixtures.yaml", "mixture table (YAML)")
	cmd.Flags().StringVar(&o.membranePath, "membrane", "", "membrane definition (YAML)")
	cmd.Flags().StringVar(&o.mixtureName, "mixture", "", "mixture name from the mixture table")

	cmd.Flags().Float64VarP(&o.feedTemperature, "feed-temperature", "t", 368.15, "initial feed temperature (K)")
	cmd.Flags().Float64Var(&o.feedAmount, "feed-amount", 1.0, "initial feed amount (kg)")
	cmd.Flags().Float64VarP(&o.feedFraction, "feed-fraction", "x", 0.1, "initial first-component weight fraction [0..1]")
	cmd.Flags().Float64VarP(&o.area, "area", "a", 0.017, "membrane area (m2)")
	cmd.Flags().IntVarP(&o.steps, "steps", "s", 50, "number of integration steps")
	cmd.Flags().Float64Var(&o.stepHours, "step-hours", 0.2, "step duration (h)")
	cmd.Flags().Float64Var(&o.precision, "precision", pervaporation.DefaultPrecision, "flux solver convergence threshold")
	cmd.Flags().BoolVar(&o.nonIsothermal, "non-isothermal", false, "apply the feed-side energy balance")

	cmd.Flags().Float64Var(&o.permeatePressure, "permeate-pressure", 0, "evacuated permeate total pressure (kPa)")
	cmd.Flags().Float64Var(&o.permeateTemperature, "permeate-temperature", 0, "condensing permeate temperature (K); overrides --permeate-pressure")

	cmd.Flags().BoolVar(&o.pretty, "pretty", true, "format output as a table instead of CSV-like lines")
	cmd.Flags().StringVar(&o.csvPath, "csv", "", "write the trajectory to a CSV file")
	cmd.Flags().StringVar(&o.jsonPath, "json", "", "write the trajectory to a JSON file")

	_ = cmd.MarkFlagRequired("membrane")
	_ = cmd.MarkFlagRequired("mixture")
	return cmd
}

func runSimulate(o simulateOpts) error {
	comps, err := components.Load(o.componentsPath)
	if err != nil {
		return err
	}
	mixtures, err := mixture.Load(o.mixturesPath, comps)
	if err != nil {
		return err
	}
	mix, err := mixtures.Get(o.mixtureName)
	if err != nil {
		return err
	}
	memb, err := membrane.Load(o.membranePath)
	if err != nil {
		return err
	}

	permeate := pervaporation.EvacuatedPermeate(o.permeatePressure)
	if o.permeateTemperature > 0 {
		permeate = pervaporation.CondensingPermeate(o.permeateTemperature)
	}
	cond := pervaporation.Conditions{
		MembraneArea:           o.area,
		InitialFeedTemperature: o.feedTemperature,
		Permeate:               permeate,
		InitialFeedAmount:      o.feedAmount,
		InitialFeedComposition: mixture.Composition{P: o.feedFraction, Type: mixture.Weight},
	}

	pv := pervaporation.Pervaporation{Membrane: memb, Mixture: mix}
	var model pervaporation.ProcessModel
	if o.nonIsothermal {
		model, err = pv.IdealNonIsothermalProcess(cond, o.steps, o.stepHours, o.precision)
	} else {
		model, err = pv.IdealIsothermalProcess(cond, o.steps, o.stepHours, o.precision)
	}
	if err != nil {
		return err
	}

	factors := model.SeparationFactors()
	if o.pretty {
		tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "TIME (h)\tT_feed (K)\tx1_feed\tx1_perm\tJ1 (kg/m2h)\tJ2 (kg/m2h)\tMASS (kg)\tSEP FACTOR")
		fmt.Fprintln(tw, "--------\t----------\t-------\t-------\t-----------\t-----------\t---------\t----------")
		for i, s := range model.Snapshots {
			fmt.Fprintf(tw, "%.2f\t%.2f\t%.4f\t%.4f\t%.4g\t%.4g\t%.4f\t%.1f\n",
				s.Time, s.FeedTemperature,
				s.FeedComposition.First(), s.PermeateComposition.First(),
				s.PartialFluxes.First, s.PartialFluxes.Second,
				s.FeedMass, factors[i])
		}
		tw.Flush()
	} else {
		fmt.Println("# time, t_feed, x1_feed, x1_perm, j1, j2, mass, sep_factor")
		for i, s := range model.Snapshots {
			fmt.Printf("%.2f, %.2f, %.4f, %.4f, %.4g, %.4g, %.4f, %.1f\n",
				s.Time, s.FeedTemperature,
				s.FeedComposition.First(), s.PermeateComposition.First(),
				s.PartialFluxes.First, s.PartialFluxes.Second,
				s.FeedMass, factors[i])
		}
	}

	if o.csvPath != "" {
		if err := writeTrajectoryCSV(o.csvPath, model); err != nil {
			return fmt.Errorf("write csv: %w", err)
		}
	}
	if o.jsonPath != "" {
		if err := writeTrajectoryJSON(o.jsonPath, model); err != nil {
			return fmt.Errorf("write json: %w", err)
		}
	}

	last := len(model.Snapshots) - 1
	fmt.Println()
	fmt.Printf("separation over %d steps of %g h:\n", o.steps, o.stepHours)
	fmt.Printf("- feed mass:       %.4f -> %.4f kg\n", model.Snapshots[0].FeedMass, model.Snapshots[last].FeedMass)
	fmt.Printf("- first component: %.4f -> %.4f (weight)\n",
		model.Snapshots[0].FeedComposition.First(), model.Snapshots[last].FeedComposition.First())
	fmt.Printf("- sep factor:      %.1f -> %.1f\n", factors[0], factors[last])
	fmt.Println()
	return nil
}

func writeTrajectoryCSV(path string, model pervaporation.ProcessModel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"time_hours", "feed_temperature", "x1_feed", "x1_permeate",
		"flux_first", "flux_second", "feed_mass", "separation_factor",
	}); err != nil {
		return err
	}
	factors := model.SeparationFactors()
	for i, s := range model.Snapshots {
		record := []string{
			fmtFloat(s.Time), fmtFloat(s.FeedTemperature),
			fmtFloat(s.FeedComposition.First()), fmtFloat(s.PermeateComposition.First()),
			fmtFloat(s.PartialFluxes.First), fmtFloat(s.PartialFluxes.Second),
			fmtFloat(s.FeedMass), fmtFloat(factors[i]),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writeTrajectoryJSON(path string, model pervaporation.ProcessModel) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(model.Snapshots)
}

func fitCmd() *cobra.Command {
	var o fitOpts
	cmd := &cobra.Command{
		Use:   "fit FILE",
		Short: "Fit a permeance function from measurement data",
		Long: `Fit reads measurements from a CSV file with three columns per row:
first-component weight fraction, feed temperature (K), permeance
(kg/(m2*h*kPa)). A header row is skipped if present.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFit(o, args[0])
		},
	}

	cmd.Flags().IntVarP(&o.component, "component", "c", 0, "component index the permeances belong to (0 or 1)")
	cmd.Flags().IntVarP(&o.n, "order-x", "n", optimizer.AutoOrder, "polynomial order in composition (-1 = search)")
	cmd.Flags().IntVarP(&o.m, "order-t", "m", optimizer.AutoOrder, "polynomial order in temperature (-1 = search)")
	cmd.Flags().BoolVar(&o.zeroBoundary, "zero-boundary", false, "pin the fit to zero permeance at vanishing component fraction")
	return cmd
}

func runFit(o fitOpts, path string) error {
	data, err := readMeasurements(path)
	if err != nil {
		return err
	}

	result, err := optimizer.Fit(data, optimizer.Options{
		N:            o.n,
		M:            o.m,
		Component:    o.component,
		ZeroBoundary: o.zeroBoundary,
	})
	if err != nil {
		return err
	}

	fn := result.Function
	fmt.Printf("fit over %d measurements (order n=%d, m=%d):\n", len(data), fn.N(), fn.M())
	fmt.Printf("- alpha: %g\n", fn.Alpha)
	for i, a := range fn.A {
		fmt.Printf("- a[%d]:  %g\n", i, a)
	}
	for i, b := range fn.B {
		fmt.Printf("- b[%d]:  %g\n", i, b)
	}
	fmt.Printf("- rms:   %g\n", result.RMS)
	if !result.Converged {
		fmt.Println("- warning: the optimizer did not converge; coefficients are the best found")
	}
	return nil
}

// readMeasurements parses "x, temperature, permeance" rows, tolerating one
// header line.
func readMeasurements(path string) (optimizer.Measurements, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.TrimLeadingSpace = true

	var data optimizer.Measurements
	for line := 1; ; line++ {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(record) != 3 {
			return nil, fmt.Errorf("%s:%d: want 3 columns, got %d", path, line, len(record))
		}
		x, errX := strconv.ParseFloat(record[0], 64)
		t, errT := strconv.ParseFloat(record[1], 64)
		p, errP := strconv.ParseFloat(record[2], 64)
		if errX != nil || errT != nil || errP != nil {
			if line == 1 {
				continue // header
			}
			return nil, fmt.Errorf("%s:%d: non-numeric row %v", path, line, record)
		}
		data = append(data, optimizer.Measurement{X: x, T: t, P: p})
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%s: no measurements", path)
	}
	return data, nil
}

func serveCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve simulations over a websocket endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "conf/server.ini", "server configuration (ini)")
	return cmd
}

func runServe(configPath string) error {
	cfg, err := server.LoadConfig(configPath)
	if err != nil {
		return err
	}
	comps, err := components.Load(cfg.ComponentsPath)
	if err != nil {
		return err
	}
	mixtures, err := mixture.Load(cfg.MixturesPath, comps)
	if err != nil {
		return err
	}
	membranes := make([]membrane.Membrane, 0, len(cfg.MembranePaths))
	for _, path := range cfg.MembranePaths {
		m, err := membrane.Load(path)
		if err != nil {
			return err
		}
		membranes = append(membranes, m)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	return server.NewServer(cfg, log, mixtures, membranes).Serve()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
