package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/sparks/internal/config"
	"github.com/san-kum/sparks/internal/export"
	"github.com/san-kum/sparks/internal/gui"
	"github.com/san-kum/sparks/internal/loop"
	"github.com/san-kum/sparks/internal/metrics"
	"github.com/san-kum/sparks/internal/particle"
	"github.com/san-kum/sparks/internal/render"
	"github.com/san-kum/sparks/internal/tui"
)

var (
	configFile string
	preset     string
	capacity   int
	rate       int
	seed       int64
	width      int
	height     int
	fps        int
	// tui
	logFile string
	// bench
	frames   int
	rates    []int
	cols     int
	rows     int
	jsonOut  string
	svgOut   string
	chartOut string
)

func main() {
	log.SetFlags(log.Ltime)
	log.SetPrefix("sparks: ")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sparks",
		Short: "instanced particle playground",
		RunE:  runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset spawn policy")
	pf.IntVar(&capacity, "capacity", particle.DefaultCapacity, "maximum live particles")
	pf.IntVar(&rate, "rate", particle.DefaultRate, "particles spawned per tick while the pointer is down")
	pf.Int64Var(&seed, "seed", 0, "random seed (0: time based)")
	pf.IntVar(&width, "width", config.DefaultWidth, "window width")
	pf.IntVar(&height, "height", config.DefaultHeight, "window height")
	pf.IntVar(&fps, "fps", config.DefaultFPS, "target frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run in an OpenGL window",
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run in the terminal",
		RunE:  runTUI,
	}
	tuiCmd.Flags().StringVar(&logFile, "log", "", "write diagnostics to this file")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "run headless frames with a scripted pointer",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 600, "frames per run")
	benchCmd.Flags().IntSliceVar(&rates, "rates", nil, "spawn rates to compare (default: --rate)")
	benchCmd.Flags().IntVar(&cols, "cols", 80, "canvas columns")
	benchCmd.Flags().IntVar(&rows, "rows", 24, "canvas rows")
	benchCmd.Flags().StringVar(&jsonOut, "json", "", "write a json report to this path")
	benchCmd.Flags().StringVar(&svgOut, "svg", "", "write the final canvas frame of the last run as svg")
	benchCmd.Flags().StringVar(&chartOut, "chart-svg", "", "write the live count of the last run as svg")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list spawn presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.Presets[name]
				fmt.Printf("  %-10s rate=%d speed=%g scale=%g chroma=%g\n", name, p.Rate, p.Speed, p.Scale, p.Chroma)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective config as yaml",
		Args:  cobra.MaximumNArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(guiCmd, tuiCmd, benchCmd, presetsCmd, configCmd)
	return rootCmd
}

// resolveConfig layers defaults, preset, config file and explicit flags, in
// that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		if err := config.LoadInto(configFile, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("capacity") {
		cfg.Capacity = capacity
	}
	if flags.Changed("rate") {
		cfg.Spawn.Rate = rate
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("width") {
		cfg.Window.Width = width
	}
	if flags.Changed("height") {
		cfg.Window.Height = height
	}
	if flags.Changed("fps") {
		cfg.Window.FPS = fps
		cfg.Terminal.FPS = fps
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	return gui.Run(cmd.Context(), cfg)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	// The alternate screen owns the terminal, so diagnostics go to a file
	// or nowhere.
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "sparks")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	return tui.Run(cmd.Context(), cfg)
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(cfg)
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", args[0])
	return nil
}

type benchResult struct {
	rate    int
	elapsed time.Duration
	stats   *metrics.Population
	canvas  *render.CanvasDevice
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(rates) == 0 {
		rates = []int{cfg.Spawn.Rate}
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	fmt.Printf("benchmarking %d frames on %dx%d, capacity %d\n\n", frames, w, h, cfg.Capacity)

	results := make([]benchResult, 0, len(rates))
	for _, r := range rates {
		res, err := benchRate(cmd.Context(), cfg, r)
		if err != nil {
			return err
		}
		results = append(results, res)
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RATE\tFRAMES\tPEAK\tFINAL\tSPAWNED\tCULLED\tDROPPED\tMEAN\tMAX\tFRAMES/SEC")
	for _, res := range results {
		s := res.stats
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%d\t%d\t%v\t%v\t%.0f\n",
			res.rate, s.Ticks, s.Peak, s.Last.Live, s.Spawned, s.Culled, s.Dropped,
			s.MeanElapsed().Round(time.Microsecond), s.MaxElapsed.Round(time.Microsecond),
			float64(s.Ticks)/res.elapsed.Seconds())
	}
	tw.Flush()
	fmt.Println()

	for _, res := range results {
		history := res.stats.History()
		if len(history) == 0 {
			continue
		}
		graph := asciigraph.Plot(history,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("live particles, rate %d", res.rate)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return writeBenchOutputs(cfg, results)
}

func writeBenchOutputs(cfg *config.Config, results []benchResult) error {
	if jsonOut != "" {
		report := &export.Report{
			Width:    cfg.Window.Width,
			Height:   cfg.Window.Height,
			Capacity: cfg.Capacity,
			Frames:   frames,
			Seed:     cfg.Seed,
		}
		for _, res := range results {
			report.Runs = append(report.Runs, export.NewRun(res.rate, res.stats, res.elapsed))
		}
		if err := export.WriteJSON(jsonOut, report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("report: %s\n", jsonOut)
	}

	last := results[len(results)-1]
	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(export.CanvasToSVG(last.canvas, 10)), 0644); err != nil {
			return err
		}
		fmt.Printf("frame: %s\n", svgOut)
	}
	if chartOut != "" {
		svg := export.SeriesToSVG(last.stats.History(), 800, 300, "#ffaa00")
		if err := os.WriteFile(chartOut, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("chart: %s\n", chartOut)
	}
	return nil
}

func benchRate(ctx context.Context, cfg *config.Config, r int) (benchResult, error) {
	if r < 0 || r > cfg.Capacity {
		return benchResult{}, fmt.Errorf("rate %d outside [0, %d]", r, cfg.Capacity)
	}

	w, h := cfg.Window.Width, cfg.Window.Height
	policy := cfg.SpawnPolicy()
	policy.Rate = r

	store := particle.New(cfg.Capacity, rand.New(rand.NewSource(cfg.Seed)))
	canvas := render.NewCanvasDevice(cols, rows)
	renderer := render.New(canvas)
	if err := renderer.Setup(); err != nil {
		return benchResult{}, err
	}

	radius := float64(min(w, h)) / 4
	display := loop.NewHeadless(w, h, loop.Orbit(float64(w)/2, float64(h)/2, radius, 240))
	stats := metrics.NewPopulation(frames)

	l := loop.New(store, renderer, display, policy)
	l.AddObserver(stats)
	l.Start()

	start := time.Now()
	if _, err := display.Pump(ctx, frames); err != nil {
		return benchResult{}, err
	}
	return benchResult{rate: r, elapsed: time.Since(start), stats: stats, canvas: canvas}, nil
}
