package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/leterax/go-stroll/internal/config"
	"github.com/leterax/go-stroll/internal/logger"
	"github.com/leterax/go-stroll/internal/tui"
	"github.com/leterax/go-stroll/pkg/render"
	"github.com/leterax/go-stroll/pkg/replay"
	"github.com/leterax/go-stroll/pkg/scene"
)

var (
	configFile string
	preset     string
	logLevel   string

	plot   bool
	expect string
)

func init() {
	// OpenGL and GLFW calls must stay on the main thread
	runtime.LockOSThread()
}

func main() {
	rootCmd := &cobra.Command{
		Use:           "stroll",
		Short:         "walk a character around a small scene",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runWindow,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "motion preset")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	windowCmd := &cobra.Command{
		Use:   "window",
		Short: "open the OpenGL window (default)",
		Args:  cobra.NoArgs,
		RunE:  runWindow,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "top-down view in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	replayCmd := &cobra.Command{
		Use:   "replay [script...]",
		Short: "run key scripts headless and report their trajectories",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReplay,
	}
	replayCmd.Flags().BoolVar(&plot, "plot", false, "plot speed and distance")
	replayCmd.Flags().StringVar(&expect, "expect", "", "fail unless the trajectory digest matches (hex)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list motion presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "list key bindings",
		Args:  cobra.NoArgs,
		RunE:  listKeys,
	}

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the effective configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}

	rootCmd.AddCommand(windowCmd, tuiCmd, replayCmd, presetsCmd, keysCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults, the config file, the preset and flag
// overrides, then installs the logger
func loadConfig(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, nil, err
		}
	}
	if preset != "" {
		if err := cfg.ApplyPreset(preset); err != nil {
			return nil, nil, err
		}
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = logLevel
	}

	log := logger.Init(logger.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	return cfg, log, nil
}

// startDebug wires the optional crash reporter and runtime viewer; the
// returned func flushes and stops them
func startDebug(cfg *config.Config, log *slog.Logger) func() {
	var stops []func()

	if cfg.Debug.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Debug.SentryDSN}); err != nil {
			log.Warn("sentry disabled", "err", err)
		} else {
			stops = append(stops, func() { sentry.Flush(2 * time.Second) })
		}
	}

	if cfg.Debug.StatsviewAddr != "" {
		// set configurations before calling statsview.New()
		viewer.SetConfiguration(viewer.WithAddr(cfg.Debug.StatsviewAddr))
		mgr := statsview.New()
		go mgr.Start()
		log.Info("statsview listening", "addr", "http://"+cfg.Debug.StatsviewAddr+"/debug/statsview")
		stops = append(stops, mgr.Stop)
	}

	return func() {
		for _, stop := range stops {
			stop()
		}
	}
}

func newScene(cfg *config.Config, log *slog.Logger) (*scene.Context, error) {
	opts, err := scene.OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	opts.Logger = log
	return scene.New(opts)
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer startDebug(cfg, log)()

	sc, err := newScene(cfg, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	r, err := render.NewRenderer(sc, cfg, log)
	if err != nil {
		return err
	}
	defer r.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return r.Run(ctx)
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	// the terminal belongs to bubbletea; keep logs to warnings on stderr
	log := logger.New(logger.Config{Level: "warn", Format: cfg.Logging.Format})
	defer startDebug(cfg, log)()

	sc, err := newScene(cfg, log)
	if err != nil {
		return err
	}
	defer sc.Close()

	return tui.Run(sc, tui.WithFrameInterval(time.Duration(float64(time.Second)*cfg.TickInterval())))
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	defer startDebug(cfg, log)()

	if expect != "" && len(args) > 1 {
		return fmt.Errorf("--expect needs a single script, got %d", len(args))
	}

	scripts := make([]*replay.Script, len(args))
	for i, path := range args {
		if scripts[i], err = replay.LoadScript(path); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	batch := replay.NewBatch(ctx, runtime.NumCPU(), func(s *replay.Script) (*scene.Context, error) {
		c := *cfg
		// the command line preset wins over the script's
		if s.Preset != "" && preset == "" {
			if err := c.ApplyPreset(s.Preset); err != nil {
				return nil, err
			}
		}
		return newScene(&c, log)
	})
	for i, s := range scripts {
		batch.Submit(args[i], s)
	}
	results := batch.Wait()
	log.Debug("replay finished", "scripts", len(results), "elapsed", time.Since(start))

	var failed int
	for i, res := range results {
		if i > 0 {
			fmt.Println()
		}
		if res.Err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", res.Name, res.Err)
			failed++
			continue
		}
		printSummary(res.Name, res.Trajectory)
		if plot && len(res.Trajectory.Frames) > 0 {
			printPlots(res.Trajectory)
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d replays failed", failed, len(results))
	}

	if expect != "" {
		digest := fmt.Sprintf("%016x", results[0].Trajectory.Digest())
		if !strings.EqualFold(strings.TrimPrefix(expect, "0x"), digest) {
			return fmt.Errorf("digest mismatch: expected %s, got %s", expect, digest)
		}
	}
	return nil
}

func printSummary(path string, traj *replay.Trajectory) {
	f := traj.Final()
	s := traj.Script
	name := s.Name
	if name == "" {
		name = path
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "script\t%s\n", name)
	fmt.Fprintf(w, "ticks\t%d @ %d Hz\n", len(traj.Frames), s.TickRate)
	fmt.Fprintf(w, "position\t%+.4f, %+.4f, %+.4f\n", f.Pose.Position.X(), f.Pose.Position.Y(), f.Pose.Position.Z())
	fmt.Fprintf(w, "heading\t%+.2f°\n", f.Pose.Heading()*180/math.Pi)
	fmt.Fprintf(w, "velocity\t%+.4f\n", f.Velocity.Z())
	fmt.Fprintf(w, "state\t%s\n", f.State)
	fmt.Fprintf(w, "transitions\t%d\n", traj.Transitions())
	fmt.Fprintf(w, "digest\t%016x\n", traj.Digest())
	w.Flush()
}

func printPlots(traj *replay.Trajectory) {
	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{traj.Speeds(), "longitudinal speed"},
		{traj.Distances(), "distance from origin"},
	} {
		fmt.Println()
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
	}
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tDECELERATION\tACCELERATION\tIDLE UPDATE")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%v\t%v\t%v\n", name, p.Deceleration, p.Acceleration, p.UpdateWhileIdle)
	}
	return w.Flush()
}

func listKeys(cmd *cobra.Command, args []string) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	km, err := cfg.KeyMap()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tDIRECTION")
	for _, b := range km.Bindings() {
		fmt.Fprintf(w, "%s\t%s\n", b.Key, b.Direction)
	}
	fmt.Fprintf(w, "esc\tquit\n")
	fmt.Fprintf(w, "\nanimation signal: %s\n", cfg.Input.AnimationSignal)
	return w.Flush()
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, log, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	log.Info("config written", "path", args[0])
	return nil
}
