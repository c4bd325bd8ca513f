// Package main runs the overlay benchmark: batch latency, reprojection
// accuracy across orientations and fit modes, and regression detection
// against a stored baseline. It exits non-zero when a budget is exceeded or
// a regression is detected.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/banshee-data/pose-overlay/internal/benchmark"
	"github.com/banshee-data/pose-overlay/internal/config"
	"github.com/banshee-data/pose-overlay/internal/fsutil"
	"github.com/banshee-data/pose-overlay/internal/monitoring"
	"github.com/banshee-data/pose-overlay/internal/version"
)

// Config holds the command-line options.
type Config struct {
	ConfigPath     string
	BaselinePath   string
	OutputDir      string
	UpdateBaseline bool
	Quiet          bool
	ShowVersion    bool
}

func main() {
	cfg := parseFlags()

	if cfg.ShowVersion {
		fmt.Println(version.String("overlay-bench"))
		return
	}
	if cfg.Quiet {
		monitoring.SetLogger(nil)
	}

	ok, err := run(cfg)
	if err != nil {
		log.Fatalf("Benchmark failed: %v", err)
	}
	if !ok {
		os.Exit(1)
	}
}

func parseFlags() Config {
	cfg := Config{}

	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to overlay config JSON (defaults to "+config.DefaultConfigPath+" when present)")
	flag.StringVar(&cfg.BaselinePath, "baseline", "", "Baseline metrics JSON (overrides baseline_path in config)")
	flag.StringVar(&cfg.OutputDir, "out", "", "Directory for report.md, benchmark-comparison.json and charts")
	flag.BoolVar(&cfg.UpdateBaseline, "update-baseline", false, "Write the current metrics as the new baseline")
	flag.BoolVar(&cfg.Quiet, "quiet", false, "Suppress progress logging")
	flag.BoolVar(&cfg.ShowVersion, "version", false, "Print version and exit")

	flag.Parse()
	return cfg
}

func loadConfig(path string) (*config.OverlayConfig, error) {
	if path == "" {
		if _, err := os.Stat(config.DefaultConfigPath); err != nil {
			return config.EmptyOverlayConfig(), nil
		}
		path = config.DefaultConfigPath
	}
	return config.LoadOverlayConfig(path)
}

func run(cfg Config) (bool, error) {
	oc, err := loadConfig(cfg.ConfigPath)
	if err != nil {
		return false, err
	}
	if cfg.BaselinePath != "" {
		oc.BaselinePath = &cfg.BaselinePath
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fsys := fsutil.OSFileSystem{}
	report, err := benchmark.Run(ctx, oc, fsys, nil)
	if err != nil {
		return false, err
	}

	fmt.Println(report.Markdown())

	if cfg.OutputDir != "" {
		if err := benchmark.WriteArtifacts(fsys, cfg.OutputDir, report); err != nil {
			return false, err
		}
		log.Printf("Results exported to: %s", cfg.OutputDir)
	}

	if cfg.UpdateBaseline {
		if err := benchmark.SaveBaseline(fsys, oc.GetBaselinePath(), report.Current); err != nil {
			return false, err
		}
		log.Printf("Baseline updated: %s", oc.GetBaselinePath())
	}

	if !report.CriticalPassed {
		fmt.Println("Critical performance thresholds exceeded")
	}
	if n := len(report.Regressions); n > 0 {
		fmt.Printf("%d performance regressions detected\n", n)
	}
	if report.Passed() {
		fmt.Println("All performance benchmarks passed")
	}
	return report.Passed(), nil
}
