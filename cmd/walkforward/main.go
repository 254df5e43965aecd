package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/quantfold/walkforward/internal/engine"
	"github.com/quantfold/walkforward/internal/monitoring"
	"github.com/quantfold/walkforward/internal/signal"
	"github.com/quantfold/walkforward/internal/walkforward"
	"github.com/quantfold/walkforward/pkg/config"
	"github.com/quantfold/walkforward/pkg/data"
	"github.com/quantfold/walkforward/pkg/reporting"
	"github.com/quantfold/walkforward/pkg/series"
)

const (
	AppName    = "Walk-Forward Search"
	AppVersion = "1.2.0"
)

func main() {
	flags := NewFlags()
	flag.Parse()

	if *flags.ShowVersion {
		fmt.Printf("%s v%s\n", AppName, AppVersion)
		return
	}
	if *flags.ShowHelp {
		printUsageHelp()
		return
	}
	if err := flags.Validate(); err != nil {
		log.Fatalf("❌ Flag validation error: %v", err)
	}

	printHeader()
	loadEnvironment(*flags.EnvFile)

	cfg, err := config.Load(*flags.BaseConfig, *flags.GlobalConfig, *flags.RunConfig)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	market, err := cfg.Market(*flags.Market)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	path := data.ResolvePath(*flags.DataRoot, market.DataFile)
	prices, err := data.NewCSVProvider().LoadSeries(path, market.Column)
	if err != nil {
		log.Fatalf("❌ Data error: %v", err)
	}
	log.Printf("📈 Loaded %s: %d observations, %s → %s", *flags.Market, prices.Len(),
		prices.First().Date.Format("2006-01-02"), prices.Last().Date.Format("2006-01-02"))

	runner, err := buildRunner(cfg, prices, *flags.Workers, *flags.Verbose)
	if err != nil {
		log.Fatalf("❌ Configuration error: %v", err)
	}

	log.Printf("🚀 Searching %s: %dy train / %dy test, %dd embargo, signal %s",
		*flags.Market, cfg.Walkforward.TrainYears, cfg.Walkforward.TestYears,
		cfg.Walkforward.EmbargoDays, cfg.Signal)

	result, err := runner.Run()
	if err != nil {
		log.Fatalf("❌ Search failed: %v", err)
	}

	if err := writeReports(cfg, result, runner.Monitor, *flags.Output, *flags.Excel); err != nil {
		log.Fatalf("❌ Report error: %v", err)
	}
	log.Printf("✅ Done in %s, results in %s", result.Elapsed.Round(time.Millisecond), *flags.Output)
}

func printHeader() {
	fmt.Printf("🎯 %s v%s\n", AppName, AppVersion)
	fmt.Printf("%s\n\n", strings.Repeat("=", 50))
}

func printUsageHelp() {
	fmt.Printf("%s v%s - walk-forward parameter search over daily price series\n\n", AppName, AppVersion)
	fmt.Printf("USAGE:\n  walkforward -market KEY [OPTIONS]\n\n")
	fmt.Println("Configuration merges up to three JSON layers (base, global, per-run")
	fmt.Println("override). Nested objects merge key by key; scalars and lists from a")
	fmt.Println("later layer replace earlier ones.")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}

func loadEnvironment(envFile string) {
	if err := godotenv.Load(envFile); err != nil {
		log.Printf("⚠️ Could not load %s (%v), continuing with process environment", envFile, err)
	}
}

// buildRunner assembles the search pipeline from the merged configuration.
func buildRunner(cfg *config.Config, prices series.Series, workers int, verbose bool) (*walkforward.Runner, error) {
	fn, err := signal.New(cfg.Signal)
	if err != nil {
		return nil, err
	}

	if workers == 0 {
		workers = cfg.Walkforward.Workers
	}

	return &walkforward.Runner{
		Data: prices,
		Evaluator: &engine.Evaluator{
			Signal: fn,
			Vol:    volConfig(cfg.Volatility),
			Cost:   engine.CostModel{OneWayBps: cfg.Costs.OneWayBps},
		},
		FoldCfg: walkforward.FoldConfig{
			TrainYears:  cfg.Walkforward.TrainYears,
			TestYears:   cfg.Walkforward.TestYears,
			EmbargoDays: cfg.Walkforward.EmbargoDays,
		},
		Grid: &walkforward.Grid{
			Domains:  domains(cfg.Parameters),
			MaxTotal: cfg.Walkforward.MaxCandidates,
		},
		Scorer: walkforward.Scorer{
			Mode:           cfg.Scoring.Mode,
			ReturnWeight:   cfg.Scoring.ReturnWeight,
			DrawdownWeight: cfg.Scoring.DrawdownWeight,
			TurnoverWeight: cfg.Scoring.TurnoverWeight,
			TailWeight:     cfg.Scoring.TailWeight,
		},
		Workers:      workers,
		StaticParams: signal.Params(cfg.Static),
		Monitor:      monitoring.NewRunMetrics(),
		Verbose:      verbose,
	}, nil
}

func volConfig(v config.VolatilityConfig) engine.VolConfig {
	return engine.VolConfig{
		TargetVol:         v.TargetVol,
		MaxLeverage:       v.MaxLeverage,
		MinHistory:        v.MinHistory,
		HalfLifeDays:      v.HalfLifeDays,
		VolFloor:          v.VolFloor,
		VolCap:            v.VolCap,
		AlwaysOnThreshold: v.AlwaysOnThreshold,
		GapsThreshold:     v.GapsThreshold,
		MaxFlatRun:        v.MaxFlatRun,
	}
}

func domains(params []config.ParameterConfig) []walkforward.Domain {
	out := make([]walkforward.Domain, len(params))
	for i, p := range params {
		d := walkforward.Domain{Name: p.Name, Values: p.Values}
		if p.Refine != nil {
			d.Refine = &walkforward.RefineSpec{
				Step:    p.Refine.Step,
				BandPct: p.Refine.BandPct,
				MinBand: p.Refine.MinBand,
				Min:     p.Refine.Min,
				Max:     p.Refine.Max,
			}
		}
		out[i] = d
	}
	return out
}

func paramNames(params []config.ParameterConfig) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	return names
}

// writeReports prints the console tables and writes every result artifact
// into the output directory.
func writeReports(cfg *config.Config, result *walkforward.RunResult, monitor *monitoring.RunMetrics, outDir string, excel bool) error {
	names := paramNames(cfg.Parameters)

	console := reporting.NewConsoleReporter(names)
	console.PrintFolds(result)
	console.PrintMetrics(result)
	console.PrintSummary(result)

	if err := reporting.EnsureDir(filepath.Join(outDir, "folds.csv")); err != nil {
		return err
	}

	csv := reporting.NewCSVReporter(names)
	if _, err := csv.WriteFolds(result, filepath.Join(outDir, "folds.csv")); err != nil {
		return err
	}
	if _, err := csv.WriteMetrics(result, filepath.Join(outDir, "metrics.csv")); err != nil {
		return err
	}
	if !result.Stitched.Empty() {
		if _, err := csv.WriteSeries(result.Stitched, filepath.Join(outDir, "stitched.csv")); err != nil {
			return err
		}
	}
	if !result.Static.Empty() {
		if _, err := csv.WriteSeries(result.Static, filepath.Join(outDir, "static.csv")); err != nil {
			return err
		}
	}

	if excel {
		if err := reporting.NewExcelReporter(names).WriteWorkbook(result, filepath.Join(outDir, "report.xlsx")); err != nil {
			return err
		}
	}

	if monitor != nil {
		if err := monitor.Write(filepath.Join(outDir, "run_metrics.prom")); err != nil {
			log.Printf("⚠️ Could not write run metrics: %v", err)
		}
	}
	return nil
}
