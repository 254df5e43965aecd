package main

import (
	"flag"
	"fmt"
)

// Flags holds all command line flags for the walk-forward search command.
type Flags struct {
	// Run selection
	Market *string
	Output *string

	// Configuration layers
	BaseConfig   *string
	GlobalConfig *string
	RunConfig    *string
	DataRoot     *string
	EnvFile      *string

	// Execution options
	Workers *int
	Excel   *bool
	Verbose *bool

	// Help and version
	ShowVersion *bool
	ShowHelp    *bool
}

// NewFlags creates and registers all command line flags.
func NewFlags() *Flags {
	return &Flags{
		Market: flag.String("market", "", "Market key to run (required, must exist in config markets)"),
		Output: flag.String("output", "results", "Output directory for result tables"),

		BaseConfig:   flag.String("base", "configs/base.json", "Base configuration layer"),
		GlobalConfig: flag.String("global", "", "Global configuration layer (optional)"),
		RunConfig:    flag.String("config", "", "Per-run override configuration layer (optional)"),
		DataRoot:     flag.String("data-root", "data", "Root directory for relative data paths"),
		EnvFile:      flag.String("env", ".env", "Environment file to load"),

		Workers: flag.Int("workers", 0, "Candidate evaluation workers (0 = number of CPUs)"),
		Excel:   flag.Bool("excel", false, "Also write an Excel workbook report"),
		Verbose: flag.Bool("verbose", false, "Log per-fold search progress"),

		ShowVersion: flag.Bool("version", false, "Show version and exit"),
		ShowHelp:    flag.Bool("help", false, "Show usage help and exit"),
	}
}

// Validate checks flag combinations before any work starts.
func (f *Flags) Validate() error {
	if *f.ShowVersion || *f.ShowHelp {
		return nil
	}
	if *f.Market == "" {
		return fmt.Errorf("-market is required")
	}
	if *f.Workers < 0 {
		return fmt.Errorf("-workers must not be negative, got %d", *f.Workers)
	}
	return nil
}
