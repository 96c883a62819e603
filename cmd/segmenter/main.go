// Segmenter runs the RFM segmentation pipeline from the command line.
//
// Usage:
//
//	segmenter run --period JULI --out reports/
//	segmenter summary --period "Semua Data (Q3)"
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"rfmpulse/internal/config"
	"rfmpulse/internal/exporter"
	"rfmpulse/internal/infrastructure"
	"rfmpulse/internal/operations"
	"rfmpulse/internal/services"
	"rfmpulse/internal/validation"
	"rfmpulse/pkg/contracts"
	"rfmpulse/pkg/contracts/domain"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:    "segmenter",
		Usage:   "Segment customers by recency, frequency and monetary value and recommend ads strategies",
		Version: contracts.GetFullVersionString(),

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
				EnvVars: []string{config.EnvConfigFile},
			},
			&cli.StringFlag{
				Name:  "base-dir",
				Usage: "Base directory for data, reports and logs (defaults to the executable directory)",
			},
			&cli.StringFlag{
				Name:  "sales",
				Usage: "Sales workbook, overrides the configured path",
			},
			&cli.StringFlag{
				Name:  "ads",
				Usage: "Ads workbook, overrides the configured path",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level (debug, info, warn, error)",
			},
		},

		Commands: []*cli.Command{
			runCommand(),
			summaryCommand(),
		},
	}
}

func periodFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "period",
		Aliases: []string{"p"},
		Usage:   fmt.Sprintf("Period sheet to analyse, empty for %q", domain.AllPeriods),
	}
}

func runCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the full pipeline, write the CSV exports and print the strategy table",
		Flags: []cli.Flag{
			periodFlag(),
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Output directory, overrides the configured reports directory",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "table",
				Usage: "Output format (table, json)",
			},
		},
		Action: runPipeline,
	}
}

func summaryCommand() *cli.Command {
	return &cli.Command{
		Name:  "summary",
		Usage: "Print the executive summary of a period",
		Flags: []cli.Flag{
			periodFlag(),
			&cli.StringFlag{
				Name:  "format",
				Value: "table",
				Usage: "Output format (table, json)",
			},
		},
		Action: runSummary,
	}
}

func runPipeline(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer env.close(c.Context)

	result, err := env.service.Export(c.Context, c.String("period"))
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, result)
	}
	printStrategies(c.App.Writer, result)
	return nil
}

func runSummary(c *cli.Context) error {
	env, err := setup(c)
	if err != nil {
		return err
	}
	defer env.close(c.Context)

	summary, err := env.service.Summary(c.Context, c.String("period"))
	if err != nil {
		return err
	}

	if c.String("format") == "json" {
		return writeJSON(c.App.Writer, summary)
	}
	printSummary(c.App.Writer, summary)
	return nil
}

// environment is the wiring shared by the commands
type environment struct {
	service   *services.AnalysisService
	providers *infrastructure.OTelProviders
}

func (e *environment) close(ctx context.Context) {
	_ = e.providers.Shutdown(ctx)
}

func setup(c *cli.Context) (*environment, error) {
	var (
		cfg *config.Config
		err error
	)
	if path := c.String("config"); path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if v := c.String("base-dir"); v != "" {
		cfg.Paths.BaseDir = v
	}
	if v := c.String("sales"); v != "" {
		cfg.Analysis.SalesWorkbook = v
	}
	if v := c.String("ads"); v != "" {
		cfg.Analysis.AdsWorkbook = v
	}
	if v := c.String("out"); v != "" {
		cfg.Paths.ReportsDir = v
	}
	if v := c.String("log-level"); v != "" {
		cfg.Logging.Level = v
	}
	// Nothing scrapes a one-shot run.
	cfg.Telemetry.MetricsEnabled = false

	logger := infrastructure.NewLoggerWithWriter(c.App.ErrWriter, cfg.Logging)

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	validator := validation.NewFileValidator(logger)
	if err := validator.EnsureWritableDirectory(paths.ReportsDir); err != nil {
		return nil, err
	}
	for _, workbook := range []string{paths.SalesWorkbook, paths.AdsWorkbook} {
		if err := validator.ValidateWorkbook(workbook); err != nil {
			return nil, err
		}
	}

	providers, err := infrastructure.InitializeOTel(infrastructure.NewOTelConfig(cfg.Telemetry), logger)
	if err != nil {
		return nil, err
	}

	opts := operations.OptionsFromConfig(cfg, paths)
	opts.Logger = logger
	opts.Tracer = providers.Tracer
	pipeline, err := operations.NewPipeline(opts)
	if err != nil {
		_ = providers.Shutdown(c.Context)
		return nil, err
	}

	return &environment{
		service:   services.NewAnalysisService(pipeline, exporter.NewCSVWriter(paths, logger), logger),
		providers: providers,
	}, nil
}
