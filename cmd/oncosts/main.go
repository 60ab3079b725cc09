package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/config"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// app holds the global flags and what is built from them before each
// command runs.
type app struct {
	tablesPath string
	format     string
	outputPath string
	debug      bool
	logFormat  string

	parser *config.InputParser
	logger *logrus.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{parser: config.NewInputParser()}

	rootCmd := &cobra.Command{
		Use:   "oncosts",
		Short: "University staff on-cost calculator",
		Long: "Calculates the employer cost of university staff: salary progression " +
			"through the salary scales, pension contributions, employer NIC and the " +
			"apprenticeship levy, by tax year and split into expenditure and commitment.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(cmd.ErrOrStderr(), a.debug, a.logFormat)
			if err != nil {
				return err
			}
			a.logger = logger
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.tablesPath, "tables", os.Getenv("ONCOSTS_TABLES"), "Tables YAML file (default: built-in tables, or $ONCOSTS_TABLES)")
	flags.StringVarP(&a.format, "format", "f", "console", "Output format (console, csv, json, html, xlsx)")
	flags.StringVarP(&a.outputPath, "output", "o", "", "Write the report to this file instead of stdout")
	flags.BoolVar(&a.debug, "debug", false, "Enable debug logging")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(
		costCmd(a),
		progressionCmd(a),
		costsCmd(a),
		commitmentsCmd(a),
		compareCmd(a),
		scalesCmd(a),
		validateCmd(a),
		serveCmd(a),
		versionCmd(),
	)
	return rootCmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "oncosts %s (commit %s, built %s)\n", version, commit, date)
			if info := buildInfo(); info != "" {
				fmt.Fprintln(out, info)
			}
		},
	}
}

func buildInfo() string {
	if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
		return bi.String()
	}
	return ""
}

// engine loads the tables named by --tables and builds an engine logging
// through a.logger.
func (a *app) engine() (*calculation.Engine, error) {
	cfg, err := a.parser.LoadTables(a.tablesPath)
	if err != nil {
		return nil, err
	}
	engine, err := calculation.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	engine.SetLogger(a.logger)
	a.logger.Debugf("loaded tables: %s", a.tablesName())
	return engine, nil
}

func (a *app) tablesName() string {
	if a.tablesPath == "" {
		return "built-in"
	}
	return a.tablesPath
}

// writeReport formats r with --format and writes it to --output, to a
// timestamped file for binary formats, or to stdout.
func (a *app) writeReport(cmd *cobra.Command, r *output.Report) error {
	f := output.GetFormatterByName(a.format)
	if f == nil {
		return fmt.Errorf("unknown format %q (available: %v)", a.format, output.AvailableFormatterNames())
	}

	if a.outputPath != "" {
		if err := output.WriteFile(f, r, a.outputPath); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", a.outputPath)
		return nil
	}
	if f.Name() == "xlsx" || f.Name() == "html" {
		filename, err := output.WriteFormatted(f, r, output.Extensions[f.Name()])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", filename)
		return nil
	}

	data, err := f.Format(r)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
