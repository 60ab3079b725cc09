package main

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/api"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/calculation"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/compare"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/domain"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/output"
	"github.com/uisautomation/pidash-ucamstaffoncosts/internal/rational"
	"github.com/uisautomation/pidash-ucamstaffoncosts/pkg/dateutil"
)

func costCmd(a *app) *cobra.Command {
	var (
		salary          int64
		schemeName      string
		year            int
		employeeContrib string
		employerContrib string
	)
	cmd := &cobra.Command{
		Use:   "cost",
		Short: "Cost a single salary for one tax year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			scheme, err := domain.ParseScheme(schemeName)
			if err != nil {
				return err
			}
			if salary < 0 {
				return fmt.Errorf("salary must not be negative, got %d", salary)
			}
			employee, err := parseContribution("employee-contribution", employeeContrib)
			if err != nil {
				return err
			}
			employer, err := parseContribution("employer-contribution", employerContrib)
			if err != nil {
				return err
			}

			engine, err := a.engine()
			if err != nil {
				return err
			}
			if year == 0 {
				if year, err = engine.LatestTaxYear(); err != nil {
					return err
				}
			}
			cost, err := engine.CalculateCostWithContributions(salary, scheme, year, employee, employer)
			if err != nil {
				return err
			}
			return a.writeReport(cmd, output.NewCostReport(scheme, cost))
		},
	}
	cmd.Flags().Int64Var(&salary, "salary", 0, "Base salary in pounds")
	cmd.Flags().StringVar(&schemeName, "scheme", string(domain.SchemeUSS), "Pension scheme")
	cmd.Flags().IntVar(&year, "year", 0, "Tax year (default: latest year with a NIC table)")
	cmd.Flags().StringVar(&employeeContrib, "employee-contribution", "", "Employee pension contribution for the year (default: scheme rate)")
	cmd.Flags().StringVar(&employerContrib, "employer-contribution", "", "Employer pension contribution for the year (default: scheme rate)")
	_ = cmd.MarkFlagRequired("salary")
	return cmd
}

func parseContribution(flag, s string) (*big.Rat, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", flag, err)
	}
	return rational.FromDecimal(d), nil
}

func progressionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "progression [employment-file]",
		Short: "Show the salary history of an employment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, emp, err := a.loadEmployment(args[0])
			if err != nil {
				return err
			}
			records, err := engine.EmploymentProgression(emp)
			if err != nil {
				return err
			}
			return a.writeReport(cmd, output.NewProgressionReport(emp, records))
		},
	}
}

func costsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "costs [employment-file]",
		Short: "Cost an employment by tax year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, emp, err := a.loadEmployment(args[0])
			if err != nil {
				return err
			}
			years, err := engine.EmploymentCosts(emp)
			if err != nil {
				return err
			}
			return a.writeReport(cmd, output.NewCostsReport(emp, years))
		},
	}
}

func commitmentsCmd(a *app) *cobra.Command {
	var from string
	cmd := &cobra.Command{
		Use:   "commitments [employment-file]",
		Short: "Split the cost of an employment into expenditure and commitment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, emp, err := a.loadEmployment(args[0])
			if err != nil {
				return err
			}
			if from != "" {
				if emp.FromDate, err = dateutil.Parse(from); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			}
			c, err := engine.EmploymentCommitments(emp)
			if err != nil {
				return err
			}
			return a.writeReport(cmd, output.NewCommitmentsReport(emp, c))
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "Split date, YYYY-MM-DD (default: from_date in the file, or today)")
	return cmd
}

func compareCmd(a *app) *cobra.Command {
	var (
		baseName string
		schemes  string
		compact  bool
	)
	cmd := &cobra.Command{
		Use:   "compare [employment-file]",
		Short: "Compare the cost of an employment under several pension schemes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := compare.CompareOptions{}
			if baseName != "" {
				base, err := domain.ParseScheme(baseName)
				if err != nil {
					return fmt.Errorf("--base: %w", err)
				}
				opts.BaseScheme = base
			}
			for _, s := range strings.Split(schemes, ",") {
				if strings.TrimSpace(s) == "" {
					continue
				}
				scheme, err := domain.ParseScheme(s)
				if err != nil {
					return fmt.Errorf("--schemes: %w", err)
				}
				opts.Schemes = append(opts.Schemes, scheme)
			}

			engine, emp, err := a.loadEmployment(args[0])
			if err != nil {
				return err
			}
			compSet, err := compare.NewCompareEngine(engine).Compare(cmd.Context(), emp, opts)
			if err != nil {
				return err
			}
			compSet.TablesPath = a.tablesName()

			var out string
			switch strings.ToLower(a.format) {
			case "console", "table", "text":
				if compact {
					out = (&compare.TableFormatter{}).FormatCompact(compSet) + "\n"
				} else {
					out = (&compare.TableFormatter{}).Format(compSet)
				}
			case "csv":
				out, err = (&compare.CSVFormatter{}).Format(compSet)
			case "json":
				out, err = (&compare.JSONFormatter{Pretty: true}).Format(compSet)
			default:
				return fmt.Errorf("unsupported format for comparison: %s (use console, csv or json)", a.format)
			}
			if err != nil {
				return err
			}
			if a.outputPath != "" {
				if err := os.WriteFile(a.outputPath, []byte(out), 0o644); err != nil {
					return fmt.Errorf("failed to write %s: %w", a.outputPath, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Comparison written to %s\n", a.outputPath)
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVar(&baseName, "base", "", "Base scheme (default: the employment's scheme)")
	cmd.Flags().StringVar(&schemes, "schemes", "", "Comma-separated schemes to compare (default: every scheme in the tables)")
	cmd.Flags().BoolVar(&compact, "compact", false, "Print a one-line summary (console format only)")
	return cmd
}

func scalesCmd(a *app) *cobra.Command {
	var on string
	cmd := &cobra.Command{
		Use:   "scales [grade]",
		Short: "List grades, or show a grade's scale with its salaries",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				for _, g := range engine.Scales.Grades() {
					scale, err := engine.Scales.ScaleForGrade(g)
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%-26s %s to %s\n", g, scale[0].Point, scale[len(scale)-1].Point)
				}
				return nil
			}

			grade, err := domain.ParseGrade(args[0])
			if err != nil {
				return err
			}
			scale, err := engine.Scales.ScaleForGrade(grade)
			if err != nil {
				return err
			}
			when := dateutil.Today()
			if on != "" {
				if when, err = dateutil.Parse(on); err != nil {
					return fmt.Errorf("--date: %w", err)
				}
			}
			effective, mapping, err := engine.Scales.MappingForDate(when)
			if err != nil {
				return err
			}

			fmt.Fprintf(out, "%s on %s (salary table of %s)\n", grade, dateutil.Format(when), dateutil.Format(effective))
			for _, sp := range scale {
				marker := ""
				if sp.IsContribution {
					marker = " *"
				}
				fmt.Fprintf(out, "  %-8s %-6s %10s%s\n", sp.Name, sp.Point, output.FormatPounds(mapping[sp.Point]), marker)
			}
			fmt.Fprintln(out, "  * contribution point")
			return nil
		},
	}
	cmd.Flags().StringVar(&on, "date", "", "Show salaries in effect on this date, YYYY-MM-DD (default: today)")
	return cmd
}

func validateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [tables-file]",
		Short: "Validate a tables file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				a.tablesPath = args[0]
			}
			cfg, err := a.parser.LoadTables(a.tablesPath)
			if err != nil {
				return err
			}
			if _, err := calculation.NewEngine(cfg); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Tables %s are valid\n", a.tablesName())
			if cfg.Metadata.Description != "" {
				fmt.Fprintf(out, "  %s\n", cfg.Metadata.Description)
			}
			fmt.Fprintf(out, "  %d grades, %d salary tables, %d pension schemes, %d NIC tables\n",
				len(cfg.SalaryScales.Grades), len(cfg.SalaryScales.Salaries),
				len(cfg.PensionSchemes), len(cfg.NationalInsurance))
			return nil
		},
	}
}

func serveCmd(a *app) *cobra.Command {
	addr := os.Getenv("ONCOSTS_ADDR")
	if addr == "" {
		addr = ":8080"
	}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculator as a JSON HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := a.engine()
			if err != nil {
				return err
			}
			parent := cmd.Context()
			if parent == nil {
				parent = context.Background()
			}
			ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
			defer stop()
			return api.Serve(ctx, addr, api.NewHandler(engine, a.logger))
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address (default: $ONCOSTS_ADDR or :8080)")
	return cmd
}

// loadEmployment loads the tables and the employment document at path.
func (a *app) loadEmployment(path string) (*calculation.Engine, *domain.Employment, error) {
	emp, err := a.parser.LoadEmployment(path)
	if err != nil {
		return nil, nil, err
	}
	engine, err := a.engine()
	if err != nil {
		return nil, nil, err
	}
	return engine, emp, nil
}
