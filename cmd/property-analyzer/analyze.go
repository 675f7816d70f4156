package main

import (
	"fmt"
	"strings"

	"github.com/iwvelando/property-analyzer/internal/analysis"
	"github.com/iwvelando/property-analyzer/internal/config"
	"github.com/iwvelando/property-analyzer/internal/registry"
	"github.com/iwvelando/property-analyzer/internal/report"
	"github.com/iwvelando/property-analyzer/pkg/output"
	"github.com/iwvelando/property-analyzer/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type analyzeCmd struct {
	flags           *globalFlags
	continueOnError bool
}

func newAnalyzeCmd(flags *globalFlags) *cobra.Command {
	ac := &analyzeCmd{flags: flags}
	cmd := &cobra.Command{
		Use:   "analyze DEAL_FILE...",
		Short: "Analyze one or more deal files (YAML or JSON)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  ac.run,
	}
	cmd.Flags().BoolVar(&ac.continueOnError, "continue-on-error", false, "skip deals that fail validation instead of stopping")
	return cmd
}

func (ac *analyzeCmd) run(cmd *cobra.Command, args []string) error {
	conf, logger, err := ac.flags.setup()
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := ac.flags.format(conf)
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	reg := registry.New(conf.Registry.TTL, conf.Registry.Capacity, registry.WithLogger(logger))
	settings := conf.Settings()

	var reports []report.Report
	var failures []string
	for _, path := range args {
		deals, err := config.LoadDeals(path)
		if err != nil {
			return err
		}

		for i, deal := range deals {
			a, err := analysis.New(deal, analysis.WithLogger(logger), analysis.WithSettings(settings))
			if err != nil {
				if !ac.continueOnError {
					return fmt.Errorf("%s deal %d: %w", path, i+1, err)
				}
				logger.Warn("skipping invalid deal",
					zap.String("op", "main.analyze"),
					zap.String("file", path),
					zap.Int("deal", i+1),
					zap.Error(err),
				)
				failures = append(failures, fmt.Sprintf("%s deal %d", path, i+1))
				continue
			}

			reg.Register(a.ID(), a.Metrics())
			metrics, ok := reg.Get(a.ID())
			if !ok {
				return fmt.Errorf("%s deal %d: metrics for %s missing from registry", path, i+1, a.ID())
			}
			reports = append(reports, report.FromParts(a.ID(), a.Type().Name(), a.Input(), metrics))

			logger.Debug(fmt.Sprintf("analyzed %s deal %s", a.Type(), a.ID()),
				zap.String("op", "main.analyze"),
				zap.String("file", path),
			)
		}
	}

	if err := output.Write(cmd.OutOrStdout(), outputFormat, reports); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if len(failures) > 0 {
		return fmt.Errorf("%d deal(s) failed validation: %s", len(failures), strings.Join(failures, ", "))
	}
	return nil
}

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the supported analysis types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			for _, name := range analysis.SupportedTypes() {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), name); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
