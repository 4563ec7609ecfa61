package main

import (
	"github.com/spf13/cobra"

	"pagesweep-hq/pagesweep/pkg/cli"
)

var deleteFlags struct {
	retention retentionFlags
	output    string
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete stale deployments once",
	Long: `Walk every project of the account and delete the deployments the retention
policy does not keep. Each kept or deleted deployment is logged on one line.

Examples:
  # Preview with the default policy (20 successful, 10 failed, 30 days)
  pagesweep delete --dry-run

  # Sweep two projects only and print a JSON summary
  pagesweep delete --project blog --project docs --output json

  # Keep less history
  pagesweep delete --retain-success-count 5 --retain-failed-count 0 --retain-recent-days 7`,
	Args: cobra.NoArgs,
	RunE: runDelete,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	addRetentionFlags(deleteCmd.Flags(), &deleteFlags.retention)
	deleteCmd.Flags().StringVarP(&deleteFlags.output, "output", "o", string(cli.FormatText),
		"run summary format (text, json, csv)")
}

func runDelete(cmd *cobra.Command, args []string) error {
	formatter, err := cli.NewFormatter(cli.OutputFormat(deleteFlags.output))
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyRetentionFlags(cmd.Flags(), &deleteFlags.retention, cfg); err != nil {
		return err
	}
	source, err := finalizeConfig(cfg)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return err
	}
	logger.Debug("configuration loaded", "credentials", source, "config", cfgFile)

	ctx, stop := cli.SetupSignalHandler(commandContext(cmd), logger.Logger)
	defer stop()

	// Metrics are only served by schedule, so a one-off run records none.
	tracer, err := newTracer(cfg)
	if err != nil {
		return err
	}
	defer shutdownTracer(tracer, logger)

	sw, err := newSweeper(cfg, logger, nil, tracer)
	if err != nil {
		return err
	}

	summary, runErr := sw.Run(ctx)

	// Quiet mode silences the human summary but not a requested machine format.
	if summary != nil && !(cfg.Telemetry.Logging.Quiet && deleteFlags.output == string(cli.FormatText)) {
		if err := formatter.FormatTo(cmd.OutOrStdout(), summary); err != nil {
			logger.Error("failed to write summary", "error", err)
		}
	}
	return runErr
}
