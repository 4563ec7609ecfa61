/*
Package cli provides command-line helpers shared by the pagesweep commands.

Output Formatting:

A finished sweep is summarised on stdout in one of three formats:

	formatter, err := cli.NewFormatter(cli.FormatJSON)
	if err != nil {
		return err
	}
	if err := formatter.FormatTo(os.Stdout, summary); err != nil {
		return err
	}

Errors:

ConfigError reports a bad flag or setting before any network call is made.
ExitCode maps an error returned by a command to the process exit status.

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background(), logger)
	defer stop()
	// The first signal cancels ctx; a second one exits immediately.
*/
package cli
