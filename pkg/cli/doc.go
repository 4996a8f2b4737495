/*
Package cli provides the helpers shared by the statsrender commands.

Errors:

ConfigError marks a configuration file that could not be loaded or failed
validation; ExitCode maps it to exit status 2 and every other error to 1.

Output:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, info); err != nil {
		return err
	}

Signals:

	ctx, stop := cli.ShutdownContext(context.Background())
	defer stop()
	cli.OnReload(ctx, func() { _ = live.Reload() })
*/
package cli
