package cmd

import (
	goerrors "errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcpscan/mcpscan/cmd/discover"
	"github.com/mcpscan/mcpscan/cmd/scan"
	"github.com/mcpscan/mcpscan/cmd/version"
	"github.com/mcpscan/mcpscan/pkg/shared/config"
	"github.com/mcpscan/mcpscan/pkg/shared/errors"
	"github.com/mcpscan/mcpscan/pkg/shared/logger"
)

var (
	cfgFile   string
	AppConfig *config.Config
	rootCmd   = &cobra.Command{
		Use:                   "mcpscan [command]",
		SilenceUsage:          true,
		DisableFlagsInUseLine: true,
		Short:                 "Mcpscan finds command-injection patterns in MCP server repositories.",
		Long: `Mcpscan discovers GitHub repositories that look like Model Context Protocol
	server implementations, clones selected candidates and scans them for
	command-injection risk patterns.
	`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is config.yml)")
	rootCmd.AddCommand(version.NewVersionCmd())
	rootCmd.AddCommand(discover.DiscoverCmd)
	rootCmd.AddCommand(scan.ScanCmd)
}

func Execute() int {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)

		var cmdErr *errors.CommandError
		if goerrors.As(err, &cmdErr) {
			return cmdErr.ExitCode
		}
		return 1
	}
	return 0
}

func initConfig() {
	var err error

	if cfgFile == "" {
		cfgFile = "config.yml"
	}
	AppConfig, err = config.LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize config: %v\n", err)
		os.Exit(1)
	}
	if err := config.ValidateConfig(AppConfig); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	l := logger.NewLogger(AppConfig, "core")
	discover.Init(AppConfig, l.Named("discover"))
	scan.Init(AppConfig, l.Named("scan"))
}
