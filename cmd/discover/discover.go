package discover

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscan/mcpscan/internal/discovery"
	"github.com/mcpscan/mcpscan/pkg/shared"
	"github.com/mcpscan/mcpscan/pkg/shared/config"
	"github.com/mcpscan/mcpscan/pkg/shared/errors"
	"github.com/mcpscan/mcpscan/pkg/shared/httpclient"
)

// RunOptionsDiscover holds the arguments for the discover command.
type RunOptionsDiscover struct {
	MaxRepos   int
	Language   string
	OutputPath string
}

// Global variables for configuration and command arguments
var (
	AppConfig       *config.Config
	logger          hclog.Logger
	discoverOptions RunOptionsDiscover

	exampleDiscoverUsage = `  # Discover up to 20 candidate MCP repositories and print them
  mcpscan discover

  # Discover up to 50 candidates and save them for a later scan
  mcpscan discover --max-repos 50 -o /path/to/candidates.json`
)

// DiscoverCmd represents the discover command.
var DiscoverCmd = &cobra.Command{
	Use:                   "discover [--max-repos N] [--language LANGUAGE] [--output/-o PATH]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleDiscoverUsage,
	Short:                 "Discover candidate MCP server repositories on GitHub",
	RunE:                  runDiscoverCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	logger = l
}

func runDiscoverCommand(cmd *cobra.Command, args []string) error {
	if err := validateDiscoverArgs(&discoverOptions, args); err != nil {
		logger.Error("invalid discover arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid discover arguments: %w", err), 1)
	}

	token := os.Getenv("MCPSCAN_GITHUB_TOKEN")
	if token == "" {
		logger.Warn("no GitHub token found in MCPSCAN_GITHUB_TOKEN, search rate limits will be tight")
	}

	d := discovery.New(
		httpclient.NewHTTPClient(logger, AppConfig),
		token,
		discoverOptions.Language,
		discoverOptions.MaxRepos,
		logger,
	)

	candidates, err := d.Search(cmd.Context())
	if err != nil {
		logger.Error("discovery failed", "error", err)
		return errors.NewCommandError(fmt.Errorf("discovery failed: %w", err), 2)
	}

	if len(candidates) == 0 {
		fmt.Println("No potential MCP repositories found on GitHub.")
		return nil
	}

	fmt.Printf("Found %d potential MCP repositories:\n", len(candidates))
	for i, c := range candidates {
		fmt.Printf("  %d: %s\n", i+1, c.FullName())
	}

	if discoverOptions.OutputPath != "" {
		if err := shared.WriteJSONFile(candidates, discoverOptions.OutputPath, logger); err != nil {
			logger.Error("failed to write candidate list", "error", err)
			return errors.NewCommandError(err, 1)
		}
	}
	return nil
}

func init() {
	DiscoverCmd.Flags().IntVar(&discoverOptions.MaxRepos, "max-repos", discovery.DefaultMaxRepos, "maximum number of candidate repositories to collect")
	DiscoverCmd.Flags().StringVar(&discoverOptions.Language, "language", "python", "source language qualifier for the code search")
	DiscoverCmd.Flags().StringVarP(&discoverOptions.OutputPath, "output", "o", "", "path to save the candidate list as JSON")
}
