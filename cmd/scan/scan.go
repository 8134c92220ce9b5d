package scan

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mcpscan/mcpscan/internal/discovery"
	"github.com/mcpscan/mcpscan/internal/git"
	"github.com/mcpscan/mcpscan/internal/report"
	"github.com/mcpscan/mcpscan/internal/rules"
	"github.com/mcpscan/mcpscan/internal/scanner"
	"github.com/mcpscan/mcpscan/pkg/shared/config"
	"github.com/mcpscan/mcpscan/pkg/shared/errors"
	"github.com/mcpscan/mcpscan/pkg/shared/httpclient"
)

// RunOptionsScan holds the arguments for the scan command.
type RunOptionsScan struct {
	Repos      []string
	InputFile  string
	MaxRepos   int
	AuthType   string
	SSHKey     string
	Branch     string
	Format     string
	OutputPath string
	Jobs       int
}

// Global variables for configuration and command arguments
var (
	AppConfig   *config.Config
	log         hclog.Logger
	scanOptions RunOptionsScan

	exampleScanUsage = `  # Scan repositories given directly, bypassing discovery
  mcpscan scan --repos owner/repo1,owner/repo2

  # Scan repositories from a discover output file, four clones at a time
  mcpscan scan --input-file /path/to/candidates.json -j 4

  # Discover candidates interactively and write a SARIF report
  mcpscan scan --format sarif -o report.sarif

  # Scan a single repository URL with SSH agent authentication
  mcpscan scan --auth-type ssh-agent https://github.com/owner/repo`
)

// ScanCmd represents the scan command.
var ScanCmd = &cobra.Command{
	Use:                   "scan [--repos LIST | --input-file/-i PATH | URL...] [--format/-f console|json|sarif] [--output/-o PATH] [-j JOBS]",
	SilenceUsage:          true,
	DisableFlagsInUseLine: true,
	Example:               exampleScanUsage,
	Short:                 "Clone and scan repositories for command-injection patterns",
	RunE:                  runScanCommand,
}

// Init initializes the global configuration variable.
func Init(cfg *config.Config, l hclog.Logger) {
	AppConfig = cfg
	log = l
}

func runScanCommand(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	if err := validateScanArgs(&scanOptions, args); err != nil {
		log.Error("invalid scan arguments", "error", err)
		return errors.NewCommandError(fmt.Errorf("invalid scan arguments: %w", err), 1)
	}

	// The rule catalog is the only fatal dependency: there is no valid
	// mode of operation without it.
	catalog, err := rules.NewCatalog()
	if err != nil {
		log.Error("rule catalog failed to load", "error", err)
		return errors.NewCommandError(fmt.Errorf("rule catalog failed to load: %w", err), 3)
	}

	candidates, err := resolveCandidates(ctx, &scanOptions, args)
	if err != nil {
		return errors.NewCommandError(err, 1)
	}
	if len(candidates) == 0 {
		fmt.Println("No repositories selected or provided for scanning.")
		return nil
	}

	gitClient, err := git.NewClient(AppConfig, scanOptions.AuthType, scanOptions.SSHKey, log)
	if err != nil {
		log.Error("failed to set up git client", "error", err)
		return errors.NewCommandError(err, 1)
	}

	workspace, err := git.NewWorkspace(log)
	if err != nil {
		log.Error("failed to create scan workspace", "error", err)
		return errors.NewCommandError(err, 1)
	}
	defer workspace.Cleanup()

	targets := cloneCandidates(ctx, gitClient, workspace, candidates)
	if len(targets) == 0 {
		return errors.NewCommandError(fmt.Errorf("no repository could be cloned"), 2)
	}

	scanReport := runScan(ctx, catalog, targets)

	if err := renderReport(&scanOptions, scanReport, catalog); err != nil {
		log.Error("failed to render report", "error", err)
		return errors.NewCommandError(err, 1)
	}

	log.Info("scan command completed successfully", "repositories", len(scanReport.Repositories))
	return nil
}

// cloneCandidates clones every candidate concurrently and returns scan
// targets in the candidates' order. A failed clone drops the candidate
// with a warning and never aborts the run.
func cloneCandidates(ctx context.Context, client *git.Client, workspace *git.Workspace, candidates []discovery.Candidate) []scanner.Target {
	jobs := scanOptions.Jobs
	if jobs <= 0 {
		jobs = 1
	}
	log.Info("cloning repositories", "total", len(candidates), "goroutines", jobs)

	cloned := make([]bool, len(candidates))
	guard := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	for i, c := range candidates {
		if ctx.Err() != nil {
			break
		}
		guard <- struct{}{}
		wg.Add(1)
		go func(i int, c discovery.Candidate) {
			defer wg.Done()
			defer func() { <-guard }()

			dir := workspace.RepoDir(c.Owner, c.Name)
			if _, err := client.CloneRepository(ctx, cloneURL(c), scanOptions.Branch, dir); err != nil {
				log.Warn("skipping repository due to cloning error", "repository", c.FullName(), "error", err)
				return
			}
			cloned[i] = true
		}(i, c)
	}
	wg.Wait()

	var targets []scanner.Target
	for i, c := range candidates {
		if !cloned[i] {
			continue
		}
		targets = append(targets, scanner.Target{
			Owner:    c.Owner,
			Name:     c.Name,
			URL:      c.URL,
			LocalDir: workspace.RepoDir(c.Owner, c.Name),
		})
	}
	return targets
}

func runScan(ctx context.Context, catalog *rules.Catalog, targets []scanner.Target) *scanner.ScanReport {
	sc := AppConfig.Scanner

	content := scanner.NewContentScanner(catalog, sc.PromotionWindow)
	repoScanner := scanner.NewRepoScanner(content, scanner.RepoScannerOptions{
		Extensions:  sc.Extensions,
		MaxFileSize: sc.MaxFileSize,
		FileJobs:    sc.FileJobs,
	}, log)
	aggregator := scanner.NewAggregator(repoScanner, sc.RepoJobs, log)

	scanReport := aggregator.Scan(ctx, targets)
	return &scanReport
}

func renderReport(options *RunOptionsScan, scanReport *scanner.ScanReport, catalog *rules.Catalog) error {
	switch options.Format {
	case "", "console":
		report.RenderConsole(os.Stdout, scanReport)
		return nil
	case "json":
		return report.WriteJSON(scanReport, options.OutputPath, log)
	case "sarif":
		return report.WriteSARIF(scanReport, catalog, options.OutputPath, log)
	default:
		return fmt.Errorf("unknown report format %q", options.Format)
	}
}

// resolveCandidates collects repositories to scan from, in priority order:
// explicit --repos / positional identifiers, an --input-file candidate
// list, or inline discovery followed by interactive selection.
func resolveCandidates(ctx context.Context, options *RunOptionsScan, args []string) ([]discovery.Candidate, error) {
	identifiers := append(append([]string{}, options.Repos...), args...)
	if len(identifiers) > 0 {
		return parseIdentifiers(identifiers)
	}

	if options.InputFile != "" {
		return readCandidateFile(options.InputFile)
	}

	token := os.Getenv("MCPSCAN_GITHUB_TOKEN")
	if token == "" {
		log.Warn("no GitHub token found in MCPSCAN_GITHUB_TOKEN, search rate limits will be tight")
	}
	d := discovery.New(
		httpclient.NewHTTPClient(log, AppConfig),
		token,
		"python",
		options.MaxRepos,
		log,
	)
	found, err := d.Search(ctx)
	if err != nil {
		return nil, fmt.Errorf("repository discovery failed: %w", err)
	}
	if len(found) == 0 {
		fmt.Println("No potential repositories found during discovery.")
		return nil, nil
	}

	return selectCandidates(os.Stdin, os.Stdout, found)
}

func init() {
	ScanCmd.Flags().StringSliceVar(&scanOptions.Repos, "repos", nil, "repository URLs or owner/repo names to scan directly, bypassing discovery")
	ScanCmd.Flags().StringVarP(&scanOptions.InputFile, "input-file", "i", "", "path to a JSON candidate list produced by the discover command")
	ScanCmd.Flags().IntVar(&scanOptions.MaxRepos, "max-repos", discovery.DefaultMaxRepos, "maximum number of repositories to find during inline discovery")
	ScanCmd.Flags().StringVarP(&scanOptions.AuthType, "auth-type", "a", "none", "authentication type for cloning (none|http|ssh-agent|ssh-key)")
	ScanCmd.Flags().StringVarP(&scanOptions.SSHKey, "ssh-key", "k", "", "path to an SSH private key for the ssh-key auth type")
	ScanCmd.Flags().StringVarP(&scanOptions.Branch, "branch", "b", "", "branch to check out instead of the default branch")
	ScanCmd.Flags().StringVarP(&scanOptions.Format, "format", "f", "console", "report format (console|json|sarif)")
	ScanCmd.Flags().StringVarP(&scanOptions.OutputPath, "output", "o", "", "path for the json or sarif report")
	ScanCmd.Flags().IntVarP(&scanOptions.Jobs, "jobs", "j", 2, "number of concurrent clone operations")
}
