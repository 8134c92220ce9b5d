package scan

import (
	"fmt"

	"github.com/mcpscan/mcpscan/pkg/shared/files"
)

// validateScanArgs validates the arguments provided to the scan command.
func validateScanArgs(options *RunOptionsScan, args []string) error {
	if options.InputFile != "" {
		if len(options.Repos) > 0 || len(args) > 0 {
			return fmt.Errorf("you cannot use both the 'input-file' flag and direct repository arguments at the same time")
		}
		if err := files.ValidatePath(options.InputFile); err != nil {
			return fmt.Errorf("invalid input file: %w", err)
		}
	}

	switch options.AuthType {
	case "", "none", "http", "ssh-agent":
	case "ssh-key":
		if options.SSHKey == "" {
			return fmt.Errorf("the 'ssh-key' flag must be specified for the ssh-key auth type")
		}
	default:
		return fmt.Errorf("unknown auth type %q", options.AuthType)
	}

	switch options.Format {
	case "", "console":
		if options.OutputPath != "" {
			return fmt.Errorf("the 'output' flag requires the json or sarif format")
		}
	case "json", "sarif":
		if options.OutputPath == "" {
			return fmt.Errorf("the 'output' flag must be specified for the %s format", options.Format)
		}
	default:
		return fmt.Errorf("unknown report format %q", options.Format)
	}

	if options.Jobs < 0 {
		return fmt.Errorf("the 'jobs' flag cannot be negative")
	}
	if options.MaxRepos <= 0 {
		return fmt.Errorf("the 'max-repos' flag must be positive")
	}
	return nil
}
