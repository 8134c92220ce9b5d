package discover

import "fmt"

// validateDiscoverArgs validates the arguments provided to the discover command.
func validateDiscoverArgs(options *RunOptionsDiscover, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("invalid argument(s) received, discover takes no positional arguments")
	}
	if options.MaxRepos <= 0 {
		return fmt.Errorf("the 'max-repos' flag must be positive")
	}
	if options.Language == "" {
		return fmt.Errorf("the 'language' flag must not be empty")
	}
	return nil
}
