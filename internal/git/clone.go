package git

import (
	"context"
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/hashicorp/go-hclog"
)

// CloneRepository shallow-clones cloneURL into targetFolder and returns the
// folder. An empty branch clones the remote's default branch.
func (c *Client) CloneRepository(ctx context.Context, cloneURL, branch, targetFolder string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	output := c.logger.StandardWriter(&hclog.StandardLoggerOptions{
		InferLevels: true,
		ForceLevel:  hclog.Debug,
	})

	opts := &git.CloneOptions{
		Auth:     c.auth,
		URL:      cloneURL,
		Progress: output,
		Depth:    c.depth,
	}
	if branch != "" {
		opts.ReferenceName = plumbing.NewBranchReferenceName(branch)
		opts.SingleBranch = true
	}

	c.logger.Debug("starting repository clone", "cloneURL", cloneURL, "branch", branch, "targetFolder", targetFolder)
	if _, err := git.PlainCloneContext(ctx, targetFolder, false, opts); err != nil {
		c.logger.Error("error occurred during clone", "error", err, "targetFolder", targetFolder)
		return "", fmt.Errorf("error occurred during clone of %q: %w", cloneURL, err)
	}

	c.logger.Info("repository cloned", "cloneURL", cloneURL, "targetFolder", targetFolder)
	return targetFolder, nil
}
