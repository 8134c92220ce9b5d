package git

import (
	"fmt"
	"os"
	"time"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"
	"github.com/hashicorp/go-hclog"

	crssh "golang.org/x/crypto/ssh"

	"github.com/mcpscan/mcpscan/pkg/shared/config"
	"github.com/mcpscan/mcpscan/pkg/shared/files"
)

// Client clones repositories with a configured auth method and timeout.
type Client struct {
	logger       hclog.Logger
	auth         transport.AuthMethod
	depth        int
	timeout      time.Duration
	globalConfig *config.Config
}

// NewClient builds a git client for the given auth type. Supported types:
// "none", "http", "ssh-agent", "ssh-key".
func NewClient(cfg *config.Config, authType, sshKeyPath string, logger hclog.Logger) (*Client, error) {
	auth, err := setupAuth(authType, sshKeyPath, logger)
	if err != nil {
		return nil, err
	}

	return &Client{
		logger:       logger,
		auth:         auth,
		depth:        config.SetThen(cfg.GitClient.Depth, 1),
		timeout:      config.SetThen(cfg.GitClient.Timeout, 5*time.Minute),
		globalConfig: cfg,
	}, nil
}

func setupAuth(authType, sshKeyPath string, logger hclog.Logger) (transport.AuthMethod, error) {
	switch authType {
	case "", "none":
		return nil, nil

	case "http":
		token := os.Getenv("MCPSCAN_GITHUB_TOKEN")
		if token == "" {
			return nil, nil
		}
		return &http.BasicAuth{Username: "git", Password: token}, nil

	case "ssh-agent":
		logger.Debug("setting up SSH agent authentication")
		auth, err := ssh.NewSSHAgentAuth("git")
		if err != nil {
			return nil, fmt.Errorf("failed to set up SSH agent authentication: %w", err)
		}
		auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
			HostKeyCallback: crssh.InsecureIgnoreHostKey(),
		}
		return auth, nil

	case "ssh-key":
		logger.Debug("setting up SSH key authentication", "path", sshKeyPath)
		keyPath, err := files.ExpandPath(sshKeyPath)
		if err != nil {
			return nil, fmt.Errorf("failed to expand SSH key path: %w", err)
		}
		auth, err := ssh.NewPublicKeysFromFile("git", keyPath, os.Getenv("MCPSCAN_SSH_KEY_PASSWORD"))
		if err != nil {
			return nil, fmt.Errorf("failed to set up SSH key authentication: %w", err)
		}
		auth.HostKeyCallbackHelper = ssh.HostKeyCallbackHelper{
			HostKeyCallback: crssh.InsecureIgnoreHostKey(),
		}
		return auth, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownAuthType, authType)
	}
}
