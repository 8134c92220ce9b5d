package git

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"
)

// Workspace is the temporary root holding repository clones for one scan
// run. It must be removed once the scan concludes.
type Workspace struct {
	root   string
	logger hclog.Logger
}

func NewWorkspace(logger hclog.Logger) (*Workspace, error) {
	root, err := os.MkdirTemp("", "mcpscan-"+uuid.NewString()[:8]+"-")
	if err != nil {
		return nil, fmt.Errorf("failed to create scan workspace: %w", err)
	}
	logger.Debug("created scan workspace", "root", root)
	return &Workspace{root: root, logger: logger}, nil
}

// RepoDir returns the clone target for one repository.
func (w *Workspace) RepoDir(owner, name string) string {
	return filepath.Join(w.root, owner, name)
}

func (w *Workspace) Root() string {
	return w.root
}

// Cleanup removes the workspace and every clone inside it.
func (w *Workspace) Cleanup() {
	w.logger.Debug("removing scan workspace", "root", w.root)
	if err := os.RemoveAll(w.root); err != nil {
		w.logger.Error("failed to remove scan workspace", "root", w.root, "error", err)
	}
}
