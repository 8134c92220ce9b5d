package scanner

import (
	"github.com/mcpscan/mcpscan/internal/rules"
)

// Finding is a single flagged line. Immutable once created; owned by the
// FileResult that contains it.
type Finding struct {
	RuleName string     `json:"rule"`
	Line     int        `json:"line"`
	Source   string     `json:"source"`
	Tier     rules.Tier `json:"tier"`
}

// FileResult holds the outcome for one scanned file. Files that are neither
// server files nor flagged are not retained.
type FileResult struct {
	Path         string    `json:"path"`
	IsServerFile bool      `json:"is_mcp_file"`
	Findings     []Finding `json:"findings,omitempty"`
}

// RepositoryResult aggregates per-file results for one repository. The two
// counts are derived from Files, never set independently.
type RepositoryResult struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
	URL   string `json:"url"`

	Files        []FileResult `json:"files"`
	SkippedFiles int          `json:"skipped_files"`

	VulnerableFileCount     int `json:"vulnerable_file_count"`
	ServerFilesWithFindings int `json:"mcp_files_with_findings"`
}

// ScanReport is the terminal artifact, ordered by the caller-supplied
// repository order.
type ScanReport struct {
	ScanID       string             `json:"scan_id"`
	Repositories []RepositoryResult `json:"repositories"`
}

func deriveCounts(r *RepositoryResult) {
	r.VulnerableFileCount = 0
	r.ServerFilesWithFindings = 0
	for _, f := range r.Files {
		if len(f.Findings) > 0 {
			r.VulnerableFileCount++
			if f.IsServerFile {
				r.ServerFilesWithFindings++
			}
		}
	}
}
