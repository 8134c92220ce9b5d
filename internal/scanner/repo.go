package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/hashicorp/go-hclog"
)

// DefaultMaxFileSize caps how much of a file the scanner will read.
// Oversized files are unlikely to be hand-written server code and risk
// pathological regex cost.
const DefaultMaxFileSize = 1 << 20

// DefaultFileJobs bounds file-level scan concurrency within one repository.
const DefaultFileJobs = 8

// Directories that are unlikely to contain application code.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"venv":         true,
	"env":          true,
	"__pycache__":  true,
	"dist":         true,
	"build":        true,
}

// Target identifies one repository to scan: where it came from and where
// its tree has been materialized locally.
type Target struct {
	Owner    string
	Name     string
	URL      string
	LocalDir string
}

// RepoScanner walks a repository tree and applies the content scanner to
// every eligible file.
type RepoScanner struct {
	content     *ContentScanner
	extensions  map[string]bool
	maxFileSize int64
	fileJobs    int
	logger      hclog.Logger
}

type RepoScannerOptions struct {
	Extensions  []string // accepted file extensions, default ".py"
	MaxFileSize int64
	FileJobs    int
}

func NewRepoScanner(content *ContentScanner, opts RepoScannerOptions, logger hclog.Logger) *RepoScanner {
	exts := map[string]bool{}
	for _, e := range opts.Extensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts[e] = true
	}
	if len(exts) == 0 {
		exts[".py"] = true
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	jobs := opts.FileJobs
	if jobs <= 0 {
		jobs = DefaultFileJobs
	}

	return &RepoScanner{
		content:     content,
		extensions:  exts,
		maxFileSize: maxSize,
		fileJobs:    jobs,
		logger:      logger,
	}
}

// Scan walks the target's local tree and returns the per-repository result.
// A missing or empty tree yields an empty file list, not an error; a single
// unreadable file is counted as skipped and never aborts the walk.
func (s *RepoScanner) Scan(ctx context.Context, target Target) RepositoryResult {
	result := RepositoryResult{
		Owner: target.Owner,
		Name:  target.Name,
		URL:   target.URL,
	}

	paths, skipped := s.collectFiles(target.LocalDir)
	result.SkippedFiles = skipped
	if len(paths) == 0 {
		return result
	}

	// Scan files concurrently, but reassemble in traversal order so
	// identical inputs always produce identical output.
	type slot struct {
		res  FileResult
		keep bool
		skip bool
	}
	slots := make([]slot, len(paths))

	guard := make(chan struct{}, s.fileJobs)
	var wg sync.WaitGroup
	for i, rel := range paths {
		if ctx.Err() != nil {
			break
		}
		guard <- struct{}{}
		wg.Add(1)
		go func(i int, rel string) {
			defer wg.Done()
			defer func() { <-guard }()

			res, keep, ok := s.scanFile(target.LocalDir, rel)
			slots[i] = slot{res: res, keep: keep, skip: !ok}
		}(i, rel)
	}
	wg.Wait()

	for _, sl := range slots {
		if sl.skip {
			result.SkippedFiles++
		}
		if sl.keep {
			result.Files = append(result.Files, sl.res)
		}
	}
	deriveCounts(&result)
	return result
}

// collectFiles gathers eligible relative paths in lexicographic order.
// WalkDir does not follow symlinks, which keeps the walk inside the
// repository root and free of cycles.
func (s *RepoScanner) collectFiles(root string) (paths []string, skipped int) {
	if _, err := os.Stat(root); err != nil {
		s.logger.Warn("repository tree is not readable", "dir", root, "error", err)
		return nil, 0
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			skipped++
			return nil
		}
		if d.IsDir() {
			if skipDirs[d.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if !s.extensions[filepath.Ext(d.Name())] {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			skipped++
			return nil
		}
		if info.Size() > s.maxFileSize {
			s.logger.Debug("skipping oversized file", "path", p, "size", info.Size())
			skipped++
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			skipped++
			return nil
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		s.logger.Warn("repository walk stopped early", "dir", root, "error", err)
	}

	sort.Strings(paths)
	return paths, skipped
}

// scanFile reads and scans one file. ok is false when the file had to be
// skipped (unreadable or not decodable as text); keep is true when the
// result belongs in the repository's file list.
func (s *RepoScanner) scanFile(root, rel string) (res FileResult, keep, ok bool) {
	data, err := os.ReadFile(filepath.Join(root, rel))
	if err != nil {
		s.logger.Warn("unreadable file skipped", "path", rel, "error", err)
		return FileResult{}, false, false
	}
	if !utf8.Valid(data) || looksBinary(data) {
		s.logger.Debug("non-text file skipped", "path", rel)
		return FileResult{}, false, false
	}

	content := string(data)
	res = FileResult{
		Path:         filepath.ToSlash(rel),
		IsServerFile: s.content.Classify(content),
		Findings:     s.content.Scan(content),
	}

	// Files that are neither server files nor flagged are noise and must
	// not appear in the report.
	keep = res.IsServerFile || len(res.Findings) > 0
	return res, keep, true
}

func looksBinary(data []byte) bool {
	const sniff = 800
	n := len(data)
	if n > sniff {
		n = sniff
	}
	for i := 0; i < n; i++ {
		if data[i] == 0 {
			return true
		}
	}
	return false
}
