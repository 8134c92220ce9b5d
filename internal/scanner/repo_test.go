package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcpscan/mcpscan/internal/rules"
)

func newTestRepoScanner(t *testing.T, opts RepoScannerOptions) *RepoScanner {
	t.Helper()
	catalog, err := rules.NewCatalog()
	require.NoError(t, err)
	content := NewContentScanner(catalog, DefaultPromotionWindow)
	return NewRepoScanner(content, opts, hclog.NewNullLogger())
}

func writeFile(t *testing.T, root, rel string, data []byte) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, data, 0644))
}

func TestRepoScanRetentionAndCounts(t *testing.T) {
	root := t.TempDir()

	// Server file with a vulnerability.
	writeFile(t, root, "server.py", []byte(
		"from mcp import Server\n"+
			"command = f\"cat {path}\"\n"+
			"subprocess.run(command, shell=True)\n"))
	// Vulnerable but not a server file.
	writeFile(t, root, "helper.py", []byte("os.system(\"ls \" + d)\n"))
	// Server file with no findings.
	writeFile(t, root, "app.py", []byte("from mcp import Server\n"))
	// Neither: must not appear.
	writeFile(t, root, "clean.py", []byte("print('hello')\n"))
	// Wrong extension: must be ignored even with risky content.
	writeFile(t, root, "notes.md", []byte("os.system(\"ls \" + d)\n"))
	// Vendored tree: skipped wholesale.
	writeFile(t, root, "node_modules/dep.py", []byte("os.system(\"ls \" + d)\n"))

	s := newTestRepoScanner(t, RepoScannerOptions{})
	result := s.Scan(context.Background(), Target{Owner: "acme", Name: "tools", URL: "https://github.com/acme/tools", LocalDir: root})

	require.Len(t, result.Files, 3)
	assert.Equal(t, "app.py", result.Files[0].Path)
	assert.Equal(t, "helper.py", result.Files[1].Path)
	assert.Equal(t, "server.py", result.Files[2].Path)

	assert.True(t, result.Files[0].IsServerFile)
	assert.Empty(t, result.Files[0].Findings)
	assert.False(t, result.Files[1].IsServerFile)
	assert.NotEmpty(t, result.Files[1].Findings)
	assert.True(t, result.Files[2].IsServerFile)
	assert.NotEmpty(t, result.Files[2].Findings)

	assert.Equal(t, 2, result.VulnerableFileCount)
	assert.Equal(t, 1, result.ServerFilesWithFindings)
	assert.Equal(t, 0, result.SkippedFiles)
}

func TestRepoScanSkipsUnscannableFiles(t *testing.T) {
	root := t.TempDir()

	// 0-byte file: scanned, nothing found, not retained, not skipped.
	writeFile(t, root, "empty.py", nil)
	// Binary content: counted as skipped, no finding raised.
	writeFile(t, root, "blob.py", []byte{0x00, 0x01, 0x02, 0xff, 0x00})
	// Invalid UTF-8: same treatment.
	writeFile(t, root, "latin.py", []byte{'o', 's', 0xfe, 0xff, '\n'})

	s := newTestRepoScanner(t, RepoScannerOptions{})
	result := s.Scan(context.Background(), Target{LocalDir: root})

	assert.Empty(t, result.Files)
	assert.Equal(t, 2, result.SkippedFiles)
	assert.Equal(t, 0, result.VulnerableFileCount)
}

func TestRepoScanSizeCeiling(t *testing.T) {
	root := t.TempDir()

	big := make([]byte, 300)
	for i := range big {
		big[i] = 'x'
	}
	writeFile(t, root, "big.py", big)
	writeFile(t, root, "small.py", []byte("os.system(\"ls \" + d)\n"))

	s := newTestRepoScanner(t, RepoScannerOptions{MaxFileSize: 200})
	result := s.Scan(context.Background(), Target{LocalDir: root})

	require.Len(t, result.Files, 1)
	assert.Equal(t, "small.py", result.Files[0].Path)
	assert.Equal(t, 1, result.SkippedFiles)
}

func TestRepoScanDoesNotFollowSymlinks(t *testing.T) {
	outside := t.TempDir()
	writeFile(t, outside, "evil.py", []byte("os.system(\"ls \" + d)\n"))

	root := t.TempDir()
	require.NoError(t, os.Symlink(filepath.Join(outside, "evil.py"), filepath.Join(root, "link.py")))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "dir")))

	s := newTestRepoScanner(t, RepoScannerOptions{})
	result := s.Scan(context.Background(), Target{LocalDir: root})

	assert.Empty(t, result.Files)
}

func TestRepoScanMissingRoot(t *testing.T) {
	s := newTestRepoScanner(t, RepoScannerOptions{})
	result := s.Scan(context.Background(), Target{Owner: "a", Name: "b", LocalDir: "/nonexistent/mcpscan-test"})

	assert.Equal(t, "a", result.Owner)
	assert.Empty(t, result.Files)
	assert.Equal(t, 0, result.VulnerableFileCount)
}
