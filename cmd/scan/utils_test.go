package scan

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mcpscan/mcpscan/internal/discovery"
)

func TestParseIdentifier(t *testing.T) {
	tests := []struct {
		input     string
		wantOwner string
		wantName  string
		wantURL   string
		wantErr   bool
	}{
		{"acme/mcp-tools", "acme", "mcp-tools", "https://github.com/acme/mcp-tools", false},
		{"acme/mcp-tools.git", "acme", "mcp-tools", "https://github.com/acme/mcp-tools", false},
		{"github.com/acme/mcp-tools", "acme", "mcp-tools", "https://github.com/acme/mcp-tools", false},
		{"https://github.com/acme/mcp-tools", "acme", "mcp-tools", "https://github.com/acme/mcp-tools", false},
		{"just-a-name", "", "", "", true},
		{"/leading", "", "", "", true},
	}

	for _, tt := range tests {
		got, err := parseIdentifier(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseIdentifier(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if tt.wantErr {
			continue
		}
		if got.Owner != tt.wantOwner || got.Name != tt.wantName || got.URL != tt.wantURL {
			t.Errorf("parseIdentifier(%q) = %+v, want %s/%s %s", tt.input, got, tt.wantOwner, tt.wantName, tt.wantURL)
		}
	}
}

func TestParseIdentifiersDeduplicates(t *testing.T) {
	candidates, err := parseIdentifiers([]string{
		"acme/mcp-tools",
		"https://github.com/acme/mcp-tools",
		"acme/other",
	})
	if err != nil {
		t.Fatalf("parseIdentifiers() error = %v", err)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 unique candidates, got %d: %v", len(candidates), candidates)
	}
}

func TestReadCandidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "candidates.json")
	content := `[{"owner": "acme", "name": "mcp-tools", "url": "https://github.com/acme/mcp-tools"}]`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	candidates, err := readCandidateFile(path)
	if err != nil {
		t.Fatalf("readCandidateFile() error = %v", err)
	}
	if len(candidates) != 1 || candidates[0].FullName() != "acme/mcp-tools" {
		t.Fatalf("unexpected candidates: %v", candidates)
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"url": "x"}]`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := readCandidateFile(bad); err == nil {
		t.Fatal("expected error for candidate without owner/name")
	}
}

func TestSelectCandidates(t *testing.T) {
	found := []discovery.Candidate{
		{Owner: "acme", Name: "alpha", URL: "https://github.com/acme/alpha"},
		{Owner: "acme", Name: "bravo", URL: "https://github.com/acme/bravo"},
		{Owner: "acme", Name: "charlie", URL: "https://github.com/acme/charlie"},
	}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"numbers", "1 3\n\n", []string{"acme/alpha", "acme/charlie"}},
		{"all", "all\n\n", []string{"acme/alpha", "acme/bravo", "acme/charlie"}},
		{"identifier", "other/extra\n\n", []string{"other/extra"}},
		{"out of range ignored", "9\n2\n\n", []string{"acme/bravo"}},
		{"blank line finishes", "\n1\n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got, err := selectCandidates(strings.NewReader(tt.input), &out, found)
			if err != nil {
				t.Fatalf("selectCandidates() error = %v", err)
			}
			var names []string
			for _, c := range got {
				names = append(names, c.FullName())
			}
			if len(names) != len(tt.want) {
				t.Fatalf("selected %v, want %v", names, tt.want)
			}
			for i := range names {
				if names[i] != tt.want[i] {
					t.Fatalf("selected %v, want %v", names, tt.want)
				}
			}
		})
	}
}
