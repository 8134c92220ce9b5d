package scanner

import (
	"reflect"
	"strings"
	"testing"

	"github.com/mcpscan/mcpscan/internal/rules"
)

func newTestScanner(t *testing.T) *ContentScanner {
	t.Helper()
	catalog, err := rules.NewCatalog()
	if err != nil {
		t.Fatalf("NewCatalog() error = %v", err)
	}
	return NewContentScanner(catalog, DefaultPromotionWindow)
}

func TestScanCleanContent(t *testing.T) {
	s := newTestScanner(t)

	content := strings.Join([]string{
		`import json`,
		`def load(path):`,
		`    with open(path) as f:`,
		`        return json.load(f)`,
	}, "\n")

	if findings := s.Scan(content); len(findings) != 0 {
		t.Fatalf("expected no findings, got %v", findings)
	}
	if findings := s.Scan(""); len(findings) != 0 {
		t.Fatalf("expected no findings for empty content, got %v", findings)
	}
}

func TestScanConstructionIntoShellSink(t *testing.T) {
	s := newTestScanner(t)

	content := strings.Join([]string{
		`command = f"cat {file_path}"`,
		`result = subprocess.check_output(command, shell=True)`,
	}, "\n")

	findings := s.Scan(content)
	if len(findings) != 2 {
		t.Fatalf("expected 2 findings, got %d: %v", len(findings), findings)
	}

	if findings[0].Line != 1 || findings[0].Tier != rules.TierDefinite {
		t.Errorf("construction finding = line %d tier %s, want line 1 definite", findings[0].Line, findings[0].Tier)
	}
	if findings[0].RuleName != "command-construction" {
		t.Errorf("construction finding attributed to %q", findings[0].RuleName)
	}
	if findings[1].Line != 2 || findings[1].Tier != rules.TierDefinite {
		t.Errorf("sink finding = line %d tier %s, want line 2 definite", findings[1].Line, findings[1].Tier)
	}
}

func TestScanLoneConstructionStaysPotential(t *testing.T) {
	s := newTestScanner(t)

	findings := s.Scan(`test_cmd = f"echo {test_input} | grep pattern"`)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Tier != rules.TierPotential {
		t.Errorf("lone construction tier = %s, want potential", findings[0].Tier)
	}
	if findings[0].Line != 1 {
		t.Errorf("lone construction line = %d, want 1", findings[0].Line)
	}
}

func TestScanLoneSinkKeepsBaseTier(t *testing.T) {
	s := newTestScanner(t)

	findings := s.Scan(`os.system(command)`)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d", len(findings))
	}
	if findings[0].Tier != rules.TierPotential {
		t.Errorf("lone sink tier = %s, want potential", findings[0].Tier)
	}
	if findings[0].RuleName != "os-shell-call" {
		t.Errorf("lone sink attributed to %q", findings[0].RuleName)
	}
}

func TestScanPromotionWindow(t *testing.T) {
	tests := []struct {
		name     string
		gap      int // blank lines between construction and sink
		wantTier rules.Tier
	}{
		{"sink on next line", 0, rules.TierDefinite},
		{"sink at window edge", 2, rules.TierDefinite},
		{"sink beyond window", 3, rules.TierPotential},
	}

	s := newTestScanner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := []string{`command = f"ls -la {directory}"`}
			for i := 0; i < tt.gap; i++ {
				lines = append(lines, ``)
			}
			lines = append(lines, `os.system(command)`)

			findings := s.Scan(strings.Join(lines, "\n"))
			if len(findings) != 2 {
				t.Fatalf("expected 2 findings, got %d: %v", len(findings), findings)
			}
			if findings[0].Tier != tt.wantTier {
				t.Errorf("construction tier = %s, want %s", findings[0].Tier, tt.wantTier)
			}
		})
	}
}

func TestScanOneFindingPerLineAtHighestTier(t *testing.T) {
	s := newTestScanner(t)

	// Both a definite dynamic sink rule and the potential bare sink rule
	// fire here; only one finding survives, at the higher tier.
	findings := s.Scan(`os.system("ls " + user_input)`)
	if len(findings) != 1 {
		t.Fatalf("expected 1 finding, got %d: %v", len(findings), findings)
	}
	if findings[0].Tier != rules.TierDefinite {
		t.Errorf("tier = %s, want definite", findings[0].Tier)
	}
	if findings[0].RuleName != "os-shell-dynamic" {
		t.Errorf("attributed to %q, want os-shell-dynamic", findings[0].RuleName)
	}
}

func TestScanLineNumbersStrictlyIncreasing(t *testing.T) {
	s := newTestScanner(t)

	content := strings.Join([]string{
		`command = f"cat {a}"`,
		`os.system(command)`,
		`x = 1`,
		`cmd = f"grep {pattern}"`,
		`subprocess.run(cmd, shell=True)`,
	}, "\n")

	findings := s.Scan(content)
	if len(findings) < 2 {
		t.Fatalf("expected multiple findings, got %d", len(findings))
	}
	for i := 1; i < len(findings); i++ {
		if findings[i].Line <= findings[i-1].Line {
			t.Fatalf("line numbers not strictly increasing: %v", findings)
		}
	}
}

func TestScanIsIdempotent(t *testing.T) {
	s := newTestScanner(t)

	content := strings.Join([]string{
		`command = f"cat {a}"`,
		`os.system(command)`,
	}, "\n")

	first := s.Scan(content)
	second := s.Scan(content)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("scan is not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
}

func TestClassify(t *testing.T) {
	s := newTestScanner(t)

	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"mcp import", "import os\nfrom mcp import Server\n", true},
		{"server class", "class WeatherMCPServer:\n    pass\n", true},
		{"plain python", "import os\nprint('hi')\n", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Classify(tt.content); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}
