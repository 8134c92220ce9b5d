package report

import (
	"fmt"
	"io"

	"github.com/mcpscan/mcpscan/internal/rules"
	"github.com/mcpscan/mcpscan/internal/scanner"
)

// RenderConsole writes the human-readable scan report. Repositories with
// nothing flagged are listed with a short note; omission is a presentation
// choice and the scan result still carries them.
func RenderConsole(w io.Writer, report *scanner.ScanReport) {
	fmt.Fprintln(w, "===== VULNERABLE MCP SERVER REPOSITORIES =====")

	flagged := 0
	for i := range report.Repositories {
		if len(report.Repositories[i].Files) > 0 {
			flagged++
		}
	}
	if flagged == 0 {
		fmt.Fprintln(w, "No vulnerabilities found in any repository.")
		return
	}

	for i := range report.Repositories {
		repo := &report.Repositories[i]
		if len(repo.Files) == 0 {
			continue
		}

		fmt.Fprintf(w, "\nRepository: %s/%s\n", repo.Owner, repo.Name)
		fmt.Fprintf(w, "URL: %s\n", repo.URL)
		fmt.Fprintf(w, "Vulnerable Files: %d\n", repo.VulnerableFileCount)
		fmt.Fprintf(w, "MCP Server Files with Vulnerabilities: %d\n", repo.ServerFilesWithFindings)
		if repo.SkippedFiles > 0 {
			fmt.Fprintf(w, "Skipped Files: %d\n", repo.SkippedFiles)
		}

		for _, file := range repo.Files {
			fmt.Fprintf(w, "\n  - File: %s\n", file.Path)
			fmt.Fprintf(w, "    MCP Server File: %s\n", yesNo(file.IsServerFile))

			renderTier(w, "Definite Vulnerabilities", rules.TierDefinite, file.Findings)
			renderTier(w, "Potential Issues", rules.TierPotential, file.Findings)
		}
	}
}

func renderTier(w io.Writer, header string, tier rules.Tier, findings []scanner.Finding) {
	printed := false
	for _, f := range findings {
		if f.Tier != tier {
			continue
		}
		if !printed {
			fmt.Fprintf(w, "    %s:\n", header)
			printed = true
		}
		fmt.Fprintf(w, "      Line %d: %s\n", f.Line, f.Source)
	}
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
