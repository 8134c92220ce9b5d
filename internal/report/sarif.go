package report

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/mcpscan/mcpscan/internal/rules"
	"github.com/mcpscan/mcpscan/internal/scanner"
)

const toolName = "mcpscan"
const toolURI = "https://github.com/mcpscan/mcpscan"

// WriteSARIF converts the scan report into a SARIF 2.1.0 document with a
// single run. Definite findings map to "error", potential ones to
// "warning". Artifact URIs are prefixed with owner/name so one run can
// carry several repositories.
func WriteSARIF(report *scanner.ScanReport, catalog *rules.Catalog, outputPath string, logger hclog.Logger) error {
	doc, err := sarif.New(sarif.Version210)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolURI)
	for _, rule := range catalog.VulnerabilityRules() {
		run.AddRule(rule.Name).
			WithDescription(ruleSummary(rule)).
			WithDefaultConfiguration(&sarif.ReportingConfiguration{
				Level: sarifLevel(rule.Tier),
			})
	}

	for i := range report.Repositories {
		repo := &report.Repositories[i]
		for _, file := range repo.Files {
			uri := fmt.Sprintf("%s/%s/%s", repo.Owner, repo.Name, file.Path)
			for _, finding := range file.Findings {
				location := sarif.NewLocation().WithPhysicalLocation(
					sarif.NewPhysicalLocation().
						WithArtifactLocation(sarif.NewArtifactLocation().WithUri(uri)).
						WithRegion(sarif.NewRegion().WithStartLine(finding.Line)),
				)

				msg := fmt.Sprintf("Possible command injection: %s", finding.Source)
				result := sarif.NewRuleResult(finding.RuleName).
					WithMessage(sarif.NewTextMessage(msg)).
					WithLevel(sarifLevel(finding.Tier)).
					WithLocations([]*sarif.Location{location})
				run.AddResult(result)
			}
		}
	}
	doc.AddRun(run)

	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed to create SARIF report file %q: %w", outputPath, err)
	}
	defer func() { _ = file.Close() }()
	if err := doc.PrettyWrite(file); err != nil {
		return fmt.Errorf("failed to write SARIF report: %w", err)
	}

	logger.Info("SARIF report saved to file", "path", outputPath)
	return nil
}

func sarifLevel(tier rules.Tier) string {
	if tier == rules.TierDefinite {
		return "error"
	}
	return "warning"
}

func ruleSummary(rule *rules.DetectionRule) string {
	switch {
	case rule.Construction:
		return "Dynamic command construction from interpolated or concatenated strings"
	case rule.Tier == rules.TierDefinite:
		return "Shell-enabled process invocation with dynamic input"
	default:
		return "Shell invocation without confirmed dynamic input"
	}
}
