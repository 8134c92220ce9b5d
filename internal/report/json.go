package report

import (
	"github.com/hashicorp/go-hclog"

	"github.com/mcpscan/mcpscan/internal/scanner"
	"github.com/mcpscan/mcpscan/pkg/shared"
)

// WriteJSON writes the full scan report as indented JSON.
func WriteJSON(report *scanner.ScanReport, outputPath string, logger hclog.Logger) error {
	return shared.WriteJSONFile(report, outputPath, logger)
}
