package shared

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
)

// HasFlags reports whether any flag in the set was explicitly changed.
func HasFlags(flags *pflag.FlagSet) bool {
	changed := false
	flags.Visit(func(f *pflag.Flag) {
		changed = true
	})
	return changed
}

// WriteJSONFile marshals data with indentation and writes it to outputFile.
func WriteJSONFile(data interface{}, outputFile string, logger hclog.Logger) error {
	file, err := os.OpenFile(outputFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("failed creating file %q: %w", outputFile, err)
	}
	defer file.Close()

	datawriter := bufio.NewWriter(file)
	defer datawriter.Flush()

	resultJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if _, err := datawriter.Write(resultJSON); err != nil {
		return fmt.Errorf("failed to write results: %w", err)
	}

	logger.Info("results saved to file", "path", outputFile)
	return nil
}
