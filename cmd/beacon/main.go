// Command beacon compresses text for satellite SMS from the command line.
//
// Usage:
//
//	beacon compress "What should I do for a severe snake bite emergency?"
//	echo "you are at the hospital" | beacon compress --stats
//	beacon compress --to +15794010314 "weather forecast for tonight"
//	beacon rules --rules ./rules.yaml
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "beacon",
		Short: "Compress messages for satellite and SMS links",
		Long: `beacon abbreviates common words, collapses whitespace and truncates
text to fit a single SMS, reporting how many characters were saved.

Usage:
  beacon compress [text...]   Compress text (reads stdin when no text is given)
  beacon rules                Show the abbreviation table`,
		SilenceUsage: true,
	}
	root.AddCommand(newCompressCmd(), newRulesCmd())
	return root
}

// loadCompressor returns the default compressor, or one built from a YAML
// rule file when path is set.
func loadCompressor(path string) (*domain.Compressor, error) {
	if path == "" {
		return domain.DefaultCompressor(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rules: %w", err)
	}
	defer f.Close()

	rules, err := domain.LoadRules(f)
	if err != nil {
		return nil, fmt.Errorf("load rules %s: %w", path, err)
	}
	return domain.NewCompressor(rules)
}
