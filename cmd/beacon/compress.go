package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/beacon-relay-service/internal/domain"
)

type compressFlags struct {
	maxLength  int
	suffix     string
	noTruncate bool
	rulesPath  string
	to         string
	stats      bool
	json       bool
}

type compressOutput struct {
	domain.CompressionResult
	PercentSaved *int   `json:"percent_saved,omitempty"`
	Summary      string `json:"summary"`
	domain.SegmentInfo
	SMSURI string `json:"sms_uri,omitempty"`
}

func newCompressCmd() *cobra.Command {
	var f compressFlags

	cmd := &cobra.Command{
		Use:   "compress [text...]",
		Short: "Compress text for SMS",
		Long: `Compress text with the abbreviation table and truncate it to one SMS.

Examples:
  beacon compress "you are at the hospital"     # u r @ the hosp
  beacon compress --no-truncate < notes.txt     # abbreviate only
  beacon compress --stats "weather forecast"    # savings table
  beacon compress --json --to +15794010314 hi   # JSON with compose link`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompress(cmd, args, f)
		},
	}

	cmd.Flags().IntVar(&f.maxLength, "max-length", domain.SMSMaxLength, "truncate to this many characters")
	cmd.Flags().StringVar(&f.suffix, "suffix", domain.DefaultTruncationSuffix, "suffix appended when truncating")
	cmd.Flags().BoolVar(&f.noTruncate, "no-truncate", false, "abbreviate and collapse whitespace only")
	cmd.Flags().StringVar(&f.rulesPath, "rules", "", "YAML rule file replacing the built-in table")
	cmd.Flags().StringVar(&f.to, "to", "", "print an sms: compose link addressed to this number")
	cmd.Flags().BoolVar(&f.stats, "stats", false, "print a savings table")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the result as JSON")
	cmd.MarkFlagsMutuallyExclusive("stats", "json")

	return cmd
}

func runCompress(cmd *cobra.Command, args []string, f compressFlags) error {
	if f.maxLength < 0 {
		return errors.New("--max-length must not be negative")
	}

	text, err := inputText(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	c, err := loadCompressor(f.rulesPath)
	if err != nil {
		return err
	}

	opts := domain.CompressionOptions{MaxLength: f.maxLength, TruncationSuffix: f.suffix}
	if f.noTruncate {
		opts = domain.NoTruncation()
	}

	result := c.Compress(text, opts)
	out := compressOutput{
		CompressionResult: result,
		Summary:           domain.SavingsSummary(result),
		SegmentInfo:       domain.Segments(result.CompressedText),
	}
	if pct, ok := domain.PercentSaved(result); ok {
		out.PercentSaved = &pct
	}
	if f.to != "" {
		out.SMSURI = domain.SMSComposeURI(f.to, result.CompressedText)
	}

	w := cmd.OutOrStdout()
	switch {
	case f.json:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	case f.stats:
		fmt.Fprintln(w, out.CompressedText)
		fmt.Fprintln(w)
		renderStats(w, out)
	default:
		fmt.Fprintln(w, out.CompressedText)
		fmt.Fprintln(w, out.Summary)
	}
	if out.SMSURI != "" {
		fmt.Fprintln(w, out.SMSURI)
	}
	return nil
}

// inputText joins args, or reads all of stdin when there are none. A single
// trailing newline from stdin is dropped.
func inputText(stdin io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.TrimSuffix(text, "\r"), nil
}

func renderStats(w io.Writer, out compressOutput) {
	percent := "n/a"
	if out.PercentSaved != nil {
		percent = strconv.Itoa(*out.PercentSaved) + "%"
	}

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetBorder(false)
	table.SetColumnSeparator("  ")
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)

	table.Append([]string{"Original", strconv.Itoa(out.OriginalLength)})
	table.Append([]string{"Compressed", strconv.Itoa(out.CompressedLength)})
	table.Append([]string{"Saved", strconv.Itoa(out.CharactersSaved)})
	table.Append([]string{"Percent", percent})
	table.Append([]string{"Truncated", strconv.FormatBool(out.Truncated)})
	table.Append([]string{"Encoding", out.Encoding})
	table.Append([]string{"Segments", strconv.Itoa(out.Segments)})

	table.Render()
}
