package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MeKo-Tech/barscan/internal/pdfimg"
	"github.com/spf13/cobra"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Detect PDF417 symbols in PDF documents",
	Long: `Extract the embedded page images from one or more PDF files and
scan each page for PDF417 stacked barcodes.

Pages without a detectable symbol are skipped.

Examples:
  barscan pdf shipping.pdf
  barscan pdf shipping.pdf --pages 1-3 --format json
  barscan pdf a.pdf b.pdf --output results.json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()

		// Extract values from configuration with CLI flag overrides
		format := cfg.Output.Format
		if cmd.Flags().Changed("format") {
			format, _ = cmd.Flags().GetString("format")
		}
		outputFile := cfg.Output.File
		if cmd.Flags().Changed("output") {
			outputFile, _ = cmd.Flags().GetString("output")
		}
		pages := cfg.PDF.Pages
		if cmd.Flags().Changed("pages") {
			pages, _ = cmd.Flags().GetString("pages")
		}

		validFormats := []string{outputFormatText, outputFormatJSON}
		if !isValidFormat(format, validFormats) {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
		}

		var results []*scanOutput
		for _, pth := range args {
			pageImages, err := pdfimg.ExtractPageImages(pth, pages)
			if err != nil {
				return fmt.Errorf("failed to extract images from %s: %w", pth, err)
			}

			for _, pi := range pageImages {
				out, err := scanDecodedImage(pi.Image, cfg)
				if err != nil {
					slog.Debug("No symbol on page", "file", pth, "page", pi.Page, "error", err)
					continue
				}
				out.File = pth
				out.Page = pi.Page
				results = append(results, out)
			}
		}

		if len(results) == 0 {
			return errors.New("no symbols detected")
		}

		final, err := formatResults(results, format)
		if err != nil {
			return err
		}
		return emitResults(cmd, final, outputFile)
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	pdfCmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	pdfCmd.Flags().String("pages", "", "page range to scan (e.g. \"1-5\" or \"1,3,5\", empty for all)")
}

// GetPdfCommand returns the pdf command for testing purposes.
func GetPdfCommand() *cobra.Command {
	return pdfCmd
}
