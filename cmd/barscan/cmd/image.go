package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/MeKo-Tech/barscan/internal/common"
	"github.com/MeKo-Tech/barscan/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image",
	Short: "Detect PDF417 symbols in image files",
	Long: `Scan one or more image files for PDF417 stacked barcodes.

Supported formats: JPEG, PNG, BMP

Examples:
  barscan image label.png
  barscan image *.png --format json
  barscan image label.png --overlay-dir out/`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		// Get configuration (includes CLI flags, config file, env vars, and defaults)
		cfg := GetConfig()

		format := cfg.Output.Format
		outputFile := cfg.Output.File
		overlayDir := cfg.Output.OverlayDir

		validFormats := []string{outputFormatText, outputFormatJSON}
		if !isValidFormat(format, validFormats) {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)", format, strings.Join(validFormats, ", "))
		}

		for _, pth := range args {
			if !utils.IsSupportedImage(pth) {
				return fmt.Errorf("unsupported image format: %s", pth)
			}
		}

		var results []*scanOutput
		for _, loaded := range utils.BatchLoadImages(args) {
			if loaded.Err != nil {
				return fmt.Errorf("failed to load %s: %w", loaded.Path, loaded.Err)
			}

			timer := common.NewNamedTimer(loaded.Path)
			out, err := scanDecodedImage(loaded.Img, cfg)
			if err != nil {
				return fmt.Errorf("detection failed for %s: %w", loaded.Path, err)
			}
			slog.Debug("Scanned image", "file", loaded.Path, "duration", timer.Stop().String())
			out.File = loaded.Meta.Path

			if decode, _ := cmd.Flags().GetBool("decode"); decode {
				value, derr := decodeSymbol(cmd.Context(), loaded.Img, out)
				if derr != nil {
					slog.Warn("Decode failed", "file", loaded.Path, "error", derr)
				} else {
					out.Decoded = value
				}
			}
			results = append(results, out)

			if overlayDir != "" {
				if err := os.MkdirAll(overlayDir, 0o750); err != nil {
					return fmt.Errorf("failed to create overlay directory: %w", err)
				}
				outPath, err := writeOverlay(loaded.Img, out, overlayDir, loaded.Path, cfg.Output.OverlayColor)
				if err != nil {
					return fmt.Errorf("failed to write overlay for %s: %w", loaded.Path, err)
				}
				if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Saved overlay: %s\n", outPath); err != nil {
					return fmt.Errorf("failed to write to stdout: %w", err)
				}
			}
		}

		final, err := formatResults(results, format)
		if err != nil {
			return err
		}
		return emitResults(cmd, final, outputFile)
	},
}

// isValidFormat reports whether format is one of the allowed values.
func isValidFormat(format string, valid []string) bool {
	for _, f := range valid {
		if format == f {
			return true
		}
	}
	return false
}

// emitResults writes the formatted output to a file or stdout.
func emitResults(cmd *cobra.Command, final, outputFile string) error {
	if outputFile != "" {
		if err := os.WriteFile(outputFile, []byte(final), 0o600); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "Results written to %s\n", outputFile); err != nil {
			return err
		}
		return nil
	}
	if _, err := fmt.Fprint(cmd.OutOrStdout(), final); err != nil {
		return fmt.Errorf("failed to write final output: %w", err)
	}
	return nil
}

func addScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "text", "output format (text, json)")
	cmd.Flags().StringP("output", "o", "", "output file (default: stdout)")
	cmd.Flags().String("overlay-dir", "", "directory to write overlay images (drawn corners)")
	cmd.Flags().String("overlay-color", "#FF0000", "overlay color (hex)")
	cmd.Flags().Int("row-stride", 0, "row sampling stride for the guard pattern search (0=default)")
	cmd.Flags().String("binarize", "otsu", "binarization method: otsu, mean, fixed")
	cmd.Flags().Int("threshold", 128, "threshold for the fixed binarization method (0..255)")
	cmd.Flags().Bool("try-upside-down", true, "retry detection with the image rotated 180 degrees")
	cmd.Flags().Bool("decode", false, "decode the located symbol (requires a decoder backend build)")
}

// bindScanFlags binds the shared scan flags to viper configuration keys.
func bindScanFlags(cmd *cobra.Command) {
	flagBindings := []struct {
		key  string
		flag string
	}{
		{"output.format", "format"},
		{"output.file", "output"},
		{"output.overlay_dir", "overlay-dir"},
		{"output.overlay_color", "overlay-color"},
		{"detect.row_stride", "row-stride"},
		{"detect.binarize_method", "binarize"},
		{"detect.fixed_threshold", "threshold"},
		{"detect.try_upside_down", "try-upside-down"},
	}

	for _, binding := range flagBindings {
		if err := viper.BindPFlag(binding.key, cmd.Flags().Lookup(binding.flag)); err != nil {
			panic(fmt.Sprintf("failed to bind flag %s: %v", binding.flag, err))
		}
	}
}

func init() {
	rootCmd.AddCommand(imageCmd)

	addScanFlags(imageCmd)
	bindScanFlags(imageCmd)
}

// GetImageCommand returns the image command for testing purposes.
func GetImageCommand() *cobra.Command {
	return imageCmd
}
