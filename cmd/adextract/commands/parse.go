package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nordbil/adextract/internal/config"
	"github.com/nordbil/adextract/internal/logger"
	"github.com/nordbil/adextract/pkg/adparse"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file-or-url>",
	Short: "Parse a single advertisement",
	Long: `Parse one advertisement and print the extracted listing as JSON.

The argument is either a listing URL (http/https), a PDF, or an image
file. Images and scanned PDFs require tesseract; scanned PDFs also
require pdftoppm.

Examples:
  adextract parse annonce.png
  adextract parse annonce.pdf -o listing.json
  adextract parse "https://suchen.mobile.de/fahrzeuge/details.html?id=..."`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	flags := parseCmd.Flags()
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.Bool("include-raw-text", false, "include the normalized source text in the output")
}

func runParse(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		logError("%v", err)
		return err
	}

	target := strings.TrimSpace(args[0])
	parser := adparse.NewFromConfig(cfg)

	var result *adparse.Result
	switch {
	case strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://"):
		result, err = parser.ParseURL(ctx, target)
	default:
		var data []byte
		data, err = os.ReadFile(target)
		if err != nil {
			logError("reading %s: %v", target, err)
			return err
		}
		if strings.EqualFold(filepath.Ext(target), ".pdf") {
			result, err = parser.ParsePDF(ctx, data)
		} else {
			result, err = parser.ParseImage(ctx, data)
		}
	}
	if err != nil {
		logError("%v", err)
		return err
	}

	includeRaw, _ := cmd.Flags().GetBool("include-raw-text")
	if !includeRaw {
		result.RawText = ""
	}

	encoded, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}

	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		return os.WriteFile(outPath, append(encoded, '\n'), 0o644)
	}
	fmt.Println(string(encoded))
	return nil
}
