// Package commands implements the CLI commands for adextract.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/nordbil/adextract/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "adextract",
	Short: "Extract structured vehicle data from car advertisements",
	Long: `Adextract turns car advertisements into structured listing data.

Point it at an ad screenshot, a PDF, or a listing URL and it extracts
make, model, price, mileage, dealer, location and more, infers the
country of sale, and estimates the transport cost for importing the
vehicle to Denmark.

Examples:
  # Parse an ad screenshot (OCR)
  adextract parse annonce.png

  # Parse a saved PDF
  adextract parse annonce.pdf

  # Fetch and parse a listing URL
  adextract parse "https://www.blocket.se/annons/..."

  # Run the HTTP API
  adextract serve --listen 0.0.0.0:8090`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default $HOME/.adextract.yaml)")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress progress output")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile := viper.GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".adextract")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ADEXTRACT")
	viper.AutomaticEnv()

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// logError prints an error message to stderr.
func logError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
