// Package cli wires the cobra commands: analyze, batch, serve, config
// and version.
package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/credence/internal/model"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "credence",
	Short: "Credence - multi-signal credibility scoring for online text",
	Long: `Credence grades online text against five independent credibility
signals: synthetic-text likelihood, sourcing quality, linguistic
manipulation, temporal grounding, and structural presentation.

It does not determine what is true or false.

Credence reads how a text behaves: how it cites, hedges, dates and
frames itself. It reports the stylistic risk patterns it finds, with
every scored input disclosed in the report.

Scores are a signal for further reading, not a verdict.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Display the version number and build information for Credence.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("credence v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.credence/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, the config file and CREDENCE_* env overrides
func initConfig() {
	// A local .env is optional; missing files are fine.
	_ = godotenv.Load()

	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		// Search for config in home directory
		viper.AddConfigPath(filepath.Join(home, ".credence"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match CREDENCE_*
	viper.SetEnvPrefix("CREDENCE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Unmarshal only sees env-only keys that were bound explicitly, so
	// bind the secrets that must work without a config file.
	_ = viper.BindEnv("inference.api_key", "CREDENCE_INFERENCE_API_KEY", "HF_API_TOKEN")
	_ = viper.BindEnv("corroboration.api_key", "CREDENCE_CORROBORATION_API_KEY", "NEWS_API_KEY")

	// If a config file is found, read it in
	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig layers the config file and environment over the defaults.
func loadConfig() *model.Config {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: ignoring malformed configuration: %v\n", err)
	}
	return cfg
}
