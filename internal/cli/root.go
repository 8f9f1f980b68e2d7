// Package cli implements the codeatlas command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/codeatlas/codeatlas/internal/config"
)

var (
	cfgDir string
	quiet  bool
	loaded *config.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "codeatlas",
	Short: "CodeAtlas - structural and dependency analysis for source trees",
	Long: `CodeAtlas inspects a source tree (local path or git repository),
extracts its code structure per file, and builds the import dependency
graph with rankings, isolated-file detection, and cycle detection.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config-dir", "", "directory containing codeatlas.yml (default is the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
}

// loadConfig loads configuration once per invocation.
func loadConfig() (*config.Config, error) {
	if loaded != nil {
		return loaded, nil
	}

	var err error
	if cfgDir != "" {
		loaded, err = config.LoadConfigFromDir(cfgDir)
	} else {
		loaded, err = config.LoadConfig()
	}
	if err != nil {
		return nil, err
	}
	return loaded, nil
}
