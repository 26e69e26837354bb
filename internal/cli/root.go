package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pcmgen",
		Short: "Build a KiCad PCM addon repository from source packages",
		Long: `Pcmgen scans a source tree for KiCad addon packages and builds the
static repository consumed by the Plugin and Content Manager.

Supported package types:
  - Color themes (colortheme)
  - Symbol/footprint/3D model libraries (library)
  - Action plugins (plugin)
  - Fabrication plugins (fab)
  - Data sources (datasource)`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	rootCmd.AddCommand(NewBuildCmd())

	return rootCmd
}
