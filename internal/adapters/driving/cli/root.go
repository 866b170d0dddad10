// Package cli provides the irrigo command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/praxis-labs/irrigo/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "irrigo",
	Short: "Deterministic execution-plan builder for irrigation policy analysis",
	Long: `irrigo binds analytical questions to a validated 10x6 grid of
document chunks and assembles them into a deterministic,
content-addressed execution plan. The same questionnaire and the same
chunk document always produce the same plan id, regardless of input
order or when the run happens.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion overrides the build version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}
