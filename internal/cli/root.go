package cli

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/sqlite"
)

var (
	// Global flags
	configFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "lab-cli",
	Short: "Creative Content Security Lab pipeline driver",
	Long: `lab-cli drives the build-to-distribution security pipeline:
it assembles builds from a manifest, derives SBOMs, signs and encrypts
packages per vendor, and runs the monitoring passes over the event log.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.LoadConfig(configFile)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")

	rootCmd.AddCommand(bootstrapCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(sbomCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(encryptCmd)
	rootCmd.AddCommand(collectCmd)
	rootCmd.AddCommand(evaluateCmd)
}

// NewRootCmd returns the configured root command for main.
func NewRootCmd() *cobra.Command {
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd
}

func openStore() (*sqlite.Store, apperrors.Error) {
	return sqlite.Open(sqlite.Config{Path: config.Config().DBPath})
}

// resolveBuildID returns the requested build id, or the latest workspace
// under the builds dir when none is given.
func resolveBuildID(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	entries, err := os.ReadDir(config.Config().BuildsDir)
	if err != nil {
		return "", err
	}
	var ids []string
	for _, e := range entries {
		if e.IsDir() {
			ids = append(ids, e.Name())
		}
	}
	if len(ids) == 0 {
		return "", os.ErrNotExist
	}
	sort.Strings(ids)
	return ids[len(ids)-1], nil
}

func monitoringEventsPath() string {
	return filepath.Join(config.Config().MonitoringDir, "events.json")
}

func monitoringAlertsPath() string {
	return filepath.Join(config.Config().MonitoringDir, "alerts", "alerts.json")
}
