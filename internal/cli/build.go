package cli

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/assembler"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/manifest"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/registry"
)

var (
	manifestFile string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Assemble a build from the declared manifest",
	Long: `Resolves the build manifest against the asset registry, copies the
resolved assets into a build workspace, and records the build and its
build_created event. Unknown asset ids are warned about and skipped;
partial builds are allowed.`,
	RunE: runBuild,
}

func init() {
	buildCmd.Flags().StringVarP(&manifestFile, "manifest", "f", "", "Path to the build manifest (defaults to the project manifest)")
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Config()

	registryPath := filepath.Join(cfg.ProjectDir, "metadata", "asset_registry.json")
	reg, apperr := registry.Load(registryPath)
	if apperr != nil {
		return apperr
	}

	manifestPath := manifestFile
	if manifestPath == "" {
		manifestPath = filepath.Join(cfg.ProjectDir, "config", "build_manifest.yml")
	}
	m, apperr := manifest.Load(manifestPath)
	if apperr != nil {
		return apperr
	}

	store, apperr := openStore()
	if apperr != nil {
		return apperr
	}
	defer store.Close()

	a := &assembler.Assembler{
		ProjectDir: cfg.ProjectDir,
		BuildsDir:  cfg.BuildsDir,
		Builds:     store,
		Events:     store,
	}
	_, apperr = a.Assemble(ctx, m, reg)
	if apperr != nil {
		return apperr
	}
	return nil
}
