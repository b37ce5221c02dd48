package cli

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/manifest"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seed the lab environment",
	Long: `Creates the project tree with placeholder assets, the asset
registry, a starter build manifest, and the vendor records. Safe to
re-run; existing records are kept.`,
	RunE: runBootstrap,
}

var seedAssets = []struct {
	asset   models.Asset
	content string
}{
	{
		asset:   models.Asset{ID: "char_hero", Path: "assets/characters/hero.txt", Owner: "studio_internal", Sensitivity: "high"},
		content: "HERO CHARACTER ASSET",
	},
	{
		asset:   models.Asset{ID: "env_cityscape", Path: "assets/environments/cityscape.txt", Owner: "studio_internal", Sensitivity: "medium"},
		content: "CITYSCAPE ENVIRONMENT ASSET",
	},
	{
		asset:   models.Asset{ID: "cin_intro", Path: "assets/cinematics/intro_scene.txt", Owner: "studio_internal", Sensitivity: "high"},
		content: "INTRO CINEMATIC ASSET",
	},
}

var seedVendors = []models.Vendor{
	{ID: "vendor_a", Name: "Vendor A Localization", Secret: "vendor_a_secret"},
	{ID: "vendor_b", Name: "Vendor B Trailer House", Secret: "vendor_b_secret"},
}

func runBootstrap(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Config()

	for _, dir := range []string{
		cfg.BuildsDir,
		cfg.SecretsDir,
		filepath.Join(cfg.MonitoringDir, "alerts"),
		filepath.Join(cfg.SimulationDir, "logs"),
		filepath.Join(cfg.ProjectDir, "config"),
		filepath.Join(cfg.ProjectDir, "metadata"),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	// placeholder assets and the registry describing them
	var registryRecords []models.Asset
	for _, seed := range seedAssets {
		assetPath := filepath.Join(cfg.ProjectDir, seed.asset.Path)
		if err := os.MkdirAll(filepath.Dir(assetPath), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(assetPath, []byte(seed.content), 0o644); err != nil {
			return err
		}
		registryRecords = append(registryRecords, seed.asset)
	}
	registryJSON, err := json.MarshalIndent(registryRecords, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(cfg.ProjectDir, "metadata", "asset_registry.json"), registryJSON, 0o644); err != nil {
		return err
	}

	// starter manifest
	m := manifest.BuildManifest{
		BuildID:       "build_001",
		Description:   "Interactive Preview Build 01",
		Assets:        []manifest.AssetRef{{ID: "char_hero"}, {ID: "env_cityscape"}, {ID: "cin_intro"}},
		TargetVendors: []string{"vendor_a"},
	}
	manifestYAML, err := yaml.Marshal(&m)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(cfg.ProjectDir, "config", "build_manifest.yml"), manifestYAML, 0o644); err != nil {
		return err
	}

	// vendor records
	store, apperr := openStore()
	if apperr != nil {
		return apperr
	}
	defer store.Close()
	for _, vendor := range seedVendors {
		v := vendor
		if err := store.CreateVendor(ctx, &v); err != nil {
			if !errors.Is(err, dberror.ErrAlreadyExists) {
				return err
			}
		}
	}

	log.Info().Str("project_dir", cfg.ProjectDir).Msg("lab environment seeded")
	return nil
}
