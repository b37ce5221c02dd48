package cli

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/assembler"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/sbom"
)

var sbomCmd = &cobra.Command{
	Use:   "sbom [build-id]",
	Short: "Generate the bill of materials for a build",
	Long: `Derives the SBOM from a build's metadata. Components mirror the
build's asset list one-to-one, in order, so the output is reproducible.
Defaults to the latest build when no id is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSBOM,
}

func runSBOM(cmd *cobra.Command, args []string) error {
	buildID, err := resolveBuildID(args)
	if err != nil {
		return err
	}
	buildsDir := config.Config().BuildsDir

	build, _, apperr := assembler.ReadMeta(buildsDir, buildID)
	if apperr != nil {
		return apperr
	}

	s, apperr := sbom.Generate(build)
	if apperr != nil {
		return apperr
	}

	content, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	sbomPath := filepath.Join(buildsDir, buildID, sbom.FileName)
	if err := os.WriteFile(sbomPath, content, 0o644); err != nil {
		return err
	}
	log.Info().Str("build_id", buildID).Str("path", sbomPath).Msg("sbom written")
	return nil
}
