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
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/signer"
)

var signCmd = &cobra.Command{
	Use:   "sign [build-id]",
	Short: "Compute the tamper-evidence digest for a build",
	Long: `Hashes the build metadata and SBOM bytes, in that fixed order, and
writes the signature record. Defaults to the latest build when no id is
given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSign,
}

var verifyCmd = &cobra.Command{
	Use:   "verify [build-id]",
	Short: "Verify a build's signature",
	Long: `Recomputes the digest over the build metadata and SBOM bytes and
compares it with the stored signature. A mismatch is fatal: consumers
must not rely on metadata that fails verification.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runVerify,
}

func readSignInputs(buildID string) (metaBytes, sbomBytes []byte, err error) {
	buildRoot := filepath.Join(config.Config().BuildsDir, buildID)
	metaBytes, err = os.ReadFile(filepath.Join(buildRoot, assembler.MetaFileName))
	if err != nil {
		return nil, nil, err
	}
	sbomBytes, err = os.ReadFile(filepath.Join(buildRoot, sbom.FileName))
	if err != nil {
		return nil, nil, err
	}
	return metaBytes, sbomBytes, nil
}

func runSign(cmd *cobra.Command, args []string) error {
	buildID, err := resolveBuildID(args)
	if err != nil {
		return err
	}
	metaBytes, sbomBytes, err := readSignInputs(buildID)
	if err != nil {
		return err
	}

	sig := signer.Sign(buildID, metaBytes, sbomBytes)
	content, err := json.MarshalIndent(sig, "", "  ")
	if err != nil {
		return err
	}
	sigPath := filepath.Join(config.Config().BuildsDir, buildID, signer.FileName)
	if err := os.WriteFile(sigPath, content, 0o644); err != nil {
		return err
	}
	log.Info().Str("build_id", buildID).Str("digest", sig.Digest).Msg("signature written")
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	buildID, err := resolveBuildID(args)
	if err != nil {
		return err
	}
	metaBytes, sbomBytes, err := readSignInputs(buildID)
	if err != nil {
		return err
	}

	sigBytes, err := os.ReadFile(filepath.Join(config.Config().BuildsDir, buildID, signer.FileName))
	if err != nil {
		return err
	}
	var sig signer.Signature
	if err := json.Unmarshal(sigBytes, &sig); err != nil {
		return err
	}

	if !signer.Verify(metaBytes, sbomBytes, &sig) {
		return signer.ErrIntegrity.New("signature mismatch for " + buildID)
	}
	log.Info().Str("build_id", buildID).Msg("signature verified")
	return nil
}
