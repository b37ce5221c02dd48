package cli

import (
	"github.com/spf13/cobra"

	"github.com/xaviermotley/creative-content-security-lab/internal/config"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/assembler"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/encryptor"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/keystore"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [build-id]",
	Short: "Encrypt a build's archive for each target vendor",
	Long: `Archives the build workspace once, then produces one authenticated
ciphertext per target vendor using that vendor's key. Vendor keys are
minted on first use and reused afterwards. Defaults to the latest build
when no id is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg := config.Config()

	buildID, err := resolveBuildID(args)
	if err != nil {
		return err
	}
	build, _, apperr := assembler.ReadMeta(cfg.BuildsDir, buildID)
	if apperr != nil {
		return apperr
	}

	e := &encryptor.Encryptor{
		BuildsDir: cfg.BuildsDir,
		Keys:      keystore.New(cfg.SecretsDir, cfg.KeyEncryptionPasswd),
	}
	_, apperr = e.EncryptForVendors(ctx, build)
	if apperr != nil {
		return apperr
	}
	return nil
}
