package encryptor

import (
	"context"
	"net/http"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/keystore"
)

var (
	ErrEncrypt apperrors.Error = apperrors.New("package encryption failed").SetStatusCode(http.StatusInternalServerError)
)

const (
	// ArchiveSuffix is the per-build plaintext bundle extension.
	ArchiveSuffix = ".tar.zst"
	// PackageSuffix is the per-vendor ciphertext extension.
	PackageSuffix = ".enc"
)

// EncryptedPackage locates one vendor's ciphertext for one build.
type EncryptedPackage struct {
	BuildID  string `json:"build_id"`
	VendorID string `json:"vendor_id"`
	Path     string `json:"path"`
}

// PackagePath returns the canonical ciphertext location for a
// (build, vendor) pair. The portal resolves downloads against this.
func PackagePath(buildsDir, buildID, vendorID string) string {
	return filepath.Join(buildsDir, buildID, buildID+"_"+vendorID+PackageSuffix)
}

// Encryptor archives builds and produces one ciphertext per target
// vendor using that vendor's key from the key store.
type Encryptor struct {
	BuildsDir string
	Keys      *keystore.Store
}

// EncryptForVendors archives the build workspace once (skipped when the
// archive already exists) and encrypts it separately for every target
// vendor. An empty target list is a no-op. No vendor ever receives
// another vendor's ciphertext or key.
func (e *Encryptor) EncryptForVendors(ctx context.Context, build *models.Build) (map[string]EncryptedPackage, apperrors.Error) {
	if build == nil || build.BuildID == "" {
		return nil, ErrEncrypt.New("missing build metadata")
	}
	if len(build.TargetVendors) == 0 {
		log.Ctx(ctx).Info().Str("build_id", build.BuildID).Msg("no target vendors defined; nothing to encrypt")
		return map[string]EncryptedPackage{}, nil
	}

	buildRoot := filepath.Join(e.BuildsDir, build.BuildID)
	archivePath := filepath.Join(buildRoot, build.BuildID+ArchiveSuffix)
	if _, err := os.Stat(archivePath); os.IsNotExist(err) {
		if err := archiveBuild(buildRoot, archivePath); err != nil {
			return nil, ErrEncrypt.MsgErr("unable to archive build", err)
		}
		log.Ctx(ctx).Info().Str("build_id", build.BuildID).Msg("archived build workspace")
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return nil, ErrEncrypt.MsgErr("unable to read build archive", err)
	}

	packages := make(map[string]EncryptedPackage, len(build.TargetVendors))
	for _, vendorID := range build.TargetVendors {
		key, apperr := e.Keys.GetOrCreateKey(ctx, vendorID)
		if apperr != nil {
			return nil, apperr
		}
		ciphertext, apperr := key.Seal(data)
		if apperr != nil {
			return nil, apperr
		}
		outPath := PackagePath(e.BuildsDir, build.BuildID, vendorID)
		if err := os.WriteFile(outPath, ciphertext, 0o644); err != nil {
			return nil, ErrEncrypt.MsgErr("unable to write encrypted package for "+vendorID, err)
		}
		packages[vendorID] = EncryptedPackage{
			BuildID:  build.BuildID,
			VendorID: vendorID,
			Path:     outPath,
		}
		log.Ctx(ctx).Info().Str("build_id", build.BuildID).Str("vendor_id", vendorID).
			Msg("encrypted package written")
	}
	return packages, nil
}
