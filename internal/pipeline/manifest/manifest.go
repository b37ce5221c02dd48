package manifest

import (
	"context"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/registry"
)

var (
	ErrManifestConfig apperrors.Error = apperrors.New("invalid build manifest").SetStatusCode(http.StatusInternalServerError)
)

var validate = validator.New()

// AssetRef names an asset by id within a manifest.
type AssetRef struct {
	ID string `yaml:"id" validate:"required"`
}

// BuildManifest is the declarative input for a build: its id, the asset
// ids it bundles, and the vendors authorized to receive it. Authored
// externally; read-only here.
type BuildManifest struct {
	BuildID       string     `yaml:"build_id" validate:"required"`
	Description   string     `yaml:"description"`
	Assets        []AssetRef `yaml:"assets" validate:"dive"`
	TargetVendors []string   `yaml:"target_vendors"`
}

// ResolutionWarning records a manifest asset id absent from the registry
// at resolution time. Warnings never fail a build.
type ResolutionWarning struct {
	AssetID string
}

// Load reads and validates a manifest file. A missing or malformed file
// is a configuration error that aborts the run.
func Load(path string) (*BuildManifest, apperrors.Error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrManifestConfig.MsgErr("unable to read build manifest", err)
	}
	var m BuildManifest
	if err := yaml.Unmarshal(content, &m); err != nil {
		return nil, ErrManifestConfig.MsgErr("unable to parse build manifest", err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, ErrManifestConfig.MsgErr("invalid build manifest", err)
	}
	return &m, nil
}

// Resolve looks up every declared asset id against the registry,
// preserving manifest order. Unknown ids are excluded and reported as
// warnings; partial builds are allowed so that an asset removed from the
// registry does not invalidate the whole build.
func (m *BuildManifest) Resolve(ctx context.Context, reg *registry.Registry) ([]models.Asset, []ResolutionWarning) {
	var resolved []models.Asset
	var warnings []ResolutionWarning
	for _, ref := range m.Assets {
		asset, ok := reg.Lookup(ref.ID)
		if !ok {
			log.Ctx(ctx).Warn().Str("asset_id", ref.ID).Str("build_id", m.BuildID).
				Msg("asset id not found in registry")
			warnings = append(warnings, ResolutionWarning{AssetID: ref.ID})
			continue
		}
		resolved = append(resolved, asset)
	}
	return resolved, warnings
}
