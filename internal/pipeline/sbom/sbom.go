package sbom

import (
	"net/http"
	"time"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

var (
	ErrMissingBuild apperrors.Error = apperrors.New("sbom requires build metadata").SetStatusCode(http.StatusInternalServerError)
)

// ComponentTypeCreativeAsset is the component type for every entry; the
// lab only bundles creative assets.
const ComponentTypeCreativeAsset = "creative-asset"

// FileName is the canonical SBOM file inside a build workspace.
const FileName = "sbom.json"

type Component struct {
	ID          string `json:"id"`
	Path        string `json:"path"`
	Owner       string `json:"owner"`
	Sensitivity string `json:"sensitivity"`
	Type        string `json:"type"`
}

type SBOM struct {
	BuildID    string      `json:"build_id"`
	CreatedAt  time.Time   `json:"created_at"`
	Components []Component `json:"components"`
}

// Generate derives the bill of materials from build metadata. Pure: the
// component list mirrors the build's asset list one-to-one, in order,
// so repeated generation over the same build yields identical bytes and
// a reproducible signature.
func Generate(build *models.Build) (*SBOM, apperrors.Error) {
	if build == nil || build.BuildID == "" {
		return nil, ErrMissingBuild
	}
	s := &SBOM{
		BuildID:    build.BuildID,
		CreatedAt:  build.CreatedAt,
		Components: make([]Component, 0, len(build.Assets)),
	}
	for _, asset := range build.Assets {
		s.Components = append(s.Components, Component{
			ID:          asset.ID,
			Path:        asset.Path,
			Owner:       asset.Owner,
			Sensitivity: asset.Sensitivity,
			Type:        ComponentTypeCreativeAsset,
		})
	}
	return s, nil
}
