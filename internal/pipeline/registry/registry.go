package registry

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

var (
	ErrRegistryConfig apperrors.Error = apperrors.New("invalid asset registry").SetStatusCode(http.StatusInternalServerError)
)

var validate = validator.New()

// Registry is the authoritative mapping of asset id to asset record.
// Built once from the registry file; read-only afterwards.
type Registry struct {
	assets map[string]models.Asset
}

// Load reads and validates the asset registry file. A missing or
// malformed file is a configuration error that aborts the run.
func Load(path string) (*Registry, apperrors.Error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRegistryConfig.MsgErr("unable to read asset registry", err)
	}
	var assets []models.Asset
	if err := json.Unmarshal(content, &assets); err != nil {
		return nil, ErrRegistryConfig.MsgErr("unable to parse asset registry", err)
	}

	reg := &Registry{assets: make(map[string]models.Asset, len(assets))}
	for _, asset := range assets {
		if err := validate.Struct(asset); err != nil {
			return nil, ErrRegistryConfig.MsgErr("invalid asset record", err)
		}
		if _, ok := reg.assets[asset.ID]; ok {
			return nil, ErrRegistryConfig.New("duplicate asset id: " + asset.ID)
		}
		reg.assets[asset.ID] = asset
	}
	return reg, nil
}

// Lookup returns the asset for id, if registered.
func (r *Registry) Lookup(id string) (models.Asset, bool) {
	asset, ok := r.assets[id]
	return asset, ok
}

func (r *Registry) Len() int {
	return len(r.assets)
}
