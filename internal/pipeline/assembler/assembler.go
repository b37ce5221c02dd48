package assembler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/manifest"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/registry"
)

var (
	ErrAssembly apperrors.Error = apperrors.New("build assembly failed").SetStatusCode(http.StatusInternalServerError)
)

// MetaFileName is the canonical build metadata file inside a workspace.
const MetaFileName = "build_meta.json"

// Assembler materializes build workspaces and emits canonical Build
// records. Base directories are injected; nothing here resolves paths
// against the process working directory.
type Assembler struct {
	ProjectDir string
	BuildsDir  string
	Builds     db.BuildManager
	Events     db.EventManager
}

// Assemble resolves the manifest and produces the build workspace, the
// Build record, and exactly one build_created event.
//
// Re-running for the same build id overwrites the prior workspace and
// record; there is no build versioning. Two concurrent assemblies of the
// same build id have an undefined result. Distinct build ids are safe in
// parallel.
func (a *Assembler) Assemble(ctx context.Context, m *manifest.BuildManifest, reg *registry.Registry) (*models.Build, apperrors.Error) {
	buildRoot := filepath.Join(a.BuildsDir, m.BuildID)
	if err := os.MkdirAll(buildRoot, 0o755); err != nil {
		return nil, ErrAssembly.MsgErr("unable to create build workspace", err)
	}

	log.Ctx(ctx).Info().Str("build_id", m.BuildID).Msg("assembling build")

	resolved, warnings := m.Resolve(ctx, reg)

	for _, asset := range resolved {
		if err := copyAsset(a.ProjectDir, buildRoot, asset); err != nil {
			return nil, ErrAssembly.MsgErr("unable to copy asset "+asset.ID, err)
		}
	}

	build := &models.Build{
		BuildID:       m.BuildID,
		Description:   m.Description,
		CreatedAt:     time.Now().UTC().Truncate(time.Second),
		Assets:        resolved,
		TargetVendors: m.TargetVendors,
	}

	metaBytes, err := json.MarshalIndent(build, "", "  ")
	if err != nil {
		return nil, ErrAssembly.MsgErr("unable to encode build metadata", err)
	}
	if err := os.WriteFile(filepath.Join(buildRoot, MetaFileName), metaBytes, 0o644); err != nil {
		return nil, ErrAssembly.MsgErr("unable to write build metadata", err)
	}

	if err := a.Builds.UpsertBuild(ctx, build); err != nil {
		return nil, err
	}
	if err := a.Events.AppendBuildEvent(ctx, &models.BuildEvent{
		Type:          models.EventTypeBuildCreated,
		BuildID:       build.BuildID,
		Timestamp:     build.CreatedAt,
		TargetVendors: build.TargetVendors,
	}); err != nil {
		return nil, err
	}

	log.Ctx(ctx).Info().
		Str("build_id", build.BuildID).
		Int("assets", len(build.Assets)).
		Int("unresolved", len(warnings)).
		Msg("build created")
	return build, nil
}

// ReadMeta loads the canonical build metadata from a workspace. Missing
// metadata is fatal to every downstream stage.
func ReadMeta(buildsDir, buildID string) (*models.Build, []byte, apperrors.Error) {
	metaBytes, err := os.ReadFile(filepath.Join(buildsDir, buildID, MetaFileName))
	if err != nil {
		return nil, nil, ErrAssembly.MsgErr("missing build metadata for "+buildID, err)
	}
	var build models.Build
	if err := json.Unmarshal(metaBytes, &build); err != nil {
		return nil, nil, ErrAssembly.MsgErr("unable to parse build metadata", err)
	}
	return &build, metaBytes, nil
}

func copyAsset(projectDir, buildRoot string, asset models.Asset) error {
	srcPath := filepath.Join(projectDir, asset.Path)
	destPath := filepath.Join(buildRoot, asset.Path)
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()
	dest, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer dest.Close()
	if _, err := io.Copy(dest, src); err != nil {
		return err
	}
	return dest.Sync()
}
