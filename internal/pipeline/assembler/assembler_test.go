package assembler

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/sqlite"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/manifest"
	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/registry"
)

func setupAssembler(t *testing.T) (*Assembler, *sqlite.Store, *registry.Registry) {
	t.Helper()
	root := t.TempDir()
	projectDir := filepath.Join(root, "project")
	buildsDir := filepath.Join(root, "builds")

	assets := map[string]string{
		"assets/characters/hero.txt":        "HERO CHARACTER ASSET",
		"assets/environments/cityscape.txt": "CITYSCAPE ENVIRONMENT ASSET",
	}
	for rel, content := range assets {
		path := filepath.Join(projectDir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	regPath := filepath.Join(projectDir, "asset_registry.json")
	require.NoError(t, os.WriteFile(regPath, []byte(`[
		{"id": "char_hero", "path": "assets/characters/hero.txt", "owner": "studio_internal", "sensitivity": "high"},
		{"id": "env_cityscape", "path": "assets/environments/cityscape.txt", "owner": "studio_internal", "sensitivity": "medium"}
	]`), 0o644))
	reg, apperr := registry.Load(regPath)
	require.Nil(t, apperr)

	store, apperr := sqlite.Open(sqlite.Config{Path: filepath.Join(root, "lab.db")})
	require.Nil(t, apperr)
	t.Cleanup(func() { store.Close() })

	a := &Assembler{
		ProjectDir: projectDir,
		BuildsDir:  buildsDir,
		Builds:     store,
		Events:     store,
	}
	return a, store, reg
}

func TestAssemble(t *testing.T) {
	ctx := context.Background()
	a, store, reg := setupAssembler(t)

	m := &manifest.BuildManifest{
		BuildID:       "build_001",
		Description:   "Interactive Preview Build 01",
		Assets:        []manifest.AssetRef{{ID: "char_hero"}, {ID: "env_cityscape"}},
		TargetVendors: []string{"vendor_a"},
	}

	build, apperr := a.Assemble(ctx, m, reg)
	require.Nil(t, apperr)
	require.Len(t, build.Assets, 2)
	assert.Equal(t, []string{"vendor_a"}, build.TargetVendors)
	assert.False(t, build.CreatedAt.IsZero())

	// assets copied into the workspace
	copied, err := os.ReadFile(filepath.Join(a.BuildsDir, "build_001", "assets/characters/hero.txt"))
	require.NoError(t, err)
	assert.Equal(t, "HERO CHARACTER ASSET", string(copied))

	// build_meta.json mirrors the record
	metaBytes, err := os.ReadFile(filepath.Join(a.BuildsDir, "build_001", MetaFileName))
	require.NoError(t, err)
	var fromDisk models.Build
	require.NoError(t, json.Unmarshal(metaBytes, &fromDisk))
	assert.Equal(t, build, &fromDisk)

	// record persisted and exactly one build_created event appended
	stored, apperr := store.GetBuild(ctx, "build_001")
	require.Nil(t, apperr)
	assert.Equal(t, build, stored)

	events, apperr := store.ListBuildEvents(ctx)
	require.Nil(t, apperr)
	require.Len(t, events, 1)
	assert.Equal(t, models.EventTypeBuildCreated, events[0].Type)
	assert.Equal(t, "build_001", events[0].BuildID)
	assert.Equal(t, []string{"vendor_a"}, events[0].TargetVendors)
}

func TestAssembleUnknownAssetSkipped(t *testing.T) {
	ctx := context.Background()
	a, _, reg := setupAssembler(t)

	m := &manifest.BuildManifest{
		BuildID: "build_002",
		Assets:  []manifest.AssetRef{{ID: "char_hero"}, {ID: "missing_id"}},
	}

	build, apperr := a.Assemble(ctx, m, reg)
	require.Nil(t, apperr)
	require.Len(t, build.Assets, 1)
	assert.Equal(t, "char_hero", build.Assets[0].ID)
}

func TestAssembleOverwritesWorkspace(t *testing.T) {
	ctx := context.Background()
	a, store, reg := setupAssembler(t)

	m := &manifest.BuildManifest{
		BuildID: "build_003",
		Assets:  []manifest.AssetRef{{ID: "char_hero"}},
	}
	_, apperr := a.Assemble(ctx, m, reg)
	require.Nil(t, apperr)

	m.Description = "second pass"
	m.Assets = append(m.Assets, manifest.AssetRef{ID: "env_cityscape"})
	build, apperr := a.Assemble(ctx, m, reg)
	require.Nil(t, apperr)
	assert.Len(t, build.Assets, 2)

	stored, apperr := store.GetBuild(ctx, "build_003")
	require.Nil(t, apperr)
	assert.Equal(t, "second pass", stored.Description)

	// each run appends its own build_created event
	events, apperr := store.ListBuildEvents(ctx)
	require.Nil(t, apperr)
	assert.Len(t, events, 2)
}

func TestReadMeta(t *testing.T) {
	ctx := context.Background()
	a, _, reg := setupAssembler(t)

	m := &manifest.BuildManifest{
		BuildID: "build_004",
		Assets:  []manifest.AssetRef{{ID: "char_hero"}},
	}
	build, apperr := a.Assemble(ctx, m, reg)
	require.Nil(t, apperr)

	got, metaBytes, apperr := ReadMeta(a.BuildsDir, "build_004")
	require.Nil(t, apperr)
	assert.Equal(t, build, got)
	assert.NotEmpty(t, metaBytes)

	_, _, apperr = ReadMeta(a.BuildsDir, "build_404")
	assert.ErrorIs(t, apperr, ErrAssembly)
}
