package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaviermotley/creative-content-security-lab/internal/pipeline/registry"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	path := writeFile(t, "asset_registry.json", `[
		{"id": "char_hero", "path": "assets/characters/hero.txt", "owner": "studio_internal", "sensitivity": "high"},
		{"id": "env_cityscape", "path": "assets/environments/cityscape.txt", "owner": "studio_internal", "sensitivity": "medium"},
		{"id": "cin_intro", "path": "assets/cinematics/intro_scene.txt", "owner": "studio_internal", "sensitivity": "high"}
	]`)
	reg, err := registry.Load(path)
	require.Nil(t, err)
	return reg
}

func TestLoad(t *testing.T) {
	path := writeFile(t, "build_manifest.yml", `
build_id: build_001
description: Interactive Preview Build 01
assets:
  - id: char_hero
  - id: env_cityscape
target_vendors:
  - vendor_a
`)
	m, err := Load(path)
	require.Nil(t, err)
	assert.Equal(t, "build_001", m.BuildID)
	assert.Len(t, m.Assets, 2)
	assert.Equal(t, []string{"vendor_a"}, m.TargetVendors)
}

func TestLoadMissingBuildID(t *testing.T) {
	path := writeFile(t, "build_manifest.yml", `
description: no id
assets:
  - id: char_hero
`)
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrManifestConfig)
}

func TestResolve(t *testing.T) {
	reg := testRegistry(t)
	m := &BuildManifest{
		BuildID: "build_001",
		Assets:  []AssetRef{{ID: "char_hero"}, {ID: "cin_intro"}, {ID: "env_cityscape"}},
	}

	resolved, warnings := m.Resolve(context.Background(), reg)
	require.Len(t, resolved, 3)
	assert.Empty(t, warnings)

	// manifest order is preserved, not registry order
	assert.Equal(t, "char_hero", resolved[0].ID)
	assert.Equal(t, "cin_intro", resolved[1].ID)
	assert.Equal(t, "env_cityscape", resolved[2].ID)
}

func TestResolveUnknownAsset(t *testing.T) {
	reg := testRegistry(t)
	m := &BuildManifest{
		BuildID: "build_001",
		Assets:  []AssetRef{{ID: "char_hero"}, {ID: "missing_id"}},
	}

	resolved, warnings := m.Resolve(context.Background(), reg)
	require.Len(t, resolved, 1)
	assert.Equal(t, "char_hero", resolved[0].ID)
	require.Len(t, warnings, 1)
	assert.Equal(t, "missing_id", warnings[0].AssetID)
}

func TestResolveEmptyManifest(t *testing.T) {
	reg := testRegistry(t)
	m := &BuildManifest{BuildID: "build_empty"}

	resolved, warnings := m.Resolve(context.Background(), reg)
	assert.Empty(t, resolved)
	assert.Empty(t, warnings)
}
