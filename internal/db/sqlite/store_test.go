package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(Config{Path: filepath.Join(t.TempDir(), "lab.db")})
	require.Nil(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestVendors(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	vendor := &models.Vendor{ID: "vendor_a", Name: "Vendor A Localization", Secret: "vendor_a_secret"}
	require.Nil(t, store.CreateVendor(ctx, vendor))

	err := store.CreateVendor(ctx, vendor)
	assert.ErrorIs(t, err, dberror.ErrAlreadyExists)

	got, err := store.GetVendor(ctx, "vendor_a")
	require.Nil(t, err)
	assert.Equal(t, vendor, got)

	_, err = store.GetVendor(ctx, "vendor_z")
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	require.Nil(t, store.CreateVendor(ctx, &models.Vendor{ID: "vendor_b", Name: "Vendor B", Secret: "s"}))
	vendors, err := store.ListVendors(ctx)
	require.Nil(t, err)
	require.Len(t, vendors, 2)
	assert.Equal(t, "vendor_a", vendors[0].ID)
	assert.Equal(t, "vendor_b", vendors[1].ID)
}

func TestBuilds(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	build := &models.Build{
		BuildID:     "build_001",
		Description: "Interactive Preview Build 01",
		CreatedAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Assets: []models.Asset{
			{ID: "char_hero", Path: "assets/characters/hero.txt", Owner: "studio_internal", Sensitivity: "high"},
		},
		TargetVendors: []string{"vendor_a"},
	}
	require.Nil(t, store.UpsertBuild(ctx, build))

	got, err := store.GetBuild(ctx, "build_001")
	require.Nil(t, err)
	assert.Equal(t, build, got)

	_, err = store.GetBuild(ctx, "build_404")
	assert.ErrorIs(t, err, dberror.ErrNotFound)

	// re-assembly overwrites the prior record
	build.Description = "rebuilt"
	require.Nil(t, store.UpsertBuild(ctx, build))
	got, err = store.GetBuild(ctx, "build_001")
	require.Nil(t, err)
	assert.Equal(t, "rebuilt", got.Description)

	visible, err := store.ListBuildsForVendor(ctx, "vendor_a")
	require.Nil(t, err)
	require.Len(t, visible, 1)
	assert.Equal(t, "build_001", visible[0].BuildID)

	// confidentiality boundary: vendor_b must not see build_001
	hidden, err := store.ListBuildsForVendor(ctx, "vendor_b")
	require.Nil(t, err)
	assert.Empty(t, hidden)
}

func TestEventLogsAppendOnlyOrder(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"build_001", "build_002", "build_001"} {
		require.Nil(t, store.AppendBuildEvent(ctx, &models.BuildEvent{
			Type:          models.EventTypeBuildCreated,
			BuildID:       id,
			Timestamp:     now.Add(time.Duration(i) * time.Minute),
			TargetVendors: []string{"vendor_a"},
		}))
	}

	events, err := store.ListBuildEvents(ctx)
	require.Nil(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "build_001", events[0].BuildID)
	assert.Equal(t, "build_002", events[1].BuildID)
	assert.Equal(t, "build_001", events[2].BuildID)
	assert.Equal(t, models.EventTypeBuildCreated, events[0].Type)

	// repeated downloads append repeated events
	dl := &models.DownloadEvent{
		VendorID:     "vendor_a",
		BuildID:      "build_001",
		WatermarkID:  "wm-test",
		DownloadedAt: now,
		ExpiresAt:    now.Add(7 * 24 * time.Hour),
	}
	require.Nil(t, store.AppendDownloadEvent(ctx, dl))
	require.Nil(t, store.AppendDownloadEvent(ctx, dl))

	downloads, err := store.ListDownloadEvents(ctx)
	require.Nil(t, err)
	require.Len(t, downloads, 2)
	assert.Equal(t, dl, downloads[0])
	assert.Equal(t, dl, downloads[1])
}
