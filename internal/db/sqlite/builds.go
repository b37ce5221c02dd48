package sqlite

import (
	"context"
	"encoding/json"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

func (s *Store) UpsertBuild(ctx context.Context, build *models.Build) apperrors.Error {
	if build == nil || build.BuildID == "" {
		return dberror.ErrInvalidInput.New("missing build id")
	}
	assetsJSON, err := json.Marshal(build.Assets)
	if err != nil {
		return dberror.ErrInvalidInput.MsgErr("unable to encode assets", err)
	}
	vendorsJSON, err := json.Marshal(build.TargetVendors)
	if err != nil {
		return dberror.ErrInvalidInput.MsgErr("unable to encode target vendors", err)
	}

	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return apperr
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO builds (build_id, description, created_at, assets, target_vendors)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(build_id) DO UPDATE SET
			description = excluded.description,
			created_at = excluded.created_at,
			assets = excluded.assets,
			target_vendors = excluded.target_vendors`,
		&sqlitex.ExecOptions{
			Args: []any{
				build.BuildID,
				build.Description,
				formatTime(build.CreatedAt),
				string(assetsJSON),
				string(vendorsJSON),
			},
		})
	if err != nil {
		return dberror.ErrDatabase.MsgErr("unable to upsert build", err)
	}
	return nil
}

func (s *Store) GetBuild(ctx context.Context, buildID string) (*models.Build, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var build *models.Build
	var scanErr error
	err := sqlitex.Execute(conn,
		`SELECT build_id, description, created_at, assets, target_vendors
		 FROM builds WHERE build_id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{buildID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				build, scanErr = scanBuild(stmt)
				return scanErr
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to get build", err)
	}
	if build == nil {
		return nil, dberror.ErrNotFound.New("build not found")
	}
	return build, nil
}

// ListBuildsForVendor returns every build whose target vendor list
// contains vendorID, ordered by build id. The target filter runs here so
// callers cannot accidentally widen the visibility boundary.
func (s *Store) ListBuildsForVendor(ctx context.Context, vendorID string) ([]*models.Build, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var builds []*models.Build
	err := sqlitex.Execute(conn,
		`SELECT build_id, description, created_at, assets, target_vendors
		 FROM builds ORDER BY build_id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				build, err := scanBuild(stmt)
				if err != nil {
					return err
				}
				if build.IsTargetVendor(vendorID) {
					builds = append(builds, build)
				}
				return nil
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to list builds", err)
	}
	return builds, nil
}

func scanBuild(stmt *sqlite.Stmt) (*models.Build, error) {
	createdAt, err := parseTime(stmt.ColumnText(2))
	if err != nil {
		return nil, err
	}
	build := &models.Build{
		BuildID:     stmt.ColumnText(0),
		Description: stmt.ColumnText(1),
		CreatedAt:   createdAt,
	}
	if err := json.Unmarshal([]byte(stmt.ColumnText(3)), &build.Assets); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(stmt.ColumnText(4)), &build.TargetVendors); err != nil {
		return nil, err
	}
	return build, nil
}
