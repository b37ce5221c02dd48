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

func (s *Store) AppendBuildEvent(ctx context.Context, event *models.BuildEvent) apperrors.Error {
	if event == nil || event.BuildID == "" {
		return dberror.ErrInvalidInput.New("missing build id")
	}
	vendorsJSON, err := json.Marshal(event.TargetVendors)
	if err != nil {
		return dberror.ErrInvalidInput.MsgErr("unable to encode target vendors", err)
	}

	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return apperr
	}
	defer s.pool.Put(conn)

	err = sqlitex.Execute(conn,
		`INSERT INTO build_events (build_id, timestamp, target_vendors) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{event.BuildID, formatTime(event.Timestamp), string(vendorsJSON)},
		})
	if err != nil {
		return dberror.ErrDatabase.MsgErr("unable to append build event", err)
	}
	return nil
}

func (s *Store) ListBuildEvents(ctx context.Context) ([]*models.BuildEvent, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var events []*models.BuildEvent
	err := sqlitex.Execute(conn,
		`SELECT build_id, timestamp, target_vendors FROM build_events ORDER BY seq`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				ts, err := parseTime(stmt.ColumnText(1))
				if err != nil {
					return err
				}
				event := &models.BuildEvent{
					Type:      models.EventTypeBuildCreated,
					BuildID:   stmt.ColumnText(0),
					Timestamp: ts,
				}
				if err := json.Unmarshal([]byte(stmt.ColumnText(2)), &event.TargetVendors); err != nil {
					return err
				}
				events = append(events, event)
				return nil
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to list build events", err)
	}
	return events, nil
}

func (s *Store) AppendDownloadEvent(ctx context.Context, event *models.DownloadEvent) apperrors.Error {
	if event == nil || event.BuildID == "" || event.VendorID == "" {
		return dberror.ErrInvalidInput.New("missing build or vendor id")
	}

	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return apperr
	}
	defer s.pool.Put(conn)

	err := sqlitex.Execute(conn,
		`INSERT INTO download_events (vendor_id, build_id, watermark_id, downloaded_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{
				event.VendorID,
				event.BuildID,
				event.WatermarkID,
				formatTime(event.DownloadedAt),
				formatTime(event.ExpiresAt),
			},
		})
	if err != nil {
		return dberror.ErrDatabase.MsgErr("unable to append download event", err)
	}
	return nil
}

func (s *Store) ListDownloadEvents(ctx context.Context) ([]*models.DownloadEvent, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var events []*models.DownloadEvent
	err := sqlitex.Execute(conn,
		`SELECT vendor_id, build_id, watermark_id, downloaded_at, expires_at
		 FROM download_events ORDER BY seq`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				downloadedAt, err := parseTime(stmt.ColumnText(3))
				if err != nil {
					return err
				}
				expiresAt, err := parseTime(stmt.ColumnText(4))
				if err != nil {
					return err
				}
				events = append(events, &models.DownloadEvent{
					VendorID:     stmt.ColumnText(0),
					BuildID:      stmt.ColumnText(1),
					WatermarkID:  stmt.ColumnText(2),
					DownloadedAt: downloadedAt,
					ExpiresAt:    expiresAt,
				})
				return nil
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to list download events", err)
	}
	return events, nil
}
