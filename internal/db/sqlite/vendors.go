package sqlite

import (
	"context"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"github.com/xaviermotley/creative-content-security-lab/internal/common/apperrors"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/dberror"
	"github.com/xaviermotley/creative-content-security-lab/internal/db/models"
)

func (s *Store) CreateVendor(ctx context.Context, vendor *models.Vendor) apperrors.Error {
	if vendor == nil || vendor.ID == "" {
		return dberror.ErrInvalidInput.New("missing vendor id")
	}
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return apperr
	}
	defer s.pool.Put(conn)

	err := sqlitex.Execute(conn,
		`INSERT INTO vendors (id, name, secret) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{
			Args: []any{vendor.ID, vendor.Name, vendor.Secret},
		})
	if err != nil {
		if sqlite.ErrCode(err).ToPrimary() == sqlite.ResultConstraint {
			return dberror.ErrAlreadyExists.New("vendor already exists")
		}
		return dberror.ErrDatabase.MsgErr("unable to create vendor", err)
	}
	return nil
}

func (s *Store) GetVendor(ctx context.Context, vendorID string) (*models.Vendor, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var vendor *models.Vendor
	err := sqlitex.Execute(conn,
		`SELECT id, name, secret FROM vendors WHERE id = ?`,
		&sqlitex.ExecOptions{
			Args: []any{vendorID},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				vendor = &models.Vendor{
					ID:     stmt.ColumnText(0),
					Name:   stmt.ColumnText(1),
					Secret: stmt.ColumnText(2),
				}
				return nil
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to get vendor", err)
	}
	if vendor == nil {
		return nil, dberror.ErrNotFound.New("vendor not found")
	}
	return vendor, nil
}

func (s *Store) ListVendors(ctx context.Context) ([]*models.Vendor, apperrors.Error) {
	conn, apperr := s.conn(ctx)
	if apperr != nil {
		return nil, apperr
	}
	defer s.pool.Put(conn)

	var vendors []*models.Vendor
	err := sqlitex.Execute(conn,
		`SELECT id, name, secret FROM vendors ORDER BY id`,
		&sqlitex.ExecOptions{
			ResultFunc: func(stmt *sqlite.Stmt) error {
				vendors = append(vendors, &models.Vendor{
					ID:     stmt.ColumnText(0),
					Name:   stmt.ColumnText(1),
					Secret: stmt.ColumnText(2),
				})
				return nil
			},
		})
	if err != nil {
		return nil, dberror.ErrDatabase.MsgErr("unable to list vendors", err)
	}
	return vendors, nil
}
