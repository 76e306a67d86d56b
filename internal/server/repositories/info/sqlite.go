package info

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/diary/internal/common"
	"github.com/dmitrijs2005/diary/internal/dbx"
	"github.com/dmitrijs2005/diary/internal/server/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Ensure(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `INSERT OR IGNORE INTO info (id, json) VALUES (1, '')`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context) (*models.BootstrapInfo, error) {
	var raw string
	if err := r.db.QueryRowContext(ctx, `SELECT json FROM info WHERE id = 1`).Scan(&raw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	if raw == "" {
		return nil, common.ErrorNotFound
	}

	var bi models.BootstrapInfo
	if err := json.Unmarshal([]byte(raw), &bi); err != nil {
		return nil, fmt.Errorf("decode bootstrap info: %w", err)
	}
	return &bi, nil
}

func (r *SQLiteRepository) Set(ctx context.Context, bi *models.BootstrapInfo) error {
	raw, err := json.Marshal(bi)
	if err != nil {
		return fmt.Errorf("encode bootstrap info: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `UPDATE info SET json = ? WHERE id = 1`, string(raw))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
