package repository

import (
	"context"
	"database/sql"

	"github.com/meiyue-dev/salon-marketplace/backend/internal/config"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

// querier 同时覆盖 *sql.DB 和 *sql.Tx，
// 可用性快照在事务内外都需要加载
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
