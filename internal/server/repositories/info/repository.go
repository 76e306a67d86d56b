// Package info persists the singleton bootstrap record.
package info

import (
	"context"

	"github.com/dmitrijs2005/diary/internal/server/models"
)

type Repository interface {
	// Ensure creates the singleton row if it does not exist yet.
	Ensure(ctx context.Context) error
	// Get returns the stored record. A row that was never written yields
	// common.ErrorNotFound.
	Get(ctx context.Context) (*models.BootstrapInfo, error)
	Set(ctx context.Context, info *models.BootstrapInfo) error
}
