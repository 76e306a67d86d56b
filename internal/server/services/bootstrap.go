package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/diary/internal/cryptox"
	"github.com/dmitrijs2005/diary/internal/logging"
	"github.com/dmitrijs2005/diary/internal/server/models"
	"github.com/google/uuid"
)

// Bootstrap loads the bootstrap record, writing it on first start, and
// returns a hasher for the algorithm the store was created with. A configured
// algorithm that differs from the stored one is ignored with a warning:
// switching would invalidate every stored password hash.
func Bootstrap(ctx context.Context, store BootstrapStore, configured cryptox.Algorithm, logger logging.Logger) (*models.BootstrapInfo, *cryptox.Hasher, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	if _, err := cryptox.NewHasher(configured); err != nil {
		return nil, nil, err
	}

	bi, err := store.GetBootstrapInfo(ctx)
	if err != nil {
		return nil, nil, err
	}

	if bi == nil || bi.HashAlgorithm == "" {
		if bi == nil {
			bi = &models.BootstrapInfo{
				InstanceID: uuid.NewString(),
				CreatedAt:  time.Now().Unix(),
			}
		}
		bi.HashAlgorithm = string(configured)
		if err := store.SetBootstrapInfo(ctx, bi); err != nil {
			return nil, nil, err
		}
		logger.Info(ctx, "store initialized", "instance_id", bi.InstanceID, "hash_algorithm", bi.HashAlgorithm)
	}

	stored := cryptox.Algorithm(bi.HashAlgorithm)
	if stored != configured {
		logger.Warn(ctx, "configured hash algorithm differs from the store's, keeping the store's",
			"configured", configured, "stored", stored)
	}

	hasher, err := cryptox.NewHasher(stored)
	if err != nil {
		return nil, nil, fmt.Errorf("bootstrap info: %w", err)
	}
	return bi, hasher, nil
}
