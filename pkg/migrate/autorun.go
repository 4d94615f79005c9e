package migrate

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
)

// Preparer creates the tables or indexes a store backend needs.
type Preparer interface {
	Prepare(ctx context.Context) error
	Driver() string
}

// Run prepares the store schema.
func Run(ctx context.Context, logg *logger.Logger, p Preparer) error {
	ctx = logg.WithField(ctx, "driver", p.Driver())
	logg.Info(ctx, "preparing store schema")
	if err := p.Prepare(ctx); err != nil {
		return fmt.Errorf("preparing %s schema: %w", p.Driver(), err)
	}
	logg.Info(ctx, "store schema ready")
	return nil
}

// MaybeRun prepares the schema at boot when STORYBOARD_STORE_AUTO_MIGRATE is
// set.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, p Preparer) error {
	if !cfg.Store.AutoMigrate {
		return nil
	}
	return Run(logg.WithField(ctx, "env", cfg.App.Env), logg, p)
}
