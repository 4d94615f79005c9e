// Package store opens the four storyboard collections on the configured
// backend.
package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/db"
	"github.com/angelmondragon/storyboard-backend/pkg/db/models"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore/gormstore"
	"github.com/angelmondragon/storyboard-backend/pkg/docstore/mongostore"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/mongodb"
)

var (
	Users      = docstore.Collection[models.User]{Name: models.CollectionUsers, ID: models.UserID}
	Projects   = docstore.Collection[models.Project]{Name: models.CollectionProjects, ID: models.ProjectID}
	Media      = docstore.Collection[models.MediaAsset]{Name: models.CollectionMedia, ID: models.MediaAssetID}
	ShareLinks = docstore.Collection[models.ShareLink]{Name: models.CollectionShareLinks, ID: models.ShareLinkID}
)

// Stores bundles one typed store per collection.
type Stores struct {
	Users      docstore.Store[models.User]
	Projects   docstore.Store[models.Project]
	Media      docstore.Store[models.MediaAsset]
	ShareLinks docstore.Store[models.ShareLink]
}

// Backend owns the connection behind Stores.
type Backend struct {
	Stores

	driver  string
	ping    func(context.Context) error
	close   func(context.Context) error
	prepare func(context.Context) error
}

// Open connects to the configured driver.
func Open(ctx context.Context, cfg *config.Config, logg *logger.Logger) (*Backend, error) {
	switch cfg.Store.Driver {
	case config.StoreDriverMongo:
		client, err := mongodb.New(ctx, cfg.Mongo, logg)
		if err != nil {
			return nil, err
		}
		backend, err := NewMongo(client.Database())
		if err != nil {
			_ = client.Close(ctx)
			return nil, err
		}
		backend.ping = client.Ping
		backend.close = client.Close
		return backend, nil

	case config.StoreDriverPostgres, config.StoreDriverSQLite:
		client, err := db.New(ctx, cfg.Store.Driver, cfg.DB, logg)
		if err != nil {
			return nil, err
		}
		backend, err := NewGorm(client.DB())
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		backend.driver = cfg.Store.Driver
		backend.ping = client.Ping
		backend.close = func(context.Context) error { return client.Close() }
		return backend, nil
	}
	return nil, fmt.Errorf("unsupported store driver %q", cfg.Store.Driver)
}

// NewMongo builds the stores on a mongo database. Prepare creates the unique
// indexes on user.email and sharelink.token.
func NewMongo(database *mongo.Database) (*Backend, error) {
	users, err := mongostore.New(database, Users)
	if err != nil {
		return nil, err
	}
	projects, err := mongostore.New(database, Projects)
	if err != nil {
		return nil, err
	}
	media, err := mongostore.New(database, Media)
	if err != nil {
		return nil, err
	}
	links, err := mongostore.New(database, ShareLinks)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Stores: Stores{Users: users, Projects: projects, Media: media, ShareLinks: links},
		driver: config.StoreDriverMongo,
		prepare: func(ctx context.Context) error {
			return multierr.Combine(
				users.EnsureUniqueIndex(ctx, models.FieldEmail),
				links.EnsureUniqueIndex(ctx, models.FieldToken),
			)
		},
	}, nil
}

// NewGorm builds the stores on a SQL connection. Prepare auto-migrates one
// table per collection.
func NewGorm(conn *gorm.DB) (*Backend, error) {
	users, err := gormstore.New(conn, Users)
	if err != nil {
		return nil, err
	}
	projects, err := gormstore.New(conn, Projects)
	if err != nil {
		return nil, err
	}
	media, err := gormstore.New(conn, Media)
	if err != nil {
		return nil, err
	}
	links, err := gormstore.New(conn, ShareLinks)
	if err != nil {
		return nil, err
	}

	return &Backend{
		Stores: Stores{Users: users, Projects: projects, Media: media, ShareLinks: links},
		driver: config.StoreDriverSQLite,
		prepare: func(ctx context.Context) error {
			return multierr.Combine(
				users.Migrate(ctx),
				projects.Migrate(ctx),
				media.Migrate(ctx),
				links.Migrate(ctx),
			)
		},
	}, nil
}

func (b *Backend) Driver() string { return b.driver }

// Prepare creates tables or indexes. Safe to run repeatedly.
func (b *Backend) Prepare(ctx context.Context) error {
	if b.prepare == nil {
		return nil
	}
	return b.prepare(ctx)
}

func (b *Backend) Ping(ctx context.Context) error {
	if b.ping == nil {
		return nil
	}
	return b.ping(ctx)
}

func (b *Backend) Close(ctx context.Context) error {
	if b.close == nil {
		return nil
	}
	return b.close(ctx)
}
