package main

import (
	"context"
	"fmt"

	"github.com/angelmondragon/storyboard-backend/pkg/config"
	"github.com/angelmondragon/storyboard-backend/pkg/logger"
	"github.com/angelmondragon/storyboard-backend/pkg/storage"
	"github.com/angelmondragon/storyboard-backend/pkg/storage/localfs"
	"github.com/angelmondragon/storyboard-backend/pkg/storage/s3"
)

func openBlobStorage(ctx context.Context, cfg *config.Config, logg *logger.Logger) (storage.Blob, error) {
	switch cfg.Media.Driver {
	case config.MediaDriverS3:
		client, err := s3.NewClient(cfg.S3)
		if err != nil {
			return nil, err
		}
		blob, err := s3.New(client, cfg.S3.Bucket)
		if err != nil {
			return nil, err
		}
		if err := blob.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		logg.Info(logg.WithField(ctx, "bucket", cfg.S3.Bucket), "media storage ready")
		return blob, nil
	case config.MediaDriverLocal:
		blob, err := localfs.NewOS(cfg.Media.LocalDir)
		if err != nil {
			return nil, err
		}
		logg.Info(logg.WithField(ctx, "dir", cfg.Media.LocalDir), "media storage ready")
		return blob, nil
	}
	return nil, fmt.Errorf("unsupported media driver %q", cfg.Media.Driver)
}
