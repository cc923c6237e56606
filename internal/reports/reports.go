// Package reports selects the store benchmark reports are published to.
package reports

import (
	"context"
	"fmt"
	"peopledb/internal/config"
	"peopledb/internal/infra/reports/fs"
	"peopledb/internal/infra/reports/memory"
	"peopledb/internal/infra/reports/s3"
	"peopledb/internal/reports/core"
)

// Open returns the report store named by cfg.Driver. The "none" driver
// yields a nil store and no error: reports are only logged.
func Open(ctx context.Context, cfg config.Reports) (core.Store, error) {
	switch cfg.Driver {
	case "", config.ReportsNone:
		return nil, nil
	case config.ReportsFilesystem:
		return fs.New(cfg.FSRoot)
	case config.ReportsMemory:
		return memory.New(), nil
	case config.ReportsS3:
		return s3.New(ctx, s3.Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			SessionToken:    cfg.S3SessionToken,
		})
	default:
		return nil, fmt.Errorf("unknown report driver %s", cfg.Driver)
	}
}
