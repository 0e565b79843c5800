package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mj1618/droid-cli/internal/config"
	"github.com/mj1618/droid-cli/internal/extract"
	"github.com/mj1618/droid-cli/internal/logger"
	"github.com/mj1618/droid-cli/internal/model"
	"github.com/mj1618/droid-cli/internal/source"
	"github.com/mj1618/droid-cli/internal/store"
	"github.com/mj1618/droid-cli/internal/uitree"
)

// newExtractor builds an extractor from the loaded configuration.
func newExtractor(component string) *extract.Extractor {
	return extract.New(appConfig.Extraction, extract.WithLogger(logger.Named(component)))
}

// sourceName is the name recorded in a snapshot: the file name for files,
// the label for streams.
func sourceName(src source.Source) string {
	if fs, ok := src.(source.FileSource); ok {
		return filepath.Base(fs.Path)
	}
	return src.Name()
}

// extractSource reads and converts one document.
func extractSource(ctx context.Context, x *extract.Extractor, src source.Source) (extract.Result, error) {
	root, err := src.ReadTree(ctx)
	if err != nil {
		return extract.Result{}, err
	}
	return x.Extract(*root, sourceName(src)), nil
}

// loadSnapshotOrDump loads a snapshot written by convert, or extracts one
// from a raw dump.
func loadSnapshotOrDump(ctx context.Context, x *extract.Extractor, path string) (model.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Snapshot{}, fmt.Errorf("read %s: %w", path, err)
	}
	if isSnapshotJSON(data) {
		var snap model.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return model.Snapshot{}, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		if snap.Elements == nil {
			snap.Elements = []model.Element{}
		}
		return snap, nil
	}
	root, err := uitree.DecodeBytes(data, path)
	if err != nil {
		return model.Snapshot{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Snapshot{}, err
	}
	return x.Extract(*root, filepath.Base(path)).Snapshot, nil
}

// isSnapshotJSON reports whether data is a snapshot rather than a JSON dump.
func isSnapshotJSON(data []byte) bool {
	if f, ok := uitree.Sniff(data); !ok || f != uitree.FormatJSON {
		return false
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(data, &keys); err != nil {
		return false
	}
	_, hasElements := keys["elements"]
	_, hasSource := keys["sourceName"]
	return hasElements && hasSource
}

// openStore opens the snapshot store selected in the configuration.
func openStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Address:   cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.TTL,
		})
	case config.DriverMemory, "":
		return store.NewMemoryStore(cfg.TTL), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}
