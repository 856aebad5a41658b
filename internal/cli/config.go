package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/badgeboard/pkg/document"
	"github.com/matzehuels/badgeboard/pkg/editor"
	"github.com/matzehuels/badgeboard/pkg/history"
	"github.com/matzehuels/badgeboard/pkg/store"
)

// Store backends.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
)

// Config is the on-disk configuration (config.toml).
type Config struct {
	HistoryDepth    int     `toml:"history_depth"`
	DuplicateOffset float64 `toml:"duplicate_offset"`
	Placeholder     string  `toml:"placeholder"`

	Canvas struct {
		Width  float64 `toml:"width"`
		Height float64 `toml:"height"`
	} `toml:"canvas"`

	Store StoreConfig `toml:"store"`

	Serve struct {
		Addr string `toml:"addr"`
	} `toml:"serve"`
}

// StoreConfig selects and configures the template store.
type StoreConfig struct {
	Backend         string `toml:"backend"`
	Dir             string `toml:"dir"`
	RedisAddr       string `toml:"redis_addr"`
	RedisPassword   string `toml:"redis_password"`
	RedisPrefix     string `toml:"redis_prefix"`
	MongoURI        string `toml:"mongo_uri"`
	MongoDatabase   string `toml:"mongo_database"`
	MongoCollection string `toml:"mongo_collection"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() Config {
	var c Config
	c.HistoryDepth = history.DefaultDepth
	c.DuplicateOffset = editor.DefaultDuplicateOffset
	c.Canvas.Width = document.DefaultCanvas.Width
	c.Canvas.Height = document.DefaultCanvas.Height
	c.Store.Backend = backendFile
	c.Serve.Addr = ":8080"
	return c
}

// LoadConfig reads path on top of the defaults. A missing file yields the
// defaults; a malformed one is an error. Environment variables
// BADGEBOARD_REDIS_ADDR and BADGEBOARD_MONGO_URI take precedence over the file.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("load config %s: %w", path, err)
		default:
			if undecoded := md.Undecoded(); len(undecoded) > 0 {
				return cfg, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
			}
		}
	}
	if v := os.Getenv("BADGEBOARD_REDIS_ADDR"); v != "" {
		cfg.Store.RedisAddr = v
	}
	if v := os.Getenv("BADGEBOARD_MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
	return cfg, cfg.Validate()
}

// Validate checks value ranges and backend requirements.
func (c Config) Validate() error {
	var errs []error
	if c.HistoryDepth < 0 {
		errs = append(errs, fmt.Errorf("history_depth must not be negative, got %d", c.HistoryDepth))
	}
	if c.DuplicateOffset < 0 {
		errs = append(errs, fmt.Errorf("duplicate_offset must not be negative, got %g", c.DuplicateOffset))
	}
	if err := c.canvas().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("canvas: %w", err))
	}
	switch c.Store.Backend {
	case backendFile:
	case backendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis backend"))
		}
	case backendMongo:
		if c.Store.MongoURI == "" {
			errs = append(errs, errors.New("store.mongo_uri is required for the mongo backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q (valid: file, redis, mongo)", c.Store.Backend))
	}
	return errors.Join(errs...)
}

// LogSummary returns the configuration as log key-values with secrets
// masked.
func (c Config) LogSummary() []any {
	return []any{
		"history_depth", c.HistoryDepth,
		"canvas", fmt.Sprintf("%gx%g", c.Canvas.Width, c.Canvas.Height),
		"store", c.Store.Backend,
		"redis_addr", c.Store.RedisAddr,
		"mongo_uri", maskURI(c.Store.MongoURI),
	}
}

func (c Config) canvas() document.Canvas {
	return document.Canvas{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

func (c Config) editorOptions() editor.Options {
	return editor.Options{
		HistoryDepth:    c.HistoryDepth,
		DuplicateOffset: c.DuplicateOffset,
	}
}

// openStore connects to the configured template store.
func (c Config) openStore(ctx context.Context) (store.Store, error) {
	switch c.Store.Backend {
	case backendRedis:
		return store.NewRedisStore(ctx, store.RedisConfig{
			Addr:     c.Store.RedisAddr,
			Password: c.Store.RedisPassword,
			Prefix:   c.Store.RedisPrefix,
		})
	case backendMongo:
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:        c.Store.MongoURI,
			Database:   c.Store.MongoDatabase,
			Collection: c.Store.MongoCollection,
		})
	}
	dir := c.Store.Dir
	if dir == "" {
		var err error
		if dir, err = dataDir(); err != nil {
			return nil, err
		}
		dir = filepath.Join(dir, "templates")
	}
	return store.NewFileStore(dir)
}

// maskURI hides credentials in a connection string.
func maskURI(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "****"
	}
	if u.User != nil {
		u.User = url.UserPassword("****", "****")
	}
	return u.Redacted()
}
