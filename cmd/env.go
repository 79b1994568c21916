package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/dashboard"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
)

// dataEnv is the table cache and dashboard shared by the commands.
type dataEnv struct {
	Source    source.Source
	Cache     *source.Cache
	Dashboard *dashboard.Dashboard
	closeFn   func()
}

// Close releases the database handle, if any.
func (e *dataEnv) Close() {
	if e.closeFn != nil {
		e.closeFn()
	}
}

// openSource opens the configured table source.
func openSource(ctx context.Context) (source.Source, func(), error) {
	switch cfg.Source.Driver {
	case "file", "":
		var delim rune
		if d := []rune(cfg.Data.Delimiter); len(d) == 1 {
			delim = d[0]
		}
		return source.NewFileSource(cfg.Data.Dir, cfg.Data.Encoding, delim), func() {}, nil
	case "sqlite":
		s, err := source.NewSQLite(cfg.Source.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	case "postgres":
		s, err := source.NewPostgres(ctx, cfg.Source.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { _ = s.Close() }, nil
	default:
		return nil, nil, eris.Errorf("unsupported source driver: %s", cfg.Source.Driver)
	}
}

// initData validates the config for mode and wires source, cache and
// dashboard.
func initData(ctx context.Context, mode string) (*dataEnv, error) {
	if err := cfg.Validate(mode); err != nil {
		return nil, err
	}

	src, closeFn, err := openSource(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "open source")
	}

	cache := source.NewCache(src, cfg.Data.ExcludedYear)
	dash, err := dashboard.New(cfg, cache)
	if err != nil {
		closeFn()
		return nil, err
	}

	return &dataEnv{Source: src, Cache: cache, Dashboard: dash, closeFn: closeFn}, nil
}
