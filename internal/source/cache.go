package source

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// Cache loads each table once per process and hands out independent copies.
// Concurrent first loads of the same table collapse into one source call
// that runs to completion even if the caller that started it goes away.
// Failed loads are remembered until the next Refresh; there are no retries.
type Cache struct {
	src          Source
	excludedYear string

	mu      sync.RWMutex
	entries map[string]entry
	gen     uint64
	group   singleflight.Group
}

type entry struct {
	table    *table.Table
	err      error
	loadedAt time.Time
}

// TableStatus describes one cached table.
type TableStatus struct {
	Name     string    `json:"name" yaml:"name"`
	Loaded   bool      `json:"loaded" yaml:"loaded"`
	Rows     int       `json:"rows" yaml:"rows"`
	Columns  []string  `json:"columns,omitempty" yaml:"columns,omitempty"`
	Error    string    `json:"error,omitempty" yaml:"error,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty" yaml:"loaded_at,omitempty"`
}

// NewCache wraps src. Graduates whose year equals excludedYear are dropped on load.
func NewCache(src Source, excludedYear string) *Cache {
	return &Cache{
		src:          src,
		excludedYear: excludedYear,
		entries:      make(map[string]entry),
	}
}

// Source returns the wrapped source.
func (c *Cache) Source() Source { return c.src }

// Get returns a deep copy of the named table, loading it on first use.
func (c *Cache) Get(ctx context.Context, name string) (*table.Table, error) {
	name = table.NormalizeName(name)

	c.mu.RLock()
	e, ok := c.entries[name]
	gen := c.gen
	c.mu.RUnlock()

	if !ok {
		// The shared load outlives any single caller; each caller only
		// stops waiting when its own context ends.
		shared := context.WithoutCancel(ctx)
		ch := c.group.DoChan(name, func() (any, error) {
			c.mu.RLock()
			done, ok := c.entries[name]
			c.mu.RUnlock()
			if ok {
				return done, nil
			}
			return c.load(shared, name, gen), nil
		})
		select {
		case <-ctx.Done():
			return nil, eris.Wrapf(ctx.Err(), "source: load %s", name)
		case res := <-ch:
			e = res.Val.(entry)
		}
	}

	if e.err != nil {
		return nil, e.err
	}
	return e.table.Copy(), nil
}

// Warm loads every known table.
func (c *Cache) Warm(ctx context.Context) {
	for _, name := range Tables {
		_, _ = c.Get(ctx, name)
	}
}

// Refresh drops every cached table and loads them again.
func (c *Cache) Refresh(ctx context.Context) {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.gen++
	c.mu.Unlock()

	zap.L().Info("source: cache cleared", zap.String("source", c.src.Name()))
	c.Warm(ctx)
}

// Status reports every known table plus any other table loaded so far.
func (c *Cache) Status() []TableStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := append([]string(nil), Tables...)
	for n := range c.entries {
		known := false
		for _, k := range Tables {
			if k == n {
				known = true
				break
			}
		}
		if !known {
			names = append(names, n)
		}
	}

	out := make([]TableStatus, 0, len(names))
	for _, n := range names {
		st := TableStatus{Name: n}
		if e, ok := c.entries[n]; ok {
			st.Loaded = e.err == nil
			st.LoadedAt = e.loadedAt
			if e.err != nil {
				st.Error = e.err.Error()
			} else {
				st.Rows = e.table.Len()
				st.Columns = append([]string(nil), e.table.Columns...)
			}
		}
		out = append(out, st)
	}
	return out
}

func (c *Cache) load(ctx context.Context, name string, gen uint64) entry {
	start := time.Now()
	log := zap.L().With(zap.String("table", name), zap.String("source", c.src.Name()))

	t, err := c.src.Load(ctx, name)
	if err == nil {
		t = Normalize(t, c.excludedYear)
		if t.Empty() {
			err = eris.Wrapf(ErrEmptyTable, "%s", name)
		}
	}

	e := entry{table: t, err: err, loadedAt: time.Now()}
	if err != nil {
		e.table = nil
		log.Warn("source: load failed", zap.Error(err))
	} else {
		log.Info("source: table loaded",
			zap.Int("rows", t.Len()),
			zap.Int("columns", len(t.Columns)),
			zap.Duration("elapsed", time.Since(start)),
		)
	}

	c.mu.Lock()
	if c.gen == gen {
		c.entries[name] = e
	}
	c.mu.Unlock()
	return e
}
