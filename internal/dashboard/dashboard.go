// Package dashboard runs one page: load the tables, filter the cohort,
// aggregate and build the view.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/AndreiFloresU/Empleabilidad-CR/internal/analytics"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/config"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/filter"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/geo"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/model"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/render"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/source"
	"github.com/AndreiFloresU/Empleabilidad-CR/internal/table"
)

// ErrUnknownPage is returned for a slug no page answers to.
var ErrUnknownPage = eris.New("dashboard: unknown page")

// Tables hands out independent copies of the loaded tables. *source.Cache
// implements it.
type Tables interface {
	Get(ctx context.Context, name string) (*table.Table, error)
}

// Request carries the user choices of one render.
type Request struct {
	Selection filter.Selection
	// Axis is the heatmap column axis: "anio" or "grado".
	Axis string
}

// Dashboard renders pages over a table cache.
type Dashboard struct {
	tables    Tables
	preferred string
	firstJob  analytics.FirstJobParams
	geoPath   string

	geoOnce sync.Once
	geo     *geo.Boundaries
	geoErr  error
}

// New builds a Dashboard from the filter, first-job and boundary settings of
// cfg.
func New(cfg *config.Config, tables Tables) (*Dashboard, error) {
	grad, snap, err := cfg.FirstJob.Dates()
	if err != nil {
		return nil, eris.Wrap(err, "dashboard: first job dates")
	}
	return &Dashboard{
		tables:    tables,
		preferred: cfg.Filters.PreferredUniversity,
		geoPath:   cfg.Data.GeoJSON,
		firstJob: analytics.FirstJobParams{
			CohortYear: cfg.FirstJob.CohortYear,
			Graduation: grad,
			Snapshot:   snap,
			MaxMonths:  cfg.FirstJob.MaxMonths,
		},
	}, nil
}

// boundaries loads the boundary file on first use. A missing path yields
// neither boundaries nor an error.
func (d *Dashboard) boundaries() (*geo.Boundaries, error) {
	d.geoOnce.Do(func() {
		if d.geoPath == "" {
			return
		}
		d.geo, d.geoErr = geo.Load(d.geoPath)
		if d.geoErr != nil {
			zap.L().Warn("dashboard: boundaries unavailable", zap.String("path", d.geoPath), zap.Error(d.geoErr))
		}
	})
	return d.geo, d.geoErr
}

// input is the filtered cohort a page aggregates over.
type input struct {
	tables     map[string]*table.Table
	grads      model.Graduates
	labor      model.Labor
	ids        model.IDSet
	university string
	axis       analytics.Axis
}

// Render runs the page named slug. Data problems end up as notices on the
// returned view; only an unknown slug or a cancelled context is an error.
func (d *Dashboard) Render(ctx context.Context, slug string, req Request) (*render.View, error) {
	page, ok := Lookup(slug)
	if !ok {
		return nil, eris.Wrapf(ErrUnknownPage, "%s", slug)
	}

	v := &render.View{RenderID: uuid.NewString(), Slug: page.Slug, Title: page.Title}
	log := zap.L().With(zap.String("page", page.Slug), zap.String("render_id", v.RenderID))
	start := time.Now()

	tables, notice, err := d.load(ctx, page)
	if err != nil {
		return nil, err
	}
	if notice != nil {
		v.Notices = append(v.Notices, *notice)
		log.Warn("dashboard: page halted on load", zap.String("notice", notice.Message))
		return v, nil
	}

	res, err := filter.Apply(tables[source.Graduados], req.Selection, filter.Options{PreferredUniversity: d.preferred})
	if err != nil {
		var missing *filter.MissingColumnsError
		if errors.As(err, &missing) {
			v.Notices = append(v.Notices, render.Notice{Level: render.NoticeError, Message: missing.Error()})
			return v, nil
		}
		return nil, eris.Wrap(err, "dashboard: filter")
	}
	v.Filters = res.Steps
	if res.Empty() {
		v.Notices = append(v.Notices, render.Notice{Level: render.NoticeWarning, Message: filter.NoDataMessage})
		return v, nil
	}

	in := &input{
		tables: tables,
		grads:  model.GraduatesFromTable(res.Graduates),
		labor:  model.LaborFromTable(tables[source.DataLaboral]),
		ids:    res.IDs,
		axis:   analytics.ParseAxis(req.Axis),
	}
	if len(res.Steps) > 0 {
		in.university = res.Steps[0].Selected
	}

	if err := page.build(d, in, v); err != nil {
		h, ok := analytics.AsHalt(err)
		if !ok {
			return nil, eris.Wrapf(err, "dashboard: build %s", page.Slug)
		}
		v.Notices = append(v.Notices, render.Notice{Level: string(h.Level), Message: h.Message})
		v.Charts, v.Cards, v.Tables = nil, nil, nil
		log.Info("dashboard: page halted", zap.String("level", string(h.Level)), zap.String("notice", h.Message))
		return v, nil
	}

	log.Debug("dashboard: page rendered",
		zap.Int("ids", in.ids.Len()),
		zap.Int("charts", len(v.Charts)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return v, nil
}

// load fetches the tables of page. A required table that cannot be loaded
// yields an error notice; optional tables that are missing or empty are nil.
func (d *Dashboard) load(ctx context.Context, page Page) (map[string]*table.Table, *render.Notice, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, eris.Wrap(err, "dashboard: load")
	}
	out := make(map[string]*table.Table, len(page.Required)+len(page.Optional))
	for _, name := range page.Required {
		t, err := d.tables.Get(ctx, name)
		if err != nil {
			if ctx.Err() != nil {
				return nil, nil, eris.Wrap(ctx.Err(), "dashboard: load")
			}
			return nil, &render.Notice{Level: render.NoticeError, Message: loadMessage(name, err)}, nil
		}
		out[name] = t
	}
	for _, name := range page.Optional {
		t, err := d.tables.Get(ctx, name)
		switch {
		case err == nil:
			out[name] = t
		case ctx.Err() != nil:
			return nil, nil, eris.Wrap(ctx.Err(), "dashboard: load")
		default:
			zap.L().Debug("dashboard: optional table skipped", zap.String("table", name), zap.Error(err))
		}
	}
	return out, nil, nil
}

func loadMessage(name string, err error) string {
	switch {
	case eris.Is(err, source.ErrMissingTable):
		return fmt.Sprintf("No se encontró la tabla '%s'.", name)
	case eris.Is(err, source.ErrEmptyTable):
		return fmt.Sprintf("La tabla '%s' está vacía.", name)
	default:
		return fmt.Sprintf("No se pudo cargar la tabla '%s': %v", name, err)
	}
}
