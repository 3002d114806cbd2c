package views

import (
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/metrics"
)

// tableView is a pipeline-backed view over records of type T.
type tableView[T any] struct {
	name   string
	title  string
	cfg    *pipeline.Config[T]
	fields []render.Field[T]
	window render.Window
	format render.Formatter

	// records loads the view's records. It may append warnings to v.
	records func(b *model.Bundle, p Params, s pipeline.State, v *View) ([]T, error)
	// defaultLevel picks the initial level; nil means the view is not level-scoped.
	defaultLevel func(b *model.Bundle, p Params) string
	// decorate adds tabs, headers and titles after the pipeline ran.
	decorate func(b *model.Bundle, p Params, res pipeline.Result[T], v *View) error
}

func (t *tableView[T]) Name() string { return t.name }

func (t *tableView[T]) validate() error { return t.cfg.Validate() }

func (t *tableView[T]) Initial(b *model.Bundle, p Params) (pipeline.State, error) {
	level := ""
	if t.defaultLevel != nil {
		level = t.defaultLevel(b, p)
	}
	return t.cfg.Initial(level), nil
}

func (t *tableView[T]) ToggleSort(s pipeline.State, column string) (pipeline.State, error) {
	return t.cfg.ToggleSort(s, column)
}

func (t *tableView[T]) Build(b *model.Bundle, p Params, s pipeline.State) (View, error) {
	started := time.Now()
	if b == nil {
		return View{}, ErrUnavailable
	}
	if t.defaultLevel != nil && s.Level == "" {
		s.Level = t.defaultLevel(b, p)
	}

	v := View{Name: t.name, Title: t.title, Params: p}
	records, err := t.records(b, p, s, &v)
	if err != nil {
		return View{}, err
	}

	res, err := t.cfg.Run(records, s)
	if err != nil {
		return View{}, err
	}
	v.State = res.State
	v.TotalFiltered = res.TotalFiltered
	searching := res.State.Search != ""

	if t.cfg.GroupBy != nil {
		for _, g := range res.Groups {
			v.Tables = append(v.Tables, render.NewTable(g.Name, t.fields, g.Records, 0, g.Count(), res.State.Sort, searching, t.format))
		}
		if res.TotalFiltered == 0 {
			v.Empty = render.EmptyMessage(searching)
		}
	} else {
		v.Tables = []render.Table{render.NewTable(t.title, t.fields, res.Items, res.Offset, res.TotalFiltered, res.State.Sort, searching, t.format)}
		pg := render.Paginate(res.State.Page, res.TotalPages, t.window)
		v.Pagination = &pg
	}

	if t.decorate != nil {
		if err := t.decorate(b, p, res, &v); err != nil {
			return View{}, err
		}
	}
	metrics.RecordPipelineRun(t.name, float64(time.Since(started).Microseconds())/1000)
	return v, nil
}
