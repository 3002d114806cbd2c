// Package views declares the leaderboard pages as pipeline configurations
// and builds their view models from a loaded bundle.
package views

import (
	"fmt"
	"sort"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/pipeline"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

// View names.
const (
	Players           = "players"
	Znatoki           = "znatoki"
	Capital           = "capital"
	Ratings           = "ratings"
	TournamentPlayers = "tournament-players"
)

// Params select the data a view is built from.
type Params struct {
	// Tournament is the tournament id for tournament-scoped views.
	Tournament int `json:"tournament,omitempty"`
}

// Tab is a level selector entry.
type Tab struct {
	Level  string `json:"level"`
	Count  int    `json:"count"`
	Active bool   `json:"active,omitempty"`
	Empty  bool   `json:"empty,omitempty"`
}

// LevelHeader describes the selected level of a tournament.
type LevelHeader struct {
	Level        string  `json:"level"`
	Range        string  `json:"range"`
	Participants int     `json:"participants"`
	PrizeFund    float64 `json:"prize_fund"`
	PrizeText    string  `json:"prize_text"`
}

// View is the renderer-agnostic model of one page.
type View struct {
	Name          string             `json:"view"`
	Title         string             `json:"title"`
	LastUpdate    string             `json:"last_update,omitempty"`
	State         pipeline.State     `json:"state"`
	Params        Params             `json:"params"`
	Tabs          []Tab              `json:"tabs,omitempty"`
	LevelHeader   *LevelHeader       `json:"level_header,omitempty"`
	Tables        []render.Table     `json:"tables"`
	Empty         string             `json:"empty,omitempty"`
	TotalFiltered int                `json:"total_filtered"`
	Pagination    *render.Pagination `json:"pagination,omitempty"`

	// Warnings lists degraded inputs that were replaced by zero values.
	Warnings []Warning `json:"-"`
}

// Warning names a missing or malformed field of a document.
type Warning struct {
	Document string
	Field    string
}

// Builder builds one kind of view.
type Builder interface {
	Name() string
	// Initial returns the state a new view session starts in.
	Initial(b *model.Bundle, p Params) (pipeline.State, error)
	// ToggleSort applies a sort-header selection.
	ToggleSort(s pipeline.State, column string) (pipeline.State, error)
	// Build runs the pipeline for s and renders the result.
	Build(b *model.Bundle, p Params, s pipeline.State) (View, error)
}

// Registry holds the builders of every paginated view.
type Registry struct {
	builders map[string]Builder
	format   render.Formatter
}

// NewRegistry wires every view with the given number formatter.
func NewRegistry(f render.Formatter) (*Registry, error) {
	r := &Registry{builders: map[string]Builder{}, format: f}
	for _, b := range []Builder{
		newPlayersView(f),
		newZnatokiView(f),
		newCapitalView(f),
		newRatingsView(f),
		newTournamentPlayersView(f),
	} {
		if v, ok := b.(interface{ validate() error }); ok {
			if err := v.validate(); err != nil {
				return nil, err
			}
		}
		r.builders[b.Name()] = b
	}
	return r, nil
}

// Get returns the builder for name.
func (r *Registry) Get(name string) (Builder, error) {
	b, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownView, name)
	}
	return b, nil
}

// Names lists the registered views in alphabetical order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.builders))
	for n := range r.builders {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Formatter returns the registry's number formatter.
func (r *Registry) Formatter() render.Formatter { return r.format }
