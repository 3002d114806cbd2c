package views

import (
	"bytes"
	"fmt"
	"strconv"
	"time"

	"github.com/gosimple/slug"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/levels"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/domain/model"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
)

// Export is a rendered CSV download.
type Export struct {
	Filename string
	Data     []byte
}

func num(v float64) render.CSVValue { return render.Num(strconv.FormatFloat(v, 'f', -1, 64)) }

// ExportFilename names a download after its page title, transliterated, and
// the UTC date.
func ExportFilename(title string, now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", slug.Make(title), now.UTC().Format(time.DateOnly))
}

// Export renders the CSV download of a players-backed view. Exports ignore
// the view state and contain every record of the source list.
func (r *Registry) Export(b *model.Bundle, name string, now time.Time) (Export, error) {
	if b == nil || b.Roster == nil {
		return Export{}, ErrUnavailable
	}

	var (
		title  string
		header []string
		rows   [][]render.CSVValue
	)
	switch name {
	case Players:
		title = "Игроки"
		header = []string{"Игрок", "Уровень", "Капитал", "Кошелёк", "Ответы"}
		for _, p := range b.Roster.Players {
			rows = append(rows, []render.CSVValue{
				render.Str(p.Username), render.Str(p.Level), num(p.Capital), num(p.Wallet), num(float64(p.AllQuestions)),
			})
		}
	case Znatoki:
		title = "Знатоки"
		header = []string{"Игрок", "Кошелёк", "Ответы"}
		for _, p := range b.Roster.Players {
			if p.Level != levels.Znatok {
				continue
			}
			rows = append(rows, []render.CSVValue{render.Str(p.Username), num(p.Wallet), num(float64(p.AllQuestions))})
		}
	default:
		return Export{}, fmt.Errorf("%w: no export for %q", ErrUnknownView, name)
	}

	var buf bytes.Buffer
	if err := render.WriteCSV(&buf, header, rows); err != nil {
		return Export{}, err
	}
	return Export{
		Filename: ExportFilename(title, now),
		Data:     buf.Bytes(),
	}, nil
}
