package render

import (
	"bufio"
	"io"
	"strings"
)

// CSVValue is one field of an export row. Text values are always quoted.
type CSVValue struct {
	Text   string
	Quoted bool
}

// Str is a quoted text field.
func Str(s string) CSVValue { return CSVValue{Text: s, Quoted: true} }

// Num is a bare numeric field.
func Num(s string) CSVValue { return CSVValue{Text: s} }

// WriteCSV writes a header line and one line per row, comma-joined and
// separated by "\n". Quoted fields double any embedded quotes.
func WriteCSV(w io.Writer, header []string, rows [][]CSVValue) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(strings.Join(header, ",")); err != nil {
		return err
	}
	for _, row := range rows {
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
		for i, v := range row {
			if i > 0 {
				if err := bw.WriteByte(','); err != nil {
					return err
				}
			}
			text := v.Text
			if v.Quoted {
				text = `"` + strings.ReplaceAll(text, `"`, `""`) + `"`
			}
			if _, err := bw.WriteString(text); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
