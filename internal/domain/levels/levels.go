// Package levels holds the static level taxonomy: display orders, capital ranges and colours.
package levels

import "strconv"

// Level names as they appear in the published documents.
const (
	Znatok       = "Знаток"
	Expert       = "Эксперт"
	Master       = "Мастер"
	Boss         = "Босс"
	Titan        = "Титан"
	Legend       = "Легенда"
	Korifey      = "Корифей"
	Guru         = "Гуру"
	IQCapitalist = "IQ Капиталист"
)

// Display orders. Each page shows levels in its own fixed order.
var (
	// PlayersOrder groups the global players page, top tier first.
	PlayersOrder = []string{IQCapitalist, Guru, Korifey, Legend, Titan, Boss, Master, Expert}
	// TournamentOrder is the level tab order of the tournament statistics page.
	TournamentOrder = []string{Znatok, Expert, Master, Boss, Titan, Legend, Guru}
	// DistributionOrder is used for the tournament level distribution chart.
	DistributionOrder = []string{Znatok, Expert, Master, Boss, Titan, Legend, Korifey, Guru, IQCapitalist}
	// HistoryOrder is used for level badges on tournament history cards.
	HistoryOrder = TournamentOrder
)

// Range is a capital interval. Max is zero for the open-ended top tier.
type Range struct {
	Min int
	Max int
}

var ranges = map[string]Range{
	Znatok:       {Min: 100, Max: 100},
	Expert:       {Min: 1000, Max: 1999},
	Master:       {Min: 2000, Max: 3999},
	Boss:         {Min: 4000, Max: 6999},
	Titan:        {Min: 7000, Max: 10999},
	Legend:       {Min: 11000, Max: 15999},
	Guru:         {Min: 16000, Max: 22999},
	IQCapitalist: {Min: 23000},
}

// RangeOf returns the capital range of a level.
func RangeOf(level string) (Range, bool) {
	r, ok := ranges[level]
	return r, ok
}

// RangeLabel renders the capital range of a level: "100", "1000-1999" or "23000+".
// Unknown levels yield an empty label.
func RangeLabel(level string) string {
	r, ok := ranges[level]
	switch {
	case !ok:
		return ""
	case r.Max == 0:
		return strconv.Itoa(r.Min) + "+"
	case r.Min == r.Max:
		return strconv.Itoa(r.Min)
	default:
		return strconv.Itoa(r.Min) + "-" + strconv.Itoa(r.Max)
	}
}

const defaultColor = "#3498db"

var colors = map[string]string{
	Znatok:       "#4682B4",
	Expert:       "#2E8B57",
	Master:       "#CD853F",
	Boss:         "#8B4513",
	Titan:        "#800080",
	Legend:       "#B8860B",
	Korifey:      "#483D8B",
	Guru:         "#B22222",
	IQCapitalist: "#000000",
}

// Color returns the chart colour of a level.
func Color(level string) string {
	if c, ok := colors[level]; ok {
		return c
	}
	return defaultColor
}

// Known reports whether level appears in order.
func Known(order []string, level string) bool {
	for _, l := range order {
		if l == level {
			return true
		}
	}
	return false
}
