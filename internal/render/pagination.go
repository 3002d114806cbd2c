package render

import "slices"

// Window picks which page numbers a pagination bar shows.
type Window int

const (
	// WindowAll lists every page.
	WindowAll Window = iota
	// WindowEdges keeps both ends of the range plus a band around the current page.
	WindowEdges
	// WindowCentered lists every page up to seven, otherwise first, last and two either side of the current page.
	WindowCentered
)

// PageItem is a page link or, when Ellipsis is set, a gap marker.
type PageItem struct {
	Number   int  `json:"number,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
	Active   bool `json:"active,omitempty"`
}

// Pagination describes a pagination bar.
type Pagination struct {
	Page       int        `json:"page"`
	TotalPages int        `json:"total_pages"`
	HasPrev    bool       `json:"has_prev"`
	HasNext    bool       `json:"has_next"`
	Items      []PageItem `json:"items"`
}

// Paginate builds the bar for page of total. A single page yields no items.
func Paginate(page, total int, w Window) Pagination {
	p := Pagination{Page: page, TotalPages: total, HasPrev: page > 1, HasNext: page < total}
	if total <= 1 {
		return p
	}

	var pages []int
	switch w {
	case WindowEdges:
		pages = edgePages(page, total)
	case WindowCentered:
		pages = centeredPages(page, total)
	default:
		pages = span(1, total)
	}

	slices.Sort(pages)
	pages = slices.Compact(pages)
	prev := 0
	for _, n := range pages {
		if n < 1 || n > total {
			continue
		}
		if prev != 0 && n > prev+1 {
			p.Items = append(p.Items, PageItem{Ellipsis: true})
		}
		p.Items = append(p.Items, PageItem{Number: n, Active: n == page})
		prev = n
	}
	return p
}

func span(from, to int) []int {
	out := make([]int, 0, max(to-from+1, 0))
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

const edgeDelta = 3

func edgePages(page, total int) []int {
	switch {
	case page <= edgeDelta:
		out := span(1, min(edgeDelta+2, total))
		if total > edgeDelta+2 {
			out = append(out, total-1, total)
		}
		return out
	case page > total-edgeDelta:
		return append([]int{1, 2}, span(total-edgeDelta, total)...)
	default:
		return append([]int{1, 2, page - 1, page, page + 1}, total-1, total)
	}
}

const centerDelta = 2

func centeredPages(page, total int) []int {
	if total <= 7 {
		return span(1, total)
	}
	out := []int{1, total, page}
	out = append(out, span(max(2, page-centerDelta), min(total-1, page+centerDelta))...)
	return out
}
