// Package checker drives a running leaderboard service over HTTP and checks
// the pipeline properties against live data.
package checker

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/iq-capitalist/iq-capitalist.github.io/internal/render"
	"github.com/iq-capitalist/iq-capitalist.github.io/internal/views"
	"github.com/iq-capitalist/iq-capitalist.github.io/pkg/logger"
)

const defaultWorkers = 4

// Run checks one view. The error is reserved for failures that stop the run
// (an unreachable service or an unknown view); property violations are
// reported as failed checks.
func Run(ctx context.Context, cfg *Config) (Report, error) {
	start := time.Now()
	log := logger.Get().Named("checker")
	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	report := Report{View: cfg.View}

	log.Info(ctx, "starting leaderboard check",
		logger.String("baseURL", cfg.BaseURL),
		logger.String("view", cfg.View),
		logger.String("timeout", cfg.Timeout.String()))

	// Step 1: Check service health
	if err := client.getJSON(ctx, "/healthz", nil, nil); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: First page with default state
	first, err := client.view(ctx, cfg, 0, nil)
	if err != nil {
		return report, fmt.Errorf("first page: %w", err)
	}
	report.TotalFiltered = first.TotalFiltered

	// Step 3: Reconstruct the full list
	var rows []render.Row
	if first.Pagination == nil {
		report.Pages = 1
		rows = checkGroups(&report, first)
	} else {
		report.Pages = first.Pagination.TotalPages
		pages, err := fetchPages(ctx, client, cfg, report.Pages, log)
		if err != nil {
			return report, err
		}
		rows = checkPagination(&report, first, pages)
	}
	report.Rows = len(rows)

	// Step 4: Same explicit sort, same rows
	sort := first.State.Sort
	again, err := client.view(ctx, cfg, 1, &sort)
	if err != nil {
		report.add("sort is idempotent", false, err.Error())
	} else {
		report.add("sort is idempotent", reflect.DeepEqual(firstRows(first), firstRows(again)),
			fmt.Sprintf("%s %s", sort.Column, sort.Direction))
	}

	// Step 5: Out-of-range pages fall back to the first page
	if first.Pagination != nil {
		beyond, err := client.view(ctx, cfg, report.Pages+1, nil)
		switch {
		case err != nil:
			report.add("out-of-range page is a no-op", false, err.Error())
		default:
			report.add("out-of-range page is a no-op", beyond.State.Page == 1,
				fmt.Sprintf("requested %d, got %d", report.Pages+1, beyond.State.Page))
		}
	}

	// Step 6: Winnings never exceed the pool
	if cfg.View == views.Ratings && first.LevelHeader != nil {
		checkWinnings(&report, first.LevelHeader.PrizeFund, rows)
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "leaderboard check finished",
		logger.Int("checks", len(report.Checks)),
		logger.Int("failed", report.Failed()),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// fetchPages loads pages 1..n concurrently, keeping page order.
func fetchPages(ctx context.Context, client *httpClient, cfg *Config, n int, log logger.Logger) ([]views.View, error) {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	pages := make([]views.View, n)
	jobs := make(chan int, workers*2)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for page := range jobs {
				v, err := client.view(ctx, cfg, page, nil)
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("page %d: %w", page, err)
					}
					mu.Unlock()
					continue
				}
				if cfg.Verbose {
					log.Info(ctx, "page fetched", logger.Int("page", page), logger.Int("rows", len(firstRows(v))))
				}
				pages[page-1] = v
			}
		}()
	}

	go func() {
		defer close(jobs)
		for page := 1; page <= n; page++ {
			select {
			case <-ctx.Done():
				return
			case jobs <- page:
			}
		}
	}()
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return pages, nil
}

func checkPagination(report *Report, first views.View, pages []views.View) []render.Row {
	var rows []render.Row
	for _, p := range pages {
		rows = append(rows, firstRows(p)...)
	}
	report.add("pages reconstruct the list", len(rows) == first.TotalFiltered,
		fmt.Sprintf("%d rows over %d pages, %d filtered", len(rows), len(pages), first.TotalFiltered))

	contiguous := true
	for i, r := range rows {
		if r.Rank != i+1 {
			contiguous = false
			break
		}
	}
	report.add("ranks are contiguous", contiguous, "")

	seen := make(map[string]struct{}, len(rows))
	dupes := 0
	for _, r := range rows {
		k := rowKey(r)
		if _, ok := seen[k]; ok {
			dupes++
		}
		seen[k] = struct{}{}
	}
	report.add("no record repeats across pages", dupes == 0, fmt.Sprintf("%d duplicates", dupes))
	return rows
}

func checkGroups(report *Report, v views.View) []render.Row {
	var rows []render.Row
	counts := true
	for _, t := range v.Tables {
		if t.Count != len(t.Rows) {
			counts = false
		}
		rows = append(rows, t.Rows...)
	}
	report.add("group counts match their rows", counts, "")
	report.add("groups cover the filtered list", len(rows) == v.TotalFiltered,
		fmt.Sprintf("%d rows in %d groups, %d filtered", len(rows), len(v.Tables), v.TotalFiltered))
	return rows
}

func checkWinnings(report *Report, pool float64, rows []render.Row) {
	var sum float64
	for _, r := range rows {
		for _, c := range r.Cells {
			if c.Column != "winnings" {
				continue
			}
			if n, ok := c.Raw.(float64); ok {
				sum += n
			}
		}
	}
	report.add("winnings stay within the pool", sum <= pool+float64(len(rows)),
		fmt.Sprintf("sum %.0f, pool %.0f, players %d", sum, pool, len(rows)))
}

func firstRows(v views.View) []render.Row {
	if len(v.Tables) == 0 {
		return nil
	}
	return v.Tables[0].Rows
}

func rowKey(r render.Row) string {
	parts := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		parts[i] = c.Text
	}
	return strings.Join(parts, "\x1f")
}

// PrintSummary writes a human-readable report.
func PrintSummary(w io.Writer, r Report) {
	fmt.Fprintf(w, "View %q: %d rows, %d pages, %d filtered (%s)\n",
		r.View, r.Rows, r.Pages, r.TotalFiltered, r.Duration.Round(time.Millisecond))
	for _, c := range r.Checks {
		mark := "✅"
		if !c.Passed {
			mark = "❌"
		}
		if c.Detail != "" {
			fmt.Fprintf(w, "  %s %s: %s\n", mark, c.Name, c.Detail)
		} else {
			fmt.Fprintf(w, "  %s %s\n", mark, c.Name)
		}
	}
	fmt.Fprintf(w, "%d/%d checks passed\n", len(r.Checks)-r.Failed(), len(r.Checks))
}
