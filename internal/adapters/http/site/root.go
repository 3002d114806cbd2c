// Package site serves the embedded front page of the leaderboard.
package site

import (
	"context"
	"net/http"
)

// Register attaches the embedded site at the root of mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("GET /", http.FileServer(FS()))
}
