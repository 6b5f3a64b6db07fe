package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/D-Elbel/gpxshare/internal/track"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.track.enabled") {
		closer, err := track.New(track.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			Seq:       a.seq,
		})
		if err != nil {
			slog.Error("failed to init module track", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Track"] = closer
		}
	}
}
