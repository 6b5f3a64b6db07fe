package inbound

import (
	"context"
	"encoding/json"
	"io"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgrouter"
	"github.com/D-Elbel/gpxshare/internal/track/usecase"
)

type uc interface {
	Save(ctx context.Context, payload json.RawMessage) (usecase.SaveResult, error)
	Fetch(ctx context.Context, uuid string) ([]byte, error)
	Convert(ctx context.Context, r io.Reader) (usecase.ConvertResult, error)
	Recents(ctx context.Context) (usecase.RecentsResult, error)
}

func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/api/save", end.Save)
	r.POST("/api/convert", end.Convert)

	r.GET("/api/get/:uuid", end.Get)
	r.GET("/api/get-recents", end.Recents)
}
