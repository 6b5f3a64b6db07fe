package inbound

import (
	"encoding/json"

	"github.com/D-Elbel/gpxshare/internal/track/entity"
)

type SaveRequest struct {
	GeoJSON json.RawMessage `json:"geojson"`
}

type SaveResponse struct {
	UUID string `json:"uuid"`
}

// DocumentResponse writes stored or converted document bytes to the client
// without re-encoding.
type DocumentResponse struct {
	doc []byte
}

func (r DocumentResponse) RawJSON() []byte {
	return r.doc
}

type RecentsResponse struct {
	Recents []entity.RecentTrack `json:"recents"`
}

func NewRecentsResponse(recents []entity.RecentTrack) RecentsResponse {
	if recents == nil {
		recents = []entity.RecentTrack{}
	}
	return RecentsResponse{Recents: recents}
}
