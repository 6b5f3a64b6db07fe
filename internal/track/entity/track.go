package entity

// TrackStats is the summary attached to a stored document under the
// top-level "meta_stats" member. It is computed once when the document
// is produced and never recomputed on retrieval.
type TrackStats struct {
	TotalDistanceKm string `json:"total_distance_km"`
}

// TrackSavedEvent is emitted after a document has been durably stored.
type TrackSavedEvent struct {
	Seq     int64
	UUID    string
	Size    int64
	Stats   TrackStats
	SavedAt int64
}

// RecentTrack is a single entry of the recents listing.
type RecentTrack struct {
	UUID            string `json:"uuid"`
	TotalDistanceKm string `json:"total_distance_km,omitempty"`
	SavedAt         int64  `json:"saved_at"`
}
