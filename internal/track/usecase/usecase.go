package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgerror"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkguid"
	"github.com/D-Elbel/gpxshare/internal/track/entity"
	"github.com/D-Elbel/gpxshare/internal/track/geo"
)

// ObjectStore persists opaque byte payloads under string keys.
// Implementations must be safe for concurrent use and must return
// pkgerror.ErrNotFound for missing keys.
type ObjectStore interface {
	Put(ctx context.Context, key string, value []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event entity.TrackSavedEvent) error
}

type RecentsReader interface {
	Recents() []entity.RecentTrack
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error)
}

type Clock interface {
	Now() time.Time
}

type Dependency struct {
	Store   ObjectStore
	Events  EventPublisher
	Recents RecentsReader
	Runner  Runner
	Clock   Clock
	ID      pkguid.StringID
	Seq     pkguid.NumberID
	RootCtx context.Context
}

type Usecase struct {
	store   ObjectStore
	events  EventPublisher
	recents RecentsReader
	runner  Runner
	clock   Clock
	id      pkguid.StringID
	seq     pkguid.NumberID
	rootCtx context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	return &Usecase{
		store:   dep.Store,
		events:  dep.Events,
		recents: dep.Recents,
		runner:  dep.Runner,
		clock:   clock,
		id:      dep.ID,
		seq:     dep.Seq,
		rootCtx: root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// objectKey maps a track identifier to its storage key. The layout is fixed
// to files/<uuid>.json on both the write and the read path.
func objectKey(uuid string) string {
	return "files/" + uuid + ".json"
}

// Save stores the given GeoJSON document under a freshly generated UUIDv4.
//
// The identifier is minted before the storage attempt and is never derived
// from content: saving the same document twice produces two independently
// retrievable copies. A failed put is terminal for this call; no retry.
func (u *Usecase) Save(ctx context.Context, payload json.RawMessage) (SaveResult, error) {
	if u.store == nil || u.id == nil {
		return SaveResult{}, pkgerror.NewServer("Failed to save GeoJSON", errors.New("missing dependency"))
	}

	doc, err := decodePayload(payload)
	if err != nil {
		return SaveResult{}, err
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return SaveResult{}, pkgerror.NewServer("Failed to save GeoJSON", err)
	}

	uuid := u.id.Generate()
	key := objectKey(uuid)

	if err := u.store.Put(ctx, key, data); err != nil {
		slog.ErrorContext(ctx, "failed to store geojson document", "operation", "put", "key", key, "error", err)
		return SaveResult{}, pkgerror.NewServer("Failed to save GeoJSON", err)
	}

	u.publishSaved(uuid, doc, int64(len(data)))

	return SaveResult{UUID: uuid}, nil
}

// Fetch returns the stored bytes for the given identifier verbatim, without
// re-validation or re-parsing.
func (u *Usecase) Fetch(ctx context.Context, uuid string) ([]byte, error) {
	if u.store == nil {
		return nil, pkgerror.NewServer("Failed to fetch GeoJSON", errors.New("missing dependency"))
	}

	if strings.TrimSpace(uuid) == "" {
		return nil, pkgerror.NewInvalidInput("Missing uuid", errors.New("uuid is required"))
	}

	key := objectKey(uuid)

	data, err := u.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, pkgerror.ErrNotFound) {
			return nil, pkgerror.NewNotFound("Not found")
		}
		slog.ErrorContext(ctx, "failed to fetch geojson document", "operation", "get", "key", key, "error", err)
		return nil, pkgerror.NewServer("Failed to fetch GeoJSON", err)
	}

	// an empty stored object is indistinguishable from a missing one
	if len(data) == 0 {
		return nil, pkgerror.NewNotFound("Not found")
	}

	return data, nil
}

// Convert parses a raw GPX document into a GeoJSON FeatureCollection and
// attaches the distance summary as the top-level meta_stats member.
func (u *Usecase) Convert(ctx context.Context, r io.Reader) (ConvertResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ConvertResult{}, pkgerror.NewServer("Failed to convert GPX", err)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		return ConvertResult{}, pkgerror.NewInvalidInput("Missing GPX payload", errors.New("gpx payload is required"))
	}

	fc, err := geo.Parse(raw)
	if err != nil {
		return ConvertResult{}, pkgerror.NewInvalidInput("Invalid GPX file", err)
	}

	fc.ExtraMembers = map[string]interface{}{
		"meta_stats": geo.ComputeStats(fc),
	}

	doc, err := fc.MarshalJSON()
	if err != nil {
		return ConvertResult{}, pkgerror.NewServer("Failed to convert GPX", err)
	}

	return ConvertResult{Document: doc}, nil
}

// Recents lists the most recently saved tracks observed by this process.
func (u *Usecase) Recents(ctx context.Context) (RecentsResult, error) {
	if u.recents == nil {
		return RecentsResult{}, pkgerror.NewServer("Failed to list recent tracks", errors.New("missing dependency"))
	}

	return RecentsResult{Recents: u.recents.Recents()}, nil
}

func decodePayload(payload json.RawMessage) (any, error) {
	if len(payload) == 0 {
		return nil, pkgerror.NewInvalidInput("Missing geojson payload", errors.New("geojson payload is required"))
	}

	var doc any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return nil, pkgerror.NewInvalidInput("Missing geojson payload", err)
	}

	if emptyDocument(doc) {
		return nil, pkgerror.NewInvalidInput("Missing geojson payload", errors.New("geojson payload is empty"))
	}

	return doc, nil
}

// emptyDocument reports whether a decoded payload carries no content at all.
// Null, empty string, empty object or array, zero, and false are all rejected
// the same way a missing payload is.
func emptyDocument(doc any) bool {
	switch v := doc.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case bool:
		return !v
	case float64:
		return v == 0
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}

	return false
}

func (u *Usecase) publishSaved(uuid string, doc any, size int64) {
	if u.events == nil || u.runner == nil {
		return
	}

	var seq int64
	if u.seq != nil {
		seq = u.seq.Generate()
	}

	event := entity.TrackSavedEvent{
		Seq:     seq,
		UUID:    uuid,
		Size:    size,
		Stats:   extractStats(doc),
		SavedAt: u.clock.Now().Unix(),
	}

	u.runner.Go(u.rootCtx, func(ctx context.Context) error {
		if err := u.events.Publish(ctx, event); err != nil {
			slog.WarnContext(ctx, "failed to publish track saved event", "uuid", event.UUID, "error", err)
		}
		return nil
	})
}

// extractStats pulls meta_stats out of an already-decoded document. Saved
// documents are not required to carry stats; absence is not an error.
func extractStats(doc any) entity.TrackStats {
	m, ok := doc.(map[string]any)
	if !ok {
		return entity.TrackStats{}
	}

	meta, ok := m["meta_stats"].(map[string]any)
	if !ok {
		return entity.TrackStats{}
	}

	switch v := meta["total_distance_km"].(type) {
	case string:
		return entity.TrackStats{TotalDistanceKm: v}
	case float64:
		return entity.TrackStats{TotalDistanceKm: strconv.FormatFloat(v, 'f', 2, 64)}
	default:
		return entity.TrackStats{}
	}
}
