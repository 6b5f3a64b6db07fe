package track

import (
	"context"
	"fmt"

	"github.com/D-Elbel/gpxshare/internal/pkg/pkgconfig"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkgrouter"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkgroutine"
	"github.com/D-Elbel/gpxshare/internal/pkg/pkguid"
	"github.com/D-Elbel/gpxshare/internal/track/event"
	"github.com/D-Elbel/gpxshare/internal/track/inbound"
	"github.com/D-Elbel/gpxshare/internal/track/store"
	"github.com/D-Elbel/gpxshare/internal/track/usecase"
)

type Dependency struct {
	Config    pkgconfig.Config
	Goroutine *pkgroutine.Manager
	Router    *pkgrouter.Router
	Context   context.Context
	ID        pkguid.StringID
	Seq       pkguid.NumberID
}

func New(dep Dependency) (func(context.Context) error, error) {
	storage, err := newObjectStore(dep.Config)
	if err != nil {
		return nil, err
	}

	bus := event.NewBus(int(dep.Config.GetInt("modules.track.event_buffer")))
	recorder := event.NewRecorder(bus, event.RecorderConfig{
		Size:    int(dep.Config.GetInt("modules.track.recents_size")),
		Workers: 2,
	})
	recorder.Start()

	if dep.ID == nil {
		dep.ID = pkguid.NewUUID()
	}

	uc := usecase.New(usecase.Dependency{
		Store:   storage,
		Events:  bus,
		Recents: recorder,
		Runner:  dep.Goroutine,
		Clock:   nil,
		ID:      dep.ID,
		Seq:     dep.Seq,
		RootCtx: dep.Context,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return recorder.Stop, nil
}

func newObjectStore(cfg pkgconfig.Config) (usecase.ObjectStore, error) {
	switch driver := cfg.GetString("storage.driver"); driver {
	case "memory":
		return store.NewInMemoryStore(), nil
	case "", "minio":
		return store.NewMinioStore(store.MinioConfig{
			Endpoint:  cfg.GetString("storage.endpoint"),
			AccessKey: cfg.GetString("storage.access_key"),
			SecretKey: cfg.GetString("storage.secret_key"),
			Bucket:    cfg.GetString("storage.bucket"),
			UseSSL:    cfg.GetBool("storage.use_ssl"),
			Timeout:   cfg.GetDuration("storage.timeout"),
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", driver)
	}
}
