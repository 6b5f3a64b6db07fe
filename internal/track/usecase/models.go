package usecase

import "github.com/D-Elbel/gpxshare/internal/track/entity"

type SaveResult struct {
	UUID string
}

type ConvertResult struct {
	Document []byte
}

type RecentsResult struct {
	Recents []entity.RecentTrack
}
