package service

import (
	"context"

	"apod"
	"apod/pkg/client"
)

// PictureState is what the hero section renders.
type PictureState struct {
	Data  *apod.Record `json:"data"`
	Error string       `json:"error,omitempty"`
	Kind  string       `json:"kind,omitempty"`
}

// GalleryState is what a gallery section renders. Data is never nil.
type GalleryState struct {
	Data  []apod.Record `json:"data"`
	Error string        `json:"error,omitempty"`
	Kind  string        `json:"kind,omitempty"`
}

// Home bundles every section of the landing page.
type Home struct {
	Today  PictureState `json:"today"`
	Recent GalleryState `json:"recent"`
	Random GalleryState `json:"random"`
}

type Picture interface {
	ByDate(ctx context.Context, date string) (*apod.Record, error)
}

type Gallery interface {
	Recent(ctx context.Context, days int) GalleryState
	Random(ctx context.Context, count int) GalleryState
	Range(ctx context.Context, start, end string) ([]apod.Record, error)
}

type Page interface {
	Home(ctx context.Context, date string) Home
}

type Sizes struct {
	RecentDays  int
	RandomCount int
}

type Service struct {
	Picture
	Gallery
	Page
}

func NewService(fetcher client.Fetcher, sizes Sizes) *Service {
	pictures := NewPictureService(fetcher)
	galleries := NewGalleryService(fetcher)

	return &Service{
		Picture: pictures,
		Gallery: galleries,
		Page:    NewPageService(pictures, galleries, sizes),
	}
}
