package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"apod"
	"apod/pkg/client"
)

type PictureService struct {
	fetcher client.Fetcher
}

func NewPictureService(fetcher client.Fetcher) *PictureService {
	return &PictureService{fetcher}
}

func (s *PictureService) ByDate(ctx context.Context, date string) (*apod.Record, error) {
	return s.fetcher.FetchSingle(ctx, date)
}

type GalleryService struct {
	fetcher client.Fetcher
}

func NewGalleryService(fetcher client.Fetcher) *GalleryService {
	return &GalleryService{fetcher}
}

// Recent lists the last days records, newest first.
func (s *GalleryService) Recent(ctx context.Context, days int) GalleryState {
	recs := s.fetcher.FetchRecent(ctx, days)

	newest := make([]apod.Record, len(recs))
	copy(newest, recs)
	sort.SliceStable(newest, func(i, j int) bool {
		return newest[i].Date > newest[j].Date
	})

	return GalleryState{Data: newest}
}

// Random never fails: an upstream error leaves an empty gallery and a message.
func (s *GalleryService) Random(ctx context.Context, count int) GalleryState {
	recs, err := s.fetcher.FetchRandom(ctx, count)
	if err != nil {
		return GalleryState{
			Data:  []apod.Record{},
			Error: client.UserMessage(err),
			Kind:  client.KindOf(err).String(),
		}
	}

	if recs == nil {
		recs = []apod.Record{}
	}
	return GalleryState{Data: recs}
}

func (s *GalleryService) Range(ctx context.Context, start, end string) ([]apod.Record, error) {
	return s.fetcher.FetchRange(ctx, start, end)
}

type PageService struct {
	pictures Picture
	gallery  Gallery
	sizes    Sizes
}

func NewPageService(pictures Picture, gallery Gallery, sizes Sizes) *PageService {
	return &PageService{pictures, gallery, sizes}
}

// Home loads the three sections concurrently. Sections fail independently.
func (s *PageService) Home(ctx context.Context, date string) Home {
	var home Home

	var g errgroup.Group
	g.Go(func() error {
		rec, err := s.pictures.ByDate(ctx, date)
		if err != nil {
			home.Today = PictureState{Error: client.UserMessage(err), Kind: client.KindOf(err).String()}
			return nil
		}
		home.Today = PictureState{Data: rec}
		return nil
	})
	g.Go(func() error {
		home.Recent = s.gallery.Recent(ctx, s.sizes.RecentDays)
		return nil
	})
	g.Go(func() error {
		home.Random = s.gallery.Random(ctx, s.sizes.RandomCount)
		return nil
	})
	_ = g.Wait()

	return home
}
