package api

import (
	"context"

	"podcaster/internal/podcast"
)

// HistoryReader abstracts the registry queries the API needs.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]podcast.Record, error)
	Get(ctx context.Context, id int64) (*podcast.Record, error)
}

// HistoryService exposes read-only history operations returning API DTOs.
type HistoryService struct {
	store HistoryReader
}

// NewHistoryService constructs a HistoryService around the provided reader.
func NewHistoryService(store HistoryReader) *HistoryService {
	if store == nil {
		return nil
	}
	return &HistoryService{store: store}
}

// List returns the newest episodes first.
func (s *HistoryService) List(ctx context.Context, limit int) ([]PodcastSummary, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	records, err := s.store.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	return FromRecords(records), nil
}

// Describe fetches one episode including its transcript.
func (s *HistoryService) Describe(ctx context.Context, id int64) (*PodcastDetail, error) {
	if s == nil || s.store == nil {
		return nil, nil
	}
	rec, err := s.store.Get(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return &PodcastDetail{PodcastSummary: FromRecord(*rec), Transcript: rec.Transcript}, nil
}
