// Package history enforces the dataset retention policy: only the most
// recent N uploads are kept, older ones are pruned together with their
// summaries and column profiles.
package history

import (
	"context"
	"time"

	"equipstats/internal"
	"equipstats/ports"
)

// Status reports where the store stands relative to the retention cap.
type Status struct {
	CurrentCount int  `json:"current_count"`
	MaxAllowed   int  `json:"max_allowed"`
	AtLimit      bool `json:"at_limit"`
	SlotsLeft    int  `json:"slots_left"`
}

// PrunableDataset identifies one dataset a cleanup would remove.
type PrunableDataset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FileName  string    `json:"file_name"`
	CreatedAt time.Time `json:"created_at"`
}

// CleanupPreview lists what a cleanup run would delete without deleting it.
type CleanupPreview struct {
	WouldRemove int               `json:"would_remove"`
	Datasets    []PrunableDataset `json:"datasets"`
}

// CleanupResult reports an executed cleanup.
type CleanupResult struct {
	Removed      int `json:"removed"`
	CurrentCount int `json:"current_count"`
	MaxAllowed   int `json:"max_allowed"`
}

// Service applies the retention policy over the dataset repository.
type Service struct {
	repo        ports.DatasetRepository
	maxDatasets int
	logger      *internal.Logger
}

// NewService creates a retention service keeping at most maxDatasets uploads.
func NewService(repo ports.DatasetRepository, maxDatasets int, logger *internal.Logger) *Service {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Service{repo: repo, maxDatasets: maxDatasets, logger: logger}
}

// MaxDatasets returns the configured retention cap.
func (s *Service) MaxDatasets() int {
	return s.maxDatasets
}

// Status reports the current store occupancy against the cap.
func (s *Service) Status(ctx context.Context) (*Status, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}

	status := &Status{
		CurrentCount: count,
		MaxAllowed:   s.maxDatasets,
		AtLimit:      count >= s.maxDatasets,
	}
	if !status.AtLimit {
		status.SlotsLeft = s.maxDatasets - count
	}
	return status, nil
}

// Preview lists the datasets a cleanup would remove, oldest first.
func (s *Service) Preview(ctx context.Context) (*CleanupPreview, error) {
	datasets, err := s.repo.ListOldest(ctx, s.maxDatasets)
	if err != nil {
		return nil, err
	}

	preview := &CleanupPreview{
		WouldRemove: len(datasets),
		Datasets:    make([]PrunableDataset, 0, len(datasets)),
	}
	for _, ds := range datasets {
		preview.Datasets = append(preview.Datasets, PrunableDataset{
			ID:        ds.ID.String(),
			Name:      ds.Name,
			FileName:  ds.FileName,
			CreatedAt: ds.CreatedAt,
		})
	}
	return preview, nil
}

// Cleanup prunes datasets beyond the cap and reports the outcome.
func (s *Service) Cleanup(ctx context.Context) (*CleanupResult, error) {
	removed, err := s.repo.DeleteOldest(ctx, s.maxDatasets)
	if err != nil {
		return nil, err
	}
	if removed > 0 {
		s.logger.Info("Retention cleanup removed %d dataset(s), keeping last %d", removed, s.maxDatasets)
	}

	count, err := s.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &CleanupResult{
		Removed:      removed,
		CurrentCount: count,
		MaxAllowed:   s.maxDatasets,
	}, nil
}
