package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/hmicodes/catalog/internal/domain/entities"
	"github.com/hmicodes/catalog/internal/infrastructure/logger"
	"github.com/hmicodes/catalog/internal/ports"
)

// CatalogService handles error catalog operations
type CatalogService struct {
	repo     ports.ErrorRecordRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(repo ports.ErrorRecordRepository, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		repo:     repo,
		validate: validator.New(),
		logger:   logger.WithComponent("catalog"),
	}
}

// ListErrors returns every record in stored order
func (s *CatalogService) ListErrors(ctx context.Context) ([]entities.ErrorRecord, error) {
	start := time.Now()
	records, err := s.repo.ListAll(ctx)
	s.logger.LogStoreOperation("list", "", sinceMillis(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list error codes: %w", err)
	}
	return records, nil
}

// SearchErrors returns the records matching filter, plus the platforms of the whole catalog
func (s *CatalogService) SearchErrors(ctx context.Context, filter ports.ErrorFilter) (*ports.SearchResult, error) {
	records, err := s.ListErrors(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]entities.ErrorRecord, 0, len(records))
	for _, r := range records {
		if r.Matches(filter.Query, filter.Platform) {
			matched = append(matched, r)
		}
	}

	return &ports.SearchResult{
		Records:   matched,
		Platforms: entities.UniquePlatforms(records),
	}, nil
}

// AddError validates the request, rejects a duplicate code and appends the record
func (s *CatalogService) AddError(ctx context.Context, req ports.ErrorRecordRequest) (*entities.ErrorRecord, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	record := req.ToEntity()

	existing, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load error codes: %w", err)
	}
	for _, e := range existing {
		if e.Code == record.Code {
			return nil, fmt.Errorf("error code %s %w", record.Code, entities.ErrDuplicateCode)
		}
	}

	start := time.Now()
	err = s.repo.Add(ctx, record)
	s.logger.LogStoreOperation("add", record.Code, sinceMillis(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to add error code: %w", err)
	}

	s.logger.Infow("Error code added", "code", record.Code)
	return &record, nil
}

// UpdateError replaces the record stored under code with the request body.
// The body's Code is written as-is, so a differing value re-keys the record.
func (s *CatalogService) UpdateError(ctx context.Context, code string, req ports.ErrorRecordRequest) (*entities.ErrorRecord, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}
	record := req.ToEntity()

	if record.Code != code {
		s.logger.Warnw("Update changes the record's code", "code", code, "new_code", record.Code)
	}

	start := time.Now()
	found, err := s.repo.Update(ctx, code, record)
	s.logger.LogStoreOperation("update", code, sinceMillis(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to update error code: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("error code %s %w", code, entities.ErrRecordNotFound)
	}

	s.logger.Infow("Error code updated", "code", code)
	return &record, nil
}

// DeleteError removes the record stored under code
func (s *CatalogService) DeleteError(ctx context.Context, code string) error {
	start := time.Now()
	found, err := s.repo.Delete(ctx, code)
	s.logger.LogStoreOperation("delete", code, sinceMillis(start), err)
	if err != nil {
		return fmt.Errorf("failed to delete error code: %w", err)
	}
	if !found {
		return fmt.Errorf("error code %s %w", code, entities.ErrRecordNotFound)
	}

	s.logger.Infow("Error code deleted", "code", code)
	return nil
}

func (s *CatalogService) validateRequest(req ports.ErrorRecordRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return &entities.ValidationError{Missing: req.MissingFields()}
	}
	return nil
}

func sinceMillis(start time.Time) float64 {
	return float64(time.Since(start).Nanoseconds()) / 1000000
}
