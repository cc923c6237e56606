// Package core fronts the repository with the ambient concerns every caller
// shares: backend selection, operation timing, metrics, and logging.
package core

import (
	"context"
	"errors"
	"io"
	"peopledb/pkg/domain"
	"time"
)

// Operation names reported to loggers and metrics.
const (
	OpListPeople               = "list_people"
	OpListPeopleLimit          = "list_people_limit"
	OpGetPerson                = "get_person"
	OpGetOrganizationCEO       = "get_organization_ceo"
	OpInsertPerson             = "insert_person"
	OpInsertOrganization       = "insert_organization"
	OpListOrganizations        = "list_organizations"
	OpListOrganizationsWithCEO = "list_organizations_with_ceo"
)

var _ domain.Repository = (*Service)(nil)

// Service wraps a domain.Repository and observes every call.
type Service struct {
	repo    domain.Repository
	logger  Logger
	metrics MetricsRecorder
	now     func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger routes operation logs to logger. Nil keeps the no-op logger.
func WithLogger(logger Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records operation outcomes on recorder.
func WithMetrics(recorder MetricsRecorder) Option {
	return func(s *Service) {
		if recorder != nil {
			s.metrics = recorder
		}
	}
}

// WithClock overrides the time source used for elapsed measurements.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService constructs a Service over repo.
func NewService(repo domain.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, logger: noopLogger{}, metrics: noopMetrics{}, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Logger returns the configured logger.
func (s *Service) Logger() Logger { return s.logger }

// Close closes the wrapped repository when it holds resources.
func (s *Service) Close() error {
	if c, ok := s.repo.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (s *Service) ListPeople(ctx context.Context) ([]domain.Person, error) {
	return timed(ctx, s, OpListPeople, func() ([]domain.Person, error) { return s.repo.ListPeople(ctx) })
}

func (s *Service) ListPeopleLimit(ctx context.Context, limit int64) ([]domain.Person, error) {
	return timed(ctx, s, OpListPeopleLimit, func() ([]domain.Person, error) { return s.repo.ListPeopleLimit(ctx, limit) })
}

func (s *Service) GetPerson(ctx context.Context, id int32) (domain.Person, error) {
	return timed(ctx, s, OpGetPerson, func() (domain.Person, error) { return s.repo.GetPerson(ctx, id) })
}

func (s *Service) GetOrganizationCEO(ctx context.Context, organizationID int32) (domain.Person, error) {
	return timed(ctx, s, OpGetOrganizationCEO, func() (domain.Person, error) {
		return s.repo.GetOrganizationCEO(ctx, organizationID)
	})
}

func (s *Service) InsertPerson(ctx context.Context, person domain.NewPerson) (domain.Person, error) {
	return timed(ctx, s, OpInsertPerson, func() (domain.Person, error) { return s.repo.InsertPerson(ctx, person) })
}

func (s *Service) InsertOrganization(ctx context.Context, organization domain.NewOrganization) (domain.Organization, error) {
	return timed(ctx, s, OpInsertOrganization, func() (domain.Organization, error) {
		return s.repo.InsertOrganization(ctx, organization)
	})
}

func (s *Service) ListOrganizations(ctx context.Context) ([]domain.Organization, error) {
	return timed(ctx, s, OpListOrganizations, func() ([]domain.Organization, error) { return s.repo.ListOrganizations(ctx) })
}

func (s *Service) ListOrganizationsWithCEO(ctx context.Context) ([]domain.OrganizationWithCeo, error) {
	return timed(ctx, s, OpListOrganizationsWithCEO, func() ([]domain.OrganizationWithCeo, error) {
		return s.repo.ListOrganizationsWithCEO(ctx)
	})
}

func timed[T any](ctx context.Context, s *Service, op string, fn func() (T, error)) (T, error) {
	start := s.now()
	v, err := fn()
	elapsed := s.now().Sub(start)
	s.metrics.Observe(ctx, op, err == nil, elapsed)
	switch {
	case err == nil:
		s.logger.Info("repository operation", "operation", op, "elapsed", elapsed)
	case domain.IsNotFound(err):
		s.logger.Info("repository operation found nothing", "operation", op, "elapsed", elapsed, "error", err)
	case errors.Is(err, domain.ErrPoolExhausted), errors.Is(err, context.Canceled):
		s.logger.Warn("repository operation failed", "operation", op, "elapsed", elapsed, "error", err)
	default:
		s.logger.Error("repository operation failed", "operation", op, "elapsed", elapsed, "error", err)
	}
	return v, err
}
