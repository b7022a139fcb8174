package sitepub

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	defaultStorageTimeout = 5 * time.Second
	defaultStorageRetries = 2
	defaultRetryBackoff   = 100 * time.Millisecond
	topCategoryLimit      = 10
)

// service implements the Service interface
type service struct {
	repository     Repository
	assets         AssetStore
	logger         *slog.Logger
	storageTimeout time.Duration
	storageRetries int
	retryBackoff   time.Duration
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repository = repo
	}
}

// WithAssetStore sets the asset store used for best-effort image cleanup
func WithAssetStore(store AssetStore) Option {
	return func(s *service) {
		s.assets = store
	}
}

// WithLogger sets the structured logger for the service
func WithLogger(logger *slog.Logger) Option {
	return func(s *service) {
		s.logger = logger
	}
}

// WithStorageTimeout bounds every repository call
func WithStorageTimeout(d time.Duration) Option {
	return func(s *service) {
		if d > 0 {
			s.storageTimeout = d
		}
	}
}

// WithStorageRetries sets how many times a transient storage failure is
// retried before surfacing ErrUnavailable
func WithStorageRetries(n int) Option {
	return func(s *service) {
		if n >= 0 {
			s.storageRetries = n
		}
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		logger:         slog.Default(),
		storageTimeout: defaultStorageTimeout,
		storageRetries: defaultStorageRetries,
		retryBackoff:   defaultRetryBackoff,
	}

	for _, option := range options {
		option(s)
	}

	if s.repository == nil {
		return nil, fmt.Errorf("repository is required")
	}

	return s, nil
}

// withStorage runs op under a bounded timeout and retries transient
// failures. Non-retryable errors surface immediately.
func (s *service) withStorage(ctx context.Context, op func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		opCtx, cancel := context.WithTimeout(ctx, s.storageTimeout)
		err = op(opCtx)
		cancel()

		if err == nil || !isRetryable(err) {
			return err
		}
		if attempt >= s.storageRetries {
			break
		}

		s.logger.Warn("storage call failed, retrying",
			"attempt", attempt+1, "error", err)
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-time.After(s.retryBackoff * time.Duration(attempt+1)):
		}
	}
	if errors.Is(err, ErrUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnavailable, err)
}

func isRetryable(err error) bool {
	return errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}

// Section operations

func (s *service) GetActiveSection(ctx context.Context, kind SectionKind) (*Section, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	var actives []*Section
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		actives, err = s.repository.GetActiveSections(ctx, kind)
		return err
	})
	if err != nil {
		return nil, err
	}

	switch len(actives) {
	case 0:
		return nil, ErrSectionNotFound
	case 1:
		return actives[0], nil
	}

	// Invariant breach: more than one active section. Return the most
	// recently updated candidate and surface the condition loudly.
	s.logger.Error("integrity warning: multiple active sections",
		"kind", kind, "count", len(actives), "returned", actives[0].ID)
	return actives[0], nil
}

func (s *service) GetSection(ctx context.Context, id uuid.UUID) (*Section, error) {
	var section *Section
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		section, err = s.repository.GetSection(ctx, id)
		return err
	})
	return section, err
}

func (s *service) ListSections(ctx context.Context, kind SectionKind) ([]*Section, error) {
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}
	var sections []*Section
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		sections, err = s.repository.ListSections(ctx, kind)
		return err
	})
	return sections, err
}

func (s *service) CreateSection(ctx context.Context, req CreateSectionRequest) (*Section, error) {
	if err := validateCreateSection(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	section := &Section{
		ID:        uuid.New(),
		Kind:      req.Kind,
		Version:   req.Version,
		IsActive:  false,
		Hero:      req.Hero,
		Feature:   req.Feature,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.CreateSection(ctx, section)
	}); err != nil {
		return nil, &SectionError{SectionID: section.ID, Kind: section.Kind, Op: "create", Err: err}
	}

	// Activation on create is still the usual atomic flip, never a raw
	// insert with is_active set.
	if req.IsActive {
		return s.ActivateSection(ctx, section.ID)
	}

	s.logger.Info("section created",
		"section_id", section.ID, "kind", section.Kind, "version", section.Version)
	return section, nil
}

func (s *service) UpdateSection(ctx context.Context, req UpdateSectionRequest) (*Section, error) {
	section, err := s.GetSection(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if err := validateUpdateSection(section.Kind, req); err != nil {
		return nil, err
	}

	// Payload-only update: identity, version and activation state are
	// never touched here.
	if req.Hero != nil {
		section.Hero = req.Hero
	}
	if req.Feature != nil {
		section.Feature = req.Feature
	}
	section.UpdatedAt = time.Now().UTC()

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.UpdateSection(ctx, section)
	}); err != nil {
		return nil, &SectionError{SectionID: section.ID, Kind: section.Kind, Op: "update", Err: err}
	}

	return section, nil
}

func (s *service) ActivateSection(ctx context.Context, id uuid.UUID) (*Section, error) {
	section, err := s.GetSection(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.ActivateSection(ctx, section.Kind, id)
	}); err != nil {
		return nil, &SectionError{SectionID: id, Kind: section.Kind, Op: "activate", Err: err}
	}

	section.IsActive = true
	s.logger.Info("section activated",
		"section_id", id, "kind", section.Kind, "version", section.Version)
	return section, nil
}

func (s *service) DeleteSection(ctx context.Context, id uuid.UUID) error {
	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.DeleteSection(ctx, id)
	}); err != nil {
		return &SectionError{SectionID: id, Op: "delete", Err: err}
	}
	s.logger.Info("section deleted", "section_id", id)
	return nil
}

// Versioning

// CreateSectionVersion clones the source section into a new inactive
// document carrying newVersion. Activation remains a separate explicit call.
func (s *service) CreateSectionVersion(ctx context.Context, sourceID uuid.UUID, newVersion string) (*Section, error) {
	if !IsValidSemver(newVersion) {
		return nil, &ValidationError{Fields: []FieldError{
			{Field: "version", Message: "must match major.minor.patch"},
		}}
	}

	source, err := s.GetSection(ctx, sourceID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	clone := &Section{
		ID:        uuid.New(),
		Kind:      source.Kind,
		Version:   newVersion,
		IsActive:  false,
		Hero:      cloneHero(source.Hero),
		Feature:   cloneFeature(source.Feature),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.CreateSection(ctx, clone)
	}); err != nil {
		return nil, &SectionError{SectionID: sourceID, Kind: source.Kind, Op: "create_version", Err: err}
	}

	s.logger.Info("section version created",
		"source_id", sourceID, "section_id", clone.ID,
		"kind", clone.Kind, "version", newVersion)
	return clone, nil
}

func cloneHero(p *HeroPayload) *HeroPayload {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}

func cloneFeature(p *FeaturePayload) *FeaturePayload {
	if p == nil {
		return nil
	}
	c := *p
	c.Features = make([]Feature, len(p.Features))
	copy(c.Features, p.Features)
	return &c
}
