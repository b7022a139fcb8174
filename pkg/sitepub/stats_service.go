package sitepub

import "context"

// Statistics are read-only compositions over the stores. Empty collections
// yield zero-valued, well-typed results; maps come back non-nil.

func (s *service) GetBlogStats(ctx context.Context) (*BlogStats, error) {
	var stats *BlogStats
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.repository.BlogStats(ctx, topCategoryLimit)
		return err
	})
	return stats, err
}

func (s *service) GetTestimonialStats(ctx context.Context) (*TestimonialStats, error) {
	var stats *TestimonialStats
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.repository.TestimonialStats(ctx)
		return err
	})
	return stats, err
}

func (s *service) GetFeatureStats(ctx context.Context) (*FeatureStats, error) {
	var stats *FeatureStats
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		stats, err = s.repository.FeatureStats(ctx)
		return err
	})
	return stats, err
}
