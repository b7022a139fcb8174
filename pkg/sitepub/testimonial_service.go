package sitepub

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Testimonial operations

func (s *service) CreateTestimonial(ctx context.Context, req CreateTestimonialRequest) (*Testimonial, error) {
	if err := validateCreateTestimonial(req); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	testimonial := &Testimonial{
		ID:           uuid.New(),
		Name:         req.Name,
		Role:         req.Role,
		Company:      req.Company,
		Quote:        req.Quote,
		Image:        req.Image,
		Rating:       req.Rating,
		Industry:     req.Industry,
		CompanySize:  req.CompanySize,
		Active:       req.Active,
		Featured:     req.Featured,
		DisplayOrder: req.DisplayOrder,
		Tags:         req.Tags,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.CreateTestimonial(ctx, testimonial)
	}); err != nil {
		return nil, err
	}

	s.logger.Info("testimonial created", "testimonial_id", testimonial.ID)
	return testimonial, nil
}

func (s *service) GetTestimonial(ctx context.Context, id uuid.UUID) (*Testimonial, error) {
	var testimonial *Testimonial
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		testimonial, err = s.repository.GetTestimonial(ctx, id)
		return err
	})
	return testimonial, err
}

func (s *service) UpdateTestimonial(ctx context.Context, req UpdateTestimonialRequest) (*Testimonial, error) {
	if err := validateUpdateTestimonial(req); err != nil {
		return nil, err
	}

	testimonial, err := s.GetTestimonial(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		testimonial.Name = *req.Name
	}
	if req.Role != nil {
		testimonial.Role = *req.Role
	}
	if req.Company != nil {
		testimonial.Company = *req.Company
	}
	if req.Quote != nil {
		testimonial.Quote = *req.Quote
	}
	if req.Image != nil {
		testimonial.Image = *req.Image
	}
	if req.Rating != nil {
		testimonial.Rating = *req.Rating
	}
	if req.Industry != nil {
		testimonial.Industry = *req.Industry
	}
	if req.CompanySize != nil {
		testimonial.CompanySize = *req.CompanySize
	}
	if req.Active != nil {
		testimonial.Active = *req.Active
	}
	if req.Featured != nil {
		testimonial.Featured = *req.Featured
	}
	if req.DisplayOrder != nil {
		testimonial.DisplayOrder = *req.DisplayOrder
	}
	if req.Tags != nil {
		testimonial.Tags = *req.Tags
	}
	testimonial.UpdatedAt = time.Now().UTC()

	if err := s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.UpdateTestimonial(ctx, testimonial)
	}); err != nil {
		return nil, err
	}

	return testimonial, nil
}

func (s *service) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return s.withStorage(ctx, func(ctx context.Context) error {
		return s.repository.DeleteTestimonial(ctx, id)
	})
}

func (s *service) ListTestimonials(ctx context.Context, filters TestimonialListFilters) ([]*Testimonial, error) {
	var testimonials []*Testimonial
	err := s.withStorage(ctx, func(ctx context.Context) error {
		var err error
		testimonials, err = s.repository.ListTestimonials(ctx, filters)
		return err
	})
	return testimonials, err
}
