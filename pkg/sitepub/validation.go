package sitepub

import (
	"errors"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Field-level request validation. Rules live here so every entry point
// (HTTP, library callers, tests) runs the same constraints.

func validateCreateSection(req CreateSectionRequest) error {
	errs := validation.Errors{}

	if !req.Kind.IsValid() {
		errs["kind"] = errors.New("must be a known section kind")
	}
	if !IsValidSemver(req.Version) {
		errs["version"] = errors.New("must match major.minor.patch")
	}
	if err := validatePayloadForKind(req.Kind, req.Hero, req.Feature); err != nil {
		errs["payload"] = err
	}

	return toValidationError(errs.Filter())
}

func validateUpdateSection(kind SectionKind, req UpdateSectionRequest) error {
	errs := validation.Errors{}
	if err := validatePayloadForKind(kind, req.Hero, req.Feature); err != nil {
		errs["payload"] = err
	}
	return toValidationError(errs.Filter())
}

func validatePayloadForKind(kind SectionKind, hero *HeroPayload, feature *FeaturePayload) error {
	switch kind {
	case SectionKindHero:
		if hero == nil {
			return errors.New("hero payload is required")
		}
		if feature != nil {
			return errors.New("feature payload not allowed for hero sections")
		}
		return validation.ValidateStruct(hero,
			validation.Field(&hero.Title, validation.Required),
		)
	case SectionKindFeature:
		if feature == nil {
			return errors.New("feature payload is required")
		}
		if hero != nil {
			return errors.New("hero payload not allowed for feature sections")
		}
		return validation.ValidateStruct(feature,
			validation.Field(&feature.Title, validation.Required),
			validation.Field(&feature.MaxFeatures, validation.Min(0)),
			validation.Field(&feature.Features, validation.By(validateFeatureItems)),
		)
	}
	return nil
}

func validateFeatureItems(value interface{}) error {
	items, _ := value.([]Feature)
	for i := range items {
		if items[i].Title == "" {
			return errors.New("every feature needs a title")
		}
		if items[i].Order < 0 {
			return errors.New("feature order must be non-negative")
		}
	}
	return nil
}

func validateCreateBlog(req CreateBlogRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required, validation.Length(5, 200)),
		validation.Field(&req.Content, validation.Required, validation.Length(50, 0)),
		validation.Field(&req.ContentType, validation.Required,
			validation.In(ContentTypeRichText, ContentTypeMarkdown)),
		validation.Field(&req.Slug, validation.By(optionalSlug)),
		validation.Field(&req.Author, validation.By(func(interface{}) error {
			return validateAuthor(req.Author)
		})),
	)
	return toValidationError(err)
}

func validateAuthor(a BlogAuthor) error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Name, validation.Required, validation.Length(2, 100)),
	)
}

func optionalSlug(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if !IsValidSlug(s) {
		return errors.New("must contain only lowercase letters, digits and hyphens")
	}
	return nil
}

func validateUpdateBlog(req UpdateBlogRequest) error {
	errs := validation.Errors{}
	if req.Title != nil {
		errs["title"] = validation.Validate(*req.Title, validation.Required, validation.Length(5, 200))
	}
	if req.Content != nil {
		errs["content"] = validation.Validate(*req.Content, validation.Required, validation.Length(50, 0))
	}
	if req.ContentType != nil {
		// A non-nil pointer means the caller set the value; Required stops
		// the In rule from skipping the empty string.
		errs["content_type"] = validation.Validate(*req.ContentType, validation.Required,
			validation.In(ContentTypeRichText, ContentTypeMarkdown))
	}
	if req.Slug != nil {
		errs["slug"] = optionalSlug(*req.Slug)
	}
	if req.Author != nil {
		errs["author"] = validateAuthor(*req.Author)
	}
	return toValidationError(errs.Filter())
}

func validateCreateTestimonial(req CreateTestimonialRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&req.Quote, validation.Required),
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
	)
	return toValidationError(err)
}

func validateUpdateTestimonial(req UpdateTestimonialRequest) error {
	errs := validation.Errors{}
	if req.Name != nil {
		errs["name"] = validation.Validate(*req.Name, validation.Required, validation.Length(2, 100))
	}
	if req.Quote != nil {
		errs["quote"] = validation.Validate(*req.Quote, validation.Required)
	}
	if req.Rating != nil {
		// Required keeps an explicit zero from slipping past the range rules.
		errs["rating"] = validation.Validate(*req.Rating, validation.Required,
			validation.Min(1), validation.Max(5))
	}
	if req.DisplayOrder != nil {
		errs["display_order"] = validation.Validate(*req.DisplayOrder, validation.Min(0))
	}
	return toValidationError(errs.Filter())
}

// toValidationError flattens ozzo validation.Errors (possibly nested) into a
// *ValidationError with dotted field paths, sorted for stable output.
func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: []FieldError{{Field: "request", Message: err.Error()}}}
	}
	fields := flattenErrors("", verrs)
	if len(fields) == 0 {
		return nil
	}
	sort.Slice(fields, func(i, j int) bool { return fields[i].Field < fields[j].Field })
	return &ValidationError{Fields: fields}
}

func flattenErrors(prefix string, errs validation.Errors) []FieldError {
	var out []FieldError
	for name, err := range errs {
		if err == nil {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		var nested validation.Errors
		if errors.As(err, &nested) {
			out = append(out, flattenErrors(path, nested)...)
			continue
		}
		out = append(out, FieldError{Field: path, Message: err.Error()})
	}
	return out
}
