package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/webpress/sitepub/pkg/sitepub"
)

// DBTX is an interface that allows us to use either a connection pool or a
// transaction. Begin is needed because section activation runs inside its
// own transaction.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
}

// Repository implements sitepub.Repository using PostgreSQL. Uniqueness
// (section kind+version, blog slug) is enforced by unique constraints, the
// view counter is bumped with a single UPDATE, and activation is
// transactional, so the engine's storage-level guarantees hold under
// concurrent callers.
type Repository struct {
	db DBTX
}

// New creates a new PostgreSQL repository
func New(db DBTX) *Repository {
	return &Repository{db: db}
}

// NewWithPool creates a new PostgreSQL repository with a connection pool
func NewWithPool(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool}
}

// mapError translates pgx/pgconn failures into the engine's error taxonomy.
// notFound is the sentinel to use for pgx.ErrNoRows.
func mapError(op string, err error, notFound error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505": // unique_violation
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return sitepub.ErrDuplicateSlug
			}
			if strings.Contains(pgErr.ConstraintName, "version") {
				return sitepub.ErrDuplicateVersion
			}
			return fmt.Errorf("duplicate entry in %s: %w", op, err)
		case "23514": // check_violation
			return &sitepub.ValidationError{Fields: []sitepub.FieldError{{
				Field:   "request",
				Message: fmt.Sprintf("violates constraint %s", pgErr.ConstraintName),
			}}}
		case "57014", "57P01", "53300", "08006", "08003": // timeouts, shutdown, connection loss
			return fmt.Errorf("%w: %v", sitepub.ErrUnavailable, err)
		}
		return fmt.Errorf("database error in %s: %s (code: %s)", op, pgErr.Message, pgErr.Code)
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return notFound
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", sitepub.ErrUnavailable, err)
	}

	return fmt.Errorf("database error in %s: %w", op, err)
}

// Section operations

func sectionPayload(section *sitepub.Section) (interface{}, error) {
	switch section.Kind {
	case sitepub.SectionKindHero:
		return json.Marshal(section.Hero)
	case sitepub.SectionKindFeature:
		return json.Marshal(section.Feature)
	}
	return nil, sitepub.ErrInvalidKind
}

func scanSection(row pgx.Row) (*sitepub.Section, error) {
	var section sitepub.Section
	var payload []byte
	err := row.Scan(&section.ID, &section.Kind, &section.Version, &section.IsActive,
		&payload, &section.CreatedAt, &section.UpdatedAt)
	if err != nil {
		return nil, err
	}

	switch section.Kind {
	case sitepub.SectionKindHero:
		section.Hero = &sitepub.HeroPayload{}
		err = json.Unmarshal(payload, section.Hero)
	case sitepub.SectionKindFeature:
		section.Feature = &sitepub.FeaturePayload{}
		err = json.Unmarshal(payload, section.Feature)
	}
	if err != nil {
		return nil, fmt.Errorf("decode section payload: %w", err)
	}

	return &section, nil
}

const sectionColumns = `id, kind, version, is_active, payload, created_at, updated_at`

func (r *Repository) CreateSection(ctx context.Context, section *sitepub.Section) error {
	payload, err := sectionPayload(section)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO section (id, kind, version, is_active, payload, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err = r.db.Exec(ctx, query,
		section.ID, section.Kind, section.Version, section.IsActive,
		payload, section.CreatedAt, section.UpdatedAt)
	if err != nil {
		return mapError("create section", err, sitepub.ErrSectionNotFound)
	}

	return nil
}

func (r *Repository) GetSection(ctx context.Context, id uuid.UUID) (*sitepub.Section, error) {
	query := `SELECT ` + sectionColumns + ` FROM section WHERE id = $1`

	section, err := scanSection(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get section", err, sitepub.ErrSectionNotFound)
	}
	return section, nil
}

func (r *Repository) GetActiveSections(ctx context.Context, kind sitepub.SectionKind) ([]*sitepub.Section, error) {
	query := `
		SELECT ` + sectionColumns + `
		FROM section
		WHERE kind = $1 AND is_active
		ORDER BY updated_at DESC`

	return r.querySections(ctx, "get active sections", query, kind)
}

func (r *Repository) ListSections(ctx context.Context, kind sitepub.SectionKind) ([]*sitepub.Section, error) {
	// Numeric ordering on the parsed version parts; the version column is
	// constrained to the major.minor.patch shape on write.
	query := `
		SELECT ` + sectionColumns + `
		FROM section
		WHERE kind = $1
		ORDER BY string_to_array(version, '.')::int[] DESC`

	return r.querySections(ctx, "list sections", query, kind)
}

func (r *Repository) querySections(ctx context.Context, op, query string, args ...interface{}) ([]*sitepub.Section, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError(op, err, sitepub.ErrSectionNotFound)
	}
	defer rows.Close()

	sections := []*sitepub.Section{}
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, mapError(op, err, sitepub.ErrSectionNotFound)
		}
		sections = append(sections, section)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(op, err, sitepub.ErrSectionNotFound)
	}

	return sections, nil
}

func (r *Repository) UpdateSection(ctx context.Context, section *sitepub.Section) error {
	payload, err := sectionPayload(section)
	if err != nil {
		return err
	}

	// Payload-only update; kind, version and is_active stay as stored.
	query := `UPDATE section SET payload = $2, updated_at = $3 WHERE id = $1`

	tag, err := r.db.Exec(ctx, query, section.ID, payload, section.UpdatedAt)
	if err != nil {
		return mapError("update section", err, sitepub.ErrSectionNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrSectionNotFound
	}

	return nil
}

func (r *Repository) ActivateSection(ctx context.Context, kind sitepub.SectionKind, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return mapError("activate section", err, sitepub.ErrSectionNotFound)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE section SET is_active = FALSE, updated_at = now() WHERE kind = $1 AND is_active`,
		kind)
	if err != nil {
		return mapError("deactivate sections", err, sitepub.ErrSectionNotFound)
	}

	tag, err := tx.Exec(ctx,
		`UPDATE section SET is_active = TRUE, updated_at = now() WHERE id = $1 AND kind = $2`,
		id, kind)
	if err != nil {
		return mapError("activate section", err, sitepub.ErrSectionNotFound)
	}
	if tag.RowsAffected() == 0 {
		// Rollback restores the previously active section.
		return sitepub.ErrSectionNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return mapError("activate section", err, sitepub.ErrSectionNotFound)
	}
	return nil
}

func (r *Repository) DeleteSection(ctx context.Context, id uuid.UUID) error {
	// The guard rides on the DELETE itself so a concurrent activate cannot
	// slip between check and delete.
	tag, err := r.db.Exec(ctx, `DELETE FROM section WHERE id = $1 AND NOT is_active`, id)
	if err != nil {
		return mapError("delete section", err, sitepub.ErrSectionNotFound)
	}
	if tag.RowsAffected() > 0 {
		return nil
	}

	var active bool
	err = r.db.QueryRow(ctx, `SELECT is_active FROM section WHERE id = $1`, id).Scan(&active)
	if err != nil {
		return mapError("delete section", err, sitepub.ErrSectionNotFound)
	}
	if active {
		return sitepub.ErrSectionActive
	}
	return sitepub.ErrSectionNotFound
}

// Blog operations

const blogColumns = `id, slug, title, excerpt, content, content_type, featured_image,
	images, author, categories, tags, status, published_at, view_count, seo,
	created_at, updated_at`

func scanBlog(row pgx.Row) (*sitepub.Blog, error) {
	var blog sitepub.Blog
	var featuredImage, images, author, seo []byte

	err := row.Scan(&blog.ID, &blog.Slug, &blog.Title, &blog.Excerpt, &blog.Content,
		&blog.ContentType, &featuredImage, &images, &author, &blog.Categories,
		&blog.Tags, &blog.Status, &blog.PublishedAt, &blog.ViewCount, &seo,
		&blog.CreatedAt, &blog.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if featuredImage != nil {
		blog.FeaturedImage = &sitepub.BlogImage{}
		if err := json.Unmarshal(featuredImage, blog.FeaturedImage); err != nil {
			return nil, fmt.Errorf("decode featured image: %w", err)
		}
	}
	if images != nil {
		if err := json.Unmarshal(images, &blog.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
		}
	}
	if err := json.Unmarshal(author, &blog.Author); err != nil {
		return nil, fmt.Errorf("decode author: %w", err)
	}
	if seo != nil {
		blog.SEO = &sitepub.BlogSEO{}
		if err := json.Unmarshal(seo, blog.SEO); err != nil {
			return nil, fmt.Errorf("decode seo: %w", err)
		}
	}

	return &blog, nil
}

func blogJSONFields(blog *sitepub.Blog) (featuredImage, images, author, seo []byte, err error) {
	if blog.FeaturedImage != nil {
		if featuredImage, err = json.Marshal(blog.FeaturedImage); err != nil {
			return
		}
	}
	if images, err = json.Marshal(blog.Images); err != nil {
		return
	}
	if author, err = json.Marshal(blog.Author); err != nil {
		return
	}
	if blog.SEO != nil {
		seo, err = json.Marshal(blog.SEO)
	}
	return
}

func (r *Repository) CreateBlog(ctx context.Context, blog *sitepub.Blog) error {
	featuredImage, images, author, seo, err := blogJSONFields(blog)
	if err != nil {
		return fmt.Errorf("encode blog fields: %w", err)
	}

	query := `
		INSERT INTO blog (id, slug, title, excerpt, content, content_type,
			featured_image, images, author, categories, tags, status,
			published_at, view_count, seo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`

	_, err = r.db.Exec(ctx, query,
		blog.ID, blog.Slug, blog.Title, blog.Excerpt, blog.Content, blog.ContentType,
		featuredImage, images, author, blog.Categories, blog.Tags, blog.Status,
		blog.PublishedAt, blog.ViewCount, seo, blog.CreatedAt, blog.UpdatedAt)
	if err != nil {
		return mapError("create blog", err, sitepub.ErrBlogNotFound)
	}

	return nil
}

func (r *Repository) GetBlog(ctx context.Context, id uuid.UUID) (*sitepub.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blog WHERE id = $1`

	blog, err := scanBlog(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get blog", err, sitepub.ErrBlogNotFound)
	}
	return blog, nil
}

func (r *Repository) GetBlogBySlug(ctx context.Context, slug string) (*sitepub.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blog WHERE slug = $1`

	blog, err := scanBlog(r.db.QueryRow(ctx, query, slug))
	if err != nil {
		return nil, mapError("get blog by slug", err, sitepub.ErrBlogNotFound)
	}
	return blog, nil
}

func (r *Repository) UpdateBlog(ctx context.Context, blog *sitepub.Blog) error {
	featuredImage, images, author, seo, err := blogJSONFields(blog)
	if err != nil {
		return fmt.Errorf("encode blog fields: %w", err)
	}

	// view_count is deliberately absent: it is owned by IncrementBlogViews.
	query := `
		UPDATE blog SET
			slug = $2, title = $3, excerpt = $4, content = $5, content_type = $6,
			featured_image = $7, images = $8, author = $9, categories = $10,
			tags = $11, status = $12, published_at = $13, seo = $14, updated_at = $15
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		blog.ID, blog.Slug, blog.Title, blog.Excerpt, blog.Content, blog.ContentType,
		featuredImage, images, author, blog.Categories, blog.Tags, blog.Status,
		blog.PublishedAt, seo, blog.UpdatedAt)
	if err != nil {
		return mapError("update blog", err, sitepub.ErrBlogNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrBlogNotFound
	}

	return nil
}

func (r *Repository) DeleteBlog(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM blog WHERE id = $1`, id)
	if err != nil {
		return mapError("delete blog", err, sitepub.ErrBlogNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrBlogNotFound
	}
	return nil
}

func (r *Repository) IncrementBlogViews(ctx context.Context, id uuid.UUID) error {
	// Single atomic read-modify-write; concurrent increments never lose
	// updates.
	tag, err := r.db.Exec(ctx,
		`UPDATE blog SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return mapError("increment blog views", err, sitepub.ErrBlogNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrBlogNotFound
	}
	return nil
}

// blogSortColumns is the whitelist for ListBlogs sorting.
var blogSortColumns = map[string]string{
	"created_at":   "created_at",
	"updated_at":   "updated_at",
	"published_at": "published_at",
	"title":        "title",
	"view_count":   "view_count",
}

func (r *Repository) ListBlogs(ctx context.Context, filters sitepub.BlogListFilters) (*sitepub.BlogList, error) {
	where := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case filters.Status != nil:
		where = append(where, "status = "+arg(*filters.Status))
	case !filters.AllStatuses:
		where = append(where, "status = "+arg(sitepub.BlogStatusPublished))
	}
	if filters.Category != "" {
		where = append(where, arg(filters.Category)+" = ANY(categories)")
	}
	if filters.Tag != "" {
		where = append(where, arg(filters.Tag)+" = ANY(tags)")
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		p := arg(pattern)
		where = append(where, "(title ILIKE "+p+" OR content ILIKE "+p+")")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM blog` + whereClause
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, mapError("count blogs", err, sitepub.ErrBlogNotFound)
	}

	sortColumn, ok := blogSortColumns[filters.SortBy]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if filters.SortOrder == sitepub.SortAsc {
		direction = "ASC"
	}

	page := filters.Page
	if page < 1 {
		page = 1
	}
	limit := filters.Limit
	if limit < 1 {
		limit = 10
	}

	query := `SELECT ` + blogColumns + ` FROM blog` + whereClause +
		fmt.Sprintf(" ORDER BY %s %s NULLS LAST LIMIT %s OFFSET %s",
			sortColumn, direction, arg(limit), arg((page-1)*limit))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list blogs", err, sitepub.ErrBlogNotFound)
	}
	defer rows.Close()

	blogs := []*sitepub.Blog{}
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, mapError("scan blog", err, sitepub.ErrBlogNotFound)
		}
		blogs = append(blogs, blog)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate blog rows", err, sitepub.ErrBlogNotFound)
	}

	return &sitepub.BlogList{
		Blogs:      blogs,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
	}, nil
}

// Testimonial operations

const testimonialColumns = `id, name, role, company, quote, image, rating, industry,
	company_size, active, featured, display_order, tags, created_at, updated_at`

func scanTestimonial(row pgx.Row) (*sitepub.Testimonial, error) {
	var t sitepub.Testimonial
	err := row.Scan(&t.ID, &t.Name, &t.Role, &t.Company, &t.Quote, &t.Image,
		&t.Rating, &t.Industry, &t.CompanySize, &t.Active, &t.Featured,
		&t.DisplayOrder, &t.Tags, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *Repository) CreateTestimonial(ctx context.Context, t *sitepub.Testimonial) error {
	query := `
		INSERT INTO testimonial (id, name, role, company, quote, image, rating,
			industry, company_size, active, featured, display_order, tags,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.db.Exec(ctx, query,
		t.ID, t.Name, t.Role, t.Company, t.Quote, t.Image, t.Rating,
		t.Industry, t.CompanySize, t.Active, t.Featured, t.DisplayOrder, t.Tags,
		t.CreatedAt, t.UpdatedAt)
	if err != nil {
		return mapError("create testimonial", err, sitepub.ErrTestimonialNotFound)
	}
	return nil
}

func (r *Repository) GetTestimonial(ctx context.Context, id uuid.UUID) (*sitepub.Testimonial, error) {
	query := `SELECT ` + testimonialColumns + ` FROM testimonial WHERE id = $1`

	t, err := scanTestimonial(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, mapError("get testimonial", err, sitepub.ErrTestimonialNotFound)
	}
	return t, nil
}

func (r *Repository) UpdateTestimonial(ctx context.Context, t *sitepub.Testimonial) error {
	query := `
		UPDATE testimonial SET
			name = $2, role = $3, company = $4, quote = $5, image = $6,
			rating = $7, industry = $8, company_size = $9, active = $10,
			featured = $11, display_order = $12, tags = $13, updated_at = $14
		WHERE id = $1`

	tag, err := r.db.Exec(ctx, query,
		t.ID, t.Name, t.Role, t.Company, t.Quote, t.Image, t.Rating,
		t.Industry, t.CompanySize, t.Active, t.Featured, t.DisplayOrder, t.Tags,
		t.UpdatedAt)
	if err != nil {
		return mapError("update testimonial", err, sitepub.ErrTestimonialNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrTestimonialNotFound
	}
	return nil
}

func (r *Repository) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM testimonial WHERE id = $1`, id)
	if err != nil {
		return mapError("delete testimonial", err, sitepub.ErrTestimonialNotFound)
	}
	if tag.RowsAffected() == 0 {
		return sitepub.ErrTestimonialNotFound
	}
	return nil
}

func (r *Repository) ListTestimonials(ctx context.Context, filters sitepub.TestimonialListFilters) ([]*sitepub.Testimonial, error) {
	where := []string{}
	args := []interface{}{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filters.Active != nil {
		where = append(where, "active = "+arg(*filters.Active))
	}
	if filters.Featured != nil {
		where = append(where, "featured = "+arg(*filters.Featured))
	}
	if filters.Industry != "" {
		where = append(where, "industry = "+arg(filters.Industry))
	}

	query := `SELECT ` + testimonialColumns + ` FROM testimonial`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY display_order ASC, created_at ASC"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, mapError("list testimonials", err, sitepub.ErrTestimonialNotFound)
	}
	defer rows.Close()

	testimonials := []*sitepub.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, mapError("scan testimonial", err, sitepub.ErrTestimonialNotFound)
		}
		testimonials = append(testimonials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("iterate testimonial rows", err, sitepub.ErrTestimonialNotFound)
	}

	return testimonials, nil
}

// Aggregation queries

func (r *Repository) BlogStats(ctx context.Context, topCategories int) (*sitepub.BlogStats, error) {
	stats := &sitepub.BlogStats{
		ByStatus:      make(map[string]int64),
		TopCategories: []sitepub.CategoryCount{},
	}

	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*), COALESCE(SUM(view_count), 0) FROM blog`).
		Scan(&stats.TotalCount, &stats.TotalViews)
	if err != nil {
		return nil, mapError("blog stats totals", err, sitepub.ErrBlogNotFound)
	}

	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM blog GROUP BY status`)
	if err != nil {
		return nil, mapError("blog stats by status", err, sitepub.ErrBlogNotFound)
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, mapError("blog stats by status", err, sitepub.ErrBlogNotFound)
		}
		stats.ByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("blog stats by status", err, sitepub.ErrBlogNotFound)
	}

	catRows, err := r.db.Query(ctx, `
		SELECT category, COUNT(*) AS cnt
		FROM blog, unnest(categories) AS category
		GROUP BY category
		ORDER BY cnt DESC, category ASC
		LIMIT $1`, topCategories)
	if err != nil {
		return nil, mapError("blog stats categories", err, sitepub.ErrBlogNotFound)
	}
	defer catRows.Close()
	for catRows.Next() {
		var cc sitepub.CategoryCount
		if err := catRows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, mapError("blog stats categories", err, sitepub.ErrBlogNotFound)
		}
		stats.TopCategories = append(stats.TopCategories, cc)
	}
	if err := catRows.Err(); err != nil {
		return nil, mapError("blog stats categories", err, sitepub.ErrBlogNotFound)
	}

	return stats, nil
}

func (r *Repository) TestimonialStats(ctx context.Context) (*sitepub.TestimonialStats, error) {
	stats := &sitepub.TestimonialStats{
		ByIndustry: make(map[string]sitepub.IndustryStats),
	}

	err := r.db.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE active),
		       COUNT(*) FILTER (WHERE featured),
		       COALESCE(AVG(rating), 0)
		FROM testimonial`).
		Scan(&stats.TotalCount, &stats.ActiveCount, &stats.FeaturedCount, &stats.AverageRating)
	if err != nil {
		return nil, mapError("testimonial stats totals", err, sitepub.ErrTestimonialNotFound)
	}

	rows, err := r.db.Query(ctx,
		`SELECT industry, COUNT(*), AVG(rating) FROM testimonial GROUP BY industry`)
	if err != nil {
		return nil, mapError("testimonial stats by industry", err, sitepub.ErrTestimonialNotFound)
	}
	defer rows.Close()
	for rows.Next() {
		var industry string
		var entry sitepub.IndustryStats
		if err := rows.Scan(&industry, &entry.Count, &entry.AverageRating); err != nil {
			return nil, mapError("testimonial stats by industry", err, sitepub.ErrTestimonialNotFound)
		}
		stats.ByIndustry[industry] = entry
	}
	if err := rows.Err(); err != nil {
		return nil, mapError("testimonial stats by industry", err, sitepub.ErrTestimonialNotFound)
	}

	return stats, nil
}

func (r *Repository) FeatureStats(ctx context.Context) (*sitepub.FeatureStats, error) {
	stats := &sitepub.FeatureStats{}

	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(jsonb_array_length(COALESCE(payload->'features', '[]'::jsonb))), 0),
		       COUNT(*) FILTER (WHERE is_active)
		FROM section
		WHERE kind = $1`, sitepub.SectionKindFeature).
		Scan(&stats.TotalFeatures, &stats.ActiveSections)
	if err != nil {
		return nil, mapError("feature stats", err, sitepub.ErrSectionNotFound)
	}

	return stats, nil
}
