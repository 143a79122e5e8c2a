package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/domain/complaint"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/internal/infrastructure/monitoring/logging"
	"github.com/AbdulRahmanAzam/CivicLens-sub000/pkg/errors"
)

// CategoryRepository is the PostgreSQL store for category parameters.
type CategoryRepository struct {
	pool   *pgxpool.Pool
	logger logging.Logger
}

// NewCategoryRepository constructs a ready-to-use CategoryRepository.
func NewCategoryRepository(pool *pgxpool.Pool, logger logging.Logger) *CategoryRepository {
	return &CategoryRepository{pool: pool, logger: logger.Named("category_repo")}
}

// GetCategory returns the category by name.
func (r *CategoryRepository) GetCategory(ctx context.Context, name complaint.CategoryName) (*complaint.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `
		SELECT name, sla_hours, base_urgency, keywords
		FROM categories WHERE name = $1`, name))
	if err == pgx.ErrNoRows {
		return nil, errors.New(errors.ErrCodeCategoryUnknown, "category %q is not recognized", name)
	}
	return c, err
}

// ListCategories returns all categories.
func (r *CategoryRepository) ListCategories(ctx context.Context) ([]*complaint.Category, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT name, sla_hours, base_urgency, keywords
		FROM categories ORDER BY name`)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to list categories")
	}
	defer rows.Close()

	var categories []*complaint.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to read categories")
	}
	return categories, nil
}

// UpsertCategory inserts or replaces category parameters.
func (r *CategoryRepository) UpsertCategory(ctx context.Context, c *complaint.Category) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO categories (name, sla_hours, base_urgency, keywords, updated_at)
		VALUES ($1,$2,$3,$4, now())
		ON CONFLICT (name) DO UPDATE SET
			sla_hours = EXCLUDED.sla_hours,
			base_urgency = EXCLUDED.base_urgency,
			keywords = EXCLUDED.keywords,
			updated_at = now()`,
		c.Name, c.SLAHours, c.BaseUrgencyScore, c.Keywords,
	)
	if err != nil {
		r.logger.Error("upsert category failed", logging.String("name", string(c.Name)), logging.Err(err))
		return errors.Wrap(err, errors.CodeDatabaseError, "failed to upsert category %s", c.Name)
	}
	return nil
}

func scanCategory(row pgx.Row) (*complaint.Category, error) {
	var (
		name        string
		slaHours    int
		baseUrgency float64
		keywords    []string
	)
	if err := row.Scan(&name, &slaHours, &baseUrgency, &keywords); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "failed to scan category")
	}
	return complaint.NewCategory(complaint.CategoryName(name), slaHours, baseUrgency, keywords)
}
