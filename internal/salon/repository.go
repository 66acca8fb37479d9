package salon

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	Get(ctx context.Context) (*Info, error)
	Upsert(ctx context.Context, info *Info) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

// The table holds a single row keyed by id = 1.
const settingsRowID = 1

func (r *pgxRepository) Get(ctx context.Context) (*Info, error) {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Select(
		"name", "description", "business_hours_start", "business_hours_end", "interior_image_url", "updated_at",
	).
		From("public.salon_settings").
		Where(squirrel.Eq{"id": settingsRowID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get salon settings query failed: %w", err)
	}

	var info Info
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&info.Name, &info.Description, &info.BusinessHoursStart, &info.BusinessHoursEnd,
		&info.InteriorImageURL, &info.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNoSettings
		}
		return nil, fmt.Errorf("get salon settings failed: %w", err)
	}
	return &info, nil
}

func (r *pgxRepository) Upsert(ctx context.Context, info *Info) error {
	psql := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
	query, args, err := psql.Insert("public.salon_settings").
		Columns("id", "name", "description", "business_hours_start", "business_hours_end", "interior_image_url").
		Values(settingsRowID, info.Name, info.Description, info.BusinessHoursStart, info.BusinessHoursEnd, info.InteriorImageURL).
		Suffix(`ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			business_hours_start = EXCLUDED.business_hours_start,
			business_hours_end = EXCLUDED.business_hours_end,
			interior_image_url = EXCLUDED.interior_image_url,
			updated_at = now()
		RETURNING updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert salon settings query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&info.UpdatedAt); err != nil {
		return fmt.Errorf("upsert salon settings failed: %w", err)
	}
	return nil
}
