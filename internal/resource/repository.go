package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nekogravitycat/reservation-backend/internal/scheduling"
)

type Repository interface {
	Create(ctx context.Context, res *Resource) error
	GetByID(ctx context.Context, id string) (*Resource, error)
	List(ctx context.Context, filter Filter) ([]*Resource, int, error)
	Update(ctx context.Context, res *Resource) error
	Delete(ctx context.Context, id string) error
}

type pgxRepository struct {
	pool *pgxpool.Pool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool}
}

var resourceColumns = []string{
	"id", "name", "type", "description", "availability_schedule", "profile",
	"photos", "tags", "menu_services", "created_at", "updated_at",
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// encodeJSON marshals the jsonb columns of a resource.
func encodeJSON(res *Resource) (schedule, menu []byte, err error) {
	schedule, err = json.Marshal(res.AvailabilitySchedule)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal availability schedule failed: %w", err)
	}
	services := res.MenuServices
	if services == nil {
		services = []MenuService{}
	}
	menu, err = json.Marshal(services)
	if err != nil {
		return nil, nil, fmt.Errorf("marshal menu services failed: %w", err)
	}
	return schedule, menu, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanResource(row pgx.Row, extra ...any) (*Resource, error) {
	var (
		res      Resource
		schedule []byte
		menu     []byte
	)
	dest := append([]any{
		&res.ID, &res.Name, &res.Type, &res.Description, &schedule, &res.Profile,
		&res.Photos, &res.Tags, &menu, &res.CreatedAt, &res.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var raw map[string][]int
	if len(schedule) > 0 {
		if err := json.Unmarshal(schedule, &raw); err != nil {
			return nil, fmt.Errorf("decode availability schedule of %s failed: %w", res.ID, err)
		}
	}
	parsed, err := scheduling.ParseWeeklySchedule(raw)
	if err != nil {
		return nil, fmt.Errorf("stored availability schedule of %s is invalid: %w", res.ID, err)
	}
	res.AvailabilitySchedule = parsed

	if len(menu) > 0 {
		if err := json.Unmarshal(menu, &res.MenuServices); err != nil {
			return nil, fmt.Errorf("decode menu services of %s failed: %w", res.ID, err)
		}
	}
	return &res, nil
}

func (r *pgxRepository) Create(ctx context.Context, res *Resource) error {
	schedule, menu, err := encodeJSON(res)
	if err != nil {
		return err
	}

	query, args, err := psql().Insert("public.resources").
		Columns("name", "type", "description", "availability_schedule", "profile", "photos", "tags", "menu_services").
		Values(res.Name, res.Type, res.Description, schedule, res.Profile, nonNil(res.Photos), nonNil(res.Tags), menu).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build create resource query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return fmt.Errorf("create resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Resource, error) {
	query, args, err := psql().Select(resourceColumns...).
		From("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get resource query failed: %w", err)
	}

	res, err := scanResource(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get resource failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Resource, int, error) {
	query := psql().Select(append(resourceColumns, "count(*) OVER() AS total_count")...).
		From("public.resources")

	if filter.Type != "" {
		query = query.Where(squirrel.Eq{"type": filter.Type})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		OrderBy("created_at ASC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list resources query failed: %w", err)
	}

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list resources failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Resource
		total  int
	)
	for rows.Next() {
		res, err := scanResource(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan resource failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate resources failed: %w", err)
	}

	return result, total, nil
}

func (r *pgxRepository) Update(ctx context.Context, res *Resource) error {
	schedule, menu, err := encodeJSON(res)
	if err != nil {
		return err
	}

	query, args, err := psql().Update("public.resources").
		Set("name", res.Name).
		Set("type", res.Type).
		Set("description", res.Description).
		Set("availability_schedule", schedule).
		Set("profile", res.Profile).
		Set("photos", nonNil(res.Photos)).
		Set("tags", nonNil(res.Tags)).
		Set("menu_services", menu).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update resource query failed: %w", err)
	}

	if err := r.pool.QueryRow(ctx, query, args...).Scan(&res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("update resource failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql().Delete("public.resources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete resource query failed: %w", err)
	}

	ct, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete resource failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
