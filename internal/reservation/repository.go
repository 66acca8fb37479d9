package reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*Reservation, error)
	List(ctx context.Context, filter Filter) ([]*Reservation, int, error)
	ListByResource(ctx context.Context, resourceID string) ([]*Reservation, error)

	// ListByResourceAndDate returns the reservations whose start time falls on
	// the calendar day beginning at day (midnight in the business location).
	ListByResourceAndDate(ctx context.Context, resourceID string, day time.Time) ([]*Reservation, error)

	// ListActiveOverlapping is a prefilter for conflict detection: non-cancelled
	// reservations of the resource with start < end AND end > start.
	ListActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error)

	Insert(ctx context.Context, r *Reservation) error
	UpdateFields(ctx context.Context, r *Reservation) error
	Delete(ctx context.Context, id string) error

	// WithResourceLock runs fn while holding an exclusive lock on resourceID.
	// The Repository passed to fn shares the lock's transaction.
	WithResourceLock(ctx context.Context, resourceID string, fn func(Repository) error) error
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgxRepository struct {
	pool *pgxpool.Pool
	q    querier
	inTx bool
}

func NewPgxRepository(pool *pgxpool.Pool) Repository {
	return &pgxRepository{pool: pool, q: pool}
}

var reservationColumns = []string{
	"id", "resource_id", "customer_name", "customer_email", "customer_phone",
	"start_time", "end_time", "status", "created_at", "updated_at",
}

func psql() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

func scanReservation(row pgx.Row, extra ...any) (*Reservation, error) {
	var r Reservation
	dest := append([]any{
		&r.ID, &r.ResourceID, &r.CustomerName, &r.CustomerEmail, &r.CustomerPhone,
		&r.StartTime, &r.EndTime, &r.Status, &r.CreatedAt, &r.UpdatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &r, nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgerrcode.ExclusionViolation:
			return ErrConflict
		case pgerrcode.ForeignKeyViolation:
			return ErrResourceNotFound
		}
	}
	return err
}

func (r *pgxRepository) GetByID(ctx context.Context, id string) (*Reservation, error) {
	query, args, err := psql().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build get reservation query failed: %w", err)
	}

	res, err := scanReservation(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get reservation failed: %w", err)
	}
	return res, nil
}

func (r *pgxRepository) List(ctx context.Context, filter Filter) ([]*Reservation, int, error) {
	query := psql().Select(append(reservationColumns, "count(*) OVER() AS total_count")...).
		From("public.reservations")

	if filter.ResourceID != "" {
		query = query.Where(squirrel.Eq{"resource_id": filter.ResourceID})
	}
	if filter.CustomerEmail != "" {
		query = query.Where(squirrel.Eq{"customer_email": filter.CustomerEmail})
	}
	if filter.Status != "" {
		query = query.Where(squirrel.Eq{"status": filter.Status})
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	offset := (filter.Page - 1) * filter.PageSize

	sql, args, err := query.
		OrderBy("start_time DESC", "id ASC").
		Limit(uint64(filter.PageSize)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build list reservations query failed: %w", err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reservations failed: %w", err)
	}
	defer rows.Close()

	var (
		result []*Reservation
		total  int
	)
	for rows.Next() {
		res, err := scanReservation(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate reservations failed: %w", err)
	}
	return result, total, nil
}

func (r *pgxRepository) selectMany(ctx context.Context, query squirrel.SelectBuilder, what string) ([]*Reservation, error) {
	sql, args, err := query.OrderBy("start_time ASC").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build %s query failed: %w", what, err)
	}

	rows, err := r.q.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", what, err)
	}
	defer rows.Close()

	var result []*Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reservation failed: %w", err)
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s failed: %w", what, err)
	}
	return result, nil
}

func (r *pgxRepository) ListByResource(ctx context.Context, resourceID string) ([]*Reservation, error) {
	query := psql().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"resource_id": resourceID})
	return r.selectMany(ctx, query, "list reservations by resource")
}

func (r *pgxRepository) ListByResourceAndDate(ctx context.Context, resourceID string, day time.Time) ([]*Reservation, error) {
	query := psql().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.GtOrEq{"start_time": day}).
		Where(squirrel.Lt{"start_time": day.AddDate(0, 0, 1)})
	return r.selectMany(ctx, query, "list reservations by date")
}

func (r *pgxRepository) ListActiveOverlapping(ctx context.Context, resourceID string, start, end time.Time) ([]*Reservation, error) {
	query := psql().Select(reservationColumns...).
		From("public.reservations").
		Where(squirrel.Eq{"resource_id": resourceID}).
		Where(squirrel.NotEq{"status": StatusCancelled}).
		Where(squirrel.Lt{"start_time": end}).
		Where(squirrel.Gt{"end_time": start})
	return r.selectMany(ctx, query, "list overlapping reservations")
}

func (r *pgxRepository) Insert(ctx context.Context, res *Reservation) error {
	query, args, err := psql().Insert("public.reservations").
		Columns("resource_id", "customer_name", "customer_email", "customer_phone", "start_time", "end_time", "status").
		Values(res.ResourceID, res.CustomerName, res.CustomerEmail, res.CustomerPhone, res.StartTime, res.EndTime, res.Status).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert reservation query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&res.ID, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("insert reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) UpdateFields(ctx context.Context, res *Reservation) error {
	query, args, err := psql().Update("public.reservations").
		Set("resource_id", res.ResourceID).
		Set("customer_name", res.CustomerName).
		Set("customer_email", res.CustomerEmail).
		Set("customer_phone", res.CustomerPhone).
		Set("start_time", res.StartTime).
		Set("end_time", res.EndTime).
		Set("status", res.Status).
		Set("updated_at", squirrel.Expr("now()")).
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return fmt.Errorf("build update reservation query failed: %w", err)
	}

	if err := r.q.QueryRow(ctx, query, args...).Scan(&res.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("update reservation failed: %w", err)
	}
	return nil
}

func (r *pgxRepository) Delete(ctx context.Context, id string) error {
	query, args, err := psql().Delete("public.reservations").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete reservation query failed: %w", err)
	}

	ct, err := r.q.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("delete reservation failed: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

const advisoryLockSQL = "SELECT pg_advisory_xact_lock(hashtextextended($1, 0))"

func (r *pgxRepository) WithResourceLock(ctx context.Context, resourceID string, fn func(Repository) error) error {
	if r.inTx {
		if _, err := r.q.Exec(ctx, advisoryLockSQL, resourceID); err != nil {
			return fmt.Errorf("lock resource %s failed: %w", resourceID, err)
		}
		return fn(r)
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin reservation tx failed: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, advisoryLockSQL, resourceID); err != nil {
		return fmt.Errorf("lock resource %s failed: %w", resourceID, err)
	}

	if err := fn(&pgxRepository{pool: r.pool, q: tx, inTx: true}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("commit reservation tx failed: %w", err)
	}
	return nil
}
