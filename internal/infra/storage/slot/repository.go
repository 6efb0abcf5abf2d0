package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/psqlbuilder"
)

const uniqueViolation = "23505"

var slotColumns = []string{
	"id",
	"show_date",
	"start_time",
	"capacity",
	"booked_count",
	"is_manually_closed",
	"show_type",
	"package_ids",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы со слотами спектаклей
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория слотов
// loc - временная зона площадки, в ней интерпретируются дата и время начала показа
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create создает новый слот
func (r *Repository) Create(ctx context.Context, slot *domain.ShowSlot) (*domain.ShowSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("show_slots").
		Columns(
			"show_date",
			"start_time",
			"capacity",
			"booked_count",
			"is_manually_closed",
			"show_type",
			"package_ids",
		).
		Values(
			slot.Date.Format(domain.DateFormat),
			slot.StartTime,
			slot.Capacity,
			slot.BookedCount,
			slot.IsManuallyClosed,
			slot.ShowType,
			pq.Array(slot.PackageIDs),
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&slot.ID, &createdAt, &updatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: %s %s", ErrSlotExists, slot.Date.Format(domain.DateFormat), slot.StartTime)
		}
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE) до её завершения
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.ShowSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("show_slots").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %w", ErrScanRow, err)
	}

	return slot, nil
}

// ListByPeriod получает слоты за период [From, To] включительно, отсортированные по дате и времени
func (r *Repository) ListByPeriod(ctx context.Context, filter domain.SlotsFilter) ([]domain.ShowSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("show_slots").
		Where(squirrel.GtOrEq{"show_date": filter.From.Format(domain.DateFormat)}).
		Where(squirrel.LtOrEq{"show_date": filter.To.Format(domain.DateFormat)}).
		OrderBy("show_date ASC, start_time ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPeriod - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByPeriod - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	slots := make([]domain.ShowSlot, 0)
	for rows.Next() {
		slot, err := r.scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByPeriod - scan slot: %w", ErrScanRow, err)
		}
		slots = append(slots, *slot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByPeriod - iterate rows: %w", ErrScanRow, err)
	}

	return slots, nil
}

// SetManuallyClosed открывает или закрывает слот для бронирования
func (r *Repository) SetManuallyClosed(ctx context.Context, id int64, closed bool) (*domain.ShowSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("show_slots").
		Set("is_manually_closed", closed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(slotColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: SetManuallyClosed - build update query: %v", ErrBuildQuery, err)
	}

	slot, err := r.scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: SetManuallyClosed - execute update: %w", ErrExecQuery, err)
	}

	return slot, nil
}

// Delete удаляет слот
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("show_slots").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %w", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %w", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

// Acquire занимает seats мест, только если после этого booked_count <= capacity
// Условие проверяется в самом UPDATE, поэтому два параллельных бронирования не превысят вместимость.
// Если мест не хватает, возвращает domain.ErrCapacityConflict.
func (r *Repository) Acquire(ctx context.Context, id int64, seats int) (int, error) {
	if seats <= 0 {
		return 0, fmt.Errorf("%w: seats must be positive, got %d", domain.ErrInvalidInput, seats)
	}

	query, args, err := psqlbuilder.Update("show_slots").
		Set("booked_count", squirrel.Expr("booked_count + ?", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Expr("booked_count + ? <= capacity", seats)).
		Suffix("RETURNING booked_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Acquire - build update query: %v", ErrBuildQuery, err)
	}

	booked, err := r.updateBookedCount(ctx, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		// Либо слота нет, либо мест не хватило
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return 0, getErr
		}
		return 0, fmt.Errorf("%w: slot %d has no room for %d seats", domain.ErrCapacityConflict, id, seats)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Acquire - execute update: %w", ErrExecQuery, err)
	}

	return booked, nil
}

// ForceAcquire занимает места без проверки вместимости (административный овербукинг)
func (r *Repository) ForceAcquire(ctx context.Context, id int64, seats int) (int, error) {
	if seats <= 0 {
		return 0, fmt.Errorf("%w: seats must be positive, got %d", domain.ErrInvalidInput, seats)
	}

	query, args, err := psqlbuilder.Update("show_slots").
		Set("booked_count", squirrel.Expr("booked_count + ?", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING booked_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: ForceAcquire - build update query: %v", ErrBuildQuery, err)
	}

	booked, err := r.updateBookedCount(ctx, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSlotNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: ForceAcquire - execute update: %w", ErrExecQuery, err)
	}

	return booked, nil
}

// Release освобождает seats мест; booked_count не опускается ниже нуля
func (r *Repository) Release(ctx context.Context, id int64, seats int) (int, error) {
	if seats <= 0 {
		return 0, fmt.Errorf("%w: seats must be positive, got %d", domain.ErrInvalidInput, seats)
	}

	query, args, err := psqlbuilder.Update("show_slots").
		Set("booked_count", squirrel.Expr("GREATEST(booked_count - ?, 0)", seats)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING booked_count").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	booked, err := r.updateBookedCount(ctx, query, args)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrSlotNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("%w: Release - execute update: %w", ErrExecQuery, err)
	}

	return booked, nil
}

func (r *Repository) updateBookedCount(ctx context.Context, query string, args []interface{}) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	var booked int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&booked); err != nil {
		return 0, err
	}
	return booked, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanSlot(row rowScanner) (*domain.ShowSlot, error) {
	var (
		slot                 domain.ShowSlot
		showDate             time.Time
		packageIDs           pq.Int64Array
		createdAt, updatedAt sql.NullTime
	)

	err := row.Scan(
		&slot.ID,
		&showDate,
		&slot.StartTime,
		&slot.Capacity,
		&slot.BookedCount,
		&slot.IsManuallyClosed,
		&slot.ShowType,
		&packageIDs,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	// DATE приходит полуночью UTC, переносим календарный день в зону площадки
	slot.Date = time.Date(showDate.Year(), showDate.Month(), showDate.Day(), 0, 0, 0, 0, r.loc)
	slot.PackageIDs = []int64(packageIDs)
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}
