package reservation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/psqlbuilder"
)

var reservationColumns = []string{
	"id",
	"reference",
	"user_id",
	"show_slot_id",
	"show_date",
	"show_time",
	"guest_count",
	"channel",
	"package_id",
	"package_name",
	"package_price",
	"package_min_persons",
	"add_ons",
	"merchandise",
	"promo_code",
	"discount_amount",
	"subtotal",
	"total",
	"status",
	"is_paid",
	"invoice_number",
	"needs_invoice_review",
	"modification_request",
	"cancelled_at",
	"cancelled_by",
	"cancellation_reason",
	"notes",
	"booked_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db  DBExecutor
	loc *time.Location
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor, loc *time.Location) *Repository {
	if loc == nil {
		loc = time.UTC
	}
	return &Repository{db: db, loc: loc}
}

// Create сохраняет новое бронирование
// Вызывается внутри транзакции вместе с захватом мест слота
func (r *Repository) Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	addOns, merchandise, err := encodeLines(res)
	if err != nil {
		return nil, err
	}

	query, args, err := psqlbuilder.Insert("reservations").
		Columns(
			"reference",
			"user_id",
			"show_slot_id",
			"show_date",
			"show_time",
			"guest_count",
			"channel",
			"package_id",
			"package_name",
			"package_price",
			"package_min_persons",
			"add_ons",
			"merchandise",
			"promo_code",
			"discount_amount",
			"subtotal",
			"total",
			"status",
			"is_paid",
			"invoice_number",
			"needs_invoice_review",
			"modification_request",
			"notes",
		).
		Values(
			res.Reference,
			res.UserID,
			res.ShowSlotID,
			res.ShowDate.Format(domain.DateFormat),
			res.ShowTime,
			res.GuestCount,
			res.Channel,
			res.PackageID,
			res.PackageName,
			res.PackagePrice,
			res.PackageMinPersons,
			addOns,
			merchandise,
			res.PromoCode,
			nullDecimal(res.DiscountAmount),
			res.Subtotal,
			res.Total,
			res.Status,
			res.IsPaid,
			res.InvoiceNumber,
			res.NeedsInvoiceReview,
			res.ModificationRequest,
			res.Notes,
		).
		Suffix("RETURNING id, booked_at, updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.ID, &res.BookedAt, &res.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %w", ErrExecQuery, err)
	}

	return res, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется (FOR UPDATE), чтобы переходы статусов применялись последовательно
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	res, err := r.scanReservation(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan reservation: %w", ErrScanRow, err)
	}

	return res, nil
}

// GetByUserID получает бронирования пользователя, ближайшие показы первыми
// Опционально фильтрует по статусу
func (r *Repository) GetByUserID(ctx context.Context, userID int64, status *domain.ReservationStatus) ([]domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("show_date DESC, show_time DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	return r.query(ctx, "GetByUserID", selectBuilder)
}

// GetBySlot получает бронирования слота
// Без явного статуса и без IncludeInactive отменённые и отклонённые бронирования исключаются
func (r *Repository) GetBySlot(ctx context.Context, filter domain.ReservationsFilter) ([]domain.Reservation, error) {
	selectBuilder := psqlbuilder.Select(reservationColumns...).
		From("reservations").
		Where(squirrel.Eq{"show_slot_id": filter.ShowSlotID}).
		OrderBy("booked_at ASC, id ASC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)})
	}

	return r.query(ctx, "GetBySlot", selectBuilder)
}

// CountActiveBySlot количество активных бронирований слота (для запрета удаления)
func (r *Repository) CountActiveBySlot(ctx context.Context, slotID int64) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("reservations").
		Where(squirrel.Eq{"show_slot_id": slotID}).
		Where(squirrel.NotEq{"status": statusStrings(domain.InactiveStatuses)}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveBySlot - execute query: %w", ErrExecQuery, err)
	}

	return count, nil
}

// Update сохраняет изменяемые поля бронирования (статус, гости, цены, отмена, перенос)
func (r *Repository) Update(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	addOns, merchandise, err := encodeLines(res)
	if err != nil {
		return nil, err
	}

	updateBuilder := psqlbuilder.Update("reservations").
		Set("show_slot_id", res.ShowSlotID).
		Set("show_date", res.ShowDate.Format(domain.DateFormat)).
		Set("show_time", res.ShowTime).
		Set("guest_count", res.GuestCount).
		Set("add_ons", addOns).
		Set("merchandise", merchandise).
		Set("promo_code", res.PromoCode).
		Set("discount_amount", nullDecimal(res.DiscountAmount)).
		Set("subtotal", res.Subtotal).
		Set("total", res.Total).
		Set("status", res.Status).
		Set("is_paid", res.IsPaid).
		Set("invoice_number", res.InvoiceNumber).
		Set("needs_invoice_review", res.NeedsInvoiceReview).
		Set("modification_request", res.ModificationRequest).
		Set("notes", res.Notes).
		Set("updated_at", squirrel.Expr("NOW()"))

	if res.Cancellation != nil {
		updateBuilder = updateBuilder.
			Set("cancelled_at", res.Cancellation.At).
			Set("cancelled_by", res.Cancellation.Actor).
			Set("cancellation_reason", res.Cancellation.Reason)
	}

	query, args, err := updateBuilder.
		Where(squirrel.Eq{"id": res.ID}).
		Suffix("RETURNING updated_at").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	err = executor.QueryRowContext(ctx, query, args...).Scan(&res.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReservationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute update: %w", ErrExecQuery, err)
	}

	return res, nil
}

func (r *Repository) query(ctx context.Context, op string, selectBuilder squirrel.SelectBuilder) ([]domain.Reservation, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %s - build select query: %v", ErrBuildQuery, op, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %s - execute query: %w", ErrExecQuery, op, err)
	}
	defer rows.Close()

	out := make([]domain.Reservation, 0)
	for rows.Next() {
		res, err := r.scanReservation(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: %s - scan reservation: %w", ErrScanRow, op, err)
		}
		out = append(out, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s - iterate rows: %w", ErrScanRow, op, err)
	}

	return out, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *Repository) scanReservation(row rowScanner) (*domain.Reservation, error) {
	var (
		res                domain.Reservation
		showDate           time.Time
		addOns             []byte
		merchandise        []byte
		discount           decimal.NullDecimal
		packageMinPersons  sql.NullInt64
		cancelledAt        sql.NullTime
		cancelledBy        sql.NullString
		cancellationReason sql.NullString
	)

	err := row.Scan(
		&res.ID,
		&res.Reference,
		&res.UserID,
		&res.ShowSlotID,
		&showDate,
		&res.ShowTime,
		&res.GuestCount,
		&res.Channel,
		&res.PackageID,
		&res.PackageName,
		&res.PackagePrice,
		&packageMinPersons,
		&addOns,
		&merchandise,
		&res.PromoCode,
		&discount,
		&res.Subtotal,
		&res.Total,
		&res.Status,
		&res.IsPaid,
		&res.InvoiceNumber,
		&res.NeedsInvoiceReview,
		&res.ModificationRequest,
		&cancelledAt,
		&cancelledBy,
		&cancellationReason,
		&res.Notes,
		&res.BookedAt,
		&res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	res.ShowDate = time.Date(showDate.Year(), showDate.Month(), showDate.Day(), 0, 0, 0, 0, r.loc)

	if packageMinPersons.Valid {
		n := int(packageMinPersons.Int64)
		res.PackageMinPersons = &n
	}
	if discount.Valid {
		d := discount.Decimal
		res.DiscountAmount = &d
	}
	if cancelledAt.Valid {
		res.Cancellation = &domain.CancellationInfo{
			At:     cancelledAt.Time,
			Actor:  cancelledBy.String,
			Reason: cancellationReason.String,
		}
	}

	if err := decodeLines(addOns, merchandise, &res); err != nil {
		return nil, err
	}

	return &res, nil
}

func encodeLines(res *domain.Reservation) ([]byte, []byte, error) {
	addOns := res.AddOns
	if addOns == nil {
		addOns = []domain.SelectedAddOn{}
	}
	merchandise := res.Merchandise
	if merchandise == nil {
		merchandise = []domain.OrderedMerchandiseItem{}
	}

	addOnsJSON, err := json.Marshal(addOns)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: add_ons: %v", ErrEncode, err)
	}
	merchandiseJSON, err := json.Marshal(merchandise)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: merchandise: %v", ErrEncode, err)
	}

	return addOnsJSON, merchandiseJSON, nil
}

func decodeLines(addOns, merchandise []byte, res *domain.Reservation) error {
	res.AddOns = []domain.SelectedAddOn{}
	res.Merchandise = []domain.OrderedMerchandiseItem{}

	if len(addOns) > 0 {
		if err := json.Unmarshal(addOns, &res.AddOns); err != nil {
			return fmt.Errorf("add_ons: %w", err)
		}
	}
	if len(merchandise) > 0 {
		if err := json.Unmarshal(merchandise, &res.Merchandise); err != nil {
			return fmt.Errorf("merchandise: %w", err)
		}
	}
	return nil
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func statusStrings(statuses []domain.ReservationStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
