package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/psqlbuilder"
)

// Repository справочник пакетов, дополнений и товаров
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория каталога
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// componentRow формат элемента JSON колонки packages.components
type componentRow struct {
	Name       string          `json:"name"`
	Percentage decimal.Decimal `json:"percentage"`
	TaxRate    decimal.Decimal `json:"taxRate"`
}

// GetPackageByID получает пакет с его ценовыми компонентами
func (r *Repository) GetPackageByID(ctx context.Context, id int64) (*domain.PackageOption, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price_per_guest",
		"min_persons",
		"components",
	).
		From("packages").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageByID - build select query: %v", ErrBuildQuery, err)
	}

	var (
		pkg        domain.PackageOption
		minPersons sql.NullInt64
		components []byte
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&pkg.ID,
		&pkg.Name,
		&pkg.PricePerGuest,
		&minPersons,
		&components,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageByID - scan package: %w", ErrScanRow, err)
	}

	pkg.MinPersons = nullInt(minPersons)
	pkg.Components, err = decodeComponents(components)
	if err != nil {
		return nil, fmt.Errorf("%w: GetPackageByID - decode components: %v", ErrScanRow, err)
	}

	return &pkg, nil
}

// GetAddOnsByIDs получает дополнения по списку ID
// Если хотя бы одно не найдено, возвращает ErrAddOnNotFound
func (r *Repository) GetAddOnsByIDs(ctx context.Context, ids []int64) ([]domain.SpecialAddOn, error) {
	if len(ids) == 0 {
		return []domain.SpecialAddOn{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"price_per_guest",
		"min_persons",
		"timing",
	).
		From("special_add_ons").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	addOns := make([]domain.SpecialAddOn, 0, len(ids))
	for rows.Next() {
		var (
			addOn      domain.SpecialAddOn
			minPersons sql.NullInt64
		)
		if err := rows.Scan(&addOn.ID, &addOn.Name, &addOn.PricePerGuest, &minPersons, &addOn.Timing); err != nil {
			return nil, fmt.Errorf("%w: GetAddOnsByIDs - scan add-on: %w", ErrScanRow, err)
		}
		addOn.MinPersons = nullInt(minPersons)
		addOns = append(addOns, addOn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetAddOnsByIDs - iterate rows: %w", ErrScanRow, err)
	}

	if len(addOns) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: requested %v", ErrAddOnNotFound, ids)
	}

	return addOns, nil
}

// GetMerchandiseByIDs получает товары по списку ID
// Если хотя бы один не найден, возвращает ErrMerchandiseNotFound
func (r *Repository) GetMerchandiseByIDs(ctx context.Context, ids []int64) ([]domain.MerchandiseItem, error) {
	if len(ids) == 0 {
		return []domain.MerchandiseItem{}, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price").
		From("merchandise_items").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchandiseByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetMerchandiseByIDs - execute query: %w", ErrExecQuery, err)
	}
	defer rows.Close()

	items := make([]domain.MerchandiseItem, 0, len(ids))
	for rows.Next() {
		var item domain.MerchandiseItem
		if err := rows.Scan(&item.ID, &item.Name, &item.Price); err != nil {
			return nil, fmt.Errorf("%w: GetMerchandiseByIDs - scan item: %w", ErrScanRow, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetMerchandiseByIDs - iterate rows: %w", ErrScanRow, err)
	}

	if len(items) != len(uniqueIDs(ids)) {
		return nil, fmt.Errorf("%w: requested %v", ErrMerchandiseNotFound, ids)
	}

	return items, nil
}

func decodeComponents(raw []byte) ([]domain.PriceComponent, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var rows []componentRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, err
	}

	out := make([]domain.PriceComponent, len(rows))
	for i, c := range rows {
		out[i] = domain.PriceComponent{Name: c.Name, Percentage: c.Percentage, TaxRate: c.TaxRate}
	}
	return out, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	n := int(v.Int64)
	return &n
}

func uniqueIDs(ids []int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
