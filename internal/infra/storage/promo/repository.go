package promo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ShowBookingService/internal/domain"
	"github.com/m04kA/SMC-ShowBookingService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ShowBookingService/pkg/psqlbuilder"
)

// Repository репозиторий промокодов и подарочных карт
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория промокодов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByCode получает промокод без учёта регистра
// Внутри транзакции строка блокируется, чтобы баланс подарочной карты не списали дважды
func (r *Repository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(
		"id",
		"code",
		"discount_type",
		"value",
		"balance",
		"valid_from",
		"valid_until",
		"is_active",
	).
		From("promo_codes").
		Where(squirrel.Eq{"code_normalized": strings.ToUpper(strings.TrimSpace(code))})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - build select query: %v", ErrBuildQuery, err)
	}

	var (
		promo      domain.PromoCode
		validFrom  sql.NullTime
		validUntil sql.NullTime
	)

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&promo.ID,
		&promo.Code,
		&promo.DiscountType,
		&promo.Value,
		&promo.Balance,
		&validFrom,
		&validUntil,
		&promo.IsActive,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPromoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCode - scan promo code: %w", ErrScanRow, err)
	}

	if validFrom.Valid {
		promo.ValidFrom = &validFrom.Time
	}
	if validUntil.Valid {
		promo.ValidUntil = &validUntil.Time
	}

	return &promo, nil
}

// RedeemGiftCard списывает amount с баланса подарочной карты, только если баланса хватает
// Возвращает остаток после списания
func (r *Repository) RedeemGiftCard(ctx context.Context, id int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: redeem amount must be positive, got %s", domain.ErrInvalidInput, amount)
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("promo_codes").
		Set("balance", squirrel.Expr("balance - ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "discount_type": domain.DiscountGiftCard}).
		Where(squirrel.GtOrEq{"balance": amount}).
		Suffix("RETURNING balance").
		ToSql()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: RedeemGiftCard - build update query: %v", ErrBuildQuery, err)
	}

	var balance decimal.Decimal
	err = executor.QueryRowContext(ctx, query, args...).Scan(&balance)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, fmt.Errorf("%w: gift card %d, amount %s", ErrInsufficientBalance, id, amount)
	}
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: RedeemGiftCard - execute update: %w", ErrExecQuery, err)
	}

	return balance, nil
}

// RefundGiftCard возвращает amount на баланс подарочной карты (при отмене бронирования)
func (r *Repository) RefundGiftCard(ctx context.Context, code string, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("promo_codes").
		Set("balance", squirrel.Expr("balance + ?", amount)).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{
			"code_normalized": strings.ToUpper(strings.TrimSpace(code)),
			"discount_type":   domain.DiscountGiftCard,
		}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: RefundGiftCard - build update query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: RefundGiftCard - execute update: %w", ErrExecQuery, err)
	}

	return nil
}
