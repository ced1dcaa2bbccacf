package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stitchadmin/stitchadmin/internal/core/domain"
	portsrepo "github.com/stitchadmin/stitchadmin/internal/core/ports/repositories"
	"github.com/stitchadmin/stitchadmin/internal/models"
	"github.com/stitchadmin/stitchadmin/internal/utils/mapping"
)

type PgxPaymentMappingRepository struct {
	pool *pgxpool.Pool
}

func newPgxPaymentMappingRepository(pool *pgxpool.Pool) portsrepo.PaymentMappingRepository {
	return &PgxPaymentMappingRepository{pool: pool}
}

var _ portsrepo.PaymentMappingRepository = (*PgxPaymentMappingRepository)(nil)

// FindMappingByMethod returns the mapping row of a method. Returns apperrors.ErrNotFound when none is stored.
func (r *PgxPaymentMappingRepository) FindMappingByMethod(ctx context.Context, db portsrepo.DBTX, method domain.PaymentMethod) (*domain.PaymentMethodMapping, error) {
	query := `
		SELECT method, account_number, description, active, updated_at, updated_by
		FROM payment_method_mappings
		WHERE method = $1;
	`
	var m models.PaymentMethodMapping
	err := db.QueryRow(ctx, query, string(method)).Scan(&m.Method, &m.AccountNumber, &m.Description, &m.Active, &m.UpdatedAt, &m.UpdatedBy)
	if err != nil {
		return nil, translateError(err, "payment mapping %s", method)
	}
	d, err := mapping.ToDomainPaymentMapping(m)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ListMappings returns every stored mapping ordered by method.
func (r *PgxPaymentMappingRepository) ListMappings(ctx context.Context, db portsrepo.DBTX) ([]domain.PaymentMethodMapping, error) {
	query := `
		SELECT method, account_number, description, active, updated_at, updated_by
		FROM payment_method_mappings
		ORDER BY method;
	`
	rows, err := db.Query(ctx, query)
	if err != nil {
		return nil, translateError(err, "failed to list payment mappings")
	}
	defer rows.Close()

	var out []domain.PaymentMethodMapping
	for rows.Next() {
		var m models.PaymentMethodMapping
		if err := rows.Scan(&m.Method, &m.AccountNumber, &m.Description, &m.Active, &m.UpdatedAt, &m.UpdatedBy); err != nil {
			return nil, translateError(err, "failed to scan payment mapping")
		}
		d, err := mapping.ToDomainPaymentMapping(m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating payment mappings")
	}
	return out, nil
}

// UpsertMapping inserts or replaces the mapping of a method.
func (r *PgxPaymentMappingRepository) UpsertMapping(ctx context.Context, db portsrepo.DBTX, m domain.PaymentMethodMapping) error {
	query := `
		INSERT INTO payment_method_mappings (method, account_number, description, active, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (method) DO UPDATE
		SET account_number = EXCLUDED.account_number,
		    description = EXCLUDED.description,
		    active = EXCLUDED.active,
		    updated_at = EXCLUDED.updated_at,
		    updated_by = EXCLUDED.updated_by;
	`
	_, err := db.Exec(ctx, query, string(m.Method), m.AccountNumber, m.Description, m.Active, m.UpdatedAt, m.UpdatedBy)
	return translateError(err, "failed to store payment mapping %s", m.Method)
}

type PgxVATRuleRepository struct {
	pool *pgxpool.Pool
}

func newPgxVATRuleRepository(pool *pgxpool.Pool) portsrepo.VATRuleRepository {
	return &PgxVATRuleRepository{pool: pool}
}

var _ portsrepo.VATRuleRepository = (*PgxVATRuleRepository)(nil)

// ListVATRules loads the VAT account lookup table.
func (r *PgxVATRuleRepository) ListVATRules(ctx context.Context, db portsrepo.DBTX) ([]domain.VATAccountRule, error) {
	rows, err := db.Query(ctx, `SELECT direction, rate, base_account, tax_account FROM vat_account_rules ORDER BY direction, rate;`)
	if err != nil {
		return nil, translateError(err, "failed to list vat rules")
	}
	defer rows.Close()

	var out []domain.VATAccountRule
	for rows.Next() {
		var m models.VATAccountRule
		if err := rows.Scan(&m.Direction, &m.Rate, &m.BaseAccount, &m.TaxAccount); err != nil {
			return nil, translateError(err, "failed to scan vat rule")
		}
		d, err := mapping.ToDomainVATRule(m)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, translateError(err, "error iterating vat rules")
	}
	return out, nil
}
