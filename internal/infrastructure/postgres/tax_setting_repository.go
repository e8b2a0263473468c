package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

var _ repository.TaxSettingRepository = (*TaxSettingRepo)(nil)

// TaxSettingRepo catálogo de impuestos sobre PostgreSQL.
type TaxSettingRepo struct {
	q Querier
}

// NewTaxSettingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewTaxSettingRepository(q Querier) *TaxSettingRepo {
	return &TaxSettingRepo{q: q}
}

const taxSettingColumns = `
	id, tenant_id, tax_type, name, code, rate, description,
	account_code, account_name, applicable_to,
	is_default, is_withholding, withholding_rate, withholding_account_code,
	status, effective_date, created_by, updated_by, created_at, updated_at`

// Create persiste una configuración de impuesto. ErrDuplicate si el código ya
// existe para el tenant.
func (r *TaxSettingRepo) Create(s *entity.TaxSetting) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	query := `
		INSERT INTO tax_settings (` + taxSettingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)`
	_, err := r.q.Exec(context.Background(), query,
		s.ID, s.TenantID, s.TaxType, s.Name, s.Code, s.Rate, nullIfEmpty(s.Description),
		nullIfEmpty(s.AccountCode), nullIfEmpty(s.AccountName), s.ApplicableTo,
		s.IsDefault, s.IsWithholding, s.WithholdingRate, nullIfEmpty(s.WithholdingAccountCode),
		s.Status, s.EffectiveDate, nullIfEmpty(s.CreatedBy), nullIfEmpty(s.UpdatedBy), s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: código de impuesto ya existe", domain.ErrDuplicate)
		}
		return fmt.Errorf("insert tax setting: %w", err)
	}
	return nil
}

// ListActive lista configuraciones activas; taxType vacío = todas.
func (r *TaxSettingRepo) ListActive(tenantID, taxType string) ([]*entity.TaxSetting, error) {
	query := `SELECT ` + taxSettingColumns + ` FROM tax_settings
		WHERE tenant_id = $1 AND status = 'active' AND ($2 = '' OR tax_type = $2)
		ORDER BY tax_type, code`
	rows, err := r.q.Query(context.Background(), query, tenantID, taxType)
	if err != nil {
		return nil, fmt.Errorf("list tax settings: %w", err)
	}
	defer rows.Close()

	var out []*entity.TaxSetting
	for rows.Next() {
		s, err := scanTaxSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterar tax settings: %w", err)
	}
	return out, nil
}

// FindByCode busca por código dentro del tenant. (nil, nil) si no existe.
func (r *TaxSettingRepo) FindByCode(tenantID, code string) (*entity.TaxSetting, error) {
	query := `SELECT ` + taxSettingColumns + ` FROM tax_settings
		WHERE tenant_id = $1 AND code = $2`
	return scanTaxSetting(r.q.QueryRow(context.Background(), query, tenantID, code))
}

// CountByTenant cuenta configuraciones del tenant (para decidir si sembrar).
func (r *TaxSettingRepo) CountByTenant(tenantID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM tax_settings WHERE tenant_id = $1`, tenantID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count tax settings: %w", err)
	}
	return n, nil
}

func scanTaxSetting(row pgx.Row) (*entity.TaxSetting, error) {
	var s entity.TaxSetting
	var description, accountCode, accountName, withholdingAccountCode, createdBy, updatedBy *string

	err := row.Scan(
		&s.ID, &s.TenantID, &s.TaxType, &s.Name, &s.Code, &s.Rate, &description,
		&accountCode, &accountName, &s.ApplicableTo,
		&s.IsDefault, &s.IsWithholding, &s.WithholdingRate, &withholdingAccountCode,
		&s.Status, &s.EffectiveDate, &createdBy, &updatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan tax setting: %w", err)
	}

	s.Description = derefStr(description)
	s.AccountCode = derefStr(accountCode)
	s.AccountName = derefStr(accountName)
	s.WithholdingAccountCode = derefStr(withholdingAccountCode)
	s.CreatedBy = derefStr(createdBy)
	s.UpdatedBy = derefStr(updatedBy)
	return &s, nil
}
