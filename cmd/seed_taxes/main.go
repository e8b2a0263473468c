// seed_taxes puebla el catálogo de impuestos de un tenant con las reglas
// vigentes del proveedor del país (alícuotas de IVA, retenciones de IVA,
// IGTF y retenciones de ISLR).
//
// Uso: go run ./cmd/seed_taxes <tenant_id> [country]
// Por defecto usa el país de FISCAL_COUNTRY (VE). Idempotente: los códigos
// ya existentes se omiten. Toda la siembra corre en una sola transacción.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/taxrules"
	"github.com/tu-usuario/fiscal-pro/internal/infrastructure/postgres"
	"github.com/tu-usuario/fiscal-pro/pkg/config"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: seed_taxes <tenant_id> [country]")
		os.Exit(1)
	}
	tenantID := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	country := cfg.Fiscal.CountryCode
	if len(os.Args) > 2 {
		country = os.Args[2]
	}

	registry := taxrules.NewRegistry(taxrules.NewVenezuela())
	provider, err := registry.Resolve(country)
	if err != nil {
		fmt.Fprintf(os.Stderr, "país sin proveedor de reglas: %s\n", country)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	var created, skipped int
	runner := postgres.NewTxRunner(pool)
	err = runner.RunTaxSettings(ctx, func(repo repository.TaxSettingRepository) error {
		now := time.Now()

		for _, t := range provider.DefaultTaxes() {
			ok, err := seedOne(repo, &entity.TaxSetting{
				ID:            uuid.New().String(),
				TenantID:      tenantID,
				TaxType:       t.Type,
				Name:          t.Name,
				Code:          t.Code,
				Rate:          t.Rate,
				ApplicableTo:  "all",
				IsDefault:     t.IsDefault,
				Status:        "active",
				EffectiveDate: now,
				CreatedBy:     "seed",
				UpdatedBy:     "seed",
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return err
			}
			if ok {
				created++
			} else {
				skipped++
			}
		}

		for _, t := range provider.TransactionTaxes(taxrules.TransactionContext{CurrencyCode: "USD", PaymentMethod: "efectivo_usd"}) {
			ok, err := seedOne(repo, &entity.TaxSetting{
				ID:            uuid.New().String(),
				TenantID:      tenantID,
				TaxType:       t.Type,
				Name:          t.Name,
				Code:          t.Code,
				Rate:          t.Rate,
				ApplicableTo:  "all",
				Status:        "active",
				EffectiveDate: now,
				CreatedBy:     "seed",
				UpdatedBy:     "seed",
				CreatedAt:     now,
				UpdatedAt:     now,
			})
			if err != nil {
				return err
			}
			if ok {
				created++
			} else {
				skipped++
			}
		}

		for _, w := range provider.WithholdingRules() {
			ok, err := seedOne(repo, &entity.TaxSetting{
				ID:              uuid.New().String(),
				TenantID:        tenantID,
				TaxType:         w.Type,
				Name:            w.Name,
				Code:            w.Code,
				ApplicableTo:    w.AppliesTo,
				IsWithholding:   true,
				WithholdingRate: w.Rate,
				Status:          "active",
				EffectiveDate:   now,
				CreatedBy:       "seed",
				UpdatedBy:       "seed",
				CreatedAt:       now,
				UpdatedAt:       now,
			})
			if err != nil {
				return err
			}
			if ok {
				created++
			} else {
				skipped++
			}
		}
		return nil
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "siembra fallida (rollback): %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Catálogo %s para tenant %s: %d creados, %d ya existentes\n", country, tenantID, created, skipped)
}

// seedOne crea la configuración si el código no existe. Retorna true si creó.
func seedOne(repo repository.TaxSettingRepository, s *entity.TaxSetting) (bool, error) {
	existing, err := repo.FindByCode(s.TenantID, s.Code)
	if err != nil {
		return false, fmt.Errorf("buscar %s: %w", s.Code, err)
	}
	if existing != nil {
		return false, nil
	}
	if err := repo.Create(s); err != nil {
		return false, fmt.Errorf("crear %s: %w", s.Code, err)
	}
	return true, nil
}
