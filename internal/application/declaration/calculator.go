// Package declaration implementa el motor de declaraciones periódicas de IVA:
// calculación desde los libros fiscales, ciclo de vida
// calculated → filed → paid y generación del documento de presentación.
package declaration

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

// UseCase casos de uso de la declaración de IVA. Todas las escrituras de un
// mismo (tenant, período) se serializan con un lock por período.
type UseCase struct {
	declRepo   repository.DeclarationRepository
	sales      *books.SalesSummarizer
	purchases  *books.PurchaseSummarizer
	reconciler *books.Reconciler

	numberPrefix string // ej. "DEC-IVA"
	locks        *periodLocks
}

// NewUseCase construye el motor de declaraciones.
func NewUseCase(
	declRepo repository.DeclarationRepository,
	sales *books.SalesSummarizer,
	purchases *books.PurchaseSummarizer,
	reconciler *books.Reconciler,
	numberPrefix string,
) *UseCase {
	if numberPrefix == "" {
		numberPrefix = "DEC-IVA"
	}
	return &UseCase{
		declRepo:     declRepo,
		sales:        sales,
		purchases:    purchases,
		reconciler:   reconciler,
		numberPrefix: numberPrefix,
		locks:        newPeriodLocks(),
	}
}

// Calculate calcula (o recalcula) la declaración del período desde los libros
// fiscales. Secuencia:
//
//  1. Conciliar el libro de ventas contra facturación (mejor esfuerzo: un
//     fallo de conciliación no impide calcular con lo que hay en el libro).
//  2. Resumir ambos libros en paralelo.
//  3. Derivar totales y desglose por alícuota con decimal exacto.
//  4. Persistir en estado "calculated".
//
// Recalcular preserva el número de declaración, los ajustes manuales,
// sanciones, intereses y el excedente anterior. El excedente puede venir en la
// propia petición; si no viene, se conserva el almacenado. Una declaración
// presentada pero no pagada vuelve a "calculated" y pierde sus artefactos de
// presentación. Una pagada es inmutable: ErrDeclarationPaid.
func (uc *UseCase) Calculate(ctx context.Context, tenantID string, in dto.CalculateDeclarationRequest, actor string) (*dto.DeclarationResponse, error) {
	month, year := in.Month, in.Year
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("%w: mes %d", domain.ErrInvalidInput, month)
	}
	if year < 2000 {
		return nil, fmt.Errorf("%w: año %d", domain.ErrInvalidInput, year)
	}
	if in.PreviousCreditBalance != nil && in.PreviousCreditBalance.IsNegative() {
		return nil, fmt.Errorf("%w: el excedente anterior no puede ser negativo", domain.ErrInvalidInput)
	}

	unlock := uc.locks.acquire(tenantID, month, year)
	defer unlock()

	existing, err := uc.declRepo.GetByPeriod(tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("consultar declaración %02d/%d: %w", month, year, err)
	}
	if existing != nil && existing.Status == entity.DeclarationStatusPaid {
		return nil, domain.ErrDeclarationPaid
	}

	if _, err := uc.reconciler.Reconcile(ctx, tenantID, month, year, actor); err != nil {
		// Mejor esfuerzo: se calcula con el estado actual del libro.
		log.Printf("[DECLARACION][%s] conciliación %02d/%d falló, se calcula con el libro actual: %v",
			tenantID, month, year, err)
	}

	salesSum, purchSum, err := uc.summarizeBooks(ctx, tenantID, month, year)
	if err != nil {
		return nil, err
	}

	d := existing
	now := time.Now()
	if d == nil {
		number, err := uc.nextDeclarationNumber(tenantID, month, year)
		if err != nil {
			return nil, err
		}
		d = &entity.TaxDeclaration{
			ID:                uuid.New().String(),
			TenantID:          tenantID,
			Month:             month,
			Year:              year,
			DeclarationNumber: number,
			CreatedBy:         actor,
			CreatedAt:         now,
		}
	} else if d.Status == entity.DeclarationStatusFiled {
		d.ClearFilingArtifacts()
	}

	if in.PreviousCreditBalance != nil {
		d.PreviousCreditBalance = *in.PreviousCreditBalance
	}

	d.SalesBaseAmount = salesSum.TotalBaseAmount
	d.SalesTaxAmount = salesSum.TotalTaxAmount
	d.PurchasesBaseAmount = purchSum.TotalBaseAmount
	d.PurchasesTaxAmount = purchSum.TotalTaxAmount
	d.TaxWithheldOnSales = salesSum.TotalWithheldTax
	d.TaxWithheldOnPurchases = purchSum.TotalWithheldTax

	d.RateBreakdown = mergeRateBreakdown(salesSum.ByRate, purchSum.ByRate)

	d.TotalSalesTransactions = salesSum.TotalEntries
	d.TotalPurchasesTransactions = purchSum.TotalEntries
	d.ElectronicInvoices = salesSum.ElectronicInvoices
	d.PhysicalInvoices = salesSum.PhysicalInvoices

	// El diagnóstico se reemplaza completo en cada calculación.
	d.ValidationErrors = nil
	for _, msg := range salesSum.Errors {
		d.ValidationErrors = append(d.ValidationErrors, "[Ventas] "+msg)
	}
	for _, msg := range purchSum.Errors {
		d.ValidationErrors = append(d.ValidationErrors, "[Compras] "+msg)
	}
	d.Validated = len(d.ValidationErrors) == 0

	d.RecomputeTotals()

	d.Status = entity.DeclarationStatusCalculated
	d.UpdatedBy = actor
	d.UpdatedAt = now

	if existing == nil {
		if err := uc.declRepo.Create(d); err != nil {
			return nil, fmt.Errorf("crear declaración %s: %w", d.DeclarationNumber, err)
		}
	} else {
		if err := uc.declRepo.Update(d); err != nil {
			return nil, fmt.Errorf("actualizar declaración %s: %w", d.DeclarationNumber, err)
		}
	}

	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// summarizeBooks resume ambos libros en paralelo.
func (uc *UseCase) summarizeBooks(ctx context.Context, tenantID string, month, year int) (*dto.BookSummaryResponse, *dto.BookSummaryResponse, error) {
	var (
		wg       sync.WaitGroup
		salesSum *dto.BookSummaryResponse
		purchSum *dto.BookSummaryResponse
		salesErr error
		purchErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		salesSum, salesErr = uc.sales.Summarize(ctx, tenantID, month, year)
	}()
	go func() {
		defer wg.Done()
		purchSum, purchErr = uc.purchases.Summarize(ctx, tenantID, month, year)
	}()
	wg.Wait()

	if salesErr != nil {
		return nil, nil, fmt.Errorf("[Ventas] %w", salesErr)
	}
	if purchErr != nil {
		return nil, nil, fmt.Errorf("[Compras] %w", purchErr)
	}
	return salesSum, purchSum, nil
}

// nextDeclarationNumber asigna el número secuencial del período:
// {prefijo}-{MM}{YYYY}-{secuencial:06d}. El secuencial cuenta por tenant y
// período; el lock del período evita duplicados dentro del proceso y el índice
// único por número los evita entre procesos.
func (uc *UseCase) nextDeclarationNumber(tenantID string, month, year int) (string, error) {
	prefix := fmt.Sprintf("%s-%02d%d-", uc.numberPrefix, month, year)
	count, err := uc.declRepo.CountByNumberPrefix(tenantID, prefix)
	if err != nil {
		return "", fmt.Errorf("asignar número de declaración: %w", err)
	}
	return fmt.Sprintf("%s%06d", prefix, count+1), nil
}

// mergeRateBreakdown une los desgloses por alícuota de ambos libros,
// rellenando con cero el lado que no tenga esa alícuota. El orden es el de
// primera aparición: primero ventas, luego alícuotas exclusivas de compras.
func mergeRateBreakdown(sales, purchases []dto.RateSummaryLine) []entity.RateBreakdownLine {
	var order []string
	byKey := make(map[string]*entity.RateBreakdownLine)

	lineFor := func(rate decimal.Decimal) *entity.RateBreakdownLine {
		key := rate.String()
		line, ok := byKey[key]
		if !ok {
			line = &entity.RateBreakdownLine{Rate: rate}
			byKey[key] = line
			order = append(order, key)
		}
		return line
	}

	for _, s := range sales {
		line := lineFor(s.Rate)
		line.SalesBase = s.BaseAmount
		line.SalesTax = s.TaxAmount
	}
	for _, p := range purchases {
		line := lineFor(p.Rate)
		line.PurchasesBase = p.BaseAmount
		line.PurchasesTax = p.TaxAmount
	}

	out := make([]entity.RateBreakdownLine, 0, len(order))
	for _, key := range order {
		out = append(out, *byKey[key])
	}
	return out
}
