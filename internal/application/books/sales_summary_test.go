package books_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/fiscal-pro/internal/application/books"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Resumen del libro de ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestSalesSummarize_TotalesYDesglose(t *testing.T) {
	repo := &fakeSalesRepo{}
	repo.entries = append(repo.entries, salesEntry(1, 1000, 16))
	repo.entries = append(repo.entries, salesEntry(2, 500, 16))
	repo.entries = append(repo.entries, salesEntry(3, 200, 8))
	repo.entries[2].IsElectronic = true
	repo.entries[2].ElectronicCode = "EC-003"

	s := books.NewSalesSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	assert.Empty(t, sum.Errors)
	assert.Equal(t, 3, sum.TotalEntries)
	assert.True(t, decimal.NewFromInt(1700).Equal(sum.TotalBaseAmount), "base total: %s", sum.TotalBaseAmount)
	assert.True(t, decimal.NewFromInt(256).Equal(sum.TotalTaxAmount), "IVA total: %s", sum.TotalTaxAmount)

	// Desglose en orden de primera aparición: 16 luego 8.
	require.Len(t, sum.ByRate, 2)
	assert.True(t, decimal.NewFromInt(16).Equal(sum.ByRate[0].Rate))
	assert.True(t, decimal.NewFromInt(1500).Equal(sum.ByRate[0].BaseAmount))
	assert.True(t, decimal.NewFromInt(240).Equal(sum.ByRate[0].TaxAmount))
	assert.True(t, decimal.NewFromInt(8).Equal(sum.ByRate[1].Rate))
	assert.True(t, decimal.NewFromInt(200).Equal(sum.ByRate[1].BaseAmount))

	assert.Equal(t, 1, sum.ElectronicInvoices)
	assert.Equal(t, 2, sum.PhysicalInvoices)
}

func TestSalesSummarize_ErroresEstructurales(t *testing.T) {
	repo := &fakeSalesRepo{}

	malRIF := salesEntry(1, 100, 16)
	malRIF.CustomerRIF = "X-99"

	sinControl := salesEntry(2, 100, 16)
	sinControl.InvoiceControlNumber = ""

	ivaMalo := salesEntry(3, 100, 16)
	ivaMalo.TaxAmount = decimal.NewFromInt(99) // esperado 16

	electSinCodigo := salesEntry(4, 100, 16)
	electSinCodigo.IsElectronic = true
	electSinCodigo.ElectronicCode = ""

	repo.entries = append(repo.entries, malRIF, sinControl, ivaMalo, electSinCodigo)

	s := books.NewSalesSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	require.NotEmpty(t, sum.Errors)
	assert.Contains(t, sum.Errors[0], "RIF del cliente inválido")
	joined := ""
	for _, e := range sum.Errors {
		joined += e + "\n"
	}
	assert.Contains(t, joined, "sin número de control")
	assert.Contains(t, joined, "IVA inconsistente")
	assert.Contains(t, joined, "total inconsistente") // el total quedó calculado con el IVA malo
	assert.Contains(t, joined, "sin código de autorización")
}

func TestSalesSummarize_FacturasDuplicadas(t *testing.T) {
	repo := &fakeSalesRepo{}
	a := salesEntry(1, 100, 16)
	b := salesEntry(2, 200, 16)
	b.InvoiceNumber = a.InvoiceNumber
	repo.entries = append(repo.entries, a, b)

	s := books.NewSalesSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "duplicado")
	assert.Contains(t, sum.Errors[0], a.InvoiceNumber)
}

// Las anuladas no suman montos pero el número de factura liberado no cuenta
// como duplicado.
func TestSalesSummarize_AnuladasExcluidas(t *testing.T) {
	repo := &fakeSalesRepo{}
	activa := salesEntry(1, 1000, 16)
	anulada := salesEntry(2, 500, 16)
	anulada.Status = entity.BookEntryStatusAnnulled
	anulada.InvoiceNumber = activa.InvoiceNumber
	repo.entries = append(repo.entries, activa, anulada)

	s := books.NewSalesSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	assert.Equal(t, 1, sum.TotalEntries)
	assert.True(t, decimal.NewFromInt(1000).Equal(sum.TotalBaseAmount))
	assert.Empty(t, sum.Errors)
}

func TestSalesSummarize_PeriodoInvalido(t *testing.T) {
	s := books.NewSalesSummarizer(&fakeSalesRepo{})

	_, err := s.Summarize(context.Background(), "tenant-1", 13, 2026)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	_, err = s.Summarize(context.Background(), "tenant-1", 1, 1999)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

// El total de una entrada con retención es neto: base + IVA - retenido.
func TestSalesSummarize_TotalNetoDeRetencion(t *testing.T) {
	repo := &fakeSalesRepo{}

	neta := salesEntry(1, 1000, 16)
	neta.WithheldTaxAmount = decimal.NewFromInt(120) // 75% de 160
	neta.TotalAmount = decimal.NewFromInt(1040)

	bruta := salesEntry(2, 1000, 16)
	bruta.WithheldTaxAmount = decimal.NewFromInt(120)
	// TotalAmount quedó en 1160: ignora la retención.

	repo.entries = append(repo.entries, neta, bruta)

	s := books.NewSalesSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "Fila 2")
	assert.Contains(t, sum.Errors[0], "total inconsistente")
}

// ──────────────────────────────────────────────────────────────────────────────
// Resumen del libro de compras
// ──────────────────────────────────────────────────────────────────────────────

func TestPurchaseSummarize_Totales(t *testing.T) {
	repo := &fakePurchaseRepo{}
	repo.entries = append(repo.entries, purchaseEntry(1, 400, 16))
	repo.entries = append(repo.entries, purchaseEntry(2, 100, 8))
	// 75% del IVA (64) retenido; total neto 400 + 64 - 48.
	repo.entries[0].WithheldTaxAmount = decimal.NewFromInt(48)
	repo.entries[0].TotalAmount = decimal.NewFromInt(416)

	s := books.NewPurchaseSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)

	assert.Empty(t, sum.Errors)
	assert.Equal(t, 2, sum.TotalEntries)
	assert.True(t, decimal.NewFromInt(500).Equal(sum.TotalBaseAmount))
	assert.True(t, decimal.NewFromInt(72).Equal(sum.TotalTaxAmount))
	assert.True(t, decimal.NewFromInt(48).Equal(sum.TotalWithheldTax))
	require.Len(t, sum.ByRate, 2)
}

func TestPurchaseSummarize_RIFProveedorInvalido(t *testing.T) {
	repo := &fakePurchaseRepo{}
	e := purchaseEntry(1, 100, 16)
	e.SupplierRIF = "ZZZ"
	repo.entries = append(repo.entries, e)

	s := books.NewPurchaseSummarizer(repo)
	sum, err := s.Summarize(context.Background(), "tenant-1", 1, 2026)
	require.NoError(t, err)
	require.Len(t, sum.Errors, 1)
	assert.Contains(t, sum.Errors[0], "RIF del proveedor inválido")
}

func TestSalesSummarize_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := books.NewSalesSummarizer(&fakeSalesRepo{})
	_, err := s.Summarize(ctx, "tenant-1", 1, 2026)
	assert.True(t, errors.Is(err, context.Canceled))
}
