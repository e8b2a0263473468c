package books

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/seniat"
)

// Formato de fecha de los archivos TXT del SENIAT.
const txtDateLayout = "02/01/2006"

// TXTExporter genera el archivo plano del libro de ventas que exige el portal
// SENIAT: columnas separadas por tabulador, líneas CRLF, codificación
// ISO-8859-1.
type TXTExporter struct {
	salesRepo repository.SalesBookRepository
}

// NewTXTExporter construye el exportador TXT del libro de ventas.
func NewTXTExporter(salesRepo repository.SalesBookRepository) *TXTExporter {
	return &TXTExporter{salesRepo: salesRepo}
}

// ExportSales genera el TXT del libro de ventas del período y marca las
// entradas incluidas como exportadas. Las entradas anuladas se excluyen.
// Devuelve el contenido ya codificado en ISO-8859-1 y el nombre sugerido
// del archivo.
func (x *TXTExporter) ExportSales(ctx context.Context, tenantID string, month, year int) ([]byte, string, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, "", err
	}
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}

	entries, err := x.salesRepo.ListByPeriod(tenantID, month, year)
	if err != nil {
		return nil, "", fmt.Errorf("listar libro de ventas %02d/%d: %w", month, year, err)
	}

	var sb strings.Builder
	writeRow(&sb,
		"RIF", "Nombre", "NumeroFactura", "NumeroControl", "Fecha",
		"TipoTransaccion", "BaseImponible", "Alicuota", "IVA", "IVARetenido", "Total")

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Status == entity.BookEntryStatusAnnulled {
			continue
		}
		writeRow(&sb,
			seniat.StripRIF(e.CustomerRIF),
			e.CustomerName,
			e.InvoiceNumber,
			e.InvoiceControlNumber,
			e.InvoiceDate.Format(txtDateLayout),
			txtTransactionCode(e.TransactionType),
			e.BaseAmount.StringFixed(2),
			e.TaxRate.StringFixed(2),
			e.TaxAmount.StringFixed(2),
			e.WithheldTaxAmount.StringFixed(2),
			e.TotalAmount.StringFixed(2),
		)
		ids = append(ids, e.ID)
	}

	encoded, _, err := transform.Bytes(charmap.ISO8859_1.NewEncoder(), []byte(sb.String()))
	if err != nil {
		return nil, "", fmt.Errorf("codificar TXT a ISO-8859-1: %w", err)
	}

	if len(ids) > 0 {
		if err := x.salesRepo.MarkExported(tenantID, ids, time.Now()); err != nil {
			return nil, "", fmt.Errorf("marcar entradas exportadas: %w", err)
		}
	}

	filename := fmt.Sprintf("libro_ventas_%02d%d.txt", month, year)
	return encoded, filename, nil
}

func writeRow(sb *strings.Builder, cols ...string) {
	sb.WriteString(strings.Join(cols, "\t"))
	sb.WriteString("\r\n")
}

// Códigos de tipo de transacción del formato SENIAT.
func txtTransactionCode(transactionType string) string {
	switch transactionType {
	case entity.TransactionTypeCreditNote:
		return "02"
	case entity.TransactionTypeDebitNote:
		return "03"
	case entity.TransactionTypeExport:
		return "04"
	default:
		return "01"
	}
}
