package declaration

import (
	"context"
	"fmt"

	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
)

// DeclarationPDFGenerator puerto de generación del reporte PDF de una declaración.
// La implementación vive en infrastructure/pdf.
type DeclarationPDFGenerator interface {
	GenerateDeclarationPDF(ctx context.Context, d *entity.TaxDeclaration) ([]byte, error)
}

// PDFUseCase genera la representación gráfica (PDF) de una declaración de IVA.
type PDFUseCase struct {
	declRepo  repository.DeclarationRepository
	generator DeclarationPDFGenerator
}

// NewPDFUseCase construye el caso de uso inyectando sus dependencias.
func NewPDFUseCase(declRepo repository.DeclarationRepository, generator DeclarationPDFGenerator) *PDFUseCase {
	return &PDFUseCase{declRepo: declRepo, generator: generator}
}

// DownloadDeclarationPDF recupera la declaración y genera el PDF con el resumen
// fiscal del período (débitos, créditos, desglose por alícuota y totales).
//
// Retorna:
//   - (pdfBytes, filename, nil)  si todo sale bien.
//   - domain.ErrNotFound         si la declaración no existe o es de otro tenant.
//   - domain.ErrInvalidInput     si la declaración sigue en borrador sin calcular.
func (uc *PDFUseCase) DownloadDeclarationPDF(ctx context.Context, tenantID, id string) (pdfBytes []byte, filename string, err error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	d, err := uc.declRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener declaración: %w", err)
	}
	if d == nil {
		return nil, "", domain.ErrNotFound
	}
	if d.Status == entity.DeclarationStatusDraft {
		return nil, "", fmt.Errorf("%w: la declaración está en borrador, calcúlela antes de descargar el PDF", domain.ErrInvalidInput)
	}

	pdfBytes, err = uc.generator.GenerateDeclarationPDF(ctx, d)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}

	filename = fmt.Sprintf("declaracion_iva_%02d%d.pdf", d.Month, d.Year)
	return pdfBytes, filename, nil
}
