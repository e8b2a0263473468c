package declaration

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/fiscal-pro/internal/application/dto"
	"github.com/tu-usuario/fiscal-pro/internal/domain"
	"github.com/tu-usuario/fiscal-pro/internal/domain/entity"
	"github.com/tu-usuario/fiscal-pro/internal/domain/repository"
	"github.com/tu-usuario/fiscal-pro/internal/domain/seniat"
)

// List lista declaraciones del tenant con filtros y paginación.
func (uc *UseCase) List(ctx context.Context, tenantID string, f repository.DeclarationFilter) (*dto.DeclarationListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 20
	}

	decls, total, err := uc.declRepo.List(tenantID, f)
	if err != nil {
		return nil, fmt.Errorf("listar declaraciones: %w", err)
	}

	out := &dto.DeclarationListResponse{
		Data: make([]dto.DeclarationResponse, 0, len(decls)),
		Meta: dto.PageResponse{Page: f.Page, Limit: f.Limit, Total: int64(total)},
	}
	for _, d := range decls {
		out.Data = append(out.Data, dto.ToDeclarationResponse(d))
	}
	return out, nil
}

// Get busca una declaración por ID. ErrNotFound si no existe o pertenece a
// otro tenant.
func (uc *UseCase) Get(ctx context.Context, tenantID, id string) (*dto.DeclarationResponse, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// GetByPeriod busca la declaración de un período. ErrNotFound si el período
// nunca se ha calculado.
func (uc *UseCase) GetByPeriod(ctx context.Context, tenantID string, month, year int) (*dto.DeclarationResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := uc.declRepo.GetByPeriod(tenantID, month, year)
	if err != nil {
		return nil, fmt.Errorf("consultar declaración %02d/%d: %w", month, year, err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// Update edita los campos manuales de una declaración calculada: excedente
// anterior, ajustes, sanciones, intereses y notas. Los totales derivados se
// recomputan siempre; el caller nunca los fija. Presentada: ErrDeclarationFiled.
// Pagada: ErrDeclarationPaid.
func (uc *UseCase) Update(ctx context.Context, tenantID, id string, in dto.UpdateDeclarationRequest, actor string) (*dto.DeclarationResponse, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.acquire(tenantID, d.Month, d.Year)
	defer unlock()

	// Releer bajo el lock: otro escritor pudo avanzar el estado.
	d, err = uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := uc.guardMutable(d); err != nil {
		return nil, err
	}

	if in.PreviousCreditBalance != nil {
		if in.PreviousCreditBalance.IsNegative() {
			return nil, fmt.Errorf("%w: el excedente anterior no puede ser negativo", domain.ErrInvalidInput)
		}
		d.PreviousCreditBalance = *in.PreviousCreditBalance
	}
	if in.Adjustments != nil {
		d.Adjustments = *in.Adjustments
	}
	if in.AdjustmentsReason != nil {
		d.AdjustmentsReason = *in.AdjustmentsReason
	}
	if in.Penalties != nil {
		if in.Penalties.IsNegative() {
			return nil, fmt.Errorf("%w: las sanciones no pueden ser negativas", domain.ErrInvalidInput)
		}
		d.Penalties = *in.Penalties
	}
	if in.Interests != nil {
		if in.Interests.IsNegative() {
			return nil, fmt.Errorf("%w: los intereses no pueden ser negativos", domain.ErrInvalidInput)
		}
		d.Interests = *in.Interests
	}
	if in.Notes != nil {
		d.Notes = *in.Notes
	}

	d.RecomputeTotals()
	d.UpdatedBy = actor
	d.UpdatedAt = time.Now()

	if err := uc.declRepo.Update(d); err != nil {
		return nil, fmt.Errorf("actualizar declaración %s: %w", d.DeclarationNumber, err)
	}
	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// File presenta la declaración: calculated → filed. Por defecto exige que el
// diagnóstico esté limpio (ErrValidationPending si hay errores de libro sin
// resolver) y genera el documento de presentación; ambos pasos pueden
// desactivarse en la petición. La fecha de presentación por defecto es ahora.
func (uc *UseCase) File(ctx context.Context, tenantID, id string, in dto.FileDeclarationRequest, actor string) (*dto.DeclarationResponse, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.acquire(tenantID, d.Month, d.Year)
	defer unlock()

	d, err = uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	switch d.Status {
	case entity.DeclarationStatusPaid:
		return nil, domain.ErrDeclarationPaid
	case entity.DeclarationStatusFiled:
		return nil, domain.ErrDeclarationFiled
	}

	validate := in.ValidateBeforeFiling == nil || *in.ValidateBeforeFiling
	if validate && len(d.ValidationErrors) > 0 {
		return nil, domain.ErrValidationPending
	}

	filingDate := time.Now()
	if in.FilingDate != nil {
		filingDate = *in.FilingDate
	}
	d.FilingDate = &filingDate
	d.FiledBy = actor

	generate := in.GenerateDocument == nil || *in.GenerateDocument
	if generate {
		xml, err := seniat.GenerateDeclarationXML(d)
		if err != nil {
			return nil, fmt.Errorf("generar documento de presentación: %w", err)
		}
		d.DocumentXML = xml
	}

	d.Status = entity.DeclarationStatusFiled
	d.ExportedToSENIAT = true
	d.UpdatedBy = actor
	d.UpdatedAt = time.Now()

	if err := uc.declRepo.Update(d); err != nil {
		return nil, fmt.Errorf("presentar declaración %s: %w", d.DeclarationNumber, err)
	}
	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// RecordPayment registra el pago de una declaración presentada: filed → paid.
// El monto pagado debe cubrir el total a pagar (ErrInsufficientPayment si no).
// "paid" es terminal: después de esto la declaración es inmutable.
func (uc *UseCase) RecordPayment(ctx context.Context, tenantID, id string, in dto.RecordPaymentRequest, actor string) (*dto.DeclarationResponse, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	unlock := uc.locks.acquire(tenantID, d.Month, d.Year)
	defer unlock()

	d, err = uc.load(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DeclarationStatusPaid {
		return nil, domain.ErrDeclarationPaid
	}
	if d.Status != entity.DeclarationStatusFiled {
		return nil, domain.ErrDeclarationNotFiled
	}
	if in.AmountPaid.LessThan(d.TotalToPay) {
		return nil, fmt.Errorf("%w: pagado %s, total %s",
			domain.ErrInsufficientPayment, in.AmountPaid.StringFixed(2), d.TotalToPay.StringFixed(2))
	}

	paymentDate := in.PaymentDate
	if paymentDate.IsZero() {
		paymentDate = time.Now()
	}
	d.PaymentDate = &paymentDate
	d.PaymentReference = in.PaymentReference
	d.AmountPaid = in.AmountPaid

	if in.Notes != "" {
		nota := fmt.Sprintf("[PAGO] %s", in.Notes)
		if d.Notes != "" {
			d.Notes += "\n"
		}
		d.Notes += nota
	}

	d.Status = entity.DeclarationStatusPaid
	d.UpdatedBy = actor
	d.UpdatedAt = time.Now()

	if err := uc.declRepo.Update(d); err != nil {
		return nil, fmt.Errorf("registrar pago de %s: %w", d.DeclarationNumber, err)
	}
	resp := dto.ToDeclarationResponse(d)
	return &resp, nil
}

// Delete elimina una declaración no pagada. La calculación siguiente del
// período vuelve a crearla con un número nuevo.
func (uc *UseCase) Delete(ctx context.Context, tenantID, id string) error {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return err
	}

	unlock := uc.locks.acquire(tenantID, d.Month, d.Year)
	defer unlock()

	d, err = uc.load(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if d.Status == entity.DeclarationStatusPaid {
		return domain.ErrDeclarationPaid
	}

	if err := uc.declRepo.Delete(tenantID, id); err != nil {
		return fmt.Errorf("eliminar declaración %s: %w", d.DeclarationNumber, err)
	}
	return nil
}

// DownloadDocument devuelve el documento de presentación almacenado.
// ErrDocumentNotGenerated si la declaración no se ha presentado con documento.
func (uc *UseCase) DownloadDocument(ctx context.Context, tenantID, id string) (string, string, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return "", "", err
	}
	if d.DocumentXML == "" {
		return "", "", domain.ErrDocumentNotGenerated
	}
	filename := fmt.Sprintf("declaracion_iva_%02d%d.xml", d.Month, d.Year)
	return d.DocumentXML, filename, nil
}

// PreviewDocument genera el documento desde el snapshot actual sin tocar el
// estado, para revisión antes de presentar.
func (uc *UseCase) PreviewDocument(ctx context.Context, tenantID, id string) (string, error) {
	d, err := uc.load(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	return seniat.GenerateDeclarationXML(d)
}

func (uc *UseCase) load(ctx context.Context, tenantID, id string) (*entity.TaxDeclaration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d, err := uc.declRepo.GetByID(tenantID, id)
	if err != nil {
		return nil, fmt.Errorf("consultar declaración %s: %w", id, err)
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

func (uc *UseCase) guardMutable(d *entity.TaxDeclaration) error {
	switch d.Status {
	case entity.DeclarationStatusPaid:
		return domain.ErrDeclarationPaid
	case entity.DeclarationStatusFiled:
		return domain.ErrDeclarationFiled
	}
	return nil
}
