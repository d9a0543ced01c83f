// Package einvoice orquesta el ciclo de vida del e-Invoice ante MyInvois:
// envío, sincronización de estado, cancelación y reintento, más el enrutado
// de acciones de usuario con flags en curso.
package einvoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/myinvois-erp/internal/application/dto"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/lhdn"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
	"github.com/jhoicas/myinvois-erp/pkg/money"
)

// Config parámetros del servicio.
type Config struct {
	PortalURL       string        // base de la URL pública de validación
	PipelineTimeout time.Duration // tope de cada envío; 0 = 30 s
}

// Service implementa las operaciones del e-Invoice por tenant.
type Service struct {
	einvoiceRepo repository.EInvoiceRepository
	invoiceRepo  repository.InvoiceRepository
	companyRepo  repository.CompanyRepository
	customerRepo repository.CustomerRepository
	builder      DocumentBuilder
	submitter    Submitter
	archive      Archive // nil = sin archivo de documentos
	exporter     RegisterExporter
	catalogue    *money.Catalogue
	dispatcher   *Dispatcher
	clk          clock.Clock
	log          *logger.Logger
	cfg          Config
}

// NewService construye el servicio. archive puede ser nil.
func NewService(
	einvoiceRepo repository.EInvoiceRepository,
	invoiceRepo repository.InvoiceRepository,
	companyRepo repository.CompanyRepository,
	customerRepo repository.CustomerRepository,
	builder DocumentBuilder,
	submitter Submitter,
	archive Archive,
	exporter RegisterExporter,
	catalogue *money.Catalogue,
	dispatcher *Dispatcher,
	clk clock.Clock,
	log *logger.Logger,
	cfg Config,
) *Service {
	if cfg.PipelineTimeout <= 0 {
		cfg.PipelineTimeout = 30 * time.Second
	}
	if catalogue == nil {
		catalogue = money.DefaultCatalogue()
	}
	if dispatcher == nil {
		dispatcher = NewDispatcher()
	}
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		einvoiceRepo: einvoiceRepo,
		invoiceRepo:  invoiceRepo,
		companyRepo:  companyRepo,
		customerRepo: customerRepo,
		builder:      builder,
		submitter:    submitter,
		archive:      archive,
		exporter:     exporter,
		catalogue:    catalogue,
		dispatcher:   dispatcher,
		clk:          clk,
		log:          log.Component("einvoice"),
		cfg:          cfg,
	}
}

// Dispatcher expone el dispatcher compartido (flags en curso).
func (s *Service) Dispatcher() *Dispatcher { return s.dispatcher }

// ── Acciones ─────────────────────────────────────────────────────────────────

// tenantHandlers adapta Service a Handlers fijando la empresa del token.
type tenantHandlers struct {
	s         *Service
	companyID string
}

func (h tenantHandlers) CreateAndSubmit(ctx context.Context, invoiceID string) error {
	_, err := h.s.CreateAndSubmit(ctx, h.companyID, invoiceID)
	return err
}

func (h tenantHandlers) Submit(ctx context.Context, id string) error {
	return h.s.Submit(ctx, h.companyID, id)
}

func (h tenantHandlers) Sync(ctx context.Context, id string) error {
	return h.s.Sync(ctx, h.companyID, id)
}

func (h tenantHandlers) Retry(ctx context.Context, id string) error {
	return h.s.Retry(ctx, h.companyID, id)
}

func (h tenantHandlers) Cancel(ctx context.Context, id, reason string) error {
	return h.s.Cancel(ctx, h.companyID, id, reason)
}

// HandlersFor devuelve los handlers del ciclo de vida para la empresa.
func (s *Service) HandlersFor(companyID string) Handlers {
	return tenantHandlers{s: s, companyID: companyID}
}

// Act resuelve el estado autoritativo de la entidad y despacha la acción.
// Con eInvoiceID se usa ese e-Invoice; si no, el e-Invoice activo de invoiceID
// o ninguno (submit crea uno nuevo).
func (s *Service) Act(ctx context.Context, companyID string, action einvoice.Action, invoiceID, eInvoiceID, reason string) error {
	req := ActionRequest{Action: action, InvoiceID: invoiceID, EInvoiceID: eInvoiceID, Reason: reason}
	switch {
	case eInvoiceID != "":
		e, err := s.load(ctx, companyID, eInvoiceID)
		if err != nil {
			return err
		}
		req.Status = e.Status
		req.InvoiceID = e.InvoiceID
	case invoiceID != "":
		if _, err := s.loadInvoice(ctx, companyID, invoiceID); err != nil {
			return err
		}
		active, err := s.einvoiceRepo.GetActiveByInvoice(ctx, invoiceID)
		if err != nil {
			return err
		}
		req.Status = einvoice.NoEInvoice
		if active != nil {
			req.Status = active.Status
			req.EInvoiceID = active.ID
		}
	default:
		return fmt.Errorf("%w: invoice_id o einvoice_id es obligatorio", domain.ErrInvalidInput)
	}
	return s.dispatcher.Dispatch(ctx, s.HandlersFor(companyID), req)
}

// CreateAndSubmit crea el e-Invoice DRAFT de la factura y lo envía.
func (s *Service) CreateAndSubmit(ctx context.Context, companyID, invoiceID string) (*entity.EInvoice, error) {
	inv, err := s.loadInvoice(ctx, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	active, err := s.einvoiceRepo.GetActiveByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, fmt.Errorf("%w: %s (%s)", domain.ErrEInvoiceExists, active.ID, active.Status)
	}
	docType := inv.DocumentType
	if docType == "" {
		docType = lhdn.DocTypeInvoice
	}
	now := s.clk.Now().UTC()
	e := &entity.EInvoice{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		InvoiceID: invoiceID,
		Status:    entity.EInvoiceDraft,
		Type:      docType,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.einvoiceRepo.Create(ctx, e); err != nil {
		return nil, err
	}
	s.log.Info().Str("einvoice_id", e.ID).Str("invoice_id", invoiceID).Msg("e-Invoice creado")
	return e, s.submit(ctx, e)
}

// Submit envía un e-Invoice en DRAFT.
func (s *Service) Submit(ctx context.Context, companyID, id string) error {
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if e.Status != entity.EInvoiceDraft {
		return fmt.Errorf("%w: submit requiere DRAFT (actual %s)", domain.ErrActionNotAllowed, e.Status)
	}
	return s.submit(ctx, e)
}

// Retry reenvía un e-Invoice en ERROR o INVALID.
func (s *Service) Retry(ctx context.Context, companyID, id string) error {
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if e.Status != entity.EInvoiceError && e.Status != entity.EInvoiceInvalid {
		return fmt.Errorf("%w: retry requiere ERROR o INVALID (actual %s)", domain.ErrActionNotAllowed, e.Status)
	}
	e.RetryCount++
	return s.submit(ctx, e)
}

// submit ejecuta el pipeline de envío:
//
//	datos → UBL 2.1 → c14n + SHA-256 → PENDING → MyInvois → SUBMITTED|REJECTED|ERROR → archivo
//
// Un rechazo del documento no es un error del método: queda registrado en e.Errors.
func (s *Service) submit(ctx context.Context, e *entity.EInvoice) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.PipelineTimeout)
	defer cancel()
	log := s.log.WithField("einvoice_id", e.ID).WithField("invoice_id", e.InvoiceID)

	// markError deja el e-Invoice en ERROR con el paso que falló.
	markError := func(step string, cause error) error {
		e.Errors = []entity.ValidationError{{Code: step, Message: cause.Error()}}
		if err := einvoice.Transition(e, entity.EInvoiceError, s.clk.Now()); err != nil {
			log.Error().Err(err).Str("step", step).Msg("no se pudo marcar ERROR")
			return cause
		}
		e.UpdatedAt = s.clk.Now().UTC()
		pctx, pcancel := persistContext(ctx)
		defer pcancel()
		if err := s.einvoiceRepo.Update(pctx, e); err != nil {
			log.Error().Err(err).Msg("no se pudo persistir ERROR")
		}
		log.Warn().Err(cause).Str("step", step).Msg("envío fallido")
		return cause
	}

	// 1. Datos frescos
	inv, err := s.invoiceRepo.GetByID(ctx, e.InvoiceID)
	if err == nil && inv == nil {
		err = fmt.Errorf("%w: factura %s", domain.ErrNotFound, e.InvoiceID)
	}
	if err != nil {
		return markError("fetch-invoice", err)
	}
	lines, err := s.invoiceRepo.GetLines(ctx, inv.ID)
	if err != nil {
		return markError("fetch-lines", err)
	}
	company, err := s.companyRepo.GetByID(ctx, e.CompanyID)
	if err == nil && company == nil {
		err = fmt.Errorf("%w: empresa %s", domain.ErrNotFound, e.CompanyID)
	}
	if err != nil {
		return markError("fetch-company", err)
	}
	customer, err := s.customerRepo.GetByID(ctx, inv.CustomerID)
	if err == nil && customer == nil {
		err = fmt.Errorf("%w: cliente %s", domain.ErrNotFound, inv.CustomerID)
	}
	if err != nil {
		return markError("fetch-customer", err)
	}

	// 2. Documento UBL canonicalizado y su hash
	doc, err := s.builder.Build(&DocumentInput{
		EInvoice: e, Invoice: inv, Lines: lines, Company: company, Customer: customer,
		IssuedAt: s.clk.Now().UTC(),
	})
	if err != nil {
		return markError("build", err)
	}

	// 3. PENDING mientras viaja a MyInvois
	if err := einvoice.Transition(e, entity.EInvoicePending, s.clk.Now()); err != nil {
		return err
	}
	// Identificadores de un envío anterior no pertenecen a este.
	e.Errors = nil
	e.UUID, e.LongID, e.SubmissionUID, e.ArchiveKey = "", "", "", ""
	e.SubmittedAt = nil
	e.DocumentHash = doc.Hash
	e.UpdatedAt = s.clk.Now().UTC()
	if err := s.einvoiceRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("persistir PENDING: %w", err)
	}

	// 4. Envío
	result, err := s.submitter.Submit(ctx, SubmissionDocument{
		CodeNumber: inv.Number, Format: doc.Format, Content: doc.Content, Hash: doc.Hash,
	})
	if err != nil {
		return markError("submit", fmt.Errorf("%w: %w", domain.ErrUpstream, err))
	}
	e.SubmissionUID = result.SubmissionUID
	now := s.clk.Now().UTC()

	if accepted, ok := findAccepted(result, inv.Number); ok {
		if err := einvoice.Transition(e, entity.EInvoiceSubmitted, now); err != nil {
			return err
		}
		e.UUID = accepted.UUID
		e.SubmittedAt = &now
	} else if rejected, ok := findRejected(result, inv.Number); ok {
		if err := einvoice.Transition(e, entity.EInvoiceRejected, now); err != nil {
			return err
		}
		e.Errors = rejected.Errors
	} else {
		return markError("submit", fmt.Errorf("%w: la respuesta no incluye el documento %s", domain.ErrUpstream, inv.Number))
	}

	// 5. Archivo (no bloquea el resultado)
	if s.archive != nil {
		key := fmt.Sprintf("%s/%s/%s.xml", e.CompanyID, now.Format("2006/01"), e.ID)
		if err := s.archive.Put(ctx, key, doc.Content, doc.ContentType); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("no se pudo archivar el documento")
		} else {
			e.ArchiveKey = key
		}
	}

	// 6. Resultado final: MyInvois ya respondió, se guarda aunque el plazo haya vencido.
	e.UpdatedAt = now
	pctx, pcancel := persistContext(ctx)
	defer pcancel()
	if err := s.einvoiceRepo.Update(pctx, e); err != nil {
		return fmt.Errorf("persistir %s: %w", e.Status, err)
	}
	log.Info().Str("status", string(e.Status)).Str("uuid", e.UUID).Str("submission_uid", e.SubmissionUID).
		Int("errors", len(e.Errors)).Msg("e-Invoice enviado")
	return nil
}

// persistTimeout tope para guardar el resultado de un envío.
const persistTimeout = 5 * time.Second

// persistContext conserva los valores de ctx pero no su cancelación ni su plazo.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), persistTimeout)
}

func findAccepted(r *SubmissionResult, codeNumber string) (AcceptedDocument, bool) {
	for _, a := range r.Accepted {
		if a.CodeNumber == codeNumber {
			return a, true
		}
	}
	if len(r.Accepted) == 1 && len(r.Rejected) == 0 {
		return r.Accepted[0], true
	}
	return AcceptedDocument{}, false
}

func findRejected(r *SubmissionResult, codeNumber string) (RejectedDocument, bool) {
	for _, d := range r.Rejected {
		if d.CodeNumber == codeNumber {
			return d, true
		}
	}
	if len(r.Rejected) == 1 && len(r.Accepted) == 0 {
		return r.Rejected[0], true
	}
	return RejectedDocument{}, false
}

// Sync consulta el estado del documento en MyInvois. Un fallo de transporte
// deja el estado intacto y se devuelve envuelto en domain.ErrUpstream.
func (s *Service) Sync(ctx context.Context, companyID, id string) error {
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if e.Status != entity.EInvoicePending && e.Status != entity.EInvoiceSubmitted {
		return fmt.Errorf("%w: sync requiere PENDING o SUBMITTED (actual %s)", domain.ErrActionNotAllowed, e.Status)
	}
	if e.UUID == "" {
		return s.expireStalePending(ctx, e)
	}

	details, err := s.submitter.GetDocument(ctx, e.UUID)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}

	now := s.clk.Now().UTC()
	prev := e.Status
	var target entity.EInvoiceStatus
	at := now
	switch details.Status {
	case RemoteSubmitted:
		target = entity.EInvoiceSubmitted
	case RemoteValid:
		target = entity.EInvoiceValid
		if details.ValidatedAt != nil {
			at = *details.ValidatedAt
		}
	case RemoteInvalid:
		target = entity.EInvoiceInvalid
		e.Errors = details.Errors
	case RemoteCancelled:
		target = entity.EInvoiceCancelled
		if e.CancelledAt == nil {
			e.CancelledAt = &now
		}
	default:
		return fmt.Errorf("%w: estado remoto desconocido %q", domain.ErrUpstream, details.Status)
	}
	if details.LongID != "" {
		e.LongID = details.LongID
	}
	if target != e.Status {
		if err := einvoice.Transition(e, target, at); err != nil {
			return err
		}
	}
	e.UpdatedAt = now
	if err := s.einvoiceRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("persistir sync: %w", err)
	}
	s.log.Info().Str("einvoice_id", e.ID).Str("from", string(prev)).Str("to", string(e.Status)).
		Str("remote_status", details.Status).Msg("e-Invoice sincronizado")
	return nil
}

// expireStalePending pasa a ERROR un PENDING sin UUID cuyo envío ya superó el
// plazo del pipeline (proceso caído a mitad de envío). Así Retry vuelve a aplicar.
func (s *Service) expireStalePending(ctx context.Context, e *entity.EInvoice) error {
	now := s.clk.Now().UTC()
	if e.Status != entity.EInvoicePending || now.Sub(e.UpdatedAt) <= s.cfg.PipelineTimeout {
		return fmt.Errorf("%w: el e-Invoice aún no tiene UUID de MyInvois", domain.ErrConflict)
	}
	e.Errors = []entity.ValidationError{{Code: "submit", Message: "MyInvois no confirmó el envío"}}
	if err := einvoice.Transition(e, entity.EInvoiceError, now); err != nil {
		return err
	}
	e.UpdatedAt = now
	if err := s.einvoiceRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("persistir ERROR: %w", err)
	}
	s.log.Warn().Str("einvoice_id", e.ID).Msg("envío sin respuesta, e-Invoice marcado ERROR")
	return nil
}

// Cancel aplica la validación autoritativa (motivo, estado, ventana de 72 h) y
// cancela el documento en MyInvois.
func (s *Service) Cancel(ctx context.Context, companyID, id, reason string) error {
	r, err := einvoice.ValidateCancelReason(reason)
	if err != nil {
		return err
	}
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return err
	}
	if !einvoice.IsAllowed(e.Status, einvoice.ActionCancel) {
		return fmt.Errorf("%w: cancel requiere VALID o SUBMITTED (actual %s)", domain.ErrActionNotAllowed, e.Status)
	}
	now := s.clk.Now().UTC()
	if e.ValidatedAt != nil && !einvoice.WithinWindow(*e.ValidatedAt, now) {
		return fmt.Errorf("%w: plazo vencido el %s", domain.ErrCancellationWindowClosed,
			einvoice.Deadline(*e.ValidatedAt).Format(time.RFC3339))
	}
	if e.UUID == "" {
		return fmt.Errorf("%w: el e-Invoice no tiene UUID de MyInvois", domain.ErrConflict)
	}
	if err := s.submitter.Cancel(ctx, e.UUID, r); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUpstream, err)
	}
	if err := einvoice.Transition(e, entity.EInvoiceCancelled, now); err != nil {
		return err
	}
	e.CancelReason = r
	e.CancelledAt = &now
	e.UpdatedAt = now
	if err := s.einvoiceRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("persistir CANCELLED: %w", err)
	}
	s.log.Info().Str("einvoice_id", e.ID).Str("uuid", e.UUID).Msg("e-Invoice cancelado")
	return nil
}

// ── Lectura ──────────────────────────────────────────────────────────────────

// Get obtiene un e-Invoice de la empresa.
func (s *Service) Get(ctx context.Context, companyID, id string) (*dto.EInvoiceResponse, error) {
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToResponse(e), nil
}

// List lista e-Invoices con filtros.
func (s *Service) List(ctx context.Context, f repository.EInvoiceFilter) (*dto.EInvoiceListResponse, error) {
	if f.Status != "" && !f.Status.IsValid() {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, f.Status)
	}
	list, err := s.einvoiceRepo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	items := make([]dto.EInvoiceResponse, 0, len(list))
	for _, e := range list {
		items = append(items, *ToResponse(e))
	}
	return &dto.EInvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: f.Limit, Offset: f.Offset},
	}, nil
}

// Summary conteo por estado; los estados sin documentos aparecen en cero.
func (s *Service) Summary(ctx context.Context, companyID string) (*dto.EInvoiceSummaryResponse, error) {
	counts, err := s.einvoiceRepo.CountByStatus(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := &dto.EInvoiceSummaryResponse{ByStatus: make(map[entity.EInvoiceStatus]int, len(entity.EInvoiceStatuses))}
	for _, st := range entity.EInvoiceStatuses {
		out.ByStatus[st] = counts[st]
		out.Total += counts[st]
	}
	return out, nil
}

// View estado del e-Invoice indicado con acciones, cuenta regresiva y flags en curso.
func (s *Service) View(ctx context.Context, companyID, id string) (*dto.EInvoiceView, error) {
	e, err := s.load(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return s.buildView(e.InvoiceID, e), nil
}

// ViewInvoice vista para una factura comercial: su e-Invoice activo o ninguno.
func (s *Service) ViewInvoice(ctx context.Context, companyID, invoiceID string) (*dto.EInvoiceView, error) {
	if _, err := s.loadInvoice(ctx, companyID, invoiceID); err != nil {
		return nil, err
	}
	e, err := s.einvoiceRepo.GetActiveByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	return s.buildView(invoiceID, e), nil
}

func (s *Service) buildView(invoiceID string, e *entity.EInvoice) *dto.EInvoiceView {
	status := einvoice.NoEInvoice
	key := InvoiceKey(invoiceID)
	v := &dto.EInvoiceView{InvoiceID: invoiceID}
	if e != nil {
		status = e.Status
		key = e.ID
		v.EInvoice = ToResponse(e)
		v.ValidationURL = s.validationURL(e)
		if c, ok := einvoice.ComputeCountdown(e.ValidatedAt, e.Status, s.clk.Now()); ok {
			v.Countdown = &c
		}
	}
	v.StatusInfo = einvoice.Info(status)
	v.AllowedActions = einvoice.AllowedActions(status)
	v.Indicators = einvoice.Indicators(status)
	v.InFlight = s.dispatcher.InFlightActions(key)
	return v
}

func (s *Service) validationURL(e *entity.EInvoice) string {
	if e.UUID == "" || e.LongID == "" || s.cfg.PortalURL == "" {
		return ""
	}
	u, err := lhdn.ValidationURL(s.cfg.PortalURL, e.UUID, e.LongID)
	if err != nil {
		return ""
	}
	return u
}

// ValidationURL URL pública del e-Invoice activo de la factura; vacío si aún no está validado.
func (s *Service) ValidationURL(ctx context.Context, invoiceID string) (string, error) {
	e, err := s.einvoiceRepo.GetActiveByInvoice(ctx, invoiceID)
	if err != nil || e == nil || e.Status != entity.EInvoiceValid {
		return "", err
	}
	return s.validationURL(e), nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func (s *Service) load(ctx context.Context, companyID, id string) (*entity.EInvoice, error) {
	if id == "" {
		return nil, domain.ErrInvalidInput
	}
	e, err := s.einvoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, domain.ErrNotFound
	}
	if e.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return e, nil
}

func (s *Service) loadInvoice(ctx context.Context, companyID, invoiceID string) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	if inv.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return inv, nil
}

// ToResponse mapea la entidad a su DTO.
func ToResponse(e *entity.EInvoice) *dto.EInvoiceResponse {
	if e == nil {
		return nil
	}
	return &dto.EInvoiceResponse{
		ID:            e.ID,
		InvoiceID:     e.InvoiceID,
		Status:        e.Status,
		Type:          e.Type,
		UUID:          e.UUID,
		LongID:        e.LongID,
		SubmissionUID: e.SubmissionUID,
		DocumentHash:  e.DocumentHash,
		ValidatedAt:   e.ValidatedAt,
		SubmittedAt:   e.SubmittedAt,
		CancelReason:  e.CancelReason,
		CancelledAt:   e.CancelledAt,
		RetryCount:    e.RetryCount,
		Errors:        e.Errors,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
	}
}

// IsUpstream informa si err proviene de la comunicación con MyInvois.
func IsUpstream(err error) bool {
	return errors.Is(err, domain.ErrUpstream)
}
