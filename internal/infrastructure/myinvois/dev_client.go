package myinvois

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
)

// DevValidationDelay tiempo que tarda el simulador en marcar un documento como Valid.
const DevValidationDelay = 5 * time.Second

type devDocument struct {
	codeNumber  string
	submittedAt time.Time
	longID      string
	status      string
	validatedAt *time.Time
}

// DevSubmitter simula MyInvois en memoria (MYINVOIS_ENV=dev): acepta todo
// documento con contenido y hash, lo valida pasados DevValidationDelay y
// permite cancelarlo. No hace llamadas de red.
type DevSubmitter struct {
	clk clock.Clock
	log *logger.Logger

	mu   sync.Mutex
	docs map[string]*devDocument
}

var _ appeinvoice.Submitter = (*DevSubmitter)(nil)

// NewDevSubmitter crea el simulador.
func NewDevSubmitter(clk clock.Clock, log *logger.Logger) *DevSubmitter {
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &DevSubmitter{clk: clk, log: log.Component("myinvois-dev"), docs: map[string]*devDocument{}}
}

// Submit acepta el documento salvo que venga vacío o sin hash.
func (d *DevSubmitter) Submit(_ context.Context, doc appeinvoice.SubmissionDocument) (*appeinvoice.SubmissionResult, error) {
	out := &appeinvoice.SubmissionResult{SubmissionUID: strings.ToUpper(uuid.NewString()[:26])}
	if len(doc.Content) == 0 || doc.Hash == "" {
		out.Rejected = []appeinvoice.RejectedDocument{{
			CodeNumber: doc.CodeNumber,
			Errors: []entity.ValidationError{{
				Code: "BadStructure", Message: "document content or hash missing", Target: doc.CodeNumber,
			}},
		}}
		return out, nil
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:26])
	d.mu.Lock()
	d.docs[id] = &devDocument{
		codeNumber:  doc.CodeNumber,
		submittedAt: d.clk.Now(),
		status:      appeinvoice.RemoteSubmitted,
	}
	d.mu.Unlock()
	d.log.Debug().Str("uuid", id).Str("code_number", doc.CodeNumber).Msg("documento simulado aceptado")
	out.Accepted = []appeinvoice.AcceptedDocument{{UUID: id, CodeNumber: doc.CodeNumber}}
	return out, nil
}

// GetDocument devuelve Submitted hasta cumplido DevValidationDelay; luego Valid.
func (d *DevSubmitter) GetDocument(_ context.Context, id string) (*appeinvoice.DocumentDetails, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[id]
	if !ok {
		return nil, &APIError{StatusCode: 404, Code: "NotFound", Message: fmt.Sprintf("document %s not found", id)}
	}
	now := d.clk.Now()
	if doc.status == appeinvoice.RemoteSubmitted && !now.Before(doc.submittedAt.Add(DevValidationDelay)) {
		at := now.UTC()
		doc.status = appeinvoice.RemoteValid
		doc.validatedAt = &at
		doc.longID = strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return &appeinvoice.DocumentDetails{
		UUID:        id,
		LongID:      doc.longID,
		Status:      doc.status,
		ValidatedAt: doc.validatedAt,
	}, nil
}

// Cancel marca el documento como cancelado si está Submitted o Valid.
func (d *DevSubmitter) Cancel(_ context.Context, id, reason string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	doc, ok := d.docs[id]
	if !ok {
		return &APIError{StatusCode: 404, Code: "NotFound", Message: fmt.Sprintf("document %s not found", id)}
	}
	if doc.status != appeinvoice.RemoteValid && doc.status != appeinvoice.RemoteSubmitted {
		return &APIError{StatusCode: 400, Code: "IncorrectState", Message: "document cannot be cancelled"}
	}
	doc.status = appeinvoice.RemoteCancelled
	d.log.Debug().Str("uuid", id).Str("reason", reason).Msg("documento simulado cancelado")
	return nil
}
