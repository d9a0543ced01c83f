package einvoice_test

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

// ── repos en memoria ─────────────────────────────────────────────────────────

type memEInvoices struct {
	mu   sync.Mutex
	byID map[string]entity.EInvoice
}

func newMemEInvoices() *memEInvoices { return &memEInvoices{byID: map[string]entity.EInvoice{}} }

func (m *memEInvoices) Create(_ context.Context, e *entity.EInvoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, x := range m.byID {
		if x.InvoiceID == e.InvoiceID && x.IsActive() {
			return domain.ErrEInvoiceExists
		}
	}
	m.byID[e.ID] = *e
	return nil
}

func (m *memEInvoices) Update(ctx context.Context, e *entity.EInvoice) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	prev, ok := m.byID[e.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := *e
	if prev.ValidatedAt != nil {
		next.ValidatedAt = prev.ValidatedAt
	}
	m.byID[e.ID] = next
	return nil
}

func (m *memEInvoices) GetByID(_ context.Context, id string) (*entity.EInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (m *memEInvoices) GetActiveByInvoice(_ context.Context, invoiceID string) (*entity.EInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.byID {
		if e.InvoiceID == invoiceID && e.IsActive() {
			e := e
			return &e, nil
		}
	}
	return nil, nil
}

func (m *memEInvoices) List(_ context.Context, f repository.EInvoiceFilter) ([]*entity.EInvoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*entity.EInvoice
	for _, e := range m.byID {
		if e.CompanyID != f.CompanyID || (f.Status != "" && e.Status != f.Status) {
			continue
		}
		e := e
		out = append(out, &e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	if f.Offset >= len(out) {
		return nil, nil
	}
	out = out[f.Offset:]
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m *memEInvoices) CountByStatus(_ context.Context, companyID string) (map[entity.EInvoiceStatus]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[entity.EInvoiceStatus]int{}
	for _, e := range m.byID {
		if e.CompanyID == companyID {
			out[e.Status]++
		}
	}
	return out, nil
}

func (m *memEInvoices) get(id string) entity.EInvoice {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.byID[id]
}

type memInvoices struct {
	invoices map[string]*entity.Invoice
	lines    map[string][]*entity.InvoiceLine
}

func (m *memInvoices) Create(_ context.Context, inv *entity.Invoice) error {
	m.invoices[inv.ID] = inv
	return nil
}

func (m *memInvoices) CreateLine(_ context.Context, l *entity.InvoiceLine) error {
	m.lines[l.InvoiceID] = append(m.lines[l.InvoiceID], l)
	return nil
}

func (m *memInvoices) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	return m.invoices[id], nil
}

func (m *memInvoices) GetLines(_ context.Context, invoiceID string) ([]*entity.InvoiceLine, error) {
	return m.lines[invoiceID], nil
}

func (m *memInvoices) ListByCompany(_ context.Context, companyID string, _, _ int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range m.invoices {
		if inv.CompanyID == companyID {
			out = append(out, inv)
		}
	}
	return out, nil
}

type memCompanies struct {
	repository.CompanyRepository
	byID map[string]*entity.Company
}

func (m *memCompanies) GetByID(_ context.Context, id string) (*entity.Company, error) {
	return m.byID[id], nil
}

type memCustomers struct {
	repository.CustomerRepository
	byID map[string]*entity.Customer
}

func (m *memCustomers) GetByID(_ context.Context, id string) (*entity.Customer, error) {
	return m.byID[id], nil
}

// ── puertos ──────────────────────────────────────────────────────────────────

type stubBuilder struct{ err error }

func (b stubBuilder) Build(in *appeinvoice.DocumentInput) (*appeinvoice.BuiltDocument, error) {
	if b.err != nil {
		return nil, b.err
	}
	return &appeinvoice.BuiltDocument{
		Content: []byte("<Invoice>" + in.Invoice.Number + "</Invoice>"), Hash: "hash-" + in.Invoice.Number,
		Format: "XML", ContentType: "application/xml",
	}, nil
}

type fakeSubmitter struct {
	mu         sync.Mutex
	submitErr  error
	reject     bool
	block      bool // Submit espera a que venza el contexto
	details    *appeinvoice.DocumentDetails
	detailsErr error
	cancelErr  error
	submitted  []appeinvoice.SubmissionDocument
	cancelled  []string
}

func (f *fakeSubmitter) Submit(ctx context.Context, doc appeinvoice.SubmissionDocument) (*appeinvoice.SubmissionResult, error) {
	f.mu.Lock()
	block := f.block
	f.mu.Unlock()
	if block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = append(f.submitted, doc)
	if f.submitErr != nil {
		return nil, f.submitErr
	}
	res := &appeinvoice.SubmissionResult{SubmissionUID: fmt.Sprintf("SUB-%d", len(f.submitted))}
	if f.reject {
		res.Rejected = []appeinvoice.RejectedDocument{{
			CodeNumber: doc.CodeNumber,
			Errors:     []entity.ValidationError{{Code: "CF321", Message: "Issuer TIN inválido", Target: "TIN"}},
		}}
		return res, nil
	}
	res.Accepted = []appeinvoice.AcceptedDocument{{UUID: "UUID-" + doc.CodeNumber, CodeNumber: doc.CodeNumber}}
	return res, nil
}

func (f *fakeSubmitter) GetDocument(_ context.Context, uuid string) (*appeinvoice.DocumentDetails, error) {
	if f.detailsErr != nil {
		return nil, f.detailsErr
	}
	d := *f.details
	d.UUID = uuid
	return &d, nil
}

func (f *fakeSubmitter) Cancel(_ context.Context, uuid, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelErr != nil {
		return f.cancelErr
	}
	f.cancelled = append(f.cancelled, uuid+"|"+reason)
	return nil
}

type memArchive struct {
	objects map[string][]byte
	err     error
}

func (a *memArchive) Put(_ context.Context, key string, content []byte, _ string) error {
	if a.err != nil {
		return a.err
	}
	a.objects[key] = content
	return nil
}

func (a *memArchive) URL(_ context.Context, key string) (string, error) {
	if _, ok := a.objects[key]; !ok {
		return "", errors.New("no existe")
	}
	return "https://archive.local/" + key, nil
}

type captureExporter struct{ rows []appeinvoice.RegisterRow }

func (c *captureExporter) Export(rows []appeinvoice.RegisterRow) ([]byte, error) {
	c.rows = rows
	return []byte("xlsx"), nil
}
