package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/myinvois-erp/internal/domain"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/internal/domain/repository"
)

var _ repository.EInvoiceRepository = (*EInvoiceRepo)(nil)

// EInvoiceRepo persistencia de e-Invoices. Errors se guarda como JSONB.
type EInvoiceRepo struct {
	q Querier
}

// NewEInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEInvoiceRepository(q Querier) *EInvoiceRepo {
	return &EInvoiceRepo{q: q}
}

const einvoiceColumns = `id, company_id, invoice_id, status, type, uuid, long_id, submission_uid, document_hash,
	archive_key, validated_at, cancel_reason, cancelled_at, errors, retry_count, submitted_at, created_at, updated_at`

func scanEInvoice(row pgx.Row) (*entity.EInvoice, error) {
	var e entity.EInvoice
	var status string
	var docUUID, longID, submissionUID, hash, archiveKey, cancelReason *string
	err := row.Scan(&e.ID, &e.CompanyID, &e.InvoiceID, &status, &e.Type, &docUUID, &longID, &submissionUID, &hash,
		&archiveKey, &e.ValidatedAt, &cancelReason, &e.CancelledAt, &e.Errors, &e.RetryCount, &e.SubmittedAt,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	e.Status = entity.EInvoiceStatus(status)
	e.UUID = derefStr(docUUID)
	e.LongID = derefStr(longID)
	e.SubmissionUID = derefStr(submissionUID)
	e.DocumentHash = derefStr(hash)
	e.ArchiveKey = derefStr(archiveKey)
	e.CancelReason = derefStr(cancelReason)
	return &e, nil
}

// Create persiste un e-Invoice nuevo. Un índice único parcial impide dos activos por factura.
func (r *EInvoiceRepo) Create(ctx context.Context, e *entity.EInvoice) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Errors == nil {
		e.Errors = []entity.ValidationError{}
	}
	query := `
		INSERT INTO einvoices (` + einvoiceColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.CompanyID, e.InvoiceID, string(e.Status), e.Type, nullIfEmpty(e.UUID), nullIfEmpty(e.LongID),
		nullIfEmpty(e.SubmissionUID), nullIfEmpty(e.DocumentHash), nullIfEmpty(e.ArchiveKey), e.ValidatedAt,
		nullIfEmpty(e.CancelReason), e.CancelledAt, e.Errors, e.RetryCount, e.SubmittedAt, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrEInvoiceExists
		}
		return fmt.Errorf("insert einvoice: %w", err)
	}
	return nil
}

// Update persiste estado e identificadores. Los identificadores del envío se
// escriben tal cual (un reenvío los limpia); validated_at solo si aún es NULL.
func (r *EInvoiceRepo) Update(ctx context.Context, e *entity.EInvoice) error {
	if e.Errors == nil {
		e.Errors = []entity.ValidationError{}
	}
	query := `
		UPDATE einvoices
		   SET status         = $2,
		       uuid           = $3,
		       long_id        = $4,
		       submission_uid = $5,
		       document_hash  = COALESCE($6, document_hash),
		       archive_key    = $7,
		       validated_at   = COALESCE(validated_at, $8),
		       cancel_reason  = COALESCE($9, cancel_reason),
		       cancelled_at   = COALESCE($10, cancelled_at),
		       errors         = $11,
		       retry_count    = $12,
		       submitted_at   = $13,
		       updated_at     = $14
		 WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		e.ID, string(e.Status), nullIfEmpty(e.UUID), nullIfEmpty(e.LongID), nullIfEmpty(e.SubmissionUID),
		nullIfEmpty(e.DocumentHash), nullIfEmpty(e.ArchiveKey), e.ValidatedAt, nullIfEmpty(e.CancelReason),
		e.CancelledAt, e.Errors, e.RetryCount, e.SubmittedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update einvoice: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un e-Invoice por ID.
func (r *EInvoiceRepo) GetByID(ctx context.Context, id string) (*entity.EInvoice, error) {
	e, err := scanEInvoice(r.q.QueryRow(ctx, `SELECT `+einvoiceColumns+` FROM einvoices WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get einvoice: %w", err)
	}
	return e, nil
}

// GetActiveByInvoice devuelve el e-Invoice activo de la factura comercial.
func (r *EInvoiceRepo) GetActiveByInvoice(ctx context.Context, invoiceID string) (*entity.EInvoice, error) {
	query := `SELECT ` + einvoiceColumns + ` FROM einvoices
		WHERE invoice_id = $1 AND status NOT IN ('CANCELLED', 'REJECTED')
		ORDER BY created_at DESC LIMIT 1`
	e, err := scanEInvoice(r.q.QueryRow(ctx, query, invoiceID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get active einvoice: %w", err)
	}
	return e, nil
}

// List aplica los filtros presentes en f.
func (r *EInvoiceRepo) List(ctx context.Context, f repository.EInvoiceFilter) ([]*entity.EInvoice, error) {
	where := []string{"company_id = $1"}
	args := []any{f.CompanyID}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if f.From != nil {
		args = append(args, *f.From)
		where = append(where, fmt.Sprintf("created_at >= $%d", len(args)))
	}
	if f.To != nil {
		args = append(args, *f.To)
		where = append(where, fmt.Sprintf("created_at < $%d", len(args)))
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 50
	}
	args = append(args, limit, f.Offset)
	query := fmt.Sprintf(`SELECT %s FROM einvoices WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`,
		einvoiceColumns, strings.Join(where, " AND "), len(args)-1, len(args))

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list einvoices: %w", err)
	}
	defer rows.Close()

	var list []*entity.EInvoice
	for rows.Next() {
		e, err := scanEInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan einvoice: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// CountByStatus conteo de e-Invoices por estado para la empresa.
func (r *EInvoiceRepo) CountByStatus(ctx context.Context, companyID string) (map[entity.EInvoiceStatus]int, error) {
	rows, err := r.q.Query(ctx, `SELECT status, COUNT(*) FROM einvoices WHERE company_id = $1 GROUP BY status`, companyID)
	if err != nil {
		return nil, fmt.Errorf("count einvoices: %w", err)
	}
	defer rows.Close()

	out := make(map[entity.EInvoiceStatus]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[entity.EInvoiceStatus(status)] = n
	}
	return out, rows.Err()
}
