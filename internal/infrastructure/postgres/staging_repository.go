package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
)

var (
	_ repository.StagingRepository     = (*StagingRepo)(nil)
	_ repository.StagingFlagRepository = (*StagingRepo)(nil)
)

// StagingRepo implementación de StagingRepository y StagingFlagRepository (usable con pool o tx).
type StagingRepo struct {
	q Querier
}

// NewStagingRepository construye el adaptador. Pasar pool o tx (Querier).
func NewStagingRepository(q Querier) *StagingRepo {
	return &StagingRepo{q: q}
}

// InsertHeader persiste la cabecera; staging_id lo asigna la secuencia xxap_invoice_hdr_stg_s.
func (r *StagingRepo) InsertHeader(ctx context.Context, h *entity.InvoiceHeader) (int64, error) {
	query := `
		INSERT INTO xxap_invoice_hdr_stg (
			batch_id, invoice_num, invoice_date, invoice_type_lookup_code, invoice_amount,
			invoice_currency_code, exchange_rate, exchange_rate_type, exchange_date,
			vendor_num, vendor_site_code, terms_name, description, gl_date, org_id,
			process_flag, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING staging_id, creation_date`
	err := r.q.QueryRow(ctx, query,
		h.BatchID, h.InvoiceNum, h.InvoiceDate, h.InvoiceType, h.InvoiceAmount,
		h.CurrencyCode, h.ExchangeRate, h.ExchangeRateType, h.ExchangeDate,
		h.VendorNum, h.VendorSiteCode, h.TermsName, h.Description, h.GLDate, h.OrgID,
		string(h.ProcessFlag), h.CreatedBy,
	).Scan(&h.StagingID, &h.CreatedAt)
	if err != nil {
		return 0, persistenceErr("insert invoice header", err)
	}
	return h.StagingID, nil
}

// InsertLine persiste una línea. Sin cabecera (FK 23503) devuelve domain.ErrOrphanLine.
func (r *StagingRepo) InsertLine(ctx context.Context, stagingID int64, l *entity.InvoiceLine) (int64, error) {
	query := `
		INSERT INTO xxap_invoice_lines_stg (
			staging_id, line_number, line_type_lookup_code, amount, description,
			dist_code_combination_id, account_code, po_number, po_line_number,
			quantity_invoiced, unit_price, tax_code, tax_rate, tax_amount, process_flag
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING line_staging_id`
	err := r.q.QueryRow(ctx, query,
		stagingID, l.LineNumber, string(l.LineType), l.Amount, l.Description,
		l.DistCodeCombinationID, l.AccountCode, l.PONumber, l.POLineNumber,
		l.Quantity, l.UnitPrice, l.TaxCode, l.TaxRate, l.TaxAmount, string(l.ProcessFlag),
	).Scan(&l.LineStagingID)
	if err != nil {
		return 0, persistenceErr("insert invoice line", err)
	}
	l.StagingID = stagingID
	return l.LineStagingID, nil
}

const statusColumns = `staging_id, org_id, invoice_num, process_flag, error_message`

// GetStatus lectura sin bloqueo. Devuelve (nil, nil) si no existe.
func (r *StagingRepo) GetStatus(ctx context.Context, stagingID int64) (*entity.StagingStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM xxap_invoice_hdr_stg WHERE staging_id = $1`
	return r.scanStatus(ctx, "get invoice status", query, stagingID)
}

// LockHeader igual que GetStatus pero con FOR UPDATE; sólo tiene sentido dentro de una tx.
func (r *StagingRepo) LockHeader(ctx context.Context, stagingID int64) (*entity.StagingStatus, error) {
	query := `SELECT ` + statusColumns + ` FROM xxap_invoice_hdr_stg WHERE staging_id = $1 FOR UPDATE`
	return r.scanStatus(ctx, "lock invoice header", query, stagingID)
}

func (r *StagingRepo) scanStatus(ctx context.Context, op, query string, stagingID int64) (*entity.StagingStatus, error) {
	var (
		st   entity.StagingStatus
		flag string
		msg  *string
	)
	err := r.q.QueryRow(ctx, query, stagingID).Scan(&st.StagingID, &st.OrgID, &st.InvoiceNum, &flag, &msg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr(op, err)
	}
	st.ProcessFlag = entity.ProcessFlag(flag)
	if msg != nil {
		st.ErrorMessage = *msg
	}
	return &st, nil
}

// Search cabecera por invoice_num (y org_id si viene) con sus líneas. Si el número se repite
// gana el staging_id más alto. Devuelve (nil, nil) si no hay coincidencias.
func (r *StagingRepo) Search(ctx context.Context, invoiceNum string, orgID *int64) (*entity.StagedInvoice, error) {
	query := `
		SELECT staging_id, batch_id, invoice_num, invoice_date, invoice_type_lookup_code,
		       invoice_amount, invoice_currency_code, exchange_rate, exchange_rate_type,
		       exchange_date, vendor_num, vendor_site_code, terms_name, description, gl_date,
		       org_id, process_flag, error_message, created_by, creation_date
		FROM xxap_invoice_hdr_stg
		WHERE invoice_num = $1`
	args := []any{invoiceNum}
	if orgID != nil {
		query += ` AND org_id = $2`
		args = append(args, *orgID)
	}
	query += ` ORDER BY staging_id DESC LIMIT 1`

	var (
		h    entity.InvoiceHeader
		flag string
	)
	err := r.q.QueryRow(ctx, query, args...).Scan(
		&h.StagingID, &h.BatchID, &h.InvoiceNum, &h.InvoiceDate, &h.InvoiceType,
		&h.InvoiceAmount, &h.CurrencyCode, &h.ExchangeRate, &h.ExchangeRateType,
		&h.ExchangeDate, &h.VendorNum, &h.VendorSiteCode, &h.TermsName, &h.Description, &h.GLDate,
		&h.OrgID, &flag, &h.ErrorMessage, &h.CreatedBy, &h.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, persistenceErr("search invoice header", err)
	}
	h.ProcessFlag = entity.ProcessFlag(flag)

	lines, err := r.listLines(ctx, h.StagingID)
	if err != nil {
		return nil, err
	}
	return &entity.StagedInvoice{Header: h, Lines: lines}, nil
}

func (r *StagingRepo) listLines(ctx context.Context, stagingID int64) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT line_staging_id, staging_id, line_number, line_type_lookup_code, amount,
		       description, dist_code_combination_id, account_code, po_number, po_line_number,
		       quantity_invoiced, unit_price, tax_code, tax_rate, tax_amount,
		       process_flag, error_message
		FROM xxap_invoice_lines_stg
		WHERE staging_id = $1
		ORDER BY line_number, line_staging_id`
	rows, err := r.q.Query(ctx, query, stagingID)
	if err != nil {
		return nil, persistenceErr("list invoice lines", err)
	}
	defer rows.Close()

	var list []*entity.InvoiceLine
	for rows.Next() {
		var (
			l              entity.InvoiceLine
			lineType, flag string
		)
		if err := rows.Scan(
			&l.LineStagingID, &l.StagingID, &l.LineNumber, &lineType, &l.Amount,
			&l.Description, &l.DistCodeCombinationID, &l.AccountCode, &l.PONumber, &l.POLineNumber,
			&l.Quantity, &l.UnitPrice, &l.TaxCode, &l.TaxRate, &l.TaxAmount,
			&flag, &l.ErrorMessage,
		); err != nil {
			return nil, persistenceErr("scan invoice line", err)
		}
		l.LineType = entity.LineType(lineType)
		l.ProcessFlag = entity.ProcessFlag(flag)
		list = append(list, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, persistenceErr("list invoice lines", err)
	}
	return list, nil
}

// UpdateHeaderFlag escribe process_flag y error_message de la cabecera.
func (r *StagingRepo) UpdateHeaderFlag(ctx context.Context, stagingID int64, flag entity.ProcessFlag, msg *string) error {
	query := `
		UPDATE xxap_invoice_hdr_stg
		SET process_flag = $2, error_message = $3, last_update_date = now()
		WHERE staging_id = $1`
	tag, err := r.q.Exec(ctx, query, stagingID, string(flag), nullIfEmpty(msg))
	if err != nil {
		return persistenceErr("update invoice header flag", err)
	}
	if tag.RowsAffected() == 0 {
		return persistenceErr("update invoice header flag", fmt.Errorf("staging_id %d sin filas", stagingID))
	}
	return nil
}

// UpdateLinesFlag escribe process_flag y error_message en todas las líneas; devuelve cuántas.
func (r *StagingRepo) UpdateLinesFlag(ctx context.Context, stagingID int64, flag entity.ProcessFlag, msg *string) (int64, error) {
	query := `
		UPDATE xxap_invoice_lines_stg
		SET process_flag = $2, error_message = $3, last_update_date = now()
		WHERE staging_id = $1`
	tag, err := r.q.Exec(ctx, query, stagingID, string(flag), nullIfEmpty(msg))
	if err != nil {
		return 0, persistenceErr("update invoice lines flag", err)
	}
	return tag.RowsAffected(), nil
}
