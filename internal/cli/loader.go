package cli

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
)

// Columnas obligatorias del CSV de carga. Una fila por línea de factura; las filas
// consecutivas con el mismo (org_id, invoice_num, vendor_num) forman una factura.
var requiredColumns = []string{
	"invoice_num", "invoice_date", "invoice_amount", "vendor_num", "vendor_site_code", "org_id",
}

// ErrEmptyFile el CSV no tiene filas de datos.
var ErrEmptyFile = errors.New("csv: sin filas de datos")

// RowError error de formato en una fila concreta (1-based, la cabecera es la fila 1).
type RowError struct {
	Row    int
	Column string
	Err    error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d, column %s: %v", e.Row, e.Column, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// decodeInput envuelve r según el encoding del archivo. Los extractos de ERP suelen
// venir en latin1 (ISO-8859-1) o windows-1252.
func decodeInput(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", "utf-8", "utf8":
		return transform.NewReader(r, unicode.UTF8BOM.NewDecoder()), nil
	case "latin1", "iso-8859-1":
		return charmap.ISO8859_1.NewDecoder().Reader(r), nil
	case "windows-1252", "cp1252":
		return charmap.Windows1252.NewDecoder().Reader(r), nil
	default:
		return nil, fmt.Errorf("encoding %q no soportado (utf-8, latin1, windows-1252)", encoding)
	}
}

// ParseInvoices lee el CSV y devuelve las solicitudes de creación en orden de aparición.
// No valida reglas de negocio; eso lo hace el servicio al crear.
func ParseInvoices(r io.Reader) ([]dto.CreateInvoiceRequest, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyFile
	}
	if err != nil {
		return nil, fmt.Errorf("csv: leer cabecera: %w", err)
	}
	cols := make(map[string]int, len(head))
	for i, name := range head {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("csv: falta la columna %q", name)
		}
	}

	var (
		out     []dto.CreateInvoiceRequest
		lastKey string
	)
	rowNum := 1
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("csv: fila %d: %w", rowNum, err)
		}
		row := csvRow{cols: cols, rec: rec, num: rowNum}

		orgID, err := row.intField("org_id")
		if err != nil {
			return nil, err
		}
		key := fmt.Sprintf("%d|%s|%s", orgID, row.str("invoice_num"), row.str("vendor_num"))
		if len(out) == 0 || key != lastKey {
			req, err := row.header(orgID)
			if err != nil {
				return nil, err
			}
			out = append(out, req)
			lastKey = key
		}

		line, ok, err := row.line()
		if err != nil {
			return nil, err
		}
		if ok {
			cur := &out[len(out)-1]
			cur.Lines = append(cur.Lines, line)
		}
	}
	if len(out) == 0 {
		return nil, ErrEmptyFile
	}
	return out, nil
}

type csvRow struct {
	cols map[string]int
	rec  []string
	num  int
}

func (r csvRow) str(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.rec) {
		return ""
	}
	return strings.TrimSpace(r.rec[i])
}

func (r csvRow) intField(name string) (int64, error) {
	v, err := strconv.ParseInt(r.str(name), 10, 64)
	if err != nil {
		return 0, &RowError{Row: r.num, Column: name, Err: err}
	}
	return v, nil
}

func (r csvRow) optIntField(name string) (*int64, error) {
	if r.str(name) == "" {
		return nil, nil
	}
	v, err := r.intField(name)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r csvRow) optDecimal(name string) (*decimal.Decimal, error) {
	raw := r.str(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, &RowError{Row: r.num, Column: name, Err: err}
	}
	return &d, nil
}

func (r csvRow) header(orgID int64) (dto.CreateInvoiceRequest, error) {
	amount, err := r.optDecimal("invoice_amount")
	if err != nil {
		return dto.CreateInvoiceRequest{}, err
	}
	batchID, err := r.optIntField("batch_id")
	if err != nil {
		return dto.CreateInvoiceRequest{}, err
	}
	return dto.CreateInvoiceRequest{
		InvoiceNum:     r.str("invoice_num"),
		InvoiceDate:    r.str("invoice_date"),
		InvoiceType:    r.str("invoice_type"),
		InvoiceAmount:  amount,
		CurrencyCode:   r.str("currency_code"),
		VendorNum:      r.str("vendor_num"),
		VendorSiteCode: r.str("vendor_site_code"),
		TermsName:      r.str("terms_name"),
		Description:    r.str("description"),
		GLDate:         r.str("gl_date"),
		OrgID:          orgID,
		BatchID:        batchID,
	}, nil
}

// line devuelve ok=false cuando la fila sólo trae cabecera (line_number vacío).
func (r csvRow) line() (dto.InvoiceLineRequest, bool, error) {
	if r.str("line_number") == "" {
		return dto.InvoiceLineRequest{}, false, nil
	}
	n, err := strconv.Atoi(r.str("line_number"))
	if err != nil {
		return dto.InvoiceLineRequest{}, false, &RowError{Row: r.num, Column: "line_number", Err: err}
	}
	amount, err := r.optDecimal("line_amount")
	if err != nil {
		return dto.InvoiceLineRequest{}, false, err
	}
	ccid, err := r.optIntField("dist_code_ccid")
	if err != nil {
		return dto.InvoiceLineRequest{}, false, err
	}
	return dto.InvoiceLineRequest{
		LineNumber:   n,
		LineType:     r.str("line_type"),
		Amount:       amount,
		Description:  r.str("line_description"),
		DistCodeCCID: ccid,
		AccountCode:  r.str("account_code"),
		TaxCode:      r.str("tax_code"),
	}, true, nil
}
