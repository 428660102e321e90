package dto

import "github.com/shopspring/decimal"

// CreateInvoiceRequest body para POST /ap/invoice/create.
type CreateInvoiceRequest struct {
	InvoiceNum       string              `json:"invoice_num"`
	InvoiceDate      string              `json:"invoice_date"` // YYYY-MM-DD
	InvoiceType      string              `json:"invoice_type,omitempty"`
	InvoiceAmount    *decimal.Decimal    `json:"invoice_amount"`
	CurrencyCode     string              `json:"currency_code,omitempty"`
	ExchangeRate     *decimal.Decimal    `json:"exchange_rate,omitempty"`
	ExchangeRateType string              `json:"exchange_rate_type,omitempty"`
	ExchangeDate     string              `json:"exchange_date,omitempty"`
	VendorNum        string              `json:"vendor_num"`
	VendorSiteCode   string              `json:"vendor_site_code"`
	TermsName        string              `json:"terms_name,omitempty"`
	Description      string              `json:"description,omitempty"`
	GLDate           string              `json:"gl_date,omitempty"`
	OrgID            int64               `json:"org_id"`
	BatchID          *int64              `json:"batch_id,omitempty"`
	UserID           *int64              `json:"user_id,omitempty"`
	Lines            []InvoiceLineRequest `json:"lines,omitempty"`
}

// InvoiceLineRequest línea en la creación.
type InvoiceLineRequest struct {
	LineNumber   int              `json:"line_number"`
	LineType     string           `json:"line_type"` // ITEM | TAX | FREIGHT | MISCELLANEOUS
	Amount       *decimal.Decimal `json:"amount"`
	Description  string           `json:"description,omitempty"`
	DistCodeCCID *int64           `json:"dist_code_ccid,omitempty"`
	AccountCode  string           `json:"account_code,omitempty"`
	PONumber     string           `json:"po_number,omitempty"`
	POLineNumber *int             `json:"po_line_number,omitempty"`
	Quantity     *decimal.Decimal `json:"quantity,omitempty"`
	UnitPrice    *decimal.Decimal `json:"unit_price,omitempty"`
	TaxCode      string           `json:"tax_code,omitempty"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	TaxAmount    *decimal.Decimal `json:"tax_amount,omitempty"`
}

// CreateInvoiceResponse respuesta de la creación.
// LinesPersisted refleja las líneas realmente guardadas, no las solicitadas.
type CreateInvoiceResponse struct {
	Status         string `json:"status"`
	StagingID      int64  `json:"staging_id"`
	LinesPersisted int    `json:"lines_persisted"`
	Message        string `json:"message"`
}

// InvoiceStatusResponse respuesta de GET /ap/invoice/status/:staging_id.
type InvoiceStatusResponse struct {
	StagingID    int64  `json:"staging_id"`
	ProcessFlag  string `json:"process_flag"` // N|V|E|P|I|X
	Status       string `json:"status"`       // etiqueta legible
	ErrorMessage string `json:"error_message"`
}

// InvoiceSearchResponse cabecera + líneas ordenadas por line_number.
type InvoiceSearchResponse struct {
	StagingID      int64                 `json:"staging_id"`
	BatchID        *int64                `json:"batch_id"`
	InvoiceNum     string                `json:"invoice_num"`
	InvoiceDate    string                `json:"invoice_date"`
	InvoiceType    string                `json:"invoice_type"`
	InvoiceAmount  decimal.Decimal       `json:"invoice_amount"`
	CurrencyCode   string                `json:"currency_code"`
	VendorNum      string                `json:"vendor_num"`
	VendorSiteCode string                `json:"vendor_site_code"`
	OrgID          int64                 `json:"org_id"`
	ProcessFlag    string                `json:"process_flag"`
	ProcessStatus  string                `json:"process_status"`
	ErrorMessage   *string               `json:"error_message"`
	Lines          []InvoiceLineResponse `json:"lines"`
}

// InvoiceLineResponse línea en la búsqueda.
type InvoiceLineResponse struct {
	LineStagingID int64           `json:"line_staging_id"`
	LineNumber    int             `json:"line_number"`
	LineType      string          `json:"line_type"`
	Amount        decimal.Decimal `json:"amount"`
	Description   *string         `json:"description"`
	DistCodeCCID  *int64          `json:"dist_code_ccid"`
	ProcessFlag   string          `json:"process_flag"`
	ErrorMessage  *string         `json:"error_message"`
}

// ProcessRequest body para POST /ap/invoice/process. StagingID tiene prioridad sobre BatchID.
type ProcessRequest struct {
	OrgID     int64  `json:"org_id"`
	BatchID   *int64 `json:"batch_id,omitempty"`
	StagingID *int64 `json:"staging_id,omitempty"`
}

// ProcessResponse resultado del procedimiento: 0=success, 1=warning, 2 (o cualquier otro)=error.
type ProcessResponse struct {
	Status     string `json:"status"`
	ReturnCode string `json:"return_code"`
	RequestID  *int64 `json:"request_id,omitempty"`
	Message    string `json:"message"`
}

// CancelRequest body para POST /ap/invoice/cancel.
type CancelRequest struct {
	StagingID int64 `json:"staging_id"`
}

// CancelResponse cancelación aceptada.
type CancelResponse struct {
	Status    string `json:"status"`
	StagingID int64  `json:"staging_id"`
	Cancelled bool   `json:"cancelled"`
	Message   string `json:"message"`
}
