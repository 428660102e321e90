package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProcessFlag código de un carácter con el estado de ciclo de vida de una factura en staging.
// El procedimiento externo es la fuente de verdad y puede escribir valores desconocidos.
type ProcessFlag string

const (
	FlagNew        ProcessFlag = "N" // pendiente de validación
	FlagValidated  ProcessFlag = "V"
	FlagError      ProcessFlag = "E"
	FlagProcessed  ProcessFlag = "P" // en tablas interface; transitorio
	FlagInterfaced ProcessFlag = "I" // importada al ERP
	FlagCancelled  ProcessFlag = "X"
)

// StatusUnknown etiqueta para flags fuera del vocabulario conocido.
const StatusUnknown = "Unknown"

var flagLabels = map[ProcessFlag]string{
	FlagNew:        "New",
	FlagValidated:  "Validated",
	FlagError:      "Error",
	FlagProcessed:  "Processed",
	FlagInterfaced: "Interfaced",
	FlagCancelled:  "Cancelled",
}

// Label devuelve el nombre legible del flag, o "Unknown".
func (f ProcessFlag) Label() string {
	if l, ok := flagLabels[f]; ok {
		return l
	}
	return StatusUnknown
}

// Known indica si el flag pertenece al vocabulario N/V/E/P/I/X.
func (f ProcessFlag) Known() bool {
	_, ok := flagLabels[f]
	return ok
}

// LineType tipo de línea (LINE_TYPE_LOOKUP_CODE).
type LineType string

const (
	LineTypeItem          LineType = "ITEM"
	LineTypeTax           LineType = "TAX"
	LineTypeFreight       LineType = "FREIGHT"
	LineTypeMiscellaneous LineType = "MISCELLANEOUS"
)

// Valid indica si el tipo pertenece al enumerado.
func (t LineType) Valid() bool {
	switch t {
	case LineTypeItem, LineTypeTax, LineTypeFreight, LineTypeMiscellaneous:
		return true
	}
	return false
}

// Valores por defecto de cabecera.
const (
	DefaultInvoiceType  = "STANDARD"
	DefaultCurrencyCode = "USD"
)

// UnknownUserID auditoría cuando el caller no informa usuario.
const UnknownUserID int64 = -1

// InvoiceHeader cabecera de factura en staging. StagingID lo asigna la secuencia del store.
type InvoiceHeader struct {
	StagingID        int64
	BatchID          *int64
	InvoiceNum       string
	InvoiceDate      time.Time
	InvoiceType      string
	InvoiceAmount    decimal.Decimal // declarado por el caller; no se compara contra las líneas
	CurrencyCode     string
	ExchangeRate     *decimal.Decimal
	ExchangeRateType *string
	ExchangeDate     *time.Time
	VendorNum        string
	VendorSiteCode   string
	TermsName        *string
	Description      *string
	GLDate           *time.Time
	OrgID            int64
	ProcessFlag      ProcessFlag
	ErrorMessage     *string
	CreatedBy        int64
	CreatedAt        time.Time
}

// InvoiceLine línea de factura en staging; pertenece a exactamente una cabecera.
type InvoiceLine struct {
	LineStagingID         int64
	StagingID             int64
	LineNumber            int
	LineType              LineType
	Amount                decimal.Decimal
	Description           *string
	DistCodeCombinationID *int64
	AccountCode           *string
	PONumber              *string
	POLineNumber          *int
	Quantity              *decimal.Decimal
	UnitPrice             *decimal.Decimal
	TaxCode               *string
	TaxRate               *decimal.Decimal
	TaxAmount             *decimal.Decimal
	ProcessFlag           ProcessFlag
	ErrorMessage          *string
}

// StagingStatus instantánea de estado de una cabecera (best-effort; el procedimiento externo
// puede cambiarla en cualquier momento).
type StagingStatus struct {
	StagingID    int64
	OrgID        int64
	InvoiceNum   string
	ProcessFlag  ProcessFlag
	ErrorMessage string
}

// StagedInvoice cabecera con sus líneas ordenadas por line_number.
type StagedInvoice struct {
	Header InvoiceHeader
	Lines  []*InvoiceLine
}
