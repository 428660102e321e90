package staging

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
)

const dateLayout = "2006-01-02"

// buildHeader valida la cabecera y la traduce a entidad. No valida invoice_amount contra
// la suma de líneas: eso lo decide el procedimiento de importación.
func buildHeader(in dto.CreateInvoiceRequest, initial entity.ProcessFlag) (*entity.InvoiceHeader, error) {
	invoiceNum := strings.TrimSpace(in.InvoiceNum)
	if invoiceNum == "" {
		return nil, domain.NewValidationError("invoice_num", "requerido")
	}
	if in.OrgID <= 0 {
		return nil, domain.NewValidationError("org_id", "requerido")
	}
	if strings.TrimSpace(in.VendorNum) == "" {
		return nil, domain.NewValidationError("vendor_num", "requerido")
	}
	if strings.TrimSpace(in.VendorSiteCode) == "" {
		return nil, domain.NewValidationError("vendor_site_code", "requerido")
	}
	if in.InvoiceAmount == nil {
		return nil, domain.NewValidationError("invoice_amount", "requerido")
	}
	if in.BatchID != nil && *in.BatchID <= 0 {
		return nil, domain.NewValidationError("batch_id", "debe ser positivo")
	}

	invoiceDate, err := parseDate("invoice_date", in.InvoiceDate, true)
	if err != nil {
		return nil, err
	}
	glDate, err := parseDate("gl_date", in.GLDate, false)
	if err != nil {
		return nil, err
	}
	exchangeDate, err := parseDate("exchange_date", in.ExchangeDate, false)
	if err != nil {
		return nil, err
	}

	h := &entity.InvoiceHeader{
		BatchID:          in.BatchID,
		InvoiceNum:       invoiceNum,
		InvoiceDate:      *invoiceDate,
		InvoiceType:      orDefault(in.InvoiceType, entity.DefaultInvoiceType),
		InvoiceAmount:    *in.InvoiceAmount,
		CurrencyCode:     strings.ToUpper(orDefault(in.CurrencyCode, entity.DefaultCurrencyCode)),
		ExchangeRate:     in.ExchangeRate,
		ExchangeRateType: optString(in.ExchangeRateType),
		ExchangeDate:     exchangeDate,
		VendorNum:        strings.TrimSpace(in.VendorNum),
		VendorSiteCode:   strings.TrimSpace(in.VendorSiteCode),
		TermsName:        optString(in.TermsName),
		Description:      optString(in.Description),
		GLDate:           glDate,
		OrgID:            in.OrgID,
		ProcessFlag:      initial,
		CreatedBy:        entity.UnknownUserID,
	}
	if in.UserID != nil {
		h.CreatedBy = *in.UserID
	}
	return h, nil
}

// buildLines valida todas las líneas antes de tocar el store, para que una línea mal
// formada no deje una cabecera a medias.
func buildLines(in []dto.InvoiceLineRequest, initial entity.ProcessFlag) ([]*entity.InvoiceLine, error) {
	lines := make([]*entity.InvoiceLine, 0, len(in))
	for i, l := range in {
		field := func(name string) string { return fmt.Sprintf("lines[%d].%s", i, name) }

		if l.LineNumber <= 0 {
			return nil, domain.NewValidationError(field("line_number"), "debe ser positivo")
		}
		lineType := entity.LineType(strings.ToUpper(strings.TrimSpace(l.LineType)))
		if !lineType.Valid() {
			return nil, domain.NewValidationError(field("line_type"), "debe ser ITEM, TAX, FREIGHT o MISCELLANEOUS")
		}
		if l.Amount == nil {
			return nil, domain.NewValidationError(field("amount"), "requerido")
		}
		if l.TaxRate != nil && l.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.NewValidationError(field("tax_rate"), "no puede ser negativo")
		}

		lines = append(lines, &entity.InvoiceLine{
			LineNumber:            l.LineNumber,
			LineType:              lineType,
			Amount:                *l.Amount,
			Description:           optString(l.Description),
			DistCodeCombinationID: l.DistCodeCCID,
			AccountCode:           optString(l.AccountCode),
			PONumber:              optString(l.PONumber),
			POLineNumber:          l.POLineNumber,
			Quantity:              l.Quantity,
			UnitPrice:             l.UnitPrice,
			TaxCode:               optString(l.TaxCode),
			TaxRate:               l.TaxRate,
			TaxAmount:             l.TaxAmount,
			ProcessFlag:           initial,
		})
	}
	return lines, nil
}

func buildScope(in dto.ProcessRequest) (entity.ProcessScope, error) {
	if in.OrgID <= 0 {
		return entity.ProcessScope{}, domain.NewValidationError("org_id", "requerido")
	}
	if in.StagingID != nil && *in.StagingID <= 0 {
		return entity.ProcessScope{}, domain.NewValidationError("staging_id", "debe ser positivo")
	}
	if in.BatchID != nil && *in.BatchID <= 0 {
		return entity.ProcessScope{}, domain.NewValidationError("batch_id", "debe ser positivo")
	}
	return entity.ProcessScope{OrgID: in.OrgID, BatchID: in.BatchID, StagingID: in.StagingID}.Normalize(), nil
}

func parseDate(field, raw string, required bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if required {
			return nil, domain.NewValidationError(field, "requerido")
		}
		return nil, nil
	}
	d, err := time.Parse(dateLayout, raw)
	if err != nil {
		return nil, domain.NewValidationError(field, "fecha inválida, formato YYYY-MM-DD")
	}
	return &d, nil
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s == "" {
		return def
	}
	return s
}

func optString(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
