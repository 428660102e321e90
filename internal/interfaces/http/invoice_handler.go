package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
	"github.com/jhoicas/ap-invoice-staging/internal/application/staging"
	"github.com/jhoicas/ap-invoice-staging/internal/domain"
)

// InvoiceHandler maneja las peticiones HTTP de facturas AP en staging.
type InvoiceHandler struct {
	svc *staging.InvoiceService
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(svc *staging.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{svc: svc}
}

// Create godoc
// @Summary      Create Invoice
// @Description  Crea la cabecera y las líneas (opcionales) en staging con process_flag N.
// @Tags         Invoice
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "Factura"
// @Success      201   {object}  dto.CreateInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.CreateInvoiceResponse  "creación parcial"
// @Router       /ap/invoice/create [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("INVALID_BODY", "cuerpo inválido"))
	}
	if in.UserID == nil {
		if uid, ok := GetUserID(c); ok {
			in.UserID = &uid
		}
	}

	res, err := h.svc.Create(c.Context(), in)
	if err != nil {
		if res != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(res)
		}
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// GetStatus godoc
// @Summary      Get Invoice Status
// @Description  N=New, V=Validated, E=Error, P=Processed, I=Interfaced, X=Cancelled.
// @Tags         Invoice
// @Produce      json
// @Param        staging_id  path      int  true  "staging_id"
// @Success      200         {object}  dto.InvoiceStatusResponse
// @Failure      400         {object}  dto.ErrorResponse
// @Failure      404         {object}  dto.ErrorResponse
// @Router       /ap/invoice/status/{staging_id} [get]
func (h *InvoiceHandler) GetStatus(c *fiber.Ctx) error {
	stagingID, err := strconv.ParseInt(c.Params("staging_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION", "Invalid staging_id format"))
	}
	res, err := h.svc.GetStatus(c.Context(), stagingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND",
				fmt.Sprintf("Invoice with staging_id %d not found", stagingID)))
		}
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Search godoc
// @Summary      Search Invoice
// @Description  Busca por número de factura; org_id opcional. Si el número se repite devuelve la más reciente.
// @Tags         Invoice
// @Produce      json
// @Param        invoice_num  query     string  true   "Número de factura"
// @Param        org_id       query     int     false  "Unidad operativa"
// @Success      200          {object}  dto.InvoiceSearchResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /ap/invoice/search [get]
func (h *InvoiceHandler) Search(c *fiber.Ctx) error {
	invoiceNum := c.Query("invoice_num")
	var orgID *int64
	if raw := c.Query("org_id"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION", "Invalid org_id format"))
		}
		orgID = &v
	}
	res, err := h.svc.Search(c.Context(), invoiceNum, orgID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND",
				fmt.Sprintf("Invoice %s not found", invoiceNum)))
		}
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Process godoc
// @Summary      Process Invoice
// @Description  Ejecuta validate → transfer → import. return_code 0=success, 1=warning, 2=error.
// @Tags         Invoice
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ProcessRequest  true  "Alcance"
// @Success      200   {object}  dto.ProcessResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /ap/invoice/process [post]
func (h *InvoiceHandler) Process(c *fiber.Ctx) error {
	var in dto.ProcessRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("INVALID_BODY", "cuerpo inválido"))
	}
	res, err := h.svc.Process(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Cancel godoc
// @Summary      Cancel Invoice
// @Description  Cancela la factura en staging (sólo desde N o E).
// @Tags         Invoice
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CancelRequest  true  "staging_id"
// @Success      200   {object}  dto.CancelResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /ap/invoice/cancel [post]
func (h *InvoiceHandler) Cancel(c *fiber.Ctx) error {
	var in dto.CancelRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("INVALID_BODY", "cuerpo inválido"))
	}
	res, err := h.svc.Cancel(c.Context(), in.StagingID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND",
				fmt.Sprintf("Invoice with staging_id %d not found", in.StagingID)))
		}
		return writeError(c, err)
	}
	return c.JSON(res)
}

// writeError traduce la taxonomía de errores de dominio a status HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		ve  *domain.ValidationError
		ite *domain.IllegalTransitionError
	)
	switch {
	case errors.As(err, &ve):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION", ve.Error()))
	case errors.As(err, &ite):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("ILLEGAL_TRANSITION", ite.Reason))
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.NewErrorResponse("VALIDATION", err.Error()))
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.NewErrorResponse("NOT_FOUND", "recurso no encontrado"))
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.NewErrorResponse("UNAUTHORIZED", err.Error()))
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.NewErrorResponse("FORBIDDEN", "acceso denegado"))
	case errors.Is(err, domain.ErrPersistence):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse("PERSISTENCE", err.Error()))
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.NewErrorResponse("INTERNAL", err.Error()))
	}
}
