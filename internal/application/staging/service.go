package staging

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/ap-invoice-staging/internal/application/dto"
	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/lifecycle"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
	"github.com/jhoicas/ap-invoice-staging/pkg/logger"
)

// InvoiceService punto de entrada único para crear, consultar, buscar, procesar y cancelar
// facturas en staging.
type InvoiceService struct {
	repo         repository.StagingRepository
	txRunner     StagingTxRunner
	engine       *lifecycle.Engine
	orchestrator *Orchestrator
	log          *logger.Logger
}

// NewInvoiceService construye el servicio.
func NewInvoiceService(
	repo repository.StagingRepository,
	txRunner StagingTxRunner,
	engine *lifecycle.Engine,
	orchestrator *Orchestrator,
	log *logger.Logger,
) *InvoiceService {
	return &InvoiceService{
		repo:         repo,
		txRunner:     txRunner,
		engine:       engine,
		orchestrator: orchestrator,
		log:          log.Named("invoice_service"),
	}
}

// Create inserta la cabecera y después cada línea en el orden recibido.
//
// Son sentencias confirmadas por separado, no una transacción: si falla la línea j la
// cabecera queda en N con j-1 líneas y se devuelve la respuesta parcial junto con el error.
func (s *InvoiceService) Create(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.CreateInvoiceResponse, error) {
	initial := s.engine.Initial()
	header, err := buildHeader(in, initial)
	if err != nil {
		return nil, err
	}
	lines, err := buildLines(in.Lines, initial)
	if err != nil {
		return nil, err
	}

	stagingID, err := s.repo.InsertHeader(ctx, header)
	if err != nil {
		return nil, err
	}

	persisted := 0
	for _, line := range lines {
		if _, err := s.repo.InsertLine(ctx, stagingID, line); err != nil {
			s.log.Warn().Err(err).
				Int64("staging_id", stagingID).
				Int("line_number", line.LineNumber).
				Int("lines_persisted", persisted).
				Int("lines_requested", len(lines)).
				Msg("creación parcial: la cabecera queda en N con menos líneas")
			return &dto.CreateInvoiceResponse{
				Status:         dto.StatusError,
				StagingID:      stagingID,
				LinesPersisted: persisted,
				Message:        fmt.Sprintf("Invoice staged with %d of %d line(s); line %d failed", persisted, len(lines), line.LineNumber),
			}, err
		}
		persisted++
	}

	s.log.Info().Int64("staging_id", stagingID).Str("invoice_num", header.InvoiceNum).
		Int64("org_id", header.OrgID).Int("lines", persisted).Msg("factura creada en staging")

	return &dto.CreateInvoiceResponse{
		Status:         dto.StatusSuccess,
		StagingID:      stagingID,
		LinesPersisted: persisted,
		Message:        fmt.Sprintf("Invoice created successfully with %d line(s)", persisted),
	}, nil
}

// GetStatus instantánea best-effort del process_flag. domain.ErrNotFound si no existe.
func (s *InvoiceService) GetStatus(ctx context.Context, stagingID int64) (*dto.InvoiceStatusResponse, error) {
	if stagingID <= 0 {
		return nil, domain.NewValidationError("staging_id", "debe ser positivo")
	}
	st, err := s.repo.GetStatus(ctx, stagingID)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, domain.ErrNotFound
	}
	if !st.ProcessFlag.Known() {
		s.log.Warn().
			Int64("staging_id", st.StagingID).
			Str("process_flag", string(st.ProcessFlag)).
			Msg("process_flag fuera del vocabulario")
	}
	return &dto.InvoiceStatusResponse{
		StagingID:    st.StagingID,
		ProcessFlag:  string(st.ProcessFlag),
		Status:       st.ProcessFlag.Label(),
		ErrorMessage: st.ErrorMessage,
	}, nil
}

// Search busca por número de factura. Sin orgID la búsqueda cruza unidades operativas y,
// si el número se repite, devuelve la cabecera más reciente.
func (s *InvoiceService) Search(ctx context.Context, invoiceNum string, orgID *int64) (*dto.InvoiceSearchResponse, error) {
	invoiceNum = strings.TrimSpace(invoiceNum)
	if invoiceNum == "" {
		return nil, domain.NewValidationError("invoice_num", "requerido")
	}
	if orgID != nil && *orgID <= 0 {
		return nil, domain.NewValidationError("org_id", "debe ser positivo")
	}
	inv, err := s.repo.Search(ctx, invoiceNum, orgID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return toSearchResponse(inv), nil
}

// Process delega en el orquestador; la clasificación sale del código de retorno.
func (s *InvoiceService) Process(ctx context.Context, in dto.ProcessRequest) (*dto.ProcessResponse, error) {
	scope, err := buildScope(in)
	if err != nil {
		return nil, err
	}
	res, err := s.orchestrator.Process(ctx, scope)
	if err != nil {
		return nil, err
	}
	return &dto.ProcessResponse{
		Status:     string(res.Result),
		ReturnCode: res.ReturnCode,
		RequestID:  res.TrackingID,
		Message:    res.Message,
	}, nil
}

// Cancel pide al motor N|E → X. Cabecera y líneas se actualizan, en ese orden, en una sola
// transacción; un rechazo (*domain.IllegalTransitionError) no modifica nada.
func (s *InvoiceService) Cancel(ctx context.Context, stagingID int64) (*dto.CancelResponse, error) {
	if stagingID <= 0 {
		return nil, domain.NewValidationError("staging_id", "debe ser positivo")
	}

	var out *lifecycle.Outcome
	err := s.txRunner.RunStaging(ctx, func(flags repository.StagingFlagRepository) error {
		var err error
		out, err = s.engine.Cancel(ctx, flags, stagingID)
		return err
	})
	if err != nil {
		var ite *domain.IllegalTransitionError
		if errors.As(err, &ite) {
			s.log.Info().Int64("staging_id", stagingID).Str("state", ite.State).Msg("cancelación rechazada")
		}
		return nil, err
	}

	s.log.Info().Int64("staging_id", stagingID).Str("from", string(out.From)).
		Int64("lines", out.LinesAffected).Msg("factura cancelada")

	return &dto.CancelResponse{
		Status:    dto.StatusSuccess,
		StagingID: stagingID,
		Cancelled: true,
		Message:   fmt.Sprintf("Invoice %s cancelled successfully", out.InvoiceNum),
	}, nil
}

func toSearchResponse(inv *entity.StagedInvoice) *dto.InvoiceSearchResponse {
	h := inv.Header
	out := &dto.InvoiceSearchResponse{
		StagingID:      h.StagingID,
		BatchID:        h.BatchID,
		InvoiceNum:     h.InvoiceNum,
		InvoiceDate:    h.InvoiceDate.Format(dateLayout),
		InvoiceType:    h.InvoiceType,
		InvoiceAmount:  h.InvoiceAmount,
		CurrencyCode:   h.CurrencyCode,
		VendorNum:      h.VendorNum,
		VendorSiteCode: h.VendorSiteCode,
		OrgID:          h.OrgID,
		ProcessFlag:    string(h.ProcessFlag),
		ProcessStatus:  h.ProcessFlag.Label(),
		ErrorMessage:   h.ErrorMessage,
		Lines:          make([]dto.InvoiceLineResponse, 0, len(inv.Lines)),
	}
	for _, l := range inv.Lines {
		out.Lines = append(out.Lines, dto.InvoiceLineResponse{
			LineStagingID: l.LineStagingID,
			LineNumber:    l.LineNumber,
			LineType:      string(l.LineType),
			Amount:        l.Amount,
			Description:   l.Description,
			DistCodeCCID:  l.DistCodeCombinationID,
			ProcessFlag:   string(l.ProcessFlag),
			ErrorMessage:  l.ErrorMessage,
		})
	}
	return out
}
