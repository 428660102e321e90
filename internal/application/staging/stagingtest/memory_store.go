// Package stagingtest provee dobles en memoria de los puertos de staging para tests de
// servicio, HTTP y CLI.
package stagingtest

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/repository"
)

// ErrSimulated error inyectado por FailLineInsertAt.
var ErrSimulated = errors.New("simulated store failure")

// MemoryStore implementa StagingRepository, StagingFlagRepository y StagingTxRunner.
// Las secuencias son monótonas y nunca se borra una fila.
type MemoryStore struct {
	mu   sync.Mutex
	txMu sync.Mutex

	headers   map[int64]entity.InvoiceHeader
	lines     map[int64][]entity.InvoiceLine
	nextHdrID int64
	nextLnID  int64

	lineInserts int
	// FailLineInsertAt hace fallar la N-ésima llamada a InsertLine (1-based). 0 = nunca.
	FailLineInsertAt int
}

var (
	_ repository.StagingRepository     = (*MemoryStore)(nil)
	_ repository.StagingFlagRepository = (*MemoryStore)(nil)
)

// NewMemoryStore crea un store vacío; los ids arrancan en 1.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		headers: make(map[int64]entity.InvoiceHeader),
		lines:   make(map[int64][]entity.InvoiceLine),
	}
}

func (s *MemoryStore) InsertHeader(_ context.Context, h *entity.InvoiceHeader) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextHdrID++
	row := *h
	row.StagingID = s.nextHdrID
	s.headers[row.StagingID] = row
	return row.StagingID, nil
}

func (s *MemoryStore) InsertLine(_ context.Context, stagingID int64, l *entity.InvoiceLine) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lineInserts++
	if s.FailLineInsertAt > 0 && s.lineInserts == s.FailLineInsertAt {
		return 0, &domain.PersistenceError{Op: "insert invoice line", Err: ErrSimulated}
	}
	if _, ok := s.headers[stagingID]; !ok {
		return 0, &domain.PersistenceError{Op: "insert invoice line", Err: domain.ErrOrphanLine}
	}
	s.nextLnID++
	row := *l
	row.LineStagingID = s.nextLnID
	row.StagingID = stagingID
	s.lines[stagingID] = append(s.lines[stagingID], row)
	return row.LineStagingID, nil
}

func (s *MemoryStore) GetStatus(_ context.Context, stagingID int64) (*entity.StagingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(stagingID), nil
}

func (s *MemoryStore) Search(_ context.Context, invoiceNum string, orgID *int64) (*entity.StagedInvoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *entity.InvoiceHeader
	for id := range s.headers {
		h := s.headers[id]
		if h.InvoiceNum != invoiceNum || (orgID != nil && h.OrgID != *orgID) {
			continue
		}
		if best == nil || h.StagingID > best.StagingID {
			best = &h
		}
	}
	if best == nil {
		return nil, nil
	}
	return &entity.StagedInvoice{Header: *best, Lines: s.sortedLines(best.StagingID)}, nil
}

func (s *MemoryStore) LockHeader(_ context.Context, stagingID int64) (*entity.StagingStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status(stagingID), nil
}

func (s *MemoryStore) UpdateHeaderFlag(_ context.Context, stagingID int64, flag entity.ProcessFlag, msg *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[stagingID]
	if !ok {
		return nil
	}
	h.ProcessFlag = flag
	h.ErrorMessage = msg
	s.headers[stagingID] = h
	return nil
}

func (s *MemoryStore) UpdateLinesFlag(_ context.Context, stagingID int64, flag entity.ProcessFlag, msg *string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ls := s.lines[stagingID]
	for i := range ls {
		ls[i].ProcessFlag = flag
		ls[i].ErrorMessage = msg
	}
	return int64(len(ls)), nil
}

// RunStaging serializa las unidades de trabajo y restaura el estado si fn falla.
func (s *MemoryStore) RunStaging(_ context.Context, fn func(flags repository.StagingFlagRepository) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	headers, lines := s.snapshot()
	if err := fn(s); err != nil {
		s.mu.Lock()
		s.headers, s.lines = headers, lines
		s.mu.Unlock()
		return err
	}
	return nil
}

// SetFlag simula una escritura del procedimiento externo sobre cabecera y líneas.
func (s *MemoryStore) SetFlag(stagingID int64, flag entity.ProcessFlag, msg string) {
	var m *string
	if msg != "" {
		m = &msg
	}
	_ = s.UpdateHeaderFlag(context.Background(), stagingID, flag, m)
	_, _ = s.UpdateLinesFlag(context.Background(), stagingID, flag, m)
}

// Header copia de la cabecera, o nil.
func (s *MemoryStore) Header(stagingID int64) *entity.InvoiceHeader {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.headers[stagingID]
	if !ok {
		return nil
	}
	return &h
}

// Lines copia de las líneas ordenadas por line_number.
func (s *MemoryStore) Lines(stagingID int64) []*entity.InvoiceLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLines(stagingID)
}

func (s *MemoryStore) status(stagingID int64) *entity.StagingStatus {
	h, ok := s.headers[stagingID]
	if !ok {
		return nil
	}
	st := &entity.StagingStatus{
		StagingID:   h.StagingID,
		OrgID:       h.OrgID,
		InvoiceNum:  h.InvoiceNum,
		ProcessFlag: h.ProcessFlag,
	}
	if h.ErrorMessage != nil {
		st.ErrorMessage = *h.ErrorMessage
	}
	return st
}

func (s *MemoryStore) sortedLines(stagingID int64) []*entity.InvoiceLine {
	src := s.lines[stagingID]
	out := make([]*entity.InvoiceLine, 0, len(src))
	for i := range src {
		l := src[i]
		out = append(out, &l)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].LineNumber != out[j].LineNumber {
			return out[i].LineNumber < out[j].LineNumber
		}
		return out[i].LineStagingID < out[j].LineStagingID
	})
	return out
}

func (s *MemoryStore) snapshot() (map[int64]entity.InvoiceHeader, map[int64][]entity.InvoiceLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	headers := make(map[int64]entity.InvoiceHeader, len(s.headers))
	for k, v := range s.headers {
		headers[k] = v
	}
	lines := make(map[int64][]entity.InvoiceLine, len(s.lines))
	for k, v := range s.lines {
		lines[k] = append([]entity.InvoiceLine(nil), v...)
	}
	return headers, lines
}
