package stagingtest

import (
	"context"
	"sync"

	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
)

// FakeProcedure doble de staging.ImportProcedure: devuelve Outcome/Err y registra cada alcance.
type FakeProcedure struct {
	mu      sync.Mutex
	Outcome *entity.ProcedureOutcome
	Err     error
	// OnInvoke se ejecuta antes de responder; sirve para simular escrituras del procedimiento.
	OnInvoke func(scope entity.ProcessScope)
	calls    []entity.ProcessScope
}

// Returning atajo para un procedimiento que siempre responde con el código y mensaje dados.
func Returning(code, message string) *FakeProcedure {
	out := &entity.ProcedureOutcome{ReturnCode: code}
	if message != "" {
		out.Message = &message
	}
	return &FakeProcedure{Outcome: out}
}

func (p *FakeProcedure) Invoke(_ context.Context, scope entity.ProcessScope) (*entity.ProcedureOutcome, error) {
	p.mu.Lock()
	p.calls = append(p.calls, scope)
	hook := p.OnInvoke
	p.mu.Unlock()

	if hook != nil {
		hook(scope)
	}
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Outcome, nil
}

// Calls alcances recibidos, en orden.
func (p *FakeProcedure) Calls() []entity.ProcessScope {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]entity.ProcessScope(nil), p.calls...)
}
