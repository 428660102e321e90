package entity

// ScopeKind alcance efectivo de una ejecución del procedimiento de importación.
type ScopeKind string

const (
	ScopeInvoice ScopeKind = "invoice" // una sola factura (staging_id)
	ScopeBatch   ScopeKind = "batch"   // todas las facturas del batch_id
	ScopeOrg     ScopeKind = "org"     // todo lo pendiente de la unidad operativa
)

// ProcessScope calificadores de una ejecución. StagingID tiene prioridad sobre BatchID.
type ProcessScope struct {
	OrgID     int64
	BatchID   *int64
	StagingID *int64
}

// Kind devuelve el calificador que manda.
func (s ProcessScope) Kind() ScopeKind {
	switch {
	case s.StagingID != nil:
		return ScopeInvoice
	case s.BatchID != nil:
		return ScopeBatch
	default:
		return ScopeOrg
	}
}

// Normalize descarta BatchID cuando hay StagingID, de modo que el procedimiento
// reciba un único calificador autoritativo.
func (s ProcessScope) Normalize() ProcessScope {
	if s.StagingID != nil {
		s.BatchID = nil
	}
	return s
}

// ProcedureOutcome señal cruda devuelta por el procedimiento externo.
type ProcedureOutcome struct {
	ReturnCode string
	Message    *string
	TrackingID *int64 // id de la solicitud concurrente enviada, si la hubo
}
