package lifecycle_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ap-invoice-staging/internal/domain"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/entity"
	"github.com/jhoicas/ap-invoice-staging/internal/domain/lifecycle"
)

var allFlags = []entity.ProcessFlag{"N", "V", "E", "P", "I", "X"}

// flagStore fake mínimo de repository.StagingFlagRepository que registra el orden de escrituras.
type flagStore struct {
	status    *entity.StagingStatus
	lines     int64
	calls     []string
	headerErr error
}

func (s *flagStore) LockHeader(_ context.Context, _ int64) (*entity.StagingStatus, error) {
	s.calls = append(s.calls, "lock")
	return s.status, nil
}

func (s *flagStore) UpdateHeaderFlag(_ context.Context, _ int64, flag entity.ProcessFlag, msg *string) error {
	s.calls = append(s.calls, "header:"+string(flag)+":"+*msg)
	return s.headerErr
}

func (s *flagStore) UpdateLinesFlag(_ context.Context, _ int64, flag entity.ProcessFlag, msg *string) (int64, error) {
	s.calls = append(s.calls, "lines:"+string(flag)+":"+*msg)
	return s.lines, nil
}

func TestDecide_TransitionTable(t *testing.T) {
	e := lifecycle.NewEngine()

	tests := []struct {
		event  lifecycle.Event
		actor  lifecycle.Actor
		legal  map[entity.ProcessFlag]entity.ProcessFlag
		errMsg string
	}{
		{lifecycle.EventValidateSucceeded, lifecycle.ActorExternalProcedure, map[entity.ProcessFlag]entity.ProcessFlag{"N": "V"}, ""},
		{lifecycle.EventValidateFailed, lifecycle.ActorExternalProcedure, map[entity.ProcessFlag]entity.ProcessFlag{"N": "E", "V": "E"}, "Invalid Vendor Number"},
		{lifecycle.EventImportSucceeded, lifecycle.ActorExternalProcedure, map[entity.ProcessFlag]entity.ProcessFlag{"V": "I"}, ""},
		{lifecycle.EventCancel, lifecycle.ActorService, map[entity.ProcessFlag]entity.ProcessFlag{"N": "X", "E": "X"}, lifecycle.CancelMessage},
	}

	for _, tt := range tests {
		t.Run(string(tt.event), func(t *testing.T) {
			for _, from := range allFlags {
				change, err := e.Decide(1, from, tt.event, tt.actor, tt.errMsg)
				to, legal := tt.legal[from]
				if !legal {
					var ite *domain.IllegalTransitionError
					require.ErrorAs(t, err, &ite, "desde %s", from)
					assert.Equal(t, from.Label(), ite.State)
					continue
				}
				require.NoError(t, err, "desde %s", from)
				assert.Equal(t, to, change.Flag)
				if to == entity.FlagError || to == entity.FlagCancelled {
					require.NotNil(t, change.ErrorMessage)
					assert.Equal(t, tt.errMsg, *change.ErrorMessage)
				}
			}
		})
	}
}

func TestDecide_TerminalStatesRejectEverything(t *testing.T) {
	e := lifecycle.NewEngine()
	for _, from := range []entity.ProcessFlag{entity.FlagCancelled, entity.FlagInterfaced} {
		assert.True(t, lifecycle.IsTerminal(from))
		for _, ev := range []lifecycle.Event{lifecycle.EventValidateSucceeded, lifecycle.EventValidateFailed, lifecycle.EventImportSucceeded} {
			_, err := e.Decide(1, from, ev, lifecycle.ActorExternalProcedure, "x")
			assert.ErrorIs(t, err, domain.ErrIllegalTransition)
		}
		_, err := e.Decide(1, from, lifecycle.EventCancel, lifecycle.ActorService, lifecycle.CancelMessage)
		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	}
}

func TestDecide_WrongActor(t *testing.T) {
	e := lifecycle.NewEngine()
	_, err := e.Decide(1, entity.FlagNew, lifecycle.EventValidateSucceeded, lifecycle.ActorService, "")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = e.Decide(1, entity.FlagNew, lifecycle.EventCancel, lifecycle.ActorExternalProcedure, lifecycle.CancelMessage)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestDecide_ErrorStatesRequireMessage(t *testing.T) {
	e := lifecycle.NewEngine()
	_, err := e.Decide(1, entity.FlagNew, lifecycle.EventCancel, lifecycle.ActorService, "  ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = e.Decide(1, entity.FlagValidated, lifecycle.EventValidateFailed, lifecycle.ActorExternalProcedure, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCancel_WritesHeaderThenLines(t *testing.T) {
	for _, from := range []entity.ProcessFlag{entity.FlagNew, entity.FlagError} {
		store := &flagStore{
			status: &entity.StagingStatus{StagingID: 8, InvoiceNum: "WIRA-TEST-001", ProcessFlag: from},
			lines:  2,
		}
		out, err := lifecycle.NewEngine().Cancel(context.Background(), store, 8)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"lock",
			"header:X:Cancelled by user",
			"lines:X:Cancelled by user",
		}, store.calls)
		assert.Equal(t, from, out.From)
		assert.Equal(t, entity.FlagCancelled, out.To)
		assert.Equal(t, int64(2), out.LinesAffected)
		assert.Equal(t, "WIRA-TEST-001", out.InvoiceNum)
	}
}

func TestCancel_RejectionWritesNothing(t *testing.T) {
	for _, from := range []entity.ProcessFlag{"V", "P", "I", "X"} {
		store := &flagStore{status: &entity.StagingStatus{StagingID: 8, ProcessFlag: from}}
		_, err := lifecycle.NewEngine().Cancel(context.Background(), store, 8)

		var ite *domain.IllegalTransitionError
		require.ErrorAs(t, err, &ite)
		assert.Equal(t, from.Label(), ite.State)
		assert.Equal(t, []string{"lock"}, store.calls, "un rechazo no debe escribir flags")
	}
}

func TestCancel_RejectionMessageCitesState(t *testing.T) {
	store := &flagStore{status: &entity.StagingStatus{StagingID: 8, ProcessFlag: entity.FlagCancelled}}
	_, err := lifecycle.NewEngine().Cancel(context.Background(), store, 8)

	assert.EqualError(t, err, "Cannot cancel invoice with status 'Cancelled'. Only New or Error status can be cancelled.")
}

func TestCancel_UnknownFlagIsRejected(t *testing.T) {
	store := &flagStore{status: &entity.StagingStatus{StagingID: 8, ProcessFlag: "Q"}}
	_, err := lifecycle.NewEngine().Cancel(context.Background(), store, 8)

	var ite *domain.IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, "Unknown", ite.State)
}

func TestCancel_NotFound(t *testing.T) {
	store := &flagStore{}
	_, err := lifecycle.NewEngine().Cancel(context.Background(), store, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCancel_StoreErrorStopsBeforeLines(t *testing.T) {
	boom := errors.New("connection reset")
	store := &flagStore{
		status:    &entity.StagingStatus{StagingID: 8, ProcessFlag: entity.FlagNew},
		headerErr: boom,
	}
	_, err := lifecycle.NewEngine().Cancel(context.Background(), store, 8)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, store.calls, 2)
}

func TestCheckProcess(t *testing.T) {
	e := lifecycle.NewEngine()
	for _, f := range allFlags {
		err := e.CheckProcess(8, f)
		if f == entity.FlagNew || f == entity.FlagValidated {
			assert.NoError(t, err, string(f))
			continue
		}
		assert.ErrorIs(t, err, domain.ErrIllegalTransition, string(f))
	}
	assert.EqualError(t, e.CheckProcess(8, entity.FlagInterfaced),
		"Cannot process invoice with status 'Interfaced'. Only New or Validated status can be processed.")
}
