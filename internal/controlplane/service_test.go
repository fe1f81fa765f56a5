package controlplane

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/toyrobot/internal/audit"
	"github.com/fentz26/toyrobot/internal/codec"
	"github.com/fentz26/toyrobot/internal/engine"
	"github.com/fentz26/toyrobot/internal/logger"
	"github.com/fentz26/toyrobot/internal/models"
)

type fakeAuditor struct {
	entries []audit.Entry
	err     error
}

func (f *fakeAuditor) Record(e audit.Entry) (*models.AuditRecord, error) {
	f.entries = append(f.entries, e)
	if f.err != nil {
		return nil, f.err
	}
	return &models.AuditRecord{SessionID: e.SessionID, Command: e.Command, Outcome: e.Outcome}, nil
}

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	eng, err := engine.New(engine.DefaultSize)
	require.NoError(t, err)
	opts = append([]Option{
		WithLogger(logger.New(io.Discard)),
		WithClock(func() time.Time { return fixedNow }),
	}, opts...)
	return NewService(eng, opts...)
}

func mustExec(t *testing.T, s *Service, text string) models.HistoryEntry {
	t.Helper()
	entry, err := s.ExecuteText(text)
	require.NoError(t, err, text)
	return entry
}

func TestExecuteText_Sequence(t *testing.T) {
	s := newTestService(t)

	mustExec(t, s, "PLACE_ROBOT 3,3,NORTH")
	mustExec(t, s, "PLACE_WALL 3,5")
	mustExec(t, s, "MOVE")
	mustExec(t, s, "MOVE") // blocked by wall
	mustExec(t, s, "RIGHT")
	mustExec(t, s, "MOVE")
	report := mustExec(t, s, "report")

	assert.Equal(t, "4,4,EAST", report.Result)
	assert.Equal(t, 7, report.Seq)

	var texts []string
	for _, e := range s.History() {
		texts = append(texts, e.Text)
	}
	assert.Equal(t, []string{
		"PLACE_ROBOT 3,3,NORTH", "PLACE_WALL 3,5", "MOVE", "MOVE", "RIGHT", "MOVE", "REPORT",
	}, texts)
}

func TestExecute_StructuredCommand(t *testing.T) {
	s := newTestService(t)

	entry, err := s.Execute(models.PlaceRobot{Position: models.Position{X: 3, Y: 2}, Direction: models.East})
	require.NoError(t, err)
	assert.Equal(t, models.HistoryEntry{
		Seq:     1,
		Name:    models.CmdPlaceRobot,
		Command: models.PlaceRobot{Position: models.Position{X: 3, Y: 2}, Direction: models.East},
		Text:    "PLACE_ROBOT 3,2,EAST",
		At:      fixedNow,
	}, entry)
}

func TestExecute_NoopsStillRecorded(t *testing.T) {
	s := newTestService(t)

	mustExec(t, s, "MOVE")
	mustExec(t, s, "LEFT")
	entry := mustExec(t, s, "REPORT")
	mustExec(t, s, "PLACE_WALL 9,9")

	assert.Empty(t, entry.Result, "no robot means no report result")
	assert.Len(t, s.History(), 4)
	assert.Nil(t, s.State().Robot)
}

func TestExecuteText_OverflowingCoordinateIsIgnored(t *testing.T) {
	fa := &fakeAuditor{}
	s := newTestService(t, WithAuditor(fa))
	before := s.State()

	entry := mustExec(t, s, "PLACE_WALL 99999999999999999999,1")
	assert.Equal(t, 1, entry.Seq)
	assert.Equal(t, models.CmdPlaceWall, entry.Name)
	require.Len(t, s.History(), 1)

	after := s.State()
	if diff := cmp.Diff(before.Cells, after.Cells); diff != "" {
		t.Errorf("board changed (-before +after):\n%s", diff)
	}
	require.Len(t, fa.entries, 1)
	assert.Equal(t, models.OutcomeIgnored, fa.entries[0].Outcome)
}

func TestExecuteText_RejectedLeavesStateAlone(t *testing.T) {
	s := newTestService(t)
	mustExec(t, s, "PLACE_ROBOT 1,1,SOUTH")
	before := s.State()

	for _, in := range []string{"JUMP", "PLACE_ROBOT 1,2", "PLACE_WALL x,y", "", "MOVE NOW"} {
		_, err := s.ExecuteText(in)
		require.Error(t, err, in)
		assert.True(t,
			errors.Is(err, codec.ErrUnknownCommand) || errors.Is(err, codec.ErrMalformed) || errors.Is(err, codec.ErrEmpty),
			"unexpected error for %q: %v", in, err)
	}

	if diff := cmp.Diff(before, s.State()); diff != "" {
		t.Errorf("state changed (-before +after):\n%s", diff)
	}
}

func TestExecute_NilCommand(t *testing.T) {
	s := newTestService(t)
	_, err := s.Execute(nil)
	assert.ErrorIs(t, err, codec.ErrUnknownCommand)
	assert.Empty(t, s.History())
}

func TestReport_ResultMatchesRobot(t *testing.T) {
	s := newTestService(t)
	mustExec(t, s, "PLACE_ROBOT 2,5,NORTH")
	mustExec(t, s, "MOVE")

	entry := mustExec(t, s, "REPORT")
	got, ok := s.Report()
	require.True(t, ok)
	assert.Equal(t, "2,1,NORTH", got)
	assert.Equal(t, got, entry.Result)
	assert.Len(t, s.History(), 3, "Report() itself records nothing")
}

func TestReset_ClearsEverything(t *testing.T) {
	s := newTestService(t)
	mustExec(t, s, "PLACE_WALL 1,1")
	mustExec(t, s, "PLACE_ROBOT 2,2,WEST")

	s.Reset()

	st := s.State()
	assert.Empty(t, st.History)
	assert.Nil(t, st.Robot)
	assert.Equal(t, models.Empty, s.CellContent(models.Position{X: 1, Y: 1}))
	assert.Equal(t, 1, mustExec(t, s, "MOVE").Seq)
}

func TestReset_StartsNewJournalSession(t *testing.T) {
	fa := &fakeAuditor{}
	s := newTestService(t, WithAuditor(fa))
	first := s.SessionID()
	mustExec(t, s, "MOVE")

	s.Reset()
	require.NotEqual(t, first, s.SessionID())
	mustExec(t, s, "MOVE")

	require.Len(t, fa.entries, 2)
	assert.Equal(t, 1, fa.entries[0].Seq)
	assert.Equal(t, 1, fa.entries[1].Seq)
	assert.Equal(t, first, fa.entries[0].SessionID)
	assert.Equal(t, s.SessionID(), fa.entries[1].SessionID)
}

func TestExecute_InvalidDirectionRejected(t *testing.T) {
	fa := &fakeAuditor{}
	s := newTestService(t, WithAuditor(fa))

	_, err := s.Execute(models.PlaceRobot{Position: models.Position{X: 4, Y: 4}, Direction: models.Direction(9)})
	assert.ErrorIs(t, err, codec.ErrMalformed)
	assert.Empty(t, s.History())
	assert.Nil(t, s.State().Robot)
	assert.Empty(t, fa.entries)
}

func TestAuditor_Outcomes(t *testing.T) {
	fa := &fakeAuditor{}
	s := newTestService(t, WithAuditor(fa))

	mustExec(t, s, "MOVE")
	mustExec(t, s, "PLACE_ROBOT 1,1,NORTH")
	mustExec(t, s, "REPORT")
	_, _ = s.ExecuteText("FLY 1,2")

	require.Len(t, fa.entries, 4)
	assert.Equal(t, models.OutcomeIgnored, fa.entries[0].Outcome)
	assert.Equal(t, models.OutcomeApplied, fa.entries[1].Outcome)
	assert.Equal(t, "1,1,NORTH", fa.entries[2].Result)
	assert.Equal(t, models.OutcomeRejected, fa.entries[3].Outcome)
	assert.Equal(t, "FLY 1,2", fa.entries[3].Command)
	assert.Zero(t, fa.entries[3].Seq)
	for _, e := range fa.entries {
		assert.Equal(t, s.SessionID(), e.SessionID)
	}
}

func TestAuditor_FailureDoesNotAffectGame(t *testing.T) {
	fa := &fakeAuditor{err: errors.New("disk full")}
	s := newTestService(t, WithAuditor(fa))

	entry, err := s.ExecuteText("PLACE_ROBOT 1,1,NORTH")
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Seq)
	assert.NotNil(t, s.State().Robot)
}
