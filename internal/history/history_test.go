package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fentz26/toyrobot/internal/models"
)

func TestLog_AppendOrder(t *testing.T) {
	l := New()
	first := l.Append(models.HistoryEntry{Name: models.CmdMove, Text: "MOVE"})
	second := l.Append(models.HistoryEntry{Name: models.CmdReport, Text: "REPORT", Result: "1,2,NORTH"})

	assert.Equal(t, 1, first.Seq)
	assert.Equal(t, 2, second.Seq)
	entries := l.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "MOVE", entries[0].Text)
	assert.Equal(t, second, entries[1])
}

func TestLog_EntriesIsACopy(t *testing.T) {
	l := New()
	l.Append(models.HistoryEntry{Text: "MOVE"})

	entries := l.Entries()
	entries[0].Text = "LEFT"
	assert.Equal(t, "MOVE", l.Entries()[0].Text)
}

func TestLog_Clear(t *testing.T) {
	l := New()
	l.Append(models.HistoryEntry{Text: "MOVE"})
	l.Clear()

	assert.Empty(t, l.Entries())
	assert.Equal(t, 1, l.Append(models.HistoryEntry{Text: "LEFT"}).Seq)
}
