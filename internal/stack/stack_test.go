package stack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/fpstack/internal/fp"
)

func c(t *testing.T, f float64) fp.CompactFloat {
	t.Helper()
	v, err := fp.EncodeFloat64(f)
	require.NoError(t, err)
	return v
}

func TestPush_ShiftsSlotsDown(t *testing.T) {
	s := New()
	s.Push(c(t, 1))
	s.Push(c(t, 2))
	s.Push(c(t, 3))

	assert.Equal(t, 3, s.Depth())
	assert.Equal(t, c(t, 3), s.Top())

	snap := s.Snapshot()
	assert.Equal(t, c(t, 3), snap[0])
	assert.Equal(t, c(t, 2), snap[1])
	assert.Equal(t, c(t, 1), snap[2])
	assert.Equal(t, fp.Zero(), snap[3])
}

func TestPush_DeepestSlotDiscarded(t *testing.T) {
	s := New()
	for i := 1; i <= 5; i++ {
		s.Push(c(t, float64(i)))
	}

	// Depth saturates at 4; the oldest value (1) is gone.
	assert.Equal(t, Slots, s.Depth())
	snap := s.Snapshot()
	assert.Equal(t, c(t, 5), snap[0])
	assert.Equal(t, c(t, 2), snap[3])
}

func TestShiftOut_PromotesAndZeroesTail(t *testing.T) {
	s := New()
	s.Push(c(t, 10))
	s.Push(c(t, 3))

	got, err := s.ShiftOut()
	require.NoError(t, err)
	assert.Equal(t, c(t, 3), got)
	assert.Equal(t, 1, s.Depth())
	assert.Equal(t, c(t, 10), s.Top())

	// Slot 3 must be canonical zero, never a stale copy.
	assert.Equal(t, fp.Zero(), s.Snapshot()[3])

	got, err = s.ShiftOut()
	require.NoError(t, err)
	assert.Equal(t, c(t, 10), got)
	assert.Equal(t, 0, s.Depth())
}

func TestShiftOut_Underflow(t *testing.T) {
	s := New()
	_, err := s.ShiftOut()
	assert.ErrorIs(t, err, ErrUnderflow)
	assert.Equal(t, uint64(0), s.Shifts(), "failed shift must not count")
}

func TestShifts_CountsEveryConsumption(t *testing.T) {
	s := New()
	s.Push(c(t, 1))
	s.Push(c(t, 2))

	pre := s.Shifts()
	_, err := s.ShiftOut()
	require.NoError(t, err)
	_, err = s.ShiftOut()
	require.NoError(t, err)
	assert.Equal(t, pre+2, s.Shifts())
}

func TestClear_EmptiesButKeepsAccounting(t *testing.T) {
	s := New()
	s.Push(c(t, 1))
	_, err := s.ShiftOut()
	require.NoError(t, err)
	pre := s.Shifts()

	s.Push(c(t, 2))
	s.Clear()

	assert.Equal(t, 0, s.Depth())
	assert.Equal(t, fp.Zero(), s.Top())
	assert.Equal(t, pre, s.Shifts())
}

func TestNoStaleValuesAfterChurn(t *testing.T) {
	// Push/consume repeatedly and verify vacated slots never hold old
	// values. This is the regression guard for the double-shift class.
	s := New()
	for round := 0; round < 8; round++ {
		s.Push(c(t, 6))
		s.Push(c(t, 6))
		_, err := s.ShiftOut()
		require.NoError(t, err)
		_, err = s.ShiftOut()
		require.NoError(t, err)

		require.Equal(t, 0, s.Depth())
		for i, slot := range s.Snapshot() {
			require.Equal(t, fp.Zero(), slot, "round %d slot %d leaked", round, i)
		}
	}
}
