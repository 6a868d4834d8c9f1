package loadout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/rogueforge/simcore/pkg/simerr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestLaunchFailsWhileRunning(t *testing.T) {
	o := New()
	block := make(chan struct{})
	score := func(c Candidate) (float64, float64) {
		<-block
		return 0, 0
	}
	require.NoError(t, o.Launch(10, 10, []Candidate{{SlotIndex: 0}}, score))
	err := o.Launch(10, 10, nil, score)
	assert.ErrorIs(t, err, simerr.ErrValidationFailed, "expected ErrValidationFailed for concurrent launch")
	close(block)
	_, err = o.Join()
	assert.NoError(t, err)
}

func TestJoinReturnsImprovementCount(t *testing.T) {
	o := New()
	candidates := []Candidate{
		{SlotIndex: 0, DefIndex: 1},
		{SlotIndex: 1, DefIndex: 2},
		{SlotIndex: 2, DefIndex: 3},
	}
	score := func(c Candidate) (float64, float64) {
		if c.DefIndex == 2 {
			return 0, 0 // below threshold
		}
		return 150, 5000
	}
	require.NoError(t, o.Launch(100, 4000, candidates, score))
	n, err := o.Join()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestRunningReflectsJobState(t *testing.T) {
	o := New()
	block := make(chan struct{})
	require.NoError(t, o.Launch(0, 0, []Candidate{{}}, func(Candidate) (float64, float64) {
		<-block
		return 0, 0
	}))
	assert.True(t, o.Running(), "expected Running to report true while the search is in flight")
	close(block)
	o.Join()
	assert.False(t, o.Running(), "expected Running to report false after Join completes")
}

func TestJoinWithoutLaunchFails(t *testing.T) {
	o := New()
	_, err := o.Join()
	assert.ErrorIs(t, err, simerr.ErrInvalidArgument)
}

func TestLaunchAfterPreviousJobCompletesSucceeds(t *testing.T) {
	o := New()
	score := func(Candidate) (float64, float64) { return 1, 1 }
	require.NoError(t, o.Launch(0, 0, []Candidate{{}}, score), "first Launch")
	_, err := o.Join()
	require.NoError(t, err)
	require.NoError(t, o.Launch(0, 0, []Candidate{{}}, score), "second Launch")
	_, err = o.Join()
	assert.NoError(t, err, "second Join")
}
