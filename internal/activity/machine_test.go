package activity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typingcat/internal/sched"
)

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func newTestMachine(t *testing.T, opts ...Option) (*Machine, *sched.Manual) {
	t.Helper()
	clock := sched.NewManual(epoch)
	m := NewMachine(DefaultConfig(), clock, clock, opts...)
	t.Cleanup(m.Close)
	return m, clock
}

func TestMachine_StartsIdle(t *testing.T) {
	m, _ := newTestMachine(t)
	assert.Equal(t, Idle, m.Phase())
	assert.False(t, m.Escalated())
	require.NoError(t, m.State().Valid())
}

func TestMachine_FirstEditStartsLeft(t *testing.T) {
	m, clock := newTestMachine(t)
	m.OnEdit()

	st := m.State()
	assert.Equal(t, Typing, st.Phase)
	assert.Equal(t, Left, st.Hand)
	assert.Equal(t, epoch, st.StartedAt)
	assert.Equal(t, epoch.Add(DefaultDebounce), st.Deadline)
	assert.Equal(t, 1, clock.Pending())
	require.NoError(t, st.Valid())
}

func TestMachine_HandFlipsOnEveryEdit(t *testing.T) {
	m, clock := newTestMachine(t)
	want := []Hand{Left, Right, Left, Right, Left}
	for i, hand := range want {
		m.OnEdit()
		assert.Equal(t, Typing, m.Phase(), "edit %d", i)
		assert.Equal(t, hand, m.Hand(), "edit %d", i)
		clock.Advance(999 * time.Millisecond)
	}
	// Only one debounce timer is ever pending.
	assert.Equal(t, 1, clock.Pending())
}

func TestMachine_GoesIdleExactlyOnceAfterDebounce(t *testing.T) {
	var transitions []time.Time
	var clock *sched.Manual
	m, clock := newTestMachine(t, WithOnChange(func(s State) {
		if s.Phase == Idle {
			transitions = append(transitions, clock.Now())
		}
	}))

	m.OnEdit()
	clock.Advance(400 * time.Millisecond)
	m.OnEdit()
	last := clock.Now()

	clock.Advance(DefaultDebounce - time.Millisecond)
	assert.Equal(t, Typing, m.Phase())

	clock.Advance(time.Millisecond)
	assert.Equal(t, Idle, m.Phase())

	clock.Advance(10 * time.Second)
	require.Len(t, transitions, 1)
	assert.Equal(t, last.Add(DefaultDebounce), transitions[0])
	require.NoError(t, m.State().Valid())
}

func TestMachine_NextBurstStartsFromOppositeHand(t *testing.T) {
	m, clock := newTestMachine(t)
	m.OnEdit() // Left
	clock.Advance(2 * time.Second)
	require.Equal(t, Idle, m.Phase())
	assert.Equal(t, Left, m.Hand())

	m.OnEdit()
	assert.Equal(t, Right, m.Hand())
}

func TestMachine_EscalatesAfterThreshold(t *testing.T) {
	m, clock := newTestMachine(t)
	m.OnEdit()
	for i := 0; i < 6; i++ {
		clock.Advance(500 * time.Millisecond)
		m.OnEdit()
		assert.False(t, m.CheckEscalation(clock.Now()), "at %v", clock.Now().Sub(epoch))
	}
	// Exactly at the threshold is not enough.
	assert.Equal(t, DefaultEscalation, clock.Now().Sub(epoch))

	clock.Advance(time.Millisecond)
	assert.True(t, m.CheckEscalation(clock.Now()))
	assert.True(t, m.Escalated())

	// Monotonic while the burst continues.
	m.OnEdit()
	assert.True(t, m.CheckEscalation(clock.Now()))

	clock.Advance(DefaultDebounce)
	assert.Equal(t, Idle, m.Phase())
	assert.False(t, m.Escalated())
	assert.False(t, m.CheckEscalation(clock.Now()))
	require.NoError(t, m.State().Valid())
}

func TestMachine_EscalationNeedsContinuousBurst(t *testing.T) {
	m, clock := newTestMachine(t)
	m.OnEdit()
	clock.Advance(2 * time.Second) // idle
	m.OnEdit()
	clock.Advance(900 * time.Millisecond)
	m.OnEdit()
	assert.False(t, m.CheckEscalation(clock.Now()))
}

func TestMachine_CloseCancelsDebounce(t *testing.T) {
	var changes int
	clock := sched.NewManual(epoch)
	m := NewMachine(DefaultConfig(), clock, clock, WithOnChange(func(State) { changes++ }))
	m.OnEdit()
	m.Close()
	m.Close()
	assert.Equal(t, 0, clock.Pending())

	before := changes
	clock.Advance(5 * time.Second)
	m.OnEdit()
	assert.Equal(t, before, changes)
	assert.Equal(t, Typing, m.Phase())
}

func TestMachine_LateExpireAfterCloseIsNoop(t *testing.T) {
	m, _ := newTestMachine(t)
	m.OnEdit()
	m.Close()
	m.expire()
	assert.Equal(t, Typing, m.Phase())
}

func TestMachine_SetConfigAppliesToNextEdit(t *testing.T) {
	m, clock := newTestMachine(t)
	m.SetConfig(Config{Debounce: 200 * time.Millisecond, Escalation: time.Second})
	m.OnEdit()
	clock.Advance(200 * time.Millisecond)
	assert.Equal(t, Idle, m.Phase())
}

func TestStateValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		ok    bool
	}{
		{"idle", State{Phase: Idle}, true},
		{"typing", State{Phase: Typing, StartedAt: epoch, Deadline: epoch}, true},
		{"idle with start", State{Phase: Idle, StartedAt: epoch}, false},
		{"idle escalated", State{Phase: Idle, Escalated: true}, false},
		{"idle deadline", State{Phase: Idle, Deadline: epoch}, false},
		{"typing without start", State{Phase: Typing}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.state.Valid()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
