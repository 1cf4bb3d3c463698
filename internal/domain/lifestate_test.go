package domain

import (
	"errors"
	"testing"

	"github.com/checho03/granja-valencia/internal/pkg/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition_Table(t *testing.T) {
	cases := []struct {
		from, to LifeState
		ok       bool
	}{
		{StateActive, StateSold, true},
		{StateActive, StateDead, true},
		{StateActive, StateSick, true},
		{StateSick, StateActive, true},
		{StateSick, StateSold, true},
		{StateSick, StateDead, true},
		{StateActive, StateActive, false},
		{StateSick, StateSick, false},
		{StateSold, StateActive, false},
		{StateSold, StateDead, false},
		{StateSold, StateSick, false},
		{StateDead, StateActive, false},
		{StateDead, StateSold, false},
		{StateDead, StateSick, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.ok, CanTransition(tc.from, tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestTransition_RejectsWithTypedError(t *testing.T) {
	err := Transition(StateDead, StateActive)
	assert.Error(t, err)
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "DEAD")
	assert.Contains(t, err.Error(), "ACTIVE")

	var typed *apperrors.Error
	assert.True(t, errors.As(err, &typed))
}

func TestTransition_UnknownState(t *testing.T) {
	err := Transition(StateActive, LifeState("RETIRED"))
	assert.Equal(t, apperrors.KindInvalidTransition, apperrors.KindOf(err))
}

func TestLifeState_Predicates(t *testing.T) {
	assert.True(t, StateSold.IsTerminal())
	assert.True(t, StateDead.IsTerminal())
	assert.False(t, StateActive.IsTerminal())
	assert.False(t, StateSick.IsTerminal())

	assert.True(t, StateActive.OnSite())
	assert.True(t, StateSick.OnSite())
	assert.False(t, StateSold.OnSite())
	assert.False(t, StateDead.OnSite())
}
