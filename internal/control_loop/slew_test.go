package control_loop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlewControlLoop_Disabled(t *testing.T) {
	// GIVEN
	loop := NewSlewControlLoop(0)

	// WHEN
	result := loop.Loop(10, 0)

	// THEN
	assert.Equal(t, 10.0, result)
}

func TestSlewControlLoop_MaxChange(t *testing.T) {
	// GIVEN
	loop := NewSlewControlLoop(2)

	// WHEN
	command := loop.Loop(10, 0)

	// THEN
	assert.Equal(t, 2.0, command)

	// WHEN
	command = loop.Loop(10, command)

	// THEN
	assert.Equal(t, 4.0, command)

	// WHEN
	command = loop.Loop(-10, command)

	// THEN
	assert.Equal(t, 2.0, command)
}

func TestSlewControlLoop_ReachesTargetExactly(t *testing.T) {
	// GIVEN
	loop := NewSlewControlLoop(2)

	// WHEN
	result := loop.Loop(5, 4)

	// THEN
	assert.Equal(t, 5.0, result)
}
