package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPorts_Validate(t *testing.T) {
	assert.NoError(t, (&Ports{Rebuilder: newMockRebuilder()}).Validate())
	assert.ErrorIs(t, (&Ports{}).Validate(), ErrMissingRebuilder)

	var nilPorts *Ports
	assert.ErrorIs(t, nilPorts.Validate(), ErrMissingRebuilder)
}
