package ws

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendMessage_DeliversToBuffer(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}

	c.SendMessage(NewErrorMessage("nope"))

	require.Len(t, c.Send, 1)
}

func TestSendMessage_AfterCloseIsDropped(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}
	c.Close()

	assert.NotPanics(t, func() { c.SendMessage(NewErrorMessage("late")) })
}

func TestClose_Idempotent(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}

	c.Close()
	assert.NotPanics(t, c.Close)
}

func TestSendMessage_FullBufferDropsMessage(t *testing.T) {
	c := &Client{ID: "c1", Send: make(chan []byte, 1)}

	c.SendMessage(NewErrorMessage("first"))
	assert.NotPanics(t, func() { c.SendMessage(NewErrorMessage("second")) })
	assert.Len(t, c.Send, 1)
}
