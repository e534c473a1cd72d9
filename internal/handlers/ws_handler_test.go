package handlers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWSClient_SendNeverBlocks(t *testing.T) {
	c := newWSClient(nil, 2)

	done := make(chan []bool, 1)
	go func() {
		done <- []bool{c.Send([]byte("a")), c.Send([]byte("b")), c.Send([]byte("c"))}
	}()

	select {
	case got := <-done:
		require.Equal(t, []bool{true, true, false}, got)
	case <-time.After(time.Second):
		t.Fatal("Send blocked on a full queue")
	}
}

func TestWSClient_SendAfterClose(t *testing.T) {
	c := newWSClient(nil, 2)
	c.Close()
	c.Close()
	require.False(t, c.Send([]byte("a")))
}
