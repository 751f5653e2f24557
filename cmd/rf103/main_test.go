package main

/*------------------------------------------------------------------
 *
 * Purpose:	Integration test for interactive transmit: a real
 *		pseudo-terminal in place of stdin exercises the idle
 *		timer's cooperative trailer flush end to end.
 *
 *---------------------------------------------------------------*/

import (
	"testing"
	"time"

	"github.com/creack/pty"
	"github.com/stretchr/testify/require"

	rf103 "github.com/n1fsk/rf103/src"
)

func TestInteractiveTransmitFlushesTrailerOnIdle(t *testing.T) {
	ptmx, tty, err := pty.Open()
	require.NoError(t, err)
	defer ptmx.Close()
	defer tty.Close()

	cfg, err := rf103.ParseArgs([]string{"-t", "300"}, rf103.LoadProfiles())
	require.NoError(t, err)

	backend := rf103.NewBenchBackend(nil)

	done := make(chan int, 1)
	go func() {
		done <- runTransmit(cfg, backend, ptmx)
	}()

	_, err = tty.Write([]byte("Q"))
	require.NoError(t, err)

	// Give the idle timer (one bit period plus 3% at 300 baud, ~3.4 ms) several
	// periods to fire its cooperative flush before we end the session.
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, tty.Close())

	select {
	case code := <-done:
		require.Equal(t, 0, code)
	case <-time.After(2 * time.Second):
		t.Fatal("runTransmit did not return after stdin closed")
	}
}
