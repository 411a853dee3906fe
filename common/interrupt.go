package common

import (
	"os"
	"os/signal"
	"syscall"
)

// Interrupted returns a channel delivering shutdown signals.
// Buffered so a second signal during teardown is not lost.
func Interrupted() <-chan os.Signal {
	interrupt := make(chan os.Signal, 2)
	signal.Notify(interrupt,
		os.Interrupt,
		syscall.SIGTERM, syscall.SIGQUIT,
	)
	return interrupt
}
