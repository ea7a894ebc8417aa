package app

import (
	"testing"
	"time"
)

func TestMonitorStatsStopsOnShutdown(t *testing.T) {
	a := &Application{done: make(chan struct{})}

	exited := make(chan struct{})
	go func() {
		a.monitorStats()
		close(exited)
	}()

	close(a.done)

	select {
	case <-exited:
	case <-time.After(time.Second):
		t.Fatal("monitorStats did not exit after shutdown")
	}
}
