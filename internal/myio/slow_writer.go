package myio

import (
	"io"
	"time"
)

type slowWriter struct {
	perByte time.Duration
}

// SlowWriter returns a writer that sleeps perByte for every byte written,
// standing in for a slow storage backend behind a hook.
func SlowWriter(perByte time.Duration) io.Writer {
	return &slowWriter{perByte: perByte}
}

func (w *slowWriter) Write(p []byte) (n int, err error) {
	time.Sleep(time.Duration(len(p)) * w.perByte)
	return len(p), nil
}
