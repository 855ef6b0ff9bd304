package applog

import "testing"

func TestNopImplementsLogger(t *testing.T) {
	var l Logger = Nop{}

	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")

	if _, ok := l.With("k", "v").(Logger); !ok {
		t.Fatal("With should return a Logger")
	}
}

func TestZapLoggerImplementsLogger(t *testing.T) {
	var l Logger = New()

	l.Info("engine starting", "pages", 4)
	child := l.With("component", "table")
	child.Debug("page allocated", "page_id", 1)
}
