package dbglog

import "testing"

func TestEnabledReflectsVerboseMode(t *testing.T) {
	SetVerbose(true)
	defer SetVerbose(false)
	if !Enabled() {
		t.Fatal("expected Enabled() to be true after SetVerbose(true)")
	}
}

func TestQuietMode(t *testing.T) {
	SetQuiet(true)
	defer SetQuiet(false)
	if !IsQuiet() {
		t.Fatal("expected IsQuiet() to be true after SetQuiet(true)")
	}
}

func TestEnvelopeDoesNotPanicWhenDisabled(t *testing.T) {
	SetVerbose(false)
	Envelope("select", "classroom", "loaded")
}
