package shared

import (
	"bytes"
	"testing"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	logger.Info("hello")

	if buf.Len() == 0 {
		t.Error("expected log output to be written")
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("generated IDs should not be empty")
	}
	if a == b {
		t.Error("generated IDs should be unique")
	}
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		ms   int
		want string
	}{
		{0, "0:00"},
		{1000, "0:01"},
		{61000, "1:01"},
		{215000, "3:35"},
	}

	for _, tc := range cases {
		if got := FormatDuration(tc.ms); got != tc.want {
			t.Errorf("FormatDuration(%d) = %s, want %s", tc.ms, got, tc.want)
		}
	}
}

func TestVisibilityString(t *testing.T) {
	if VisibilityString(true) != "Public" {
		t.Error("expected Public for true")
	}
	if VisibilityString(false) != "Private" {
		t.Error("expected Private for false")
	}
}

func TestGenerateState(t *testing.T) {
	first, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}
	if len(first) != 32 {
		t.Errorf("expected 32 hex characters, got %d", len(first))
	}

	second, err := GenerateState()
	if err != nil {
		t.Fatalf("failed to generate state: %v", err)
	}
	if first == second {
		t.Error("consecutive states should differ")
	}
}
