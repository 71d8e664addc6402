package tracing

import (
	"context"
	"testing"
)

func TestParseOTLPEndpoint(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"collector:4318", "collector:4318"},
		{"http://collector:4318", "collector:4318"},
		{"http://collector", "collector:4318"},
		{" https://otel.local:9999/v1/traces ", "otel.local:9999"},
	}
	for _, tt := range tests {
		got, err := parseOTLPEndpoint(tt.in)
		if err != nil {
			t.Fatalf("parseOTLPEndpoint(%q) error = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("parseOTLPEndpoint(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), "test", "")
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown() error = %v", err)
	}
}
