package tool

import (
	"testing"
	"time"
)

func TestArgString(t *testing.T) {
	args := map[string]any{"url": "http://example", "count": 3}

	got, ok, err := ArgString(args, "url")
	if err != nil || !ok || got != "http://example" {
		t.Errorf("ArgString(url) = %q, %v, %v", got, ok, err)
	}

	if _, ok, err := ArgString(args, "missing"); ok || err != nil {
		t.Errorf("ArgString(missing) = _, %v, %v, want absent", ok, err)
	}

	if _, _, err := ArgString(args, "count"); err == nil {
		t.Error("ArgString(count) error = nil, want type error")
	}
}

func TestArgBool(t *testing.T) {
	args := map[string]any{"stream": true, "url": "x"}

	got, ok, err := ArgBool(args, "stream")
	if err != nil || !ok || !got {
		t.Errorf("ArgBool(stream) = %v, %v, %v", got, ok, err)
	}
	if _, _, err := ArgBool(args, "url"); err == nil {
		t.Error("ArgBool(url) error = nil, want type error")
	}
}

func TestArgDuration(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  time.Duration
	}{
		{"duration", 5 * time.Second, 5 * time.Second},
		{"string", "250ms", 250 * time.Millisecond},
		{"int seconds", 3, 3 * time.Second},
		{"float seconds", 1.5, 1500 * time.Millisecond},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := ArgDuration(map[string]any{"timeout": tt.value}, "timeout")
			if err != nil {
				t.Fatalf("ArgDuration() error = %v", err)
			}
			if !ok || got != tt.want {
				t.Errorf("ArgDuration() = %v, want %v", got, tt.want)
			}
		})
	}

	if _, _, err := ArgDuration(map[string]any{"timeout": "nope"}, "timeout"); err == nil {
		t.Error("ArgDuration(invalid) error = nil, want non-nil")
	}
}

func TestArgStringMap(t *testing.T) {
	got, ok, err := ArgStringMap(map[string]any{
		"headers": map[string]any{"Accept": "application/json"},
	}, "headers")
	if err != nil || !ok {
		t.Fatalf("ArgStringMap() = %v, %v", ok, err)
	}
	if got["Accept"] != "application/json" {
		t.Errorf("headers[Accept] = %q", got["Accept"])
	}

	got, _, err = ArgStringMap(map[string]any{
		"headers": map[string]string{"X-Test": "1"},
	}, "headers")
	if err != nil || got["X-Test"] != "1" {
		t.Errorf("ArgStringMap(typed) = %v, %v", got, err)
	}

	if _, _, err := ArgStringMap(map[string]any{
		"headers": map[string]any{"X-Test": 1},
	}, "headers"); err == nil {
		t.Error("ArgStringMap(non-string value) error = nil, want non-nil")
	}
}
