package httptool

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/JulianKimmig/asynctoolkit/tool"
)

func captureExtension(calls *int, seen *Request) Extension {
	return func(ctx context.Context, req Request) (Response, error) {
		*calls++
		if seen != nil {
			*seen = req
		}
		resp, err := newClientResponse(textResponse(200, "200 OK", "ok"), req.URL, false)
		if err != nil {
			return nil, err
		}
		return resp, nil
	}
}

func TestDoRejectsDataAndJSONBeforeResolution(t *testing.T) {
	calls := 0
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("capture", captureExtension(&calls, nil), false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ht := NewWithRegistry(reg)
	_, err := ht.Do(context.Background(), Request{
		URL:  "http://unit-test.local/x",
		Data: "raw",
		JSON: map[string]any{"k": "v"},
	})
	if err == nil {
		t.Fatal("Do() error = nil, want validation error")
	}
	if !strings.Contains(err.Error(), "data and json") {
		t.Errorf("Do() error = %q, want it to name data and json", err)
	}
	if calls != 0 {
		t.Errorf("backend calls = %d, want 0", calls)
	}
}

func TestDoRoutesToDefaultExtension(t *testing.T) {
	callsA, callsB := 0, 0
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("a", captureExtension(&callsA, nil), false); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}
	if err := reg.Register("b", captureExtension(&callsB, nil), false); err != nil {
		t.Fatalf("Register(b) error = %v", err)
	}

	ht := NewWithRegistry(reg)
	resp, err := ht.Do(context.Background(), Request{URL: "http://unit-test.local/x"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Close()

	if callsA != 1 || callsB != 0 {
		t.Errorf("calls = a:%d b:%d, want a:1 b:0", callsA, callsB)
	}
}

func TestDoRoutesToNamedExtension(t *testing.T) {
	callsA, callsB := 0, 0
	var seen Request
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("a", captureExtension(&callsA, nil), false); err != nil {
		t.Fatalf("Register(a) error = %v", err)
	}
	if err := reg.Register("b", captureExtension(&callsB, &seen), false); err != nil {
		t.Fatalf("Register(b) error = %v", err)
	}

	ht := NewWithRegistry(reg)
	resp, err := ht.Do(context.Background(), Request{
		URL:       "http://unit-test.local/x",
		Extension: "b",
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Close()

	if callsA != 0 || callsB != 1 {
		t.Errorf("calls = a:%d b:%d, want a:0 b:1", callsA, callsB)
	}
	if seen.Extension != "" {
		t.Errorf("backend saw Extension = %q, want stripped", seen.Extension)
	}
}

func TestDoUnknownExtension(t *testing.T) {
	calls := 0
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("a", captureExtension(&calls, nil), false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ht := NewWithRegistry(reg)
	_, err := ht.Do(context.Background(), Request{
		URL:       "http://unit-test.local/x",
		Extension: "missing",
	})
	if !errors.Is(err, tool.ErrExtensionNotFound) {
		t.Errorf("Do() error = %v, want ErrExtensionNotFound", err)
	}
	if calls != 0 {
		t.Errorf("backend calls = %d, want 0", calls)
	}
}

func TestDoEmptyRegistry(t *testing.T) {
	ht := NewWithRegistry(tool.NewRegistry[Extension]())

	_, err := ht.Do(context.Background(), Request{URL: "http://unit-test.local/x"})
	if !errors.Is(err, tool.ErrNoExtensionAvailable) {
		t.Errorf("Do() error = %v, want ErrNoExtensionAvailable", err)
	}
}

func TestDoEmitsObservation(t *testing.T) {
	capture := &observationCapture{}
	tool.SetObserver(capture)
	defer tool.SetObserver(nil)

	calls := 0
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("nethttp", captureExtension(&calls, nil), false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ht := NewWithRegistry(reg)
	resp, err := ht.Do(context.Background(), Request{URL: "http://unit-test.local/x"})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	defer resp.Close()

	if len(capture.seen) != 1 {
		t.Fatalf("observations = %d, want 1", len(capture.seen))
	}
	obs := capture.seen[0]
	if obs.Tool != ToolName || obs.Extension != "nethttp" || !obs.Success {
		t.Errorf("observation = %+v", obs)
	}
}

type observationCapture struct {
	seen []tool.InvokeObservation
}

func (c *observationCapture) ObserveInvoke(obs tool.InvokeObservation) {
	c.seen = append(c.seen, obs)
}

func TestRunDecodesArgs(t *testing.T) {
	var seen Request
	calls := 0
	reg := tool.NewRegistry[Extension]()
	if err := reg.Register("capture", captureExtension(&calls, &seen), false); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	ht := NewWithRegistry(reg)
	result, err := ht.Run(context.Background(), map[string]any{
		"url":     "http://unit-test.local/items",
		"method":  "post",
		"headers": map[string]any{"Accept": "application/json"},
		"params":  map[string]any{"page": "2"},
		"stream":  true,
		"timeout": 5,
		"json":    map[string]any{"name": "widget"},
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	resp, ok := result.(Response)
	if !ok {
		t.Fatalf("Run() result = %T, want Response", result)
	}
	defer resp.Close()

	if seen.URL != "http://unit-test.local/items" || seen.Method != "post" {
		t.Errorf("request = %+v", seen)
	}
	if seen.Headers["Accept"] != "application/json" || seen.Params["page"] != "2" {
		t.Errorf("headers/params = %v / %v", seen.Headers, seen.Params)
	}
	if !seen.Stream || seen.Timeout != 5*time.Second {
		t.Errorf("stream/timeout = %v / %v", seen.Stream, seen.Timeout)
	}
	if seen.JSON == nil {
		t.Error("json body not forwarded")
	}
}

func TestRunRequiresURL(t *testing.T) {
	ht := New()
	if _, err := ht.Run(context.Background(), map[string]any{"method": "GET"}); err == nil {
		t.Fatal("Run() error = nil, want missing-url error")
	}
}

func TestNewRegistersBuiltins(t *testing.T) {
	ht := New()
	names := ht.Registry().Names()
	if len(names) != 2 || names[0] != ExtensionNetHTTP || names[1] != ExtensionOTelHTTP {
		t.Errorf("Names() = %v, want [nethttp otelhttp]", names)
	}
	if def, ok := ht.Registry().Default(); !ok || def != ExtensionNetHTTP {
		t.Errorf("Default() = %q, %v", def, ok)
	}
}

func TestRegisterBuiltinUnknownName(t *testing.T) {
	reg := tool.NewRegistry[Extension]()
	err := RegisterBuiltin(reg, "carrier-pigeon")
	if err == nil || !strings.Contains(err.Error(), "carrier-pigeon") {
		t.Errorf("RegisterBuiltin() error = %v, want it to name the extension", err)
	}
}
