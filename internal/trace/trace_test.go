package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "error", "phase", "detail", "DEBUG"} {
		lvl, err := ParseLevel(s)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", s, err)
		}
		if !strings.EqualFold(lvl.String(), s) {
			t.Errorf("ParseLevel(%q).String() = %q", s, lvl.String())
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestShouldEmit(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeFile, true},
		{LevelPhase, ScopePhase, false},
		{LevelDetail, ScopePhase, true},
		{LevelDebug, ScopePhase, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%v.ShouldEmit(%v) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr, err := New(Config{Level: LevelDetail, Format: FormatNDJSON, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	ctx := WithTracer(context.Background(), tr)

	ctx, batch := StartSpan(ctx, ScopeDriver, "batch")
	_, file := StartSpan(ctx, ScopeFile, "a.xml")
	file.WithExtra("changed", "true").End("")
	batch.End("1 file")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d events:\n%s", len(lines), buf.String())
	}
	var ev struct {
		Kind     string            `json:"kind"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		Extra    map[string]string `json:"extra"`
	}
	if err := json.Unmarshal([]byte(lines[2]), &ev); err != nil {
		t.Fatal(err)
	}
	if ev.Kind != "end" || ev.Name != "a.xml" || ev.ParentID != batch.ID() || ev.Extra["changed"] != "true" {
		t.Errorf("unexpected file end event: %+v", ev)
	}
}

func TestErrorPointAtErrorLevel(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelError, FormatText)

	sp := Begin(tr, ScopeFile, "skipped.xml", 0)
	sp.End("")
	Point(tr, ScopeDriver, "ignored", "", 0)
	Error(tr, "bad.xml", errors.New("parse error"), 0)

	out := buf.String()
	if strings.Contains(out, "skipped.xml") || strings.Contains(out, "ignored") {
		t.Errorf("LevelError must drop spans and points:\n%s", out)
	}
	if !strings.Contains(out, "bad.xml") || !strings.Contains(out, "error=parse error") {
		t.Errorf("error point missing:\n%s", out)
	}
}

func TestNopFromEmptyContext(t *testing.T) {
	if FromContext(context.Background()).Enabled() {
		t.Fatal("empty context must yield the nop tracer")
	}
	ctx, sp := StartSpan(context.Background(), ScopeFile, "x")
	if sp.ID() != 0 || CurrentSpan(ctx) != 0 {
		t.Fatal("nop spans must not be propagated")
	}
}
