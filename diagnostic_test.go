package herlang

import (
	"encoding/json"
	"strings"
	"testing"
)

func diagnoseSrc(t *testing.T, src string) Diagnostic {
	t.Helper()
	_, err := newIP().EvalSource(src)
	if err == nil {
		t.Fatalf("want error for %q, got none", src)
	}
	d, ok := Diagnose(err)
	if !ok {
		t.Fatalf("Diagnose rejected %T: %v", err, err)
	}
	return d
}

func Test_Diagnose_Stages(t *testing.T) {
	cases := []struct {
		src   string
		stage string
	}{
		{`"unterminated`, "lex"},
		{"let = 1", "parse"},
		{"nope", "runtime"},
		{"1 / 0", "runtime"},
	}
	for _, tc := range cases {
		d := diagnoseSrc(t, tc.src)
		if d.Stage != tc.stage {
			t.Fatalf("stage of %q: want %s, got %s", tc.src, tc.stage, d.Stage)
		}
		if d.Message == "" {
			t.Fatalf("empty message for %q", tc.src)
		}
	}
}

func Test_Diagnose_RuntimeSpan(t *testing.T) {
	d := diagnoseSrc(t, "let x = 1;\nx + boom")
	if d.Span.Line != 2 || d.Span.Col != 4 {
		t.Fatalf("runtime span: want 2:4, got %d:%d", d.Span.Line, d.Span.Col)
	}
	if !strings.Contains(d.Message, "boom") {
		t.Fatalf("message should name the unknown binding: %q", d.Message)
	}
}

func Test_Diagnose_RejectsForeignErrors(t *testing.T) {
	if _, ok := Diagnose(json.Unmarshal([]byte("{"), &struct{}{})); ok {
		t.Fatalf("Diagnose must reject errors from outside the pipeline")
	}
}

func Test_Diagnostic_JSONShape(t *testing.T) {
	d := diagnoseSrc(t, "nope")
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"stage", "message", "span"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("diagnostic JSON missing %q: %s", key, raw)
		}
	}
	span := m["span"].(map[string]any)
	if _, ok := span["line"]; !ok {
		t.Fatalf("span JSON missing line: %s", raw)
	}
	// byte offsets are internal and stay out of the JSON
	if _, ok := span["StartByte"]; ok {
		t.Fatalf("span JSON leaks byte offsets: %s", raw)
	}
}
