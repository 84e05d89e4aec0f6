package document

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestParseScalars(t *testing.T) {
	root, err := Parse([]byte(`
count: 3
rate: 1.5
enabled: true
name: driver
nothing: null
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m, ok := root.(*Mapping)
	if !ok {
		t.Fatalf("expected *Mapping root, got %T", root)
	}

	tests := []struct {
		key  string
		want any
	}{
		{"count", 3},
		{"rate", 1.5},
		{"enabled", true},
		{"name", "driver"},
		{"nothing", nil},
	}
	for _, tt := range tests {
		got, ok := m.Get(tt.key)
		if !ok {
			t.Errorf("key %q missing", tt.key)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("key %q = %v (%T), want %v (%T)", tt.key, got, got, tt.want, tt.want)
		}
	}
}

func TestParseOrderPreserved(t *testing.T) {
	root, err := Parse([]byte("zulu: 1\nalpha: 2\nmike: 3\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m := root.(*Mapping)
	want := []string{"zulu", "alpha", "mike"}
	if !reflect.DeepEqual(m.Keys(), want) {
		t.Errorf("Keys() = %v, want %v", m.Keys(), want)
	}
}

func TestDuplicateKey(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"top level", "rate: 10\nrate: 20\n"},
		{"nested", "node:\n  params:\n    rate: 10\n    rate: 20\n"},
		{"inside sequence", "launch:\n- node:\n    pkg: a\n    pkg: b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("expected duplicate key error, got nil")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(pe.Message, "duplicate key") {
				t.Errorf("message = %q, want duplicate key mention", pe.Message)
			}
			if pe.Line == 0 {
				t.Error("duplicate key error carries no line number")
			}
		})
	}
}

func TestDuplicateKeyReportsFirstLine(t *testing.T) {
	_, err := Parse([]byte("a: 1\nrate: 10\nb: 2\nrate: 20\n"))
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %v", err)
	}
	if pe.Line != 4 {
		t.Errorf("Line = %d, want 4", pe.Line)
	}
	if !strings.Contains(pe.Message, "first defined at line 2") {
		t.Errorf("message = %q, want first-definition line 2", pe.Message)
	}
}

func TestEmptyDocument(t *testing.T) {
	for _, input := range []string{"", "\n", "# only a comment\n", "null\n", "---\n"} {
		_, err := Parse([]byte(input))
		if !errors.Is(err, ErrEmptyDocument) {
			t.Errorf("Parse(%q) = %v, want ErrEmptyDocument", input, err)
		}
	}
}

func TestMultiDocumentStreamRejected(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			"second document hides a duplicate key",
			"driver:\n  ros__parameters:\n    rate: 10\n---\ntracker:\n  ros__parameters:\n    rate: 10\n    rate: 20\n",
		},
		{
			"both documents well-formed",
			"a: 1\n---\nb: 2\n",
		},
		{
			"trailing empty document",
			"a: 1\n---\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if err == nil {
				t.Fatal("multi-document stream accepted")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("expected *ParseError, got %T: %v", err, err)
			}
			if !strings.Contains(pe.Message, "single document") {
				t.Errorf("message = %q, want single-document rejection", pe.Message)
			}
		})
	}
}

func TestNonScalarMappingKeyRejected(t *testing.T) {
	// Two distinct complex keys must not be folded together; the document
	// is rejected instead.
	_, err := Parse([]byte("{a: 1}: x\n{b: 2}: y\n"))
	if err == nil {
		t.Fatal("non-scalar mapping keys accepted")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T: %v", err, err)
	}
	if !strings.Contains(pe.Message, "mapping key is not a scalar") {
		t.Errorf("message = %q, want non-scalar key rejection", pe.Message)
	}
	if strings.Contains(pe.Message, "duplicate key") {
		t.Errorf("distinct complex keys misreported as duplicates: %q", pe.Message)
	}
}

func TestSyntaxError(t *testing.T) {
	_, err := Parse([]byte("a: [1, 2\n"))
	if err == nil {
		t.Fatal("expected syntax error, got nil")
	}
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ParseError, got %T", err)
	}
}

func TestParseDeterministic(t *testing.T) {
	input := []byte(`
launch:
- node:
    pkg: demo
    exec: run
    param:
    - {name: rate, value: 10}
`)
	first, err := Parse(input)
	if err != nil {
		t.Fatalf("first Parse failed: %v", err)
	}
	second, err := Parse(input)
	if err != nil {
		t.Fatalf("second Parse failed: %v", err)
	}
	if !reflect.DeepEqual(Interface(first), Interface(second)) {
		t.Error("two parses of the same input differ")
	}
}

func TestAliasResolution(t *testing.T) {
	root, err := Parse([]byte("base: &b hello\ncopy: *b\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	m := root.(*Mapping)
	v, _ := m.Get("copy")
	if v != "hello" {
		t.Errorf("alias value = %v, want hello", v)
	}
}

func TestInterface(t *testing.T) {
	root, err := Parse([]byte("a:\n  b: [1, two]\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := map[string]any{"a": map[string]any{"b": []any{1, "two"}}}
	if got := Interface(root); !reflect.DeepEqual(got, want) {
		t.Errorf("Interface() = %#v, want %#v", got, want)
	}
}

func TestStringsDocumentOrder(t *testing.T) {
	root, err := Parse([]byte("first: one\nlist:\n- two\n- deep:\n    third: three\nlast: four\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	want := []string{"one", "two", "three", "four"}
	if got := Strings(root); !reflect.DeepEqual(got, want) {
		t.Errorf("Strings() = %v, want %v", got, want)
	}
}

func TestContainsKey(t *testing.T) {
	root, err := Parse([]byte("outer:\n- inner:\n    ros__parameters:\n      rate: 10\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !ContainsKey(root, "ros__parameters") {
		t.Error("ContainsKey missed a key nested inside a sequence")
	}
	if ContainsKey(root, "absent") {
		t.Error("ContainsKey reported an absent key")
	}
}
