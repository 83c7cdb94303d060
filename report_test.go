package featcheck

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"
)

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 24)

	_, err := Resolve(context.Background(), []Feature{
		{Name: "a", Desc: "a", Detect: detectConst(true, nil)},
		{Name: "b", Desc: "b", Deps: []string{"zz"}, Detect: detectConst(true, nil)},
		{Name: "c", Desc: "a very long description beyond the column", DepsNeg: []string{"a"}, Detect: detectConst(true, nil)},
	}, WithTargetOS("linux"), WithReporter(r))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	// A bytes.Buffer is not a terminal, so no color codes are emitted.
	want := strings.Join([]string{
		"Detected target OS:     : os_linux",
		"Checking for a          : yes",
		"Checking for b          : zz not found",
		"Checking for a very long description beyond the column : a found",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("output =\n%s\nwant\n%s", got, want)
	}
}

func TestConsoleReporter_DefaultColumn(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, 0)
	r.Start("Checking for x")
	r.End("yes", SeverityNormal)

	line := strings.TrimSuffix(buf.String(), "\n")
	if idx := strings.Index(line, ": yes"); idx != DefaultColumn {
		t.Errorf("separator at column %d, want %d (%q)", idx, DefaultColumn, line)
	}
}

func TestConsoleReporter_PadsByDisplayWidth(t *testing.T) {
	tests := []struct {
		name string
		msg  string
	}{
		{name: "ascii", msg: "Checking for unicode"},
		{name: "accented", msg: "Checking for ünïcödé"},
		{name: "wide", msg: "Checking for 音声"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			r := NewConsoleReporter(&buf, 0)
			r.Start(tt.msg)
			r.End("yes", SeverityNormal)

			line := strings.TrimSuffix(buf.String(), "\n")
			head, _, ok := strings.Cut(line, ": yes")
			if !ok {
				t.Fatalf("no separator in %q", line)
			}
			if got := runewidth.StringWidth(head); got != DefaultColumn {
				t.Errorf("separator at display column %d, want %d (%q)", got, DefaultColumn, line)
			}
		})
	}
}

func TestMultiReporter(t *testing.T) {
	first, second := &Recorder{}, &Recorder{}
	r := MultiReporter(first, nil, second)
	r.Start("Checking for x")
	r.End("no", SeverityError)

	for i, rec := range []*Recorder{first, second} {
		got := rec.Notices()
		want := Notice{Start: "Checking for x", End: "no", Severity: SeverityError}
		if len(got) != 1 || got[0] != want {
			t.Errorf("recorder %d notices = %+v", i, got)
		}
	}
}

func TestRecorder_EndWithoutStart(t *testing.T) {
	rec := &Recorder{}
	rec.End("orphan", SeverityWarn)
	got := rec.Notices()
	if len(got) != 1 || got[0].End != "orphan" || got[0].Start != "" {
		t.Errorf("notices = %+v", got)
	}
}
