package manifest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leodido/featcheck/detect"
)

func TestLintClean(t *testing.T) {
	t.Parallel()

	m := &Manifest{Features: []Entry{
		entry("a"),
		entry("x"),
		{Name: "b", Desc: "b", Deps: []string{"a", "os_linux"}, DepsNeg: []string{"x"}, Detect: detect.Spec{Kind: "true"}},
	}}
	require.Empty(t, m.Lint())
}

func TestLintOverlap(t *testing.T) {
	t.Parallel()

	m := &Manifest{Features: []Entry{
		entry("a"),
		{Name: "b", Desc: "b", Deps: []string{"a"}, DepsNeg: []string{"a"}, Detect: detect.Spec{Kind: "true"}},
	}}
	require.Equal(t, []Warning{{Feature: "b", Message: `"a" is in both deps and deps_neg`}}, m.Lint())
}

func TestLint(t *testing.T) {
	t.Parallel()

	m := &Manifest{Features: []Entry{
		{Name: "a", Desc: "a", Deps: []string{"a"}, Detect: detect.Spec{Kind: "true"}},
		{Name: "b", Desc: "b", Deps: []string{"c"}, DepsNeg: []string{"ghost", "os_windows"}, Detect: detect.Spec{Kind: "true"}},
		{Name: "c", Desc: "c", Detect: detect.Spec{Kind: "true"}},
	}}

	got := m.Lint()
	want := []Warning{
		{Feature: "a", Message: "deps references the feature itself"},
		{Feature: "b", Message: `deps references "c", declared later`},
		{Feature: "b", Message: `deps_neg references unknown feature "ghost"`},
	}
	require.Equal(t, want, got)
	require.Equal(t, "a: deps references the feature itself", got[0].String())
}
