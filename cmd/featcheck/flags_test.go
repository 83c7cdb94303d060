package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/leodido/featcheck"
	"github.com/leodido/featcheck/detect"
	"github.com/leodido/featcheck/manifest"
)

func TestParseFeatureList(t *testing.T) {
	got := parseFeatureList(" alsa, ,pulse,alsa , jack ")
	require.Equal(t, featureList{"alsa", "pulse", "jack"}, got)
	require.Empty(t, parseFeatureList(""))
}

func TestFeatureListSet(t *testing.T) {
	var l featureList
	require.NoError(t, l.Set("a,b"))
	require.NoError(t, l.Set("b,c"))
	require.Equal(t, featureList{"a", "b", "c"}, l)
	require.Equal(t, "a,b,c", l.String())
	require.Equal(t, "features", l.Type())
}

func TestDecodeOutputFormat(t *testing.T) {
	got, err := decodeOutputFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, formatJSON, got)

	got, err = decodeOutputFormat("text")
	require.NoError(t, err)
	require.Equal(t, formatText, got)

	_, err = decodeOutputFormat("yaml")
	require.ErrorContains(t, err, `unknown output format: "yaml"`)

	got, err = decodeOutputFormat(formatJSON)
	require.NoError(t, err)
	require.Equal(t, formatJSON, got)
}

func TestCheckOptionsToggles(t *testing.T) {
	opts := &CheckOptions{
		Enable:  featureList{"a", "b"},
		Disable: featureList{"b"},
	}
	toggles := opts.toggles()
	require.Equal(t, featcheck.ToggleOn, toggles.Toggle(featcheck.OptionName("a")))
	require.Equal(t, featcheck.ToggleOff, toggles.Toggle(featcheck.OptionName("b")))
	require.Equal(t, featcheck.ToggleUnset, toggles.Toggle(featcheck.OptionName("c")))
}

func TestUnknownFeatures(t *testing.T) {
	m := &manifest.Manifest{Features: []manifest.Entry{
		{Name: "alsa", Desc: "ALSA", Detect: detect.Spec{Kind: "true"}},
	}}

	require.Empty(t, unknownFeatures(m, []string{"alsa", "os_linux"}, true))
	require.Equal(t, []string{"os_linux"}, unknownFeatures(m, []string{"alsa", "os_linux"}, false))

	err := checkKnownFeatures(m, "enable", []string{"jack"}, false)
	require.EqualError(t, err, `--enable: unknown feature: "jack" (available: alsa)`)
}

func TestCompleteFeatureList(t *testing.T) {
	names := []string{"alsa", "bpf-lsm", "bpf-syscall", "jack"}

	t.Run("empty input returns every feature", func(t *testing.T) {
		require.Equal(t, names, completeFeatureList(names, ""))
	})

	t.Run("prefix filter is case-insensitive", func(t *testing.T) {
		require.Equal(t, []string{"bpf-lsm", "bpf-syscall"}, completeFeatureList(names, "BPF-"))
	})

	t.Run("comma-separated completion prefixes and avoids duplicates", func(t *testing.T) {
		got := completeFeatureList(names, "BPF-LSM,bpf")
		require.Equal(t, []string{"BPF-LSM,bpf-syscall"}, got)
	})
}

func TestDescribeSpec(t *testing.T) {
	spec := detect.Spec{Kind: "any", Checks: []detect.Spec{
		{Kind: "false"},
		{Kind: "env", Args: []string{"HOME"}},
	}}
	require.Equal(t, "any(false, env(HOME))", describeSpec(spec))
	require.Equal(t, "pkgconfig", describeSpec(detect.Spec{Kind: "pkgconfig"}))
}
