package detect

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/leodido/featcheck"
)

func detectOK(t *testing.T, d featcheck.Detector, id string) bool {
	t.Helper()
	ok, err := d.Detect(context.Background(), id)
	require.NoError(t, err)
	return ok
}

func TestConstants(t *testing.T) {
	require.True(t, detectOK(t, True(), "x"))
	require.False(t, detectOK(t, False(), "x"))
}

func TestEnv(t *testing.T) {
	t.Setenv("FEATCHECK_TEST_SET", "1")
	t.Setenv("FEATCHECK_TEST_EMPTY", "")

	require.True(t, detectOK(t, Env("FEATCHECK_TEST_SET"), "x"))
	require.False(t, detectOK(t, Env("FEATCHECK_TEST_EMPTY"), "x"))
	require.False(t, detectOK(t, Env("FEATCHECK_TEST_UNDEFINED_VARIABLE"), "x"))

	require.True(t, detectOK(t, EnvEquals("FEATCHECK_TEST_SET", "1"), "x"))
	require.False(t, detectOK(t, EnvEquals("FEATCHECK_TEST_SET", "2"), "x"))
	require.True(t, detectOK(t, EnvEquals("FEATCHECK_TEST_EMPTY", ""), "x"))
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "present.h")
	require.NoError(t, os.WriteFile(present, []byte("#pragma once\n"), 0o644))

	require.True(t, detectOK(t, File(present, dir), "x"))
	require.False(t, detectOK(t, File(present, filepath.Join(dir, "missing.h")), "x"))
}

func TestCommand(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on a POSIX shell in PATH")
	}
	require.True(t, detectOK(t, Command("sh"), "x"))
	require.False(t, detectOK(t, Command("sh", "featcheck-no-such-command"), "x"))

	// Without names the identifier is looked up.
	require.True(t, detectOK(t, Command(), "sh"))
	require.False(t, detectOK(t, Command(), "featcheck-no-such-command"))
}

func TestPkgConfig(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("relies on POSIX true/false binaries")
	}

	t.Run("package found", func(t *testing.T) {
		t.Setenv("PKG_CONFIG", "true")
		require.True(t, detectOK(t, PkgConfig("libfoo"), "x"))
	})

	t.Run("package missing", func(t *testing.T) {
		t.Setenv("PKG_CONFIG", "false")
		require.False(t, detectOK(t, PkgConfig(), "libfoo"))
	})

	t.Run("pkg-config missing", func(t *testing.T) {
		t.Setenv("PKG_CONFIG", "featcheck-no-such-pkg-config")
		require.False(t, detectOK(t, PkgConfig("libfoo"), "x"))
	})

	t.Run("cancelled run is an error", func(t *testing.T) {
		slow := filepath.Join(t.TempDir(), "pkg-config")
		require.NoError(t, os.WriteFile(slow, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755))
		t.Setenv("PKG_CONFIG", slow)

		ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
		defer cancel()

		ok, err := PkgConfig("libfoo").Detect(ctx, "x")
		require.False(t, ok)
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})
}
