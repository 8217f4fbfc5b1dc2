package render

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/matzehuels/timeline/pkg/errors"
)

// fakeConverter installs a shell script in place of rsvg-convert.
func fakeConverter(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-rsvg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	old := rsvgBinary
	rsvgBinary = path
	t.Cleanup(func() { rsvgBinary = old })
}

func TestMissingConverter(t *testing.T) {
	old := rsvgBinary
	rsvgBinary = "definitely-not-rsvg-convert"
	t.Cleanup(func() { rsvgBinary = old })

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("error = %v, want UNSUPPORTED", err)
	}
	if !strings.Contains(err.Error(), "librsvg") {
		t.Errorf("error should carry an install hint: %v", err)
	}
}

func TestConvertArgs(t *testing.T) {
	fakeConverter(t, `echo "$@"; cat`)

	out, err := ToPNG(context.Background(), []byte("<svg/>"), 2)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(out), "-f png -z 2.00\n<svg/>"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}

	out, err = ToPDF(context.Background(), []byte("<svg/>"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "-f pdf\n") {
		t.Errorf("output = %q", out)
	}
}

func TestConvertFailure(t *testing.T) {
	fakeConverter(t, `echo "bad input" >&2; exit 1`)

	_, err := ToPDF(context.Background(), []byte("<svg"))
	if !errors.Is(err, errors.ErrCodeConversion) {
		t.Fatalf("error = %v, want CONVERSION_FAILED", err)
	}
	if !strings.Contains(err.Error(), "bad input") {
		t.Errorf("error should include stderr: %v", err)
	}
}

func TestInvalidZoom(t *testing.T) {
	if _, err := ToPNG(context.Background(), nil, 0); !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("error = %v, want INVALID_CONFIG", err)
	}
}
