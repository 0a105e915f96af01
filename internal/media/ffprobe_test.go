package media

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFFProbeDuration(t *testing.T) {
	probe := NewFFProbe("ffprobe", time.Second)
	probe.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		if binary != "ffprobe" {
			t.Fatalf("unexpected binary %q", binary)
		}
		if args[len(args)-1] != "/tmp/clip.mp4" {
			t.Fatalf("expected path as final arg, got %v", args)
		}
		return []byte(`{"format":{"duration":"12.480000"}}`), nil
	}

	seconds, err := probe.Duration(context.Background(), "/tmp/clip.mp4")
	if err != nil {
		t.Fatalf("probe duration: %v", err)
	}
	if seconds != 12.48 {
		t.Fatalf("expected 12.48 got %v", seconds)
	}
}

func TestFFProbeDurationFailures(t *testing.T) {
	cases := []struct {
		name   string
		out    []byte
		runErr error
	}{
		{"runError", nil, errors.New("exit status 1")},
		{"badJSON", []byte("{"), nil},
		{"missingDuration", []byte(`{"format":{}}`), nil},
		{"unparsableDuration", []byte(`{"format":{"duration":"n/a"}}`), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			probe := NewFFProbe("", 0)
			probe.Run = func(context.Context, string, ...string) ([]byte, error) {
				return tc.out, tc.runErr
			}

			if _, err := probe.Duration(context.Background(), "clip.mp4"); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestFFProbeDefaults(t *testing.T) {
	probe := NewFFProbe("", 0)
	if probe.Binary != "ffprobe" {
		t.Fatalf("expected default binary, got %q", probe.Binary)
	}
	if probe.Timeout != 30*time.Second {
		t.Fatalf("expected default timeout, got %v", probe.Timeout)
	}

	var nilProbe *FFProbe
	if _, err := nilProbe.Duration(context.Background(), "x"); !errors.Is(err, ErrProberUnavailable) {
		t.Fatalf("expected ErrProberUnavailable, got %v", err)
	}
}
