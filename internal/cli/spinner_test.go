package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, message string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &buf
	return s, &buf
}

func TestSpinnerStop(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Painting...")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(buf.String(), "Painting...") {
		t.Errorf("output %q should contain the message", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Error("Stop should leave a cleared line")
	}
}

func TestSpinnerContextCancel(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) { return context.WithCancel(context.Background()) }},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s, _ := quietSpinner(ctx, "Waiting...")
			s.Start()
			if tt.name == "cancel" {
				cancel()
			}

			select {
			case <-s.stopped:
			case <-time.After(time.Second):
				t.Fatal("spinner goroutine did not exit after the context ended")
			}
			if !s.Cancelled() {
				t.Error("Cancelled() = false after the context ended")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Stopping...")
	s.Start()
	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopWithoutStart(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Never started")
	s.Stop()
	if buf.Len() != 0 {
		t.Errorf("unstarted spinner wrote %q", buf.String())
	}
}

func TestSpinnerStatus(t *testing.T) {
	pending := 3
	s, _ := quietSpinner(context.Background(), "Painting PNG...")
	s.withStatus(func() string {
		if pending == 0 {
			return ""
		}
		return imagesLoading(pending)
	})

	if got := s.line(0); !strings.Contains(got, "Painting PNG... 3 images loading") {
		t.Errorf("line() = %q, want the status appended", got)
	}
	pending = 0
	if got := s.line(1); strings.Contains(got, "loading") {
		t.Errorf("line() = %q, empty status should be omitted", got)
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "Testing...")
	s.Start()
	s.StopWithSuccess("Done!")

	s, _ = quietSpinner(context.Background(), "Testing...")
	s.Start()
	s.StopWithError("Failed!")
}
