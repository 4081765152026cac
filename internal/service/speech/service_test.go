package speech

import (
	"context"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// fakeClient writes canned audio bytes, or nothing at all, to simulate
// an external service with asynchronous artifact completion.
type fakeClient struct {
	audio       []byte
	err         error
	lastPath    string
	skipWrite   bool
	hadDeadline bool
}

func (f *fakeClient) SynthesizeToFile(ctx context.Context, _ string, outputPath string) error {
	_, f.hadDeadline = ctx.Deadline()
	f.lastPath = outputPath
	if f.err != nil {
		return f.err
	}
	if f.skipWrite {
		return nil
	}
	return os.WriteFile(outputPath, f.audio, 0o644)
}

func TestSynthesizeSuccess(t *testing.T) {
	client := &fakeClient{audio: []byte("mp3-bytes")}
	s := NewSynthesizer(client, t.TempDir())

	got := s.Synthesize(context.Background(), "Hello there!")
	want := base64.StdEncoding.EncodeToString([]byte("mp3-bytes"))
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if _, err := os.Stat(client.lastPath); !os.IsNotExist(err) {
		t.Fatalf("artifact %s must be removed after success", client.lastPath)
	}
}

func TestSynthesizeBoundsClientCall(t *testing.T) {
	client := &fakeClient{audio: []byte("mp3")}
	s := NewSynthesizer(client, t.TempDir())

	// A plain request context carries no deadline of its own.
	s.Synthesize(context.Background(), "hello")
	if !client.hadDeadline {
		t.Fatal("client must be called under a deadline")
	}
}

func TestSynthesizeEmptyTextSkipsClient(t *testing.T) {
	client := &fakeClient{err: errors.New("must not be called")}
	s := NewSynthesizer(client, t.TempDir())

	if got := s.Synthesize(context.Background(), "  **  "); got != "" {
		t.Fatalf("expected no audio, got %q", got)
	}
	if client.lastPath != "" {
		t.Fatal("client must not be invoked for empty cleaned text")
	}
}

func TestSynthesizeClientErrorCleansUp(t *testing.T) {
	client := &fakeClient{err: errors.New("boom")}
	s := NewSynthesizer(client, t.TempDir())

	if got := s.Synthesize(context.Background(), "hello"); got != "" {
		t.Fatalf("expected no audio, got %q", got)
	}
	if _, err := os.Stat(client.lastPath); !os.IsNotExist(err) {
		t.Fatalf("artifact must not linger after client error")
	}
}

func TestSynthesizeNeverReadyTimesOut(t *testing.T) {
	client := &fakeClient{skipWrite: true}
	dir := t.TempDir()
	s := NewSynthesizer(client, dir)

	if got := s.Synthesize(context.Background(), "hello"); got != "" {
		t.Fatalf("expected no audio for never-ready artifact, got %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("temp dir must be empty after timeout, found %d entries", len(entries))
	}
}

func TestSynthesizeEmptyArtifactRejected(t *testing.T) {
	client := &fakeClient{audio: nil}
	s := NewSynthesizer(client, t.TempDir())

	if got := s.Synthesize(context.Background(), "hello"); got != "" {
		t.Fatalf("expected no audio for zero-byte artifact, got %q", got)
	}
}

func TestSynthesizeCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := &fakeClient{audio: []byte("mp3")}
	s := NewSynthesizer(client, t.TempDir())

	if got := s.Synthesize(ctx, "hello"); got != "" {
		t.Fatalf("expected no audio on cancelled context, got %q", got)
	}
	if _, err := os.Stat(client.lastPath); !os.IsNotExist(err) {
		t.Fatal("artifact must be removed on cancellation")
	}
}

func TestSynthesizeArtifactNamesAreUnique(t *testing.T) {
	client := &fakeClient{audio: []byte("mp3")}
	s := NewSynthesizer(client, t.TempDir())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		s.Synthesize(context.Background(), "hello")
		if seen[client.lastPath] {
			t.Fatalf("artifact path reused: %s", client.lastPath)
		}
		seen[client.lastPath] = true
	}
}

func TestCleanText(t *testing.T) {
	cases := map[string]string{
		"<b>Hello</b> *world*":    "Hello world",
		"# Heading\n\ntext `go` ": "Heading text go",
		"   ":                     "",
		"plain":                   "plain",
	}
	for in, want := range cases {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestEdgeClientEmptyText(t *testing.T) {
	c := NewEdgeTTSClient("en-US-AvaNeural", "audio-24khz-96kbitrate-mono-mp3")
	if err := c.SynthesizeToFile(context.Background(), "   ", filepath.Join(t.TempDir(), "out.mp3")); err == nil {
		t.Fatal("expected error for empty text")
	}
}
