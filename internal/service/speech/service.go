// Package speech turns reply text into transport-ready audio. Synthesis
// is always best-effort: every failure collapses to a "no audio" result
// and the temporary artifact is removed on every exit path.
package speech

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// The external service does not guarantee the artifact is flushed when
// the call returns, so readiness is polled: one settle delay, then
// bounded existence/size checks.
const (
	settleDelay     = 500 * time.Millisecond
	pollInterval    = 100 * time.Millisecond
	maxPollAttempts = 5
	// synthesisTimeout bounds the round-trip even when the caller's
	// context carries no deadline of its own.
	synthesisTimeout = 30 * time.Second
)

var (
	markupPattern     = regexp.MustCompile(`<[^>]+>`)
	punctPattern      = regexp.MustCompile("[*_#`~>]")
	whitespacePattern = regexp.MustCompile(`\s+`)
)

// Client synthesizes speech for text into an audio file.
type Client interface {
	SynthesizeToFile(ctx context.Context, text, outputPath string) error
}

// Synthesizer wraps a TTS client with artifact lifecycle management.
type Synthesizer struct {
	client  Client
	tempDir string
}

// NewSynthesizer creates a synthesizer writing artifacts under tempDir.
func NewSynthesizer(client Client, tempDir string) *Synthesizer {
	return &Synthesizer{client: client, tempDir: tempDir}
}

// Synthesize returns base64-encoded audio for text, or the empty string
// when no audio could be produced. It never fails the turn.
func (s *Synthesizer) Synthesize(ctx context.Context, text string) string {
	clean := CleanText(text)
	if clean == "" {
		log.Printf("[tts] no text to convert to speech")
		return ""
	}

	if err := os.MkdirAll(s.tempDir, 0o755); err != nil {
		log.Printf("[tts] failed to create temp dir: %v", err)
		return ""
	}

	artifactPath := filepath.Join(s.tempDir,
		fmt.Sprintf("audio_%d_%s.mp3", time.Now().UnixMilli(), uuid.NewString()[:8]))

	// The artifact is removed no matter how synthesis ends.
	defer func() {
		if err := os.Remove(artifactPath); err != nil && !os.IsNotExist(err) {
			log.Printf("[tts] failed to cleanup temp audio file: %v", err)
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, synthesisTimeout)
	defer cancel()

	if err := s.client.SynthesizeToFile(ctx, clean, artifactPath); err != nil {
		log.Printf("[tts] synthesis failed: %v", err)
		return ""
	}

	if !s.waitReady(ctx, artifactPath) {
		log.Printf("[tts] audio file not ready after retries")
		return ""
	}

	data, err := os.ReadFile(artifactPath)
	if err != nil || len(data) == 0 {
		log.Printf("[tts] failed to read audio artifact: %v", err)
		return ""
	}

	log.Printf("[tts] audio created, size=%d bytes", len(data))
	return base64.StdEncoding.EncodeToString(data)
}

// waitReady blocks through the settle delay, then polls for a non-empty
// artifact up to maxPollAttempts times.
func (s *Synthesizer) waitReady(ctx context.Context, path string) bool {
	if !sleepCtx(ctx, settleDelay) {
		return false
	}
	for attempt := 0; attempt < maxPollAttempts; attempt++ {
		if info, err := os.Stat(path); err == nil && info.Size() > 0 {
			return true
		}
		if !sleepCtx(ctx, pollInterval) {
			return false
		}
	}
	return false
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

// CleanText strips markup tags and markdown punctuation and collapses
// whitespace, leaving text suitable for speech.
func CleanText(text string) string {
	text = markupPattern.ReplaceAllString(text, "")
	text = punctPattern.ReplaceAllString(text, "")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}
