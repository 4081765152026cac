// Command speechtester exercises the Edge TTS client against the live
// service, outside the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/wanjiku/cortex-avatar/backend/internal/config"
	"github.com/wanjiku/cortex-avatar/backend/internal/service/speech"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	text := flag.String("text", "", "text to synthesize")
	voice := flag.String("voice", "", "voice name, defaults to TTS_VOICE")
	format := flag.String("format", "", "output format, defaults to TTS_FORMAT")
	outputPath := flag.String("out", "", "output audio file path (auto-generated when empty)")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	if strings.TrimSpace(*text) == "" {
		flag.Usage()
		log.Fatal("provide the text to synthesize with -text")
	}

	if *voice == "" {
		*voice = cfg.Speech.Voice
	}
	if *format == "" {
		*format = cfg.Speech.Format
	}
	if *outputPath == "" {
		*outputPath = fmt.Sprintf("tts-output-%d.mp3", time.Now().Unix())
	}

	client := speech.NewEdgeTTSClient(*voice, *format)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	log.Printf("synthesizing: voice=%s format=%s", *voice, *format)

	if err := client.SynthesizeToFile(ctx, speech.CleanText(*text), *outputPath); err != nil {
		log.Fatalf("synthesis failed: %v", err)
	}

	log.Printf("synthesis succeeded: wrote %s", *outputPath)
}
