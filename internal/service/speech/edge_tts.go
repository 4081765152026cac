package speech

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Edge read-aloud endpoint. The trusted client token is the public one
// shipped with the browser.
const (
	edgeWSURL = "wss://speech.platform.bing.com/consumer/speech/synthesize/readaloud/edge/v1"
	edgeToken = "6A5AA1D4EAFF4E9FB37E23D68491D6F4"
)

// EdgeTTSClient synthesizes speech over the Edge read-aloud WebSocket
// protocol: one speech.config frame, one SSML frame, then binary audio
// frames until the service signals turn.end.
type EdgeTTSClient struct {
	voice  string
	format string
	dialer *websocket.Dialer
}

// NewEdgeTTSClient creates a TTS client with a fixed voice and output
// format.
func NewEdgeTTSClient(voice, format string) *EdgeTTSClient {
	return &EdgeTTSClient{
		voice:  voice,
		format: format,
		dialer: &websocket.Dialer{
			HandshakeTimeout: 30 * time.Second,
		},
	}
}

type speechConfigPayload struct {
	Context struct {
		SynthesisConfig struct {
			Audio struct {
				MetadataOptions struct {
					SentenceBoundaryEnabled bool `json:"sentenceBoundaryEnabled"`
					WordBoundaryEnabled     bool `json:"wordBoundaryEnabled"`
				} `json:"metadataOptions"`
				OutputFormat string `json:"outputFormat"`
			} `json:"audio"`
		} `json:"synthesis"`
	} `json:"context"`
}

// SynthesizeToFile streams synthesized audio for text into outputPath.
// The file may still be flushing when this returns without error; callers
// poll for readiness.
func (c *EdgeTTSClient) SynthesizeToFile(ctx context.Context, text, outputPath string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("TTS text is empty")
	}

	connectID := strings.ReplaceAll(uuid.NewString(), "-", "")
	wsURL := edgeWSURL + "?TrustedClientToken=" + edgeToken + "&ConnectionId=" + connectID

	header := http.Header{}
	header.Set("Origin", "chrome-extension://jdiccldimpdaibmpdkjnbmckianbfold")

	conn, _, err := c.dialer.DialContext(ctx, wsURL, header)
	if err != nil {
		return fmt.Errorf("failed to connect to TTS WebSocket: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	if err := c.sendConfig(conn); err != nil {
		return err
	}
	if err := c.sendSSML(conn, connectID, text); err != nil {
		return err
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create audio file: %w", err)
	}
	defer out.Close()

	var written int64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		msgType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("failed to read TTS response: %w", err)
		}

		switch msgType {
		case websocket.TextMessage:
			if strings.Contains(string(data), "Path:turn.end") {
				if written == 0 {
					return fmt.Errorf("TTS audio is empty")
				}
				return nil
			}

		case websocket.BinaryMessage:
			chunk, ok := audioChunk(data)
			if !ok {
				continue
			}
			n, err := out.Write(chunk)
			if err != nil {
				return fmt.Errorf("failed to write audio chunk: %w", err)
			}
			written += int64(n)
		}
	}
}

func (c *EdgeTTSClient) sendConfig(conn *websocket.Conn) error {
	var payload speechConfigPayload
	payload.Context.SynthesisConfig.Audio.OutputFormat = c.format

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal speech config: %w", err)
	}

	frame := "Content-Type:application/json; charset=utf-8\r\n" +
		"Path:speech.config\r\n\r\n" + string(body)
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("failed to send speech config: %w", err)
	}
	return nil
}

func (c *EdgeTTSClient) sendSSML(conn *websocket.Conn, requestID, text string) error {
	ssml := fmt.Sprintf(
		"<speak version='1.0' xmlns='http://www.w3.org/2001/10/synthesis' xml:lang='en-US'>"+
			"<voice name='%s'>%s</voice></speak>",
		c.voice, escapeXML(text))

	frame := "X-RequestId:" + requestID + "\r\n" +
		"Content-Type:application/ssml+xml\r\n" +
		"Path:ssml\r\n\r\n" + ssml
	if err := conn.WriteMessage(websocket.TextMessage, []byte(frame)); err != nil {
		return fmt.Errorf("failed to send SSML request: %w", err)
	}
	return nil
}

// audioChunk extracts the payload of a binary frame whose header carries
// Path:audio. The first two bytes are the big-endian header length.
func audioChunk(data []byte) ([]byte, bool) {
	if len(data) < 2 {
		return nil, false
	}
	headerLen := int(binary.BigEndian.Uint16(data[:2]))
	if len(data) < 2+headerLen {
		return nil, false
	}
	header := data[2 : 2+headerLen]
	if !strings.Contains(string(header), "Path:audio") {
		return nil, false
	}
	return data[2+headerLen:], true
}

func escapeXML(s string) string {
	replacer := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return replacer.Replace(s)
}
