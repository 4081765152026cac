// Package chat coordinates one conversational turn: context assembly,
// the model round-trip, directive parsing, best-effort speech synthesis
// and history persistence.
package chat

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanjiku/cortex-avatar/backend/internal/analysis/directive"
	"github.com/wanjiku/cortex-avatar/backend/internal/model/chat"
	"github.com/wanjiku/cortex-avatar/backend/internal/service/ai"
	"github.com/wanjiku/cortex-avatar/backend/internal/store"
	"github.com/wanjiku/cortex-avatar/backend/internal/timephrase"
)

var (
	// ErrMissingFields rejects turns without an utterance or sender.
	ErrMissingFields = errors.New("'message' and 'sender' are required")
	// ErrMessageTooLong rejects oversized utterances before any work.
	ErrMessageTooLong = errors.New("message too long")
	// ErrModelUnavailable marks a degraded turn for the transport layer.
	ErrModelUnavailable = errors.New("model unavailable")
)

const (
	// fallbackReply replaces an empty model answer so the caller always
	// receives text.
	fallbackReply = "I'm here to help!"
	// apologyReply is the fixed degraded-failure text.
	apologyReply = "I'm currently unavailable. Please try again later."
)

// ModelService is the single-round-trip model collaborator.
type ModelService interface {
	GenerateReply(ctx context.Context, sender, contextBlock, userMessage, clockPhrase, datePhrase string) (*ai.Reply, error)
}

// SpeechService converts reply text to transport-ready audio,
// best-effort.
type SpeechService interface {
	Synthesize(ctx context.Context, text string) string
}

// TurnRequest is one incoming chat turn.
type TurnRequest struct {
	Message string `json:"message"`
	Sender  string `json:"sender"`
	ChatID  string `json:"chatId"`
}

// TurnResponse is the combined reply envelope. AudioBase64 is the only
// field allowed to be null.
type TurnResponse struct {
	Response         string              `json:"response"`
	AudioBase64      *string             `json:"audioBase64"`
	Emotion          directive.Emotion   `json:"emotion"`
	BodyLanguage     []directive.Gesture `json:"bodyLanguage"`
	EmotionReasoning string              `json:"emotionReasoning"`
	ChatID           string              `json:"chatId,omitempty"`
	Error            string              `json:"error,omitempty"`
}

// Service orchestrates the turn pipeline.
type Service struct {
	store         store.Store
	model         ModelService
	speech        SpeechService
	zone          *time.Location
	maxMessageLen int
	development   bool
}

// NewService wires the orchestrator. model may be nil when the
// generative service is not configured; every turn then degrades.
// speech may be nil to disable audio.
func NewService(st store.Store, model ModelService, speech SpeechService, zone *time.Location, maxMessageLen int, development bool) *Service {
	if zone == nil {
		zone = time.UTC
	}
	if maxMessageLen < 1 {
		maxMessageLen = 5000
	}
	return &Service{
		store:         st,
		model:         model,
		speech:        speech,
		zone:          zone,
		maxMessageLen: maxMessageLen,
		development:   development,
	}
}

// ProcessTurn runs one turn end to end.
//
// Client input errors return (nil, err). An upstream model failure
// returns the fixed degraded envelope together with ErrModelUnavailable
// so the transport can pick status 500. Synthesis and persistence
// failures never fail an otherwise-successful turn.
func (s *Service) ProcessTurn(ctx context.Context, req TurnRequest) (*TurnResponse, error) {
	if strings.TrimSpace(req.Message) == "" || strings.TrimSpace(req.Sender) == "" {
		return nil, ErrMissingFields
	}
	if len(req.Message) > s.maxMessageLen {
		return nil, fmt.Errorf("%w: maximum %d characters", ErrMessageTooLong, s.maxMessageLen)
	}

	chatID := req.ChatID
	if chatID == "" {
		chatID = uuid.NewString()
	}

	turns := s.loadHistory(ctx, chatID)
	if ai.IsResetCommand(req.Message) {
		s.resetSession(ctx, chatID, req.Sender)
		turns = nil
	}
	contextBlock := ai.BuildContext(turns)

	if s.model == nil {
		return s.degraded(chatID, ErrModelUnavailable), ErrModelUnavailable
	}

	now := time.Now().In(s.zone)
	clockPhrase, datePhrase := timephrase.Phrases(now)

	reply, err := s.model.GenerateReply(ctx, req.Sender, contextBlock, req.Message, clockPhrase, datePhrase)
	if err != nil {
		log.Printf("[cortex] model call failed for chat=%s: %v", chatID, err)
		return s.degraded(chatID, err), ErrModelUnavailable
	}

	text := strings.TrimSpace(reply.Text)
	if text == "" {
		text = fallbackReply
	}

	var parsed directive.Directive
	if reply.HasToolCall {
		parsed = directive.ParseJSON(reply.ToolArgs, directive.Smile)
	} else {
		parsed = directive.Parse(nil, directive.Smile)
	}

	var audio *string
	if s.speech != nil {
		if encoded := s.speech.Synthesize(ctx, text); encoded != "" {
			audio = &encoded
		}
	}

	turn := chat.Turn{You: req.Message, Cortex: text, Timestamp: time.Now().UTC()}
	if err := s.store.AppendTurn(ctx, chatID, req.Sender, turn); err != nil {
		log.Printf("[cortex] failed to save chat history for chat=%s: %v", chatID, err)
	}

	return &TurnResponse{
		Response:         text,
		AudioBase64:      audio,
		Emotion:          parsed.Emotion,
		BodyLanguage:     parsed.Gestures,
		EmotionReasoning: parsed.Rationale,
		ChatID:           chatID,
	}, nil
}

func (s *Service) loadHistory(ctx context.Context, chatID string) []chat.Turn {
	session, err := s.store.FindSession(ctx, chatID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			log.Printf("[cortex] failed to load history for chat=%s: %v", chatID, err)
		}
		return nil
	}
	return session.Messages
}

// resetSession deletes the whole session, best-effort: a failure is
// logged and the turn proceeds with empty history.
func (s *Service) resetSession(ctx context.Context, chatID, sender string) {
	err := s.store.DeleteSession(ctx, chatID)
	switch {
	case err == nil:
		log.Printf("[cortex] chat history deleted for %s", sender)
	case errors.Is(err, store.ErrNotFound):
	default:
		log.Printf("[cortex] failed to delete chat history for %s: %v", sender, err)
	}
}

// degraded is the fixed fallback envelope for unrecoverable failures
// before a reply was produced.
func (s *Service) degraded(chatID string, cause error) *TurnResponse {
	parsed := directive.Degraded()
	resp := &TurnResponse{
		Response:         apologyReply,
		AudioBase64:      nil,
		Emotion:          parsed.Emotion,
		BodyLanguage:     parsed.Gestures,
		EmotionReasoning: "Service error",
		ChatID:           chatID,
	}
	if s.development && cause != nil {
		resp.Error = cause.Error()
	}
	return resp
}
