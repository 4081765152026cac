// Package ai performs the single generative-model round-trip for a chat
// turn and owns prompt composition.
package ai

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/wanjiku/cortex-avatar/backend/internal/config"
)

// Reply carries the model's textual answer plus the raw avatar
// function-call payload when the model chose to emit one. ToolArgs is
// untrusted and must go through directive parsing before use.
type Reply struct {
	Text        string
	ToolArgs    string
	HasToolCall bool
}

// Service encapsulates the model invocation chain.
type Service struct {
	chain    compose.Runnable[map[string]any, *schema.Message]
	preamble string
	timeout  time.Duration
}

// NewService builds the Gemini chat model, binds the avatar tool and
// compiles the prompt chain.
func NewService(ctx context.Context, cfg config.AIConfig) (*Service, error) {
	chatModel, err := NewChatModel(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}

	if err := chatModel.BindTools([]*schema.ToolInfo{avatarToolInfo()}); err != nil {
		return nil, fmt.Errorf("failed to bind avatar tool: %w", err)
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chain:    runnable,
		preamble: loadPreamble(cfg.PromptPath),
		timeout:  cfg.Timeout,
	}, nil
}

// GenerateReply performs one bounded model round-trip for the turn.
// contextBlock is the flattened history from BuildContext.
func (s *Service) GenerateReply(ctx context.Context, sender, contextBlock, userMessage, clockPhrase, datePhrase string) (*Reply, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	input := map[string]any{
		"system": buildSystemPrompt(s.preamble, sender, clockPhrase, datePhrase, contextBlock),
		"query":  userMessage,
	}

	msg, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to run AI chain: %w", err)
	}

	reply := &Reply{Text: strings.TrimSpace(msg.Content)}
	for _, call := range msg.ToolCalls {
		if call.Function.Name == AvatarToolName {
			reply.ToolArgs = call.Function.Arguments
			reply.HasToolCall = true
		}
	}

	log.Printf("[ai] generated reply for sender=%s, length=%d, toolCall=%t", sender, len(reply.Text), reply.HasToolCall)
	return reply, nil
}
