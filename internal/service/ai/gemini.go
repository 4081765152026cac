package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"
	"google.golang.org/genai"

	"github.com/wanjiku/cortex-avatar/backend/internal/config"
)

// geminiChatModel adapts the Google generative-language service to eino's
// ChatModel contract so it can sit at the end of a prompt chain. One
// Generate call is one round-trip; tool declarations bound via BindTools
// travel as function declarations and come back as ToolCalls.
type geminiChatModel struct {
	client *genai.Client
	model  string
	tools  []*genai.FunctionDeclaration
}

// NewChatModel creates a Gemini-backed chat model from configuration.
func NewChatModel(ctx context.Context, cfg config.AIConfig) (model.ChatModel, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("GEMINI_API_KEY is not configured")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &geminiChatModel{client: client, model: cfg.Model}, nil
}

func (m *geminiChatModel) Generate(ctx context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	contents, system := toGenaiContents(input)
	if len(contents) == 0 {
		return nil, fmt.Errorf("no user content to send")
	}

	genCfg := &genai.GenerateContentConfig{}
	if system != "" {
		genCfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}
	if len(m.tools) > 0 {
		genCfg.Tools = []*genai.Tool{{FunctionDeclarations: m.tools}}
		genCfg.ToolConfig = &genai.ToolConfig{
			FunctionCallingConfig: &genai.FunctionCallingConfig{
				Mode: genai.FunctionCallingConfigModeAuto,
			},
		}
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.model, contents, genCfg)
	if err != nil {
		return nil, fmt.Errorf("generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("model returned no candidates")
	}

	out := &schema.Message{Role: schema.Assistant}
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		if part.Text != "" {
			out.Content += part.Text
		}
		if part.FunctionCall != nil {
			args, err := json.Marshal(part.FunctionCall.Args)
			if err != nil {
				return nil, fmt.Errorf("marshal function-call args: %w", err)
			}
			out.ToolCalls = append(out.ToolCalls, schema.ToolCall{
				ID:   uuid.NewString(),
				Type: "function",
				Function: schema.FunctionCall{
					Name:      part.FunctionCall.Name,
					Arguments: string(args),
				},
			})
		}
	}

	return out, nil
}

func (m *geminiChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := m.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (m *geminiChatModel) BindTools(tools []*schema.ToolInfo) error {
	decls, err := toFunctionDeclarations(tools)
	if err != nil {
		return err
	}
	m.tools = decls
	return nil
}

// toGenaiContents splits eino messages into the content list and a merged
// system instruction, which Gemini accepts separately.
func toGenaiContents(input []*schema.Message) ([]*genai.Content, string) {
	var contents []*genai.Content
	var system []string

	for _, msg := range input {
		if msg == nil {
			continue
		}
		switch msg.Role {
		case schema.System:
			system = append(system, msg.Content)
		case schema.Assistant:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(msg.Content, genai.RoleUser))
		}
	}

	return contents, strings.Join(system, "\n\n")
}

func toFunctionDeclarations(tools []*schema.ToolInfo) ([]*genai.FunctionDeclaration, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, tool := range tools {
		if tool == nil {
			continue
		}
		decl := &genai.FunctionDeclaration{
			Name:        tool.Name,
			Description: tool.Desc,
		}
		if tool.ParamsOneOf != nil {
			params, err := tool.ParamsOneOf.ToOpenAPIV3()
			if err != nil {
				return nil, fmt.Errorf("tool %s params: %w", tool.Name, err)
			}
			decl.Parameters = toGenaiSchema(params)
		}
		decls = append(decls, decl)
	}
	return decls, nil
}

// toGenaiSchema converts the subset of OpenAPI v3 produced by eino tool
// declarations into the Gemini schema dialect.
func toGenaiSchema(s *openapi3.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{Description: s.Description}

	switch s.Type {
	case "object":
		out.Type = genai.TypeObject
		if len(s.Properties) > 0 {
			out.Properties = make(map[string]*genai.Schema, len(s.Properties))
			for name, ref := range s.Properties {
				if ref != nil {
					out.Properties[name] = toGenaiSchema(ref.Value)
				}
			}
		}
		out.Required = s.Required
	case "array":
		out.Type = genai.TypeArray
		if s.Items != nil {
			out.Items = toGenaiSchema(s.Items.Value)
		}
	case "integer":
		out.Type = genai.TypeInteger
	case "number":
		out.Type = genai.TypeNumber
	case "boolean":
		out.Type = genai.TypeBoolean
	default:
		out.Type = genai.TypeString
	}

	for _, v := range s.Enum {
		if str, ok := v.(string); ok {
			out.Enum = append(out.Enum, str)
		}
	}

	return out
}
