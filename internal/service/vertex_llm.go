package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"cloud.google.com/go/vertexai/genai"
	"google.golang.org/api/option"
)

// VertexLLM owns the Vertex AI client shared by every Gemini model of the failover list.
type VertexLLM struct {
	client *genai.Client
}

// NewVertexLLM creates a Vertex AI client for the given project and region.
func NewVertexLLM(ctx context.Context, projectID, location string) (*VertexLLM, error) {
	if projectID == "" {
		return nil, errors.New("vertex ai: project id is required")
	}

	// Get credentials from environment or service account file
	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}

	client, err := genai.NewClient(ctx, projectID, location, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Vertex AI client: %w", err)
	}
	return &VertexLLM{client: client}, nil
}

// Models returns one LanguageModel per profile, in order.
func (l *VertexLLM) Models(profiles []ModelProfile) []LanguageModel {
	out := make([]LanguageModel, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, &geminiModel{client: l.client, profile: p})
	}
	return out
}

// Transcriber returns a Transcriber backed by the named Gemini model.
func (l *VertexLLM) Transcriber(model string) Transcriber {
	return &GeminiTranscriber{model: l.client.GenerativeModel(model)}
}

// Close closes the Vertex AI client
func (l *VertexLLM) Close() error {
	return l.client.Close()
}

// ---- model + session -------------------------------------------------------

type geminiModel struct {
	client  *genai.Client
	profile ModelProfile
}

func (m *geminiModel) Name() string { return m.profile.Name }

func (m *geminiModel) StartChat(system string, tools []ToolSpec, history []Turn) ChatSession {
	gm := m.client.GenerativeModel(m.profile.Name)
	if m.profile.Temperature > 0 {
		gm.SetTemperature(m.profile.Temperature)
	}
	if m.profile.MaxOutputTokens > 0 {
		gm.SetMaxOutputTokens(m.profile.MaxOutputTokens)
	}
	if system != "" {
		gm.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(system)}}
	}
	if len(tools) > 0 {
		gm.Tools = []*genai.Tool{toGenaiTool(tools)}
	}

	cs := gm.StartChat()
	for _, t := range history {
		role := "model"
		if t.FromUser {
			role = "user"
		}
		cs.History = append(cs.History, &genai.Content{Role: role, Parts: []genai.Part{genai.Text(t.Text)}})
	}
	return &geminiSession{cs: cs}
}

type geminiSession struct {
	cs *genai.ChatSession
}

func (s *geminiSession) Send(ctx context.Context, text string) (ModelReply, error) {
	resp, err := s.cs.SendMessage(ctx, genai.Text(text))
	if err != nil {
		return ModelReply{}, err
	}
	return fromGenaiResponse(resp)
}

func (s *geminiSession) SendToolResults(ctx context.Context, results []ToolResult) (ModelReply, error) {
	parts := make([]genai.Part, 0, len(results))
	for _, r := range results {
		parts = append(parts, genai.FunctionResponse{Name: r.Name, Response: r.Response})
	}
	resp, err := s.cs.SendMessage(ctx, parts...)
	if err != nil {
		return ModelReply{}, err
	}
	return fromGenaiResponse(resp)
}

// ---- conversions -----------------------------------------------------------

func toGenaiTool(specs []ToolSpec) *genai.Tool {
	decls := make([]*genai.FunctionDeclaration, 0, len(specs))
	for _, spec := range specs {
		props := make(map[string]*genai.Schema, len(spec.Params))
		for _, p := range spec.Params {
			typ := genai.TypeString
			if p.Type == "number" {
				typ = genai.TypeNumber
			}
			props[p.Name] = &genai.Schema{Type: typ, Description: p.Description}
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        spec.Name,
			Description: spec.Description,
			Parameters:  &genai.Schema{Type: genai.TypeObject, Properties: props},
		})
	}
	return &genai.Tool{FunctionDeclarations: decls}
}

func fromGenaiResponse(resp *genai.GenerateContentResponse) (ModelReply, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return ModelReply{}, errors.New("no response generated")
	}

	var out ModelReply
	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		switch p := part.(type) {
		case genai.Text:
			text.WriteString(string(p))
		case genai.FunctionCall:
			out.Calls = append(out.Calls, ToolCall{Name: p.Name, Args: p.Args})
		case *genai.FunctionCall:
			out.Calls = append(out.Calls, ToolCall{Name: p.Name, Args: p.Args})
		}
	}
	out.Text = text.String()
	return out, nil
}
