package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/user/hsk-life/config"
	"github.com/user/hsk-life/internal/interfaces"
	"github.com/user/hsk-life/internal/types"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

var (
	// ErrNoAPIKey is returned by every request when the service runs without a key
	ErrNoAPIKey = errors.New("gemini api key not configured")

	// ErrEmptyResponse is returned when the model produced no text
	ErrEmptyResponse = errors.New("empty model response")
)

var (
	_ interfaces.DialogueService = (*GeminiService)(nil)
	_ interfaces.ExamService     = (*GeminiService)(nil)
)

// Generator turns a prompt into raw model text
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type modelGenerator struct {
	model *genai.GenerativeModel
}

func (g *modelGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	if b.Len() == 0 {
		return "", ErrEmptyResponse
	}
	return b.String(), nil
}

// GeminiService answers dialogue and exam turns with a Gemini model
type GeminiService struct {
	client  *genai.Client
	gen     Generator
	timeout time.Duration
	Logger  *zap.Logger
}

// NewGeminiService connects to Gemini. Without an API key the service is still
// returned, and every request fails with ErrNoAPIKey so callers fall back.
func NewGeminiService(ctx context.Context, cfg config.GeminiConfig, apiKey string, logger *zap.Logger) (*GeminiService, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if apiKey == "" {
		logger.Warn("Gemini API key missing, dialogue will use fallback replies",
			zap.String("env", cfg.APIKeyEnv))
		return NewService(nil, cfg.RequestTimeout(), logger), nil
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	model := client.GenerativeModel(cfg.Model)
	model.ResponseMIMEType = "application/json"

	svc := NewService(&modelGenerator{model: model}, cfg.RequestTimeout(), logger)
	svc.client = client
	logger.Info("Gemini service ready", zap.String("model", cfg.Model))
	return svc, nil
}

// NewService builds a service around any generator
func NewService(gen Generator, timeout time.Duration, logger *zap.Logger) *GeminiService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GeminiService{gen: gen, timeout: timeout, Logger: logger}
}

// Close releases the underlying client
func (s *GeminiService) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

type dialogueWire struct {
	ChineseResponse    string             `json:"chineseResponse"`
	Pinyin             string             `json:"pinyin"`
	EnglishTranslation string             `json:"englishTranslation"`
	FaceChange         int                `json:"faceChange"`
	Action             *actionWire        `json:"action"`
	Suggestions        []types.Suggestion `json:"suggestions"`
}

type actionWire struct {
	Type   string `json:"type"`
	ItemID string `json:"itemId"`
}

type examWire struct {
	ExaminerResponse string `json:"examinerResponse"`
	Pinyin           string `json:"pinyin"`
	Translation      string `json:"translation"`
	Finished         bool   `json:"finished"`
	Passed           bool   `json:"passed"`
}

// Respond generates an NPC reply
func (s *GeminiService) Respond(ctx context.Context, req types.DialogueRequest) (types.DialogueReply, error) {
	var wire dialogueWire
	if err := s.generateJSON(ctx, buildDialoguePrompt(req), &wire); err != nil {
		return types.DialogueReply{}, err
	}

	reply := types.DialogueReply{
		Text:        wire.ChineseResponse,
		Pinyin:      wire.Pinyin,
		Translation: wire.EnglishTranslation,
		FaceChange:  wire.FaceChange,
		Suggestions: wire.Suggestions,
	}
	if len(reply.Suggestions) > types.MaxSuggestions {
		reply.Suggestions = reply.Suggestions[:types.MaxSuggestions]
	}
	if reply.Text == "" {
		reply.Text = "..."
	}
	if wire.Action != nil && wire.Action.Type != "" {
		reply.Action = &types.Action{Type: types.ActionType(wire.Action.Type), ItemID: wire.Action.ItemID}
	}
	return reply, nil
}

// Examine grades one exam answer
func (s *GeminiService) Examine(ctx context.Context, req types.ExamRequest) (types.ExamReply, error) {
	var wire examWire
	if err := s.generateJSON(ctx, buildExamPrompt(req), &wire); err != nil {
		return types.ExamReply{}, err
	}

	reply := types.ExamReply{
		Text:        wire.ExaminerResponse,
		Pinyin:      wire.Pinyin,
		Translation: wire.Translation,
		Finished:    wire.Finished,
		Passed:      wire.Passed && wire.Finished,
	}
	if reply.Text == "" {
		reply.Text = "..."
	}
	return reply, nil
}

// generateJSON asks the model and decodes its answer into out, retrying once with a
// reminder when the answer is not valid JSON
func (s *GeminiService) generateJSON(ctx context.Context, prompt string, out any) error {
	if s.gen == nil {
		return ErrNoAPIKey
	}
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	var parseErr error
	for attempt := 0; attempt < 2; attempt++ {
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return fmt.Errorf("failed to generate content: %w", err)
		}
		if parseErr = json.Unmarshal([]byte(cleanJSON(text)), out); parseErr == nil {
			return nil
		}
		s.Logger.Warn("Model reply is not valid JSON",
			zap.Int("attempt", attempt+1),
			zap.Error(parseErr))
		prompt += retryNote
	}
	return fmt.Errorf("failed to parse model reply: %w", parseErr)
}

// cleanJSON strips the markdown fence models sometimes wrap JSON in
func cleanJSON(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
