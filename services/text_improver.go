package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

type ImproveMode string

const (
	ImproveActions ImproveMode = "actions"
	ImproveResults ImproveMode = "results"
)

func (m ImproveMode) Valid() bool {
	return m == ImproveActions || m == ImproveResults
}

// minImproveLength is the shortest text worth sending for improvement.
const minImproveLength = 5

// TextImprover rewrites report text. ok is false when no improvement is available.
type TextImprover interface {
	Improve(ctx context.Context, text string, mode ImproveMode) (improved string, ok bool)
}

const improveSystemInstruction = `Você é um especialista em relatórios governamentais e técnicos de TI.
Sua tarefa é melhorar a redação de um texto para um relatório oficial de prestação de contas (Relatório de Gestão).
Use uma linguagem formal, impessoal, clara e objetiva. Corrija erros gramaticais.
Mantenha os fatos, mas melhore a fluidez e o profissionalismo.`

func buildImprovePrompt(text string, mode ImproveMode) string {
	if mode == ImproveResults {
		return "Melhore a seguinte descrição de 'Resultados Alcançados' (focando em impacto e benefícios):\n\n" + text
	}
	return "Melhore a seguinte descrição de 'Ações Realizadas':\n\n" + text
}

// GeminiImprover calls the Google GenAI text-completion API.
type GeminiImprover struct {
	client *genai.Client
	model  string
	logger *zap.Logger
}

func NewGeminiImprover(ctx context.Context, apiKey, model string, logger *zap.Logger) (*GeminiImprover, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	return &GeminiImprover{
		client: client,
		model:  model,
		logger: logger,
	}, nil
}

func (g *GeminiImprover) Improve(ctx context.Context, text string, mode ImproveMode) (string, bool) {
	temperature := float32(0.3)
	result, err := g.client.Models.GenerateContent(ctx,
		g.model,
		genai.Text(buildImprovePrompt(text, mode)),
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(improveSystemInstruction, genai.RoleUser),
			Temperature:       &temperature,
		},
	)
	if err != nil {
		g.logger.Error("text improvement request failed", zap.String("mode", string(mode)), zap.Error(err))
		return "", false
	}

	improved := strings.TrimSpace(result.Text())
	if improved == "" {
		return "", false
	}
	return improved, true
}

// ImproveText returns the improved text, or text unchanged when the improver is
// absent, the text is too short, or the request fails.
func ImproveText(ctx context.Context, improver TextImprover, text string, mode ImproveMode) (string, bool) {
	if improver == nil || len(strings.TrimSpace(text)) < minImproveLength {
		return text, false
	}
	improved, ok := improver.Improve(ctx, text, mode)
	if !ok {
		return text, false
	}
	return improved, true
}
