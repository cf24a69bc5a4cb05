package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"asistente-fincas/internal/breaker"
	"asistente-fincas/internal/metrics"
	"asistente-fincas/pkg/config"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"go.uber.org/zap"
)

// systemPrompt scopes the model to the property-management domain and to the
// supplied context only.
const systemPrompt = "Eres un asistente experto en administración de fincas. Tu función es responder " +
	"únicamente basándote en la información disponible en el contexto proporcionado. Utiliza el contenido " +
	"recuperado de documentos embeddings, que integran información de administraciones, fincas, usuarios e " +
	"incidencias. Si el contexto es insuficiente, indícalo amablemente al usuario. Emplea un lenguaje claro " +
	"y preciso, adaptado a las necesidades de administración de fincas. No inventes datos; responde solo con " +
	"lo que se te proporciona."

// CompletionClient is the raw completion-model boundary the generator wraps
// with resilience concerns.
type CompletionClient interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// OpenAICompletionClient calls the chat-completions API with a low sampling
// temperature, favoring grounded answers over creative ones.
type OpenAICompletionClient struct {
	client openai.Client
	model  string
}

func NewOpenAICompletionClient(openaiCfg *config.OpenAIConfig, model string) *OpenAICompletionClient {
	opts := []option.RequestOption{option.WithAPIKey(openaiCfg.APIKey)}
	if openaiCfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(openaiCfg.BaseURL))
	}
	return &OpenAICompletionClient{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (c *OpenAICompletionClient) Complete(ctx context.Context, system, user string) (string, error) {
	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return "", err
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("completion returned no choices")
	}
	return strings.TrimSpace(completion.Choices[0].Message.Content), nil
}

// AnswerGenerator produces a grounded answer for a question and its context.
// The call is bounded by the request timeout (innermost) and guarded by the
// circuit breaker (outermost), so a timed-out call still counts toward the
// failure threshold. Latency is observed for every attempted call; rejected
// calls never reach the model and are not timed.
type AnswerGenerator struct {
	client  CompletionClient
	breaker *breaker.Breaker
	timeout time.Duration
	logger  *zap.Logger
}

func NewAnswerGenerator(client CompletionClient, brk *breaker.Breaker, timeout time.Duration, logger *zap.Logger) *AnswerGenerator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &AnswerGenerator{
		client:  client,
		breaker: brk,
		timeout: timeout,
		logger:  logger,
	}
}

func (g *AnswerGenerator) Generate(ctx context.Context, question, contexto string) (string, error) {
	if err := g.breaker.Allow(); err != nil {
		g.logger.Warn("Completion call rejected", zap.String("state", g.breaker.State().String()))
		return "", fmt.Errorf("%w: %v", ErrCircuitOpen, err)
	}

	start := time.Now()
	callCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	userPrompt := fmt.Sprintf("Contexto:\n%s\n\nPregunta: %s", contexto, question)
	answer, err := g.client.Complete(callCtx, systemPrompt, userPrompt)
	metrics.ObserveGenerationLatency(start)

	if err != nil {
		g.breaker.Failure()
		return "", fmt.Errorf("%w: %v", ErrGeneration, err)
	}

	g.breaker.Success()
	return answer, nil
}
