// Package judge evaluates free-text answers against the official answer with an LLM.
package judge

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// Request is everything the judge sees about one submission.
type Request struct {
	Question       string
	OfficialAnswer string
	Candidate      string
}

// Judge returns free-text verdicts that start with CORRECTA, PARCIAL or INCORRECTA.
type Judge interface {
	Evaluate(ctx context.Context, req Request) (string, error)
}

// OpenAIJudge talks to any OpenAI-compatible chat completion endpoint (Groq by default).
type OpenAIJudge struct {
	api       *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewOpenAIJudge(baseURL, apiKey, modelName string, maxTokens int, timeout time.Duration) *OpenAIJudge {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIJudge{
		api:       openai.NewClientWithConfig(config),
		model:     modelName,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

// Evaluate never waits longer than the configured timeout.
func (j *OpenAIJudge) Evaluate(ctx context.Context, req Request) (string, error) {
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	resp, err := j.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: j.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(req)},
		},
		MaxTokens: j.maxTokens,
		// go-openai drops a literal 0 from the payload
		Temperature: math.SmallestNonzeroFloat32,
	})
	if err != nil {
		return "", fmt.Errorf("judge API call: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("judge returned no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("judge returned an empty verdict")
	}
	return content, nil
}

// BuildPrompt renders the strict grading instructions for one submission.
func BuildPrompt(req Request) string {
	var sb strings.Builder
	sb.WriteString("Eres un profesor estricto de Sistemas Operativos que evalúa según el libro de Stallings.\n\n")
	sb.WriteString("PREGUNTA: " + req.Question + "\n")
	sb.WriteString("RESPUESTA ESTUDIANTE: " + req.Candidate + "\n")
	sb.WriteString("RESPUESTA CORRECTA: " + req.OfficialAnswer + "\n\n")

	sb.WriteString("INSTRUCCIONES ESTRICTAS:\n")
	sb.WriteString("1. Compara DIRECTAMENTE la respuesta del estudiante con la respuesta correcta\n")
	sb.WriteString("2. Una respuesta es CORRECTA solo si:\n")
	sb.WriteString("   - Menciona los conceptos técnicos específicos de la respuesta correcta\n")
	sb.WriteString("   - Explica correctamente el mecanismo o proceso\n")
	sb.WriteString("   - Usa terminología precisa de Sistemas Operativos\n")
	sb.WriteString("3. Una respuesta es PARCIAL solo si:\n")
	sb.WriteString("   - Menciona algunos conceptos correctos pero incompletos\n")
	sb.WriteString("   - La dirección es correcta pero faltan detalles importantes\n")
	sb.WriteString("4. Una respuesta es INCORRECTA si:\n")
	sb.WriteString("   - No menciona los conceptos clave de la respuesta correcta\n")
	sb.WriteString("   - Contiene información técnicamente incorrecta\n")
	sb.WriteString("   - Es demasiado vaga o genérica\n")
	sb.WriteString("   - No demuestra comprensión del tema específico\n")
	sb.WriteString("   - Parece absurda o sin relación al tema\n\n")

	sb.WriteString("FORMATO OBLIGATORIO:\n")
	sb.WriteString("- Empezar con: CORRECTA / PARCIAL / INCORRECTA\n")
	sb.WriteString("- Explicar brevemente por qué (máximo 50 palabras)\n")
	sb.WriteString("- SIEMPRE terminar con: \"" + OfficialAnswerLabel + " [respuesta completa]\"\n\n")
	sb.WriteString("SÉ ESTRICTO. No des puntos por respuestas vagas, incorrectas o absurdas.")

	return sb.String()
}
