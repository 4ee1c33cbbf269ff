package judge

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type chatRequest struct {
	Model     string `json:"model"`
	MaxTokens int    `json:"max_tokens"`
	Messages  []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func completionServer(t *testing.T, content string, captured *chatRequest) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if captured != nil {
			if err := json.NewDecoder(r.Body).Decode(captured); err != nil {
				t.Errorf("decode request: %v", err)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "llama-3.1-8b-instant",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]string{"role": "assistant", "content": content},
				"finish_reason": "stop",
			}},
		})
	}))
}

func TestOpenAIJudge_Evaluate(t *testing.T) {
	var captured chatRequest
	srv := completionServer(t, "CORRECTA: coincide con los conceptos clave.", &captured)
	defer srv.Close()

	j := NewOpenAIJudge(srv.URL, "test-key", "llama-3.1-8b-instant", 300, 5*time.Second)
	got, err := j.Evaluate(context.Background(), Request{
		Question:       "¿Qué es un proceso?",
		OfficialAnswer: "Una instancia de un programa en ejecución",
		Candidate:      "Un programa que se está ejecutando con su propia memoria",
	})
	if err != nil {
		t.Fatalf("Evaluate() error = %v", err)
	}
	if got != "CORRECTA: coincide con los conceptos clave." {
		t.Errorf("Evaluate() = %q", got)
	}

	if captured.Model != "llama-3.1-8b-instant" {
		t.Errorf("model = %q", captured.Model)
	}
	if captured.MaxTokens != 300 {
		t.Errorf("max_tokens = %d, want 300", captured.MaxTokens)
	}
	if len(captured.Messages) != 1 || !strings.Contains(captured.Messages[0].Content, "¿Qué es un proceso?") {
		t.Errorf("messages = %+v, want one prompt with the question", captured.Messages)
	}
}

func TestOpenAIJudge_EmptyContent(t *testing.T) {
	srv := completionServer(t, "   ", nil)
	defer srv.Close()

	j := NewOpenAIJudge(srv.URL, "test-key", "m", 300, 5*time.Second)
	if _, err := j.Evaluate(context.Background(), Request{}); err == nil {
		t.Error("Evaluate() expected error for empty verdict")
	}
}

func TestOpenAIJudge_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"upstream failure","type":"server_error"}}`))
	}))
	defer srv.Close()

	j := NewOpenAIJudge(srv.URL, "test-key", "m", 300, 5*time.Second)
	if _, err := j.Evaluate(context.Background(), Request{}); err == nil {
		t.Error("Evaluate() expected error for 500 response")
	}
}

func TestOpenAIJudge_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	j := NewOpenAIJudge(srv.URL, "test-key", "m", 300, 50*time.Millisecond)
	start := time.Now()
	if _, err := j.Evaluate(context.Background(), Request{}); err == nil {
		t.Fatal("Evaluate() expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Evaluate() took %v, want it bounded by the timeout", elapsed)
	}
}

func TestBuildPrompt(t *testing.T) {
	req := Request{
		Question:       "¿Qué es un semáforo?",
		OfficialAnswer: "Una variable entera con operaciones atómicas wait y signal",
		Candidate:      "Un contador protegido",
	}
	prompt := BuildPrompt(req)

	for _, want := range []string{req.Question, req.OfficialAnswer, req.Candidate, "CORRECTA / PARCIAL / INCORRECTA", OfficialAnswerLabel} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt should contain %q", want)
		}
	}
}
