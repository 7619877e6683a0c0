package service_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/smartlab-id/smartlab-api/internal/dto"
	"github.com/smartlab-id/smartlab-api/internal/service"
)

const chatbotFallback = "Maaf, saya sedang tidak dapat menjawab pertanyaan Anda. Silakan coba lagi nanti."

func newChatbotService(workflowURL string) service.ChatbotService {
	return service.NewChatbotService(
		service.ChatbotConfig{WorkflowURL: workflowURL, DocumentRef: "kurikulum-ipa"},
		testValidator(),
		testLogger(),
	)
}

func askQuestion(t *testing.T, svc service.ChatbotService) dto.ChatbotAskResponse {
	t.Helper()

	answer, err := svc.Ask(context.Background(), 7, "Siswa Satu", dto.ChatbotAskRequest{
		Question: "Apa itu fotosintesis?",
	})
	require.NoError(t, err)
	return answer
}

func TestChatbotService_Ask_ContentPartsShape(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.Equal(t, "kurikulum-ipa", payload["document"])
		require.Equal(t, "Apa itu fotosintesis?", payload["question"])

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Fotosintesis adalah "},{"type":"text","text":"proses pembuatan makanan."}]}`))
	}))
	defer server.Close()

	answer := askQuestion(t, newChatbotService(server.URL))
	require.Equal(t, "Fotosintesis adalah proses pembuatan makanan.", answer.Answer)
}

func TestChatbotService_Ask_FieldShapes(t *testing.T) {
	cases := map[string]string{
		"response": `{"response":"Jawaban dari response."}`,
		"answer":   `{"answer":"Jawaban dari answer."}`,
		"message":  `{"message":"Jawaban dari message."}`,
		"bare":     `"Jawaban polos."`,
	}
	expected := map[string]string{
		"response": "Jawaban dari response.",
		"answer":   "Jawaban dari answer.",
		"message":  "Jawaban dari message.",
		"bare":     "Jawaban polos.",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(body))
			}))
			defer server.Close()

			answer := askQuestion(t, newChatbotService(server.URL))
			require.Equal(t, expected[name], answer.Answer)
		})
	}
}

func TestChatbotService_Ask_ErrorStatusFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	answer := askQuestion(t, newChatbotService(server.URL))
	require.Equal(t, chatbotFallback, answer.Answer)
}

func TestChatbotService_Ask_UnreachableFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	answer := askQuestion(t, newChatbotService(server.URL))
	require.Equal(t, chatbotFallback, answer.Answer)
}

func TestChatbotService_Ask_UnrecognizedShapeFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	answer := askQuestion(t, newChatbotService(server.URL))
	require.Equal(t, chatbotFallback, answer.Answer)
}

func TestChatbotService_Ask_UnconfiguredFallsBack(t *testing.T) {
	answer := askQuestion(t, newChatbotService(""))
	require.Equal(t, chatbotFallback, answer.Answer)
}

func TestChatbotService_Ask_ValidatesQuestion(t *testing.T) {
	svc := newChatbotService("http://127.0.0.1:1")

	_, err := svc.Ask(context.Background(), 7, "Siswa Satu", dto.ChatbotAskRequest{})
	require.Error(t, err)
}
