package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/require"
	"github.com/univdesk/helpdesk-api/internal/models"
)

// newFakeOpenAI starts an httptest server that answers every chat completion
// with the given content, and returns an AIService pointed at it.
func newFakeOpenAI(t *testing.T, handler http.HandlerFunc) *AIService {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return NewAIServiceWithConfig(config, 5*time.Second)
}

func completionResponse(t *testing.T, content string) []byte {
	t.Helper()

	body, err := json.Marshal(openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant, Content: content}},
		},
	})
	require.NoError(t, err)
	return body
}

func respondWith(t *testing.T, content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(completionResponse(t, content))
	}
}

func TestClassifyPriority(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, `{"priority": "Urgent"}`))

	priority, err := svc.ClassifyPriority(context.Background(), "the dorm is on fire")
	require.NoError(t, err)
	require.Equal(t, models.PriorityUrgent, priority)
}

func TestClassifyPriority_FencedJSON(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, "```json\n{\"priority\": \"Low\"}\n```"))

	priority, err := svc.ClassifyPriority(context.Background(), "vending machine ate my coin")
	require.NoError(t, err)
	require.Equal(t, models.PriorityLow, priority)
}

func TestClassifyPriority_UnknownValue(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, `{"priority": "Catastrophic"}`))

	_, err := svc.ClassifyPriority(context.Background(), "anything")
	require.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestSuggestDepartment(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, `{"department": "IT", "reason": "network issue"}`))

	suggestion, err := svc.SuggestDepartment(context.Background(), "wifi not working in the library")
	require.NoError(t, err)
	require.Equal(t, "IT", suggestion.Department)
	require.Equal(t, "network issue", suggestion.Reason)
}

func TestSuggestDepartment_UnknownDepartment(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, `{"department": "Space Program", "reason": "rockets"}`))

	_, err := svc.SuggestDepartment(context.Background(), "anything")
	require.ErrorIs(t, err, ErrMalformedAIResponse)
}

func TestDraftSolution(t *testing.T) {
	svc := newFakeOpenAI(t, respondWith(t, "  We will reset the access point today.  "))

	solution, err := svc.DraftSolution(context.Background(), "wifi not working", "IT")
	require.NoError(t, err)
	require.Equal(t, "We will reset the access point today.", solution)
}

func TestAdviseStudent_ServerError(t *testing.T) {
	svc := newFakeOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusInternalServerError)
	})

	_, err := svc.AdviseStudent(context.Background(), "complaint", "solution")
	require.Error(t, err)
}

func TestOracle_NotConfigured(t *testing.T) {
	var svc *AIService

	_, err := svc.ClassifyPriority(context.Background(), "anything")
	require.ErrorIs(t, err, ErrAIServiceNotConfigured)
}
