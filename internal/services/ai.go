package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/univdesk/helpdesk-api/internal/models"
)

var (
	ErrAIServiceNotConfigured = errors.New("AI service is not configured")
	ErrMalformedAIResponse    = errors.New("AI response did not match the requested shape")
)

// Oracle is the external text-generation contract consumed by the complaint
// lifecycle. Every call is fallible and best-effort callers must tolerate that.
type Oracle interface {
	ClassifyPriority(ctx context.Context, complaintText string) (models.ComplaintPriority, error)
	DraftStaffGuidance(ctx context.Context, complaintText string) (string, error)
	SuggestDepartment(ctx context.Context, complaintText string) (*DepartmentSuggestion, error)
	DraftSolution(ctx context.Context, complaintText, department string) (string, error)
	AdviseStudent(ctx context.Context, complaintText, solutionText string) (string, error)
}

// DepartmentSuggestion is the oracle's routing advice for a complaint.
type DepartmentSuggestion struct {
	Department string `json:"department"`
	Reason     string `json:"reason"`
}

// AIService talks to the hosted model through the OpenAI chat API.
type AIService struct {
	client  *openai.Client
	timeout time.Duration
}

var _ Oracle = (*AIService)(nil)

// NewAIService creates a new AIService.
func NewAIService(apiKey string, timeout time.Duration) *AIService {
	return NewAIServiceWithConfig(openai.DefaultConfig(apiKey), timeout)
}

// NewAIServiceWithConfig creates an AIService with a custom client config,
// e.g. a different base URL.
func NewAIServiceWithConfig(config openai.ClientConfig, timeout time.Duration) *AIService {
	return &AIService{
		client:  openai.NewClientWithConfig(config),
		timeout: timeout,
	}
}

// ClassifyPriority asks the model to place the complaint into one of the four
// priority levels.
func (s *AIService) ClassifyPriority(ctx context.Context, complaintText string) (models.ComplaintPriority, error) {
	prompt := fmt.Sprintf(`Analyze the urgency of the following student complaint and classify it into one of four priority levels: "Urgent", "High", "Medium", "Low". Respond in JSON format with a single key "priority" and no other text.

Complaint: %q`, complaintText)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return "", err
	}

	var parsed struct {
		Priority models.ComplaintPriority `json:"priority"`
	}
	if err := json.Unmarshal([]byte(cleanJSON(content)), &parsed); err != nil {
		return "", fmt.Errorf("%w: %v (response: %s)", ErrMalformedAIResponse, err, content)
	}
	if !parsed.Priority.Valid() {
		return "", fmt.Errorf("%w: unknown priority %q", ErrMalformedAIResponse, parsed.Priority)
	}

	return parsed.Priority, nil
}

// DraftStaffGuidance produces the one-time, staff-facing recommendation
// attached to a complaint at creation.
func (s *AIService) DraftStaffGuidance(ctx context.Context, complaintText string) (string, error) {
	prompt := fmt.Sprintf(`You are an AI assistant for a university help desk. A student has filed a complaint. Your task is to provide a concise, actionable recommendation for the staff member handling this ticket. Detect the language of the complaint and provide your recommendation in that SAME language.

Student Complaint: %q

Actionable Recommendation for Staff:`, complaintText)

	return s.complete(ctx, prompt)
}

// SuggestDepartment asks the model which department should own the complaint.
func (s *AIService) SuggestDepartment(ctx context.Context, complaintText string) (*DepartmentSuggestion, error) {
	prompt := fmt.Sprintf(`Analyze the following student complaint to determine the most relevant department and provide a brief reason. Detect the language of the complaint and provide your reason in that SAME language. The available departments are: %q.

Complaint: %q

Respond in JSON format with "department" and "reason" keys and no other text.`, strings.Join(models.Departments, `", "`), complaintText)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		return nil, err
	}

	var suggestion DepartmentSuggestion
	if err := json.Unmarshal([]byte(cleanJSON(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("%w: %v (response: %s)", ErrMalformedAIResponse, err, content)
	}
	if !models.ValidDepartment(suggestion.Department) {
		return nil, fmt.Errorf("%w: unknown department %q", ErrMalformedAIResponse, suggestion.Department)
	}

	return &suggestion, nil
}

// DraftSolution writes a staff response to the complaint on behalf of the
// given department.
func (s *AIService) DraftSolution(ctx context.Context, complaintText, department string) (string, error) {
	prompt := fmt.Sprintf(`You are an AI assistant for a university help desk staff member in the %q department. Your task is to write a polite, professional, and empathetic response to a student's complaint. The response should acknowledge their issue and suggest a clear solution or next step. Detect the language of the original complaint and write your entire response in that SAME language.

Student's Complaint: %q

Draft of Solution for Student:`, department, complaintText)

	return s.complete(ctx, prompt)
}

// AdviseStudent tells the student whether the staff solution looks adequate or
// whether they should consider reopening.
func (s *AIService) AdviseStudent(ctx context.Context, complaintText, solutionText string) (string, error) {
	prompt := fmt.Sprintf(`You are an impartial AI student advocate. Your task is to analyze a student's complaint and the solution provided by the university staff. Provide a concise recommendation to the student on whether the solution is adequate or if they should consider reopening the ticket. Detect the language of the original complaint and write your entire response in that SAME language.

Original Complaint: %q
Staff's Solution: %q

AI Advice for Student:`, complaintText, solutionText)

	return s.complete(ctx, prompt)
}

// complete runs a single chat completion with the configured timeout bound.
func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	if s == nil || s.client == nil {
		return "", ErrAIServiceNotConfigured
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)
	if err != nil {
		return "", fmt.Errorf("AI request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", ErrMalformedAIResponse)
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// cleanJSON strips markdown code fences some models wrap JSON bodies in.
func cleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
