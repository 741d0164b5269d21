package services

import (
	"context"
	"encoding/json"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const commentarySystemPrompt = `You are an HR assistant summarizing a weekly attendance report for a team chat.
Write 2-3 short sentences in a friendly, factual tone. Mention the overall
on-time rate and call out the earliest risers. Do not invent numbers that are
not in the data. Answer in the same language as the department names.`

// AIService produces a short natural-language commentary for a report.
// It is strictly optional: the report pipeline works the same without it.
type AIService struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
}

// NewAIService creates an AI service, or nil when no API key is configured
func NewAIService(cfg config.OpenAIConfig) *AIService {
	if cfg.APIKey == "" {
		return nil
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &AIService{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// GenerateCommentary asks the model for a short summary of the report. The
// model only sees the summary and rankings, never raw punch records.
func (s *AIService) GenerateCommentary(ctx context.Context, report *models.AttendanceReport) (string, error) {
	digest := commentaryDigest(report)
	payload, err := json.Marshal(digest)
	if err != nil {
		return "", fmt.Errorf("failed to encode report digest: %w", err)
	}

	req := openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: float32(s.temperature),
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: commentarySystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
	}
	if s.maxTokens > 0 {
		req.MaxTokens = s.maxTokens
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// commentaryDigest trims the report down to what the model needs
func commentaryDigest(report *models.AttendanceReport) map[string]interface{} {
	digest := map[string]interface{}{
		"title":  report.Title,
		"period": report.Period,
	}
	if report.Summary != nil {
		digest["summary"] = report.Summary
	}
	if len(report.TopRanking) > 0 {
		digest["topRanking"] = report.TopRanking
	}
	if len(report.LateRanking) > 0 && report.LateRanking[0].LateCount > 0 {
		digest["lateRanking"] = report.LateRanking
	}

	departments := make(map[string]map[string]int, len(report.DepartmentStats))
	for name, dept := range report.DepartmentStats {
		departments[name] = map[string]int{
			"onTime": dept.TotalOnTimeCount,
			"late":   dept.TotalLateCount,
		}
	}
	digest["departments"] = departments
	return digest
}
