package feishu

import (
	"context"
	"encoding/json"
	"feishu-attendance-report/internal/config"
	"feishu-attendance-report/internal/models"
	"fmt"
	"log"
	"time"
)

const (
	maxSendAttempts = 3
	baseRetryDelay  = time.Second
)

// MessageSink delivers reports to Feishu chats, either through the messages
// API or a group webhook. Retries are the sink's responsibility: up to 3
// attempts with the base delay doubling each time.
type MessageSink struct {
	client            *Client
	chatID            string
	additionalChatIDs []string
	webhookURL        string
	useCard           bool
}

// NewMessageSink creates the Feishu delivery sink
func NewMessageSink(client *Client, cfg config.FeishuConfig) *MessageSink {
	return &MessageSink{
		client:            client,
		chatID:            cfg.ChatID,
		additionalChatIDs: cfg.AdditionalChatIDs,
		webhookURL:        cfg.WebhookURL,
		useCard:           cfg.UseCard,
	}
}

// Name identifies the sink in logs and errors
func (s *MessageSink) Name() string { return "feishu" }

// Send delivers the report. The report itself is already built; any failure
// here is a DeliveryError for the caller.
func (s *MessageSink) Send(ctx context.Context, report *models.AttendanceReport) error {
	content := s.messageContent(report)

	if s.webhookURL != "" {
		if err := s.sendWithRetry(ctx, func() error {
			return s.postWebhook(ctx, content)
		}); err != nil {
			return &models.DeliveryError{Target: "feishu webhook", Err: err}
		}
		return nil
	}

	token, err := s.client.GetToken(ctx)
	if err != nil {
		return &models.DeliveryError{Target: "feishu", Err: err}
	}

	if err := s.sendWithRetry(ctx, func() error {
		return s.postMessage(ctx, token, s.chatID, content)
	}); err != nil {
		return &models.DeliveryError{Target: "feishu chat " + s.chatID, Err: err}
	}

	// Additional chats are best-effort: a failure is logged, not fatal,
	// since the primary delivery already succeeded.
	for _, chatID := range s.additionalChatIDs {
		if err := s.postMessage(ctx, token, chatID, content); err != nil {
			log.Printf("WARNING: Failed to send report to additional chat %s: %v", chatID, err)
		}
	}

	return nil
}

// messageContent builds the msg_type/content pair for the configured format
func (s *MessageSink) messageContent(report *models.AttendanceReport) map[string]interface{} {
	if s.useCard {
		return map[string]interface{}{
			"msg_type": "interactive",
			"card":     BuildCard(report),
		}
	}
	text, _ := json.Marshal(map[string]string{"text": BuildText(report)})
	return map[string]interface{}{
		"msg_type": "text",
		"content":  string(text),
	}
}

type sendMessageResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

// postMessage sends one message to one chat through the messages API
func (s *MessageSink) postMessage(ctx context.Context, token, chatID string, content map[string]interface{}) error {
	body := map[string]interface{}{"receive_id": chatID}
	for k, v := range content {
		body[k] = v
	}

	// The messages API wants card/content as a JSON string, not an object
	if card, ok := body["card"]; ok {
		encoded, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("encode card: %w", err)
		}
		delete(body, "card")
		body["content"] = string(encoded)
	}

	url := s.client.baseURL + "/open-apis/im/v1/messages?receive_id_type=chat_id"
	var resp sendMessageResponse
	if err := s.client.postJSON(ctx, token, url, body, &resp); err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("messages API rejected send: %s (code %d)", resp.Msg, resp.Code)
	}
	return nil
}

// postWebhook sends the message through a group webhook
func (s *MessageSink) postWebhook(ctx context.Context, content map[string]interface{}) error {
	var resp sendMessageResponse
	if err := s.client.postJSON(ctx, "", s.webhookURL, content, &resp); err != nil {
		return err
	}
	if resp.Code != 0 {
		return fmt.Errorf("webhook rejected send: %s (code %d)", resp.Msg, resp.Code)
	}
	return nil
}

// sendWithRetry retries a send with exponential backoff
func (s *MessageSink) sendWithRetry(ctx context.Context, send func() error) error {
	delay := baseRetryDelay
	var lastErr error
	for attempt := 1; attempt <= maxSendAttempts; attempt++ {
		lastErr = send()
		if lastErr == nil {
			return nil
		}
		if attempt == maxSendAttempts {
			break
		}
		log.Printf("WARNING: Send attempt %d/%d failed: %v, retrying in %s", attempt, maxSendAttempts, lastErr, delay)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return lastErr
}
