package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/netpointcafe/portal-backend/internal/model"
	"google.golang.org/genai"
)

const maxTranscriptMessages = 30

var ErrEmptyReply = errors.New("empty reply")

// SuggestClient drafts support replies for the staff console from a
// conversation transcript.
type SuggestClient struct {
	model string
}

func NewSuggestClient(modelName string) *SuggestClient {
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}
	return &SuggestClient{model: modelName}
}

const suggestPrompt = `You are a support agent at a cyber-café and training
centre. Draft a short, friendly reply to the customer's latest message.
Answer in the customer's language. Return only the reply text, no preamble,
no quotes, no markdown.`

// Suggest calls Gemini with the recent transcript and returns a drafted
// staff reply.
func (c *SuggestClient) Suggest(ctx context.Context, convID uint64, history []model.ChatMessage) (string, error) {
	transcript := FormatTranscript(history)
	if transcript == "" {
		return "", errors.New("no customer messages to reply to")
	}

	start := time.Now()
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("[suggest] conv=%d stage=client_init err=%v", convID, err)
		return "", err
	}

	parts := []*genai.Part{
		genai.NewPartFromText(suggestPrompt),
		genai.NewPartFromText(transcript),
	}
	contents := []*genai.Content{
		genai.NewContentFromParts(parts, genai.RoleUser),
	}
	temp := float32(0.4)
	config := &genai.GenerateContentConfig{
		Temperature: &temp,
	}
	res, err := client.Models.GenerateContent(ctx, c.model, contents, config)
	if err != nil {
		log.Printf("[suggest] conv=%d stage=generate_fail model=%s err=%v", convID, c.model, err)
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	reply, err := CleanReply(res.Text())
	if err != nil {
		log.Printf("[suggest] conv=%d stage=clean_fail err=%v", convID, err)
		return "", err
	}
	log.Printf("[suggest] conv=%d stage=done model=%s totalMs=%d", convID, c.model, time.Since(start).Milliseconds())
	return reply, nil
}

// FormatTranscript renders the tail of the conversation as "Customer:" /
// "Staff:" lines. It returns "" when no customer message exists, since there
// is nothing to reply to.
func FormatTranscript(history []model.ChatMessage) string {
	if len(history) > maxTranscriptMessages {
		history = history[len(history)-maxTranscriptMessages:]
	}
	var b strings.Builder
	hasCustomer := false
	for _, m := range history {
		body := strings.TrimSpace(m.Body)
		if body == "" {
			continue
		}
		if m.IsStaff {
			b.WriteString("Staff: ")
		} else {
			b.WriteString("Customer: ")
			hasCustomer = true
		}
		b.WriteString(body)
		b.WriteString("\n")
	}
	if !hasCustomer {
		return ""
	}
	return b.String()
}

// CleanReply strips wrapping quotes and surrounding whitespace from the
// model output.
func CleanReply(text string) (string, error) {
	reply := strings.TrimSpace(text)
	for len(reply) >= 2 {
		first, last := reply[0], reply[len(reply)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			reply = strings.TrimSpace(reply[1 : len(reply)-1])
			continue
		}
		break
	}
	if reply == "" {
		return "", ErrEmptyReply
	}
	return reply, nil
}
