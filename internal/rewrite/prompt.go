package rewrite

import "strings"

const systemPrompt = "You write concise release notes for end users."

const instructions = "Rewrite the following changelog bullets to be concise, user-facing, and non-technical. " +
	"Keep 3 to 8 bullets max. Avoid duplicates. Do not invent features. " +
	"Return ONLY a JSON array of strings.\n\nBullets:\n"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// userPrompt lists the bullets under the rewrite instructions.
func userPrompt(bullets []string) string {
	var b strings.Builder
	b.WriteString(instructions)
	for i, bullet := range bullets {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("- ")
		b.WriteString(bullet)
	}
	return b.String()
}

func newChatRequest(model string, temperature float64, bullets []string) chatRequest {
	return chatRequest{
		Model:       model,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt(bullets)},
		},
	}
}
