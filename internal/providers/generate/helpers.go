package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

const systemPrompt = "You are an expert content strategist and copywriter. " +
	"Generate high-quality, engaging content outlines, titles, and promotional copy " +
	"based on the user's requirements. Always respond with valid JSON."

func buildGenerationPrompt(req Request) string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "Generate content for a %s about %q with a %s voice profile.\n\n", req.Format, req.Topic, req.VoiceProfile)
	sb.WriteString("Please provide:\n")
	sb.WriteString("1. 3 different outlines with titles, estimated word counts, and section breakdowns\n")
	sb.WriteString("2. 10 engaging titles/headlines\n")
	sb.WriteString("3. 5 promotional social media posts for different platforms\n\n")
	sb.WriteString("Respond strictly as JSON matching this schema: ")
	sb.WriteString(`{"outlines":[{"title":string,"wordCount":number,"sections":string[]}],"titles":string[],"promos":[{"platform":string,"content":string}]}`)
	fmt.Fprintf(sb, ". Make sure all content is relevant to the topic and matches the %s voice profile.", req.VoiceProfile)
	return sb.String()
}

func parseModelPayload[T any](raw string) (T, error) {
	var zero T
	cleaned := extractJSONFragment(raw)
	if cleaned == "" {
		return zero, errors.New("empty payload")
	}
	var decoded T
	if err := json.Unmarshal([]byte(cleaned), &decoded); err != nil {
		return zero, err
	}
	return decoded, nil
}

func extractJSONFragment(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}
	text = trimCodeFence(text)
	start := strings.IndexAny(text, "{[")
	end := strings.LastIndexAny(text, "]}")
	if start >= 0 && end >= start {
		text = text[start : end+1]
	}
	return strings.TrimSpace(text)
}

func trimCodeFence(text string) string {
	trimmed := strings.TrimSpace(text)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```JSON")
	trimmed = strings.TrimPrefix(trimmed, "```")
	trimmed = strings.TrimSpace(trimmed)
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}
