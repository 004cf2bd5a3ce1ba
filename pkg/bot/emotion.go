package bot

import (
	"context"
	"fmt"
)

// EmotionResult is what the external classifier reports about the
// guardian's message.
type EmotionResult struct {
	Emotion    string
	Polarity   string
	Confidence float64
}

// EmotionClassifier is an external collaborator; the keyword/LLM
// implementation lives outside this service.
type EmotionClassifier interface {
	Detect(ctx context.Context, text string) (*EmotionResult, error)
}

var emotionDescriptions = map[string]string{
	"amusement":   "開心和有趣",
	"awe":         "感到驚嘆和震撼",
	"contentment": "滿足和安心",
	"excitement":  "興奮和期待",
	"anger":       "生氣和憤怒",
	"disgust":     "感到厭惡和反感",
	"fear":        "害怕和擔心",
	"sad":         "難過和沮喪",
}

// buildEmotionContext renders the classifier result as a one-line state
// description for the system prompt.
func buildEmotionContext(result *EmotionResult) string {
	if result == nil {
		return ""
	}

	desc, ok := emotionDescriptions[result.Emotion]
	if !ok {
		desc = "情緒平靜"
	}

	var intensity string
	switch {
	case result.Confidence >= 0.8:
		if result.Polarity == "positive" {
			intensity = "非常"
		} else {
			intensity = "相當"
		}
	case result.Confidence >= 0.6:
		if result.Polarity == "positive" {
			intensity = "有點"
		} else {
			intensity = "稍微"
		}
	default:
		intensity = "略微"
	}

	return fmt.Sprintf("主人現在%s%s（情緒：%s，信心度：%.1f%%）",
		intensity, desc, result.Emotion, result.Confidence*100)
}

// withEmotionContext appends the emotion section to the system prompt.
func withEmotionContext(systemPrompt string, result *EmotionResult) string {
	context := buildEmotionContext(result)
	if context == "" {
		return systemPrompt
	}
	return systemPrompt + fmt.Sprintf(`

💭 主人現在的情緒狀態：
%s
- 請根據主人的情緒狀態調整你的回應方式
- 如果主人情緒低落，要溫柔安慰
- 如果主人情緒正向，可以更活潑開心地回應
`, context)
}
