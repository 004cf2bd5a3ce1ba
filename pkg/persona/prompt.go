package persona

import (
	"fmt"
	"strings"
	"unicode"
)

// functionWords are stripped from event titles before deriving the
// recall keywords for a memory.
var functionWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "of": {}, "in": {}, "on": {}, "to": {},
	"at": {}, "and": {}, "or": {}, "with": {}, "for": {}, "my": {}, "our": {},
}

// chineseFunctionWords are removed as substrings since Chinese titles
// carry no spaces to split on.
var chineseFunctionWords = []string{
	"第一次", "的時候", "一起", "我們", "我的", "那天", "有一天",
	"的", "了", "去", "在", "和", "與", "跟",
}

// BuildSystemPrompt serializes the profile into the role-playing system
// prompt. Pure function of the profile; the same profile always yields
// the same prompt.
func BuildSystemPrompt(p *Profile) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}
	traits, err := ResolveTraits(p.PersonaKey)
	if err != nil {
		return "", err
	}

	breed := strings.TrimSpace(p.Breed)
	if breed == "" {
		breed = DefaultBreed
	}

	var b strings.Builder

	fmt.Fprintf(&b, "你是「%s」，一隻%s，主人的寶貝毛小孩。\n", p.Name, breed)
	fmt.Fprintf(&b, "當有人直接問「你是誰」時，你要記得並回答：你就是「%s」。\n\n", p.Name)

	b.WriteString("🐕 你的寵物特質：\n")
	fmt.Fprintf(&b, "- 性格：%s\n", traits.Temperament)
	fmt.Fprintf(&b, "- 喜好：%s\n", traits.Preferences)
	fmt.Fprintf(&b, "- 說話方式：%s\n\n", traits.SpeechStyle)

	b.WriteString("🗣️ 寵物說話規則：\n")
	b.WriteString("1. 用簡單的詞彙，像寵物一樣思考\n")
	b.WriteString("2. 常用「汪汪」「嘿嘿」「嗚嗚」「蹭蹭」等聲音撒嬌或討關注\n")
	b.WriteString("3. 表達對主人的依賴和愛意\n")
	b.WriteString("4. 用寵物的視角看世界（食物、玩耍、主人）\n")
	b.WriteString("5. 說話簡短直接，不要太複雜\n")
	b.WriteString("6. 對話的另一方只能稱呼「主人」，從頭到尾不可以換別的稱呼\n\n")

	writeTimelineSection(&b, p.Timeline)
	writeAffectionSection(&b, p)

	b.WriteString("⚠️ 回覆要求：\n")
	b.WriteString("1. 全程使用繁體中文\n")
	b.WriteString("2. 像寵物一樣說話，不要像人類\n")
	b.WriteString("3. 不可以說自己是 AI，也不可以用第三人稱談論自己\n")
	b.WriteString("4. 【重要】回覆要簡短，最多1-2句話（20-40字以內）\n")
	b.WriteString("5. 【重要】不要說教、不要主動給建議或長篇大論\n")

	return b.String(), nil
}

func writeTimelineSection(b *strings.Builder, events []TimelineEvent) {
	if len(events) == 0 {
		return
	}
	b.WriteString("📖 我的生命回憶（每一段都有自己的編號，這些都是我真實經歷過的）：\n")
	for i, event := range events {
		id := EventID(i)
		fmt.Fprintf(b, "- 【%s】【%s】%s", id, event.Age, event.Title)
		if event.Description != "" {
			fmt.Fprintf(b, "：%s", event.Description)
		}
		b.WriteString("\n")
		if keywords := eventKeywords(event.Title); len(keywords) > 0 {
			fmt.Fprintf(b, "  （如果主人的問題提到「%s」，只能用【%s】這一段回憶回答）\n",
				strings.Join(keywords, "」「"), id)
		}
	}
	b.WriteString("- 回憶規則：主人問起某段經歷時，只能使用編號相符的那一段回憶，")
	b.WriteString("絕對不可以把兩段不同編號的情節混在一起講\n\n")
}

func writeAffectionSection(b *strings.Builder, p *Profile) {
	slogan := sanitizeGuardianText(p.Slogan)
	letter := strings.TrimSpace(p.Letter)
	if slogan == "" && letter == "" {
		return
	}
	b.WriteString("💌 主人的心意（這是主人現在對我說的話，不是生命回憶）：\n")
	if slogan != "" {
		fmt.Fprintf(b, "- 主人對我的愛意表達：\n「%s」\n", slogan)
	}
	if letter != "" {
		fmt.Fprintf(b, "- 主人對我說的話：\n「%s」\n", letter)
	}
	b.WriteString("- 心意規則：這一區和生命回憶是兩種不同的記憶，")
	b.WriteString("不可以把它們當成同一件事互相引用\n\n")
}

// EventID is the stable ordinal tag for the i-th timeline event.
func EventID(index int) string {
	return fmt.Sprintf("記憶L%d", index+1)
}

// eventKeywords derives the recall keywords for a timeline event from
// its title: Chinese function words are cut out as substrings, the rest
// is split on spaces and punctuation, and short or function tokens are
// dropped.
func eventKeywords(title string) []string {
	cleaned := title
	for _, word := range chineseFunctionWords {
		cleaned = strings.ReplaceAll(cleaned, word, " ")
	}

	tokens := strings.FieldsFunc(cleaned, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})

	seen := make(map[string]struct{}, len(tokens))
	keywords := make([]string, 0, len(tokens))
	for _, token := range tokens {
		token = strings.ToLower(strings.TrimSpace(token))
		if len([]rune(token)) < 2 {
			continue
		}
		if _, ok := functionWords[token]; ok {
			continue
		}
		if _, ok := seen[token]; ok {
			continue
		}
		seen[token] = struct{}{}
		keywords = append(keywords, token)
	}
	return keywords
}
