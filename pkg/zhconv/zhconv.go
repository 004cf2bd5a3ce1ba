// Package zhconv converts Simplified Chinese model output into
// Traditional Chinese while keeping caller-supplied words (pet names in
// particular) byte-for-byte intact.
package zhconv

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/longbridgeapp/opencc"
)

// commonProtectedWords are short words the generic converter is known to
// mangle (e.g. 里長→裏長). They are protected on every call in addition
// to whatever the caller supplies.
var commonProtectedWords = []string{
	"起床", "起床了", "起床時間", "早上起床", "起床吃飯", "起床運動",
	"起床看書", "起床工作", "起床學習", "起床玩耍", "起床洗澡",
	"起床刷牙", "起床穿衣服", "起床整理", "起床準備", "起床出門",
	"吃飯", "睡覺", "洗澡", "刷牙", "穿衣服", "整理", "準備", "出門",
	"回家", "工作", "學習", "看書", "運動", "玩耍", "休息", "放鬆",
	"開心", "快樂", "高興", "興奮", "緊張", "擔心", "害怕", "勇敢",
	"聰明", "可愛", "漂亮", "帥氣", "溫柔", "體貼", "善良", "友好",
	"主人", "朋友", "家人", "爸爸", "媽媽", "哥哥", "姐姐", "弟弟", "妹妹",
	"狗狗", "貓貓", "寵物", "動物", "玩具", "食物", "零食", "骨頭", "球球",
}

// correctionRules fix systematic mis-conversions that slip through the
// dictionary even outside protected words. Applied unconditionally
// after protected words are restored; applying them twice is a no-op.
var correctionRules = []struct {
	wrong   string
	correct string
}{
	{"起牀", "起床"},
	{"牀", "床"},
	{"裏面", "裡面"},
	{"裏頭", "裡頭"},
	{"裏邊", "裡邊"},
	{"裏", "裡"},
	{"哈図", "哈囉"},
	{"図啦", "囉啦"},
	{"図", "囉"},
}

type Normalizer struct {
	cc *opencc.OpenCC
}

// NewNormalizer builds a simplified-to-traditional normalizer. The
// conversion tables ship embedded in the opencc module, so this only
// fails on a broken build.
func NewNormalizer() (*Normalizer, error) {
	cc, err := opencc.New("s2t")
	if err != nil {
		return nil, fmt.Errorf("init opencc s2t: %w", err)
	}
	return &Normalizer{cc: cc}, nil
}

// Convert runs the script conversion on text. Words in protected (plus
// the built-in common list) come back exactly as they went in; longer
// words are shielded first so a protected word that contains another
// protected word is never partially re-converted.
func (n *Normalizer) Convert(text string, protected []string) (string, error) {
	if text == "" {
		return text, nil
	}

	words := effectiveProtectedWords(protected)

	placeholders := make(map[string]string, len(words))
	shielded := text
	for i, word := range words {
		if !strings.Contains(shielded, word) {
			continue
		}
		token := placeholderToken(i, word)
		placeholders[token] = word
		shielded = strings.ReplaceAll(shielded, word, token)
	}

	converted, err := n.cc.Convert(shielded)
	if err != nil {
		return "", fmt.Errorf("opencc convert: %w", err)
	}

	for token, word := range placeholders {
		converted = strings.ReplaceAll(converted, token, word)
	}

	return applyCorrections(converted), nil
}

// effectiveProtectedWords merges caller words with the built-in list,
// drops blanks and duplicates, and orders by descending length so
// substring overlaps resolve toward the longer word.
func effectiveProtectedWords(protected []string) []string {
	seen := make(map[string]struct{}, len(protected)+len(commonProtectedWords))
	words := make([]string, 0, len(protected)+len(commonProtectedWords))
	for _, word := range protected {
		word = strings.TrimSpace(word)
		if word == "" {
			continue
		}
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	for _, word := range commonProtectedWords {
		if _, ok := seen[word]; ok {
			continue
		}
		seen[word] = struct{}{}
		words = append(words, word)
	}
	sort.SliceStable(words, func(i, j int) bool {
		return len(words[i]) > len(words[j])
	})
	return words
}

// placeholderToken yields an ASCII marker that the converter passes
// through untouched. The FNV hash keeps tokens distinct even if the
// caller list changes order between calls for the same word.
func placeholderToken(index int, word string) string {
	h := fnv.New32a()
	h.Write([]byte(word))
	return fmt.Sprintf("__PROTECTED_%d_%08x__", index, h.Sum32())
}

func applyCorrections(text string) string {
	for _, rule := range correctionRules {
		text = strings.ReplaceAll(text, rule.wrong, rule.correct)
	}
	return text
}
