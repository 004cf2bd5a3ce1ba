package zhconv

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newNormalizer(t *testing.T) *Normalizer {
	t.Helper()
	n, err := NewNormalizer()
	require.NoError(t, err)
	return n
}

func TestConvert_Empty(t *testing.T) {
	n := newNormalizer(t)
	out, err := n.Convert("", []string{"Mochi"})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestConvert_SimplifiedToTraditional(t *testing.T) {
	n := newNormalizer(t)
	out, err := n.Convert("我爱你", nil)
	require.NoError(t, err)
	assert.Equal(t, "我愛你", out)
}

func TestConvert_ProtectsPetName(t *testing.T) {
	n := newNormalizer(t)
	out, err := n.Convert("Mochi说你好", []string{"Mochi"})
	require.NoError(t, err)
	assert.Equal(t, "Mochi說你好", out)
}

func TestConvert_ProtectedWordSurvivesAsSimplified(t *testing.T) {
	n := newNormalizer(t)
	// The name carries a simplified character on purpose; it must not
	// be converted even though the surrounding text is.
	out, err := n.Convert("小宝是我的宝贝", []string{"小宝"})
	require.NoError(t, err)
	assert.Equal(t, "小宝是我的寶貝", out)
}

func TestConvert_NoPlaceholderLeaks(t *testing.T) {
	n := newNormalizer(t)
	out, err := n.Convert("Mochi和Momo都饿了", []string{"Mochi", "Momo"})
	require.NoError(t, err)
	assert.NotContains(t, out, "__PROTECTED_")
	assert.Contains(t, out, "Mochi")
	assert.Contains(t, out, "Momo")
}

func TestConvert_OverlappingProtectedWords(t *testing.T) {
	n := newNormalizer(t)
	// 起床了 contains 起床; the longer word must be shielded first so
	// neither is corrupted by a partial placeholder.
	out, err := n.Convert("该起床了", nil)
	require.NoError(t, err)
	assert.Equal(t, "該起床了", out)
}

func TestEffectiveProtectedWords_LongerFirst(t *testing.T) {
	words := effectiveProtectedWords([]string{"", "  ", "球球", "小球球"})
	require.NotEmpty(t, words)

	for i := 1; i < len(words); i++ {
		assert.GreaterOrEqual(t, len(words[i-1]), len(words[i]))
	}
	assert.NotContains(t, words, "")
}

func TestEffectiveProtectedWords_Dedup(t *testing.T) {
	words := effectiveProtectedWords([]string{"主人", "主人"})
	count := 0
	for _, w := range words {
		if w == "主人" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestPlaceholderToken_StablePerWord(t *testing.T) {
	assert.Equal(t, placeholderToken(3, "Mochi"), placeholderToken(3, "Mochi"))
	assert.NotEqual(t, placeholderToken(0, "Mochi"), placeholderToken(0, "Momo"))
}

func TestApplyCorrections_KnownSubstitutions(t *testing.T) {
	assert.Equal(t, "起床後躲在裡面", applyCorrections("起牀後躲在裏面"))
	assert.Equal(t, "哈囉主人", applyCorrections("哈図主人"))
}

func TestApplyCorrections_Idempotent(t *testing.T) {
	inputs := []string{"起牀", "裏面有骨頭", "哈図", "已經是正確的裡面"}
	for _, in := range inputs {
		once := applyCorrections(in)
		twice := applyCorrections(once)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestConvert_PositionPreserved(t *testing.T) {
	n := newNormalizer(t)
	out, err := n.Convert("你好Mochi再见", []string{"Mochi"})
	require.NoError(t, err)

	idx := strings.Index(out, "Mochi")
	require.GreaterOrEqual(t, idx, 0)
	assert.Equal(t, "你好", out[:idx])
	assert.Equal(t, "再見", out[idx+len("Mochi"):])
}
