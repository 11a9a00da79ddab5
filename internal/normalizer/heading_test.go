package normalizer

import (
	"testing"

	"perfectcv-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestClassifyExactSynonyms 验证每个同义词都能映射回自己的章节
func TestClassifyExactSynonyms(t *testing.T) {
	c := NewHeadingClassifier()
	for key, synonyms := range sectionSynonyms {
		for _, syn := range synonyms {
			got, ok := c.Classify(syn)
			require.True(t, ok, "同义词 %q 应当命中", syn)
			assert.Equal(t, key, got, "同义词 %q 应当映射到 %s", syn, key)
		}
	}
}

// TestClassifyNormalization 验证大小写、尾部符号、多余空白不影响命中
func TestClassifyNormalization(t *testing.T) {
	c := NewHeadingClassifier()
	tests := []struct {
		line string
		want types.SectionKey
	}{
		{"WORK EXPERIENCE", types.SectionExperience},
		{"Work Experience:", types.SectionExperience},
		{"  Education  ", types.SectionEducation},
		{"Skills -", types.SectionSkills},
		{"SKILLS & TOOLS", types.SectionSkills},
		{"Certifications:", types.SectionCertifications},
		{"Hobbies", types.SectionOther},
	}
	for _, tt := range tests {
		got, ok := c.Classify(tt.line)
		require.True(t, ok, "标题 %q 应当命中", tt.line)
		assert.Equal(t, tt.want, got, "标题 %q 的归属不符", tt.line)
	}
}

// TestClassifyPrefixBounded 验证前缀匹配受词数上限约束，
// 正文句子里出现关键词不会被误判为标题
func TestClassifyPrefixBounded(t *testing.T) {
	c := NewHeadingClassifier()

	// 关键词+2词以内：命中
	got, ok := c.Classify("Skills and Technologies")
	require.True(t, ok)
	assert.Equal(t, types.SectionSkills, got)

	// 关键词+3词：超出上限，不命中
	_, ok = c.Classify("Skills and Technologies Overview")
	assert.False(t, ok, "超出关键词词数+2的行不应命中")

	// 关键词开头但整句过长：不命中
	_, ok = c.Classify("Experience has taught me that shipping early beats shipping perfect software")
	assert.False(t, ok, "长句不应被当作标题")

	// 关键词出现在句中而非行首：不命中
	_, ok = c.Classify("I have strong communication skills")
	assert.False(t, ok)
}

// TestClassifyEmptyAndUnknown 验证空行与未知标题的行为
func TestClassifyEmptyAndUnknown(t *testing.T) {
	c := NewHeadingClassifier()

	_, ok := c.Classify("")
	assert.False(t, ok)

	_, ok = c.Classify("   ")
	assert.False(t, ok)

	_, ok = c.Classify("Favorite Recipes")
	assert.False(t, ok)
}

// TestSynonymTableNormalized 同义词表自身必须已是规范化形式，
// 否则永远匹配不上
func TestSynonymTableNormalized(t *testing.T) {
	for key, synonyms := range sectionSynonyms {
		require.True(t, key.Valid(), "章节 %s 不是合法标识", key)
		for _, syn := range synonyms {
			assert.Equal(t, normalizeHeading(syn), syn, "同义词 %q 不是规范化形式", syn)
		}
	}
}
