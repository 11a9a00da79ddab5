package normalizer

import (
	"testing"

	"perfectcv-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSplitter() *SectionSplitter {
	return NewSectionSplitter(NewHeadingClassifier(), 0)
}

// TestSplitWholeLineHeadings 验证整行标题切换章节、内容归属正确
func TestSplitWholeLineHeadings(t *testing.T) {
	text := `John Smith
john@example.com

Work Experience
Software Engineer at Acme Corp
- Built the pipeline

Education
BSc Computer Science - Leeds (2018)`

	sections := newTestSplitter().Split(text)

	assert.Contains(t, sections.Get(types.SectionAbout), "John Smith")
	assert.Contains(t, sections.Get(types.SectionAbout), "john@example.com")
	assert.Contains(t, sections.Get(types.SectionExperience), "Software Engineer at Acme Corp")
	assert.Contains(t, sections.Get(types.SectionExperience), "- Built the pipeline")
	assert.Contains(t, sections.Get(types.SectionEducation), "BSc Computer Science")
	// 标题行本身不进入章节内容
	assert.NotContains(t, sections.Get(types.SectionExperience), "Work Experience")
}

// TestSplitInlineHeading 验证 "Skills: Python, SQL, AWS" 形式的行内标题：
// 切换章节且冒号右侧内容作为该章节的首行
func TestSplitInlineHeading(t *testing.T) {
	text := `Jane Doe

Skills: Python, SQL, AWS

Experience
Analyst at DataCo`

	sections := newTestSplitter().Split(text)

	assert.Equal(t, "Python, SQL, AWS", sections.Get(types.SectionSkills))
	assert.Contains(t, sections.Get(types.SectionExperience), "Analyst at DataCo")
}

// TestSplitBulletLineNeverHeading 验证列表行即使以标题关键词开头也不切换章节
func TestSplitBulletLineNeverHeading(t *testing.T) {
	text := `Work Experience
Engineer at Acme
- Skills: debugging under pressure
- Education of junior teammates`

	sections := newTestSplitter().Split(text)

	assert.Contains(t, sections.Get(types.SectionExperience), "- Skills: debugging under pressure")
	assert.Contains(t, sections.Get(types.SectionExperience), "- Education of junior teammates")
	assert.Empty(t, sections.Get(types.SectionSkills))
	assert.Empty(t, sections.Get(types.SectionEducation))
}

// TestSplitHeadingWordLimit 验证超过词数上限的行按正文处理
func TestSplitHeadingWordLimit(t *testing.T) {
	text := `Summary
Experience has taught me that shipping early beats shipping perfect`

	sections := newTestSplitter().Split(text)

	assert.Contains(t, sections.Get(types.SectionAbout), "Experience has taught me")
	assert.Empty(t, sections.Get(types.SectionExperience))
}

// TestSplitBlankLineCollapse 验证连续空行折叠为单个段落分隔
func TestSplitBlankLineCollapse(t *testing.T) {
	text := "Education\nBSc Physics - MIT (2019)\n\n\n\nMSc Physics - MIT (2021)"

	sections := newTestSplitter().Split(text)

	assert.Equal(t, "BSc Physics - MIT (2019)\n\nMSc Physics - MIT (2021)", sections.Get(types.SectionEducation))
}

// TestSplitUnstructuredFallsToAbout 验证完全无结构的文本整体落入about
func TestSplitUnstructuredFallsToAbout(t *testing.T) {
	text := "Just a plain paragraph about someone with no headings at all."

	sections := newTestSplitter().Split(text)

	assert.Equal(t, text, sections.Get(types.SectionAbout))
}

// TestSplitAugmentation 验证无换行结构的文档通过二次抽取补齐空章节
func TestSplitAugmentation(t *testing.T) {
	text := "John Smith is a developer. Skills: Python, Docker. He lives in Leeds."

	sections := newTestSplitter().Split(text)

	skills := sections.Get(types.SectionSkills)
	require.NotEmpty(t, skills, "二次抽取应当补出skills章节")
	assert.Contains(t, skills, "Python")
}

// TestSplitBulletVariants 验证各种项目符号统一归一为 "- "
func TestSplitBulletVariants(t *testing.T) {
	text := "Experience\nEngineer at Acme\n* Did a thing\n• Did another\n•No space here"

	sections := newTestSplitter().Split(text)

	content := sections.Get(types.SectionExperience)
	assert.Contains(t, content, "- Did a thing")
	assert.Contains(t, content, "- Did another")
	assert.Contains(t, content, "- No space here")
}

// TestSplitEmptyInput 验证空输入返回空映射而非panic
func TestSplitEmptyInput(t *testing.T) {
	sections := newTestSplitter().Split("")
	for _, key := range types.AllSectionKeys() {
		assert.Empty(t, sections.Get(key))
	}
}
