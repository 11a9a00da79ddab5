package normalizer

import (
	"strings"
	"testing"

	"perfectcv-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullCV() *types.StructuredCV {
	cv := types.NewStructuredCV()
	cv.ProfessionalSummary = strings.Repeat("Seasoned engineer with broad production experience. ", 8)
	cv.Skills = types.SkillSet{
		Technical: []string{"Go", "Python"},
		Soft:      []string{"Communication"},
		Other:     []string{},
	}
	cv.WorkExperience = []types.ExperienceEntry{
		{Title: "Engineer", Company: "Acme", Points: []string{"Built pipelines", "Reduced costs"}},
	}
	cv.Education = []types.EducationEntry{{Degree: "BSc", School: "Leeds", Year: "2018"}}
	cv.Languages = []string{"English", "Dutch"}
	return cv
}

// TestGenerateEmptyCV 验证空简历触发各缺失建议，顺序固定
func TestGenerateEmptyCV(t *testing.T) {
	suggestions := NewSuggestionEngine().Generate(types.NewStructuredCV(), nil)

	require.NotEmpty(t, suggestions)
	categories := make([]string, 0, len(suggestions))
	for _, s := range suggestions {
		categories = append(categories, s.Category)
		assert.NotEmpty(t, s.Message)
	}
	assert.Equal(t, []string{
		SuggestionSummary,
		SuggestionSkills,
		SuggestionExperience,
		SuggestionLanguages,
	}, categories)
}

// TestGenerateCompleteCV 验证完整简历不触发缺失建议
func TestGenerateCompleteCV(t *testing.T) {
	suggestions := NewSuggestionEngine().Generate(fullCV(), nil)
	assert.Empty(t, suggestions)
}

// TestGenerateDeterministic 验证同一输入两次生成结果完全一致
func TestGenerateDeterministic(t *testing.T) {
	engine := NewSuggestionEngine()
	cv := types.NewStructuredCV()
	cv.ProfessionalSummary = "Engineer."

	first := engine.Generate(cv, []string{"kubernetes", "terraform"})
	second := engine.Generate(cv, []string{"kubernetes", "terraform"})

	assert.Equal(t, first, second)
}

// TestGenerateMissingKeywords 验证岗位关键词缺口建议
func TestGenerateMissingKeywords(t *testing.T) {
	suggestions := NewSuggestionEngine().Generate(fullCV(), []string{"kubernetes", "terraform"})

	require.Len(t, suggestions, 1)
	assert.Equal(t, SuggestionKeywords, suggestions[0].Category)
	assert.Contains(t, suggestions[0].Message, "kubernetes")
	assert.Contains(t, suggestions[0].Message, "terraform")
}

// TestGenerateThinExperience 验证要点不足的经历条目被点名
func TestGenerateThinExperience(t *testing.T) {
	cv := fullCV()
	cv.WorkExperience = append(cv.WorkExperience, types.ExperienceEntry{
		Title: "Intern", Company: "StartupX", Points: []string{"Helped out"},
	})

	suggestions := NewSuggestionEngine().Generate(cv, nil)

	require.Len(t, suggestions, 1)
	assert.Equal(t, SuggestionExperience, suggestions[0].Category)
	assert.Contains(t, suggestions[0].Message, "1")
}

// TestGenerateShortSummary 验证过短摘要的扩写建议
func TestGenerateShortSummary(t *testing.T) {
	cv := fullCV()
	cv.ProfessionalSummary = "Engineer with some experience."

	suggestions := NewSuggestionEngine().Generate(cv, nil)

	require.Len(t, suggestions, 1)
	assert.Equal(t, SuggestionSummary, suggestions[0].Category)
	assert.Contains(t, suggestions[0].Message, "Expand")
}

// TestGenerateNilCV 验证nil输入返回空列表而非panic
func TestGenerateNilCV(t *testing.T) {
	suggestions := NewSuggestionEngine().Generate(nil, nil)
	assert.NotNil(t, suggestions)
	assert.Empty(t, suggestions)
}
