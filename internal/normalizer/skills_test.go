package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestCategorizeDedupPreservesFirstCasing 验证大小写不敏感去重：
// 保留首次出现的写法与顺序
func TestCategorizeDedupPreservesFirstCasing(t *testing.T) {
	result := NewSkillsCategorizer().Categorize([]string{"Python", "react", "AWS", "python", "REACT"})

	assert.Equal(t, []string{"Python", "react", "AWS"}, result.Technical)
	assert.Empty(t, result.Soft)
	assert.Empty(t, result.Other)
	assert.Equal(t, 3, result.Total())
}

// TestCategorizeBuckets 验证技术/软技能/其他三个桶的归属
func TestCategorizeBuckets(t *testing.T) {
	result := NewSkillsCategorizer().Categorize([]string{
		"Python", "Docker", "Go", "C++",
		"Communication", "Team Leadership", "Problem Solving",
		"Photography", "Cooking",
		"ETL", "SQL",
	})

	assert.Equal(t, []string{"Python", "Docker", "Go", "C++", "ETL", "SQL"}, result.Technical)
	assert.Equal(t, []string{"Communication", "Team Leadership", "Problem Solving"}, result.Soft)
	assert.Equal(t, []string{"Photography", "Cooking"}, result.Other)
}

// TestCategorizeAcronymsAreTechnical 验证短的全大写词按技术缩写处理
func TestCategorizeAcronymsAreTechnical(t *testing.T) {
	result := NewSkillsCategorizer().Categorize([]string{"KPI", "SEO", "CRM"})

	assert.Equal(t, []string{"KPI", "SEO", "CRM"}, result.Technical)
}

// TestCategorizeDisjointBuckets 验证任意输入下三个桶互不相交
func TestCategorizeDisjointBuckets(t *testing.T) {
	result := NewSkillsCategorizer().Categorize([]string{
		"Python", "Machine Learning", "Communication", "Leadership",
		"Gardening", "AWS", "teamwork", "Creative Writing", "REST APIs",
	})

	seen := make(map[string]string)
	for bucket, skills := range map[string][]string{
		"technical": result.Technical,
		"soft":      result.Soft,
		"other":     result.Other,
	} {
		for _, skill := range skills {
			lower := strings.ToLower(skill)
			prev, dup := seen[lower]
			require.False(t, dup, "技能 %q 同时出现在 %s 和 %s", skill, prev, bucket)
			seen[lower] = bucket
		}
	}
	assert.Len(t, seen, result.Total())
}

// TestCategorizeEmptyInput 验证空输入返回三个已初始化的空桶
func TestCategorizeEmptyInput(t *testing.T) {
	result := NewSkillsCategorizer().Categorize(nil)

	assert.NotNil(t, result.Technical)
	assert.NotNil(t, result.Soft)
	assert.NotNil(t, result.Other)
	assert.Equal(t, 0, result.Total())
}
