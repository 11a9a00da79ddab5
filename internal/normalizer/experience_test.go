package normalizer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseExperienceBasic 验证 "Title at Company (Dates)" 加要点的标准形态
func TestParseExperienceBasic(t *testing.T) {
	block := `Software Engineer at Acme Corp (2020-2023)
- Built the data ingestion pipeline
- Reduced infrastructure costs by 40%

Intern at StartupX (Summer 2019)
- Developed internal tooling
- Tested release candidates`

	entries := NewExperienceParser(0).Parse(block)

	require.Len(t, entries, 2)

	assert.Equal(t, "Software Engineer", entries[0].Title)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "2020-2023", entries[0].Dates)
	assert.Equal(t, []string{
		"Built the data ingestion pipeline",
		"Reduced infrastructure costs by 40%",
	}, entries[0].Points)

	assert.Equal(t, "Intern", entries[1].Title)
	assert.Equal(t, "StartupX", entries[1].Company)
	assert.Equal(t, "Summer 2019", entries[1].Dates)
	assert.Len(t, entries[1].Points, 2)
}

// TestParseExperiencePipeForm 验证 "Company | Title | Dates" 管道形态
func TestParseExperiencePipeForm(t *testing.T) {
	entries := NewExperienceParser(0).Parse("Acme Corp | Software Engineer | 2020-2023")

	require.Len(t, entries, 1)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "Software Engineer", entries[0].Title)
	assert.Equal(t, "2020-2023", entries[0].Dates)
}

// TestParseExperienceDashDisambiguation 验证dash形态：
// 右侧含年份按日期处理，否则按 "Title - Company" 处理
func TestParseExperienceDashDisambiguation(t *testing.T) {
	entries := NewExperienceParser(0).Parse("Marketing Manager - 2018 to Present")
	require.Len(t, entries, 1)
	assert.Equal(t, "Marketing Manager", entries[0].Title)
	assert.Equal(t, "2018 to Present", entries[0].Dates)
	assert.Empty(t, entries[0].Company)

	entries = NewExperienceParser(0).Parse("Data Scientist - Remote\n- Analyzed churn data")
	require.Len(t, entries, 1)
	assert.Equal(t, "Data Scientist", entries[0].Title)
	assert.Equal(t, "Remote", entries[0].Company)
}

// TestParseExperienceTrailingLocation 验证公司名末尾的地点被拆出，
// 公司后缀不被误拆
func TestParseExperienceTrailingLocation(t *testing.T) {
	entries := NewExperienceParser(0).Parse("Engineer at Acme Corp, London (2021)")
	require.Len(t, entries, 1)
	assert.Equal(t, "Acme Corp", entries[0].Company)
	assert.Equal(t, "London", entries[0].Location)

	entries = NewExperienceParser(0).Parse("Engineer at Widgets, Inc. (2021)")
	require.Len(t, entries, 1)
	assert.Equal(t, "Widgets, Inc.", entries[0].Company)
	assert.Empty(t, entries[0].Location)
}

// TestParseExperienceStrengthening 验证要点强化：
// 动词开头的要点原样保留，其余补默认动词且只改写句首
func TestParseExperienceStrengthening(t *testing.T) {
	block := `Engineer at Acme (2021)
- Led the migration to Kubernetes
- Weekly reporting to stakeholders
- API integration with payment providers`

	entries := NewExperienceParser(0).Parse(block)

	require.Len(t, entries, 1)
	assert.Equal(t, []string{
		"Led the migration to Kubernetes",
		"Contributed to weekly reporting to stakeholders",
		"Contributed to API integration with payment providers",
	}, entries[0].Points)
}

// TestParseExperiencePointCap 验证要点数量上限
func TestParseExperiencePointCap(t *testing.T) {
	block := "Engineer at Acme (2021)\n"
	for i := 0; i < 12; i++ {
		block += fmt.Sprintf("- Built feature number %d\n", i)
	}

	entries := NewExperienceParser(0).Parse(block)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Points, defaultMaxPoints)

	entries = NewExperienceParser(3).Parse(block)
	require.Len(t, entries, 1)
	assert.Len(t, entries[0].Points, 3)
}

// TestParseExperienceDropsEmptyHeader 验证title与company都为空的条目被丢弃
func TestParseExperienceDropsEmptyHeader(t *testing.T) {
	entries := NewExperienceParser(0).Parse("2020 - 2023")
	assert.Empty(t, entries)

	entries = NewExperienceParser(0).Parse("")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

// TestParseExperienceFreeDateRange 验证无括号的自由日期范围被剥进dates
func TestParseExperienceFreeDateRange(t *testing.T) {
	entries := NewExperienceParser(0).Parse("Backend Developer at CloudNine Jan 2019 - Mar 2022")

	require.Len(t, entries, 1)
	assert.Equal(t, "Backend Developer", entries[0].Title)
	assert.Equal(t, "CloudNine", entries[0].Company)
	assert.Equal(t, "Jan 2019 - Mar 2022", entries[0].Dates)
}
