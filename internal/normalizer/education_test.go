package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseEducationBasic 验证 "Degree - School (Year)" 的标准形态
func TestParseEducationBasic(t *testing.T) {
	entries := NewEducationParser().Parse("BSc Computer Science - University of Leeds (2018)")

	require.Len(t, entries, 1)
	assert.Equal(t, "BSc Computer Science", entries[0].Degree)
	assert.Equal(t, "University of Leeds", entries[0].School)
	assert.Equal(t, "2018", entries[0].Year)
}

// TestParseEducationDashSideDetection 验证dash两侧的学位关键词决定归属
func TestParseEducationDashSideDetection(t *testing.T) {
	// 学位在右侧：交换
	entries := NewEducationParser().Parse("Stanford University - Master of Science (2020)")
	require.Len(t, entries, 1)
	assert.Equal(t, "Master of Science", entries[0].Degree)
	assert.Equal(t, "Stanford University", entries[0].School)

	// 两侧都无关键词：默认左侧为学位
	entries = NewEducationParser().Parse("Advanced Analytics Program - Coursera (2021)")
	require.Len(t, entries, 1)
	assert.Equal(t, "Advanced Analytics Program", entries[0].Degree)
	assert.Equal(t, "Coursera", entries[0].School)
}

// TestParseEducationPipeForm 验证 "School | Degree" 管道形态的固定顺序
func TestParseEducationPipeForm(t *testing.T) {
	entries := NewEducationParser().Parse("MIT | BSc Physics (2019)")

	require.Len(t, entries, 1)
	assert.Equal(t, "MIT", entries[0].School)
	assert.Equal(t, "BSc Physics", entries[0].Degree)
	assert.Equal(t, "2019", entries[0].Year)
}

// TestParseEducationParagraphPerEntry 验证空行切分条目、列表行是细节不是新条目
func TestParseEducationParagraphPerEntry(t *testing.T) {
	block := `MSc Data Science - TU Delft (2022)
- Thesis on streaming anomaly detection
- GPA 8.5/10

BSc Mathematics - Utrecht University (2019)`

	entries := NewEducationParser().Parse(block)

	require.Len(t, entries, 2)
	assert.Equal(t, "MSc Data Science", entries[0].Degree)
	assert.Equal(t, "TU Delft", entries[0].School)
	assert.Equal(t, "2022", entries[0].Year)
	assert.Equal(t, "BSc Mathematics", entries[1].Degree)
}

// TestParseEducationYearFromDetails 验证头行无年份时从细节行回捞
func TestParseEducationYearFromDetails(t *testing.T) {
	block := "BA History - Kings College\n- Graduated 2016 with honours"

	entries := NewEducationParser().Parse(block)

	require.Len(t, entries, 1)
	assert.Equal(t, "2016", entries[0].Year)
}

// TestParseEducationPlaceholderDropped 验证占位符条目被丢弃
func TestParseEducationPlaceholderDropped(t *testing.T) {
	entries := NewEducationParser().Parse("Degree - University")
	assert.Empty(t, entries)

	// 只有一侧是占位符时保留
	entries = NewEducationParser().Parse("MBA - University")
	assert.Len(t, entries, 1)
}

// TestParseEducationEmptyInput 验证空输入返回空列表
func TestParseEducationEmptyInput(t *testing.T) {
	entries := NewEducationParser().Parse("")
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}
