package normalizer

import (
	"testing"

	"perfectcv-go/internal/nlp"
	"perfectcv-go/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubRecognizer 测试用的固定实体序列，避免依赖真实NER模型
type stubRecognizer struct {
	entities []nlp.Entity
}

func (s *stubRecognizer) Entities(string) []nlp.Entity {
	return s.entities
}

// TestExtractNameAndEmailOnly 验证只有姓名和邮箱的输入：
// 两个字段被提取，其余字段为空字符串而非凭空构造
func TestExtractNameAndEmailOnly(t *testing.T) {
	text := "Jane Doe\njane.doe@example.com"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "Jane Doe", info.Name)
	assert.Equal(t, "jane.doe@example.com", info.Email)
	assert.Empty(t, info.Phone)
	assert.Empty(t, info.Location)
	assert.Empty(t, info.Address)
	assert.Empty(t, info.DateOfBirth)
	assert.Empty(t, info.LinkedIn)
	assert.Empty(t, info.GitHub)
	assert.Empty(t, info.Website)
}

// TestExtractPhoneLabeled 验证库无法校验的号码退回标签字段原样保留
func TestExtractPhoneLabeled(t *testing.T) {
	text := "John Smith\njohn@example.com\nPhone: (555) 123-4567"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "(555) 123-4567", info.Phone)
}

// TestExtractPhoneDigitRun 验证无分隔符的连续数字串作为最后兜底
func TestExtractPhoneDigitRun(t *testing.T) {
	text := "Reach me on 5551234567 anytime"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "5551234567", info.Phone)
}

// TestExtractLinks 验证linkedin/github识别并补全协议头，
// 其他链接落入website且不与前两者重复
func TestExtractLinks(t *testing.T) {
	text := `Jane Doe
linkedin.com/in/janedoe
github.com/janedoe
https://janedoe.dev`

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "https://linkedin.com/in/janedoe", info.LinkedIn)
	assert.Equal(t, "https://github.com/janedoe", info.GitHub)
	assert.Equal(t, "https://janedoe.dev", info.Website)
}

// TestExtractNameFromRecognizer 验证PERSON实体优先于行级启发式
func TestExtractNameFromRecognizer(t *testing.T) {
	recognizer := &stubRecognizer{entities: []nlp.Entity{
		{Text: "Senior Engineer", Label: "TITLE"},
		{Text: "Maria Garcia Lopez", Label: nlp.LabelPerson},
		{Text: "Madrid", Label: nlp.LabelGPE},
	}}
	text := "Curriculum Vitae\nMaria Garcia Lopez\nMadrid, Spain"

	info := NewContactExtractor(recognizer).Extract(text, text)

	assert.Equal(t, "Maria Garcia Lopez", info.Name)
	assert.Equal(t, "Madrid", info.Location)
}

// TestExtractNameFallbackLine 验证无识别器时的行级兜底：
// 跳过邮箱/链接行，剥离 "Name:" 标签
func TestExtractNameFallbackLine(t *testing.T) {
	text := "jane@example.com\nName: Jane Doe\nSome other text"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "Jane Doe", info.Name)
}

// TestExtractSinglePersonTokenRejected 验证单词PERSON实体被拒绝，
// 行级启发式接管
func TestExtractSinglePersonTokenRejected(t *testing.T) {
	recognizer := &stubRecognizer{entities: []nlp.Entity{
		{Text: "Jane", Label: nlp.LabelPerson},
	}}
	text := "Jane Doe\njane@example.com"

	info := NewContactExtractor(recognizer).Extract(text, text)

	assert.Equal(t, "Jane Doe", info.Name)
}

// TestExtractAddressLine 验证Address标签行：整行进address，
// 末尾两个逗号分段兜底location
func TestExtractAddressLine(t *testing.T) {
	text := "John Smith\nAddress: 42 Baker Street, London, UK"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Equal(t, "42 Baker Street, London, UK", info.Address)
	assert.Equal(t, "London, UK", info.Location)
}

// TestExtractDOBOnlyNearLabel 验证出生日期仅在紧跟标签时提取，
// 简历里其他日期不会被误认
func TestExtractDOBOnlyNearLabel(t *testing.T) {
	withLabel := "John Smith\nDate of Birth: 12/03/1990"
	info := NewContactExtractor(nil).Extract(withLabel, withLabel)
	assert.Equal(t, "12/03/1990", info.DateOfBirth)

	withoutLabel := "John Smith\nGraduated 12/03/2015 from Leeds"
	info = NewContactExtractor(nil).Extract(withoutLabel, withoutLabel)
	assert.Empty(t, info.DateOfBirth)
}

// TestExtractPlaceholdersScrubbed 验证占位符值被归一为缺失
func TestExtractPlaceholdersScrubbed(t *testing.T) {
	text := "Name: Your Name\nnot.a.placeholder@example.com"

	info := NewContactExtractor(nil).Extract(text, text)

	assert.Empty(t, info.Name, "占位符姓名应被清除")
	assert.Equal(t, "not.a.placeholder@example.com", info.Email)
}

// TestExtractEmptyInput 验证空输入返回全零值
func TestExtractEmptyInput(t *testing.T) {
	info := NewContactExtractor(nil).Extract("", "")
	require.Equal(t, types.ContactInfo{}, info)
}
