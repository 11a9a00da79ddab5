package normalizer

import (
	"regexp"
	"strings"

	"perfectcv-go/internal/types"
)

// degreeKeywords 学位关键词，用于判断分隔行的哪一侧是学位
var degreeKeywords = []string{
	"bachelor", "master", "phd", "ph.d", "doctorate", "diploma", "certificate",
	"associate", "bsc", "msc", "mba", "btech", "mtech", "beng", "meng",
	"b.s", "m.s", "b.a", "m.a", "b.e", "b.", "m.",
}

// placeholderEducation 上游抽取注入的教育占位符
var placeholderEducation = map[string]bool{
	"institution": true,
	"degree":      true,
	"university":  true,
	"school":      true,
}

var (
	bracketYearRe  = regexp.MustCompile(`[(\[]\s*(\d{4})\s*[)\]]`)
	standaloneYear = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	gradYearRe     = regexp.MustCompile(`(?i)(?:graduat\w*|expected)\s*[:\-]?\s*((?:19|20)\d{2}|present)`)
)

// EducationParser 把教育章节文本解析为结构化条目列表
type EducationParser struct{}

// NewEducationParser 创建教育经历解析器
func NewEducationParser() *EducationParser {
	return &EducationParser{}
}

// Parse 解析教育块：每个空行分隔的段落产出一个条目，
// 段落内的列表行视为细节而非新条目。degree与school都为空、
// 或两者均为占位符的条目被丢弃
func (p *EducationParser) Parse(block string) []types.EducationEntry {
	entries := []types.EducationEntry{}
	if strings.TrimSpace(block) == "" {
		return entries
	}

	for _, paragraph := range splitParagraphs(block) {
		entry := parseEducationParagraph(paragraph)
		if entry.Degree == "" && entry.School == "" {
			continue
		}
		if placeholderEducation[strings.ToLower(entry.Degree)] && placeholderEducation[strings.ToLower(entry.School)] {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func parseEducationParagraph(paragraph string) types.EducationEntry {
	var entry types.EducationEntry

	// 段落的首个非列表行承载学位/院校信息，列表行只是细节
	var headline string
	for _, rawLine := range strings.Split(paragraph, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if _, bullet := stripBullet(line); bullet {
			continue
		}
		headline = line
		break
	}
	if headline == "" {
		return entry
	}

	headline, entry.Year = extractYear(headline)
	if entry.Year == "" {
		// 年份也可能躲在段落的细节行里
		_, entry.Year = extractYear(paragraph)
	}
	headline = strings.TrimSpace(strings.Trim(headline, " ,;-–"))

	// "School | Degree" 的管道形式按固定顺序处理
	if strings.Contains(headline, " | ") {
		parts := splitAndTrim(headline, " | ")
		if len(parts) >= 2 {
			entry.School = parts[0]
			entry.Degree = parts[1]
			return entry
		}
	}

	// dash形式：哪侧含学位关键词哪侧就是degree，默认左侧
	for _, sep := range []string{" - ", " – ", "–"} {
		idx := strings.Index(headline, sep)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(headline[:idx])
		right := strings.TrimSpace(headline[idx+len(sep):])
		if right == "" {
			break
		}
		if !containsDegreeKeyword(left) && containsDegreeKeyword(right) {
			entry.Degree = right
			entry.School = left
		} else {
			entry.Degree = left
			entry.School = right
		}
		return entry
	}

	entry.Degree = headline
	return entry
}

// extractYear 依次尝试括号年份、毕业措辞、独立四位年份
func extractYear(text string) (string, string) {
	if m := bracketYearRe.FindStringSubmatch(text); m != nil {
		rest := strings.Replace(text, m[0], "", 1)
		return strings.TrimSpace(rest), m[1]
	}
	if m := gradYearRe.FindStringSubmatch(text); m != nil {
		rest := strings.Replace(text, m[0], "", 1)
		return strings.TrimSpace(rest), m[1]
	}
	if m := standaloneYear.FindString(text); m != "" {
		rest := strings.Replace(text, m, "", 1)
		return strings.TrimSpace(rest), m
	}
	return text, ""
}

func containsDegreeKeyword(s string) bool {
	lower := strings.ToLower(s)
	for _, kw := range degreeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// splitParagraphs 按空行切分文本块
func splitParagraphs(block string) []string {
	var paragraphs []string
	var current []string
	for _, line := range strings.Split(block, "\n") {
		if strings.TrimSpace(line) == "" {
			if len(current) > 0 {
				paragraphs = append(paragraphs, strings.Join(current, "\n"))
				current = current[:0]
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		paragraphs = append(paragraphs, strings.Join(current, "\n"))
	}
	return paragraphs
}
