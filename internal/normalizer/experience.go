package normalizer

import (
	"regexp"
	"strings"

	"perfectcv-go/internal/types"
)

// defaultMaxPoints 单条经历保留的最多要点数，防止异常长的块撑爆条目
const defaultMaxPoints = 8

// defaultActionVerb 要点强化时补在句首的默认动词短语
const defaultActionVerb = "Contributed to"

// actionVerbs 常见的简历行为动词，要点以这些词开头时不做强化
var actionVerbs = map[string]bool{
	"led": true, "developed": true, "built": true, "managed": true,
	"created": true, "designed": true, "implemented": true, "improved": true,
	"launched": true, "delivered": true, "increased": true, "reduced": true,
	"coordinated": true, "analyzed": true, "automated": true, "optimized": true,
	"mentored": true, "established": true, "spearheaded": true, "drove": true,
	"architected": true, "maintained": true, "migrated": true, "owned": true,
	"refactored": true, "resolved": true, "streamlined": true, "supported": true,
	"collaborated": true, "contributed": true, "achieved": true, "organized": true,
	"initiated": true, "executed": true, "tested": true, "deployed": true,
	"wrote": true, "researched": true, "presented": true, "trained": true,
}

var (
	// trailingDateRe 行尾括号/方括号中的日期范围
	trailingDateRe = regexp.MustCompile(`(?i)\s*[(\[]([^()\[\]]*(?:\d{4}|present|current)[^()\[\]]*)[)\]]\s*$`)
	// freeDateRangeRe "Month Year – Month Year|Present" 形式的自由日期范围
	freeDateRangeRe = regexp.MustCompile(`(?i)((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{4})\s*(?:[-–—~]|to|until)\s*((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{4}|\d{4}|present|current|now)`)
	// yearOrPresentRe 判断dash右侧是否像日期
	yearOrPresentRe = regexp.MustCompile(`(?i)\d{4}|present|current`)
)

// experienceSeparators 识别职位头部行的分隔符，按置信度排序
var experienceSeparators = []string{" at ", " | ", " - ", "–"}

// ExperienceParser 把一段经历文本解析为结构化条目列表
type ExperienceParser struct {
	maxPoints int
}

// NewExperienceParser 创建经历解析器。maxPoints<=0时使用默认上限
func NewExperienceParser(maxPoints int) *ExperienceParser {
	if maxPoints <= 0 {
		maxPoints = defaultMaxPoints
	}
	return &ExperienceParser{maxPoints: maxPoints}
}

// Parse 解析经历块。非列表且含分隔符的行开启新条目，
// 其后的列表行作为该条目的要点，空行或下一个头部行结束当前条目。
// title与company都为空的条目被丢弃
func (p *ExperienceParser) Parse(block string) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	if strings.TrimSpace(block) == "" {
		return entries
	}

	var current *types.ExperienceEntry
	flush := func() {
		if current == nil {
			return
		}
		if current.Title != "" || current.Company != "" {
			current.Points = strengthenPoints(current.Points, p.maxPoints)
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, rawLine := range strings.Split(block, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			flush()
			continue
		}

		stripped, bullet := stripBullet(line)
		if !bullet && isExperienceHeader(stripped) {
			flush()
			entry := parseExperienceHeader(stripped)
			current = &entry
			continue
		}

		if current != nil {
			current.Points = append(current.Points, stripped)
			continue
		}

		// 块首没有头部行时，把含年份的独立行当作日期孤行忽略，
		// 其余文本行尝试按头部解析，避免整块丢失
		if yearOrPresentRe.MatchString(stripped) && len(strings.Fields(stripped)) <= 3 {
			continue
		}
		entry := parseExperienceHeader(stripped)
		if entry.Title != "" || entry.Company != "" {
			current = &entry
		}
	}
	flush()

	return entries
}

func isExperienceHeader(line string) bool {
	for _, sep := range experienceSeparators {
		if strings.Contains(line, sep) {
			return true
		}
	}
	return false
}

// parseExperienceHeader 解析职位头部行。
// 先剥离尾部日期，再按 "Title at Company" → 管道分隔 → dash形式的顺序尝试
func parseExperienceHeader(line string) types.ExperienceEntry {
	var entry types.ExperienceEntry
	line, entry.Dates = extractDates(line)
	line = strings.TrimSpace(strings.TrimRight(line, ",;"))

	// "Title at Company"
	if idx := strings.Index(line, " at "); idx > 0 {
		entry.Title = strings.TrimSpace(line[:idx])
		company, location := splitTrailingLocation(strings.TrimSpace(line[idx+4:]))
		entry.Company = company
		entry.Location = location
		return entry
	}

	// "Company | Title | [Dates]"
	if strings.Contains(line, " | ") {
		parts := splitAndTrim(line, " | ")
		if len(parts) >= 2 {
			entry.Company = parts[0]
			entry.Title = parts[1]
			if len(parts) >= 3 && entry.Dates == "" {
				entry.Dates = parts[2]
			}
			return entry
		}
	}

	// "Title – Dates"：仅当右侧含年份或Present才按日期处理
	for _, sep := range []string{" - ", " – ", "–"} {
		idx := strings.Index(line, sep)
		if idx <= 0 {
			continue
		}
		left := strings.TrimSpace(line[:idx])
		right := strings.TrimSpace(line[idx+len(sep):])
		if right == "" {
			continue
		}
		if yearOrPresentRe.MatchString(right) {
			entry.Title = left
			if entry.Dates == "" {
				entry.Dates = right
			}
			return entry
		}
		// 非日期的dash形式按 "Title - Company" 处理；
		// "Data Scientist - Remote" 这类行天然歧义，保持该顺序不再猜测
		entry.Title = left
		entry.Company = right
		return entry
	}

	entry.Title = line
	return entry
}

// extractDates 从头部行剥离日期范围，返回剩余文本与日期
func extractDates(line string) (string, string) {
	if m := trailingDateRe.FindStringSubmatch(line); m != nil {
		return strings.TrimSpace(trailingDateRe.ReplaceAllString(line, "")), strings.TrimSpace(m[1])
	}
	if m := freeDateRangeRe.FindString(line); m != "" {
		rest := strings.Replace(line, m, "", 1)
		rest = strings.TrimSpace(strings.Trim(rest, " ,;|–-"))
		return rest, strings.TrimSpace(m)
	}
	return line, ""
}

// splitTrailingLocation 把 "Acme Corp, London" 拆成公司与地点。
// 末段含数字时不拆，避免破坏 "Area 51, Inc." 之类的公司名
func splitTrailingLocation(company string) (string, string) {
	idx := strings.LastIndex(company, ", ")
	if idx <= 0 {
		return company, ""
	}
	tail := strings.TrimSpace(company[idx+2:])
	if tail == "" || hasDigitRe.MatchString(tail) || looksLikeCorpSuffix(tail) {
		return company, ""
	}
	return strings.TrimSpace(company[:idx]), tail
}

func looksLikeCorpSuffix(s string) bool {
	switch strings.ToLower(strings.TrimRight(s, ".")) {
	case "inc", "llc", "ltd", "co", "corp", "gmbh", "plc", "sa", "bv":
		return true
	}
	return false
}

// strengthenPoints 要点强化：不以行为动词开头的要点补上默认动词。
// 只改写句首，不新增任何事实内容，同时应用数量上限
func strengthenPoints(points []string, maxPoints int) []string {
	if len(points) > maxPoints {
		points = points[:maxPoints]
	}
	out := make([]string, 0, len(points))
	for _, point := range points {
		point = strings.TrimSpace(point)
		if point == "" {
			continue
		}
		words := strings.Fields(point)
		first := strings.ToLower(strings.Trim(words[0], ".,;:"))
		if actionVerbs[first] {
			out = append(out, point)
			continue
		}
		out = append(out, defaultActionVerb+" "+lowerFirst(point))
	}
	return out
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r := []rune(s)
	// 全大写开头的缩写保持原样，如 "API integration"
	if len(r) >= 2 && r[0] >= 'A' && r[0] <= 'Z' && r[1] >= 'A' && r[1] <= 'Z' {
		return s
	}
	if r[0] >= 'A' && r[0] <= 'Z' {
		r[0] = r[0] + ('a' - 'A')
	}
	return string(r)
}

func splitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
