package normalizer

import (
	"regexp"
	"strings"

	"perfectcv-go/internal/nlp"
	"perfectcv-go/internal/types"

	"github.com/nyaruka/phonenumbers"
)

// 联系方式相关的匹配模式。全部为包级只读值，并发调用安全
var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/[A-Za-z0-9_\-/%.]+`)
	githubRe   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[A-Za-z0-9_\-/%.]+`)
	websiteRe  = regexp.MustCompile(`(?i)\b(?:https?://|www\.)[^\s,;]+`)

	phoneLabelRe   = regexp.MustCompile(`(?i)(?:phone|mobile|tel)\s*[:\-]\s*([+()\d][\d\s().\-]{5,}\d)`)
	phoneGenericRe = regexp.MustCompile(`[+]?\(?\d[\d\s().\-]{5,}\d`)
	digitRunRe     = regexp.MustCompile(`\d{7,}`)

	nameLabelRe   = regexp.MustCompile(`(?i)^name\s*[:\-]\s*`)
	addressLineRe = regexp.MustCompile(`(?i)(?:address|location)\s*[:\-]\s*([^\n]+)`)

	dobRe = regexp.MustCompile(`(?i)(?:d\.?o\.?b\.?|date of birth|born)\s*[:\-]?\s*(\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}|\d{1,2}(?:st|nd|rd|th)?\s+[A-Za-z]{3,9}\.?\s+\d{4}|[A-Za-z]{3,9}\.?\s+\d{1,2},?\s+\d{4})`)

	hasDigitRe = regexp.MustCompile(`\d`)
)

// placeholderValues 上游AI抽取会注入的占位符，一律按缺失处理
var placeholderValues = map[string]bool{
	"not provided": true,
	"your name":    true,
	"n/a":          true,
	"none":         true,
	"unknown":      true,
}

// ContactExtractor 从about章节（必要时回退到全文）提取联系信息。
// 每一步只填充尚未填充的字段，高置信度的结果不会被低置信度覆盖。
type ContactExtractor struct {
	recognizer nlp.EntityRecognizer
}

// NewContactExtractor 创建联系信息提取器。recognizer可以为nil，
// 此时姓名/地点仅通过行级启发式提取
func NewContactExtractor(recognizer nlp.EntityRecognizer) *ContactExtractor {
	return &ContactExtractor{recognizer: recognizer}
}

// Extract 提取联系信息。返回值所有字段都已赋值（未知为空字符串），
// 下游JSON序列化无需判空
func (e *ContactExtractor) Extract(aboutText, fullText string) types.ContactInfo {
	var info types.ContactInfo

	// 1. 邮箱：about优先，全文兜底
	fill(&info.Email, emailRe.FindString(aboutText))
	fill(&info.Email, emailRe.FindString(fullText))

	// 2. 电话：库解析 → 标签字段 → 通用分隔数字 → 连续数字串
	fill(&info.Phone, e.findPhone(aboutText))
	fill(&info.Phone, e.findPhone(fullText))

	// 3. 链接
	fill(&info.LinkedIn, ensureScheme(linkedinRe.FindString(fullText)))
	fill(&info.GitHub, ensureScheme(githubRe.FindString(fullText)))
	fill(&info.Website, e.findWebsite(fullText, info.LinkedIn, info.GitHub))

	// 4-5. 姓名与地点：优先实体识别，行级启发式兜底
	head := firstLines(fullText, 10)
	entities := e.recognize(head)
	fill(&info.Name, pickPerson(entities))
	fill(&info.Name, fallbackName(head, info))
	fill(&info.Location, pickLocation(entities))
	e.fillAddress(&info, fullText)

	// 6. 出生日期：仅接受紧跟DOB标签的日期，绝不凭空构造
	if m := dobRe.FindStringSubmatch(fullText); m != nil {
		fill(&info.DateOfBirth, m[1])
	}

	scrubPlaceholders(&info)
	return info
}

func (e *ContactExtractor) recognize(text string) []nlp.Entity {
	if e.recognizer == nil {
		return nil
	}
	return e.recognizer.Entities(text)
}

// findPhone 按置信度从高到低尝试各种电话匹配方式
func (e *ContactExtractor) findPhone(text string) string {
	if text == "" {
		return ""
	}

	// 库解析：对每个候选数字片段做区域无关的解析与校验
	for _, candidate := range phoneGenericRe.FindAllString(text, -1) {
		if countDigits(candidate) < 7 {
			continue
		}
		num, err := phonenumbers.Parse(candidate, "")
		if err != nil {
			num, err = phonenumbers.Parse(candidate, "US")
		}
		if err == nil && phonenumbers.IsValidNumber(num) {
			return phonenumbers.Format(num, phonenumbers.INTERNATIONAL)
		}
	}

	// 标签字段："Phone: ..." 的值原样保留
	if m := phoneLabelRe.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); countDigits(v) >= 7 {
			return v
		}
	}

	// 通用形态：带分隔符的7位以上数字
	for _, candidate := range phoneGenericRe.FindAllString(text, -1) {
		if countDigits(candidate) >= 7 {
			return strings.TrimSpace(candidate)
		}
	}

	// 最后兜底：任意连续数字串
	return digitRunRe.FindString(text)
}

func (e *ContactExtractor) findWebsite(text, linkedin, github string) string {
	for _, match := range websiteRe.FindAllString(text, -1) {
		normalized := ensureScheme(match)
		lower := strings.ToLower(normalized)
		if strings.Contains(lower, "linkedin.com") || strings.Contains(lower, "github.com") {
			continue
		}
		if normalized == linkedin || normalized == github {
			continue
		}
		return strings.TrimRight(normalized, ".,)")
	}
	return ""
}

// fillAddress 填充地址与地点。标签行整体作为address，
// 末尾两个逗号分段作为location兜底
func (e *ContactExtractor) fillAddress(info *types.ContactInfo, fullText string) {
	m := addressLineRe.FindStringSubmatch(fullText)
	if m == nil {
		return
	}
	value := strings.TrimSpace(m[1])
	if value == "" || emailRe.MatchString(value) {
		return
	}
	fill(&info.Address, value)
	if info.Location == "" {
		parts := strings.Split(value, ",")
		if len(parts) >= 2 {
			city := strings.TrimSpace(parts[len(parts)-2])
			region := strings.TrimSpace(parts[len(parts)-1])
			fill(&info.Location, strings.TrimSpace(strings.Trim(city+", "+region, ", ")))
		} else {
			fill(&info.Location, value)
		}
	}
}

// pickPerson 选择第一个像人名的PERSON实体：无数字且至少两个词
func pickPerson(entities []nlp.Entity) string {
	for _, ent := range entities {
		if ent.Label != nlp.LabelPerson {
			continue
		}
		text := strings.TrimSpace(ent.Text)
		if hasDigitRe.MatchString(text) {
			continue
		}
		if len(strings.Fields(text)) >= 2 {
			return text
		}
	}
	return ""
}

func pickLocation(entities []nlp.Entity) string {
	for _, ent := range entities {
		if ent.Label == nlp.LabelGPE || ent.Label == nlp.LabelLocation {
			if text := strings.TrimSpace(ent.Text); text != "" && !hasDigitRe.MatchString(text) {
				return text
			}
		}
	}
	return ""
}

// fallbackName 取第一个不是邮箱/电话/链接的行作为姓名候选：
// 去掉"Name:"标签后要求不超过6个词且词内不含数字
func fallbackName(head string, info types.ContactInfo) string {
	for _, line := range strings.Split(head, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if emailRe.MatchString(line) || websiteRe.MatchString(line) {
			continue
		}
		if info.Phone != "" && countDigits(line) >= 7 {
			continue
		}
		line = nameLabelRe.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		words := strings.Fields(line)
		if len(words) == 0 || len(words) > 6 {
			continue
		}
		plausible := true
		for _, w := range words {
			if hasDigitRe.MatchString(w) {
				plausible = false
				break
			}
		}
		if plausible {
			return line
		}
	}
	return ""
}

// firstLines 返回文本的前n个非空行
func firstLines(text string, n int) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) >= n {
			break
		}
	}
	return strings.Join(lines, "\n")
}

// fill 仅在目标字段为空时赋值，保证高置信度结果优先
func fill(dst *string, value string) {
	if *dst == "" {
		*dst = strings.TrimSpace(value)
	}
}

func ensureScheme(url string) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return ""
	}
	if !strings.HasPrefix(strings.ToLower(url), "http://") && !strings.HasPrefix(strings.ToLower(url), "https://") {
		return "https://" + url
	}
	return url
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// scrubPlaceholders 将占位符值归一为缺失
func scrubPlaceholders(info *types.ContactInfo) {
	for _, field := range []*string{
		&info.Name, &info.Email, &info.Phone, &info.Location, &info.Address,
		&info.DateOfBirth, &info.LinkedIn, &info.GitHub, &info.Website,
	} {
		if placeholderValues[strings.ToLower(strings.TrimSpace(*field))] {
			*field = ""
		}
	}
}
