package normalizer

import (
	"sort"
	"strings"

	"perfectcv-go/internal/types"
)

// sectionSynonyms 章节标题同义词表。
// 所有关键词都必须是规范化后的形式（小写，仅含 [a-z0-9&+/ ]），
// 新增词条时保持这一约束，否则永远匹配不上。
var sectionSynonyms = map[types.SectionKey][]string{
	types.SectionAbout: {
		"about", "about me", "summary", "professional summary", "profile",
		"personal profile", "objective", "career objective", "personal statement",
		"introduction", "bio", "personal information", "personal details",
		"contact", "contact information", "contact details", "career summary",
	},
	types.SectionSkills: {
		"skills", "technical skills", "key skills", "core competencies",
		"competencies", "skill set", "technologies", "tech stack", "expertise",
		"areas of expertise", "tools", "soft skills", "professional skills",
		"technical proficiencies",
	},
	types.SectionExperience: {
		"experience", "work experience", "employment", "employment history",
		"professional experience", "work history", "career history",
		"internships", "internship experience", "relevant experience",
		"professional background",
	},
	types.SectionEducation: {
		"education", "academic background", "academics", "educational background",
		"qualifications", "academic qualifications", "degrees", "training",
		"education and training",
	},
	types.SectionProjects: {
		"projects", "personal projects", "side projects", "academic projects",
		"portfolio", "selected projects", "key projects",
	},
	types.SectionAchievements: {
		"achievements", "awards", "honors", "honours", "accomplishments",
		"awards and honors", "honors and awards", "recognition",
	},
	types.SectionCertifications: {
		"certifications", "certification", "certificates", "licenses",
		"licenses and certifications", "professional certifications", "courses",
		"courses and certifications",
	},
	types.SectionVolunteer: {
		"volunteer", "volunteering", "volunteer experience", "volunteer work",
		"community service", "community involvement",
	},
	types.SectionLanguages: {
		"languages", "language skills", "spoken languages", "language proficiency",
	},
	types.SectionOther: {
		"other", "additional information", "additional", "miscellaneous",
		"interests", "hobbies", "references", "activities",
		"extracurricular activities", "publications",
	},
}

// HeadingClassifier 将自由文本行映射到规范章节标识。
// 无副作用且确定性：相同输入永远得到相同结果。
type HeadingClassifier struct {
	index    map[string]types.SectionKey
	keywords []headingKeyword
}

type headingKeyword struct {
	text      string
	wordCount int
	key       types.SectionKey
}

// NewHeadingClassifier 基于同义词表预计算匹配索引
func NewHeadingClassifier() *HeadingClassifier {
	c := &HeadingClassifier{
		index: make(map[string]types.SectionKey),
	}
	for key, synonyms := range sectionSynonyms {
		for _, syn := range synonyms {
			c.index[syn] = key
			c.keywords = append(c.keywords, headingKeyword{
				text:      syn,
				wordCount: len(strings.Fields(syn)),
				key:       key,
			})
		}
	}
	// 前缀匹配优先尝试更长的关键词，避免"work"抢在"work experience"之前命中
	sort.Slice(c.keywords, func(i, j int) bool {
		if c.keywords[i].wordCount != c.keywords[j].wordCount {
			return c.keywords[i].wordCount > c.keywords[j].wordCount
		}
		return c.keywords[i].text < c.keywords[j].text
	})
	return c
}

// Classify 尝试将一行文本识别为章节标题，返回命中的章节标识。
// 未命中时第二个返回值为false。是否把命中结果当作标题
// （例如限制行长、排除项目符号行）由调用方决定。
func (c *HeadingClassifier) Classify(line string) (types.SectionKey, bool) {
	norm := normalizeHeading(line)
	if norm == "" {
		return "", false
	}

	if key, ok := c.index[norm]; ok {
		return key, true
	}

	// 前缀匹配：行以已知关键词开头，且整体不超过关键词词数+2，
	// 防止正文句子里恰好包含标题关键词时被误判
	lineWords := len(strings.Fields(norm))
	for _, kw := range c.keywords {
		if lineWords > kw.wordCount+2 {
			continue
		}
		if norm == kw.text {
			return kw.key, true
		}
		if strings.HasPrefix(norm, kw.text+" ") {
			return kw.key, true
		}
	}

	return "", false
}

// normalizeHeading 将候选标题行归一到同义词表的键空间：
// 小写、去掉尾部冒号/破折号、剔除 [a-z0-9&+/ ] 之外的字符、折叠空白
func normalizeHeading(line string) string {
	s := strings.ToLower(strings.TrimSpace(line))
	s = strings.TrimRight(s, ":-–— \t")

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '&' || r == '+' || r == '/':
			b.WriteRune(r)
		case r == ' ' || r == '\t':
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
