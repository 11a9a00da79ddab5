package normalizer

import (
	"fmt"
	"strings"

	"perfectcv-go/internal/nlp"
	"perfectcv-go/internal/types"
)

// Builder 规范化管线的编排入口，客户端代码只与它交互。
// 单次Build调用无共享可变状态、无I/O，可被多个请求并发调用
type Builder struct {
	classifier  *HeadingClassifier
	splitter    *SectionSplitter
	contacts    *ContactExtractor
	skills      *SkillsCategorizer
	experience  *ExperienceParser
	education   *EducationParser
	projects    *ProjectParser
	suggestions *SuggestionEngine

	recognizer       nlp.EntityRecognizer
	maxPoints        int
	headingWordLimit int
}

// BuilderOption 构建器的配置选项
type BuilderOption func(*Builder)

// WithEntityRecognizer 注入命名实体识别器。
// 管线自身不持有模型单例，由组合根传入缓存实例
func WithEntityRecognizer(recognizer nlp.EntityRecognizer) BuilderOption {
	return func(b *Builder) {
		b.recognizer = recognizer
	}
}

// WithMaxExperiencePoints 设置单条经历保留的最多要点数
func WithMaxExperiencePoints(n int) BuilderOption {
	return func(b *Builder) {
		b.maxPoints = n
	}
}

// WithHeadingWordLimit 设置单行标题的最大词数
func WithHeadingWordLimit(n int) BuilderOption {
	return func(b *Builder) {
		b.headingWordLimit = n
	}
}

// NewBuilder 创建规范化构建器并装配全部子组件
func NewBuilder(options ...BuilderOption) *Builder {
	b := &Builder{
		maxPoints:        defaultMaxPoints,
		headingWordLimit: defaultHeadingWordLimit,
	}
	for _, opt := range options {
		opt(b)
	}

	b.classifier = NewHeadingClassifier()
	b.splitter = NewSectionSplitter(b.classifier, b.headingWordLimit)
	b.contacts = NewContactExtractor(b.recognizer)
	b.skills = NewSkillsCategorizer()
	b.experience = NewExperienceParser(b.maxPoints)
	b.education = NewEducationParser()
	b.projects = NewProjectParser()
	b.suggestions = NewSuggestionEngine()
	return b
}

// Build 把原始简历文本规范化为StructuredCV。
// 永不失败：空输入返回全空默认值的结构
func (b *Builder) Build(rawText string) *types.StructuredCV {
	cv := types.NewStructuredCV()
	if strings.TrimSpace(rawText) == "" {
		return cv
	}

	sections := b.splitter.Split(rawText)
	about := sections.Get(types.SectionAbout)

	cv.ContactInformation = b.contacts.Extract(about, rawText)
	cv.ProfessionalSummary = summarize(about, cv.ContactInformation)
	cv.Skills = b.skills.Categorize(splitSkillList(sections.Get(types.SectionSkills)))
	cv.WorkExperience = b.experience.Parse(sections.Get(types.SectionExperience))
	cv.Education = b.education.Parse(sections.Get(types.SectionEducation))
	cv.Projects = b.projects.Parse(sections.Get(types.SectionProjects))
	cv.Certifications = listItems(sections.Get(types.SectionCertifications))
	cv.Achievements = listItems(sections.Get(types.SectionAchievements))
	cv.Languages = listItems(sections.Get(types.SectionLanguages))
	cv.VolunteerExperience = b.experience.Parse(sections.Get(types.SectionVolunteer))
	cv.AdditionalInformation = strings.TrimSpace(sections.Get(types.SectionOther))

	return cv
}

// Suggest 为规范化结果生成改进建议
func (b *Builder) Suggest(cv *types.StructuredCV, missingKeywords []string) []types.Suggestion {
	return b.suggestions.Generate(cv, missingKeywords)
}

// Preview 生成有序的预览章节列表以及拼装好的整体预览文本。
// 只包含有内容的章节
func (b *Builder) Preview(cv *types.StructuredCV) ([]types.PreviewSection, string) {
	previews := []types.PreviewSection{}
	if cv == nil {
		return previews, ""
	}

	for _, key := range types.AllSectionKeys() {
		content := renderSection(cv, key)
		if content == "" {
			continue
		}
		previews = append(previews, types.PreviewSection{
			Key:     key,
			Label:   key.Label(),
			Content: content,
		})
	}

	var parts []string
	for _, section := range previews {
		parts = append(parts, section.Label+"\n"+section.Content)
	}
	return previews, strings.Join(parts, "\n\n")
}

// Payload 返回用于持久化/API响应的严格JSON投影：
// 所有键始终存在，空值一律为 ""/[]/{} 而非省略或null
func (b *Builder) Payload(cv *types.StructuredCV) map[string]interface{} {
	if cv == nil {
		cv = types.NewStructuredCV()
	}
	contact := cv.ContactInformation
	return map[string]interface{}{
		"contact_information": map[string]interface{}{
			"name":          contact.Name,
			"email":         contact.Email,
			"phone":         contact.Phone,
			"location":      contact.Location,
			"address":       contact.Address,
			"date_of_birth": contact.DateOfBirth,
			"linkedin":      contact.LinkedIn,
			"github":        contact.GitHub,
			"website":       contact.Website,
		},
		"professional_summary": cv.ProfessionalSummary,
		"skills": map[string]interface{}{
			"technical": emptyIfNilStrings(cv.Skills.Technical),
			"soft":      emptyIfNilStrings(cv.Skills.Soft),
			"other":     emptyIfNilStrings(cv.Skills.Other),
		},
		"work_experience":        experiencePayload(cv.WorkExperience),
		"projects":               projectPayload(cv.Projects),
		"education":              educationPayload(cv.Education),
		"certifications":         emptyIfNilStrings(cv.Certifications),
		"achievements":           emptyIfNilStrings(cv.Achievements),
		"languages":              emptyIfNilStrings(cv.Languages),
		"volunteer_experience":   experiencePayload(cv.VolunteerExperience),
		"additional_information": cv.AdditionalInformation,
	}
}

// summarize 从about块提取职业摘要：剔除联系方式相关的行，保留叙述文本
func summarize(about string, contact types.ContactInfo) string {
	if strings.TrimSpace(about) == "" {
		return ""
	}
	contactValues := []string{
		contact.Name, contact.Email, contact.Phone,
		contact.LinkedIn, contact.GitHub, contact.Website, contact.Address,
	}

	var kept []string
	for _, rawLine := range strings.Split(about, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if isContactLine(line, contactValues) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

func isContactLine(line string, contactValues []string) bool {
	lower := strings.ToLower(line)
	if emailRe.MatchString(line) || websiteRe.MatchString(line) {
		return true
	}
	for _, label := range []string{"name:", "phone:", "mobile:", "tel:", "address:", "dob:", "date of birth:", "email:"} {
		if strings.HasPrefix(lower, label) {
			return true
		}
	}
	// 只含联系方式值（及分隔符）的行整行剔除
	for _, value := range contactValues {
		if value == "" {
			continue
		}
		if strings.Contains(line, value) && len(line) <= len(value)+20 {
			return true
		}
	}
	if countDigits(line) >= 7 && len(strings.Fields(line)) <= 4 {
		return true
	}
	return false
}

// splitSkillList 把技能块拆成扁平列表，容忍逗号/分号/竖线/列表行的混排
func splitSkillList(block string) []string {
	if strings.TrimSpace(block) == "" {
		return nil
	}
	normalized := strings.NewReplacer(";", ",", "|", ",", "•", ",", "\n", ",").Replace(block)
	var skills []string
	for _, part := range strings.Split(normalized, ",") {
		part = strings.TrimSpace(part)
		part = strings.TrimLeft(part, "-* \t")
		part = strings.TrimSpace(part)
		if part == "" || len(part) > 60 {
			continue
		}
		// "Technical Skills:" 之类的残留小标题跳过
		if strings.HasSuffix(part, ":") {
			continue
		}
		skills = append(skills, part)
	}
	return skills
}

// listItems 把章节文本拆成条目列表（证书/成就/语言等简单清单）
func listItems(block string) []string {
	items := []string{}
	if strings.TrimSpace(block) == "" {
		return items
	}
	lines := strings.Split(block, "\n")
	for _, rawLine := range lines {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		stripped, _ := stripBullet(line)
		// 单行逗号清单（常见于语言章节）逐项拆开
		if len(lines) == 1 && strings.Contains(stripped, ",") {
			for _, part := range strings.Split(stripped, ",") {
				if p := strings.TrimSpace(part); p != "" {
					items = append(items, p)
				}
			}
			continue
		}
		items = append(items, stripped)
	}
	return items
}

func renderSection(cv *types.StructuredCV, key types.SectionKey) string {
	switch key {
	case types.SectionAbout:
		return renderAbout(cv)
	case types.SectionSkills:
		return renderSkills(cv.Skills)
	case types.SectionExperience:
		return renderExperience(cv.WorkExperience)
	case types.SectionEducation:
		return renderEducation(cv.Education)
	case types.SectionProjects:
		return renderProjects(cv.Projects)
	case types.SectionAchievements:
		return renderList(cv.Achievements)
	case types.SectionCertifications:
		return renderList(cv.Certifications)
	case types.SectionVolunteer:
		return renderExperience(cv.VolunteerExperience)
	case types.SectionLanguages:
		return renderList(cv.Languages)
	case types.SectionOther:
		return cv.AdditionalInformation
	}
	return ""
}

func renderAbout(cv *types.StructuredCV) string {
	var lines []string
	contact := cv.ContactInformation
	if contact.Name != "" {
		lines = append(lines, contact.Name)
	}
	var reach []string
	for _, v := range []string{contact.Email, contact.Phone, contact.Location} {
		if v != "" {
			reach = append(reach, v)
		}
	}
	if len(reach) > 0 {
		lines = append(lines, strings.Join(reach, " | "))
	}
	for _, v := range []string{contact.LinkedIn, contact.GitHub, contact.Website} {
		if v != "" {
			lines = append(lines, v)
		}
	}
	if cv.ProfessionalSummary != "" {
		lines = append(lines, cv.ProfessionalSummary)
	}
	return strings.Join(lines, "\n")
}

func renderSkills(skills types.SkillSet) string {
	var lines []string
	if len(skills.Technical) > 0 {
		lines = append(lines, "Technical: "+strings.Join(skills.Technical, ", "))
	}
	if len(skills.Soft) > 0 {
		lines = append(lines, "Soft: "+strings.Join(skills.Soft, ", "))
	}
	if len(skills.Other) > 0 {
		lines = append(lines, "Other: "+strings.Join(skills.Other, ", "))
	}
	return strings.Join(lines, "\n")
}

func renderExperience(entries []types.ExperienceEntry) string {
	var parts []string
	for _, entry := range entries {
		var header string
		switch {
		case entry.Title != "" && entry.Company != "":
			header = entry.Title + " at " + entry.Company
		case entry.Title != "":
			header = entry.Title
		default:
			header = entry.Company
		}
		if entry.Location != "" {
			header += ", " + entry.Location
		}
		if entry.Dates != "" {
			header += " (" + entry.Dates + ")"
		}
		lines := []string{header}
		for _, point := range entry.Points {
			lines = append(lines, "- "+point)
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func renderEducation(entries []types.EducationEntry) string {
	var lines []string
	for _, entry := range entries {
		var line string
		switch {
		case entry.Degree != "" && entry.School != "":
			line = entry.Degree + " - " + entry.School
		case entry.Degree != "":
			line = entry.Degree
		default:
			line = entry.School
		}
		if entry.Year != "" {
			line = fmt.Sprintf("%s (%s)", line, entry.Year)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

func renderProjects(entries []types.ProjectEntry) string {
	var parts []string
	for _, entry := range entries {
		var lines []string
		switch {
		case entry.Name != "" && entry.Description != "":
			lines = append(lines, entry.Name+": "+entry.Description)
		case entry.Name != "":
			lines = append(lines, entry.Name)
		default:
			lines = append(lines, entry.Description)
		}
		if len(entry.Technologies) > 0 {
			lines = append(lines, "Technologies: "+strings.Join(entry.Technologies, ", "))
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	return strings.Join(parts, "\n\n")
}

func renderList(items []string) string {
	var lines []string
	for _, item := range items {
		lines = append(lines, "- "+item)
	}
	return strings.Join(lines, "\n")
}

func emptyIfNilStrings(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}

func experiencePayload(entries []types.ExperienceEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]interface{}{
			"title":    entry.Title,
			"company":  entry.Company,
			"dates":    entry.Dates,
			"location": entry.Location,
			"points":   emptyIfNilStrings(entry.Points),
		})
	}
	return out
}

func projectPayload(entries []types.ProjectEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]interface{}{
			"name":         entry.Name,
			"description":  entry.Description,
			"technologies": emptyIfNilStrings(entry.Technologies),
		})
	}
	return out
}

func educationPayload(entries []types.EducationEntry) []map[string]interface{} {
	out := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		out = append(out, map[string]interface{}{
			"degree": entry.Degree,
			"school": entry.School,
			"year":   entry.Year,
		})
	}
	return out
}
