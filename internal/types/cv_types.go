package types

// SectionKey 表示简历章节的规范标识
type SectionKey string

const (
	// SectionAbout 个人介绍/联系方式章节
	SectionAbout SectionKey = "about"
	// SectionSkills 技能章节
	SectionSkills SectionKey = "skills"
	// SectionExperience 工作经历章节
	SectionExperience SectionKey = "experience"
	// SectionEducation 教育经历章节
	SectionEducation SectionKey = "education"
	// SectionProjects 项目经历章节
	SectionProjects SectionKey = "projects"
	// SectionAchievements 获奖/成就章节
	SectionAchievements SectionKey = "achievements"
	// SectionCertifications 证书章节
	SectionCertifications SectionKey = "certifications"
	// SectionVolunteer 志愿经历章节
	SectionVolunteer SectionKey = "volunteer"
	// SectionLanguages 语言能力章节
	SectionLanguages SectionKey = "languages"
	// SectionOther 其他未分类内容章节
	SectionOther SectionKey = "other"
)

// sectionOrder 章节的展示顺序，预览视图按此顺序输出
var sectionOrder = []SectionKey{
	SectionAbout,
	SectionSkills,
	SectionExperience,
	SectionEducation,
	SectionProjects,
	SectionAchievements,
	SectionCertifications,
	SectionVolunteer,
	SectionLanguages,
	SectionOther,
}

// sectionLabels 章节的展示标题
var sectionLabels = map[SectionKey]string{
	SectionAbout:          "About",
	SectionSkills:         "Skills",
	SectionExperience:     "Work Experience",
	SectionEducation:      "Education",
	SectionProjects:       "Projects",
	SectionAchievements:   "Achievements",
	SectionCertifications: "Certifications",
	SectionVolunteer:      "Volunteer Experience",
	SectionLanguages:      "Languages",
	SectionOther:          "Additional Information",
}

// AllSectionKeys 按固定展示顺序返回全部章节标识
func AllSectionKeys() []SectionKey {
	keys := make([]SectionKey, len(sectionOrder))
	copy(keys, sectionOrder)
	return keys
}

// Label 返回章节的展示标题
func (k SectionKey) Label() string {
	if label, ok := sectionLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid 判断是否为已知章节标识
func (k SectionKey) Valid() bool {
	_, ok := sectionLabels[k]
	return ok
}

// RawSections 章节标识到原始文本的映射，由SectionSplitter单次遍历填充
type RawSections map[SectionKey]string

// Append 向指定章节追加文本块，块之间以空行分隔
func (rs RawSections) Append(key SectionKey, text string) {
	if text == "" {
		return
	}
	if existing, ok := rs[key]; ok && existing != "" {
		rs[key] = existing + "\n\n" + text
		return
	}
	rs[key] = text
}

// Get 返回指定章节的文本，不存在时返回空字符串
func (rs RawSections) Get(key SectionKey) string {
	return rs[key]
}

// ContactInfo 候选人联系信息，所有字段缺失时为空字符串而非null
type ContactInfo struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Location    string `json:"location"`
	Address     string `json:"address"`
	DateOfBirth string `json:"date_of_birth"`
	LinkedIn    string `json:"linkedin"`
	GitHub      string `json:"github"`
	Website     string `json:"website"`
}

// SkillSet 技能分桶结果，三个桶整体去重且互不相交
type SkillSet struct {
	Technical []string `json:"technical"`
	Soft      []string `json:"soft"`
	Other     []string `json:"other"`
}

// Total 返回三个桶的技能总数
func (s SkillSet) Total() int {
	return len(s.Technical) + len(s.Soft) + len(s.Other)
}

// ExperienceEntry 一段工作/志愿经历
type ExperienceEntry struct {
	Title    string   `json:"title"`
	Company  string   `json:"company"`
	Dates    string   `json:"dates"`
	Location string   `json:"location"`
	Points   []string `json:"points"`
}

// EducationEntry 一段教育经历
type EducationEntry struct {
	Degree string `json:"degree"`
	School string `json:"school"`
	Year   string `json:"year"`
}

// ProjectEntry 一个项目条目
type ProjectEntry struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
}

// StructuredCV 规范化后的简历聚合结构。
// 每次构建都会返回全新实例，构建器不会修改已返回的值。
type StructuredCV struct {
	ContactInformation    ContactInfo       `json:"contact_information"`
	ProfessionalSummary   string            `json:"professional_summary"`
	Skills                SkillSet          `json:"skills"`
	WorkExperience        []ExperienceEntry `json:"work_experience"`
	Projects              []ProjectEntry    `json:"projects"`
	Education             []EducationEntry  `json:"education"`
	Certifications        []string          `json:"certifications"`
	Achievements          []string          `json:"achievements"`
	Languages             []string          `json:"languages"`
	VolunteerExperience   []ExperienceEntry `json:"volunteer_experience"`
	AdditionalInformation string            `json:"additional_information"`
}

// NewStructuredCV 返回所有列表字段已初始化为空切片的StructuredCV，
// 保证JSON序列化结果中出现 [] 而非 null
func NewStructuredCV() *StructuredCV {
	return &StructuredCV{
		Skills: SkillSet{
			Technical: []string{},
			Soft:      []string{},
			Other:     []string{},
		},
		WorkExperience:      []ExperienceEntry{},
		Projects:            []ProjectEntry{},
		Education:           []EducationEntry{},
		Certifications:      []string{},
		Achievements:        []string{},
		Languages:           []string{},
		VolunteerExperience: []ExperienceEntry{},
	}
}

// IsEmpty 判断整个结构是否没有任何有效内容
func (cv *StructuredCV) IsEmpty() bool {
	return cv.ContactInformation == ContactInfo{} &&
		cv.ProfessionalSummary == "" &&
		cv.Skills.Total() == 0 &&
		len(cv.WorkExperience) == 0 &&
		len(cv.Projects) == 0 &&
		len(cv.Education) == 0 &&
		len(cv.Certifications) == 0 &&
		len(cv.Achievements) == 0 &&
		len(cv.Languages) == 0 &&
		len(cv.VolunteerExperience) == 0 &&
		cv.AdditionalInformation == ""
}

// Suggestion 针对简历的改进建议，纯派生视图，不落库
type Suggestion struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// PreviewSection 预览视图中的一个章节
type PreviewSection struct {
	Key     SectionKey `json:"key"`
	Label   string     `json:"label"`
	Content string     `json:"content"`
}
