package normalizer

import (
	"fmt"
	"strings"

	"perfectcv-go/internal/types"
)

// 建议类别常量
const (
	SuggestionSummary    = "summary"
	SuggestionSkills     = "skills"
	SuggestionExperience = "experience"
	SuggestionProjects   = "projects"
	SuggestionEducation  = "education"
	SuggestionKeywords   = "keywords"
	SuggestionLanguages  = "languages"
	SuggestionAdditional = "additional"
)

// minSummaryWords 摘要低于该词数时给出扩写建议
const minSummaryWords = 30

// maxAdditionalChars 附加信息超过该长度时建议精简
const maxAdditionalChars = 600

// SuggestionEngine 检查规范化结构并产出补缺建议。
// 规则按固定顺序求值，每条规则至多产出一条建议；
// 无随机性，同一输入的输出完全可复现
type SuggestionEngine struct{}

// NewSuggestionEngine 创建建议引擎
func NewSuggestionEngine() *SuggestionEngine {
	return &SuggestionEngine{}
}

// Generate 为给定的规范化简历生成建议列表。
// missingKeywords 是调用方提供的目标岗位关键词中简历未覆盖的部分
func (e *SuggestionEngine) Generate(cv *types.StructuredCV, missingKeywords []string) []types.Suggestion {
	suggestions := []types.Suggestion{}
	if cv == nil {
		return suggestions
	}
	add := func(category, message string) {
		suggestions = append(suggestions, types.Suggestion{Category: category, Message: message})
	}

	// 1. 摘要长度
	summaryWords := len(strings.Fields(cv.ProfessionalSummary))
	if summaryWords == 0 {
		add(SuggestionSummary, "Add a professional summary of 2-3 sentences highlighting your strongest qualifications.")
	} else if summaryWords < minSummaryWords {
		add(SuggestionSummary, "Expand your professional summary; a short summary undersells your experience.")
	}

	// 2. 技能分桶
	switch {
	case cv.Skills.Total() == 0:
		add(SuggestionSkills, "Add a skills section; recruiters and ATS software scan for it first.")
	case len(cv.Skills.Technical) == 0:
		add(SuggestionSkills, "List your technical skills explicitly, e.g. languages, frameworks and tools.")
	case len(cv.Skills.Soft) == 0:
		add(SuggestionSkills, "Add a few soft skills such as communication or leadership to balance the skill set.")
	}

	// 3. 经历条数与要点密度
	if len(cv.WorkExperience) == 0 {
		add(SuggestionExperience, "Add your work experience with concrete roles, companies and dates.")
	} else {
		thin := 0
		for _, entry := range cv.WorkExperience {
			if len(entry.Points) < 2 {
				thin++
			}
		}
		if thin > 0 {
			add(SuggestionExperience, fmt.Sprintf("Add at least two bullet points to %d of your experience entries to show impact.", thin))
		}
	}

	// 4. 项目描述
	if len(cv.Projects) > 0 {
		undetailed := 0
		for _, project := range cv.Projects {
			if project.Description == "" {
				undetailed++
			}
		}
		if undetailed > 0 {
			add(SuggestionProjects, fmt.Sprintf("Describe what %d of your projects actually do; a bare name tells the reader nothing.", undetailed))
		}
	}

	// 5. 教育年份完整性
	if len(cv.Education) > 0 {
		missingYear := 0
		for _, entry := range cv.Education {
			if entry.Year == "" {
				missingYear++
			}
		}
		if missingYear > 0 {
			add(SuggestionEducation, fmt.Sprintf("Add graduation years to %d of your education entries.", missingYear))
		}
	}

	// 6. 岗位关键词覆盖
	if len(missingKeywords) > 0 {
		add(SuggestionKeywords, "Consider covering these keywords from the target role: "+strings.Join(missingKeywords, ", ")+".")
	}

	// 7. 语言能力
	if len(cv.Languages) == 0 {
		add(SuggestionLanguages, "Mention the languages you speak; it is a cheap differentiator.")
	}

	// 8. 附加信息长度
	if len(cv.AdditionalInformation) > maxAdditionalChars {
		add(SuggestionAdditional, "Trim the additional information section; long unstructured text dilutes the rest of the CV.")
	}

	return suggestions
}
