package normalizer

import (
	"strings"

	"perfectcv-go/internal/types"
)

// technicalKeywords 技术技能关键词，按子串匹配。
// 覆盖常见语言/框架/数据库/云与DevOps词汇
var technicalKeywords = []string{
	"python", "java", "javascript", "typescript", "golang", " go ", "rust",
	"c++", "c#", "php", "ruby", "swift", "kotlin", "scala", "perl", "matlab",
	"html", "css", "sql", "nosql", "react", "angular", "vue", "svelte",
	"node", "django", "flask", "spring", "laravel", "rails", ".net", "express",
	"fastapi", "next.js", "nuxt",
	"mysql", "postgres", "postgresql", "mongodb", "redis", "elasticsearch",
	"sqlite", "oracle", "cassandra", "dynamodb", "kafka", "rabbitmq",
	"aws", "azure", "gcp", "cloud", "docker", "kubernetes", "terraform",
	"ansible", "jenkins", "ci/cd", "devops", "linux", "unix", "bash", "shell",
	"git", "github", "gitlab", "graphql", "rest", "grpc", "microservice",
	"machine learning", "deep learning", "data science", "tensorflow",
	"pytorch", "pandas", "numpy", "spark", "hadoop", "tableau", "power bi",
	"selenium", "junit", "pytest", "testing", "automation",
	"android", "ios", "flutter", "react native",
}

// softKeywords 软技能关键词
var softKeywords = []string{
	"communication", "leadership", "teamwork", "team work", "team player",
	"collaboration", "problem solving", "problem-solving", "critical thinking",
	"time management", "adaptability", "creativity", "creative",
	"organization", "organisational", "organizational", "presentation",
	"negotiation", "mentoring", "coaching", "public speaking",
	"decision making", "conflict resolution", "attention to detail",
	"interpersonal", "analytical", "work ethic", "self-motivated",
	"multitasking", "flexibility", "empathy",
}

// SkillsCategorizer 将扁平技能列表划分为technical/soft/other三个桶。
// 分桶规则固定，同一输入的归属稳定且可复现
type SkillsCategorizer struct{}

// NewSkillsCategorizer 创建技能分类器
func NewSkillsCategorizer() *SkillsCategorizer {
	return &SkillsCategorizer{}
}

// Categorize 先按大小写不敏感去重（保留首见写法与顺序），
// 再将每个技能放入且仅放入一个桶
func (c *SkillsCategorizer) Categorize(skills []string) types.SkillSet {
	result := types.SkillSet{
		Technical: []string{},
		Soft:      []string{},
		Other:     []string{},
	}

	seen := make(map[string]bool, len(skills))
	for _, raw := range skills {
		skill := strings.TrimSpace(raw)
		if skill == "" {
			continue
		}
		lower := strings.ToLower(skill)
		if seen[lower] {
			continue
		}
		seen[lower] = true

		switch {
		case isTechnicalSkill(skill, lower):
			result.Technical = append(result.Technical, skill)
		case isSoftSkill(lower):
			result.Soft = append(result.Soft, skill)
		case isAcronym(skill):
			// 短的全大写词当作技术缩写，如 AWS、SQL、ETL
			result.Technical = append(result.Technical, skill)
		default:
			result.Other = append(result.Other, skill)
		}
	}
	return result
}

func isTechnicalSkill(skill, lower string) bool {
	padded := " " + lower + " "
	for _, kw := range technicalKeywords {
		if strings.HasPrefix(kw, " ") && strings.HasSuffix(kw, " ") {
			// 带边界的短词（如" go "）要求独立成词
			if strings.Contains(padded, kw) {
				return true
			}
			continue
		}
		if strings.Contains(lower, kw) {
			return true
		}
	}
	if strings.ContainsAny(skill, "0123456789+/") {
		return true
	}
	return strings.Contains(lower, "api")
}

func isSoftSkill(lower string) bool {
	for _, kw := range softKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func isAcronym(skill string) bool {
	if len(skill) > 5 {
		return false
	}
	hasLetter := false
	for _, r := range skill {
		if r >= 'a' && r <= 'z' {
			return false
		}
		if r >= 'A' && r <= 'Z' {
			hasLetter = true
		}
	}
	return hasLetter
}
