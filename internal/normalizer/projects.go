package normalizer

import (
	"strings"

	"perfectcv-go/internal/types"
)

// projectSeparators 项目行内名称与描述的分隔符
var projectSeparators = []string{" - ", " – ", ": ", " | "}

// ProjectParser 把项目章节文本解析为结构化条目列表
type ProjectParser struct{}

// NewProjectParser 创建项目解析器
func NewProjectParser() *ProjectParser {
	return &ProjectParser{}
}

// Parse 解析项目块：非列表行开启新项目（行内分隔符右侧作为描述），
// 其后的列表行第一条补足描述，其余归入technologies。
// 名称与描述都为空的条目被丢弃
func (p *ProjectParser) Parse(block string) []types.ProjectEntry {
	entries := []types.ProjectEntry{}
	if strings.TrimSpace(block) == "" {
		return entries
	}

	var current *types.ProjectEntry
	flush := func() {
		if current == nil {
			return
		}
		if current.Name != "" || current.Description != "" {
			if current.Technologies == nil {
				current.Technologies = []string{}
			}
			entries = append(entries, *current)
		}
		current = nil
	}

	for _, rawLine := range strings.Split(block, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}

		stripped, bullet := stripBullet(line)
		if !bullet {
			flush()
			entry := parseProjectHeader(stripped)
			current = &entry
			continue
		}

		if current == nil {
			// 块以列表行开头：把首条列表项当作无名项目的描述
			current = &types.ProjectEntry{Description: stripped}
			continue
		}
		if current.Description == "" {
			current.Description = stripped
			continue
		}
		current.Technologies = append(current.Technologies, splitTechnologies(stripped)...)
	}
	flush()

	return entries
}

func parseProjectHeader(line string) types.ProjectEntry {
	var entry types.ProjectEntry
	for _, sep := range projectSeparators {
		if idx := strings.Index(line, sep); idx > 0 {
			entry.Name = strings.TrimSpace(line[:idx])
			entry.Description = strings.TrimSpace(line[idx+len(sep):])
			return entry
		}
	}
	entry.Name = line
	return entry
}

// splitTechnologies 技术行往往是逗号分隔的清单，拆开保存
func splitTechnologies(line string) []string {
	line = strings.TrimPrefix(line, "Technologies:")
	line = strings.TrimPrefix(line, "Tech stack:")
	var out []string
	for _, part := range strings.Split(line, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
