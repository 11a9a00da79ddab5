package normalizer

import (
	"regexp"
	"sort"
	"strings"

	"perfectcv-go/internal/types"
)

// defaultHeadingWordLimit 单行标题的最大词数，超过则按正文处理
const defaultHeadingWordLimit = 6

// inlineHeadingRe 匹配 "Label: content" / "Label - content" 形式的行内标题，
// 标签限定为1-80个词类字符
var inlineHeadingRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 &+/]{0,79}?)\s*[:：\-–]\s*(.*)$`)

// SectionSplitter 按行遍历原始文本，借助HeadingClassifier把内容切分到
// 各规范章节。状态机以about为初始状态，遇到标题行切换状态，
// 其余行追加到当前章节缓冲区。
type SectionSplitter struct {
	classifier       *HeadingClassifier
	headingWordLimit int
	augmentPatterns  map[types.SectionKey]*regexp.Regexp
}

// NewSectionSplitter 创建章节切分器。headingWordLimit<=0时使用默认值
func NewSectionSplitter(classifier *HeadingClassifier, headingWordLimit int) *SectionSplitter {
	if classifier == nil {
		classifier = NewHeadingClassifier()
	}
	if headingWordLimit <= 0 {
		headingWordLimit = defaultHeadingWordLimit
	}
	return &SectionSplitter{
		classifier:       classifier,
		headingWordLimit: headingWordLimit,
		augmentPatterns:  buildAugmentPatterns(),
	}
}

// Split 将原始文本切分为章节文本映射。永不失败：
// 完全无结构的文档会整体落入about章节，由下游提取器兜底。
func (s *SectionSplitter) Split(text string) types.RawSections {
	sections := make(types.RawSections)
	current := types.SectionAbout
	var buffer []string
	blankPending := false

	commit := func() {
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		sections.Append(current, content)
		buffer = buffer[:0]
		blankPending = false
	}

	appendLine := func(line string) {
		if blankPending && len(buffer) > 0 {
			// 连续空行折叠为一个段落分隔
			buffer = append(buffer, "")
		}
		blankPending = false
		buffer = append(buffer, line)
	}

	for _, rawLine := range strings.Split(text, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			blankPending = true
			continue
		}

		stripped, bullet := stripBullet(line)

		if !bullet {
			// 行内标题："Skills: Python, SQL" 切换章节并以剩余内容作为首行
			if m := inlineHeadingRe.FindStringSubmatch(stripped); m != nil {
				if key, ok := s.classifier.Classify(m[1]); ok {
					commit()
					current = key
					if rest := strings.TrimSpace(m[2]); rest != "" {
						appendLine(rest)
					}
					continue
				}
			}

			// 整行标题：仅接受足够短的行，正文句子中出现关键词不算
			if len(strings.Fields(stripped)) <= s.headingWordLimit {
				if key, ok := s.classifier.Classify(stripped); ok {
					commit()
					current = key
					continue
				}
			}
		}

		if bullet {
			appendLine("- " + stripped)
		} else {
			appendLine(stripped)
		}
	}
	commit()

	s.augment(text, sections)
	return sections
}

// augment 对仍为空的章节做二次抽取：直接在完整原文上用同义词
// 构造的正则查找 "关键词: 内容" 片段，覆盖没有换行结构的文档
func (s *SectionSplitter) augment(text string, sections types.RawSections) {
	if strings.TrimSpace(text) == "" {
		return
	}
	for _, key := range types.AllSectionKeys() {
		if sections.Get(key) != "" {
			continue
		}
		pattern, ok := s.augmentPatterns[key]
		if !ok {
			continue
		}
		if m := pattern.FindStringSubmatch(text); m != nil {
			if content := strings.TrimSpace(m[1]); content != "" {
				sections.Append(key, content)
			}
		}
	}
}

// stripBullet 去掉行首项目符号并返回是否为列表行
func stripBullet(line string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "• ", "-\t", "•\t"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(line[len(prefix):]), true
		}
	}
	// "•text" 偶尔没有空格
	if strings.HasPrefix(line, "•") {
		return strings.TrimSpace(strings.TrimPrefix(line, "•")), true
	}
	return line, false
}

func buildAugmentPatterns() map[types.SectionKey]*regexp.Regexp {
	patterns := make(map[types.SectionKey]*regexp.Regexp, len(sectionSynonyms))
	for key, synonyms := range sectionSynonyms {
		quoted := make([]string, 0, len(synonyms))
		for _, syn := range synonyms {
			quoted = append(quoted, regexp.QuoteMeta(syn))
		}
		// 长关键词优先，避免"experience"先于"work experience"命中
		sort.Slice(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
		patterns[key] = regexp.MustCompile(
			`(?i)(?:^|[\n.;])\s*(?:` + strings.Join(quoted, "|") + `)\s*[:：\-–]\s*([^\n]+)`,
		)
	}
	return patterns
}
