package nlp

import (
	"strings"
	"sync"

	"github.com/jdkato/prose/v2"
)

// 实体标签常量，与prose的NER标签对齐
const (
	LabelPerson   = "PERSON"
	LabelGPE      = "GPE"
	LabelLocation = "LOC"
)

// Entity 一个命名实体识别结果
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer 命名实体识别接口。
// 归一化管线只依赖这个接口，具体实现由组合根注入，
// 管线自身不持有任何模型级单例。
type EntityRecognizer interface {
	// Entities 返回文本中识别到的命名实体，识别失败时返回nil
	Entities(text string) []Entity
}

// ProseRecognizer 基于prose库的EntityRecognizer实现
type ProseRecognizer struct{}

// NewProseRecognizer 创建prose识别器
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities 实现EntityRecognizer接口
func (r *ProseRecognizer) Entities(text string) []Entity {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	doc, err := prose.NewDocument(text, prose.WithSegmentation(false))
	if err != nil {
		return nil
	}
	var entities []Entity
	for _, ent := range doc.Entities() {
		entities = append(entities, Entity{
			Text:  ent.Text,
			Label: ent.Label,
		})
	}
	return entities
}

var (
	sharedRecognizer     EntityRecognizer
	sharedRecognizerOnce sync.Once
)

// SharedRecognizer 返回进程级缓存的识别器实例。
// prose的模型加载有固定开销，组合根通过这里复用同一实例；
// 识别器本身无状态，并发调用安全。
func SharedRecognizer() EntityRecognizer {
	sharedRecognizerOnce.Do(func() {
		sharedRecognizer = NewProseRecognizer()
	})
	return sharedRecognizer
}
