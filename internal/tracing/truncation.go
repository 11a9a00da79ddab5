package tracing

import (
	"strings"
)

const (
	// DefaultMaxLength 默认最大属性长度
	DefaultMaxLength = 200

	// MaxSQLLength SQL语句最大长度
	MaxSQLLength = 500

	// MaxRedisLength Redis键最大长度
	MaxRedisLength = 100

	// MaxCVLength 简历内容预览最大长度
	MaxCVLength = 150
)

// 简历场景下属性名命中这些关键字时视为个人敏感信息
var piiKeywords = []string{
	"email",
	"phone",
	"password",
	"身份证",
	"id_card",
	"address",
	"地址",
	"name",
	"姓名",
	"age",
	"年龄",
	"secret",
	"token",
	"contact",
	"candidate",
	"linkedin",
}

// SafeAttributeValue 把属性值变成可安全上报的形式：
// 属性名命中敏感关键字时整体掩码，否则仅做长度截断
func SafeAttributeValue(name string, value string, maxLength int) string {
	lowerName := strings.ToLower(name)
	for _, keyword := range piiKeywords {
		if strings.Contains(lowerName, keyword) {
			return MaskPII(value)
		}
	}
	return TruncateString(value, maxLength)
}

// MaskPII 掩码个人敏感信息，保留首尾少量字符用于排查。
// 两字符保留首字符，四字符以内保留首尾各一，更长的保留首尾各两个
func MaskPII(value string) string {
	runes := []rune(value)
	switch length := len(runes); {
	case length == 0:
		return ""
	case length == 1:
		return "*"
	case length == 2:
		return string(runes[:1]) + "*"
	case length <= 4:
		return string(runes[:1]) + strings.Repeat("*", length-2) + string(runes[length-1:])
	default:
		// 手机号、邮箱等长值: "13812345678" -> "13*******78"
		return string(runes[:2]) + strings.Repeat("*", length-4) + string(runes[length-2:])
	}
}

// TruncateString 按rune截断超长字符串，保留首尾并以省略号连接
func TruncateString(s string, maxLength int) string {
	runes := []rune(s)
	if len(runes) <= maxLength {
		return s
	}
	if maxLength <= 3 {
		return string(runes[:maxLength])
	}

	half := (maxLength - 3) / 2
	if half < 1 {
		half = 1
	}
	return string(runes[:half]) + "..." + string(runes[len(runes)-half:])
}

// SafeSQL 截断SQL语句，避免整条语句进入追踪属性
func SafeSQL(sql string) string {
	return TruncateString(sql, MaxSQLLength)
}

// SafeRedisKey 截断Redis键
func SafeRedisKey(key string) string {
	return TruncateString(key, MaxRedisLength)
}

// SafeCVContent 截断简历内容预览
func SafeCVContent(content string) string {
	return TruncateString(content, MaxCVLength)
}
