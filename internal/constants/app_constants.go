package constants

import "time"

const (
	// ResultCacheDuration 规范化结果在Redis中的缓存时长
	ResultCacheDuration = 24 * time.Hour

	// MaxUploadSizeBytes 上传文件的大小上限
	MaxUploadSizeBytes = 10 << 20
)
