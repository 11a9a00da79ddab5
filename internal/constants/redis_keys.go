package constants

// Redis Key 前缀和格式常量
// 统一命名规范: perfectcv:{module}:{entity}:{unique_id}
const (
	// AppPrefix 所有Redis Key的统一应用前缀
	AppPrefix = "perfectcv"

	// CVModulePrefix 简历模块
	CVModulePrefix = "cv"
	// FileModulePrefix 文件模块
	FileModulePrefix = "file"

	// EntityResult 规范化结果实体
	EntityResult = "result"
	// EntityDedupSet 去重集合实体
	EntityDedupSet = "dedup_set"
	// EntityMD5ToUUID MD5到UUID的映射实体
	EntityMD5ToUUID = "md5_to_uuid"

	// KeyNormalizedResult 规范化结果缓存 (STRING, JSON)
	// 格式: perfectcv:cv:result:{submissionUUID}
	KeyNormalizedResult = AppPrefix + ":" + CVModulePrefix + ":" + EntityResult + ":%s"

	// KeyTextMD5Set 原文MD5集合，用于快速去重 (SET)
	// 格式: perfectcv:file:dedup_set
	KeyTextMD5Set = AppPrefix + ":" + FileModulePrefix + ":" + EntityDedupSet

	// KeyMD5ToSubmissionUUID MD5到SubmissionUUID的映射 (STRING)
	// 格式: perfectcv:file:md5_to_uuid:{md5}
	KeyMD5ToSubmissionUUID = AppPrefix + ":" + FileModulePrefix + ":" + EntityMD5ToUUID + ":%s"
)
