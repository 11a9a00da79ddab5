package models

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// 简历提交的处理状态
const (
	StatusPendingExtraction = "PENDING_EXTRACTION"
	StatusNormalized        = "NORMALIZED"
	StatusFailed            = "FAILED"
)

// CVSubmission 简历提交/快照表。
// 规范化结果整体以JSON落库，结构演进不需要改表
type CVSubmission struct {
	SubmissionUUID      string         `gorm:"type:char(36);primaryKey"`
	SubmissionTimestamp time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);index:idx_cv_submission_timestamp"`
	SourceChannel       string         `gorm:"type:varchar(100)"`
	OriginalFilename    string         `gorm:"type:varchar(255)"`
	OriginalFilePathOSS string         `gorm:"type:varchar(1024)"`
	ParsedTextPathOSS   string         `gorm:"type:varchar(1024)"`
	RawTextMD5          string         `gorm:"type:char(32);index:idx_cv_raw_text_md5"`
	NormalizedPayload   datatypes.JSON `gorm:"type:json"`
	SuggestionsJSON     datatypes.JSON `gorm:"type:json"`
	ProcessingStatus    string         `gorm:"type:varchar(50);default:'PENDING_EXTRACTION';index:idx_cv_processing_status"`
	NormalizerVersion   string         `gorm:"type:varchar(50)"`
	CreatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
	UpdatedAt           time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6);autoUpdateTime"`
}

func (CVSubmission) TableName() string {
	return "cv_submissions"
}

// StringToJSON Helper function to convert string to datatypes.JSON
func StringToJSON(s string) datatypes.JSON {
	return datatypes.JSON(s)
}

// MapToJSON Helper function to convert map[string]interface{} to datatypes.JSON
func MapToJSON(m map[string]interface{}) (datatypes.JSON, error) {
	bytes, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return bytes, nil
}
