package handler

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"perfectcv-go/internal/config"
	"perfectcv-go/internal/constants"
	"perfectcv-go/internal/logger"
	"perfectcv-go/internal/normalizer"
	"perfectcv-go/internal/parser"
	"perfectcv-go/internal/storage"
	"perfectcv-go/internal/storage/models"
	"perfectcv-go/internal/tracing"
	"perfectcv-go/internal/types"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/gofrs/uuid/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var handlerTracer = otel.Tracer("perfectcv-go/api/handler")

// CVHandler 简历规范化处理器，负责协调提取、规范化与持久化流程
type CVHandler struct {
	cfg       *config.Config
	storage   *storage.Storage
	builder   *normalizer.Builder
	extractor parser.TextExtractor
}

// NewCVHandler 创建简历规范化处理器
func NewCVHandler(cfg *config.Config, storage *storage.Storage, builder *normalizer.Builder, extractor parser.TextExtractor) *CVHandler {
	return &CVHandler{
		cfg:       cfg,
		storage:   storage,
		builder:   builder,
		extractor: extractor,
	}
}

// NormalizeTextRequest 纯文本规范化请求
type NormalizeTextRequest struct {
	RawText       string   `json:"raw_text"`
	SourceChannel string   `json:"source_channel"`
	TargetKeyword []string `json:"target_keywords"`
}

// NormalizeResponse 规范化响应
type NormalizeResponse struct {
	SubmissionUUID string                 `json:"submission_uuid"`
	Status         string                 `json:"status"`
	Result         map[string]interface{} `json:"result"`
	Suggestions    []types.Suggestion     `json:"suggestions"`
}

// HandleNormalizeText 处理纯文本简历规范化请求
func (h *CVHandler) HandleNormalizeText(ctx context.Context, c *app.RequestContext) {
	var req NormalizeTextRequest
	if err := json.Unmarshal(c.Request.Body(), &req); err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "请求体JSON解析失败"})
		return
	}
	if strings.TrimSpace(req.RawText) == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "raw_text不能为空"})
		return
	}
	if len(req.RawText) > constants.MaxUploadSizeBytes {
		c.JSON(consts.StatusRequestEntityTooLarge, utils.H{"error": "raw_text超过大小限制"})
		return
	}
	sourceChannel := req.SourceChannel
	if sourceChannel == "" {
		sourceChannel = "api_text"
	}

	resp, status, err := h.normalizeAndPersist(ctx, req.RawText, req.TargetKeyword, &submissionMeta{
		SourceChannel: sourceChannel,
	})
	if err != nil {
		logger.Error().Err(err).Msg("文本规范化处理失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(status, resp)
}

// HandleFileUpload 处理简历文件上传：存原件、提取文本、规范化
func (h *CVHandler) HandleFileUpload(ctx context.Context, c *app.RequestContext) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "文件未找到"})
		return
	}
	if fileHeader.Size > constants.MaxUploadSizeBytes {
		c.JSON(consts.StatusRequestEntityTooLarge, utils.H{"error": "文件超过大小限制"})
		return
	}

	sourceChannel := c.PostForm("source_channel")
	if sourceChannel == "" {
		sourceChannel = "web_upload"
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "打开文件失败"})
		return
	}
	defer file.Close()

	if h.extractor == nil {
		c.JSON(consts.StatusServiceUnavailable, utils.H{"error": "文本提取服务未配置"})
		return
	}

	meta := &submissionMeta{
		SourceChannel:    sourceChannel,
		OriginalFilename: fileHeader.Filename,
	}

	// 原始文件先落对象存储，后续提取失败也可回溯
	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".pdf"
	}
	uuidV7, err := uuid.NewV7()
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "生成UUID失败"})
		return
	}
	meta.SubmissionUUID = uuidV7.String()

	var fileBytes []byte
	if h.storage != nil && h.storage.MinIO != nil {
		objectKey, _, upErr := h.storage.MinIO.UploadOriginalFile(ctx, meta.SubmissionUUID, ext, file, fileHeader.Size)
		if upErr != nil {
			logger.Error().Err(upErr).Str("filename", fileHeader.Filename).Msg("上传原始简历到MinIO失败")
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "上传原始文件失败"})
			return
		}
		meta.OriginalFilePathOSS = objectKey
		// 提取文本需要再次读取，回读已上传的对象
		fileBytes, err = h.storage.MinIO.GetOriginalFile(ctx, objectKey)
		if err != nil {
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取已上传文件失败"})
			return
		}
	} else {
		buf := &bytes.Buffer{}
		if _, err := buf.ReadFrom(file); err != nil {
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "读取文件失败"})
			return
		}
		fileBytes = buf.Bytes()
	}

	extractCtx, extractSpan := handlerTracer.Start(ctx, "CVHandler.ExtractText")
	rawText, _, err := h.extractor.ExtractFromBytes(extractCtx, fileBytes, fileHeader.Filename)
	if err != nil {
		tracing.RecordErrorWithInfo(extractSpan, err, tracing.ErrorTypeExtraction,
			attribute.String("cv.filename", fileHeader.Filename))
		extractSpan.End()
		h.markFailed(ctx, meta)
		logger.Error().Err(err).Str("filename", fileHeader.Filename).Msg("Tika文本提取失败")
		c.JSON(consts.StatusUnprocessableEntity, utils.H{"error": "文本提取失败"})
		return
	}
	extractSpan.End()
	if strings.TrimSpace(rawText) == "" {
		h.markFailed(ctx, meta)
		c.JSON(consts.StatusUnprocessableEntity, utils.H{"error": "文档中未提取到文本"})
		return
	}

	resp, status, err := h.normalizeAndPersist(ctx, rawText, nil, meta)
	if err != nil {
		logger.Error().Err(err).Msg("上传简历规范化处理失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": err.Error()})
		return
	}
	c.JSON(status, resp)
}

// submissionMeta 一次提交的来源信息
type submissionMeta struct {
	SubmissionUUID      string
	SourceChannel       string
	OriginalFilename    string
	OriginalFilePathOSS string
}

// normalizeAndPersist 执行去重、规范化和持久化，是文本与文件两条入口的公共路径
func (h *CVHandler) normalizeAndPersist(ctx context.Context, rawText string, missingKeywords []string, meta *submissionMeta) (*NormalizeResponse, int, error) {
	ctx, span := handlerTracer.Start(ctx, "CVHandler.NormalizeAndPersist")
	defer span.End()
	span.SetAttributes(
		attribute.Int("cv.raw_text_length", len(rawText)),
		attribute.String("cv.content_preview", tracing.SafeCVContent(rawText)),
		attribute.String("cv.source_channel", tracing.SafeAttributeValue("source_channel", meta.SourceChannel, tracing.DefaultMaxLength)),
	)

	sum := md5.Sum([]byte(rawText))
	textMD5 := hex.EncodeToString(sum[:])

	submissionUUID := meta.SubmissionUUID
	if submissionUUID == "" {
		uuidV7, err := uuid.NewV7()
		if err != nil {
			return nil, 0, fmt.Errorf("生成UUIDv7失败: %w", err)
		}
		submissionUUID = uuidV7.String()
	}

	// 文本MD5去重：重复提交直接返回已有结果
	if h.storage != nil && h.storage.Redis != nil {
		exists, existingUUID, err := h.storage.Redis.CheckAndSetTextMD5(ctx, textMD5, submissionUUID)
		if err != nil {
			// 去重失败不阻断主流程
			logger.Warn().Err(err).Str("md5", textMD5).Msg("文本MD5去重检查失败")
		} else if exists && existingUUID != "" {
			if resp := h.lookupExisting(ctx, existingUUID); resp != nil {
				logger.Info().Str("md5", textMD5).Str("submission_uuid", existingUUID).Msg("检测到重复简历文本")
				return resp, consts.StatusOK, nil
			}
			// 映射存在但记录已丢失，清掉去重记录后继续处理
			if err := h.storage.Redis.RemoveTextMD5(ctx, textMD5); err != nil {
				logger.Warn().Err(err).Str("md5", textMD5).Msg("清理失效MD5映射失败")
			}
		}
	}

	cv := h.builder.Build(rawText)
	payload := h.builder.Payload(cv)
	suggestions := h.builder.Suggest(cv, missingKeywords)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("序列化规范化结果失败: %w", err)
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		return nil, 0, fmt.Errorf("序列化建议失败: %w", err)
	}

	parsedTextPath := ""
	if h.storage != nil && h.storage.MinIO != nil {
		parsedTextPath, err = h.storage.MinIO.UploadParsedText(ctx, submissionUUID, rawText)
		if err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("上传解析文本到MinIO失败")
			parsedTextPath = ""
		}
	}

	if h.storage != nil && h.storage.MySQL != nil {
		submission := &models.CVSubmission{
			SubmissionUUID:      submissionUUID,
			SubmissionTimestamp: time.Now(),
			SourceChannel:       meta.SourceChannel,
			OriginalFilename:    meta.OriginalFilename,
			OriginalFilePathOSS: meta.OriginalFilePathOSS,
			ParsedTextPathOSS:   parsedTextPath,
			RawTextMD5:          textMD5,
			NormalizedPayload:   payloadJSON,
			SuggestionsJSON:     suggestionsJSON,
			ProcessingStatus:    models.StatusNormalized,
			NormalizerVersion:   h.cfg.ActiveNormalizerVersion,
		}
		if err := h.storage.MySQL.CreateSubmission(ctx, submission); err != nil {
			tracing.RecordError(span, err, tracing.ErrorTypeDB)
			return nil, 0, fmt.Errorf("持久化提交记录失败: %w", err)
		}
	}

	if h.storage != nil && h.storage.Redis != nil {
		if err := h.storage.Redis.CacheNormalizedResult(ctx, submissionUUID, string(payloadJSON)); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("缓存规范化结果失败")
		}
	}

	return &NormalizeResponse{
		SubmissionUUID: submissionUUID,
		Status:         models.StatusNormalized,
		Result:         payload,
		Suggestions:    suggestions,
	}, consts.StatusOK, nil
}

// lookupExisting 按UUID取回已有的规范化结果，查不到时返回nil
func (h *CVHandler) lookupExisting(ctx context.Context, submissionUUID string) *NormalizeResponse {
	if h.storage == nil || h.storage.MySQL == nil {
		return nil
	}
	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil || submission == nil || len(submission.NormalizedPayload) == 0 {
		return nil
	}

	var result map[string]interface{}
	if err := json.Unmarshal(submission.NormalizedPayload, &result); err != nil {
		return nil
	}
	var suggestions []types.Suggestion
	if len(submission.SuggestionsJSON) > 0 {
		_ = json.Unmarshal(submission.SuggestionsJSON, &suggestions)
	}

	return &NormalizeResponse{
		SubmissionUUID: submission.SubmissionUUID,
		Status:         "DUPLICATE_FILE_SKIPPED",
		Result:         result,
		Suggestions:    suggestions,
	}
}

// markFailed 提取失败时落一条FAILED记录，便于排查
func (h *CVHandler) markFailed(ctx context.Context, meta *submissionMeta) {
	if h.storage == nil || h.storage.MySQL == nil || meta.SubmissionUUID == "" {
		return
	}
	submission := &models.CVSubmission{
		SubmissionUUID:      meta.SubmissionUUID,
		SubmissionTimestamp: time.Now(),
		SourceChannel:       meta.SourceChannel,
		OriginalFilename:    meta.OriginalFilename,
		OriginalFilePathOSS: meta.OriginalFilePathOSS,
		ProcessingStatus:    models.StatusFailed,
		NormalizerVersion:   h.cfg.ActiveNormalizerVersion,
	}
	if err := h.storage.MySQL.CreateSubmission(ctx, submission); err != nil {
		logger.Warn().Err(err).Str("submission_uuid", meta.SubmissionUUID).Msg("记录失败状态出错")
	}
}

// SubmissionResponse 提交查询响应
type SubmissionResponse struct {
	SubmissionUUID    string                 `json:"submission_uuid"`
	Status            string                 `json:"status"`
	SourceChannel     string                 `json:"source_channel"`
	OriginalFilename  string                 `json:"original_filename,omitempty"`
	NormalizerVersion string                 `json:"normalizer_version"`
	SubmittedAt       time.Time              `json:"submitted_at"`
	Result            map[string]interface{} `json:"result,omitempty"`
}

// HandleGetSubmission 按UUID查询提交与规范化结果，优先读Redis缓存
func (h *CVHandler) HandleGetSubmission(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("submission_uuid")
	if submissionUUID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
		return
	}

	// 缓存命中时跳过MySQL详情，只返回结果本体
	if h.storage != nil && h.storage.Redis != nil {
		if cached, err := h.storage.Redis.GetNormalizedResult(ctx, submissionUUID); err == nil && cached != "" {
			var result map[string]interface{}
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				c.JSON(consts.StatusOK, SubmissionResponse{
					SubmissionUUID: submissionUUID,
					Status:         models.StatusNormalized,
					Result:         result,
				})
				return
			}
		}
	}

	submission, ok := h.loadSubmission(ctx, c, submissionUUID)
	if !ok {
		return
	}

	resp := SubmissionResponse{
		SubmissionUUID:    submission.SubmissionUUID,
		Status:            submission.ProcessingStatus,
		SourceChannel:     submission.SourceChannel,
		OriginalFilename:  submission.OriginalFilename,
		NormalizerVersion: submission.NormalizerVersion,
		SubmittedAt:       submission.SubmissionTimestamp,
	}
	if len(submission.NormalizedPayload) > 0 {
		var result map[string]interface{}
		if err := json.Unmarshal(submission.NormalizedPayload, &result); err == nil {
			resp.Result = result
		}
	}
	c.JSON(consts.StatusOK, resp)
}

// PreviewResponse 预览响应
type PreviewResponse struct {
	SubmissionUUID string                 `json:"submission_uuid"`
	Sections       []types.PreviewSection `json:"sections"`
	Text           string                 `json:"text"`
}

// HandleGetPreview 按UUID生成可读的纯文本预览
func (h *CVHandler) HandleGetPreview(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("submission_uuid")
	cv, ok := h.loadStructuredCV(ctx, c, submissionUUID)
	if !ok {
		return
	}

	sections, text := h.builder.Preview(cv)
	c.JSON(consts.StatusOK, PreviewResponse{
		SubmissionUUID: submissionUUID,
		Sections:       sections,
		Text:           text,
	})
}

// SuggestionsResponse 建议响应
type SuggestionsResponse struct {
	SubmissionUUID string             `json:"submission_uuid"`
	Suggestions    []types.Suggestion `json:"suggestions"`
}

// HandleGetSuggestions 返回改进建议。
// 带missing_keywords查询参数时基于存量结果重新计算，否则返回落库的建议。
func (h *CVHandler) HandleGetSuggestions(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("submission_uuid")

	keywordsParam := strings.TrimSpace(c.Query("missing_keywords"))
	if keywordsParam != "" {
		cv, ok := h.loadStructuredCV(ctx, c, submissionUUID)
		if !ok {
			return
		}
		var keywords []string
		for _, kw := range strings.Split(keywordsParam, ",") {
			if kw = strings.TrimSpace(kw); kw != "" {
				keywords = append(keywords, kw)
			}
		}
		c.JSON(consts.StatusOK, SuggestionsResponse{
			SubmissionUUID: submissionUUID,
			Suggestions:    h.builder.Suggest(cv, keywords),
		})
		return
	}

	submission, ok := h.loadSubmission(ctx, c, submissionUUID)
	if !ok {
		return
	}
	var suggestions []types.Suggestion
	if len(submission.SuggestionsJSON) > 0 {
		if err := json.Unmarshal(submission.SuggestionsJSON, &suggestions); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("解析落库建议失败")
		}
	}
	c.JSON(consts.StatusOK, SuggestionsResponse{
		SubmissionUUID: submissionUUID,
		Suggestions:    suggestions,
	})
}

// RecentSubmissionItem 最近提交列表项
type RecentSubmissionItem struct {
	SubmissionUUID   string    `json:"submission_uuid"`
	Status           string    `json:"status"`
	SourceChannel    string    `json:"source_channel"`
	OriginalFilename string    `json:"original_filename,omitempty"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// HandleListRecent 返回最近的提交记录
func (h *CVHandler) HandleListRecent(ctx context.Context, c *app.RequestContext) {
	if h.storage == nil || h.storage.MySQL == nil {
		c.JSON(consts.StatusServiceUnavailable, utils.H{"error": "数据库未配置"})
		return
	}

	limit := 20
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	submissions, err := h.storage.MySQL.ListRecentSubmissions(ctx, limit)
	if err != nil {
		logger.Error().Err(err).Msg("查询最近提交列表失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "查询提交列表失败"})
		return
	}

	items := make([]RecentSubmissionItem, 0, len(submissions))
	for _, s := range submissions {
		items = append(items, RecentSubmissionItem{
			SubmissionUUID:   s.SubmissionUUID,
			Status:           s.ProcessingStatus,
			SourceChannel:    s.SourceChannel,
			OriginalFilename: s.OriginalFilename,
			SubmittedAt:      s.SubmissionTimestamp,
		})
	}
	c.JSON(consts.StatusOK, utils.H{"submissions": items})
}

// loadSubmission 读取提交记录并处理常见错误分支
func (h *CVHandler) loadSubmission(ctx context.Context, c *app.RequestContext, submissionUUID string) (*models.CVSubmission, bool) {
	if submissionUUID == "" {
		c.JSON(consts.StatusBadRequest, utils.H{"error": "submission_uuid不能为空"})
		return nil, false
	}
	if h.storage == nil || h.storage.MySQL == nil {
		c.JSON(consts.StatusServiceUnavailable, utils.H{"error": "数据库未配置"})
		return nil, false
	}
	submission, err := h.storage.MySQL.GetSubmissionByUUID(ctx, submissionUUID)
	if err != nil {
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("查询提交记录失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "查询提交记录失败"})
		return nil, false
	}
	if submission == nil {
		c.JSON(consts.StatusNotFound, utils.H{"error": "提交记录不存在"})
		return nil, false
	}
	return submission, true
}

// loadStructuredCV 读取落库的规范化结果并还原成结构化简历
func (h *CVHandler) loadStructuredCV(ctx context.Context, c *app.RequestContext, submissionUUID string) (*types.StructuredCV, bool) {
	submission, ok := h.loadSubmission(ctx, c, submissionUUID)
	if !ok {
		return nil, false
	}
	if len(submission.NormalizedPayload) == 0 {
		c.JSON(consts.StatusConflict, utils.H{"error": "该提交尚无规范化结果"})
		return nil, false
	}

	// 历史版本规则集产出的负载字段命名不统一，走兼容适配
	if submission.NormalizerVersion != h.cfg.ActiveNormalizerVersion {
		var legacy map[string]interface{}
		if err := json.Unmarshal(submission.NormalizedPayload, &legacy); err != nil {
			logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("解析落库结果失败")
			c.JSON(consts.StatusInternalServerError, utils.H{"error": "解析落库结果失败"})
			return nil, false
		}
		return types.AdaptLegacyPayload(legacy), true
	}

	var cv types.StructuredCV
	if err := json.Unmarshal(submission.NormalizedPayload, &cv); err != nil {
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("解析落库结果失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "解析落库结果失败"})
		return nil, false
	}
	return &cv, true
}

// RenormalizeResponse 重规范化响应
type RenormalizeResponse struct {
	SubmissionUUID    string                 `json:"submission_uuid"`
	Status            string                 `json:"status"`
	NormalizerVersion string                 `json:"normalizer_version"`
	Result            map[string]interface{} `json:"result"`
	Suggestions       []types.Suggestion     `json:"suggestions"`
}

// HandleRenormalize 用当前规则集重算落库结果并回写。
// 旧版本规则集产出的记录经兼容适配后统一到当前schema
func (h *CVHandler) HandleRenormalize(ctx context.Context, c *app.RequestContext) {
	submissionUUID := c.Param("submission_uuid")

	ctx, span := handlerTracer.Start(ctx, "CVHandler.Renormalize")
	defer span.End()
	span.SetAttributes(attribute.String("cv.submission_uuid", submissionUUID))

	cv, ok := h.loadStructuredCV(ctx, c, submissionUUID)
	if !ok {
		return
	}

	payload := h.builder.Payload(cv)
	suggestions := h.builder.Suggest(cv, nil)

	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "序列化规范化结果失败"})
		return
	}
	suggestionsJSON, err := json.Marshal(suggestions)
	if err != nil {
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "序列化建议失败"})
		return
	}

	if err := h.storage.MySQL.SaveNormalizedResult(ctx, submissionUUID, payloadJSON, suggestionsJSON, h.cfg.ActiveNormalizerVersion); err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		logger.Error().Err(err).Str("submission_uuid", submissionUUID).Msg("回写规范化结果失败")
		c.JSON(consts.StatusInternalServerError, utils.H{"error": "回写规范化结果失败"})
		return
	}

	if h.storage.Redis != nil {
		if err := h.storage.Redis.CacheNormalizedResult(ctx, submissionUUID, string(payloadJSON)); err != nil {
			logger.Warn().Err(err).Str("submission_uuid", submissionUUID).Msg("刷新结果缓存失败")
		}
	}

	c.JSON(consts.StatusOK, RenormalizeResponse{
		SubmissionUUID:    submissionUUID,
		Status:            models.StatusNormalized,
		NormalizerVersion: h.cfg.ActiveNormalizerVersion,
		Result:            payload,
		Suggestions:       suggestions,
	})
}
