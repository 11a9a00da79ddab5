package parser

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"perfectcv-go/internal/config"
	"perfectcv-go/internal/logger"
)

// MetadataMode 元数据提取模式
const (
	MetadataModeFull    = "full"
	MetadataModeMinimal = "minimal"
	MetadataModeNone    = "none"
)

// TextExtractor 文档文本提取接口
type TextExtractor interface {
	// ExtractFromFile 从本地文件提取纯文本和元数据
	ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error)

	// ExtractFromReader 从io.Reader提取纯文本和元数据
	ExtractFromReader(ctx context.Context, reader io.Reader, filename string) (string, map[string]interface{}, error)

	// ExtractFromBytes 从字节数组提取纯文本和元数据
	ExtractFromBytes(ctx context.Context, data []byte, filename string) (string, map[string]interface{}, error)
}

// TikaExtractor 基于Apache Tika服务器的文本提取器，
// 支持PDF、Word等简历常见格式
type TikaExtractor struct {
	// Tika服务器地址，例如 http://localhost:9998
	ServerURL string
	// HTTP客户端，可配置超时等参数
	Client *http.Client
	// 元数据提取模式: full / minimal / none
	metadataMode string
	// 是否提取链接注释文本
	extractAnnotations bool
}

// TikaOption 定义配置选项函数
type TikaOption func(*TikaExtractor)

// WithMetadataMode 配置元数据提取模式
func WithMetadataMode(mode string) TikaOption {
	return func(e *TikaExtractor) {
		e.metadataMode = mode
	}
}

// WithAnnotations 配置是否提取PDF链接注释文本
func WithAnnotations(extract bool) TikaOption {
	return func(e *TikaExtractor) {
		e.extractAnnotations = extract
	}
}

// WithTimeout 配置HTTP客户端超时时间
func WithTimeout(timeout time.Duration) TikaOption {
	return func(e *TikaExtractor) {
		e.Client.Timeout = timeout
	}
}

// 确保TikaExtractor实现了TextExtractor接口
var _ TextExtractor = (*TikaExtractor)(nil)

// NewTikaExtractor 根据配置创建Tika文本提取器
func NewTikaExtractor(cfg *config.TikaConfig, options ...TikaOption) *TikaExtractor {
	timeout := 60 * time.Second
	if cfg != nil && cfg.Timeout > 0 {
		timeout = time.Duration(cfg.Timeout) * time.Second
	}

	serverURL := ""
	metadataMode := MetadataModeMinimal
	if cfg != nil {
		serverURL = cfg.ServerURL
		if cfg.MetadataMode != "" {
			metadataMode = cfg.MetadataMode
		}
	}

	extractor := &TikaExtractor{
		ServerURL:          serverURL,
		Client:             &http.Client{Timeout: timeout},
		metadataMode:       metadataMode,
		extractAnnotations: true,
	}

	for _, option := range options {
		option(extractor)
	}

	return extractor
}

// ExtractFromFile 从本地文件提取纯文本和元数据
func (e *TikaExtractor) ExtractFromFile(ctx context.Context, filePath string) (string, map[string]interface{}, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", nil, fmt.Errorf("打开文件 %s 失败: %w", filePath, err)
	}
	defer file.Close()

	return e.ExtractFromReader(ctx, file, filePath)
}

// ExtractFromReader 从io.Reader提取纯文本和元数据
func (e *TikaExtractor) ExtractFromReader(ctx context.Context, reader io.Reader, filename string) (string, map[string]interface{}, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", nil, fmt.Errorf("读取文档内容失败: %w", err)
	}
	return e.ExtractFromBytes(ctx, data, filename)
}

// ExtractFromBytes 从字节数组提取纯文本和元数据
func (e *TikaExtractor) ExtractFromBytes(ctx context.Context, data []byte, filename string) (string, map[string]interface{}, error) {
	startTime := time.Now()

	baseMetadata := map[string]interface{}{
		"extraction_time": time.Now().Format(time.RFC3339),
		"source_filename": filename,
	}

	url := fmt.Sprintf("%s/tika", e.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return "", baseMetadata, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeFor(filename))
	req.Header.Set("Accept", "text/plain")
	if filename != "" {
		req.Header.Set("X-Tika-Resource-Name", filepath.Base(filename))
	}
	if !e.extractAnnotations {
		req.Header.Set("X-Tika-PDFExtractAnnotationText", "false")
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", baseMetadata, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", baseMetadata, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	textBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", baseMetadata, fmt.Errorf("读取Tika响应失败: %w", err)
	}
	text := string(textBytes)

	baseMetadata["text_length"] = len(text)
	baseMetadata["processing_duration_ms"] = time.Since(startTime).Milliseconds()

	if e.metadataMode == MetadataModeNone || e.metadataMode == "" {
		return text, baseMetadata, nil
	}

	rawMetadata, err := e.extractMetadata(ctx, data, filename)
	if err != nil {
		// 元数据失败不影响文本结果
		logger.Warn().Err(err).Str("filename", filename).Msg("Tika元数据提取失败")
		return text, baseMetadata, nil
	}

	if e.metadataMode == MetadataModeFull {
		for k, v := range rawMetadata {
			baseMetadata[k] = v
		}
	} else {
		for k, v := range rawMetadata {
			if isImportantMetadata(k) {
				baseMetadata[k] = v
			}
		}
	}

	return text, baseMetadata, nil
}

// extractMetadata 提取文档元数据
func (e *TikaExtractor) extractMetadata(ctx context.Context, data []byte, filename string) (map[string]interface{}, error) {
	url := fmt.Sprintf("%s/meta", e.ServerURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("创建HTTP请求失败: %w", err)
	}

	req.Header.Set("Content-Type", contentTypeFor(filename))
	req.Header.Set("Accept", "application/json")
	if filename != "" {
		req.Header.Set("X-Tika-Resource-Name", filepath.Base(filename))
	}

	resp, err := e.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送请求到Tika服务器失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tika服务器返回错误状态码: %d", resp.StatusCode)
	}

	metadataBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取Tika响应失败: %w", err)
	}

	var metadata map[string]interface{}
	if err := json.Unmarshal(metadataBytes, &metadata); err != nil {
		return nil, fmt.Errorf("解析元数据JSON失败: %w", err)
	}
	return metadata, nil
}

// isImportantMetadata 判断精简模式下需要保留的元数据字段
func isImportantMetadata(key string) bool {
	importantKeys := map[string]bool{
		"pdf:PDFVersion":                true,
		"xmpTPg:NPages":                 true,
		"dcterms:created":               true,
		"language":                      true,
		"dc:title":                      true,
		"Content-Type":                  true,
		"pdf:docinfo:title":             true,
		"pdf:docinfo:created":           true,
		"pdf:totalUnmappedUnicodeChars": true,
	}
	return importantKeys[key]
}

// contentTypeFor 根据文件扩展名推断上传内容类型
func contentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "application/pdf"
	case ".doc":
		return "application/msword"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	default:
		return "application/octet-stream"
	}
}
