package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"perfectcv-go/internal/api/handler"
	"perfectcv-go/internal/api/router"
	"perfectcv-go/internal/config"
	"perfectcv-go/internal/normalizer"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/route"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine 构建不依赖外部存储的路由引擎，
// 存储与提取器为空时走降级路径，适合单元测试
func newTestEngine(t *testing.T) *route.Engine {
	t.Helper()
	cfg := &config.Config{ActiveNormalizerVersion: "rules-v1"}
	cvHandler := handler.NewCVHandler(cfg, nil, normalizer.NewBuilder(), nil)
	h := server.New(server.WithHostPorts("127.0.0.1:0"))
	router.RegisterRoutes(h, cvHandler)
	return h.Engine
}

const sampleResumeText = `John Smith
john.smith@example.com
Phone: 5551234567

Professional Summary
Seasoned software engineer with eight years of experience designing and operating
distributed backend systems for large consumer products.

Skills: Python, Go, Communication, Photography

Work Experience
Software Engineer at Acme Corp (2020 - 2023)
- Built a payment processing service
- Reduced deployment time by 40%

Education
BSc Computer Science - University of Leeds (2018)`

func TestHandleNormalizeTextSuccess(t *testing.T) {
	engine := newTestEngine(t)

	reqBody, err := json.Marshal(map[string]interface{}{
		"raw_text":       sampleResumeText,
		"source_channel": "unit_test",
	})
	require.NoError(t, err)

	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/normalize",
		&ut.Body{Body: bytes.NewBuffer(reqBody), Len: len(reqBody)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var normResp handler.NormalizeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &normResp))
	assert.NotEmpty(t, normResp.SubmissionUUID, "应返回生成的submission_uuid")
	assert.Equal(t, "NORMALIZED", normResp.Status)

	contact, ok := normResp.Result["contact_information"].(map[string]interface{})
	require.True(t, ok, "结果应包含contact_information")
	assert.Equal(t, "John Smith", contact["name"])
	assert.Equal(t, "john.smith@example.com", contact["email"])

	skills, ok := normResp.Result["skills"].(map[string]interface{})
	require.True(t, ok)
	technical, ok := skills["technical"].([]interface{})
	require.True(t, ok)
	assert.Contains(t, technical, "Python")
}

func TestHandleNormalizeTextWithKeywords(t *testing.T) {
	engine := newTestEngine(t)

	reqBody, err := json.Marshal(map[string]interface{}{
		"raw_text":        sampleResumeText,
		"target_keywords": []string{"Kubernetes", "Terraform"},
	})
	require.NoError(t, err)

	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/normalize",
		&ut.Body{Body: bytes.NewBuffer(reqBody), Len: len(reqBody)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	require.Equal(t, http.StatusOK, resp.Code)

	var normResp handler.NormalizeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &normResp))

	found := false
	for _, s := range normResp.Suggestions {
		if s.Category == "keywords" {
			found = true
			assert.Contains(t, s.Message, "Kubernetes")
		}
	}
	assert.True(t, found, "应包含关键词类建议")
}

func TestHandleNormalizeTextValidation(t *testing.T) {
	engine := newTestEngine(t)

	// 空raw_text
	body := []byte(`{"raw_text": "   "}`)
	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/normalize",
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, "空文本应返回400")

	// 非法JSON
	body = []byte(`{raw_text`)
	resp = ut.PerformRequest(engine, "POST", "/api/v1/cv/normalize",
		&ut.Body{Body: bytes.NewBuffer(body), Len: len(body)},
		ut.Header{Key: "Content-Type", Value: "application/json"},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, "非法JSON应返回400")
}

func TestHandleGetSubmissionWithoutDatabase(t *testing.T) {
	engine := newTestEngine(t)

	resp := ut.PerformRequest(engine, "GET", "/api/v1/cv/0196a000-0000-7000-8000-000000000000", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code, "无数据库时应返回503")
}

func TestHandleRenormalizeWithoutDatabase(t *testing.T) {
	engine := newTestEngine(t)

	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/0196a000-0000-7000-8000-000000000000/renormalize", nil)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code, "无数据库时应返回503")
}

func TestHandleFileUploadMissingFile(t *testing.T) {
	engine := newTestEngine(t)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	require.NoError(t, writer.WriteField("source_channel", "unit_test"))
	require.NoError(t, writer.Close())

	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/upload",
		&ut.Body{Body: buf, Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: writer.FormDataContentType()},
	)
	assert.Equal(t, http.StatusBadRequest, resp.Code, "缺少文件字段应返回400")
}

func TestHandleFileUploadWithoutExtractor(t *testing.T) {
	engine := newTestEngine(t)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "resume.pdf")
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.5 fake content"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	resp := ut.PerformRequest(engine, "POST", "/api/v1/cv/upload",
		&ut.Body{Body: buf, Len: buf.Len()},
		ut.Header{Key: "Content-Type", Value: writer.FormDataContentType()},
	)
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code, "未配置提取器时应返回503")
}

func TestHealthEndpoint(t *testing.T) {
	engine := newTestEngine(t)

	resp := ut.PerformRequest(engine, "GET", "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "ok")
}
