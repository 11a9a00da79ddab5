package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoadConfigFromFile 验证YAML配置能被完整加载
func TestLoadConfigFromFile(t *testing.T) {
	yamlContent := `
server:
  address: ":9090"
mysql:
  host: "db.internal"
  port: 3306
  database: "perfectcv"
minio:
  endpoint: "minio.internal:9000"
  originalsBucket: "cv-originals"
normalizer:
  max_experience_points: 5
  heading_word_limit: 4
  enable_ner: true
`
	tmpDir, err := os.MkdirTemp("", "config-test")
	require.NoError(t, err, "无法创建临时目录")
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	err = os.WriteFile(configPath, []byte(yamlContent), 0644)
	require.NoError(t, err, "无法写入临时配置文件")

	config, err := LoadConfig(configPath)

	require.NoError(t, err, "加载合法配置不应返回错误")
	require.NotNil(t, config)
	assert.Equal(t, ":9090", config.Server.Address)
	assert.Equal(t, "db.internal", config.MySQL.Host)
	assert.Equal(t, "cv-originals", config.MinIO.OriginalsBucket)
	assert.Equal(t, 5, config.Normalizer.MaxExperiencePoints)
	assert.Equal(t, 4, config.Normalizer.HeadingWordLimit)
	assert.True(t, config.Normalizer.EnableNER)
}

// TestLoadConfigDefaults 验证未出现在YAML中的字段被填上缺省值
func TestLoadConfigDefaults(t *testing.T) {
	yamlContent := `
mysql:
  host: "localhost"
`
	tmpDir, err := os.MkdirTemp("", "config-defaults")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	config, err := LoadConfig(configPath)

	require.NoError(t, err)
	assert.Equal(t, ":8080", config.Server.Address, "服务器地址缺省值")
	assert.Equal(t, "info", config.Logger.Level, "日志级别缺省值")
	assert.Equal(t, 8, config.Normalizer.MaxExperiencePoints)
	assert.Equal(t, 6, config.Normalizer.HeadingWordLimit)
	assert.Equal(t, "rules-v1", config.ActiveNormalizerVersion)
	assert.Equal(t, "perfectcv", config.Tracing.ServiceName)
}

// TestLoadConfigEnvOverride 验证敏感项的环境变量覆盖
func TestLoadConfigEnvOverride(t *testing.T) {
	yamlContent := `
mysql:
  password: "from-file"
`
	tmpDir, err := os.MkdirTemp("", "config-env")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	configPath := filepath.Join(tmpDir, "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	t.Setenv("PERFECTCV_MYSQL_PASSWORD", "from-env")

	config, err := LoadConfig(configPath)

	require.NoError(t, err)
	assert.Equal(t, "from-env", config.MySQL.Password, "环境变量应覆盖配置文件")
}

// TestLoadConfigMissingFileInTest 验证测试环境下缺失配置文件时返回默认配置
func TestLoadConfigMissingFileInTest(t *testing.T) {
	config, err := LoadConfig(filepath.Join(os.TempDir(), "definitely-not-there.yaml"))

	require.NoError(t, err, "测试环境下缺失配置文件不应报错")
	require.NotNil(t, config)
	assert.Equal(t, ":8080", config.Server.Address)
	assert.Equal(t, "rules-v1", config.ActiveNormalizerVersion)
}

// TestCreateSampleConfig 验证示例配置文件的生成与防覆盖
func TestCreateSampleConfig(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "config-sample")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	samplePath := filepath.Join(tmpDir, "sample.yaml")
	require.NoError(t, CreateSampleConfig(samplePath))

	loaded, err := LoadConfig(samplePath)
	require.NoError(t, err)
	assert.Equal(t, "cv-originals", loaded.MinIO.OriginalsBucket)

	// 已存在的文件不允许覆盖
	assert.Error(t, CreateSampleConfig(samplePath))
}
