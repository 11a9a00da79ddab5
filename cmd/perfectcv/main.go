package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"perfectcv-go/internal/api/handler"
	"perfectcv-go/internal/api/router"
	"perfectcv-go/internal/config"
	"perfectcv-go/internal/logger"
	"perfectcv-go/internal/nlp"
	"perfectcv-go/internal/normalizer"
	"perfectcv-go/internal/parser"
	"perfectcv-go/internal/storage"
	"perfectcv-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

var (
	version     = "1.0.0"
	serviceName = "perfectcv"
)

// @title PerfectCV API
// @version 1.0
// @description Rule-based CV normalization service.
// @BasePath /api/v1
func main() {
	var configPath string
	pflag.StringVarP(&configPath, "config", "c", "", "Path to config file")
	pflag.Parse()

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Init(logger.Config{Level: "info", Format: "json", TimeFormat: time.RFC3339})
		logger.Fatal().Err(err).Msg("加载配置失败")
	}

	initLogger(cfg)
	logger.Info().Str("version", version).Msg("配置加载成功")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 链路追踪
	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}
	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("关闭链路追踪失败")
		}
	}()

	// 存储层：部分组件失败时以降级模式继续
	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	logger.Info().Msg("存储服务初始化成功")

	// 规范化流水线
	builderOptions := []normalizer.BuilderOption{}
	if cfg.Normalizer.MaxExperiencePoints > 0 {
		builderOptions = append(builderOptions, normalizer.WithMaxExperiencePoints(cfg.Normalizer.MaxExperiencePoints))
	}
	if cfg.Normalizer.HeadingWordLimit > 0 {
		builderOptions = append(builderOptions, normalizer.WithHeadingWordLimit(cfg.Normalizer.HeadingWordLimit))
	}
	if cfg.Normalizer.EnableNER {
		builderOptions = append(builderOptions, normalizer.WithEntityRecognizer(nlp.SharedRecognizer()))
		logger.Info().Msg("启用NER实体识别")
	}
	builder := normalizer.NewBuilder(builderOptions...)
	logger.Info().Str("normalizer_version", cfg.ActiveNormalizerVersion).Msg("规范化流水线初始化成功")

	// 文本提取
	var extractor parser.TextExtractor
	if cfg.Tika.ServerURL != "" {
		extractor = parser.NewTikaExtractor(&cfg.Tika)
		logger.Info().Str("server_url", cfg.Tika.ServerURL).Msg("使用Tika文本提取器")
	} else {
		logger.Warn().Msg("Tika未配置，文件上传接口将不可用")
	}

	cvHandler := handler.NewCVHandler(cfg, storageManager, builder, extractor)

	// HTTP服务器，请求级span由hertz的otel中间件生成
	tracer, tracerCfg := hertztracing.NewServerTracer()
	h := server.New(
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
		tracer,
	)
	h.Use(hertztracing.ServerMiddleware(tracerCfg))

	router.RegisterRoutes(h, cvHandler)
	logger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			logger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("接收到终止信号，正在优雅退出...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("服务器关闭失败")
	}
	logger.Info().Msg("优雅退出完成")
}

// initLogger 初始化zerolog并桥接到Hertz的hlog
func initLogger(cfg *config.Config) {
	logger.Init(logger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})

	logger.Logger = logger.Logger.With().
		Str("app", serviceName).
		Str("version", version).
		Logger()

	// Hertz内部日志走同一个zerolog实例
	glog.SetLogger(hertzadapter.From(logger.Logger))
}
