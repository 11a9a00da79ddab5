package router

import (
	"context"

	"perfectcv-go/internal/api/handler"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

// RegisterRoutes 注册 API 路由
func RegisterRoutes(h *server.Hertz, cvHandler *handler.CVHandler) {
	api := h.Group("/api/v1")

	cv := api.Group("/cv")
	cv.POST("/normalize", cvHandler.HandleNormalizeText)
	cv.POST("/upload", cvHandler.HandleFileUpload)
	cv.GET("/recent", cvHandler.HandleListRecent)
	cv.GET("/:submission_uuid", cvHandler.HandleGetSubmission)
	cv.GET("/:submission_uuid/preview", cvHandler.HandleGetPreview)
	cv.GET("/:submission_uuid/suggestions", cvHandler.HandleGetSuggestions)
	cv.POST("/:submission_uuid/renormalize", cvHandler.HandleRenormalize)

	api.GET("/health", func(c context.Context, ctx *app.RequestContext) {
		ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
	})
}
