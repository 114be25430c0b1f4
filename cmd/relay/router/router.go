package router

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/clients/wechatclient"
	"wechat-relay/cmd/relay/dto"
	"wechat-relay/cmd/relay/handlers"
	"wechat-relay/cmd/relay/httpclient"
	"wechat-relay/cmd/relay/markdown"
	"wechat-relay/cmd/relay/middleware"
	"wechat-relay/cmd/relay/rehost"
	"wechat-relay/cmd/relay/services"
	"wechat-relay/cmd/relay/trace"
	"wechat-relay/config"
	_ "wechat-relay/docs"
)

func New(cfg config.AppConfig) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestTrace(), gin.CustomRecovery(recoverJSON))
	if len(cfg.Server.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	wechat := wechatclient.New(cfg.WeChat.BaseURL, cfg.WeChat.APITimeout)
	imageClient := httpclient.New(httpclient.Config{Timeout: cfg.WeChat.ImageFetchTimeout})
	syncSvc := services.NewSyncService(
		wechat,
		markdown.NewConverter(),
		rehost.New(imageClient, wechat),
		cfg.WeChat.Author,
	)
	r.POST("/sync", middleware.SecretAuthMiddleware(cfg.SecretToken), handlers.SyncHandler(syncSvc))

	return r
}

// recoverJSON 은 panic 도 다른 예기치 못한 오류와 같은 형태의 500 응답으로 돌려준다.
func recoverJSON(c *gin.Context, recovered any) {
	logger.ErrorWithFields("panic recovered", logger.Fields{
		"path":       c.Request.URL.Path,
		"panic":      fmt.Sprint(recovered),
		"request_id": trace.RequestIDFromContext(c.Request.Context()),
	})
	c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponseDTO{
		Error:   dto.ErrUnexpectedError,
		Details: fmt.Sprint(recovered),
	})
}
