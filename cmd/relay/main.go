package main

import (
	"errors"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/router"
	"wechat-relay/config"
)

// @title           WeChat Relay API
// @version         1.0
// @description     Publishes GitHub issue markdown to the WeChat Official Account draft box
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load("")
	if err != nil {
		log.Fatal(err)
	}
	logger.Init("LOG_LEVEL", cfg.Logging.Level)

	if os.Getenv(gin.EnvGinMode) == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SecretToken == "" {
		logger.Log.Warn("SECRET_TOKEN is not set; every /sync request will be rejected")
	}

	r := router.New(cfg)

	logger.InfoWithFields("wechat relay listening", logger.Fields{
		"port":     cfg.Server.Port,
		"base_url": cfg.WeChat.BaseURL,
	})
	if err := r.Run(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}
