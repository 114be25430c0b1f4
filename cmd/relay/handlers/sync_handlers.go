package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/dto"
	"wechat-relay/cmd/relay/services"
	"wechat-relay/cmd/relay/trace"
)

// SyncHandler godoc
// @Summary      Publish an issue as a WeChat draft
// @Description  Converts issue markdown to HTML, rehosts embedded images on WeChat and adds the article to the draft box
// @Tags         sync
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      dto.SyncRequestDTO  true  "Issue and WeChat app credentials"
// @Success      200   {object}  dto.SyncResponseDTO
// @Failure      400   {object}  dto.ErrorResponseDTO
// @Failure      401   {object}  dto.ErrorResponseDTO
// @Failure      500   {object}  dto.ErrorResponseDTO
// @Router       /sync [post]
func SyncHandler(svc *services.SyncService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in dto.SyncRequestDTO
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, dto.ErrorResponseDTO{Error: dto.ErrMissingData})
			return
		}

		ctx := c.Request.Context()
		mediaID, err := svc.Sync(ctx, services.SyncInput{
			AppID:        in.AppID,
			AppSecret:    in.AppSecret,
			ThumbMediaID: in.ThumbMediaID,
			Title:        in.IssueTitle,
			BodyMarkdown: in.IssueBody,
		})
		if err != nil {
			fields := logger.Fields{
				"error":      err.Error(),
				"request_id": trace.RequestIDFromContext(ctx),
			}
			var upErr *services.UpstreamError
			if errors.As(err, &upErr) {
				logger.ErrorWithFields("sync rejected by platform", fields)
				c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: upErr.Message, Details: upErr.Details})
				return
			}
			logger.ErrorWithFields("sync failed", fields)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponseDTO{Error: dto.ErrUnexpectedError, Details: err.Error()})
			return
		}

		c.JSON(http.StatusOK, dto.SyncResponseDTO{Status: "success", MediaID: mediaID})
	}
}
