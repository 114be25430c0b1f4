package services

import (
	"context"
	"encoding/json"
	"fmt"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/clients/wechatclient"
	"wechat-relay/cmd/relay/rehost"
	"wechat-relay/cmd/relay/trace"
)

const (
	MsgTokenFailed = "Failed to get access_token"
	MsgDraftFailed = "Failed to upload article to drafts"
)

// UpstreamError 는 플랫폼이 정상적으로 응답했지만 쓸 수 있는 결과(access_token, media_id)가
// 없을 때 반환된다. Details 는 플랫폼 응답 JSON 원문이다.
type UpstreamError struct {
	Message string
	Details json.RawMessage
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, string(e.Details))
}

// Platform 은 SyncService 가 쓰는 플랫폼 호출이다. wechatclient.Client 가 구현한다.
type Platform interface {
	FetchAccessToken(ctx context.Context, appID, appSecret string) (*wechatclient.TokenResponse, error)
	AddDraft(ctx context.Context, accessToken string, articles []wechatclient.Article) (*wechatclient.AddDraftResponse, error)
}

// HTMLConverter 는 markdown.Converter 가 구현한다.
type HTMLConverter interface {
	ToHTML(md string) string
}

// ImageRehoster 는 rehost.Rehoster 가 구현한다.
type ImageRehoster interface {
	Rewrite(ctx context.Context, accessToken, fragment string) (string, rehost.Result, error)
}

type SyncInput struct {
	AppID        string
	AppSecret    string
	ThumbMediaID string
	Title        string
	BodyMarkdown string
}

// SyncService 는 토큰 교환 → markdown 변환 → 이미지 재호스팅 → 초안 등록을 순서대로 수행한다.
// 요청 사이에 공유하는 상태는 없다.
type SyncService struct {
	platform  Platform
	converter HTMLConverter
	rehoster  ImageRehoster
	author    string
}

func NewSyncService(platform Platform, converter HTMLConverter, rehoster ImageRehoster, author string) *SyncService {
	return &SyncService{
		platform:  platform,
		converter: converter,
		rehoster:  rehoster,
		author:    author,
	}
}

// Sync 는 초안의 media_id 를 반환한다.
// 플랫폼이 결과 필드 없이 응답하면 *UpstreamError, 그 밖의 실패는 감싼 error 를 반환한다.
func (s *SyncService) Sync(ctx context.Context, in SyncInput) (string, error) {
	token, err := s.platform.FetchAccessToken(ctx, in.AppID, in.AppSecret)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	if token.AccessToken == "" {
		return "", &UpstreamError{Message: MsgTokenFailed, Details: token.Raw}
	}

	htmlBody := s.converter.ToHTML(in.BodyMarkdown)

	content, res, err := s.rehoster.Rewrite(ctx, token.AccessToken, htmlBody)
	if err != nil {
		return "", fmt.Errorf("rehost images: %w", err)
	}
	if res.Total > 0 {
		logger.InfoWithFields("images rehosted", logger.Fields{
			"total":      res.Total,
			"rewritten":  res.Rewritten,
			"skipped":    res.Skipped,
			"failed":     res.Failed,
			"request_id": trace.RequestIDFromContext(ctx),
		})
	}

	article := wechatclient.Article{
		Title:        in.Title,
		Author:       s.author,
		Content:      content,
		ThumbMediaID: in.ThumbMediaID,
		ShowCoverPic: 1,
	}
	draft, err := s.platform.AddDraft(ctx, token.AccessToken, []wechatclient.Article{article})
	if err != nil {
		return "", fmt.Errorf("add draft: %w", err)
	}
	if draft.MediaID == "" {
		return "", &UpstreamError{Message: MsgDraftFailed, Details: draft.Raw}
	}
	return draft.MediaID, nil
}
