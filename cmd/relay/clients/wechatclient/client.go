package wechatclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"wechat-relay/cmd/relay/httpclient"
	"wechat-relay/cmd/relay/trace"
)

// Client 는 WeChat 공식계정 플랫폼 HTTP API 를 호출하는 얇은 클라이언트다.
//
// - 응답의 HTTP status 는 판단에 쓰지 않는다. 플랫폼은 실패도 200 + errcode 로 돌려준다.
// - 응답 바디가 JSON 이 아니거나 전송이 실패한 경우에만 error 를 반환한다.
// - 필드 유무 판단(access_token, url, media_id)은 호출자 몫이다.
//
// baseURL 예: https://api.weixin.qq.com
type Client struct {
	base *httpclient.BaseClient
}

const maxResponseBytes = 1 << 20

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{base: httpclient.NewBaseClient(baseURL, httpclient.Config{Timeout: timeout})}
}

// ErrorFields 는 플랫폼 공통 에러 필드다. 성공 응답에서는 보통 비어 있다.
type ErrorFields struct {
	ErrCode int    `json:"errcode,omitempty"`
	ErrMsg  string `json:"errmsg,omitempty"`
}

type TokenResponse struct {
	ErrorFields
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`

	// Raw 는 진단용으로 그대로 전달할 원본 JSON 이다.
	Raw json.RawMessage `json:"-"`
}

type UploadImageResponse struct {
	ErrorFields
	URL string `json:"url"`

	Raw json.RawMessage `json:"-"`
}

// Article 은 draft/add 에 들어가는 단일 기사다.
type Article struct {
	Title        string `json:"title"`
	Author       string `json:"author"`
	Content      string `json:"content"`
	ThumbMediaID string `json:"thumb_media_id"`
	ShowCoverPic int    `json:"show_cover_pic"`
}

type AddDraftRequest struct {
	Articles []Article `json:"articles"`
}

type AddDraftResponse struct {
	ErrorFields
	MediaID string `json:"media_id"`

	Raw json.RawMessage `json:"-"`
}

// FetchAccessToken 은 GET /cgi-bin/token 을 호출한다.
func (c *Client) FetchAccessToken(ctx context.Context, appID, appSecret string) (*TokenResponse, error) {
	q := url.Values{}
	q.Set("grant_type", "client_credential")
	q.Set("appid", appID)
	q.Set("secret", appSecret)

	req, err := c.base.NewRequest(ctx, http.MethodGet, "/cgi-bin/token", q, nil)
	if err != nil {
		return nil, err
	}

	var out TokenResponse
	raw, err := c.doJSON(req, trace.SpanToken, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

// UploadImage 는 POST /cgi-bin/media/uploadimg 로 본문 이미지를 multipart(media 필드)로 올린다.
// contentType 이 비어 있으면 바이트로 추정한다.
func (c *Client) UploadImage(ctx context.Context, accessToken, filename, contentType string, data []byte) (*UploadImageResponse, error) {
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="media"; filename=%q`, filename))
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/cgi-bin/media/uploadimg", url.Values{"access_token": {accessToken}}, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var out UploadImageResponse
	raw, err := c.doJSON(req, trace.SpanUploadImage, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

// AddDraft 는 POST /cgi-bin/draft/add 를 호출한다.
// 본문은 UTF-8 JSON 이며 한자/HTML 문자를 \uXXXX 로 이스케이프하지 않는다.
func (c *Client) AddDraft(ctx context.Context, accessToken string, articles []Article) (*AddDraftResponse, error) {
	body, err := EncodeDraft(AddDraftRequest{Articles: articles})
	if err != nil {
		return nil, err
	}

	req, err := c.base.NewRequest(ctx, http.MethodPost, "/cgi-bin/draft/add", url.Values{"access_token": {accessToken}}, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var out AddDraftResponse
	raw, err := c.doJSON(req, trace.SpanAddDraft, &out)
	if err != nil {
		return nil, err
	}
	out.Raw = raw
	return &out, nil
}

// EncodeDraft 는 HTML 이스케이프 없이 payload 를 직렬화한다.
func EncodeDraft(payload AddDraftRequest) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// doJSON 은 응답을 out 에 디코드하고 원본 바디를 돌려준다.
// 바디가 JSON 이지만 객체가 아니면([] 등) out 은 비워 둔 채 성공으로 본다.
// 결과 필드가 없는 응답과 같게 취급되어 호출자가 원문을 details 로 넘긴다.
func (c *Client) doJSON(req *http.Request, op string, out any) (json.RawMessage, error) {
	req = req.WithContext(trace.WithSpanLabel(req.Context(), op))
	resp, err := c.base.Do(req)
	if err != nil {
		// url.Error 는 자격증명이 들어 있는 전체 URL 을 메시지에 포함한다.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			uerr.URL = httpclient.RedactURL(req.URL)
		}
		return nil, fmt.Errorf("wechat %s: %w", op, err)
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("wechat %s: read body: %w", op, err)
	}
	if !isJSONObject(b) && json.Valid(b) {
		return json.RawMessage(b), nil
	}
	if err := json.Unmarshal(b, out); err != nil {
		snippet := b
		if len(snippet) > 512 {
			snippet = snippet[:512]
		}
		return nil, fmt.Errorf("wechat %s: status=%d invalid json body=%s: %w", op, resp.StatusCode, string(snippet), err)
	}
	return json.RawMessage(b), nil
}

func isJSONObject(b []byte) bool {
	trimmed := bytes.TrimSpace(b)
	return len(trimmed) > 0 && trimmed[0] == '{'
}
