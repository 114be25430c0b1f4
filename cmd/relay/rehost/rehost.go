package rehost

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"wechat-relay/cmd/internal/logger"
	"wechat-relay/cmd/relay/clients/wechatclient"
	"wechat-relay/cmd/relay/trace"
)

const (
	// UploadFilename 은 uploadimg 에 올릴 때 쓰는 고정 파일명이다.
	UploadFilename = "image.jpg"

	DefaultMaxImageBytes int64 = 10 << 20
)

// Uploader 는 본문 이미지를 플랫폼에 올리는 쪽이다. wechatclient.Client 가 구현한다.
type Uploader interface {
	UploadImage(ctx context.Context, accessToken, filename, contentType string, data []byte) (*wechatclient.UploadImageResponse, error)
}

// Result 는 한 번의 Rewrite 에서 처리한 이미지 수를 센다.
type Result struct {
	Total     int
	Rewritten int
	Skipped   int
	Failed    int
}

// Rehoster 는 HTML 안의 <img> 를 문서 순서대로 하나씩 내려받아 플랫폼에 올리고,
// 성공한 것만 src 를 플랫폼 URL 로 바꾼다. 이미지 하나의 실패는 로그만 남긴다.
type Rehoster struct {
	client        *http.Client
	uploader      Uploader
	maxImageBytes int64
}

func New(client *http.Client, uploader Uploader) *Rehoster {
	return &Rehoster{
		client:        client,
		uploader:      uploader,
		maxImageBytes: DefaultMaxImageBytes,
	}
}

// Rewrite 는 fragment 를 <body> 문맥으로 파싱해 바깥 <html>/<body> 없이 다시 직렬화한다.
// error 는 HTML 직렬화 자체가 실패한 경우에만 반환된다.
func (r *Rehoster) Rewrite(ctx context.Context, accessToken, fragment string) (string, Result, error) {
	var res Result

	body := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), body)
	if err != nil {
		return "", res, fmt.Errorf("rehost: parse html: %w", err)
	}
	for _, n := range nodes {
		body.AppendChild(n)
	}

	doc := goquery.NewDocumentFromNode(body)
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		if ctx.Err() != nil {
			return false
		}
		res.Total++

		src, ok := img.Attr("src")
		if !ok || src == "" {
			res.Skipped++
			return true
		}

		hosted, err := r.rehostOne(ctx, accessToken, src)
		if err != nil {
			res.Failed++
			logger.WarnWithFields("image rehost failed", logger.Fields{
				"src":        src,
				"error":      err.Error(),
				"request_id": trace.RequestIDFromContext(ctx),
			})
			return true
		}
		img.SetAttr("src", hosted)
		res.Rewritten++
		return true
	})

	var buf bytes.Buffer
	for n := body.FirstChild; n != nil; n = n.NextSibling {
		if err := html.Render(&buf, n); err != nil {
			return "", res, fmt.Errorf("rehost: render html: %w", err)
		}
	}
	return buf.String(), res, nil
}

func (r *Rehoster) rehostOne(ctx context.Context, accessToken, src string) (string, error) {
	data, contentType, err := r.fetch(ctx, src)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}

	up, err := r.uploader.UploadImage(ctx, accessToken, UploadFilename, contentType, data)
	if err != nil {
		return "", fmt.Errorf("upload: %w", err)
	}
	if up.URL == "" {
		return "", fmt.Errorf("upload: no url in response: %s", string(up.Raw))
	}
	return up.URL, nil
}

func (r *Rehoster) fetch(ctx context.Context, src string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(trace.WithSpanLabel(ctx, trace.SpanImageFetch), http.MethodGet, src, nil)
	if err != nil {
		return nil, "", err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, r.maxImageBytes+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > r.maxImageBytes {
		return nil, "", fmt.Errorf("image larger than %d bytes", r.maxImageBytes)
	}
	return data, imageContentType(resp.Header.Get("Content-Type")), nil
}

// imageContentType 은 image/* 인 경우에만 media type 을 돌려준다.
// 나머지는 빈 문자열로 두어 업로드 시 바이트로 추정하게 한다.
func imageContentType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		return ""
	}
	return mediaType
}
