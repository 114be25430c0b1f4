package dto

// SyncRequestDTO 는 POST /sync 요청 바디다. 다섯 필드 모두 비어 있지 않은 문자열이어야 한다.
type SyncRequestDTO struct {
	AppID        string `json:"app_id" binding:"required" example:"wx1234567890abcdef"`
	AppSecret    string `json:"app_secret" binding:"required" example:"0123456789abcdef0123456789abcdef"`
	ThumbMediaID string `json:"thumb_media_id" binding:"required" example:"thumb-media-id"`
	IssueTitle   string `json:"issue_title" binding:"required" example:"Weekly notes"`
	IssueBody    string `json:"issue_body" binding:"required" example:"# Title\n\n![alt](https://example.com/img.png)"`
}

// SyncResponseDTO 는 초안 등록 성공 응답이다.
type SyncResponseDTO struct {
	Status  string `json:"status" example:"success"`
	MediaID string `json:"media_id" example:"abc123"`
}
