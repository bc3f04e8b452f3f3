package dto

type SubmitJobRequest struct {
	ChatId           int64  `json:"chat_id" validate:"required"`
	StatusMessageRef int64  `json:"status_message_ref"`
	SourceURL        string `json:"source_url" validate:"required,url"`
	RequesterId      int64  `json:"requester_id"`
}
