package entity

// Job is one queued request to fetch and deliver a single media item.
// It is immutable once queued and consumed exactly once; the json tags are
// the queue wire format.
type Job struct {
	ChatId           int64  `json:"chat_id"`
	StatusMessageRef int64  `json:"status_message_ref"`
	SourceURL        string `json:"source_url"`
	RequesterId      int64  `json:"requester_id"`
}
