package model

import "time"

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
	NoticeInfo    NoticeKind = "info"
)

// Display durations before a notice dismisses itself
const (
	SuccessNoticeTTL = 3 * time.Second
	ErrorNoticeTTL   = 5 * time.Second
	InfoNoticeTTL    = 3 * time.Second
)

// TTL returns how long a notice of this kind stays up
func (k NoticeKind) TTL() time.Duration {
	switch k {
	case NoticeError:
		return ErrorNoticeTTL
	case NoticeSuccess:
		return SuccessNoticeTTL
	default:
		return InfoNoticeTTL
	}
}

// Notice is a transient toast message
type Notice struct {
	ID        string     `json:"id"`
	Kind      NoticeKind `json:"kind"`
	Code      string     `json:"code,omitempty"`
	Message   string     `json:"message"`
	CreatedAt time.Time  `json:"created_at"`
	ExpiresAt time.Time  `json:"expires_at"`
}
