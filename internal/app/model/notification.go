package model

// NotificationItem is one entry of the notification dropdown
type NotificationItem struct {
	ID        int64  `json:"id"`
	Message   string `json:"message"`
	Link      string `json:"link,omitempty"`
	Unread    bool   `json:"unread"`
	CreatedAt string `json:"created_at"`
}

// NotificationPanel is the badge plus dropdown
type NotificationPanel struct {
	UnreadCount int                `json:"unread_count"`
	BadgeHidden bool               `json:"badge_hidden"`
	Open        bool               `json:"open"`
	Items       []NotificationItem `json:"items"`
	// Empty is shown as "No notifications"
	Empty bool `json:"empty"`
}
