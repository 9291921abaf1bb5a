package dto

type NotificationResponse struct {
	ID        uint          `json:"id"`
	Type      string        `json:"type"`
	Title     string        `json:"title"`
	Message   string        `json:"message"`
	Related   *ReferenceDTO `json:"related,omitempty"`
	IsRead    bool          `json:"is_read"`
	CreatedAt string        `json:"created_at"`
}

type NotificationListResponse struct {
	Data   []NotificationResponse `json:"data"`
	Total  int64                  `json:"total"`
	Unread int64                  `json:"unread"`
	Page   int                    `json:"page"`
	Limit  int                    `json:"limit"`
}
