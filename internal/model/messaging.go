package model

// NotificationType names a notification template.
type NotificationType string

const (
	NotificationNewStory       NotificationType = "new_story"
	NotificationAchievement    NotificationType = "achievement"
	NotificationScoreUpdate    NotificationType = "score_update"
	NotificationSpecialEvent   NotificationType = "special_event"
	NotificationPremiumFeature NotificationType = "premium_feature"
	NotificationCongrats       NotificationType = "congrats"
)

// Notification is an in-app notification addressed to one user.
type Notification struct {
	ID        string           `json:"id,omitempty"`
	UserID    string           `json:"userId"`
	Type      NotificationType `json:"type"`
	Title     Localized        `json:"title"`
	Message   Localized        `json:"message"`
	Read      bool             `json:"read"`
	CreatedAt string           `json:"createdAt"`
	Data      map[string]any   `json:"data"`
}

// NotificationTemplate pre-fills a notification of one type.
type NotificationTemplate struct {
	Type    NotificationType `json:"type"`
	Title   Localized        `json:"title"`
	Message Localized        `json:"message"`
	Data    map[string]any   `json:"data"`
}

// Message senders.
const (
	SenderUser  = "user"
	SenderAdmin = "admin"
)

// Message is one entry of a user's support inbox.
type Message struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Text      string `json:"text"`
	Sender    string `json:"sender"`
	CreatedAt int64  `json:"createdAt"`
	Read      bool   `json:"read"`
	AdminID   string `json:"adminId,omitempty"`
}

// Conversation groups a user's messages, oldest first.
type Conversation struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Messages    []Message `json:"messages"`
	UnreadCount int       `json:"unreadCount"`
	LastMessage *Message  `json:"lastMessage"`
}

// NotificationDraft is what an admin submits to notify one user or all of
// them. Empty English texts fall back to the Turkish ones.
type NotificationDraft struct {
	UserID    string           `json:"userId"`
	SendToAll bool             `json:"sendToAll"`
	Type      NotificationType `json:"type"`
	TitleTR   string           `json:"titleTr"`
	TitleEN   string           `json:"titleEn"`
	MessageTR string           `json:"messageTr"`
	MessageEN string           `json:"messageEn"`
	Data      map[string]any   `json:"data"`
}

// SendResult reports how many users a notification reached.
type SendResult struct {
	Recipients int      `json:"recipients"`
	IDs        []string `json:"ids"`
	Message    string   `json:"message"`
}
