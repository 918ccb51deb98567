package model

// Admin is a staff member allowed into the admin API.
type Admin struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"isActive"`
	CreatedAt int64  `json:"createdAt"`
	LastLogin int64  `json:"lastLogin,omitempty"`
}

// SyncUser is the per-document summary used by the sync report.
type SyncUser struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UserID    string `json:"userId,omitempty"`
	DataCount int    `json:"dataCount"`
}

// AuthUser is the identity derived for a user document.
type AuthUser struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   any    `json:"createdAt,omitempty"`
}

// DuplicateGroup lists user documents sharing one e-mail address.
type DuplicateGroup struct {
	Email string     `json:"email"`
	Users []SyncUser `json:"users"`
}

// SyncStatus reports how the user tree lines up with auth identities.
type SyncStatus struct {
	DBUsers     []SyncUser       `json:"dbUsers"`
	AuthUsers   []AuthUser       `json:"authUsers"`
	Orphans     []SyncUser       `json:"orphans"`
	Duplicates  []DuplicateGroup `json:"duplicates"`
	SyncNeeded  bool             `json:"syncNeeded"`
	TotalUsers  int              `json:"totalUsers"`
	OrphanCount int              `json:"orphanCount"`
}

// SyncResult summarizes an automatic repair run.
type SyncResult struct {
	Success      bool     `json:"success"`
	SyncedCount  int      `json:"syncedCount"`
	CleanedCount int      `json:"cleanedCount"`
	Errors       []string `json:"errors"`
}

// ActionResult is returned by the maintenance action dispatcher.
type ActionResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// Bot is a system user whose game metrics are generated.
type Bot struct {
	Key            string         `json:"key"`
	Username       string         `json:"username"`
	AvatarKey      string         `json:"avatarKey"`
	GameScores     map[string]int `json:"gameScores"`
	GamePlayCounts map[string]int `json:"gamePlayCounts"`
	UpdatedAt      int64          `json:"updatedAt,omitempty"`
}

// HighFive is the per-sender entry kept in the receiver's document.
type HighFive struct {
	Timestamp  int64  `json:"timestamp"`
	SenderName string `json:"senderName"`
	SenderID   string `json:"senderId"`
	Count      int    `json:"count"`
	Viewed     bool   `json:"viewed"`
}

// PushToken is the Expo token a device registered for a user.
type PushToken struct {
	Token string `json:"token"`
}

// Principal sources.
const (
	PrincipalAdmin = "admins"
	PrincipalUser  = "users"
)

// Principal is the staff member behind an authenticated request.
type Principal struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
	Source  string `json:"source"`
}
