package model

// StoryPage is one illustrated page of a story. TextTR/TextEN are the
// flat fields older stories used before Text existed.
type StoryPage struct {
	PageNumber int       `json:"pageNumber"`
	Text       Localized `json:"text"`
	ImageURL   string    `json:"imageUrl"`
	TextTR     string    `json:"textTr,omitempty"`
	TextEN     string    `json:"textEn,omitempty"`
}

// Story is a bilingual illustrated story.
type Story struct {
	ID          string      `json:"id,omitempty"`
	Title       Localized   `json:"title"`
	Category    Localized   `json:"category"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon"`
	ImageURL    string      `json:"imageUrl"`
	ReadingTime string      `json:"readingTime"`
	MinAge      int         `json:"minAge,omitempty"`
	MaxAge      int         `json:"maxAge,omitempty"`
	AgeGroup    *Localized  `json:"ageGroup,omitempty"`
	AuthorID    string      `json:"authorId,omitempty"`
	AuthorName  string      `json:"authorName,omitempty"`
	Badge       *Localized  `json:"badge,omitempty"`
	IsPublished bool        `json:"isPublished"`
	IsPremium   bool        `json:"isPremium"`
	Pages       []StoryPage `json:"pages"`
	TotalPages  int         `json:"totalPages"`
	CreatedAt   int64       `json:"createdAt"`
	UpdatedAt   int64       `json:"updatedAt"`
	Content     *Localized  `json:"content,omitempty"`
	CoverImage  string      `json:"coverImage,omitempty"`
}

// StoryForm is the editable shape of a story as the admin submits it.
// Unset ages fall back to 3 and 6.
type StoryForm struct {
	TitleTR     string      `json:"titleTr"`
	TitleEN     string      `json:"titleEn"`
	CategoryTR  string      `json:"categoryTr"`
	CategoryEN  string      `json:"categoryEn"`
	Color       string      `json:"color"`
	Icon        string      `json:"icon"`
	ImageURL    string      `json:"imageUrl"`
	ReadingTime string      `json:"readingTime"`
	MinAge      *int        `json:"minAge,omitempty"`
	MaxAge      *int        `json:"maxAge,omitempty"`
	AuthorID    string      `json:"authorId,omitempty"`
	AuthorName  string      `json:"authorName,omitempty"`
	BadgeTR     string      `json:"badgeTr,omitempty"`
	BadgeEN     string      `json:"badgeEn,omitempty"`
	IsPublished bool        `json:"isPublished"`
	IsPremium   bool        `json:"isPremium"`
	Pages       []StoryPage `json:"pages"`
}

// StoryStats aggregates the story collection.
type StoryStats struct {
	Total      int            `json:"total"`
	Published  int            `json:"published"`
	Draft      int            `json:"draft"`
	ByCategory map[string]int `json:"byCategory"`
	ByAgeGroup map[string]int `json:"byAgeGroup"`
}

// StoryCatalog lists the predefined choices offered by the story form.
type StoryCatalog struct {
	Categories   map[Language][]string `json:"categories"`
	Badges       map[Language][]string `json:"badges"`
	Colors       []string              `json:"colors"`
	Icons        []string              `json:"icons"`
	AgeOptions   []int                 `json:"ageOptions"`
	DefaultColor string                `json:"defaultColor"`
	DefaultIcon  string                `json:"defaultIcon"`
}

// Video is a youtube or locally hosted video, normalized for display.
type Video struct {
	ID                string `json:"id"`
	Title             Text   `json:"title"`
	Subtitle          Text   `json:"subtitle"`
	Category          Text   `json:"category"`
	Badge             *Text  `json:"badge,omitempty"`
	Duration          string `json:"duration"`
	Views             string `json:"views"`
	BackgroundColor   string `json:"backgroundColor"`
	Color             string `json:"color"`
	Icon              string `json:"icon"`
	VideoType         string `json:"videoType"`
	VideoURL          Text   `json:"videoUrl"`
	ThumbnailURL      Text   `json:"thumbnailUrl"`
	VideoFileName     any    `json:"videoFileName,omitempty"`
	ThumbnailFileName any    `json:"thumbnailFileName,omitempty"`
	IsActive          bool   `json:"isActive"`
	IsPremium         bool   `json:"isPremium"`
	CreatedAt         int64  `json:"createdAt"`
	LastUpdated       int64  `json:"lastUpdated,omitempty"`
}

// Video types.
const (
	VideoTypeYouTube = "youtube"
	VideoTypeLocal   = "local"
)

// SimilarityQuestion is an "odd one out" quiz question.
type SimilarityQuestion struct {
	ID          string   `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Difficulty  int      `json:"difficulty"`
	Language    Language `json:"language"`
	CreatedAt   int64    `json:"createdAt,omitempty"`
	UpdatedAt   int64    `json:"updatedAt,omitempty"`
}

// WordHuntQuestion is a riddle whose answer is spelled from letters.
// Keys are sequential integers per language.
type WordHuntQuestion struct {
	ID         string   `json:"id"`
	Soru       string   `json:"soru"`
	Cevap      string   `json:"cevap"`
	Hint1      string   `json:"hint1"`
	Hint2      string   `json:"hint2"`
	HarfSayisi int      `json:"harfSayisi"`
	Zorluk     int      `json:"zorluk"`
	Language   Language `json:"language,omitempty"`
	CreatedAt  int64    `json:"createdAt,omitempty"`
	UpdatedAt  int64    `json:"updatedAt,omitempty"`
}
