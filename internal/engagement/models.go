package engagement

import "time"

// ArticleRef is the caller's view of a post. Either ID or Slug identifies
// it; CreatedAt is only used by the encounter weighting and may be zero.
type ArticleRef struct {
	ID        string
	Slug      string
	Title     string
	Category  string
	Tags      []string
	Excerpt   string
	CreatedAt time.Time
}

type HistoryEntry struct {
	PostID           string        `json:"postId"`
	Slug             string        `json:"slug"`
	Title            string        `json:"title"`
	Category         string        `json:"category"`
	Tags             []string      `json:"tags"`
	ReadAt           time.Time     `json:"readAt"`
	ReadingTime      time.Duration `json:"readingTime"`
	TotalReadingTime time.Duration `json:"totalReadingTime"`
	ReadCount        int           `json:"readCount"`
	Progress         int           `json:"progress"`
	IsMidnightRead   bool          `json:"isMidnightRead"`
}

type Favorite struct {
	PostID   string    `json:"postId"`
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Category string    `json:"category"`
	Tags     []string  `json:"tags"`
	Excerpt  string    `json:"excerpt"`
	AddedAt  time.Time `json:"addedAt"`
}

// MidnightProfile accumulates reads made inside the midnight window.
// MidnightReadDates holds one "2006-01-02" string per calendar day and
// Achievements only ever grows.
type MidnightProfile struct {
	TotalMidnightReads int        `json:"totalMidnightReads"`
	LastMidnightRead   *time.Time `json:"lastMidnightRead"`
	MidnightReadDates  []string   `json:"midnightReadDates"`
	Achievements       []string   `json:"achievements"`
}

type EncounterType string

const (
	EncounterNew     EncounterType = "new"
	EncounterClassic EncounterType = "classic"
	EncounterRare    EncounterType = "rare"
	EncounterNormal  EncounterType = "normal"
)

type EncounterRecord struct {
	ID            string        `json:"id"`
	PostID        string        `json:"postId"`
	Slug          string        `json:"slug"`
	Title         string        `json:"title"`
	Category      string        `json:"category"`
	EncounteredAt time.Time     `json:"encounteredAt"`
	EncounterType EncounterType `json:"encounterType"`
}

type EncounterProfile struct {
	EncounterHistory  []EncounterRecord `json:"encounterHistory"`
	LastEncounterDate *time.Time        `json:"lastEncounterDate"`
	TotalEncounters   int               `json:"totalEncounters"`
}

type Preferences struct {
	EnableReadingHistory   bool `json:"enableReadingHistory"`
	EnableMidnightAnalysis bool `json:"enableMidnightAnalysis"`
	MaxHistoryItems        int  `json:"maxHistoryItems"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		EnableReadingHistory:   true,
		EnableMidnightAnalysis: true,
		MaxHistoryItems:        DefaultMaxHistoryItems,
	}
}

// PreferencesPatch carries a partial update; nil fields are left alone.
type PreferencesPatch struct {
	EnableReadingHistory   *bool
	EnableMidnightAnalysis *bool
	MaxHistoryItems        *int
}

// Result reports a business outcome. Err is one of the common sentinel
// errors when Success is false and the failure has a reason callers may
// want to match.
type Result struct {
	Success bool
	Message string
	Err     error
}

func success(msg string) Result { return Result{Success: true, Message: msg} }

func fail(msg string, err error) Result { return Result{Message: msg, Err: err} }

type FavoriteResult struct {
	Result
	Item *Favorite
}

type PreferencesResult struct {
	Result
	Preferences Preferences
}

type CleanupResult struct {
	Result
	HistoryRemoved    int
	EncountersRemoved int
}

type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

type ReadingStats struct {
	TotalReads         int
	TotalReadingTime   time.Duration
	TodayReads         int
	WeekReads          int
	MonthReads         int
	FavoriteCategories []CategoryCount
	ReadingStreak      int
	AverageReadingTime time.Duration
}

type ReaderLevel struct {
	Level int
	Name  string
	// Next is the read count that unlocks the following level, 0 at the top.
	Next int
}

type Milestone struct {
	Target    int
	Remaining int
}

type MidnightAnalysis struct {
	MidnightProfile
	MidnightReadDays int
	LongestStreak    int
	ReaderLevel      ReaderLevel
	NextAchievement  *Milestone
}

type EncounterOptions struct {
	ExcludeRead    bool
	PreferCategory string
	PreferTags     []string
	RarityBonus    bool
}

func DefaultEncounterOptions() EncounterOptions {
	return EncounterOptions{ExcludeRead: true, RarityBonus: true}
}

type EncounterResult struct {
	Result
	Post          *ArticleRef
	EncounterType EncounterType
	Record        *EncounterRecord
}
