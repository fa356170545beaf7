package domain

import "time"

// ProjectFormat enumerates supported content formats.
type ProjectFormat string

const (
	FormatBlog       ProjectFormat = "blog"
	FormatVideo      ProjectFormat = "video"
	FormatNewsletter ProjectFormat = "newsletter"
	FormatCarousel   ProjectFormat = "carousel"
)

// ValidFormat reports whether f is one of the supported formats.
func ValidFormat(f ProjectFormat) bool {
	switch f {
	case FormatBlog, FormatVideo, FormatNewsletter, FormatCarousel:
		return true
	}
	return false
}

// VoiceProfile enumerates supported writing voices.
type VoiceProfile string

const (
	VoiceProfessional VoiceProfile = "professional"
	VoiceFriendly     VoiceProfile = "friendly"
	VoiceWitty        VoiceProfile = "witty"
)

// ValidVoice reports whether v is one of the supported voice profiles.
func ValidVoice(v VoiceProfile) bool {
	switch v {
	case VoiceProfessional, VoiceFriendly, VoiceWitty:
		return true
	}
	return false
}

// ProjectStatus enumerates generation lifecycle states.
type ProjectStatus string

const (
	ProjectStatusPending ProjectStatus = "pending"
	ProjectStatusReady   ProjectStatus = "ready"
	ProjectStatusFailed  ProjectStatus = "failed"
)

// Outline is a single proposed content outline.
type Outline struct {
	Title     string   `json:"title"`
	WordCount int      `json:"wordCount"`
	Sections  []string `json:"sections"`
}

// Promo is a promotional post for one platform.
type Promo struct {
	Platform string `json:"platform"`
	Content  string `json:"content"`
}

// GeneratedContent is the full payload attached to a project after a
// successful generation. All three sections are written together.
type GeneratedContent struct {
	Outlines []Outline `json:"outlines"`
	Titles   []string  `json:"titles"`
	Promos   []Promo   `json:"promos"`
}

// Complete reports whether every required section is populated.
func (c *GeneratedContent) Complete() bool {
	return c != nil && len(c.Outlines) > 0 && len(c.Titles) > 0 && len(c.Promos) > 0
}

// Project is one generation request and its result.
type Project struct {
	ID           string
	UserID       string
	Title        string
	Topic        string
	Format       ProjectFormat
	VoiceProfile VoiceProfile
	Status       ProjectStatus
	Outlines     []Outline
	Titles       []string
	Promos       []Promo
	IsFavorite   bool
	CreatedAt    time.Time
}
