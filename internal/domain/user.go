package domain

import "time"

// Language is a supported interface language code
type Language string

const (
	LanguageTR Language = "tr"
	LanguageEN Language = "en"

	DefaultLanguage = LanguageTR
)

// Languages lists every supported language
var Languages = []Language{LanguageTR, LanguageEN}

// Valid reports whether the language is supported
func (l Language) Valid() bool {
	for _, lang := range Languages {
		if l == lang {
			return true
		}
	}
	return false
}

// ParseLanguage returns the language for a code, falling back to the default
func ParseLanguage(code string) Language {
	lang := Language(code)
	if lang.Valid() {
		return lang
	}
	return DefaultLanguage
}

// User represents a bot user profile
type User struct {
	UserID    int64     `db:"user_id"`
	Language  Language  `db:"language"`
	Premium   bool      `db:"premium"`
	Downloads int       `db:"downloads"`
	CreatedAt time.Time `db:"created_at"`
}

// NewUser returns a profile with default settings
func NewUser(userID int64) *User {
	return &User{
		UserID:   userID,
		Language: DefaultLanguage,
	}
}
