// Package locale holds the bot's user-facing strings.
//
// Strings live in embedded YAML files, one per language. A catalog only loads
// when every language defines every key in Keys.
package locale

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"vidbot/internal/domain"

	"gopkg.in/yaml.v3"
)

// Text keys
const (
	KeyWelcome          = "welcome"
	KeyMainMenu         = "main_menu"
	KeyTwitterButton    = "twitter_button"
	KeyInstagramButton  = "instagram_button"
	KeyHelpButton       = "help_button"
	KeyPremiumButton    = "premium_button"
	KeyHistoryButton    = "history_button"
	KeyBackButton       = "back_button"
	KeyBuyButton        = "buy_button"
	KeyLangTRButton     = "lang_tr_button"
	KeyLangENButton     = "lang_en_button"
	KeyTwitterPrompt    = "twitter_prompt"
	KeyInstagramPrompt  = "insta_prompt"
	KeyProcessing       = "processing"
	KeyUploading        = "uploading"
	KeySuccessCaption   = "success_caption"
	KeyHelpMessage      = "help_message"
	KeyPremiumInfo      = "premium_info"
	KeyPremiumStub      = "premium_stub"
	KeyHistoryHeader    = "history_header"
	KeyHistoryEmpty     = "history_empty"
	KeyErrorNoVideo     = "error_no_video"
	KeyErrorTooLarge    = "error_too_large"
	KeyErrorGeneric     = "error_generic"
	KeyErrorUnavailable = "error_unavailable"
)

// Keys lists every key each language must define
var Keys = []string{
	KeyWelcome,
	KeyMainMenu,
	KeyTwitterButton,
	KeyInstagramButton,
	KeyHelpButton,
	KeyPremiumButton,
	KeyHistoryButton,
	KeyBackButton,
	KeyBuyButton,
	KeyLangTRButton,
	KeyLangENButton,
	KeyTwitterPrompt,
	KeyInstagramPrompt,
	KeyProcessing,
	KeyUploading,
	KeySuccessCaption,
	KeyHelpMessage,
	KeyPremiumInfo,
	KeyPremiumStub,
	KeyHistoryHeader,
	KeyHistoryEmpty,
	KeyErrorNoVideo,
	KeyErrorTooLarge,
	KeyErrorGeneric,
	KeyErrorUnavailable,
}

//go:embed *.yaml
var files embed.FS

// Catalog maps language -> key -> text
type Catalog struct {
	texts map[domain.Language]map[string]string
}

// Load reads the embedded catalog and checks it is exhaustive
func Load() (*Catalog, error) {
	texts := make(map[domain.Language]map[string]string, len(domain.Languages))

	for _, lang := range domain.Languages {
		data, err := files.ReadFile(string(lang) + ".yaml")
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		var table map[string]string
		if err := yaml.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		texts[lang] = table
	}

	return New(texts)
}

// New builds a catalog from in-memory tables
func New(texts map[domain.Language]map[string]string) (*Catalog, error) {
	var missing []string
	for _, lang := range domain.Languages {
		table := texts[lang]
		for _, key := range Keys {
			if _, ok := table[key]; !ok {
				missing = append(missing, string(lang)+"."+key)
			}
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("locale keys missing: %s", strings.Join(missing, ", "))
	}

	return &Catalog{texts: texts}, nil
}

// Text returns the string for key in lang. Unknown languages use the default.
func (c *Catalog) Text(lang domain.Language, key string) string {
	table, ok := c.texts[lang]
	if !ok {
		table = c.texts[domain.DefaultLanguage]
	}
	return table[key]
}

// Textf formats the string for key in lang
func (c *Catalog) Textf(lang domain.Language, key string, args ...interface{}) string {
	return fmt.Sprintf(c.Text(lang, key), args...)
}
