// Package menu renders the bot's screens.
//
// Rendering is a pure function of the user's language (and premium flag where
// relevant). Nothing here touches the store or the session state.
package menu

import (
	"strings"

	"vidbot/internal/domain"
	"vidbot/internal/locale"

	tele "gopkg.in/telebot.v3"
)

// Callback actions carried by inline buttons
const (
	ActionTwitter    = "twitter"
	ActionInstagram  = "instagram"
	ActionPremium    = "premium"
	ActionHistory    = "history"
	ActionHelp       = "help"
	ActionMainMenu   = "main_menu"
	ActionLangTR     = "lang_tr"
	ActionLangEN     = "lang_en"
	ActionBuyPremium = "buy_premium"
)

// Actions lists every callback action
var Actions = []string{
	ActionTwitter,
	ActionInstagram,
	ActionPremium,
	ActionHistory,
	ActionHelp,
	ActionMainMenu,
	ActionLangTR,
	ActionLangEN,
	ActionBuyPremium,
}

// Screen is a rendered message
type Screen struct {
	Text      string
	Markup    *tele.ReplyMarkup
	ParseMode tele.ParseMode
}

// Options returns the send/edit options for the screen
func (s *Screen) Options() []interface{} {
	opts := []interface{}{}
	if s.Markup != nil {
		opts = append(opts, s.Markup)
	}
	if s.ParseMode != tele.ModeDefault {
		opts = append(opts, s.ParseMode)
	}
	return opts
}

// Renderer builds screens from the locale catalog
type Renderer struct {
	catalog *locale.Catalog
}

// NewRenderer creates a new renderer
func NewRenderer(catalog *locale.Catalog) *Renderer {
	return &Renderer{catalog: catalog}
}

// Catalog returns the underlying locale catalog
func (r *Renderer) Catalog() *locale.Catalog {
	return r.catalog
}

func (r *Renderer) t(lang domain.Language, key string) string {
	return r.catalog.Text(lang, key)
}

// Language renders the language picker shown on /start
func (r *Renderer) Language() *Screen {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(
			markup.Data(r.t(domain.LanguageTR, locale.KeyLangTRButton), ActionLangTR),
			markup.Data(r.t(domain.LanguageTR, locale.KeyLangENButton), ActionLangEN),
		),
	)
	return &Screen{
		Text:   r.t(domain.DefaultLanguage, locale.KeyWelcome),
		Markup: markup,
	}
}

// Main renders the main menu
func (r *Renderer) Main(lang domain.Language) *Screen {
	markup := &tele.ReplyMarkup{}
	markup.Inline(
		markup.Row(markup.Data(r.t(lang, locale.KeyTwitterButton), ActionTwitter)),
		markup.Row(markup.Data(r.t(lang, locale.KeyInstagramButton), ActionInstagram)),
		markup.Row(
			markup.Data(r.t(lang, locale.KeyPremiumButton), ActionPremium),
			markup.Data(r.t(lang, locale.KeyHistoryButton), ActionHistory),
		),
		markup.Row(markup.Data(r.t(lang, locale.KeyHelpButton), ActionHelp)),
	)
	return &Screen{
		Text:   r.t(lang, locale.KeyMainMenu),
		Markup: markup,
	}
}

// Back returns a markup with a single "back to menu" button
func (r *Renderer) Back(lang domain.Language) *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	markup.Inline(markup.Row(markup.Data(r.t(lang, locale.KeyBackButton), ActionMainMenu)))
	return markup
}

// Prompt renders the "send me a link" screen for a platform
func (r *Renderer) Prompt(lang domain.Language, platform domain.Platform) *Screen {
	key := locale.KeyInstagramPrompt
	if platform == domain.PlatformTwitter {
		key = locale.KeyTwitterPrompt
	}
	return &Screen{
		Text:   r.t(lang, key),
		Markup: r.Back(lang),
	}
}

// Premium renders the premium info screen. Premium users get no buy button.
func (r *Renderer) Premium(lang domain.Language, premium bool) *Screen {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}
	if !premium {
		rows = append(rows, markup.Row(markup.Data(r.t(lang, locale.KeyBuyButton), ActionBuyPremium)))
	}
	rows = append(rows, markup.Row(markup.Data(r.t(lang, locale.KeyBackButton), ActionMainMenu)))
	markup.Inline(rows...)

	return &Screen{
		Text:   r.t(lang, locale.KeyPremiumInfo),
		Markup: markup,
	}
}

// History renders the download history. Entries must already be newest first.
func (r *Renderer) History(lang domain.Language, entries []domain.HistoryEntry) *Screen {
	var b strings.Builder
	b.WriteString(r.t(lang, locale.KeyHistoryHeader))
	b.WriteString("\n\n")

	if len(entries) == 0 {
		b.WriteString(r.t(lang, locale.KeyHistoryEmpty))
	}
	if len(entries) > domain.HistoryLimit {
		entries = entries[:domain.HistoryLimit]
	}
	for _, e := range entries {
		b.WriteString("📅 ")
		b.WriteString(e.DisplayString())
		b.WriteString("\n")
	}

	return &Screen{
		Text:   strings.TrimRight(b.String(), "\n"),
		Markup: r.Back(lang),
	}
}

// Help renders the contact screen
func (r *Renderer) Help(lang domain.Language) *Screen {
	return &Screen{
		Text:      r.t(lang, locale.KeyHelpMessage),
		Markup:    r.Back(lang),
		ParseMode: tele.ModeMarkdown,
	}
}
