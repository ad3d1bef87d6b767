// Package bot provides the Discord slash-command façade over the
// schedule-search core: /groups, /schedule, /meeting, /ics, and /gcal.
package bot

import (
	"github.com/bwmarrin/discordgo"

	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/catalogcache"
	"github.com/awesome-schedule/plannable/internal/config"
)

// Bot represents the state of the Discord bot.
type Bot struct {
	Session   *discordgo.Session
	Catalog   catalogcache.Cache[catalog.Catalog]
	Config    *config.Config
	isClosing bool
}

// New creates a new Bot instance serving catalog from cache.
func New(s *discordgo.Session, cache catalogcache.Cache[catalog.Catalog], c *config.Config) *Bot {
	return &Bot{Session: s, Catalog: cache, Config: c}
}

// SetClosing marks the bot as closing, preventing new commands from being processed.
func (b *Bot) SetClosing() {
	b.isClosing = true
}
