// Package utils holds small helpers shared by internal/bot,
// internal/icsexport, and cmd/plannable that don't belong in any single
// package: Discord option parsing, environment lookups, and URL-parameter
// encoding.
package utils

import (
	"fmt"
	"net/url"
	"os"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	log "github.com/rs/zerolog/log"
)

// Options is a map of options from a Discord command.
type Options map[string]*discordgo.ApplicationCommandInteractionDataOption

// GetInt returns the integer value of an option, or 0 if it doesn't exist.
func (o Options) GetInt(key string) int64 {
	if opt, ok := o[key]; ok {
		return opt.IntValue()
	}
	return 0
}

// GetString returns the string value of an option, or "" if it doesn't exist.
func (o Options) GetString(key string) string {
	if opt, ok := o[key]; ok {
		return opt.StringValue()
	}
	return ""
}

// ParseOptions parses slash command options into a map for easier access.
func ParseOptions(options []*discordgo.ApplicationCommandInteractionDataOption) Options {
	optionMap := make(Options)
	for _, opt := range options {
		optionMap[opt.Name] = opt
	}
	return optionMap
}

// DiscordGoLogger implements discordgo's logging interface, directing all
// logs to zerolog.
func DiscordGoLogger(msgL, caller int, format string, a ...interface{}) {
	pc, file, line, _ := runtime.Caller(caller)

	files := strings.Split(file, "/")
	file = files[len(files)-1]

	name := runtime.FuncForPC(pc).Name()
	fns := strings.Split(name, ".")
	name = fns[len(fns)-1]

	msg := fmt.Sprintf(format, a...)

	var event *zerolog.Event
	switch msgL {
	case 0:
		event = log.Debug()
	case 1:
		event = log.Info()
	case 2:
		event = log.Warn()
	case 3:
		event = log.Error()
	default:
		event = log.Info()
	}

	event.Str("file", file).Int("line", line).Str("function", name).Msg(msg)
}

// Plural returns "s" if n is not 1.
func Plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// GetFirstEnv returns the value of the first environment variable that is set.
func GetFirstEnv(key ...string) string {
	for _, k := range key {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

// GetIntPointer returns a pointer to the given integer. Useful for
// discordgo, which requires pointers to integers for option min/max
// lengths.
func GetIntPointer(value int) *int {
	return &value
}

// RespondError responds to an interaction with a formatted error embed.
func RespondError(session *discordgo.Session, interaction *discordgo.Interaction, message string, err error) error {
	if err != nil {
		log.Err(err).Stack().Msg(message)
	}

	return session.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{
				{
					Footer: &discordgo.MessageEmbedFooter{
						Text: "Occurred at " + time.Now().Format("Monday, January 2, 2006 at 3:04:05PM"),
					},
					Description: message,
					Color:       0xff0000,
				},
			},
			AllowedMentions: &discordgo.MessageAllowedMentions{},
		},
	})
}

// GetUser returns the user from an interaction, regardless of whether it
// was sent in a guild or a DM.
func GetUser(interaction *discordgo.InteractionCreate) *discordgo.User {
	if interaction.Member != nil {
		return interaction.Member.User
	}
	return interaction.User
}

// EncodeParams encodes a map of parameters into a URL-encoded string,
// sorted by key for deterministic output.
func EncodeParams(params map[string][]string) string {
	if params == nil {
		return ""
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf strings.Builder
	for _, k := range keys {
		keyEscaped := url.QueryEscape(k)
		for _, v := range params[k] {
			if buf.Len() > 0 {
				buf.WriteByte('&')
			}
			buf.WriteString(keyEscaped)
			buf.WriteByte('=')
			buf.WriteString(url.QueryEscape(v))
		}
	}
	return buf.String()
}
