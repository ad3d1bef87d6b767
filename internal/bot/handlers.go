package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/awesome-schedule/plannable/internal/utils"
)

// RegisterHandlers wires Discord interaction dispatch to CommandHandlers,
// with structured logging and panic recovery per invocation.
func (b *Bot) RegisterHandlers() {
	b.Session.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if b.isClosing {
			if err := utils.RespondError(s, i.Interaction, "Bot is currently restarting, try again later.", nil); err != nil {
				log.Error().Err(err).Msg("failed to respond with restart error feedback")
			}
			return
		}

		name := i.ApplicationCommandData().Name
		handler, ok := CommandHandlers[name]
		if !ok {
			log.Error().Stack().Str("commandName", name).Msg("command interaction has no handler")
			utils.RespondError(s, i.Interaction, "Unexpected Error: interaction has no handler", nil)
			return
		}

		options := zerolog.Dict()
		for _, option := range i.ApplicationCommandData().Options {
			options.Str(option.Name, fmt.Sprintf("%v", option.Value))
		}
		event := log.Info().Str("name", name).Str("user", utils.GetUser(i).Username).Dict("options", options)
		if i.Member != nil {
			event.Str("guild", utils.GetGuildName(b.Config, s, i.GuildID)).Str("channel", utils.GetChannelName(b.Config, s, i.ChannelID))
		}
		event.Msg("command invoked")

		defer func() {
			if r := recover(); r != nil {
				log.Error().Stack().Str("commandName", name).Interface("detail", r).Msg("command handler panic")
				if err := utils.RespondError(s, i.Interaction, "Unexpected Error: command handler panic", nil); err != nil {
					log.Error().Stack().Str("commandName", name).Err(err).Msg("failed to respond with panic error feedback")
				}
			}
		}()

		if err := handler(b, s, i); err != nil {
			log.Error().Str("commandName", name).Err(err).Msg("command handler error")
			if respErr := utils.RespondError(s, i.Interaction, fmt.Sprintf("Unexpected Error: %s", err.Error()), nil); respErr != nil {
				log.Error().Stack().Str("commandName", name).Err(respErr).Msg("failed to respond with error feedback")
			}
		}
	})
}
