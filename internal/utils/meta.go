package utils

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	log "github.com/rs/zerolog/log"

	"github.com/awesome-schedule/plannable/internal/config"
)

// GetGuildName returns the name of the guild with the given ID, caching the
// result in Redis when cfg has a client configured.
func GetGuildName(cfg *config.Config, session *discordgo.Session, guildID string) string {
	if cfg.KV == nil {
		guild, err := session.Guild(guildID)
		if err != nil {
			return "unknown"
		}
		return guild.Name
	}

	guildName, err := cfg.KV.Get(cfg.Ctx, "guild:"+guildID+":name").Result()
	if err != nil && err != redis.Nil {
		log.Error().Stack().Err(err).Msg("error getting guild name from redis")
		return "err"
	}
	if len(guildName) == 1 {
		return "unknown"
	}
	if guildName != "" {
		return guildName
	}

	guild, err := session.Guild(guildID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("error getting guild name")
		cfg.KV.Set(cfg.Ctx, "guild:"+guildID+":name", "x", 5*time.Minute)
		return "unknown"
	}

	cfg.KV.Set(cfg.Ctx, "guild:"+guildID+":name", guild.Name, 3*time.Hour)
	return guild.Name
}

// GetChannelName returns the name of the channel with the given ID, caching
// the result in Redis when cfg has a client configured.
func GetChannelName(cfg *config.Config, session *discordgo.Session, channelID string) string {
	if cfg.KV == nil {
		channel, err := session.Channel(channelID)
		if err != nil {
			return "unknown"
		}
		return channel.Name
	}

	channelName, err := cfg.KV.Get(cfg.Ctx, "channel:"+channelID+":name").Result()
	if err != nil && err != redis.Nil {
		log.Error().Stack().Err(err).Msg("error getting channel name from redis")
		return "err"
	}
	if len(channelName) == 1 {
		return "unknown"
	}
	if channelName != "" {
		return channelName
	}

	channel, err := session.Channel(channelID)
	if err != nil {
		log.Error().Stack().Err(err).Msg("error getting channel name")
		cfg.KV.Set(cfg.Ctx, "channel:"+channelID+":name", "x", 5*time.Minute)
		return "unknown"
	}

	cfg.KV.Set(cfg.Ctx, "channel:"+channelID+":name", channel.Name, 3*time.Hour)
	return channel.Name
}
