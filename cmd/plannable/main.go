// Command plannable wires configuration, logging, the catalog cache, and
// whichever façades are enabled by environment variables into a running
// process.
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/awesome-schedule/plannable/internal/bot"
	"github.com/awesome-schedule/plannable/internal/catalog"
	"github.com/awesome-schedule/plannable/internal/catalogcache"
	"github.com/awesome-schedule/plannable/internal/config"
	"github.com/awesome-schedule/plannable/internal/httpapi"
	"github.com/awesome-schedule/plannable/internal/ingest"
	"github.com/awesome-schedule/plannable/internal/utils"
)

func init() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("error loading .env file")
	}

	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	log.Logger = zerolog.New(config.NewConsoleWriter()).With().Timestamp().Logger()
	discordgo.Logger = utils.DiscordGoLogger
}

func initRedis(cfg *config.Config) {
	redisURL := utils.GetFirstEnv("REDIS_URL", "REDIS_PRIVATE_URL")
	if redisURL == "" {
		log.Info().Msg("REDIS_URL not set, running with an in-process catalog cache only")
		return
	}

	options, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("cannot parse redis url")
	}
	kv := redis.NewClient(options)
	cfg.SetRedis(kv)

	var lastErr error
	const totalPings = 5
	for attempt := 1; attempt <= totalPings; attempt++ {
		if _, err := kv.Ping(cfg.Ctx).Result(); err == nil {
			log.Debug().Msg("redis connection successful")
			return
		} else {
			lastErr = err
			log.Warn().Err(err).Int("attempt", attempt).Msg("cannot ping redis")
			time.Sleep(2 * time.Second)
		}
	}
	log.Fatal().Stack().Err(lastErr).Msg("reached ping limit while connecting to redis")
}

func main() {
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		log.Fatal().Stack().Err(err).Msg("cannot create config")
	}

	environment := utils.GetFirstEnv("ENVIRONMENT", "RAILWAY_ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}
	cfg.SetEnvironment(environment)
	cfg.SetClient(http.DefaultClient)

	initRedis(cfg)

	cfg.CatalogPath = utils.GetFirstEnv("CATALOG_PATH")
	if cfg.CatalogPath == "" {
		log.Fatal().Msg("CATALOG_PATH not set")
	}
	cfg.HTTPAddr = os.Getenv("HTTP_ADDR")
	cfg.DiscordToken = os.Getenv("DISCORD_TOKEN")

	cache := buildCache(cfg)
	if _, err := cache.Get(); err != nil {
		log.Fatal().Stack().Err(err).Msg("cannot build initial catalog")
	}

	var httpServer *http.Server
	if cfg.HTTPAddr != "" {
		httpServer = &http.Server{Addr: cfg.HTTPAddr, Handler: httpapi.NewMux(cache)}
		go func() {
			log.Info().Str("addr", cfg.HTTPAddr).Msg("starting http api")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatal().Stack().Err(err).Msg("http api failed")
			}
		}()
	}

	var botInstance *bot.Bot
	if cfg.DiscordToken != "" {
		session, err := discordgo.New("Bot " + cfg.DiscordToken)
		if err != nil {
			log.Fatal().Stack().Err(err).Msg("invalid discord bot parameters")
		}
		botInstance = bot.New(session, cache, cfg)
		botInstance.RegisterHandlers()

		if err := session.Open(); err != nil {
			log.Fatal().Stack().Err(err).Msg("cannot open discord session")
		}
		defer session.Close()

		guildTarget := ""
		if cfg.IsDevelopment {
			guildTarget = os.Getenv("BOT_TARGET_GUILD")
		}
		if _, err := session.ApplicationCommandBulkOverwrite(session.State.User.ID, guildTarget, bot.CommandDefinitions); err != nil {
			log.Fatal().Stack().Err(err).Msg("cannot register discord commands")
		}
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop

	if botInstance != nil {
		botInstance.SetClosing()
	}
	if httpServer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("error shutting down http api")
		}
	}
	log.Warn().Str("signal", sig.String()).Msg("gracefully shutting down")
}

// buildCache wraps an ingest.LoadCSV read of cfg.CatalogPath in a
// catalogcache.Cached TTL/stale/backoff policy, backed by Redis when cfg
// has a client configured and falling back to an in-process cache
// otherwise. The Redis blob expires per catalogcache.RefreshInterval, so a
// refresh past that interval re-ingests the roster instead of serving the
// stored copy; CATALOG_ARCHIVED marks a settled past semester whose blob
// is kept around much longer.
func buildCache(cfg *config.Config) catalogcache.Cache[catalog.Catalog] {
	semester := utils.GetFirstEnv("CATALOG_SEMESTER")
	if semester == "" {
		semester = "current"
	}
	archived := os.Getenv("CATALOG_ARCHIVED") != ""

	var store *catalogcache.RedisStore
	if cfg.KV != nil {
		store = &catalogcache.RedisStore{KV: cfg.KV}
	}

	fetch := func(ctx context.Context) (catalog.Catalog, error) {
		if store != nil {
			var sections []catalog.Section
			if err := store.Load(ctx, semester, &sections); err == nil {
				if cat, err := catalog.Build(sections); err == nil {
					return *cat, nil
				}
			}
		}

		f, err := os.Open(cfg.CatalogPath)
		if err != nil {
			return catalog.Catalog{}, err
		}
		defer f.Close()

		logger := log.Logger
		cat, err := ingest.LoadCSV(f, ingest.Options{Logger: &logger})
		if err != nil {
			return catalog.Catalog{}, err
		}

		if store != nil {
			sections := cat.All()
			ttl := catalogcache.RefreshInterval(len(sections), archived)
			if err := store.Store(ctx, semester, sections, ttl); err != nil {
				log.Warn().Err(err).Msg("failed to cache catalog in redis")
			}
		}
		return *cat, nil
	}

	return catalogcache.Cached(catalogcache.Config{Logger: &log.Logger}, fetch)
}
