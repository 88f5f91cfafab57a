package main

import (
	"github.com/alphabatem/common/context"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/mjiang-series/petcafe_api/middleware"
	"github.com/mjiang-series/petcafe_api/services"
)

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Warn().Err(err).Msg("No .env file loaded")
	}

	ctx, err := context.NewCtx(
		&services.EventService{},
		&services.SqliteService{},
		&services.RedisService{},
		&services.ContentService{},
		&services.JWTService{},
		&middleware.AuthMiddleware{},
		&services.MediaService{},
		&services.MonitoringService{},
		&services.RateLimitService{},

		&services.PlayerService{},
		&services.RewardService{},
		&services.BondService{},
		&services.MemoryService{},
		&services.GachaService{},
		&services.ShiftService{},
		&services.OfflineService{},
		&services.SessionService{},

		&services.HttpService{},
	)
	if err != nil {
		log.Fatal().Err(err)
		return
	}

	err = ctx.Run()
	if err != nil {
		log.Fatal().Err(err)
		return
	}
}
