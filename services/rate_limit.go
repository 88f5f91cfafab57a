// services/rate_limit.go
package services

import (
	gocontext "context"
	"fmt"
	"sync"
	"time"

	"github.com/alphabatem/common/context"
	"github.com/gofiber/fiber/v2"
	log "github.com/sirupsen/logrus"

	"github.com/mjiang-series/petcafe_api/shared"
)

// RateLimitConfig is a fixed-window limit for one endpoint class.
type RateLimitConfig struct {
	EndpointType string
	MaxRequests  int
	WindowSize   time.Duration
	Description  string
	IsActive     bool
}

// RateLimitService counts requests per player in redis fixed windows. Redis
// being unreachable fails open; limiting is protection, not a dependency.
type RateLimitService struct {
	context.DefaultService

	configs map[string]*RateLimitConfig
	mutex   sync.RWMutex

	redisSvc *RedisService
}

const RATE_LIMIT_SVC = "rate_limit_svc"

func (svc RateLimitService) Id() string {
	return RATE_LIMIT_SVC
}

func (svc *RateLimitService) Configure(ctx *context.Context) error {
	svc.configs = make(map[string]*RateLimitConfig)
	return svc.DefaultService.Configure(ctx)
}

func (svc *RateLimitService) Start() error {
	svc.redisSvc = svc.Service(REDIS_SVC).(*RedisService)
	svc.initDefaultConfigs()
	return nil
}

func (svc *RateLimitService) initDefaultConfigs() {
	svc.mutex.Lock()
	defer svc.mutex.Unlock()

	svc.configs = map[string]*RateLimitConfig{
		"session": {
			EndpointType: "session",
			MaxRequests:  10,
			WindowSize:   time.Minute,
			Description:  "Session create/resume per device",
			IsActive:     true,
		},
		"pull": {
			EndpointType: "pull",
			MaxRequests:  30,
			WindowSize:   time.Minute,
			Description:  "Gacha pulls",
			IsActive:     true,
		},
		"shift_complete": {
			EndpointType: "shift_complete",
			MaxRequests:  60,
			WindowSize:   time.Minute,
			Description:  "Shift completion attempts",
			IsActive:     true,
		},
		"login": {
			EndpointType: "login",
			MaxRequests:  10,
			WindowSize:   15 * time.Minute,
			Description:  "Login attempts",
			IsActive:     true,
		},
	}
}

// Allow counts one request against the window for the given key.
func (svc *RateLimitService) Allow(endpointType, key string) (bool, error) {
	svc.mutex.RLock()
	config, ok := svc.configs[endpointType]
	svc.mutex.RUnlock()
	if !ok || !config.IsActive {
		return true, nil
	}

	client := svc.redisSvc.GetClient()
	if client == nil {
		return true, nil
	}

	ctx := gocontext.Background()
	window := time.Now().Unix() / int64(config.WindowSize.Seconds())
	redisKey := fmt.Sprintf("ratelimit:%s:%s:%d", endpointType, key, window)

	count, err := client.Incr(ctx, redisKey).Result()
	if err != nil {
		return true, err
	}
	if count == 1 {
		client.Expire(ctx, redisKey, config.WindowSize)
	}

	return count <= int64(config.MaxRequests), nil
}

// Middleware enforces the limit for one endpoint class, keyed by the
// authenticated player when present, otherwise by client IP.
func (svc *RateLimitService) Middleware(endpointType string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.IP()
		if playerID, ok := c.Locals(shared.PlayerID).(string); ok && playerID != "" {
			key = playerID
		}

		allowed, err := svc.Allow(endpointType, key)
		if err != nil {
			log.WithError(err).Warn("rate limit check failed, allowing request")
			return c.Next()
		}
		if !allowed {
			return shared.ResponseJSON(c, fiber.StatusTooManyRequests, "rate limit exceeded", nil)
		}

		return c.Next()
	}
}
