package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/authguard/config"
	"github.com/oksasatya/authguard/internal/domain/event"
	"github.com/oksasatya/authguard/internal/domain/service"
)

// app-level container to share constructed components across packages
// Router can auto-wire modules from these singletons.

var (
	cfg         *config.Config
	logger      *logrus.Logger
	pgPool      *pgxpool.Pool
	redisClient *redis.Client

	tokenService service.TokenService
	publisher    event.Publisher
	clock        clockwork.Clock
)

func SetConfig(c *config.Config)         { cfg = c }
func GetConfig() *config.Config          { return cfg }
func SetLogger(l *logrus.Logger)         { logger = l }
func GetLogger() *logrus.Logger          { return logger }
func SetPGPool(p *pgxpool.Pool)          { pgPool = p }
func GetPGPool() *pgxpool.Pool           { return pgPool }
func SetRedis(r *redis.Client)           { redisClient = r }
func GetRedis() *redis.Client            { return redisClient }
func SetTokens(t service.TokenService)   { tokenService = t }
func GetTokens() service.TokenService    { return tokenService }
func SetPublisher(p event.Publisher)     { publisher = p }
func GetPublisher() event.Publisher      { return publisher }
func SetClock(c clockwork.Clock)         { clock = c }

func GetClock() clockwork.Clock {
	if clock != nil {
		return clock
	}
	return clockwork.NewRealClock()
}
