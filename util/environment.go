package util

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var environmentLogger = log.With().Str("logger_name", "util::environment").Logger()

type serverEnvironment struct {
	PersistMethod string
	RedisHost     string
	RedisPort     string
	RedisPW       string
	RedisDB       string
	NatsURL       string
	ActionTimeout string
	RestPort      string
	LogLevel      string
}

// Env is a helper object for accessing environment variables.
var Env = &serverEnvironment{
	PersistMethod: "PERSIST_METHOD",
	RedisHost:     "REDIS_HOST",
	RedisPort:     "REDIS_PORT",
	RedisPW:       "REDIS_PW",
	RedisDB:       "REDIS_DB",
	NatsURL:       "NATS_URL",
	ActionTimeout: "ACTION_TIMEOUT",
	RestPort:      "REST_PORT",
	LogLevel:      "LOG_LEVEL",
}

// GetPersistMethod returns "memory" or "redis"; memory is the default for
// single-process runs.
func (e *serverEnvironment) GetPersistMethod() string {
	method := os.Getenv(e.PersistMethod)
	if method == "" {
		return "memory"
	}
	return strings.ToLower(method)
}

func (e *serverEnvironment) GetRedisHost() string {
	host := os.Getenv(e.RedisHost)
	if host == "" {
		msg := fmt.Sprintf("%s is not defined", e.RedisHost)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return host
}

func (e *serverEnvironment) GetRedisPort() int {
	portStr := os.Getenv(e.RedisPort)
	if portStr == "" {
		return 6379
	}
	portNum, err := strconv.Atoi(portStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis port %s", portStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return portNum
}

func (e *serverEnvironment) GetRedisPW() string {
	return os.Getenv(e.RedisPW)
}

func (e *serverEnvironment) GetRedisDB() int {
	dbStr := os.Getenv(e.RedisDB)
	if dbStr == "" {
		return 0
	}
	dbNum, err := strconv.Atoi(dbStr)
	if err != nil {
		msg := fmt.Sprintf("Invalid Redis db %s", dbStr)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return dbNum
}

func (e *serverEnvironment) GetNatsURL() string {
	url := os.Getenv(e.NatsURL)
	if url == "" {
		return "nats://localhost:4222"
	}
	return url
}

// GetActionTimeoutSec is the per-turn deadline before the turn timer forces
// a fold.
func (e *serverEnvironment) GetActionTimeoutSec() int {
	s := os.Getenv(e.ActionTimeout)
	if s == "" {
		return 30
	}
	timeoutSec, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for action timeout value", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return timeoutSec
}

func (e *serverEnvironment) GetRestPort() int {
	s := os.Getenv(e.RestPort)
	if s == "" {
		return 8080
	}
	port, err := strconv.Atoi(s)
	if err != nil {
		msg := fmt.Sprintf("Invalid integer [%s] for REST port", s)
		environmentLogger.Error().Msg(msg)
		panic(msg)
	}
	return port
}

func (e *serverEnvironment) GetZeroLogLogLevel() zerolog.Level {
	s := os.Getenv(e.LogLevel)
	if s == "" {
		return zerolog.InfoLevel
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		environmentLogger.Error().Msgf("Invalid log level [%s], using info", s)
		return zerolog.InfoLevel
	}
	return level
}
