package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"cardroom.io/server/host"
	"cardroom.io/server/ledger"
	"cardroom.io/server/lobby"
	"cardroom.io/server/minigame"
	"cardroom.io/server/rest"
	"cardroom.io/server/store"
	"cardroom.io/server/util"
)

var tableConfigFile *string
var mainLogger = util.GetZeroLogger("main::main", nil)

func init() {
	tableConfigFile = flag.String("table-config", "", "YAML file containing table stakes")
}

func main() {
	// Global random seed shared by everything that does not carry its own
	// source.
	rand.Seed(util.NewSeed())

	err := run()
	if err != nil {
		mainLogger.Error().Msg(err.Error())
		os.Exit(1)
	}
}

func run() error {
	logLevel := util.Env.GetZeroLogLogLevel()
	fmt.Printf("Setting log level to %s\n", logLevel)
	zerolog.SetGlobalLevel(logLevel)
	flag.Parse()

	tableConfig := lobby.DefaultTableConfig()
	if *tableConfigFile != "" {
		var err error
		tableConfig, err = lobby.ParseTableConfig(*tableConfigFile)
		if err != nil {
			return errors.Wrap(err, "Error while parsing table config")
		}
	}

	sessionStore, err := buildStore()
	if err != nil {
		return errors.Wrap(err, "Error while creating session store")
	}

	houseLedger := ledger.NewMemory()
	turnTimeout := time.Duration(util.Env.GetActionTimeoutSec()) * time.Second

	hostManager := host.NewManager(sessionStore, turnTimeout)
	lobbyManager := lobby.NewManager(sessionStore, houseLedger, tableConfig, hostManager)
	minigameManager := minigame.NewManager(houseLedger)

	mainLogger.Info().
		Str("persist", util.Env.GetPersistMethod()).
		Int64("smallBlind", tableConfig.SmallBlind).
		Int64("bigBlind", tableConfig.BigBlind).
		Msg("Starting cardroom server")

	rest.RunRestServer(lobbyManager, hostManager, minigameManager, util.Env.GetRestPort())
	return nil
}

func buildStore() (store.Store, error) {
	switch method := util.Env.GetPersistMethod(); method {
	case "memory":
		return store.NewMemoryStore(), nil
	case "redis":
		natsURL := util.Env.GetNatsURL()
		mainLogger.Info().Msgf("NATS URL: %s", natsURL)
		nc, err := natsgo.Connect(natsURL)
		if err != nil {
			return nil, errors.Wrap(err, "Error connecting to NATS server")
		}
		redisAddr := fmt.Sprintf("%s:%d", util.Env.GetRedisHost(), util.Env.GetRedisPort())
		return store.NewRedisStore(redisAddr, util.Env.GetRedisPW(), util.Env.GetRedisDB(), nc), nil
	default:
		return nil, fmt.Errorf("unknown persist method [%s]", method)
	}
}
