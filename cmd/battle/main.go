package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"

	"zemeroth-core/internal/domain"
	"zemeroth-core/internal/engine"
	"zemeroth-core/internal/state"
	"zemeroth-core/internal/version"
	"zemeroth-core/pkg/logger"
	"zemeroth-core/pkg/scenario"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг конфигурации
	var (
		seed           int64
		scenarioPath   string
		prototypesPath string
		maxCommands    int
		metricsAddr    string
		deterministic  bool
	)
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.StringVar(&scenarioPath, "scenario", "", "Scenario YAML file (embedded default if empty)")
	flag.StringVar(&prototypesPath, "prototypes", "", "Prototypes YAML file (embedded default if empty)")
	flag.IntVar(&maxCommands, "max-commands", engine.DefaultMaxCommands, "Stop the battle after this many commands")
	flag.StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address, e.g. :9090")
	flag.BoolVar(&deterministic, "deterministic", false, "Fail on any attack roll that is not a sure hit or a sure miss")
	flag.Parse()

	logger.Log.Info("Starting battle runner...")
	logger.Log.Info(version.String())

	if err := run(options{
		seed:           seed,
		scenarioPath:   scenarioPath,
		prototypesPath: prototypesPath,
		maxCommands:    maxCommands,
		metricsAddr:    metricsAddr,
		deterministic:  deterministic,
	}); err != nil {
		logger.Log.WithError(err).Error("Battle failed")
		os.Exit(1)
	}
}

type options struct {
	seed           int64
	scenarioPath   string
	prototypesPath string
	maxCommands    int
	metricsAddr    string
	deterministic  bool
}

func run(opts options) error {
	cfg := engine.NewConfig()
	cfg.MaxCommands = opts.maxCommands
	cfg.DeterministicMode = opts.deterministic

	if opts.seed != 0 {
		cfg.Seed = opts.seed
		logger.Log.Infof("Using explicit Master Seed: %d", opts.seed)
	} else {
		logger.Log.Infof("Using random Master Seed: %d", cfg.Seed)
	}

	metrics, err := engine.NewMetrics(nil)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if opts.metricsAddr != "" {
		go serveMetrics(opts.metricsAddr)
	}

	setup, err := loadSetup(cfg, opts)
	if err != nil {
		return err
	}

	b, err := engine.NewBattle(cfg, setup, metrics)
	if err != nil {
		return err
	}
	b.SetObserver(logEvent)

	runErr := b.RunAI()
	if runErr != nil && !errors.Is(runErr, engine.ErrCommandLimit) {
		return runErr
	}
	report(b)
	return runErr
}

// loadSetup читает прототипы и сценарий и строит расстановку из зерна
func loadSetup(cfg engine.Config, opts options) (engine.Setup, error) {
	var (
		protos state.Prototypes
		scen   *scenario.Scenario
		err    error
	)
	if opts.prototypesPath != "" {
		protos, err = scenario.LoadPrototypesFile(opts.prototypesPath)
	} else {
		protos, err = scenario.DefaultPrototypes()
	}
	if err != nil {
		return engine.Setup{}, err
	}

	if opts.scenarioPath != "" {
		scen, err = scenario.LoadFile(opts.scenarioPath)
	} else {
		scen, err = scenario.DefaultScenario()
	}
	if err != nil {
		return engine.Setup{}, err
	}

	gen, err := scen.Generate(rand.New(rand.NewSource(cfg.ScenarioSeed())), protos)
	if err != nil {
		return engine.Setup{}, fmt.Errorf("generate scenario: %w", err)
	}
	return engine.Setup{
		Tiles:        gen.Tiles,
		PlayersCount: scen.PlayersCount,
		Prototypes:   protos,
		Creates:      gen.Creates,
		AIPlayers:    scen.AIPlayers,
	}, nil
}

func serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	logger.Log.WithField("addr", addr).Info("Serving metrics")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Log.WithError(err).Error("Metrics server stopped")
	}
}

// logEvent печатает каждое событие после применения
func logEvent(st *state.State, ev *domain.Event, phase domain.Phase) {
	if phase != domain.PhasePost {
		return
	}
	logger.Log.WithFields(logrus.Fields{
		"event":  ev.Active.Kind().String(),
		"player": st.PlayerID(),
		"actors": ev.ActorIDs,
	}).Debug("Event")
}

func report(b *engine.Battle) {
	entry := logger.Log.WithFields(logrus.Fields{
		"battle_id": b.ID.String(),
		"commands":  len(b.Commands()),
		"events":    len(b.Events()),
	})
	result, ok := b.Result()
	if !ok {
		entry.Warn("Battle did not finish")
		return
	}
	entry.WithFields(logrus.Fields{
		"winner":    result.WinnerID,
		"survivors": result.SurvivorTypes,
	}).Info("Battle finished")
}
