// cmd/brinkd/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/openhru/brinkd/internal/codec"
	"github.com/openhru/brinkd/internal/command"
	"github.com/openhru/brinkd/internal/config"
	"github.com/openhru/brinkd/internal/poller"
	"github.com/openhru/brinkd/internal/registry"
	"github.com/openhru/brinkd/internal/snapshot"
	"github.com/openhru/brinkd/internal/token"
	"github.com/openhru/brinkd/internal/transport"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if len(os.Args) < 3 {
		usage()
	}

	mode := os.Args[1]
	cfgPath := os.Args[2]

	// --------------------
	// Load + validate config
	// --------------------

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatal().Err(err).Msg("config validation failed")
	}
	config.Normalize(cfg)

	// --------------------
	// Build the core
	// --------------------

	model, err := registry.ParseModel(cfg.HRU.Model)
	if err != nil {
		log.Fatal().Err(err).Msg("model parse failed")
	}
	reg := registry.New(model)

	sess, err := transport.New(transport.Config{
		Device:   cfg.HRU.Serial.Device,
		BaudRate: cfg.HRU.Serial.BaudRate,
		SlaveID:  byte(cfg.HRU.Serial.SlaveID),
		Timeout:  time.Duration(cfg.HRU.Serial.TimeoutMs) * time.Millisecond,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("serial open failed")
	}
	defer sess.Close()

	tok := token.New()
	store := snapshot.NewStore()

	p, err := poller.New(reg, sess, tok, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("poller build failed")
	}
	exec, err := command.New(reg, sess, tok, store, log)
	if err != nil {
		log.Fatal().Err(err).Msg("executor build failed")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Info().
		Str("model", model.String()).
		Str("device", cfg.HRU.Serial.Device).
		Int("slave_id", cfg.HRU.Serial.SlaveID).
		Msg("brinkd starting")

	switch mode {
	case "run":
		run(ctx, cfg, p)
	case "dump":
		dump(ctx, exec, log)
	case "set":
		if len(os.Args) < 5 {
			usage()
		}
		set(ctx, reg, exec, store, os.Args[3], os.Args[4], log)
	default:
		usage()
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "usage: brinkd run  <config.yaml>")
	fmt.Fprintln(os.Stderr, "       brinkd dump <config.yaml>")
	fmt.Fprintln(os.Stderr, "       brinkd set  <config.yaml> <key> <value>")
	os.Exit(2)
}

// run starts the two cadence loops and blocks until a signal arrives.
func run(ctx context.Context, cfg *config.Config, p *poller.Poller) {
	fast := time.Duration(cfg.HRU.Poll.FastIntervalMs) * time.Millisecond
	slow := time.Duration(cfg.HRU.Poll.SlowIntervalMs) * time.Millisecond

	go p.Run(ctx, registry.CadenceFast, fast)
	go p.Run(ctx, registry.CadenceSlow, slow)

	<-ctx.Done()
}

// dump reads every register once and prints raw plus decoded values.
func dump(ctx context.Context, exec *command.Executor, log zerolog.Logger) {
	entries, err := exec.DumpAll(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("dump failed")
	}
	for _, e := range entries {
		if e.Err != nil {
			fmt.Printf("%-26s @%d  ERROR %v\n", e.Key, e.Address, e.Err)
			continue
		}
		fmt.Printf("%-26s @%d  raw=%v  %s\n", e.Key, e.Address, e.Raw, e.Value)
	}
}

// set issues a single command and reports the device-confirmed value.
func set(ctx context.Context, reg *registry.Map, exec *command.Executor, store *snapshot.Store, key, raw string, log zerolog.Logger) {
	d, err := reg.Describe(key)
	if err != nil {
		log.Fatal().Err(err).Msg("unknown register")
	}

	var value codec.Value
	if d.Type == registry.Enum {
		value = codec.State(raw)
	} else {
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			log.Fatal().Err(err).Str("value", raw).Msg("numeric value expected")
		}
		value = codec.Number(n)
	}

	if err := exec.Execute(ctx, key, value, ""); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}

	if r, ok := store.Current()[key]; ok {
		fmt.Printf("%s = %s\n", key, r.Value)
	} else {
		fmt.Printf("%s written\n", key)
	}
}
