package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rvarago/northstar/internal/infrastructure/config"
	"github.com/rvarago/northstar/internal/infrastructure/logging"
	"github.com/rvarago/northstar/internal/ipc/codec"
	"github.com/rvarago/northstar/internal/supervision"
)

func main() {
	rounds := flag.Int("rounds", 5, "Number of ping/pong rounds")
	flag.Parse()

	cfg := config.LoadOrDefault()
	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if supervision.IsChild(cfg) {
		if err := runChild(cfg, logger); err != nil {
			logger.Error("child failed", zap.Error(err))
			os.Exit(1)
		}
		return
	}

	if err := runSupervisor(cfg, logger, *rounds); err != nil {
		logger.Error("supervisor failed", zap.Error(err))
		os.Exit(1)
	}
}

// runSupervisor spawns this binary as a child and drives the protocol.
func runSupervisor(cfg *config.Config, logger *logging.Logger, rounds int) error {
	self, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}

	spawner := supervision.NewSpawner(cfg, logger)
	child, err := spawner.Spawn(context.Background(), self)
	if err != nil {
		return err
	}
	defer child.Close()

	hello, err := child.Recv()
	if err != nil {
		return fmt.Errorf("await hello: %w", err)
	}
	if hello.Kind != supervision.KindHello {
		return fmt.Errorf("expected hello, got %s", hello.Kind)
	}
	logger.Info("child ready", zap.Int("pid", child.Pid()))

	for i := 0; i < rounds; i++ {
		payload := fmt.Sprintf("round-%d", i)
		if err := child.Send(supervision.Message{Kind: supervision.KindPing, Payload: payload}); err != nil {
			return fmt.Errorf("ping: %w", err)
		}
		pong, err := child.Recv()
		if err != nil {
			return fmt.Errorf("await pong: %w", err)
		}
		if pong.Kind != supervision.KindPong || pong.Payload != payload {
			return fmt.Errorf("bad pong: kind=%s payload=%q", pong.Kind, pong.Payload)
		}
		logger.Info("pong", zap.String("payload", pong.Payload))
	}

	if err := child.Send(supervision.Message{Kind: supervision.KindShutdown}); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	exit, err := child.Recv()
	if err != nil {
		return fmt.Errorf("await exit: %w", err)
	}
	logger.Info("child exiting", zap.Int("code", exit.Code))

	return child.Wait()
}

// runChild answers the supervisor until asked to shut down.
func runChild(cfg *config.Config, logger *logging.Logger) error {
	ch, err := supervision.Inherited(cfg, logger)
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := ch.Send(supervision.Message{Kind: supervision.KindHello}); err != nil {
		return fmt.Errorf("hello: %w", err)
	}

	for {
		msg, err := ch.Recv()
		if errors.Is(err, codec.ErrIncompleteMessage) {
			// Supervisor went away without a shutdown.
			return nil
		}
		if err != nil {
			return fmt.Errorf("recv: %w", err)
		}

		switch msg.Kind {
		case supervision.KindPing:
			if err := ch.Send(supervision.Message{Kind: supervision.KindPong, Payload: msg.Payload}); err != nil {
				return fmt.Errorf("pong: %w", err)
			}
		case supervision.KindShutdown:
			return ch.Send(supervision.Message{Kind: supervision.KindExit, Code: 0})
		default:
			logger.Warn("unexpected message", zap.String("kind", msg.Kind.String()))
		}
	}
}
