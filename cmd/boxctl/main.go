package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/etomica/etomica/internal/config"
	"github.com/etomica/etomica/internal/core/box"
	"github.com/etomica/etomica/internal/core/observability/log"
	"github.com/etomica/etomica/internal/core/simulation"
	"github.com/etomica/etomica/internal/injector"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "simulation config file (.yaml, .toml or .json)")
	outDir := flag.String("out", "", "directory for box snapshots (default: a new temporary directory)")
	verify := flag.Bool("verify", true, "restore every snapshot into a fresh box and compare")
	parallel := flag.Int("parallel", 0, "boxes processed at once (0 means all)")
	flag.Parse()

	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "boxctl: -config is required")
		flag.Usage()
		return 2
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "boxctl:", err)
		return 1
	}

	logger := log.New(log.ParseLevel(cfg.Log.Level), cfg.Log.Development)
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sim, err := injector.InitializeSimulation(cfg)
	if err != nil {
		logger.Error("failed to build simulation", log.Err(err))
		return 1
	}

	dir, err := snapshotDir(*outDir)
	if err != nil {
		logger.Error("failed to prepare snapshot directory", log.Err(err))
		return 1
	}

	err = sim.ForEachBox(ctx, *parallel, func(ctx context.Context, b *box.Box) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(dir, fmt.Sprintf("%s-box%d.state.gz", sim.ID(), b.Index()))
		if err := box.SaveFile(b, path); err != nil {
			return fmt.Errorf("save %v: %w", b, err)
		}
		logger.Info("snapshot saved", log.Int("box", b.Index()), log.String("path", path),
			log.Int("molecules", b.Molecules().Len()), log.Uint64("fingerprint", box.Fingerprint(b)))
		if !*verify {
			return nil
		}
		return checkRoundTrip(sim, b, path, logger)
	})
	if err != nil {
		logger.Error("snapshot run failed", log.Err(err))
		return 1
	}
	return 0
}

func snapshotDir(dir string) (string, error) {
	if dir == "" {
		return os.MkdirTemp("", "boxctl-*")
	}
	return dir, os.MkdirAll(dir, 0o755)
}

// checkRoundTrip restores the snapshot at path into a fresh box seeded with
// one molecule of each populated species, then requires the fresh box to
// be consistent and to serialize to the same bytes as b.
func checkRoundTrip(sim *simulation.Simulation, b *box.Box, path string, logger log.Log) error {
	boundary, err := box.NewRectangularPeriodic(b.Boundary().BoxSize())
	if err != nil {
		return err
	}
	replica := box.New(boundary, box.WithLogger(logger))
	for _, sp := range sim.Species() {
		if err = replica.AddSpeciesNotify(sp); err != nil {
			return err
		}
		if b.NMolecules(sp) > 0 {
			if err = replica.SetNMolecules(sp, 1); err != nil {
				return err
			}
		}
	}
	if err = box.RestoreFile(replica, path); err != nil {
		return fmt.Errorf("restore %s: %w", path, err)
	}
	if err = box.Verify(replica); err != nil {
		return fmt.Errorf("restored %v: %w", b, err)
	}

	var want, got bytes.Buffer
	if err = b.SaveState(&want); err != nil {
		return err
	}
	if err = replica.SaveState(&got); err != nil {
		return err
	}
	if !bytes.Equal(want.Bytes(), got.Bytes()) {
		return fmt.Errorf("%w: restored state of %v differs from the original", box.ErrIllegalState, b)
	}
	logger.Info("snapshot verified", log.Int("box", b.Index()),
		log.Uint64("fingerprint", box.Fingerprint(replica)))
	return nil
}
