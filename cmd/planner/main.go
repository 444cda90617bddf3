package main

import (
	"context"
	"courier-route-service/internal/adapters/destinations"
	"courier-route-service/internal/adapters/output"
	"courier-route-service/internal/app"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/services"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/exp/slog"
)

// planner is the batch entry point: it routes every zone once, writes
// path_N.txt and path_N.png per courier and prints the travel times.
func main() {
	start := time.Now()

	configPath := flag.String("config", config.Get("CONFIG_PATH", "config.yaml"), "YAML config file")
	noImages := flag.Bool("no-images", false, "skip PNG rendering")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}
	obs.NewLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, !*noImages); err != nil {
		slog.Error("planner", "err", err)
		os.Exit(1)
	}

	fmt.Printf("The total computational time is %.2f minutes\n", time.Since(start).Minutes())
}

func run(ctx context.Context, cfg config.Config, images bool) error {
	routing, err := app.LoadRouting(ctx, cfg)
	if err != nil {
		return err
	}

	repo := destinations.NewTextFileRepository(cfg.DestinationsPath)
	zones, err := services.PartitionDestinations(ctx, routing.Engine, repo, routing.Partitioner)
	if err != nil {
		return err
	}

	for _, z := range zones {
		slog.Info("zone", "name", z.Name, "destinations", z.Len())
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	renderer := output.NewRenderer()
	g := routing.Engine.Graph()

	var failed int
	results := services.PlanZones(ctx, routing.Builder, cfg.Depot, zones, cfg.Concurrency)
	for i, res := range results {
		courier := i + 1
		if res.Err != nil {
			failed++
			slog.Error("zone failed", "zone", res.Zone, "courier", courier, "err", res.Err)
			continue
		}

		txt := filepath.Join(cfg.OutputDir, fmt.Sprintf("path_%d.txt", courier))
		if err := output.WriteStopsFile(txt, res.Route); err != nil {
			return err
		}
		if images {
			img := filepath.Join(cfg.OutputDir, fmt.Sprintf("path_%d.png", courier))
			if err := renderer.WritePNGFile(img, g, res.Route.Path); err != nil {
				return err
			}
		}

		fmt.Printf("The time taken by courier %d is %.2f hours\n", courier, res.Route.TotalHours)
	}

	if failed == len(results) && failed > 0 {
		return errors.New("every zone failed")
	}
	return nil
}
