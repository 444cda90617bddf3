package app

import (
	"context"
	"courier-route-service/internal/adapters/cache"
	"courier-route-service/internal/adapters/graphio"
	"courier-route-service/internal/adapters/repositories"
	"courier-route-service/internal/adapters/zones"
	"courier-route-service/internal/config"
	"courier-route-service/internal/platform/db"
	"courier-route-service/internal/platform/obs"
	"courier-route-service/internal/ports"
	"courier-route-service/internal/services"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Routing holds the immutable graph-backed components shared by every request.
type Routing struct {
	Engine      *services.ShortestPathEngine
	Builder     *services.RouteBuilder
	Partitioner ports.ZonePartitioner
}

// LoadRouting reads the graph named in cfg and wires the routing core around it.
func LoadRouting(ctx context.Context, cfg config.Config) (*Routing, error) {
	return LoadRoutingWith(ctx, cfg, graphio.NewLoader(cfg.Speeds))
}

func LoadRoutingWith(ctx context.Context, cfg config.Config, loader ports.GraphLoader) (_ *Routing, err error) {
	defer obs.Time(ctx, "graph.load")(&err)

	g, err := loader.Load(ctx, cfg.GraphPath)
	if err != nil {
		return nil, fmt.Errorf("load routing: %w", err)
	}
	if !g.HasNode(cfg.Depot) {
		return nil, fmt.Errorf("load routing: depot %q: %w", cfg.Depot, services.ErrNodeNotFound)
	}

	partitioner, err := zones.NewThresholdPartitioner(cfg.Zones)
	if err != nil {
		return nil, fmt.Errorf("load routing: %w", err)
	}

	engine := services.NewShortestPathEngine(g)
	return &Routing{
		Engine:      engine,
		Builder:     services.NewRouteBuilder(engine),
		Partitioner: partitioner,
	}, nil
}

// Storage bundles the configured route store with an optional SQLite
// destination repository. Close releases the underlying connections.
type Storage struct {
	Store        ports.RouteStore
	Destinations ports.DestinationRepository
	closers      []func() error
}

func (s *Storage) Close() error {
	var first error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// OpenStorage connects the backend selected by cfg.Store.Backend.
// Destinations come from the SQLite table when that backend is used and it has
// rows, and from the configured text file otherwise.
func OpenStorage(ctx context.Context, cfg config.Config, fallback ports.DestinationRepository) (*Storage, error) {
	s := &Storage{Destinations: fallback}

	switch cfg.Store.Backend {
	case "none":
	case "sqlite":
		conn, err := db.OpenSQLite(cfg.Store.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s.closers = append(s.closers, conn.Close)

		if err := repositories.InitSchema(conn); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s.Store = repositories.NewSqliteRouteStore(conn)

		repo := repositories.NewSqliteDestinationRepository(conn)
		names, err := repo.ListDestinations(ctx)
		if err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
		if len(names) > 0 || fallback == nil {
			s.Destinations = repo
		}
	case "postgres":
		conn, err := db.Open(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s.closers = append(s.closers, conn.Close)

		if err := cache.InitSQLSchema(ctx, conn); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open storage: %w", err)
		}
		s.Store = cache.NewSQLRouteStore(conn)
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Store.RedisAddr})
		s.closers = append(s.closers, client.Close)

		if err := client.Ping(ctx).Err(); err != nil {
			_ = s.Close()
			return nil, fmt.Errorf("open storage: ping redis %s: %w", cfg.Store.RedisAddr, err)
		}
		s.Store = cache.NewRedisRouteStore(client, cfg.Store.RedisTTL)
	default:
		return nil, fmt.Errorf("open storage: unknown backend %q", cfg.Store.Backend)
	}

	return s, nil
}
