package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Clark-Hu/movie-watchlist/db"
	"github.com/Clark-Hu/movie-watchlist/internal/config"
	httpserver "github.com/Clark-Hu/movie-watchlist/internal/http"
	"github.com/Clark-Hu/movie-watchlist/internal/repository"
	"github.com/Clark-Hu/movie-watchlist/internal/store"
	"github.com/Clark-Hu/movie-watchlist/internal/tmdb"
	"github.com/Clark-Hu/movie-watchlist/internal/watchlist"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := log.New(os.Stdout, "[watchlist] ", log.LstdFlags|log.Lshortfile)

	connTimeout := time.Duration(cfg.DBConnTimeoutSecs) * time.Second
	dbCtx, cancel := context.WithTimeout(ctx, connTimeout)
	defer cancel()

	var (
		repo   *repository.Repository
		health httpserver.HealthChecker
	)
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		st, err := store.New(dbCtx, cfg.DBURL, store.Options{
			MaxConns:               int32(cfg.DBMaxConns),
			MinConns:               int32(cfg.DBMinConns),
			MaxConnIdleTime:        time.Duration(cfg.DBMaxIdleSecs) * time.Second,
			MaxConnLifetime:        time.Duration(cfg.DBMaxLifeSecs) * time.Second,
			ConnTimeout:            connTimeout,
			StatementCacheCapacity: cfg.DBStatementCache,
			Logger:                 logger,
		})
		if err != nil {
			log.Fatalf("connect database: %v", err)
		}
		defer st.Close()
		if cfg.DBAutoMigrate {
			if err := st.Migrate(dbCtx, db.Migrations); err != nil {
				log.Fatalf("migrate database: %v", err)
			}
		}
		repo, health = repository.New(st), st
	case config.DriverMongo:
		m, err := store.NewMongo(dbCtx, cfg.MongoURI, cfg.MongoDatabase, store.MongoOptions{
			ConnTimeout: connTimeout,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("connect mongodb: %v", err)
		}
		defer m.Close()
		repo, health = repository.NewMongo(m), m
	default:
		logger.Println("using in-memory store; data is lost on restart")
		repo = repository.NewMemory()
	}

	svc := watchlist.New(repo, cfg.WatchlistName, logger)
	if _, err := svc.Bootstrap(dbCtx); err != nil {
		log.Fatalf("bootstrap watchlist: %v", err)
	}

	var search tmdb.Client
	if cfg.SearchEnabled() {
		search, err = newSearchClient(ctx, cfg, logger)
		if err != nil {
			log.Fatalf("init search client: %v", err)
		}
	} else {
		logger.Println("TMDB_API_KEY not set; /search is disabled")
	}

	server := httpserver.New(cfg, health, svc, search, logger)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := server.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			serverErrCh <- err
			return
		}
		serverErrCh <- nil
	}()

	select {
	case err := <-serverErrCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) && !errors.Is(err, context.Canceled) {
			log.Printf("server error: %v", err)
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Printf("graceful shutdown error: %v", err)
	}
}

// newSearchClient builds the upstream client, fronted by redis when REDIS_ADDR is set.
// An unreachable redis degrades to uncached search.
func newSearchClient(ctx context.Context, cfg config.Config, logger *log.Logger) (tmdb.Client, error) {
	upstream, err := tmdb.NewHTTPClient(cfg.TMDBURL, cfg.TMDBAPIKey, cfg.TMDBImageBase, time.Duration(cfg.TMDBTimeoutSecs)*time.Second, logger)
	if err != nil {
		return nil, err
	}
	if cfg.RedisAddr == "" {
		return upstream, nil
	}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	cache, err := tmdb.NewRedisCache(pingCtx, cfg.RedisAddr)
	if err != nil {
		logger.Printf("search cache disabled: %v", err)
		return upstream, nil
	}
	ttl := time.Duration(cfg.SearchCacheTTLSecs) * time.Second
	return tmdb.NewCachedClient(upstream, cache, ttl, logger), nil
}
