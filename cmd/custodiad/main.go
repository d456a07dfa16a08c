// custodiad serves the evidence custody API. It runs against postgres when
// POSTGRES_DSN is set and falls back to an in-memory store otherwise, which
// is useful for local development and demos.
package main

import (
	"context"
	"log"

	"github.com/TheWildEye/Evidential/internal/config"
	internalhttp "github.com/TheWildEye/Evidential/internal/http"
	"github.com/TheWildEye/Evidential/internal/infra/auth"
	"github.com/TheWildEye/Evidential/internal/infra/blob"
	"github.com/TheWildEye/Evidential/internal/infra/db"
	"github.com/TheWildEye/Evidential/internal/infra/memstore"
	"github.com/TheWildEye/Evidential/internal/infra/ratelimit"
	"github.com/TheWildEye/Evidential/internal/usecase"
)

func main() {
	cfg := config.FromEnv()

	var (
		evidence usecase.EvidenceRepository
		ledger   usecase.CustodyLedgerRepository
		users    usecase.UserRepository
	)
	if cfg.PostgresDSN != "" {
		store, err := db.NewStore(cfg)
		if err != nil {
			log.Fatalf("open postgres: %v", err)
		}
		if err := store.Migrate(); err != nil {
			log.Fatalf("migrate schema: %v", err)
		}
		evidence = db.NewEvidenceRepository(store.DB)
		ledger = db.NewCustodyLedgerRepository(store.DB)
		users = db.NewUserRepository(store.DB)
		log.Printf("storage: postgres")
	} else {
		mem := memstore.New()
		evidence = mem.Evidence()
		ledger = mem.Ledger()
		users = mem.Users()
		log.Printf("storage: in-memory (POSTGRES_DSN not set, data will not survive restart)")
	}

	content, err := blob.NewFSStore(cfg.BlobDir)
	if err != nil {
		log.Fatalf("open blob dir %s: %v", cfg.BlobDir, err)
	}

	tokens, err := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL(), nil)
	if err != nil {
		log.Fatalf("session tokens: %v", err)
	}

	var limiter ratelimit.LoginLimiter
	if cfg.RedisAddr != "" {
		limiter, err = ratelimit.NewRedisLimiter(ratelimit.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Limit:    cfg.LoginRateLimit,
			Window:   cfg.LoginRateWindow(),
		})
		if err != nil {
			log.Fatalf("redis login limiter: %v", err)
		}
	} else {
		limiter = ratelimit.NewMemoryLimiter(ratelimit.MemoryConfig{
			Limit:  cfg.LoginRateLimit,
			Window: cfg.LoginRateWindow(),
		})
	}

	service := usecase.NewCustodyService(evidence, ledger, content)
	service.VerifyRequiresCapability = cfg.VerifyRequiresCapability
	identity := usecase.NewIdentityService(users)

	if cfg.SeedDemoUsers {
		if err := identity.Bootstrap(context.Background()); err != nil {
			log.Fatalf("seed demo users: %v", err)
		}
	}

	server := internalhttp.NewServer(service, identity, tokens, limiter)
	log.Printf("listening on %s", cfg.HTTPAddr)
	if err := server.Run(cfg.HTTPAddr); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
