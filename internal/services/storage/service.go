package storage

import (
	"time"

	"github.com/phambaophuc/vector-art/internal/config"
	"github.com/redis/go-redis/v9"
	storage_go "github.com/supabase-community/storage-go"
	"go.uber.org/zap"
)

// StorageService owns the external stores: redis for sessions, the local
// artifact directory, and an optional supabase bucket mirroring artifacts.
type StorageService struct {
	sbClient     *storage_go.Client
	redisClient  *redis.Client
	bucket       string
	artifactPath string
	sessionTTL   time.Duration
	resultTTL    time.Duration
	logger       *zap.Logger

	results *ttlMap[string]
}

func NewStorageService(cfg *config.Config, logger *zap.Logger) (*StorageService, error) {
	s := &StorageService{
		bucket:       cfg.Supabase.BUCKET,
		artifactPath: cfg.Storage.ArtifactPath,
		sessionTTL:   cfg.Storage.SessionTTL,
		resultTTL:    cfg.Storage.CacheDuration,
		logger:       logger,
		results:      newTTLMap[string](cfg.Storage.CacheDuration),
	}

	if cfg.Supabase.URL != "" && cfg.Supabase.BUCKET != "" {
		s.sbClient = storage_go.NewClient(cfg.Supabase.URL+"/storage/v1", cfg.Supabase.KEY, nil)
	}

	if cfg.Redis.Addr != "" {
		s.redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	return s, nil
}

// SessionStore returns the redis-backed store when redis is configured and an in-memory one otherwise.
func (s *StorageService) SessionStore() SessionStore {
	if s.redisClient != nil {
		return NewRedisSessionStore(s.redisClient, s.sessionTTL)
	}
	s.logger.Warn("REDIS_ADDR not set, sessions are kept in memory")
	return NewMemorySessionStore(s.sessionTTL)
}

func (s *StorageService) Close() error {
	if s.redisClient != nil {
		return s.redisClient.Close()
	}
	return nil
}
