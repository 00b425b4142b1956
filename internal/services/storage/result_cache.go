package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ErrResultNotFound means no completed job with that id was recorded.
var ErrResultNotFound = errors.New("result not found")

func resultKey(jobID string) string {
	return "vector_art:result:" + jobID
}

// RememberResult records the result address of a completed job.
func (s *StorageService) RememberResult(ctx context.Context, jobID, address string) error {
	if s.redisClient == nil {
		s.results.set(jobID, address)
		return nil
	}

	if err := s.redisClient.Set(ctx, resultKey(jobID), address, s.resultTTL).Err(); err != nil {
		return fmt.Errorf("result cache set error: %w", err)
	}
	return nil
}

// LookupResult returns the address recorded for jobID.
func (s *StorageService) LookupResult(ctx context.Context, jobID string) (string, error) {
	if s.redisClient == nil {
		address, ok := s.results.get(jobID)
		if !ok {
			return "", ErrResultNotFound
		}
		return address, nil
	}

	address, err := s.redisClient.Get(ctx, resultKey(jobID)).Result()
	if err == redis.Nil {
		return "", ErrResultNotFound
	}
	if err != nil {
		return "", fmt.Errorf("result cache get error: %w", err)
	}
	return address, nil
}
