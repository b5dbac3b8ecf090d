package kv

import (
	"context"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
)

const (
	userKeyPrefix = "avan:user:" // hash avan:user:{uid}, one field per key
	usersSetKey   = "avan:users" // set of uids that ever wrote a key
)

type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) For(userID string) Store {
	return &redisStore{client: b.client, userID: userID, hash: userKeyPrefix + userID}
}

func (b *RedisBackend) Users(ctx context.Context) ([]string, error) {
	uids, err := b.client.SMembers(ctx, usersSetKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	sort.Strings(uids)
	return uids, nil
}

func (b *RedisBackend) Close() error {
	return b.client.Close()
}

type redisStore struct {
	client *redis.Client
	userID string
	hash   string
}

func (s *redisStore) Get(ctx context.Context, key string) (string, bool, error) {
	v, err := s.client.HGet(ctx, s.hash, key).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return v, true, nil
}

func (s *redisStore) Set(ctx context.Context, key, value string) error {
	if err := checkKey(key); err != nil {
		return err
	}

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, s.hash, key, value)
	pipe.SAdd(ctx, usersSetKey, s.userID)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.HDel(ctx, s.hash, key).Err(); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *redisStore) Keys(ctx context.Context) ([]string, error) {
	keys, err := s.client.HKeys(ctx, s.hash).Result()
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	sort.Strings(keys)
	return keys, nil
}
