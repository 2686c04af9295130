// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metadata

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// imageKeyPrefix prefixes the per-asset hash key.
	imageKeyPrefix = "image:"

	// categoryKeyPrefix prefixes the set of public IDs per category.
	categoryKeyPrefix = "category:"
)

// RedisStore keeps one hash per asset plus a set of IDs per category.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a RedisStore backed by the given client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Save writes the record hash and indexes it under its category.
func (s *RedisStore) Save(ctx context.Context, rec Record) error {
	key := imageKeyPrefix + rec.PublicID
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]any{
			"public_id":   rec.PublicID,
			"secure_url":  rec.SecureURL,
			"category":    rec.Category,
			"name":        rec.Name,
			"description": rec.Description,
			"format":      rec.Format,
			"width":       rec.Width,
			"height":      rec.Height,
			"bytes":       rec.Bytes,
			"created_at":  rec.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		pipe.SAdd(ctx, categoryKeyPrefix+rec.Category, rec.PublicID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save metadata %s: %w", rec.PublicID, err)
	}
	return nil
}

// Delete removes the record hash and its category index entry.
func (s *RedisStore) Delete(ctx context.Context, publicID string) error {
	key := imageKeyPrefix + publicID
	category, err := s.client.HGet(ctx, key, "category").Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("redis lookup metadata %s: %w", publicID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.SRem(ctx, categoryKeyPrefix+category, publicID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete metadata %s: %w", publicID, err)
	}
	return nil
}

// get loads a record, returning (nil, nil) when it does not exist.
func (s *RedisStore) get(ctx context.Context, publicID string) (*Record, error) {
	fields, err := s.client.HGetAll(ctx, imageKeyPrefix+publicID).Result()
	if err != nil {
		return nil, fmt.Errorf("redis get metadata %s: %w", publicID, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	rec := &Record{
		PublicID:    fields["public_id"],
		SecureURL:   fields["secure_url"],
		Category:    fields["category"],
		Name:        fields["name"],
		Description: fields["description"],
		Format:      fields["format"],
	}
	rec.Width, _ = strconv.Atoi(fields["width"])
	rec.Height, _ = strconv.Atoi(fields["height"])
	rec.Bytes, _ = strconv.ParseInt(fields["bytes"], 10, 64)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, fields["created_at"])
	return rec, nil
}

// categoryIDs returns the public IDs recorded for a category.
func (s *RedisStore) categoryIDs(ctx context.Context, category string) ([]string, error) {
	ids, err := s.client.SMembers(ctx, categoryKeyPrefix+category).Result()
	if err != nil {
		return nil, fmt.Errorf("redis category ids %s: %w", category, err)
	}
	return ids, nil
}
