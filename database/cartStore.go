package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"go-food-ordering/models"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func cartKey(tenantID, userID primitive.ObjectID) string {
	return fmt.Sprintf("foodorder:cart:%s:%s", tenantID.Hex(), userID.Hex())
}

// RedisCartStore keeps carts as JSON values that expire after ttl of
// inactivity.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisClient(addr, password string, db int) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
}

func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{client: client, ttl: ttl}
}

// Get returns the stored cart, or an empty one when none exists.
func (s *RedisCartStore) Get(ctx context.Context, tenantID, userID primitive.ObjectID) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKey(tenantID, userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &models.Cart{TenantID: tenantID, UserID: userID, Lines: []models.CartLine{}}, nil
		}
		return nil, fmt.Errorf("failed to read cart: %w", err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

func (s *RedisCartStore) Save(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.TenantID, cart.UserID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write cart: %w", err)
	}
	return nil
}

func (s *RedisCartStore) Delete(ctx context.Context, tenantID, userID primitive.ObjectID) error {
	if err := s.client.Del(ctx, cartKey(tenantID, userID)).Err(); err != nil {
		return fmt.Errorf("failed to delete cart: %w", err)
	}
	return nil
}

// MemoryCartStore is the single-process cart store used when Redis is not
// configured. Entries do not expire.
type MemoryCartStore struct {
	mu    sync.Mutex
	carts map[string][]byte
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{carts: make(map[string][]byte)}
}

func (s *MemoryCartStore) Get(_ context.Context, tenantID, userID primitive.ObjectID) (*models.Cart, error) {
	s.mu.Lock()
	data, ok := s.carts[cartKey(tenantID, userID)]
	s.mu.Unlock()
	if !ok {
		return &models.Cart{TenantID: tenantID, UserID: userID, Lines: []models.CartLine{}}, nil
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart: %w", err)
	}
	return &cart, nil
}

func (s *MemoryCartStore) Save(_ context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}
	s.mu.Lock()
	s.carts[cartKey(cart.TenantID, cart.UserID)] = data
	s.mu.Unlock()
	return nil
}

func (s *MemoryCartStore) Delete(_ context.Context, tenantID, userID primitive.ObjectID) error {
	s.mu.Lock()
	delete(s.carts, cartKey(tenantID, userID))
	s.mu.Unlock()
	return nil
}
