package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	"goodfood/internal/domain"
)

const (
	cartKeyPrefix   = "goodfood:cart:"
	customerKeyFmt  = "goodfood:customer:%s"
	cartSequenceKey = "goodfood:cart_seq"
)

// RedisStore keeps carts as JSON values, one key per cart, with a per-customer
// set indexing cart ids. Carts are short-lived so Redis is a natural home for
// them in multi-instance deployments.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) FindByCustomer(ctx context.Context, customer domain.CustomerInfo) ([]*domain.Cart, error) {
	ids, err := s.client.SMembers(ctx, customerKey(customer.UserID)).Result()
	if err != nil {
		return nil, fmt.Errorf("redis smembers failed: %w", err)
	}

	var carts []*domain.Cart
	for _, id := range ids {
		c, err := s.get(ctx, cartKeyPrefix+id)
		if errors.Is(err, redis.Nil) {
			// Index entry outlived the cart value; drop it.
			s.client.SRem(ctx, customerKey(customer.UserID), id)
			continue
		}
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	return carts, nil
}

func (s *RedisStore) Add(ctx context.Context, cart *domain.Cart) error {
	id, err := s.client.Incr(ctx, cartSequenceKey).Result()
	if err != nil {
		return fmt.Errorf("redis incr failed: %w", err)
	}
	cart.ID = id

	if err := s.set(ctx, cart); err != nil {
		return err
	}
	key := customerKey(cart.Customer.UserID)
	if err := s.client.SAdd(ctx, key, strconv.FormatInt(id, 10)).Err(); err != nil {
		return fmt.Errorf("redis sadd failed: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, cart *domain.Cart) error {
	exists, err := s.client.Exists(ctx, cartKey(cart.ID)).Result()
	if err != nil {
		return fmt.Errorf("redis exists failed: %w", err)
	}
	if exists == 0 {
		return ErrCartNotFound
	}
	return s.set(ctx, cart)
}

func (s *RedisStore) Remove(ctx context.Context, cartID int64) error {
	c, err := s.get(ctx, cartKey(cartID))
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.client.Del(ctx, cartKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis del failed: %w", err)
	}
	key := customerKey(c.Customer.UserID)
	if err := s.client.SRem(ctx, key, strconv.FormatInt(cartID, 10)).Err(); err != nil {
		return fmt.Errorf("redis srem failed: %w", err)
	}
	return nil
}

func (s *RedisStore) All(ctx context.Context) ([]*domain.Cart, error) {
	var carts []*domain.Cart
	iter := s.client.Scan(ctx, 0, cartKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		c, err := s.get(ctx, iter.Val())
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		carts = append(carts, c)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan failed: %w", err)
	}
	return carts, nil
}

func (s *RedisStore) get(ctx context.Context, key string) (*domain.Cart, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, redis.Nil
		}
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var c domain.Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return &c, nil
}

func (s *RedisStore) set(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := s.client.Set(ctx, cartKey(cart.ID), data, 0).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func cartKey(id int64) string {
	return cartKeyPrefix + strconv.FormatInt(id, 10)
}

func customerKey(userID string) string {
	return fmt.Sprintf(customerKeyFmt, userID)
}
