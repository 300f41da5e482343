package lib

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const WalletOrderTTL = 3 * time.Hour

type WalletOrderStatus string

const (
	WALLET_ORDER_CREATED  WalletOrderStatus = "created"
	WALLET_ORDER_CAPTURED WalletOrderStatus = "captured"
)

var ErrWalletOrderNotFound = errors.New("wallet order not found")

type WalletOrder struct {
	OrderID       string            `json:"orderID"`
	Amount        int64             `json:"amount"`
	Currency      string            `json:"currency"`
	BookingID     string            `json:"bookingId,omitempty"`
	Status        WalletOrderStatus `json:"status"`
	TransactionID string            `json:"transactionId,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// WalletOrderStore keeps simulated wallet orders between create and capture.
type WalletOrderStore interface {
	Create(ctx context.Context, o *WalletOrder) error
	Update(ctx context.Context, o *WalletOrder) error
	Get(ctx context.Context, orderID string) (*WalletOrder, error)
}

func walletOrderKey(orderID string) string {
	return fmt.Sprintf("wallet::order:%s", orderID)
}

type RedisWalletStore struct {
	rdb *redis.Client
}

func NewRedisWalletStore(rdb *redis.Client) *RedisWalletStore {
	return &RedisWalletStore{rdb: rdb}
}

func (s *RedisWalletStore) Create(ctx context.Context, o *WalletOrder) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, walletOrderKey(o.OrderID), b, WalletOrderTTL).Err()
}

func (s *RedisWalletStore) Update(ctx context.Context, o *WalletOrder) error {
	b, err := json.Marshal(o)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, walletOrderKey(o.OrderID), b, redis.KeepTTL).Err()
}

func (s *RedisWalletStore) Get(ctx context.Context, orderID string) (*WalletOrder, error) {
	b, err := s.rdb.Get(ctx, walletOrderKey(orderID)).Bytes()
	if err == redis.Nil {
		return nil, ErrWalletOrderNotFound
	} else if err != nil {
		return nil, err
	}
	var o WalletOrder
	if err := json.Unmarshal(b, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

type memoryWalletEntry struct {
	order     WalletOrder
	expiresAt time.Time
}

// MemoryWalletStore is used when Redis is not configured.
type MemoryWalletStore struct {
	mu     sync.Mutex
	orders map[string]memoryWalletEntry
	now    func() time.Time
}

func NewMemoryWalletStore() *MemoryWalletStore {
	return &MemoryWalletStore{orders: make(map[string]memoryWalletEntry), now: time.Now}
}

func (s *MemoryWalletStore) Create(ctx context.Context, o *WalletOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.orders[o.OrderID] = memoryWalletEntry{order: *o, expiresAt: s.now().Add(WalletOrderTTL)}
	return nil
}

func (s *MemoryWalletStore) Update(ctx context.Context, o *WalletOrder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.orders[o.OrderID]
	if !ok || s.now().After(e.expiresAt) {
		return ErrWalletOrderNotFound
	}
	e.order = *o
	s.orders[o.OrderID] = e
	return nil
}

func (s *MemoryWalletStore) Get(ctx context.Context, orderID string) (*WalletOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.orders[orderID]
	if !ok {
		return nil, ErrWalletOrderNotFound
	}
	if s.now().After(e.expiresAt) {
		delete(s.orders, orderID)
		return nil, ErrWalletOrderNotFound
	}
	o := e.order
	return &o, nil
}
