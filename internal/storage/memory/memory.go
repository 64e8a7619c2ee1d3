// Package memory реализует хранилище в памяти процесса. Используется для
// локальной разработки и в тестах сервисов; соблюдает те же ограничения,
// что и PostgreSQL: одна активная подписка на клиента и уникальный логин.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/magabrotheeeer/gym-manager/internal/models"
)

// Storage хранит коллекции в map по идентификатору.
//
// txMu сериализует всех писателей: и одиночные записи, и единицы работы WithinTx.
// Чтения вне единицы работы берут его на чтение и не видят незафиксированных изменений.
// mu защищает сами map и берётся на короткое время внутри каждой операции.
type Storage struct {
	txMu sync.RWMutex
	mu   sync.RWMutex

	users         map[string]models.User
	packages      map[string]models.Package
	subscriptions map[string]models.Subscription
	transactions  map[string]models.Transaction
	products      map[string]models.Product
}

// New создаёт пустое хранилище.
func New() *Storage {
	return &Storage{
		users:         make(map[string]models.User),
		packages:      make(map[string]models.Package),
		subscriptions: make(map[string]models.Subscription),
		transactions:  make(map[string]models.Transaction),
		products:      make(map[string]models.Product),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	_, ok := ctx.Value(txKey{}).(struct{})
	return ok
}

type snapshot struct {
	users         map[string]models.User
	packages      map[string]models.Package
	subscriptions map[string]models.Subscription
	transactions  map[string]models.Transaction
	products      map[string]models.Product
}

func (s *Storage) snapshot() snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return snapshot{
		users:         maps.Clone(s.users),
		packages:      maps.Clone(s.packages),
		subscriptions: maps.Clone(s.subscriptions),
		transactions:  maps.Clone(s.transactions),
		products:      maps.Clone(s.products),
	}
}

func (s *Storage) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users = snap.users
	s.packages = snap.packages
	s.subscriptions = snap.subscriptions
	s.transactions = snap.transactions
	s.products = snap.products
}

// WithinTx выполняет fn как единое целое: при ошибке все изменения,
// сделанные внутри fn, откатываются. Вложенный вызов переиспользует внешнюю единицу.
func (s *Storage) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	const op = "storage.memory.WithinTx"
	if inTx(ctx) {
		return fn(ctx)
	}

	s.txMu.Lock()
	defer s.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	snap := s.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.restore(snap)
		return err
	}
	if err := ctx.Err(); err != nil {
		s.restore(snap)
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// write выполняет изменение под блокировкой писателя.
func (s *Storage) write(ctx context.Context, op string, f func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !inTx(ctx) {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return f()
}

// read выполняет чтение под разделяемой блокировкой.
func (s *Storage) read(ctx context.Context, op string, f func() error) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !inTx(ctx) {
		s.txMu.RLock()
		defer s.txMu.RUnlock()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f()
}

func byCreated(aCreated time.Time, aID string, bCreated time.Time, bID string) int {
	if c := aCreated.Compare(bCreated); c != 0 {
		return c
	}
	return cmp.Compare(aID, bID)
}

func sortedValues[T any](m map[string]T, less func(a, b *T) int) []*T {
	out := make([]*T, 0, len(m))
	for _, v := range m {
		out = append(out, &v)
	}
	slices.SortFunc(out, less)
	return out
}
