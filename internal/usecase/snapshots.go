package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/Gunvolt24/techshop/internal/domain"
	"github.com/Gunvolt24/techshop/internal/ports"
)

// SnapshotNamespace — пространство KV-хранилища с суммами оформленных заказов.
const SnapshotNamespace = "orders"

// SnapshotStore — суммы заказов, зафиксированные при оформлении через этот сервис.
// Внешний API сумму не хранит, а пересчёт по текущим ценам со временем расходится.
type SnapshotStore struct {
	kv ports.KVStore
}

func NewSnapshotStore(kv ports.KVStore) *SnapshotStore {
	return &SnapshotStore{kv: kv}
}

func (s *SnapshotStore) Save(ctx context.Context, snap domain.OrderSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.kv.Put(ctx, SnapshotNamespace, snapshotKey(snap.OrderID), raw)
}

// Load — (snapshot, true, nil), если сумма зафиксирована; битое значение считается отсутствующим.
func (s *SnapshotStore) Load(ctx context.Context, orderID int64) (*domain.OrderSnapshot, bool, error) {
	raw, ok, err := s.kv.Get(ctx, SnapshotNamespace, snapshotKey(orderID))
	if err != nil || !ok {
		return nil, false, err
	}
	var snap domain.OrderSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return nil, false, nil
	}
	return &snap, true, nil
}

func (s *SnapshotStore) Delete(ctx context.Context, orderID int64) error {
	return s.kv.Delete(ctx, SnapshotNamespace, snapshotKey(orderID))
}

func snapshotKey(orderID int64) string {
	return strconv.FormatInt(orderID, 10)
}
