package test

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/biso-no/shopcore/internal/adapter/rowstore"
	"github.com/biso-no/shopcore/internal/domain/model"
)

// PaymentClientStub simulates the payment gateway.
type PaymentClientStub struct {
	CreateSessionFn func(context.Context, string, int64, string) (*model.PaymentSession, error)
	GetPaymentFn    func(context.Context, string) (model.PaymentState, error)

	States   map[string]model.PaymentState
	Sessions []string
}

// CreateSession records the reference and returns a deterministic redirect.
func (s *PaymentClientStub) CreateSession(ctx context.Context, reference string, amountMinor int64, description string) (*model.PaymentSession, error) {
	if s.CreateSessionFn != nil {
		return s.CreateSessionFn(ctx, reference, amountMinor, description)
	}
	s.Sessions = append(s.Sessions, reference)
	return &model.PaymentSession{Reference: reference, RedirectURL: "https://pay.example/" + reference}, nil
}

// GetPayment returns the configured state, defaulting to captured.
func (s *PaymentClientStub) GetPayment(ctx context.Context, reference string) (model.PaymentState, error) {
	if s.GetPaymentFn != nil {
		return s.GetPaymentFn(ctx, reference)
	}
	if state, ok := s.States[reference]; ok {
		return state, nil
	}
	return model.PaymentStateCaptured, nil
}

// PublishedEvent captures a single Publish invocation.
type PublishedEvent struct {
	RoutingKey string
	Payload    any
}

// PublisherStub records published events.
type PublisherStub struct {
	PublishFn func(context.Context, string, any) error

	mu     sync.Mutex
	Events []PublishedEvent
}

// Publish appends the event unless an override is set.
func (s *PublisherStub) Publish(ctx context.Context, routingKey string, payload any) error {
	if s.PublishFn != nil {
		return s.PublishFn(ctx, routingKey, payload)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Events = append(s.Events, PublishedEvent{RoutingKey: routingKey, Payload: payload})
	return nil
}

// Published returns a snapshot of recorded events.
func (s *PublisherStub) Published() []PublishedEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]PublishedEvent, len(s.Events))
	copy(out, s.Events)
	return out
}

// Close is a no-op.
func (s *PublisherStub) Close() error { return nil }

// RowStoreClientStub serves rows from in-memory tables for repository tests.
// Query expressions are recorded but not evaluated; tests preload the exact
// result set they expect the store to return.
type RowStoreClientStub struct {
	ListRowsFn func(context.Context, string, []rowstore.Query) (*rowstore.RowList, error)

	Tables  map[string][]json.RawMessage
	Queries [][]rowstore.Query
	Err     error
	Created map[string]any
	Updated map[string]any
	Deleted []string
}

// ListRows returns the preloaded table contents.
func (s *RowStoreClientStub) ListRows(ctx context.Context, table string, queries []rowstore.Query) (*rowstore.RowList, error) {
	s.Queries = append(s.Queries, queries)
	if s.ListRowsFn != nil {
		return s.ListRowsFn(ctx, table, queries)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	rows := s.Tables[table]
	return &rowstore.RowList{Total: len(rows), Rows: rows}, nil
}

// GetRow locates a row whose "$id" field matches.
func (s *RowStoreClientStub) GetRow(ctx context.Context, table, id string) (json.RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	for _, raw := range s.Tables[table] {
		var probe struct {
			ID string `json:"$id"`
		}
		if err := json.Unmarshal(raw, &probe); err == nil && probe.ID == id {
			return raw, nil
		}
	}
	return nil, rowstore.ErrRowNotFound
}

// CreateRow records the payload under table/id.
func (s *RowStoreClientStub) CreateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Created == nil {
		s.Created = make(map[string]any)
	}
	s.Created[table+"/"+id] = data
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return raw, nil
}

// UpdateRow records the patch under table/id.
func (s *RowStoreClientStub) UpdateRow(ctx context.Context, table, id string, data any) (json.RawMessage, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Updated == nil {
		s.Updated = make(map[string]any)
	}
	s.Updated[table+"/"+id] = data
	return s.GetRow(ctx, table, id)
}

// DeleteRow records the removed identifier.
func (s *RowStoreClientStub) DeleteRow(ctx context.Context, table, id string) error {
	if s.Err != nil {
		return s.Err
	}
	s.Deleted = append(s.Deleted, table+"/"+id)
	return nil
}
