package mocks

import (
	"context"

	"github.com/devandanger/firebase-utils/core/firestore"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of firestore.Client
type Client struct {
	mock.Mock
}

func (m *Client) GetDocument(ctx context.Context, path string) (*firestore.Record, error) {
	args := m.Called(ctx, path)
	if rec, ok := args.Get(0).(*firestore.Record); ok {
		return rec, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) ListCollection(ctx context.Context, spec firestore.CollectionSpec) ([]*firestore.Record, error) {
	args := m.Called(ctx, spec)
	if recs, ok := args.Get(0).([]*firestore.Record); ok {
		return recs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Client) StreamCollection(ctx context.Context, spec firestore.CollectionSpec) (<-chan *firestore.Record, <-chan error) {
	args := m.Called(ctx, spec)

	recordCh := make(chan *firestore.Record)
	errCh := make(chan error, 1)

	records, _ := args.Get(0).([]*firestore.Record)
	err, _ := args.Get(1).(error)

	go func() {
		defer close(recordCh)
		for _, rec := range records {
			select {
			case recordCh <- rec:
			case <-ctx.Done():
				errCh <- ctx.Err()
				return
			}
		}
		errCh <- err
	}()

	return recordCh, errCh
}
