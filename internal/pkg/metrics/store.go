// internal/pkg/metrics/store.go
package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/ports"
)

// instrumentedStore counts and times every call to the wrapped store. A
// not-found lookup is an expected answer and counted as ok.
type instrumentedStore struct {
	next    ports.ItemStore
	driver  string
	metrics *Metrics
}

// InstrumentStore wraps store so every call is recorded under driver.
func InstrumentStore(store ports.ItemStore, driver string, m *Metrics) ports.ItemStore {
	return &instrumentedStore{next: store, driver: driver, metrics: m}
}

func (s *instrumentedStore) observe(op string, start time.Time, err error) {
	if errors.Is(err, domain.ErrItemNotFound) {
		err = nil
	}
	s.metrics.ObserveStore(s.driver, op, err, time.Since(start))
}

func (s *instrumentedStore) Get(ctx context.Context, namespace, key string) (*domain.Item, error) {
	start := time.Now()
	item, err := s.next.Get(ctx, namespace, key)
	s.observe("get", start, err)
	return item, err
}

func (s *instrumentedStore) List(ctx context.Context, namespace string) ([]domain.Item, error) {
	start := time.Now()
	items, err := s.next.List(ctx, namespace)
	s.observe("list", start, err)
	return items, err
}

func (s *instrumentedStore) Upsert(ctx context.Context, namespace string, item domain.Item) error {
	start := time.Now()
	err := s.next.Upsert(ctx, namespace, item)
	s.observe("upsert", start, err)
	return err
}

func (s *instrumentedStore) Delete(ctx context.Context, namespace, key string) error {
	start := time.Now()
	err := s.next.Delete(ctx, namespace, key)
	s.observe("delete", start, err)
	return err
}

// instrumentedClassifier counts classifier outcomes.
type instrumentedClassifier struct {
	next    ports.Classifier
	metrics *Metrics
}

// InstrumentClassifier wraps classifier so every call is counted.
func InstrumentClassifier(classifier ports.Classifier, m *Metrics) ports.Classifier {
	return &instrumentedClassifier{next: classifier, metrics: m}
}

func (c *instrumentedClassifier) Classify(ctx context.Context, image string) (string, error) {
	label, err := c.next.Classify(ctx, image)
	c.metrics.ObserveClassification(err)
	return label, err
}
