// test/mocks/mocks.go

// Package mocks contains generated mocks for the application's interfaces.
// To regenerate mocks, run `go generate ./test/mocks` from the root directory.
package mocks

//go:generate mockgen -source=../../internal/core/ports/item_store.go -destination=item_store_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/inventory_service.go -destination=inventory_service_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/session.go -destination=session_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/classifier.go -destination=classifier_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/exporter.go -destination=exporter_mock.go -package=mocks
//go:generate mockgen -source=../../internal/core/ports/cache.go -destination=cache_mock.go -package=mocks
