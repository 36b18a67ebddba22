//go:build e2e
// +build e2e

package e2e_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/ammerola/pantry-be/internal/adapters/db"
	"github.com/ammerola/pantry-be/internal/adapters/export"
	redis_a "github.com/ammerola/pantry-be/internal/adapters/redis_adapter"
	"github.com/ammerola/pantry-be/internal/adapters/storage"
	"github.com/ammerola/pantry-be/internal/core/domain"
	"github.com/ammerola/pantry-be/internal/core/services"
	"github.com/ammerola/pantry-be/internal/handlers"
	"github.com/ammerola/pantry-be/internal/pkg/metrics"
	"github.com/ammerola/pantry-be/test/helpers"
)

type InventoryE2ESuite struct {
	suite.Suite
	server    *httptest.Server
	client    *http.Client
	baseURL   string
	token     string
	testDB    *helpers.TestDB
	testRedis *helpers.TestRedis
}

func (s *InventoryE2ESuite) SetupSuite() {
	s.testDB = helpers.SetupTestDB(s.T())
	s.testRedis = helpers.SetupTestRedis(s.T())

	s.server = s.startTestServer()
	s.client = &http.Client{Timeout: 10 * time.Second}
	s.baseURL = s.server.URL + handlers.APIPrefix
}

func (s *InventoryE2ESuite) TearDownSuite() {
	s.server.Close()
}

func (s *InventoryE2ESuite) SetupTest() {
	helpers.TruncateAllTables(s.T(), s.testDB.PgxPool)
	s.testRedis.Server.FlushAll()
	s.token = s.signUp("cook@example.com", "secret1")
}

func (s *InventoryE2ESuite) TestCompleteInventoryWorkflow() {
	// 1. Add an item twice
	resp := s.makeRequest(http.MethodPost, "/items", map[string]string{"name": "rice", "category": "Food"})
	s.Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPost, "/items", map[string]string{"name": " rice ", "category": "Food"})
	s.Equal(http.StatusOK, resp.StatusCode)
	var added handlers.QuantityResponse
	s.decodeResponse(resp, &added)
	s.Equal(2, added.Quantity)

	// 2. Retrieve it
	resp = s.makeRequest(http.MethodGet, "/items/rice", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	var item domain.Item
	s.decodeResponse(resp, &item)
	s.Equal("Food", item.Category)
	s.False(item.CreatedAt.IsZero())

	// 3. Remove units until it is gone
	resp = s.makeRequest(http.MethodPost, "/items/rice/remove-one", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPost, "/items/rice/remove-one", nil)
	var removed handlers.QuantityResponse
	s.decodeResponse(resp, &removed)
	s.True(removed.Deleted)

	resp = s.makeRequest(http.MethodGet, "/items/rice", nil)
	s.Equal(http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

func (s *InventoryE2ESuite) TestImportWorkflow() {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "pantry.csv")
	s.Require().NoError(err)
	_, _ = part.Write([]byte("name,quantity,category\nrice,3,Food\nradio,1,Electronics\nbeans,x,Food\n"))
	s.Require().NoError(writer.Close())

	req, err := http.NewRequest(http.MethodPost, s.baseURL+"/items/import", &buf)
	s.Require().NoError(err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.token)

	resp, err := s.client.Do(req)
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var result domain.ImportResult
	s.decodeResponse(resp, &result)
	s.Equal(2, result.Imported)
	s.Equal(1, result.Failed)

	// the CSV export round-trips through the importer
	resp = s.makeRequest(http.MethodGet, "/export/csv", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode)
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	s.Require().NoError(err)

	items, err := export.ParseCSV(bytes.NewReader(data))
	s.Require().NoError(err)
	s.Len(items, 2)
	s.Equal("radio", items[0].Name)
	s.Equal(3, items[1].Quantity)
}

func (s *InventoryE2ESuite) TestSearchFunctionality() {
	for _, item := range []struct{ name, category string }{
		{"Basmati Rice", "Food"}, {"rice cooker", "Electronics"}, {"cookbook", "Books"},
	} {
		resp := s.makeRequest(http.MethodPost, "/items", map[string]string{"name": item.name, "category": item.category})
		s.Equal(http.StatusCreated, resp.StatusCode)
		resp.Body.Close()
	}

	resp := s.makeRequest(http.MethodGet, "/items?search=RICE", nil)
	var list handlers.ListResponse
	s.decodeResponse(resp, &list)
	s.Equal(2, list.Count)

	resp = s.makeRequest(http.MethodGet, "/items?search=cook&category=Books", nil)
	s.decodeResponse(resp, &list)
	s.Require().Equal(1, list.Count)
	s.Equal("cookbook", list.Items[0].Name)
}

func (s *InventoryE2ESuite) TestConcurrentRequests() {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp := s.makeRequest(http.MethodPost, "/items",
				map[string]string{"name": fmt.Sprintf("item-%02d", idx), "category": "Food"})
			s.Equal(http.StatusCreated, resp.StatusCode)
			resp.Body.Close()
		}(i)
	}
	wg.Wait()

	resp := s.makeRequest(http.MethodGet, "/summary", nil)
	var summary domain.Summary
	s.decodeResponse(resp, &summary)
	s.Equal(10, summary.TotalItems)
}

func (s *InventoryE2ESuite) TestSessionsLiveInRedis() {
	keys := s.testRedis.Server.Keys()
	s.NotEmpty(keys)

	resp := s.makeRequest(http.MethodPost, "/auth/sign-out-all", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	helpers.AssertEventuallyWithTimeout(s.T(), func() bool {
		return len(s.testRedis.Server.Keys()) == 0
	}, time.Second, "sessions should be removed from redis")

	resp = s.makeRequest(http.MethodGet, "/items", nil)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *InventoryE2ESuite) TestHealthCheck() {
	resp, err := s.client.Get(s.server.URL + "/health")
	s.Require().NoError(err)
	s.Equal(http.StatusOK, resp.StatusCode)

	var health map[string]interface{}
	s.decodeResponse(resp, &health)
	s.Equal("healthy", health["status"])

	services := health["services"].(map[string]interface{})
	s.Contains(services, "store")
	s.Contains(services, "redis")
}

// Helper methods

func (s *InventoryE2ESuite) startTestServer() *httptest.Server {
	logger := helpers.TestLogger()
	cfg := helpers.LoadTestConfig()
	m := metrics.New()

	store := metrics.InstrumentStore(db.NewItemStore(s.testDB.Database, logger), "postgres", m)
	inventory := services.NewInventoryService(store, logger)
	auth := services.NewAuthService(
		db.NewUserDirectory(s.testDB.Database, logger),
		redis_a.NewSessionStore(s.testRedis.Client, logger),
		services.AuthConfig{SessionTTL: time.Hour, BcryptCost: 4},
		logger)
	exports := services.NewExportService(inventory, export.NewExporter(),
		storage.NewLocalStorage(s.T().TempDir(), logger),
		services.ExportConfig{Prefix: "exports", PresignTTL: time.Minute}, logger)

	return httptest.NewServer(handlers.NewRouter(handlers.Dependencies{
		Auth:      auth,
		Inventory: inventory,
		Exports:   exports,
		Store:     s.testDB.Database,
		Redis:     s.testRedis.Client,
		Metrics:   m,
		Config:    cfg,
		Logger:    logger,
	}))
}

func (s *InventoryE2ESuite) signUp(email, password string) string {
	creds := map[string]string{"email": email, "password": password}

	resp := s.makeRequest(http.MethodPost, "/auth/register", creds)
	s.Require().Equal(http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = s.makeRequest(http.MethodPost, "/auth/sign-in", creds)
	s.Require().Equal(http.StatusOK, resp.StatusCode)

	var session domain.Session
	s.decodeResponse(resp, &session)
	return session.Token
}

func (s *InventoryE2ESuite) makeRequest(method, path string, body interface{}) *http.Response {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		s.NoError(err)
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(context.Background(), method, s.baseURL+path, reqBody)
	s.NoError(err)

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	s.NoError(err)

	return resp
}

func (s *InventoryE2ESuite) decodeResponse(resp *http.Response, v interface{}) {
	defer resp.Body.Close()
	err := json.NewDecoder(resp.Body).Decode(v)
	s.NoError(err)
}

func TestInventoryE2ESuite(t *testing.T) {
	suite.Run(t, new(InventoryE2ESuite))
}
