package controller

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/entity"
	"cloess-chatbot-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChat struct {
	last *dto.ChatRequest
}

func (f *fakeChat) SendChat(_ context.Context, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	f.last = req
	sid := req.SessionId
	if sid == "" {
		sid = "session_deadbeef"
	}
	return &dto.ChatResponse{Response: "Ahlan!", SessionId: sid}, nil
}

func (f *fakeChat) History(_ context.Context, sessionId string) ([]*dto.ChatTurnResponse, error) {
	return []*dto.ChatTurnResponse{{Role: "user", Text: "hello"}}, nil
}

type fakeCatalog struct {
	priceRange *dto.PriceRangeRequest
}

func (f *fakeCatalog) List(context.Context, *dto.ListProductsRequest) (*dto.ProductListResponse, error) {
	return &dto.ProductListResponse{Products: []*dto.ProductResponse{{Id: 1, Name: "Fouta Towel"}}, Count: 1}, nil
}

func (f *fakeCatalog) Search(_ context.Context, req *dto.SearchProductsRequest) (*dto.ProductListResponse, error) {
	return &dto.ProductListResponse{Products: []*dto.ProductResponse{}, Count: 0}, nil
}

func (f *fakeCatalog) PriceRange(_ context.Context, req *dto.PriceRangeRequest) (*dto.ProductListResponse, error) {
	f.priceRange = req
	return &dto.ProductListResponse{Products: []*dto.ProductResponse{}}, nil
}

func (f *fakeCatalog) Stats(context.Context) (*dto.CatalogStatsResponse, error) {
	return &dto.CatalogStatsResponse{TotalProducts: 3}, nil
}

func (f *fakeCatalog) Show(_ context.Context, id int) (*dto.ProductResponse, error) {
	if id != 1 {
		return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	return &dto.ProductResponse{Id: 1, Name: "Fouta Towel"}, nil
}

func (f *fakeCatalog) Categories(context.Context) (*dto.CategoryListResponse, error) {
	return &dto.CategoryListResponse{Categories: []string{"Accessories"}}, nil
}

type fakeAnalytics struct {
	ip     string
	queued *dto.TrackInteractionRequest
	fail   bool
}

func (f *fakeAnalytics) TrackSession(_ context.Context, ip, _ string) (*entity.VisitorSession, error) {
	f.ip = ip
	return &entity.VisitorSession{Id: 42, IPAddress: ip}, nil
}

func (f *fakeAnalytics) QueueInteraction(_ context.Context, ip, _ string, req *dto.TrackInteractionRequest) bool {
	f.ip, f.queued = ip, req
	return !f.fail
}

func (f *fakeAnalytics) RecordInteraction(context.Context, *dto.PublishInteractionMessage) error {
	return nil
}

func (f *fakeAnalytics) VisitorReport(context.Context, int) (*dto.VisitorReportListResponse, error) {
	return &dto.VisitorReportListResponse{Users: []*dto.VisitorReportResponse{}}, nil
}

func (f *fakeAnalytics) EngagementReport(context.Context, *int) (*dto.ProductEngagementListResponse, error) {
	return &dto.ProductEngagementListResponse{Products: []*dto.ProductEngagementResponse{}}, nil
}

func (f *fakeAnalytics) CountryReport(context.Context) (*dto.CountryReportListResponse, error) {
	return &dto.CountryReportListResponse{Countries: []*dto.CountryReportResponse{}}, nil
}

func (f *fakeAnalytics) Logs(context.Context, *dto.LogListRequest) ([]*dto.LogListResponse, error) {
	return []*dto.LogListResponse{}, nil
}

func newApp(register ...func(fiber.Router)) *fiber.App {
	app := fiber.New()
	app.Use(serverutils.ErrorHandlerMiddleware())
	api := app.Group("/api")
	for _, r := range register {
		r(api)
	}
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	out := map[string]any{}
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp.StatusCode, out
}

func TestChatEndpoint(t *testing.T) {
	chat := &fakeChat{}
	app := newApp(NewChatController(chat, nil).RegisterRoutes)

	code, body := do(t, app, "POST", "/api/chat", `{"message":"  hello  ","session_id":"session_1234abcd"}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, "Ahlan!", body["response"])
	assert.Equal(t, "session_1234abcd", body["session_id"])
	assert.Equal(t, "hello", chat.last.Message)

	code, body = do(t, app, "POST", "/api/chat", `{"message":"   "}`)
	assert.Equal(t, 400, code)
	assert.Equal(t, "Validation failed", body["message"])

	code, _ = do(t, app, "POST", "/api/chat", `not json`)
	assert.Equal(t, 400, code)
}

func TestChatHistoryEndpoint(t *testing.T) {
	app := newApp(NewChatController(&fakeChat{}, nil).RegisterRoutes)

	code, body := do(t, app, "GET", "/api/chat/history/session_1234abcd", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["data"], 1)
}

func TestCatalogEndpoints(t *testing.T) {
	catalog := &fakeCatalog{}
	app := newApp(NewCatalogController(catalog).RegisterRoutes)

	code, body := do(t, app, "GET", "/api/products?limit=10", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, float64(1), body["data"].(map[string]any)["count"])

	code, _ = do(t, app, "GET", "/api/products?limit=1000", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, app, "GET", "/api/products/search", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, app, "GET", "/api/products/price-range?min_price=10&max_price=80", "")
	assert.Equal(t, 200, code)
	require.NotNil(t, catalog.priceRange.MinPrice)
	assert.Equal(t, 10.0, *catalog.priceRange.MinPrice)
	assert.Equal(t, 80.0, *catalog.priceRange.MaxPrice)

	code, _ = do(t, app, "GET", "/api/products/price-range?min_price=cheap", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, app, "GET", "/api/products/1", "")
	assert.Equal(t, 200, code)

	code, body = do(t, app, "GET", "/api/products/99", "")
	assert.Equal(t, 404, code)
	assert.Equal(t, "Product not found", body["message"])

	code, _ = do(t, app, "GET", "/api/products/abc", "")
	assert.Equal(t, 400, code)

	code, body = do(t, app, "GET", "/api/health", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "healthy", body["status"])
}

func TestTrackInteractionEndpoint(t *testing.T) {
	analytics := &fakeAnalytics{}
	app := newApp(NewAnalyticsController(analytics, "").RegisterRoutes)

	req := httptest.NewRequest("POST", "/api/analytics/track-interaction",
		strings.NewReader(`{"product_id":3,"interaction_type":"hover","duration_ms":1500}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Forwarded-For", "41.226.1.1, 10.0.0.1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, "41.226.1.1", analytics.ip)
	assert.Equal(t, int64(1500), *analytics.queued.DurationMs)

	code, _ := do(t, app, "POST", "/api/analytics/track-interaction", `{"product_id":3,"interaction_type":"scroll"}`)
	assert.Equal(t, 400, code)

	analytics.fail = true
	code, body := do(t, app, "POST", "/api/analytics/track-interaction", `{"product_id":3,"interaction_type":"click"}`)
	assert.Equal(t, 200, code)
	assert.Equal(t, "error", body["status"])
}

func TestTrackSessionEndpoint(t *testing.T) {
	app := newApp(NewAnalyticsController(&fakeAnalytics{}, "").RegisterRoutes)

	code, body := do(t, app, "POST", "/api/analytics/session", "")
	assert.Equal(t, 200, code)
	assert.Equal(t, "success", body["status"])
	assert.Equal(t, float64(42), body["user_session_id"])
}

func TestAnalyticsReportsRequireToken(t *testing.T) {
	app := newApp(NewAnalyticsController(&fakeAnalytics{}, "s3cret").RegisterRoutes)

	for _, path := range []string{"/api/analytics/users", "/api/analytics/products", "/api/analytics/countries", "/api/analytics/logs"} {
		code, _ := do(t, app, "GET", path, "")
		assert.Equal(t, 401, code, path)
	}

	code, _ := do(t, app, "POST", "/api/analytics/session", "")
	assert.Equal(t, 200, code)
}

func TestAnalyticsReportsOpenWithoutSecret(t *testing.T) {
	app := newApp(NewAnalyticsController(&fakeAnalytics{}, "").RegisterRoutes)

	code, _ := do(t, app, "GET", "/api/analytics/users?limit=5", "")
	assert.Equal(t, 200, code)

	code, _ = do(t, app, "GET", "/api/analytics/products?product_id=x", "")
	assert.Equal(t, 400, code)

	code, _ = do(t, app, "GET", "/api/analytics/logs?level=ERROR", "")
	assert.Equal(t, 200, code)
}
