package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	customizationapp "github.com/storefront/backend/internal/application/customization"
	identityapp "github.com/storefront/backend/internal/application/identity"
	reportapp "github.com/storefront/backend/internal/application/report"
	tradeapp "github.com/storefront/backend/internal/application/trade"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// fixedNow is the clock used by report tests
var fixedNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

// fakeImageStorage records uploads in memory
type fakeImageStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string
	err     error
}

func newFakeImageStorage() *fakeImageStorage {
	return &fakeImageStorage{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

func (f *fakeImageStorage) Upload(_ context.Context, key string, body io.Reader, _ int64, contentType string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return "https://cdn.test/" + key, nil
}

func (f *fakeImageStorage) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	return nil
}

func (f *fakeImageStorage) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// testEnv wires every handler over an in-memory sqlite store
type testEnv struct {
	store  *persistence.Store
	db     *gorm.DB
	images *fakeImageStorage
	router *gin.Engine
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	store := persistence.NewReadyStore(db)
	images := newFakeImageStorage()
	log := zap.NewNop()

	auth := NewAuthHandler(identityapp.NewAuthService(persistence.NewGormAdminRepository(store), log))
	products := NewProductHandler(catalogapp.NewProductService(
		persistence.NewGormProductRepository(store), images, time.Second, log))
	orders := NewOrderHandler(tradeapp.NewOrderService(persistence.NewGormOrderRepository(store), log))
	logos := NewLogoHandler(customizationapp.NewLogoService(persistence.NewGormLogoRepository(store), log))
	reports := NewReportHandler(reportapp.NewReportService(
		persistence.NewGormReportRepository(store), func() time.Time { return fixedNow }, log))

	r := gin.New()
	r.Use(middleware.RequestID())
	r.POST("/register", auth.Register)
	r.POST("/login", auth.Login)
	r.POST("/login-with-id", auth.LoginWithID)
	r.GET("/api/admins", auth.ListAdmins)
	r.GET("/products", products.List)
	r.GET("/all/products", products.List)
	r.POST("/products", products.Create)
	r.PUT("/products/:id", products.Update)
	r.DELETE("/products/:id", products.Delete)
	r.GET("/api/orders", orders.List)
	r.GET("/api/orders/:id", orders.Get)
	r.POST("/api/orders/:id/complete", orders.Complete)
	r.GET("/api/logos", logos.List)
	r.GET("/api/logos/:id", logos.Get)
	r.POST("/api/logos/:id/complete", logos.Approve)
	r.GET("/api/total", reports.Totals)
	r.GET("/api/sales-stats", reports.SalesStats)

	return &testEnv{store: store, db: db, images: images, router: r}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) doJSON(method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return e.do(req)
}

// imagePart describes the file part of a product form
type imagePart struct {
	filename    string
	contentType string
	data        []byte
}

func newProductForm(t *testing.T, fields map[string]string, image *imagePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if image != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="image"; filename="`+image.filename+`"`)
		h.Set("Content-Type", image.contentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(image.data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/products", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

var errUploadDown = errors.New("bucket unreachable")

func newJSONRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}
