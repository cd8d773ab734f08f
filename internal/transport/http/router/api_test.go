package router_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"citydrive-motors/internal/core/auth"
	"citydrive-motors/internal/domain"
	"citydrive-motors/internal/repo"
	"citydrive-motors/internal/service"
	"citydrive-motors/internal/storage"
	"citydrive-motors/internal/transport/http/router"
	"citydrive-motors/pkg/utils"
)

type envelope struct {
	Code   int               `json:"code"`
	Msg    string            `json:"msg"`
	Data   json.RawMessage   `json:"data"`
	Kind   string            `json:"kind"`
	Errors map[string]string `json:"errors"`
}

func setupEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", utils.NewID())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&domain.User{}, &domain.Car{}, &domain.Remark{}))

	jwter := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "citydrive-test", TTL: time.Hour}
	store, err := storage.NewDiskStore(t.TempDir(), 5)
	require.NoError(t, err)

	log := zap.NewNop()
	users := repo.NewUserRepo(db)
	cars := repo.NewCarRepo(db)
	remarks := repo.NewRemarkRepo(db)

	return router.NewAPIEngine(router.Deps{
		Log:      log,
		JWTer:    jwter,
		Auth:     service.NewAuthService(users, jwter, log),
		Cars:     service.NewCarService(cars, nil, 0, log),
		Remarks:  service.NewRemarkService(remarks, cars, users, log),
		Store:    store,
		MaxFiles: 10,
	})
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func doMultipart(t *testing.T, r *gin.Engine, path, token string, fields map[string]string, files map[string][]byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("images", name)
		require.NoError(t, err)
		_, err = fw.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func register(t *testing.T, r *gin.Engine, email, password, name string) {
	t.Helper()
	w, _ := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": email, "password": password, "name": name,
	})
	require.Equal(t, http.StatusCreated, w.Code)
}

func login(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w, env := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": email, "password": password,
	})
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &out))
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

var civicFields = map[string]string{
	"title":   "Civic",
	"brand":   "Honda",
	"model":   "Civic",
	"year":    "2020",
	"price":   "500000",
	"mileage": "10000",
}

func TestRegisterAndLogin(t *testing.T) {
	r := setupEngine(t)

	register(t, r, "alice@example.com", "secret1", "Alice")

	// Same email, different case: rejected, nothing created.
	w, env := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "Alice@Example.COM", "password": "secret2", "name": "Imposter",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "duplicate_email", env.Kind)

	login(t, r, "alice@example.com", "secret1")

	// Wrong password and unknown email are indistinguishable.
	wWrong, envWrong := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "alice@example.com", "password": "wrong",
	})
	wUnknown, envUnknown := doJSON(t, r, http.MethodPost, "/auth/login", "", gin.H{
		"email": "nobody@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, wWrong.Code)
	assert.Equal(t, http.StatusUnauthorized, wUnknown.Code)
	assert.Equal(t, envWrong.Kind, envUnknown.Kind)
	assert.Equal(t, envWrong.Msg, envUnknown.Msg)
}

func TestRegisterValidationListsEveryField(t *testing.T) {
	r := setupEngine(t)
	w, env := doJSON(t, r, http.MethodPost, "/auth/register", "", gin.H{
		"email": "not-an-email", "password": "123",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Kind)
	assert.Contains(t, env.Errors, "email")
	assert.Contains(t, env.Errors, "password")
}

func TestUnauthenticatedMutationRejected(t *testing.T) {
	r := setupEngine(t)

	w, _ := doMultipart(t, r, "/cars", "", civicFields, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodPatch, "/cars/some-id", "", gin.H{"price": 1})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/cars/some-id", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/cars/my-cars", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// An expired token is as good as none.
	expired := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "citydrive-test", TTL: -2 * time.Minute}
	tok, err := expired.Issue("uid", "x@example.com")
	require.NoError(t, err)
	w, _ = doJSON(t, r, http.MethodGet, "/cars/my-cars", tok, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

// TestListingLifecycle walks the whole owner workflow: create with an
// image, read publicly, non-owner rejected, owner patches one field,
// owner deletes, listing and remarks are gone.
func TestListingLifecycle(t *testing.T) {
	r := setupEngine(t)

	register(t, r, "alice@example.com", "secret1", "Alice")
	register(t, r, "bob@example.com", "secret2", "Bob")
	aliceTok := login(t, r, "alice@example.com", "secret1")
	bobTok := login(t, r, "bob@example.com", "secret2")

	// Create with one uploaded image.
	w, env := doMultipart(t, r, "/cars", aliceTok, civicFields, map[string][]byte{
		"civic.jpg": []byte("jpeg-bytes"),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var car domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &car))
	require.NotEmpty(t, car.ID)
	assert.Equal(t, int64(500000), car.Price)
	assert.False(t, car.IsSold)
	require.Len(t, car.Images, 1)
	require.NotNil(t, car.Owner)
	assert.Equal(t, "alice@example.com", car.Owner.Email)

	// The stored image is publicly served.
	imgReq := httptest.NewRequest(http.MethodGet, car.Images[0], nil)
	imgW := httptest.NewRecorder()
	r.ServeHTTP(imgW, imgReq)
	assert.Equal(t, http.StatusOK, imgW.Code)
	assert.Equal(t, "jpeg-bytes", imgW.Body.String())

	// Public feed and my-cars both see it.
	w, env = doJSON(t, r, http.MethodGet, "/cars", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	require.Len(t, feed, 1)

	w, env = doJSON(t, r, http.MethodGet, "/cars/my-cars", bobTok, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var bobCars []domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &bobCars))
	assert.Empty(t, bobCars)

	// Bob cannot touch Alice's listing.
	w, _ = doJSON(t, r, http.MethodPatch, "/cars/"+car.ID, bobTok, gin.H{"price": 1})
	assert.Equal(t, http.StatusForbidden, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/cars/"+car.ID, bobTok, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Alice patches the price; everything else stays put.
	w, env = doJSON(t, r, http.MethodPatch, "/cars/"+car.ID, aliceTok, gin.H{"price": 550000})
	require.Equal(t, http.StatusOK, w.Code)
	var patched domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &patched))
	assert.Equal(t, int64(550000), patched.Price)
	assert.Equal(t, 2020, patched.Year)
	assert.Equal(t, "Civic", patched.Title)
	assert.Len(t, patched.Images, 1)

	// A remark rides along until the listing goes.
	w, _ = doJSON(t, r, http.MethodPost, "/cars/"+car.ID+"/remarks", bobTok, gin.H{
		"content": "is it still available?", "rating": 5,
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = doJSON(t, r, http.MethodDelete, "/cars/"+car.ID, aliceTok, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = doJSON(t, r, http.MethodGet, "/cars/"+car.ID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = doJSON(t, r, http.MethodGet, "/cars/"+car.ID+"/remarks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var remarks []domain.Remark
	require.NoError(t, json.Unmarshal(env.Data, &remarks))
	assert.Empty(t, remarks)
}

func TestMutatingMissingListing(t *testing.T) {
	r := setupEngine(t)
	register(t, r, "alice@example.com", "secret1", "Alice")
	tok := login(t, r, "alice@example.com", "secret1")

	w, _ := doJSON(t, r, http.MethodPatch, "/cars/no-such-id", tok, gin.H{"price": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w, _ = doJSON(t, r, http.MethodDelete, "/cars/no-such-id", tok, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateCarValidationListsEveryField(t *testing.T) {
	r := setupEngine(t)
	register(t, r, "alice@example.com", "secret1", "Alice")
	tok := login(t, r, "alice@example.com", "secret1")

	w, env := doMultipart(t, r, "/cars", tok, map[string]string{
		"model":   "Civic",
		"year":    "1800",
		"price":   "-5",
		"mileage": "10",
	}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_error", env.Kind)
	assert.Contains(t, env.Errors, "title")
	assert.Contains(t, env.Errors, "brand")
	assert.Contains(t, env.Errors, "year")
	assert.Contains(t, env.Errors, "price")
}

func TestCreateCarRejectsBadUpload(t *testing.T) {
	r := setupEngine(t)
	register(t, r, "alice@example.com", "secret1", "Alice")
	tok := login(t, r, "alice@example.com", "secret1")

	w, env := doMultipart(t, r, "/cars", tok, civicFields, map[string][]byte{
		"script.exe": []byte("nope"),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Errors, "images")

	// Nothing was listed.
	w, env = doJSON(t, r, http.MethodGet, "/cars", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var feed []domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &feed))
	assert.Empty(t, feed)
}

func TestRemarkOnMissingListing(t *testing.T) {
	r := setupEngine(t)
	register(t, r, "alice@example.com", "secret1", "Alice")
	tok := login(t, r, "alice@example.com", "secret1")

	w, _ := doJSON(t, r, http.MethodPost, "/cars/no-such-id/remarks", tok, gin.H{"content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRemarksListPublicNewestFirst(t *testing.T) {
	r := setupEngine(t)
	register(t, r, "alice@example.com", "secret1", "Alice")
	tok := login(t, r, "alice@example.com", "secret1")

	w, env := doMultipart(t, r, "/cars", tok, civicFields, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var car domain.Car
	require.NoError(t, json.Unmarshal(env.Data, &car))

	w, env = doJSON(t, r, http.MethodPost, "/cars/"+car.ID+"/remarks", tok, gin.H{
		"content": "clean title?", "rating": 4,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var created domain.Remark
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Alice", created.Author)

	// Listing remarks needs no token.
	w, env = doJSON(t, r, http.MethodGet, "/cars/"+car.ID+"/remarks", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var remarks []domain.Remark
	require.NoError(t, json.Unmarshal(env.Data, &remarks))
	require.Len(t, remarks, 1)
	assert.Equal(t, "clean title?", remarks[0].Content)
	require.NotNil(t, remarks[0].Rating)
	assert.Equal(t, 4, *remarks[0].Rating)
	assert.Equal(t, "Alice", remarks[0].Author)
}
