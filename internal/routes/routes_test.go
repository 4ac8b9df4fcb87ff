package routes

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"testing"
	"time"

	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/config"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/models"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/repository"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/services"
	"github.com/ahmetcoskunkizilkaya/transport-suppliers/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const testSecret = "test-secret"

type memoryAvatars struct {
	keys []string
}

func (m *memoryAvatars) PutAvatar(_ context.Context, key string, _ io.Reader, _ int64, _ string) error {
	m.keys = append(m.keys, key)
	return nil
}

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

type testEnv struct {
	app   *fiber.App
	store *repository.Memory
}

func newTestEnv(t *testing.T, avatars storage.AvatarStore, pinger handlers.Pinger) *testEnv {
	t.Helper()
	cfg := &config.Config{
		StoreDriver:     config.StoreDriverMemory,
		JWTSecret:       testSecret,
		JWTAccessExpiry: time.Hour,
		BaseURL:         "http://api.test",
		MediaURL:        "http://cdn.test/media/",
	}
	store := repository.NewMemory()
	app := fiber.New()
	Setup(app, cfg, Handlers{
		Auth:    handlers.NewAuthHandler(services.NewAuthService(store.Users(), cfg)),
		Health:  handlers.NewHealthHandler(cfg.StoreDriver, pinger),
		User:    handlers.NewUserHandler(services.NewUserService(store.Users(), store.Addresses(), avatars), cfg),
		Profile: handlers.NewProfileHandler(services.NewProfileService(store.Users()), cfg),
		Address: handlers.NewAddressHandler(services.NewAddressService(store.Addresses()), cfg),
		Country: handlers.NewCountryHandler(),
	})
	return &testEnv{app: app, store: store}
}

func tokenFor(t *testing.T, userID uint) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

func (e *testEnv) do(t *testing.T, method, path, body, token string) (int, gjson.Result) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return e.send(t, req, token)
}

func (e *testEnv) send(t *testing.T, req *http.Request, token string) (int, gjson.Result) {
	t.Helper()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, gjson.ParseBytes(raw)
}

func (e *testEnv) user(t *testing.T, username string) *models.User {
	t.Helper()
	u := &models.User{Username: username, DateJoined: time.Now().UTC()}
	require.NoError(t, e.store.Users().Create(context.Background(), u))
	return u
}

func (e *testEnv) address(t *testing.T, city string) *models.Address {
	t.Helper()
	a := &models.Address{Address1: "1 High St", City: city, Country: "KE"}
	require.NoError(t, e.store.Addresses().Create(context.Background(), a))
	return a
}

func TestUnknownVersion(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	for _, path := range []string{"/api/v3/addresses/", "/api/v0/user/1/", "/api/latest/profiles/"} {
		status, body := env.do(t, http.MethodGet, path, "", "")
		assert.Equal(t, http.StatusBadRequest, status, path)
		assert.Equal(t, "Invalid version in URL path.", body.Get("message").String())
	}

	status, _ := env.do(t, http.MethodPost, "/api/v9/addresses/", `{"address1":"a","city":"b","country":"KE"}`, tokenFor(t, 1))
	assert.Equal(t, http.StatusBadRequest, status)
	_, total, err := env.store.Addresses().List(context.Background(), repository.Query{})
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestAnonymousAccess(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.user(t, "judy")
	a := env.address(t, "Nairobi")

	status, body := env.do(t, http.MethodPost, "/api/v1/user/", `{"username":"new"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Authentication credentials were not provided.", body.Get("message").String())

	status, _ = env.do(t, http.MethodPost, "/api/v2/addresses/", `{"address1":"a","city":"b","country":"KE"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodPatch, "/api/v2/addresses/"+strconv.Itoa(int(a.ID))+"/", `{"city":"x"}`, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	status, _ = env.do(t, http.MethodDelete, "/api/v2/user/1/", "", "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body = env.do(t, http.MethodGet, "/api/v1/addresses/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Get("count").Int())

	status, body = env.do(t, http.MethodGet, "/api/v1/profiles/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Get("count").Int())

	status, body = env.do(t, http.MethodGet, "/api/v2/user/", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, body.Get("count").Int())
	assert.Empty(t, body.Get("results").Array())
}

func TestInvalidToken(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	status, body := env.do(t, http.MethodGet, "/api/v1/addresses/", "", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid token.", body.Get("message").String())

	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "1", "exp": time.Now().Add(-time.Minute).Unix(),
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	status, _ = env.do(t, http.MethodGet, "/api/v1/addresses/", "", expired)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestCreateUserWithOnlyUsername(t *testing.T) {
	for _, v := range []string{"v1", "v2"} {
		t.Run(v, func(t *testing.T) {
			env := newTestEnv(t, nil, nil)
			caller := env.user(t, "caller")

			status, body := env.do(t, http.MethodPost, "/api/"+v+"/user/",
				`{"username":"judy","date_joined":"2001-01-01T00:00:00Z"}`, tokenFor(t, caller.ID))
			require.Equal(t, http.StatusCreated, status, body.Raw)
			assert.Equal(t, "judy", body.Get("username").String())
			for _, f := range []string{"first_name", "last_name", "name", "email", "bio", "salutation", "gender"} {
				assert.Equal(t, "", body.Get(f).String(), f)
			}
			assert.Equal(t, gjson.Null, body.Get("avatar").Type)
			assert.Equal(t, gjson.Null, body.Get("mobile").Type)
			assert.NotContains(t, body.Get("date_joined").String(), "2001-01-01")
			assert.False(t, body.Get("addresses").Exists())
			assert.True(t, body.Get("addresses_nested").IsArray())
		})
	}
}

func TestUserIsSelfOnly(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	a := env.user(t, "alice")
	b := env.user(t, "bob")
	tokenA := tokenFor(t, a.ID)
	bPath := "/api/v2/user/" + strconv.Itoa(int(b.ID)) + "/"

	status, body := env.do(t, http.MethodGet, bPath, "", tokenA)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Not found.", body.Get("message").String())

	status, _ = env.do(t, http.MethodPatch, bPath, `{"bio":"hacked"}`, tokenA)
	assert.Equal(t, http.StatusNotFound, status)
	status, _ = env.do(t, http.MethodDelete, bPath, "", tokenA)
	assert.Equal(t, http.StatusNotFound, status)

	status, body = env.do(t, http.MethodGet, "/api/v2/user/", "", tokenA)
	assert.Equal(t, http.StatusOK, status)
	require.EqualValues(t, 1, body.Get("count").Int())
	assert.Equal(t, "alice", body.Get("results.0.username").String())

	status, _ = env.do(t, http.MethodGet, "/api/v2/user/abc/", "", tokenA)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodDelete, "/api/v2/user/"+strconv.Itoa(int(a.ID)), "", tokenA)
	assert.Equal(t, http.StatusNoContent, status)
}

func TestUserUpdateAddresses(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	u := env.user(t, "judy")
	a1 := env.address(t, "Nairobi")
	a2 := env.address(t, "Mombasa")
	token := tokenFor(t, u.ID)
	path := "/api/v2/user/" + strconv.Itoa(int(u.ID)) + "/"

	status, body := env.do(t, http.MethodPatch, path, `{"addresses":[`+strconv.Itoa(int(a2.ID))+`,`+strconv.Itoa(int(a1.ID))+`],"name":"JJ"}`, token)
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, "JJ", body.Get("name").String())
	nested := body.Get("addresses_nested").Array()
	require.Len(t, nested, 2)
	assert.Equal(t, "Nairobi", nested[0].Get("city").String())

	status, body = env.do(t, http.MethodPatch, path, `{"addresses":[99]}`, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `Invalid pk "99" - object does not exist.`, body.Get("fields.addresses.0").String())

	status, body = env.do(t, http.MethodPut, path, `{"username":"other","mobile":"0712-345-678","date_of_birth":"1990-05-01"}`, token)
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, "judy", body.Get("username").String())
	assert.Equal(t, "0712-345-678", body.Get("mobile").String())
	assert.Equal(t, "1990-05-01", body.Get("date_of_birth").String())
	assert.Len(t, body.Get("addresses_nested").Array(), 2)
}

func TestUserValidation(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	u := env.user(t, "judy")
	path := "/api/v1/user/" + strconv.Itoa(int(u.ID)) + "/"

	status, body := env.do(t, http.MethodPatch, path, `{"phone_home":"abc","salutation":"sir","date_of_birth":"01/05/1990"}`, tokenFor(t, u.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("error").Bool())
	assert.True(t, body.Get("fields.date_of_birth").Exists())

	status, body = env.do(t, http.MethodPatch, path, `{"phone_home":"abc","salutation":"sir"}`, tokenFor(t, u.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("fields.phone_home").Exists())
	assert.True(t, body.Get("fields.salutation").Exists())

	status, body = env.do(t, http.MethodPatch, path, `{"bio": `, tokenFor(t, u.ID))
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "JSON parse error.", body.Get("message").String())
}

func TestUserClearsPhoneWithBlank(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	u := env.user(t, "judy")
	token := tokenFor(t, u.ID)
	path := "/api/v2/user/" + strconv.Itoa(int(u.ID)) + "/"

	status, body := env.do(t, http.MethodPatch, path, `{"mobile":"0712-345-678"}`, token)
	require.Equal(t, http.StatusOK, status, body.Raw)

	status, body = env.do(t, http.MethodPatch, path, `{"mobile":"","phone_home":""}`, token)
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, "", body.Get("mobile").String())
	assert.Equal(t, gjson.String, body.Get("mobile").Type)

	status, body = env.do(t, http.MethodPatch, path, `{"mobile":null}`, token)
	require.Equal(t, http.StatusOK, status, body.Raw)
	assert.Equal(t, gjson.Null, body.Get("mobile").Type)
}

func TestAddressLifecycle(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	token := tokenFor(t, env.user(t, "judy").ID)

	status, body := env.do(t, http.MethodPost, "/api/v1/addresses/",
		`{"address1":"Test Address","city":"Test City","country":"KE"}`, token)
	require.Equal(t, http.StatusCreated, status, body.Raw)
	assert.Equal(t, "", body.Get("county").String())
	assert.Equal(t, "KE", body.Get("country").String())
	path := "/api/v1/addresses/" + body.Get("id").String() + "/"

	put := `{"address1":"2 Low St","address2":"Flat 4","area":"Westlands","city":"Nairobi","county":"Nairobi","postcode":"00100","country":"KE"}`
	status, _ = env.do(t, http.MethodPut, path, put, token)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, path, "", "")
	require.Equal(t, http.StatusOK, status)
	for _, f := range []string{"address1", "address2", "area", "city", "county", "postcode", "country"} {
		assert.Equal(t, gjson.Get(put, f).String(), body.Get(f).String(), f)
	}

	status, body = env.do(t, http.MethodPatch, path, `{"postcode":"00200"}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "00200", body.Get("postcode").String())
	assert.Equal(t, "Flat 4", body.Get("address2").String())

	status, body = env.do(t, http.MethodPut, path, `{"address1":"x"}`, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("fields.city").Exists())

	status, body = env.do(t, http.MethodPost, "/api/v2/addresses/", `{"address1":"a","city":"b","country":"Kenya"}`, token)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, `"Kenya" is not a valid choice.`, body.Get("fields.country.0").String())

	status, _ = env.do(t, http.MethodDelete, path, "", token)
	assert.Equal(t, http.StatusNoContent, status)
	status, _ = env.do(t, http.MethodGet, path, "", "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAddressPagination(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	for i := 0; i < 3; i++ {
		env.address(t, "City"+strconv.Itoa(i))
	}

	status, body := env.do(t, http.MethodGet, "/api/v2/addresses/?limit=2", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 3, body.Get("count").Int())
	assert.Equal(t, "http://api.test/api/v2/addresses/?limit=2&offset=2", body.Get("next").String())
	assert.Equal(t, gjson.Null, body.Get("previous").Type)
	results := body.Get("results").Array()
	require.Len(t, results, 2)
	assert.EqualValues(t, 3, results[0].Get("id").Int())
	assert.EqualValues(t, 2, results[1].Get("id").Int())

	status, body = env.do(t, http.MethodGet, "/api/v2/addresses/?limit=2&offset=2", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, gjson.Null, body.Get("next").Type)
	assert.Equal(t, "http://api.test/api/v2/addresses/?limit=2", body.Get("previous").String())
	assert.Len(t, body.Get("results").Array(), 1)
}

func TestAddressPaginationHugeOffset(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	env.address(t, "Nairobi")

	status, body := env.do(t, http.MethodGet, "/api/v1/addresses/?offset=9223372036854775807", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 1, body.Get("count").Int())
	assert.Empty(t, body.Get("results").Array())
	assert.Equal(t, gjson.Null, body.Get("next").Type)
	assert.Equal(t, "http://api.test/api/v1/addresses/?limit=20&offset=2147483627", body.Get("previous").String())
}

func TestProfiles(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	u := env.user(t, "judy")
	env.user(t, "ann")
	a := env.address(t, "Nairobi")
	u.Addresses = []models.Address{*a}
	u.FirstName, u.LastName = "Judy", "Njeri"
	require.NoError(t, env.store.Users().Update(context.Background(), u, true))

	_, anon := env.do(t, http.MethodGet, "/api/v2/profiles/", "", "")
	_, authed := env.do(t, http.MethodGet, "/api/v2/profiles/", "", tokenFor(t, u.ID))
	assert.EqualValues(t, 2, anon.Get("count").Int())
	assert.Equal(t, anon.Get("results.#.username").Raw, authed.Get("results.#.username").Raw)

	status, v1 := env.do(t, http.MethodGet, "/api/v1/profiles/judy/", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Judy Njeri", v1.Get("name").String())
	assert.False(t, v1.Get("email").Exists())
	link := v1.Get("addresses_nested.0")
	assert.EqualValues(t, a.ID, link.Get("id").Int())
	assert.Equal(t, "http://api.test/api/v1/addresses/"+strconv.Itoa(int(a.ID))+"/", link.Get("url").String())
	assert.False(t, link.Get("city").Exists())

	status, v2 := env.do(t, http.MethodGet, "/api/v2/profiles/judy/", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Nairobi", v2.Get("addresses_nested.0.city").String())
	assert.False(t, v2.Get("addresses_nested.0.url").Exists())

	status, _ = env.do(t, http.MethodGet, "/api/v2/profiles/nobody/", "", "")
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = env.do(t, http.MethodPost, "/api/v2/profiles/", `{"username":"x"}`, tokenFor(t, u.ID))
	assert.Equal(t, http.StatusMethodNotAllowed, status)
}

func TestSignupAndToken(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	status, body := env.do(t, http.MethodPost, "/api/auth/signup", `{"username":"judy","email":"judy@example.com","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusCreated, status, body.Raw)
	assert.NotEmpty(t, body.Get("token").String())

	status, body = env.do(t, http.MethodPost, "/api/token/", `{"username":"judy","password":"wrong"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("fields.non_field_errors").Exists())

	status, body = env.do(t, http.MethodPost, "/api/token/", `{"username":"judy","password":"correct-horse"}`, "")
	require.Equal(t, http.StatusOK, status)
	token := body.Get("token").String()

	status, body = env.do(t, http.MethodGet, "/api/v2/user/", "", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "judy", body.Get("results.0.username").String())
	assert.Equal(t, "judy@example.com", body.Get("results.0.email").String())

	status, body = env.do(t, http.MethodPost, "/api/auth/signup", `{"username":"judy","password":"correct-horse"}`, "")
	assert.Equal(t, http.StatusBadRequest, status)
	assert.True(t, body.Get("fields.username").Exists())
}

func avatarRequest(t *testing.T, path, filename string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+filename+`"`)
	header.Set("Content-Type", "image/png")
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestAvatarUpload(t *testing.T) {
	avatars := &memoryAvatars{}
	env := newTestEnv(t, avatars, nil)
	u := env.user(t, "judy")
	path := "/api/v2/user/" + strconv.Itoa(int(u.ID)) + "/avatar/"

	status, _ := env.send(t, avatarRequest(t, path, "me.png"), "")
	assert.Equal(t, http.StatusUnauthorized, status)

	status, body := env.send(t, avatarRequest(t, path, "me.png"), tokenFor(t, u.ID))
	require.Equal(t, http.StatusOK, status, body.Raw)
	require.Len(t, avatars.keys, 1)
	assert.Equal(t, "http://cdn.test/media/"+avatars.keys[0], body.Get("avatar").String())

	status, _ = env.send(t, avatarRequest(t, path, "me.png"), tokenFor(t, u.ID+1))
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAvatarUploadWithoutStorage(t *testing.T) {
	env := newTestEnv(t, nil, nil)
	u := env.user(t, "judy")
	path := "/api/v1/user/" + strconv.Itoa(int(u.ID)) + "/avatar"

	status, _ := env.send(t, avatarRequest(t, path, "me.png"), tokenFor(t, u.ID))
	assert.Equal(t, http.StatusServiceUnavailable, status)
}

func TestMiscRoutes(t *testing.T) {
	env := newTestEnv(t, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp, err := env.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusFound, resp.StatusCode)
	assert.Equal(t, "/api/v1/", resp.Header.Get("Location"))

	status, body := env.do(t, http.MethodGet, "/api/v1/countries/", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 246, body.Get("count").Int())
	assert.Equal(t, "GB", body.Get("results.0.code").String())

	status, body = env.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body.Get("status").String())
	assert.Equal(t, "not configured", body.Get("db").String())
	assert.Equal(t, "memory", body.Get("store").String())
}

func TestHealthReportsDatabaseDown(t *testing.T) {
	env := newTestEnv(t, nil, downPinger{})

	status, body := env.do(t, http.MethodGet, "/api/health", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Contains(t, body.Get("db").String(), "connection refused")
	assert.Equal(t, "degraded", body.Get("status").String())
}
