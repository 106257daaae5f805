package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skycast-dev/skycast/internal/cache"
	"github.com/skycast-dev/skycast/internal/domain"
	authctrl "github.com/skycast-dev/skycast/internal/http/controllers/auth"
	healthctrl "github.com/skycast-dev/skycast/internal/http/controllers/health"
	weatherctrl "github.com/skycast-dev/skycast/internal/http/controllers/weather"
	authsvc "github.com/skycast-dev/skycast/internal/http/services/auth"
	weathersvc "github.com/skycast-dev/skycast/internal/http/services/weather"
	jwtx "github.com/skycast-dev/skycast/internal/jwt"
	"github.com/skycast-dev/skycast/internal/oauth/google"
	"github.com/skycast-dev/skycast/internal/store/memory"
	upstream "github.com/skycast-dev/skycast/internal/weather"
)

var testKey = []byte("0123456789abcdef0123456789abcdef")

const (
	testIss = "skycast-auth"
	testAud = "skycast-clients"
)

type fakeGoogleVerifier struct {
	claims *google.IDClaims
	err    error
}

func (f *fakeGoogleVerifier) VerifyIDToken(context.Context, string) (*google.IDClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()

	users := memory.New()
	issuer := jwtx.NewIssuer(testKey, testIss, testAud, time.Hour)
	fv := &fakeGoogleVerifier{claims: &google.IDClaims{Sub: "g-1", Email: "fede@gmail.com"}}

	ctrls := authctrl.NewControllers(authctrl.Services{
		Register: authsvc.NewRegisterService(authsvc.RegisterDeps{Users: users, Issuer: issuer}),
		Login:    authsvc.NewLoginService(authsvc.LoginDeps{Users: users, Issuer: issuer}),
		Google:   authsvc.NewGoogleService(authsvc.GoogleDeps{Users: users, Verifier: fv, Issuer: issuer}),
	})
	health := healthctrl.NewController("authsvc", healthctrl.Check{Name: "store", Ping: users.Ping})

	srv := httptest.NewServer(NewAuthRouter(AuthRouterDeps{
		Controllers:    ctrls,
		Health:         health,
		AllowedOrigins: []string{"http://localhost:4200"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	var m map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
	return m
}

func TestAuthEndToEnd(t *testing.T) {
	srv := newAuthServer(t)

	t.Run("register devuelve token", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
			"username": "fede", "password": "hunter22", "email": "fede@example.com",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.Equal(t, "fede", body["username"])
		assert.Equal(t, "fede@example.com", body["email"])
		assert.NotEmpty(t, body["token"])
	})

	t.Run("register duplicado es 400", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/register", map[string]string{
			"username": "fede", "password": "otra", "email": "otro@example.com",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("login ok", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"username": "fede", "password": "hunter22",
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("login con password incorrecto es 400", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/login", map[string]string{
			"username": "fede", "password": "nope",
		})
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("google crea cuenta federada", func(t *testing.T) {
		resp := postJSON(t, srv.URL+"/api/auth/google", map[string]string{"idToken": "raw"})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "fede_google", body["username"])
	})

	t.Run("json invalido es 400", func(t *testing.T) {
		resp, err := http.Post(srv.URL+"/api/auth/register", "application/json", bytes.NewReader([]byte("{nope")))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("GET sobre register es 405", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/auth/register")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("healthz y readyz", func(t *testing.T) {
		for _, path := range []string{"/healthz", "/readyz"} {
			resp, err := http.Get(srv.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("metrics expuesto", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("preflight CORS", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
		req.Header.Set("Origin", "http://localhost:4200")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		assert.Equal(t, "http://localhost:4200", resp.Header.Get("Access-Control-Allow-Origin"))
	})
}

type staticFetcher struct{ obs *upstream.Observation }

func (s staticFetcher) Current(context.Context, string) (*upstream.Observation, error) {
	return s.obs, nil
}

func newWeatherServer(t *testing.T) *httptest.Server {
	t.Helper()

	c, err := cache.New(cache.Config{Driver: "memory", Prefix: "t:"})
	require.NoError(t, err)

	svc := weathersvc.NewService(staticFetcher{obs: &upstream.Observation{
		City: "Bogota", Country: "Colombia", CurrentTemperature: 17,
	}}, c, time.Minute)

	srv := httptest.NewServer(NewWeatherRouter(WeatherRouterDeps{
		Controller:     weatherctrl.NewController(svc),
		Health:         healthctrl.NewController("weathersvc", healthctrl.Check{Name: "cache", Ping: c.Ping}),
		Verifier:       &jwtx.Verifier{Key: testKey, Iss: testIss, Aud: testAud},
		AllowedOrigins: []string{"http://localhost:4200"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestWeatherEndToEnd(t *testing.T) {
	srv := newWeatherServer(t)

	issuer := jwtx.NewIssuer(testKey, testIss, testAud, time.Hour)
	token, _, err := issuer.Issue(userForToken())
	require.NoError(t, err)

	get := func(t *testing.T, city, bearer string) *http.Response {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/weather/"+city, nil)
		if bearer != "" {
			req.Header.Set("Authorization", "Bearer "+bearer)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return resp
	}

	t.Run("sin token es 401", func(t *testing.T) {
		resp := get(t, "Bogota", "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("token invalido es 401", func(t *testing.T) {
		resp := get(t, "Bogota", "garbage.token.here")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("con token devuelve observacion", func(t *testing.T) {
		resp := get(t, "Bogota", token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		body := decodeBody(t, resp)
		assert.Equal(t, "Bogota", body["city"])
		assert.Equal(t, "Colombia", body["country"])
		assert.InDelta(t, 17.0, body["currentTemperature"], 0.001)
	})

	t.Run("ruta desconocida es 404", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/api/nope", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func userForToken() *domain.User {
	return &domain.User{Username: "fede", Email: "fede@example.com"}
}
