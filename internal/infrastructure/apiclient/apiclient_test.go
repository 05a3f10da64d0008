package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gemach/admin-console/internal/core/domain"
	"github.com/gemach/admin-console/internal/core/ports"
	"github.com/gemach/admin-console/internal/infrastructure/transport"
)

func newClients(t *testing.T, mux *http.ServeMux) *Clients {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return New(transport.New(transport.Config{BaseURL: srv.URL, Timeout: time.Second}, nil, zerolog.Nop()))
}

func writeJSON(t *testing.T, w http.ResponseWriter, status int, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

func TestAuthClient_Endpoints(t *testing.T) {
	user := &domain.User{ID: "u1", Email: "rivka@example.org", Role: domain.RoleStaff}
	result := domain.AuthResult{AccessToken: "a", RefreshToken: "r", User: user}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "rivka@example.org", body["email"])
		assert.Equal(t, "pw", body["password"])
		writeJSON(t, w, http.StatusOK, result)
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		var body ports.RegisterInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Rivka", body.FirstName)
		writeJSON(t, w, http.StatusCreated, result)
	})
	mux.HandleFunc("POST /auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "r", body["refreshToken"])
		writeJSON(t, w, http.StatusOK, result)
	})
	mux.HandleFunc("POST /auth/logout", func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		assert.Empty(t, b)
		writeJSON(t, w, http.StatusOK, map[string]bool{"success": true})
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, user)
	})
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"status": "ok"})
	})

	c := newClients(t, mux).Auth
	ctx := context.Background()

	res, err := c.Login(ctx, "rivka@example.org", "pw")
	require.NoError(t, err)
	assert.Equal(t, domain.TokenPair{AccessToken: "a", RefreshToken: "r"}, res.Tokens())
	assert.Equal(t, "u1", res.User.ID)

	_, err = c.Register(ctx, ports.RegisterInput{Email: "rivka@example.org", Password: "password1", FirstName: "Rivka", LastName: "L"})
	require.NoError(t, err)

	_, err = c.Refresh(ctx, "r")
	require.NoError(t, err)

	require.NoError(t, c.Logout(ctx))

	u, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.Email, u.Email)

	require.NoError(t, c.Health(ctx))
}

func TestAuthClient_IncompleteResponse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{"accessToken": "a"})
	})
	mux.HandleFunc("GET /auth/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]string{})
	})
	c := newClients(t, mux).Auth

	_, err := c.Login(context.Background(), "a@b.c", "x")
	assert.ErrorIs(t, err, errIncompleteAuth)

	_, err = c.Profile(context.Background())
	assert.ErrorIs(t, err, errIncompleteAuth)
}

func TestAuthClient_LoginRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
	})
	c := newClients(t, mux).Auth

	_, err := c.Login(context.Background(), "a@b.c", "x")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, http.StatusUnauthorized, transport.StatusCode(err))
}

func TestResourceClients(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /users", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "cohen", r.URL.Query().Get("search"))
		writeJSON(t, w, http.StatusOK, domain.Page[domain.User]{Items: []domain.User{{ID: "u1"}}, Total: 11, Page: 2, Limit: 10})
	})
	mux.HandleFunc("PATCH /users/{id}", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]bool
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		writeJSON(t, w, http.StatusOK, domain.User{ID: r.PathValue("id"), IsActive: body["isActive"]})
	})
	mux.HandleFunc("GET /products/{id}/instances", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, domain.Page[domain.ProductInstance]{
			Items: []domain.ProductInstance{{ID: "i1", ProductID: r.PathValue("id"), Status: domain.InstanceAvailable}},
			Total: 1,
		})
	})
	mux.HandleFunc("GET /products", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, http.StatusOK, map[string]any{"total": 0})
	})
	mux.HandleFunc("GET /loans", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "overdue", r.URL.Query().Get("status"))
		writeJSON(t, w, http.StatusOK, domain.Page[domain.Loan]{Items: []domain.Loan{{ID: "l1", Status: domain.LoanOverdue}}, Total: 1})
	})
	mux.HandleFunc("POST /loans/{id}/return", func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		writeJSON(t, w, http.StatusOK, domain.Loan{ID: r.PathValue("id"), Status: domain.LoanReturned, ReturnedAt: &now})
	})
	mux.HandleFunc("GET /volunteers/activities", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "v9", r.URL.Query().Get("volunteerId"))
		writeJSON(t, w, http.StatusOK, domain.Page[domain.VolunteerActivity]{Items: []domain.VolunteerActivity{{ID: "a1", Hours: 3.5}}})
	})
	mux.HandleFunc("GET /audit-logs", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "login", r.URL.Query().Get("action"))
		writeJSON(t, w, http.StatusOK, domain.Page[domain.AuditEntry]{Items: []domain.AuditEntry{{ID: "e1", Action: domain.AuditLogin}}})
	})

	c := newClients(t, mux)
	ctx := context.Background()

	users, err := c.Users.List(ctx, ListParams{Page: 2, Limit: 10, Search: "cohen"})
	require.NoError(t, err)
	assert.Equal(t, 11, users.Total)
	require.Len(t, users.Items, 1)

	u, err := c.Users.SetActive(ctx, "u1", false)
	require.NoError(t, err)
	assert.Equal(t, "u1", u.ID)
	assert.False(t, u.IsActive)

	inst, err := c.Products.Instances(ctx, "p1", ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "p1", inst.Items[0].ProductID)

	products, err := c.Products.List(ctx, ListParams{})
	require.NoError(t, err)
	assert.NotNil(t, products.Items)
	assert.Empty(t, products.Items)

	loans, err := c.Loans.List(ctx, LoanFilter{Status: domain.LoanOverdue})
	require.NoError(t, err)
	assert.Equal(t, domain.LoanOverdue, loans.Items[0].Status)

	returned, err := c.Loans.Return(ctx, "l1")
	require.NoError(t, err)
	assert.Equal(t, domain.LoanReturned, returned.Status)
	assert.NotNil(t, returned.ReturnedAt)

	acts, err := c.Volunteers.Activities(ctx, ActivityFilter{VolunteerID: "v9"})
	require.NoError(t, err)
	assert.InDelta(t, 3.5, acts.Items[0].Hours, 0.001)

	entries, err := c.Audit.List(ctx, AuditFilter{Action: domain.AuditLogin})
	require.NoError(t, err)
	assert.Equal(t, domain.AuditLogin, entries.Items[0].Action)
}
