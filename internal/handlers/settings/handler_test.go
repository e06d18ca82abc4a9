package settings

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/kvist-io/settingstore/internal/db"
	"github.com/kvist-io/settingstore/internal/models"
	"github.com/kvist-io/settingstore/internal/pagination"
	"github.com/kvist-io/settingstore/internal/repository"
	"github.com/kvist-io/settingstore/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRouter(t *testing.T) (*mux.Router, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { mockDB.Close() })

	handler := NewHandler(repository.NewSettingRepository(db.NewDB(mockDB)))

	r := mux.NewRouter()
	r.HandleFunc("/settings", handler.HandleList).Methods("GET")
	r.HandleFunc("/settings", handler.HandleCreate).Methods("POST")
	r.HandleFunc("/settings/{id}", handler.HandleGet).Methods("GET")
	r.HandleFunc("/settings/{id}", handler.HandleReplace).Methods("PUT")
	r.HandleFunc("/settings/{id}", handler.HandleDelete).Methods("DELETE")

	return r, mock
}

type listBody struct {
	Items      []models.SettingEnvelope `json:"items"`
	Pagination pagination.Meta          `json:"pagination"`
}

func TestHandleCreate(t *testing.T) {
	t.Run("valid payload returns 201 with envelope", func(t *testing.T) {
		router, mock := setupRouter(t)
		now := time.Now().UTC().Truncate(time.Microsecond)

		mock.ExpectQuery("INSERT INTO settings").
			WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(
				sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now),
			)

		req := testutil.MakeRequest(t, "POST", "/settings", map[string]string{"theme": "dark", "language": "en"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var env models.SettingEnvelope
		testutil.AssertJSONResponse(t, rr, http.StatusCreated, &env)
		assert.NotEqual(t, uuid.Nil, env.UID)
		assert.JSONEq(t, `{"theme": "dark", "language": "en"}`, string(env.Data))
		assert.Equal(t, now, env.Metadata.CreatedAt)
		assert.Equal(t, now, env.Metadata.UpdatedAt)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	rejected := []struct {
		name string
		body string
	}{
		{name: "empty object", body: `{}`},
		{name: "no body", body: ""},
		{name: "invalid JSON", body: `not valid json`},
		{name: "array payload", body: `[1, 2, 3]`},
		{name: "null payload", body: `null`},
	}

	for _, tt := range rejected {
		t.Run(tt.name+" returns 400 without touching storage", func(t *testing.T) {
			router, mock := setupRouter(t)

			req := testutil.MakeRawRequest(t, "POST", "/settings", tt.body)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Contains(t, rr.Body.String(), "error")
			// No expectations were registered, so any query would fail this
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}

	t.Run("storage failure returns fixed 500 message", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("INSERT INTO settings").
			WillReturnError(errors.New("connection refused"))

		req := testutil.MakeRequest(t, "POST", "/settings", map[string]string{"a": "b"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection refused", "internal detail must not leak")
	})
}

func TestHandleGet(t *testing.T) {
	t.Run("existing setting returns 200", func(t *testing.T) {
		router, mock := setupRouter(t)

		id := uuid.New()
		now := time.Now().UTC().Truncate(time.Microsecond)
		mock.ExpectQuery("SELECT id, data, created_at, updated_at FROM settings").
			WithArgs(id).
			WillReturnRows(
				sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
					AddRow(id, []byte(`{"name": "test", "value": 123}`), now, now),
			)

		req := testutil.MakeRequest(t, "GET", "/settings/"+id.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var env models.SettingEnvelope
		testutil.AssertJSONResponse(t, rr, http.StatusOK, &env)
		assert.Equal(t, id, env.UID)
		assert.JSONEq(t, `{"name": "test", "value": 123}`, string(env.Data))
	})

	t.Run("unused UUID returns 404", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("SELECT id, data, created_at, updated_at FROM settings").
			WillReturnError(sql.ErrNoRows)

		req := testutil.MakeRequest(t, "GET", "/settings/00000000-0000-0000-0000-000000000000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("malformed identifier returns 400 without touching storage", func(t *testing.T) {
		router, mock := setupRouter(t)

		req := testutil.MakeRequest(t, "GET", "/settings/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandleReplace(t *testing.T) {
	t.Run("existing setting returns 200 with advanced updated_at", func(t *testing.T) {
		router, mock := setupRouter(t)

		id := uuid.New()
		created := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
		updated := time.Now().UTC().Truncate(time.Microsecond)
		mock.ExpectQuery("UPDATE settings").
			WithArgs(sqlmock.AnyArg(), id).
			WillReturnRows(
				sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(created, updated),
			)

		req := testutil.MakeRequest(t, "PUT", "/settings/"+id.String(), map[string]interface{}{"updated": "new_value", "count": 42})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var env models.SettingEnvelope
		testutil.AssertJSONResponse(t, rr, http.StatusOK, &env)
		assert.Equal(t, id, env.UID)
		assert.JSONEq(t, `{"updated": "new_value", "count": 42}`, string(env.Data))
		assert.Equal(t, created, env.Metadata.CreatedAt, "created_at never changes on replace")
		assert.Equal(t, updated, env.Metadata.UpdatedAt)
	})

	t.Run("unused UUID returns 404", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("UPDATE settings").
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}))

		req := testutil.MakeRequest(t, "PUT", "/settings/00000000-0000-0000-0000-000000000000", map[string]string{"data": "value"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("empty payload returns 400 without touching storage", func(t *testing.T) {
		router, mock := setupRouter(t)

		req := testutil.MakeRawRequest(t, "PUT", "/settings/"+uuid.NewString(), `{}`)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("malformed identifier returns 400 without touching storage", func(t *testing.T) {
		router, mock := setupRouter(t)

		req := testutil.MakeRequest(t, "PUT", "/settings/not-a-uuid", map[string]string{"a": "b"})
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandleDelete(t *testing.T) {
	t.Run("existing setting returns 204 with no body", func(t *testing.T) {
		router, mock := setupRouter(t)

		id := uuid.New()
		mock.ExpectExec("DELETE FROM settings").
			WithArgs(id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		req := testutil.MakeRequest(t, "DELETE", "/settings/"+id.String(), nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
		assert.Zero(t, rr.Body.Len())
	})

	t.Run("unknown setting still returns 204", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectExec("DELETE FROM settings").
			WillReturnResult(sqlmock.NewResult(0, 0))

		req := testutil.MakeRequest(t, "DELETE", "/settings/00000000-0000-0000-0000-000000000000", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNoContent, rr.Code)
	})

	t.Run("malformed identifier returns 400 without touching storage", func(t *testing.T) {
		router, mock := setupRouter(t)

		req := testutil.MakeRequest(t, "DELETE", "/settings/abc", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestHandleList(t *testing.T) {
	t.Run("empty table returns empty items array", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

		req := testutil.MakeRequest(t, "GET", "/settings", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var body listBody
		testutil.AssertJSONResponse(t, rr, http.StatusOK, &body)
		assert.NotNil(t, body.Items)
		assert.Len(t, body.Items, 0)
		assert.Equal(t, 0, body.Pagination.Total)
		assert.Equal(t, 0, body.Pagination.TotalPages)

		// JSON must contain [] rather than null
		assert.Contains(t, rr.Body.String(), `"items":[]`)
	})

	t.Run("first of two pages", func(t *testing.T) {
		router, mock := setupRouter(t)

		rows := sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"})
		now := time.Now()
		for i := 5; i >= 1; i-- {
			ts := now.Add(-time.Duration(5-i) * time.Second)
			rows.AddRow(uuid.New(), []byte(fmt.Sprintf(`{"index": %d}`, i)), ts, ts)
		}

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))
		mock.ExpectQuery("SELECT id, data, created_at, updated_at FROM settings ORDER BY created_at DESC").
			WithArgs(5, 0).
			WillReturnRows(rows)

		req := testutil.MakeRequest(t, "GET", "/settings?limit=5&offset=0", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var body listBody
		testutil.AssertJSONResponse(t, rr, http.StatusOK, &body)
		assert.Len(t, body.Items, 5)
		assert.Equal(t, pagination.Meta{
			Total: 6, Limit: 5, Offset: 0,
			TotalPages: 2, CurrentPage: 1,
			HasNext: true, HasPrevious: false,
		}, body.Pagination)
	})

	t.Run("stale offset past the end returns empty page with metadata", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("SELECT COUNT").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
		mock.ExpectQuery("SELECT id, data, created_at, updated_at FROM settings ORDER BY created_at DESC").
			WithArgs(5, 5).
			WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}))

		req := testutil.MakeRequest(t, "GET", "/settings?limit=5&offset=5", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		var body listBody
		testutil.AssertJSONResponse(t, rr, http.StatusOK, &body)
		assert.Len(t, body.Items, 0)
		assert.Equal(t, 5, body.Pagination.Total)
		assert.Equal(t, 1, body.Pagination.TotalPages)
		assert.Equal(t, 2, body.Pagination.CurrentPage)
	})

	t.Run("storage failure returns 500", func(t *testing.T) {
		router, mock := setupRouter(t)

		mock.ExpectQuery("SELECT COUNT").
			WillReturnError(errors.New("connection reset"))

		req := testutil.MakeRequest(t, "GET", "/settings", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		assert.NotContains(t, rr.Body.String(), "connection reset")
	})
}

func TestHandleCreateJSONTypes(t *testing.T) {
	router, mock := setupRouter(t)
	now := time.Now()

	mock.ExpectQuery("INSERT INTO settings").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	payload := map[string]interface{}{
		"integer":       42,
		"float":         3.14159,
		"boolean_true":  true,
		"boolean_false": false,
		"null_value":    nil,
		"array":         []int{1, 2, 3},
		"nested":        map[string]string{"key": "value"},
		"unicode":       "Hello 世界 🌍",
	}

	req := testutil.MakeRequest(t, "POST", "/settings", payload)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	var env models.SettingEnvelope
	testutil.AssertJSONResponse(t, rr, http.StatusCreated, &env)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, float64(42), got["integer"])
	assert.Equal(t, true, got["boolean_true"])
	assert.Nil(t, got["null_value"])
	assert.Equal(t, "Hello 世界 🌍", got["unicode"])
}
