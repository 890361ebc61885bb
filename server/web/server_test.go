package web

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gear6io/tableserve/server/config"
	"github.com/gear6io/tableserve/server/database"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixedQuery = `SELECT * FROM "titles"`

func newTestServer(t *testing.T) (*Server, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual),
		sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := config.LoadDefaultConfig()
	store := database.NewStore(db, "titles", time.Second, zerolog.Nop())
	return NewServer(cfg, store, zerolog.Nop()), mock
}

func seededRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name"}).
		AddRow(1, "Alice").
		AddRow(2, "Bob")
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestRootRendersSeededRowsInOrder(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(seededRows())

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	body := rec.Body.String()
	assert.Contains(t, body, "<th>id</th><th>name</th>")
	assert.Contains(t, body, "<td>1</td><td>Alice</td>")
	assert.Contains(t, body, "<td>2</td><td>Bob</td>")
	assert.Less(t,
		strings.Index(body, "<td>1</td><td>Alice</td>"),
		strings.Index(body, "<td>2</td><td>Bob</td>"),
		"rows must render in query-result order")

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRootEmptyResultSet(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(sqlmock.NewRows([]string{"id", "name"}))

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<table>")
	assert.Contains(t, body, "</table>")
	assert.Contains(t, body, "<th>id</th>")
	assert.NotContains(t, body, "<td>")
}

func TestRootSingleColumnResultSet(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow("only"))

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<tr><td>only</td></tr>")
}

func TestRootNullRendersEmptyCell(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).AddRow(1, nil))

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<td>1</td><td></td>")
}

func TestRootEscapesCellValues(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(
		sqlmock.NewRows([]string{"name"}).AddRow("<script>alert(1)</script>"))

	rec := get(t, srv, "/")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, "<script>alert(1)</script>")
	assert.Contains(t, body, "&lt;script&gt;")
}

func TestRootStoreFailureIsServerError(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnError(fmt.Errorf("connection refused"))

	rec := get(t, srv, "/")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRootRejectsOtherMethods(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestUnknownPathIsNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/nope")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	srv, mock := newTestServer(t)

	mock.ExpectPing()
	rec := get(t, srv, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectPing().WillReturnError(fmt.Errorf("no route to host"))
	rec = get(t, srv, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatus(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := get(t, srv, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var status map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "titles", status["table"])
	assert.Equal(t, fixedQuery, status["query"])
}

func TestConcurrentRequestsReturnIdenticalContent(t *testing.T) {
	srv, mock := newTestServer(t)
	mock.ExpectQuery(fixedQuery).WillReturnRows(seededRows())
	mock.ExpectQuery(fixedQuery).WillReturnRows(seededRows())

	var wg sync.WaitGroup
	bodies := make([]string, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusOK, rec.Code)
			bodies[i] = rec.Body.String()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, bodies[0], bodies[1])
}

func TestStartAndStop(t *testing.T) {
	srv, mock := newTestServer(t)
	srv.cfg.HTTP.Host = "127.0.0.1"
	srv.cfg.HTTP.Port = 0

	require.NoError(t, srv.Start(context.Background()))

	mock.ExpectQuery(fixedQuery).WillReturnRows(seededRows())
	resp, err := http.Get("http://" + srv.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, srv.Stop())
}
