package ledger

import (
	"context"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gestion-activos-backend/internal/platform/dates"
)

type fixedIDs string

func (f fixedIDs) New() (string, error) { return string(f), nil }

const testULID = "01JNB3Q5X0Y7ZAZ6V8W9K2M4PQ"

var recordCols = []string{"id", "ulid", "activo_id", "activo_codigo", "activo_referencia", "nombre",
	"persona", "fecha_asignacion", "fecha_devolucion_prevista", "fecha_devolucion"}

func TestOpenRecord(t *testing.T) {
	ctx := context.Background()
	assigned := dates.New(2025, time.March, 1)
	due := dates.New(2025, time.March, 15)

	t.Run("inserts open record", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()
		l := New(fixedIDs(testULID))

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM historico WHERE activo_id = ? AND fecha_devolucion IS NULL LIMIT 1 FOR UPDATE")).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO historico").
			WithArgs(testULID, uint64(5), "LAP0001", "Dell 5520", "María", "2025-03-01", "2025-03-15").
			WillReturnResult(sqlmock.NewResult(21, 1))

		rec, err := l.OpenRecord(ctx, conn, 5, Snapshot{Code: "LAP0001", Reference: "Dell 5520"}, "María", assigned, due)
		require.NoError(t, err)
		assert.Equal(t, uint64(21), rec.ID)
		assert.Equal(t, testULID, rec.ULID)
		assert.True(t, rec.IsOpen())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("existing open record", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()
		l := New(fixedIDs(testULID))

		mock.ExpectQuery("SELECT id FROM historico").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

		_, err = l.OpenRecord(ctx, conn, 5, Snapshot{}, "María", assigned, due)
		assert.ErrorIs(t, err, ErrOpenRecordExists)
	})

	t.Run("unique key violation", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()
		l := New(fixedIDs(testULID))

		mock.ExpectQuery("SELECT id FROM historico").WillReturnRows(sqlmock.NewRows([]string{"id"}))
		mock.ExpectExec("INSERT INTO historico").
			WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry '5' for key 'uq_historico_abierto'"})

		_, err = l.OpenRecord(ctx, conn, 5, Snapshot{}, "María", assigned, due)
		assert.ErrorIs(t, err, ErrDuplicateOpen)
	})
}

func TestCloseLatestOpenRecord(t *testing.T) {
	ctx := context.Background()
	returned := dates.New(2025, time.March, 10)

	t.Run("closes", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()
		l := New(fixedIDs(testULID))

		mock.ExpectQuery(regexp.QuoteMeta("WHERE h.activo_id = ? AND h.fecha_devolucion IS NULL")).
			WithArgs(uint64(5)).
			WillReturnRows(sqlmock.NewRows(recordCols).AddRow(
				21, testULID, 5, "LAP0001", "Dell 5520", "Portátil", "María",
				time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC), nil))
		mock.ExpectExec(regexp.QuoteMeta("UPDATE historico SET fecha_devolucion = ? WHERE id = ? AND fecha_devolucion IS NULL")).
			WithArgs("2025-03-10", uint64(21)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		rec, err := l.CloseLatestOpenRecord(ctx, conn, 5, returned)
		require.NoError(t, err)
		require.NotNil(t, rec.ReturnedOn)
		assert.Equal(t, "2025-03-10", rec.ReturnedOn.String())
		assert.Equal(t, "2025-03-01", rec.AssignedOn.String())
		assert.Equal(t, "Portátil", *rec.TypeName)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("no open record", func(t *testing.T) {
		conn, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer conn.Close()
		l := New(fixedIDs(testULID))

		mock.ExpectQuery("FROM historico").WillReturnRows(sqlmock.NewRows(recordCols))

		_, err = l.CloseLatestOpenRecord(ctx, conn, 5, returned)
		assert.ErrorIs(t, err, ErrNoOpenRecord)
	})
}

func TestList(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	l := New(fixedIDs(testULID))

	from := dates.New(2025, time.January, 1)
	mock.ExpectQuery(regexp.QuoteMeta("AND h.persona LIKE ? AND h.fecha_devolucion IS NULL AND h.fecha_asignacion >= ? ORDER BY h.fecha_asignacion DESC, h.id DESC")).
		WithArgs(`%100\%%`, "2025-01-01").
		WillReturnRows(sqlmock.NewRows(recordCols).AddRow(
			2, testULID, 7, "MON0001", "LG", nil, "Sala 100%",
			time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 2, 9, 0, 0, 0, 0, time.UTC), nil))

	recs, err := l.List(context.Background(), conn, Filter{Custodian: "100%", OpenOnly: true, From: &from})
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Nil(t, recs[0].TypeName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()

	r := gin.New()
	RegisterRoutes(r, NewService(conn, New(fixedIDs(testULID))))

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND h.activo_id = ?")).
		WithArgs(uint64(9)).
		WillReturnRows(sqlmock.NewRows(recordCols))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/historico/activo/9", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())

	for _, path := range []string{
		"/historico?desde=ayer",
		"/historico?soloAbiertos=quizas",
		"/historico?desde=2025-02-01&hasta=2025-01-01",
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}
