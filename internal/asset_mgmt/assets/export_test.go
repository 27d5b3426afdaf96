package assets

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/dates"
)

func exportFixture() []Asset {
	review := dates.New(2025, 1, 31)
	return []Asset{
		{ID: 1, TypeName: "Cámara", Code: "CAM0001", Reference: "Canon", Custodian: strPtr("José"), ReviewDate: &review, Status: StatusAvailable},
		{ID: 2, TypeName: "Escritorio", Code: "M-1", Reference: "Roble, macizo", Status: StatusDecommissioned, DecommissionReason: strPtr("Vieja")},
	}
}

func TestWriteCSV(t *testing.T) {
	t.Run("utf8 with bom", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, exportFixture(), CharsetUTF8))
		assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))

		recs, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, exportHeader, recs[0])
		assert.Equal(t, []string{"1", "Cámara", "CAM0001", "Canon", "", "", "", "", "José", "2025-01-31", "Disponible", ""}, recs[1])
		assert.Equal(t, "Roble, macizo", recs[2][3])
		assert.Equal(t, "Vieja", recs[2][11])
	})

	t.Run("latin1", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, exportFixture(), CharsetLatin1))
		assert.False(t, bytes.HasPrefix(buf.Bytes(), []byte{0xEF, 0xBB, 0xBF}))
		assert.True(t, bytes.Contains(buf.Bytes(), []byte{'C', 0xE1, 'm'}))
	})

	t.Run("unknown charset", func(t *testing.T) {
		assert.Error(t, WriteCSV(&bytes.Buffer{}, nil, "ebcdic"))
	})
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, exportFixture()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeader, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "CAM0001", rows[1][2])
	assert.Equal(t, "Baja", rows[2][10])
}

func TestImport(t *testing.T) {
	ctx := context.Background()

	t.Run("per row outcome", func(t *testing.T) {
		repo := seededRepo()
		svc := newTestService(repo)
		mustCreate(t, svc, AssetRequest{TipoID: typeCamera, Codigo: "CAM0001", Referencia: "Canon"})

		in := "\ufeffTipo,Código,Referencia,Responsable,FechaRevision\n" +
			"cámara,cam0001,Repetida,,\n" +
			"Camara,,Nikon,Ana,2025-06-01\n" +
			",,,,\n" +
			"Impresora,IMP1,HP,,\n" +
			"Escritorio,M1,Roble,,31/12/2025\n" +
			"Escritorio,M2,,,\n"
		res, err := svc.Import(ctx, strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, 5, res.Total)
		assert.Equal(t, 1, res.Creados)
		assert.Equal(t, 1, res.Omitidos)
		assert.Equal(t, 3, res.Errores)
		require.Len(t, res.Resultados, 5)

		skipped := res.Resultados[0]
		assert.Equal(t, 2, skipped.Fila)
		assert.True(t, skipped.Omitido)
		assert.False(t, skipped.Ok)

		created := res.Resultados[1]
		assert.Equal(t, 3, created.Fila)
		assert.True(t, created.Ok)
		require.NotNil(t, created.Codigo)
		assert.Equal(t, "CAM0002", *created.Codigo)
		a := repo.asset(*created.ID)
		assert.Equal(t, "Ana", *a.Custodian)
		assert.Equal(t, "2025-06-01", a.ReviewDate.String())

		assert.Equal(t, 5, res.Resultados[2].Fila)
		require.NotNil(t, res.Resultados[2].Error)
		assert.Contains(t, *res.Resultados[2].Error, "Impresora")
		assert.NotNil(t, res.Resultados[3].Error)
		assert.NotNil(t, res.Resultados[4].Error)
	})

	t.Run("oversized cell fails only its row", func(t *testing.T) {
		repo := seededRepo()
		svc := newTestService(repo)

		in := "tipo,codigo,referencia\n" +
			"Escritorio,M1," + strings.Repeat("x", 300) + "\n" +
			"Escritorio,M2,Roble\n"
		res, err := svc.Import(ctx, strings.NewReader(in))
		require.NoError(t, err)

		assert.Equal(t, 1, res.Creados)
		assert.Equal(t, 1, res.Errores)
		require.Len(t, res.Resultados, 2)
		require.NotNil(t, res.Resultados[0].Error)
		assert.Contains(t, *res.Resultados[0].Error, "referencia")
		assert.True(t, res.Resultados[1].Ok)
	})

	t.Run("rejects files without the required columns", func(t *testing.T) {
		svc := newTestService(seededRepo())
		_, err := svc.Import(ctx, strings.NewReader("codigo,referencia\nX,Y\n"))
		assert.True(t, apierr.HasCode(err, apierr.CodeValidation))
	})

	t.Run("rejects empty and non utf8 files", func(t *testing.T) {
		svc := newTestService(seededRepo())
		_, err := svc.Import(ctx, strings.NewReader("  \n"))
		assert.True(t, apierr.HasCode(err, apierr.CodeValidation))
		_, err = svc.Import(ctx, bytes.NewReader([]byte("tipo,referencia\nC\xe1mara,x\n")))
		assert.True(t, apierr.HasCode(err, apierr.CodeValidation))
	})
}
