package assets

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"gestion-activos-backend/internal/platform/apierr"
	"gestion-activos-backend/internal/platform/dates"
	"gestion-activos-backend/internal/platform/textnorm"
)

const MaxImportRows = 5000

var (
	errImportEmpty     = apierr.Invalid("El archivo está vacío")
	errImportEncoding  = apierr.Invalid("El archivo debe estar codificado en UTF-8")
	errImportTooLarge  = apierr.Invalidf("El archivo supera el máximo de %d filas", MaxImportRows)
	importRequiredCols = []string{"tipo", "referencia"}
	importColumns      = []string{
		"tipo", "codigo", "referencia", "descripcion", "marca", "detalles",
		"area", "responsable", "fecharevision",
	}
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type importRow struct {
	line   int
	fields map[string]string
}

func (r importRow) get(col string) string { return r.fields[col] }

func (r importRow) optional(col string) *string {
	if v := r.fields[col]; v != "" {
		return &v
	}
	return nil
}

func (r importRow) empty() bool {
	for _, v := range r.fields {
		if v != "" {
			return false
		}
	}
	return true
}

// readImport parses the uploaded CSV. Header names are matched ignoring case
// and accents; unknown columns are ignored.
func readImport(r io.Reader) ([]importRow, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, errImportEmpty
	}
	if !utf8.Valid(raw) {
		return nil, errImportEncoding
	}

	cr := csv.NewReader(bufio.NewReader(bytes.NewReader(raw)))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, apierr.Invalid("No se pudo leer la cabecera del archivo")
	}
	index := make(map[string]int, len(header))
	for i, h := range header {
		index[textnorm.Key(h)] = i
	}
	for _, col := range importRequiredCols {
		if _, ok := index[col]; !ok {
			return nil, apierr.Invalidf("Falta la columna %q en la cabecera", col)
		}
	}

	var rows []importRow
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apierr.Invalidf("CSV mal formado: %s", err.Error())
		}
		line, _ := cr.FieldPos(0)
		row := importRow{line: line, fields: make(map[string]string, len(importColumns))}
		for _, col := range importColumns {
			if i, ok := index[col]; ok && i < len(rec) {
				row.fields[col] = strings.TrimSpace(rec[i])
			}
		}
		if row.empty() {
			continue
		}
		if len(rows) == MaxImportRows {
			return nil, errImportTooLarge
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func rowFailed(line int, msg string) ImportRowResult {
	return ImportRowResult{Fila: line, Error: &msg}
}

// Import creates one asset per CSV row through Create. Rows whose code already
// exists are skipped; other row errors are reported and do not stop the import.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportResponse, error) {
	rows, err := readImport(r)
	if err != nil {
		return nil, err
	}

	res := &ImportResponse{Total: len(rows), Resultados: make([]ImportRowResult, 0, len(rows))}
	for _, row := range rows {
		out, err := s.importRow(ctx, row)
		if err != nil {
			return nil, fmt.Errorf("import line %d: %w", row.line, err)
		}
		switch {
		case out.Ok:
			res.Creados++
		case out.Omitido:
			res.Omitidos++
		default:
			res.Errores++
		}
		res.Resultados = append(res.Resultados, out)
	}
	s.logger.Info("assets imported",
		zap.Int("total", res.Total),
		zap.Int("creados", res.Creados),
		zap.Int("omitidos", res.Omitidos),
		zap.Int("errores", res.Errores),
	)
	return res, nil
}

// importRow returns an error only for failures that are not the row's fault.
func (s *Service) importRow(ctx context.Context, row importRow) (ImportRowResult, error) {
	typeName := row.get("tipo")
	if typeName == "" {
		return rowFailed(row.line, "El tipo es requerido"), nil
	}
	t, err := s.repo.FindTypeByName(ctx, typeName)
	if err != nil {
		return ImportRowResult{}, fmt.Errorf("find type: %w", err)
	}
	if t == nil {
		return rowFailed(row.line, fmt.Sprintf("El tipo %q no existe", typeName)), nil
	}

	req := AssetRequest{
		TipoID:      t.ID,
		Codigo:      row.get("codigo"),
		Referencia:  row.get("referencia"),
		Descripcion: row.get("descripcion"),
		Marca:       row.optional("marca"),
		Detalles:    row.optional("detalles"),
		Area:        row.optional("area"),
		Responsable: row.optional("responsable"),
	}
	if v := row.get("fecharevision"); v != "" {
		d, err := dates.Parse(v)
		if err != nil {
			return rowFailed(row.line, err.Error()), nil
		}
		req.FechaRevision = &d
	}

	a, err := s.Create(ctx, req)
	if errors.Is(err, errCodeTaken) {
		code := req.Codigo
		return ImportRowResult{Fila: row.line, Omitido: true, Codigo: &code}, nil
	}
	if api, ok := apierr.As(err); ok && api.Code != apierr.CodeInternal {
		return rowFailed(row.line, api.Message), nil
	}
	if err != nil {
		return ImportRowResult{}, err
	}
	return ImportRowResult{Fila: row.line, Ok: true, ID: &a.ID, Codigo: &a.Code}, nil
}
