package assets

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"

	CharsetUTF8   = "utf8"
	CharsetLatin1 = "latin1"

	exportSheet = "Activos"
)

var exportHeader = []string{
	"id", "tipo", "codigo", "referencia", "descripcion", "marca", "detalles",
	"area", "responsable", "fechaRevision", "estado", "motivoBaja",
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func exportRow(a *Asset) []string {
	review := ""
	if a.ReviewDate != nil {
		review = a.ReviewDate.String()
	}
	return []string{
		strconv.FormatUint(a.ID, 10), a.TypeName, a.Code, a.Reference, a.Description,
		deref(a.Brand), deref(a.Details), deref(a.Area), deref(a.Custodian),
		review, string(a.Status), deref(a.DecommissionReason),
	}
}

// WriteCSV writes assets as CSV. UTF-8 output starts with a BOM so spreadsheet
// tools detect the encoding; latin1 writes Windows-1252 and replaces
// characters it cannot represent.
func WriteCSV(w io.Writer, assets []Asset, charset string) error {
	var (
		out io.Writer
		tw  *transform.Writer
	)
	switch charset {
	case "", CharsetUTF8:
		if _, err := io.WriteString(w, "\ufeff"); err != nil {
			return err
		}
		out = w
	case CharsetLatin1:
		enc := encoding.ReplaceUnsupported(charmap.Windows1252.NewEncoder())
		tw = transform.NewWriter(w, enc)
		out = tw
	default:
		return fmt.Errorf("unsupported charset %q", charset)
	}

	cw := csv.NewWriter(out)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for i := range assets {
		if err := cw.Write(exportRow(&assets[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	if tw != nil {
		return tw.Close()
	}
	return nil
}

// WriteXLSX writes assets as a single-sheet workbook with a bold header row.
func WriteXLSX(w io.Writer, assets []Asset) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	sw, err := f.NewStreamWriter(exportSheet)
	if err != nil {
		return err
	}

	header := make([]any, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = excelize.Cell{StyleID: bold, Value: h}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return err
	}
	for i := range assets {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		rec := exportRow(&assets[i])
		row := make([]any, len(rec))
		row[0] = assets[i].ID
		for j := 1; j < len(rec); j++ {
			row[j] = rec[j]
		}
		if err := sw.SetRow(cell, row); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
