package infra

// Batch labels for the 50x15mm roll printer: company mark on the left,
// batch code, RENASEM and variety on the right, Code128 of the batch code at the bottom.

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/boombuler/barcode/code128"
	"github.com/go-pdf/fpdf"
	fpdfbarcode "github.com/go-pdf/fpdf/contrib/barcode"
)

const (
	labelW       = 50.0
	labelH       = 15.0
	labelTextX   = 15.0
	labelMarginR = 1.0
	barcodeW     = 30.0
	barcodeH     = 4.0
	varietyMaxPt = 9.0
	varietyMinPt = 8.0
)

// MaxCopiasEtiqueta caps the number of pages one request may render.
const MaxCopiasEtiqueta = 500

// DadosEtiqueta is one label to print.
type DadosEtiqueta struct {
	Codigo    string
	Variedade string
	Copias    int
}

// contrib/barcode keeps registered codes in a package-level map.
var barcodeMu sync.Mutex

// RenderEtiquetas draws one page per copy of each label. sigla is printed in
// the logo box, renasem on the second line.
func RenderEtiquetas(sigla, renasem string, etiquetas []DadosEtiqueta) ([]byte, error) {
	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "L",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: labelW, Ht: labelH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	barcodeMu.Lock()
	defer barcodeMu.Unlock()

	for _, e := range etiquetas {
		if e.Codigo == "" {
			return nil, fmt.Errorf("etiqueta: código vazio")
		}
		bc, err := code128.Encode(e.Codigo)
		if err != nil {
			return nil, fmt.Errorf("etiqueta: code128 %q: %w", e.Codigo, err)
		}
		key := fpdfbarcode.Register(bc)

		copias := e.Copias
		if copias < 1 {
			copias = 1
		}
		for i := 0; i < copias; i++ {
			pdf.AddPage()
			drawLogo(pdf, tr(sigla))

			pdf.SetFont("Helvetica", "B", 7)
			pdf.Text(labelTextX, 3.8, tr("LOTE: "+e.Codigo))
			pdf.SetFont("Helvetica", "", 6)
			pdf.Text(labelTextX, 6.6, tr("RENASEM: "+renasem))

			variedade := tr(strings.ToUpper(e.Variedade))
			pdf.SetFont("Helvetica", "B", fitFontSize(pdf, variedade))
			pdf.Text(labelTextX, 9.8, variedade)

			fpdfbarcode.Barcode(pdf, key, labelTextX, labelH-barcodeH-0.3, barcodeW, barcodeH, false)
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("etiqueta: %w", err)
	}
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("etiqueta: output: %w", err)
	}
	return buf.Bytes(), nil
}

func drawLogo(pdf *fpdf.Fpdf, sigla string) {
	pdf.SetDrawColor(109, 76, 65)
	pdf.SetLineWidth(0.3)
	pdf.RoundedRect(1, 1, 13, 13, 2, "1234", "D")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(1, 1)
	pdf.CellFormat(13, 13, sigla, "", 0, "CM", false, 0, "")
}

// fitFontSize shrinks the variety line from 9pt towards 8pt in half-point steps
// until it fits the text column. Text still too wide at 8pt is printed anyway.
func fitFontSize(pdf *fpdf.Fpdf, s string) float64 {
	maxW := labelW - labelTextX - labelMarginR
	size := varietyMaxPt
	for size > varietyMinPt {
		pdf.SetFont("Helvetica", "B", size)
		if pdf.GetStringWidth(s) <= maxW {
			break
		}
		size -= 0.5
	}
	return size
}
