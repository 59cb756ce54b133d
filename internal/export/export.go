// Package export renders procurement data as downloadable documents: XLSX
// workbooks for quotes and price history, and a printable RFQ PDF.
package export

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Document kinds, also used as metrics labels.
const (
	KindQuotesXLSX       = "quotes_xlsx"
	KindQuoteXLSX        = "quote_xlsx"
	KindPriceHistoryXLSX = "price_history_xlsx"
	KindRFQPDF           = "rfq_pdf"
)

// Content types of generated documents.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
)

// ObjectKey returns the storage key of an export, for example
// exports/rfq_pdf/<id>/20240301T101530Z.pdf.
func ObjectKey(kind, id string, now time.Time) string {
	ext := "xlsx"
	if kind == KindRFQPDF {
		ext = "pdf"
	}
	if id == "" {
		id = "all"
	}
	return fmt.Sprintf("exports/%s/%s/%s.%s", kind, id, now.UTC().Format("20060102T150405Z"), ext)
}

// Filename returns the download filename of an export.
func Filename(kind, id string) string {
	switch kind {
	case KindRFQPDF:
		return "cerere-oferta-" + shortID(id) + ".pdf"
	case KindQuoteXLSX:
		return "oferta-" + shortID(id) + ".xlsx"
	case KindPriceHistoryXLSX:
		return "istoric-preturi-" + shortID(id) + ".xlsx"
	default:
		return "oferte.xlsx"
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// foldDiacritics strips combining marks so Romanian text renders with the
// PDF core fonts: "Oțel beton" becomes "Otel beton".
func foldDiacritics(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return strings.TrimSpace(out)
}
