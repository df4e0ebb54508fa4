package knowledge

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ledongthuc/pdf"
)

// Supported upload MIME types.
const (
	MimePDF  = "application/pdf"
	MimeText = "text/plain"
	MimeHTML = "text/html"
)

// UnsupportedTypeError reports an upload with a MIME type the ingester
// cannot extract text from.
type UnsupportedTypeError struct {
	MimeType string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported file type: %s", e.MimeType)
}

// extractText pulls plain text out of an uploaded file buffer based on its
// declared MIME type. Parameters after a semicolon (text/plain; charset=...)
// are ignored.
func extractText(mimeType string, data []byte) (string, error) {
	base := strings.TrimSpace(strings.ToLower(mimeType))
	if i := strings.Index(base, ";"); i >= 0 {
		base = strings.TrimSpace(base[:i])
	}

	switch base {
	case MimePDF:
		return extractPDFText(data)
	case MimeText:
		return string(data), nil
	case MimeHTML:
		return extractHTMLText(data)
	default:
		return "", &UnsupportedTypeError{MimeType: mimeType}
	}
}

func extractPDFText(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to read pdf: %w", err)
	}

	var sb strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	}
	return sb.String(), nil
}

// extractHTMLText keeps block-level text with paragraph breaks so the
// paragraph chunker still has boundaries to split on. Script and style
// contents are dropped.
func extractHTMLText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var sb strings.Builder
	doc.Find("h1, h2, h3, h4, h5, h6, p, li, td, pre, blockquote").Each(func(_ int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if text == "" {
			return
		}
		sb.WriteString(text)
		sb.WriteString("\n\n")
	})

	if sb.Len() == 0 {
		// Fallback for fragments without block elements.
		return strings.TrimSpace(doc.Text()), nil
	}
	return sb.String(), nil
}
