// Package pdf extracts plain text from uploaded PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	ltpdf "github.com/ledongthuc/pdf"
)

// ExtractText pulls the plain text out of a PDF document. Pages that
// cannot be read are skipped rather than failing the whole document.
func ExtractText(data []byte) (string, error) {
	reader, err := ltpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var buf bytes.Buffer
	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("failed to extract PDF text: %w", err)
	}
	if _, err := buf.ReadFrom(plain); err != nil {
		return "", fmt.Errorf("failed to read PDF text: %w", err)
	}

	return strings.TrimSpace(buf.String()), nil
}
