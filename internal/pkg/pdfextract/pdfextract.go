package pdfextract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// ExtractText extracts plain text from raw PDF bytes. A PDF with no
// extractable text yields an empty string and nil error.
func ExtractText(raw []byte) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	readerAt := bytes.NewReader(raw)
	pdfReader, err := pdf.NewReader(readerAt, int64(len(raw)))
	if err != nil {
		return "", err
	}
	plainReader, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	out, err := io.ReadAll(plainReader)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
