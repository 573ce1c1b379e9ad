package recite

import (
	"bytes"
	"fmt"
	"io"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// decodeResponse проверяет, что ответ является корректным UTF-8 текстом.
func decodeResponse(raw []byte) (string, error) {
	text, _, err := transform.Bytes(encoding.UTF8Validator, raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialDecode, err)
	}
	return string(text), nil
}

// printable возвращает ответ в виде, пригодном для лога.
// Битые байты заменяются на U+FFFD.
func printable(raw []byte) string {
	r, err := charset.NewReaderLabel("utf-8", bytes.NewReader(raw))
	if err != nil {
		return fmt.Sprintf("% x", raw)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		return fmt.Sprintf("% x", raw)
	}
	return string(out)
}
