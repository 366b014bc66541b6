// text.go — Text payload I/O and charset conversion.
package main

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

func isLatin1(charset string) bool {
	switch strings.ToLower(charset) {
	case "latin1", "iso-8859-1":
		return true
	}
	return false
}

// textToPayload converts UTF-8 input into the bytes that get embedded.
func textToPayload(text []byte, charset string) ([]byte, error) {
	if !isLatin1(charset) {
		return text, nil
	}
	out, err := charmap.ISO8859_1.NewEncoder().Bytes(text)
	if err != nil {
		return nil, fmt.Errorf("text is not representable in latin1: %w", err)
	}
	return out, nil
}

// payloadToText converts extracted bytes for output.
func payloadToText(payload []byte, charset string) ([]byte, error) {
	if !isLatin1(charset) {
		return payload, nil
	}
	return charmap.ISO8859_1.NewDecoder().Bytes(payload)
}

// readText returns the literal text if set, otherwise the file contents.
func readText(literal, path string) ([]byte, error) {
	switch {
	case literal != "" && path != "":
		return nil, fmt.Errorf("use either --text or --file, not both")
	case literal != "":
		return []byte(literal), nil
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read text: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("--text or --file is required")
}
