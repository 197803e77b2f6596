package pkg

import (
	"crypto/rand"
	"encoding/base32"
	"fmt"
	"strings"
)

// SerialCodePrefix is printed on every issued unit code.
const SerialCodePrefix = "VP-"

// GenerateSerialCode generates a unit serial code: the fixed prefix followed
// by n characters of base32-encoded random bytes. Output is uppercase.
func GenerateSerialCode(n int) (string, error) {
	bytes := make([]byte, (n*5)/8+1)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	encoded := base32.StdEncoding.EncodeToString(bytes)
	encoded = strings.ReplaceAll(encoded, "=", "")

	return SerialCodePrefix + encoded[:n], nil
}

// GenerateAPIKey generates a new API key with the given prefix
func GenerateAPIKey(prefix string) (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	encoded := base32.StdEncoding.EncodeToString(bytes)
	encoded = strings.ReplaceAll(encoded, "=", "")

	return fmt.Sprintf("%s_%s", prefix, encoded), nil
}
