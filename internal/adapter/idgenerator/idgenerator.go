package idgenerator

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"strings"

	"github.com/nonibytes/docquery/domain"
)

// IDGenerator implements [domain.IDGenerator], generating the
// primary-key values memstore.Store assigns to seed records that
// omit one explicitly.
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator implements [domain.IDGenerator]
func NewIDGenerator(opts ...domain.IDGeneratorOption) domain.IDGenerator {
	options := domain.IDGeneratorOptions{Reader: rand.Reader}
	for _, opt := range opts {
		opt(&options)
	}
	return &IDGenerator{reader: options.Reader}
}

// GenerateID implements [domain.IDGenerator]. It reads from the
// configured randomness source, base64-encodes it, and strips the
// two non-alphanumeric base64 characters so the result is a safe
// primary-key string of exactly l characters.
func (i *IDGenerator) GenerateID(l int) (string, error) {
	buf := make([]byte, max(8, l*2))
	if _, err := i.reader.Read(buf); err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	enc := base64.StdEncoding.EncodeToString(buf)
	return strings.NewReplacer("+", "", "/", "").Replace(enc)[:l], nil
}
