// Package idgenerator contains the default [domain.IDGenerator]
// implementation.
package idgenerator

import (
	"crypto/rand"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/vinicius-lino-figueiredo/gequery/domain"
)

// AutoIDLength is the length of generated document ids.
const AutoIDLength = 20

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// bytes above this limit are discarded so every character is equally
// likely.
const maxByte = 255 - (256 % len(alphabet))

// IDGenerator implements [domain.IDGenerator]. Ids are alphanumeric and
// built from the random bits of version 4 UUIDs read from the configured
// source.
type IDGenerator struct {
	reader io.Reader
}

// NewIDGenerator implements [domain.IDGenerator]
func NewIDGenerator(opts ...domain.IDGeneratorOption) domain.IDGenerator {
	options := domain.IDGeneratorOptions{Reader: rand.Reader}
	for _, opt := range opts {
		opt(&options)
	}
	if options.Reader == nil {
		options.Reader = rand.Reader
	}
	return &IDGenerator{reader: options.Reader}
}

// GenerateID implements [domain.IDGenerator]. A non positive l yields
// [AutoIDLength] characters.
func (i *IDGenerator) GenerateID(l int) (string, error) {
	if l <= 0 {
		l = AutoIDLength
	}
	var sb strings.Builder
	sb.Grow(l)
	for sb.Len() < l {
		id, err := uuid.NewRandomFromReader(i.reader)
		if err != nil {
			return "", err
		}
		for n, b := range id {
			// version and variant bits
			if n == 6 || n == 8 {
				continue
			}
			if int(b) > maxByte {
				continue
			}
			sb.WriteByte(alphabet[int(b)%len(alphabet)])
			if sb.Len() == l {
				break
			}
		}
	}
	return sb.String(), nil
}
