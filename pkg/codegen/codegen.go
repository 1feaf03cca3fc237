package codegen

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Alphabet символы кода без визуально похожих (0/O, 1/I/L)
const Alphabet = "23456789ABCDEFGHJKMNPQRSTUVWXYZ"

// DefaultLength длина кода по умолчанию: 31^8 ≈ 8.5e11 вариантов
const DefaultLength = 8

// ErrInvalidLength возвращается при недопустимой длине кода
var ErrInvalidLength = errors.New("codegen: invalid code length")

// Generator генерирует короткие коды для показа человеку
type Generator struct {
	length int
}

// NewGenerator создает генератор кодов заданной длины
func NewGenerator(length int) (*Generator, error) {
	if length < 4 || length > 32 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	return &Generator{length: length}, nil
}

// Generate возвращает новый случайный код
func (g *Generator) Generate() (string, error) {
	max := big.NewInt(int64(len(Alphabet)))
	buf := make([]byte, g.length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("codegen: read random: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
