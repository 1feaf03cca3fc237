package nationalid

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const (
	// RFLength длина регистрационного номера (RF)
	RFLength = 7
	// CPFLength длина CPF
	CPFLength = 11
)

// Normalize оставляет только цифры ("529.982.247-25" -> "52998224725")
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CPFValidator проверяет контрольные цифры CPF
type CPFValidator struct{}

// IsValid возвращает true, если digits - 11 цифр с корректными контрольными разрядами
func (CPFValidator) IsValid(digits string) bool {
	if len(digits) != CPFLength {
		return false
	}

	d := make([]int, CPFLength)
	allSame := true
	for i := 0; i < CPFLength; i++ {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d[i] = int(c - '0')
		if d[i] != d[0] {
			allSame = false
		}
	}
	// 000.000.000-00, 111.111.111-11 и т.д. проходят формулу, но невалидны
	if allSame {
		return false
	}

	return checkDigit(d[:9]) == d[9] && checkDigit(d[:10]) == d[10]
}

func checkDigit(d []int) int {
	sum := 0
	weight := len(d) + 1
	for _, v := range d {
		sum += v * weight
		weight--
	}
	r := sum * 10 % 11
	if r == 10 {
		return 0
	}
	return r
}

// Hasher считает ключевой BLAKE2b-256 хеш номера, чтобы не хранить его в открытом виде
type Hasher struct {
	key []byte
}

// NewHasher создает хешер; соль длиннее 64 байт сжимается до ключа BLAKE2b
func NewHasher(salt string) *Hasher {
	key := []byte(salt)
	if len(key) > blake2b.Size {
		sum := blake2b.Sum256(key)
		key = sum[:]
	}
	return &Hasher{key: key}
}

// Hash возвращает hex-представление хеша нормализованного номера
func (h *Hasher) Hash(digits string) string {
	if digits == "" {
		return ""
	}
	mac, err := blake2b.New256(h.key)
	if err != nil {
		// ключ ограничен в NewHasher, сюда не попадаем
		panic(err)
	}
	mac.Write([]byte(digits))
	return hex.EncodeToString(mac.Sum(nil))
}
