// Package pixkey validates and normalises PIX destination keys.
package pixkey

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/ttacon/libphonenumber"
)

// Key types accepted by the DICT directory.
const (
	TypeCPFCNPJ = "cpf_cnpj"
	TypeEmail   = "email"
	TypePhone   = "phone"
	TypeRandom  = "random"
)

const maxEmailLen = 77

var (
	ErrEmpty       = errors.New("pix key is empty")
	ErrUnknownType = errors.New("unknown pix key type")

	emailPattern  = regexp.MustCompile(`^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)
	digitsPattern = regexp.MustCompile(`^[0-9]+$`)
	taxIDStripper = strings.NewReplacer(".", "", "-", "", "/", "", " ", "")
)

// IsKnownType reports whether t is one of the four key types.
func IsKnownType(t string) bool {
	switch t {
	case TypeCPFCNPJ, TypeEmail, TypePhone, TypeRandom:
		return true
	}
	return false
}

// Normalize validates key for its type and returns the canonical form sent
// to the PSP: bare digits for tax ids, lowercase email and random keys,
// E.164 for phones.
func Normalize(keyType, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", ErrEmpty
	}

	switch keyType {
	case TypeCPFCNPJ:
		digits := taxIDStripper.Replace(key)
		if !digitsPattern.MatchString(digits) {
			return "", fmt.Errorf("cpf/cnpj key must contain only digits")
		}
		switch len(digits) {
		case 11:
			if !validCPF(digits) {
				return "", fmt.Errorf("invalid cpf check digits")
			}
		case 14:
			if !validCNPJ(digits) {
				return "", fmt.Errorf("invalid cnpj check digits")
			}
		default:
			return "", fmt.Errorf("cpf/cnpj key must have 11 or 14 digits")
		}
		return digits, nil

	case TypeEmail:
		email := strings.ToLower(key)
		if len(email) > maxEmailLen || !emailPattern.MatchString(email) {
			return "", fmt.Errorf("invalid email key")
		}
		return email, nil

	case TypePhone:
		if !strings.HasPrefix(key, "+55") {
			return "", fmt.Errorf("phone key must start with +55")
		}
		num, err := libphonenumber.Parse(key, "BR")
		if err != nil {
			return "", fmt.Errorf("invalid phone key: %w", err)
		}
		if !libphonenumber.IsValidNumber(num) {
			return "", fmt.Errorf("phone key is not a valid Brazilian number")
		}
		return libphonenumber.Format(num, libphonenumber.E164), nil

	case TypeRandom:
		id, err := uuid.Parse(key)
		if err != nil || len(key) != 36 {
			return "", fmt.Errorf("random key must be a uuid")
		}
		return id.String(), nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownType, keyType)
}

// Validate is Normalize without the result.
func Validate(keyType, key string) error {
	_, err := Normalize(keyType, key)
	return err
}

func validCPF(d string) bool {
	if allSame(d) {
		return false
	}
	check := func(n int) bool {
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * (n + 1 - i)
		}
		r := sum * 10 % 11
		if r == 10 {
			r = 0
		}
		return r == int(d[n]-'0')
	}
	return check(9) && check(10)
}

var cnpjWeights = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}

func validCNPJ(d string) bool {
	if allSame(d) {
		return false
	}
	check := func(n int) bool {
		weights := cnpjWeights[len(cnpjWeights)-n:]
		sum := 0
		for i := 0; i < n; i++ {
			sum += int(d[i]-'0') * weights[i]
		}
		r := sum % 11
		dv := 0
		if r >= 2 {
			dv = 11 - r
		}
		return dv == int(d[n]-'0')
	}
	return check(12) && check(13)
}

func allSame(d string) bool {
	return strings.Count(d, d[:1]) == len(d)
}

// Mask hides most of a normalised key for log lines: the email domain and
// the last four characters of other keys stay readable.
func Mask(key string) string {
	if at := strings.LastIndexByte(key, '@'); at > 0 {
		local := key[:at]
		if len(local) > 2 {
			local = local[:2]
		}
		return local + "***" + key[at:]
	}
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return strings.Repeat("*", len(key)-4) + key[len(key)-4:]
}
