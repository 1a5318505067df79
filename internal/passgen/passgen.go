// Package passgen generates random passwords with crypto/rand. Generated
// passwords always satisfy the vault's secret complexity policy for the
// character classes that are enabled.
package passgen

import (
	"crypto/rand"
	"errors"
	"math/big"
)

const (
	upperChars  = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowerChars  = "abcdefghijklmnopqrstuvwxyz"
	digitChars  = "0123456789"
	symbolChars = "!@#$%^&*()-_=+[]{};:,.<>?"
)

const (
	MinLength     = 8
	MaxLength     = 128
	DefaultLength = 16
)

var ErrNoCharsets = errors.New("no character sets enabled")

// Options selects the length and character classes of a generated password.
// The zero value is not useful; start from DefaultOptions.
type Options struct {
	Length  int
	Upper   bool
	Lower   bool
	Digits  bool
	Symbols bool
}

// DefaultOptions matches the generator defaults of the web client: 16
// characters, all classes enabled.
func DefaultOptions() Options {
	return Options{
		Length:  DefaultLength,
		Upper:   true,
		Lower:   true,
		Digits:  true,
		Symbols: true,
	}
}

// Generate returns a random password of opts.Length characters containing at
// least one character from every enabled class. Length is clamped to
// [MinLength, MaxLength].
func Generate(opts Options) (string, error) {
	var sets []string
	if opts.Upper {
		sets = append(sets, upperChars)
	}
	if opts.Lower {
		sets = append(sets, lowerChars)
	}
	if opts.Digits {
		sets = append(sets, digitChars)
	}
	if opts.Symbols {
		sets = append(sets, symbolChars)
	}
	if len(sets) == 0 {
		return "", ErrNoCharsets
	}

	length := opts.Length
	if length < MinLength {
		length = MinLength
	}
	if length > MaxLength {
		length = MaxLength
	}

	all := ""
	for _, s := range sets {
		all += s
	}

	out := make([]byte, 0, length)

	// One guaranteed character per enabled class.
	for _, s := range sets {
		c, err := randomChar(s)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}
	for len(out) < length {
		c, err := randomChar(all)
		if err != nil {
			return "", err
		}
		out = append(out, c)
	}

	if err := shuffle(out); err != nil {
		return "", err
	}
	return string(out), nil
}

func randomChar(set string) (byte, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(set))))
	if err != nil {
		return 0, err
	}
	return set[n.Int64()], nil
}

func shuffle(b []byte) error {
	for i := len(b) - 1; i > 0; i-- {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(i+1)))
		if err != nil {
			return err
		}
		j := n.Int64()
		b[i], b[j] = b[j], b[i]
	}
	return nil
}
