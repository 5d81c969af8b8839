package odds

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidFormat indica uma string de odds que não pode ser interpretada.
// Quem liquida apostas deve reportar e pular, nunca assumir um default.
var ErrInvalidFormat = errors.New("invalid odds format")

// Multiplier converte um stake no payout total (stake incluso).
type Multiplier func(stake float64) float64

// Parse interpreta uma string de odds em um dos três formatos aceitos:
//
//	"+150"  americano positivo: ganha 150 por 100 apostados
//	"-120"  americano negativo: aposta 120 para ganhar 100
//	"2.0"   multiplicador decimal direto
//
// O payout devolvido é sempre o total creditado, incluindo o stake original.
func Parse(text string) (Multiplier, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, fmt.Errorf("%w: empty string", ErrInvalidFormat)
	}

	switch {
	case strings.HasPrefix(s, "+"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
		}
		return func(stake float64) float64 { return stake + stake*v/100 }, nil

	case strings.HasPrefix(s, "-"):
		v, err := strconv.ParseFloat(s[1:], 64)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
		}
		if v == 0 {
			return nil, fmt.Errorf("%w: %q (zero divisor)", ErrInvalidFormat, text)
		}
		return func(stake float64) float64 { return stake + stake*100/v }, nil

	default:
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v <= 0 {
			return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, text)
		}
		return func(stake float64) float64 { return stake * v }, nil
	}
}

// Payout é o atalho parse+aplica usado pelo motor de liquidação.
func Payout(text string, stake float64) (float64, error) {
	fn, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return fn(stake), nil
}
