package client

import (
	"strings"
)

// Digits strips every non-digit from a formatted document such as
// "123.456.789-09" or "11.222.333/0001-81".
func Digits(s string) string {
	var b strings.Builder

	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// ValidCPF reports whether digits is an 11 digit CPF with correct check digits.
func ValidCPF(digits string) bool {
	if len(digits) != 11 || repeated(digits) {
		return false
	}

	return checkDigit(digits[:9], 10) == digits[9] && checkDigit(digits[:10], 11) == digits[10]
}

// ValidCNPJ reports whether digits is a 14 digit CNPJ with correct check digits.
func ValidCNPJ(digits string) bool {
	if len(digits) != 14 || repeated(digits) {
		return false
	}

	first := []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	second := append([]int{6}, first...)

	return weighted(digits[:12], first) == digits[12] && weighted(digits[:13], second) == digits[13]
}

// checkDigit computes a CPF verifier with weights counting down from start.
func checkDigit(digits string, start int) byte {
	weights := make([]int, len(digits))
	for i := range weights {
		weights[i] = start - i
	}

	return weighted(digits, weights)
}

func weighted(digits string, weights []int) byte {
	sum := 0
	for i, w := range weights {
		sum += int(digits[i]-'0') * w
	}

	rem := sum % 11
	if rem < 2 {
		return '0'
	}

	return byte('0' + 11 - rem)
}

func repeated(digits string) bool {
	return strings.Count(digits, digits[:1]) == len(digits)
}
