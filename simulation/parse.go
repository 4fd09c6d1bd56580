package simulation

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sarchlab/pagesim/mem/vm"
)

// ErrMalformedAddress is returned in strict mode for a line that is not a
// decimal address in range.
var ErrMalformedAddress = errors.New("malformed address")

// ParseAddress converts one line of the address list. In lenient mode it
// behaves like C's atoi: leading white space and a sign are accepted, parsing
// stops at the first non-digit, and a line without digits is 0. In strict
// mode the trimmed line must be a decimal number within the address space.
func ParseAddress(line string, strict bool) (int, error) {
	if strict {
		return parseStrict(line)
	}

	return atoi(line), nil
}

func parseStrict(line string) (int, error) {
	trimmed := strings.TrimSpace(line)

	value, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedAddress, line)
	}

	if value < 0 || value >= vm.AddressSpaceSize {
		return 0, fmt.Errorf("%w: %d is outside [0, %d)",
			ErrMalformedAddress, value, vm.AddressSpaceSize)
	}

	return value, nil
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	default:
		return false
	}
}

// atoi saturates instead of overflowing.
func atoi(s string) int {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	negative := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		negative = s[i] == '-'
		i++
	}

	const limit = 1 << 31

	value := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		value = value*10 + int(s[i]-'0')
		if value > limit {
			value = limit
		}
	}

	if negative {
		return -value
	}

	return value
}
