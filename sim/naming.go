package sim

import (
	"fmt"
	"strings"
)

// NameMustBeValid panics if name is not a dot-separated list of elements,
// each starting with a capital letter and holding only letters and digits.
// "Translator.TLB" is valid while "Translator." and "translator" are not.
func NameMustBeValid(name string) {
	for _, elem := range strings.Split(name, ".") {
		err := elemNameCheck(elem)
		if err != nil {
			panic(fmt.Sprintf("name %q is not valid: %s", name, err))
		}
	}
}

func elemNameCheck(elem string) error {
	if elem == "" {
		return fmt.Errorf("element must not be empty")
	}

	if elem[0] < 'A' || elem[0] > 'Z' {
		return fmt.Errorf("element %q must start with a capital letter", elem)
	}

	for _, c := range elem {
		isLetter := (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		isDigit := c >= '0' && c <= '9'

		if !isLetter && !isDigit {
			return fmt.Errorf("element %q must not contain %q", elem, c)
		}
	}

	return nil
}

// BuildName builds the name of a sub-component.
func BuildName(parentName, elementName string) string {
	if parentName == "" {
		return elementName
	}

	return parentName + "." + elementName
}
