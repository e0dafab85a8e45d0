package sliceutil

import (
	"fmt"
	"strings"
)

// ToDelimitedString joins the default formatting of each element with ", ".
func ToDelimitedString[T any](list []T) string {
	strTypes := make([]string, len(list))

	for i, t := range list {
		strTypes[i] = fmt.Sprintf("%v", t)
	}

	return strings.Join(strTypes, ", ")
}
