package utils

import (
	"strconv"
	"strings"
)

// PadInt formats num with leading zeros up to width digits, the sign is not counted
func PadInt(num int, width int) string {
	str := strconv.Itoa(num)

	sign := ""
	if num < 0 {
		sign, str = "-", str[1:]
	}

	// Add padding if needed
	if padding := width - len(str); padding > 0 {
		str = strings.Repeat("0", padding) + str
	}

	return sign + str
}

// LastPathSegment returns the part of an url path after the last slash
func LastPathSegment(p string) string {
	p = strings.TrimRight(p, "/")
	if i := strings.LastIndex(p, "/"); i >= 0 {
		return p[i+1:]
	}
	return p
}
