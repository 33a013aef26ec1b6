package input

import (
	"fmt"
	"strconv"
	"strings"
)

// TypeName returns the short name of an event type ("REL"), or its hex value
// when the type is not known.
func TypeName(typ uint16) string {
	if name, ok := typeNames[typ]; ok {
		return name
	}
	return fmt.Sprintf("0x%02x", typ)
}

// CodeName returns the symbolic name of a code within a type ("REL_WHEEL").
func CodeName(typ, code uint16) string {
	if names, ok := codeNames[typ]; ok {
		if name, ok := names[code]; ok {
			return name
		}
	}
	return fmt.Sprintf("0x%03x", code)
}

// ParseType accepts a short type name ("REL", "EV_REL") or a number.
func ParseType(s string) (uint16, error) {
	name := strings.TrimPrefix(strings.ToUpper(strings.TrimSpace(s)), "EV_")
	for typ, n := range typeNames {
		if n == name {
			return typ, nil
		}
	}
	if n, err := strconv.ParseUint(name, 0, 16); err == nil {
		return uint16(n), nil
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// ParseCode accepts a symbolic code name valid for typ or a number.
func ParseCode(typ uint16, s string) (uint16, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for code, n := range codeNames[typ] {
		if n == name {
			return code, nil
		}
	}
	if n, err := strconv.ParseUint(name, 0, 16); err == nil {
		return uint16(n), nil
	}
	return 0, fmt.Errorf("unknown %s code %q", TypeName(typ), s)
}
