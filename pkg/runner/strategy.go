package runner

import (
	"fmt"
	"strings"
)

// Strategy is a sorting strategy hint passed to push_swap as a flag.
type Strategy byte

// Supported strategies.
const (
	None Strategy = iota
	Simple
	Medium
	Complex
	Adaptive
)

// Strategies lists all strategies.
var Strategies = []Strategy{None, Simple, Medium, Complex, Adaptive}

var strategyNames = map[Strategy]string{
	None:     "none",
	Simple:   "simple",
	Medium:   "medium",
	Complex:  "complex",
	Adaptive: "adaptive",
}

// String implements the fmt.Stringer interface.
func (s Strategy) String() string {
	if n, ok := strategyNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Strategy(%d)", byte(s))
}

// Arg returns the command line flag for the strategy, it's empty for None.
func (s Strategy) Arg() string {
	if s == None {
		return ""
	}
	return "--" + s.String()
}

// ParseStrategy converts strategy name (case-insensitive, with or without
// leading dashes) into Strategy. Empty string means None.
func ParseStrategy(s string) (Strategy, error) {
	s = strings.ToLower(strings.TrimLeft(s, "-"))
	if s == "" {
		return None, nil
	}
	for st, n := range strategyNames {
		if n == s {
			return st, nil
		}
	}
	return None, fmt.Errorf("unknown strategy %q", s)
}

// UnmarshalYAML implements the yaml.Unmarshaler interface.
func (s *Strategy) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err != nil {
		return err
	}
	st, err := ParseStrategy(str)
	if err != nil {
		return err
	}
	*s = st
	return nil
}

// MarshalYAML implements the yaml.Marshaler interface.
func (s Strategy) MarshalYAML() (any, error) {
	return s.String(), nil
}
