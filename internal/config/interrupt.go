package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/lazyfetch"
)

// Interrupt kinds accepted in configuration files and on the command line.
const (
	KindStatusNotSuccess   = "status-not-success"
	KindStatus             = "status"
	KindContentType        = "content-type"
	KindMethod             = "method"
	KindContentLengthAbove = "content-length-above"
)

// InterruptSpec is the declarative form of an interrupt condition.
type InterruptSpec struct {
	Kind  string `mapstructure:"kind" json:"kind"`
	Value string `mapstructure:"value" json:"value,omitempty"`
}

// ParseInterrupt reads the "kind" or "kind=value" flag syntax.
func ParseInterrupt(s string) (InterruptSpec, error) {
	kind, value, _ := strings.Cut(s, "=")
	spec := InterruptSpec{Kind: strings.TrimSpace(kind), Value: strings.TrimSpace(value)}
	if _, err := spec.Condition(); err != nil {
		return InterruptSpec{}, err
	}
	return spec, nil
}

// Condition compiles s into a lazyfetch.Condition.
func (s InterruptSpec) Condition() (lazyfetch.Condition, error) {
	switch strings.ToLower(s.Kind) {
	case KindStatusNotSuccess:
		return lazyfetch.StatusNotSuccess(), nil

	case KindStatus:
		var codes []int
		for _, field := range strings.Split(s.Value, ",") {
			code, err := strconv.Atoi(strings.TrimSpace(field))
			if err != nil || code < 100 || code > 599 {
				return nil, fmt.Errorf("%s: invalid status code %q", s.Kind, field)
			}
			codes = append(codes, code)
		}
		return lazyfetch.StatusIs(codes...), nil

	case KindContentType:
		if s.Value == "" {
			return nil, fmt.Errorf("%s: media type is required", s.Kind)
		}
		return lazyfetch.ContentTypeIs(s.Value), nil

	case KindMethod:
		if s.Value == "" {
			return nil, fmt.Errorf("%s: method is required", s.Kind)
		}
		return lazyfetch.MethodIs(s.Value), nil

	case KindContentLengthAbove:
		n, err := strconv.ParseInt(s.Value, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid length %q", s.Kind, s.Value)
		}
		return lazyfetch.ContentLengthAbove(n), nil

	default:
		return nil, fmt.Errorf("unknown interrupt kind %q", s.Kind)
	}
}
