package configuration

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
)

// Optional is a generic container for optional configuration values.
type Optional[T any] struct {
	Value T
	// Present indicates if the value was present in the configuration.
	Present bool
}

func (o *Optional[T]) Get() T {
	return o.Value
}

// DefaultTrueBool is a boolean that defaults to true if it is absent from the configuration.
type DefaultTrueBool struct {
	Optional[bool]
}

func (b *DefaultTrueBool) Get() bool {
	if !b.Present {
		return true
	}
	return b.Value
}

// DefaultTrueBoolHookFunc returns a mapstructure decode hook function for DefaultTrueBool.
func DefaultTrueBoolHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != reflect.TypeOf(DefaultTrueBool{}) {
			return data, nil
		}

		var val bool
		switch v := data.(type) {
		case bool:
			val = v
		case string:
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				return nil, fmt.Errorf("invalid boolean value: %q", v)
			}
			val = parsed
		default:
			return data, nil
		}

		return DefaultTrueBool{
			Optional: Optional[bool]{
				Value:   val,
				Present: true,
			},
		}, nil
	}
}

// ParseTurnMode accepts "relative"/"rel" and "absolute"/"abs" in any case.
func ParseTurnMode(value string) (TurnMode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "relative", "rel":
		return TurnModeRelative, nil
	case "absolute", "abs":
		return TurnModeAbsolute, nil
	default:
		return "", fmt.Errorf("invalid turn mode %q, use one of: relative | absolute", value)
	}
}

// TurnModeHookFunc normalizes turn modes while decoding.
func TurnModeHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != reflect.TypeOf(TurnMode("")) {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		return ParseTurnMode(value)
	}
}

// OnTimeoutHookFunc normalizes routine timeout actions while decoding.
func OnTimeoutHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{}) (interface{}, error) {

		if t != reflect.TypeOf(OnTimeoutAction("")) {
			return data, nil
		}
		value, ok := data.(string)
		if !ok {
			return data, nil
		}
		switch OnTimeoutAction(strings.ToLower(strings.TrimSpace(value))) {
		case "", OnTimeoutContinue:
			return OnTimeoutContinue, nil
		case OnTimeoutAbort:
			return OnTimeoutAbort, nil
		default:
			return nil, fmt.Errorf("invalid onTimeout value %q, use one of: continue | abort", value)
		}
	}
}
