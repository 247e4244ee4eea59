package config

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
)

// decodeHook replaces viper's default hooks. Durations still decode from
// strings, but a string becomes a list through SplitList, so a comma inside
// a glob alternation such as "*.{html,htm}" does not split the pattern.
func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		stringToListHook,
	)
}

func stringToListHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String || to.Kind() != reflect.Slice || to.Elem().Kind() != reflect.String {
		return data, nil
	}
	return SplitList(reflect.ValueOf(data).String()), nil
}

// SplitList splits a comma separated list as read from an environment
// variable. Commas inside {...} or [...] belong to the item, and items are
// trimmed; empty items are dropped.
func SplitList(s string) []string {
	items := []string{}
	depth := 0
	inClass := false
	start := 0

	add := func(item string) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}

	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '\\':
			i++
		case inClass:
			if c == ']' {
				inClass = false
			}
		case c == '[':
			inClass = true
		case c == '{':
			depth++
		case c == '}' && depth > 0:
			depth--
		case c == ',' && depth == 0:
			add(s[start:i])
			start = i + 1
		}
	}
	add(s[start:])

	return items
}
