package template

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/aymerick/raymond"
)

// BuiltinHelpers returns the optional helper set shipped with hbstree.
// Configured helpers registered afterwards replace entries of the same name.
func BuiltinHelpers() map[string]interface{} {
	return map[string]interface{}{
		"upper":   Upper,
		"lower":   Lower,
		"trim":    Trim,
		"slugify": Slugify,
		"json":    ToJSON,
		"join":    Join,
		"default": Default,
	}
}

// Upper upper-cases the string form of v.
func Upper(v interface{}) string {
	return strings.ToUpper(raymond.Str(v))
}

// Lower lower-cases the string form of v.
func Lower(v interface{}) string {
	return strings.ToLower(raymond.Str(v))
}

// Trim strips surrounding whitespace from the string form of v.
func Trim(v interface{}) string {
	return strings.TrimSpace(raymond.Str(v))
}

// ToJSON marshals a value to compact JSON. The result is not HTML-escaped
// by the engine.
func ToJSON(v interface{}) raymond.SafeString {
	b, err := json.Marshal(v)
	if err != nil {
		return raymond.SafeString("null")
	}
	return raymond.SafeString(b)
}

// Join joins the elements of a slice or array with sep.
func Join(list interface{}, sep string) string {
	rv := reflect.ValueOf(list)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return raymond.Str(list)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = fmt.Sprint(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

// Default returns fallback when v renders as an empty string.
func Default(v, fallback interface{}) interface{} {
	if raymond.Str(v) == "" {
		return fallback
	}
	return v
}

var nonSlug = regexp.MustCompile(`[^a-z0-9-]+`)

// Slugify normalizes a string into kebab-case.
func Slugify(value interface{}) string {
	s := strings.ToLower(strings.TrimSpace(raymond.Str(value)))
	s = strings.ReplaceAll(s, "_", "-")
	s = strings.Join(strings.Fields(s), "-")
	s = nonSlug.ReplaceAllString(s, "")
	s = strings.Trim(s, "-")
	if s == "" {
		return "default"
	}
	return s
}
