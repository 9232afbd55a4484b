package runner

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var variablePattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Expand substitutes ${NAME} references in s with values from vars. An
// unknown variable is an error rather than an empty substitution.
func Expand(s string, vars map[string]string) (string, error) {
	var missing []string

	expanded := variablePattern.ReplaceAllStringFunc(s, func(match string) string {
		name := match[2 : len(match)-1]
		value, ok := vars[name]
		if !ok {
			missing = append(missing, name)
			return match
		}
		return value
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("undefined variable(s) %s in '%s'", strings.Join(missing, ", "), s)
	}

	return expanded, nil
}

// ExpandTemplates walks the struct pointed to by v and expands variable
// references in every string field tagged with `template`. Nested structs,
// pointers and slices are traversed.
func ExpandTemplates(v any, vars map[string]string) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("expected a non-nil pointer, got %T", v)
	}

	return expandValue(rv.Elem(), vars, false)
}

func expandValue(rv reflect.Value, vars map[string]string, templated bool) error {
	switch rv.Kind() {
	case reflect.String:
		if !templated {
			return nil
		}
		expanded, err := Expand(rv.String(), vars)
		if err != nil {
			return err
		}
		rv.SetString(expanded)

	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return expandValue(rv.Elem(), vars, templated)

	case reflect.Slice:
		for i := 0; i < rv.Len(); i++ {
			if err := expandValue(rv.Index(i), vars, templated); err != nil {
				return err
			}
		}

	case reflect.Struct:
		rt := rv.Type()
		for i := 0; i < rv.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() {
				continue
			}

			_, tagged := field.Tag.Lookup("template")
			if err := expandValue(rv.Field(i), vars, tagged); err != nil {
				return fmt.Errorf("field %s: %w", field.Name, err)
			}
		}
	}

	return nil
}
