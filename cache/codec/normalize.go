package codec

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"google.golang.org/protobuf/proto"
)

// UnsupportedTypeError reports a value outside the serializable variant set.
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	if e.Type == nil {
		return "codec: unsupported value"
	}
	return fmt.Sprintf("codec: unsupported value type %s", e.Type)
}

// Normalize converts v into the closed set of cacheable variants:
//
//   - primitives: nil, bool, string, []byte, signed ints -> int64,
//     unsigned ints -> uint64, floats -> float64
//   - temporal: time.Time -> RFC 3339 (UTC) string, time.Duration -> string
//   - decimal: decimal.Decimal -> float64
//   - collections: slices/arrays -> []any, string-keyed maps -> map[string]any,
//     set-shaped maps (struct{} values) -> deterministically ordered []any
//   - structured records: structs -> plain field map (exported fields, json
//     tag names honored, anonymous embedded structs flattened)
//   - proto.Message values pass through untouched for the Protobuf codec
//
// Anything else returns *UnsupportedTypeError.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, string, int64, uint64, float64:
		return x, nil
	case int:
		return int64(x), nil
	case []byte:
		return x, nil
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano), nil
	case time.Duration:
		return x.String(), nil
	case decimal.Decimal:
		f, _ := x.Float64()
		return f, nil
	case proto.Message:
		return x, nil
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, mv := range x {
			nv, err := Normalize(mv)
			if err != nil {
				return nil, err
			}
			out[k] = nv
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, ev := range x {
			nv, err := Normalize(ev)
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	}
	return normalizeReflect(reflect.ValueOf(v))
}

func normalizeReflect(rv reflect.Value) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint(), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return rv.Bytes(), nil
		}
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			nv, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case reflect.Map:
		if isSetShaped(rv.Type()) {
			return setToList(rv)
		}
		if rv.Type().Key().Kind() != reflect.String {
			return nil, &UnsupportedTypeError{Type: rv.Type()}
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			nv, err := Normalize(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = nv
		}
		return out, nil
	case reflect.Struct:
		return structToMap(rv)
	}
	return nil, &UnsupportedTypeError{Type: rv.Type()}
}

func isSetShaped(t reflect.Type) bool {
	e := t.Elem()
	return e.Kind() == reflect.Struct && e.NumField() == 0
}

// setToList renders a set-shaped map as a deterministically ordered list.
func setToList(rv reflect.Value) (any, error) {
	type member struct {
		order string
		value any
	}
	members := make([]member, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		nv, err := Normalize(iter.Key().Interface())
		if err != nil {
			return nil, err
		}
		members = append(members, member{order: fmt.Sprint(nv), value: nv})
	}
	sort.Slice(members, func(i, j int) bool { return members[i].order < members[j].order })
	out := make([]any, len(members))
	for i, m := range members {
		out[i] = m.value
	}
	return out, nil
}

func structToMap(rv reflect.Value) (any, error) {
	t := rv.Type()
	out := make(map[string]any, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("json")
		if tag == "-" {
			continue
		}
		name, _, _ := strings.Cut(tag, ",")
		if name == "" {
			name = f.Name
		}
		nv, err := Normalize(rv.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		if f.Anonymous && tag == "" {
			if m, ok := nv.(map[string]any); ok {
				for k, ev := range m {
					out[k] = ev
				}
				continue
			}
		}
		out[name] = nv
	}
	return out, nil
}
