package expr

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"go.starlark.net/starlark"
)

// FromGo converts a Go value to a Starlark value. String-keyed maps and
// structs become records that support both dot and index access.
func FromGo(v any) starlark.Value {
	if v == nil {
		return starlark.None
	}

	switch t := v.(type) {
	case starlark.Value:
		return t
	case string:
		return starlark.String(t)
	case []byte:
		return starlark.String(string(t))
	case bool:
		return starlark.Bool(t)
	case int:
		return starlark.MakeInt(t)
	case int8:
		return starlark.MakeInt64(int64(t))
	case int16:
		return starlark.MakeInt64(int64(t))
	case int32:
		return starlark.MakeInt64(int64(t))
	case int64:
		return starlark.MakeInt64(t)
	case uint:
		return starlark.MakeUint(t)
	case uint8:
		return starlark.MakeUint64(uint64(t))
	case uint16:
		return starlark.MakeUint64(uint64(t))
	case uint32:
		return starlark.MakeUint64(uint64(t))
	case uint64:
		return starlark.MakeUint64(t)
	case float32:
		return starlark.Float(float64(t))
	case float64:
		return starlark.Float(t)
	case Method:
		return methodBuiltin("method", t)
	case func(args ...any) (any, error):
		return methodBuiltin("method", t)
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		items := make([]starlark.Value, rv.Len())
		for i := range items {
			items[i] = FromGo(rv.Index(i).Interface())
		}
		return starlark.NewList(items)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			dict := starlark.NewDict(rv.Len())
			it := rv.MapRange()
			for it.Next() {
				// unhashable keys are skipped
				_ = dict.SetKey(FromGo(it.Key().Interface()), FromGo(it.Value().Interface()))
			}
			return dict
		}
		rec := &record{fields: make(map[string]starlark.Value, rv.Len())}
		it := rv.MapRange()
		for it.Next() {
			rec.fields[it.Key().String()] = FromGo(it.Value().Interface())
		}
		return rec
	case reflect.Struct:
		rec := &record{fields: map[string]starlark.Value{}}
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			if f := rt.Field(i); f.IsExported() {
				rec.fields[f.Name] = FromGo(rv.Field(i).Interface())
			}
		}
		return rec
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return starlark.None
		}
		return FromGo(rv.Elem().Interface())
	}

	return starlark.String(fmt.Sprintf("%v", v))
}

// ToGo converts a Starlark value back to plain Go: ints become int64, floats
// float64, lists, tuples and other iterables []any, records and dicts
// map[string]any. Values with no Go counterpart, such as functions, are
// returned unchanged.
func ToGo(v starlark.Value) any {
	if v == nil || v == starlark.None {
		return nil
	}

	switch t := v.(type) {
	case starlark.String:
		return string(t)
	case starlark.Bool:
		return bool(t)
	case starlark.Int:
		if i, ok := t.Int64(); ok {
			return i
		}
		return t.String()
	case starlark.Float:
		return float64(t)
	case *starlark.List:
		out := make([]any, t.Len())
		for i := range out {
			out[i] = ToGo(t.Index(i))
		}
		return out
	case starlark.Tuple:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToGo(item)
		}
		return out
	case *record:
		out := make(map[string]any, len(t.fields))
		for k, fv := range t.fields {
			out[k] = ToGo(fv)
		}
		return out
	case *starlark.Dict:
		out := make(map[string]any, t.Len())
		for _, item := range t.Items() {
			if s, ok := starlark.AsString(item[0]); ok {
				out[s] = ToGo(item[1])
			} else {
				out[item[0].String()] = ToGo(item[1])
			}
		}
		return out
	case starlark.Iterable:
		// range(), sets and other iterables
		out := []any{}
		iter := t.Iterate()
		defer iter.Done()
		var item starlark.Value
		for iter.Next(&item) {
			out = append(out, ToGo(item))
		}
		return out
	}
	return v
}

// Stringify renders a Go value the way templates print it: nil is empty,
// lists and records use expression syntax, everything else its natural
// textual form.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case starlark.String:
		return string(t)
	case starlark.Value:
		if t == starlark.None {
			return ""
		}
		return t.String()
	case []any, map[string]any:
		return FromGo(t).String()
	}
	return fmt.Sprintf("%v", v)
}

// record is a string-keyed value with attribute and index access, so
// templates can write either user.name or user["name"].
type record struct {
	fields map[string]starlark.Value
	frozen bool
}

var (
	_ starlark.HasAttrs = (*record)(nil)
	_ starlark.Mapping  = (*record)(nil)
	_ starlark.Sequence = (*record)(nil)
)

func (r *record) String() string {
	var b strings.Builder
	b.WriteByte('{')
	for i, k := range r.AttrNames() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%q: %s", k, r.fields[k].String())
	}
	b.WriteByte('}')
	return b.String()
}

func (r *record) Type() string         { return "record" }
func (r *record) Truth() starlark.Bool { return len(r.fields) > 0 }
func (r *record) Len() int             { return len(r.fields) }

func (r *record) Hash() (uint32, error) {
	return 0, fmt.Errorf("unhashable type: record")
}

func (r *record) Freeze() {
	if r.frozen {
		return
	}
	r.frozen = true
	for _, v := range r.fields {
		v.Freeze()
	}
}

// Attr looks a field up by exact name, then case-insensitively so Go struct
// fields can be reached with lower-case names.
func (r *record) Attr(name string) (starlark.Value, error) {
	if v, ok := r.fields[name]; ok {
		return v, nil
	}
	for k, v := range r.fields {
		if strings.EqualFold(k, name) {
			return v, nil
		}
	}
	return nil, nil
}

func (r *record) AttrNames() []string {
	names := make([]string, 0, len(r.fields))
	for k := range r.fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func (r *record) Get(k starlark.Value) (starlark.Value, bool, error) {
	s, ok := starlark.AsString(k)
	if !ok {
		return nil, false, fmt.Errorf("record key must be a string, got %s", k.Type())
	}
	v, found := r.fields[s]
	return v, found, nil
}

func (r *record) Iterate() starlark.Iterator {
	names := r.AttrNames()
	keys := make([]starlark.Value, len(names))
	for i, k := range names {
		keys[i] = starlark.String(k)
	}
	return starlark.NewList(keys).Iterate()
}
