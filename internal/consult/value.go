package consult

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the variants a fact value can take.
type ValueKind int

const (
	KindAbsent ValueKind = iota
	KindString
	KindNumber
	KindBool
	KindList
)

// Value is the tagged-union representation of a single extracted fact.
// The extraction collaborator hands us arbitrary JSON; we keep it closed
// to string | number | bool | list-of-Value so scoring rules can match on
// kind instead of reflecting at runtime.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
	Bool bool
	List []Value
}

func StringValue(s string) Value     { return Value{Kind: KindString, Str: s} }
func NumberValue(n float64) Value    { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value         { return Value{Kind: KindBool, Bool: b} }
func ListValue(items ...Value) Value { return Value{Kind: KindList, List: items} }

// IsZero reports whether the value counts as absent for scoring: missing,
// empty string, zero, false, or an empty list.
func (v Value) IsZero() bool {
	switch v.Kind {
	case KindString:
		return strings.TrimSpace(v.Str) == ""
	case KindNumber:
		return v.Num == 0
	case KindBool:
		return !v.Bool
	case KindList:
		return len(v.List) == 0
	default:
		return true
	}
}

// Text renders the value as the string the quality rules inspect.
// Lists are joined with ", " so length and token checks see every element.
func (v Value) Text() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindList:
		parts := make([]string, 0, len(v.List))
		for _, item := range v.List {
			parts = append(parts, item.Text())
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// Equal reports deep equality of two values.
func (v Value) Equal(other Value) bool {
	if v.Kind != other.Kind {
		return false
	}
	switch v.Kind {
	case KindString:
		return v.Str == other.Str
	case KindNumber:
		return v.Num == other.Num
	case KindBool:
		return v.Bool == other.Bool
	case KindList:
		if len(v.List) != len(other.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(other.List[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// MarshalJSON writes the underlying JSON value, not the union wrapper.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindString:
		return json.Marshal(v.Str)
	case KindNumber:
		return json.Marshal(v.Num)
	case KindBool:
		return json.Marshal(v.Bool)
	case KindList:
		if v.List == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts string, number, bool, or array. Objects and other
// shapes are rejected so a malformed extraction payload fails loudly at the
// boundary instead of silently scoring as garbage.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Value{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = StringValue(s)
		return nil
	case '[':
		var items []Value
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		*v = Value{Kind: KindList, List: items}
		return nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(data, &b); err != nil {
			return err
		}
		*v = BoolValue(b)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("consult: unsupported fact value %s", trimmed)
		}
		*v = NumberValue(n)
		return nil
	}
}

// Facts is the fact map accumulated about the business over the conversation.
// Keys are not constrained; the scorer ignores keys it has no rule for.
type Facts map[string]Value

// Clone returns a shallow-enough copy: list slices are duplicated so callers
// can merge without aliasing the stored session state.
func (f Facts) Clone() Facts {
	if f == nil {
		return Facts{}
	}
	out := make(Facts, len(f))
	for k, v := range f {
		if v.Kind == KindList {
			items := make([]Value, len(v.List))
			copy(items, v.List)
			v.List = items
		}
		out[k] = v
	}
	return out
}

// Merge folds incoming into f under the prefer-more-specific rule:
// a longer string replaces a shorter one only when it is more than 1.5x
// as long, lists are unioned and deduplicated, and anything else is a last
// write that only counts when the value actually changed. Returns whether
// any stored value changed.
func (f Facts) Merge(incoming Facts) bool {
	changed := false
	for key, next := range incoming {
		if next.IsZero() {
			continue
		}
		prev, ok := f[key]
		if !ok || prev.IsZero() {
			f[key] = next
			changed = true
			continue
		}
		switch {
		case prev.Kind == KindString && next.Kind == KindString:
			if float64(len(next.Str)) > 1.5*float64(len(prev.Str)) {
				f[key] = next
				changed = true
			}
		case prev.Kind == KindList && next.Kind == KindList:
			merged := unionLists(prev.List, next.List)
			if len(merged) != len(prev.List) {
				f[key] = Value{Kind: KindList, List: merged}
				changed = true
			}
		default:
			if !prev.Equal(next) {
				f[key] = next
				changed = true
			}
		}
	}
	return changed
}

func unionLists(a, b []Value) []Value {
	out := make([]Value, 0, len(a)+len(b))
	out = append(out, a...)
	for _, item := range b {
		dup := false
		for _, existing := range out {
			if existing.Equal(item) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, item)
		}
	}
	return out
}

// JoinedText concatenates every stored value into one lowercase string.
// The comprehensive-info detector matches literal patterns against it.
func (f Facts) JoinedText() string {
	parts := make([]string, 0, len(f))
	for _, key := range sortedKeys(f) {
		parts = append(parts, f[key].Text())
	}
	return strings.ToLower(strings.Join(parts, " "))
}

func sortedKeys(f Facts) []string {
	keys := make([]string, 0, len(f))
	for k := range f {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Has reports whether any of the given keys holds a non-zero value.
func (f Facts) Has(keys ...string) bool {
	for _, k := range keys {
		if v, ok := f[k]; ok && !v.IsZero() {
			return true
		}
	}
	return false
}

// Get returns the stored value's text form, or "" when absent.
func (f Facts) Get(key string) string {
	if v, ok := f[key]; ok {
		return v.Text()
	}
	return ""
}
