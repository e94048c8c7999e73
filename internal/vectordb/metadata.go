package vectordb

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// kindsKey holds the non-string value kinds of a stored metadata map, as
// "field:kind" pairs separated by commas. chromem stores only strings.
const kindsKey = "_kinds"

const (
	kindInt   = "int"
	kindFloat = "float"
	kindBool  = "bool"
)

// encodeValue renders a scalar as chromem stores it. The kind is empty for
// strings. ok is false for unsupported values.
func encodeValue(v any) (s, kind string, ok bool) {
	switch x := v.(type) {
	case string:
		return x, "", true
	case bool:
		return strconv.FormatBool(x), kindBool, true
	case int:
		return strconv.FormatInt(int64(x), 10), kindInt, true
	case int8:
		return strconv.FormatInt(int64(x), 10), kindInt, true
	case int16:
		return strconv.FormatInt(int64(x), 10), kindInt, true
	case int32:
		return strconv.FormatInt(int64(x), 10), kindInt, true
	case int64:
		return strconv.FormatInt(x, 10), kindInt, true
	case uint:
		return strconv.FormatUint(uint64(x), 10), kindInt, true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), kindInt, true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), kindInt, true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), kindInt, true
	case uint64:
		return strconv.FormatUint(x, 10), kindInt, true
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32), kindFloat, true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), kindFloat, true
	default:
		return "", "", false
	}
}

// encodeMetadata converts scalar metadata to chromem's string map. Values
// that are not scalars are dropped.
func encodeMetadata(md map[string]any) map[string]string {
	out := make(map[string]string, len(md)+1)
	var kinds []string
	for k, v := range md {
		if k == kindsKey {
			continue
		}
		s, kind, ok := encodeValue(v)
		if !ok {
			continue
		}
		out[k] = s
		if kind != "" {
			kinds = append(kinds, k+":"+kind)
		}
	}
	if len(kinds) > 0 {
		sort.Strings(kinds)
		out[kindsKey] = strings.Join(kinds, ",")
	}
	return out
}

// decodeMetadata restores the typed values written by encodeMetadata.
func decodeMetadata(m map[string]string) map[string]any {
	kinds := make(map[string]string)
	if raw := m[kindsKey]; raw != "" {
		for _, pair := range strings.Split(raw, ",") {
			if field, kind, ok := strings.Cut(pair, ":"); ok {
				kinds[field] = kind
			}
		}
	}

	out := make(map[string]any, len(m))
	for k, s := range m {
		if k == kindsKey {
			continue
		}
		out[k] = decodeValue(s, kinds[k])
	}
	return out
}

func decodeValue(s, kind string) any {
	switch kind {
	case kindInt:
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return int(n)
		}
	case kindFloat:
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	case kindBool:
		if b, err := strconv.ParseBool(s); err == nil {
			return b
		}
	}
	return s
}

// whereClauses expands a filter into chromem equality maps, one per
// combination of In values. An In entry with no values matches nothing,
// which is reported as a nil slice with ok false.
func whereClauses(f *Filter) (clauses []map[string]string, ok bool, err error) {
	base := make(map[string]string)
	if f != nil {
		for k, v := range f.Equal {
			s, _, valid := encodeValue(v)
			if !valid {
				return nil, false, fmt.Errorf("filter on %q: unsupported value %T", k, v)
			}
			base[k] = s
		}
	}
	clauses = []map[string]string{base}
	if f == nil {
		return clauses, true, nil
	}

	fields := make([]string, 0, len(f.In))
	for k := range f.In {
		fields = append(fields, k)
	}
	sort.Strings(fields)

	for _, field := range fields {
		values := f.In[field]
		if len(values) == 0 {
			return nil, false, nil
		}
		seen := make(map[string]bool, len(values))
		var next []map[string]string
		for _, v := range values {
			s, _, valid := encodeValue(v)
			if !valid {
				return nil, false, fmt.Errorf("filter on %q: unsupported value %T", field, v)
			}
			if seen[s] {
				continue
			}
			seen[s] = true
			for _, c := range clauses {
				if existing, set := c[field]; set && existing != s {
					continue
				}
				clone := make(map[string]string, len(c)+1)
				for ck, cv := range c {
					clone[ck] = cv
				}
				clone[field] = s
				next = append(next, clone)
			}
		}
		if len(next) == 0 {
			return nil, false, nil
		}
		clauses = next
	}
	return clauses, true, nil
}
