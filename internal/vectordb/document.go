package vectordb

// Match is one query hit. Distance is cosine distance, so 1-Distance is the
// cosine similarity between the query and the chunk.
type Match struct {
	ID       string
	Content  string
	Metadata map[string]any
	Distance float32
}

// Filter is a conjunction of metadata predicates. Every Equal entry must
// match exactly, and for every In entry the field must equal one of the
// listed values.
type Filter struct {
	Equal map[string]any
	In    map[string][]any
}

// FieldIn returns a filter requiring field to be one of values.
func FieldIn(field string, values ...string) *Filter {
	vs := make([]any, len(values))
	for i, v := range values {
		vs[i] = v
	}
	return &Filter{In: map[string][]any{field: vs}}
}

// IsEmpty reports whether the filter places no constraint.
func (f *Filter) IsEmpty() bool {
	return f == nil || (len(f.Equal) == 0 && len(f.In) == 0)
}
