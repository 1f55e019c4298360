package search

// Query is a structured filter expression in the search backend's query DSL.
// Builders are pure functions over plain data; no I/O happens until a Query
// is handed to Client.Search or Client.Count.
type Query map[string]any

// MatchAll matches every document.
func MatchAll() Query {
	return Query{"match_all": map[string]any{}}
}

// Term matches documents whose field equals value exactly.
func Term(field string, value any) Query {
	return Query{"term": map[string]any{field: value}}
}

// Terms matches documents whose field equals any of the values.
func Terms(field string, values ...any) Query {
	return Query{"terms": map[string]any{field: values}}
}

// RangeBounds holds the optional bounds of a range query. Nil bounds are
// omitted from the rendered query.
type RangeBounds struct {
	GTE any
	LTE any
	GT  any
	LT  any
}

// Range matches documents whose field falls within the given bounds.
func Range(field string, bounds RangeBounds) Query {
	params := map[string]any{}
	if bounds.GTE != nil {
		params["gte"] = bounds.GTE
	}
	if bounds.LTE != nil {
		params["lte"] = bounds.LTE
	}
	if bounds.GT != nil {
		params["gt"] = bounds.GT
	}
	if bounds.LT != nil {
		params["lt"] = bounds.LT
	}
	return Query{"range": map[string]any{field: params}}
}

// TimeRange matches documents whose date field lies in [start, end].
func TimeRange(field, start, end string) Query {
	return Range(field, RangeBounds{GTE: start, LTE: end})
}

// BoolClauses holds the sub-filters of a boolean query. Empty clause lists
// are omitted from the rendered query.
type BoolClauses struct {
	Must    []Query
	Should  []Query
	MustNot []Query
	Filter  []Query
}

// Bool combines sub-filters into a boolean query.
func Bool(clauses BoolClauses) Query {
	params := map[string]any{}
	if len(clauses.Must) > 0 {
		params["must"] = clauses.Must
	}
	if len(clauses.Should) > 0 {
		params["should"] = clauses.Should
	}
	if len(clauses.MustNot) > 0 {
		params["must_not"] = clauses.MustNot
	}
	if len(clauses.Filter) > 0 {
		params["filter"] = clauses.Filter
	}
	return Query{"bool": params}
}

// Exists matches documents that carry the field at all.
func Exists(field string) Query {
	return Query{"exists": map[string]any{"field": field}}
}

// Wildcard matches documents whose field matches the pattern.
func Wildcard(field, pattern string) Query {
	return Query{"wildcard": map[string]any{field: pattern}}
}
