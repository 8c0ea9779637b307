package rowstore

import "encoding/json"

// Query is one serialized query expression understood by the row store's
// list endpoint.
type Query string

type queryExpr struct {
	Method    string `json:"method"`
	Attribute string `json:"attribute,omitempty"`
	Values    []any  `json:"values,omitempty"`
}

func build(method, attribute string, values ...any) Query {
	// expressions only ever carry strings and numbers, so marshalling
	// cannot fail
	encoded, _ := json.Marshal(queryExpr{Method: method, Attribute: attribute, Values: values})
	return Query(encoded)
}

// Equal matches rows whose attribute equals any of the given values.
func Equal(attribute string, values ...any) Query {
	return build("equal", attribute, values...)
}

// GreaterThan matches rows whose attribute exceeds the value.
func GreaterThan(attribute string, value any) Query {
	return build("greaterThan", attribute, value)
}

// LessThan matches rows whose attribute is below the value.
func LessThan(attribute string, value any) Query {
	return build("lessThan", attribute, value)
}

// Search matches rows via the store's full-text index.
func Search(attribute, terms string) Query {
	return build("search", attribute, terms)
}

// Or combines sub-expressions disjunctively.
func Or(queries ...Query) Query {
	nested := make([]any, 0, len(queries))
	for _, q := range queries {
		nested = append(nested, json.RawMessage(q))
	}
	return build("or", "", nested...)
}

// OrderAsc sorts results by attribute, ascending.
func OrderAsc(attribute string) Query {
	return build("orderAsc", attribute)
}

// OrderDesc sorts results by attribute, descending.
func OrderDesc(attribute string) Query {
	return build("orderDesc", attribute)
}

// Limit caps the page size.
func Limit(n int) Query {
	return build("limit", "", n)
}

// CursorAfter resumes listing after the row with the given id.
func CursorAfter(id string) Query {
	return build("cursorAfter", "", id)
}
