// Package record provides the ordered, typed JSON container returned by the
// registry client.
//
// # Overview
//
// Registry responses have no fixed schema: a company profile mixes strings,
// numbers, nested objects and lists, and inlined sub-resources add further
// nesting. Rather than handing callers map[string]any, this package decodes
// responses into two types:
//
//   - [Map]: an insertion-ordered mapping from string keys to [Value]
//   - [Value]: a tagged union of null, bool, number, string, [Map] and list
//
// Key order is preserved from the wire, so a record re-encodes with the same
// field order the API returned, with inlined relations appended in link order.
//
// # Usage
//
//	m, err := record.Parse(body)
//	if err != nil {
//	    return err
//	}
//	if name, ok := m.Get("company_name"); ok {
//	    fmt.Println(name.Str())
//	}
//	out, _ := json.Marshal(m)  // same key order as body
//
// # Empty Records
//
// [Empty] returns the canonical empty record used to signal "not found"
// without an error. Use [Map.IsEmpty] to test for it.
//
// Numbers are kept as [encoding/json.Number] so large company figures and
// identifiers round-trip without float conversion.
package record
