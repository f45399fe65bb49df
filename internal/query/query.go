// Package query turns caller-supplied filter and ordering criteria into
// parameterized SELECT statements and runs them against PostgreSQL.
//
// Caller input travels on two separate paths:
//   - identifiers (filter keys, the order_by column) are checked against a
//     strict ASCII whitelist and then spliced into the SQL text as a Column;
//   - values are never spliced, they are bound positionally ($1, $2, ...).
//
// Flow:
//
//	url.Values / map  ->  []FilterCriterion + *OrderSpec   (criteria.go)
//	                  ->  QueryPlan{SQL, Args}              (builder.go)
//	                  ->  RecordSet / Record                (executor.go)
//
// Everything up to QueryPlan is pure and safe for concurrent use. The executor
// borrows a connection from the caller's pool for a single statement.
package query
