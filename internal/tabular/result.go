package tabular

// Result is dialect A: rows plus accumulated diagnostics. Data is empty
// (never absent) when nothing matched; Messages explain why.
type Result struct {
	Data     []map[string]any `json:"data"`
	Messages []string         `json:"messages"`
}

// NewResult assembles a dialect-A result from a table and its messages.
func NewResult(t *Table, msgs Messages) *Result {
	return &Result{Data: t.Records(), Messages: append([]string{}, msgs...)}
}

// NullResult is dialect A with explicitly null data, the shape returned
// when a tool cannot even choose a source table.
func NullResult(msgs Messages) *Result {
	return &Result{Data: nil, Messages: append([]string{}, msgs...)}
}

// StatusResult is dialect B: a status tag plus either rows or
// human-readable reasons.
type StatusResult struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

func Success(t *Table) *StatusResult {
	return &StatusResult{Status: "success", Data: t.Records()}
}

func SuccessRows(rows []map[string]any) *StatusResult {
	return &StatusResult{Status: "success", Data: rows}
}

func Failure(reason string) *StatusResult {
	return &StatusResult{Status: "error", Data: []string{reason}}
}
