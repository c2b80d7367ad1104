package service

// ItemResult reports the outcome of one item in a batch operation.
// Batch loops run to completion; a failure on one item never aborts
// the rest, and callers get the full per-item picture instead of a
// single opaque error.
type ItemResult struct {
	ID      int64  `json:"id"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// BulkResult summarizes a batch operation.
type BulkResult struct {
	Succeeded int          `json:"succeeded"`
	Failed    int          `json:"failed"`
	Items     []ItemResult `json:"items"`
}

func (b *BulkResult) add(id int64, err error) {
	item := ItemResult{ID: id, Success: err == nil}
	if err != nil {
		item.Error = err.Error()
		b.Failed++
	} else {
		b.Succeeded++
	}
	b.Items = append(b.Items, item)
}
