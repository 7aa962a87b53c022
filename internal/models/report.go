package models

// Report is an opaque binary artifact. Data travels as base64 in JSON,
// which encoding/json decodes into the byte slice.
type Report struct {
	ID   int64  `json:"id"`
	Data []byte `json:"data"`
}

// Size returns the decoded size of the report payload in bytes
func (r Report) Size() int64 {
	return int64(len(r.Data))
}

// ReportMetadata is returned by upload and update calls
type ReportMetadata struct {
	ID   int64 `json:"id"`
	Size int64 `json:"size,omitempty"`
}
