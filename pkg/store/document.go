package store

// Document is the generic retrieved-content unit shared by the vector store
// and the chat retrieval layer.
type Document struct {
	ID       string                 `json:"id"`
	Content  string                 `json:"content"`
	Score    float32                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

// Data partitions of a company collection.
const (
	PartitionLive        = "live"
	PartitionTest        = "test"
	PartitionHold        = "hold"
	PartitionCorrections = "corrections"
	PartitionFeedback    = "feedback"
)

// ValidPartition reports whether p names a caller-selectable partition.
// The feedback partition is internal and only reachable through the
// feedback endpoints.
func ValidPartition(p string) bool {
	switch p {
	case PartitionLive, PartitionTest, PartitionHold, PartitionCorrections:
		return true
	}
	return false
}
