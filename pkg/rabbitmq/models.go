package rabbitmq

// CheckBatchMessage is the body of a message on the check queue. ID is
// optional and only used to correlate logs.
type CheckBatchMessage struct {
	ID   string   `json:"id,omitempty"`
	URLs []string `json:"urls"`
}
