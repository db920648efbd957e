package models

// Event is an audit record published to Kafka after a successful write.
type Event struct {
	EventID   string `json:"event_id"`
	Timestamp int64  `json:"timestamp"`
	UserID    int64  `json:"user_id"`
	Operation string `json:"operation"`
	Subject   string `json:"subject"`
}
