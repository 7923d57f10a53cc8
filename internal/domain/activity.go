package domain

import "time"

type AgentActivity struct {
	ID        string    `json:"id"`
	Tool      string    `json:"tool"`
	Message   string    `json:"message"`
	Detail    string    `json:"detail,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
