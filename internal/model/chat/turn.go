package chat

import "time"

// Turn pairs one user utterance with the reply it produced.
// Immutable once written; both texts are non-empty at write time.
type Turn struct {
	You       string    `json:"You"`
	Cortex    string    `json:"Cortex"`
	Timestamp time.Time `json:"timestamp"`
}
