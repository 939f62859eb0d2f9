package domain

import "fmt"

// Capture is a short free-text note saved to the inbox
type Capture struct {
	ID      int64  `json:"id" yaml:"id"`
	Content string `json:"content" yaml:"content"`
}

// String renders the capture the way the inbox lists it
func (c Capture) String() string {
	return fmt.Sprintf("%d: %s", c.ID, c.Content)
}
