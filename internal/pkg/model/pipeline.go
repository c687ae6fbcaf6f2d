package model

import (
	"fmt"

	"github.com/relvacode/iso8601"
)

// Pipeline is a snapshot returned by the pipeline creation.
type Pipeline struct {
	ID        int           `json:"id"`
	Ref       string        `json:"ref"`
	SHA       string        `json:"sha"`
	Status    string        `json:"status"`
	WebURL    string        `json:"web_url"`
	CreatedAt *iso8601.Time `json:"created_at,omitempty"`
}

func (p Pipeline) String() string {
	return fmt.Sprintf("pipeline #%d", p.ID)
}
