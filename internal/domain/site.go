package domain

import (
	"fmt"
	"strings"
	"time"
)

type Site struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

func (s *Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("site name is required")
	}
	return nil
}

// DisplayID returns the first 8 characters of ID for compact listings.
func (s *Site) DisplayID() string {
	return shortID(s.ID)
}

func shortID(id string) string {
	if len(id) >= 8 {
		return id[:8]
	}
	return id
}
