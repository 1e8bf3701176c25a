package domain

import "time"

// Client represents a person managed through the platform. A client may be
// linked to a user account (its owner); unlinked clients are reachable only
// by privileged roles.
type Client struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      *uint      `gorm:"index" json:"userId,omitempty"` // Owning user, nullable
	DisplayName string     `gorm:"size:255;not null" json:"displayName"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Notes       string     `gorm:"size:1000" json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Owner returns the linked user id, or nil for unlinked clients. This is the
// effective-owner lookup for the root of every ownership chain.
func (c *Client) Owner() *uint {
	return c.UserID
}
