package integration

import "time"

// ItemType is the kind of CRM record an Item was built from.
type ItemType string

const (
	ItemTypeContact ItemType = "Contact"
	ItemTypeCompany ItemType = "Company"
	ItemTypeDeal    ItemType = "Deal"
)

// Item is the canonical cross-provider metadata record. It is built per
// request and never persisted.
type Item struct {
	ID               string     `json:"id"`
	Type             ItemType   `json:"type"`
	Name             string     `json:"name"`
	CreationTime     *time.Time `json:"creation_time"`
	LastModifiedTime *time.Time `json:"last_modified_time"`
	URL              string     `json:"url,omitempty"`
}

// ParseTime parses an RFC 3339 timestamp as returned by CRM APIs, returning
// nil for empty or unparseable input.
func ParseTime(v string) *time.Time {
	if v == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return nil
	}
	return &t
}
