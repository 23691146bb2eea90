package database

import (
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the lifecycle state of an ad. It is a closed set; transitions
// between persisted states go through the CanTransitionTo table rather than
// free-form string comparisons.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPublished Status = "published"
	StatusRejected  Status = "rejected"
	StatusDeleted   Status = "deleted"

	// StatusDraft is a render-only state used for dialogue previews.
	// It never reaches storage.
	StatusDraft Status = "draft"
)

// transitions lists the allowed moves between persisted statuses:
// pending can be moderated, published ads return to pending on edit,
// and owners can soft-delete anything that is not already deleted.
var transitions = map[Status][]Status{
	StatusPending:   {StatusPublished, StatusRejected, StatusDeleted},
	StatusPublished: {StatusPending, StatusDeleted},
	StatusRejected:  {StatusPending, StatusDeleted},
}

// Valid reports whether s is one of the persisted statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusPublished, StatusRejected, StatusDeleted:
		return true
	}
	return false
}

// CanTransitionTo reports whether moving from s to next is an allowed
// lifecycle transition.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// StringList is a []string stored as a JSON array in a TEXT column.
// Used for the ordered photo file id list.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal string list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	return scanJSONList(src, l)
}

// Int64List is a []int64 stored as a JSON array in a TEXT column.
// Used for the ordered publication message id list.
type Int64List []int64

// Value implements driver.Valuer.
func (l Int64List) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal int64 list: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *Int64List) Scan(src any) error {
	return scanJSONList(src, l)
}

func scanJSONList(src, dst any) error {
	switch v := src.(type) {
	case nil:
		return nil
	case string:
		if v == "" {
			return nil
		}
		return json.Unmarshal([]byte(v), dst)
	case []byte:
		if len(v) == 0 {
			return nil
		}
		return json.Unmarshal(v, dst)
	default:
		return fmt.Errorf("unsupported source type %T for JSON list column", src)
	}
}

// Ad is a single classified listing with one owner and one lifecycle.
type Ad struct {
	ID        int64     `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`

	Username sql.NullString `db:"username"`
	Phone    sql.NullString `db:"phone"`

	Title       string          `db:"title"`
	Description string          `db:"description"`
	PriceText   string          `db:"price_text"`
	PriceValue  sql.NullFloat64 `db:"price_value"`
	Category    string          `db:"category"`
	Photos      StringList      `db:"photos_json"`
	City        string          `db:"city"`

	Status      Status       `db:"status"`
	PublishedAt sql.NullTime `db:"published_at"`

	PublicationChatID     sql.NullInt64 `db:"publication_chat_id"`
	PublicationMessageIDs Int64List     `db:"publication_message_ids_json"`
}

// AdDraft is the payload produced by a completed dialogue. Field validation
// happens in the dialogue flow; the store persists drafts as-is.
type AdDraft struct {
	UserID      int64
	Username    string
	Phone       string
	Title       string
	Description string
	PriceText   string
	PriceValue  *float64
	Category    string
	City        string
	Photos      []string
}

// PublicationInfo records where and as which messages an ad was broadcast,
// so the broadcast can later be retracted.
type PublicationInfo struct {
	ChatID     int64
	MessageIDs Int64List
}
