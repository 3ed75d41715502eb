// Package domain defines the persistence models for swap requests, offers,
// users, and offer messages. These types are mapped with GORM and form the
// core data layer of the course-swap marketplace.
package domain

import (
	"database/sql/driver"
	"errors"
	"strings"
	"time"
)

// SwapStatus is the lifecycle state of a SwapRequest.
type SwapStatus string

const (
	SwapOpen    SwapStatus = "open"
	SwapMatched SwapStatus = "matched"
	SwapClosed  SwapStatus = "closed"
)

// OfferStatus is the lifecycle state of an Offer. Withdrawal is one-way.
type OfferStatus string

const (
	OfferActive    OfferStatus = "active"
	OfferWithdrawn OfferStatus = "withdrawn"
)

// CRNList is an ordered list of section codes stored as a comma-separated
// TEXT column so the same schema works on SQLite and PostgreSQL.
type CRNList []string

// Value implements driver.Valuer.
func (l CRNList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *CRNList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return errors.New("crn list: unsupported column type")
	}
	if strings.TrimSpace(s) == "" {
		*l = CRNList{}
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(CRNList, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	*l = out
	return nil
}

// Contains reports whether crn is in the list.
func (l CRNList) Contains(crn string) bool {
	for _, c := range l {
		if c == crn {
			return true
		}
	}
	return false
}

// User is a marketplace participant. Contact details are only revealed to a
// counterpart once a swap is matched.
//
// Fields:
//   - ID: identifier issued by the external identity provider (token subject).
//   - Email: contact address; unique.
//   - Name: display name.
//   - Major / Year: optional profile details.
type User struct {
	ID        string    `json:"id"              gorm:"type:varchar(64);primaryKey"`
	Email     string    `json:"-"               gorm:"type:varchar(255);not null;uniqueIndex"`
	Name      string    `json:"name"            gorm:"type:varchar(255);not null"`
	Major     string    `json:"major,omitempty" gorm:"type:varchar(128)"`
	Year      string    `json:"year,omitempty"  gorm:"type:varchar(32)"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// SwapRequest is a user's listing of a held section and acceptable
// alternatives.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - OwnerID: requesting user; immutable after creation.
//   - CourseID: catalog course key, e.g. "CS-18000".
//   - CurrentCRN: held section (exactly 5 digits).
//   - DesiredCRNs: 1..5 acceptable sections, never containing CurrentCRN.
//   - Status: open → matched | closed.
//   - MatchedOfferID: the single offer that reached MATCHED, once matched.
//   - Version: bumped on every status change; used for compare-and-swap.
type SwapRequest struct {
	ID             string     `json:"id"                         gorm:"type:char(36);primaryKey"`
	OwnerID        string     `json:"owner_id"                   gorm:"type:varchar(64);not null;index:idx_owner_swaps"`
	CourseID       string     `json:"course_id"                  gorm:"type:varchar(64);not null;index"`
	Term           string     `json:"term"                       gorm:"type:varchar(64);not null"`
	Campus         string     `json:"campus,omitempty"           gorm:"type:varchar(128)"`
	CurrentCRN     string     `json:"current_crn"                gorm:"type:char(5);not null"`
	DesiredCRNs    CRNList    `json:"desired_crns"               gorm:"type:text;not null"`
	TimeWindow     string     `json:"time_window,omitempty"      gorm:"type:varchar(255)"`
	Notes          string     `json:"notes,omitempty"            gorm:"type:text"`
	Status         SwapStatus `json:"status"                     gorm:"type:varchar(16);not null;default:'open';index;check:status IN ('open','matched','closed')"`
	MatchedOfferID *string    `json:"matched_offer_id,omitempty" gorm:"type:char(36)"`
	Version        int64      `json:"-"                          gorm:"not null;default:0"`
	CreatedAt      time.Time  `json:"created_at"                 gorm:"index"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// TableName returns the database table name for SwapRequest.
func (SwapRequest) TableName() string { return "swap_requests" }

// Offer is another user's proposal to exchange a section against a swap
// request. AgreeState follows the agreement state machine in agreement.go.
type Offer struct {
	ID         string      `json:"id"          gorm:"type:char(36);primaryKey"`
	SwapID     string      `json:"swap_id"     gorm:"type:char(36);not null;index:idx_swap_offers,priority:1;uniqueIndex:ux_offers_active_offerer,priority:1,where:status = 'active'"`
	OffererID  string      `json:"offerer_id"  gorm:"type:varchar(64);not null;index;uniqueIndex:ux_offers_active_offerer,priority:2"`
	OfferedCRN string      `json:"offered_crn" gorm:"type:char(5);not null"`
	Note       string      `json:"note,omitempty" gorm:"type:text"`
	Status     OfferStatus `json:"status"      gorm:"type:varchar(16);not null;default:'active';check:status IN ('active','withdrawn')"`
	AgreeState AgreeState  `json:"agree_state" gorm:"type:varchar(16);not null;default:'NONE';check:agree_state IN ('NONE','REQ','OFFER','MATCHED')"`
	CreatedAt  time.Time   `json:"created_at"  gorm:"index:idx_swap_offers,priority:2"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Swap is the parent request. Offers are cascade-deleted with it.
	Swap SwapRequest `json:"-" gorm:"foreignKey:SwapID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Offer.
func (Offer) TableName() string { return "offers" }

// OfferMessage is a direct message exchanged between the swap owner and the
// offerer on a specific offer.
type OfferMessage struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	OfferID   string    `json:"offer_id"   gorm:"type:char(36);not null;index:idx_offer_msgs,priority:1"`
	SenderID  string    `json:"sender_id"  gorm:"type:varchar(64);not null"`
	Body      string    `json:"body"       gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_offer_msgs,priority:2"`

	Offer Offer `json:"-" gorm:"foreignKey:OfferID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for OfferMessage.
func (OfferMessage) TableName() string { return "offer_messages" }
