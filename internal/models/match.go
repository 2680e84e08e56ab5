package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchStatus is the single authoritative state of a match.
type MatchStatus string

const (
	MatchStatusPending   MatchStatus = "pending"
	MatchStatusAccepted  MatchStatus = "accepted"
	MatchStatusRejected  MatchStatus = "rejected"
	MatchStatusCompleted MatchStatus = "completed"
)

// AckStatus is one party's own acknowledgment of a pending match.
type AckStatus string

const (
	AckPending  AckStatus = "pending"
	AckAccepted AckStatus = "accepted"
	AckRejected AckStatus = "rejected"
)

// Match pairs one Expert with one Recruiter. The (expert_id, recruiter_id)
// pair is unique; creation races resolve on the index, not in application
// code. Status is derived from the two acks: accepted only once both sides
// accepted, rejected as soon as either side rejects.
type Match struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ExpertID    uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_matches_pair;index" json:"expert_id"`
	RecruiterID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_matches_pair;index" json:"recruiter_id"`

	Status       MatchStatus `gorm:"type:varchar(20);default:pending;index" json:"status"`
	ExpertAck    AckStatus   `gorm:"type:varchar(20);default:pending" json:"expert_ack"`
	RecruiterAck AckStatus   `gorm:"type:varchar(20);default:pending" json:"recruiter_ack"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Expert    *Expert    `gorm:"foreignKey:ExpertID" json:"expert,omitempty"`
	Recruiter *Recruiter `gorm:"foreignKey:RecruiterID" json:"recruiter,omitempty"`
}
