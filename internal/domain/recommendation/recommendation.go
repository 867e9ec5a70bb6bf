// Package recommendation holds generated AI results. The stored rows are the
// action log: counting them per month is the source of truth for usage.
package recommendation

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/fammo-app/fammo/internal/domain/usage"
)

var ErrEmptyResult = errors.New("generator returned an empty result")

type Recommendation struct {
	id        uint
	userID    uint
	petID     uint
	kind      usage.ActionType
	content   string
	payload   json.RawMessage
	ipAddress string
	createdAt time.Time
}

// New builds a recommendation from a structured result. content is the
// indented JSON rendering kept alongside the raw payload.
func New(userID, petID uint, kind usage.ActionType, result any, ipAddress string) (*Recommendation, error) {
	if !kind.IsValid() {
		return nil, usage.ErrInvalidAction
	}
	if result == nil {
		return nil, ErrEmptyResult
	}
	payload, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	pretty, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return nil, err
	}
	return &Recommendation{
		userID:    userID,
		petID:     petID,
		kind:      kind,
		content:   string(pretty),
		payload:   payload,
		ipAddress: ipAddress,
		createdAt: time.Now().UTC(),
	}, nil
}

func Reconstruct(id, userID, petID uint, kind usage.ActionType, content string, payload json.RawMessage, ip string, createdAt time.Time) *Recommendation {
	return &Recommendation{
		id:        id,
		userID:    userID,
		petID:     petID,
		kind:      kind,
		content:   content,
		payload:   payload,
		ipAddress: ip,
		createdAt: createdAt,
	}
}

func (r *Recommendation) ID() uint                 { return r.id }
func (r *Recommendation) UserID() uint             { return r.userID }
func (r *Recommendation) PetID() uint              { return r.petID }
func (r *Recommendation) Kind() usage.ActionType   { return r.kind }
func (r *Recommendation) Content() string          { return r.content }
func (r *Recommendation) Payload() json.RawMessage { return r.payload }
func (r *Recommendation) IPAddress() string        { return r.ipAddress }
func (r *Recommendation) CreatedAt() time.Time     { return r.createdAt }

func (r *Recommendation) SetID(id uint) {
	r.id = id
}
