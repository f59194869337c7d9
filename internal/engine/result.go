package engine

import (
	"time"

	"github.com/glitchdraft/draftsync/internal/domain"
)

// Every operation returns a uniform envelope. Callers branch on Success
// only; no error ever crosses this boundary as a Go error.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func ok() Result { return Result{Success: true} }

func fail(err error) Result {
	return Result{Success: false, Message: err.Error()}
}

type DraftsResult struct {
	Result
	ConversationID string           `json:"conversationId,omitempty"`
	Drafts         domain.DraftList `json:"drafts"`
}

type PositionsResult struct {
	Result
	Site      string                `json:"site,omitempty"`
	Positions *domain.UIPositionSet `json:"positions,omitempty"`
	FromCache bool                  `json:"fromCache,omitempty"`
}

type StatusResult struct {
	Result
	Configured     bool       `json:"configured"`
	LastSyncTime   *time.Time `json:"lastSyncTime,omitempty"`
	SyncInProgress bool       `json:"syncInProgress"`
	ClientID       string     `json:"clientId"`
}

type ActiveResult struct {
	Result
	ConversationID string `json:"conversationId,omitempty"`
	Site           string `json:"site,omitempty"`
}
