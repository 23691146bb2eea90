// Package flow implements the multi-step ad creation and editing dialogue:
// per-user session state, step transitions, and field validation. Sessions
// are ephemeral and live only for the duration of one dialogue.
package flow

import (
	"sync"

	"github.com/MalibuOrang/Baraholka-telegram-bot/internal/database"
)

// Step identifies the dialogue step awaiting user input.
type Step int

const (
	StepTitle Step = iota
	StepDescription
	StepPrice
	StepCategory
	StepCity
	StepPhone
	StepPhotos
	StepConfirm
)

// String returns the step name for logging.
func (s Step) String() string {
	switch s {
	case StepTitle:
		return "title"
	case StepDescription:
		return "description"
	case StepPrice:
		return "price"
	case StepCategory:
		return "category"
	case StepCity:
		return "city"
	case StepPhone:
		return "phone"
	case StepPhotos:
		return "photos"
	case StepConfirm:
		return "confirm"
	}
	return "unknown"
}

// Next returns the step that follows s. Confirm is terminal.
func (s Step) Next() Step {
	if s >= StepConfirm {
		return StepConfirm
	}
	return s + 1
}

// Mode distinguishes the creation, edit and search dialogues.
type Mode int

const (
	ModeCreating Mode = iota
	ModeEditing
	ModeSearching
)

// Session is the in-progress state of one user's dialogue. A validation
// failure leaves the session untouched; only accepted input advances Step.
type Session struct {
	Mode Mode
	Step Step

	// AdID is the ad being edited. Zero in creation mode.
	AdID int64

	Draft database.AdDraft

	// OriginalPhotos is the stored photo set when editing. It survives
	// unless the user uploads at least one new photo, at which point the
	// whole set is discarded and replaced.
	OriginalPhotos []string
	PhotosReplaced bool
}

// NewCreateSession starts a creation dialogue for the given user.
func NewCreateSession(userID int64, username string) *Session {
	return &Session{
		Mode: ModeCreating,
		Step: StepTitle,
		Draft: database.AdDraft{
			UserID:   userID,
			Username: username,
		},
	}
}

// NewSearchSession starts a one-step dialogue awaiting a search query.
func NewSearchSession(userID int64) *Session {
	return &Session{
		Mode:  ModeSearching,
		Draft: database.AdDraft{UserID: userID},
	}
}

// NewEditSession starts an edit dialogue seeded from a stored ad, so each
// step can offer a "keep current value" shortcut.
func NewEditSession(userID int64, username string, ad *database.Ad) *Session {
	var priceValue *float64
	if ad.PriceValue.Valid {
		v := ad.PriceValue.Float64
		priceValue = &v
	}
	return &Session{
		Mode: ModeEditing,
		Step: StepTitle,
		AdID: ad.ID,
		Draft: database.AdDraft{
			UserID:      userID,
			Username:    username,
			Phone:       ad.Phone.String,
			Title:       ad.Title,
			Description: ad.Description,
			PriceText:   ad.PriceText,
			PriceValue:  priceValue,
			Category:    ad.Category,
			City:        ad.City,
			Photos:      append([]string(nil), ad.Photos...),
		},
		OriginalPhotos: append([]string(nil), ad.Photos...),
	}
}

// AddPhoto appends a photo reference, enforcing the MaxPhotos cap. In edit
// mode the first new photo discards the original set. Returns the new photo
// count and whether the photo was accepted.
func (s *Session) AddPhoto(fileID string) (int, bool) {
	if s.Mode == ModeEditing && !s.PhotosReplaced {
		s.Draft.Photos = nil
		s.PhotosReplaced = true
	}
	if len(s.Draft.Photos) >= MaxPhotos {
		return len(s.Draft.Photos), false
	}
	s.Draft.Photos = append(s.Draft.Photos, fileID)
	return len(s.Draft.Photos), true
}

// FinishPhotos settles the final photo set when the user leaves the photos
// step: an edit with no new uploads keeps the original photos.
func (s *Session) FinishPhotos() {
	if s.Mode == ModeEditing && !s.PhotosReplaced {
		s.Draft.Photos = append([]string(nil), s.OriginalPhotos...)
	}
}

// Manager holds active sessions keyed by user id. Access from concurrent
// updates of the same user is last-write-wins, which matches a single human
// driving one dialogue.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Get returns the user's active session, or nil when the user is idle.
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[userID]
}

// Put stores the user's session, replacing any active one (flow switch).
func (m *Manager) Put(userID int64, s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[userID] = s
}

// Delete discards the user's session (cancel or completion).
func (m *Manager) Delete(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}
