// Package store defines the spotscot persistence model (spots, installations and
// the moderation log) along with the storer interfaces implemented by the
// leveldb, datastore and in-memory backends
package store

import (
	"github.com/pkg/errors"
	"time"
)

// Spot status values. Only StatusConfirmed participates in leaderboards and
// galleries. The other values exist in the model but no handler sets them
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
	StatusRejected  = "rejected"
)

// Moderation log action values
const (
	ModerationActionVeto  = "veto"
	ModerationActionReset = "reset"
)

// ErrSpotNotFound is returned when an operation targets a spot that doesn't exist
var ErrSpotNotFound = errors.New("spot not found")

// ErrInstallationNotFound is returned when no installation exists for a workspace
var ErrInstallationNotFound = errors.New("installation not found")

// Spot represents one claimed sighting of a coworker, linked to the photographic
// evidence and scoped to the workspace and channel it was reported in
type Spot struct {
	ID        string
	TeamID    string
	SpotterID string
	TargetID  string
	ImageURL  string
	ChannelID string
	MessageID string
	Status    string
	CreatedAt time.Time
}

// Installation represents one workspace's registration of the bot. ActiveChannelID
// holds the single channel the bot is permitted to operate in (empty means unbound).
// RawOAuth keeps the opaque OAuth exchange payload for reuse by the auth layer
type Installation struct {
	TeamID          string
	TeamName        string
	BotToken        string
	BotUserID       string
	ActiveChannelID string
	RawOAuth        string `datastore:",noindex"`
	InstalledAt     time.Time
}

// ModerationEntry is one append-only record of an admin moderation action
// (a veto or a reset), kept separate from the spot collection
type ModerationEntry struct {
	ID        string
	TeamID    string
	ChannelID string
	Action    string
	ActorID   string
	Detail    string `datastore:",noindex"`
	CreatedAt time.Time
}

// SpotStorer is implemented by storage backends holding spots. ScanSpots returns
// spots of all statuses for a workspace/channel pair and callers filter down to
// the statuses they care about. DeleteSpot returns the deleted spot so handlers
// can recap what was removed, or ErrSpotNotFound
type SpotStorer interface {
	PutSpot(spot Spot) (err error)

	ScanSpots(teamID string, channelID string) (spots []Spot, err error)

	DeleteSpot(teamID string, channelID string, messageID string) (deleted Spot, err error)

	DeleteChannelSpots(teamID string, channelID string) (count int, err error)

	Close() (err error)
}

// InstallationStorer is implemented by storage backends holding workspace
// installations. PutInstallation upserts by TeamID (at most one installation
// per workspace)
type InstallationStorer interface {
	PutInstallation(installation Installation) (err error)

	GetInstallation(teamID string) (installation Installation, err error)

	SetActiveChannel(teamID string, channelID string) (err error)

	DeleteInstallation(teamID string) (err error)

	ScanInstallations() (installations []Installation, err error)

	Close() (err error)
}

// ModerationRecorder is implemented by storage backends able to append to the
// moderation log. Writes are best-effort: callers log failures and move on
type ModerationRecorder interface {
	AppendEntry(entry ModerationEntry) (err error)
}
