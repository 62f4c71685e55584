// Package inmemorydb provides map-backed implementations of the store
// interfaces. It backs tests and is also a valid storage option for throwaway
// local runs where losing data on restart is acceptable
package inmemorydb

import (
	"github.com/alexandre-normand/spotscot/store"
	"sync"
)

// InMemoryDB implements store.SpotStorer, store.InstallationStorer and
// store.ModerationRecorder with everything kept in memory
type InMemoryDB struct {
	mutex         sync.Mutex
	spots         map[string]store.Spot
	installations map[string]store.Installation
	moderationLog []store.ModerationEntry
}

// New returns a new empty InMemoryDB
func New() (imdb *InMemoryDB) {
	imdb = new(InMemoryDB)
	imdb.spots = make(map[string]store.Spot)
	imdb.installations = make(map[string]store.Installation)
	imdb.moderationLog = make([]store.ModerationEntry, 0)

	return imdb
}

func spotKey(teamID string, channelID string, messageID string) string {
	return teamID + "/" + channelID + "/" + messageID
}

// PutSpot stores a spot keyed by its workspace, channel and originating message id
func (imdb *InMemoryDB) PutSpot(spot store.Spot) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	imdb.spots[spotKey(spot.TeamID, spot.ChannelID, spot.MessageID)] = spot
	return nil
}

// ScanSpots returns all spots for a workspace/channel pair
func (imdb *InMemoryDB) ScanSpots(teamID string, channelID string) (spots []store.Spot, err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	spots = make([]store.Spot, 0)
	for _, spot := range imdb.spots {
		if spot.TeamID == teamID && spot.ChannelID == channelID {
			spots = append(spots, spot)
		}
	}

	return spots, nil
}

// DeleteSpot deletes and returns the spot matching the originating message id
// within the workspace/channel scope, or returns store.ErrSpotNotFound
func (imdb *InMemoryDB) DeleteSpot(teamID string, channelID string, messageID string) (deleted store.Spot, err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	key := spotKey(teamID, channelID, messageID)
	deleted, ok := imdb.spots[key]
	if !ok {
		return store.Spot{}, store.ErrSpotNotFound
	}

	delete(imdb.spots, key)
	return deleted, nil
}

// DeleteChannelSpots deletes all spots for the workspace/channel pair and
// returns how many were removed
func (imdb *InMemoryDB) DeleteChannelSpots(teamID string, channelID string) (count int, err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	for key, spot := range imdb.spots {
		if spot.TeamID == teamID && spot.ChannelID == channelID {
			delete(imdb.spots, key)
			count++
		}
	}

	return count, nil
}

// PutInstallation upserts a workspace installation
func (imdb *InMemoryDB) PutInstallation(installation store.Installation) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	imdb.installations[installation.TeamID] = installation
	return nil
}

// GetInstallation returns the installation for a workspace or store.ErrInstallationNotFound
func (imdb *InMemoryDB) GetInstallation(teamID string) (installation store.Installation, err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	installation, ok := imdb.installations[teamID]
	if !ok {
		return store.Installation{}, store.ErrInstallationNotFound
	}

	return installation, nil
}

// SetActiveChannel binds the workspace's active channel
func (imdb *InMemoryDB) SetActiveChannel(teamID string, channelID string) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	installation, ok := imdb.installations[teamID]
	if !ok {
		return store.ErrInstallationNotFound
	}

	installation.ActiveChannelID = channelID
	imdb.installations[teamID] = installation
	return nil
}

// DeleteInstallation removes the installation for a workspace
func (imdb *InMemoryDB) DeleteInstallation(teamID string) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	delete(imdb.installations, teamID)
	return nil
}

// ScanInstallations returns all workspace installations
func (imdb *InMemoryDB) ScanInstallations() (installations []store.Installation, err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	installations = make([]store.Installation, 0)
	for _, installation := range imdb.installations {
		installations = append(installations, installation)
	}

	return installations, nil
}

// AppendEntry appends one record to the moderation log
func (imdb *InMemoryDB) AppendEntry(entry store.ModerationEntry) (err error) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	imdb.moderationLog = append(imdb.moderationLog, entry)
	return nil
}

// ModerationLog returns a copy of the accumulated moderation entries. Mostly
// useful in tests asserting on audit side effects
func (imdb *InMemoryDB) ModerationLog() (entries []store.ModerationEntry) {
	imdb.mutex.Lock()
	defer imdb.mutex.Unlock()

	entries = make([]store.ModerationEntry, len(imdb.moderationLog))
	copy(entries, imdb.moderationLog)
	return entries
}

// Close is a no-op for the in-memory implementation
func (imdb *InMemoryDB) Close() (err error) {
	return nil
}
