package store

import (
	"encoding/json"
	"fmt"
	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/util"
	"path/filepath"
)

// Key prefixes separating record types within the single leveldb database
const (
	spotKeyPrefix         = "spot/"
	installationKeyPrefix = "installation/"
	moderationKeyPrefix   = "moderation/"
)

// LevelDB implements SpotStorer, InstallationStorer and ModerationRecorder over a
// single local leveldb database. Records are stored json-encoded under composite
// keys so that scans reduce to prefix iterations
type LevelDB struct {
	Name     string
	database *leveldb.DB
}

// NewLevelDB instantiates and opens a new LevelDB instance backed by a leveldb
// database. If the leveldb database doesn't exist, one is created
func NewLevelDB(name string, storagePath string) (ldb *LevelDB, err error) {
	// Expand '~' as the full home directory path if appropriate
	path, err := homedir.Expand(storagePath)
	if err != nil {
		return nil, err
	}

	fullPath := filepath.Join(path, name)
	db, err := leveldb.OpenFile(fullPath, nil)

	if _, ok := err.(*leveldberrors.ErrCorrupted); ok {
		return nil, errors.Wrap(err, fmt.Sprintf("leveldb corrupted. Consider deleting [%s] and restarting if you don't mind losing data", fullPath))
	} else if err != nil {
		return nil, errors.Wrap(err, fmt.Sprintf("failed to open file with path [%s]", fullPath))
	}

	return &LevelDB{Name: name, database: db}, nil
}

// Close closes the LevelDB
func (ldb *LevelDB) Close() (err error) {
	return ldb.database.Close()
}

func spotKey(teamID string, channelID string, messageID string) []byte {
	return []byte(spotKeyPrefix + teamID + "/" + channelID + "/" + messageID)
}

func channelSpotsPrefix(teamID string, channelID string) []byte {
	return []byte(spotKeyPrefix + teamID + "/" + channelID + "/")
}

func installationKey(teamID string) []byte {
	return []byte(installationKeyPrefix + teamID)
}

func moderationKey(entry ModerationEntry) []byte {
	return []byte(moderationKeyPrefix + entry.TeamID + "/" + entry.ChannelID + "/" + entry.ID)
}

// PutSpot stores a spot, keyed by its workspace, channel and originating message id
func (ldb *LevelDB) PutSpot(spot Spot) (err error) {
	value, err := json.Marshal(spot)
	if err != nil {
		return errors.Wrap(err, "failed to marshal spot")
	}

	return ldb.database.Put(spotKey(spot.TeamID, spot.ChannelID, spot.MessageID), value, nil)
}

// ScanSpots returns all spots for a workspace/channel pair
func (ldb *LevelDB) ScanSpots(teamID string, channelID string) (spots []Spot, err error) {
	spots = make([]Spot, 0)

	iter := ldb.database.NewIterator(util.BytesPrefix(channelSpotsPrefix(teamID, channelID)), nil)
	for iter.Next() {
		var spot Spot
		if err = json.Unmarshal(iter.Value(), &spot); err != nil {
			iter.Release()
			return nil, errors.Wrap(err, fmt.Sprintf("failed to unmarshal spot at key [%s]", iter.Key()))
		}

		spots = append(spots, spot)
	}

	iter.Release()
	return spots, iter.Error()
}

// DeleteSpot deletes the spot whose originating message id matches within the
// workspace/channel scope and returns the deleted record. Returns ErrSpotNotFound
// if no spot is stored under that message id
func (ldb *LevelDB) DeleteSpot(teamID string, channelID string, messageID string) (deleted Spot, err error) {
	key := spotKey(teamID, channelID, messageID)

	value, err := ldb.database.Get(key, nil)
	if err == leveldb.ErrNotFound {
		return Spot{}, ErrSpotNotFound
	} else if err != nil {
		return Spot{}, err
	}

	if err = json.Unmarshal(value, &deleted); err != nil {
		return Spot{}, errors.Wrap(err, fmt.Sprintf("failed to unmarshal spot at key [%s]", key))
	}

	return deleted, ldb.database.Delete(key, nil)
}

// DeleteChannelSpots deletes all spots for the workspace/channel pair and returns
// how many were removed
func (ldb *LevelDB) DeleteChannelSpots(teamID string, channelID string) (count int, err error) {
	keys := make([][]byte, 0)

	iter := ldb.database.NewIterator(util.BytesPrefix(channelSpotsPrefix(teamID, channelID)), nil)
	for iter.Next() {
		key := make([]byte, len(iter.Key()))
		copy(key, iter.Key())
		keys = append(keys, key)
	}

	iter.Release()
	if err = iter.Error(); err != nil {
		return 0, err
	}

	for _, key := range keys {
		if err = ldb.database.Delete(key, nil); err != nil {
			return count, err
		}

		count++
	}

	return count, nil
}

// PutInstallation upserts a workspace installation
func (ldb *LevelDB) PutInstallation(installation Installation) (err error) {
	value, err := json.Marshal(installation)
	if err != nil {
		return errors.Wrap(err, "failed to marshal installation")
	}

	return ldb.database.Put(installationKey(installation.TeamID), value, nil)
}

// GetInstallation returns the installation for a workspace or ErrInstallationNotFound
func (ldb *LevelDB) GetInstallation(teamID string) (installation Installation, err error) {
	value, err := ldb.database.Get(installationKey(teamID), nil)
	if err == leveldb.ErrNotFound {
		return Installation{}, ErrInstallationNotFound
	} else if err != nil {
		return Installation{}, err
	}

	if err = json.Unmarshal(value, &installation); err != nil {
		return Installation{}, errors.Wrap(err, fmt.Sprintf("failed to unmarshal installation for team [%s]", teamID))
	}

	return installation, nil
}

// SetActiveChannel binds the workspace's active channel
func (ldb *LevelDB) SetActiveChannel(teamID string, channelID string) (err error) {
	installation, err := ldb.GetInstallation(teamID)
	if err != nil {
		return err
	}

	installation.ActiveChannelID = channelID
	return ldb.PutInstallation(installation)
}

// DeleteInstallation removes the installation for a workspace. Deleting an
// installation that doesn't exist is not an error
func (ldb *LevelDB) DeleteInstallation(teamID string) (err error) {
	return ldb.database.Delete(installationKey(teamID), nil)
}

// ScanInstallations returns all workspace installations
func (ldb *LevelDB) ScanInstallations() (installations []Installation, err error) {
	installations = make([]Installation, 0)

	iter := ldb.database.NewIterator(util.BytesPrefix([]byte(installationKeyPrefix)), nil)
	for iter.Next() {
		var installation Installation
		if err = json.Unmarshal(iter.Value(), &installation); err != nil {
			iter.Release()
			return nil, errors.Wrap(err, fmt.Sprintf("failed to unmarshal installation at key [%s]", iter.Key()))
		}

		installations = append(installations, installation)
	}

	iter.Release()
	return installations, iter.Error()
}

// AppendEntry appends one record to the moderation log
func (ldb *LevelDB) AppendEntry(entry ModerationEntry) (err error) {
	value, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "failed to marshal moderation entry")
	}

	return ldb.database.Put(moderationKey(entry), value, nil)
}
