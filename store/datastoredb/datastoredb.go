// Package datastoredb provides an implementation of the store interfaces backed
// by Google Cloud Datastore. Spots, installations and moderation entries each map
// to their own entity kind.
//
// Requirements:
//   - A valid gcloud project id with datastore mode enabled
//   - Google Cloud credentials (typically a json file with credentials from
//     https://console.cloud.google.com/apis/credentials/serviceaccountkey)
package datastoredb

import (
	"cloud.google.com/go/datastore"
	"context"
	"github.com/alexandre-normand/spotscot/store"
	"google.golang.org/api/option"
)

// Datastore entity kinds
const (
	spotKind         = "Spot"
	installationKind = "Installation"
	moderationKind   = "ModerationEntry"
)

// DatastoreDB implements store.SpotStorer, store.InstallationStorer and
// store.ModerationRecorder over Google Cloud Datastore
type DatastoreDB struct {
	*datastore.Client
}

// New returns a new instance of DatastoreDB for the given gcloud project id. At least
// one client option providing gcloud credentials is usually required
func New(gcloudProjectID string, gcloudClientOpts ...option.ClientOption) (dsdb *DatastoreDB, err error) {
	ctx := context.Background()
	client, err := datastore.NewClient(ctx, gcloudProjectID, gcloudClientOpts...)
	if err != nil {
		return nil, err
	}

	dsdb = new(DatastoreDB)
	dsdb.Client = client

	if err = dsdb.testDB(); err != nil {
		dsdb.Close()
		return nil, err
	}

	return dsdb, nil
}

// testDB makes a lightweight call to the datastore to validate connectivity and credentials
func (dsdb *DatastoreDB) testDB() (err error) {
	_, err = dsdb.GetInstallation("testConnectivity")

	if err != nil && err != store.ErrInstallationNotFound {
		return err
	}

	return nil
}

func spotKeyName(teamID string, channelID string, messageID string) string {
	return teamID + "/" + channelID + "/" + messageID
}

// PutSpot stores a spot, keyed by its workspace, channel and originating message id
func (dsdb *DatastoreDB) PutSpot(spot store.Spot) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(spotKind, spotKeyName(spot.TeamID, spot.ChannelID, spot.MessageID), nil)

	_, err = dsdb.Put(ctx, k, &spot)
	return err
}

// ScanSpots returns all spots for a workspace/channel pair
func (dsdb *DatastoreDB) ScanSpots(teamID string, channelID string) (spots []store.Spot, err error) {
	ctx := context.Background()
	spots = make([]store.Spot, 0)

	q := datastore.NewQuery(spotKind).Filter("TeamID =", teamID).Filter("ChannelID =", channelID)
	if _, err = dsdb.GetAll(ctx, q, &spots); err != nil {
		return nil, err
	}

	return spots, nil
}

// DeleteSpot deletes and returns the spot matching the originating message id within
// the workspace/channel scope, or returns store.ErrSpotNotFound
func (dsdb *DatastoreDB) DeleteSpot(teamID string, channelID string, messageID string) (deleted store.Spot, err error) {
	ctx := context.Background()
	k := datastore.NameKey(spotKind, spotKeyName(teamID, channelID, messageID), nil)

	if err = dsdb.Get(ctx, k, &deleted); err != nil {
		if err == datastore.ErrNoSuchEntity {
			return store.Spot{}, store.ErrSpotNotFound
		}

		return store.Spot{}, err
	}

	return deleted, dsdb.Delete(ctx, k)
}

// DeleteChannelSpots deletes all spots for the workspace/channel pair and returns
// how many were removed
func (dsdb *DatastoreDB) DeleteChannelSpots(teamID string, channelID string) (count int, err error) {
	ctx := context.Background()

	q := datastore.NewQuery(spotKind).Filter("TeamID =", teamID).Filter("ChannelID =", channelID).KeysOnly()
	keys, err := dsdb.GetAll(ctx, q, nil)
	if err != nil {
		return 0, err
	}

	if err = dsdb.DeleteMulti(ctx, keys); err != nil {
		return 0, err
	}

	return len(keys), nil
}

// PutInstallation upserts a workspace installation
func (dsdb *DatastoreDB) PutInstallation(installation store.Installation) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(installationKind, installation.TeamID, nil)

	_, err = dsdb.Put(ctx, k, &installation)
	return err
}

// GetInstallation returns the installation for a workspace or store.ErrInstallationNotFound
func (dsdb *DatastoreDB) GetInstallation(teamID string) (installation store.Installation, err error) {
	ctx := context.Background()
	k := datastore.NameKey(installationKind, teamID, nil)

	if err = dsdb.Get(ctx, k, &installation); err != nil {
		if err == datastore.ErrNoSuchEntity {
			return store.Installation{}, store.ErrInstallationNotFound
		}

		return store.Installation{}, err
	}

	return installation, nil
}

// SetActiveChannel binds the workspace's active channel
func (dsdb *DatastoreDB) SetActiveChannel(teamID string, channelID string) (err error) {
	installation, err := dsdb.GetInstallation(teamID)
	if err != nil {
		return err
	}

	installation.ActiveChannelID = channelID
	return dsdb.PutInstallation(installation)
}

// DeleteInstallation removes the installation for a workspace
func (dsdb *DatastoreDB) DeleteInstallation(teamID string) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(installationKind, teamID, nil)

	err = dsdb.Delete(ctx, k)
	if err == datastore.ErrNoSuchEntity {
		return nil
	}

	return err
}

// ScanInstallations returns all workspace installations
func (dsdb *DatastoreDB) ScanInstallations() (installations []store.Installation, err error) {
	ctx := context.Background()
	installations = make([]store.Installation, 0)

	if _, err = dsdb.GetAll(ctx, datastore.NewQuery(installationKind), &installations); err != nil {
		return nil, err
	}

	return installations, nil
}

// AppendEntry appends one record to the moderation log
func (dsdb *DatastoreDB) AppendEntry(entry store.ModerationEntry) (err error) {
	ctx := context.Background()
	k := datastore.NameKey(moderationKind, entry.ID, nil)

	_, err = dsdb.Put(ctx, k, &entry)
	return err
}

// Close closes the underlying datastore client
func (dsdb *DatastoreDB) Close() (err error) {
	return dsdb.Client.Close()
}
