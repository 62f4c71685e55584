package store_test

import (
	"github.com/alexandre-normand/spotscot/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io/ioutil"
	"os"
	"testing"
	"time"
)

func newTestSpot(teamID string, channelID string, messageID string, spotterID string, targetID string) store.Spot {
	return store.Spot{
		ID:        "id-" + messageID,
		TeamID:    teamID,
		SpotterID: spotterID,
		TargetID:  targetID,
		ImageURL:  "https://files.example.com/" + messageID + ".jpg",
		ChannelID: channelID,
		MessageID: messageID,
		Status:    store.StatusConfirmed,
		CreatedAt: time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC),
	}
}

func TestNewStoreWithInvalidPath(t *testing.T) {
	tmpfile, err := ioutil.TempFile("", "example")
	assert.Nil(t, err)

	defer os.Remove(tmpfile.Name()) // clean up

	_, err = store.NewLevelDB("test", tmpfile.Name())
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "failed to open")
	}
}

func TestNewLevelDBStore(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	assert.Nil(t, err)

	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	assert.Nil(t, err)
	defer ldb.Close()

	assert.Equal(t, "test", ldb.Name)
}

func TestPutScanDeleteSpot(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	spot := newTestSpot("T1", "C1", "1000.0001", "U1", "U2")
	err = ldb.PutSpot(spot)
	assert.Nil(t, err)

	spots, err := ldb.ScanSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, []store.Spot{spot}, spots)

	deleted, err := ldb.DeleteSpot("T1", "C1", "1000.0001")
	assert.Nil(t, err)
	assert.Equal(t, spot, deleted)

	spots, err = ldb.ScanSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Empty(t, spots)
}

func TestScanSpotsIsScopedToTeamAndChannel(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	inScope := newTestSpot("T1", "C1", "1000.0001", "U1", "U2")
	require.Nil(t, ldb.PutSpot(inScope))
	require.Nil(t, ldb.PutSpot(newTestSpot("T1", "C2", "1000.0002", "U1", "U2")))
	require.Nil(t, ldb.PutSpot(newTestSpot("T2", "C1", "1000.0003", "U1", "U2")))

	spots, err := ldb.ScanSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, []store.Spot{inScope}, spots)
}

func TestDeleteSpotNotFound(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	_, err = ldb.DeleteSpot("T1", "C1", "1000.0001")
	assert.Equal(t, store.ErrSpotNotFound, err)
}

func TestDeleteChannelSpots(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	require.Nil(t, ldb.PutSpot(newTestSpot("T1", "C1", "1000.0001", "U1", "U2")))
	require.Nil(t, ldb.PutSpot(newTestSpot("T1", "C1", "1000.0002", "U3", "U4")))
	require.Nil(t, ldb.PutSpot(newTestSpot("T1", "C2", "1000.0003", "U1", "U2")))

	count, err := ldb.DeleteChannelSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, 2, count)

	// A second reset finds nothing left to remove
	count, err = ldb.DeleteChannelSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, 0, count)

	remaining, err := ldb.ScanSpots("T1", "C2")
	assert.Nil(t, err)
	assert.Len(t, remaining, 1)
}

func TestInstallationLifecycle(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	_, err = ldb.GetInstallation("T1")
	assert.Equal(t, store.ErrInstallationNotFound, err)

	installation := store.Installation{
		TeamID:      "T1",
		TeamName:    "Acme",
		BotToken:    "xoxb-test",
		BotUserID:   "UBOT",
		RawOAuth:    `{"access_token":"xoxb-test"}`,
		InstalledAt: time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC),
	}
	require.Nil(t, ldb.PutInstallation(installation))

	loaded, err := ldb.GetInstallation("T1")
	assert.Nil(t, err)
	assert.Equal(t, installation, loaded)
	assert.Empty(t, loaded.ActiveChannelID)

	err = ldb.SetActiveChannel("T1", "C1")
	assert.Nil(t, err)

	loaded, err = ldb.GetInstallation("T1")
	assert.Nil(t, err)
	assert.Equal(t, "C1", loaded.ActiveChannelID)

	installations, err := ldb.ScanInstallations()
	assert.Nil(t, err)
	assert.Len(t, installations, 1)

	err = ldb.DeleteInstallation("T1")
	assert.Nil(t, err)

	_, err = ldb.GetInstallation("T1")
	assert.Equal(t, store.ErrInstallationNotFound, err)
}

func TestSetActiveChannelWithoutInstallation(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	err = ldb.SetActiveChannel("T1", "C1")
	assert.Equal(t, store.ErrInstallationNotFound, err)
}

func TestAppendModerationEntry(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)
	defer ldb.Close()

	err = ldb.AppendEntry(store.ModerationEntry{
		ID:        "m1",
		TeamID:    "T1",
		ChannelID: "C1",
		Action:    store.ModerationActionVeto,
		ActorID:   "UADMIN",
		Detail:    "removed spot 1000.0001",
		CreatedAt: time.Date(2020, time.March, 14, 15, 9, 26, 0, time.UTC),
	})
	assert.Nil(t, err)
}

func TestGetAfterCloseShouldResultInError(t *testing.T) {
	dir, err := ioutil.TempDir("", "tmpTest")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	ldb, err := store.NewLevelDB("test", dir)
	require.Nil(t, err)

	ldb.Close()
	_, err = ldb.ScanSpots("T1", "C1")

	assert.Error(t, err)
}
