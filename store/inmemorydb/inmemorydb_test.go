package inmemorydb_test

import (
	"github.com/alexandre-normand/spotscot/store"
	"github.com/alexandre-normand/spotscot/store/inmemorydb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

func TestSpotLifecycle(t *testing.T) {
	imdb := inmemorydb.New()
	defer imdb.Close()

	spot := store.Spot{ID: "1", TeamID: "T1", SpotterID: "U1", TargetID: "U2", ImageURL: "https://files.example.com/1.jpg", ChannelID: "C1", MessageID: "1000.0001", Status: store.StatusConfirmed}
	require.Nil(t, imdb.PutSpot(spot))
	require.Nil(t, imdb.PutSpot(store.Spot{ID: "2", TeamID: "T1", SpotterID: "U1", TargetID: "U2", ImageURL: "https://files.example.com/2.jpg", ChannelID: "C2", MessageID: "1000.0002", Status: store.StatusConfirmed}))

	spots, err := imdb.ScanSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, []store.Spot{spot}, spots)

	deleted, err := imdb.DeleteSpot("T1", "C1", "1000.0001")
	assert.Nil(t, err)
	assert.Equal(t, spot, deleted)

	_, err = imdb.DeleteSpot("T1", "C1", "1000.0001")
	assert.Equal(t, store.ErrSpotNotFound, err)
}

func TestDeleteChannelSpotsCountsRemovals(t *testing.T) {
	imdb := inmemorydb.New()
	defer imdb.Close()

	require.Nil(t, imdb.PutSpot(store.Spot{TeamID: "T1", ChannelID: "C1", MessageID: "1"}))
	require.Nil(t, imdb.PutSpot(store.Spot{TeamID: "T1", ChannelID: "C1", MessageID: "2"}))
	require.Nil(t, imdb.PutSpot(store.Spot{TeamID: "T2", ChannelID: "C1", MessageID: "3"}))

	count, err := imdb.DeleteChannelSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, 2, count)

	count, err = imdb.DeleteChannelSpots("T1", "C1")
	assert.Nil(t, err)
	assert.Equal(t, 0, count)
}

func TestInstallationLifecycle(t *testing.T) {
	imdb := inmemorydb.New()
	defer imdb.Close()

	_, err := imdb.GetInstallation("T1")
	assert.Equal(t, store.ErrInstallationNotFound, err)

	require.Nil(t, imdb.PutInstallation(store.Installation{TeamID: "T1", TeamName: "Acme", BotToken: "xoxb-test", BotUserID: "UBOT"}))
	require.Nil(t, imdb.SetActiveChannel("T1", "C1"))

	installation, err := imdb.GetInstallation("T1")
	assert.Nil(t, err)
	assert.Equal(t, "C1", installation.ActiveChannelID)

	installations, err := imdb.ScanInstallations()
	assert.Nil(t, err)
	assert.Len(t, installations, 1)

	require.Nil(t, imdb.DeleteInstallation("T1"))
	_, err = imdb.GetInstallation("T1")
	assert.Equal(t, store.ErrInstallationNotFound, err)
}

func TestModerationLog(t *testing.T) {
	imdb := inmemorydb.New()
	defer imdb.Close()

	require.Nil(t, imdb.AppendEntry(store.ModerationEntry{ID: "m1", TeamID: "T1", ChannelID: "C1", Action: store.ModerationActionReset, ActorID: "UADMIN"}))

	entries := imdb.ModerationLog()
	require.Len(t, entries, 1)
	assert.Equal(t, store.ModerationActionReset, entries[0].Action)
}
