// Package mocks contains mocks of the store package interfaces
package mocks

import (
	"github.com/alexandre-normand/spotscot/store"
	"github.com/stretchr/testify/mock"
)

// SpotStorer holds a mock implementing the store.SpotStorer interface
type SpotStorer struct {
	mock.Mock
}

// PutSpot mocks an implementation of PutSpot
func (ms *SpotStorer) PutSpot(spot store.Spot) (err error) {
	args := ms.Called(spot)

	return args.Error(0)
}

// ScanSpots mocks an implementation of ScanSpots
func (ms *SpotStorer) ScanSpots(teamID string, channelID string) (spots []store.Spot, err error) {
	args := ms.Called(teamID, channelID)

	return args.Get(0).([]store.Spot), args.Error(1)
}

// DeleteSpot mocks an implementation of DeleteSpot
func (ms *SpotStorer) DeleteSpot(teamID string, channelID string, messageID string) (deleted store.Spot, err error) {
	args := ms.Called(teamID, channelID, messageID)

	return args.Get(0).(store.Spot), args.Error(1)
}

// DeleteChannelSpots mocks an implementation of DeleteChannelSpots
func (ms *SpotStorer) DeleteChannelSpots(teamID string, channelID string) (count int, err error) {
	args := ms.Called(teamID, channelID)

	return args.Int(0), args.Error(1)
}

// Close mocks an implementation of Close
func (ms *SpotStorer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}

// InstallationStorer holds a mock implementing the store.InstallationStorer interface
type InstallationStorer struct {
	mock.Mock
}

// PutInstallation mocks an implementation of PutInstallation
func (ms *InstallationStorer) PutInstallation(installation store.Installation) (err error) {
	args := ms.Called(installation)

	return args.Error(0)
}

// GetInstallation mocks an implementation of GetInstallation
func (ms *InstallationStorer) GetInstallation(teamID string) (installation store.Installation, err error) {
	args := ms.Called(teamID)

	return args.Get(0).(store.Installation), args.Error(1)
}

// SetActiveChannel mocks an implementation of SetActiveChannel
func (ms *InstallationStorer) SetActiveChannel(teamID string, channelID string) (err error) {
	args := ms.Called(teamID, channelID)

	return args.Error(0)
}

// DeleteInstallation mocks an implementation of DeleteInstallation
func (ms *InstallationStorer) DeleteInstallation(teamID string) (err error) {
	args := ms.Called(teamID)

	return args.Error(0)
}

// ScanInstallations mocks an implementation of ScanInstallations
func (ms *InstallationStorer) ScanInstallations() (installations []store.Installation, err error) {
	args := ms.Called()

	return args.Get(0).([]store.Installation), args.Error(1)
}

// Close mocks an implementation of Close
func (ms *InstallationStorer) Close() (err error) {
	args := ms.Called()

	return args.Error(0)
}

// ModerationRecorder holds a mock implementing the store.ModerationRecorder interface
type ModerationRecorder struct {
	mock.Mock
}

// AppendEntry mocks an implementation of AppendEntry
func (ms *ModerationRecorder) AppendEntry(entry store.ModerationEntry) (err error) {
	args := ms.Called(entry)

	return args.Error(0)
}
