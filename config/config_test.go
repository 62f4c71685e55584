package config_test

import (
	"github.com/alexandre-normand/spotscot/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestNewWithDefault(t *testing.T) {
	v := config.NewViperWithDefaults()

	assert.Equal(t, false, v.GetBool(config.DebugKey), "%s should be %t", config.DebugKey, false)
	assert.Equal(t, config.ModeSocket, v.GetString(config.ModeKey), "%s should be %s", config.ModeKey, config.ModeSocket)
	assert.Equal(t, 3000, v.GetInt(config.PortKey), "%s should be %d", config.PortKey, 3000)
	assert.Equal(t, config.StorageLevelDB, v.GetString(config.StorageKey), "%s should be %s", config.StorageKey, config.StorageLevelDB)
	assert.Equal(t, "~/.spotscot", v.GetString(config.StoragePathKey), "%s should be %s", config.StoragePathKey, "~/.spotscot")
	assert.Equal(t, "Local", v.GetString(config.TimeLocationKey), "%s should be %s", config.TimeLocationKey, "Local")
	assert.Equal(t, 0, v.GetInt(config.UserInfoCacheSizeKey), "%s should be %d", config.UserInfoCacheSizeKey, 0)
	assert.Equal(t, 20, v.GetInt(config.ClientCacheSizeKey), "%s should be %d", config.ClientCacheSizeKey, 20)
}

func TestLayerConfigWithDefaults(t *testing.T) {
	v := viper.New()

	for key := range config.NewViperWithDefaults().AllSettings() {
		assert.Nil(t, v.Get(key))
	}

	v = config.LayerConfigWithDefaults(v)
	for key, expectedVal := range config.NewViperWithDefaults().AllSettings() {
		assert.Equal(t, expectedVal, v.Get(key), "%s should be %v", key, expectedVal)
	}
}

func TestLayeredConfigWithDefaultsAndOverrides(t *testing.T) {
	v := viper.New()
	v = config.LayerConfigWithDefaults(v)
	v.Set(config.ModeKey, config.ModeEvents)
	v.Set(config.PortKey, 8080)

	v = config.LayerConfigWithDefaults(v)

	assert.Equal(t, config.ModeEvents, v.GetString(config.ModeKey), "%s should be %v", config.ModeKey, config.ModeEvents)
	assert.Equal(t, 8080, v.GetInt(config.PortKey), "%s should be %v", config.PortKey, 8080)
}

func TestGetTimeLocationWithDefault(t *testing.T) {
	v := viper.New()
	v.Set(config.TimeLocationKey, "Local")

	timeLoc, err := config.GetTimeLocation(v)

	assert.Nil(t, err)
	if assert.NotNil(t, timeLoc) {
		assert.Conditionf(t, func() bool { return timeLoc.String() == "Local" || timeLoc.String() == "UTC" }, "timeLoc should be either Local or UTC but was %s", timeLoc.String())
	}
}

func TestGetTimeLocationWithTimezoneID(t *testing.T) {
	v := viper.New()
	v.Set(config.TimeLocationKey, "America/Los_Angeles")

	timeLoc, err := config.GetTimeLocation(v)

	assert.Nil(t, err)
	if assert.NotNil(t, timeLoc) {
		assert.Equal(t, "America/Los_Angeles", timeLoc.String())
	}
}

func TestGetTimeLocationWithInvalidValue(t *testing.T) {
	v := viper.New()
	v.Set(config.TimeLocationKey, "invalid")

	_, err := config.GetTimeLocation(v)

	if assert.NotNil(t, err) {
		assert.Contains(t, err.Error(), "invalid")
	}
}
