// Package config provides spotscot configuration keys along with utilities
// to create a default configuration
package config

import (
	"fmt"
	"github.com/spf13/viper"
	"time"
)

const (
	// DebugKey is the debug mode key, bool value (defaults to false)
	DebugKey = "debug"

	// ModeKey selects the deployment mode, string value of either ModeSocket or ModeEvents (defaults to ModeSocket)
	ModeKey = "mode"

	// BotTokenKey is the slack bot token key (xoxb-...), string value. Used in socket mode only since
	// multi-workspace deployments get their bot tokens from installations
	BotTokenKey = "botToken"

	// AppTokenKey is the slack app-level token key (xapp-...) required in socket mode, string value
	AppTokenKey = "appToken"

	// SigningSecretKey is the slack signing secret used to verify inbound HTTP requests, string value
	SigningSecretKey = "signingSecret"

	// ClientIDKey is the slack OAuth client id, string value
	ClientIDKey = "clientID"

	// ClientSecretKey is the slack OAuth client secret, string value
	ClientSecretKey = "clientSecret"

	// OAuthRedirectURLKey is the OAuth redirect URL registered with slack, string value
	OAuthRedirectURLKey = "oauthRedirectURL"

	// PortKey is the HTTP listening port used in events mode, int value (defaults to 3000)
	PortKey = "port"

	// StorageKey selects the storage backend, string value of StorageLevelDB, StorageDatastore
	// or StorageMemory (defaults to StorageLevelDB)
	StorageKey = "storage"

	// StoragePathKey is the directory holding leveldb databases, string value (defaults to ~/.spotscot)
	StoragePathKey = "storagePath"

	// GCloudProjectIDKey is the gcloud project id for the datastore backend, string value
	GCloudProjectIDKey = "gcloudProjectID"

	// GCloudCredentialsFileKey is the path to gcloud json credentials for the datastore backend, string value
	GCloudCredentialsFileKey = "gcloudCredentialsFile"

	// ActiveChannelKey seeds the bound channel in socket (single workspace) mode, string value.
	// Multi-workspace deployments bind channels with /setchannel instead
	ActiveChannelKey = "activeChannel"

	// TimeLocationKey is the time location used by the scheduler, string value (defaults to Local)
	TimeLocationKey = "timeLocation"

	// UserInfoCacheSizeKey is the number of entries to keep in the user info cache, int value
	// (defaults to 0, which disables caching)
	UserInfoCacheSizeKey = "userInfoCacheSize"

	// ClientCacheSizeKey is the number of per-workspace slack clients to keep cached, int value (defaults to 20)
	ClientCacheSizeKey = "clientCacheSize"
)

// Mode values
const (
	ModeSocket = "socket"
	ModeEvents = "events"
)

// Storage values
const (
	StorageLevelDB   = "leveldb"
	StorageDatastore = "datastore"
	StorageMemory    = "memory"
)

// NewViperWithDefaults creates a new viper instance with the default values set for the
// optional configuration keys
func NewViperWithDefaults() (v *viper.Viper) {
	v = viper.New()
	return LayerConfigWithDefaults(v)
}

// LayerConfigWithDefaults layers the default values over the provided viper instance
// without overriding values already set on it
func LayerConfigWithDefaults(v *viper.Viper) *viper.Viper {
	v.SetDefault(DebugKey, false)
	v.SetDefault(ModeKey, ModeSocket)
	v.SetDefault(PortKey, 3000)
	v.SetDefault(StorageKey, StorageLevelDB)
	v.SetDefault(StoragePathKey, "~/.spotscot")
	v.SetDefault(TimeLocationKey, "Local")
	v.SetDefault(UserInfoCacheSizeKey, 0)
	v.SetDefault(ClientCacheSizeKey, 20)

	return v
}

// GetTimeLocation reads the TimeLocationKey value and parses it into a time.Location
func GetTimeLocation(v *viper.Viper) (timeLoc *time.Location, err error) {
	locationID := v.GetString(TimeLocationKey)
	timeLoc, err = time.LoadLocation(locationID)
	if err != nil {
		return nil, fmt.Errorf("invalid time location [%s]: %v", locationID, err)
	}

	return timeLoc, nil
}
