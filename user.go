package spotscot

import (
	"fmt"

	"github.com/alexandre-normand/spotscot/config"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
)

// UserInfoFinder defines the interface for finding a user's info in a given
// workspace
type UserInfoFinder interface {
	GetUserInfo(teamID string, userID string) (user *slack.User, err error)
}

// clientUserInfoFinder resolves user info through the workspace's slack client
type clientUserInfoFinder struct {
	registry TenantRegistry
}

// NewClientUserInfoFinder creates a UserInfoFinder resolving users through the
// clients of the given registry
func NewClientUserInfoFinder(registry TenantRegistry) UserInfoFinder {
	return &clientUserInfoFinder{registry: registry}
}

func (f *clientUserInfoFinder) GetUserInfo(teamID string, userID string) (user *slack.User, err error) {
	client, err := f.registry.Client(teamID)
	if err != nil {
		return nil, err
	}

	return client.GetUserInfo(userID)
}

// cachingUserInfoFinder holds a cache of user infos in front of a loading
// UserInfoFinder
type cachingUserInfoFinder struct {
	loader UserInfoFinder
	cache  *lru.ARCCache
	logger SLogger
}

// NewCachingUserInfoFinder creates a new user info finder with caching if the
// userInfoCacheSize configuration is greater than 0. The cache entries never
// expire so a user's profile change only shows after an eviction
func NewCachingUserInfoFinder(v *viper.Viper, loader UserInfoFinder, logger SLogger) (finder UserInfoFinder, err error) {
	f := new(cachingUserInfoFinder)
	f.loader = loader
	f.logger = logger

	cacheSize := v.GetInt(config.UserInfoCacheSizeKey)
	if cacheSize > 0 {
		f.cache, err = lru.NewARC(cacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "error creating user info cache")
		}
	}

	return f, nil
}

func (f *cachingUserInfoFinder) GetUserInfo(teamID string, userID string) (user *slack.User, err error) {
	if f.cache == nil {
		return f.loader.GetUserInfo(teamID, userID)
	}

	key := fmt.Sprintf("%s.%s", teamID, userID)

	if cached, ok := f.cache.Get(key); ok {
		f.logger.Debugf("User info cache hit for [%s]\n", key)
		return cached.(*slack.User), nil
	}

	f.logger.Debugf("User info cache miss for [%s], loading from slack\n", key)

	user, err = f.loader.GetUserInfo(teamID, userID)
	if err != nil {
		return nil, err
	}

	f.cache.Add(key, user)
	return user, nil
}

// AdminAuthorizer determines whether a user holds workspace admin privileges.
// A resolution failure is reported as an error rather than a denial so callers
// can phrase the refusal accordingly
type AdminAuthorizer interface {
	IsAdmin(teamID string, userID string) (admin bool, err error)
}

type userInfoAdminAuthorizer struct {
	userInfoFinder UserInfoFinder
}

// NewAdminAuthorizer creates an AdminAuthorizer backed by the admin and owner
// flags of the user's slack profile
func NewAdminAuthorizer(userInfoFinder UserInfoFinder) AdminAuthorizer {
	return &userInfoAdminAuthorizer{userInfoFinder: userInfoFinder}
}

func (a *userInfoAdminAuthorizer) IsAdmin(teamID string, userID string) (admin bool, err error) {
	user, err := a.userInfoFinder.GetUserInfo(teamID, userID)
	if err != nil {
		return false, errors.Wrapf(err, "error getting user info for [%s]", userID)
	}

	return user.IsAdmin || user.IsOwner || user.IsPrimaryOwner, nil
}
