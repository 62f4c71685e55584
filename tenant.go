package spotscot

import (
	"sync"

	"github.com/alexandre-normand/spotscot/store"
	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
)

// Tenant identifies a workspace the bot is active in along with its bound
// channel
type Tenant struct {
	TeamID    string
	ChannelID string
}

// TenantRegistry resolves per-workspace state: the bound channel, the slack
// client to talk with and the bot's own user id. An empty active channel means
// the bot isn't bound anywhere in that workspace and everything stays gated
type TenantRegistry interface {
	// ActiveChannel returns the channel the bot is bound to in the given
	// workspace or the empty string when unbound
	ActiveChannel(teamID string) (channelID string, err error)

	// BindChannel binds the bot to a channel in the given workspace
	BindChannel(teamID string, channelID string) (err error)

	// Client returns a slack client authenticated for the given workspace
	Client(teamID string) (client *slack.Client, err error)

	// BotUserID returns the bot's own user id in the given workspace
	BotUserID(teamID string) (userID string, err error)

	// ActiveTenants returns all workspaces with a bound channel
	ActiveTenants() (tenants []Tenant, err error)

	// Forget drops all state held for a workspace
	Forget(teamID string) (err error)
}

// staticTenantRegistry serves a single workspace from values resolved at
// startup. Channel bindings are held in memory only and reset on restart
type staticTenantRegistry struct {
	teamID    string
	botUserID string
	client    *slack.Client

	mutex         sync.Mutex
	activeChannel string
}

// NewStaticTenantRegistry creates a registry for a single-workspace deployment
// running on a preconfigured bot token. An empty activeChannel starts the bot
// unbound until an admin runs the channel binding command
func NewStaticTenantRegistry(teamID string, botUserID string, activeChannel string, client *slack.Client) TenantRegistry {
	return &staticTenantRegistry{teamID: teamID, botUserID: botUserID, activeChannel: activeChannel, client: client}
}

func (r *staticTenantRegistry) ActiveChannel(teamID string) (channelID string, err error) {
	if teamID != r.teamID {
		return "", nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	return r.activeChannel, nil
}

func (r *staticTenantRegistry) BindChannel(teamID string, channelID string) (err error) {
	if teamID != r.teamID {
		return errors.Errorf("unknown workspace [%s]", teamID)
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.activeChannel = channelID
	return nil
}

func (r *staticTenantRegistry) Client(teamID string) (client *slack.Client, err error) {
	if teamID != r.teamID {
		return nil, errors.Errorf("unknown workspace [%s]", teamID)
	}

	return r.client, nil
}

func (r *staticTenantRegistry) BotUserID(teamID string) (userID string, err error) {
	if teamID != r.teamID {
		return "", errors.Errorf("unknown workspace [%s]", teamID)
	}

	return r.botUserID, nil
}

func (r *staticTenantRegistry) ActiveTenants() (tenants []Tenant, err error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.activeChannel == "" {
		return []Tenant{}, nil
	}

	return []Tenant{{TeamID: r.teamID, ChannelID: r.activeChannel}}, nil
}

func (r *staticTenantRegistry) Forget(teamID string) (err error) {
	if teamID != r.teamID {
		return nil
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.activeChannel = ""
	return nil
}

// installationTenantRegistry serves multi-workspace deployments backed by the
// installation store fed by the OAuth flow. Clients are cached since every
// incoming event resolves one
type installationTenantRegistry struct {
	installations store.InstallationStorer
	clientCache   *lru.ARCCache
}

// NewInstallationTenantRegistry creates a registry backed by an installation
// store. A clientCacheSize of 0 or less disables the client cache
func NewInstallationTenantRegistry(installations store.InstallationStorer, clientCacheSize int) (registry TenantRegistry, err error) {
	r := &installationTenantRegistry{installations: installations}

	if clientCacheSize > 0 {
		r.clientCache, err = lru.NewARC(clientCacheSize)
		if err != nil {
			return nil, errors.Wrap(err, "error creating slack client cache")
		}
	}

	return r, nil
}

func (r *installationTenantRegistry) ActiveChannel(teamID string) (channelID string, err error) {
	installation, err := r.installations.GetInstallation(teamID)
	if err == store.ErrInstallationNotFound {
		// A workspace we aren't installed in is unbound, not an error
		return "", nil
	} else if err != nil {
		return "", err
	}

	return installation.ActiveChannelID, nil
}

func (r *installationTenantRegistry) BindChannel(teamID string, channelID string) (err error) {
	return r.installations.SetActiveChannel(teamID, channelID)
}

func (r *installationTenantRegistry) Client(teamID string) (client *slack.Client, err error) {
	if r.clientCache != nil {
		if cached, ok := r.clientCache.Get(teamID); ok {
			return cached.(*slack.Client), nil
		}
	}

	installation, err := r.installations.GetInstallation(teamID)
	if err != nil {
		return nil, errors.Wrapf(err, "error resolving client for workspace [%s]", teamID)
	}

	client = slack.New(installation.BotToken)

	if r.clientCache != nil {
		r.clientCache.Add(teamID, client)
	}

	return client, nil
}

func (r *installationTenantRegistry) BotUserID(teamID string) (userID string, err error) {
	installation, err := r.installations.GetInstallation(teamID)
	if err != nil {
		return "", err
	}

	return installation.BotUserID, nil
}

func (r *installationTenantRegistry) ActiveTenants() (tenants []Tenant, err error) {
	installations, err := r.installations.ScanInstallations()
	if err != nil {
		return nil, err
	}

	tenants = make([]Tenant, 0)
	for _, installation := range installations {
		if installation.ActiveChannelID != "" {
			tenants = append(tenants, Tenant{TeamID: installation.TeamID, ChannelID: installation.ActiveChannelID})
		}
	}

	return tenants, nil
}

func (r *installationTenantRegistry) Forget(teamID string) (err error) {
	if r.clientCache != nil {
		r.clientCache.Remove(teamID)
	}

	return r.installations.DeleteInstallation(teamID)
}
