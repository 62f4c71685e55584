// Spotscot is a slack bot tracking photographic spots of coworkers caught in
// the wild. Members post a photo mentioning the caught coworker in the bound
// channel and spotscot keeps score
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/alexandre-normand/spotscot"
	"github.com/alexandre-normand/spotscot/config"
	"github.com/alexandre-normand/spotscot/plugins"
	"github.com/alexandre-normand/spotscot/store"
	"github.com/alexandre-normand/spotscot/store/datastoredb"
	"github.com/alexandre-normand/spotscot/store/inmemorydb"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/slack-go/slack"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/api/global"
	"google.golang.org/api/option"
)

const (
	name = "spotscot"
)

func main() {
	configurationPath := flag.String("config", "", "The path to a configuration file")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	v := config.NewViperWithDefaults()
	v.SetEnvPrefix(name)
	v.AutomaticEnv()

	if *configurationPath != "" {
		v.SetConfigFile(*configurationPath)
		if err := v.ReadInConfig(); err != nil {
			log.Fatalf("Error loading configuration file [%s]: %v", *configurationPath, err)
		}
	}

	logger := log.New(os.Stdout, "spotscot: ", log.Lshortfile|log.LstdFlags)

	db, err := newStorage(v)
	if err != nil {
		logger.Fatalf("Error opening storage: %v", err)
	}
	defer db.Close()

	meter := global.MeterProvider().Meter(name)
	spots := store.NewSpotStorerWithTelemetry(db, name, meter)

	registry, installations, err := newTenantRegistry(v, db)
	if err != nil {
		logger.Fatalf("Error setting up tenant registry: %v", err)
	}

	userInfoFinder, err := spotscot.NewCachingUserInfoFinder(v, spotscot.NewClientUserInfoFinder(registry), spotscot.NewSLogger(logger, v.GetBool(config.DebugKey)))
	if err != nil {
		logger.Fatalf("Error setting up user info cache: %v", err)
	}
	authorizer := spotscot.NewAdminAuthorizer(userInfoFinder)
	poster := spotscot.NewChannelPoster(registry)

	options := []spotscot.Option{spotscot.OptionLog(logger), spotscot.OptionMeter(meter)}
	if installations != nil {
		options = append(options, spotscot.OptionInstallationStorer(installations))
	}

	bot, err := spotscot.New(name, v, registry, options...)
	if err != nil {
		logger.Fatalf("Error creating the bot: %v", err)
	}

	// Registration order sets hear action priority: a threaded veto and a
	// pics request both carry mentions so they must outrank spot logging
	moderation := plugins.NewModeration(spots, registry, authorizer, db)
	gallery := plugins.NewGallery(spots)
	spotLog := plugins.NewSpotLog(spots)
	leaderboards := plugins.NewLeaderboards(spots, registry, poster)

	bot.RegisterPlugin(&moderation.Plugin)
	bot.RegisterPlugin(&gallery.Plugin)
	bot.RegisterPlugin(&spotLog.Plugin)
	bot.RegisterPlugin(&leaderboards.Plugin)

	if err := bot.Run(); err != nil {
		logger.Fatalf("Error running the bot: %v", err)
	}
}

// storage bundles the persistence interfaces all backends implement
type storage interface {
	store.SpotStorer
	store.InstallationStorer
	store.ModerationRecorder
}

func newStorage(v *viper.Viper) (db storage, err error) {
	switch backend := v.GetString(config.StorageKey); backend {
	case config.StorageLevelDB:
		return store.NewLevelDB(name, v.GetString(config.StoragePathKey))
	case config.StorageDatastore:
		opts := make([]option.ClientOption, 0)
		if credentialsFile := v.GetString(config.GCloudCredentialsFileKey); credentialsFile != "" {
			opts = append(opts, option.WithCredentialsFile(credentialsFile))
		}

		return datastoredb.New(v.GetString(config.GCloudProjectIDKey), opts...)
	case config.StorageMemory:
		return inmemorydb.New(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend [%s]", backend)
	}
}

// newTenantRegistry builds the tenant resolution matching the deployment
// mode: a static single-workspace registry over the configured bot token for
// socket mode and an installation-backed one for the events api
func newTenantRegistry(v *viper.Viper, db storage) (registry spotscot.TenantRegistry, installations store.InstallationStorer, err error) {
	switch mode := v.GetString(config.ModeKey); mode {
	case config.ModeSocket:
		client := slack.New(v.GetString(config.BotTokenKey), slack.OptionAppLevelToken(v.GetString(config.AppTokenKey)))

		identity, err := client.AuthTest()
		if err != nil {
			return nil, nil, errors.Wrap(err, "error resolving bot identity")
		}

		return spotscot.NewStaticTenantRegistry(identity.TeamID, identity.UserID, v.GetString(config.ActiveChannelKey), client), nil, nil
	case config.ModeEvents:
		registry, err = spotscot.NewInstallationTenantRegistry(db, v.GetInt(config.ClientCacheSizeKey))
		if err != nil {
			return nil, nil, err
		}

		return registry, db, nil
	default:
		return nil, nil, fmt.Errorf("unknown deployment mode [%s]", mode)
	}
}
