package export

import (
	"fmt"

	"github.com/op/go-logging"
	"gitlab.gbv.de/nationallizenzen/nl-export/models/common"
	"gitlab.gbv.de/nationallizenzen/nl-export/network"
	"gitlab.gbv.de/nationallizenzen/nl-export/util/logger"
)

// Context holds the clients built from one config file. The optional
// clients are nil when their config section is missing.
type Context struct {
	Config      *common.Config
	Logger      *logging.Logger
	LogFile     string
	PloneClient *network.PloneClient
	RedisClient *network.RedisClient
	Uploader    *network.ArtifactUploader
	Notifier    *network.NSQNotifier
	States      *StateCache
}

// NewContext sets up logging and every client config asks for. An
// unreachable Redis is not fatal: state titles are then cached in
// memory for this run only.
func NewContext(config *common.Config, logLevel logging.Level) (*Context, error) {
	log, logFile, err := logger.InitLogger(config.LogDir, logLevel)
	if err != nil {
		return nil, err
	}
	context := &Context{
		Config:  config,
		Logger:  log,
		LogFile: logFile,
	}
	context.PloneClient, err = network.NewPloneClient(
		config.BaseURL,
		config.AccessToken,
		config.RequestTimeout,
		log)
	if err != nil {
		return nil, common.NewError("cannot create portal client", err, true)
	}

	var store StateStore
	if config.RedisEnabled() {
		client := network.NewRedisClient(config.RedisURL, config.RedisPassword, config.RedisDB, config.RedisTTL)
		if _, err := client.Ping(); err != nil {
			log.Warningf("Redis at %s is not available, caching state titles in memory: %v", config.RedisURL, err)
			client.Close()
		} else {
			context.RedisClient = client
			store = client
		}
	}
	context.States = NewStateCache(context.PloneClient, store, log)

	if config.S3Enabled() {
		context.Uploader, err = network.NewArtifactUploader(
			config.S3Host,
			config.S3KeyID,
			config.S3SecretKey,
			config.S3Region,
			config.S3Secure,
			config.S3Bucket,
			config.S3Prefix,
			log)
		if err != nil {
			return nil, common.NewError("cannot create S3 uploader", err, true)
		}
	}
	if config.NSQEnabled() {
		context.Notifier, err = network.NewNSQNotifier(config.NSQdAddress, config.NSQTopic, log)
		if err != nil {
			return nil, common.NewError("cannot create NSQ producer", err, true)
		}
	}
	return context, nil
}

// NewExporter returns an exporter using this context's clients.
// Workers default to the configured count.
func (context *Context) NewExporter(opts Options) *Exporter {
	if opts.Workers < 1 {
		opts.Workers = context.Config.Workers
	}
	e := NewExporter(context.PloneClient, context.PloneClient.Host(), context.States, opts, context.Logger)
	if context.Uploader != nil {
		e.Uploader = context.Uploader
	}
	if context.Notifier != nil {
		e.Notifier = context.Notifier
	}
	return e
}

// Close releases network resources.
func (context *Context) Close() {
	if context.Notifier != nil {
		context.Notifier.Stop()
	}
	if context.RedisClient != nil {
		if err := context.RedisClient.Close(); err != nil {
			context.Logger.Warningf("Closing Redis client: %v", err)
		}
	}
	context.PloneClient.CloseIdleConnections()
}

// String describes which optional features are switched on.
func (context *Context) String() string {
	return fmt.Sprintf("portal=%s redis=%t s3=%t nsq=%t",
		context.Config.BaseURL,
		context.RedisClient != nil,
		context.Uploader != nil,
		context.Notifier != nil)
}
