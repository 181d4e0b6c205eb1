package youtube

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/cclient"

	"github.com/rubpy/crawly-youtube-catalogue/catalogue"
)

//////////////////////////////////////////////////

type config struct {
	logger     *slog.Logger
	client     cclient.Client
	opener     catalogue.Opener
	credential string
	info       ChannelInfo

	settings struct {
		v  CrawlerSettings
		ok bool
	}
}

var (
	NilConfig = errors.New("config is nil")
	NilClient = errors.New("client is nil")
)

func validateConfig(cfg *config) error {
	if cfg == nil {
		return NilConfig
	}

	if cfg.credential == "" {
		return catalogue.MissingCredential
	}

	return nil
}

func buildCrawlerFromConfig(cfg *config) (cr *Crawler, err error) {
	if cfg == nil {
		err = NilConfig
		return
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	cl := cfg.client
	if cl == nil {
		cl, err = cclient.NewClient(cclient.WithLogger(logger.WithGroup("client")))
		if err != nil {
			return nil, fmt.Errorf("cclient.NewClient: %w", err)
		}
	}

	info := cfg.info
	if info == (ChannelInfo{}) {
		info = DefaultChannelInfo
	}

	cr = &Crawler{
		client:     cl,
		logger:     logger,
		opener:     cfg.opener,
		credential: cfg.credential,
		info:       info,
	}

	cr.Crawler.SetLogger(logger)
	crawly.SetCrawlerHandlers(&cr.Crawler, crawly.CrawlerHandlers{
		Order:  cr.orderHandler,
		Entity: cr.entityHandler,
	})

	if cfg.settings.ok {
		cr.SetSettings(cfg.settings.v)
	} else {
		cr.SetSettings(DefaultSettings)
	}

	return cr, nil
}

type ConfigOption func(cfg *config)

//////////////////////////////////////////////////

func WithLogger(logger *slog.Logger) ConfigOption {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

func WithClient(client cclient.Client) ConfigOption {
	return func(cfg *config) {
		cfg.client = client
	}
}

// WithCredential sets the Data API key used for every channel build.
func WithCredential(credential string) ConfigOption {
	return func(cfg *config) {
		cfg.credential = credential
	}
}

// WithOpener replaces the default Data API backed catalogue.
func WithOpener(opener catalogue.Opener) ConfigOption {
	return func(cfg *config) {
		cfg.opener = opener
	}
}

// WithChannelInfo sets the metadata of the channel identified by
// info.YouTubeChannelID (DefaultChannelInfo if not given).
func WithChannelInfo(info ChannelInfo) ConfigOption {
	return func(cfg *config) {
		cfg.info = info
	}
}

func WithSettings(settings CrawlerSettings) ConfigOption {
	return func(cfg *config) {
		cfg.settings.v = settings
		cfg.settings.ok = true
	}
}
