// Package youtube tracks YouTube channels and assembles each channel's
// catalogue into a sorted content tree, ready for import into a learning
// content repository.
package youtube

import (
	"log/slog"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/cclient"
	"github.com/rubpy/crawly/csync"

	"github.com/rubpy/crawly-youtube-catalogue/catalogue"
	"github.com/rubpy/crawly-youtube-catalogue/tree"
)

//////////////////////////////////////////////////

type Crawler struct {
	crawly.Crawler

	client cclient.Client
	logger *slog.Logger

	opener     catalogue.Opener
	credential string
	info       ChannelInfo

	channelIDCache csync.Map[string, string]
	trees          csync.Map[string, *tree.Node]

	settings csync.Value[CrawlerSettings]
}

func NewCrawler(opts ...ConfigOption) (*Crawler, error) {
	var cfg config

	for _, opt := range opts {
		opt(&cfg)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	cr, err := buildCrawlerFromConfig(&cfg)
	if err != nil {
		return nil, err
	}

	return cr, nil
}

// builder returns a ChannelBuilder configured from the current settings.
func (cr *Crawler) builder(settings CrawlerSettings) *ChannelBuilder {
	return &ChannelBuilder{
		Enumerator: catalogue.Enumerator{
			Opener:   cr.opener,
			PageSize: settings.PageSize,
		},
		Logger:     cr.logger,
		Descending: settings.SortDescending,
	}
}

// channelInfo returns the metadata of channelID. Channels other than the
// configured one only inherit its domain and language; title and
// description then come from the API.
func (cr *Crawler) channelInfo(channelID string) ChannelInfo {
	if cr.info.YouTubeChannelID == channelID {
		return cr.info
	}

	return ChannelInfo{
		YouTubeChannelID: channelID,
		SourceID:         channelID,
		Domain:           cr.info.Domain,
		Language:         cr.info.Language,
	}
}
