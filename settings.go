package youtube

import (
	"time"

	"github.com/rubpy/crawly"

	"github.com/rubpy/crawly-youtube-catalogue/catalogue"
)

//////////////////////////////////////////////////

type CrawlerSettings struct {
	crawly.CrawlerSettings

	// Number of items requested per catalogue page (clamped to 1..50).
	PageSize int64

	// Order topics in descending natural title order.
	SortDescending bool

	// A tracked channel is rebuilt at most once per this interval.
	MinimumRebuildDelay time.Duration

	// After a failed build the channel is retried once RetryDelay times
	// the number of consecutive failures has passed, but never later than
	// MinimumRebuildDelay.
	RetryDelay time.Duration

	// Upper bound for one whole channel build, all pages included. Zero
	// means no limit.
	BuildTimeout time.Duration
}

var DefaultSettings = CrawlerSettings{
	CrawlerSettings: crawly.DefaultCrawlerSettings,

	PageSize:       catalogue.MaxPageSize,
	SortDescending: false,

	MinimumRebuildDelay: 6 * time.Hour,
	RetryDelay:          1 * time.Minute,
	BuildTimeout:        5 * time.Minute,
}

//////////////////////////////////////////////////

func (cr *Crawler) loadSettings() CrawlerSettings {
	return cr.settings.Load()
}

func (cr *Crawler) setSettings(settings CrawlerSettings) {
	cr.settings.Store(settings)
	crawly.SetCrawlerSettings(&cr.Crawler, settings.CrawlerSettings)
}

func (cr *Crawler) Settings() CrawlerSettings {
	return cr.loadSettings()
}

func (cr *Crawler) SetSettings(settings CrawlerSettings) {
	cr.setSettings(settings)
}
