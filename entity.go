package youtube

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"

	"github.com/rubpy/crawly-youtube-catalogue/tree"
)

//////////////////////////////////////////////////

type EntityData struct {
	Tree      *tree.Node `json:"tree"`
	LastBuild time.Time  `json:"last_build"`

	Topics int `json:"topics"`
	Videos int `json:"videos"`

	LastBuildAttempt time.Time `json:"last_build_attempt"`
	BuildAttempt     int       `json:"build_attempt"`
}

func (cr *Crawler) entityHandler(ctx context.Context, entity *crawly.Entity, result *crawly.TrackingResult) error {
	handle, ok := entity.Handle.(Handle)
	if !ok || !handle.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := entity.Data.(EntityData)
	defer func() {
		entity.Data = data
	}()

	if handle.Type != HandleChannelID {
		return crawly.InvalidHandle
	}

	settings := cr.loadSettings()
	buildTimeout := max(0*time.Second, settings.BuildTimeout)

	if !data.LastBuildAttempt.IsZero() && time.Since(data.LastBuildAttempt) < rebuildDelay(data, settings) {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err := ctx.Err(); err != nil {
			return err
		}
	}

	var cancel context.CancelFunc
	if buildTimeout > 0 {
		ctx, cancel = context.WithTimeoutCause(ctx, buildTimeout, ExceededBuildTimeout)
	} else {
		ctx, cancel = context.WithCancel(ctx)
	}
	defer cancel()

	channelID := handle.Value
	lp := clog.Params{
		Message: "buildChannelTree",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"channelID": channelID,
		},
	}

	data.LastBuildAttempt = time.Now()
	root, err := cr.builder(settings).Build(ctx, cr.channelInfo(channelID), cr.credential)
	if err == nil {
		data.Tree = root
		data.LastBuild = time.Now()
		data.BuildAttempt = 0
		data.Topics = root.Count(tree.KindTopic)
		data.Videos = root.Count(tree.KindVideo)

		cr.storeTree(channelID, root)

		lp.Set("topics", data.Topics)
		lp.Set("videos", data.Videos)
	} else {
		if cause := context.Cause(ctx); cause != nil && ctx.Err() != nil {
			err = fmt.Errorf("ChannelBuilder.Build: %w (%w)", err, cause)
		} else {
			err = fmt.Errorf("ChannelBuilder.Build: %w", err)
		}

		data.BuildAttempt++
		lp.Level = slog.LevelError
		lp.Set("attempt", data.BuildAttempt)
	}

	lp.Err = err
	cr.Log(ctx, lp)

	return err
}

// rebuildDelay is how long after its last build attempt a channel waits
// before the next one.
func rebuildDelay(data EntityData, settings CrawlerSettings) time.Duration {
	delay := max(1*time.Second, settings.MinimumRebuildDelay)
	if data.BuildAttempt > 0 {
		retry := max(1*time.Second, settings.RetryDelay) * time.Duration(data.BuildAttempt)
		delay = min(delay, retry)
	}

	return delay
}
