package youtube

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rubpy/crawly"
	"github.com/rubpy/crawly/clog"
)

//////////////////////////////////////////////////

type OrderData struct{}

func (cr *Crawler) orderHandler(ctx context.Context, order *crawly.Order, result *crawly.TrackingResult) error {
	handle, ok := order.Handle.(Handle)
	if !ok || !handle.Valid() {
		return crawly.InvalidHandle
	}

	data, _ := order.Data.(OrderData)
	defer func() {
		order.Data = data
	}()

	if handle.Type == HandleChannelURL {
		channelID, err := cr.resolveChannelURL(ctx, handle.Value)
		if err != nil {
			return err
		}

		handle = ChannelID(channelID)
		result.Entity.Value.Handle = handle
	}

	if handle.Type != HandleChannelID || !IsValidChannelID(handle.Value) {
		return crawly.InvalidHandle
	}

	return nil
}

// resolveChannelURL maps a channel URL to its channel ID, fetching the
// channel page on a cache miss.
func (cr *Crawler) resolveChannelURL(ctx context.Context, channelURL string) (string, error) {
	if !IsValidChannelURL(channelURL) {
		return "", crawly.InvalidHandle
	}

	if channelID, ok := cr.loadChannelID(channelURL); ok {
		return channelID, nil
	}

	lp := clog.Params{
		Message: "fetchChannelIndex",
		Level:   slog.LevelDebug,

		Values: clog.ParamGroup{
			"channelURL": channelURL,
		},
	}

	var channelID string
	index, err := cr.FetchChannelIndex(ctx, channelURL)
	if err == nil {
		if IsValidChannelID(index.ChannelID) {
			cr.storeChannelID(channelURL, index.ChannelID)

			channelID = index.ChannelID
			lp.Set("channelID", channelID)
		}
	} else {
		err = fmt.Errorf("FetchChannelIndex: %w", err)
	}

	lp.Err = err
	cr.Log(ctx, lp)

	if err != nil {
		return "", err
	}
	if channelID == "" {
		return "", InvalidChannelID
	}

	return channelID, nil
}
