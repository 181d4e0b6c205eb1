package youtube

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rubpy/crawly-youtube-catalogue/catalogue"
)

type fakeCatalogue struct {
	channel   *catalogue.Channel
	playlists []catalogue.Playlist
	items     map[string][]catalogue.Item

	failPlaylistID string
	failErr        error

	requests int
}

func newFakeCatalogue(channelID string) *fakeCatalogue {
	return &fakeCatalogue{
		channel: &catalogue.Channel{
			ID:                channelID,
			Title:             "API Title",
			Description:       "API description",
			UploadsPlaylistID: "UU" + channelID[2:],
		},
		items: make(map[string][]catalogue.Item),
	}
}

func (f *fakeCatalogue) addPlaylist(id string, title string, videoIDs ...string) {
	f.playlists = append(f.playlists, catalogue.Playlist{ID: id, Title: title})
	f.items[id] = fakeItems(videoIDs...)
}

func (f *fakeCatalogue) setUploads(videoIDs ...string) {
	f.items[f.channel.UploadsPlaylistID] = fakeItems(videoIDs...)
}

func fakeItems(videoIDs ...string) []catalogue.Item {
	items := make([]catalogue.Item, len(videoIDs))
	for i, id := range videoIDs {
		items[i] = catalogue.Item{VideoID: id, Title: "Video " + id}
	}

	return items
}

func (f *fakeCatalogue) Channel(ctx context.Context, channelID string) (*catalogue.Channel, error) {
	f.requests++

	if f.channel == nil || f.channel.ID != channelID {
		return nil, fmt.Errorf("%w: %q", catalogue.ChannelNotFound, channelID)
	}

	return f.channel, nil
}

func (f *fakeCatalogue) PlaylistItems(ctx context.Context, playlistID string, pageSize int64, pageToken string) (*catalogue.Page[catalogue.Item], error) {
	f.requests++

	if playlistID == f.failPlaylistID {
		return nil, f.failErr
	}

	return page(f.items[playlistID], pageSize, pageToken), nil
}

func (f *fakeCatalogue) Playlists(ctx context.Context, channelID string, pageSize int64, pageToken string) (*catalogue.Page[catalogue.Playlist], error) {
	f.requests++

	return page(f.playlists, pageSize, pageToken), nil
}

func page[T any](all []T, pageSize int64, pageToken string) *catalogue.Page[T] {
	offset, _ := strconv.Atoi(pageToken)
	end := min(offset+int(pageSize), len(all))

	p := &catalogue.Page[T]{Items: all[offset:end]}
	if end < len(all) {
		p.NextPageToken = strconv.Itoa(end)
	}

	return p
}

func (f *fakeCatalogue) opener(opened *int) catalogue.Opener {
	return func(ctx context.Context, credential string) (catalogue.Catalogue, error) {
		if opened != nil {
			*opened++
		}

		return f, nil
	}
}
