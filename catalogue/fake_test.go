package catalogue

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// fakeCatalogue serves in-memory playlists in pages, using the page offset
// as page token.
type fakeCatalogue struct {
	channels  map[string]*Channel
	items     map[string][]Item
	playlists map[string][]Playlist

	// Fails the page request with this (zero-based) index.
	failPage int
	failErr  error

	channelCalls  int
	itemCalls     int
	playlistCalls int
	pageSizes     []int64
}

func newFakeCatalogue() *fakeCatalogue {
	return &fakeCatalogue{
		channels:  make(map[string]*Channel),
		items:     make(map[string][]Item),
		playlists: make(map[string][]Playlist),
		failPage:  -1,
	}
}

func (f *fakeCatalogue) addChannel(channelID string, uploads []Item) {
	uploadsID := "UU" + strings.TrimPrefix(channelID, "UC")
	f.channels[channelID] = &Channel{
		ID:                channelID,
		Title:             "Channel " + channelID,
		UploadsPlaylistID: uploadsID,
	}
	f.items[uploadsID] = uploads
}

func (f *fakeCatalogue) Channel(ctx context.Context, channelID string) (*Channel, error) {
	f.channelCalls++

	channel, ok := f.channels[channelID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ChannelNotFound, channelID)
	}

	return channel, nil
}

func (f *fakeCatalogue) PlaylistItems(ctx context.Context, playlistID string, pageSize int64, pageToken string) (*Page[Item], error) {
	call := f.itemCalls
	f.itemCalls++
	f.pageSizes = append(f.pageSizes, pageSize)

	if call == f.failPage {
		return nil, f.failErr
	}

	return fakePage(f.items[playlistID], pageSize, pageToken)
}

func (f *fakeCatalogue) Playlists(ctx context.Context, channelID string, pageSize int64, pageToken string) (*Page[Playlist], error) {
	f.playlistCalls++

	return fakePage(f.playlists[channelID], pageSize, pageToken)
}

func fakePage[T any](all []T, pageSize int64, pageToken string) (*Page[T], error) {
	offset := 0
	if pageToken != "" {
		var err error
		if offset, err = strconv.Atoi(pageToken); err != nil {
			return nil, fmt.Errorf("bad page token %q", pageToken)
		}
	}

	end := min(offset+int(pageSize), len(all))
	page := &Page[T]{Items: all[offset:end]}
	if end < len(all) {
		page.NextPageToken = strconv.Itoa(end)
	}

	return page, nil
}

func fakeItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			VideoID: fmt.Sprintf("video%06d", i),
			Title:   fmt.Sprintf("Video %d", i),
		}
	}

	return items
}

func fakeOpener(cat Catalogue, opened *int) Opener {
	return func(ctx context.Context, credential string) (Catalogue, error) {
		*opened++
		return cat, nil
	}
}
