package catalogue

import (
	"context"
	"fmt"
	"iter"
)

//////////////////////////////////////////////////

// Opener opens a Catalogue authenticated with credential.
type Opener func(ctx context.Context, credential string) (Catalogue, error)

// OpenService is the default Opener, backed by the Data API.
func OpenService(ctx context.Context, credential string) (Catalogue, error) {
	svc, err := NewService(ctx, credential)
	if err != nil {
		return nil, err
	}

	return svc, nil
}

// Enumerator lists a channel's catalogue one page at a time. The zero value
// uses OpenService and pages of MaxPageSize.
//
// Pages are fetched strictly one after another, and every enumeration starts
// from the first page; no cursor outlives a call.
type Enumerator struct {
	Opener   Opener
	PageSize int64
}

func (e *Enumerator) pageSize() int64 {
	if e == nil || e.PageSize <= 0 || e.PageSize > MaxPageSize {
		return MaxPageSize
	}

	return e.PageSize
}

// Open opens a catalogue with credential. An empty credential fails with
// MissingCredential without invoking the Opener.
func (e *Enumerator) Open(ctx context.Context, credential string) (Catalogue, error) {
	if credential == "" {
		return nil, MissingCredential
	}

	opener := OpenService
	if e != nil && e.Opener != nil {
		opener = e.Opener
	}

	cat, err := opener(ctx, credential)
	if err != nil {
		return nil, err
	}
	if cat == nil {
		return nil, NilCatalogue
	}

	return cat, nil
}

// Videos returns the IDs of every video in the channel's uploads playlist,
// in the order the API lists them. Any failure aborts the enumeration and
// nothing is returned. A channel without uploads yields an empty slice.
func (e *Enumerator) Videos(ctx context.Context, channelID string, credential string) ([]string, error) {
	ids := make([]string, 0)
	for page, err := range e.Pages(ctx, channelID, credential) {
		if err != nil {
			return nil, err
		}

		ids = append(ids, page...)
	}

	return ids, nil
}

// Pages is the lazy form of Videos: each page of video IDs is yielded as it
// arrives. Ranging over the sequence again starts a fresh enumeration.
// Iteration ends after the first error.
func (e *Enumerator) Pages(ctx context.Context, channelID string, credential string) iter.Seq2[[]string, error] {
	return func(yield func([]string, error) bool) {
		if ctx == nil {
			ctx = context.Background()
		}

		cat, err := e.Open(ctx, credential)
		if err != nil {
			yield(nil, err)
			return
		}

		channel, err := LookupChannel(ctx, cat, channelID)
		if err != nil {
			yield(nil, err)
			return
		}

		seen := make(map[string]struct{})
		for items, err := range e.ItemPages(ctx, cat, channel.UploadsPlaylistID) {
			if err != nil {
				yield(nil, err)
				return
			}

			ids := make([]string, 0, len(items))
			for _, item := range items {
				if _, ok := seen[item.VideoID]; ok {
					continue
				}
				seen[item.VideoID] = struct{}{}

				ids = append(ids, item.VideoID)
			}

			if !yield(ids, nil) {
				return
			}
		}
	}
}

//////////////////////////////////////////////////

// LookupChannel resolves channelID through cat. A channel without an uploads
// playlist counts as not found.
func LookupChannel(ctx context.Context, cat Catalogue, channelID string) (*Channel, error) {
	if cat == nil {
		return nil, NilCatalogue
	}
	if channelID == "" {
		return nil, MissingChannelID
	}

	channel, err := cat.Channel(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil || channel.UploadsPlaylistID == "" {
		return nil, fmt.Errorf("%w: %q", ChannelNotFound, channelID)
	}

	return channel, nil
}

func (e *Enumerator) ItemPages(ctx context.Context, cat Catalogue, playlistID string) iter.Seq2[[]Item, error] {
	size := e.pageSize()
	return paginate(ctx, cat, func(ctx context.Context, pageToken string) (*Page[Item], error) {
		return cat.PlaylistItems(ctx, playlistID, size, pageToken)
	})
}

func (e *Enumerator) PlaylistPages(ctx context.Context, cat Catalogue, channelID string) iter.Seq2[[]Playlist, error] {
	size := e.pageSize()
	return paginate(ctx, cat, func(ctx context.Context, pageToken string) (*Page[Playlist], error) {
		return cat.Playlists(ctx, channelID, size, pageToken)
	})
}

// Items collects every item of a playlist, dropping repeated video IDs.
func (e *Enumerator) Items(ctx context.Context, cat Catalogue, playlistID string) ([]Item, error) {
	items := make([]Item, 0)
	seen := make(map[string]struct{})

	for page, err := range e.ItemPages(ctx, cat, playlistID) {
		if err != nil {
			return nil, err
		}

		for _, item := range page {
			if _, ok := seen[item.VideoID]; ok {
				continue
			}
			seen[item.VideoID] = struct{}{}

			items = append(items, item)
		}
	}

	return items, nil
}

func (e *Enumerator) Playlists(ctx context.Context, cat Catalogue, channelID string) ([]Playlist, error) {
	playlists := make([]Playlist, 0)
	for page, err := range e.PlaylistPages(ctx, cat, channelID) {
		if err != nil {
			return nil, err
		}

		playlists = append(playlists, page...)
	}

	return playlists, nil
}

//////////////////////////////////////////////////

type fetchFunc[T any] func(ctx context.Context, pageToken string) (*Page[T], error)

func paginate[T any](ctx context.Context, cat Catalogue, fetch fetchFunc[T]) iter.Seq2[[]T, error] {
	return func(yield func([]T, error) bool) {
		if cat == nil {
			yield(nil, NilCatalogue)
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		var token string
		tokens := make(map[string]struct{})
		for {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}

			page, err := fetch(ctx, token)
			if err != nil {
				yield(nil, err)
				return
			}
			if page == nil {
				page = &Page[T]{}
			}

			if !yield(page.Items, nil) {
				return
			}

			if page.NextPageToken == "" {
				return
			}
			if _, ok := tokens[page.NextPageToken]; ok {
				yield(nil, fmt.Errorf("%w: %q", RepeatedPageToken, page.NextPageToken))
				return
			}
			tokens[page.NextPageToken] = struct{}{}

			token = page.NextPageToken
		}
	}
}
