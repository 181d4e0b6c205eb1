package catalogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

// dataAPI mimics the channels and playlistItems endpoints of the YouTube
// Data API v3.
type dataAPI struct {
	channels map[string]string // channel ID -> uploads playlist ID
	videos   map[string]int    // playlist ID -> number of videos

	channelRequests atomic.Int32
	itemRequests    atomic.Int32
}

func (api *dataAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/youtube/v3/channels", func(w http.ResponseWriter, r *http.Request) {
		api.channelRequests.Add(1)

		resp := youtube.ChannelListResponse{}
		if uploads, ok := api.channels[r.URL.Query().Get("id")]; ok {
			resp.Items = append(resp.Items, &youtube.Channel{
				Id: r.URL.Query().Get("id"),
				Snippet: &youtube.ChannelSnippet{
					Title:           "Chicken N Chips",
					DefaultLanguage: "en",
					Thumbnails: &youtube.ThumbnailDetails{
						Default: &youtube.Thumbnail{Url: "https://example.com/default.jpg"},
						High:    &youtube.Thumbnail{Url: "https://example.com/high.jpg"},
					},
				},
				ContentDetails: &youtube.ChannelContentDetails{
					RelatedPlaylists: &youtube.ChannelContentDetailsRelatedPlaylists{
						Uploads: uploads,
					},
				},
			})
		}

		writeJSON(w, resp)
	})

	mux.HandleFunc("/youtube/v3/playlistItems", func(w http.ResponseWriter, r *http.Request) {
		api.itemRequests.Add(1)

		q := r.URL.Query()
		total, ok := api.videos[q.Get("playlistId")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{
				"error": map[string]any{"code": 404, "message": "playlist not found"},
			})
			return
		}

		size, _ := strconv.Atoi(q.Get("maxResults"))
		offset, _ := strconv.Atoi(q.Get("pageToken"))
		end := min(offset+size, total)

		resp := youtube.PlaylistItemListResponse{}
		for i := offset; i < end; i++ {
			resp.Items = append(resp.Items, &youtube.PlaylistItem{
				ContentDetails: &youtube.PlaylistItemContentDetails{VideoId: fmt.Sprintf("video%06d", i)},
				Snippet:        &youtube.PlaylistItemSnippet{Title: fmt.Sprintf("Video %d", i)},
			})
		}
		if end < total {
			resp.NextPageToken = strconv.Itoa(end)
		}

		writeJSON(w, resp)
	})

	return mux
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func newTestService(t *testing.T, api *dataAPI) *Service {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	svc, err := youtube.NewService(context.Background(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	require.NoError(t, err)

	return FromService(svc)
}

func TestServiceVideos(t *testing.T) {
	api := &dataAPI{
		channels: map[string]string{testChannelID: "UUuploads"},
		videos:   map[string]int{"UUuploads": 107},
	}
	svc := newTestService(t, api)

	e := &Enumerator{Opener: func(ctx context.Context, credential string) (Catalogue, error) {
		return svc, nil
	}}

	ids, err := e.Videos(context.Background(), testChannelID, "key")
	require.NoError(t, err)

	require.Len(t, ids, 107)
	assert.Equal(t, "video000000", ids[0])
	assert.Equal(t, "video000050", ids[50])
	assert.Equal(t, "video000106", ids[106])
	assert.EqualValues(t, 1, api.channelRequests.Load())
	assert.EqualValues(t, 3, api.itemRequests.Load())
}

func TestServiceChannel(t *testing.T) {
	api := &dataAPI{channels: map[string]string{testChannelID: "UUuploads"}}
	svc := newTestService(t, api)

	channel, err := svc.Channel(context.Background(), testChannelID)
	require.NoError(t, err)
	assert.Equal(t, "UUuploads", channel.UploadsPlaylistID)
	assert.Equal(t, "Chicken N Chips", channel.Title)
	assert.Equal(t, "en", channel.Language)
	assert.Equal(t, "https://example.com/high.jpg", channel.ThumbnailURL)
}

func TestServiceChannelNotFound(t *testing.T) {
	api := &dataAPI{}
	svc := newTestService(t, api)

	_, err := svc.Channel(context.Background(), testChannelID)
	require.ErrorIs(t, err, ChannelNotFound)
	assert.EqualValues(t, 1, api.channelRequests.Load())
}

func TestServiceTransportError(t *testing.T) {
	api := &dataAPI{channels: map[string]string{testChannelID: "UUmissing"}}
	svc := newTestService(t, api)

	e := &Enumerator{Opener: func(ctx context.Context, credential string) (Catalogue, error) {
		return svc, nil
	}}

	_, err := e.Videos(context.Background(), testChannelID, "key")
	require.Error(t, err)

	var apiErr *googleapi.Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.Code)
}

func TestNewServiceMissingCredential(t *testing.T) {
	svc, err := NewService(context.Background(), "")
	assert.ErrorIs(t, err, MissingCredential)
	assert.Nil(t, svc)
}

func TestNilService(t *testing.T) {
	var svc *Service

	_, err := svc.Channel(context.Background(), testChannelID)
	assert.ErrorIs(t, err, NilService)

	_, err = svc.PlaylistItems(context.Background(), "PL1", 50, "")
	assert.ErrorIs(t, err, NilService)

	_, err = svc.Playlists(context.Background(), testChannelID, 50, "")
	assert.ErrorIs(t, err, NilService)
}

func TestThumbnailURL(t *testing.T) {
	assert.Equal(t, "", thumbnailURL(nil))
	assert.Equal(t, "", thumbnailURL(&youtube.ThumbnailDetails{}))
	assert.Equal(t, "m", thumbnailURL(&youtube.ThumbnailDetails{
		Default: &youtube.Thumbnail{Url: "d"},
		Medium:  &youtube.Thumbnail{Url: "m"},
	}))
}
