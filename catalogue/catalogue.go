// Package catalogue enumerates a channel's published videos and playlists
// through the YouTube Data API v3, paging until the API reports no further
// page.
package catalogue

import (
	"context"
	"errors"
	"strconv"
	"strings"
)

//////////////////////////////////////////////////

// MaxPageSize is the largest page the Data API serves per list call.
const MaxPageSize int64 = 50

// Catalogue is the remote catalogue API.
type Catalogue interface {
	// Channel looks up channel metadata, including the ID of its uploads
	// playlist. Fails with ChannelNotFound if the channel does not exist.
	Channel(ctx context.Context, channelID string) (*Channel, error)

	PlaylistItems(ctx context.Context, playlistID string, pageSize int64, pageToken string) (*Page[Item], error)
	Playlists(ctx context.Context, channelID string, pageSize int64, pageToken string) (*Page[Playlist], error)
}

// Page is one page of a list call. An empty NextPageToken marks the last
// page.
type Page[T any] struct {
	Items         []T
	NextPageToken string
}

type Channel struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	Description       string `json:"description"`
	Language          string `json:"language"`
	ThumbnailURL      string `json:"thumbnail_url"`
	UploadsPlaylistID string `json:"uploads_playlist_id"`
}

type Item struct {
	VideoID      string `json:"video_id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (item Item) String() string {
	var s strings.Builder

	s.WriteString("{Item:[videoID:")
	s.WriteString(strconv.Quote(item.VideoID))
	s.WriteString(", title:")
	s.WriteString(strconv.Quote(item.Title))
	s.WriteString("]}")

	return s.String()
}

type Playlist struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	ThumbnailURL string `json:"thumbnail_url"`
}

//////////////////////////////////////////////////

var (
	MissingCredential = errors.New("API credential is missing")
	ChannelNotFound   = errors.New("channel not found")
	NilCatalogue      = errors.New("catalogue is nil")
	NilService        = errors.New("service is nil")
	RepeatedPageToken = errors.New("page token repeated")
	MissingPlaylistID = errors.New("playlist ID is empty")
	MissingChannelID  = errors.New("channel ID is empty")
)
