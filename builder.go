package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rubpy/crawly-youtube-catalogue/catalogue"
	"github.com/rubpy/crawly-youtube-catalogue/tree"
)

//////////////////////////////////////////////////

// ChannelInfo describes the channel being assembled: where its content comes
// from and how the root of the tree is labelled.
type ChannelInfo struct {
	YouTubeChannelID string `json:"youtube_channel_id"`

	SourceID    string `json:"source_id"`
	Domain      string `json:"domain"`
	Title       string `json:"title"`
	Language    string `json:"language"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail"`
}

var DefaultChannelInfo = ChannelInfo{
	YouTubeChannelID: "UCIGQCJIF4fdTrqxnvcwTYxg",

	SourceID:    "chicken-n-chips",
	Domain:      "youtube.com",
	Title:       "Chicken N Chips",
	Language:    "en",
	Description: "Chicken & Chips is a weekly pop culture magazine, that focuses on relationships and combines music, journalism, puppetry and animation to create the freshest blend of edutainment in Uganda. Airs every Sunday at 1:30pm on NTV Uganda",
	Thumbnail:   filepath.Join("files", "logo.png"),
}

func (info ChannelInfo) String() string {
	var s strings.Builder

	s.WriteString("{ChannelInfo:[youtubeChannelID:")
	s.WriteString(strconv.Quote(info.YouTubeChannelID))
	s.WriteString(", sourceID:")
	s.WriteString(strconv.Quote(info.SourceID))
	s.WriteString(", domain:")
	s.WriteString(strconv.Quote(info.Domain))
	s.WriteString("]}")

	return s.String()
}

//////////////////////////////////////////////////

var (
	EmptyChannel = errors.New("channel has no playlists and no videos")
)

// ChannelBuilder assembles the content tree of a channel: one topic per
// playlist, holding the playlist's videos in playlist order, plus a topic
// for uploads that appear in no playlist. Topics are then put in natural
// title order.
type ChannelBuilder struct {
	Enumerator catalogue.Enumerator
	Logger     *slog.Logger

	Descending bool
	KeyFunc    tree.KeyFunc
}

func (b *ChannelBuilder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return b.Logger
}

// Build fetches the channel's playlists and uploads and returns the sorted
// tree. Any catalogue failure aborts the build; no partial tree is returned.
// A channel with neither playlists nor uploads fails with EmptyChannel.
func (b *ChannelBuilder) Build(ctx context.Context, info ChannelInfo, credential string) (*tree.Node, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	if !IsValidChannelID(info.YouTubeChannelID) {
		return nil, InvalidChannelID
	}

	logger := b.logger().With(slog.String("channelID", info.YouTubeChannelID))

	cat, err := b.Enumerator.Open(ctx, credential)
	if err != nil {
		return nil, err
	}

	channel, err := catalogue.LookupChannel(ctx, cat, info.YouTubeChannelID)
	if err != nil {
		return nil, fmt.Errorf("catalogue.LookupChannel: %w", err)
	}
	if channel.ID == "" {
		c := *channel
		c.ID = info.YouTubeChannelID
		channel = &c
	}

	playlists, err := b.Enumerator.Playlists(ctx, cat, channel.ID)
	if err != nil {
		return nil, fmt.Errorf("catalogue.Enumerator.Playlists: %w", err)
	}

	uploads, err := b.Enumerator.Items(ctx, cat, channel.UploadsPlaylistID)
	if err != nil {
		return nil, fmt.Errorf("catalogue.Enumerator.Items: %w", err)
	}

	logger.Debug("fetched channel catalogue",
		slog.Int("playlists", len(playlists)),
		slog.Int("uploads", len(uploads)),
	)

	root := newChannelRoot(info, channel)

	inPlaylist := make(map[string]struct{}, len(uploads))
	for _, pl := range playlists {
		if pl.ID == channel.UploadsPlaylistID {
			continue
		}

		items, err := b.Enumerator.Items(ctx, cat, pl.ID)
		if err != nil {
			return nil, fmt.Errorf("catalogue.Enumerator.Items: %w", err)
		}
		if len(items) == 0 {
			logger.Debug("skipping empty playlist", slog.String("playlistID", pl.ID))
			continue
		}

		topic := tree.NewTopic(pl.ID, pl.Title)
		topic.Description = pl.Description
		topic.ThumbnailURL = pl.ThumbnailURL
		for _, item := range items {
			topic.Children = append(topic.Children, newVideoNode(item))
			inPlaylist[item.VideoID] = struct{}{}
		}

		root.Add(topic)
	}

	var loose []catalogue.Item
	for _, item := range uploads {
		if _, ok := inPlaylist[item.VideoID]; !ok {
			loose = append(loose, item)
		}
	}

	if len(loose) > 0 {
		topic := tree.NewTopic(channel.UploadsPlaylistID, root.Title)
		topic.ThumbnailURL = root.ThumbnailURL
		for _, item := range loose {
			topic.Children = append(topic.Children, newVideoNode(item))
		}

		root.Add(topic)
	}

	if len(root.Children) == 0 {
		return nil, EmptyChannel
	}

	opts := []tree.SortOption{
		tree.Descending(b.Descending),
		tree.WithLogger(logger),
	}
	if b.KeyFunc != nil {
		opts = append(opts, tree.WithKeyFunc(b.KeyFunc))
	}

	return tree.Sort(root, opts...), nil
}

func newChannelRoot(info ChannelInfo, channel *catalogue.Channel) *tree.Node {
	sourceID := info.SourceID
	if sourceID == "" {
		sourceID = channel.ID
	}
	domain := info.Domain
	if domain == "" {
		domain = DefaultChannelInfo.Domain
	}

	root := tree.NewChannel(domain, sourceID)
	root.Title = firstNonEmpty(info.Title, channel.Title, channel.ID)
	root.Description = firstNonEmpty(info.Description, channel.Description)
	root.Language = firstNonEmpty(info.Language, channel.Language)
	root.ThumbnailURL = firstNonEmpty(info.Thumbnail, channel.ThumbnailURL)
	root.URL = "https://www.youtube.com/channel/" + channel.ID

	return root
}

func newVideoNode(item catalogue.Item) *tree.Node {
	video := tree.NewVideo(item.VideoID, item.Title)
	video.Description = item.Description
	video.ThumbnailURL = item.ThumbnailURL

	return video
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
