package catalogue

import (
	"context"
	"fmt"

	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

//////////////////////////////////////////////////

// Service implements Catalogue on top of a YouTube Data API v3 service.
type Service struct {
	service *youtube.Service
}

// NewService creates a Data API service authenticated with the API key
// credential. Extra options are applied after the key.
func NewService(ctx context.Context, credential string, opts ...option.ClientOption) (*Service, error) {
	if credential == "" {
		return nil, MissingCredential
	}

	opts = append([]option.ClientOption{option.WithAPIKey(credential)}, opts...)
	svc, err := youtube.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("youtube.NewService: %w", err)
	}

	return FromService(svc), nil
}

func FromService(svc *youtube.Service) *Service {
	return &Service{service: svc}
}

func (s *Service) Channel(ctx context.Context, channelID string) (channel *Channel, err error) {
	if s == nil || s.service == nil {
		err = NilService
		return
	}
	if channelID == "" {
		err = MissingChannelID
		return
	}

	part := []string{"snippet", "contentDetails"}
	call := s.service.Channels.List(part)
	call.Context(ctx)
	call.Id(channelID)

	resp, err := call.Do()
	if err != nil {
		err = fmt.Errorf("youtube.ChannelsService.List: %w", err)
		return
	}

	for _, item := range resp.Items {
		if item == nil || item.ContentDetails == nil || item.ContentDetails.RelatedPlaylists == nil {
			continue
		}

		uploads := item.ContentDetails.RelatedPlaylists.Uploads
		if uploads == "" {
			continue
		}

		channel = &Channel{
			ID:                item.Id,
			UploadsPlaylistID: uploads,
		}
		if sn := item.Snippet; sn != nil {
			channel.Title = sn.Title
			channel.Description = sn.Description
			channel.Language = sn.DefaultLanguage
			channel.ThumbnailURL = thumbnailURL(sn.Thumbnails)
		}

		return
	}

	err = fmt.Errorf("%w: %q", ChannelNotFound, channelID)
	return
}

func (s *Service) PlaylistItems(ctx context.Context, playlistID string, pageSize int64, pageToken string) (page *Page[Item], err error) {
	if s == nil || s.service == nil {
		err = NilService
		return
	}
	if playlistID == "" {
		err = MissingPlaylistID
		return
	}

	part := []string{"snippet", "contentDetails"}
	call := s.service.PlaylistItems.List(part)
	call.Context(ctx)
	call.PlaylistId(playlistID)
	call.MaxResults(pageSize)
	if pageToken != "" {
		call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		err = fmt.Errorf("youtube.PlaylistItemsService.List: %w", err)
		return
	}

	page = &Page[Item]{
		Items:         make([]Item, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, pi := range resp.Items {
		if pi == nil {
			continue
		}

		var item Item
		if pi.ContentDetails != nil {
			item.VideoID = pi.ContentDetails.VideoId
		}
		if sn := pi.Snippet; sn != nil {
			if item.VideoID == "" && sn.ResourceId != nil {
				item.VideoID = sn.ResourceId.VideoId
			}

			item.Title = sn.Title
			item.Description = sn.Description
			item.ThumbnailURL = thumbnailURL(sn.Thumbnails)
		}

		if item.VideoID == "" {
			continue
		}
		page.Items = append(page.Items, item)
	}

	return
}

func (s *Service) Playlists(ctx context.Context, channelID string, pageSize int64, pageToken string) (page *Page[Playlist], err error) {
	if s == nil || s.service == nil {
		err = NilService
		return
	}
	if channelID == "" {
		err = MissingChannelID
		return
	}

	part := []string{"snippet"}
	call := s.service.Playlists.List(part)
	call.Context(ctx)
	call.ChannelId(channelID)
	call.MaxResults(pageSize)
	if pageToken != "" {
		call.PageToken(pageToken)
	}

	resp, err := call.Do()
	if err != nil {
		err = fmt.Errorf("youtube.PlaylistsService.List: %w", err)
		return
	}

	page = &Page[Playlist]{
		Items:         make([]Playlist, 0, len(resp.Items)),
		NextPageToken: resp.NextPageToken,
	}
	for _, pl := range resp.Items {
		if pl == nil || pl.Id == "" {
			continue
		}

		playlist := Playlist{ID: pl.Id}
		if sn := pl.Snippet; sn != nil {
			playlist.Title = sn.Title
			playlist.Description = sn.Description
			playlist.ThumbnailURL = thumbnailURL(sn.Thumbnails)
		}

		page.Items = append(page.Items, playlist)
	}

	return
}

// thumbnailURL picks the largest available thumbnail.
func thumbnailURL(d *youtube.ThumbnailDetails) string {
	if d == nil {
		return ""
	}

	for _, t := range []*youtube.Thumbnail{d.Maxres, d.Standard, d.High, d.Medium, d.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}

	return ""
}
