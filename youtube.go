package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/rubpy/crawly-youtube-catalogue/tree"
	"github.com/rubpy/crawly-youtube-catalogue/webindex"
)

//////////////////////////////////////////////////

func (cr *Crawler) ChannelID(channelURL string) (channelID string, ok bool) {
	return cr.loadChannelID(channelURL)
}

func (cr *Crawler) loadChannelID(channelURL string) (channelID string, ok bool) {
	return cr.channelIDCache.Load(channelURL)
}

func (cr *Crawler) storeChannelID(channelURL string, channelID string) {
	cr.channelIDCache.Store(channelURL, channelID)
}

func (cr *Crawler) canonicalHandle(handle Handle) Handle {
	if handle.Type == HandleChannelURL {
		if channelID, ok := cr.loadChannelID(handle.Value); ok {
			handle = ChannelID(channelID)
		}
	}

	return handle
}

func (cr *Crawler) IsTracked(handle Handle) bool {
	return cr.Crawler.IsTracked(cr.canonicalHandle(handle))
}

// Untrack stops tracking handle and forgets the channel's built tree.
func (cr *Crawler) Untrack(ctx context.Context, handle Handle) (tracked bool, err error) {
	handle = cr.canonicalHandle(handle)

	tracked, err = cr.Crawler.Untrack(ctx, handle)
	if err != nil {
		return
	}

	if handle.Type == HandleChannelID {
		cr.trees.Delete(handle.Value)
	}

	return
}

// Tree returns the most recently built tree of a tracked channel. The
// returned tree must not be modified.
func (cr *Crawler) Tree(handle Handle) (*tree.Node, bool) {
	handle = cr.canonicalHandle(handle)
	if handle.Type != HandleChannelID {
		return nil, false
	}

	return cr.trees.Load(handle.Value)
}

func (cr *Crawler) storeTree(channelID string, root *tree.Node) {
	cr.trees.Store(channelID, root)
}

//////////////////////////////////////////////////

// FetchChannelIndex downloads a channel page and extracts the channel ID from
// it.
func (cr *Crawler) FetchChannelIndex(ctx context.Context, channelURL string) (index *webindex.ChannelIndex, err error) {
	if channelURL == "" || !IsValidChannelURL(channelURL) {
		err = InvalidChannelURL
		return
	}

	if cr.client == nil {
		err = NilClient
		return
	}

	if ctx == nil {
		ctx = context.Background()
	} else {
		if err = ctx.Err(); err != nil {
			return
		}
	}

	u, err := url.Parse(channelURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set(nonceKey, generateNonce())
	u.RawQuery = q.Encode()

	resp, err := cr.client.Request(ctx, "GET", u.String(), nil, http.Header{
		"Cookie": {generateConsentCookie()},
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s", UnexpectedStatus, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	index, err = webindex.ParseChannelIndex(body)
	if err != nil {
		return nil, err
	}

	return index, nil
}

//////////////////////////////////////////////////

var (
	InvalidChannelID     = errors.New("invalid channel ID")
	InvalidChannelURL    = errors.New("invalid channel URL")
	UnexpectedStatus     = errors.New("unexpected HTTP status")
	ExceededBuildTimeout = errors.New("exceeded channel build timeout")
)

func IsValidChannelID(s string) bool  { return webindex.IsValidChannelID(s) }
func IsValidChannelURL(s string) bool { return isValidURL(s) }

func generateConsentCookie() string {
	return "SOCS=CAESEwgDEgk0ODE3Nzk3MjQaAmVuIAEaBgiA_LyaBg"
}
