// Package webindex extracts channel identifiers from YouTube web pages.
package webindex

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

//////////////////////////////////////////////////

type ChannelIndex struct {
	ChannelID string
	Title     string
}

func (res ChannelIndex) String() string {
	var s strings.Builder

	s.WriteString("{ChannelIndex:[channelID:")
	s.WriteString(strconv.Quote(res.ChannelID))
	s.WriteString(", title:")
	s.WriteString(strconv.Quote(res.Title))
	s.WriteString("]}")

	return s.String()
}

var (
	EmptyDocument    = errors.New("document is empty")
	ChannelIDMissing = errors.New("no channel ID in document")
)

// ParseChannelIndex scans the <link> and <meta> tags of a channel page for
// the canonical channel URL or the channel's RSS feed link.
func ParseChannelIndex(b []byte) (*ChannelIndex, error) {
	if len(b) == 0 {
		return nil, EmptyDocument
	}

	index := &ChannelIndex{}

	z := html.NewTokenizer(bytes.NewReader(b))
	for index.ChannelID == "" {
		tt := z.Next()
		if tt == html.ErrorToken {
			if err := z.Err(); err != nil && err != io.EOF {
				return nil, err
			}

			break
		}

		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}

		name, hasAttr := z.TagName()
		if !hasAttr {
			continue
		}

		attrs := readAttrs(z)
		switch atom.Lookup(name) {
		case atom.Link:
			index.ChannelID = channelIDFromLink(attrs)

		case atom.Meta:
			if attrs["property"] == "og:title" && index.Title == "" {
				index.Title = attrs["content"]
			}
			if attrs["itemprop"] == "channelid" || attrs["itemprop"] == "identifier" {
				if IsValidChannelID(attrs["content"]) {
					index.ChannelID = attrs["content"]
				}
			}
		}
	}

	if index.ChannelID == "" {
		return nil, ChannelIDMissing
	}

	return index, nil
}

func readAttrs(z *html.Tokenizer) map[string]string {
	attrs := make(map[string]string)
	for {
		k, v, more := z.TagAttr()

		key := strings.ToLower(string(k))
		switch key {
		case "rel", "itemprop", "type", "property":
			attrs[key] = strings.ToLower(strings.TrimSpace(string(v)))
		default:
			attrs[key] = strings.TrimSpace(string(v))
		}

		if !more {
			break
		}
	}

	return attrs
}

func channelIDFromLink(attrs map[string]string) string {
	href := attrs["href"]
	if href == "" {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	switch {
	case attrs["rel"] == "canonical" || attrs["itemprop"] == "url":
		segments := strings.Split(strings.Trim(u.Path, "/"), "/")
		for i := 0; i+1 < len(segments); i++ {
			if segments[i] == "channel" && IsValidChannelID(segments[i+1]) {
				return segments[i+1]
			}
		}

	case attrs["rel"] == "alternate" && strings.Contains(attrs["type"], "rss"):
		if id := u.Query().Get("channel_id"); IsValidChannelID(id) {
			return id
		}
	}

	return ""
}
