// Package tree holds the content tree assembled from a channel's catalogue:
// a channel root, topic nodes (one per playlist) and video leaves.
package tree

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

//////////////////////////////////////////////////

type Kind uint

const (
	KindChannel Kind = (iota + 1)
	KindTopic
	KindVideo
)

func (k Kind) String() string {
	switch k {
	case KindChannel:
		return "channel"
	case KindTopic:
		return "topic"
	case KindVideo:
		return "video"
	}

	return ""
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

//////////////////////////////////////////////////

type Node struct {
	Kind     Kind   `json:"kind"`
	ID       string `json:"id"`
	SourceID string `json:"source_id"`
	Domain   string `json:"domain,omitempty"` // (channel only)

	Title        string `json:"title"`
	Description  string `json:"description,omitempty"`
	Language     string `json:"language,omitempty"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`

	Children []*Node `json:"children,omitempty"`
}

// NewChannel returns an empty channel root whose ID is derived from the
// source domain and source ID, so rebuilding the same channel yields the same
// node IDs.
func NewChannel(domain string, sourceID string) *Node {
	return &Node{
		Kind:     KindChannel,
		ID:       ChannelID(domain, sourceID),
		SourceID: sourceID,
		Domain:   domain,
	}
}

func NewTopic(sourceID string, title string) *Node {
	return &Node{
		Kind:     KindTopic,
		SourceID: sourceID,
		Title:    title,
	}
}

func NewVideo(videoID string, title string) *Node {
	return &Node{
		Kind:     KindVideo,
		SourceID: videoID,
		Title:    title,
		URL:      "https://www.youtube.com/watch?v=" + videoID,
	}
}

// Add appends child to n and derives the child's ID from n's ID. Returns
// child.
func (n *Node) Add(child *Node) *Node {
	if n == nil || child == nil {
		return child
	}

	assignIDs(n.ID, child)

	n.Children = append(n.Children, child)
	return child
}

func assignIDs(parentID string, n *Node) {
	n.ID = ChildID(parentID, n.SourceID)
	for _, c := range n.Children {
		if c != nil {
			assignIDs(n.ID, c)
		}
	}
}

// Walk visits n and its descendants depth-first, pre-order. Returning false
// from fn skips the node's children.
func (n *Node) Walk(fn func(node *Node, depth int) bool) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(node *Node, depth int) bool, depth int) {
	if n == nil {
		return
	}

	if !fn(n, depth) {
		return
	}

	for _, c := range n.Children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of descendants of n with the given kind.
func (n *Node) Count(kind Kind) (count int) {
	n.Walk(func(node *Node, depth int) bool {
		if depth > 0 && node.Kind == kind {
			count++
		}

		return true
	})

	return
}

func (n *Node) String() string {
	if n == nil {
		return "{Node:nil}"
	}

	var s strings.Builder
	s.WriteString("{Node:[kind:")
	s.WriteString(n.Kind.String())
	s.WriteString(", sourceID:")
	s.WriteString(strconv.Quote(n.SourceID))
	s.WriteString(", title:")
	s.WriteString(strconv.Quote(n.Title))
	s.WriteString(", children:")
	s.WriteString(strconv.Itoa(len(n.Children)))
	s.WriteString("]}")

	return s.String()
}

//////////////////////////////////////////////////

// ChannelID is uuid5(uuid5(DNS, domain), sourceID), hex-encoded without
// dashes.
func ChannelID(domain string, sourceID string) string {
	ns := uuid.NewSHA1(uuid.NameSpaceDNS, []byte(domain))
	return hexID(uuid.NewSHA1(ns, []byte(sourceID)))
}

// ChildID is uuid5(parent, sourceID). An unparsable parent ID is treated as
// the nil UUID.
func ChildID(parentID string, sourceID string) string {
	parent, err := uuid.Parse(parentID)
	if err != nil {
		parent = uuid.Nil
	}

	return hexID(uuid.NewSHA1(parent, []byte(sourceID)))
}

func hexID(u uuid.UUID) string {
	return strings.ReplaceAll(u.String(), "-", "")
}
