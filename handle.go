package youtube

import (
	"errors"
	"strconv"
	"strings"

	"github.com/rubpy/crawly"
)

//////////////////////////////////////////////////

type Handle struct {
	Type  HandleType
	Value string
}

func (h Handle) Valid() bool {
	return h.Type != 0 && h.Value != ""
}

func (h Handle) Equal(handle crawly.Handle) bool {
	if hh, ok := handle.(Handle); ok {
		return hh.Type == h.Type && hh.Value == h.Value
	}

	return false
}

func (h Handle) String() string {
	var s strings.Builder
	s.WriteRune('{')
	s.WriteString(h.Type.String())
	s.WriteString(":")
	s.WriteString(strconv.Quote(h.Value))
	s.WriteRune('}')

	return s.String()
}

type HandleType uint

const (
	HandleChannelID HandleType = (iota + 1)
	HandleChannelURL
)

func (ht HandleType) String() string {
	switch ht {
	case HandleChannelID:
		return "ChannelID"
	case HandleChannelURL:
		return "ChannelURL"
	}

	return ""
}

//////////////////////////////////////////////////

func ChannelID(channelID string) Handle {
	return Handle{HandleChannelID, channelID}
}

func ChannelURL(channelURL string) Handle {
	return Handle{HandleChannelURL, channelURL}
}

var UnrecognizedHandle = errors.New("unrecognized channel handle")

// ParseHandle accepts a channel ID ("UC..."), a channel URL, or an
// "@handle", which is expanded to its channel URL.
func ParseHandle(s string) (Handle, error) {
	s = strings.TrimSpace(s)

	switch {
	case s == "":
		return Handle{}, UnrecognizedHandle

	case strings.HasPrefix(s, "@"):
		if len(s) < 2 || strings.ContainsAny(s, "/?# ") {
			return Handle{}, UnrecognizedHandle
		}

		return ChannelURL("https://www.youtube.com/" + s), nil

	case IsValidChannelURL(s):
		return ChannelURL(s), nil

	case IsValidChannelID(s):
		return ChannelID(s), nil
	}

	return Handle{}, UnrecognizedHandle
}
