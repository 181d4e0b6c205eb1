package catalogue

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChannelID = "UCIGQCJIF4fdTrqxnvcwTYxg"

func TestVideosPaginates(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, fakeItems(107))

	var opened int
	e := &Enumerator{Opener: fakeOpener(cat, &opened)}

	ids, err := e.Videos(context.Background(), testChannelID, "key")
	require.NoError(t, err)

	require.Len(t, ids, 107)
	for i, id := range ids {
		assert.Equal(t, fakeItems(107)[i].VideoID, id)
	}
	assert.Equal(t, 1, opened)
	assert.Equal(t, 1, cat.channelCalls)
	assert.Equal(t, 3, cat.itemCalls)
	assert.Equal(t, []int64{50, 50, 50}, cat.pageSizes)
}

func TestVideosMissingCredential(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, fakeItems(3))

	var opened int
	e := &Enumerator{Opener: fakeOpener(cat, &opened)}

	ids, err := e.Videos(context.Background(), testChannelID, "")
	require.ErrorIs(t, err, MissingCredential)
	assert.Nil(t, ids)
	assert.Zero(t, opened)
	assert.Zero(t, cat.channelCalls)
	assert.Zero(t, cat.itemCalls)
}

func TestVideosChannelNotFound(t *testing.T) {
	cat := newFakeCatalogue()

	e := &Enumerator{Opener: fakeOpener(cat, new(int))}

	ids, err := e.Videos(context.Background(), testChannelID, "key")
	require.ErrorIs(t, err, ChannelNotFound)
	assert.Nil(t, ids)
	assert.Zero(t, cat.itemCalls)
}

func TestVideosTransportErrorPropagates(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, fakeItems(120))
	cat.failPage = 1
	cat.failErr = errors.New("connection reset")

	e := &Enumerator{Opener: fakeOpener(cat, new(int))}

	ids, err := e.Videos(context.Background(), testChannelID, "key")
	require.ErrorIs(t, err, cat.failErr)
	assert.Nil(t, ids)
	assert.Equal(t, 2, cat.itemCalls)
}

func TestVideosEmptyChannel(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, nil)

	e := &Enumerator{Opener: fakeOpener(cat, new(int))}

	ids, err := e.Videos(context.Background(), testChannelID, "key")
	require.NoError(t, err)
	assert.NotNil(t, ids)
	assert.Empty(t, ids)
	assert.Equal(t, 1, cat.itemCalls)
}

func TestVideosCanceledContext(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, fakeItems(10))

	e := &Enumerator{Opener: fakeOpener(cat, new(int))}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ids, err := e.Videos(ctx, testChannelID, "key")
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, ids)
	assert.Zero(t, cat.itemCalls)
}

func TestPagesRestartable(t *testing.T) {
	cat := newFakeCatalogue()
	cat.addChannel(testChannelID, fakeItems(30))

	e := &Enumerator{Opener: fakeOpener(cat, new(int)), PageSize: 10}
	seq := e.Pages(context.Background(), testChannelID, "key")

	// Stop after the first page.
	for page, err := range seq {
		require.NoError(t, err)
		require.Len(t, page, 10)
		break
	}
	assert.Equal(t, 1, cat.itemCalls)

	var total int
	for page, err := range seq {
		require.NoError(t, err)
		total += len(page)
	}
	assert.Equal(t, 30, total)
	assert.Equal(t, 1+3, cat.itemCalls)
}

func TestPageSizeClamped(t *testing.T) {
	tests := []struct {
		in   int64
		want int64
	}{
		{0, 50},
		{-1, 50},
		{10, 10},
		{50, 50},
		{500, 50},
	}

	for _, tt := range tests {
		e := &Enumerator{PageSize: tt.in}
		assert.Equal(t, tt.want, e.pageSize(), "PageSize %d", tt.in)
	}

	var e *Enumerator
	assert.Equal(t, MaxPageSize, e.pageSize())
}

func TestItemsDropsDuplicates(t *testing.T) {
	cat := newFakeCatalogue()
	items := fakeItems(3)
	cat.items["PL1"] = append(items, items[1])

	e := &Enumerator{PageSize: 2}
	got, err := e.Items(context.Background(), cat, "PL1")
	require.NoError(t, err)
	assert.Equal(t, items, got)
	assert.Equal(t, 2, cat.itemCalls)
}

func TestPlaylists(t *testing.T) {
	cat := newFakeCatalogue()
	cat.playlists[testChannelID] = []Playlist{
		{ID: "PL1", Title: "Episode 1"},
		{ID: "PL2", Title: "Episode 2"},
		{ID: "PL3", Title: "Episode 3"},
	}

	e := &Enumerator{PageSize: 2}
	got, err := e.Playlists(context.Background(), cat, testChannelID)
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, 2, cat.playlistCalls)
}

type loopingCatalogue struct{ fakeCatalogue }

func (l *loopingCatalogue) PlaylistItems(ctx context.Context, playlistID string, pageSize int64, pageToken string) (*Page[Item], error) {
	l.itemCalls++
	return &Page[Item]{Items: fakeItems(1), NextPageToken: "again"}, nil
}

func TestRepeatedPageToken(t *testing.T) {
	cat := &loopingCatalogue{}

	e := &Enumerator{}
	_, err := e.Items(context.Background(), cat, "PL1")
	require.ErrorIs(t, err, RepeatedPageToken)
	assert.Equal(t, 2, cat.itemCalls)
}

func TestOpenNilCatalogue(t *testing.T) {
	e := &Enumerator{Opener: func(ctx context.Context, credential string) (Catalogue, error) {
		return nil, nil
	}}

	_, err := e.Open(context.Background(), "key")
	assert.ErrorIs(t, err, NilCatalogue)
}

func TestLookupChannel(t *testing.T) {
	cat := newFakeCatalogue()
	cat.channels[testChannelID] = &Channel{ID: testChannelID}

	_, err := LookupChannel(context.Background(), cat, testChannelID)
	assert.ErrorIs(t, err, ChannelNotFound)

	_, err = LookupChannel(context.Background(), cat, "")
	assert.ErrorIs(t, err, MissingChannelID)

	_, err = LookupChannel(context.Background(), nil, testChannelID)
	assert.ErrorIs(t, err, NilCatalogue)
}
