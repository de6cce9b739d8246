/*
 * Iptv-Addon is a self-hosted Stremio addon that aggregates Xtream-Codes
 * and M3U IPTV catalogs.
 * Copyright (C) 2026  Stremify
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stremify/iptv-addon/pkg/xtream"
)

type fakeSource struct {
	info  *xtream.SeriesInfo
	err   error
	calls int
}

func (f *fakeSource) SeriesInfo(ctx context.Context, seriesID string) (*xtream.SeriesInfo, error) {
	f.calls++
	return f.info, f.err
}

func (f *fakeSource) EpisodeStreamURL(episodeID, containerExtension string) string {
	if containerExtension == "" {
		containerExtension = "mp4"
	}
	return fmt.Sprintf("http://panel/series/u/p/%s.%s", episodeID, containerExtension)
}

func (f *fakeSource) EpisodeFallbackURL(seriesID string, season, episode int) string {
	return fmt.Sprintf("http://panel/series/u/p/%s/%d/%d.mp4", seriesID, season, episode)
}

func testSnapshot() *Snapshot {
	return NewSnapshot(
		[]Item{
			{ID: "live_1", Name: "Zeta News", Kind: KindTV, Category: "News", URL: "http://panel/live/u/p/1.m3u8"},
			{ID: "live_2", Name: "Alpha Sports", Kind: KindTV, Category: "Sports", URL: "http://panel/live/u/p/2.m3u8"},
			{ID: "live_3", Name: "Beta News", Kind: KindTV, Category: "News", URL: "http://panel/live/u/p/3.m3u8"},
		},
		[]Item{
			{ID: "vod_10", Name: "Heat", Kind: KindMovie, Category: "Action", URL: "http://panel/movie/u/p/10.mp4", Plot: "A heist crew", Year: 1995},
		},
		[]Item{
			{ID: "series_5", Name: "Dark", Kind: KindSeries, Category: "Sci-Fi", URL: "http://panel/series/u/p/5"},
		},
	)
}

func TestQueryFiltersAndSorts(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	all := e.Query(KindTV, "", "")
	require.Len(t, all, 3)
	// (category, name) ordering: News/Beta, News/Zeta, Sports/Alpha
	assert.Equal(t, []string{"live_3", "live_1", "live_2"}, []string{all[0].ID, all[1].ID, all[2].ID})

	news := e.Query(KindTV, "News", "")
	require.Len(t, news, 2)

	allPrefix := e.Query(KindTV, "All Channels", "")
	assert.Len(t, allPrefix, 3, `"All…" filters match everything`)

	search := e.Query(KindTV, "", "beta")
	require.Len(t, search, 1)
	assert.Equal(t, "live_3", search[0].ID)

	byCategory := e.Query(KindTV, "", "sports")
	require.Len(t, byCategory, 1, "search also matches the category")
	assert.Equal(t, "live_2", byCategory[0].ID)
}

func TestQueryDeterminism(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	first := e.Query(KindTV, "News", "")
	second := e.Query(KindTV, "News", "")
	assert.Equal(t, first, second)
}

func TestBuildMetaLiveChannel(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	meta := e.BuildMeta(Item{ID: "live_1", Name: "CNN Int", Kind: KindTV, Category: "News"})
	assert.Equal(t, "📺 Live Channel: CNN Int", meta.Description)
	assert.Contains(t, meta.Poster, "via.placeholder.com/300x400")
	assert.Contains(t, meta.Poster, "CNN")
	assert.Equal(t, []string{"News"}, meta.Genres)

	withLogo := e.BuildMeta(Item{Kind: KindTV, Name: "X", Poster: "http://logo/x.png"})
	assert.Equal(t, "http://logo/x.png", withLogo.Poster)
}

func TestBuildMetaMovieAndSeries(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	movie := e.BuildMeta(Item{ID: "vod_10", Name: "Heat", Kind: KindMovie, Plot: "A heist crew", Year: 1995})
	assert.Equal(t, "A heist crew", movie.Description)
	assert.Equal(t, 1995, movie.Year)

	noPlot := e.BuildMeta(Item{ID: "vod_11", Name: "Quiet", Kind: KindMovie})
	assert.Equal(t, "Movie: Quiet", noPlot.Description)
	assert.Contains(t, noPlot.Poster, "via.placeholder.com/300x450")

	series := e.BuildMeta(Item{ID: "series_5", Name: "Dark", Kind: KindSeries})
	assert.Equal(t, "TV Show: Dark", series.Description)
}

func TestResolveStreamDirectItem(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	stream, ok := e.ResolveStream(context.Background(), "vod_10")
	require.True(t, ok)
	assert.Equal(t, "http://panel/movie/u/p/10.mp4", stream.URL)
	assert.Equal(t, "Heat", stream.Title)
	require.NotNil(t, stream.BehaviorHints)
	assert.True(t, stream.BehaviorHints.NotWebReady)
}

func TestResolveStreamUnknownIDIsAbsent(t *testing.T) {
	e := NewEngine(testSnapshot(), nil)

	_, ok := e.ResolveStream(context.Background(), "vod_9999")
	assert.False(t, ok)

	_, ok = e.ResolveStream(context.Background(), "series_9999:1:1")
	assert.False(t, ok, "episode of an unknown series is absent")
}

func TestResolveStreamEpisodeFromSeriesInfo(t *testing.T) {
	source := &fakeSource{info: &xtream.SeriesInfo{Episodes: map[string][]xtream.EpisodeRecord{
		"2": {{ID: "777", EpisodeNum: 3, ContainerExtension: "mkv"}},
	}}}
	e := NewEngine(testSnapshot(), source)

	stream, ok := e.ResolveStream(context.Background(), "series_5:2:3")
	require.True(t, ok)
	assert.Equal(t, "http://panel/series/u/p/777.mkv", stream.URL)
	assert.Equal(t, "Dark - S2E3", stream.Title)
}

func TestResolveStreamEpisodeFallsBackOnProviderFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("panel down")}
	e := NewEngine(testSnapshot(), source)

	stream, ok := e.ResolveStream(context.Background(), "series_5:2:3")
	require.True(t, ok, "provider failure must not surface as absent")
	assert.Equal(t, "http://panel/series/u/p/5/2/3.mp4", stream.URL)
}

func TestResolveStreamEpisodeMissingFromListing(t *testing.T) {
	source := &fakeSource{info: &xtream.SeriesInfo{Episodes: map[string][]xtream.EpisodeRecord{}}}
	e := NewEngine(testSnapshot(), source)

	stream, ok := e.ResolveStream(context.Background(), "series_5:4:9")
	require.True(t, ok)
	assert.Equal(t, "http://panel/series/u/p/5/4/9.mp4", stream.URL)
}

func TestResolveEpisodesSortsBySeasonThenEpisode(t *testing.T) {
	source := &fakeSource{info: &xtream.SeriesInfo{Episodes: map[string][]xtream.EpisodeRecord{
		"2": {{ID: "c", EpisodeNum: 1}},
		"1": {{ID: "a", EpisodeNum: 5}, {ID: "b", EpisodeNum: 2}},
	}}}
	e := NewEngine(testSnapshot(), source)

	videos := e.ResolveEpisodes(context.Background(), Item{ID: "series_5", Name: "Dark", Kind: KindSeries})
	require.Len(t, videos, 3)

	got := make([][2]int, 0, 3)
	for _, v := range videos {
		got = append(got, [2]int{v.Season, v.Episode})
	}
	assert.Equal(t, [][2]int{{1, 2}, {1, 5}, {2, 1}}, got)
	assert.Equal(t, "series_5:1:2", videos[0].ID)
}

func TestResolveEpisodesPlaceholderOnFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("panel down")}
	e := NewEngine(testSnapshot(), source)

	videos := e.ResolveEpisodes(context.Background(), Item{ID: "series_5", Name: "Dark", Kind: KindSeries})
	require.Len(t, videos, 1)
	assert.Equal(t, "series_5:1:1", videos[0].ID)
	assert.Equal(t, "Episode 1", videos[0].Title)
}

func TestResolveEpisodesPlaceholderOnEmptyListing(t *testing.T) {
	source := &fakeSource{info: &xtream.SeriesInfo{Episodes: map[string][]xtream.EpisodeRecord{}}}
	e := NewEngine(testSnapshot(), source)

	videos := e.ResolveEpisodes(context.Background(), Item{ID: "series_5", Name: "Dark", Kind: KindSeries})
	require.Len(t, videos, 1)
	assert.Equal(t, 1, videos[0].Season)
}

func TestSnapshotFind(t *testing.T) {
	s := testSnapshot()

	item, ok := s.Find("series_5")
	require.True(t, ok)
	assert.Equal(t, "Dark", item.Name)

	_, ok = s.Find("nope")
	assert.False(t, ok)

	assert.Equal(t, 5, s.Len())
	assert.Equal(t, []string{"News", "Sports"}, s.Categories[KindTV])
}
