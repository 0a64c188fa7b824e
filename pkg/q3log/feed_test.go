package q3log_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/q3log/q3log-go/pkg/q3log"
	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

const sampleLog = `  0:00 ------------------------------------------------------------
  0:00 InitGame: \sv_floodProtect\1\sv_maxPing\0\sv_hostname\Code Miner Server
 15:00 Exit: Timelimit hit.
 20:34 ClientConnect: 2
 20:34 ClientUserinfoChanged: 2 n\Isgalamido\t\0\model\xian/default\hmodel\xian/default
 20:37 ClientBegin: 2
 20:40 Item: 2 weapon_rocketlauncher
 22:06 Kill: 2 3 7: Isgalamido killed Mocinha by MOD_ROCKET_SPLASH
 22:11 this line is broken
 22:18 Kill: 1022 2 19: <world> killed Isgalamido by MOD_FALLING
 26:00 ShutdownGame:
`

func writeLog(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func collectEvents(t *testing.T, f *q3log.Feed) []q3log.Event {
	t.Helper()
	return slices.Collect(f.Events(context.Background()))
}

func TestOpenFeed_File(t *testing.T) {
	path := writeLog(t, t.TempDir(), "games.log", sampleLog)

	f, err := q3log.OpenFeed(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, path, f.Name())

	events := collectEvents(t, f)
	var types []q3log.EventType
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	assert.Equal(t, []q3log.EventType{
		q3log.EventInitGame,
		q3log.EventExit,
		q3log.EventClientConnect,
		q3log.EventClientUserinfoChanged,
		q3log.EventKill,
		q3log.EventError,
		q3log.EventKill,
		q3log.EventShutdownGame,
	}, types)

	for i, ev := range events {
		assert.Equal(t, uint32(i+1), ev.SequenceID, "event %d", i)
	}
	assert.Equal(t, 2, events[0].Line)
	assert.Equal(t, 8, events[4].Line)
	assert.Equal(t, "Isgalamido", events[3].Name)
}

func TestOpenFeed_ParseErrorInBand(t *testing.T) {
	path := writeLog(t, t.TempDir(), "games.log", sampleLog)

	f, err := q3log.OpenFeed(path, q3log.WithSourceName("games.log"))
	require.NoError(t, err)
	defer f.Close()

	events := collectEvents(t, f)
	bad := events[5]
	require.True(t, bad.IsErr())
	assert.Equal(t, 9, bad.Line)
	assert.True(t, strings.HasPrefix(bad.Message, "games.log:9: "), bad.Message)
}

func TestOpenFeed_NotFound(t *testing.T) {
	_, err := q3log.OpenFeed(filepath.Join(t.TempDir(), "missing.log"))
	require.Error(t, err)
	assert.ErrorIs(t, err, q3log.ErrFeedNotFound)

	var feedErr *q3log.FeedError
	require.ErrorAs(t, err, &feedErr)
	assert.Equal(t, q3log.FeedOpOpen, feedErr.Op)
}

func TestOpenFeed_EmptyDirectory(t *testing.T) {
	_, err := q3log.OpenFeed(t.TempDir())
	assert.ErrorIs(t, err, q3log.ErrFeedNotFound)
}

func TestOpenFeed_DirectoryPicksLatest(t *testing.T) {
	dir := t.TempDir()
	old := writeLog(t, dir, "old.log", "  0:00 InitGame:\n")
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	latest := writeLog(t, dir, "new.log", "  0:00 ShutdownGame:\n")

	f, err := q3log.OpenFeed(dir)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, latest, f.Name())

	events := collectEvents(t, f)
	require.Len(t, events, 1)
	assert.Equal(t, q3log.EventShutdownGame, events[0].Type)
}

func TestOpenFeed_InvalidOptions(t *testing.T) {
	path := writeLog(t, t.TempDir(), "games.log", "")

	_, err := q3log.OpenFeed(path, q3log.WithPollInterval(0))
	assert.ErrorContains(t, err, "poll interval")

	_, err = q3log.OpenFeed(path, q3log.WithMaxLineBytes(-1))
	assert.ErrorContains(t, err, "maxLineBytes")
}

func TestOpenFeed_FollowStdin(t *testing.T) {
	_, err := q3log.OpenFeed("-", q3log.WithFollow(true))
	assert.ErrorIs(t, err, q3log.ErrFollowNeedsFile)

	_, err = q3log.NewFeed(strings.NewReader(""), q3log.WithFollow(true))
	assert.ErrorIs(t, err, q3log.ErrFollowNeedsFile)
}

func TestOpenFeed_Stdin(t *testing.T) {
	f, err := q3log.OpenFeed("-")
	require.NoError(t, err)
	assert.Equal(t, q3log.StdinName, f.Name())
	assert.NoError(t, f.Close())
}

func TestNewFeed(t *testing.T) {
	f, err := q3log.NewFeed(strings.NewReader(sampleLog), q3log.WithIncludeRawLine(true))
	require.NoError(t, err)

	events := collectEvents(t, f)
	require.Len(t, events, 8)
	assert.Equal(t, " 26:00 ShutdownGame:", events[7].RawLine)
	assert.True(t, strings.HasPrefix(events[5].Message, "<stream>:9: "), events[5].Message)
}

func TestFeed_SingleUse(t *testing.T) {
	f, err := q3log.NewFeed(strings.NewReader(sampleLog))
	require.NoError(t, err)

	first := collectEvents(t, f)
	assert.Len(t, first, 8)

	second := collectEvents(t, f)
	require.Len(t, second, 1)
	assert.True(t, second[0].IsErr())
	assert.Contains(t, second[0].Message, q3log.ErrFeedConsumed.Error())
}

func TestFeed_Closed(t *testing.T) {
	f, err := q3log.NewFeed(strings.NewReader(sampleLog))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, f.Close())

	events := collectEvents(t, f)
	require.Len(t, events, 1)
	assert.Contains(t, events[0].Message, q3log.ErrFeedClosed.Error())
}

func TestFeed_EarlyStop(t *testing.T) {
	f, err := q3log.NewFeed(strings.NewReader(sampleLog))
	require.NoError(t, err)

	var got []q3log.Event
	for ev := range f.Events(context.Background()) {
		got = append(got, ev)
		if len(got) == 2 {
			break
		}
	}
	assert.Len(t, got, 2)
}

func TestFeed_LineTooLong(t *testing.T) {
	content := "  0:00 InitGame:\n" +
		"  0:01 say: " + strings.Repeat("x", 200) + "\n" +
		"  0:02 Kill: 1022 2 22: <world> killed Isgalamido by MOD_TRIGGER_HURT\n" +
		"  0:03 ShutdownGame:\n"
	f, err := q3log.NewFeed(strings.NewReader(content), q3log.WithMaxLineBytes(128))
	require.NoError(t, err)

	events := collectEvents(t, f)
	require.Len(t, events, 4)
	assert.Equal(t, q3log.EventInitGame, events[0].Type)
	assert.True(t, events[1].IsErr())
	assert.Equal(t, 2, events[1].Line)
	assert.Contains(t, events[1].Message, "read <stream>")
	assert.Contains(t, events[1].Message, q3log.ErrLineTooLong.Error())
	assert.Equal(t, q3log.EventKill, events[2].Type)
	assert.Equal(t, 3, events[2].Line)
	assert.Equal(t, q3log.EventShutdownGame, events[3].Type)
	for i, ev := range events {
		assert.Equal(t, uint32(i+1), ev.SequenceID)
	}
}

func TestFeed_LineTooLongKeepsMatch(t *testing.T) {
	content := "  0:00 InitGame:\n" +
		"  0:01 say: " + strings.Repeat("x", 200) + "\n" +
		"  0:02 Kill: 1022 2 22: <world> killed Isgalamido by MOD_TRIGGER_HURT\n" +
		"  0:03 ShutdownGame:\n"
	f, err := q3log.NewFeed(strings.NewReader(content), q3log.WithMaxLineBytes(128))
	require.NoError(t, err)

	p, err := pipeline.Assemble(pipeline.Config{})
	require.NoError(t, err)

	var summaries []*pipeline.MatchSummary
	for s, err := range p.Run(f.Events(context.Background())) {
		require.NoError(t, err)
		summaries = append(summaries, s)
	}
	require.Len(t, summaries, 1)
	assert.Equal(t, uint32(1), summaries[0].TotalKills)
	assert.Equal(t, map[string]int{"Isgalamido": -1}, summaries[0].Kills)
}

func TestFeed_LineTooLongAtEnd(t *testing.T) {
	content := "  0:00 InitGame:\n  0:01 say: " + strings.Repeat("x", 200)
	f, err := q3log.NewFeed(strings.NewReader(content), q3log.WithMaxLineBytes(128))
	require.NoError(t, err)

	events := collectEvents(t, f)
	require.Len(t, events, 2)
	assert.Equal(t, q3log.EventInitGame, events[0].Type)
	assert.True(t, events[1].IsErr())
}

func TestFeed_LastLineWithoutNewline(t *testing.T) {
	f, err := q3log.NewFeed(strings.NewReader("  0:00 InitGame:\r\n  0:01 ShutdownGame:"))
	require.NoError(t, err)

	events := collectEvents(t, f)
	require.Len(t, events, 2)
	assert.Equal(t, q3log.EventInitGame, events[0].Type)
	assert.Equal(t, q3log.EventShutdownGame, events[1].Type)
}

func TestFeed_CustomParserFirst(t *testing.T) {
	custom := q3log.ParserFunc(func(ctx context.Context, line string) (q3log.ParseResult, error) {
		if !strings.Contains(line, "FragLimitWarning") {
			return q3log.ParseResult{}, nil
		}
		return q3log.ParseResult{Events: []q3log.Event{{Type: q3log.EventExit}}, Matched: true}, nil
	})

	content := "  0:00 InitGame:\n  5:00 FragLimitWarning: 1\n  5:01 ShutdownGame:\n"
	f, err := q3log.NewFeed(strings.NewReader(content), q3log.WithParsers(custom, q3log.DefaultParser{}))
	require.NoError(t, err)

	events := collectEvents(t, f)
	require.Len(t, events, 3)
	assert.Equal(t, q3log.EventExit, events[1].Type)
	assert.Equal(t, 2, events[1].Line)
}

func TestFeed_Follow(t *testing.T) {
	path := writeLog(t, t.TempDir(), "games.log", "  0:00 InitGame:\n")

	f, err := q3log.OpenFeed(path,
		q3log.WithFollow(true),
		q3log.WithFromStart(true),
		q3log.WithPolling(true),
	)
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var got []q3log.Event
	for ev := range f.Events(ctx) {
		got = append(got, ev)
		if len(got) == 1 {
			fh, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0644)
			require.NoError(t, err)
			_, err = fh.WriteString("  0:10 ShutdownGame:\n")
			require.NoError(t, err)
			require.NoError(t, fh.Close())
		}
		if len(got) == 2 {
			break
		}
	}

	require.Len(t, got, 2)
	assert.Equal(t, q3log.EventInitGame, got[0].Type)
	assert.Equal(t, q3log.EventShutdownGame, got[1].Type)
	assert.Equal(t, uint32(2), got[1].SequenceID)
}

func TestFeed_FollowStopsOnCancel(t *testing.T) {
	path := writeLog(t, t.TempDir(), "games.log", "")

	f, err := q3log.OpenFeed(path, q3log.WithFollow(true), q3log.WithPolling(true))
	require.NoError(t, err)
	defer f.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for range f.Events(ctx) {
		}
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("follow feed did not stop after cancel")
	}
}

func TestParseError(t *testing.T) {
	inner := errors.New("unrecognized line format")
	err := &q3log.ParseError{Source: "games.log", Line: 3, Text: "junk", Err: inner}
	assert.Equal(t, "games.log:3: unrecognized line format", err.Error())
	assert.ErrorIs(t, err, inner)
}
