package pipeline_test

import (
	"bytes"
	"iter"
	"log/slog"
	"slices"

	"github.com/q3log/q3log-go/pkg/q3log/event"
	"github.com/q3log/q3log-go/pkg/q3log/pipeline"
)

// feed numbers the events from 1 like a real feed would.
func feed(evs ...event.Event) iter.Seq[event.Event] {
	for i := range evs {
		evs[i].SequenceID = uint32(i + 1)
	}
	return slices.Values(evs)
}

func initGame() event.Event     { return event.Event{Type: event.InitGame} }
func exitGame() event.Event     { return event.Event{Type: event.Exit} }
func shutdownGame() event.Event { return event.Event{Type: event.ShutdownGame} }

func connect(id uint32) event.Event {
	return event.Event{Type: event.ClientConnect, ClientID: id}
}

func userinfo(id uint32, name string) event.Event {
	return event.Event{Type: event.ClientUserinfoChanged, ClientID: id, Name: name}
}

func disconnect(id uint32) event.Event {
	return event.Event{Type: event.ClientDisconnect, ClientID: id}
}

func kill(killerID, victimID uint32, killer, victim, reason string) event.Event {
	return event.Event{
		Type:       event.Kill,
		KillerID:   killerID,
		VictimID:   victimID,
		KillerName: killer,
		VictimName: victim,
		ReasonName: reason,
	}
}

func worldKill(victimID uint32, victim string) event.Event {
	return kill(1022, victimID, event.WorldName, victim, "MOD_TRIGGER_HURT")
}

func score(id uint32, name string, frags int32) event.Event {
	return event.Event{Type: event.Score, ClientID: id, Name: name, Frags: frags}
}

func feedError(msg string) event.Event {
	return event.Event{Type: event.Error, Message: msg}
}

// result is one item of a Summarize sequence.
type result struct {
	summary *pipeline.MatchSummary
	err     error
}

func collect(seq iter.Seq2[*pipeline.MatchSummary, error]) []result {
	var out []result
	for s, err := range seq {
		out = append(out, result{s, err})
	}
	return out
}

func run(cfg pipeline.Config, evs ...event.Event) []result {
	p, err := pipeline.Assemble(cfg)
	if err != nil {
		panic(err)
	}
	return collect(p.Run(feed(evs...)))
}

// kinds names every composite of cs: logic kind, violation kind or raw type.
func kinds(cs []pipeline.Composite) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		switch {
		case c.Logic != nil && c.Logic.Kind == pipeline.EventModelViolation:
			out[i] = c.Logic.Violation.Kind.String()
		case c.Logic != nil:
			out[i] = c.Logic.Kind.String()
		default:
			out[i] = string(c.Game.Type)
		}
	}
	return out
}

// bufLogger returns a logger writing text records to the returned buffer.
func bufLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}
