// Package q3log reads Quake 3 Arena server logs (games.log) as a feed of
// raw events.
//
// This package allows you to:
//   - Parse server log lines into structured events
//   - Read a whole log, or standard input, as a lazy event sequence
//   - Follow a live server log as it grows
//   - Recognise lines of modded servers via YAML patterns
//
// The events are meant to be handed to the pipeline subpackage, which folds
// them into per-match summaries.
//
// # Basic Usage
//
//	feed, err := q3log.OpenFeed("games.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer feed.Close()
//
//	for ev := range feed.Events(ctx) {
//	    if ev.IsErr() {
//	        log.Printf("skipping: %s", ev.Message)
//	        continue
//	    }
//	    fmt.Println(ev.SequenceID, ev.Type)
//	}
//
// Errors met while reading are not fatal: they arrive in-band, as events of
// type EventError, so that consumers decide whether to stop.
//
// To follow a running server:
//
//	feed, err := q3log.OpenFeed("/srv/q3/baseq3",
//	    q3log.WithFollow(true),
//	    q3log.WithFromStart(true),
//	)
//
// # Custom Parsers
//
// Implement the [Parser] interface, or load YAML patterns with the
// [pattern] subpackage, and put them in front of [DefaultParser]:
//
//	custom, err := pattern.NewRegexParserFromFile("patterns.yaml")
//	feed, err := q3log.OpenFeed("games.log",
//	    q3log.WithParsers(custom, q3log.DefaultParser{}),
//	)
package q3log
