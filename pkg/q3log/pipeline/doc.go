// Package pipeline turns a feed of raw Quake 3 server events into per-match
// summaries.
//
// Raw events flow through a fixed chain of stages, each one a lazy
// transformation over an iter.Seq of Composite events:
//
//	Lifecycle -> [MeansOfDeath] -> Kills -> [PlayerIdentity] -> [ReportedScores] -> Summarizer
//
// Bracketed stages are optional and selected once, at assembly time, from
// Config.Analyses. Only the combinations listed by SupportedAnalyses are
// accepted; anything else fails in Assemble before a single event is read.
//
// Every stage privately owns its accumulator (lifecycle flags, player
// identity table, open summary) and no stage references another. Nothing is
// buffered beyond the item being processed, so memory stays proportional to
// the active match whatever the feed size.
//
// Inconsistencies in the event grammar travel as values: stages emit
// EventModelViolation logic events and the Summarizer turns them into
// per-item errors. Callers decide whether to stop on the first one.
//
// # Basic Usage
//
//	p, err := pipeline.Assemble(pipeline.Config{
//	    Analyses: pipeline.Extended,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for summary, err := range p.Run(events) {
//	    if err != nil {
//	        log.Printf("skipping match: %v", err)
//	        continue
//	    }
//	    fmt.Println(summary.TotalKills)
//	}
package pipeline
