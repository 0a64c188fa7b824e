package parser

import "regexp"

// Compiled regex patterns for line and event detection.
var (
	// Matches: "  0:37 Kill: 1022 2 22: <world> killed Isgalamido by MOD_TRIGGER_HURT"
	// Minutes may be unpadded or exceed two digits ("980:37").
	// Captures: (1) time, (2) event name and data
	linePattern = regexp.MustCompile(`^\s*(\d+:\d{2})\s+(.*)$`)

	// Matches: "2 n\Isgalamido\t\0\model\xian/default..."
	// Captures: (1) client id, (2) backslash separated key/value info
	userinfoPattern = regexp.MustCompile(`^(\d+)\s+(.*)$`)

	// Matches: "1022 2 22: <world> killed Isgalamido by MOD_TRIGGER_HURT"
	// The killer ends at the first " killed ", the victim at the last " by ".
	// Captures: (1) killer id, (2) victim id, (3) reason id,
	// (4) killer name, (5) victim name, (6) reason name
	killPattern = regexp.MustCompile(`^(\d+) (\d+) (\d+): (.*?) killed (.*) by (.*)$`)

	// Matches: "20  ping: 4  client: 4 Zeh"
	// Captures: (1) frags, (2) client id, (3) name
	scorePattern = regexp.MustCompile(`^(-?\d+)\s+ping:\s*-?\d+\s+client:\s*(\d+)\s+(.*)$`)

	// Matches: "8  blue:6"
	redBluePattern = regexp.MustCompile(`^\d+\s+blue:\s*\d+$`)
)

// ignoredEvents are recognized server events that carry nothing the
// summaries need.
var ignoredEvents = map[string]bool{
	"ClientBegin": true,
	"Item":        true,
	"say":         true,
	"sayteam":     true,
	"tell":        true,
}
