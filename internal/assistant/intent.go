package assistant

import (
	"regexp"
	"strings"
)

type Intent string

const (
	IntentScheduleQuery Intent = "schedule_query"
	IntentAvailability  Intent = "availability"
	IntentBooking       Intent = "booking"
	IntentCancellation  Intent = "cancellation"
	IntentGreeting      Intent = "greeting"
	IntentThanks        Intent = "thanks"
	IntentUnknown       Intent = "unknown"
)

// Greetings match whole words so "this" or "which" do not read as "hi".
var greetingPattern = regexp.MustCompile(`\b(?:hello|hi|hey)\b`)

// rule pairs a trigger with its handler. Rules are evaluated top to bottom and
// the first match wins; "schedule" appears in both the query and the booking
// triggers, so the query rule must stay ahead of the booking rule.
type rule struct {
	intent  Intent
	matches func(lower string) bool
	handle  func(r request) Result
}

var rules = []rule{
	{
		intent:  IntentScheduleQuery,
		matches: containsAny("schedule", "what's on", "calendar"),
		handle:  handleScheduleQuery,
	},
	{
		intent:  IntentAvailability,
		matches: containsAny("free", "available", "availability"),
		handle:  handleAvailability,
	},
	{
		intent:  IntentBooking,
		matches: containsAny("book", "schedule", "set up", "create", "add"),
		handle:  handleBooking,
	},
	{
		intent:  IntentCancellation,
		matches: containsAny("cancel", "delete", "remove"),
		handle:  fixedReply(replyCancellation),
	},
	{
		intent:  IntentGreeting,
		matches: greetingPattern.MatchString,
		handle:  fixedReply(replyGreeting),
	},
	{
		intent:  IntentThanks,
		matches: containsAny("thank"),
		handle:  fixedReply(replyThanks),
	},
}

// Classify returns the intent the message would be routed to.
func Classify(message string) Intent {
	lower := normalize(message)
	for _, r := range rules {
		if r.matches(lower) {
			return r.intent
		}
	}
	return IntentUnknown
}

func containsAny(keywords ...string) func(string) bool {
	return func(lower string) bool {
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return true
			}
		}
		return false
	}
}

func fixedReply(text string) func(request) Result {
	return func(request) Result {
		return Result{Reply: text}
	}
}

// normalize lowercases and folds typographic apostrophes so "What’s on" matches.
func normalize(message string) string {
	return strings.ToLower(strings.ReplaceAll(message, "’", "'"))
}
