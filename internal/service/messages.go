package service

import (
	"strings"
	"unicode/utf8"
)

const (
	CommandSubscribe   = "chuck-in"
	CommandUnsubscribe = "chuck-out"
	CommandJokeNow     = "chuck-now"
	CommandJokeCall    = "chuck-call"
)

// Every outbound joke carries the opt-out instructions.
const optOutSuffix = " | Done with jokes? Reply with `chuck-out` to unsubscribe."

const (
	textSubscribed = "You are now subscribed to the most stupid and useless Chuck Norris jokes. " +
		"Reply with `chuck-out` to unsubscribe."

	textAlreadySubscribed = "Ups, looks like we already have you on the list. " +
		"You can always opt out with a 'chuck-out' reply."

	textUnsubscribed = "You just unsubscribed to Chuck Norris jokes. " +
		"Reply with `chuck-in` to subscribe again."

	textRequestFailed = "Ups, looks like we could not process your request. Please try again later."

	textNoJokes = "Looks like Chuck ran out of jokes right now. " +
		"Please try again later or reply with chuck-out to unsubscribe."

	textHelp = "Sorry, looks like we are missing something here. Reply with `chuck-in` " +
		"to subscribe to daily (useless) Chuck Norris facts, `chuck-out` to " +
		"unsubscribe to the daily facts, `chuck-now` to get an immediate Chuck Norris fact over SMS " +
		"or `chuck-call` to get one over a voice call."

	textCallFollowUp = "Hope you got the call and enjoyed the joke. " +
		"Remember, you can send `chuck-out` to unsubscribe to the daily facts, " +
		"`chuck-now` to get an immediate Chuck Norris fact over SMS " +
		"or `chuck-call` to get one over a voice call."
)

func normalizeCommand(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// composeJoke truncates the joke so that joke plus opt-out suffix fits in
// maxLength characters. maxLength <= 0 disables truncation.
func composeJoke(joke string, maxLength int) string {
	return truncate(joke, maxLength-len(optOutSuffix)) + optOutSuffix
}

func truncate(text string, max int) string {
	if max <= 0 || len(text) <= max {
		return text
	}

	const ellipsis = "..."
	if max > len(ellipsis) {
		return cut(text, max-len(ellipsis)) + ellipsis
	}
	return cut(text, max)
}

// cut slices text to at most n bytes without splitting a UTF-8 sequence.
func cut(text string, n int) string {
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
