package spotscot

import (
	"github.com/slack-go/slack"
)

const (
	// ThreadedReplyOpt is the name of the option indicating a threaded-reply answer
	ThreadedReplyOpt = "threadedReply"
	// ThreadTimestamp is the name of the option indicating the explicit timestamp of the thread to reply to
	ThreadTimestamp = "threadTimestamp"
	// EphemeralOpt marks a slash command answer to be delivered only to the invoking user
	EphemeralOpt = "ephemeral"
)

// Slash command response types, as understood by the response URL webhook
const (
	inChannelResponseType = "in_channel"
	ephemeralResponseType = "ephemeral"
)

// Answer holds data of an action's answer: namely, its text and options
// to use when delivering it
type Answer struct {
	Text string

	// Options to apply when sending the answer
	Options []AnswerOption

	// BlockKit content blocks to apply when sending the answer
	ContentBlocks []slack.Block
}

// AnswerOption defines a function applied to Answers
type AnswerOption func(sendOpts map[string]string)

// AnswerInThread sets threaded replying to the triggering message
func AnswerInThread() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
	}
}

// AnswerInExistingThread sets threaded replying with the existing thread timestamp
func AnswerInExistingThread(threadTimestamp string) AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[ThreadedReplyOpt] = "true"
		sendOpts[ThreadTimestamp] = threadTimestamp
	}
}

// AnswerEphemeral sets a slash command answer to be visible only to the invoking user
func AnswerEphemeral() AnswerOption {
	return func(sendOpts map[string]string) {
		sendOpts[EphemeralOpt] = "true"
	}
}

// ApplyAnswerOpts applies answering options to build the send configuration
func ApplyAnswerOpts(opts ...AnswerOption) (sendOptions map[string]string) {
	sendOptions = make(map[string]string)
	for _, opt := range opts {
		opt(sendOptions)
	}

	return sendOptions
}
