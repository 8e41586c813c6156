package models

import "context"

type CommandResponseKind int

const (
	// CommandResponseAcknowledged: reply with an empty 200 and do nothing else.
	CommandResponseAcknowledged CommandResponseKind = iota
	// CommandResponseImmediate: the reply body is already known.
	CommandResponseImmediate
	// CommandResponseDeferred: ack now, compute and post the result out of band.
	CommandResponseDeferred
	// CommandResponseViewErrors: keep a submitted modal open and show field errors.
	CommandResponseViewErrors
)

// DeferredReply runs after Slack has been acknowledged. It posts its own
// result through the Slack API.
type DeferredReply func(ctx context.Context) error

// CommandResponse is what the proxy answers to one slash command or interaction.
type CommandResponse struct {
	Kind        CommandResponseKind
	Message     Message
	Deferred    DeferredReply
	FieldErrors map[string]string
}

func Acknowledge() CommandResponse {
	return CommandResponse{Kind: CommandResponseAcknowledged}
}

func ImmediateReply(msg Message) CommandResponse {
	return CommandResponse{Kind: CommandResponseImmediate, Message: msg}
}

func DeferReply(fn DeferredReply) CommandResponse {
	return CommandResponse{Kind: CommandResponseDeferred, Deferred: fn}
}

// ViewErrors rejects a modal submission. Keys are input block ids.
func ViewErrors(fieldErrors map[string]string) CommandResponse {
	return CommandResponse{Kind: CommandResponseViewErrors, FieldErrors: fieldErrors}
}
