package worker

import "context"

// Messenger abstracts the chat transport the worker reports through. The
// worker never talks to the chat platform directly; everything goes through
// this interface so tests can observe the full conversation.
type Messenger interface {
	// EditStatus rewrites the placeholder message the requester is watching.
	EditStatus(ctx context.Context, chatId, messageRef int64, text string) error
	// SendVideo transfers the file at path inline with the given caption.
	SendVideo(ctx context.Context, chatId int64, path, caption string, width, height int) error
	// SendAnimation transfers a silent animation file inline.
	SendAnimation(ctx context.Context, chatId int64, path, caption string) error
	// SendText posts a plain message to the chat.
	SendText(ctx context.Context, chatId int64, text string) error
}
