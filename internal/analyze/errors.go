package analyze

import "errors"

// ErrNoChoices indicates the chat-completion response carried no choice.
var ErrNoChoices = errors.New("no response from API")
