package transcribe

// Exports for testing. These allow black-box tests to inject a mock
// audioTranscriber without modifying the public API.

// NewTestTranscriber creates an OpenAITranscriber backed by client.
func NewTestTranscriber(client audioTranscriber, opts ...Option) *OpenAITranscriber {
	return NewOpenAITranscriber(nil, append([]Option{withAudioTranscriber(client)}, opts...)...)
}
