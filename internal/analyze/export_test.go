package analyze

// Exports for testing.

// NewTestAnalyzer creates an Analyzer backed by a mock chat completer.
func NewTestAnalyzer(cc chatCompleter, opts ...Option) *Analyzer {
	return New(nil, append([]Option{withChatCompleter(cc)}, opts...)...)
}
