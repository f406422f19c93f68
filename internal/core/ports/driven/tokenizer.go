package driven

// TokenCounter counts model tokens in a text.
type TokenCounter interface {
	Count(text string) int
}
