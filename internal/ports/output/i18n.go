package output

// T renders the user-facing messages of the guest client.
type T interface {
	// T renders the message identified by key for the given locale, falling
	// back to the default locale and then to the key itself.
	// data fills template placeholders and may be nil.
	T(locale, key string, data map[string]any) string
}
