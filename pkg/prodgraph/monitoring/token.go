package monitoring

import "github.com/google/uuid"

// Token is an opaque, comparable identity for a producer, used to
// correlate a producer with its monitor observations. Two tokens are
// equal iff they identify the same logical computation site.
type Token struct {
	name string
	id   string
}

// TokenFor returns the token for a named computation site. Tokens built
// from the same name are equal.
func TokenFor(name string) Token {
	if name == "" {
		panic("monitoring: token name cannot be empty")
	}
	return Token{name: name}
}

// AnonymousToken returns a fresh token equal only to itself, for
// producers without a stable wiring name.
func AnonymousToken() Token {
	return Token{id: uuid.NewString()}
}

// Name returns the site name, or the generated id for anonymous tokens.
func (t Token) Name() string {
	if t.name != "" {
		return t.name
	}
	return t.id
}

// String implements fmt.Stringer.
func (t Token) String() string {
	return "ProducerToken[" + t.Name() + "]"
}
