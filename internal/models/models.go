package models

// NullIfEmpty returns nil for an empty string so optional text columns store NULL.
func NullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// All returns every model that belongs to the schema, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Wallet{},
		&Chain{},
		&Token{},
		&ApiEndpoint{},
		&UpstreamHeader{},
		&QueryParam{},
		&RequestBodyField{},
		&ApiTag{},
		&ApiCall{},
		&ApiReview{},
		&Favorite{},
		&Email{},
	}
}
