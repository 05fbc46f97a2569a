package authflow

import "net/url"

// CallbackResult is what the provider redirect carried back.
//
// Only presence matters: a parameter with an empty value counts as absent.
type CallbackResult struct {
	Code  string
	Error string
}

// HasError reports whether the provider declined or cancelled.
func (c CallbackResult) HasError() bool { return c.Error != "" }

// HasCode reports whether an authorization code came back.
func (c CallbackResult) HasCode() bool { return c.Code != "" }

// ParseCallback extracts the code and error parameters from a callback query.
func ParseCallback(query url.Values) CallbackResult {
	return CallbackResult{
		Code:  query.Get("code"),
		Error: query.Get("error"),
	}
}

// ParseCallbackQuery parses a raw query string, with or without its leading '?'.
//
// A query that fails to parse yields whatever pairs were readable.
func ParseCallbackQuery(raw string) CallbackResult {
	if len(raw) > 0 && raw[0] == '?' {
		raw = raw[1:]
	}
	values, _ := url.ParseQuery(raw)
	return ParseCallback(values)
}
