package authflow

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind tags the terminal branch a callback ended in.
type Kind int

const (
	Success Kind = iota
	ProviderError
	MissingCode
	ExchangeFailed
	PostExchangeCheckFailed
)

// Landing page error markers.
const (
	ReasonNoCode         = "no_code"
	ReasonCallbackFailed = "callback_failed"
	ReasonAuthFailed     = "auth_failed"
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case ProviderError:
		return "provider_error"
	case MissingCode:
		return "missing_code"
	case ExchangeFailed:
		return "exchange_failed"
	case PostExchangeCheckFailed:
		return "post_exchange_check_failed"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Outcome is the result of one callback.
//
// Reason is the value of the landing page's error marker and is empty for [Success].
// Err keeps the underlying failure, if any, for logging only.
// Abandoned is set when the caller went away before the flow could navigate.
type Outcome struct {
	Kind      Kind
	Reason    string
	Err       error
	Abandoned bool
}

// OK reports whether the session was confirmed.
func (o Outcome) OK() bool {
	return o.Kind == Success
}

// Query returns the landing page marker for this outcome.
func (o Outcome) Query() url.Values {
	if o.Kind == Success {
		return url.Values{"success": {"true"}}
	}
	return url.Values{"error": {o.Reason}}
}

// Target returns the landing URL carrying this outcome's marker.
func (o Outcome) Target(landing string) string {
	if landing == "" {
		landing = "/"
	}
	sep := "?"
	if strings.Contains(landing, "?") {
		sep = "&"
	}
	return landing + sep + o.Query().Encode()
}

func (o Outcome) String() string {
	if o.Reason == "" {
		return o.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", o.Kind, o.Reason)
}
