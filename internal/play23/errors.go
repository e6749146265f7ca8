package play23

import (
	"fmt"
	"strings"
)

// ErrorKind classifies every failure the client can surface. Values match
// the upstream-facing error codes the REST layer exposes.
type ErrorKind string

const (
	KindAuthError           ErrorKind = "AUTH_ERROR"
	KindNotAuthenticated    ErrorKind = "NOT_AUTHENTICATED"
	KindCompileError        ErrorKind = "COMPILE_ERROR"
	KindInvalidSelection    ErrorKind = "INVALID_SELECTION"
	KindInvalidPassword     ErrorKind = "INVALID_PASSWORD"
	KindInsufficientBalance ErrorKind = "INSUFFICIENT_BALANCE"
	KindMinBetNotMet        ErrorKind = "MIN_BET_NOT_MET"
	KindOddsChanged         ErrorKind = "ODDS_CHANGED"
	KindMarketClosed        ErrorKind = "MARKET_CLOSED"
	KindConfirmError        ErrorKind = "CONFIRM_ERROR"
	KindPostError           ErrorKind = "POST_ERROR"
	KindSessionExpired      ErrorKind = "SESSION_EXPIRED"
	KindNetworkError        ErrorKind = "NETWORK_ERROR"
)

// ClientError is a typed failure for the non-wager operations (login, odds,
// balance). Wager placement reports failures through Outcome instead.
type ClientError struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *ClientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *ClientError) Unwrap() error { return e.Err }

func newClientError(kind ErrorKind, msg string, err error) *ClientError {
	return &ClientError{Kind: kind, Msg: msg, Err: err}
}

// KindOf extracts the ErrorKind from an error, defaulting to NETWORK_ERROR
// for plain transport failures.
func KindOf(err error) ErrorKind {
	if ce, ok := err.(*ClientError); ok {
		return ce.Kind
	}
	return KindNetworkError
}

// Confirm-phase classification is substring matching over upstream's free-text
// error messages, so the whole mapping lives in one table. Order matters:
// the first class with a hit wins.
var confirmMessageClasses = []struct {
	kind       ErrorKind
	substrings []string
}{
	{KindInvalidPassword, []string{"password"}},
	{KindInsufficientBalance, []string{"insufficient", "balance"}},
	{KindMinBetNotMet, []string{"minimum"}},
	{KindOddsChanged, []string{"odds", "changed"}},
	{KindMarketClosed, []string{"closed", "unavailable"}},
}

// classifyConfirmMessage maps an upstream confirm-phase error message to its
// kind. Unmatched text stays a generic CONFIRM_ERROR rather than a guess.
func classifyConfirmMessage(msg string) ErrorKind {
	lower := strings.ToLower(msg)
	for _, class := range confirmMessageClasses {
		for _, sub := range class.substrings {
			if strings.Contains(lower, sub) {
				return class.kind
			}
		}
	}
	return KindConfirmError
}
