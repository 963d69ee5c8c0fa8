// Package errnorm reduces the error payloads returned by an ERPNext (Frappe)
// server to one readable message.
//
// The server reports failures in several overlapping shapes depending on the
// endpoint and on how far the request got before failing. Resolve inspects
// them in a fixed priority order so the same failure always yields the same
// text, preferring the most specific detail that a human wrote.
package errnorm

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/tidwall/gjson"
)

const unknownError = "Unknown error occurred"

// Context carries everything known about a failed call. At least one of the
// fields is set when normalization runs.
type Context struct {
	// Status is the HTTP status code, zero when no response was received.
	Status int
	// Body is the raw response body. It may be empty or not JSON at all.
	Body []byte
	// Err is the transport-level failure, if any.
	Err error
}

// Kind identifies which error shape produced a Detail.
type Kind int

const (
	KindUnknown Kind = iota
	KindServerMessages
	KindMessage
	KindException
	KindExcType
	KindErrorMessage
	KindStatus
	KindTransport
)

func (k Kind) String() string {
	switch k {
	case KindServerMessages:
		return "server_messages"
	case KindMessage:
		return "message"
	case KindException:
		return "exception"
	case KindExcType:
		return "exc_type"
	case KindErrorMessage:
		return "error_message"
	case KindStatus:
		return "status"
	case KindTransport:
		return "transport"
	default:
		return "unknown"
	}
}

// Detail is the resolved diagnostic together with the shape it came from.
type Detail struct {
	Kind Kind
	Text string
}

type bodyProbe struct {
	kind  Kind
	probe func(body gjson.Result) (string, bool)
}

// bodyProbes is ordered by priority; the first probe with usable text wins.
var bodyProbes = []bodyProbe{
	{KindServerMessages, serverMessages},
	{KindMessage, plainMessage},
	{KindException, exceptionTrace},
	{KindExcType, excTypeSummary},
	{KindErrorMessage, explicitErrorMessage},
}

// knownExceptions matches "<Class>: <message>" for the exception classes
// whose message is meant for end users. Module prefixes such as
// "frappe.exceptions." are left out of the match.
var knownExceptions = regexp.MustCompile(`\b(?:ValidationError|MandatoryError|LinkValidationError|DuplicateEntryError|TimestampMismatchError|DocstatusTransitionError|PermissionError|DoesNotExistError|UpdateAfterSubmitError|CannotChangeConstantError): [^\n]*`)

// Resolve returns the highest-priority usable diagnostic for c. It never
// returns an empty Text.
func Resolve(c Context) Detail {
	body := parseBody(c.Body)
	for _, p := range bodyProbes {
		if text, ok := p.probe(body); ok {
			return Detail{Kind: p.kind, Text: text}
		}
	}
	if desc, ok := statusDescriptions[c.Status]; ok {
		return Detail{Kind: KindStatus, Text: fmt.Sprintf("HTTP %d: %s", c.Status, desc)}
	}
	if c.Err != nil {
		if msg := c.Err.Error(); strings.TrimSpace(msg) != "" {
			return Detail{Kind: KindTransport, Text: msg}
		}
	}
	return Detail{Kind: KindUnknown, Text: unknownError}
}

// Message returns the normalized diagnostic string for c.
func Message(c Context) string {
	return Resolve(c).Text
}

// Format prefixes the normalized diagnostic with the operation label and,
// when known, the HTTP status:
//
//	<operation> (HTTP <status>): <detail>
//	<operation>: <detail>
func Format(operation string, c Context) string {
	d := Resolve(c)
	text := d.Text
	if d.Kind == KindStatus {
		// the status is already part of the prefix
		text = statusDescriptions[c.Status]
	}
	if c.Status > 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", operation, c.Status, text)
	}
	return fmt.Sprintf("%s: %s", operation, text)
}

func parseBody(raw []byte) gjson.Result {
	if len(raw) == 0 || !gjson.ValidBytes(raw) {
		return gjson.Result{}
	}
	body := gjson.ParseBytes(raw)
	if !body.IsObject() {
		return gjson.Result{}
	}
	return body
}

func serverMessages(body gjson.Result) (string, bool) {
	field := body.Get("_server_messages")
	var entries []gjson.Result
	switch {
	case field.Type == gjson.String:
		if !gjson.Valid(field.Str) {
			return "", false
		}
		parsed := gjson.Parse(field.Str)
		if !parsed.IsArray() {
			return "", false
		}
		entries = parsed.Array()
	case field.IsArray():
		entries = field.Array()
	default:
		return "", false
	}

	messages := make([]string, 0, len(entries))
	for _, entry := range entries {
		if text := strings.TrimSpace(serverMessageText(entry)); text != "" {
			messages = append(messages, text)
		}
	}
	if len(messages) == 0 {
		return "", false
	}
	return strings.Join(messages, "; "), true
}

// serverMessageText unwraps one _server_messages element. Elements are
// usually JSON-encoded objects carrying a message or msg key; anything else
// is used as-is.
func serverMessageText(entry gjson.Result) string {
	obj := entry
	if entry.Type == gjson.String && gjson.Valid(entry.Str) {
		obj = gjson.Parse(entry.Str)
	}
	if obj.IsObject() {
		for _, key := range []string{"message", "msg"} {
			if v := obj.Get(key); v.Exists() {
				return v.String()
			}
		}
	}
	return entry.String()
}

func plainMessage(body gjson.Result) (string, bool) {
	v := body.Get("message")
	if v.Type != gjson.String || strings.TrimSpace(v.Str) == "" {
		return "", false
	}
	return v.Str, true
}

func exceptionTrace(body gjson.Result) (string, bool) {
	v := body.Get("exception")
	if v.Type != gjson.String {
		return "", false
	}
	if match := knownExceptions.FindString(v.Str); match != "" {
		return strings.TrimSpace(match), true
	}
	first, _, _ := strings.Cut(v.Str, "\n")
	first = strings.TrimSpace(first)
	return first, first != ""
}

func excTypeSummary(body gjson.Result) (string, bool) {
	excType := body.Get("exc_type").String()
	if excType == "" {
		return "", false
	}
	detail := strings.TrimSpace(body.Get("message").String())
	if detail == "" {
		detail = strings.TrimSpace(body.Get("exc").String())
	}
	if detail == "" {
		detail = "Unknown error"
	}
	return excType + ": " + detail, true
}

func explicitErrorMessage(body gjson.Result) (string, bool) {
	v := body.Get("_error_message").String()
	return v, strings.TrimSpace(v) != ""
}
