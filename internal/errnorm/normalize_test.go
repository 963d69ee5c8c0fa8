package errnorm

import (
	"errors"
	"testing"
)

func TestResolvePriority(t *testing.T) {
	tests := []struct {
		name     string
		ctx      Context
		wantKind Kind
		want     string
	}{
		{
			name:     "server messages win over everything else",
			ctx:      Context{Status: 417, Body: []byte(`{"_server_messages":"[\"{\\\"message\\\": \\\"Customer is mandatory\\\"}\", \"  Posting date is invalid  \"]","message":"plain","exc_type":"ValidationError"}`)},
			wantKind: KindServerMessages,
			want:     "Customer is mandatory; Posting date is invalid",
		},
		{
			name:     "server messages with msg key",
			ctx:      Context{Body: []byte(`{"_server_messages":"[\"{\\\"msg\\\": \\\"Not permitted\\\"}\"]"}`)},
			wantKind: KindServerMessages,
			want:     "Not permitted",
		},
		{
			name:     "blank server messages fall through to message",
			ctx:      Context{Body: []byte(`{"_server_messages":"[\"   \", \"\"]","message":"Document not found"}`)},
			wantKind: KindMessage,
			want:     "Document not found",
		},
		{
			name:     "malformed server messages fall through",
			ctx:      Context{Body: []byte(`{"_server_messages":"not json","message":"fallback"}`)},
			wantKind: KindMessage,
			want:     "fallback",
		},
		{
			name:     "message is returned verbatim",
			ctx:      Context{Status: 404, Body: []byte(`{"message":"  Sales Invoice SINV-0001 not found "}`)},
			wantKind: KindMessage,
			want:     "  Sales Invoice SINV-0001 not found ",
		},
		{
			name:     "known exception class is extracted from trace",
			ctx:      Context{Body: []byte(`{"exception":"Traceback (most recent call last):\n  File \"app.py\", line 1\nfrappe.exceptions.ValidationError: Company is required\n"}`)},
			wantKind: KindException,
			want:     "ValidationError: Company is required",
		},
		{
			name:     "link validation is not mistaken for validation",
			ctx:      Context{Body: []byte(`{"exception":"frappe.exceptions.LinkValidationError: Could not find Customer: ACME"}`)},
			wantKind: KindException,
			want:     "LinkValidationError: Could not find Customer: ACME",
		},
		{
			name:     "unknown exception class uses first line",
			ctx:      Context{Body: []byte(`{"exception":"pymysql.err.OperationalError: (2013, 'Lost connection')\nmore"}`)},
			wantKind: KindException,
			want:     "pymysql.err.OperationalError: (2013, 'Lost connection')",
		},
		{
			name:     "exc_type with exc",
			ctx:      Context{Body: []byte(`{"exc_type":"DoesNotExistError","exc":"trace"}`)},
			wantKind: KindExcType,
			want:     "DoesNotExistError: trace",
		},
		{
			name:     "exc_type without detail",
			ctx:      Context{Body: []byte(`{"exc_type":"PermissionError"}`)},
			wantKind: KindExcType,
			want:     "PermissionError: Unknown error",
		},
		{
			name:     "explicit error message",
			ctx:      Context{Body: []byte(`{"_error_message":"Insufficient Permission for Item"}`)},
			wantKind: KindErrorMessage,
			want:     "Insufficient Permission for Item",
		},
		{
			name:     "status fallback",
			ctx:      Context{Status: 503, Body: []byte(`<html>down</html>`)},
			wantKind: KindStatus,
			want:     "HTTP 503: Service Unavailable - ERPNext is temporarily unavailable",
		},
		{
			name:     "unlisted status falls through to transport",
			ctx:      Context{Status: 418, Err: errors.New("teapot")},
			wantKind: KindTransport,
			want:     "teapot",
		},
		{
			name:     "nothing known",
			ctx:      Context{Status: 418},
			wantKind: KindUnknown,
			want:     "Unknown error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.ctx)
			if got.Kind != tt.wantKind {
				t.Errorf("kind = %s, want %s", got.Kind, tt.wantKind)
			}
			if got.Text != tt.want {
				t.Errorf("text = %q, want %q", got.Text, tt.want)
			}
		})
	}
}

func TestResolveNonObjectBodies(t *testing.T) {
	for _, body := range []string{``, `[]`, `"message"`, `42`, `{`} {
		got := Message(Context{Body: []byte(body)})
		if got != unknownError {
			t.Errorf("body %q: got %q, want %q", body, got, unknownError)
		}
	}
}

func TestFormat(t *testing.T) {
	t.Run("status only", func(t *testing.T) {
		got := Format("Failed to submit Sales Invoice", Context{Status: 417})
		want := "Failed to submit Sales Invoice (HTTP 417): Expectation Failed - Validation error in ERPNext"
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})

	t.Run("transport timeout has no status segment", func(t *testing.T) {
		got := Format("Failed to get Customer", Context{Err: errors.New("timeout of 30000ms exceeded")})
		want := "Failed to get Customer: timeout of 30000ms exceeded"
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})

	t.Run("structured body keeps status", func(t *testing.T) {
		body := []byte(`{"exception":"frappe.exceptions.DocstatusTransitionError: Cannot change docstatus from 1 to 1"}`)
		got := Format("Failed to submit Sales Invoice SINV-0001", Context{Status: 417, Body: body})
		want := "Failed to submit Sales Invoice SINV-0001 (HTTP 417): DocstatusTransitionError: Cannot change docstatus from 1 to 1"
		if got != want {
			t.Fatalf("got %q, want %q", got, want)
		}
	})
}
