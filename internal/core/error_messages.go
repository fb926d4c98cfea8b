package core

// error_messages.go maps technical errors to messages users can act on.
//
// Each message carries a code users can quote when asking for help:
//
//	VAL001-VAL099   task rows and headers
//	FILE001-FILE099 uploaded or configured source files
//	EXP001-EXP099   exports
//	EVD001-EVD099   task evidence
//	UPL001-UPL099   upload scheduling
//	RATE001         request throttling
//	ERR000          anything else; check the logs for the technical error

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Support reference
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns are matched case-insensitively with strings.Contains.
// The first match wins, so specific patterns come before general ones.
var errorPatterns = []errorPattern{
	// Rows and headers
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "The file is missing a required column",
			Action:  "Make sure the header row has name, payment, date and status",
			Code:    "VAL001",
		},
	},
	{
		pattern: "schema mismatch",
		msg: UserMessage{
			Message: "The file does not have the expected columns",
			Action:  "Make sure the header row has name, payment, date and status",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "A payment is not a valid number",
			Action:  "Use plain decimal amounts such as 1250.50",
			Code:    "VAL002",
		},
	},
	{
		pattern: "must not be negative",
		msg: UserMessage{
			Message: "A payment is negative",
			Action:  "Payments must be zero or more",
			Code:    "VAL003",
		},
	},
	{
		pattern: "value must be one of",
		msg: UserMessage{
			Message: "A status is not recognised",
			Action:  "Use Pending, In Progress or Completed, spelled exactly",
			Code:    "VAL004",
		},
	},
	{
		pattern: "validation rejected",
		msg: UserMessage{
			Message: "A row failed validation",
			Action:  "Review the rejected rows and correct them",
			Code:    "VAL005",
		},
	},

	// Files
	{
		pattern: "request body too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller parts",
			Code:    "FILE001",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "The file is not a valid CSV",
			Action:  "Save the sheet as comma-separated values and try again",
			Code:    "FILE002",
		},
	},
	{
		pattern: "source not found",
		msg: UserMessage{
			Message: "The task file could not be found",
			Action:  "Upload a CSV or ask an administrator to check ITEMS_PATH",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no such file",
		msg: UserMessage{
			Message: "No file was attached",
			Action:  "Choose a file before uploading",
			Code:    "FILE004",
		},
	},

	// Exports
	{
		pattern: "unknown export format",
		msg: UserMessage{
			Message: "That export format is not supported",
			Action:  "Choose CSV, Excel or PDF",
			Code:    "EXP001",
		},
	},
	{
		pattern: "export write failed",
		msg: UserMessage{
			Message: "The export could not be created",
			Action:  "Please try again",
			Code:    "EXP002",
		},
	},

	// Evidence
	{
		pattern: "task not found",
		msg: UserMessage{
			Message: "That task is not in the current checklist",
			Action:  "Reload the checklist and pick a listed task",
			Code:    "EVD001",
		},
	},
	{
		pattern: "evidence not found",
		msg: UserMessage{
			Message: "That evidence file does not exist",
			Action:  "Upload the evidence again",
			Code:    "EVD002",
		},
	},

	// Upload scheduling
	{
		pattern: "too many concurrent uploads",
		msg: UserMessage{
			Message: "The server is busy with other uploads",
			Action:  "Please try again in a few moments",
			Code:    "UPL001",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The request was cancelled",
			Action:  "Try again if this was not intentional",
			Code:    "UPL002",
		},
	},
	{
		pattern: "deadline exceeded",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "UPL003",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. Unknown
// errors map to ERR000; nil maps to the zero UserMessage.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError renders err as "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-facing message.
type UserError struct {
	Technical error
	User      UserMessage
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
