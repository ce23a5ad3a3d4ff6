// Package core provides the business logic for the team directory.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Typed errors are matched first; anything else falls back to
// case-insensitive pattern matching on the error text.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Source unavailable: A team sheet could not be reached
//	         Action: Check the sheet sharing settings and try refreshing
//	SRC002 - Source malformed: A team sheet returned unreadable data
//	         Action: Check that the sheet has a header row and plain values
//	SRC003 - Catalog unavailable: The list of sheets could not be loaded
//	         Action: Verify the spreadsheet ID and API key
//
// # Validation Errors (VAL001-VAL099)
//
//	VAL001 - Required field: A required field is empty
//	         Action: Fill in name, email, position and sheet
//	VAL002 - Unknown sheet: The selected sheet is not in the directory
//	         Action: Choose one of the listed sheets
//	VAL003 - Bad request: The request body could not be read
//	         Action: Send the member as a JSON object
//	VAL004 - Unknown status: The status is not recognized
//	         Action: Use Active, Inactive or OnLeave
//
// # Roster Errors (ROS001-ROS099)
//
//	ROS001 - Member not found: The member no longer exists in the roster
//	         Action: Refresh the directory and try again
//	ROS002 - Refresh in progress: The directory is being reloaded
//	         Action: Wait for the refresh to finish and try again
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Export failed: A value cannot be written to CSV
//	         Action: Fix the highlighted member and export again
//
// # Rate Limiting (RATE001-RATE099)
//
//	RATE001 - Rate limited: Too many requests
//	          Action: Please wait a moment before trying again
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Please try again or contact support
package core

import (
	"errors"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

var (
	msgSourceUnavailable = UserMessage{
		Message: "A team sheet could not be reached",
		Action:  "Check the sheet sharing settings and try refreshing",
		Code:    "SRC001",
	}
	msgSourceMalformed = UserMessage{
		Message: "A team sheet returned unreadable data",
		Action:  "Check that the sheet has a header row and plain values",
		Code:    "SRC002",
	}
	msgCatalog = UserMessage{
		Message: "The list of sheets could not be loaded",
		Action:  "Verify the spreadsheet ID and API key",
		Code:    "SRC003",
	}
	msgRequired = UserMessage{
		Message: "A required field is empty",
		Action:  "Fill in name, email, position and sheet",
		Code:    "VAL001",
	}
	msgUnknownSheet = UserMessage{
		Message: "The selected sheet is not in the directory",
		Action:  "Choose one of the listed sheets",
		Code:    "VAL002",
	}
	msgUnknownStatus = UserMessage{
		Message: "The status is not recognized",
		Action:  "Use Active, Inactive or OnLeave",
		Code:    "VAL004",
	}
	msgNotFound = UserMessage{
		Message: "The member no longer exists in the roster",
		Action:  "Refresh the directory and try again",
		Code:    "ROS001",
	}
	msgRefreshing = UserMessage{
		Message: "The directory is being reloaded",
		Action:  "Wait for the refresh to finish and try again",
		Code:    "ROS002",
	}
	msgExport = UserMessage{
		Message: "A value cannot be written to CSV",
		Action:  "Fix the highlighted member and export again",
		Code:    "EXP001",
	}
	msgDefault = UserMessage{
		Message: "An unexpected error occurred",
		Action:  "Please try again or contact support",
		Code:    "ERR000",
	}
)

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps error text (case-insensitive) to user messages for
// errors that carry no type. The first matching pattern wins.
var errorPatterns = []errorPattern{
	{pattern: "rate limit", msg: UserMessage{
		Message: "Too many requests",
		Action:  "Please wait a moment before trying again",
		Code:    "RATE001",
	}},
	{pattern: "invalid request body", msg: UserMessage{
		Message: "The request body could not be read",
		Action:  "Send the member as a JSON object",
		Code:    "VAL003",
	}},
	{pattern: "required field", msg: msgRequired},
	{pattern: "unknown source", msg: msgUnknownSheet},
	{pattern: "member not found", msg: msgNotFound},
	{pattern: "source unavailable", msg: msgSourceUnavailable},
	{pattern: "source malformed", msg: msgSourceMalformed},
}

// MapError converts an error to a user-friendly message.
// Returns an empty UserMessage for nil errors.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	var (
		ve ValidationError
		fe *FetchError
		ce *CatalogError
		ee *ExportError
	)
	switch {
	case errors.As(err, &ve):
		if strings.Contains(ve.Message, "unknown source") {
			return msgUnknownSheet
		}
		if ve.Field == "status" {
			return msgUnknownStatus
		}
		return msgRequired
	case errors.As(err, &ee):
		return msgExport
	case errors.As(err, &ce):
		return msgCatalog
	case errors.As(err, &fe):
		if fe.Kind == FailureMalformed {
			return msgSourceMalformed
		}
		return msgSourceUnavailable
	case errors.Is(err, ErrMemberNotFound):
		return msgNotFound
	case errors.Is(err, ErrRefreshInProgress):
		return msgRefreshing
	}

	errStr := strings.ToLower(err.Error())
	for _, p := range errorPatterns {
		if strings.Contains(errStr, p.pattern) {
			return p.msg
		}
	}
	return msgDefault
}

// FormatUserError returns "message. action (code)" for display.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	msg := MapError(err)
	if msg.Action == "" {
		return msg.Message + " (" + msg.Code + ")"
	}
	return msg.Message + ". " + msg.Action + " (" + msg.Code + ")"
}
