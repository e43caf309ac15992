// Package core provides the business logic for building the HCL catalog.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
//
// # Source Errors (SRC001-SRC099)
//
//	SRC001 - Sheet unavailable: one sheet could not be fetched
//	         Patterns: "sheet unavailable"
//	SRC002 - Invalid payload: the sheet did not return a list of rows
//	         Patterns: "invalid sheet payload"
//	SRC003 - All sources failed: no sheet could be loaded
//	         Patterns: "all sheets failed"
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Product not found
//	         Patterns: "product not found"
//	CAT002 - Unknown field
//	         Patterns: "unknown product field"
//
// # Group Errors (GRP001-GRP099, EXP001-EXP099)
//
//	GRP001 - Group not found
//	GRP002 - Last group cannot be deleted
//	GRP003 - Color is not in the palette
//	GRP004 - Product is already in the group
//	EXP001 - Group has nothing to export
//
// # Request Errors (REQ001-REQ099, RATE001)
//
//	REQ001 - Request cancelled ("context canceled")
//	REQ002 - Request timeout ("context deadline exceeded")
//	RATE001 - Rate limited ("rate limit")
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Patterns are matched
// case-insensitively with strings.Contains; the first match wins.
package core

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors. Their texts contain the patterns listed above so that
// wrapped errors still map to the right code.
var (
	ErrSheetUnavailable = errors.New("sheet unavailable")
	ErrInvalidPayload   = errors.New("invalid sheet payload: expected a JSON array of rows")
	ErrAllSourcesFailed = errors.New("all sheets failed to load")
	ErrProductNotFound  = errors.New("product not found")
	ErrGroupNotFound    = errors.New("group not found")
	ErrLastGroup        = errors.New("cannot delete the last group")
	ErrInvalidColor     = errors.New("color not in palette")
	ErrDuplicateItem    = errors.New("product already in group")
	ErrEmptyGroup       = errors.New("group has no items to export")
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// More specific patterns come first.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Source Errors (SRC001-SRC003)
	// =========================================================================
	{
		pattern: "all sheets failed",
		msg: UserMessage{
			Message: "The compatibility data could not be loaded",
			Action:  "Check the network connection or the spreadsheet ID",
			Code:    "SRC003",
		},
	},
	{
		pattern: "invalid sheet payload",
		msg: UserMessage{
			Message: "A sheet returned data in an unexpected format",
			Action:  "Verify the sheet name and that it is shared publicly",
			Code:    "SRC002",
		},
	},
	{
		pattern: "sheet unavailable",
		msg: UserMessage{
			Message: "A sheet could not be fetched",
			Action:  "The remaining sheets are still shown; try refreshing later",
			Code:    "SRC001",
		},
	},

	// =========================================================================
	// Catalog Errors (CAT001-CAT002)
	// =========================================================================
	{
		pattern: "product not found",
		msg: UserMessage{
			Message: "No product with this model exists",
			Action:  "Search the catalog for the exact model name",
			Code:    "CAT001",
		},
	},
	{
		pattern: "unknown product field",
		msg: UserMessage{
			Message: "This field cannot be listed",
			Action:  "Use one of: model, brand, type, fw, id",
			Code:    "CAT002",
		},
	},

	// =========================================================================
	// Group Errors (GRP001-GRP004, EXP001)
	// =========================================================================
	{
		pattern: "group not found",
		msg: UserMessage{
			Message: "The selected group does not exist",
			Action:  "Reload the page to refresh your groups",
			Code:    "GRP001",
		},
	},
	{
		pattern: "last group",
		msg: UserMessage{
			Message: "At least one group must remain",
			Action:  "Create another group before deleting this one",
			Code:    "GRP002",
		},
	},
	{
		pattern: "not in palette",
		msg: UserMessage{
			Message: "This color is not available",
			Action:  "Pick one of the palette colors",
			Code:    "GRP003",
		},
	},
	{
		pattern: "already in group",
		msg: UserMessage{
			Message: "This product is already in the group",
			Action:  "No action needed",
			Code:    "GRP004",
		},
	},
	{
		pattern: "no items to export",
		msg: UserMessage{
			Message: "The group is empty",
			Action:  "Add products to the group before exporting",
			Code:    "EXP001",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ002, RATE001)
	// =========================================================================
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "The spreadsheet service may be slow; try again later",
			Code:    "REQ002",
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

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// It returns the first matching pattern, or ERR000 when nothing matches.
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

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific code rather than ERR000.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
