// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldChartID   = "chart_id"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Domain fields
	FieldLocation  = "location"
	FieldLatitude  = "lat"
	FieldLongitude = "lon"
	FieldSign      = "sign"

	// HTTP fields
	FieldMethod = "method"
	FieldPath   = "path"
	FieldStatus = "status"
)
