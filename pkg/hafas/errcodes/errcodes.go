// Package errcodes is the error-code table of the HAFAS ReST dialect.
package errcodes

import (
	"maps"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

var table = map[string]hafas.ErrorInfo{
	"H890":  {Name: "NO_CONNECTIONS", Category: hafas.CategoryNotFound, Message: "no connections found"},
	"H891":  {Name: "NO_ROUTE", Category: hafas.CategoryNotFound, Message: "no route found, try again with less via stations"},
	"H892":  {Name: "QUERY_TOO_COMPLEX", Category: hafas.CategoryInvalidRequest, Message: "query too complex, try again with less via stations"},
	"H895":  {Name: "DEPARTURE_EQUALS_DESTINATION", Category: hafas.CategoryInvalidRequest, Message: "departure and destination are identical"},
	"H899":  {Name: "UNSUCCESSFUL_SEARCH", Category: hafas.CategoryServer, IsServer: true, Message: "unsuccessful search"},
	"H9220": {Name: "NO_STOPS_NEARBY", Category: hafas.CategoryNotFound, Message: "no stops found nearby"},
	"H9240": {Name: "UNSUCCESSFUL_SEARCH", Category: hafas.CategoryServer, IsServer: true, Message: "unsuccessful search"},
	"H9260": {Name: "UNKNOWN_DEPARTURE_STATION", Category: hafas.CategoryInvalidRequest, Message: "unknown departure station"},
	"H9300": {Name: "UNKNOWN_ARRIVAL_STATION", Category: hafas.CategoryInvalidRequest, Message: "unknown arrival station"},
	"H9360": {Name: "INVALID_DATE", Category: hafas.CategoryInvalidRequest, Message: "invalid date"},
	"H9380": {Name: "DEPARTURE_ARRIVAL_TOO_NEAR", Category: hafas.CategoryInvalidRequest, Message: "departure/arrival/intermediate or equivalent stations defined more than once"},

	"SVC_LOC":             {Name: "LOCATION_ERROR", Category: hafas.CategoryInvalidRequest, Message: "location missing or invalid"},
	"SVC_DATATIME":        {Name: "INVALID_DATE_TIME", Category: hafas.CategoryInvalidRequest, Message: "date/time is invalid"},
	"SVC_DATATIME_PERIOD": {Name: "DATE_OUT_OF_PERIOD", Category: hafas.CategoryInvalidRequest, Message: "date/time is not in timetable or allowed period"},
	"SVC_NO_RESULT":       {Name: "NO_RESULT", Category: hafas.CategoryNotFound, Message: "no result found"},
	"SVC_CTX":             {Name: "INVALID_CONTEXT", Category: hafas.CategoryInvalidRequest, Message: "context is invalid or expired"},

	"API_AUTH":   {Name: "ACCESS_DENIED", Category: hafas.CategoryUnauthorized, Message: "access denied, invalid accessId"},
	"API_QUOTA":  {Name: "QUOTA_EXCEEDED", Category: hafas.CategoryQuota, Message: "quota exceeded"},
	"API_PARAM":  {Name: "INVALID_PARAMETER", Category: hafas.CategoryInvalidRequest, Message: "invalid or missing request parameter"},
	"API_FORMAT": {Name: "INVALID_FORMAT", Category: hafas.CategoryInvalidRequest, Message: "requested response format not supported"},

	"R0001": {Name: "UNKNOWN_SERVICE", Category: hafas.CategoryInvalidRequest, Message: "unknown service method"},
	"R0002": {Name: "INVALID_REQUEST", Category: hafas.CategoryInvalidRequest, Message: "invalid or missing request parameters"},
	"R0007": {Name: "INTERNAL_ERROR", Category: hafas.CategoryServer, IsServer: true, Message: "internal communication error"},
}

// Default returns a copy of the table.
func Default() map[string]hafas.ErrorInfo {
	return maps.Clone(table)
}

// With returns the default table extended, and for equal codes overridden,
// by extra.
func With(extra map[string]hafas.ErrorInfo) map[string]hafas.ErrorInfo {
	out := Default()
	maps.Copy(out, extra)
	return out
}

// Lookup returns the entry for code.
func Lookup(code string) (hafas.ErrorInfo, bool) {
	info, ok := table[code]
	return info, ok
}
