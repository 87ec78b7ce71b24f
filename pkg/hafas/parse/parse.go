// Package parse holds the default parsers and formatters for the ReST dialect
// of HAFAS. Functions returns them as a profile layer.
package parse

import "github.com/r9s-ai/hafas-rest-client/pkg/hafas"

// Functions returns a profile layer carrying every default parser and
// formatter, meant to sit between the operator layer and caller overrides.
func Functions() hafas.Profile {
	return hafas.Profile{
		FormatDate:            FormatDate,
		FormatTime:            FormatTime,
		FormatLocation:        FormatLocation,
		FormatLocationFilter:  FormatLocationFilter,
		FormatProductsBitmask: FormatProductsBitmask,

		ParseLocation:           ParseLocation,
		ParseJourney:            ParseJourney,
		ParseJourneyLeg:         ParseJourneyLeg,
		ParseStopover:           ParseStopover,
		ParseArrivalOrDeparture: ParseArrivalOrDeparture,
		ParseWhen:               ParseWhen,
		ParseLine:               ParseLine,
		ParsePolyline:           ParsePolyline,
		ParseHint:               ParseHint,
	}
}
