package hafas

import "strings"

// Merge shallow-merges profile layers. For every capability the value of the
// last layer that sets it wins; unset (zero) values never shadow earlier ones.
// Slices and maps are taken whole from the winning layer, not merged.
func Merge(layers ...Profile) Profile {
	var out Profile
	for _, l := range layers {
		out.Endpoint = pick(out.Endpoint, l.Endpoint)
		out.AccessID = pick(out.AccessID, l.AccessID)
		out.UserAgent = pick(out.UserAgent, l.UserAgent)
		out.Language = pick(out.Language, l.Language)
		if l.Timezone != nil {
			out.Timezone = l.Timezone
		}
		if len(l.Products) > 0 {
			out.Products = l.Products
		}
		if len(l.ErrorCodes) > 0 {
			out.ErrorCodes = l.ErrorCodes
		}

		if l.FormatDate != nil {
			out.FormatDate = l.FormatDate
		}
		if l.FormatTime != nil {
			out.FormatTime = l.FormatTime
		}
		if l.FormatLocation != nil {
			out.FormatLocation = l.FormatLocation
		}
		if l.FormatLocationFilter != nil {
			out.FormatLocationFilter = l.FormatLocationFilter
		}
		if l.FormatProductsBitmask != nil {
			out.FormatProductsBitmask = l.FormatProductsBitmask
		}

		if l.ParseLocation != nil {
			out.ParseLocation = l.ParseLocation
		}
		if l.ParseJourney != nil {
			out.ParseJourney = l.ParseJourney
		}
		if l.ParseJourneyLeg != nil {
			out.ParseJourneyLeg = l.ParseJourneyLeg
		}
		if l.ParseStopover != nil {
			out.ParseStopover = l.ParseStopover
		}
		if l.ParseArrivalOrDeparture != nil {
			out.ParseArrivalOrDeparture = l.ParseArrivalOrDeparture
		}
		if l.ParseWhen != nil {
			out.ParseWhen = l.ParseWhen
		}
		if l.ParseLine != nil {
			out.ParseLine = l.ParseLine
		}
		if l.ParsePolyline != nil {
			out.ParsePolyline = l.ParsePolyline
		}
		if l.ParseHint != nil {
			out.ParseHint = l.ParseHint
		}
	}
	return out
}

func pick(cur, next string) string {
	if strings.TrimSpace(next) != "" {
		return next
	}
	return cur
}

// Compose merges DefaultProfile() < operator < funcs < overrides and checks
// the result. On failure it returns a *MissingCapabilitiesError listing every
// absent capability.
func Compose(operator, funcs, overrides Profile) (Profile, error) {
	p := Merge(DefaultProfile(), operator, funcs, overrides)
	if missing := p.Missing(); len(missing) > 0 {
		return Profile{}, &MissingCapabilitiesError{Missing: missing}
	}
	return p, nil
}

// Missing lists the required capabilities p lacks, in a fixed order.
func (p Profile) Missing() []string {
	var missing []string
	need := func(ok bool, name string) {
		if !ok {
			missing = append(missing, name)
		}
	}
	need(strings.TrimSpace(p.Endpoint) != "", "endpoint")
	need(strings.TrimSpace(p.AccessID) != "", "accessId")
	need(strings.TrimSpace(p.UserAgent) != "", "userAgent")
	need(p.FormatDate != nil, "formatDate")
	need(p.FormatTime != nil, "formatTime")
	need(p.FormatLocation != nil, "formatLocation")
	need(p.FormatLocationFilter != nil, "formatLocationFilter")
	need(p.FormatProductsBitmask != nil, "formatProductsBitmask")
	need(p.ParseLocation != nil, "parseLocation")
	need(p.ParseJourney != nil, "parseJourney")
	need(p.ParseJourneyLeg != nil, "parseJourneyLeg")
	need(p.ParseStopover != nil, "parseStopover")
	need(p.ParseArrivalOrDeparture != nil, "parseArrivalOrDeparture")
	need(p.ParseWhen != nil, "parseWhen")
	need(p.ParseLine != nil, "parseLine")
	need(p.ParsePolyline != nil, "parsePolyline")
	need(p.ParseHint != nil, "parseHint")
	return missing
}
