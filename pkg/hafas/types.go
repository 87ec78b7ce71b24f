package hafas

import "time"

// Coordinates is a WGS84 position.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location types.
const (
	LocationTypeStop     = "stop"
	LocationTypeLocation = "location"
)

// Location is a stop, an address or a point of interest.
type Location struct {
	Type     string          `json:"type"`
	ID       string          `json:"id,omitempty"`
	Name     string          `json:"name,omitempty"`
	Address  string          `json:"address,omitempty"`
	POI      bool            `json:"poi,omitempty"`
	Location *Coordinates    `json:"location,omitempty"`
	Products map[string]bool `json:"products,omitempty"`
	// Distance in meters, set by nearby searches.
	Distance int `json:"distance,omitempty"`
	Weight   int `json:"weight,omitempty"`
}

// IsStop reports whether l is a stop.
func (l Location) IsStop() bool { return l.Type == LocationTypeStop }

// Operator runs a line.
type Operator struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

// Line is a public transport line.
type Line struct {
	Type     string    `json:"type"`
	ID       string    `json:"id,omitempty"`
	FahrtNr  string    `json:"fahrtNr,omitempty"`
	Name     string    `json:"name,omitempty"`
	Public   bool      `json:"public"`
	Mode     string    `json:"mode,omitempty"`
	Product  string    `json:"product,omitempty"`
	Operator *Operator `json:"operator,omitempty"`
}

// Hint is a remark attached to a departure, leg, stopover or journey.
type Hint struct {
	Type     string `json:"type"`
	Code     string `json:"code,omitempty"`
	Text     string `json:"text"`
	Priority int    `json:"priority,omitempty"`
}

// When is a planned time with optional realtime data.
type When struct {
	When    *time.Time
	Planned *time.Time
	// Delay in seconds, nil without realtime data.
	Delay *int
}

// Stopover is a stop passed or served by a vehicle.
type Stopover struct {
	Stop                     Location   `json:"stop"`
	Arrival                  *time.Time `json:"arrival,omitempty"`
	PlannedArrival           *time.Time `json:"plannedArrival,omitempty"`
	ArrivalDelay             *int       `json:"arrivalDelay,omitempty"`
	ArrivalPlatform          string     `json:"arrivalPlatform,omitempty"`
	PlannedArrivalPlatform   string     `json:"plannedArrivalPlatform,omitempty"`
	Departure                *time.Time `json:"departure,omitempty"`
	PlannedDeparture         *time.Time `json:"plannedDeparture,omitempty"`
	DepartureDelay           *int       `json:"departureDelay,omitempty"`
	DeparturePlatform        string     `json:"departurePlatform,omitempty"`
	PlannedDeparturePlatform string     `json:"plannedDeparturePlatform,omitempty"`
	Cancelled                bool       `json:"cancelled,omitempty"`
	Remarks                  []Hint     `json:"remarks,omitempty"`
}

// Alternative is one entry of an arrival or departure board.
type Alternative struct {
	TripID          string     `json:"tripId"`
	Stop            Location   `json:"stop"`
	When            *time.Time `json:"when"`
	PlannedWhen     *time.Time `json:"plannedWhen"`
	Delay           *int       `json:"delay"`
	Platform        string     `json:"platform,omitempty"`
	PlannedPlatform string     `json:"plannedPlatform,omitempty"`
	// Direction is set on departures, Provenance on arrivals.
	Direction  string     `json:"direction,omitempty"`
	Provenance string     `json:"provenance,omitempty"`
	Line       *Line      `json:"line,omitempty"`
	Cancelled  bool       `json:"cancelled,omitempty"`
	Remarks    []Hint     `json:"remarks,omitempty"`
	Stopovers  []Stopover `json:"nextStopovers,omitempty"`
}

// Leg is one directly travelled part of a journey.
type Leg struct {
	TripID                   string        `json:"tripId,omitempty"`
	Origin                   Location      `json:"origin"`
	Destination              Location      `json:"destination"`
	Departure                *time.Time    `json:"departure"`
	PlannedDeparture         *time.Time    `json:"plannedDeparture"`
	DepartureDelay           *int          `json:"departureDelay"`
	DeparturePlatform        string        `json:"departurePlatform,omitempty"`
	PlannedDeparturePlatform string        `json:"plannedDeparturePlatform,omitempty"`
	Arrival                  *time.Time    `json:"arrival"`
	PlannedArrival           *time.Time    `json:"plannedArrival"`
	ArrivalDelay             *int          `json:"arrivalDelay"`
	ArrivalPlatform          string        `json:"arrivalPlatform,omitempty"`
	PlannedArrivalPlatform   string        `json:"plannedArrivalPlatform,omitempty"`
	Line                     *Line         `json:"line,omitempty"`
	Direction                string        `json:"direction,omitempty"`
	Walking                  bool          `json:"walking,omitempty"`
	Transfer                 bool          `json:"transfer,omitempty"`
	Distance                 int           `json:"distance,omitempty"`
	Cancelled                bool          `json:"cancelled,omitempty"`
	Stopovers                []Stopover    `json:"stopovers,omitempty"`
	Remarks                  []Hint        `json:"remarks,omitempty"`
	Polyline                 []Coordinates `json:"polyline,omitempty"`
}

// ServiceDays describes on which days a journey runs.
type ServiceDays struct {
	Regular   string `json:"regular,omitempty"`
	Irregular string `json:"irregular,omitempty"`
}

// Journey is a way from A to B.
type Journey struct {
	Type         string       `json:"type"`
	Legs         []Leg        `json:"legs"`
	RefreshToken string       `json:"refreshToken,omitempty"`
	Remarks      []Hint       `json:"remarks,omitempty"`
	ServiceDays  *ServiceDays `json:"serviceDays,omitempty"`
}

// Journeys is the result of a journey search.
type Journeys struct {
	EarlierRef string    `json:"earlierRef,omitempty"`
	LaterRef   string    `json:"laterRef,omitempty"`
	Journeys   []Journey `json:"journeys"`
}
