package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

var errLatLonRequired = errors.New("latitude and longitude are required")

type handlers struct {
	st *state
}

// begin snapshots the client and tags the request for the access log.
func (h handlers) begin(c *gin.Context, method string) *hafas.Client {
	c.Set(ctxOperator, h.st.Operator())
	c.Set(ctxHafasMethod, method)
	return h.st.Client()
}

func (h handlers) finish(c *gin.Context, err error, results int, v any) {
	if err != nil {
		renderError(c, err)
		return
	}
	c.Set(ctxResults, results)
	renderJSON(c, http.StatusOK, v)
}

func (h handlers) locations(c *gin.Context) {
	client := h.begin(c, "location.name")
	p := newParams(c)
	query := p.String("query")
	opt := hafas.LocationsOptions{
		Fuzzy:     p.Bool("fuzzy"),
		Results:   p.Int("results"),
		Stops:     p.Bool("stops"),
		Addresses: p.Bool("addresses"),
		POI:       p.Bool("poi"),
		Language:  p.String("language"),
	}
	if p.err != nil {
		renderError(c, p.err)
		return
	}
	locs, err := client.Locations(c.Request.Context(), query, opt)
	h.finish(c, err, len(locs), locs)
}

func (h handlers) nearby(c *gin.Context) {
	client := h.begin(c, "location.nearbystops")
	profile := client.Profile()
	p := newParams(c)
	lat, hasLat := p.Float("latitude")
	lon, hasLon := p.Float("longitude")
	if !hasLat || !hasLon {
		p.fail("latitude", errLatLonRequired)
	}
	opt := hafas.NearbyOptions{
		Results:  p.Int("results"),
		Distance: p.Int("distance"),
		Stops:    p.Bool("stops"),
		POI:      p.Bool("poi"),
		Products: p.Products(&profile),
		Language: p.String("language"),
	}
	if p.err != nil {
		renderError(c, p.err)
		return
	}
	loc := hafas.Location{
		Type:     hafas.LocationTypeLocation,
		Location: &hafas.Coordinates{Latitude: lat, Longitude: lon},
	}
	locs, err := client.Nearby(c.Request.Context(), loc, opt)
	h.finish(c, err, len(locs), locs)
}

func (h handlers) board(dir hafas.Direction) gin.HandlerFunc {
	method := "departureBoard"
	if dir == hafas.DirectionArrival {
		method = "arrivalBoard"
	}
	return func(c *gin.Context) {
		client := h.begin(c, method)
		profile := client.Profile()
		p := newParams(c)
		opt := hafas.BoardOptions{
			When:      p.Time("when"),
			Duration:  p.Int("duration"),
			Results:   p.Int("results"),
			Direction: p.Location("direction"),
			Products:  p.Products(&profile),
			Stopovers: p.Bool("stopovers"),
			Remarks:   p.Bool("remarks"),
			Language:  p.String("language"),
		}
		if p.err != nil {
			renderError(c, p.err)
			return
		}
		stop := hafas.ByID(c.Param("id"))
		var (
			alts []hafas.Alternative
			err  error
		)
		if dir == hafas.DirectionArrival {
			alts, err = client.Arrivals(c.Request.Context(), stop, opt)
		} else {
			alts, err = client.Departures(c.Request.Context(), stop, opt)
		}
		h.finish(c, err, len(alts), alts)
	}
}

func (h handlers) journeys(c *gin.Context) {
	client := h.begin(c, "trip")
	profile := client.Profile()
	p := newParams(c)
	from := p.Location("from")
	to := p.Location("to")
	opt := hafas.JourneysOptions{
		Departure:    p.Time("departure"),
		Arrival:      p.Time("arrival"),
		EarlierThan:  p.String("earlierThan"),
		LaterThan:    p.String("laterThan"),
		Results:      p.Int("results"),
		Via:          p.Location("via"),
		Transfers:    p.IntPtr("transfers"),
		TransferTime: p.Int("transferTime"),
		Stopovers:    p.Bool("stopovers"),
		Polylines:    p.Bool("polylines"),
		Remarks:      p.Bool("remarks"),
		Products:     p.Products(&profile),
		Language:     p.String("language"),
	}
	if p.err != nil {
		renderError(c, p.err)
		return
	}
	res, err := client.Journeys(c.Request.Context(), from, to, opt)
	h.finish(c, err, len(res.Journeys), res)
}

type profileView struct {
	Operator string             `json:"operator"`
	Endpoint string             `json:"endpoint"`
	Language string             `json:"language"`
	Timezone string             `json:"timezone"`
	Products []hafas.ProductDef `json:"products"`
}

func (h handlers) profile(c *gin.Context) {
	c.Set(ctxOperator, h.st.Operator())
	p := h.st.Client().Profile()
	renderJSON(c, http.StatusOK, profileView{
		Operator: h.st.Operator(),
		Endpoint: p.Endpoint,
		Language: p.Language,
		Timezone: p.Location().String(),
		Products: p.Products,
	})
}

func (h handlers) healthz(c *gin.Context) {
	renderJSON(c, http.StatusOK, gin.H{
		"ok":       true,
		"operator": strings.TrimSpace(h.st.Operator()),
		"uptime_s": int64(time.Since(h.st.startedAt).Seconds()),
	})
}
