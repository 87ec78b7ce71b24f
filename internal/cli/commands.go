package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/r9s-ai/hafas-rest-client/pkg/hafas"
)

// parseLocationArg reads "<stop id>" or "<lat>,<lon>[,<address>]".
func parseLocationArg(s string) (hafas.LocationRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return hafas.LocationRef{}, nil
	}
	parts := strings.SplitN(s, ",", 3)
	if len(parts) < 2 {
		return hafas.ByID(s), nil
	}
	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lon, errLon := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLon != nil {
		// HAFAS ids may contain commas only in their long form.
		return hafas.ByID(s), nil
	}
	loc := hafas.Location{
		Type:     hafas.LocationTypeLocation,
		Location: &hafas.Coordinates{Latitude: lat, Longitude: lon},
	}
	if len(parts) == 3 {
		loc.Address = strings.TrimSpace(parts[2])
	}
	return hafas.At(loc), nil
}

func parseWhenArg(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if s == "now" {
		t := time.Now()
		return &t, nil
	}
	if d, err := time.ParseDuration(s); err == nil {
		t := time.Now().Add(d)
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid time %q: use RFC 3339, \"now\" or a duration like 30m", s)
	}
	return &t, nil
}

// optBool returns nil unless the flag was set, so option defaults apply.
func optBool(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		return nil
	}
	return &v
}

func productsFilter(p hafas.Profile, csv string) map[string]bool {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	return p.OnlyProducts(strings.Split(csv, ",")...)
}

func newLocationsCmd(root *rootOptions) *cobra.Command {
	var results int
	cmd := &cobra.Command{
		Use:   "locations <query>",
		Short: "Search stops, addresses and points of interest by name",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := root.client(cmd)
			if err != nil {
				return err
			}
			locs, err := c.Locations(cmd.Context(), strings.Join(args, " "), hafas.LocationsOptions{
				Fuzzy:     optBool(cmd, "fuzzy"),
				Results:   results,
				Stops:     optBool(cmd, "stops"),
				Addresses: optBool(cmd, "addresses"),
				POI:       optBool(cmd, "poi"),
			})
			if err != nil {
				return err
			}
			if root.json {
				return printJSON(cmd.OutOrStdout(), locs)
			}
			return printTable(cmd.OutOrStdout(), []string{"type", "id", "name", "coordinates", "distance"}, locationRows(locs))
		},
	}
	fs := cmd.Flags()
	fs.IntVarP(&results, "results", "n", 0, "max results (default 5)")
	fs.Bool("fuzzy", true, "append the wildcard to the query")
	fs.Bool("stops", true, "include stops")
	fs.Bool("addresses", true, "include addresses")
	fs.Bool("poi", true, "include points of interest")
	return cmd
}

func newNearbyCmd(root *rootOptions) *cobra.Command {
	var (
		lat, lon          float64
		results, distance int
		products          string
	)
	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "Find stops around a position",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := root.client(cmd)
			if err != nil {
				return err
			}
			locs, err := c.Nearby(cmd.Context(), hafas.Location{
				Type:     hafas.LocationTypeLocation,
				Location: &hafas.Coordinates{Latitude: lat, Longitude: lon},
			}, hafas.NearbyOptions{
				Results:  results,
				Distance: distance,
				Stops:    optBool(cmd, "stops"),
				POI:      optBool(cmd, "poi"),
				Products: productsFilter(c.Profile(), products),
			})
			if err != nil {
				return err
			}
			if root.json {
				return printJSON(cmd.OutOrStdout(), locs)
			}
			return printTable(cmd.OutOrStdout(), []string{"type", "id", "name", "coordinates", "distance"}, locationRows(locs))
		},
	}
	fs := cmd.Flags()
	fs.Float64Var(&lat, "lat", 0, "latitude")
	fs.Float64Var(&lon, "lon", 0, "longitude")
	fs.IntVarP(&results, "results", "n", 0, "max results (default 8)")
	fs.IntVar(&distance, "distance", 0, "radius in meters (default 1000)")
	fs.Bool("stops", true, "include stops")
	fs.Bool("poi", false, "include points of interest")
	fs.StringVar(&products, "products", "", "only these products, comma separated")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	return cmd
}

type boardFlags struct {
	when      string
	duration  int
	results   int
	direction string
	products  string
}

func (f *boardFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.when, "when", "", "RFC 3339 time, \"now\" or an offset like 30m")
	fs.IntVar(&f.duration, "duration", 0, "time window in minutes (default 10)")
	fs.IntVarP(&f.results, "results", "n", 0, "max entries")
	fs.StringVar(&f.direction, "direction", "", "only vehicles passing this stop id")
	fs.StringVar(&f.products, "products", "", "only these products, comma separated")
	fs.Bool("stopovers", false, "include the following stops")
	fs.Bool("remarks", true, "include remarks")
}

func (f *boardFlags) options(cmd *cobra.Command, p hafas.Profile) (hafas.BoardOptions, error) {
	when, err := parseWhenArg(f.when)
	if err != nil {
		return hafas.BoardOptions{}, err
	}
	return hafas.BoardOptions{
		When:      when,
		Duration:  f.duration,
		Results:   f.results,
		Direction: hafas.ByID(f.direction),
		Products:  productsFilter(p, f.products),
		Stopovers: optBool(cmd, "stopovers"),
		Remarks:   optBool(cmd, "remarks"),
	}, nil
}

func newBoardCmd(root *rootOptions, dir hafas.Direction) *cobra.Command {
	var flags boardFlags
	use, short := "departures <stop id>", "Show the departures at a stop"
	if dir == hafas.DirectionArrival {
		use, short = "arrivals <stop id>", "Show the arrivals at a stop"
	}
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, _, err := root.client(cmd)
			if err != nil {
				return err
			}
			p := c.Profile()
			opt, err := flags.options(cmd, p)
			if err != nil {
				return err
			}
			stop := hafas.ByID(args[0])
			var alts []hafas.Alternative
			if dir == hafas.DirectionArrival {
				alts, err = c.Arrivals(cmd.Context(), stop, opt)
			} else {
				alts, err = c.Departures(cmd.Context(), stop, opt)
			}
			if err != nil {
				return err
			}
			if root.json {
				return printJSON(cmd.OutOrStdout(), alts)
			}
			headsign := "direction"
			if dir == hafas.DirectionArrival {
				headsign = "from"
			}
			return printTable(cmd.OutOrStdout(), []string{"planned", "delay", "line", headsign, "platform"}, boardRows(alts, dir, p.Location()))
		},
	}
	flags.register(cmd)
	return cmd
}

func newJourneysCmd(root *rootOptions) *cobra.Command {
	var (
		from, to, via         string
		departure, arrival    string
		earlier, later        string
		results, transferTime int
		transfers             int
		products              string
	)
	cmd := &cobra.Command{
		Use:   "journeys",
		Short: "Search journeys between two locations",
		Example: "  hafas journeys --from 900100003 --to 52.5,13.3,\"Hauptstr. 1\"\n" +
			"  hafas journeys --from 900100003 --to 900023201 --later <laterRef>",
		RunE: func(cmd *cobra.Command, args []string) error {
			fromRef, err := parseLocationArg(from)
			if err != nil {
				return err
			}
			toRef, err := parseLocationArg(to)
			if err != nil {
				return err
			}
			depTime, err := parseWhenArg(departure)
			if err != nil {
				return err
			}
			arrTime, err := parseWhenArg(arrival)
			if err != nil {
				return err
			}
			c, _, err := root.client(cmd)
			if err != nil {
				return err
			}
			p := c.Profile()
			opt := hafas.JourneysOptions{
				Departure:    depTime,
				Arrival:      arrTime,
				EarlierThan:  earlier,
				LaterThan:    later,
				Results:      results,
				Via:          hafas.ByID(via),
				TransferTime: transferTime,
				Stopovers:    optBool(cmd, "stopovers"),
				Polylines:    optBool(cmd, "polylines"),
				Remarks:      optBool(cmd, "remarks"),
				Products:     productsFilter(p, products),
			}
			if cmd.Flags().Changed("transfers") {
				opt.Transfers = hafas.Int(transfers)
			}
			res, err := c.Journeys(cmd.Context(), fromRef, toRef, opt)
			if err != nil {
				return err
			}
			if root.json {
				return printJSON(cmd.OutOrStdout(), res)
			}
			if err := printTable(cmd.OutOrStdout(), []string{"#", "departure", "arrival", "changes", "legs"}, journeyRows(res.Journeys, p.Location())); err != nil {
				return err
			}
			if res.EarlierRef != "" || res.LaterRef != "" {
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "earlier: %s\nlater: %s\n", res.EarlierRef, res.LaterRef)
			}
			return err
		},
	}
	fs := cmd.Flags()
	fs.StringVar(&from, "from", "", "origin: stop id or lat,lon[,address]")
	fs.StringVar(&to, "to", "", "destination: stop id or lat,lon[,address]")
	fs.StringVar(&via, "via", "", "via stop id")
	fs.StringVar(&departure, "departure", "", "depart at: RFC 3339 time, \"now\" or an offset like 30m")
	fs.StringVar(&arrival, "arrival", "", "arrive by: RFC 3339 time, \"now\" or an offset")
	fs.StringVar(&earlier, "earlier", "", "earlier ref of a previous search")
	fs.StringVar(&later, "later", "", "later ref of a previous search")
	fs.IntVarP(&results, "results", "n", 0, "number of journeys")
	fs.IntVar(&transfers, "transfers", 0, "max number of changes")
	fs.IntVar(&transferTime, "transfer-time", 0, "min change time in minutes")
	fs.StringVar(&products, "products", "", "only these products, comma separated")
	fs.Bool("stopovers", false, "include intermediate stops")
	fs.Bool("polylines", false, "include leg shapes")
	fs.Bool("remarks", true, "include remarks")
	return cmd
}

func newProfileCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the composed profile of the selected operator",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, cfg, err := root.client(cmd)
			if err != nil {
				return err
			}
			p := c.Profile()
			if root.json {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"operator": cfg.Operator,
					"endpoint": p.Endpoint,
					"language": p.Language,
					"timezone": p.Location().String(),
					"products": p.Products,
				})
			}
			w := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(w, "operator: %s\nendpoint: %s\nlanguage: %s\ntimezone: %s\n", cfg.Operator, p.Endpoint, p.Language, p.Location())
			rows := make([][]string, 0, len(p.Products))
			for _, d := range p.Products {
				masks := make([]string, 0, len(d.Bitmasks))
				for _, m := range d.Bitmasks {
					masks = append(masks, strconv.Itoa(m))
				}
				rows = append(rows, []string{d.ID, d.Mode, d.Name, strings.Join(masks, "|"), strconv.FormatBool(d.Default)})
			}
			return printTable(w, []string{"product", "mode", "name", "bitmask", "default"}, rows)
		},
	}
}
