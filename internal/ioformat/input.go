// Package ioformat binds external JSON input into a
// pkg/planning.Planning, and renders optimisation results back out as
// the three result views planners expect: which scheduled legs were
// used, which ad-hoc legs were synthesized, and which route each order's
// containers actually took.
package ioformat

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/adhoc"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/models"
	"github.com/vives-ai/synergie-optimalisation-algorithms/pkg/planning"
)

// timeLayout matches the original tool's "%m-%d-%Y %H:%M:%S" strptime format.
const timeLayout = "01-02-2006 15:04:05"

var validate = validator.New()

// LegInput describes one scheduled timetable leg, keyed to named
// locations carrying their role suffix (e.g. "Antwerp Terminal").
type LegInput struct {
	Van           string  `json:"van" validate:"required"`
	Naar          string  `json:"naar" validate:"required"`
	Dag           string  `json:"dag" validate:"required"`
	Checkin       string  `json:"checkin" validate:"required"`
	Vertrek       string  `json:"vertrek"`
	DuurUren      float64 `json:"duur_uren" validate:"gte=0"`
	DuurMinuten   float64 `json:"duur_minuten" validate:"gte=0"`
	ContainerType string  `json:"containertype" validate:"required"`
	Aantal        int     `json:"aantal" validate:"gte=0"`
	Prijs         float64 `json:"prijs" validate:"gte=0"`
	CO2           float64 `json:"co2" validate:"gte=0"`
}

// OrderInput describes one order's demand and time windows.
type OrderInput struct {
	Van               string  `json:"van" validate:"required"`
	Naar              string  `json:"naar" validate:"required"`
	MinOphaalTijd     string  `json:"minOphaalTijd" validate:"required"`
	MaxOphaalTijd     string  `json:"maxOphaalTijd" validate:"required"`
	MinLeverTijd      string  `json:"minLeverTijd" validate:"required"`
	MaxLeverTijd      string  `json:"maxLeverTijd" validate:"required"`
	UitersteLeverTijd string  `json:"uitersteLeverTijd" validate:"required"`
	EmissieFactor     float64 `json:"emissieFactor" validate:"gte=0"`
	BoeteTeVroeg      float64 `json:"boeteTeVroeg" validate:"gte=0"`
	BoeteTeLaat       float64 `json:"boeteTeLaat" validate:"gte=0"`
	ContainerType     string  `json:"containertype" validate:"required"`
	Aantal            int     `json:"aantal" validate:"gt=0"`
}

// AdhocLegProperties configures the ad-hoc road leg tariff model.
type AdhocLegProperties struct {
	Snelheid          float64 `json:"snelheid" validate:"gt=0"`
	Starttarief       float64 `json:"starttarief" validate:"gte=0"`
	Tarief            float64 `json:"tarief" validate:"gte=0"`
	CO2               float64 `json:"co2" validate:"gte=0"`
	VoorEnNaTransport float64 `json:"voorEnNaTransport" validate:"gte=0"`
	ContainerGewicht  float64 `json:"containergewicht" validate:"gte=0"`
}

// JSONInput is the top-level shape bound from a planning run's input
// document.
type JSONInput struct {
	Legs                []LegInput             `json:"legs" validate:"required,dive"`
	Orders              []OrderInput           `json:"orders" validate:"required,dive"`
	AdHocLegProperties  AdhocLegProperties     `json:"adHocLegProperties" validate:"required"`
	AdHocLegAfstanden   map[string]map[string]float64 `json:"adHocLegAfstanden" validate:"required"`
}

// BindJSON decodes and validates a JSON planning input document.
func BindJSON(r io.Reader) (*JSONInput, error) {
	var in JSONInput
	if err := json.NewDecoder(r).Decode(&in); err != nil {
		return nil, fmt.Errorf("ioformat: decoding json input: %w", err)
	}
	if err := validate.Struct(in); err != nil {
		return nil, fmt.Errorf("ioformat: invalid input: %w", err)
	}
	return &in, nil
}

// normalizeLocation splits a "Name Role" string into its name and role.
// The role is the last token, compared case-insensitively: terminal or t,
// shipper, verlader or v, depot, emptydepot or e, or the two tokens
// "Empty Depot". The name is kept as written.
func normalizeLocation(raw string) (name string, role models.LocationRole, err error) {
	parts := strings.Fields(raw)
	if len(parts) < 2 {
		return "", "", fmt.Errorf("ioformat: malformed location %q, expected \"Name Role\"", raw)
	}
	last := len(parts) - 1
	switch strings.ToLower(parts[last]) {
	case "terminal", "t":
		role = models.Terminal
	case "shipper", "verlader", "v":
		role = models.Shipper
	case "depot", "emptydepot", "e":
		role = models.EmptyDepot
		if last >= 2 && strings.EqualFold(parts[last-1], "empty") {
			last--
		}
	default:
		return "", "", fmt.Errorf("ioformat: unknown location role %q in %q", parts[len(parts)-1], raw)
	}
	name = strings.Join(parts[:last], " ")
	return name, role, nil
}

// ToPlanning builds a fully populated Planning from a bound JSONInput,
// a distance matrix for ad-hoc leg synthesis, and a reference date used
// to anchor each leg's weekday into an absolute timetable (legs only
// carry a day-of-week and time of day, not a calendar date).
func (in *JSONInput) ToPlanning(naam string, periodeStart time.Time) (*planning.Planning, *adhoc.Synthesizer, error) {
	p := planning.New(naam)

	locations := make(map[string]models.Location)
	containerTypes := make(map[string]models.ContainerType)

	ensureLocation := func(raw string) (models.Location, error) {
		if loc, ok := locations[raw]; ok {
			return loc, nil
		}
		name, role, err := normalizeLocation(raw)
		if err != nil {
			return models.Location{}, err
		}
		loc := p.AddLocation(name, role)
		locations[raw] = loc
		return loc, nil
	}

	ensureContainerType := func(raw string) models.ContainerType {
		key := strings.ToLower(strings.TrimSpace(raw))
		if ct, ok := containerTypes[key]; ok {
			return ct
		}
		ct := p.AddContainerType(key, in.AdHocLegProperties.ContainerGewicht)
		containerTypes[key] = ct
		return ct
	}

	dagen := map[string]time.Weekday{
		"maandag": time.Monday, "dinsdag": time.Tuesday, "woensdag": time.Wednesday,
		"donderdag": time.Thursday, "vrijdag": time.Friday, "zaterdag": time.Saturday, "zondag": time.Sunday,
	}

	for _, l := range in.Legs {
		van, err := ensureLocation(l.Van)
		if err != nil {
			return nil, nil, err
		}
		naar, err := ensureLocation(l.Naar)
		if err != nil {
			return nil, nil, err
		}
		ct := ensureContainerType(l.ContainerType)

		checkinTOD, err := time.Parse(timeLayout, l.Checkin)
		if err != nil {
			return nil, nil, fmt.Errorf("ioformat: leg checkin: %w", err)
		}
		vertrekTOD := checkinTOD
		if l.Vertrek != "" {
			vertrekTOD, err = time.Parse(timeLayout, l.Vertrek)
			if err != nil {
				return nil, nil, fmt.Errorf("ioformat: leg vertrek: %w", err)
			}
		}
		duur := time.Duration(l.DuurUren*3600+l.DuurMinuten*60) * time.Second

		weekday, ok := dagen[strings.ToLower(strings.TrimSpace(l.Dag))]
		if !ok {
			return nil, nil, fmt.Errorf("ioformat: unknown weekday %q", l.Dag)
		}
		checkin, vertrek, aankomst := bepaalTijden(periodeStart, weekday, checkinTOD, vertrekTOD, duur)

		leg := p.AddLeg(models.Leg{Van: van, Naar: naar, Checkin: checkin, Vertrek: vertrek, Aankomst: aankomst, Dag: l.Dag})
		p.AddLegCapacity(leg, l.Aantal, ct, l.Prijs, l.CO2, false)
	}

	for _, o := range in.Orders {
		van, err := ensureLocation(o.Van)
		if err != nil {
			return nil, nil, err
		}
		naar, err := ensureLocation(o.Naar)
		if err != nil {
			return nil, nil, err
		}
		ct := ensureContainerType(o.ContainerType)

		times := make([]time.Time, 5)
		raws := []string{o.MinOphaalTijd, o.MaxOphaalTijd, o.MinLeverTijd, o.MaxLeverTijd, o.UitersteLeverTijd}
		for i, raw := range raws {
			t, err := time.Parse(timeLayout, raw)
			if err != nil {
				return nil, nil, fmt.Errorf("ioformat: order time window: %w", err)
			}
			times[i] = t
		}

		order := models.Order{
			Van: van, Naar: naar,
			MinOphaaltijd: times[0], MaxOphaaltijd: times[1],
			MinLevertijd: times[2], MaxLevertijd: times[3], UitersteLevertijd: times[4],
			Emissiefactor: o.EmissieFactor, BoeteTeVroeg: o.BoeteTeVroeg, BoeteTeLaat: o.BoeteTeLaat,
		}
		if err := order.Validate(); err != nil {
			return nil, nil, fmt.Errorf("ioformat: invalid order: %w", err)
		}

		added := p.AddOrder(order)
		p.AddOrderCapacity(added, o.Aantal, ct)
	}

	distances := adhoc.NewMapDistanceMatrix()
	for van, row := range in.AdHocLegAfstanden {
		vanNaam := van
		if name, _, err := normalizeLocation(van); err == nil {
			vanNaam = name
		}
		for naar, km := range row {
			naarNaam := naar
			if name, _, err := normalizeLocation(naar); err == nil {
				naarNaam = name
			}
			distances.Set(vanNaam, naarNaam, km)
		}
	}
	synth := adhoc.NewSynthesizer(distances,
		in.AdHocLegProperties.Starttarief, in.AdHocLegProperties.Tarief,
		in.AdHocLegProperties.Snelheid, in.AdHocLegProperties.CO2)
	synth.ExtraTransportKm = in.AdHocLegProperties.VoorEnNaTransport

	return p, synth, nil
}

// bepaalTijden resolves a leg's day-of-week/time-of-day schedule into
// absolute timestamps on the first date on or after periodeStart that
// falls on weekday. If
// departure time-of-day is earlier than check-in time-of-day, the leg is
// assumed to depart the following calendar day (an overnight check-in).
func bepaalTijden(periodeStart time.Time, weekday time.Weekday, checkinTOD, vertrekTOD time.Time, duur time.Duration) (checkin, vertrek, aankomst time.Time) {
	daysAhead := int(weekday - periodeStart.Weekday())
	if daysAhead < 0 {
		daysAhead += 7
	}
	checkinDate := periodeStart.AddDate(0, 0, daysAhead)
	checkin = time.Date(checkinDate.Year(), checkinDate.Month(), checkinDate.Day(),
		checkinTOD.Hour(), checkinTOD.Minute(), checkinTOD.Second(), 0, periodeStart.Location())

	vertrekDate := checkinDate
	if vertrekTOD.Before(checkinTOD) {
		vertrekDate = checkinDate.AddDate(0, 0, 1)
	}
	vertrek = time.Date(vertrekDate.Year(), vertrekDate.Month(), vertrekDate.Day(),
		vertrekTOD.Hour(), vertrekTOD.Minute(), vertrekTOD.Second(), 0, periodeStart.Location())

	aankomst = vertrek.Add(duur)
	return checkin, vertrek, aankomst
}
