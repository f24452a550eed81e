package weather

import (
	"encoding/json"
	"fmt"
)

// Reading is the current-weather payload returned by the upstream provider.
// Only the fields the agent reads are typed; the original body is retained
// so a Reading marshals back to exactly what the provider sent.
type Reading struct {
	Name    string      `json:"name"`
	Sys     *SysInfo    `json:"sys,omitempty"`
	Main    *MainInfo   `json:"main,omitempty"`
	Weather []Condition `json:"weather,omitempty"`
	Wind    *WindInfo   `json:"wind,omitempty"`

	raw json.RawMessage
}

type SysInfo struct {
	Country string `json:"country"`
}

type MainInfo struct {
	Temp     float64 `json:"temp"`     // °C (units=metric)
	Humidity int     `json:"humidity"` // percent
}

// Condition is one entry of the upstream "weather" array.
type Condition struct {
	Main        string `json:"main,omitempty"`
	Description string `json:"description"`
}

type WindInfo struct {
	Speed float64 `json:"speed"` // m/s (units=metric)
}

// readingFields has Reading's layout without its methods.
type readingFields Reading

func (r *Reading) UnmarshalJSON(b []byte) error {
	var f readingFields
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	*r = Reading(f)
	r.raw = append(json.RawMessage(nil), b...)
	return nil
}

func (r Reading) MarshalJSON() ([]byte, error) {
	if len(r.raw) > 0 {
		return r.raw, nil
	}
	return json.Marshal(readingFields(r))
}

// Summary is the flattened view of a Reading used by the GET_WEATHER action.
type Summary struct {
	Location    string  `json:"location"`
	Country     string  `json:"country"`
	Temperature float64 `json:"temperature"`
	Description string  `json:"description"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
}

// Summary flattens the reading. It fails with ErrMalformedReading when the
// provider omitted any of the nested objects the summary is built from.
func (r *Reading) Summary() (Summary, error) {
	switch {
	case r == nil:
		return Summary{}, fmt.Errorf("%w: empty reading", ErrMalformedReading)
	case r.Sys == nil:
		return Summary{}, fmt.Errorf("%w: missing sys", ErrMalformedReading)
	case r.Main == nil:
		return Summary{}, fmt.Errorf("%w: missing main", ErrMalformedReading)
	case len(r.Weather) == 0:
		return Summary{}, fmt.Errorf("%w: missing weather[0]", ErrMalformedReading)
	case r.Wind == nil:
		return Summary{}, fmt.Errorf("%w: missing wind", ErrMalformedReading)
	}

	return Summary{
		Location:    r.Name,
		Country:     r.Sys.Country,
		Temperature: r.Main.Temp,
		Description: r.Weather[0].Description,
		Humidity:    r.Main.Humidity,
		WindSpeed:   r.Wind.Speed,
	}, nil
}
