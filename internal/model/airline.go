package model

// Airline represents an operator row in the `airlines` table.
//
// Fields:
//
//	Name     – display name of the airline.
//	IATA     – 2–3 character code; empty for airlines without one.
//	ICAO     – three letter ICAO designator.
//	Callsign – radio callsign.
//	Country  – free-text country name, joined to countries.name.
type Airline struct {
	Name     string `json:"name"`
	IATA     string `json:"iata"`
	ICAO     string `json:"icao"`
	Callsign string `json:"callsign"`
	Country  string `json:"country"`
}
