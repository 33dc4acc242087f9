// Package geocode turns coordinates into a human-readable address.
//
// The Client speaks the OpenStreetMap Nominatim reverse API:
//
//	GET {base}/reverse?format=json&lat=51.5&lon=-0.09
//
// and reads the display_name field of the response. Resolution never fails
// from the caller's point of view: transport errors, timeouts, HTTP errors,
// undecodable payloads and payloads without a place name all collapse to
// FallbackAddress. Each call makes exactly one request; there are no
// retries and no rate limiting.
package geocode
