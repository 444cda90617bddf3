package dto

type DestinationResponse struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	// GeoJSON order: [lon, lat].
	Coordinates []float64 `json:"coordinates"`
}

type ListDestinationsResponse struct {
	Destinations []DestinationResponse `json:"destinations"`
}
