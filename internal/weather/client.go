// Package weather habla con la API upstream de clima (weatherapi.com) y
// normaliza su respuesta al modelo propio.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/skycast-dev/skycast/internal/observability/logger"
)

var (
	// ErrCityNotFound: el upstream no conoce la ciudad pedida.
	ErrCityNotFound = errors.New("weather: city not found")
	// ErrUpstream: el upstream falló o respondió algo inesperado.
	ErrUpstream = errors.New("weather: upstream unavailable")
)

// Observation es el snapshot normalizado de clima actual para una ciudad.
type Observation struct {
	City                    string  `json:"city"`
	Country                 string  `json:"country"`
	AdminRegion             string  `json:"adminRegion"`
	Latitude                float64 `json:"latitude"`
	Longitude               float64 `json:"longitude"`
	CurrentTime             string  `json:"currentTime"`
	CurrentTemperature      float64 `json:"currentTemperature"`
	CurrentWindSpeed        float64 `json:"currentWindSpeed"`
	CurrentRelativeHumidity float64 `json:"currentRelativeHumidity"`
	Condition               string  `json:"condition,omitempty"`
}

// upstreamResponse refleja el subset que usamos del JSON de weatherapi.
type upstreamResponse struct {
	Location struct {
		Name      string  `json:"name"`
		Region    string  `json:"region"`
		Country   string  `json:"country"`
		Lat       float64 `json:"lat"`
		Lon       float64 `json:"lon"`
		Localtime string  `json:"localtime"`
	} `json:"location"`
	Current struct {
		TempC     float64 `json:"temp_c"`
		WindKph   float64 `json:"wind_kph"`
		Humidity  float64 `json:"humidity"`
		Condition struct {
			Text string `json:"text"`
		} `json:"condition"`
	} `json:"current"`
}

type upstreamError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// codigo de weatherapi para "no matching location found"
const codeNoMatchingLocation = 1006

// Client consulta el endpoint de clima actual.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

// Current trae el clima actual para city. Distingue ciudad inexistente
// (ErrCityNotFound) de fallas del upstream (ErrUpstream).
func (c *Client) Current(ctx context.Context, city string) (*Observation, error) {
	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("q", city)
	q.Set("aqi", "no")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUpstream, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var ue upstreamError
		if json.Unmarshal(body, &ue) == nil && ue.Error.Code == codeNoMatchingLocation {
			return nil, ErrCityNotFound
		}
		logger.From(ctx).Warn("weather upstream error",
			logger.City(city),
			logger.Int("status", resp.StatusCode),
		)
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	var ur upstreamResponse
	if err := json.Unmarshal(body, &ur); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUpstream, err)
	}

	return &Observation{
		City:                    ur.Location.Name,
		Country:                 ur.Location.Country,
		AdminRegion:             ur.Location.Region,
		Latitude:                ur.Location.Lat,
		Longitude:               ur.Location.Lon,
		CurrentTime:             ur.Location.Localtime,
		CurrentTemperature:      ur.Current.TempC,
		CurrentWindSpeed:        ur.Current.WindKph,
		CurrentRelativeHumidity: ur.Current.Humidity,
		Condition:               ur.Current.Condition.Text,
	}, nil
}
