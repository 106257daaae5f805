// Package metrics define las métricas Prometheus de los servicios HTTP.
// Paquete standalone para evitar ciclos de import entre router y middlewares.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skycast_http_requests_total",
		Help: "Requests HTTP por ruta, método y status",
	}, []string{"service", "route", "method", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skycast_http_request_duration_ms",
		Help:    "Latencia de requests HTTP en milisegundos",
		Buckets: prometheus.ExponentialBuckets(1, 2, 12),
	}, []string{"service", "route"})

	WeatherUpstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "skycast_weather_upstream_requests_total",
		Help: "Llamadas al proveedor de clima por resultado (hit/miss/error)",
	}, []string{"outcome"})
)

// RegisterHTTP registra las métricas en el registry dado (default si es nil).
func RegisterHTTP(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{HTTPRequestsTotal, HTTPRequestDuration, WeatherUpstreamRequests} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
