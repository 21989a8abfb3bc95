package flight

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"flightdesk/pkg/cache"
	"flightdesk/pkg/logger"
)

const airportsCacheKey = "flightdesk:airports"

// AirportSource lists the airport reference data.
type AirportSource interface {
	ListAirports(ctx context.Context) ([]Airport, error)
}

// AirportCatalog serves airport reference data through a shared cache. The
// cache is best effort: its failures are logged and the remote service is
// asked instead.
type AirportCatalog struct {
	source AirportSource
	cache  cache.Cache
	ttl    time.Duration
	logger logger.Logger
}

func NewAirportCatalog(source AirportSource, c cache.Cache, ttlMinutes int, log logger.Logger) *AirportCatalog {
	return &AirportCatalog{
		source: source,
		cache:  c,
		ttl:    time.Duration(ttlMinutes) * time.Minute,
		logger: log,
	}
}

func (c *AirportCatalog) List(ctx context.Context) ([]Airport, error) {
	if c.cache != nil {
		cached, err := c.cache.Get(ctx, airportsCacheKey)
		switch {
		case err == nil && cached != "":
			var airports []Airport
			uerr := json.Unmarshal([]byte(cached), &airports)
			if uerr == nil {
				return airports, nil
			}
			c.logger.Error("failed to unmarshal cached airports", logger.Err(uerr))
		case err != nil && !errors.Is(err, cache.ErrMiss):
			c.logger.Warn("airport cache unavailable", logger.Err(err))
		}
	}

	airports, err := c.source.ListAirports(ctx)
	if err != nil {
		return nil, err
	}
	if airports == nil {
		airports = []Airport{}
	}

	if c.cache != nil {
		payload, err := json.Marshal(airports)
		if err != nil {
			c.logger.Error("failed to marshal airports", logger.Err(err))
			return airports, nil
		}
		if err := c.cache.Set(ctx, airportsCacheKey, string(payload), c.ttl); err != nil {
			c.logger.Warn("failed to cache airports", logger.Err(err))
		}
	}

	return airports, nil
}
