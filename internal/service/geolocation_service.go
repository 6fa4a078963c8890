package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cloess-chatbot-be/internal/dto"
	"cloess-chatbot-be/internal/pkg/logger"

	"github.com/patrickmn/go-cache"
)

const geoModule = "GeolocationService"

const geoUnknown = "Unknown"

type IGeolocationService interface {
	// Locate never fails; unresolvable addresses come back as Unknown.
	// raw is the provider response, nil when none was made.
	Locate(ctx context.Context, ip string) (loc *dto.GeoLocation, raw []byte)
}

type geolocationService struct {
	baseURL string
	client  *http.Client
	cache   *cache.Cache
	logger  logger.ILogger
}

type cachedLocation struct {
	loc *dto.GeoLocation
	raw []byte
}

func NewGeolocationService(baseURL string, timeout, cacheTTL time.Duration, log logger.ILogger) IGeolocationService {
	return &geolocationService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		cache:   cache.New(cacheTTL, 2*cacheTTL),
		logger:  log,
	}
}

// ipAPIResponse is the subset of fields requested from ip-api.com.
type ipAPIResponse struct {
	Status     string  `json:"status"`
	Message    string  `json:"message"`
	Country    string  `json:"country"`
	RegionName string  `json:"regionName"`
	City       string  `json:"city"`
	Lat        float64 `json:"lat"`
	Lon        float64 `json:"lon"`
}

func (s *geolocationService) Locate(ctx context.Context, ip string) (*dto.GeoLocation, []byte) {
	ip = strings.TrimSpace(ip)

	switch {
	case ip == "127.0.0.1" || ip == "::1" || ip == "localhost":
		return &dto.GeoLocation{Country: "Tunisia", City: "Tunis", Region: "Tunis", Latitude: 36.8190, Longitude: 10.1658}, nil
	case strings.HasPrefix(ip, "10.") || strings.HasPrefix(ip, "192.168."):
		return &dto.GeoLocation{Country: "Local", City: "Local", Region: "Local"}, nil
	case ip == "":
		return unknownLocation(), nil
	}

	if v, ok := s.cache.Get(ip); ok {
		hit := v.(cachedLocation)
		return hit.loc, hit.raw
	}

	loc, raw, err := s.lookup(ctx, ip)
	if err != nil {
		s.logger.Warn(geoModule, "Geolocation lookup failed", map[string]interface{}{
			"ip":    ip,
			"error": err.Error(),
		})
		return unknownLocation(), nil
	}

	s.cache.Set(ip, cachedLocation{loc: loc, raw: raw}, cache.DefaultExpiration)
	return loc, raw
}

func (s *geolocationService) lookup(ctx context.Context, ip string) (*dto.GeoLocation, []byte, error) {
	endpoint := fmt.Sprintf("%s/%s?fields=status,message,country,regionName,city,lat,lon", s.baseURL, url.PathEscape(ip))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("ip-api status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	if err != nil {
		return nil, nil, err
	}

	var body ipAPIResponse
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, nil, fmt.Errorf("decode ip-api response: %w", err)
	}
	if body.Status != "success" {
		return nil, nil, fmt.Errorf("ip-api lookup %s: %s", body.Status, body.Message)
	}

	return &dto.GeoLocation{
		Country:   orUnknown(body.Country),
		City:      orUnknown(body.City),
		Region:    orUnknown(body.RegionName),
		Latitude:  body.Lat,
		Longitude: body.Lon,
	}, raw, nil
}

func unknownLocation() *dto.GeoLocation {
	return &dto.GeoLocation{Country: geoUnknown, City: geoUnknown, Region: geoUnknown}
}

func orUnknown(v string) string {
	if v == "" {
		return geoUnknown
	}
	return v
}
