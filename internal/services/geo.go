package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/desertthunder/ecoleta/internal/models"
	"github.com/desertthunder/ecoleta/internal/shared"
)

const DefaultIBGEURL = "https://servicodados.ibge.gov.br/api/v1"

var _ GeoService = (*IBGEService)(nil)

// IBGEState is the subset of an IBGE state record used for options.
type IBGEState struct {
	ID    int    `json:"id"`
	Sigla string `json:"sigla"`
	Nome  string `json:"nome"`
}

// IBGECity is the subset of an IBGE municipality record used for options.
type IBGECity struct {
	ID   int    `json:"id"`
	Nome string `json:"nome"`
}

// IBGEService implements [GeoService] against the IBGE localidades API.
type IBGEService struct {
	api *APIService
}

// NewIBGEService builds a service from [shared.GeoConfig]. A nil client gets one with the configured timeout.
func NewIBGEService(cfg shared.GeoConfig, client *http.Client) *IBGEService {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultIBGEURL
	}
	if client == nil && cfg.TimeoutSeconds > 0 {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	return &IBGEService{api: NewAPIService(baseURL, client, cfg.RateLimit)}
}

func (s *IBGEService) States(ctx context.Context) ([]models.Option, error) {
	var states []IBGEState
	if err := s.fetch(ctx, "/localidades/estados?orderBy=nome", &states); err != nil {
		return nil, err
	}

	options := make([]models.Option, 0, len(states))
	for _, st := range states {
		options = append(options, models.Option{Label: st.Sigla, Value: st.Sigla})
	}
	return options, nil
}

func (s *IBGEService) Cities(ctx context.Context, uf string) ([]models.Option, error) {
	uf = strings.ToUpper(strings.TrimSpace(uf))
	if uf == "" {
		return nil, fmt.Errorf("%w: uf", shared.ErrMissingArgument)
	}

	var cities []IBGECity
	path := "/localidades/estados/" + url.PathEscape(uf) + "/municipios?orderBy=nome"
	if err := s.fetch(ctx, path, &cities); err != nil {
		return nil, err
	}

	options := make([]models.Option, 0, len(cities))
	for _, c := range cities {
		options = append(options, models.Option{Label: c.Nome, Value: c.Nome})
	}
	return options, nil
}

func (s *IBGEService) fetch(ctx context.Context, path string, v any) error {
	resp, err := s.api.Get(ctx, path)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return fmt.Errorf("%w: GET %s returned status %d", shared.ErrUpstream, path, resp.StatusCode)
	}

	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("%w: failed to decode %s: %v", shared.ErrUpstream, path, err)
	}
	return nil
}
