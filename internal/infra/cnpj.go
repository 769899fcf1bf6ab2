package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ErrCNPJNaoEncontrado is returned when the registry answers but knows no such company.
var ErrCNPJNaoEncontrado = errors.New("cnpj não encontrado")

// CNPJInfo is the subset of the receitaws payload the registries use.
type CNPJInfo struct {
	CNPJ       string `json:"cnpj"`
	Nome       string `json:"nome"`
	Fantasia   string `json:"fantasia"`
	Logradouro string `json:"logradouro"`
	Numero     string `json:"numero"`
	Bairro     string `json:"bairro"`
	Municipio  string `json:"municipio"`
	UF         string `json:"uf"`
	CEP        string `json:"cep"`
	Telefone   string `json:"telefone"`
	Email      string `json:"email"`
	Situacao   string `json:"situacao"`
	Status     string `json:"status"`
	Message    string `json:"message,omitempty"`
}

// CNPJClient queries the public receitaws API through a circuit breaker.
type CNPJClient struct {
	baseURL    string
	httpClient *http.Client
	breaker    *Breaker
}

func NewCNPJClient(baseURL string) *CNPJClient {
	return &CNPJClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		breaker:    NewBreaker(DefaultBreakerConfig()),
	}
}

// BreakerState exposes the breaker for the health endpoint.
func (c *CNPJClient) BreakerState() BreakerState { return c.breaker.State() }

// Consultar fetches company data for a digits-only CNPJ.
func (c *CNPJClient) Consultar(ctx context.Context, cnpj string) (*CNPJInfo, error) {
	var info CNPJInfo
	err := c.breaker.Do(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+cnpj, nil)
		if err != nil {
			return fmt.Errorf("cnpj: create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("cnpj: upstream unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("cnpj: upstream returned %d", resp.StatusCode)
		}
		if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
			return fmt.Errorf("cnpj: decode response: %w", err)
		}
		if strings.EqualFold(info.Status, "ERROR") {
			return fmt.Errorf("%w: %s", ErrCNPJNaoEncontrado, info.Message)
		}
		return nil
	}, func(err error) bool { return errors.Is(err, ErrCNPJNaoEncontrado) })
	if err != nil {
		return nil, err
	}
	return &info, nil
}
