package afipws

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/gestion-comercial-api/internal/application/billing"
	"github.com/jhoicas/gestion-comercial-api/internal/domain"
)

var _ billing.AFIPService = (*GatewayClient)(nil)

// Resultados de FECAESolicitar.
const (
	resultApproved = "A"
	resultRejected = "R"
)

// GatewayClient cliente JSON del servicio externo de factura electrónica.
// El servicio resuelve WSAA (ticket de acceso) y traduce a WSFEv1.
type GatewayClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewGatewayClient construye el cliente. timeout <= 0 usa 30 s; WSFEv1 puede demorar varios segundos.
func NewGatewayClient(baseURL, token string, timeout time.Duration) *GatewayClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &GatewayClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ── Estructuras de respuesta ──────────────────────────────────────────────────

type lastAuthorizedResponse struct {
	Number int64 `json:"number"`
}

type message struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
}

func (m message) String() string { return fmt.Sprintf("%d: %s", m.Code, m.Msg) }

type authorizeResponse struct {
	Result       string    `json:"result"`
	Number       int64     `json:"number"`
	CAE          string    `json:"cae"`
	CAEDueDate   string    `json:"cae_due_date"` // yyyymmdd, como lo devuelve WSFEv1
	Observations []message `json:"observations"`
	Errors       []message `json:"errors"`
}

// ── Operaciones ──────────────────────────────────────────────────────────────

// LastAuthorized GET /v1/vouchers/last (FECompUltimoAutorizado).
func (c *GatewayClient) LastAuthorized(ctx context.Context, pointOfSale, voucherType int) (int64, error) {
	q := url.Values{}
	q.Set("point_of_sale", strconv.Itoa(pointOfSale))
	q.Set("voucher_type", strconv.Itoa(voucherType))
	var out lastAuthorizedResponse
	if err := c.do(ctx, http.MethodGet, "/v1/vouchers/last?"+q.Encode(), nil, &out); err != nil {
		return 0, err
	}
	return out.Number, nil
}

// Authorize POST /v1/vouchers (FECAESolicitar).
func (c *GatewayClient) Authorize(ctx context.Context, req billing.VoucherRequest) (*billing.VoucherResult, error) {
	var out authorizeResponse
	if err := c.do(ctx, http.MethodPost, "/v1/vouchers", req, &out); err != nil {
		return nil, err
	}
	if out.Result != resultApproved {
		return nil, rejection(out)
	}
	due, err := time.ParseInLocation("20060102", out.CAEDueDate, time.Local)
	if err != nil {
		return nil, fmt.Errorf("%w: vencimiento de CAE inválido %q", domain.ErrAFIPUnavailable, out.CAEDueDate)
	}
	res := &billing.VoucherResult{Number: out.Number, CAE: out.CAE, CAEDueDate: due}
	for _, o := range out.Observations {
		res.Observations = append(res.Observations, o.String())
	}
	return res, nil
}

// rejection arma el error con todos los mensajes de AFIP.
func rejection(out authorizeResponse) error {
	msgs := make([]string, 0, len(out.Errors)+len(out.Observations))
	for _, e := range out.Errors {
		msgs = append(msgs, e.String())
	}
	for _, o := range out.Observations {
		msgs = append(msgs, o.String())
	}
	if len(msgs) == 0 {
		msgs = append(msgs, "resultado "+out.Result)
	}
	return fmt.Errorf("%w: %s", domain.ErrAFIPRejected, strings.Join(msgs, "; "))
}

// do ejecuta la llamada. 4xx con mensajes de AFIP es rechazo; red, 5xx y 401 son no disponibilidad.
func (c *GatewayClient) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("afip gateway: serializar: %w", err)
		}
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("afip gateway: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%w: timeout o cancelación: %v", domain.ErrAFIPUnavailable, ctx.Err())
		}
		return fmt.Errorf("%w: %v", domain.ErrAFIPUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%w: leer respuesta: %v", domain.ErrAFIPUnavailable, err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
	case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusUnauthorized:
		var ar authorizeResponse
		if json.Unmarshal(raw, &ar) == nil && len(ar.Errors) > 0 {
			ar.Result = resultRejected
			return rejection(ar)
		}
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrAFIPRejected, resp.StatusCode, truncate(raw))
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrAFIPUnavailable, resp.StatusCode, truncate(raw))
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(domain.ErrAFIPUnavailable, fmt.Errorf("respuesta inválida: %w", err))
	}
	return nil
}

func truncate(b []byte) string {
	const limit = 300
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "…"
	}
	return s
}
