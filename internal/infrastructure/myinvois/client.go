// Package myinvois implementa el acceso a la plataforma MyInvois de LHDN:
// construcción del documento UBL, cliente REST y un simulador para desarrollo.
package myinvois

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/domain/entity"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
	"github.com/jhoicas/myinvois-erp/pkg/logger"
)

const (
	pathToken       = "/connect/token"
	pathSubmissions = "/api/v1.0/documentsubmissions/"
	pathDetails     = "/api/v1.0/documents/%s/details"
	pathState       = "/api/v1.0/documents/state/%s/state"

	scopeInvoicing = "InvoicingAPI"

	// margen para renovar el token antes de que venza
	tokenSkew = time.Minute

	maxResponseBytes = 4 << 20
)

// Config parámetros del cliente REST.
type Config struct {
	APIBaseURL   string
	IdentityURL  string // vacío = APIBaseURL
	ClientID     string
	ClientSecret string
	OnBehalfOf   string // TIN del contribuyente representado (intermediarios)
	Timeout      time.Duration
}

// Client implementa appeinvoice.Submitter contra el API REST de MyInvois.
// El token OAuth2 (client_credentials) se cachea hasta poco antes de vencer.
type Client struct {
	cfg        Config
	httpClient *http.Client
	clk        clock.Clock
	log        *logger.Logger

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

var _ appeinvoice.Submitter = (*Client)(nil)

// NewClient construye el cliente. clk nil = reloj real.
func NewClient(cfg Config, clk clock.Clock, log *logger.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.IdentityURL == "" {
		cfg.IdentityURL = cfg.APIBaseURL
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	cfg.IdentityURL = strings.TrimRight(cfg.IdentityURL, "/")
	if clk == nil {
		clk = clock.Real()
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		clk:        clk,
		log:        log.Component("myinvois"),
	}
}

// accessToken devuelve el token cacheado o pide uno nuevo.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.clk.Now().Before(c.expiresAt) {
		return c.token, nil
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("scope", scopeInvoicing)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.IdentityURL+pathToken, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("myinvois: crear request de token: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if c.cfg.OnBehalfOf != "" {
		req.Header.Set("onbehalfof", c.cfg.OnBehalfOf)
	}

	var tok tokenResponse
	if err := c.send(req, &tok); err != nil {
		return "", err
	}
	if tok.AccessToken == "" {
		return "", fmt.Errorf("myinvois: respuesta de token sin access_token")
	}
	ttl := time.Duration(tok.ExpiresIn)*time.Second - tokenSkew
	if ttl < 0 {
		ttl = 0
	}
	c.token = tok.AccessToken
	c.expiresAt = c.clk.Now().Add(ttl)
	c.log.Debug().Dur("ttl", ttl).Msg("token MyInvois renovado")
	return c.token, nil
}

func (c *Client) invalidateToken() {
	c.mu.Lock()
	c.token = ""
	c.mu.Unlock()
}

// call ejecuta una llamada autenticada; ante 401 renueva el token y reintenta una vez.
func (c *Client) call(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("myinvois: serializar body: %w", err)
		}
	}
	for attempt := 0; ; attempt++ {
		token, err := c.accessToken(ctx)
		if err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIBaseURL+path, bytes.NewReader(payload))
		if err != nil {
			return fmt.Errorf("myinvois: crear request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Accept", "application/json")
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		err = c.send(req, out)
		var apiErr *APIError
		if attempt == 0 && errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			c.invalidateToken()
			continue
		}
		return err
	}
}

func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx := req.Context(); ctx.Err() != nil {
			return fmt.Errorf("myinvois: timeout o cancelación: %w", ctx.Err())
		}
		return fmt.Errorf("myinvois: llamada HTTP fallida: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("myinvois: leer respuesta: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseAPIError(resp.StatusCode, raw)
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("myinvois: parsear respuesta: %w", err)
	}
	return nil
}

// maxErrorRunes tope del cuerpo no JSON que se conserva como mensaje.
const maxErrorRunes = 300

func parseAPIError(status int, raw []byte) error {
	var body struct {
		Error json.RawMessage `json:"error"`
	}
	e := &APIError{StatusCode: status, Message: http.StatusText(status)}
	if json.Unmarshal(raw, &body) == nil && len(body.Error) > 0 {
		var detail apiError
		var text string
		switch {
		case json.Unmarshal(body.Error, &detail) == nil && (detail.Code != "" || detail.Message != ""):
			e.Code, e.Message = detail.Code, detail.Message
		case json.Unmarshal(body.Error, &text) == nil && text != "":
			e.Message = text
		}
		return e
	}
	if s := strings.TrimSpace(string(raw)); s != "" {
		if r := []rune(s); len(r) > maxErrorRunes {
			s = string(r[:maxErrorRunes])
		}
		e.Message = s
	}
	return e
}

// Submit envía un documento (lote de uno) a MyInvois.
func (c *Client) Submit(ctx context.Context, doc appeinvoice.SubmissionDocument) (*appeinvoice.SubmissionResult, error) {
	req := submitRequest{Documents: []submitDocument{{
		Format:       doc.Format,
		Document:     base64.StdEncoding.EncodeToString(doc.Content),
		DocumentHash: doc.Hash,
		CodeNumber:   doc.CodeNumber,
	}}}
	var resp submitResponse
	if err := c.call(ctx, http.MethodPost, pathSubmissions, req, &resp); err != nil {
		return nil, err
	}
	out := &appeinvoice.SubmissionResult{SubmissionUID: resp.SubmissionUID}
	for _, a := range resp.AcceptedDocuments {
		out.Accepted = append(out.Accepted, appeinvoice.AcceptedDocument{UUID: a.UUID, CodeNumber: a.InvoiceCodeNumber})
	}
	for _, r := range resp.RejectedDocuments {
		out.Rejected = append(out.Rejected, appeinvoice.RejectedDocument{
			CodeNumber: r.InvoiceCodeNumber,
			Errors:     flattenAPIError(r.Error),
		})
	}
	return out, nil
}

// flattenAPIError convierte el error y sus detalles en una lista plana.
func flattenAPIError(e apiError) []entity.ValidationError {
	out := []entity.ValidationError{}
	if len(e.Details) == 0 {
		return append(out, entity.ValidationError{Code: e.Code, Message: e.Message, Target: e.Target})
	}
	for _, d := range e.Details {
		out = append(out, flattenAPIError(d)...)
	}
	return out
}

// GetDocument consulta el estado y los resultados de validación de un documento.
func (c *Client) GetDocument(ctx context.Context, uuid string) (*appeinvoice.DocumentDetails, error) {
	var d documentDetails
	if err := c.call(ctx, http.MethodGet, fmt.Sprintf(pathDetails, url.PathEscape(uuid)), nil, &d); err != nil {
		return nil, err
	}
	out := &appeinvoice.DocumentDetails{
		UUID:        d.UUID,
		LongID:      d.LongID,
		Status:      d.Status,
		ValidatedAt: d.DateTimeValidated,
	}
	if d.ValidationResults != nil {
		for _, step := range d.ValidationResults.ValidationSteps {
			if step.Error == nil {
				continue
			}
			out.Errors = append(out.Errors, flattenStepError(step.Name, *step.Error)...)
		}
	}
	return out, nil
}

func flattenStepError(step string, e stepError) []entity.ValidationError {
	if len(e.InnerError) > 0 {
		var out []entity.ValidationError
		for _, inner := range e.InnerError {
			out = append(out, flattenStepError(step, inner)...)
		}
		return out
	}
	target := e.PropertyPath
	if target == "" {
		target = e.PropertyName
	}
	if target == "" {
		target = step
	}
	return []entity.ValidationError{{Code: e.ErrorCode, Message: e.Error, Target: target}}
}

// Cancel solicita la cancelación de un documento validado.
func (c *Client) Cancel(ctx context.Context, uuid, reason string) error {
	return c.call(ctx, http.MethodPut, fmt.Sprintf(pathState, url.PathEscape(uuid)),
		stateRequest{Status: "cancelled", Reason: reason}, nil)
}
