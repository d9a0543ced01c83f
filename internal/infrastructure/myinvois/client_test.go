package myinvois_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appeinvoice "github.com/jhoicas/myinvois-erp/internal/application/einvoice"
	"github.com/jhoicas/myinvois-erp/internal/infrastructure/myinvois"
	"github.com/jhoicas/myinvois-erp/pkg/clock"
)

type fakeAPI struct {
	tokens    atomic.Int32
	reject401 atomic.Bool
	lastBody  []byte
	lastPath  string
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/connect/token", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.Form.Get("grant_type"))
		assert.Equal(t, "InvoicingAPI", r.Form.Get("scope"))
		n := f.tokens.Add(1)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": fmt.Sprintf("tok-%d", n),
			"expires_in":   3600,
			"token_type":   "Bearer",
		})
	})
	mux.HandleFunc("/api/v1.0/documentsubmissions/", func(w http.ResponseWriter, r *http.Request) {
		if f.reject401.CompareAndSwap(true, false) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer tok-"))
		f.lastBody = readAll(r)
		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{
			"submissionUid":"SUB1",
			"acceptedDocuments":[{"uuid":"UUID1","invoiceCodeNumber":"INV-001"}],
			"rejectedDocuments":[{"invoiceCodeNumber":"INV-002","error":{"code":"ValidationError","message":"x",
				"details":[{"code":"CF321","message":"Issuance date time value of the document is too old","target":"DatetimeIssued"}]}}]
		}`))
	})
	mux.HandleFunc("/api/v1.0/documents/UUID1/details", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"uuid":"UUID1","longId":"LONG1","status":"Invalid","dateTimeValidated":"2024-03-15T10:00:00Z",
			"validationResults":{"status":"Invalid","validationSteps":[
				{"status":"Valid","name":"Step01-Structure Validator"},
				{"status":"Invalid","name":"Step03-Taxpayer Validator","error":{"propertyName":"","errorCode":"DS302",
					"error":"wrap","innerError":[{"propertyPath":"Invoice.AccountingCustomerParty","errorCode":"CV302","error":"TIN not found"}]}}
			]}
		}`))
	})
	mux.HandleFunc("/api/v1.0/documents/state/UUID1/state", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		f.lastPath = r.URL.Path
		f.lastBody = readAll(r)
		_, _ = w.Write([]byte(`{"uuid":"UUID1","status":"Cancelled"}`))
	})
	mux.HandleFunc("/api/v1.0/documents/state/OLD/state", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"code":"OperationPeriodOver","message":"The time limit for cancellation has expired"}}`))
	})
	mux.HandleFunc("/api/v1.0/documents/GATEWAY/details", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(strings.Repeat("ralat pelayan é ", 40)))
	})
	return mux
}

func readAll(r *http.Request) []byte {
	b, _ := io.ReadAll(r.Body)
	return b
}

func newClient(t *testing.T) (*myinvois.Client, *fakeAPI, *clock.Fake) {
	t.Helper()
	api := &fakeAPI{}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)
	clk := clock.NewFake(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	c := myinvois.NewClient(myinvois.Config{
		APIBaseURL:   srv.URL,
		ClientID:     "id",
		ClientSecret: "secret",
	}, clk, nil)
	return c, api, clk
}

func TestSubmit_MapeaAceptadosYRechazados(t *testing.T) {
	c, api, _ := newClient(t)
	res, err := c.Submit(context.Background(), appeinvoice.SubmissionDocument{
		CodeNumber: "INV-001", Format: "XML", Content: []byte("<Invoice/>"), Hash: "abc",
	})
	require.NoError(t, err)
	assert.Equal(t, "SUB1", res.SubmissionUID)
	require.Len(t, res.Accepted, 1)
	assert.Equal(t, "UUID1", res.Accepted[0].UUID)
	require.Len(t, res.Rejected, 1)
	assert.Equal(t, "CF321", res.Rejected[0].Errors[0].Code)
	assert.Equal(t, "DatetimeIssued", res.Rejected[0].Errors[0].Target)

	var body struct {
		Documents []struct {
			Format, Document, DocumentHash, CodeNumber string
		}
	}
	require.NoError(t, json.Unmarshal(api.lastBody, &body))
	require.Len(t, body.Documents, 1)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("<Invoice/>")), body.Documents[0].Document)
	assert.Equal(t, "abc", body.Documents[0].DocumentHash)
}

func TestToken_SeCacheaYSeRenuevaAlVencer(t *testing.T) {
	c, api, clk := newClient(t)
	ctx := context.Background()
	doc := appeinvoice.SubmissionDocument{CodeNumber: "INV-001", Format: "XML", Content: []byte("x"), Hash: "h"}

	_, err := c.Submit(ctx, doc)
	require.NoError(t, err)
	_, err = c.Submit(ctx, doc)
	require.NoError(t, err)
	assert.EqualValues(t, 1, api.tokens.Load())

	clk.Advance(59 * time.Minute)
	_, err = c.Submit(ctx, doc)
	require.NoError(t, err)
	assert.EqualValues(t, 2, api.tokens.Load(), "se renueva un minuto antes de expirar")
}

func TestCall_401RenuevaTokenUnaVez(t *testing.T) {
	c, api, _ := newClient(t)
	api.reject401.Store(true)
	_, err := c.Submit(context.Background(), appeinvoice.SubmissionDocument{CodeNumber: "INV-001", Format: "XML", Content: []byte("x"), Hash: "h"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, api.tokens.Load())
}

func TestGetDocument_AplanaErroresDeValidacion(t *testing.T) {
	c, _, _ := newClient(t)
	d, err := c.GetDocument(context.Background(), "UUID1")
	require.NoError(t, err)
	assert.Equal(t, appeinvoice.RemoteInvalid, d.Status)
	assert.Equal(t, "LONG1", d.LongID)
	require.NotNil(t, d.ValidatedAt)
	assert.Equal(t, time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC), d.ValidatedAt.UTC())
	require.Len(t, d.Errors, 1)
	assert.Equal(t, "CV302", d.Errors[0].Code)
	assert.Equal(t, "Invoice.AccountingCustomerParty", d.Errors[0].Target)
}

func TestCancel(t *testing.T) {
	c, api, _ := newClient(t)
	require.NoError(t, c.Cancel(context.Background(), "UUID1", "Wrong buyer"))
	assert.JSONEq(t, `{"status":"cancelled","reason":"Wrong buyer"}`, string(api.lastBody))

	err := c.Cancel(context.Background(), "OLD", "late")
	var apiErr *myinvois.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "OperationPeriodOver", apiErr.Code)
}

func TestGetDocument_ErrorNoJSONSeRecortaSinRomperUTF8(t *testing.T) {
	c, _, _ := newClient(t)
	_, err := c.GetDocument(context.Background(), "GATEWAY")
	var apiErr *myinvois.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.True(t, utf8.ValidString(apiErr.Message))
	assert.Equal(t, 300, utf8.RuneCountInString(apiErr.Message))
	assert.True(t, strings.HasPrefix(apiErr.Message, "ralat pelayan é"))
}

func TestDevSubmitter_CicloCompleto(t *testing.T) {
	clk := clock.NewFake(time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC))
	d := myinvois.NewDevSubmitter(clk, nil)
	ctx := context.Background()

	res, err := d.Submit(ctx, appeinvoice.SubmissionDocument{CodeNumber: "INV-1", Content: []byte("x"), Hash: "h"})
	require.NoError(t, err)
	require.Len(t, res.Accepted, 1)
	id := res.Accepted[0].UUID

	det, err := d.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, appeinvoice.RemoteSubmitted, det.Status)

	clk.Advance(myinvois.DevValidationDelay)
	det, err = d.GetDocument(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, appeinvoice.RemoteValid, det.Status)
	assert.NotEmpty(t, det.LongID)
	require.NotNil(t, det.ValidatedAt)

	require.NoError(t, d.Cancel(ctx, id, "dup"))
	det, _ = d.GetDocument(ctx, id)
	assert.Equal(t, appeinvoice.RemoteCancelled, det.Status)

	rej, err := d.Submit(ctx, appeinvoice.SubmissionDocument{CodeNumber: "INV-2"})
	require.NoError(t, err)
	assert.Empty(t, rej.Accepted)
	require.Len(t, rej.Rejected, 1)
}
