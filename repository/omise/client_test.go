package omiserepo

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/omise/omise-go"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

// stubGateway answers every request with body and records the request context.
type stubGateway struct {
	body string
	seen []context.Context
}

func (g *stubGateway) RoundTrip(req *http.Request) (*http.Response, error) {
	g.seen = append(g.seen, req.Context())
	if err := req.Context().Err(); err != nil {
		return nil, err
	}
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(g.body)),
		Request:    req,
	}, nil
}

func stubClient(t *testing.T, body string) (*client, *stubGateway) {
	t.Helper()
	omc, err := omise.NewClient("pkey_test_1", "skey_test_1")
	require.NoError(t, err)
	gw := &stubGateway{body: body}
	omc.Client = &http.Client{Transport: gw}
	return newClient(omc), gw
}

func TestCreateCustomer_UsesCallerContext(t *testing.T) {
	c, gw := stubClient(t, `{"object":"customer","id":"cust_test_1"}`)

	ctx := context.WithValue(context.Background(), ctxKey{}, "req-1")
	id, err := c.CreateCustomer(ctx, "ada@example.com", "tokn_test")
	require.NoError(t, err)
	require.Equal(t, "cust_test_1", id)
	require.Len(t, gw.seen, 1)
	require.Equal(t, "req-1", gw.seen[0].Value(ctxKey{}))
}

func TestCreateCustomer_CanceledContext(t *testing.T) {
	c, _ := stubClient(t, `{"object":"customer","id":"cust_test_1"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.CreateCustomer(ctx, "ada@example.com", "tokn_test")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCharge_OutlivesCanceledCaller(t *testing.T) {
	c, gw := stubClient(t, `{"object":"charge","id":"chrg_test_1","status":"successful","amount":20000,"currency":"thb"}`)

	ctx, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "req-2"))
	cancel()
	resp, err := c.Charge(ctx, ChargeReq{Amount: 20000, Currency: "thb", CustomerID: "cust_test_1"})
	require.NoError(t, err)
	require.Equal(t, "chrg_test_1", resp.ChargeID)
	require.Equal(t, "successful", resp.Status)
	require.Len(t, gw.seen, 1)
	require.Equal(t, "req-2", gw.seen[0].Value(ctxKey{}))
}

func TestGatewayUp(t *testing.T) {
	require.True(t, gatewayUp(nil))
	require.True(t, gatewayUp(context.Canceled))
	require.True(t, gatewayUp(&omise.Error{StatusCode: http.StatusPaymentRequired, Code: "failed_capture"}))
	require.False(t, gatewayUp(&omise.Error{StatusCode: http.StatusBadGateway}))
	require.False(t, gatewayUp(errors.New("dial tcp: connection refused")))
}
