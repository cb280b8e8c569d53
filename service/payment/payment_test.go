package paymentsvc

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/macs03/dynamicweb/model"
	customerrepo "github.com/macs03/dynamicweb/repository/customer"
	omiserepo "github.com/macs03/dynamicweb/repository/omise"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// memCustomers is an in-memory customer mapping keyed by lowercased email.
type memCustomers struct {
	byEmail map[string]*model.Customer
	nextID  int64
	// raceWinner, when set, is stored right before the next Insert to simulate
	// a concurrent first payment.
	raceWinner *model.Customer
}

var _ customerrepo.Repo = (*memCustomers)(nil)

func newMemCustomers() *memCustomers { return &memCustomers{byEmail: map[string]*model.Customer{}} }

func (m *memCustomers) ByEmail(ctx context.Context, email string) (*model.Customer, error) {
	c, ok := m.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, customerrepo.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCustomers) Insert(ctx context.Context, c *model.Customer) error {
	if m.raceWinner != nil {
		m.byEmail[strings.ToLower(m.raceWinner.Email)] = m.raceWinner
		m.raceWinner = nil
	}
	if _, ok := m.byEmail[strings.ToLower(c.Email)]; ok {
		return customerrepo.ErrDuplicate
	}
	m.nextID++
	c.ID = m.nextID
	cp := *c
	m.byEmail[strings.ToLower(c.Email)] = &cp
	return nil
}

func (m *memCustomers) UpdateRemoteID(ctx context.Context, id int64, remoteID string) error {
	for _, c := range m.byEmail {
		if c.ID == id {
			c.RemoteID = remoteID
			return nil
		}
	}
	return customerrepo.ErrNotFound
}

type fakeGateway struct {
	created  int
	attached []string
	gone     map[string]bool
	createFn func(email, token string) (string, error)
	chargeFn func(req omiserepo.ChargeReq) (*omiserepo.ChargeResp, error)
	charges  []omiserepo.ChargeReq
}

var _ omiserepo.Repo = (*fakeGateway)(nil)

func (g *fakeGateway) CreateCustomer(ctx context.Context, email, token string) (string, error) {
	if g.createFn != nil {
		return g.createFn(email, token)
	}
	g.created++
	return "cust_" + strings.Repeat("x", g.created), nil
}

func (g *fakeGateway) AttachCard(ctx context.Context, customerID, token string) error {
	if g.gone[customerID] {
		return omiserepo.ErrCustomerNotFound
	}
	g.attached = append(g.attached, customerID+":"+token)
	return nil
}

func (g *fakeGateway) Charge(ctx context.Context, req omiserepo.ChargeReq) (*omiserepo.ChargeResp, error) {
	g.charges = append(g.charges, req)
	return g.chargeFn(req)
}

var ada = model.User{ID: 1, Email: "Ada@Example.com"}

func TestGetOrCreate_IdempotentPerEmail(t *testing.T) {
	ctx := context.Background()
	repo := newMemCustomers()
	gw := &fakeGateway{}
	d := NewDirectory(repo, gw, discard)

	first, err := d.GetOrCreate(ctx, ada, "tokn_1")
	require.NoError(t, err)
	second, err := d.GetOrCreate(ctx, model.User{ID: 1, Email: "ada@example.com"}, "tokn_2")
	require.NoError(t, err)

	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.RemoteID, second.RemoteID)
	require.Equal(t, 1, gw.created)
	require.Equal(t, []string{first.RemoteID + ":tokn_2"}, gw.attached)
	require.Len(t, repo.byEmail, 1)
}

func TestGetOrCreate_GatewayRejectsCard(t *testing.T) {
	repo := newMemCustomers()
	gw := &fakeGateway{createFn: func(email, token string) (string, error) {
		return "", errors.New("invalid card token")
	}}
	d := NewDirectory(repo, gw, discard)

	c, err := d.GetOrCreate(context.Background(), ada, "tokn_bad")
	require.Error(t, err)
	require.Nil(t, c)
	require.Empty(t, repo.byEmail)
}

func TestGetOrCreate_RequiresToken(t *testing.T) {
	d := NewDirectory(newMemCustomers(), &fakeGateway{}, discard)
	_, err := d.GetOrCreate(context.Background(), ada, "")
	require.Error(t, err)
}

func TestGetOrCreate_RecreatesRemovedRemoteCustomer(t *testing.T) {
	ctx := context.Background()
	repo := newMemCustomers()
	gw := &fakeGateway{gone: map[string]bool{}}
	d := NewDirectory(repo, gw, discard)

	first, err := d.GetOrCreate(ctx, ada, "tokn_1")
	require.NoError(t, err)
	gw.gone[first.RemoteID] = true

	again, err := d.GetOrCreate(ctx, ada, "tokn_2")
	require.NoError(t, err)
	require.Equal(t, first.ID, again.ID)
	require.NotEqual(t, first.RemoteID, again.RemoteID)

	stored, err := repo.ByEmail(ctx, ada.Email)
	require.NoError(t, err)
	require.Equal(t, again.RemoteID, stored.RemoteID)
}

func TestGetOrCreate_ConcurrentInsertKeepsWinner(t *testing.T) {
	ctx := context.Background()
	repo := newMemCustomers()
	repo.raceWinner = &model.Customer{ID: 99, UserID: 1, Email: "ada@example.com", RemoteID: "cust_winner"}
	gw := &fakeGateway{}
	d := NewDirectory(repo, gw, discard)

	c, err := d.GetOrCreate(ctx, ada, "tokn_1")
	require.NoError(t, err)
	require.Equal(t, int64(99), c.ID)
	require.Equal(t, "cust_winner", c.RemoteID)
}

func TestMinorUnits(t *testing.T) {
	require.Equal(t, int64(25000), MinorUnits(decimal.NewFromInt(250)))
	require.Equal(t, int64(1999), MinorUnits(decimal.RequireFromString("19.99")))
	require.Equal(t, int64(1000), MinorUnits(decimal.RequireFromString("9.995")))
}

func TestCharge_Successful(t *testing.T) {
	gw := &fakeGateway{chargeFn: func(req omiserepo.ChargeReq) (*omiserepo.ChargeResp, error) {
		return &omiserepo.ChargeResp{ChargeID: "chrg_1", Status: "successful", Amount: req.Amount, Currency: req.Currency}, nil
	}}
	c := NewCharger(gw, "usd", discard)

	ch, err := c.Charge(context.Background(), decimal.NewFromInt(200), model.Customer{ID: 3, RemoteID: "cust_1"}, "booking")
	require.NoError(t, err)
	require.Equal(t, "chrg_1", ch.ID)
	require.True(t, decimal.NewFromInt(200).Equal(ch.Amount))

	require.Len(t, gw.charges, 1)
	require.Equal(t, int64(20000), gw.charges[0].Amount)
	require.Equal(t, "cust_1", gw.charges[0].CustomerID)
	require.Equal(t, "usd", gw.charges[0].Currency)
}

func TestCharge_Failures(t *testing.T) {
	cases := []struct {
		name   string
		resp   *omiserepo.ChargeResp
		err    error
		reason string
	}{
		{"declined with message", &omiserepo.ChargeResp{Status: "failed", FailureCode: "insufficient_fund", FailureMessage: "insufficient funds in the account"}, nil, "insufficient funds in the account"},
		{"declined without message", &omiserepo.ChargeResp{Status: "failed"}, nil, "card was declined"},
		{"pending 3ds", &omiserepo.ChargeResp{Status: "pending"}, nil, "payment requires additional authorization"},
		{"transport", nil, errors.New("dial tcp: timeout"), "payment gateway unavailable, please try again later"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			gw := &fakeGateway{chargeFn: func(req omiserepo.ChargeReq) (*omiserepo.ChargeResp, error) {
				return tc.resp, tc.err
			}}
			c := NewCharger(gw, "usd", discard)

			ch, err := c.Charge(context.Background(), decimal.NewFromInt(10), model.Customer{RemoteID: "cust_1"}, "x")
			require.Nil(t, ch)
			var d *Declined
			require.ErrorAs(t, err, &d)
			require.Equal(t, tc.reason, d.UserReason())
		})
	}
}

func TestCharge_ZeroAmountNeverReachesGateway(t *testing.T) {
	gw := &fakeGateway{}
	c := NewCharger(gw, "usd", discard)

	_, err := c.Charge(context.Background(), decimal.Zero, model.Customer{RemoteID: "cust_1"}, "x")
	require.Error(t, err)
	require.Empty(t, gw.charges)
}
