package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/macs03/dynamicweb/model"
)

var created = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func idRow(id int64) *pgxmock.Rows {
	return pgxmock.NewRows([]string{"id", "created_at"}).AddRow(id, created)
}

func newMock(t *testing.T) (pgxmock.PgxPoolIface, *repo) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, &repo{db: mock}
}

func bookingOrder() *model.BookingOrder {
	return &model.BookingOrder{
		Booking: model.Booking{
			StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
			EndDate:    time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
			FreeDays:   1,
			Price:      decimal.NewFromInt(250),
			FinalPrice: decimal.NewFromInt(200),
		},
		CustomerID:        3,
		ChargeID:          "chrg_1",
		Amount:            decimal.NewFromInt(200),
		OriginalPrice:     decimal.NewFromInt(250),
		SpecialMonthPrice: decimal.NewFromInt(900),
	}
}

func billing() *model.BillingAddress {
	return &model.BillingAddress{UserID: 1, StreetAddress: "1 Main St", City: "Bangkok", PostalCode: "10110", Country: "TH"}
}

func TestCreateBookingOrder_Commits(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO billing_addresses").WillReturnRows(idRow(11))
	mock.ExpectQuery("INSERT INTO bookings").WillReturnRows(idRow(21))
	mock.ExpectQuery("INSERT INTO booking_orders").WillReturnRows(idRow(31))
	mock.ExpectCommit()

	b, o := billing(), bookingOrder()
	require.NoError(t, r.CreateBookingOrder(context.Background(), b, o))
	require.Equal(t, int64(11), b.ID)
	require.Equal(t, int64(21), o.Booking.ID)
	require.Equal(t, int64(31), o.ID)
	require.Equal(t, int64(11), o.BillingAddressID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingOrder_OrderInsertFailsRollsBack(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO billing_addresses").WillReturnRows(idRow(11))
	mock.ExpectQuery("INSERT INTO bookings").WillReturnRows(idRow(21))
	mock.ExpectQuery("INSERT INTO booking_orders").WillReturnError(errors.New("numeric field overflow"))
	mock.ExpectRollback()

	err := r.CreateBookingOrder(context.Background(), billing(), bookingOrder())
	require.Error(t, err)
	// no commit: billing address and booking go away with the transaction
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingOrder_BookingInsertFailsRollsBack(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO billing_addresses").WillReturnRows(idRow(11))
	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(errors.New("check constraint"))
	mock.ExpectRollback()

	require.Error(t, r.CreateBookingOrder(context.Background(), billing(), bookingOrder()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateBookingOrder_CommitFails(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO billing_addresses").WillReturnRows(idRow(11))
	mock.ExpectQuery("INSERT INTO bookings").WillReturnRows(idRow(21))
	mock.ExpectQuery("INSERT INTO booking_orders").WillReturnRows(idRow(31))
	mock.ExpectCommit().WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	require.Error(t, r.CreateBookingOrder(context.Background(), billing(), bookingOrder()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateMembershipOrder_OrderInsertFailsRollsBack(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO billing_addresses").WillReturnRows(idRow(11))
	mock.ExpectQuery("INSERT INTO memberships").WillReturnRows(idRow(41))
	mock.ExpectQuery("INSERT INTO membership_orders").WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	o := &model.MembershipOrder{
		Membership: model.Membership{Type: model.MembershipType{ID: 1, Name: model.StandardMembership}},
		CustomerID: 3,
		ChargeID:   "chrg_2",
		Amount:     decimal.NewFromInt(35),
	}
	require.Error(t, r.CreateMembershipOrder(context.Background(), billing(), o))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingOrderByID_NotFound(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectQuery("FROM booking_orders").WithArgs(int64(9)).WillReturnError(pgx.ErrNoRows)

	_, _, err := r.BookingOrderByID(context.Background(), 9)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLatestMembershipOrder_None(t *testing.T) {
	mock, r := newMock(t)
	mock.ExpectQuery("FROM membership_orders").WithArgs(int64(1)).WillReturnError(pgx.ErrNoRows)

	_, err := r.LatestMembershipOrder(context.Background(), 1)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
