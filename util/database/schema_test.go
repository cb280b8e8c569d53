package database

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/macs03/dynamicweb/model"
)

func TestSchema_SeedsStandardMembership(t *testing.T) {
	seed := regexp.MustCompile(`(?s)INSERT INTO membership_types \(name, first_month_price\)\s+VALUES \('([a-z]+)', [0-9.]+\)\s+ON CONFLICT \(name\) DO NOTHING;`)
	m := seed.FindStringSubmatch(schema)
	require.NotNil(t, m, "membership_types seed missing or not idempotent")
	require.Equal(t, model.StandardMembership, m[1])
}

func TestSchema_SeedsBookingPrice(t *testing.T) {
	seed := regexp.MustCompile(`(?s)INSERT INTO booking_prices \(price_per_day, special_month_price\)\s+SELECT [0-9.]+, [0-9.]+\s+WHERE NOT EXISTS \(SELECT 1 FROM booking_prices\);`)
	require.Regexp(t, seed, schema)
}
