package dates

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	d, err := Parse("2025-03-01")
	require.NoError(t, err)
	assert.Equal(t, New(2025, time.March, 1), d)

	d, err = Parse("2025-03-01T00:00:00.000Z")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", d.String())

	for _, bad := range []string{"", "01/03/2025", "2025-13-01", "mañana"} {
		_, err := Parse(bad)
		assert.Error(t, err, bad)
	}
}

func TestToday(t *testing.T) {
	madrid, err := time.LoadLocation("Europe/Madrid")
	require.NoError(t, err)

	// 23:30 UTC on Feb 28 is already March 1 in Madrid.
	now := time.Date(2025, time.February, 28, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "2025-03-01", Today(now, madrid).String())
	assert.Equal(t, "2025-02-28", Today(now, time.UTC).String())
}

func TestJSON(t *testing.T) {
	type payload struct {
		Due  Date  `json:"due"`
		Back *Date `json:"back"`
	}
	var p payload
	require.NoError(t, json.Unmarshal([]byte(`{"due":"2025-04-10","back":null}`), &p))
	assert.Equal(t, New(2025, time.April, 10), p.Due)
	assert.Nil(t, p.Back)

	out, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"due":"2025-04-10","back":null}`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"due":"10/04/2025"}`), &p))
	assert.Error(t, json.Unmarshal([]byte(`{"due":20250410}`), &p))
}

func TestScanValue(t *testing.T) {
	var d Date
	require.NoError(t, d.Scan(time.Date(2025, 5, 6, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "2025-05-06", d.String())

	require.NoError(t, d.Scan([]byte("2024-12-31")))
	assert.Equal(t, New(2024, time.December, 31), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	v, err := New(2025, 1, 2).Value()
	require.NoError(t, err)
	assert.Equal(t, "2025-01-02", v)

	v, err = Date{}.Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestCompare(t *testing.T) {
	a, b := New(2025, 1, 1), New(2025, 1, 2)
	assert.True(t, b.After(a))
	assert.True(t, a.Before(b))
	assert.Equal(t, b, a.AddDays(1))
	assert.Nil(t, Ptr(Date{}))
	assert.Equal(t, a, *Ptr(a))
}
