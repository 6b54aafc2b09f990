package util

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringToNullString(t *testing.T) {
	assert.False(t, StringToNullString("").Valid)
	ns := StringToNullString("x")
	assert.True(t, ns.Valid)
	assert.Equal(t, "x", ns.String)
}

func TestNullTimeRoundTrip(t *testing.T) {
	assert.Nil(t, NullTimeToPtr(sql.NullTime{}))
	assert.False(t, TimePtrToNullTime(nil).Valid)

	now := time.Now()
	ptr := NullTimeToPtr(TimePtrToNullTime(&now))
	require.NotNil(t, ptr)
	assert.True(t, now.Equal(*ptr))
}

func TestJSONColumns(t *testing.T) {
	var nilTips []string
	ns, err := JSONToNullString(nilTips)
	require.NoError(t, err)
	assert.False(t, ns.Valid)

	ns, err = JSONToNullString([]string{"Relire", "Ficher"})
	require.NoError(t, err)
	assert.Equal(t, `["Relire","Ficher"]`, ns.String)

	var tips []string
	require.NoError(t, NullStringToJSON(ns, &tips))
	assert.Equal(t, []string{"Relire", "Ficher"}, tips)

	tips = []string{"keep"}
	require.NoError(t, NullStringToJSON(sql.NullString{}, &tips))
	assert.Equal(t, []string{"keep"}, tips)
}

func TestNewULID(t *testing.T) {
	a, b := NewULID(), NewULID()
	assert.NotEqual(t, a, b)
	assert.True(t, IsULID(a))
	assert.False(t, IsULID("not-a-ulid"))
}
