package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type address struct {
	Street *string
	City   *string
}

type contact struct {
	Name     *string
	Email    *string
	Age      int
	Home     *address
	Work     address
	Previous []address
	Extra    any
	Next     *contact
	secret   *string
}

func ptr(s string) *string { return &s }

func TestNullToEmptyFillsNestedStrings(t *testing.T) {
	c := &contact{
		Name:     ptr("Anna"),
		Home:     &address{City: ptr("Goes")},
		Previous: []address{{}, {Street: ptr("Markt 1")}},
		Extra:    &address{},
	}

	NullToEmpty(c)

	require.NotNil(t, c.Email)
	assert.Equal(t, "", *c.Email)
	assert.Equal(t, "Anna", *c.Name)
	assert.Equal(t, "", *c.Home.Street)
	assert.Equal(t, "Goes", *c.Home.City)
	assert.Equal(t, "", *c.Work.Street)
	assert.Equal(t, "", *c.Previous[0].City)
	assert.Equal(t, "Markt 1", *c.Previous[1].Street)
	assert.Equal(t, "", *c.Extra.(*address).Street)
	assert.Nil(t, c.Next, "nil struct pointers stay nil")
	assert.Nil(t, c.secret, "unexported fields are not touched")
}

func TestNullToEmptySlicesAndArrays(t *testing.T) {
	list := []*address{{}, nil, {City: ptr("Bergen")}}
	NullToEmpty(list)
	assert.Equal(t, "", *list[0].Street)
	assert.Nil(t, list[1])
	assert.Equal(t, "Bergen", *list[2].City)

	arr := &[2]address{}
	NullToEmpty(arr)
	assert.Equal(t, "", *arr[1].City)
}

func TestNullToEmptyTerminatesOnCycles(t *testing.T) {
	a := &contact{}
	b := &contact{Next: a}
	a.Next = b

	NullToEmpty(a)

	assert.Equal(t, "", *a.Name)
	assert.Equal(t, "", *b.Name)
}

type inner struct {
	Label *string
}

type outer struct {
	In   inner
	Name *string
}

type aliases struct {
	First  *inner
	Second *outer
}

func TestNullToEmptyFollowsPointersSharingAnAddress(t *testing.T) {
	o := &outer{}
	NullToEmpty(&aliases{First: &o.In, Second: o})

	require.NotNil(t, o.In.Label)
	require.NotNil(t, o.Name)
	assert.Equal(t, "", *o.Name)
}

func TestNullToEmptyIgnoresNonAddressable(t *testing.T) {
	c := contact{}
	assert.NotPanics(t, func() { NullToEmpty(c) })
	assert.Nil(t, c.Name)

	assert.NotPanics(t, func() { NullToEmpty(nil) })
	assert.NotPanics(t, func() { NullToEmpty((*contact)(nil)) })
	assert.NotPanics(t, func() { NullToEmpty(42) })
}

type storyRecord struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Status string `json:"status"`
	Body   string `json:"body"`
}

type storySummary struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func TestConvertTo(t *testing.T) {
	summary, err := ConvertTo[storySummary](storyRecord{ID: 3, Title: "Weather", Status: "active"})
	require.NoError(t, err)
	assert.Equal(t, storySummary{ID: 3, Title: "Weather"}, summary)

	m, err := ConvertTo[map[string]any](storySummary{ID: 1, Title: "x"})
	require.NoError(t, err)
	assert.Equal(t, "x", m["title"])
}

func TestConvertToFailure(t *testing.T) {
	_, err := ConvertTo[storySummary](make(chan int))
	assert.Error(t, err)

	got, err := ConvertTo[storySummary]([]int{1, 2})
	assert.Error(t, err)
	assert.Zero(t, got)
}
