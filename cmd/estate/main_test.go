package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/estate"
	"github.com/aretw0/estate/pkg/listings"
	"github.com/aretw0/estate/pkg/suggest"
	"github.com/aretw0/estate/pkg/units"
)

// run executes the CLI against dir and returns what it printed on stdout.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ESTATE_ADAPTER", "fs")
	t.Setenv("ESTATE_LOG_LEVEL", "error")
	t.Setenv("ESTATE_LOG_FORMAT", "text")
	t.Setenv("GEMINI_API_KEY", "")

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--data-dir", dir}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "estate version "+estate.Version+"\n", out)
}

func TestConvert(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "convert", "5", "hectares", "sqm")
	require.NoError(t, err)
	assert.Equal(t, "50000 sqm\n", out)

	out, err = run(t, dir, "--json", "convert", "5", "hectares", "acres")
	require.NoError(t, err)
	var q units.Quantity
	require.NoError(t, json.Unmarshal([]byte(out), &q))
	assert.Equal(t, units.Quantity{Value: 12.3553, Unit: units.Acres}, q)

	_, err = run(t, dir, "convert", "5", "hectares")
	assert.Error(t, err)
}

func TestListingsFallBackToDefaults(t *testing.T) {
	out, err := run(t, t.TempDir(), "--json", "listings", "list")
	require.NoError(t, err)

	var props []listings.Property
	require.NoError(t, json.Unmarshal([]byte(out), &props))
	assert.Len(t, props, len(listings.DefaultProperties()))
}

func TestListingsLifecycle(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "--json", "listings", "add",
		"--title", "Farm Plot", "--location", "Chongwe", "--type", "land",
		"--status", "For Sale", "--price", "25000", "--currency", "usd",
		"--size", "2", "--unit", "acres", "--amenities", "Borehole, ,Fence",
		"--description", "Flat arable land")
	require.NoError(t, err)
	var added listings.Property
	require.NoError(t, json.Unmarshal([]byte(out), &added))
	assert.Equal(t, listings.Land, added.Type)
	assert.Equal(t, []string{"Borehole", "Fence"}, added.Amenities)

	out, err = run(t, dir, "--json", "listings", "update", added.ID, "--price", "30000")
	require.NoError(t, err)
	var updated listings.Property
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, 30000.0, updated.Price.Amount)
	assert.Equal(t, "Farm Plot", updated.Title)

	out, err = run(t, dir, "--json", "listings", "show", added.ID, "--unit", "sqm")
	require.NoError(t, err)
	var shown listings.Property
	require.NoError(t, json.Unmarshal([]byte(out), &shown))
	assert.Equal(t, units.SquareMeters, shown.Size.Unit)

	out, err = run(t, dir, "listings", "search", "chongwe")
	require.NoError(t, err)
	assert.Contains(t, out, added.ID)

	_, err = run(t, dir, "listings", "delete", added.ID)
	require.NoError(t, err)

	_, err = run(t, dir, "listings", "show", added.ID)
	assert.True(t, errors.Is(err, listings.ErrNotFound), "got %v", err)
}

func TestListingsAddRejectsInvalidDraft(t *testing.T) {
	_, err := run(t, t.TempDir(), "listings", "add", "--title", " ", "--type", "land")
	assert.True(t, errors.Is(err, listings.ErrValidation), "got %v", err)

	_, err = run(t, t.TempDir(), "listings", "add", "--title", "x", "--type", "castle")
	assert.Error(t, err)
}

func TestListingsStats(t *testing.T) {
	out, err := run(t, t.TempDir(), "--json", "listings", "stats")
	require.NoError(t, err)

	var s stats
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.ByType[listings.Commercial])
	assert.Equal(t, 2, s.ByType[listings.Residential])
	assert.Equal(t, 3, s.Testimonials)
}

func TestReviews(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, dir, "reviews", "add", "--name", "Jane Doe", "--rating", "4", "--comment", "Smooth purchase")
	require.NoError(t, err)

	out, err := run(t, dir, "--json", "reviews", "list")
	require.NoError(t, err)
	var ts []listings.Testimonial
	require.NoError(t, json.Unmarshal([]byte(out), &ts))
	require.Len(t, ts, 4)
	assert.Equal(t, "Jane Doe", ts[3].Name)

	_, err = run(t, dir, "reviews", "add", "--name", "X", "--rating", "9", "--comment", "too good")
	assert.True(t, errors.Is(err, listings.ErrValidation), "got %v", err)
}

func TestContent(t *testing.T) {
	dir := t.TempDir()
	defaults := listings.DefaultSiteContent()

	_, err := run(t, dir, "content", "set", "--headline", "Land for everyone")
	require.NoError(t, err)

	out, err := run(t, dir, "--json", "content", "show")
	require.NoError(t, err)
	var c listings.SiteContent
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, "Land for everyone", c.HeroHeadline)
	assert.Equal(t, defaults.ContactEmail, c.ContactEmail)

	_, err = run(t, dir, "content", "reset")
	require.NoError(t, err)

	out, err = run(t, dir, "--json", "content", "show")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &c))
	assert.Equal(t, defaults, c)
}

func TestSeedAndStatus(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, dir, "seed")
	require.NoError(t, err)
	assert.Equal(t, "Seeded: 4 properties, 3 testimonials\n", out)

	out, err = run(t, dir, "--json", "status")
	require.NoError(t, err)
	var st struct {
		Keys []string `json:"keys"`
		Type string   `json:"mediumType"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	assert.Equal(t, []string{listings.KeyProperties, listings.KeyTestimonials}, st.Keys)
	assert.Equal(t, "fs", st.Type)
}

func TestReadOnly(t *testing.T) {
	dir := t.TempDir()
	_, err := run(t, dir, "seed")
	require.NoError(t, err)

	_, err = run(t, dir, "--read-only", "reviews", "delete", "test-1")
	assert.Error(t, err)
}

func TestSuggestWithoutModel(t *testing.T) {
	out, err := run(t, t.TempDir(), "suggest", "plot", "near", "Lusaka", "--user-type", "investor")
	require.NoError(t, err)
	assert.Equal(t, "No suggestions\n", out)

	_, err = run(t, t.TempDir(), "suggest", "plot", "--user-type", "tourist")
	assert.True(t, errors.Is(err, suggest.ErrInvalidUserType), "got %v", err)
}

func TestJSONAndYAMLAreExclusive(t *testing.T) {
	_, err := run(t, t.TempDir(), "--json", "--yaml", "listings", "list")
	assert.Error(t, err)
}
