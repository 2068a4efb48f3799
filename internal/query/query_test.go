package query

import (
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kindOf(t *testing.T, err error) Kind {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Kind
}

func TestValidate(t *testing.T) {
	v := NewValidator()

	t.Run("trims and returns query unchanged", func(t *testing.T) {
		q, err := v.Validate("  Mountain Lake ")
		require.NoError(t, err)
		assert.Equal(t, "Mountain Lake", q)
	})

	t.Run("length bounds are inclusive", func(t *testing.T) {
		q, err := v.Validate("ab")
		require.NoError(t, err)
		assert.Equal(t, "ab", q)

		long := strings.Repeat("a", MaxLength)
		q, err = v.Validate(long)
		require.NoError(t, err)
		assert.Equal(t, long, q)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := v.Validate("   ")
		assert.Equal(t, Empty, kindOf(t, err))
	})

	t.Run("too short", func(t *testing.T) {
		_, err := v.Validate(" a ")
		assert.Equal(t, TooShort, kindOf(t, err))
	})

	t.Run("too long", func(t *testing.T) {
		_, err := v.Validate(strings.Repeat("b", MaxLength+1))
		assert.Equal(t, TooLong, kindOf(t, err))
	})

	t.Run("denylist is case insensitive", func(t *testing.T) {
		_, err := v.Validate("xxx")
		assert.Equal(t, Disallowed, kindOf(t, err))

		_, err = v.Validate("PORN party")
		assert.Equal(t, Disallowed, kindOf(t, err))
	})

	t.Run("multibyte characters count once", func(t *testing.T) {
		q, err := v.Validate("日本")
		require.NoError(t, err)
		assert.Equal(t, "日本", q)
	})
}

func TestValidate_CustomDenylist(t *testing.T) {
	v := NewValidator("Spam")

	_, err := v.Validate("no SPAM please")
	assert.Equal(t, Disallowed, kindOf(t, err))

	q, err := v.Validate("xxx")
	require.NoError(t, err, "default terms do not apply once a list is given")
	assert.Equal(t, "xxx", q)
}

func TestBuildSearchParams(t *testing.T) {
	t.Run("defaults only", func(t *testing.T) {
		got := BuildSearchParams("cats", SearchOptions{})
		assert.Equal(t, url.Values{
			"query":    {"cats"},
			"page":     {"1"},
			"per_page": {"20"},
		}, got)
	})

	t.Run("filters included when set", func(t *testing.T) {
		got := BuildSearchParams("sea", SearchOptions{
			Page:        3,
			PerPage:     12,
			Orientation: Portrait,
			Color:       Teal,
			OrderBy:     Latest,
		})
		assert.Equal(t, "3", got.Get("page"))
		assert.Equal(t, "12", got.Get("per_page"))
		assert.Equal(t, "portrait", got.Get("orientation"))
		assert.Equal(t, "teal", got.Get("color"))
		assert.Equal(t, "latest", got.Get("order_by"))
	})

	t.Run("per page capped", func(t *testing.T) {
		got := BuildSearchParams("sea", SearchOptions{PerPage: 200})
		assert.Equal(t, "30", got.Get("per_page"))
	})
}

func TestParseEnums(t *testing.T) {
	o, err := ParseOrientation("squarish")
	require.NoError(t, err)
	assert.Equal(t, Squarish, o)

	c, err := ParseColor("")
	require.NoError(t, err)
	assert.Equal(t, Color(""), c)

	_, err = ParseColor("pink")
	assert.Equal(t, InvalidOption, kindOf(t, err))

	_, err = ParseOrderBy("popular")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "order_by")
}
