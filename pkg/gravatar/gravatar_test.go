package gravatar

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/function61/gokit/testing/assert"
)

// sha256("test@example.com")
const testDigest = "973dfe463ec85785f5f95af5ba3906eedb2d931c24e69824a89ea65dba4e813b"

func TestDeriveURLs(t *testing.T) {
	urls, err := DeriveURLs("test@example.com", 200)
	assert.Ok(t, err)

	assert.Equal(t, len(urls), 5)

	for _, gen := range []Generator{Identicon, Monsterid, Wavatar, Retro, Robohash} {
		gen := gen // pin

		t.Run(string(gen), func(t *testing.T) {
			avatarURL, found := urls[gen]
			assert.Assert(t, found)

			assert.Assert(t, strings.HasPrefix(avatarURL, BaseURL+testDigest+"?"))
			assert.Assert(t, strings.Contains(avatarURL, "d="+string(gen)))
			assert.Assert(t, strings.Contains(avatarURL, "s=200"))
		})
	}

	assert.Equal(t, urls[Retro], "https://www.gravatar.com/avatar/"+testDigest+"?d=retro&s=200")
}

func TestDeriveURLsIsDeterministic(t *testing.T) {
	first, err := DeriveURLs("Someone+tag@Example.org", 80)
	assert.Ok(t, err)
	second, err := DeriveURLs("Someone+tag@Example.org", 80)
	assert.Ok(t, err)

	assert.Equal(t, len(first), len(second))
	for gen, avatarURL := range first {
		assert.Equal(t, second[gen], avatarURL)
	}
}

func TestDigestIgnoresCase(t *testing.T) {
	upper, err := Digest("A@B.com")
	assert.Ok(t, err)
	lower, err := Digest("a@b.com")
	assert.Ok(t, err)

	assert.Equal(t, upper, lower)
}

func TestDigestShape(t *testing.T) {
	hex64 := regexp.MustCompile("^[0-9a-f]{64}$")

	for _, email := range []string{"", "test@example.com", "ÄNNE@example.com", "   "} {
		digest, err := Digest(email)
		assert.Ok(t, err)
		assert.Assert(t, hex64.MatchString(digest))
	}

	// sha256("")
	empty, _ := Digest("")
	assert.Equal(t, empty, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855")
}

func TestDeriveURLsRequestedGenerators(t *testing.T) {
	urls, err := DeriveURLs("test@example.com", 64, Wavatar, Identicon, Wavatar)
	assert.Ok(t, err)

	assert.Equal(t, len(urls), 2)
	assert.Equal(t, urls.Generators()[0], Identicon)
	assert.Equal(t, urls.Generators()[1], Wavatar)
}

func TestDeriveURLsPassesSizeThrough(t *testing.T) {
	urls, err := DeriveURLs("test@example.com", -5, Retro)
	assert.Ok(t, err)

	assert.Equal(t, urls[Retro], BaseURL+testDigest+"?d=retro&s=-5")
}

func TestDeriveURLsInvalidUTF8(t *testing.T) {
	urls, err := DeriveURLs("bad\xffemail@example.com", 200)

	assert.Assert(t, errors.Is(err, ErrInvalidEmail))
	assert.Assert(t, urls != nil)
	assert.Equal(t, len(urls), 0)
}

func TestParseGenerator(t *testing.T) {
	gen, err := ParseGenerator("robohash")
	assert.Ok(t, err)
	assert.Equal(t, gen, Robohash)

	_, err = ParseGenerator("blank")
	assert.Assert(t, errors.Is(err, ErrUnknownGenerator))
	assert.Equal(t, err.Error(), "unknown generator: blank")
}

func TestGeneratorsOrder(t *testing.T) {
	urls := URLMapping{
		"zzz":     "c",
		Robohash:  "b",
		"aaa":     "d",
		Identicon: "a",
	}

	ordered := []string{}
	for _, gen := range urls.Generators() {
		ordered = append(ordered, string(gen))
	}

	assert.Equal(t, strings.Join(ordered, ","), "identicon,robohash,aaa,zzz")
}
