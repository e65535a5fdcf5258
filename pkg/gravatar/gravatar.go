// gravatar.com API
package gravatar

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

const (
	BaseURL = "https://www.gravatar.com/avatar/"
)

var (
	ErrInvalidEmail     = errors.New("email is not valid UTF-8")
	ErrUnknownGenerator = errors.New("unknown generator")
)

// fallback image style the service renders when the email has no avatar of its own
type Generator string

const (
	Identicon Generator = "identicon"
	Monsterid Generator = "monsterid"
	Wavatar   Generator = "wavatar"
	Retro     Generator = "retro"
	Robohash  Generator = "robohash"
)

// "404", "mp" and "blank" are left out on purpose: they render the same boring
// image for everyone
var DefaultGenerators = []Generator{
	Identicon,
	Monsterid,
	Wavatar,
	Retro,
	Robohash,
}

func ParseGenerator(name string) (Generator, error) {
	for _, gen := range DefaultGenerators {
		if string(gen) == name {
			return gen, nil
		}
	}

	return "", fmt.Errorf("%w: %s", ErrUnknownGenerator, name)
}

type URLMapping map[Generator]string

// Generators returns keys in canonical order: recognized generators first (in
// DefaultGenerators order), then others lexically
func (u URLMapping) Generators() []Generator {
	gens := make([]Generator, 0, len(u))
	for gen := range u {
		gens = append(gens, gen)
	}

	sort.Slice(gens, func(i, j int) bool {
		ri, rj := rank(gens[i]), rank(gens[j])
		if ri != rj {
			return ri < rj
		}
		return gens[i] < gens[j]
	})

	return gens
}

// Digest is the lowercase hex SHA-256 of the lower-cased email
func Digest(email string) (string, error) {
	if !utf8.ValidString(email) {
		return "", ErrInvalidEmail
	}

	sum := sha256.Sum256([]byte(strings.ToLower(email)))

	return hex.EncodeToString(sum[:]), nil
}

// DeriveURLs builds one avatar URL per generator (all of DefaultGenerators if
// none given). size is not validated. On error the mapping is empty, not nil.
func DeriveURLs(email string, size int, generators ...Generator) (URLMapping, error) {
	urls := URLMapping{}

	digest, err := Digest(email)
	if err != nil {
		return urls, fmt.Errorf("DeriveURLs: %w", err)
	}

	if len(generators) == 0 {
		generators = DefaultGenerators
	}

	for _, gen := range generators {
		urls[gen] = Avatar(digest, size, gen)
	}

	return urls, nil
}

func Avatar(digest string, size int, defaultTo Generator) string {
	query := url.Values{
		"d": {string(defaultTo)},
		"s": {strconv.Itoa(size)},
	}

	return BaseURL + digest + "?" + query.Encode()
}

func rank(gen Generator) int {
	for idx, known := range DefaultGenerators {
		if gen == known {
			return idx
		}
	}

	return len(DefaultGenerators)
}
