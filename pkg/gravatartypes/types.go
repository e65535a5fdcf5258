package gravatartypes

import (
	"github.com/function61/gravatars/pkg/gravatar"
)

// response of the server's URL derivation API
type URLs struct {
	Digest string              `json:"digest"`
	Size   int                 `json:"size"`
	URLs   gravatar.URLMapping `json:"urls"`
}
