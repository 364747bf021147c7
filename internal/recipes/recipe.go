package recipes

import (
	"math/rand/v2"
	"strconv"
)

// MaxID is the upper bound for client generated recipe ids.
const MaxID = 10000

type Recipe struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Link     string `json:"link"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

// NewID returns a pseudo-random id in [1, MaxID]. Collisions with existing
// recipes are possible and not checked.
func NewID() string {
	return strconv.Itoa(rand.IntN(MaxID) + 1)
}
