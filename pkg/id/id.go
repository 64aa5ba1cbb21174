package id

import (
	"crypto/rand"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entity prefixes used across the persisted models. Identifiers are immutable
// once assigned and always carry their prefix, e.g. "pl_01J8...".
const (
	PrefixPriceList     = "pl"
	PrefixPriceEntry    = "price"
	PrefixCustomerGroup = "cgrp"
)

var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// New generates a prefixed, lexicographically sortable identifier.
func New(prefix string) string {
	entropyMu.Lock()
	value := ulid.MustNew(ulid.Timestamp(time.Now().UTC()), entropy)
	entropyMu.Unlock()
	return fmt.Sprintf("%s_%s", prefix, value.String())
}

// HasPrefix reports whether the identifier carries the expected entity prefix.
func HasPrefix(identifier, prefix string) bool {
	return strings.HasPrefix(identifier, prefix+"_")
}
