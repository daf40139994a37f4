package repository

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidPaginationToken is returned when a pagination token cannot be decoded.
	ErrInvalidPaginationToken = errors.New("token is invalid")
)

const (
	// DefaultPaginationLimit is the page size used when only a token is supplied.
	DefaultPaginationLimit = 100
	maxPaginationLimit     = 1000

	tokenPrefix = "after:"
)

// Paginator holds the keyset cursor: the last product ID of the previous page.
type Paginator struct {
	LastID int64
}

// Encode encodes the paginator state into a URL-safe base64 token.
func (t Paginator) Encode() string {
	return base64.URLEncoding.EncodeToString([]byte(tokenPrefix + strconv.FormatInt(t.LastID, 10)))
}

// DecodePageToken decodes a base64-encoded pagination token into a Paginator.
func DecodePageToken(encodedToken string) (*Paginator, error) {
	bytes, err := base64.URLEncoding.DecodeString(encodedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 token: %w", err)
	}
	idPart, found := strings.CutPrefix(string(bytes), tokenPrefix)
	if !found {
		return nil, fmt.Errorf("invalid token format: %w", ErrInvalidPaginationToken)
	}

	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id < 0 {
		return nil, fmt.Errorf("failed to parse token ID %q: %w", idPart, ErrInvalidPaginationToken)
	}

	return &Paginator{LastID: id}, nil
}
