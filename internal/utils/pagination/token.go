package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stitchadmin/stitchadmin/internal/core/domain"
)

const dateFormat = time.DateOnly

// EncodePostingCursor creates a base64 encoded token from the (date, id) of the last posting on a page.
func EncodePostingCursor(c domain.PostingCursor) string {
	tokenStr := fmt.Sprintf("%s|%d", c.Date.Format(dateFormat), c.ID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodePostingCursor parses a token produced by EncodePostingCursor.
func DecodePostingCursor(token string) (domain.PostingCursor, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return domain.PostingCursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return domain.PostingCursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(dateFormat, parts[0])
	if err != nil {
		return domain.PostingCursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	id, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || id <= 0 {
		return domain.PostingCursor{}, fmt.Errorf("invalid pagination token format (id parse)")
	}

	return domain.PostingCursor{Date: date, ID: id}, nil
}

// NextPostingToken returns the token for the page after postings, or nil when
// fewer than limit rows came back.
func NextPostingToken(postings []domain.Posting, limit int) *string {
	if limit <= 0 || len(postings) < limit {
		return nil
	}
	last := postings[len(postings)-1]
	token := EncodePostingCursor(domain.PostingCursor{Date: last.Date, ID: last.ID})
	return &token
}
