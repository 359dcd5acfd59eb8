package http

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ekrukov/shortly/internal/database"
	"github.com/ekrukov/shortly/internal/models"
)

// createLinkRequest represents the request payload for creating a short link.
// The field names mirror the public API contract.
type createLinkRequest struct {
	OriginalURL    string     `json:"originalUrl" validate:"required"`
	CustomAlias    string     `json:"customAlias,omitempty" validate:"omitempty,min=3,max=64,alphanum"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// updateLinkRequest represents the request payload for a partial link update.
// Omitted fields leave the link untouched.
type updateLinkRequest struct {
	OriginalURL    *string    `json:"originalUrl,omitempty" validate:"omitempty,min=1"`
	CustomAlias    *string    `json:"customAlias,omitempty" validate:"omitempty,min=3,max=64,alphanum"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// credentialsRequest represents the request payload for registration and login.
type credentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// tokenResponse carries the bearer token issued on registration and login.
type tokenResponse struct {
	Token string `json:"token"`
}

// linkResponse represents the response payload for a link operation.
// The owner is deliberately not serialized.
type linkResponse struct {
	Alias          string     `json:"alias"`
	OriginalURL    string     `json:"originalUrl"`
	VisitCount     int64      `json:"visitCount"`
	CreatedAt      time.Time  `json:"createdAt"`
	ExpirationDate *time.Time `json:"expirationDate,omitempty"`
}

// toLinkResponse converts a link model from the business layer into a response payload.
func toLinkResponse(link *models.Link) linkResponse {
	return linkResponse{
		Alias:          link.Alias,
		OriginalURL:    link.OriginalURL,
		VisitCount:     link.VisitCount,
		CreatedAt:      link.CreatedAt,
		ExpirationDate: link.ExpiresAt,
	}
}

func toLinkResponses(links []*models.Link) []linkResponse {
	resp := make([]linkResponse, 0, len(links))
	for _, link := range links {
		resp = append(resp, toLinkResponse(link))
	}
	return resp
}

// listMeta describes the pagination window of a link listing. Total reflects
// the filter, not the page.
type listMeta struct {
	Total  int64 `json:"total"`
	Limit  int   `json:"limit"`
	Offset int   `json:"offset"`
}

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

// parseListFilter builds a link filter from the list query parameters:
// limit, offset, creationDate (comma-separated RFC 3339 range) and
// expirationStatus (active|expired).
func parseListFilter(query url.Values) (database.LinkFilter, error) {
	filter := database.LinkFilter{Limit: defaultListLimit}

	if v := query.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxListLimit {
			return filter, fmt.Errorf("invalid limit: %q", v)
		}
		filter.Limit = n
	}

	if v := query.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return filter, fmt.Errorf("invalid offset: %q", v)
		}
		filter.Offset = n
	}

	if v := query.Get("creationDate"); v != "" {
		parts := strings.SplitN(v, ",", 2)

		if s := strings.TrimSpace(parts[0]); s != "" {
			t, err := time.Parse(time.RFC3339, s)
			if err != nil {
				return filter, fmt.Errorf("invalid creation date range start: %q", s)
			}
			filter.CreatedFrom = &t
		}

		if len(parts) == 2 {
			if s := strings.TrimSpace(parts[1]); s != "" {
				t, err := time.Parse(time.RFC3339, s)
				if err != nil {
					return filter, fmt.Errorf("invalid creation date range end: %q", s)
				}
				filter.CreatedTo = &t
			}
		}
	}

	switch v := query.Get("expirationStatus"); v {
	case "":
	case string(database.StatusActive):
		filter.Status = database.StatusActive
	case string(database.StatusExpired):
		filter.Status = database.StatusExpired
	default:
		return filter, fmt.Errorf("invalid expiration status: %q", v)
	}

	return filter, nil
}
