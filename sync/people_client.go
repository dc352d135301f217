// ABOUTME: Google People API client for contacts import
// ABOUTME: Wraps people.Service behind the page-at-a-time source the importer reads
package sync

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"
	"google.golang.org/api/people/v1"
)

const personFields = "names,emailAddresses,phoneNumbers,organizations,biographies"

// ConnectionSource returns one page of the user's connections. syncToken,
// when set, limits the page to changes since that token.
type ConnectionSource interface {
	ListConnections(ctx context.Context, pageToken, syncToken string) (*people.ListConnectionsResponse, error)
}

// PeopleClient reads connections from the People API.
type PeopleClient struct {
	service *people.Service
}

// NewPeopleClient creates a People API client authorised by token.
func NewPeopleClient(ctx context.Context, token *oauth2.Token) (*PeopleClient, error) {
	if token == nil {
		return nil, fmt.Errorf("token cannot be nil")
	}

	client := NewOAuthConfig().Client(ctx, token)
	service, err := people.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create People service: %w", err)
	}
	return &PeopleClient{service: service}, nil
}

func (c *PeopleClient) ListConnections(ctx context.Context, pageToken, syncToken string) (*people.ListConnectionsResponse, error) {
	call := c.service.People.Connections.List("people/me").
		PageSize(1000).
		PersonFields(personFields).
		RequestSyncToken(true).
		Context(ctx)
	if pageToken != "" {
		call = call.PageToken(pageToken)
	}
	if syncToken != "" {
		call = call.SyncToken(syncToken)
	}
	return call.Do()
}
