package ports

import "context"

// AuthPort authenticates the value of the access_token cookie presented at
// websocket connect time and returns the user id it names.
type AuthPort interface {
	Authenticate(ctx context.Context, cookieValue string) (userID string, err error)
}
