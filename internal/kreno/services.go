package kreno

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Freeeeeet/kreno_bot/internal/model"
)

const servicesEndpoint = "services_api.php"

// EnrolledServices возвращает услуги, на которые записан студент
func (c *Client) EnrolledServices(ctx context.Context, userID string) ([]model.EnrolledService, error) {
	query := url.Values{}
	query.Set("userId", userID)

	env, err := c.call(ctx, request{endpoint: servicesEndpoint, method: http.MethodGet, query: query})
	if err != nil {
		return nil, err
	}
	return list[model.EnrolledService](c, env, "services")
}
