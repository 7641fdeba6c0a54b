package commerce

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	httpClient "github.com/taxbridge/taxbridge-api/internal/client/http"
	"github.com/taxbridge/taxbridge-api/internal/logger"

	"go.uber.org/zap"
)

const (
	// apiVersion pins the admin API version all queries are written against.
	apiVersion     = "2025-01"
	defaultTimeout = 15 * time.Second
)

// Client is a per-store admin GraphQL client for the commerce backend.
// Each call is a single network round trip; there is no batching.
type Client struct {
	storeDomain string
	httpClient  *httpClient.HTTPClient
}

// Option configures the commerce client.
type Option func(*Client)

// WithBaseURL overrides the admin API endpoint, used in tests.
func WithBaseURL(baseURL, accessToken string) Option {
	return func(c *Client) {
		c.httpClient = httpClient.NewHTTPClient(
			httpClient.WithBaseURL(baseURL),
			httpClient.WithDefaultHeader("X-Shopify-Access-Token", accessToken),
			httpClient.WithTimeout(defaultTimeout),
		)
	}
}

// NewClient creates an admin API client for one store. The access token is
// resolved per store by the config layer before the client is built.
func NewClient(storeDomain, accessToken string, options ...Option) *Client {
	c := &Client{
		storeDomain: storeDomain,
		httpClient: httpClient.NewHTTPClient(
			httpClient.WithBaseURL(fmt.Sprintf("https://%s/admin/api/%s", storeDomain, apiVersion)),
			httpClient.WithDefaultHeader("X-Shopify-Access-Token", accessToken),
			httpClient.WithTimeout(defaultTimeout),
			httpClient.WithRetryConfig(httpClient.DefaultRetryConfig()),
		),
	}

	for _, option := range options {
		option(c)
	}

	return c
}

// do executes one GraphQL operation and decodes its data payload into out.
func (c *Client) do(ctx context.Context, query string, variables map[string]interface{}, out interface{}) error {
	resp, err := c.httpClient.Post(ctx, "/graphql.json", graphqlRequest{
		Query:     query,
		Variables: variables,
	})
	if err != nil {
		return fmt.Errorf("commerce API request failed: %w", err)
	}

	var envelope graphqlResponse
	if err := c.httpClient.ProcessJSONResponse(resp, &envelope); err != nil {
		if httpErr, ok := err.(*httpClient.HTTPError); ok {
			return &GraphQLError{StatusCode: httpErr.StatusCode, Messages: []string{httpErr.Body}}
		}
		return fmt.Errorf("failed to decode commerce API response: %w", err)
	}

	if len(envelope.Errors) > 0 {
		messages := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			messages = append(messages, e.Message)
		}
		logger.Warn("Commerce API returned GraphQL errors",
			zap.String("store", c.storeDomain),
			zap.Strings("errors", messages))
		return &GraphQLError{StatusCode: resp.StatusCode, Messages: messages}
	}

	if out != nil {
		if err := json.Unmarshal(envelope.Data, out); err != nil {
			return fmt.Errorf("failed to decode commerce API data: %w", err)
		}
	}

	return nil
}

const findCustomerByEmailQuery = `
query getCustomerByEmail($query: String!) {
  customers(first: 1, query: $query) {
    edges {
      node {
        id
        email
        taxExempt
        metafield(namespace: "custom", key: "vat_id") {
          id
          namespace
          key
          value
          type
        }
      }
    }
  }
}`

const getCustomerByIDQuery = `
query getCustomer($id: ID!) {
  node(id: $id) {
    ... on Customer {
      id
      email
      taxExempt
      metafield(namespace: "custom", key: "vat_id") {
        id
        namespace
        key
        value
        type
      }
    }
  }
}`

const createCustomerMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer {
      id
      email
    }
    userErrors {
      field
      message
    }
  }
}`

const updateCustomerMetafieldMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer {
      id
      email
      metafield(namespace: "custom", key: "vat_id") {
        id
        namespace
        key
        value
        type
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const updateTaxExemptionMutation = `
mutation customerUpdate($input: CustomerInput!) {
  customerUpdate(input: $input) {
    customer {
      id
      email
      taxExempt
    }
    userErrors {
      field
      message
    }
  }
}`

const deleteMetafieldMutation = `
mutation metafieldsDelete($metafields: [MetafieldIdentifierInput!]!) {
  metafieldsDelete(metafields: $metafields) {
    deletedMetafields {
      ownerId
      namespace
      key
    }
    userErrors {
      field
      message
    }
  }
}`

// FindCustomerByEmail looks up a customer by email. A nil customer with a nil
// error means no customer exists for that address.
func (c *Client) FindCustomerByEmail(ctx context.Context, email string) (*Customer, error) {
	if email == "" {
		return nil, fmt.Errorf("email is required to look up a customer")
	}

	var data struct {
		Customers struct {
			Edges []struct {
				Node Customer `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}

	err := c.do(ctx, findCustomerByEmailQuery, map[string]interface{}{
		"query": "email:" + email,
	}, &data)
	if err != nil {
		return nil, err
	}

	if len(data.Customers.Edges) == 0 {
		return nil, nil
	}
	customer := data.Customers.Edges[0].Node
	return &customer, nil
}

// FindOrCreateCustomer resolves a customer id by email, creating the customer
// when absent. The lookup-first order makes the call idempotent.
func (c *Client) FindOrCreateCustomer(ctx context.Context, email string) (string, error) {
	existing, err := c.FindCustomerByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	var data struct {
		CustomerCreate customerPayload `json:"customerCreate"`
	}

	err = c.do(ctx, createCustomerMutation, map[string]interface{}{
		"input": map[string]interface{}{"email": email},
	}, &data)
	if err != nil {
		return "", err
	}
	if len(data.CustomerCreate.UserErrors) > 0 {
		return "", newUserError(data.CustomerCreate.UserErrors)
	}
	if data.CustomerCreate.Customer == nil {
		return "", fmt.Errorf("customer create returned no customer")
	}

	logger.Info("Created commerce customer",
		zap.String("store", c.storeDomain),
		zap.String("customer_id", data.CustomerCreate.Customer.ID))

	return data.CustomerCreate.Customer.ID, nil
}

// GetCustomer retrieves a customer by id when available, falling back to an
// email lookup. Returns nil, nil when neither resolves to a customer.
func (c *Client) GetCustomer(ctx context.Context, customerID, email string) (*Customer, error) {
	if customerID == "" && email == "" {
		return nil, fmt.Errorf("customer id or email is required")
	}

	if customerID != "" {
		var data struct {
			Node *Customer `json:"node"`
		}
		err := c.do(ctx, getCustomerByIDQuery, map[string]interface{}{
			"id": customerID,
		}, &data)
		if err != nil {
			return nil, err
		}
		return data.Node, nil
	}

	return c.FindCustomerByEmail(ctx, email)
}

// SetMetafield writes a single metafield on the customer record.
func (c *Client) SetMetafield(ctx context.Context, customerID, namespace, key, value, fieldType string) (*Customer, error) {
	var data struct {
		CustomerUpdate customerPayload `json:"customerUpdate"`
	}

	err := c.do(ctx, updateCustomerMetafieldMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"id": customerID,
			"metafields": []map[string]interface{}{
				{
					"namespace": namespace,
					"key":       key,
					"value":     value,
					"type":      fieldType,
				},
			},
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.CustomerUpdate.UserErrors) > 0 {
		return nil, newUserError(data.CustomerUpdate.UserErrors)
	}

	return data.CustomerUpdate.Customer, nil
}

// RemoveMetafield deletes the metafield identified by owner, namespace and
// key. Deleting a metafield that does not exist is not an error.
func (c *Client) RemoveMetafield(ctx context.Context, customerID, namespace, key string) error {
	var data struct {
		MetafieldsDelete struct {
			UserErrors []userError `json:"userErrors"`
		} `json:"metafieldsDelete"`
	}

	err := c.do(ctx, deleteMetafieldMutation, map[string]interface{}{
		"metafields": []map[string]interface{}{
			{
				"ownerId":   customerID,
				"namespace": namespace,
				"key":       key,
			},
		},
	}, &data)
	if err != nil {
		return err
	}
	if len(data.MetafieldsDelete.UserErrors) > 0 {
		return newUserError(data.MetafieldsDelete.UserErrors)
	}

	return nil
}

// SetTaxExemption toggles the customer's exemption flag in either direction.
func (c *Client) SetTaxExemption(ctx context.Context, customerID string, exempt bool) (*Customer, error) {
	var data struct {
		CustomerUpdate customerPayload `json:"customerUpdate"`
	}

	err := c.do(ctx, updateTaxExemptionMutation, map[string]interface{}{
		"input": map[string]interface{}{
			"id":        customerID,
			"taxExempt": exempt,
		},
	}, &data)
	if err != nil {
		return nil, err
	}
	if len(data.CustomerUpdate.UserErrors) > 0 {
		return nil, newUserError(data.CustomerUpdate.UserErrors)
	}

	return data.CustomerUpdate.Customer, nil
}

// GetTaxIdentifier reads the stored tax identifier for a customer, resolved
// by id or email. Returns the empty string when none is stored.
func (c *Client) GetTaxIdentifier(ctx context.Context, customerID, email string) (string, error) {
	customer, err := c.GetCustomer(ctx, customerID, email)
	if err != nil {
		return "", err
	}
	if customer == nil || customer.Metafield == nil {
		return "", nil
	}
	return customer.Metafield.Value, nil
}
