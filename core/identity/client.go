package identity

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

const adminUsersPath = "/auth/v1/admin/users"

// Client wraps the identity provider admin API.
type Client struct {
	http     *resty.Client
	pageSize int
	log      *zap.Logger
}

// NewClient creates an admin API client for the configured provider.
func NewClient(cfg Config, log *zap.Logger) *Client {
	pageSize := cfg.PageSize
	if pageSize <= 0 {
		pageSize = 100
	}
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	http := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")).
		SetHeader("apikey", cfg.ServiceRoleKey).
		SetAuthToken(cfg.ServiceRoleKey).
		SetHeader("Content-Type", "application/json").
		SetTimeout(time.Duration(timeout) * time.Second)

	return &Client{http: http, pageSize: pageSize, log: log}
}

type listResponse struct {
	Users []Account `json:"users"`
}

// ListAll pages through every account in the provider.
//
// The loop terminates when a returned page is strictly smaller than the page
// size. A full last page therefore triggers exactly one more fetch; testing
// for emptiness instead would drop that page's successor or loop forever.
func (c *Client) ListAll(ctx context.Context) ([]Account, error) {
	var accounts []Account
	for page := 1; ; page++ {
		var out listResponse
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("page", strconv.Itoa(page)).
			SetQueryParam("per_page", strconv.Itoa(c.pageSize)).
			SetResult(&out).
			Get(adminUsersPath)
		if err != nil {
			return nil, fmt.Errorf("failed to list identity accounts (page %d): %w", page, err)
		}
		if resp.IsError() {
			return nil, apiError("list users", resp)
		}

		accounts = append(accounts, out.Users...)
		if len(out.Users) < c.pageSize {
			break
		}
	}
	return accounts, nil
}

// FindByEmail returns the account with the given email, or nil if none
// exists. The comparison is case-insensitive; the provider offers no
// server-side email filter on the admin listing.
func (c *Client) FindByEmail(ctx context.Context, email string) (*Account, error) {
	accounts, err := c.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, email) {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

type accountPayload struct {
	Email        string         `json:"email"`
	Password     string         `json:"password,omitempty"`
	EmailConfirm bool           `json:"email_confirm"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// CreateOrUpdate brings the account for in.Email to the desired state. When
// the account exists its metadata is merged, not replaced: keys accumulated
// between runs survive, while the role key always takes the new value.
func (c *Client) CreateOrUpdate(ctx context.Context, in UpsertInput) (*UpsertResult, error) {
	existing, err := c.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}

	metadata := make(map[string]any)
	if existing != nil {
		for k, v := range existing.UserMetadata {
			metadata[k] = v
		}
	}
	for k, v := range in.Metadata {
		metadata[k] = v
	}
	metadata["role"] = in.Role

	payload := accountPayload{
		Email:        in.Email,
		Password:     in.Password,
		EmailConfirm: true,
		UserMetadata: metadata,
	}

	if existing != nil {
		var updated Account
		resp, err := c.http.R().
			SetContext(ctx).
			SetBody(payload).
			SetResult(&updated).
			Put(adminUsersPath + "/" + existing.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to update identity account %s: %w", in.Email, err)
		}
		if resp.IsError() {
			return nil, apiError("update user", resp)
		}
		return &UpsertResult{ID: existing.ID, Action: ActionUpdated}, nil
	}

	var created Account
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&created).
		Post(adminUsersPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create identity account %s: %w", in.Email, err)
	}
	if resp.IsError() {
		return nil, apiError("create user", resp)
	}
	return &UpsertResult{ID: created.ID, Action: ActionCreated}, nil
}

// DeleteNonAdmin enumerates all accounts and deletes every one that is
// neither in the preserve set nor carries an admin role in its metadata.
// Per-account delete failures are logged and counted, not raised.
func (c *Client) DeleteNonAdmin(ctx context.Context, preserve map[string]struct{}) (DeleteReport, error) {
	var report DeleteReport

	accounts, err := c.ListAll(ctx)
	if err != nil {
		return report, err
	}

	for _, account := range accounts {
		if _, ok := preserve[account.ID]; ok {
			report.Preserved++
			continue
		}
		if role := account.Role(); role == "admin" || role == "super_admin" {
			report.Preserved++
			continue
		}

		resp, err := c.http.R().
			SetContext(ctx).
			Delete(adminUsersPath + "/" + account.ID)
		if err == nil && resp.IsError() {
			err = apiError("delete user", resp)
		}
		if err != nil {
			report.Failed++
			c.log.Warn("failed to delete identity account",
				zap.String("id", account.ID),
				zap.String("email", account.Email),
				zap.Error(err),
			)
			continue
		}
		report.Deleted++
	}

	return report, nil
}

func apiError(op string, resp *resty.Response) error {
	body := strings.TrimSpace(resp.String())
	if len(body) > 200 {
		body = body[:200]
	}
	return fmt.Errorf("identity api: %s failed with status %d: %s", op, resp.StatusCode(), body)
}
