package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/telhawk-systems/thawk-deploy/internal/content"
)

// catalogProperties is the properties block shared by catalog listings.
type catalogProperties struct {
	ContentID   string `json:"contentId"`
	DisplayName string `json:"displayName"`
	Version     string `json:"version"`
	ContentKind string `json:"contentKind"`
	PackageID   string `json:"packageId"`
}

// ListPackages returns the catalog's installable content packages.
func (c *Client) ListPackages(ctx context.Context) ([]content.CatalogEntry, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.insightsPath("/contentProductPackages"), contentAPIVersion, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list content packages: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list content packages: %w", c.decodeError(resp))
	}

	var listing struct {
		Value []struct {
			Name       string            `json:"name"`
			Properties catalogProperties `json:"properties"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode package listing: %w", err)
	}

	entries := make([]content.CatalogEntry, 0, len(listing.Value))
	for _, item := range listing.Value {
		entries = append(entries, content.CatalogEntry{
			Name:        item.Name,
			ContentID:   item.Properties.ContentID,
			DisplayName: item.Properties.DisplayName,
			Version:     item.Properties.Version,
			ContentKind: item.Properties.ContentKind,
		})
	}
	return entries, nil
}

// GetPackage fetches one package's full deployable template by catalog name.
func (c *Client) GetPackage(ctx context.Context, name string) (*content.PackageDetail, error) {
	path := c.insightsPath("/contentProductPackages/" + url.PathEscape(name))
	resp, err := c.doRequest(ctx, http.MethodGet, path, contentAPIVersion, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package %q: %w", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch package %q: %w", name, c.decodeError(resp))
	}

	var envelope struct {
		Name       string `json:"name"`
		Properties struct {
			catalogProperties
			MainTemplate map[string]any `json:"mainTemplate"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode package %q: %w", name, err)
	}

	return &content.PackageDetail{
		CatalogEntry: content.CatalogEntry{
			Name:        envelope.Name,
			ContentID:   envelope.Properties.ContentID,
			DisplayName: envelope.Properties.DisplayName,
			Version:     envelope.Properties.Version,
			ContentKind: envelope.Properties.ContentKind,
		},
		Template: envelope.Properties.MainTemplate,
	}, nil
}

// ListRuleTemplates returns the catalog's analytics-rule templates. Entries
// of other content kinds are filtered out.
func (c *Client) ListRuleTemplates(ctx context.Context) ([]content.RuleTemplate, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, c.insightsPath("/contentTemplates"), contentAPIVersion, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list rule templates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to list rule templates: %w", c.decodeError(resp))
	}

	var listing struct {
		Value []struct {
			Name       string `json:"name"`
			Properties struct {
				catalogProperties
				MainTemplate struct {
					Resources []content.TemplateResource `json:"resources"`
				} `json:"mainTemplate"`
			} `json:"properties"`
		} `json:"value"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("failed to decode template listing: %w", err)
	}

	templates := make([]content.RuleTemplate, 0, len(listing.Value))
	for _, item := range listing.Value {
		if item.Properties.ContentKind != "AnalyticsRule" {
			continue
		}
		tpl := content.RuleTemplate{
			Name:        item.Name,
			ContentID:   item.Properties.ContentID,
			PackageID:   item.Properties.PackageID,
			DisplayName: item.Properties.DisplayName,
			Version:     item.Properties.Version,
			Resources:   item.Properties.MainTemplate.Resources,
		}
		if main, ok := tpl.MainResource(); ok {
			if sev, ok := main.Properties["severity"].(string); ok {
				tpl.Severity = content.ParseSeverity(sev)
			}
		}
		templates = append(templates, tpl)
	}
	return templates, nil
}
